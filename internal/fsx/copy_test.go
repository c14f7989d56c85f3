package fsx

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "IMG_0001.JPG")
	dst := filepath.Join(dir, "out", "20210704101530.jpg")
	writeFile(t, src, []byte("photo bytes"))
	if err := os.Mkdir(filepath.Dir(dst), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	var c Copier
	if err := c.Copy(src, dst); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if string(got) != "photo bytes" {
		t.Errorf("destination = %q; want %q", got, "photo bytes")
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source was touched: %v", err)
	}
}

func TestCopyOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "new.jpg")
	dst := filepath.Join(dir, "existing.jpg")
	writeFile(t, src, []byte("new"))
	writeFile(t, dst, []byte("a much longer old payload"))

	var c Copier
	if err := c.Copy(src, dst); err != nil {
		t.Fatalf("Copy() error = %v", err)
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "new" {
		t.Errorf("destination = %q; want %q", got, "new")
	}
}

func TestCopyErrors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.jpg")
	writeFile(t, src, []byte("data"))
	readOnly := filepath.Join(dir, "readonly.jpg")
	writeFile(t, readOnly, []byte("keep"))

	tests := []struct {
		name   string
		src    string
		dst    string
		inject bool
		side   Side
	}{
		{name: "missing source", src: filepath.Join(dir, "missing.jpg"), dst: filepath.Join(dir, "a.jpg"), side: SideRead},
		{name: "source is a directory", src: dir, dst: filepath.Join(dir, "b.jpg"), side: SideRead},
		{name: "destination directory missing", src: src, dst: filepath.Join(dir, "nope", "c.jpg"), side: SideWrite},
		{name: "destination rejects writes", src: src, dst: filepath.Join(dir, "d.jpg"), inject: true, side: SideWrite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.inject {
				old := openDestination
				openDestination = func(string, int, os.FileMode) (*os.File, error) {
					return os.Open(readOnly)
				}
				defer func() { openDestination = old }()
			}

			var c Copier
			err := c.Copy(tt.src, tt.dst)
			if err == nil {
				t.Fatalf("Copy() error = nil; want %s-side error", tt.side)
			}
			side, ok := IsCopyError(err)
			if !ok {
				t.Fatalf("Copy() error type = %T; want *CopyError", err)
			}
			if side != tt.side {
				t.Errorf("CopyError.Side = %s; want %s (%v)", side, tt.side, err)
			}
		})
	}
}

func TestCopySameDestinationKeepsOneWholeFile(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "20210704101530.jpg")

	const n = 8
	payloads := make(map[string]bool, n)
	srcs := make([]string, n)
	for i := range srcs {
		data := bytes.Repeat([]byte(fmt.Sprintf("%d", i)), 256*1024)
		payloads[string(data)] = true
		srcs[i] = filepath.Join(dir, fmt.Sprintf("src%d.jpg", i))
		writeFile(t, srcs[i], data)
	}

	var (
		c  Copier
		wg sync.WaitGroup
	)
	errs := make([]error, n)
	for i, src := range srcs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = c.Copy(src, dst)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Copy(%d) error = %v", i, err)
		}
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("read destination: %v", err)
	}
	if !payloads[string(got)] {
		t.Errorf("destination holds a mix of sources (%d bytes)", len(got))
	}
}
