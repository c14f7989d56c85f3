package fsx

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

// Replaceable in tests to inject write-side failures.
var openDestination = os.OpenFile

// Side names the half of a copy that failed.
type Side string

const (
	SideRead  Side = "read"
	SideWrite Side = "write"
)

// CopyError is a failed byte-stream copy.
type CopyError struct {
	Src  string
	Dst  string
	Side Side
	Err  error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %q -> %q (%s): %v", e.Src, e.Dst, e.Side, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

// IsCopyError reports whether err is a *CopyError and returns its side.
func IsCopyError(err error) (Side, bool) {
	var e *CopyError
	if errors.As(err, &e) {
		return e.Side, true
	}
	return "", false
}

// Copier streams files into place. Copies that target the same destination
// path run one after another, so the last copy to finish leaves a complete
// file. The zero value is ready to use.
type Copier struct {
	locks sync.Map // cleaned destination path -> *sync.Mutex
}

// Copy writes the contents of src to dst, creating dst or truncating an
// existing file. src is never modified.
func (c *Copier) Copy(src, dst string) error {
	unlock := c.lock(dst)
	defer unlock()

	in, err := os.Open(src)
	if err != nil {
		return &CopyError{Src: src, Dst: dst, Side: SideRead, Err: err}
	}
	defer in.Close()

	out, err := openDestination(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return &CopyError{Src: src, Dst: dst, Side: SideWrite, Err: err}
	}

	r := &sideReader{r: in}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		side := SideWrite
		if r.err != nil {
			side = SideRead
		}
		return &CopyError{Src: src, Dst: dst, Side: side, Err: err}
	}
	if err := out.Close(); err != nil {
		return &CopyError{Src: src, Dst: dst, Side: SideWrite, Err: err}
	}
	return nil
}

func (c *Copier) lock(path string) func() {
	v, _ := c.locks.LoadOrStore(filepath.Clean(path), &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// sideReader remembers read errors so a failed io.Copy can be attributed.
type sideReader struct {
	r   io.Reader
	err error
}

func (s *sideReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && err != io.EOF {
		s.err = err
	}
	return n, err
}
