package media

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/saracen/walker"
)

// Filename filters. Matching is case-sensitive, like a shell glob.
var (
	PhotoPatterns = []string{"*.jpg", "*.JPG"}
	VideoPatterns = []string{"*.mov", "*.MOV"}
)

// Patterns returns the filename filters used for a scan.
func Patterns(includeVideos bool) []string {
	out := append([]string(nil), PhotoPatterns...)
	if includeVideos {
		out = append(out, VideoPatterns...)
	}
	return out
}

// FileRecord is a candidate file discovered under the source tree.
type FileRecord struct {
	Name       string
	SourcePath string
}

// ScanWarning is a problem with a single entry that does not stop the walk.
type ScanWarning struct {
	Path string
	Err  error
}

func (w ScanWarning) String() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

// ScanError is a structural failure of the walk. Any ScanError aborts the batch.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

// ScanResult accumulates everything a walk produced.
type ScanResult struct {
	Files    []FileRecord
	Warnings []ScanWarning
	Errors   []error
}

// Failed reports whether the walk recorded a structural error.
func (r *ScanResult) Failed() bool {
	return len(r.Errors) > 0
}

// Scan walks root recursively and collects regular files whose base name
// matches one of patterns. A symlinked root is resolved first, and links
// to regular files are collected under the link's path; linked directories
// are not descended. Unreadable entries and dangling links below root
// become warnings; failing to resolve or read root itself, or a cancelled
// ctx, becomes an error. Files are sorted by path.
func Scan(ctx context.Context, root string, patterns []string) *ScanResult {
	res := &ScanResult{}

	resolved, err := filepath.EvalSymlinks(filepath.Clean(root))
	if err != nil {
		res.Errors = append(res.Errors, &ScanError{Path: root, Err: err})
		return res
	}
	root = resolved

	var (
		mu         sync.Mutex
		rootFailed bool
	)

	walkFn := func(path string, fi os.FileInfo) error {
		if !matchAny(fi.Name(), patterns) {
			return nil
		}
		if fi.Mode()&os.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				mu.Lock()
				res.Warnings = append(res.Warnings, ScanWarning{Path: path, Err: err})
				mu.Unlock()
				return nil
			}
			fi = target
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		mu.Lock()
		res.Files = append(res.Files, FileRecord{Name: filepath.Base(path), SourcePath: path})
		mu.Unlock()
		return nil
	}

	onError := func(path string, err error) error {
		mu.Lock()
		defer mu.Unlock()
		if filepath.Clean(path) == root {
			rootFailed = true
			res.Errors = append(res.Errors, &ScanError{Path: path, Err: err})
			return err
		}
		res.Warnings = append(res.Warnings, ScanWarning{Path: path, Err: err})
		return nil
	}

	err = walker.WalkWithContext(ctx, root, walkFn, walker.WithErrorCallback(onError))
	if err == nil {
		err = ctx.Err()
	}
	if err != nil && !rootFailed {
		res.Errors = append(res.Errors, &ScanError{Path: root, Err: err})
	}

	sort.Slice(res.Files, func(i, j int) bool {
		return res.Files[i].SourcePath < res.Files[j].SourcePath
	})
	return res
}

func matchAny(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := filepath.Match(p, name); ok {
			return true
		}
	}
	return false
}
