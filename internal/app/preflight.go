package app

import (
	"errors"
	"fmt"
	"os"
	"sync"
)

// PreflightError means a source or destination directory is unusable.
type PreflightError struct {
	Role   string // "source" or "destination"
	Path   string
	Reason string
	Err    error
}

func (e *PreflightError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s %s: %v", e.Role, e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s %s %s", e.Role, e.Path, e.Reason)
}

func (e *PreflightError) Unwrap() error { return e.Err }

// IsPreflightError reports whether err came out of Preflight.
func IsPreflightError(err error) bool {
	var e *PreflightError
	return errors.As(err, &e)
}

// Preflight checks that source is a directory and that destination is a
// directory, creating destination when it does not exist. Both paths are
// inspected concurrently. Nothing is created unless both checks pass.
func Preflight(source, destination string) error {
	var (
		wg        sync.WaitGroup
		srcErr    error
		dstErr    error
		dstExists bool
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		srcErr = checkSource(source)
	}()
	go func() {
		defer wg.Done()
		dstExists, dstErr = inspectDestination(destination)
	}()
	wg.Wait()

	if err := errors.Join(srcErr, dstErr); err != nil {
		return err
	}
	if dstExists {
		return nil
	}
	if err := os.MkdirAll(destination, 0o755); err != nil {
		return &PreflightError{Role: "destination", Path: destination, Reason: "could not be created", Err: err}
	}
	return nil
}

func checkSource(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &PreflightError{Role: "source", Path: path, Reason: "does not exist"}
	}
	if err != nil {
		return &PreflightError{Role: "source", Path: path, Reason: "cannot be inspected", Err: err}
	}
	if !info.IsDir() {
		return &PreflightError{Role: "source", Path: path, Reason: "is not a directory"}
	}
	return nil
}

func inspectDestination(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, &PreflightError{Role: "destination", Path: path, Reason: "cannot be inspected", Err: err}
	}
	if !info.IsDir() {
		return true, &PreflightError{Role: "destination", Path: path, Reason: "is not a directory"}
	}
	return true, nil
}
