package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

var (
	ErrMissingSource      = errors.New("a source directory must be specified")
	ErrMissingDestination = errors.New("a destination directory must be specified")
)

// ConfigError is an unusable command-line option. The run stops before any I/O.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err stems from invalid options.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

// Options represents user-provided CLI parameters.
type Options struct {
	Source       string
	Destination  string
	Videos       bool
	LogLevel     string
	LogFile      string
	PrintSummary bool
}

// Validate performs basic validation, expands ~ in both directories and
// makes them absolute. It is safe to call more than once.
func (o *Options) Validate() error {
	o.applyLogDefaults()
	o.Source = strings.TrimSpace(o.Source)
	o.Destination = strings.TrimSpace(o.Destination)

	if o.Source == "" {
		return &ConfigError{Field: "source", Err: ErrMissingSource}
	}
	if o.Destination == "" {
		return &ConfigError{Field: "destination", Err: ErrMissingDestination}
	}

	src, err := resolvePath(o.Source)
	if err != nil {
		return &ConfigError{Field: "source", Err: err}
	}
	dst, err := resolvePath(o.Destination)
	if err != nil {
		return &ConfigError{Field: "destination", Err: err}
	}
	o.Source, o.Destination = src, dst
	return nil
}

func (o *Options) applyLogDefaults() {
	o.LogLevel = strings.TrimSpace(o.LogLevel)
	o.LogFile = strings.TrimSpace(o.LogFile)
	if o.LogLevel == "" {
		o.LogLevel = "info"
	}
	if o.LogFile == "" {
		if p, err := defaultLogPath(); err == nil {
			o.LogFile = p
		}
	}
}

func resolvePath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", path, err)
	}
	return filepath.Abs(expanded)
}

func defaultLogPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve executable path: %w", err)
	}
	dir := filepath.Dir(exe)
	cwd, cwdErr := os.Getwd()
	// When running via `go run`, executable resides in temp; prefer current working dir then.
	if cwdErr == nil && strings.HasPrefix(dir, os.TempDir()) {
		dir = cwd
	}
	candidates := []string{dir}
	if cwdErr == nil {
		candidates = append(candidates, cwd)
	}
	return filepath.Join(firstWritableDir(candidates...), "riverbirch.log"), nil
}

// firstWritableDir returns the first dir a file can be created in, or the
// first candidate when none can.
func firstWritableDir(dirs ...string) string {
	for _, dir := range dirs {
		f, err := os.CreateTemp(dir, ".riverbirch-*")
		if err != nil {
			continue
		}
		name := f.Name()
		_ = f.Close()
		_ = os.Remove(name)
		return dir
	}
	if len(dirs) == 0 {
		return "."
	}
	return dirs[0]
}
