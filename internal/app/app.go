package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/nir0k/logger"
	"github.com/nir0k/riverbirch/internal/media"
)

// Logger is the leveled output the pipeline writes to.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Run is the main entry point for the CLI workflow.
//
// Missing options are logged as warnings and returned as a *ConfigError.
// Preflight failures and aborted scans are returned as errors before any
// file is copied. Per-file failures only show up in the Summary.
func Run(ctx context.Context, opts Options) (*Summary, error) {
	return run(ctx, opts, nil)
}

// RunWithLogger allows piping console logs into an in-memory buffer.
func RunWithLogger(ctx context.Context, opts Options, buf *bytes.Buffer) (*Summary, error) {
	return run(ctx, opts, buf)
}

func run(ctx context.Context, opts Options, buf *bytes.Buffer) (*Summary, error) {
	opts.applyLogDefaults()

	cfg := logger.LogConfig{
		FilePath:       opts.LogFile,
		Format:         "standard",
		FileLevel:      opts.LogLevel,
		ConsoleLevel:   opts.LogLevel,
		ConsoleOutput:  true,
		EnableRotation: true,
		RotationConfig: logger.RotationConfig{
			MaxSize:    25,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		},
	}
	logInstance, err := logger.NewLogger(cfg)
	if err != nil {
		return nil, err
	}
	if buf != nil {
		logInstance.ConsoleLogger = log.New(buf, "", 0)
	}

	return execute(ctx, opts, logInstance, media.Extract)
}

func execute(ctx context.Context, opts Options, lg Logger, extract extractFunc) (*Summary, error) {
	infof := lg.Infof
	warnf := lg.Warningf
	errorf := lg.Errorf

	if err := opts.Validate(); err != nil {
		var cfgErr *ConfigError
		if errors.As(err, &cfgErr) {
			warnf("%v", cfgErr.Err)
		}
		return nil, err
	}

	infof("Processing photos in %s and copying them to %s", opts.Source, opts.Destination)

	if err := Preflight(opts.Source, opts.Destination); err != nil {
		errorf("%v", err)
		return nil, err
	}

	scan := media.Scan(ctx, opts.Source, media.Patterns(opts.Videos))
	if err := gateScan(lg, scan); err != nil {
		return nil, err
	}
	infof("Found %d files in %s", len(scan.Files), opts.Source)

	results := newProcessor(opts.Destination, extract).run(ctx, scan.Files)
	sum := report(lg, scan, results)

	if opts.PrintSummary {
		fmt.Println(sum.String())
	}
	infof("%s", sum)
	return sum, nil
}
