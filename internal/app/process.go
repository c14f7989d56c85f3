package app

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/nir0k/riverbirch/internal/fsx"
	"github.com/nir0k/riverbirch/internal/media"
	"golang.org/x/sync/errgroup"
)

// Status is the outcome class of a single file.
type Status string

const (
	StatusCopied    Status = "copied"
	StatusMetaError Status = "meta_error"
	StatusFailed    Status = "failed"
)

// FileResult reports what happened to one scanned file. DestinationPath is
// only set once metadata was read and a name derived.
type FileResult struct {
	Name            string
	SourcePath      string
	DestinationPath string
	Status          Status
	Err             error
}

type extractFunc func(path string) media.Result

type processor struct {
	destination string
	extract     extractFunc
	copier      *fsx.Copier
	workers     int
}

func newProcessor(destination string, extract extractFunc) *processor {
	workers := runtime.NumCPU()
	if workers > 8 {
		workers = 8
	}
	return &processor{
		destination: destination,
		extract:     extract,
		copier:      &fsx.Copier{},
		workers:     workers,
	}
}

// run processes every file independently and returns one result per file,
// in the order of files. A failing file never stops the others. Files not
// yet started when ctx is cancelled are reported as failed.
func (p *processor) run(ctx context.Context, files []media.FileRecord) []FileResult {
	results := make([]FileResult, len(files))

	var g errgroup.Group
	g.SetLimit(p.workers)
	for i, rec := range files {
		if err := ctx.Err(); err != nil {
			results[i] = FileResult{Name: rec.Name, SourcePath: rec.SourcePath, Status: StatusFailed, Err: err}
			continue
		}
		g.Go(func() error {
			results[i] = p.processFile(rec)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (p *processor) processFile(rec media.FileRecord) FileResult {
	res := FileResult{Name: rec.Name, SourcePath: rec.SourcePath}

	meta := p.extract(rec.SourcePath)
	if meta.Err != nil {
		res.Status = StatusMetaError
		res.Err = meta.Err
		return res
	}

	name, err := media.DestinationName(meta.Meta, rec.Name)
	if err != nil {
		res.Status = StatusMetaError
		res.Err = &media.ExtractError{Path: rec.SourcePath, Err: err}
		return res
	}
	res.DestinationPath = filepath.Join(p.destination, name)

	if err := p.copier.Copy(rec.SourcePath, res.DestinationPath); err != nil {
		res.Status = StatusFailed
		res.Err = err
		return res
	}
	res.Status = StatusCopied
	return res
}
