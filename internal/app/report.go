package app

import (
	"errors"
	"fmt"

	"github.com/nir0k/riverbirch/internal/media"
)

// ErrScanAborted is returned when the walk recorded errors and no file was touched.
var ErrScanAborted = errors.New("errors reading file data, aborting")

// Summary aggregates the per-file outcomes of a run.
type Summary struct {
	Scanned   int
	Copied    int
	Failed    int
	MetaError int
	Warnings  int
	Files     []FileResult
}

// Errors returns the errors of all files that were not copied.
func (s *Summary) Errors() []error {
	var out []error
	for _, f := range s.Files {
		if f.Err != nil {
			out = append(out, f.Err)
		}
	}
	return out
}

func (s *Summary) String() string {
	return fmt.Sprintf("Finished. scanned=%d copied=%d failed=%d meta_errors=%d warnings=%d",
		s.Scanned, s.Copied, s.Failed, s.MetaError, s.Warnings)
}

// gateScan logs the outcome of the walk. Any recorded error aborts the batch.
func gateScan(lg Logger, scan *media.ScanResult) error {
	if scan.Failed() {
		lg.Errorf("Errors reading file data, aborting:")
		for _, err := range scan.Errors {
			lg.Errorf("\t%v", err)
		}
		return fmt.Errorf("%w: %w", ErrScanAborted, errors.Join(scan.Errors...))
	}
	if len(scan.Warnings) > 0 {
		lg.Warningf("Warnings:")
		for _, w := range scan.Warnings {
			lg.Warningf("\t%s", w)
		}
	}
	return nil
}

func report(lg Logger, scan *media.ScanResult, results []FileResult) *Summary {
	sum := &Summary{
		Scanned:  len(scan.Files),
		Warnings: len(scan.Warnings),
		Files:    results,
	}
	for _, res := range results {
		switch res.Status {
		case StatusCopied:
			sum.Copied++
			lg.Debugf("File %s successfully copied to %s", res.SourcePath, res.DestinationPath)
		case StatusMetaError:
			sum.MetaError++
			lg.Errorf("Error reading metadata: %v", res.Err)
		default:
			sum.Failed++
			lg.Errorf("Error copying file: %v", res.Err)
		}
	}
	return sum
}
