package media

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	mp4 "github.com/abema/go-mp4"
	"github.com/evanoberholster/imagemeta"
	"github.com/evanoberholster/imagemeta/exif2"
	"github.com/rwcarlsen/goexif/exif"
)

// Metadata holds the raw capture-date fields of a file in EXIF
// "YYYY:MM:DD HH:mm:ss" form. An empty field was not present.
type Metadata struct {
	ModifyDate       string
	DateTimeOriginal string
	CreateDate       string
}

// Result is the outcome of reading metadata from one file. Exactly one of
// Meta (when Err is nil) or Err is meaningful.
type Result struct {
	Meta Metadata
	Err  error
}

// ExtractError reports a file whose metadata could not be used.
type ExtractError struct {
	Path string
	Err  error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("metadata %s: %v", e.Path, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

var videoExt = map[string]bool{
	".mov": true,
	".mp4": true,
	".m4v": true,
	".3gp": true,
}

// IsVideo reports whether path is an ISO BMFF movie by extension.
func IsVideo(path string) bool {
	return videoExt[strings.ToLower(filepath.Ext(path))]
}

// Extract reads capture-date metadata from the file at path. It never
// panics on malformed input; failures are returned in Result.Err as an
// *ExtractError.
func Extract(path string) Result {
	var (
		meta Metadata
		err  error
	)
	if IsVideo(path) {
		meta, err = readMovie(path)
	} else {
		meta, err = readImage(path)
	}
	if err != nil {
		return Result{Err: &ExtractError{Path: path, Err: err}}
	}
	return Result{Meta: meta}
}

func readImage(path string) (Metadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	meta, err := decodeTagsSafe(file, path)
	if err == nil {
		return meta, nil
	}

	// goexif only understands JPEG and TIFF; imagemeta also reads HEIF and
	// the newer RAW containers.
	if _, serr := file.Seek(0, io.SeekStart); serr != nil {
		return Metadata{}, fmt.Errorf("rewind %s: %w", path, serr)
	}
	ex, ferr := decodeExifSafe(file, path)
	if ferr != nil {
		return Metadata{}, fmt.Errorf("decode metadata: %w", err)
	}
	meta = Metadata{
		ModifyDate:       formatExifTime(ex.ModifyDate()),
		DateTimeOriginal: formatExifTime(ex.DateTimeOriginal()),
		CreateDate:       formatExifTime(ex.CreateDate()),
	}
	if meta == (Metadata{}) {
		return Metadata{}, fmt.Errorf("decode metadata: %w", err)
	}
	return meta, nil
}

// decodeTagsSafe reads the three date tags as the strings stored in the file.
func decodeTagsSafe(r io.Reader, path string) (meta Metadata, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while decoding %s: %v", path, rec)
		}
	}()

	x, err := exif.Decode(r)
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		if err == nil {
			err = errNoExif
		}
		return Metadata{}, err
	}
	return Metadata{
		ModifyDate:       tagString(x, exif.DateTime),
		DateTimeOriginal: tagString(x, exif.DateTimeOriginal),
		CreateDate:       tagString(x, exif.DateTimeDigitized),
	}, nil
}

func tagString(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(strings.Trim(s, "\x00"))
}

// decodeExifSafe protects against panics from the decoder on malformed files.
func decodeExifSafe(r io.ReadSeeker, path string) (ex exif2.Exif, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while decoding %s: %v", path, rec)
		}
	}()

	ex, err = imagemeta.Decode(r)
	return ex, err
}

// appleEpochOffset is the number of seconds between 1904-01-01 and 1970-01-01 UTC.
const appleEpochOffset = 2082844800

// movieLocation is the zone movie creation times are rendered in. mvhd
// stores UTC while cameras write EXIF dates as local wall clock.
var movieLocation = time.Local

// readMovie reports the moov/mvhd creation time, in movieLocation, as the
// create date. A movie without one fails with ErrNoCaptureTime.
func readMovie(path string) (Metadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	boxes, err := extractMvhdSafe(file, path)
	if err != nil {
		return Metadata{}, fmt.Errorf("read movie structure: %w", err)
	}

	for _, box := range boxes {
		mvhd, ok := box.Payload.(*mp4.Mvhd)
		if !ok {
			continue
		}
		created := mvhd.GetCreationTime()
		if created < appleEpochOffset {
			break
		}
		ts := time.Unix(int64(created)-appleEpochOffset, 0).In(movieLocation)
		return Metadata{CreateDate: formatExifTime(ts)}, nil
	}
	return Metadata{}, fmt.Errorf("movie header: %w", ErrNoCaptureTime)
}

func extractMvhdSafe(r io.ReadSeeker, path string) (boxes []*mp4.BoxInfoWithPayload, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic while decoding %s: %v", path, rec)
		}
	}()

	return mp4.ExtractBoxesWithPayload(r, nil, []mp4.BoxPath{
		{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()},
	})
}

func formatExifTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(exifLayout)
}
