package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	exifLayout = "2006:01:02 15:04:05"
	// NameLayout renders a capture time as a destination base name.
	NameLayout = "20060102150405"
)

var (
	// ErrNoCaptureTime is returned when none of the date fields is present.
	ErrNoCaptureTime = errors.New("no capture date in metadata")

	errNoExif = errors.New("no exif data")
)

// CaptureDate picks the capture timestamp string: modify date first, then
// date-time-original, then create date.
func (m Metadata) CaptureDate() (string, error) {
	for _, v := range []string{m.ModifyDate, m.DateTimeOriginal, m.CreateDate} {
		if v != "" {
			return v, nil
		}
	}
	return "", ErrNoCaptureTime
}

// ParseTimestamp parses an EXIF "YYYY:MM:DD HH:mm:ss" value. Anything after
// the seconds (sub-seconds, zone offsets) is ignored. The result carries the
// wall clock of the camera in UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(exifLayout) {
		s = s[:len(exifLayout)]
	}
	ts, err := time.Parse(exifLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse capture date %q: %w", s, err)
	}
	return ts, nil
}

// FileName renders ts and appends the extension of original, all lowercased.
func FileName(ts time.Time, original string) string {
	return strings.ToLower(ts.Format(NameLayout) + filepath.Ext(original))
}

// DestinationName derives the destination base name of a file called
// original from its metadata.
func DestinationName(meta Metadata, original string) (string, error) {
	raw, err := meta.CaptureDate()
	if err != nil {
		return "", err
	}
	ts, err := ParseTimestamp(raw)
	if err != nil {
		return "", err
	}
	return FileName(ts, original), nil
}
