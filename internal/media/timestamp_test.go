package media

import (
	"errors"
	"testing"
	"time"
)

func TestMetadataCaptureDate(t *testing.T) {
	tests := []struct {
		name     string
		meta     Metadata
		expected string
		wantErr  error
	}{
		{
			name: "modify date wins",
			meta: Metadata{
				ModifyDate:       "2020:01:01 00:00:01",
				DateTimeOriginal: "2020:01:01 00:00:02",
				CreateDate:       "2020:01:01 00:00:03",
			},
			expected: "2020:01:01 00:00:01",
		},
		{
			name: "original when modify missing",
			meta: Metadata{
				DateTimeOriginal: "2020:01:01 00:00:02",
				CreateDate:       "2020:01:01 00:00:03",
			},
			expected: "2020:01:01 00:00:02",
		},
		{
			name:     "create date last",
			meta:     Metadata{CreateDate: "2020:01:01 00:00:03"},
			expected: "2020:01:01 00:00:03",
		},
		{
			name:    "nothing present",
			meta:    Metadata{},
			wantErr: ErrNoCaptureTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.meta.CaptureDate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CaptureDate() error = %v; want %v", err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("CaptureDate() = %q; want %q", got, tt.expected)
			}
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "plain exif value",
			input:    "2021:07:04 10:15:30",
			expected: time.Date(2021, time.July, 4, 10, 15, 30, 0, time.UTC),
		},
		{
			name:     "january stays january",
			input:    "2019:01:31 23:59:59",
			expected: time.Date(2019, time.January, 31, 23, 59, 59, 0, time.UTC),
		},
		{
			name:     "surrounding whitespace",
			input:    "  2021:07:04 10:15:30 ",
			expected: time.Date(2021, time.July, 4, 10, 15, 30, 0, time.UTC),
		},
		{
			name:     "trailing offset ignored",
			input:    "2021:07:04 10:15:30+02:00",
			expected: time.Date(2021, time.July, 4, 10, 15, 30, 0, time.UTC),
		},
		{
			name:    "zeroed camera clock",
			input:   "0000:00:00 00:00:00",
			wantErr: true,
		},
		{
			name:    "wrong separators",
			input:   "2021-07-04T10:15:30",
			wantErr: true,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimestamp(%q) error = %v; wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.expected) {
				t.Errorf("ParseTimestamp(%q) = %v; want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDestinationName(t *testing.T) {
	tests := []struct {
		name     string
		meta     Metadata
		original string
		expected string
		wantErr  bool
	}{
		{
			name:     "uppercase jpg from original date",
			meta:     Metadata{DateTimeOriginal: "2021:07:04 10:15:30"},
			original: "IMG_0001.JPG",
			expected: "20210704101530.jpg",
		},
		{
			name:     "modify date preferred",
			meta:     Metadata{ModifyDate: "2022:12:24 18:00:00", DateTimeOriginal: "2021:07:04 10:15:30"},
			original: "IMG_0002.jpg",
			expected: "20221224180000.jpg",
		},
		{
			name:     "movie",
			meta:     Metadata{CreateDate: "2020:02:29 06:07:08"},
			original: "MVI_0003.MOV",
			expected: "20200229060708.mov",
		},
		{
			name:     "no extension",
			meta:     Metadata{CreateDate: "2020:02:29 06:07:08"},
			original: "noext",
			expected: "20200229060708",
		},
		{
			name:     "no date",
			meta:     Metadata{},
			original: "IMG_0004.JPG",
			wantErr:  true,
		},
		{
			name:     "unparseable date",
			meta:     Metadata{ModifyDate: "yesterday"},
			original: "IMG_0005.JPG",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DestinationName(tt.meta, tt.original)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DestinationName() error = %v; wantErr %v", err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("DestinationName() = %q; want %q", got, tt.expected)
			}
		})
	}
}

func TestDestinationNameDeterministic(t *testing.T) {
	meta := Metadata{ModifyDate: "", DateTimeOriginal: "2018:03:09 11:12:13", CreateDate: "2017:01:01 00:00:00"}
	first, err := DestinationName(meta, "a.Jpg")
	if err != nil {
		t.Fatalf("DestinationName() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		got, _ := DestinationName(meta, "a.Jpg")
		if got != first {
			t.Fatalf("DestinationName() = %q; want %q", got, first)
		}
	}
	if first != "20180309111213.jpg" {
		t.Errorf("DestinationName() = %q; want %q", first, "20180309111213.jpg")
	}
}
