// Package mediatest builds minimal photo and movie files for tests.
package mediatest

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Dates are the EXIF date strings written into a JPEG. Empty fields are omitted.
type Dates struct {
	ModifyDate       string // IFD0 DateTime (0x0132)
	DateTimeOriginal string // Exif 0x9003
	CreateDate       string // Exif 0x9004
}

const appleEpochOffset = 2082844800

type entry struct {
	tag   uint16
	value string
}

// JPEG returns a JPEG stream whose APP1 segment carries the given dates.
// With all dates empty the EXIF block still exists and holds only a Make tag.
func JPEG(d Dates) []byte {
	var ifd0, sub []entry
	if d.ModifyDate == "" && d.DateTimeOriginal == "" && d.CreateDate == "" {
		ifd0 = append(ifd0, entry{tag: 0x010F, value: "Canon"})
	}
	if d.ModifyDate != "" {
		ifd0 = append(ifd0, entry{tag: 0x0132, value: d.ModifyDate})
	}
	if d.DateTimeOriginal != "" {
		sub = append(sub, entry{tag: 0x9003, value: d.DateTimeOriginal})
	}
	if d.CreateDate != "" {
		sub = append(sub, entry{tag: 0x9004, value: d.CreateDate})
	}
	tiff := buildTIFF(ifd0, sub)

	var b bytes.Buffer
	b.Write([]byte{0xFF, 0xD8, 0xFF, 0xE1})
	segLen := 2 + 6 + len(tiff)
	_ = binary.Write(&b, binary.BigEndian, uint16(segLen))
	b.WriteString("Exif\x00\x00")
	b.Write(tiff)
	b.Write([]byte{0xFF, 0xD9})
	return b.Bytes()
}

func buildTIFF(ifd0, sub []entry) []byte {
	le := binary.LittleEndian

	ifd0Count := len(ifd0) + 1 // plus the Exif IFD pointer
	ifd0Off := 8
	subOff := ifd0Off + 2 + 12*ifd0Count + 4
	dataOff := subOff + 2 + 12*len(sub) + 4

	buf := make([]byte, dataOff)
	copy(buf, "II")
	le.PutUint16(buf[2:], 42)
	le.PutUint32(buf[4:], uint32(ifd0Off))

	var data []byte
	putASCII := func(p int, e entry) {
		val := append([]byte(e.value), 0)
		le.PutUint16(buf[p:], e.tag)
		le.PutUint16(buf[p+2:], 2) // ASCII
		le.PutUint32(buf[p+4:], uint32(len(val)))
		if len(val) <= 4 {
			copy(buf[p+8:p+12], val)
			return
		}
		le.PutUint32(buf[p+8:], uint32(dataOff+len(data)))
		data = append(data, val...)
	}

	p := ifd0Off
	le.PutUint16(buf[p:], uint16(ifd0Count))
	p += 2
	for _, e := range ifd0 {
		putASCII(p, e)
		p += 12
	}
	le.PutUint16(buf[p:], 0x8769)
	le.PutUint16(buf[p+2:], 4) // LONG
	le.PutUint32(buf[p+4:], 1)
	le.PutUint32(buf[p+8:], uint32(subOff))
	p += 12
	le.PutUint32(buf[p:], 0)

	p = subOff
	le.PutUint16(buf[p:], uint16(len(sub)))
	p += 2
	for _, e := range sub {
		putASCII(p, e)
		p += 12
	}
	le.PutUint32(buf[p:], 0)

	return append(buf, data...)
}

// MOV returns a QuickTime stream (ftyp + moov/mvhd) created at ts.
func MOV(ts time.Time) []byte {
	var b bytes.Buffer
	be := binary.BigEndian

	// ftyp
	_ = binary.Write(&b, be, uint32(20))
	b.WriteString("ftypqt  ")
	_ = binary.Write(&b, be, uint32(0))
	b.WriteString("qt  ")

	created := uint32(ts.Unix() + appleEpochOffset)

	var mvhd bytes.Buffer
	_ = binary.Write(&mvhd, be, uint32(0))         // version + flags
	_ = binary.Write(&mvhd, be, created)           // creation time
	_ = binary.Write(&mvhd, be, created)           // modification time
	_ = binary.Write(&mvhd, be, uint32(1000))      // timescale
	_ = binary.Write(&mvhd, be, uint32(0))         // duration
	_ = binary.Write(&mvhd, be, int32(0x00010000)) // rate
	_ = binary.Write(&mvhd, be, int16(0x0100))     // volume
	_ = binary.Write(&mvhd, be, make([]byte, 2+8)) // reserved
	matrix := []int32{0x00010000, 0, 0, 0, 0x00010000, 0, 0, 0, 0x40000000}
	_ = binary.Write(&mvhd, be, matrix)
	_ = binary.Write(&mvhd, be, make([]byte, 24)) // pre-defined
	_ = binary.Write(&mvhd, be, uint32(2))        // next track ID

	mvhdSize := uint32(8 + mvhd.Len())
	_ = binary.Write(&b, be, 8+mvhdSize)
	b.WriteString("moov")
	_ = binary.Write(&b, be, mvhdSize)
	b.WriteString("mvhd")
	b.Write(mvhd.Bytes())
	return b.Bytes()
}

// WriteFile writes data to dir/name, creating parent directories.
func WriteFile(t testing.TB, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
