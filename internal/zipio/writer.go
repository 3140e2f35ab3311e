// Package zipio builds ZIP archives byte by byte: local file headers, a
// central directory, and the end-of-central-directory record. It exists
// because the container outputs need exact control over entry order and
// per-entry compression (an EPUB's mimetype must be the first entry and
// stored uncompressed), which is simpler to guarantee by owning the record
// layout than by configuring a general-purpose archive layer.
package zipio

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"time"
	"unicode/utf8"

	"github.com/klauspost/compress/flate"

	"inkwell/internal/domain"
)

const (
	localHeaderSig   = 0x04034b50
	centralDirSig    = 0x02014b50
	endOfCentralSig  = 0x06054b50
	versionNeeded    = 20
	flagUTF8Names    = 0x0800
	methodStored     = 0
	methodDeflated   = 8
	localHeaderSize  = 30
	centralEntrySize = 46
	endRecordSize    = 22
)

// entryRecord is the central-directory side of one written entry. The
// offset is the absolute position of the entry's local header in the
// final buffer, captured while the local stream is being appended so it
// can never drift from the real layout.
type entryRecord struct {
	name             string
	method           uint16
	crc              uint32
	compressedSize   uint32
	uncompressedSize uint32
	modTime          uint16
	modDate          uint16
	offset           uint32
}

// Writer accumulates entries in call order and produces the finished
// archive bytes on Finalize. The zero value is not usable; construct with
// NewWriter.
type Writer struct {
	buf     bytes.Buffer
	entries []entryRecord
	modTime uint16
	modDate uint16
}

// NewWriter returns an empty archive writer stamped with the current time.
func NewWriter() *Writer {
	w := &Writer{}
	w.modDate, w.modTime = dosDateTime(time.Now())
	return w
}

// AddEntry appends one file to the archive. When compress is true the data
// is DEFLATE-compressed, falling back to stored whenever compression does
// not shrink it. The only failure is a path that is not valid UTF-8.
func (w *Writer) AddEntry(path string, data []byte, compress bool) error {
	if !utf8.ValidString(path) {
		return &domain.EncodingError{Value: path}
	}

	method := uint16(methodStored)
	payload := data
	if compress {
		if deflated, ok := deflateBytes(data); ok {
			method = methodDeflated
			payload = deflated
		}
	}

	rec := entryRecord{
		name:             path,
		method:           method,
		crc:              crc32.ChecksumIEEE(data),
		compressedSize:   uint32(len(payload)),
		uncompressedSize: uint32(len(data)),
		modTime:          w.modTime,
		modDate:          w.modDate,
		offset:           uint32(w.buf.Len()),
	}
	w.writeLocalHeader(rec)
	w.buf.Write(payload)
	w.entries = append(w.entries, rec)
	return nil
}

// EntryCount returns the number of entries added so far.
func (w *Writer) EntryCount() int {
	return len(w.entries)
}

// Finalize appends the central directory and end record and returns the
// complete archive. The writer must not be reused afterwards.
func (w *Writer) Finalize() []byte {
	dirOffset := uint32(w.buf.Len())
	for _, rec := range w.entries {
		w.writeCentralEntry(rec)
	}
	dirSize := uint32(w.buf.Len()) - dirOffset

	var end [endRecordSize]byte
	binary.LittleEndian.PutUint32(end[0:4], endOfCentralSig)
	binary.LittleEndian.PutUint16(end[4:6], 0) // disk number
	binary.LittleEndian.PutUint16(end[6:8], 0) // directory start disk
	binary.LittleEndian.PutUint16(end[8:10], uint16(len(w.entries)))
	binary.LittleEndian.PutUint16(end[10:12], uint16(len(w.entries)))
	binary.LittleEndian.PutUint32(end[12:16], dirSize)
	binary.LittleEndian.PutUint32(end[16:20], dirOffset)
	binary.LittleEndian.PutUint16(end[20:22], 0) // comment length
	w.buf.Write(end[:])

	return w.buf.Bytes()
}

func (w *Writer) writeLocalHeader(rec entryRecord) {
	var buf [localHeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], localHeaderSig)
	binary.LittleEndian.PutUint16(buf[4:6], versionNeeded)
	binary.LittleEndian.PutUint16(buf[6:8], flagUTF8Names)
	binary.LittleEndian.PutUint16(buf[8:10], rec.method)
	binary.LittleEndian.PutUint16(buf[10:12], rec.modTime)
	binary.LittleEndian.PutUint16(buf[12:14], rec.modDate)
	binary.LittleEndian.PutUint32(buf[14:18], rec.crc)
	binary.LittleEndian.PutUint32(buf[18:22], rec.compressedSize)
	binary.LittleEndian.PutUint32(buf[22:26], rec.uncompressedSize)
	binary.LittleEndian.PutUint16(buf[26:28], uint16(len(rec.name)))
	binary.LittleEndian.PutUint16(buf[28:30], 0) // extra field length
	w.buf.Write(buf[:])
	w.buf.WriteString(rec.name)
}

func (w *Writer) writeCentralEntry(rec entryRecord) {
	var buf [centralEntrySize]byte
	binary.LittleEndian.PutUint32(buf[0:4], centralDirSig)
	binary.LittleEndian.PutUint16(buf[4:6], versionNeeded) // version made by
	binary.LittleEndian.PutUint16(buf[6:8], versionNeeded)
	binary.LittleEndian.PutUint16(buf[8:10], flagUTF8Names)
	binary.LittleEndian.PutUint16(buf[10:12], rec.method)
	binary.LittleEndian.PutUint16(buf[12:14], rec.modTime)
	binary.LittleEndian.PutUint16(buf[14:16], rec.modDate)
	binary.LittleEndian.PutUint32(buf[16:20], rec.crc)
	binary.LittleEndian.PutUint32(buf[20:24], rec.compressedSize)
	binary.LittleEndian.PutUint32(buf[24:28], rec.uncompressedSize)
	binary.LittleEndian.PutUint16(buf[28:30], uint16(len(rec.name)))
	binary.LittleEndian.PutUint16(buf[30:32], 0) // extra field length
	binary.LittleEndian.PutUint16(buf[32:34], 0) // comment length
	binary.LittleEndian.PutUint16(buf[34:36], 0) // disk number start
	binary.LittleEndian.PutUint16(buf[36:38], 0) // internal attributes
	binary.LittleEndian.PutUint32(buf[38:42], 0) // external attributes
	binary.LittleEndian.PutUint32(buf[42:46], rec.offset)
	w.buf.Write(buf[:])
	w.buf.WriteString(rec.name)
}

// deflateBytes raw-deflates data; ok is false when compression failed or
// produced output at least as large as the input.
func deflateBytes(data []byte) ([]byte, bool) {
	var out bytes.Buffer
	fw, err := flate.NewWriter(&out, flate.DefaultCompression)
	if err != nil {
		return nil, false
	}
	if _, err := fw.Write(data); err != nil {
		return nil, false
	}
	if err := fw.Close(); err != nil {
		return nil, false
	}
	if out.Len() >= len(data) {
		return nil, false
	}
	return out.Bytes(), true
}

// dosDateTime decomposes t into the MS-DOS date and time bitfields used in
// archive headers. Years before 1980 clamp to the epoch.
func dosDateTime(t time.Time) (date, tod uint16) {
	year := t.Year()
	if year < 1980 {
		return 0x21, 0 // 1980-01-01 00:00:00
	}
	date = uint16(year-1980)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
	tod = uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
	return date, tod
}
