package zipstore

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"unicode/utf8"
)

// Record signatures and fixed field values of the ZIP format.
const (
	localHeaderSignature  = 0x04034b50
	centralDirSignature   = 0x02014b50
	endOfCentralSignature = 0x06054b50

	// zipVersion is both "version made by" and "version needed to extract".
	// 2.0 is the minimum for the store method.
	zipVersion = 20

	// methodStore writes raw bytes unmodified.
	methodStore = 0

	localHeaderLen  = 30
	centralDirLen   = 46
	endOfCentralLen = 22

	maxNameLen    = 0xFFFF
	maxEntryCount = 0xFFFF
	maxFieldValue = 0xFFFFFFFF
)

var (
	// ErrFinished is returned by AddEntry after Finish has been called.
	ErrFinished = errors.New("archive already finalized")

	// ErrNoEntries is returned by Finish when nothing was added. A zero-entry
	// archive is valid per the format but never a meaningful output here.
	ErrNoEntries = errors.New("archive has no entries")
)

type entry struct {
	name   string
	size   uint32
	crc    uint32
	offset uint32
}

// Builder assembles a store-only ZIP archive in memory. Entries appear in the
// archive in the order they are added. The zero value is not usable; use
// NewBuilder.
type Builder struct {
	buf      bytes.Buffer
	entries  []entry
	names    map[string]struct{}
	finished bool
}

func NewBuilder() *Builder {
	return &Builder{names: make(map[string]struct{})}
}

// AddEntry appends one named entry with the given raw content. The content is
// stored uncompressed, immediately preceded by its local file header. Errors
// are fatal for the whole archive build: a Builder that has returned an error
// must be discarded.
func (b *Builder) AddEntry(name string, data []byte) error {
	if b.finished {
		return ErrFinished
	}

	if err := b.validateEntry(name, data); err != nil {
		return err
	}

	offset := b.buf.Len()
	if int64(offset)+int64(localHeaderLen)+int64(len(name))+int64(len(data)) > maxFieldValue {
		return fmt.Errorf("entry %q would exceed the archive's 32-bit offset range", name)
	}

	e := entry{
		name:   name,
		size:   uint32(len(data)),
		crc:    crc32.ChecksumIEEE(data),
		offset: uint32(offset),
	}

	b.writeLocalHeader(e)
	b.buf.WriteString(e.name)
	b.buf.Write(data)

	b.entries = append(b.entries, e)
	b.names[name] = struct{}{}

	return nil
}

// Finish emits the central directory and the end-of-central-directory record
// and returns the complete archive. The Builder cannot be reused afterwards.
func (b *Builder) Finish() ([]byte, error) {
	if b.finished {
		return nil, ErrFinished
	}
	if len(b.entries) == 0 {
		return nil, ErrNoEntries
	}
	total := int64(b.buf.Len()) + int64(endOfCentralLen)
	for _, e := range b.entries {
		total += int64(centralDirLen) + int64(len(e.name))
	}
	if total > maxFieldValue {
		return nil, errors.New("central directory would exceed the archive's 32-bit offset range")
	}
	b.finished = true

	dirOffset := uint32(b.buf.Len())
	for _, e := range b.entries {
		b.writeCentralDirHeader(e)
		b.buf.WriteString(e.name)
	}
	dirSize := uint32(b.buf.Len()) - dirOffset

	b.writeEndOfCentralDir(uint16(len(b.entries)), dirSize, dirOffset)

	return b.buf.Bytes(), nil
}

// Len reports the number of bytes emitted so far.
func (b *Builder) Len() int {
	return b.buf.Len()
}

// EntryCount reports the number of entries added so far.
func (b *Builder) EntryCount() int {
	return len(b.entries)
}

func (b *Builder) validateEntry(name string, data []byte) error {
	if name == "" {
		return errors.New("entry name is empty")
	}
	if !utf8.ValidString(name) {
		return fmt.Errorf("entry name %q is not valid UTF-8", name)
	}
	if len(name) > maxNameLen {
		return fmt.Errorf("entry name %q exceeds %d bytes", name, maxNameLen)
	}
	if _, ok := b.names[name]; ok {
		return fmt.Errorf("duplicate entry name %q", name)
	}
	if len(b.entries) >= maxEntryCount {
		return fmt.Errorf("archive cannot hold more than %d entries", maxEntryCount)
	}
	if int64(len(data)) > maxFieldValue {
		return fmt.Errorf("entry %q exceeds the 32-bit size field range", name)
	}
	return nil
}

// Local file header: signature, version needed, flags, method, time, date,
// CRC-32, compressed size, uncompressed size, name length, extra length.
// Sizes are equal because nothing is compressed; time, date, flags and the
// extra field are always zero.
func (b *Builder) writeLocalHeader(e entry) {
	var h [localHeaderLen]byte
	le := binary.LittleEndian

	le.PutUint32(h[0:4], localHeaderSignature)
	le.PutUint16(h[4:6], zipVersion)
	le.PutUint16(h[6:8], 0)  // general purpose flags
	le.PutUint16(h[8:10], methodStore)
	le.PutUint16(h[10:12], 0) // last modified time
	le.PutUint16(h[12:14], 0) // last modified date
	le.PutUint32(h[14:18], e.crc)
	le.PutUint32(h[18:22], e.size) // compressed size
	le.PutUint32(h[22:26], e.size) // uncompressed size
	le.PutUint16(h[26:28], uint16(len(e.name)))
	le.PutUint16(h[28:30], 0) // extra field length

	b.buf.Write(h[:])
}

// Central directory header: one record per entry, pointing back at the
// entry's local header offset. Disk numbers, attributes and the comment
// length are always zero.
func (b *Builder) writeCentralDirHeader(e entry) {
	var h [centralDirLen]byte
	le := binary.LittleEndian

	le.PutUint32(h[0:4], centralDirSignature)
	le.PutUint16(h[4:6], zipVersion) // version made by
	le.PutUint16(h[6:8], zipVersion) // version needed to extract
	le.PutUint16(h[8:10], 0)         // general purpose flags
	le.PutUint16(h[10:12], methodStore)
	le.PutUint16(h[12:14], 0) // last modified time
	le.PutUint16(h[14:16], 0) // last modified date
	le.PutUint32(h[16:20], e.crc)
	le.PutUint32(h[20:24], e.size) // compressed size
	le.PutUint32(h[24:28], e.size) // uncompressed size
	le.PutUint16(h[28:30], uint16(len(e.name)))
	le.PutUint16(h[30:32], 0) // extra field length
	le.PutUint16(h[32:34], 0) // comment length
	le.PutUint16(h[34:36], 0) // disk number start
	le.PutUint16(h[36:38], 0) // internal attributes
	le.PutUint32(h[38:42], 0) // external attributes
	le.PutUint32(h[42:46], e.offset)

	b.buf.Write(h[:])
}

// End of central directory: entry counts (twice, once per-disk and once
// total — always equal, multi-volume archives are unsupported), central
// directory size and offset, and a zero comment length.
func (b *Builder) writeEndOfCentralDir(count uint16, dirSize, dirOffset uint32) {
	var h [endOfCentralLen]byte
	le := binary.LittleEndian

	le.PutUint32(h[0:4], endOfCentralSignature)
	le.PutUint16(h[4:6], 0) // disk number
	le.PutUint16(h[6:8], 0) // disk with central directory
	le.PutUint16(h[8:10], count)
	le.PutUint16(h[10:12], count)
	le.PutUint32(h[12:16], dirSize)
	le.PutUint32(h[16:20], dirOffset)
	le.PutUint16(h[20:22], 0) // comment length

	b.buf.Write(h[:])
}
