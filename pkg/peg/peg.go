// Package peg reads and writes the Peg texture bundle format: a header
// stream holding a fixed 24-byte header, an array of entry records (72
// bytes each in v13, 104 in v19) and their filenames, and a separate
// data stream holding each entry's compressed pixel payload. Unlike
// the Packfile container, a Peg bundle is a header/data pair, two
// independent streams, and entries are not lazily decoded: ReadData
// pulls every entry's payload in one pass.
package peg

import (
	"fmt"
	"io"

	"github.com/gamearchive/vpak/pkg/byteio"
	"github.com/gamearchive/vpak/pkg/vpakerr"
)

// Signature is the four-byte magic every Peg header begins with.
const Signature = "GEKV"

// HeaderBinSize is the fixed, version-independent header size.
const HeaderBinSize = 24

// Supported format versions.
const (
	Version13 = 13
	Version19 = 19
)

// headerAlign is the fixed post-header alignment boundary applied for
// v19 only.
const headerAlign = 16

// File is a parsed Peg bundle: its header fields plus the entries
// themselves, each carrying its own filename and (once ReadData runs)
// pixel data.
type File struct {
	Version   int16
	Platform  int16
	Flags     uint16
	Alignment uint16
	Entries   []*Entry
}

// New returns a File with the original format's defaults: version 13,
// platform 0, no flags, 16-byte alignment.
func New() *File {
	return &File{
		Version:   Version13,
		Platform:  0,
		Alignment: 16,
	}
}

func checkVersion(v int16) error {
	if v != Version13 && v != Version19 {
		return vpakerr.NewField("version", fmt.Sprintf("%d", v))
	}
	return nil
}

// ReadHeader reads the fixed header, the entry table, and the
// filenames that follow it. Entry data is not read; call ReadData
// with the bundle's data stream afterward.
func ReadHeader(r io.ReadSeeker) (*File, error) {
	br := byteio.NewReader(r)

	magic, err := br.Read(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != Signature {
		return nil, vpakerr.NewField("signature", string(magic))
	}

	version, err := br.ReadS16()
	if err != nil {
		return nil, err
	}
	if err := checkVersion(version); err != nil {
		return nil, err
	}
	platform, err := br.ReadS16()
	if err != nil {
		return nil, err
	}
	if _, err := br.ReadU32(); err != nil { // declared header_size, recomputed on write
		return nil, err
	}
	if _, err := br.ReadU32(); err != nil { // declared data_size, recomputed on write
		return nil, err
	}
	numBitmaps, err := br.ReadU16()
	if err != nil {
		return nil, err
	}
	flags, err := br.ReadU16()
	if err != nil {
		return nil, err
	}
	totalEntries, err := br.ReadU16()
	if err != nil {
		return nil, err
	}
	if numBitmaps != totalEntries {
		return nil, vpakerr.NewParsing("num_bitmaps does not match total_entries")
	}
	alignment, err := br.ReadU16()
	if err != nil {
		return nil, err
	}

	f := &File{Version: version, Platform: platform, Flags: flags, Alignment: alignment}

	if version == Version19 {
		if err := br.Align(headerAlign); err != nil {
			return nil, err
		}
	}

	f.Entries = make([]*Entry, numBitmaps)
	for i := range f.Entries {
		e := NewEntry()
		var readErr error
		if version == Version13 {
			readErr = e.read13(br)
		} else {
			readErr = e.read19(br)
		}
		if readErr != nil {
			return nil, readErr
		}
		f.Entries[i] = e
	}

	for _, e := range f.Entries {
		name, err := br.ReadCString(0)
		if err != nil {
			return nil, err
		}
		e.Filename = name
	}

	return f, nil
}

// ReadData seeks to each entry's recorded offset in the data stream
// and reads its declared data_size bytes.
func (f *File) ReadData(r io.ReadSeeker) error {
	br := byteio.NewReader(r)
	for _, e := range f.Entries {
		if err := br.Seek(e.Offset); err != nil {
			return err
		}
		data, err := br.Read(int(e.DataSize))
		if err != nil {
			return err
		}
		e.Data = data
	}
	return nil
}

// WriteHeader emits the fixed header, recomputing header_size and
// data_size from the current entry list, followed by the entry table
// (with freshly assigned data_offset values) and filenames. Every
// entry must have a non-empty filename.
func (f *File) WriteHeader(w io.WriteSeeker) error {
	if err := checkVersion(f.Version); err != nil {
		return err
	}

	bw := byteio.NewWriter(w)

	if err := bw.Write([]byte(Signature)); err != nil {
		return err
	}
	if err := bw.WriteS16(f.Version); err != nil {
		return err
	}
	if err := bw.WriteS16(f.Platform); err != nil {
		return err
	}
	if err := bw.WriteU32(uint32(f.calcHeaderSize())); err != nil {
		return err
	}
	if err := bw.WriteU32(uint32(f.calcDataSize())); err != nil {
		return err
	}
	numEntries := uint16(len(f.Entries))
	if err := bw.WriteU16(numEntries); err != nil {
		return err
	}
	if err := bw.WriteU16(f.Flags); err != nil {
		return err
	}
	if err := bw.WriteU16(numEntries); err != nil {
		return err
	}
	if err := bw.WriteU16(f.Alignment); err != nil {
		return err
	}

	if f.Version == Version19 {
		if err := bw.Align(headerAlign); err != nil {
			return err
		}
	}

	var dataOffset int64
	for _, e := range f.Entries {
		dataOffset = alignUp(dataOffset, int64(f.Alignment))
		var writeErr error
		if f.Version == Version13 {
			writeErr = e.write13(bw, dataOffset)
		} else {
			writeErr = e.write19(bw, dataOffset)
		}
		if writeErr != nil {
			return writeErr
		}
		dataOffset += int64(len(e.Data))
	}

	for _, e := range f.Entries {
		if e.Filename == "" {
			return vpakerr.NewField("filename", "empty")
		}
		if err := bw.WriteCString(e.Filename); err != nil {
			return err
		}
	}

	return nil
}

// WriteData emits every entry's payload to the data stream, padding
// to the bundle's alignment before each one.
func (f *File) WriteData(w io.WriteSeeker) error {
	bw := byteio.NewWriter(w)
	for _, e := range f.Entries {
		if err := bw.Align(int64(f.Alignment)); err != nil {
			return err
		}
		if err := bw.Write(e.Data); err != nil {
			return err
		}
	}
	return nil
}

// calcHeaderSize returns the declared header_size: the fixed header
// plus the entry table plus every entry's NUL-terminated filename.
// The v19 post-header alignment pad is not counted, matching the
// original format's own (quirky) computation. Every entry is counted
// at EntryBinSize (72 bytes), so for v19, whose records are 104 bytes
// on disk, the result is smaller than the header bytes written.
func (f *File) calcHeaderSize() int {
	size := HeaderBinSize + len(f.Entries)*EntryBinSize
	for _, e := range f.Entries {
		size += len(e.Filename) + 1
	}
	return size
}

// calcDataSize returns the declared data_size: every entry's payload,
// each aligned up to the bundle's alignment value.
func (f *File) calcDataSize() int {
	var offset int64
	for _, e := range f.Entries {
		offset = alignUp(offset, int64(f.Alignment))
		offset += int64(len(e.Data))
	}
	return int(offset)
}

// GetEntryIndex returns the index of the entry with the given
// filename, or -1 if none matches.
func (f *File) GetEntryIndex(filename string) int {
	for i, e := range f.Entries {
		if e.Filename == filename {
			return i
		}
	}
	return -1
}

func alignUp(pos, n int64) int64 {
	if n <= 0 {
		return pos
	}
	rem := pos % n
	if rem == 0 {
		return pos
	}
	return pos + (n - rem)
}
