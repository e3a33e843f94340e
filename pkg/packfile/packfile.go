// Package packfile reads and writes the versioned "vpp" archive format:
// a directory of named, optionally compressed, optionally condensed
// sub-files.
//
// Three on-disk versions are supported: v6, v10, and v17. They share
// most field names but differ in field widths and in how section
// offsets are derived, so Packfile dispatches on version rather than
// modeling a single union struct.
package packfile

import (
	"io"

	"github.com/gamearchive/vpak/pkg/byteio"
	"github.com/gamearchive/vpak/pkg/compress"
	"github.com/gamearchive/vpak/pkg/vpakerr"
)

// Descriptor is the fixed magic every Packfile begins with.
const Descriptor uint32 = 0x51890ACE

// HeaderFlags is the archive-wide flag bitset.
type HeaderFlags uint32

const (
	// FlagCompressed marks that data is compressed (per-entry, unless
	// Condensed is also set).
	FlagCompressed HeaderFlags = 1
	// FlagCondensed marks that the whole data section is one
	// compressed stream covering every entry's payload.
	FlagCondensed HeaderFlags = 2
)

const (
	headerSizeV6Raw    = 380
	headerSizeV6Padded = 2048
	headerSizeV10      = 40
	headerSizeV17      = 120

	v6RuntimeSkip = 0x144
)

// Packfile is a version-dispatched header/directory parser with lazy
// per-entry decode.
type Packfile struct {
	Version            int // 6, 10, or 17
	Flags              HeaderFlags
	HeaderChecksum     uint32 // v10, v17
	NumPaths           uint32 // v17 only
	DataSize           uint64
	CompressedDataSize uint64
	Timestamp          uint64 // v17 only
	DataOffset         uint64 // v17 only, explicit absolute offset
	Entries            []*Entry

	stream io.ReadSeeker
}

// New creates an empty Packfile for write, at the given version.
func New(version int) *Packfile {
	return &Packfile{Version: version}
}

// Parse reads a full Packfile header and directory from stream. The
// stream is retained for lazy per-entry data access.
func Parse(stream io.ReadSeeker) (*Packfile, error) {
	r := byteio.NewReader(stream)

	descriptor, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if descriptor != Descriptor {
		return nil, vpakerr.NewField("descriptor", hexString(descriptor))
	}

	version, err := r.ReadU32()
	if err != nil {
		return nil, err
	}

	pf := &Packfile{Version: int(version), stream: stream}

	switch version {
	case 6:
		if err := pf.loadHeaderV6(r); err != nil {
			return nil, err
		}
	case 10:
		if err := pf.loadHeaderV10(r); err != nil {
			return nil, err
		}
	case 17:
		if err := pf.loadHeaderV17(r); err != nil {
			return nil, err
		}
	default:
		return nil, vpakerr.NewParsing("Unsupported version")
	}

	return pf, nil
}

func (pf *Packfile) loadHeaderV6(r *byteio.Reader) error {
	if err := r.Ignore(v6RuntimeSkip); err != nil {
		return err
	}
	flags, err := r.ReadU32()
	if err != nil {
		return err
	}
	if _, err := r.ReadU32(); err != nil { // sector placeholder
		return err
	}
	numFiles, err := r.ReadU32()
	if err != nil {
		return err
	}
	if _, err := r.ReadU32(); err != nil { // file_size, unused by the model
		return err
	}
	dirSize, err := r.ReadU32()
	if err != nil {
		return err
	}
	filenameSize, err := r.ReadU32()
	if err != nil {
		return err
	}
	dataSize, err := r.ReadU32()
	if err != nil {
		return err
	}
	compressedDataSize, err := r.ReadU32()
	if err != nil {
		return err
	}

	pf.Flags = HeaderFlags(flags)
	pf.DataSize = uint64(dataSize)
	pf.CompressedDataSize = uint64(compressedDataSize)

	if err := r.Seek(headerSizeV6Padded); err != nil {
		return err
	}

	filenameOffsets := make([]uint32, numFiles)
	pf.Entries = make([]*Entry, numFiles)
	for i := range pf.Entries {
		off, err := r.ReadU32()
		if err != nil {
			return err
		}
		filenameOffsets[i] = off

		entry := newOwnedEntry(pf)
		if err := entry.loadV6(r); err != nil {
			return err
		}
		pf.Entries[i] = entry
	}

	namesOffset := pf.entryNamesOffset(uint64(dirSize))
	for i, entry := range pf.Entries {
		if err := r.Seek(int64(namesOffset) + int64(filenameOffsets[i])); err != nil {
			return err
		}
		name, err := r.ReadCString(0)
		if err != nil {
			return err
		}
		entry.Filename = name
	}

	_ = filenameSize
	return nil
}

func (pf *Packfile) loadHeaderV10(r *byteio.Reader) error {
	checksum, err := r.ReadU32()
	if err != nil {
		return err
	}
	if _, err := r.ReadU32(); err != nil { // file_size
		return err
	}
	flags, err := r.ReadU32()
	if err != nil {
		return err
	}
	numFiles, err := r.ReadU32()
	if err != nil {
		return err
	}
	dirSize, err := r.ReadU32()
	if err != nil {
		return err
	}
	filenameSize, err := r.ReadU32()
	if err != nil {
		return err
	}
	dataSize, err := r.ReadU32()
	if err != nil {
		return err
	}
	compressedDataSize, err := r.ReadU32()
	if err != nil {
		return err
	}

	pf.HeaderChecksum = checksum
	pf.Flags = HeaderFlags(flags)
	pf.DataSize = uint64(dataSize)
	pf.CompressedDataSize = uint64(compressedDataSize)

	filenameOffsets := make([]uint64, numFiles)
	pf.Entries = make([]*Entry, numFiles)
	for i := range pf.Entries {
		off, err := r.ReadU64()
		if err != nil {
			return err
		}
		filenameOffsets[i] = off

		entry := newOwnedEntry(pf)
		if err := entry.loadV10(r); err != nil {
			return err
		}
		pf.Entries[i] = entry
	}

	namesOffset := pf.entryNamesOffset(uint64(dirSize))
	for i, entry := range pf.Entries {
		if err := r.Seek(int64(namesOffset) + int64(filenameOffsets[i])); err != nil {
			return err
		}
		name, err := r.ReadCString(0)
		if err != nil {
			return err
		}
		entry.Filename = name
	}

	_ = filenameSize
	return nil
}

func (pf *Packfile) loadHeaderV17(r *byteio.Reader) error {
	checksum, err := r.ReadU32()
	if err != nil {
		return err
	}
	flags, err := r.ReadU32()
	if err != nil {
		return err
	}
	numFiles, err := r.ReadU32()
	if err != nil {
		return err
	}
	numPaths, err := r.ReadU32()
	if err != nil {
		return err
	}
	dirSize, err := r.ReadU32()
	if err != nil {
		return err
	}
	filenameSize, err := r.ReadU32()
	if err != nil {
		return err
	}
	if _, err := r.ReadU64(); err != nil { // file_size
		return err
	}
	dataSize, err := r.ReadU64()
	if err != nil {
		return err
	}
	compressedDataSize, err := r.ReadU64()
	if err != nil {
		return err
	}
	timestamp, err := r.ReadU64()
	if err != nil {
		return err
	}
	dataOffset, err := r.ReadU64()
	if err != nil {
		return err
	}

	pf.HeaderChecksum = checksum
	pf.Flags = HeaderFlags(flags)
	pf.NumPaths = numPaths
	pf.DataSize = dataSize
	pf.CompressedDataSize = compressedDataSize
	pf.Timestamp = timestamp
	pf.DataOffset = dataOffset

	// Entry records start at the fixed v17 header size, past the fields above.
	if err := r.Seek(headerSizeV17); err != nil {
		return err
	}

	filenameOffsets := make([]uint64, numFiles)
	filepathOffsets := make([]uint64, numFiles)
	pf.Entries = make([]*Entry, numFiles)
	for i := range pf.Entries {
		fnOff, err := r.ReadU64()
		if err != nil {
			return err
		}
		fpOff, err := r.ReadU64()
		if err != nil {
			return err
		}
		filenameOffsets[i] = fnOff
		filepathOffsets[i] = fpOff

		entry := newOwnedEntry(pf)
		if err := entry.loadV17(r); err != nil {
			return err
		}
		pf.Entries[i] = entry
	}

	namesOffset := pf.entryNamesOffset(uint64(dirSize))
	for i, entry := range pf.Entries {
		if err := r.Seek(int64(namesOffset) + int64(filenameOffsets[i])); err != nil {
			return err
		}
		name, err := r.ReadCString(0)
		if err != nil {
			return err
		}
		entry.Filename = name

		if filepathOffsets[i] != filenameOffsets[i] {
			if err := r.Seek(int64(namesOffset) + int64(filepathOffsets[i])); err != nil {
				return err
			}
			dir, err := r.ReadCString(0)
			if err != nil {
				return err
			}
			entry.Directory = dir
		}
	}

	_ = filenameSize
	return nil
}

// entriesOffset returns where the fixed-size entry records begin.
func (pf *Packfile) entriesOffset() uint64 {
	switch pf.Version {
	case 6:
		return alignUp(headerSizeV6Raw, headerSizeV6Padded)
	case 17:
		return headerSizeV17
	default:
		return headerSizeV10
	}
}

// entryNamesOffset returns where the filename table begins, given the
// directory (entry records) byte size.
func (pf *Packfile) entryNamesOffset(dirSize uint64) uint64 {
	switch pf.Version {
	case 6:
		return alignUp(pf.entriesOffset()+dirSize, headerSizeV6Padded)
	default:
		return pf.entriesOffset() + dirSize
	}
}

// dataOffset returns where the data section begins.
func (pf *Packfile) dataOffset(dirSize, filenameSize uint64) uint64 {
	switch pf.Version {
	case 6:
		return alignUp(pf.entryNamesOffset(dirSize)+filenameSize, headerSizeV6Padded)
	case 10:
		return pf.entryNamesOffset(dirSize) + filenameSize
	case 17:
		// The explicit header field wins over any computed offset.
		return pf.DataOffset
	default:
		return 0
	}
}

// loadFileData implements the lazy materialisation rule: if the
// archive is condensed, the whole data section decodes once and every
// not-yet-cached entry is sliced from the shared buffer; otherwise each
// entry decodes independently.
func (pf *Packfile) loadFileData(entry *Entry) error {
	if entry.cached {
		return nil
	}

	if pf.Flags&FlagCompressed != 0 && pf.Flags&FlagCondensed != 0 {
		return pf.loadCondensed()
	}

	dataStart := pf.computedDataOffset()
	if err := seekTo(pf.stream, int64(dataStart)+int64(entry.Start)); err != nil {
		return err
	}

	r := byteio.NewReader(pf.stream)
	if entry.Flags&EntryCompressed != 0 {
		data, err := pf.decompress(pf.stream)
		if err != nil {
			return err
		}
		entry.data = data
	} else {
		data, err := r.Read(int(entry.Size))
		if err != nil {
			return err
		}
		entry.data = data
	}
	entry.cached = true
	return nil
}

func (pf *Packfile) loadCondensed() error {
	dataStart := pf.computedDataOffset()
	if err := seekTo(pf.stream, int64(dataStart)); err != nil {
		return err
	}

	bulk, err := pf.decompress(pf.stream)
	if err != nil {
		return err
	}

	for _, entry := range pf.Entries {
		if entry.cached {
			continue
		}
		start := entry.Start
		end := start + entry.Size
		if end > uint64(len(bulk)) {
			return vpakerr.NewParsing("condensed entry exceeds decoded bulk size")
		}
		entry.data = bulk[start:end]
		entry.cached = true
	}
	return nil
}

// decompress dispatches to the version-appropriate decompressor: ZLIB
// for v6/v10, LZ4 frame for v17.
func (pf *Packfile) decompress(stream io.Reader) ([]byte, error) {
	if pf.Version == 17 {
		return compress.DecompressLZ4(stream)
	}
	return compress.DecompressZLIB(stream)
}

// computedDataOffset recomputes the data section start from the
// current directory/filename sizes (used during lazy decode, where the
// caller didn't retain the original header's raw section sizes).
func (pf *Packfile) computedDataOffset() uint64 {
	dirSize, filenameSize := pf.computeSectionSizes()
	return pf.dataOffset(dirSize, filenameSize)
}

func (pf *Packfile) computeSectionSizes() (dirSize, filenameSize uint64) {
	entrySize := uint64(16)
	prefixSize := uint64(4)
	switch pf.Version {
	case 6:
		entrySize = 16
		prefixSize = 4
	case 10:
		entrySize = 16
		prefixSize = 8
	case 17:
		entrySize = 32
		prefixSize = 16
	}
	for _, e := range pf.Entries {
		dirSize += entrySize + prefixSize
		filenameSize += uint64(len(e.Filename)) + 1
		if pf.Version == 17 && e.Directory != "" {
			filenameSize += uint64(len(e.Directory)) + 1
		}
	}
	return dirSize, filenameSize
}

// GetEntryByFilename scans linearly for the first entry with the given
// filename.
func (pf *Packfile) GetEntryByFilename(name string) *Entry {
	for _, e := range pf.Entries {
		if e.Filename == name {
			return e
		}
	}
	return nil
}

// GetEntry returns the entry at index i. The interface promises index
// validity: an out-of-range index panics.
func (pf *Packfile) GetEntry(i int) *Entry {
	return pf.Entries[i]
}

func seekTo(s io.Seeker, pos int64) error {
	if _, err := s.Seek(pos, io.SeekStart); err != nil {
		return vpakerr.WrapIO("seek", err)
	}
	return nil
}

func alignUp(pos, n uint64) uint64 {
	if n == 0 {
		return pos
	}
	rem := pos % n
	if rem == 0 {
		return pos
	}
	return pos + (n - rem)
}

func hexString(v uint32) string {
	const hexDigits = "0123456789abcdef"
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = hexDigits[v&0xF]
		v >>= 4
	}
	return string(b)
}
