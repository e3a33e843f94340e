package packfile

import (
	"strings"

	"github.com/gamearchive/vpak/pkg/byteio"
)

// EntryFlags is the per-entry flag bitset.
type EntryFlags uint16

// EntryCompressed marks that this entry's payload is independently
// compressed (only meaningful outside the condensed path).
const EntryCompressed EntryFlags = 1

// Entry is the metadata for one archive member, plus a lazy data cache.
// An Entry never outlives the Packfile that owns it: the owner
// reference exists purely to trigger lazy materialisation from
// Data().
type Entry struct {
	Filename       string
	Directory      string // v17 only
	Start          uint64
	Size           uint64
	CompressedSize uint64
	Flags          EntryFlags
	Alignment      uint32

	owner  *Packfile
	data   []byte
	cached bool
}

// NewEntry creates an orphan entry, useful for synthesizing a new
// archive before it has an owner.
func NewEntry() *Entry {
	return &Entry{}
}

func newOwnedEntry(owner *Packfile) *Entry {
	return &Entry{owner: owner}
}

// loadV6 parses the 16-byte v6 entry record at the current cursor:
// start:u32, size:u32, compressed_size:u32, a u32 runtime parent
// pointer (discarded, never reconstructed on write).
func (e *Entry) loadV6(r *byteio.Reader) error {
	start, err := r.ReadU32()
	if err != nil {
		return err
	}
	size, err := r.ReadU32()
	if err != nil {
		return err
	}
	csize, err := r.ReadU32()
	if err != nil {
		return err
	}
	if _, err := r.ReadU32(); err != nil { // runtime parent pointer, ignored
		return err
	}
	e.Start = uint64(start)
	e.Size = uint64(size)
	e.CompressedSize = uint64(csize)
	e.Flags = 0
	e.Alignment = 0
	return nil
}

// loadV10 parses the 16-byte v10 entry record: start:u32, size:u32,
// compressed_size:u32, flags:u16, alignment:u16.
func (e *Entry) loadV10(r *byteio.Reader) error {
	start, err := r.ReadU32()
	if err != nil {
		return err
	}
	size, err := r.ReadU32()
	if err != nil {
		return err
	}
	csize, err := r.ReadU32()
	if err != nil {
		return err
	}
	flags, err := r.ReadU16()
	if err != nil {
		return err
	}
	alignment, err := r.ReadU16()
	if err != nil {
		return err
	}
	e.Start = uint64(start)
	e.Size = uint64(size)
	e.CompressedSize = uint64(csize)
	e.Flags = EntryFlags(flags)
	e.Alignment = uint32(alignment)
	return nil
}

// loadV17 parses the 32-byte v17 entry record: start:u64, size:u64,
// compressed_size:u64, flags:u16, alignment:u32, a u16 padding field.
func (e *Entry) loadV17(r *byteio.Reader) error {
	start, err := r.ReadU64()
	if err != nil {
		return err
	}
	size, err := r.ReadU64()
	if err != nil {
		return err
	}
	csize, err := r.ReadU64()
	if err != nil {
		return err
	}
	flags, err := r.ReadU16()
	if err != nil {
		return err
	}
	alignment, err := r.ReadU32()
	if err != nil {
		return err
	}
	if _, err := r.ReadU16(); err != nil { // padding
		return err
	}
	e.Start = start
	e.Size = size
	e.CompressedSize = csize
	e.Flags = EntryFlags(flags)
	e.Alignment = alignment
	return nil
}

func (e *Entry) writeV6(w *byteio.Writer) error {
	if err := w.WriteU32(uint32(e.Start)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(e.Size)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(e.CompressedSize)); err != nil {
		return err
	}
	return w.WriteU32(0) // runtime parent pointer, emitted as zero
}

func (e *Entry) writeV10(w *byteio.Writer) error {
	if err := w.WriteU32(uint32(e.Start)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(e.Size)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(e.CompressedSize)); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(e.Flags)); err != nil {
		return err
	}
	return w.WriteU16(uint16(e.Alignment))
}

func (e *Entry) writeV17(w *byteio.Writer) error {
	if err := w.WriteU64(e.Start); err != nil {
		return err
	}
	if err := w.WriteU64(e.Size); err != nil {
		return err
	}
	if err := w.WriteU64(e.CompressedSize); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(e.Flags)); err != nil {
		return err
	}
	if err := w.WriteU32(e.Alignment); err != nil {
		return err
	}
	return w.WriteU16(0) // padding
}

// Data returns the entry's materialised bytes, decoding them from the
// owning archive on first access. Orphan entries (no owner, e.g. newly
// constructed for write) return whatever has been set directly.
func (e *Entry) Data() ([]byte, error) {
	if e.cached {
		return e.data, nil
	}
	if e.owner == nil {
		return e.data, nil
	}
	if err := e.owner.loadFileData(e); err != nil {
		return nil, err
	}
	return e.data, nil
}

// SetData sets the entry's materialised payload directly and marks it
// cached; used when constructing an archive for write.
func (e *Entry) SetData(data []byte) {
	e.data = data
	e.cached = true
	e.Size = uint64(len(data))
}

// IsCached reports whether the entry's data has been materialised.
func (e *Entry) IsCached() bool {
	return e.cached
}

// GetSize returns the cache's length if populated, otherwise the
// declared size.
func (e *Entry) GetSize() uint64 {
	if e.cached {
		return uint64(len(e.data))
	}
	return e.Size
}

// Filepath returns "directory\filename" (v17) or just the filename.
func (e *Entry) Filepath() string {
	if e.Directory != "" {
		return e.Directory + "\\" + e.Filename
	}
	return e.Filename
}

// SetFilepath splits p on the last backslash into Directory/Filename.
func (e *Entry) SetFilepath(p string) {
	idx := strings.LastIndexByte(p, '\\')
	if idx < 0 {
		e.Directory = ""
		e.Filename = p
		return
	}
	e.Directory = p[:idx]
	e.Filename = p[idx+1:]
}
