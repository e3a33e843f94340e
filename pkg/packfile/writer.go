package packfile

import (
	"io"

	"github.com/gamearchive/vpak/pkg/byteio"
	"github.com/gamearchive/vpak/pkg/vpakerr"
)

// Write serialises the archive to w. Every payload is written as the
// bytes Data returns, uncompressed and back to back; header and entry
// flags are written as they are, so v10 and v17 output reads back with
// the same entries and payloads only for archives that carry no
// compression flags. v6 write is supported (the layout is fully
// determined by the header's own section-size fields) but is
// best-effort and lightly exercised, since v6 archives are rare in
// practice.
func (pf *Packfile) Write(w io.WriteSeeker) error {
	switch pf.Version {
	case 6:
		return pf.writeV6(w)
	case 10:
		return pf.writeV10(w)
	case 17:
		return pf.writeV17(w)
	default:
		return vpakerr.NewParsing("Unsupported version")
	}
}

// materialise ensures every entry's data is resident in memory, pulling
// from the previous owner if needed, before offsets are computed. It then
// sets each entry's Start to where writeEntryData places its payload:
// back to back from the start of the data section.
func (pf *Packfile) materialise() ([][]byte, error) {
	out := make([][]byte, len(pf.Entries))
	for i, e := range pf.Entries {
		data, err := e.Data()
		if err != nil {
			return nil, err
		}
		out[i] = data
	}
	var start uint64
	for i, e := range pf.Entries {
		e.Start = start
		start += uint64(len(out[i]))
	}
	return out, nil
}

func (pf *Packfile) writeV6(dst io.WriteSeeker) error {
	datas, err := pf.materialise()
	if err != nil {
		return err
	}

	w := byteio.NewWriter(dst)

	if err := w.WriteU32(Descriptor); err != nil {
		return err
	}
	if err := w.WriteU32(6); err != nil {
		return err
	}
	if err := w.Pad(v6RuntimeSkip); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(pf.Flags)); err != nil {
		return err
	}
	if err := w.WriteU32(0); err != nil { // sector placeholder
		return err
	}

	dirSize, filenameSize := pf.computeSectionSizesFor(datas)
	dataSize, compressedDataSize := pf.sumDataSizes(datas)
	dataStart := alignUp(alignUp(headerSizeV6Raw, headerSizeV6Padded)+dirSize, headerSizeV6Padded)
	dataStart = alignUp(dataStart+filenameSize, headerSizeV6Padded)
	totalFileSize := dataStart + dataSize

	if err := w.WriteU32(uint32(len(pf.Entries))); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(totalFileSize)); err != nil { // file_size
		return err
	}
	if err := w.WriteU32(uint32(dirSize)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(filenameSize)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(dataSize)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(compressedDataSize)); err != nil {
		return err
	}

	if err := w.Seek(headerSizeV6Padded); err != nil {
		return err
	}

	nameOffsets := computeNameOffsets(pf.Entries)
	for i, e := range pf.Entries {
		if err := w.WriteU32(uint32(nameOffsets[i])); err != nil {
			return err
		}
		if err := e.writeV6(w); err != nil {
			return err
		}
	}

	namesOffset := pf.entryNamesOffset(dirSize)
	if err := w.Seek(int64(namesOffset)); err != nil {
		return err
	}
	for _, e := range pf.Entries {
		if err := w.WriteCString(e.Filename); err != nil {
			return err
		}
	}

	entryDataStart := pf.dataOffset(dirSize, filenameSize)
	if err := w.Seek(int64(entryDataStart)); err != nil {
		return err
	}
	return writeEntryData(w, pf.Entries, datas)
}

func (pf *Packfile) writeV10(dst io.WriteSeeker) error {
	datas, err := pf.materialise()
	if err != nil {
		return err
	}

	w := byteio.NewWriter(dst)

	dirSize, filenameSize := pf.computeSectionSizesFor(datas)
	dataSize, compressedDataSize := pf.sumDataSizes(datas)
	totalFileSize := uint64(headerSizeV10) + dirSize + filenameSize + dataSize

	if err := w.WriteU32(Descriptor); err != nil {
		return err
	}
	if err := w.WriteU32(10); err != nil {
		return err
	}
	if err := w.WriteU32(pf.HeaderChecksum); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(totalFileSize)); err != nil { // file_size
		return err
	}
	if err := w.WriteU32(uint32(pf.Flags)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(len(pf.Entries))); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(dirSize)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(filenameSize)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(dataSize)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(compressedDataSize)); err != nil {
		return err
	}

	nameOffsets := computeNameOffsets(pf.Entries)
	for i, e := range pf.Entries {
		if err := w.WriteU64(uint64(nameOffsets[i])); err != nil {
			return err
		}
		if err := e.writeV10(w); err != nil {
			return err
		}
	}

	for _, e := range pf.Entries {
		if err := w.WriteCString(e.Filename); err != nil {
			return err
		}
	}

	return writeEntryData(w, pf.Entries, datas)
}

func (pf *Packfile) writeV17(dst io.WriteSeeker) error {
	datas, err := pf.materialise()
	if err != nil {
		return err
	}

	w := byteio.NewWriter(dst)

	dirSize, filenameSize := pf.computeSectionSizesFor(datas)
	dataSize, compressedDataSize := pf.sumDataSizes(datas)
	dataStart := uint64(headerSizeV17) + dirSize + filenameSize

	if err := w.WriteU32(Descriptor); err != nil {
		return err
	}
	if err := w.WriteU32(17); err != nil {
		return err
	}
	if err := w.WriteU32(pf.HeaderChecksum); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(pf.Flags)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(len(pf.Entries))); err != nil {
		return err
	}
	if err := w.WriteU32(pf.NumPaths); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(dirSize)); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(filenameSize)); err != nil {
		return err
	}
	if err := w.WriteU64(dataStart + dataSize); err != nil { // file_size
		return err
	}
	if err := w.WriteU64(dataSize); err != nil {
		return err
	}
	if err := w.WriteU64(compressedDataSize); err != nil {
		return err
	}
	if err := w.WriteU64(pf.Timestamp); err != nil {
		return err
	}
	if err := w.WriteU64(dataStart); err != nil {
		return err
	}
	// Zero-fill the rest of the fixed v17 header so entries start at headerSizeV17.
	pos, err := w.Tell()
	if err != nil {
		return err
	}
	if err := w.Pad(int(int64(headerSizeV17) - pos)); err != nil {
		return err
	}

	filenameOffsets, filepathOffsets := computeV17NameOffsets(pf.Entries)
	for i, e := range pf.Entries {
		if err := w.WriteU64(filenameOffsets[i]); err != nil {
			return err
		}
		if err := w.WriteU64(filepathOffsets[i]); err != nil {
			return err
		}
		if err := e.writeV17(w); err != nil {
			return err
		}
	}

	for _, e := range pf.Entries {
		if err := w.WriteCString(e.Filename); err != nil {
			return err
		}
		if e.Directory != "" {
			if err := w.WriteCString(e.Directory); err != nil {
				return err
			}
		}
	}

	pf.DataOffset = dataStart
	return writeEntryData(w, pf.Entries, datas)
}

func writeEntryData(w *byteio.Writer, entries []*Entry, datas [][]byte) error {
	for i, e := range entries {
		_ = e
		if err := w.Write(datas[i]); err != nil {
			return err
		}
	}
	return nil
}

func computeNameOffsets(entries []*Entry) []uint64 {
	offsets := make([]uint64, len(entries))
	var pos uint64
	for i, e := range entries {
		offsets[i] = pos
		pos += uint64(len(e.Filename)) + 1
	}
	return offsets
}

func computeV17NameOffsets(entries []*Entry) (filenameOffsets, filepathOffsets []uint64) {
	filenameOffsets = make([]uint64, len(entries))
	filepathOffsets = make([]uint64, len(entries))
	var pos uint64
	for i, e := range entries {
		filenameOffsets[i] = pos
		pos += uint64(len(e.Filename)) + 1
		if e.Directory != "" {
			filepathOffsets[i] = pos
			pos += uint64(len(e.Directory)) + 1
		} else {
			filepathOffsets[i] = filenameOffsets[i]
		}
	}
	return filenameOffsets, filepathOffsets
}

func (pf *Packfile) computeSectionSizesFor(datas [][]byte) (dirSize, filenameSize uint64) {
	entrySize := uint64(16)
	prefixSize := uint64(4)
	switch pf.Version {
	case 6:
		entrySize, prefixSize = 16, 4
	case 10:
		entrySize, prefixSize = 16, 8
	case 17:
		entrySize, prefixSize = 32, 16
	}
	for _, e := range pf.Entries {
		dirSize += entrySize + prefixSize
		filenameSize += uint64(len(e.Filename)) + 1
		if pf.Version == 17 && e.Directory != "" {
			filenameSize += uint64(len(e.Directory)) + 1
		}
	}
	_ = datas
	return dirSize, filenameSize
}

func (pf *Packfile) sumDataSizes(datas [][]byte) (dataSize, compressedDataSize uint64) {
	for _, d := range datas {
		dataSize += uint64(len(d))
	}
	compressedDataSize = dataSize
	return dataSize, compressedDataSize
}
