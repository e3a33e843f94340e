// Package audio provides parsers for Echo VR audio reference structures.
//
// Audio reference files (type 0x38ee951a26fb816a, 119 files) contain
// indices or references to audio assets within the game's audio system.
package audio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// AudioReference represents an audio asset reference structure.
// Based on analysis of 119 files, typical structure appears to be:
// - 8-byte GUID/type identifier (0x38ee951a26fb816a)
// - 8-byte asset reference
// - Additional metadata fields
type AudioReference struct {
	GUIDType       uint64 // +0x00: Type GUID (0x38ee951a26fb816a)
	AssetReference uint64 // +0x08: Reference to audio asset
	Count          uint32 // +0x10: Number of entries or flags
	Flags          uint32 // +0x14: Additional flags
	Reserved       []byte // Variable size remaining data
}

// ParseAudioReference reads an audio reference from a stream, such as
// a packfile entry's materialized data wrapped in a bytes.Reader.
func ParseAudioReference(r io.Reader) (*AudioReference, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio reference: %w", err)
	}
	return ParseAudioReferenceBytes(data)
}

// ParseAudioReferenceBytes parses an audio reference directly from a
// data buffer, the natural form of a packfile entry's payload.
func ParseAudioReferenceBytes(data []byte) (*AudioReference, error) {
	if len(data) < 24 {
		return nil, fmt.Errorf("data too short for audio reference: %d bytes", len(data))
	}

	ref := &AudioReference{
		GUIDType:       binary.LittleEndian.Uint64(data[0x00:0x08]),
		AssetReference: binary.LittleEndian.Uint64(data[0x08:0x10]),
		Count:          binary.LittleEndian.Uint32(data[0x10:0x14]),
		Flags:          binary.LittleEndian.Uint32(data[0x14:0x18]),
	}
	ref.Reserved = append([]byte(nil), data[0x18:]...)

	return ref, nil
}

// AudioIndex represents a collection of audio references.
type AudioIndex struct {
	References []AudioReference
}

// ParseAudioIndex reads all of r and parses it as an audio index. The
// whole buffer is parsed as a single reference (see ParseAudioIndexBytes).
func ParseAudioIndex(r io.Reader) (*AudioIndex, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read audio index: %w", err)
	}
	return ParseAudioIndexBytes(data)
}

// ParseAudioIndexBytes parses an audio index directly from a data
// buffer, the natural form of a packfile entry's payload.
func ParseAudioIndexBytes(data []byte) (*AudioIndex, error) {
	index := &AudioIndex{}

	// Basic structure appears to be fixed-size entries.
	// For now, treat the entire buffer as a single reference; this may
	// need adjustment based on further file analysis.
	ref, err := ParseAudioReferenceBytes(data)
	if err != nil {
		return nil, err
	}

	index.References = append(index.References, *ref)
	return index, nil
}

// String returns a human-readable representation.
func (r *AudioReference) String() string {
	return fmt.Sprintf(
		"AudioRef[guid=%016x, asset=%016x, count=%d, flags=0x%x, extra=%d bytes]",
		r.GUIDType, r.AssetReference, r.Count, r.Flags, len(r.Reserved),
	)
}
