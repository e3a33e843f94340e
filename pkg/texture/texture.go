// Package texture reconstructs a DDS image from a headerless, raw
// block-compressed payload plus its sidecar 256-byte metadata record.
// Unlike a Peg bundle, which carries its own per-entry format fields,
// this asset family stores the texture's dimensions and DXGI format in
// a companion metadata blob and the compressed bytes in a separate,
// header-free file; ConvertRawBCToDDS reassembles the two into the
// classic DDS container pkg/dds already knows how to write.
package texture

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/gamearchive/vpak/pkg/dds"
	"github.com/gamearchive/vpak/pkg/texformat"
)

// DXGI format constants for the handful of values this asset family
// actually uses.
const (
	DXGIFormatUnknown        = 0
	DXGIFormatBC1Unorm       = 71
	DXGIFormatBC1UnormSRGB   = 72
	DXGIFormatBC2Unorm       = 74
	DXGIFormatBC2UnormSRGB   = 75
	DXGIFormatBC3Unorm       = 77
	DXGIFormatBC3UnormSRGB   = 78
	DXGIFormatBC4Unorm       = 80
	DXGIFormatBC4Snorm       = 81
	DXGIFormatBC5Unorm       = 83
	DXGIFormatBC5Snorm       = 84
	DXGIFormatBC6HUF16       = 95
	DXGIFormatBC6HSF16       = 96
	DXGIFormatBC7Unorm       = 98
	DXGIFormatBC7UnormSRGB   = 99
	DXGIFormatR8G8B8A8Unorm  = 28
	DXGIFormatR8G8B8A8UnormS = 29
)

// MetadataSize is the fixed size of a texture metadata record.
const MetadataSize = 256

// TextureMetadata is the 256-byte texture descriptor that accompanies
// a raw BC payload.
type TextureMetadata struct {
	Width       uint32
	Height      uint32
	MipLevels   uint32
	DXGIFormat  uint32
	DDSFileSize uint32
	RawFileSize uint32
	Flags       uint32
	ArraySize   uint32
	Reserved    [224]byte
}

// ParseMetadata reads a texture metadata record from a stream.
func ParseMetadata(r io.Reader) (*TextureMetadata, error) {
	data := make([]byte, MetadataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("failed to read metadata: %w", err)
	}
	return ParseMetadataBytes(data)
}

// ParseMetadataBytes parses a texture metadata record directly from a
// data buffer, the natural form of a packfile entry's payload.
func ParseMetadataBytes(data []byte) (*TextureMetadata, error) {
	if len(data) < MetadataSize {
		return nil, fmt.Errorf("data too short for texture metadata: %d bytes", len(data))
	}

	meta := &TextureMetadata{
		Width:       binary.LittleEndian.Uint32(data[0x00:0x04]),
		Height:      binary.LittleEndian.Uint32(data[0x04:0x08]),
		MipLevels:   binary.LittleEndian.Uint32(data[0x08:0x0C]),
		DXGIFormat:  binary.LittleEndian.Uint32(data[0x0C:0x10]),
		DDSFileSize: binary.LittleEndian.Uint32(data[0x10:0x14]),
		RawFileSize: binary.LittleEndian.Uint32(data[0x14:0x18]),
		Flags:       binary.LittleEndian.Uint32(data[0x18:0x1C]),
		ArraySize:   binary.LittleEndian.Uint32(data[0x1C:0x20]),
	}
	copy(meta.Reserved[:], data[0x20:])

	return meta, nil
}

// ToBytes serializes metadata to 256 bytes.
func (m *TextureMetadata) ToBytes() []byte {
	data := make([]byte, MetadataSize)
	binary.LittleEndian.PutUint32(data[0x00:0x04], m.Width)
	binary.LittleEndian.PutUint32(data[0x04:0x08], m.Height)
	binary.LittleEndian.PutUint32(data[0x08:0x0C], m.MipLevels)
	binary.LittleEndian.PutUint32(data[0x0C:0x10], m.DXGIFormat)
	binary.LittleEndian.PutUint32(data[0x10:0x14], m.DDSFileSize)
	binary.LittleEndian.PutUint32(data[0x14:0x18], m.RawFileSize)
	binary.LittleEndian.PutUint32(data[0x18:0x1C], m.Flags)
	binary.LittleEndian.PutUint32(data[0x1C:0x20], m.ArraySize)
	copy(data[0x20:], m.Reserved[:])
	return data
}

// String returns a human-readable representation.
func (m *TextureMetadata) String() string {
	return fmt.Sprintf(
		"Texture: %dx%d, %d mips, format=%s, dds_size=%d, raw_size=%d",
		m.Width, m.Height, m.MipLevels,
		FormatName(m.DXGIFormat),
		m.DDSFileSize, m.RawFileSize,
	)
}

// FormatName returns a human-readable name for a DXGI format value.
func FormatName(format uint32) string {
	switch format {
	case DXGIFormatBC1Unorm:
		return "BC1_UNORM"
	case DXGIFormatBC1UnormSRGB:
		return "BC1_UNORM_SRGB"
	case DXGIFormatBC2Unorm:
		return "BC2_UNORM"
	case DXGIFormatBC2UnormSRGB:
		return "BC2_UNORM_SRGB"
	case DXGIFormatBC3Unorm:
		return "BC3_UNORM"
	case DXGIFormatBC3UnormSRGB:
		return "BC3_UNORM_SRGB"
	case DXGIFormatBC4Unorm:
		return "BC4_UNORM"
	case DXGIFormatBC4Snorm:
		return "BC4_SNORM"
	case DXGIFormatBC5Unorm:
		return "BC5_UNORM"
	case DXGIFormatBC5Snorm:
		return "BC5_SNORM"
	case DXGIFormatBC6HUF16:
		return "BC6H_UF16"
	case DXGIFormatBC6HSF16:
		return "BC6H_SF16"
	case DXGIFormatBC7Unorm:
		return "BC7_UNORM"
	case DXGIFormatBC7UnormSRGB:
		return "BC7_UNORM_SRGB"
	case DXGIFormatR8G8B8A8Unorm:
		return "R8G8B8A8_UNORM"
	case DXGIFormatR8G8B8A8UnormS:
		return "R8G8B8A8_UNORM_SRGB"
	default:
		return fmt.Sprintf("UNKNOWN(0x%x)", format)
	}
}

// dxgiToTexformat maps the DXGI formats this asset family actually
// emits to the shared texture-format enumeration. Only the classic,
// non-DX10 pixelformat rows (BC1..BC3) are representable: pkg/dds has
// no DX10 extension header, so BC4 upward (which have no classic DDS
// pixelformat row either, see pkg/texformat) cannot round-trip through
// this path.
func dxgiToTexformat(format uint32) (texformat.Format, error) {
	switch format {
	case DXGIFormatBC1Unorm, DXGIFormatBC1UnormSRGB:
		return texformat.BC1, nil
	case DXGIFormatBC2Unorm, DXGIFormatBC2UnormSRGB:
		return texformat.BC2, nil
	case DXGIFormatBC3Unorm, DXGIFormatBC3UnormSRGB:
		return texformat.BC3, nil
	default:
		return texformat.None, fmt.Errorf("DXGI format %s has no classic DDS pixelformat row", FormatName(format))
	}
}

// ConvertRawBCToDDS reassembles a headerless BC payload and its
// metadata record into a classic DDS image.
func ConvertRawBCToDDS(rawData []byte, meta *TextureMetadata) (*dds.File, error) {
	if meta == nil {
		return nil, fmt.Errorf("metadata is required")
	}
	if uint32(len(rawData)) != meta.RawFileSize {
		return nil, fmt.Errorf("raw data size %d doesn't match metadata size %d", len(rawData), meta.RawFileSize)
	}

	format, err := dxgiToTexformat(meta.DXGIFormat)
	if err != nil {
		return nil, err
	}
	pf, err := texformat.GetPixelformat(format)
	if err != nil {
		return nil, err
	}

	blockSize := 16
	if format == texformat.BC1 {
		blockSize = 8
	}
	linearSize := calculateLinearSize(meta.Width, meta.Height, blockSize)

	d := &dds.File{
		Flags:             dds.FlagCaps | dds.FlagHeight | dds.FlagWidth | dds.FlagPixelformat | dds.FlagLinearSize,
		Height:            meta.Height,
		Width:             meta.Width,
		PitchOrLinearSize: linearSize,
		MipmapCount:       meta.MipLevels,
		Pixelformat:       pf,
		Caps:              dds.CapsTexture,
		Data:              rawData,
	}
	if meta.MipLevels > 1 {
		d.Flags |= dds.FlagMipmapCount
		d.Caps |= dds.CapsMipmap
	}

	return d, nil
}

// calculateLinearSize returns the block-compressed linear size for a
// BC1/2/3 surface.
func calculateLinearSize(width, height uint32, blockSize int) uint32 {
	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4
	return blocksWide * blocksHigh * uint32(blockSize)
}
