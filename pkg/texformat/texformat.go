// Package texformat is the texture-format enumeration shared between
// the DDS pixelformat table and Peg bitmap entries. It is the
// translation layer between "what a DDS pixelformat sub-struct says"
// and "what bm_fmt a PegEntry records": every format a Peg entry can
// carry maps to at most one DDS pixelformat row, but several Peg
// formats (the BC4/5/6/7 block-compressed ones) have no DDS row at all
// and only round-trip through the block-compression codec directly.
package texformat

import (
	"github.com/gamearchive/vpak/pkg/dds"
	"github.com/gamearchive/vpak/pkg/vpakerr"
)

// Format is the texture-format enumeration. Compressed/uncompressed
// formats usable with the classic DDS pixelformat table start at 400;
// 0 means "no format detected".
type Format int32

const None Format = 0

const (
	BC1 Format = 400 + iota
	BC2
	BC3
	R565
	A1R5G5B5
	A4R4G4B4
	R888
	A8888
	DuDv16
	Dot3Compressed16
	A8
	BC6HU
	BC6HS
	BC7
	BC4
	BC5
	RGBA16161616
	RGBA32323232
)

func fourCC(s string) uint32 {
	var b [4]byte
	copy(b[:], s)
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

type row struct {
	format Format
	pf     dds.Pixelformat
}

// table is indexed 0..10, matching the enum values 400..410. Formats
// 411 upward (BC6HU..RGBA32323232) have no DDS pixelformat row; they
// only exist as Peg bm_fmt values feeding the block-compression codec.
var table = []row{
	{BC1, dds.Pixelformat{Flags: dds.PFFourCC, FourCC: fourCC("DXT1")}},
	{BC2, dds.Pixelformat{Flags: dds.PFFourCC, FourCC: fourCC("DXT3")}},
	{BC3, dds.Pixelformat{Flags: dds.PFFourCC, FourCC: fourCC("DXT5")}},
	{R565, dds.Pixelformat{Flags: dds.PFRGB, RGBBitCount: 16, RBitMask: 0xF800, GBitMask: 0x07E0, BBitMask: 0x001F}},
	{A1R5G5B5, dds.Pixelformat{Flags: dds.PFRGB | dds.PFAlphaPixels, RGBBitCount: 16, RBitMask: 0x7C00, GBitMask: 0x03E0, BBitMask: 0x001F, ABitMask: 0x8000}},
	{A4R4G4B4, dds.Pixelformat{Flags: dds.PFRGB | dds.PFAlphaPixels, RGBBitCount: 16, RBitMask: 0x0F00, GBitMask: 0x00F0, BBitMask: 0x000F, ABitMask: 0xF000}},
	{R888, dds.Pixelformat{Flags: dds.PFRGB, RGBBitCount: 24, RBitMask: 0xFF0000, GBitMask: 0x00FF00, BBitMask: 0x0000FF}},
	{A8888, dds.Pixelformat{Flags: dds.PFRGB | dds.PFAlphaPixels, RGBBitCount: 32, RBitMask: 0x00FF0000, GBitMask: 0x0000FF00, BBitMask: 0x000000FF, ABitMask: 0xFF000000}},
	{DuDv16, dds.Pixelformat{Flags: dds.PFBumpDuDv, RGBBitCount: 16, RBitMask: 0x00FF, GBitMask: 0xFF00}},
	{Dot3Compressed16, dds.Pixelformat{Flags: dds.PFFourCC, FourCC: 117, RGBBitCount: 16, RBitMask: 0x00FF, GBitMask: 0xFF00}},
	{A8, dds.Pixelformat{Flags: dds.PFAlpha, RGBBitCount: 8, ABitMask: 0xFF}},
}

// GetPixelformat maps a texture format to its DDS pixelformat row.
// Formats outside the classic table (BC6HU upward, which includes BC4,
// BC5 and BC7) fail: the DDS
// container simply has no row for them.
func GetPixelformat(f Format) (dds.Pixelformat, error) {
	for _, r := range table {
		if r.format == f {
			pf := r.pf
			pf.Size = dds.PixelformatSize
			return pf, nil
		}
	}
	return dds.Pixelformat{}, vpakerr.NewField("format", formatName(f))
}

// DetectPixelformat scans the table for a row matching ddspf: flags
// must match exactly, and depending on which flags the row declares,
// the FourCC, RGB bit-count/masks, and alpha mask must also agree.
// Returns None if nothing matches.
func DetectPixelformat(ddspf dds.Pixelformat) Format {
	for _, r := range table {
		want := r.pf
		if want.Flags != ddspf.Flags {
			continue
		}
		if want.Flags&dds.PFFourCC != 0 && want.FourCC != ddspf.FourCC {
			continue
		}
		if want.Flags&dds.PFRGB != 0 {
			if want.RGBBitCount != ddspf.RGBBitCount ||
				want.RBitMask != ddspf.RBitMask ||
				want.GBitMask != ddspf.GBitMask ||
				want.BBitMask != ddspf.BBitMask {
				continue
			}
		}
		if want.Flags&dds.PFAlphaPixels != 0 && want.ABitMask != ddspf.ABitMask {
			continue
		}
		return r.format
	}
	return None
}

func formatName(f Format) string {
	switch f {
	case None:
		return "NONE"
	case BC1:
		return "PC_BC1"
	case BC2:
		return "PC_BC2"
	case BC3:
		return "PC_BC3"
	case R565:
		return "PC_565"
	case A1R5G5B5:
		return "PC_1555"
	case A4R4G4B4:
		return "PC_4444"
	case R888:
		return "PC_888"
	case A8888:
		return "PC_8888"
	case DuDv16:
		return "PC_16_DUDV"
	case Dot3Compressed16:
		return "PC_16_DOT3_COMPRESSED"
	case A8:
		return "PC_A8"
	case BC6HU:
		return "PC_BC6HU"
	case BC6HS:
		return "PC_BC6HS"
	case BC7:
		return "PC_BC7"
	case BC4:
		return "PC_BC4"
	case BC5:
		return "PC_BC5"
	case RGBA16161616:
		return "PC_16161616"
	case RGBA32323232:
		return "PC_32323232"
	default:
		return "UNKNOWN"
	}
}
