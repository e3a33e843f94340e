// Package dds reads and writes the standard DirectDraw Surface container:
// a 124-byte header (with an embedded 32-byte pixelformat sub-struct)
// followed by the raw pixel payload. The pixelformat table maps the
// handful of uncompressed/DXT formats this module round-trips through
// DDS to the texture-format enumeration used by the Peg bitmap format.
package dds

import (
	"io"

	"github.com/gamearchive/vpak/pkg/byteio"
	"github.com/gamearchive/vpak/pkg/vpakerr"
)

// FourCC is the four-character code every DDS file begins with.
const FourCC = "DDS "

// HeaderSize and PixelformatSize are the two size sentinels the reader
// checks against the declared values embedded in the header itself.
const (
	HeaderSize      = 124
	PixelformatSize = 32
)

// Header flags (DDSD_*).
const (
	FlagCaps        = 0x00000001
	FlagHeight      = 0x00000002
	FlagWidth       = 0x00000004
	FlagPitch       = 0x00000008
	FlagPixelformat = 0x00001000
	FlagMipmapCount = 0x00020000
	FlagLinearSize  = 0x00080000
	FlagDepth       = 0x00800000
)

// Caps flags (DDSCAPS_*).
const (
	CapsComplex = 0x00000008
	CapsMipmap  = 0x00400000
	CapsTexture = 0x00001000
)

// Pixelformat flags (DDPF_*).
const (
	PFAlphaPixels = 0x00000001
	PFAlpha       = 0x00000002
	PFFourCC      = 0x00000004
	PFRGB         = 0x00000040
	PFBumpDuDv    = 0x00080000
)

// Pixelformat is the embedded 32-byte sub-struct that is the sole place
// a DDS file records its texture format.
type Pixelformat struct {
	Size        uint32
	Flags       uint32
	FourCC      uint32
	RGBBitCount uint32
	RBitMask    uint32
	GBitMask    uint32
	BBitMask    uint32
	ABitMask    uint32
}

// File is the parsed 124-byte DDS header plus its pixel payload.
type File struct {
	Flags             uint32
	Height            uint32
	Width             uint32
	PitchOrLinearSize uint32
	Depth             uint32
	MipmapCount       uint32
	Reserved1         [11]uint32
	Pixelformat       Pixelformat
	Caps              uint32
	Caps2             uint32
	Caps3             uint32
	Caps4             uint32
	Reserved2         uint32
	Data              []byte
}

func fourCCBytes(s string) uint32 {
	var b [4]byte
	copy(b[:], s)
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// Parse verifies the "DDS " four-character code and the 124/32 size
// sentinels, copies the header into File, and slurps the remainder as
// the pixel payload.
func Parse(r io.ReadSeeker) (*File, error) {
	br := byteio.NewReader(r)

	magic, err := br.Read(4)
	if err != nil {
		return nil, err
	}
	if string(magic) != FourCC {
		return nil, vpakerr.NewField("fourCC", string(magic))
	}

	size, err := br.ReadU32()
	if err != nil {
		return nil, err
	}
	if size != HeaderSize {
		return nil, vpakerr.NewField("header_size", uintToString(size))
	}

	f := &File{}
	if f.Flags, err = br.ReadU32(); err != nil {
		return nil, err
	}
	if f.Height, err = br.ReadU32(); err != nil {
		return nil, err
	}
	if f.Width, err = br.ReadU32(); err != nil {
		return nil, err
	}
	if f.PitchOrLinearSize, err = br.ReadU32(); err != nil {
		return nil, err
	}
	if f.Depth, err = br.ReadU32(); err != nil {
		return nil, err
	}
	if f.MipmapCount, err = br.ReadU32(); err != nil {
		return nil, err
	}
	for i := range f.Reserved1 {
		if f.Reserved1[i], err = br.ReadU32(); err != nil {
			return nil, err
		}
	}

	pfSize, err := br.ReadU32()
	if err != nil {
		return nil, err
	}
	if pfSize != PixelformatSize {
		return nil, vpakerr.NewField("pixelformat_size", uintToString(pfSize))
	}
	f.Pixelformat.Size = pfSize
	if f.Pixelformat.Flags, err = br.ReadU32(); err != nil {
		return nil, err
	}
	fourCC, err := br.Read(4)
	if err != nil {
		return nil, err
	}
	f.Pixelformat.FourCC = uint32(fourCC[0]) | uint32(fourCC[1])<<8 | uint32(fourCC[2])<<16 | uint32(fourCC[3])<<24
	if f.Pixelformat.RGBBitCount, err = br.ReadU32(); err != nil {
		return nil, err
	}
	if f.Pixelformat.RBitMask, err = br.ReadU32(); err != nil {
		return nil, err
	}
	if f.Pixelformat.GBitMask, err = br.ReadU32(); err != nil {
		return nil, err
	}
	if f.Pixelformat.BBitMask, err = br.ReadU32(); err != nil {
		return nil, err
	}
	if f.Pixelformat.ABitMask, err = br.ReadU32(); err != nil {
		return nil, err
	}

	if f.Caps, err = br.ReadU32(); err != nil {
		return nil, err
	}
	if f.Caps2, err = br.ReadU32(); err != nil {
		return nil, err
	}
	if f.Caps3, err = br.ReadU32(); err != nil {
		return nil, err
	}
	if f.Caps4, err = br.ReadU32(); err != nil {
		return nil, err
	}
	if f.Reserved2, err = br.ReadU32(); err != nil {
		return nil, err
	}

	rest, err := io.ReadAll(r)
	if err != nil {
		return nil, vpakerr.WrapIO("reading DDS payload", err)
	}
	f.Data = rest

	return f, nil
}

// Write emits the header fields identically to how Parse reads them,
// followed by the pixel payload.
func (f *File) Write(w io.WriteSeeker) error {
	bw := byteio.NewWriter(w)

	if err := bw.Write([]byte(FourCC)); err != nil {
		return err
	}
	if err := bw.WriteU32(HeaderSize); err != nil {
		return err
	}
	if err := bw.WriteU32(f.Flags); err != nil {
		return err
	}
	if err := bw.WriteU32(f.Height); err != nil {
		return err
	}
	if err := bw.WriteU32(f.Width); err != nil {
		return err
	}
	if err := bw.WriteU32(f.PitchOrLinearSize); err != nil {
		return err
	}
	if err := bw.WriteU32(f.Depth); err != nil {
		return err
	}
	if err := bw.WriteU32(f.MipmapCount); err != nil {
		return err
	}
	for _, v := range f.Reserved1 {
		if err := bw.WriteU32(v); err != nil {
			return err
		}
	}

	if err := bw.WriteU32(PixelformatSize); err != nil {
		return err
	}
	if err := bw.WriteU32(f.Pixelformat.Flags); err != nil {
		return err
	}
	fourCC := []byte{
		byte(f.Pixelformat.FourCC), byte(f.Pixelformat.FourCC >> 8),
		byte(f.Pixelformat.FourCC >> 16), byte(f.Pixelformat.FourCC >> 24),
	}
	if err := bw.Write(fourCC); err != nil {
		return err
	}
	if err := bw.WriteU32(f.Pixelformat.RGBBitCount); err != nil {
		return err
	}
	if err := bw.WriteU32(f.Pixelformat.RBitMask); err != nil {
		return err
	}
	if err := bw.WriteU32(f.Pixelformat.GBitMask); err != nil {
		return err
	}
	if err := bw.WriteU32(f.Pixelformat.BBitMask); err != nil {
		return err
	}
	if err := bw.WriteU32(f.Pixelformat.ABitMask); err != nil {
		return err
	}

	if err := bw.WriteU32(f.Caps); err != nil {
		return err
	}
	if err := bw.WriteU32(f.Caps2); err != nil {
		return err
	}
	if err := bw.WriteU32(f.Caps3); err != nil {
		return err
	}
	if err := bw.WriteU32(f.Caps4); err != nil {
		return err
	}
	if err := bw.WriteU32(f.Reserved2); err != nil {
		return err
	}

	return bw.Write(f.Data)
}

func uintToString(v uint32) string {
	const hex = "0123456789abcdef"
	b := make([]byte, 8)
	for i := 7; i >= 0; i-- {
		b[i] = hex[v&0xF]
		v >>= 4
	}
	return string(b)
}
