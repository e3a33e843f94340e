package peg

import (
	"fmt"

	"github.com/gamearchive/vpak/pkg/bcodec"
	"github.com/gamearchive/vpak/pkg/byteio"
	"github.com/gamearchive/vpak/pkg/dds"
	"github.com/gamearchive/vpak/pkg/texformat"
	"github.com/gamearchive/vpak/pkg/tga"
	"github.com/gamearchive/vpak/pkg/vpakerr"
)

// EntryBinSize is the on-disk size of a v13 entry record. A v19 record,
// as read19/write19 lay it out, is 104 bytes; calcHeaderSize still
// counts EntryBinSize per entry for both versions.
const EntryBinSize = 72

// Entry flag bits.
const (
	FlagAlpha            = 1 << 0
	FlagNonPow2          = 1 << 1
	FlagAlphaTest        = 1 << 2
	FlagCubeMap          = 1 << 3
	FlagInterleavedMips  = 1 << 4
	FlagInterleavedData  = 1 << 5
	FlagDebugDataCopied  = 1 << 6
	FlagDynamic          = 1 << 7
	FlagAnimSheet        = 1 << 8
	FlagLinearColorSpace = 1 << 9
	FlagHighMip          = 1 << 10
	FlagHighMipEligible  = 1 << 11
	FlagLinkedToHighMip  = 1 << 12
	FlagPermRegistered   = 1 << 13
)

// Color is a four-channel floating-point color, used for Entry's
// avg_color (v19 only).
type Color struct {
	R, G, B, A float32
}

// Entry is one texture: its dimensions, format, flags, and (once
// loaded) its compressed pixel data.
type Entry struct {
	Offset          int64
	Width           uint16
	Height          uint16
	BmFmt           texformat.Format
	PalFmt          uint16
	AnimTilesWidth  uint16
	AnimTilesHeight uint16
	NumFrames       uint16 // v13 only
	Depth           uint16 // v19 only
	Flags           int
	AvgColor        Color // v19 only
	PalSize         uint16
	FPS             uint8
	MipLevels       uint8
	DataSize        uint32
	NumMipsSplit    uint32 // v19 only
	DataMaxSize     uint32 // v19 only

	Filename string
	Data     []byte
}

// NewEntry returns an Entry with the original format's defaults.
func NewEntry() *Entry {
	return &Entry{
		AnimTilesWidth:  1,
		AnimTilesHeight: 1,
		NumFrames:       1,
		Depth:           1,
		FPS:             1,
		MipLevels:       1,
	}
}

func (e *Entry) read13(r *byteio.Reader) error {
	offset, err := r.ReadS64()
	if err != nil {
		return err
	}
	width, err := r.ReadU16()
	if err != nil {
		return err
	}
	height, err := r.ReadU16()
	if err != nil {
		return err
	}
	bmFmt, err := r.ReadU16()
	if err != nil {
		return err
	}
	palFmt, err := r.ReadU16()
	if err != nil {
		return err
	}
	animW, err := r.ReadU16()
	if err != nil {
		return err
	}
	animH, err := r.ReadU16()
	if err != nil {
		return err
	}
	numFrames, err := r.ReadU16()
	if err != nil {
		return err
	}
	flags, err := r.ReadU16()
	if err != nil {
		return err
	}
	if err := r.Ignore(8); err != nil { // runtime variable
		return err
	}
	palSize, err := r.ReadU16()
	if err != nil {
		return err
	}
	fps, err := r.ReadU8()
	if err != nil {
		return err
	}
	mipLevels, err := r.ReadU8()
	if err != nil {
		return err
	}
	dataSize, err := r.ReadU32()
	if err != nil {
		return err
	}
	if err := r.Ignore(32); err != nil { // runtime variables and padding
		return err
	}

	e.Offset = offset
	e.Width = width
	e.Height = height
	e.BmFmt = texformat.Format(bmFmt)
	e.PalFmt = palFmt
	e.AnimTilesWidth = animW
	e.AnimTilesHeight = animH
	e.NumFrames = numFrames
	e.Flags = int(flags)
	e.PalSize = palSize
	e.FPS = fps
	e.MipLevels = mipLevels
	e.DataSize = dataSize
	return nil
}

func (e *Entry) read19(r *byteio.Reader) error {
	offset, err := r.ReadS64()
	if err != nil {
		return err
	}
	width, err := r.ReadU16()
	if err != nil {
		return err
	}
	height, err := r.ReadU16()
	if err != nil {
		return err
	}
	bmFmt, err := r.ReadU16()
	if err != nil {
		return err
	}
	palFmt, err := r.ReadU16()
	if err != nil {
		return err
	}
	animW, err := r.ReadU16()
	if err != nil {
		return err
	}
	animH, err := r.ReadU16()
	if err != nil {
		return err
	}
	depth, err := r.ReadU16()
	if err != nil {
		return err
	}
	flags, err := r.ReadU16()
	if err != nil {
		return err
	}
	var color Color
	if color.R, err = r.ReadFloat(); err != nil {
		return err
	}
	if color.G, err = r.ReadFloat(); err != nil {
		return err
	}
	if color.B, err = r.ReadFloat(); err != nil {
		return err
	}
	if color.A, err = r.ReadFloat(); err != nil {
		return err
	}
	if err := r.Ignore(8); err != nil { // runtime variable (filename)
		return err
	}
	palSize, err := r.ReadU16()
	if err != nil {
		return err
	}
	fps, err := r.ReadU8()
	if err != nil {
		return err
	}
	mipLevels, err := r.ReadU8()
	if err != nil {
		return err
	}
	dataSize, err := r.ReadU32()
	if err != nil {
		return err
	}
	if err := r.Ignore(32); err != nil {
		return err
	}
	numMipsSplit, err := r.ReadU32()
	if err != nil {
		return err
	}
	dataMaxSize, err := r.ReadU32()
	if err != nil {
		return err
	}
	if err := r.Ignore(8); err != nil { // padding
		return err
	}

	e.Offset = offset
	e.Width = width
	e.Height = height
	e.BmFmt = texformat.Format(bmFmt)
	e.PalFmt = palFmt
	e.AnimTilesWidth = animW
	e.AnimTilesHeight = animH
	e.Depth = depth
	e.Flags = int(flags)
	e.AvgColor = color
	e.PalSize = palSize
	e.FPS = fps
	e.MipLevels = mipLevels
	e.DataSize = dataSize
	e.NumMipsSplit = numMipsSplit
	e.DataMaxSize = dataMaxSize
	return nil
}

func (e *Entry) write13(w *byteio.Writer, dataOffset int64) error {
	if err := w.WriteS64(dataOffset); err != nil {
		return err
	}
	if err := w.WriteU16(e.Width); err != nil {
		return err
	}
	if err := w.WriteU16(e.Height); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(e.BmFmt)); err != nil {
		return err
	}
	if err := w.WriteU16(e.PalFmt); err != nil {
		return err
	}
	if err := w.WriteU16(e.AnimTilesWidth); err != nil {
		return err
	}
	if err := w.WriteU16(e.AnimTilesHeight); err != nil {
		return err
	}
	if err := w.WriteU16(e.NumFrames); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(e.Flags)); err != nil {
		return err
	}
	if err := w.Pad(8); err != nil {
		return err
	}
	if err := w.WriteU16(e.PalSize); err != nil {
		return err
	}
	if err := w.WriteU8(e.FPS); err != nil {
		return err
	}
	if err := w.WriteU8(e.MipLevels); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(len(e.Data))); err != nil {
		return err
	}
	return w.Pad(32)
}

func (e *Entry) write19(w *byteio.Writer, dataOffset int64) error {
	if err := w.WriteS64(dataOffset); err != nil {
		return err
	}
	if err := w.WriteU16(e.Width); err != nil {
		return err
	}
	if err := w.WriteU16(e.Height); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(e.BmFmt)); err != nil {
		return err
	}
	if err := w.WriteU16(e.PalFmt); err != nil {
		return err
	}
	if err := w.WriteU16(e.AnimTilesWidth); err != nil {
		return err
	}
	if err := w.WriteU16(e.AnimTilesHeight); err != nil {
		return err
	}
	if err := w.WriteU16(e.Depth); err != nil {
		return err
	}
	if err := w.WriteU16(uint16(e.Flags)); err != nil {
		return err
	}
	if err := w.WriteFloat(e.AvgColor.R); err != nil {
		return err
	}
	if err := w.WriteFloat(e.AvgColor.G); err != nil {
		return err
	}
	if err := w.WriteFloat(e.AvgColor.B); err != nil {
		return err
	}
	if err := w.WriteFloat(e.AvgColor.A); err != nil {
		return err
	}
	if err := w.Pad(8); err != nil {
		return err
	}
	if err := w.WriteU16(e.PalSize); err != nil {
		return err
	}
	if err := w.WriteU8(e.FPS); err != nil {
		return err
	}
	if err := w.WriteU8(e.MipLevels); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(len(e.Data))); err != nil {
		return err
	}
	if err := w.Pad(32); err != nil {
		return err
	}
	if err := w.WriteU32(e.NumMipsSplit); err != nil {
		return err
	}
	if err := w.WriteU32(e.DataMaxSize); err != nil {
		return err
	}
	return w.Pad(8)
}

// bcodecFormat maps the subset of texture formats the block-compression
// codec understands to its Format enum. Every other bm_fmt value fails
// both FromTGA and ToTGA.
func bcodecFormat(f texformat.Format) (bcodec.Format, error) {
	switch f {
	case texformat.BC1:
		return bcodec.BC1, nil
	case texformat.BC2:
		return bcodec.BC2, nil
	case texformat.BC3:
		return bcodec.BC3, nil
	case texformat.BC4:
		return bcodec.BC4U, nil
	case texformat.BC5:
		return bcodec.BC5U, nil
	case texformat.BC6HU:
		return bcodec.BC6HU, nil
	case texformat.BC6HS:
		return bcodec.BC6HS, nil
	case texformat.BC7:
		return bcodec.BC7, nil
	default:
		return 0, vpakerr.NewParsing("Unknown texture format")
	}
}

// calcCompressedSize rounds width/height up to the block grid and
// multiplies by the format's block byte size.
func calcCompressedSize(width, height, blockSize int) int {
	widthBlocks := (width + 3) / 4
	if widthBlocks < 1 {
		widthBlocks = 1
	}
	heightBlocks := (height + 3) / 4
	if heightBlocks < 1 {
		heightBlocks = 1
	}
	return widthBlocks * heightBlocks * blockSize
}

// FromDDS copies dimensions and detected format from a parsed DDS
// file, adopting its pixel payload verbatim.
func (e *Entry) FromDDS(d *dds.File) {
	e.Width = uint16(d.Width)
	e.Height = uint16(d.Height)
	e.BmFmt = texformat.DetectPixelformat(d.Pixelformat)
	if d.MipmapCount > 1 {
		e.MipLevels = uint8(d.MipmapCount)
	} else {
		e.MipLevels = 1
	}
	e.Data = d.Data
}

// ToDDS builds a DDS container from the entry's compressed payload,
// computing pitch or linear size per bm_fmt.
func (e *Entry) ToDDS() (*dds.File, error) {
	out := &dds.File{
		Height: uint32(e.Height),
		Width:  uint32(e.Width),
	}

	if e.MipLevels > 1 {
		out.Flags |= dds.FlagMipmapCount
		out.MipmapCount = uint32(e.MipLevels)
		out.Caps |= dds.CapsComplex | dds.CapsMipmap
	}

	pf, err := texformat.GetPixelformat(e.BmFmt)
	if err != nil {
		return nil, err
	}
	out.Pixelformat = pf

	switch e.BmFmt {
	case texformat.BC1:
		out.Flags |= dds.FlagLinearSize
		out.PitchOrLinearSize = uint32(calcCompressedSize(int(e.Width), int(e.Height), 8))
	case texformat.BC2, texformat.BC3:
		out.Flags |= dds.FlagLinearSize
		out.PitchOrLinearSize = uint32(calcCompressedSize(int(e.Width), int(e.Height), 16))
	default:
		if pf.RGBBitCount > 0 {
			out.Flags |= dds.FlagPitch
			out.PitchOrLinearSize = (uint32(e.Width)*pf.RGBBitCount + 7) / 8
		} else {
			return nil, vpakerr.NewField("format", fmt.Sprintf("%d", e.BmFmt))
		}
	}

	out.Data = e.Data
	return out, nil
}

// FromTGA encodes the TGA's pixels into format via the block-compression
// codec and computes avg_color as the per-channel mean over [0,1].
func (e *Entry) FromTGA(t *tga.File, format texformat.Format) error {
	codecFmt, err := bcodecFormat(format)
	if err != nil {
		return err
	}

	width := int(t.Width)
	height := int(t.Height)
	e.Width = uint16(width)
	e.Height = uint16(height)
	e.BmFmt = format

	rgba := make([]byte, 0, width*height*4)
	hasAlpha := false
	var sumR, sumG, sumB, sumA float64
	for _, p := range t.Pixels {
		rgba = append(rgba, p.R, p.G, p.B, p.A)
		if p.A < 0xFF {
			hasAlpha = true
		}
		sumR += float64(p.R)
		sumG += float64(p.G)
		sumB += float64(p.B)
		sumA += float64(p.A)
	}

	data, err := bcodec.Encode(codecFmt, rgba, width, height)
	if err != nil {
		return err
	}
	e.Data = data

	avgFactor := 1.0 / (float64(width*height) * 255.0)
	clamp := func(v float64) float32 {
		if v > 1 {
			return 1
		}
		return float32(v)
	}
	e.AvgColor = Color{
		R: clamp(sumR * avgFactor),
		G: clamp(sumG * avgFactor),
		B: clamp(sumB * avgFactor),
		A: clamp(sumA * avgFactor),
	}

	if hasAlpha {
		e.Flags |= FlagAlpha
	} else {
		e.Flags &^= FlagAlpha
		e.AvgColor.A = 1
	}

	return nil
}

// ToTGA decodes the entry's compressed payload via the block codec
// into a top-left-origin 32bpp TGA image.
func (e *Entry) ToTGA() (*tga.File, error) {
	codecFmt, err := bcodecFormat(e.BmFmt)
	if err != nil {
		return nil, err
	}

	width := int(e.Width)
	height := int(e.Height)
	rgba, err := bcodec.Decode(codecFmt, e.Data, width, height)
	if err != nil {
		return nil, err
	}

	pixels := make([]tga.LDRColor, width*height)
	for i := range pixels {
		pixels[i] = tga.LDRColor{
			R: rgba[i*4+0],
			G: rgba[i*4+1],
			B: rgba[i*4+2],
			A: rgba[i*4+3],
		}
	}

	return &tga.File{
		Width:           int16(width),
		Height:          int16(height),
		Pixels:          pixels,
		DataType:        tga.TypeRGB,
		BitsPerPixel:    32,
		ImageAttributes: 0x08,
	}, nil
}
