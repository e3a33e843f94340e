// Package tga reads and, for non-RLE layouts, writes the Truevision
// TGA format: an 18-byte header, an optional image-ID blob, and a
// pixel section that is either raw or run-length encoded. Only the
// uncompressed RGB type (2) and its RLE variant (10) are supported;
// grayscale and indexed images are explicitly out of scope.
package tga

import (
	"io"

	"github.com/gamearchive/vpak/pkg/byteio"
	"github.com/gamearchive/vpak/pkg/vpakerr"
)

// ImageType is the on-disk data_type field.
type ImageType int8

const (
	TypeNone         ImageType = 0
	TypeIndexed      ImageType = 1
	TypeRGB          ImageType = 2
	TypeGrayscale    ImageType = 3
	TypeIndexedRLE   ImageType = 9
	TypeRGBRLE       ImageType = 10
	TypeGrayscaleRLE ImageType = 11
)

// Image attribute bits (image_attributes field).
const (
	AttribPixelBytes    = 0xF
	AttribScreenOrigin  = 1 << 5
	AttribDataInterleav = 0x3 << 6

	originBottom = 0
	originTop    = 1 << 5
)

// LDRColor is a top-left-origin, 8-bit-per-channel pixel.
type LDRColor struct {
	R, G, B, A uint8
}

// File is a parsed TGA image: header fields plus a top-left-origin
// pixel array of width*height entries.
type File struct {
	ColormapType       int8
	DataType           ImageType
	ColormapOffset     int16
	ColormapLength     int16
	ColormapEntrySize  int8
	OriginX            int16
	OriginY            int16
	Width              int16
	Height             int16
	BitsPerPixel       int8
	ImageAttributes    int8
	ImageID            []byte
	Pixels             []LDRColor
}

// New returns a File with the original source's defaults: RGB type,
// 32 bpp, 8-bit alpha attribute, no ID block.
func New() *File {
	return &File{
		DataType:        TypeRGB,
		BitsPerPixel:    32,
		ImageAttributes: 0x08,
	}
}

func checkDataType(t ImageType) error {
	switch t {
	case TypeNone, TypeRGB, TypeRGBRLE:
		return nil
	case TypeGrayscale, TypeGrayscaleRLE:
		return vpakerr.NewParsing("Grayscale images are not supported")
	case TypeIndexed, TypeIndexedRLE:
		return vpakerr.NewParsing("Indexed images are not supported")
	default:
		return vpakerr.NewParsing("Unknown image type")
	}
}

func checkBPP(bpp int8) error {
	if bpp != 24 && bpp != 32 {
		return vpakerr.NewParsing("Only 24 and 32 bit images are supported")
	}
	return nil
}

// Parse reads a TGA image from r.
func Parse(r io.ReadSeeker) (*File, error) {
	br := byteio.NewReader(r)

	idLength, err := br.ReadS8()
	if err != nil {
		return nil, err
	}
	f := &File{}
	if f.ColormapType, err = br.ReadS8(); err != nil {
		return nil, err
	}
	dataType, err := br.ReadS8()
	if err != nil {
		return nil, err
	}
	f.DataType = ImageType(dataType)
	if f.ColormapOffset, err = br.ReadS16(); err != nil {
		return nil, err
	}
	if f.ColormapLength, err = br.ReadS16(); err != nil {
		return nil, err
	}
	if f.ColormapEntrySize, err = br.ReadS8(); err != nil {
		return nil, err
	}
	if f.OriginX, err = br.ReadS16(); err != nil {
		return nil, err
	}
	if f.OriginY, err = br.ReadS16(); err != nil {
		return nil, err
	}
	if f.Width, err = br.ReadS16(); err != nil {
		return nil, err
	}
	if f.Height, err = br.ReadS16(); err != nil {
		return nil, err
	}
	if f.BitsPerPixel, err = br.ReadS8(); err != nil {
		return nil, err
	}
	if f.ImageAttributes, err = br.ReadS8(); err != nil {
		return nil, err
	}
	imageID, err := br.Read(int(idLength))
	if err != nil {
		return nil, err
	}
	f.ImageID = imageID

	if err := checkDataType(f.DataType); err != nil {
		return nil, err
	}
	if err := checkBPP(f.BitsPerPixel); err != nil {
		return nil, err
	}

	bytesPerPixel := int(f.BitsPerPixel) / 8
	numBytes := int(f.Width) * int(f.Height) * bytesPerPixel

	var imageData []byte
	if f.DataType == TypeRGBRLE {
		imageData, err = readRLE(br, numBytes, bytesPerPixel)
	} else {
		imageData, err = br.Read(numBytes)
	}
	if err != nil {
		return nil, err
	}

	f.Pixels = make([]LDRColor, int(f.Width)*int(f.Height))
	pos := 0
	for i := range f.Pixels {
		var p LDRColor
		p.B = imageData[pos]
		p.G = imageData[pos+1]
		p.R = imageData[pos+2]
		pos += 3
		if f.BitsPerPixel == 24 {
			p.A = 0xFF
		} else {
			if f.ImageAttributes&AttribPixelBytes != 0 {
				p.A = imageData[pos]
			} else {
				p.A = 0xFF
			}
			pos++
		}
		f.Pixels[i] = p
	}

	if int(f.ImageAttributes)&AttribScreenOrigin == originBottom {
		swapRowOrder(f.Pixels, int(f.Width), int(f.Height))
	}

	return f, nil
}

// readRLE decodes the run-length section: each control byte's high bit
// marks a run (one pixel repeated) versus a literal (raw pixels); the
// low 7 bits plus one give the section length in pixels.
func readRLE(br *byteio.Reader, size, bytesPerPixel int) ([]byte, error) {
	data := make([]byte, 0, size)
	for len(data) < size {
		header, err := br.ReadU8()
		if err != nil {
			return nil, err
		}
		repeat := header&(1<<7) != 0
		sectionLength := (int(header&0x7F) + 1) * bytesPerPixel

		if repeat {
			color, err := br.Read(bytesPerPixel)
			if err != nil {
				return nil, err
			}
			for i := 0; i < sectionLength; i += bytesPerPixel {
				data = append(data, color...)
			}
		} else {
			lit, err := br.Read(sectionLength)
			if err != nil {
				return nil, err
			}
			data = append(data, lit...)
		}
	}
	// An oversupply is permitted; truncate to exactly the expected size.
	if len(data) > size {
		data = data[:size]
	}
	return data, nil
}

// Write emits the header, image ID, and pixel data. RLE output is not
// supported: the original format's RLE writer was never implemented,
// and this module preserves that asymmetry rather than inventing one.
func (f *File) Write(w io.WriteSeeker) error {
	if err := checkDataType(f.DataType); err != nil {
		return err
	}
	if err := checkBPP(f.BitsPerPixel); err != nil {
		return err
	}
	if f.DataType == TypeRGBRLE {
		return vpakerr.NewParsing("Run-length encoding is not supported when writing")
	}
	if len(f.Pixels) != int(f.Width)*int(f.Height) {
		return vpakerr.NewParsing("Number of pixels does not match image dimensions")
	}

	bw := byteio.NewWriter(w)

	if err := bw.WriteS8(int8(len(f.ImageID))); err != nil {
		return err
	}
	if err := bw.WriteS8(f.ColormapType); err != nil {
		return err
	}
	if err := bw.WriteS8(int8(f.DataType)); err != nil {
		return err
	}
	if err := bw.WriteS16(f.ColormapOffset); err != nil {
		return err
	}
	if err := bw.WriteS16(f.ColormapLength); err != nil {
		return err
	}
	if err := bw.WriteS8(f.ColormapEntrySize); err != nil {
		return err
	}
	if err := bw.WriteS16(f.OriginX); err != nil {
		return err
	}
	if err := bw.WriteS16(f.OriginY); err != nil {
		return err
	}
	if err := bw.WriteS16(f.Width); err != nil {
		return err
	}
	if err := bw.WriteS16(f.Height); err != nil {
		return err
	}
	if err := bw.WriteS8(f.BitsPerPixel); err != nil {
		return err
	}
	if err := bw.WriteS8(f.ImageAttributes); err != nil {
		return err
	}
	if err := bw.Write(f.ImageID); err != nil {
		return err
	}

	pixels := f.Pixels
	if int(f.ImageAttributes)&AttribScreenOrigin == originBottom {
		pixels = append([]LDRColor(nil), pixels...)
		swapRowOrder(pixels, int(f.Width), int(f.Height))
	}

	for _, p := range pixels {
		if err := bw.WriteU8(p.B); err != nil {
			return err
		}
		if err := bw.WriteU8(p.G); err != nil {
			return err
		}
		if err := bw.WriteU8(p.R); err != nil {
			return err
		}
		if f.BitsPerPixel != 24 {
			if err := bw.WriteU8(p.A); err != nil {
				return err
			}
		}
	}

	return nil
}

// swapRowOrder mirrors rows pairwise in place, converting between
// bottom-left and top-left origin.
func swapRowOrder(pixels []LDRColor, width, height int) {
	for top := 0; top < height/2; top++ {
		bottom := height - 1 - top
		topStart := top * width
		bottomStart := bottom * width
		for i := 0; i < width; i++ {
			pixels[topStart+i], pixels[bottomStart+i] = pixels[bottomStart+i], pixels[topStart+i]
		}
	}
}
