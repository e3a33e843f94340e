package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"

	"golang.org/x/image/draw"

	"github.com/gamearchive/vpak/pkg/peg"
	"github.com/gamearchive/vpak/pkg/tga"
)

// previewMaxDim bounds the thumbnail produced for a .png output; Peg
// bitmaps are frequently full game textures and a 1:1 PNG dump isn't
// what "quick look" is for.
const previewMaxDim = 256

func cmdPeg(headerPath, dataPath, member, outPath string) error {
	hf, err := os.Open(headerPath)
	if err != nil {
		return fmt.Errorf("open header: %w", err)
	}
	defer hf.Close()

	bundle, err := peg.ReadHeader(hf)
	if err != nil {
		return fmt.Errorf("parse header: %w", err)
	}

	df, err := os.Open(dataPath)
	if err != nil {
		return fmt.Errorf("open data: %w", err)
	}
	defer df.Close()

	if err := bundle.ReadData(df); err != nil {
		return fmt.Errorf("read bundle data: %w", err)
	}

	entry, err := lookupPegEntry(bundle, member)
	if err != nil {
		return err
	}

	switch extOf(outPath) {
	case ".dds":
		d, err := entry.ToDDS()
		if err != nil {
			return fmt.Errorf("convert to DDS: %w", err)
		}
		out, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer out.Close()
		if err := d.Write(out); err != nil {
			return fmt.Errorf("write DDS: %w", err)
		}

	case ".tga":
		t, err := entry.ToTGA()
		if err != nil {
			return fmt.Errorf("convert to TGA: %w", err)
		}
		out, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer out.Close()
		if err := t.Write(out); err != nil {
			return fmt.Errorf("write TGA: %w", err)
		}

	case ".png":
		t, err := entry.ToTGA()
		if err != nil {
			return fmt.Errorf("convert to TGA: %w", err)
		}
		out, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer out.Close()
		if err := png.Encode(out, tgaToPreview(t)); err != nil {
			return fmt.Errorf("encode PNG: %w", err)
		}

	default:
		return fmt.Errorf("unsupported output extension %q (want .dds, .tga, or .png)", extOf(outPath))
	}

	fmt.Printf("Converted %s -> %s\n", member, outPath)
	return nil
}

func lookupPegEntry(bundle *peg.File, member string) (*peg.Entry, error) {
	if idx, err := strconv.Atoi(member); err == nil {
		if idx < 0 || idx >= len(bundle.Entries) {
			return nil, fmt.Errorf("entry index %d out of range (0..%d)", idx, len(bundle.Entries)-1)
		}
		return bundle.Entries[idx], nil
	}

	idx := bundle.GetEntryIndex(member)
	if idx < 0 {
		return nil, fmt.Errorf("no bitmap named %q", member)
	}
	return bundle.Entries[idx], nil
}

// tgaToPreview rasterizes a converted TGA into a downscaled, PNG-ready
// image.NRGBA thumbnail using x/image/draw's high-quality scaler.
func tgaToPreview(t *tga.File) image.Image {
	src := image.NewNRGBA(image.Rect(0, 0, int(t.Width), int(t.Height)))
	for y := 0; y < int(t.Height); y++ {
		for x := 0; x < int(t.Width); x++ {
			p := t.Pixels[y*int(t.Width)+x]
			src.SetNRGBA(x, y, color.NRGBA{R: p.R, G: p.G, B: p.B, A: p.A})
		}
	}

	w, h := int(t.Width), int(t.Height)
	if w <= previewMaxDim && h <= previewMaxDim {
		return src
	}

	scale := float64(previewMaxDim) / float64(max(w, h))
	dstW, dstH := int(float64(w)*scale), int(float64(h)*scale)
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
