package texformat

import (
	"testing"

	"github.com/gamearchive/vpak/pkg/dds"
)

func TestDetectIsLeftInverseOfGet(t *testing.T) {
	tableFormats := []Format{
		BC1, BC2, BC3, R565, A1R5G5B5, A4R4G4B4, R888, A8888, DuDv16, Dot3Compressed16, A8,
	}
	for _, f := range tableFormats {
		pf, err := GetPixelformat(f)
		if err != nil {
			t.Fatalf("GetPixelformat(%v): %v", f, err)
		}
		got := DetectPixelformat(pf)
		if got != f {
			t.Errorf("DetectPixelformat(GetPixelformat(%v)) = %v, want %v", f, got, f)
		}
	}
}

func TestGetPixelformatUnknownFails(t *testing.T) {
	for _, f := range []Format{BC4, BC5, BC6HU, BC6HS, BC7, RGBA16161616, RGBA32323232, Format(9999)} {
		if _, err := GetPixelformat(f); err == nil {
			t.Errorf("GetPixelformat(%v) should fail: no DDS pixelformat row exists for it", f)
		}
	}
}

func TestDetectPixelformatNoMatch(t *testing.T) {
	got := DetectPixelformat(dds.Pixelformat{Flags: 0xDEADBEEF})
	if got != None {
		t.Errorf("DetectPixelformat(garbage) = %v, want None", got)
	}
}
