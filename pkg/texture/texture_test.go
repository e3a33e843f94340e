package texture

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestParseMetadata(t *testing.T) {
	data := make([]byte, MetadataSize)
	binary.LittleEndian.PutUint32(data[0x00:], 512)
	binary.LittleEndian.PutUint32(data[0x04:], 512)
	binary.LittleEndian.PutUint32(data[0x08:], 10)
	binary.LittleEndian.PutUint32(data[0x0C:], DXGIFormatBC7Unorm)
	binary.LittleEndian.PutUint32(data[0x10:], 262288)
	binary.LittleEndian.PutUint32(data[0x14:], 262144)
	binary.LittleEndian.PutUint32(data[0x18:], 0)
	binary.LittleEndian.PutUint32(data[0x1C:], 1)

	meta, err := ParseMetadata(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Failed to parse metadata: %v", err)
	}

	if meta.Width != 512 {
		t.Errorf("Expected width 512, got %d", meta.Width)
	}
	if meta.Height != 512 {
		t.Errorf("Expected height 512, got %d", meta.Height)
	}
	if meta.MipLevels != 10 {
		t.Errorf("Expected 10 mipLevels, got %d", meta.MipLevels)
	}
	if meta.DXGIFormat != DXGIFormatBC7Unorm {
		t.Errorf("Expected format BC7_UNORM, got %d", meta.DXGIFormat)
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	original := &TextureMetadata{
		Width:       1024,
		Height:      1024,
		MipLevels:   11,
		DXGIFormat:  DXGIFormatBC3Unorm,
		DDSFileSize: 699192,
		RawFileSize: 699048,
		ArraySize:   1,
	}

	data := original.ToBytes()
	if len(data) != MetadataSize {
		t.Errorf("Expected %d bytes, got %d", MetadataSize, len(data))
	}

	parsed, err := ParseMetadataBytes(data)
	if err != nil {
		t.Fatalf("Failed to parse: %v", err)
	}

	if parsed.Width != original.Width {
		t.Errorf("Width mismatch: expected %d, got %d", original.Width, parsed.Width)
	}
	if parsed.Height != original.Height {
		t.Errorf("Height mismatch: expected %d, got %d", original.Height, parsed.Height)
	}
	if parsed.MipLevels != original.MipLevels {
		t.Errorf("MipLevels mismatch: expected %d, got %d", original.MipLevels, parsed.MipLevels)
	}
	if parsed.DXGIFormat != original.DXGIFormat {
		t.Errorf("DXGIFormat mismatch: expected %d, got %d", original.DXGIFormat, parsed.DXGIFormat)
	}
}

func TestParseMetadataBytesTooShort(t *testing.T) {
	if _, err := ParseMetadataBytes(make([]byte, 10)); err == nil {
		t.Fatal("expected error for undersized metadata")
	}
}

func TestFormatName(t *testing.T) {
	tests := []struct {
		format   uint32
		expected string
	}{
		{DXGIFormatBC1Unorm, "BC1_UNORM"},
		{DXGIFormatBC3Unorm, "BC3_UNORM"},
		{DXGIFormatBC7Unorm, "BC7_UNORM"},
		{DXGIFormatBC7UnormSRGB, "BC7_UNORM_SRGB"},
		{9999, "UNKNOWN(0x270f)"},
	}

	for _, tt := range tests {
		name := FormatName(tt.format)
		if name != tt.expected {
			t.Errorf("Format %d: expected %s, got %s", tt.format, tt.expected, name)
		}
	}
}

func TestConvertRawBCToDDS(t *testing.T) {
	meta := &TextureMetadata{
		Width:       512,
		Height:      512,
		MipLevels:   10,
		DXGIFormat:  DXGIFormatBC3Unorm,
		DDSFileSize: 262288,
		RawFileSize: 262144,
		ArraySize:   1,
	}

	rawData := make([]byte, meta.RawFileSize)

	d, err := ConvertRawBCToDDS(rawData, meta)
	if err != nil {
		t.Fatalf("Failed to convert: %v", err)
	}

	if d.Width != meta.Width || d.Height != meta.Height {
		t.Errorf("dimensions mismatch: got %dx%d, want %dx%d", d.Width, d.Height, meta.Width, meta.Height)
	}
	if d.MipmapCount != meta.MipLevels {
		t.Errorf("MipmapCount = %d, want %d", d.MipmapCount, meta.MipLevels)
	}
	if len(d.Data) != len(rawData) {
		t.Errorf("Data length = %d, want %d", len(d.Data), len(rawData))
	}
}

func TestConvertRawBCToDDS_ValidationError(t *testing.T) {
	meta := &TextureMetadata{
		RawFileSize: 1000,
		DXGIFormat:  DXGIFormatBC3Unorm,
	}

	rawData := make([]byte, 500)

	if _, err := ConvertRawBCToDDS(rawData, meta); err == nil {
		t.Error("Expected error for size mismatch, got nil")
	}
}

func TestConvertRawBCToDDS_NilMetadata(t *testing.T) {
	rawData := make([]byte, 100)

	if _, err := ConvertRawBCToDDS(rawData, nil); err == nil {
		t.Error("Expected error for nil metadata, got nil")
	}
}

func TestConvertRawBCToDDS_UnsupportedFormat(t *testing.T) {
	meta := &TextureMetadata{
		Width:       64,
		Height:      64,
		DXGIFormat:  DXGIFormatBC7Unorm,
		RawFileSize: 100,
	}
	rawData := make([]byte, 100)

	if _, err := ConvertRawBCToDDS(rawData, meta); err == nil {
		t.Error("Expected error for BC7 (no classic DDS pixelformat row), got nil")
	}
}

func TestCalculateLinearSize(t *testing.T) {
	tests := []struct {
		width, height uint32
		blockSize     int
		expected      uint32
	}{
		{512, 512, 8, 128 * 128 * 8},
		{512, 512, 16, 128 * 128 * 16},
		{513, 513, 16, 129 * 129 * 16},
	}

	for _, tt := range tests {
		size := calculateLinearSize(tt.width, tt.height, tt.blockSize)
		if size != tt.expected {
			t.Errorf("%dx%d block=%d: expected %d, got %d",
				tt.width, tt.height, tt.blockSize, tt.expected, size)
		}
	}
}
