package compress

import (
	"bytes"
	"compress/zlib"
	"testing"

	"github.com/pierrec/lz4/v4"
)

func TestDecompressZLIB(t *testing.T) {
	want := []byte("the quick brown fox jumps over the lazy dog, repeated for good measure")

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(want); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Trailing bytes beyond the stream must be left alone.
	buf.Write([]byte("trailer"))

	got, err := DecompressZLIB(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecompressZLIB: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestDecompressZLIBCorrupt(t *testing.T) {
	if _, err := DecompressZLIB(bytes.NewReader([]byte{0x00, 0x01, 0x02})); err == nil {
		t.Error("expected error for corrupt zlib stream")
	}
}

func TestDecompressLZ4(t *testing.T) {
	want := bytes.Repeat([]byte("lz4 frame payload "), 1000)

	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(want); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := DecompressLZ4(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("DecompressLZ4: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("mismatch, got %d bytes, want %d", len(got), len(want))
	}
}

func TestDecompressLZ4Malformed(t *testing.T) {
	if _, err := DecompressLZ4(bytes.NewReader([]byte{0xDE, 0xAD, 0xBE, 0xEF})); err == nil {
		t.Error("expected error for malformed lz4 frame")
	}
}
