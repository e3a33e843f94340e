package dds

import (
	"bytes"
	"io"
	"testing"
)

type seekableBuffer struct {
	buf []byte
	pos int64
}

func (s *seekableBuffer) Read(p []byte) (int, error) {
	n := copy(p, s.buf[s.pos:])
	s.pos += int64(n)
	if n == 0 && len(p) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

func (s *seekableBuffer) Write(p []byte) (int, error) {
	end := s.pos + int64(len(p))
	if end > int64(len(s.buf)) {
		grown := make([]byte, end)
		copy(grown, s.buf)
		s.buf = grown
	}
	n := copy(s.buf[s.pos:end], p)
	s.pos = end
	return n, nil
}

func (s *seekableBuffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case 0:
		s.pos = offset
	case 1:
		s.pos += offset
	case 2:
		s.pos = int64(len(s.buf)) + offset
	}
	return s.pos, nil
}

func TestParseWriteIdentity(t *testing.T) {
	f := &File{
		Flags:             FlagCaps | FlagHeight | FlagWidth | FlagPixelformat | FlagLinearSize,
		Height:            64,
		Width:             64,
		PitchOrLinearSize: 2048,
		Pixelformat:       Pixelformat{Flags: PFFourCC, FourCC: fourCCBytes("DXT1")},
		Caps:              CapsTexture,
		Data:              []byte{1, 2, 3, 4, 5, 6, 7, 8},
	}

	sb := &seekableBuffer{}
	if err := f.Write(sb); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if len(sb.buf) < 4+4 {
		t.Fatalf("too short")
	}
	if string(sb.buf[0:4]) != FourCC {
		t.Errorf("fourCC = %q", sb.buf[0:4])
	}

	got, err := Parse(&seekableBuffer{buf: sb.buf})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got.Height != f.Height || got.Width != f.Width {
		t.Errorf("dims = %dx%d, want %dx%d", got.Width, got.Height, f.Width, f.Height)
	}
	if got.Pixelformat.FourCC != f.Pixelformat.FourCC {
		t.Errorf("pixelformat fourCC mismatch")
	}
	if !bytes.Equal(got.Data, f.Data) {
		t.Errorf("Data = %v, want %v", got.Data, f.Data)
	}
}

func TestParseBadFourCC(t *testing.T) {
	sb := &seekableBuffer{buf: []byte("XXXX")}
	if _, err := Parse(sb); err == nil {
		t.Error("expected error for bad fourCC")
	}
}

func TestParseBadHeaderSize(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString(FourCC)
	buf.Write([]byte{0, 0, 0, 0}) // header size 0, not 124
	if _, err := Parse(&seekableBuffer{buf: buf.Bytes()}); err == nil {
		t.Error("expected error for bad header size")
	}
}

func TestS4KnownPrefix(t *testing.T) {
	want := []byte{0x44, 0x44, 0x53, 0x20, 0x7C, 0x00, 0x00, 0x00}
	f := &File{Pixelformat: Pixelformat{Flags: PFFourCC, FourCC: fourCCBytes("DXT5")}}
	sb := &seekableBuffer{}
	if err := f.Write(sb); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !bytes.Equal(sb.buf[:8], want) {
		t.Errorf("prefix = % x, want % x", sb.buf[:8], want)
	}

	got, err := Parse(&seekableBuffer{buf: sb.buf})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	reemit := &seekableBuffer{}
	if err := got.Write(reemit); err != nil {
		t.Fatalf("re-Write: %v", err)
	}
	if !bytes.Equal(reemit.buf[:8], want) {
		t.Errorf("re-emitted prefix = % x, want % x", reemit.buf[:8], want)
	}
}
