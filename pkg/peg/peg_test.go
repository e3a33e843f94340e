package peg

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gamearchive/vpak/pkg/texformat"
	"github.com/gamearchive/vpak/pkg/vpakerr"
)

type seekableBuffer struct {
	buf []byte
	pos int64
}

func (s *seekableBuffer) Read(p []byte) (int, error) {
	n := copy(p, s.buf[s.pos:])
	s.pos += int64(n)
	if n == 0 && len(p) > 0 {
		return 0, bytes.ErrTooLarge
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

func newTestEntry(name string, data []byte) *Entry {
	e := NewEntry()
	e.Filename = name
	e.Width = 4
	e.Height = 4
	e.BmFmt = texformat.BC1
	e.MipLevels = 1
	e.Data = data
	return e
}

func TestPegV13RoundTrip(t *testing.T) {
	f := New()
	f.Entries = []*Entry{
		newTestEntry("test.tga", []byte{0, 0, 0, 0, 0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}),
	}

	headerBuf := &seekableBuffer{}
	if err := f.WriteHeader(headerBuf); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	dataBuf := &seekableBuffer{}
	if err := f.WriteData(dataBuf); err != nil {
		t.Fatalf("WriteData: %v", err)
	}

	got, err := ReadHeader(&seekableBuffer{buf: headerBuf.buf})
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if err := got.ReadData(&seekableBuffer{buf: dataBuf.buf}); err != nil {
		t.Fatalf("ReadData: %v", err)
	}

	if len(got.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(got.Entries))
	}
	ge := got.Entries[0]
	we := f.Entries[0]
	if ge.Filename != we.Filename {
		t.Errorf("Filename = %q, want %q", ge.Filename, we.Filename)
	}
	if ge.Width != we.Width || ge.Height != we.Height {
		t.Errorf("dims = %dx%d, want %dx%d", ge.Width, ge.Height, we.Width, we.Height)
	}
	if ge.BmFmt != we.BmFmt {
		t.Errorf("BmFmt = %v, want %v", ge.BmFmt, we.BmFmt)
	}
	if !bytes.Equal(ge.Data, we.Data) {
		t.Errorf("Data = %v, want %v", ge.Data, we.Data)
	}
}

// TestS1HeaderSize matches the documented scenario: a single v13 entry
// named "test.tga" with a 16-byte payload yields header_size=105 and
// data_size=16, with no padding before the payload.
func TestS1HeaderSize(t *testing.T) {
	f := New()
	f.Entries = []*Entry{
		newTestEntry("test.tga", []byte{0, 0, 0, 0, 0, 0, 0, 0, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}),
	}

	if got := f.calcHeaderSize(); got != 105 {
		t.Errorf("calcHeaderSize() = %d, want 105", got)
	}
	if got := f.calcDataSize(); got != 16 {
		t.Errorf("calcDataSize() = %d, want 16", got)
	}

	dataBuf := &seekableBuffer{}
	if err := f.WriteData(dataBuf); err != nil {
		t.Fatalf("WriteData: %v", err)
	}
	if !bytes.Equal(dataBuf.buf, f.Entries[0].Data) {
		t.Errorf("data section = %v, want exactly the payload with no padding", dataBuf.buf)
	}
}

func TestPegV19RoundTrip(t *testing.T) {
	f := New()
	f.Version = Version19
	e := newTestEntry("diffuse.dds", []byte{1, 2, 3, 4, 5, 6, 7, 8})
	e.AvgColor = Color{R: 0.5, G: 0.25, B: 0.75, A: 1}
	f.Entries = []*Entry{e}

	headerBuf := &seekableBuffer{}
	if err := f.WriteHeader(headerBuf); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	dataBuf := &seekableBuffer{}
	if err := f.WriteData(dataBuf); err != nil {
		t.Fatalf("WriteData: %v", err)
	}

	got, err := ReadHeader(&seekableBuffer{buf: headerBuf.buf})
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if err := got.ReadData(&seekableBuffer{buf: dataBuf.buf}); err != nil {
		t.Fatalf("ReadData: %v", err)
	}

	ge := got.Entries[0]
	if ge.AvgColor != e.AvgColor {
		t.Errorf("AvgColor = %+v, want %+v", ge.AvgColor, e.AvgColor)
	}
	if !bytes.Equal(ge.Data, e.Data) {
		t.Errorf("Data = %v, want %v", ge.Data, e.Data)
	}
}

func TestPegBadSignature(t *testing.T) {
	buf := &seekableBuffer{buf: []byte("XXXX")}
	_, err := ReadHeader(buf)
	var fieldErr *vpakerr.FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected *vpakerr.FieldError, got %v", err)
	}
}

func TestPegBadVersion(t *testing.T) {
	f := New()
	f.Version = 7
	buf := &seekableBuffer{}
	err := f.WriteHeader(buf)
	var fieldErr *vpakerr.FieldError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected *vpakerr.FieldError, got %v", err)
	}
}

func TestPegEmptyFilenameRejected(t *testing.T) {
	f := New()
	f.Entries = []*Entry{newTestEntry("", []byte{1})}
	if err := f.WriteHeader(&seekableBuffer{}); err == nil {
		t.Error("expected error for empty filename")
	}
}

func TestGetEntryIndex(t *testing.T) {
	f := New()
	f.Entries = []*Entry{
		newTestEntry("a.dds", nil),
		newTestEntry("b.dds", nil),
	}
	if idx := f.GetEntryIndex("b.dds"); idx != 1 {
		t.Errorf("GetEntryIndex(b.dds) = %d, want 1", idx)
	}
	if idx := f.GetEntryIndex("missing.dds"); idx != -1 {
		t.Errorf("GetEntryIndex(missing.dds) = %d, want -1", idx)
	}
}

func TestAvgColorAlphaFlag(t *testing.T) {
	e := NewEntry()
	e.AvgColor = Color{A: 0.5}
	e.Flags = FlagAlpha
	if e.Flags&FlagAlpha == 0 {
		t.Error("expected FlagAlpha set")
	}
}
