// Package byteio provides a positioned little-endian binary reader and
// writer over a seekable byte stream.
//
// It is the lowest-level building block of this module: Packfile, Peg,
// DDS, and TGA parsing all sit on top of Reader/Writer rather than
// calling encoding/binary directly, so that alignment and C-string
// scanning behave identically everywhere.
package byteio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/gamearchive/vpak/pkg/vpakerr"
)

// Reader is a positioned cursor over a seekable, readable byte stream.
type Reader struct {
	r io.ReadSeeker
}

// NewReader wraps a seekable stream for positioned reads.
func NewReader(r io.ReadSeeker) *Reader {
	return &Reader{r: r}
}

// Tell returns the current absolute byte offset.
func (r *Reader) Tell() (int64, error) {
	pos, err := r.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, vpakerr.WrapIO("tell", err)
	}
	return pos, nil
}

// Seek moves the cursor to an absolute byte offset.
func (r *Reader) Seek(pos int64) error {
	if _, err := r.r.Seek(pos, io.SeekStart); err != nil {
		return vpakerr.WrapIO("seek", err)
	}
	return nil
}

// Read reads exactly n bytes, failing on short read.
func (r *Reader) Read(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, vpakerr.WrapIO(fmt.Sprintf("read %d bytes", n), err)
	}
	return buf, nil
}

// Ignore advances the cursor by n bytes without returning them.
func (r *Reader) Ignore(n int64) error {
	if _, err := r.r.Seek(n, io.SeekCurrent); err != nil {
		return vpakerr.WrapIO("ignore", err)
	}
	return nil
}

// Align advances the cursor to the next multiple of n. A no-op if the
// cursor is already aligned.
func (r *Reader) Align(n int64) error {
	pos, err := r.Tell()
	if err != nil {
		return err
	}
	aligned := alignUp(pos, n)
	if aligned == pos {
		return nil
	}
	return r.Seek(aligned)
}

func (r *Reader) readFixed(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		return nil, vpakerr.WrapIO(fmt.Sprintf("read %d bytes", n), err)
	}
	return buf, nil
}

// ReadU8 reads an unsigned 8-bit integer.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.readFixed(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadS8 reads a signed 8-bit integer.
func (r *Reader) ReadS8() (int8, error) {
	v, err := r.ReadU8()
	return int8(v), err
}

// ReadU16 reads a little-endian unsigned 16-bit integer.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.readFixed(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadS16 reads a little-endian signed 16-bit integer.
func (r *Reader) ReadS16() (int16, error) {
	v, err := r.ReadU16()
	return int16(v), err
}

// ReadU32 reads a little-endian unsigned 32-bit integer.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.readFixed(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadS32 reads a little-endian signed 32-bit integer.
func (r *Reader) ReadS32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadU64 reads a little-endian unsigned 64-bit integer.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.readFixed(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadS64 reads a little-endian signed 64-bit integer.
func (r *Reader) ReadS64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadFloat reads a little-endian IEEE-754 32-bit float.
func (r *Reader) ReadFloat() (float32, error) {
	v, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

// ReadDouble reads a little-endian IEEE-754 64-bit float.
func (r *Reader) ReadDouble() (float64, error) {
	v, err := r.ReadU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadCString reads bytes up to and including the first delim byte
// (default 0x00) and returns the bytes before the delimiter.
func (r *Reader) ReadCString(delim byte) (string, error) {
	var buf bytes.Buffer
	one := make([]byte, 1)
	for {
		if _, err := io.ReadFull(r.r, one); err != nil {
			return "", vpakerr.WrapIO("read c-string", err)
		}
		if one[0] == delim {
			break
		}
		buf.WriteByte(one[0])
	}
	return buf.String(), nil
}

// Writer is a positioned cursor over a seekable, writable byte stream.
type Writer struct {
	w io.WriteSeeker
}

// NewWriter wraps a seekable stream for positioned writes.
func NewWriter(w io.WriteSeeker) *Writer {
	return &Writer{w: w}
}

// Tell returns the current absolute byte offset.
func (w *Writer) Tell() (int64, error) {
	pos, err := w.w.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, vpakerr.WrapIO("tell", err)
	}
	return pos, nil
}

// Seek moves the cursor to an absolute byte offset.
func (w *Writer) Seek(pos int64) error {
	if _, err := w.w.Seek(pos, io.SeekStart); err != nil {
		return vpakerr.WrapIO("seek", err)
	}
	return nil
}

// Write emits raw bytes and advances the cursor.
func (w *Writer) Write(b []byte) error {
	if _, err := w.w.Write(b); err != nil {
		return vpakerr.WrapIO("write", err)
	}
	return nil
}

// Pad emits n zero bytes.
func (w *Writer) Pad(n int) error {
	if n <= 0 {
		return nil
	}
	return w.Write(make([]byte, n))
}

// Align pads with zero bytes up to the next multiple of n. A no-op if
// the cursor is already aligned.
func (w *Writer) Align(n int64) error {
	pos, err := w.Tell()
	if err != nil {
		return err
	}
	aligned := alignUp(pos, n)
	if aligned == pos {
		return nil
	}
	return w.Pad(int(aligned - pos))
}

// WriteU8 writes an unsigned 8-bit integer.
func (w *Writer) WriteU8(v uint8) error {
	return w.Write([]byte{v})
}

// WriteS8 writes a signed 8-bit integer.
func (w *Writer) WriteS8(v int8) error {
	return w.WriteU8(uint8(v))
}

// WriteU16 writes a little-endian unsigned 16-bit integer.
func (w *Writer) WriteU16(v uint16) error {
	b := make([]byte, 2)
	binary.LittleEndian.PutUint16(b, v)
	return w.Write(b)
}

// WriteS16 writes a little-endian signed 16-bit integer.
func (w *Writer) WriteS16(v int16) error {
	return w.WriteU16(uint16(v))
}

// WriteU32 writes a little-endian unsigned 32-bit integer.
func (w *Writer) WriteU32(v uint32) error {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return w.Write(b)
}

// WriteS32 writes a little-endian signed 32-bit integer.
func (w *Writer) WriteS32(v int32) error {
	return w.WriteU32(uint32(v))
}

// WriteU64 writes a little-endian unsigned 64-bit integer.
func (w *Writer) WriteU64(v uint64) error {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return w.Write(b)
}

// WriteS64 writes a little-endian signed 64-bit integer.
func (w *Writer) WriteS64(v int64) error {
	return w.WriteU64(uint64(v))
}

// WriteFloat writes a little-endian IEEE-754 32-bit float.
func (w *Writer) WriteFloat(v float32) error {
	return w.WriteU32(math.Float32bits(v))
}

// WriteDouble writes a little-endian IEEE-754 64-bit float.
func (w *Writer) WriteDouble(v float64) error {
	return w.WriteU64(math.Float64bits(v))
}

// WriteCString writes s followed by a single NUL terminator.
func (w *Writer) WriteCString(s string) error {
	if err := w.Write([]byte(s)); err != nil {
		return err
	}
	return w.WriteU8(0)
}

// alignUp returns the smallest multiple of n that is >= pos. It never
// regresses the cursor.
func alignUp(pos, n int64) int64 {
	if n <= 0 {
		return pos
	}
	rem := pos % n
	if rem == 0 {
		return pos
	}
	return pos + (n - rem)
}
