// Package bcodec is the BC1-BC7 block-compression boundary: an opaque
// external collaborator that the Peg bitmap conversions call into
// without this module re-specifying the compression algorithms
// themselves. It binds via CGo to native encoder/decoder libraries
// (libsquish and bc7enc), covering the full BC1-BC7 set Peg bitmaps
// can carry.
package bcodec

/*
#cgo LDFLAGS: -lsquish -lbc7enc -lstdc++
#cgo CXXFLAGS: -std=c++11
#include "bcodec.h"
*/
import "C"

import (
	"unsafe"

	"github.com/gamearchive/vpak/pkg/vpakerr"
)

// Format identifies a block-compression format this codec supports.
type Format int

const (
	BC1 Format = iota
	BC2
	BC3
	BC4U
	BC5U
	BC6HU
	BC6HS
	BC7
)

func (f Format) cFormat() C.bcodec_format {
	return C.bcodec_format(f)
}

func (f Format) String() string {
	switch f {
	case BC1:
		return "BC1"
	case BC2:
		return "BC2"
	case BC3:
		return "BC3"
	case BC4U:
		return "BC4U"
	case BC5U:
		return "BC5U"
	case BC6HU:
		return "BC6HU"
	case BC6HS:
		return "BC6HS"
	case BC7:
		return "BC7"
	default:
		return "unknown"
	}
}

// Encode compresses width*height RGBA8 pixels (row-major, top-left
// origin, 4 bytes per pixel) into the given block format.
func Encode(format Format, rgba []byte, width, height int) ([]byte, error) {
	if len(rgba) != width*height*4 {
		return nil, vpakerr.NewParsing("rgba buffer does not match width*height*4")
	}

	size := int(C.bcodec_storage_size(C.int(width), C.int(height), format.cFormat()))
	if size <= 0 {
		return nil, vpakerr.NewParsing("Unknown texture format")
	}

	out := make([]byte, size)
	ret := C.bcodec_encode(
		(*C.uchar)(unsafe.Pointer(&rgba[0])),
		C.int(width), C.int(height),
		format.cFormat(),
		(*C.uchar)(unsafe.Pointer(&out[0])),
	)
	if ret != 0 {
		return nil, vpakerr.NewParsing("block encode failed for " + format.String())
	}
	return out, nil
}

// Decode expands a block-compressed image into width*height RGBA8
// pixels (row-major, top-left origin).
func Decode(format Format, blocks []byte, width, height int) ([]byte, error) {
	out := make([]byte, width*height*4)
	if width == 0 || height == 0 {
		return out, nil
	}
	ret := C.bcodec_decode(
		(*C.uchar)(unsafe.Pointer(&blocks[0])),
		C.int(width), C.int(height),
		format.cFormat(),
		(*C.uchar)(unsafe.Pointer(&out[0])),
	)
	if ret != 0 {
		return nil, vpakerr.NewParsing("block decode failed for " + format.String())
	}
	return out, nil
}

// EncodeBC1 through EncodeBC7 name the exact entry points the Peg
// bitmap conversion logic calls, matching each bm_fmt value.
func EncodeBC1(rgba []byte, w, h int) ([]byte, error)  { return Encode(BC1, rgba, w, h) }
func EncodeBC2(rgba []byte, w, h int) ([]byte, error)  { return Encode(BC2, rgba, w, h) }
func EncodeBC3(rgba []byte, w, h int) ([]byte, error)  { return Encode(BC3, rgba, w, h) }
func EncodeBC4U(rgba []byte, w, h int) ([]byte, error) { return Encode(BC4U, rgba, w, h) }
func EncodeBC5U(rgba []byte, w, h int) ([]byte, error) { return Encode(BC5U, rgba, w, h) }
func EncodeBC6HU(rgba []byte, w, h int) ([]byte, error) {
	return Encode(BC6HU, rgba, w, h)
}
func EncodeBC6HS(rgba []byte, w, h int) ([]byte, error) {
	return Encode(BC6HS, rgba, w, h)
}
func EncodeBC7(rgba []byte, w, h int) ([]byte, error) { return Encode(BC7, rgba, w, h) }

func DecodeBC1(blocks []byte, w, h int) ([]byte, error)  { return Decode(BC1, blocks, w, h) }
func DecodeBC2(blocks []byte, w, h int) ([]byte, error)  { return Decode(BC2, blocks, w, h) }
func DecodeBC3(blocks []byte, w, h int) ([]byte, error)  { return Decode(BC3, blocks, w, h) }
func DecodeBC4U(blocks []byte, w, h int) ([]byte, error) { return Decode(BC4U, blocks, w, h) }
func DecodeBC5U(blocks []byte, w, h int) ([]byte, error) { return Decode(BC5U, blocks, w, h) }
func DecodeBC6HU(blocks []byte, w, h int) ([]byte, error) {
	return Decode(BC6HU, blocks, w, h)
}
func DecodeBC6HS(blocks []byte, w, h int) ([]byte, error) {
	return Decode(BC6HS, blocks, w, h)
}
func DecodeBC7(blocks []byte, w, h int) ([]byte, error) { return Decode(BC7, blocks, w, h) }
