// Package compress decompresses Packfile data sections: RFC-1950 ZLIB
// streams (Packfile v6/v10) and the LZ4 frame format (Packfile v17).
//
// Both functions read incrementally from the given stream and return an
// owned, fully-decoded byte buffer. Neither leaves the underlying
// decoder context alive past the call: klauspost's zlib.Reader and
// pierrec's lz4.Reader are always drained and closed/discarded before
// returning, including on the error path.
package compress

import (
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pierrec/lz4/v4"

	"github.com/gamearchive/vpak/pkg/vpakerr"
)

// inputWindow is the chunk size drain uses to read decoded bytes from
// the decoder into an output buffer of unknown final size.
const inputWindow = 16 * 1024

// DecompressZLIB inflates a RFC-1950 ZLIB stream from r and returns the
// decoded bytes. When r implements io.ByteReader, reading stops at the
// end of the ZLIB stream and trailing bytes stay unread. Any other r is
// wrapped in a buffered reader, which may consume bytes past the end of
// the stream.
func DecompressZLIB(r io.Reader) ([]byte, error) {
	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, vpakerr.WrapParsing("invalid zlib stream", err)
	}
	defer zr.Close()

	out, err := drain(zr)
	if err != nil {
		return nil, vpakerr.WrapParsing("corrupt zlib stream", err)
	}
	return out, nil
}

// DecompressLZ4 decodes an LZ4 frame (magic, block-size descriptor, and
// end marker) from r and returns the decoded bytes. Block sizes of 64
// KiB, 256 KiB, 1 MiB, and 4 MiB are all handled transparently by the
// underlying frame reader.
func DecompressLZ4(r io.Reader) ([]byte, error) {
	zr := lz4.NewReader(r)

	out, err := drain(zr)
	if err != nil {
		return nil, vpakerr.WrapParsing("malformed lz4 frame", err)
	}
	return out, nil
}

// drain reads r to completion in fixed windows, growing the output
// buffer as needed, and returns any read error other than io.EOF
// unchanged. Allocation failure is not reported as a separate error
// kind: no vpakerr.OutOfMemoryError is produced here.
func drain(r io.Reader) ([]byte, error) {
	var out []byte
	buf := make([]byte, inputWindow)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			out = appendGrow(out, buf[:n])
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func appendGrow(dst, src []byte) []byte {
	if dst == nil {
		dst = make([]byte, 0, len(src)*4)
	}
	return append(dst, src...)
}
