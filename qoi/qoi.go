// Package qoi implements a lossless RGB image codec with a QOI-style wire
// format: a 14-byte header followed by a stream of variable-length chunks
// and a fixed 8-byte end marker.
//
// Each chunk encodes one pixel (or a run of repeats of the previous pixel)
// relative to the running codec state: the previous pixel, a 64-slot color
// index table and a run counter. The index table tracks absolute RGB chunks
// only; delta and index chunks do not touch it. Encoder and decoder keep
// this state in lockstep, so round trips are byte-exact, but streams are
// not interchangeable with decoders that index every pixel.
package qoi

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Magic identifies the format in the first four header bytes.
const Magic = "qoif"

// HeaderSize is the fixed byte length of the stream header.
const HeaderSize = 14

// Chunk tag values. RGB and RGBA occupy full bytes; the remaining four
// opcodes use the top two bits with a 6-bit payload.
const (
	tagRGB   = 0xfe
	tagRGBA  = 0xff
	tagIndex = 0x00
	tagDiff  = 0x40
	tagLuma  = 0x80
	tagRun   = 0xc0

	tagMask2 = 0xc0
)

const (
	cacheSize = 64
	maxRun    = 62
)

// endMarker terminates every valid stream.
var endMarker = [8]byte{0, 0, 0, 0, 0, 0, 0, 1}

var (
	// ErrNoInput is returned by Decode when there is no data to decode.
	ErrNoInput = errors.New("qoi: no input data")
	// ErrInvalidMagic is returned when the header does not start with "qoif".
	ErrInvalidMagic = errors.New("qoi: invalid magic")
	// ErrTruncated is returned when the stream ends before a chunk or the
	// header is complete.
	ErrTruncated = errors.New("qoi: truncated stream")
	// ErrRange is returned by chunk packers when an argument does not fit
	// its bit field. Encode never triggers it with a well-formed buffer.
	ErrRange = errors.New("qoi: value out of range")
	// ErrUnsupportedChunk is returned when the decoder meets the reserved
	// RGBA opcode; alpha is not tracked by this codec.
	ErrUnsupportedChunk = errors.New("qoi: unsupported chunk")
	// ErrBufferSize is returned by Encode when the pixel slice length does
	// not equal width*height.
	ErrBufferSize = errors.New("qoi: pixel buffer does not match dimensions")
)

// Pixel is one RGB sample. Alpha is not represented; everywhere the format
// requires it (the color hash) it is taken as 255.
type Pixel struct {
	R, G, B uint8
}

// Header describes the image carried by a stream.
type Header struct {
	Width      uint32
	Height     uint32
	Channels   uint8 // 3 = RGB, 4 = RGBA
	Colorspace uint8 // 0 = sRGB with linear alpha, 1 = all channels linear
}

// hashPixel maps a pixel to its index table slot, with alpha fixed at 255.
func hashPixel(p Pixel) int {
	return (int(p.R)*3 + int(p.G)*5 + int(p.B)*7 + 255*11) % cacheSize
}

// packHeader serializes a header in the fixed big-endian layout.
func packHeader(h Header) []byte {
	buf := make([]byte, HeaderSize)
	copy(buf[0:4], Magic)
	binary.BigEndian.PutUint32(buf[4:8], h.Width)
	binary.BigEndian.PutUint32(buf[8:12], h.Height)
	buf[12] = h.Channels
	buf[13] = h.Colorspace
	return buf
}

// parseHeader validates the magic and reads the header fields. The magic
// check runs first: any stream whose first four bytes are wrong is rejected
// as a format error regardless of its length.
func parseHeader(data []byte) (Header, error) {
	var h Header
	if len(data) >= 4 && string(data[0:4]) != Magic {
		return h, ErrInvalidMagic
	}
	if len(data) < HeaderSize {
		return h, fmt.Errorf("%w: header needs %d bytes, have %d", ErrTruncated, HeaderSize, len(data))
	}
	h.Width = binary.BigEndian.Uint32(data[4:8])
	h.Height = binary.BigEndian.Uint32(data[8:12])
	h.Channels = data[12]
	h.Colorspace = data[13]
	return h, nil
}
