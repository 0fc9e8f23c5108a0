package qoi

import (
	"bytes"
	"fmt"
	"math"
)

// Encode compresses a row-major RGB pixel buffer into a complete stream:
// header, chunk sequence, end marker. The buffer length must equal
// width*height; a zero-pixel image yields header plus end marker only.
//
// Chunk selection per pixel, after run handling: index table hit, then
// small per-channel diff, then luma diff, then absolute RGB. Only the
// absolute RGB path writes the index table. Runs cap at 62 and are emitted
// immediately at the cap, so longer stretches split into full chunks with
// the remainder last.
//
// The header declares 3 channels and colorspace 1 (all channels linear).
func Encode(pixels []Pixel, width, height int) ([]byte, error) {
	return EncodeColorspace(pixels, width, height, 1)
}

// EncodeColorspace is Encode with an explicit colorspace header flag. The
// flag is informative only; it does not change how pixels are packed.
func EncodeColorspace(pixels []Pixel, width, height int, colorspace uint8) ([]byte, error) {
	if width < 0 || height < 0 || int64(width) > math.MaxUint32 || int64(height) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBufferSize, width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("%w: have %d pixels, want %d", ErrBufferSize, len(pixels), width*height)
	}

	var buf bytes.Buffer
	buf.Grow(HeaderSize + len(pixels) + len(endMarker))
	buf.Write(packHeader(Header{
		Width:      uint32(width),
		Height:     uint32(height),
		Channels:   3,
		Colorspace: colorspace,
	}))

	var (
		prev  Pixel // zero value matches the decoder's starting state
		cache [cacheSize]Pixel
		run   int
	)

	for i, px := range pixels {
		if px == prev && i != 0 {
			run++
			if run == maxRun {
				b, _ := packRun(run)
				buf.WriteByte(b)
				run = 0
			} else if i == len(pixels)-1 {
				b, _ := packRun(run)
				buf.WriteByte(b)
			}
			continue
		}

		if run != 0 {
			b, _ := packRun(run)
			buf.WriteByte(b)
			run = 0
		}

		slot := hashPixel(px)
		if cache[slot] == px {
			b, err := packIndex(slot)
			if err != nil {
				return nil, err
			}
			buf.WriteByte(b)
			prev = px
			continue
		}

		dr := int(px.R) - int(prev.R)
		dg := int(px.G) - int(prev.G)
		db := int(px.B) - int(prev.B)
		drg := dr - dg
		dbg := db - dg

		switch {
		case dr >= -2 && dr <= 1 && dg >= -2 && dg <= 1 && db >= -2 && db <= 1:
			b, err := packDiff(dr, dg, db)
			if err != nil {
				return nil, err
			}
			buf.WriteByte(b)
		case dg >= -32 && dg <= 31 && drg >= -8 && drg <= 7 && dbg >= -8 && dbg <= 7:
			chunk, err := packLuma(drg, dg, dbg)
			if err != nil {
				return nil, err
			}
			buf.Write(chunk[:])
		default:
			chunk := packRGB(px)
			buf.Write(chunk[:])
			cache[slot] = px
		}
		prev = px
	}

	buf.Write(endMarker[:])
	return buf.Bytes(), nil
}
