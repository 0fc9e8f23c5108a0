package qoi

import "fmt"

// Decode reconstructs the header and the row-major pixel sequence from a
// complete in-memory stream. It mirrors the encoder's state machine: the
// previous pixel starts at (0,0,0), the run counter at zero, and the index
// table zeroed, with the table written only when an absolute RGB chunk is
// consumed.
//
// Decoding stops once width*height pixels have been produced; the trailing
// end marker is not inspected. Typed failures: ErrNoInput for an empty
// buffer, ErrInvalidMagic for a bad header, ErrTruncated when a chunk
// declares more bytes than remain, ErrUnsupportedChunk for the reserved
// RGBA opcode.
func Decode(data []byte) (Header, []Pixel, error) {
	if len(data) == 0 {
		return Header{}, nil, ErrNoInput
	}

	hdr, err := parseHeader(data)
	if err != nil {
		return Header{}, nil, err
	}

	// A single stream byte yields at most 62 pixels (a full run chunk), so
	// a buffer too short for the declared dimensions is rejected before any
	// allocation sized from the header.
	declared := uint64(hdr.Width) * uint64(hdr.Height)
	if uint64(len(data)-HeaderSize) < (declared+maxRun-1)/maxRun {
		return Header{}, nil, fmt.Errorf("%w: %d bytes cannot hold %d pixels", ErrTruncated, len(data)-HeaderSize, declared)
	}
	pixelCount := int(declared)
	pixels := make([]Pixel, 0, pixelCount)

	var (
		prev  Pixel
		cache [cacheSize]Pixel
		run   int
	)
	pos := HeaderSize

	for len(pixels) < pixelCount {
		if run != 0 {
			run--
			pixels = append(pixels, prev)
			continue
		}

		if pos >= len(data) {
			return Header{}, nil, fmt.Errorf("%w: %d of %d pixels decoded", ErrTruncated, len(pixels), pixelCount)
		}
		tagByte := data[pos]
		pos++

		switch {
		case tagByte == tagRGB:
			if pos+3 > len(data) {
				return Header{}, nil, fmt.Errorf("%w: rgb chunk at offset %d", ErrTruncated, pos-1)
			}
			prev = Pixel{R: data[pos], G: data[pos+1], B: data[pos+2]}
			pos += 3
			cache[hashPixel(prev)] = prev

		case tagByte == tagRGBA:
			return Header{}, nil, fmt.Errorf("%w: rgba at offset %d", ErrUnsupportedChunk, pos-1)

		default:
			switch tagByte & tagMask2 {
			case tagRun:
				// The first repeat is consumed by this iteration.
				run = int(tagByte&0x3f) + 1
				run--

			case tagDiff:
				dr, dg, db := decodeDiff(tagByte)
				prev = Pixel{
					R: prev.R + uint8(dr),
					G: prev.G + uint8(dg),
					B: prev.B + uint8(db),
				}

			case tagLuma:
				if pos >= len(data) {
					return Header{}, nil, fmt.Errorf("%w: luma chunk at offset %d", ErrTruncated, pos-1)
				}
				drg, dg, dbg := decodeLuma(tagByte, data[pos])
				pos++
				prev = Pixel{
					R: prev.R + uint8(drg+dg),
					G: prev.G + uint8(dg),
					B: prev.B + uint8(dbg+dg),
				}

			case tagIndex:
				prev = cache[tagByte&0x3f]
			}
		}

		pixels = append(pixels, prev)
	}

	return hdr, pixels, nil
}
