package qoi

import "fmt"

// Chunk packers. Each returns the exact wire bytes for one opcode and
// rejects arguments outside the documented bit field with ErrRange. The
// encoder validates before calling, so these checks are unreachable in a
// normal encode; they exist to keep the wire layer safe on its own.

// packRun encodes a run of 1..62 repeats of the previous pixel. The length
// is stored with a bias of -1; values 63 and 64 are taken by the RGB and
// RGBA tags.
func packRun(length int) (byte, error) {
	if length < 1 || length > maxRun {
		return 0, fmt.Errorf("%w: run length %d", ErrRange, length)
	}
	return tagRun | byte(length-1), nil
}

// packIndex encodes a reference to index table slot 0..63.
func packIndex(slot int) (byte, error) {
	if slot < 0 || slot >= cacheSize {
		return 0, fmt.Errorf("%w: index slot %d", ErrRange, slot)
	}
	return tagIndex | byte(slot), nil
}

// packDiff encodes per-channel differences in -2..1, each stored with a
// bias of 2 in a 2-bit field.
func packDiff(dr, dg, db int) (byte, error) {
	if dr < -2 || dr > 1 || dg < -2 || dg > 1 || db < -2 || db > 1 {
		return 0, fmt.Errorf("%w: diff (%d,%d,%d)", ErrRange, dr, dg, db)
	}
	return tagDiff | byte(dr+2)<<4 | byte(dg+2)<<2 | byte(db+2), nil
}

// packLuma encodes a green difference in -32..31 (bias 32) and red/blue
// differences relative to it in -8..7 (bias 8), as two bytes.
func packLuma(drg, dg, dbg int) ([2]byte, error) {
	var chunk [2]byte
	if dg < -32 || dg > 31 {
		return chunk, fmt.Errorf("%w: luma dg %d", ErrRange, dg)
	}
	if drg < -8 || drg > 7 || dbg < -8 || dbg > 7 {
		return chunk, fmt.Errorf("%w: luma (%d,%d)", ErrRange, drg, dbg)
	}
	chunk[0] = tagLuma | byte(dg+32)
	chunk[1] = byte(drg+8)<<4 | byte(dbg+8)
	return chunk, nil
}

// packRGB encodes an absolute pixel as tag + three channel bytes.
func packRGB(p Pixel) [4]byte {
	return [4]byte{tagRGB, p.R, p.G, p.B}
}

// packRGBA encodes an absolute pixel with alpha. The format reserves this
// opcode; the encoder never emits it and the decoder rejects it.
func packRGBA(p Pixel, a uint8) [5]byte {
	return [5]byte{tagRGBA, p.R, p.G, p.B, a}
}

// signed interprets the low `bits` bits of v as a two's-complement value:
// if the top bit of the field is set the decoded value is v - 2^bits.
func signed(v byte, bits uint) int {
	if v&(1<<(bits-1)) != 0 {
		return int(v) - (1 << bits)
	}
	return int(v)
}

// decodeDiff extracts the three 2-bit channel differences from a DIFF byte.
func decodeDiff(b byte) (dr, dg, db int) {
	dr = signed(b>>4&0x03, 2)
	dg = signed(b>>2&0x03, 2)
	db = signed(b&0x03, 2)
	return
}

// decodeLuma extracts dg from the tag byte and drg/dbg from the
// continuation byte of a LUMA chunk.
func decodeLuma(b0, b1 byte) (drg, dg, dbg int) {
	dg = signed(b0&0x3f, 6)
	drg = signed(b1>>4&0x0f, 4)
	dbg = signed(b1&0x0f, 4)
	return
}
