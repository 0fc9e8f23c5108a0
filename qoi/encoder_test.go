package qoi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeHeaderBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	return packHeader(Header{Width: uint32(width), Height: uint32(height), Channels: 3, Colorspace: 1})
}

func TestEncodeEmptyImage(t *testing.T) {
	data, err := Encode(nil, 0, 0)
	require.NoError(t, err)

	want := append(encodeHeaderBytes(t, 0, 0), endMarker[:]...)
	require.Equal(t, want, data)
}

func TestEncodeHeaderLayout(t *testing.T) {
	data, err := Encode(make([]Pixel, 6), 3, 2)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(data), HeaderSize)

	require.Equal(t, []byte("qoif"), data[0:4])
	require.Equal(t, []byte{0, 0, 0, 3}, data[4:8])
	require.Equal(t, []byte{0, 0, 0, 2}, data[8:12])
	require.Equal(t, byte(3), data[12])
	require.Equal(t, byte(1), data[13])
}

func TestEncodeBufferSizeMismatch(t *testing.T) {
	_, err := Encode(make([]Pixel, 5), 2, 2)
	require.ErrorIs(t, err, ErrBufferSize)

	_, err = Encode(nil, -1, 3)
	require.ErrorIs(t, err, ErrBufferSize)
}

func TestEncodeRunSplitAtCap(t *testing.T) {
	// 70 identical pixels then one outlier: the first pixel is an absolute
	// chunk, the remaining 69 repeats split into runs of 62 and 7.
	pixels := make([]Pixel, 71)
	for i := 0; i < 70; i++ {
		pixels[i] = Pixel{R: 10, G: 20, B: 30}
	}
	pixels[70] = Pixel{R: 200, G: 100, B: 50}

	data, err := Encode(pixels, 71, 1)
	require.NoError(t, err)

	want := encodeHeaderBytes(t, 71, 1)
	want = append(want, 0xfe, 10, 20, 30) // first pixel
	want = append(want, 0xc0|61)          // run of 62
	want = append(want, 0xc0|6)           // run of 7
	want = append(want, 0xfe, 200, 100, 50)
	want = append(want, endMarker[:]...)
	require.Equal(t, want, data)
}

func TestEncodeRunFlushedAtLastPixel(t *testing.T) {
	pixels := make([]Pixel, 6)
	for i := range pixels {
		pixels[i] = Pixel{R: 10, G: 20, B: 30}
	}

	data, err := Encode(pixels, 6, 1)
	require.NoError(t, err)

	want := encodeHeaderBytes(t, 6, 1)
	want = append(want, 0xfe, 10, 20, 30)
	want = append(want, 0xc0|4) // run of 5
	want = append(want, endMarker[:]...)
	require.Equal(t, want, data)
}

func TestEncodeFirstPixelNeverStartsRun(t *testing.T) {
	// A leading black pixel equals the initial previous-pixel state but
	// must still produce a chunk of its own; the zeroed index table makes
	// that an index reference to slot 53.
	pixels := []Pixel{{}, {}, {}}

	data, err := Encode(pixels, 3, 1)
	require.NoError(t, err)

	want := encodeHeaderBytes(t, 3, 1)
	want = append(want, 53)     // index hit in the zeroed table
	want = append(want, 0xc0|1) // run of 2
	want = append(want, endMarker[:]...)
	require.Equal(t, want, data)
}

func TestEncodeDiffBoundarySelection(t *testing.T) {
	// (+1,-2,+1) fits the 2-bit diff window.
	pixels := []Pixel{{R: 100, G: 100, B: 100}, {R: 101, G: 98, B: 101}}
	data, err := Encode(pixels, 2, 1)
	require.NoError(t, err)

	want := encodeHeaderBytes(t, 2, 1)
	want = append(want, 0xfe, 100, 100, 100)
	diff, err := packDiff(1, -2, 1)
	require.NoError(t, err)
	want = append(want, diff)
	want = append(want, endMarker[:]...)
	require.Equal(t, want, data)
}

func TestEncodeDiffFallsThroughToLuma(t *testing.T) {
	// (+1,-2,+2) pushes db out of the diff window; dg and the relative
	// red/blue diffs still fit the luma fields.
	pixels := []Pixel{{R: 100, G: 100, B: 100}, {R: 101, G: 98, B: 102}}
	data, err := Encode(pixels, 2, 1)
	require.NoError(t, err)

	want := encodeHeaderBytes(t, 2, 1)
	want = append(want, 0xfe, 100, 100, 100)
	luma, err := packLuma(3, -2, 4)
	require.NoError(t, err)
	want = append(want, luma[:]...)
	want = append(want, endMarker[:]...)
	require.Equal(t, want, data)
}

func TestEncodeLumaFallsThroughToRGB(t *testing.T) {
	// drg of +9 exceeds the 4-bit luma field.
	pixels := []Pixel{{R: 100, G: 100, B: 100}, {R: 119, G: 110, B: 110}}
	data, err := Encode(pixels, 2, 1)
	require.NoError(t, err)

	want := encodeHeaderBytes(t, 2, 1)
	want = append(want, 0xfe, 100, 100, 100)
	want = append(want, 0xfe, 119, 110, 110)
	want = append(want, endMarker[:]...)
	require.Equal(t, want, data)
}

func TestEncodeIndexAfterAbsoluteChunk(t *testing.T) {
	// Only absolute chunks populate the index table, so the repeat of the
	// first color is an index reference.
	a := Pixel{R: 78, G: 88, B: 98}
	b := Pixel{R: 200, G: 10, B: 50}
	pixels := []Pixel{a, b, a}

	data, err := Encode(pixels, 3, 1)
	require.NoError(t, err)

	want := encodeHeaderBytes(t, 3, 1)
	want = append(want, 0xfe, 78, 88, 98)
	want = append(want, 0xfe, 200, 10, 50)
	want = append(want, byte(hashPixel(a)))
	want = append(want, endMarker[:]...)
	require.Equal(t, want, data)
}

func TestEncodeDiffReachedPixelNotIndexed(t *testing.T) {
	// The second pixel lands one step away from the first, so it is a diff
	// chunk and must not enter the index table: its later repeat after an
	// unrelated color cannot be an index reference.
	a := Pixel{R: 100, G: 100, B: 100}
	b := Pixel{R: 101, G: 101, B: 101}
	c := Pixel{R: 7, G: 200, B: 3}
	pixels := []Pixel{a, b, c, b}

	data, err := Encode(pixels, 4, 1)
	require.NoError(t, err)

	want := encodeHeaderBytes(t, 4, 1)
	want = append(want, 0xfe, 100, 100, 100)
	diff, err := packDiff(1, 1, 1)
	require.NoError(t, err)
	want = append(want, diff)
	want = append(want, 0xfe, 7, 200, 3)
	want = append(want, 0xfe, 101, 101, 101) // not indexed, full chunk again
	want = append(want, endMarker[:]...)
	require.Equal(t, want, data)
}

func TestEncodeDeterministic(t *testing.T) {
	pixels := makeGradient(33, 17)

	first, err := Encode(pixels, 33, 17)
	require.NoError(t, err)
	second, err := Encode(pixels, 33, 17)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
