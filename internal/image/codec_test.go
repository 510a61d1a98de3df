package imagepkg

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/mockupapp/internal/apperr"
)

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 7), G: uint8(y * 11), B: uint8(x + y), A: uint8((x*y)%256)})
		}
	}
	return img
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	src := gradient(37, 23)

	data, err := Encode(src)
	require.NoError(t, err)
	assert.Equal(t, "\x89PNG", string(data[:4]))

	got, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), got.Bounds())
	assert.Equal(t, src.Pix, got.Pix)
}

func TestDecodeBufferInvariant(t *testing.T) {
	buf := new(bytes.Buffer)
	require.NoError(t, jpeg.Encode(buf, image.NewRGBA(image.Rect(0, 0, 13, 7)), nil))

	got, err := Decode(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 13*7*4, len(got.Pix))
	assert.Equal(t, 13*4, got.Stride)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("<!doctype html><html></html>"), []byte("\x89PNG truncated")} {
		_, err := Decode(data)
		assert.True(t, apperr.Is(err, apperr.KindDecode), "input %q", data)
	}
}

// withPNGSize rewrites the IHDR of a PNG to claim w x h pixels.
func withPNGSize(t *testing.T, data []byte, w, h uint32) []byte {
	t.Helper()
	require.Equal(t, "IHDR", string(data[12:16]))
	out := append([]byte(nil), data...)
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestEngineDecodeBudget(t *testing.T) {
	data, err := Encode(solid(4, 4, red))
	require.NoError(t, err)

	e := NewEngine()
	img, err := e.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, 4, img.Bounds().Dx())

	_, err = e.Decode(withPNGSize(t, data, 100000, 100000))
	assert.True(t, apperr.Is(err, apperr.KindDecode), "%v", err)

	e.Limits = Limits{MaxSide: 3, MaxPixels: 100}
	_, err = e.Decode(data)
	assert.True(t, apperr.Is(err, apperr.KindDecode), "%v", err)
}
