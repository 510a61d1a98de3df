package imagepkg

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/youruser/mockupapp/internal/apperr"
)

const ContentTypePNG = "image/png"

// Decode turns raw PNG/JPEG/GIF/BMP/TIFF/WebP bytes into an NRGBA raster
// whose pixel buffer is exactly width*height*4 bytes. JPEG EXIF orientation
// is applied so phone photos come out upright.
func Decode(data []byte) (*image.NRGBA, error) {
	if len(data) == 0 {
		return nil, apperr.New(apperr.KindDecode, "empty image data")
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDecode, err, "unsupported or corrupt image")
	}
	out := imaging.Clone(img)
	if !sizeOf(out).positive() {
		return nil, apperr.New(apperr.KindDecode, "image has no pixels")
	}
	return out, nil
}

// Decode is the package Decode with the image header checked against the
// engine's raster budget first, so oversized inputs are refused before any
// pixels are allocated.
func (e *Engine) Decode(data []byte) (*image.NRGBA, error) {
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		if !e.Limits.allows(Size{W: cfg.Width, H: cfg.Height}) {
			return nil, apperr.New(apperr.KindDecode, "image %dx%d exceeds the limit of %d px per side and %d px total",
				cfg.Width, cfg.Height, e.Limits.MaxSide, e.Limits.MaxPixels)
		}
	}
	return Decode(data)
}

// Encode serialises img as an 8-bit RGBA PNG. Alpha is kept, which print
// files rely on to stay transparent outside the design.
func Encode(img image.Image) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, img, imaging.PNG); err != nil {
		return nil, apperr.Wrap(apperr.KindEncode, err, "encode PNG")
	}
	return buf.Bytes(), nil
}
