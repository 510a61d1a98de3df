package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/youruser/mockupapp/internal/apperr"
)

// Layer is an image stacked on a base at an absolute pixel position.
// Width/Height of zero keep the natural size on that axis, or follow the
// aspect ratio when the other axis is set.
type Layer struct {
	Image   *image.NRGBA
	X, Y    int
	Width   int
	Height  int
	Opacity float64
}

// Stack draws layers over a copy of base, first layer lowest.
func (e *Engine) Stack(base *image.NRGBA, layers []Layer) (*Composite, error) {
	if base == nil {
		return nil, apperr.New(apperr.KindMissingBackground, "base image is required")
	}
	out := imaging.Clone(base)
	placed := make([]Placed, 0, len(layers))
	for i, l := range layers {
		if l.Width < 0 || l.Height < 0 {
			return nil, apperr.New(apperr.KindInvalidPlacement, "layer %d: size %dx%d is negative", i+1, l.Width, l.Height)
		}
		if l.Opacity < 0 || l.Opacity > 1 {
			return nil, apperr.New(apperr.KindInvalidPlacement, "layer %d: opacity %v outside 0-1", i+1, l.Opacity)
		}
		if l.Image == nil || !sizeOf(l.Image).positive() {
			return nil, apperr.New(apperr.KindInvalidPlacement, "layer %d has no pixels", i+1)
		}
		img := l.Image
		if l.Width > 0 || l.Height > 0 {
			target := layerSize(sizeOf(img), l.Width, l.Height)
			if err := e.checkScaled(target); err != nil {
				return nil, apperr.Wrap(apperr.KindInvalidPlacement, err, fmt.Sprintf("layer %d", i+1))
			}
			img = imaging.Resize(img, target.W, target.H, e.Filter)
		}
		if l.Opacity < 1 {
			img = fade(img, l.Opacity)
		}
		at := image.Pt(l.X, l.Y)
		drawOver(out, img, at)
		placed = append(placed, Placed{Origin: at, Size: sizeOf(img)})
	}
	return &Composite{Image: out, Placed: placed}, nil
}

// layerSize fills a zero axis from the other one and the natural aspect
// ratio, as imaging.Resize would.
func layerSize(natural Size, w, h int) Size {
	if w == 0 {
		w = max(1, round(float64(h)*float64(natural.W)/float64(natural.H)))
	}
	if h == 0 {
		h = max(1, round(float64(w)*float64(natural.H)/float64(natural.W)))
	}
	return Size{W: w, H: h}
}

// fade returns a copy of img with every alpha scaled by opacity.
func fade(img *image.NRGBA, opacity float64) *image.NRGBA {
	out := imaging.Clone(img)
	for i := 3; i < len(out.Pix); i += 4 {
		out.Pix[i] = clampUint8(float64(out.Pix[i]) * opacity)
	}
	return out
}

// EncodeAs serialises img as "png" or "jpeg" and returns the bytes with
// their content type. JPEG drops alpha.
func EncodeAs(img image.Image, format string) ([]byte, string, error) {
	switch strings.ToLower(format) {
	case "", "png":
		b, err := Encode(img)
		return b, ContentTypePNG, err
	case "jpg", "jpeg":
		buf := new(bytes.Buffer)
		if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
			return nil, "", apperr.Wrap(apperr.KindEncode, err, "encode JPEG")
		}
		return buf.Bytes(), "image/jpeg", nil
	}
	return nil, "", apperr.New(apperr.KindValidation, "output must be png or jpeg, got %q", format)
}
