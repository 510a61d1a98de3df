package imagepkg

import (
	"image"
	"math"

	"github.com/youruser/mockupapp/internal/apperr"
)

// Size is a pixel extent.
type Size struct {
	W int `json:"width"`
	H int `json:"height"`
}

func sizeOf(img image.Image) Size {
	b := img.Bounds()
	return Size{W: b.Dx(), H: b.Dy()}
}

func (s Size) positive() bool { return s.W > 0 && s.H > 0 }

// round is half away from zero, which is what math.Round does.
func round(v float64) int { return int(math.Round(v)) }

// FitWithin scales natural into box preserving its aspect ratio. The bounding
// axis is taken exactly from box; only the dependent axis is rounded.
func FitWithin(natural, box Size) (Size, error) {
	if !natural.positive() {
		return Size{}, apperr.New(apperr.KindInvalidPlacement, "design has no pixels (%dx%d)", natural.W, natural.H)
	}
	if !box.positive() {
		return Size{}, apperr.New(apperr.KindInvalidPlacement, "bounding box %dx%d is not positive", box.W, box.H)
	}
	r := float64(natural.W) / float64(natural.H)
	target := float64(box.W) / float64(box.H)

	var out Size
	if r > target {
		out = Size{W: box.W, H: round(float64(box.W) / r)}
	} else {
		out = Size{W: round(float64(box.H) * r), H: box.H}
	}
	if !out.positive() {
		return Size{}, apperr.New(apperr.KindInvalidPlacement, "design %dx%d collapses to %dx%d in a %dx%d box",
			natural.W, natural.H, out.W, out.H, box.W, box.H)
	}
	return out, nil
}

// PercentOfWidth sizes the design to pct percent of destWidth; height follows
// the design's own aspect ratio.
func PercentOfWidth(natural Size, destWidth int, pct float64) (Size, error) {
	if !natural.positive() {
		return Size{}, apperr.New(apperr.KindInvalidPlacement, "design has no pixels (%dx%d)", natural.W, natural.H)
	}
	w := round(float64(destWidth) * pct / 100)
	if w <= 0 {
		return Size{}, apperr.New(apperr.KindInvalidPlacement, "width_percent %g of %dpx is not positive", pct, destWidth)
	}
	h := round(float64(w) * float64(natural.H) / float64(natural.W))
	if h <= 0 {
		return Size{}, apperr.New(apperr.KindInvalidPlacement, "design %dx%d collapses to %dx%d", natural.W, natural.H, w, h)
	}
	return Size{W: w, H: h}, nil
}

// CenterAnchor returns the top-left corner that puts the center of placed at
// (xPct, yPct) of dest. Used for every print placement.
func CenterAnchor(dest, placed Size, xPct, yPct float64) image.Point {
	return image.Pt(
		round(float64(dest.W)*xPct/100-float64(placed.W)/2),
		round(float64(dest.H)*yPct/100-float64(placed.H)/2),
	)
}

// TopAnchor centers placed horizontally on xPct but puts its top edge at
// yPct. Display placements are aligned by the top of the print area on the
// mockup; callers depend on this.
func TopAnchor(dest, placed Size, xPct, yPct float64) image.Point {
	return image.Pt(
		round(float64(dest.W)*xPct/100-float64(placed.W)/2),
		round(float64(dest.H)*yPct/100),
	)
}

// SafeArea resolves the print box: explicit pixel sizes win, otherwise pct
// of the canvas on each axis. The box never exceeds the canvas.
func SafeArea(canvas Size, safeW, safeH int, pct float64) (Size, error) {
	if safeW < 0 || safeH < 0 {
		return Size{}, apperr.New(apperr.KindInvalidDimensions, "safe area %dx%d is negative", safeW, safeH)
	}
	if pct <= 0 {
		pct = DefaultSafePercent
	}
	out := Size{W: safeW, H: safeH}
	if out.W == 0 {
		out.W = round(float64(canvas.W) * pct / 100)
	}
	if out.H == 0 {
		out.H = round(float64(canvas.H) * pct / 100)
	}
	if !out.positive() {
		return Size{}, apperr.New(apperr.KindInvalidDimensions, "safe area %dx%d is not positive", out.W, out.H)
	}
	if out.W > canvas.W || out.H > canvas.H {
		return Size{}, apperr.New(apperr.KindInvalidDimensions, "safe area %dx%d is larger than the %dx%d canvas",
			out.W, out.H, canvas.W, canvas.H)
	}
	return out, nil
}
