package imagepkg

import (
	"github.com/youruser/mockupapp/internal/apperr"
)

// Default raster budget. 16000x16000 covers every built-in print area at
// 300 dpi; 64M pixels is 256 MB of NRGBA.
const (
	DefaultMaxSide   = 16000
	DefaultMaxPixels = 64_000_000
)

// Limits caps the rasters a request can make the engine allocate.
type Limits struct {
	MaxSide   int
	MaxPixels int
}

func DefaultLimits() Limits {
	return Limits{MaxSide: DefaultMaxSide, MaxPixels: DefaultMaxPixels}
}

func (l Limits) allows(s Size) bool {
	if l.MaxSide > 0 && (s.W > l.MaxSide || s.H > l.MaxSide) {
		return false
	}
	return l.MaxPixels <= 0 || int64(s.W)*int64(s.H) <= int64(l.MaxPixels)
}

// CheckCanvas validates a print canvas against the engine's budget.
func (e *Engine) CheckCanvas(w, h int) error {
	if w <= 0 || h <= 0 {
		return apperr.New(apperr.KindInvalidDimensions,
			"canvas_width and canvas_height must be positive, got %dx%d", w, h)
	}
	if !e.Limits.allows(Size{W: w, H: h}) {
		return apperr.New(apperr.KindInvalidDimensions,
			"canvas %dx%d exceeds the limit of %d px per side and %d px total", w, h, e.Limits.MaxSide, e.Limits.MaxPixels)
	}
	return nil
}

// checkScaled rejects a resize target over the budget.
func (e *Engine) checkScaled(s Size) error {
	if !e.Limits.allows(s) {
		return apperr.New(apperr.KindInvalidPlacement,
			"scaled design %dx%d exceeds the limit of %d px per side and %d px total", s.W, s.H, e.Limits.MaxSide, e.Limits.MaxPixels)
	}
	return nil
}
