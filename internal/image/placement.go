package imagepkg

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/youruser/mockupapp/internal/apperr"
)

// DefaultSafePercent is the share of each canvas axis a print design may
// fill when no explicit safe area is given.
const DefaultSafePercent = 90

type Mode string

const (
	ModePrint   Mode = "print"
	ModeDisplay Mode = "display"
)

// Instance is one entry of a multi-placement print job. MaxWidth/MaxHeight
// bound an aspect fit; when both are zero WidthPercent of the canvas width
// is used instead.
type Instance struct {
	MaxWidth     int
	MaxHeight    int
	WidthPercent float64
	XPercent     float64
	YPercent     float64
}

// Request carries the geometry of one job. Percent fields are taken as
// given; callers apply their own defaults.
type Request struct {
	Mode Mode

	// display
	WidthPercent float64

	XPercent float64
	YPercent float64

	// print
	CanvasWidth  int
	CanvasHeight int
	SafeWidth    int
	SafeHeight   int
	SafePercent  float64
	FullBleed    bool
	Placements   []Instance
}

// Placed records where a design instance ended up on the destination.
type Placed struct {
	Origin image.Point `json:"origin"`
	Size   Size        `json:"size"`
}

// Composite is the rendered raster plus the placement of every instance in
// draw order.
type Composite struct {
	Image  *image.NRGBA
	Placed []Placed
}

// Engine renders designs onto destinations.
type Engine struct {
	Filter imaging.ResampleFilter
	Limits Limits
}

func NewEngine() *Engine {
	return &Engine{Filter: imaging.Lanczos, Limits: DefaultLimits()}
}

// Destination returns the surface a request composes onto: a transparent
// canvas for print, the decoded background for display.
func (e *Engine) Destination(req Request, background *image.NRGBA) (*image.NRGBA, error) {
	switch req.Mode {
	case ModePrint:
		if err := e.CheckCanvas(req.CanvasWidth, req.CanvasHeight); err != nil {
			return nil, err
		}
		return Blank(req.CanvasWidth, req.CanvasHeight), nil
	case ModeDisplay:
		if background == nil {
			return nil, apperr.New(apperr.KindMissingBackground, "display mode needs a background image")
		}
		return background, nil
	default:
		return nil, apperr.New(apperr.KindValidation, "unknown mode %q", req.Mode)
	}
}

// Compose runs the full placement path for req. background is only read in
// display mode and is never modified.
func (e *Engine) Compose(design, background *image.NRGBA, req Request) (*Composite, error) {
	if design == nil {
		return nil, apperr.New(apperr.KindValidation, "design image is required")
	}
	dest, err := e.Destination(req, background)
	if err != nil {
		return nil, err
	}

	if req.Mode == ModeDisplay {
		return e.placeDisplay(dest, design, req)
	}
	if len(req.Placements) > 0 {
		return e.Assemble(dest, design, req.Placements)
	}
	if req.FullBleed {
		return e.placeCover(dest, design, req)
	}
	return e.placeSafe(dest, design, req)
}

func (e *Engine) placeDisplay(dest, design *image.NRGBA, req Request) (*Composite, error) {
	size, err := PercentOfWidth(sizeOf(design), dest.Bounds().Dx(), req.WidthPercent)
	if err != nil {
		return nil, err
	}
	if err := e.checkScaled(size); err != nil {
		return nil, err
	}
	scaled := e.resize(design, size)
	at := TopAnchor(sizeOf(dest), size, req.XPercent, req.YPercent)
	return &Composite{
		Image:  Overlay(dest, scaled, at),
		Placed: []Placed{{Origin: at, Size: size}},
	}, nil
}

func (e *Engine) placeSafe(dest, design *image.NRGBA, req Request) (*Composite, error) {
	canvas := sizeOf(dest)
	box, err := SafeArea(canvas, req.SafeWidth, req.SafeHeight, req.SafePercent)
	if err != nil {
		return nil, err
	}
	size, err := FitWithin(sizeOf(design), box)
	if err != nil {
		return nil, err
	}
	at := CenterAnchor(canvas, size, req.XPercent, req.YPercent)
	drawOver(dest, e.resize(design, size), at)
	return &Composite{Image: dest, Placed: []Placed{{Origin: at, Size: size}}}, nil
}

// placeCover fills the whole canvas with the design, cropping what overflows.
// XPercent/YPercent pick the crop window: 50/50 keeps the center, 0 keeps
// the left or top edge. The result is always drawn at the canvas origin.
func (e *Engine) placeCover(dest, design *image.NRGBA, req Request) (*Composite, error) {
	canvas := sizeOf(dest)
	natural := sizeOf(design)
	if !natural.positive() {
		return nil, apperr.New(apperr.KindInvalidPlacement, "design has no pixels")
	}
	window := coverWindow(natural, canvas, req.XPercent, req.YPercent)
	covered := imaging.Resize(imaging.Crop(design, window), canvas.W, canvas.H, e.Filter)
	drawOver(dest, covered, image.Point{})
	return &Composite{Image: dest, Placed: []Placed{{Origin: image.Point{}, Size: canvas}}}, nil
}

// coverWindow is the largest region of natural with canvas's aspect ratio,
// centred on (xPct, yPct) of the design and kept inside it.
func coverWindow(natural, canvas Size, xPct, yPct float64) image.Rectangle {
	w, h := natural.W, natural.H
	if int64(natural.W)*int64(canvas.H) > int64(natural.H)*int64(canvas.W) {
		w = max(1, min(natural.W, round(float64(natural.H)*float64(canvas.W)/float64(canvas.H))))
	} else {
		h = max(1, min(natural.H, round(float64(natural.W)*float64(canvas.H)/float64(canvas.W))))
	}
	x := clampInt(round(float64(natural.W)*xPct/100-float64(w)/2), 0, natural.W-w)
	y := clampInt(round(float64(natural.H)*yPct/100-float64(h)/2), 0, natural.H-h)
	return image.Rect(x, y, x+w, y+h)
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// resize returns a new raster; design itself is shared between instances and
// must stay untouched.
func (e *Engine) resize(design *image.NRGBA, size Size) *image.NRGBA {
	if sizeOf(design) == size {
		return imaging.Clone(design)
	}
	return imaging.Resize(design, size.W, size.H, e.Filter)
}
