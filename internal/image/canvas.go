package imagepkg

import (
	"fmt"
	"image"

	"github.com/youruser/mockupapp/internal/apperr"
)

// Assemble draws design once per instance onto canvas, in list order, so a
// later instance covers an earlier one where they overlap. canvas must be
// owned by the caller's job: it is drawn on in place and returned. The first
// instance that cannot be sized aborts the whole canvas.
func (e *Engine) Assemble(canvas, design *image.NRGBA, instances []Instance) (*Composite, error) {
	dest := sizeOf(canvas)
	natural := sizeOf(design)
	placed := make([]Placed, 0, len(instances))

	for i, inst := range instances {
		size, err := instanceSize(natural, dest, inst)
		if err == nil {
			err = e.checkScaled(size)
		}
		if err != nil {
			return nil, &apperr.Error{
				Kind: apperr.KindInvalidPlacement,
				Msg:  fmt.Sprintf("placement %d", i+1),
				Err:  err,
			}
		}
		at := CenterAnchor(dest, size, inst.XPercent, inst.YPercent)
		drawOver(canvas, e.resize(design, size), at)
		placed = append(placed, Placed{Origin: at, Size: size})
	}
	return &Composite{Image: canvas, Placed: placed}, nil
}

func instanceSize(natural, dest Size, inst Instance) (Size, error) {
	if inst.MaxWidth != 0 || inst.MaxHeight != 0 {
		return FitWithin(natural, Size{W: inst.MaxWidth, H: inst.MaxHeight})
	}
	if inst.WidthPercent > 0 {
		return PercentOfWidth(natural, dest.W, inst.WidthPercent)
	}
	return Size{}, apperr.New(apperr.KindInvalidPlacement, "needs max_width/max_height or width_percent")
}
