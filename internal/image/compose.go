package imagepkg

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// Blank returns a fully transparent w x h canvas.
func Blank(w, h int) *image.NRGBA {
	return imaging.New(w, h, color.NRGBA{})
}

// Overlay draws src over a copy of dst with its top-left corner at pt and
// returns the copy. dst is left untouched, so one background can serve any
// number of placements.
func Overlay(dst, src *image.NRGBA, pt image.Point) *image.NRGBA {
	out := imaging.Clone(dst)
	drawOver(out, src, pt)
	return out
}

// drawOver blends src onto dst in place with straight-alpha source-over.
// Whatever falls outside dst is clipped. Callers must own dst exclusively.
func drawOver(dst, src *image.NRGBA, pt image.Point) {
	db := dst.Bounds()
	sb := src.Bounds()
	pasteRect := image.Rectangle{Min: pt, Max: pt.Add(sb.Size())}
	inter := pasteRect.Intersect(db)
	if inter.Empty() {
		return
	}

	for y := inter.Min.Y; y < inter.Max.Y; y++ {
		di := dst.PixOffset(inter.Min.X, y)
		si := src.PixOffset(sb.Min.X+inter.Min.X-pt.X, sb.Min.Y+y-pt.Y)
		for x := inter.Min.X; x < inter.Max.X; x++ {
			blendPixel(dst.Pix[di:di+4:di+4], src.Pix[si:si+4:si+4])
			di += 4
			si += 4
		}
	}
}

func blendPixel(d, s []uint8) {
	switch s[3] {
	case 0:
		return
	case 0xff:
		copy(d, s)
		return
	}

	sa := float64(s[3]) / 255
	da := float64(d[3]) / 255
	outA := sa + da*(1-sa)
	if outA <= 0 {
		d[0], d[1], d[2], d[3] = 0, 0, 0, 0
		return
	}
	for c := 0; c < 3; c++ {
		v := (float64(s[c])*sa + float64(d[c])*da*(1-sa)) / outA
		d[c] = clampUint8(v)
	}
	d[3] = clampUint8(outA * 255)
}

func clampUint8(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(v + 0.5)
}
