package imagepkg

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/mockupapp/internal/apperr"
)

func TestFitWithin(t *testing.T) {
	tests := []struct {
		name    string
		natural Size
		box     Size
		want    Size
	}{
		{"wide design on portrait canvas", Size{1000, 500}, Size{4200, 4800}, Size{4200, 2100}},
		{"tall design on portrait canvas", Size{500, 1000}, Size{4200, 4800}, Size{2400, 4800}},
		{"square into square", Size{300, 300}, Size{1000, 1000}, Size{1000, 1000}},
		{"upscale small design", Size{3, 2}, Size{10, 10}, Size{10, 7}},
		{"dependent axis rounds half away", Size{4, 3}, Size{10, 10}, Size{10, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FitWithin(tt.natural, tt.box)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFitWithinProperties(t *testing.T) {
	boxes := []Size{{4200, 4800}, {1500, 1500}, {1140, 1140}, {1000, 300}, {333, 777}}
	for nw := 50; nw <= 1000; nw += 73 {
		for nh := 50; nh <= 1000; nh += 91 {
			r := float64(nw) / float64(nh)
			for _, box := range boxes {
				got, err := FitWithin(Size{nw, nh}, box)
				require.NoError(t, err)

				assert.LessOrEqual(t, got.W, box.W)
				assert.LessOrEqual(t, got.H, box.H)
				assert.True(t, got.W == box.W || got.H == box.H, "one axis must touch the box: %v in %v", got, box)

				// The dependent axis is off by at most half a pixel.
				if got.W == box.W && r > float64(box.W)/float64(box.H) {
					assert.LessOrEqual(t, math.Abs(float64(got.H)-float64(box.W)/r), 0.5)
				} else {
					assert.LessOrEqual(t, math.Abs(float64(got.W)-float64(box.H)*r), 0.5)
				}
				if r < 2 {
					minSide := math.Min(float64(got.W), float64(got.H))
					assert.Less(t, math.Abs(float64(got.W)/float64(got.H)-r), 1/minSide)
				}
			}
		}
	}
}

func TestFitWithinRejectsCollapse(t *testing.T) {
	_, err := FitWithin(Size{10000, 10}, Size{100, 100})
	assert.True(t, apperr.Is(err, apperr.KindInvalidPlacement))

	_, err = FitWithin(Size{10, 10}, Size{0, 100})
	assert.True(t, apperr.Is(err, apperr.KindInvalidPlacement))
}

func TestPercentOfWidth(t *testing.T) {
	got, err := PercentOfWidth(Size{400, 400}, 2000, 50)
	require.NoError(t, err)
	assert.Equal(t, Size{1000, 1000}, got)

	got, err = PercentOfWidth(Size{300, 200}, 1001, 33)
	require.NoError(t, err)
	assert.Equal(t, Size{330, 220}, got)

	_, err = PercentOfWidth(Size{300, 200}, 1000, 0)
	assert.True(t, apperr.Is(err, apperr.KindInvalidPlacement))
}

func TestCenterAnchor(t *testing.T) {
	t.Run("fifty percent centers exactly", func(t *testing.T) {
		for _, c := range []struct{ dest, placed Size }{
			{Size{4200, 4800}, Size{4200, 2100}},
			{Size{101, 99}, Size{10, 20}},
			{Size{1500, 1500}, Size{1350, 675}},
		} {
			at := CenterAnchor(c.dest, c.placed, 50, 50)
			want := image.Pt(
				int(math.Round(float64(c.dest.W-c.placed.W)/2)),
				int(math.Round(float64(c.dest.H-c.placed.H)/2)),
			)
			assert.Equal(t, want, at)
		}
	})

	t.Run("print scenario", func(t *testing.T) {
		assert.Equal(t, image.Pt(0, 1350), CenterAnchor(Size{4200, 4800}, Size{4200, 2100}, 50, 50))
	})

	t.Run("may leave the canvas", func(t *testing.T) {
		assert.Equal(t, image.Pt(-50, -50), CenterAnchor(Size{100, 100}, Size{100, 100}, 0, 0))
	})
}

func TestTopAnchor(t *testing.T) {
	// Vertical anchor is the top edge, no height subtraction.
	at := TopAnchor(Size{2000, 3000}, Size{1000, 1000}, 50, 40)
	assert.Equal(t, image.Pt(500, 1200), at)
}

func TestSafeArea(t *testing.T) {
	got, err := SafeArea(Size{4200, 4800}, 0, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, Size{3780, 4320}, got)

	got, err = SafeArea(Size{4200, 4800}, 3000, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, Size{3000, 4320}, got)

	got, err = SafeArea(Size{4200, 4800}, 0, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, Size{4200, 4800}, got)

	_, err = SafeArea(Size{4200, 4800}, -1, 0, 0)
	assert.True(t, apperr.Is(err, apperr.KindInvalidDimensions))

	_, err = SafeArea(Size{10, 10}, 1<<30, 1<<30, 0)
	assert.True(t, apperr.Is(err, apperr.KindInvalidDimensions))

	_, err = SafeArea(Size{100, 100}, 0, 0, 150)
	assert.True(t, apperr.Is(err, apperr.KindInvalidDimensions))
}
