package render

import (
	"context"
	"image"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/youruser/mockupapp/internal/apperr"
	imagepkg "github.com/youruser/mockupapp/internal/image"
)

const (
	MaxOverlayLayers  = 16
	overlayFetchLimit = 4
)

// OverlayLayer references one image stacked on the base.
type OverlayLayer struct {
	URL     string   `json:"url"`
	X       int      `json:"x"`
	Y       int      `json:"y"`
	Width   int      `json:"width"`
	Height  int      `json:"height"`
	Opacity *float64 `json:"opacity"`
}

type OverlayJob struct {
	BaseURL string
	Layers  []OverlayLayer
	Format  string
}

// Overlay stacks job's layers on its base by absolute position and returns
// the encoded image with its content type. Inputs are fetched concurrently;
// any failed input fails the job.
func (s *Service) Overlay(ctx context.Context, job OverlayJob) ([]byte, string, error) {
	if strings.TrimSpace(job.BaseURL) == "" {
		return nil, "", apperr.New(apperr.KindValidation, "Base image URL required")
	}
	if len(job.Layers) > MaxOverlayLayers {
		return nil, "", apperr.New(apperr.KindValidation, "at most %d overlays, got %d", MaxOverlayLayers, len(job.Layers))
	}
	switch strings.ToLower(job.Format) {
	case "", "png", "jpg", "jpeg":
	default:
		return nil, "", apperr.New(apperr.KindValidation, "output must be png or jpeg, got %q", job.Format)
	}
	for i, l := range job.Layers {
		if strings.TrimSpace(l.URL) == "" {
			return nil, "", apperr.New(apperr.KindValidation, "overlay %d has no url", i+1)
		}
	}

	var base *image.NRGBA
	imgs := make([]*image.NRGBA, len(job.Layers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(overlayFetchLimit)
	g.Go(func() error {
		img, err := s.load(gctx, apperr.RoleBackground, job.BaseURL)
		base = img
		return err
	})
	for i, l := range job.Layers {
		i, l := i, l
		g.Go(func() error {
			img, err := s.load(gctx, apperr.RoleOverlay, l.URL)
			imgs[i] = img
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, "", err
	}

	layers := make([]imagepkg.Layer, len(job.Layers))
	for i, l := range job.Layers {
		layers[i] = imagepkg.Layer{
			Image:   imgs[i],
			X:       l.X,
			Y:       l.Y,
			Width:   l.Width,
			Height:  l.Height,
			Opacity: PercentOr(l.Opacity, 1),
		}
	}
	comp, err := s.engine.Stack(base, layers)
	if err != nil {
		return nil, "", err
	}
	data, contentType, err := imagepkg.EncodeAs(comp.Image, job.Format)
	if err != nil {
		return nil, "", err
	}
	s.log.Info().Int("layers", len(layers)).Str("format", contentType).Msg("overlay rendered")
	return data, contentType, nil
}
