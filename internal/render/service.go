// Package render runs compositing jobs end to end: fetch the inputs, place
// the design, encode the result and hand it to a delivery strategy.
package render

import (
	"context"
	"image"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/youruser/mockupapp/internal/apperr"
	"github.com/youruser/mockupapp/internal/delivery"
	imagepkg "github.com/youruser/mockupapp/internal/image"
	"github.com/youruser/mockupapp/internal/presets"
	"github.com/youruser/mockupapp/internal/source"
)

// Percent defaults for fields a caller leaves out.
const (
	DefaultXPercent        = 50
	DefaultYPercent        = 50
	DefaultWidthPercent    = 50
	DefaultInstancePercent = 35
	// CompositeSafePercent is the print box of /api/composite jobs without
	// safe_width/safe_height: the whole canvas.
	CompositeSafePercent = 100
)

// Notifier reports finished jobs to a caller webhook.
type Notifier interface {
	Notify(ctx context.Context, url string, cb delivery.Callback) bool
}

type Defaults struct {
	SafePercent float64
	DPI         int
}

type Service struct {
	src      source.Fetcher
	engine   *imagepkg.Engine
	notifier Notifier
	presets  []presets.Preset
	defaults Defaults
	log      zerolog.Logger
}

func NewService(src source.Fetcher, engine *imagepkg.Engine, notifier Notifier, all []presets.Preset, d Defaults, log zerolog.Logger) *Service {
	if d.SafePercent <= 0 {
		d.SafePercent = imagepkg.DefaultSafePercent
	}
	if d.DPI <= 0 {
		d.DPI = 300
	}
	return &Service{
		src:      src,
		engine:   engine,
		notifier: notifier,
		presets:  all,
		defaults: d,
		log:      log,
	}
}

// Presets returns the print areas the service resolves placement names
// against.
func (s *Service) Presets() []presets.Preset { return s.presets }

// loadPair fetches and decodes design and background at the same time. The
// first failure cancels the other fetch. An empty backgroundURL is skipped.
func (s *Service) loadPair(ctx context.Context, designURL, backgroundURL string) (design, background *image.NRGBA, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		img, err := s.load(gctx, apperr.RoleDesign, designURL)
		design = img
		return err
	})
	if backgroundURL != "" {
		g.Go(func() error {
			img, err := s.load(gctx, apperr.RoleBackground, backgroundURL)
			background = img
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return design, background, nil
}

func (s *Service) load(ctx context.Context, role apperr.Role, ref string) (*image.NRGBA, error) {
	start := time.Now()
	data, err := s.src.Fetch(ctx, ref)
	if err != nil {
		return nil, apperr.WithInput(err, role, ref)
	}
	img, err := s.engine.Decode(data)
	if err != nil {
		return nil, apperr.WithInput(err, role, ref)
	}
	s.log.Debug().
		Str("role", string(role)).
		Int("bytes", len(data)).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Dur("took", time.Since(start)).
		Msg("input loaded")
	return img, nil
}

// publish encodes img and delivers it under name.
func (s *Service) publish(ctx context.Context, out delivery.Strategy, name string, img *image.NRGBA) (string, error) {
	data, err := imagepkg.Encode(img)
	if err != nil {
		return "", err
	}
	ref, err := out.Deliver(ctx, name, data, imagepkg.ContentTypePNG)
	if err != nil {
		return "", err
	}
	s.log.Debug().Str("name", name).Int("bytes", len(data)).Msg("image delivered")
	return ref, nil
}

// PercentOr returns *p, or def when the caller left the field out.
func PercentOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}
