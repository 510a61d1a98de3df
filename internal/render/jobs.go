package render

import (
	"context"
	"encoding/json"
	"math"
	"strings"

	"github.com/youruser/mockupapp/internal/apperr"
	"github.com/youruser/mockupapp/internal/delivery"
	imagepkg "github.com/youruser/mockupapp/internal/image"
	"github.com/youruser/mockupapp/internal/presets"
	"github.com/youruser/mockupapp/internal/product"
)

// CompositeJob is a single placement of a design, print or display.
type CompositeJob struct {
	DesignURL     string
	BackgroundURL string
	Request       imagepkg.Request
	Name          string
	WebhookURL    string
	Metadata      json.RawMessage
}

type CompositeResult struct {
	ImageURL string
	Placed   []imagepkg.Placed
	// Webhook is true when the job carried a webhook URL; Notified reports
	// whether the post succeeded.
	Webhook  bool
	Notified bool
}

// Composite renders one job and delivers it through out.
func (s *Service) Composite(ctx context.Context, job CompositeJob, out delivery.Strategy) (*CompositeResult, error) {
	if strings.TrimSpace(job.DesignURL) == "" {
		return nil, apperr.New(apperr.KindValidation, "Missing design_url")
	}
	bgURL := ""
	switch job.Request.Mode {
	case imagepkg.ModePrint:
		if err := s.engine.CheckCanvas(job.Request.CanvasWidth, job.Request.CanvasHeight); err != nil {
			return nil, err
		}
		if job.Request.SafePercent <= 0 {
			job.Request.SafePercent = CompositeSafePercent
		}
	case imagepkg.ModeDisplay:
		if strings.TrimSpace(job.BackgroundURL) == "" {
			return nil, apperr.New(apperr.KindMissingBackground, "Missing background_url for display mode")
		}
		bgURL = job.BackgroundURL
	default:
		return nil, apperr.New(apperr.KindValidation, "mode must be %q or %q", imagepkg.ModePrint, imagepkg.ModeDisplay)
	}

	design, background, err := s.loadPair(ctx, job.DesignURL, bgURL)
	if err != nil {
		return nil, err
	}
	comp, err := s.engine.Compose(design, background, job.Request)
	if err != nil {
		return nil, err
	}
	name := job.Name
	if name == "" {
		name = string(job.Request.Mode)
	}
	ref, err := s.publish(ctx, out, name, comp.Image)
	if err != nil {
		return nil, err
	}

	res := &CompositeResult{ImageURL: ref, Placed: comp.Placed}
	if job.WebhookURL != "" {
		res.Webhook = true
		res.Notified = s.notifier.Notify(ctx, job.WebhookURL, delivery.Callback{
			Status:   "completed",
			ImageURL: ref,
			Metadata: job.Metadata,
		})
	}
	s.log.Info().
		Str("mode", string(job.Request.Mode)).
		Int("placements", len(comp.Placed)).
		Msg("composite rendered")
	return res, nil
}

// PrintJob renders a print-ready file for one print area.
type PrintJob struct {
	DesignURL string
	// Preset names a print area whose canvas, dpi and safe percent fill the
	// fields left at zero.
	Preset           string
	CanvasWidth      int
	CanvasHeight     int
	DPI              int
	MaxWidthPercent  float64
	MaxHeightPercent float64
	FullBleed        bool
	Name             string
}

type PrintSpecs struct {
	CanvasWidth  int `json:"canvas_width"`
	CanvasHeight int `json:"canvas_height"`
	DPI          int `json:"dpi"`
	DesignWidth  int `json:"design_width"`
	DesignHeight int `json:"design_height"`
	// Placements counts the design instances on the canvas.
	Placements int `json:"placements"`
}

type PrintResult struct {
	URL   string
	Specs PrintSpecs
}

// PrintFile resolves job against the presets and renders it on a
// transparent canvas.
func (s *Service) PrintFile(ctx context.Context, job PrintJob, out delivery.Strategy) (*PrintResult, error) {
	if strings.TrimSpace(job.DesignURL) == "" {
		return nil, apperr.New(apperr.KindValidation, "Missing design_url")
	}
	req, dpi, err := s.printRequest(job)
	if err != nil {
		return nil, err
	}
	design, _, err := s.loadPair(ctx, job.DesignURL, "")
	if err != nil {
		return nil, err
	}
	comp, err := s.engine.Compose(design, nil, req)
	if err != nil {
		return nil, err
	}
	name := job.Name
	if name == "" {
		name = product.FileName("", "print", job.Preset)
	}
	ref, err := s.publish(ctx, out, name, comp.Image)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("preset", job.Preset).Int("dpi", dpi).Msg("print file rendered")
	return &PrintResult{URL: ref, Specs: specsOf(req, dpi, comp)}, nil
}

func (s *Service) printRequest(job PrintJob) (imagepkg.Request, int, error) {
	req := imagepkg.Request{
		Mode:         imagepkg.ModePrint,
		CanvasWidth:  job.CanvasWidth,
		CanvasHeight: job.CanvasHeight,
		SafePercent:  s.defaults.SafePercent,
		FullBleed:    job.FullBleed,
		XPercent:     DefaultXPercent,
		YPercent:     DefaultYPercent,
	}
	dpi := job.DPI
	if job.Preset != "" {
		p, ok := presets.Lookup(s.presets, job.Preset)
		if !ok {
			if near := presets.Suggest(s.presets, job.Preset, 1); len(near) > 0 {
				return req, 0, apperr.New(apperr.KindValidation, "unknown placement %q, did you mean %q?", job.Preset, near[0])
			}
			return req, 0, apperr.New(apperr.KindValidation, "unknown placement %q", job.Preset)
		}
		if req.CanvasWidth == 0 && req.CanvasHeight == 0 {
			req.CanvasWidth, req.CanvasHeight = p.CanvasWidth, p.CanvasHeight
		}
		if dpi == 0 {
			dpi = p.DPI
		}
		if p.SafePercent > 0 {
			req.SafePercent = p.SafePercent
		}
	}
	if dpi <= 0 {
		dpi = s.defaults.DPI
	}
	if err := s.engine.CheckCanvas(req.CanvasWidth, req.CanvasHeight); err != nil {
		return req, 0, err
	}
	for _, p := range []float64{job.MaxWidthPercent, job.MaxHeightPercent} {
		if p < 0 || p > 100 {
			return req, 0, apperr.New(apperr.KindValidation, "max design percent must be within 0-100, got %v", p)
		}
	}
	if job.MaxWidthPercent > 0 {
		req.SafeWidth = int(math.Round(float64(req.CanvasWidth) * job.MaxWidthPercent / 100))
	}
	if job.MaxHeightPercent > 0 {
		req.SafeHeight = int(math.Round(float64(req.CanvasHeight) * job.MaxHeightPercent / 100))
	}
	return req, dpi, nil
}

func specsOf(req imagepkg.Request, dpi int, comp *imagepkg.Composite) PrintSpecs {
	specs := PrintSpecs{CanvasWidth: req.CanvasWidth, CanvasHeight: req.CanvasHeight, DPI: dpi, Placements: len(comp.Placed)}
	if len(comp.Placed) > 0 {
		specs.DesignWidth = comp.Placed[0].Size.W
		specs.DesignHeight = comp.Placed[0].Size.H
	}
	return specs
}
