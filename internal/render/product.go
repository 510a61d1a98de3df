package render

import (
	"context"
	"encoding/json"
	"image"

	"github.com/youruser/mockupapp/internal/apperr"
	"github.com/youruser/mockupapp/internal/delivery"
	imagepkg "github.com/youruser/mockupapp/internal/image"
	"github.com/youruser/mockupapp/internal/product"
)

// SurfaceResult is the outcome of one display entry of a product. Error is
// set instead of the URLs when the entry failed.
type SurfaceResult struct {
	Placement         string          `json:"placement"`
	MockupURL         string          `json:"mockup_url,omitempty"`
	MockupPosition    json.RawMessage `json:"mockup_position,omitempty"`
	PrintFileURL      string          `json:"print_file_url,omitempty"`
	PrintFilePosition json.RawMessage `json:"print_file_position,omitempty"`
	PrintSpecs        *PrintSpecs     `json:"print_specs,omitempty"`
	Error             string          `json:"error,omitempty"`
	ErrorKind         apperr.Kind     `json:"error_kind,omitempty"`
}

type ProductResult struct {
	ProductID string          `json:"product_id"`
	Results   []SurfaceResult `json:"files"`
}

// Product renders every surface of cfg. The design is fetched once; a
// failing surface is reported in its own result and the rest still render.
func (s *Service) Product(ctx context.Context, cfg product.Config, out delivery.Strategy) (*ProductResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	design, _, err := s.loadPair(ctx, cfg.DesignURL, "")
	if err != nil {
		return nil, err
	}

	res := &ProductResult{ProductID: cfg.ID, Results: make([]SurfaceResult, 0, len(cfg.Display))}
	failed := 0
	for _, surf := range cfg.Display {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r := SurfaceResult{Placement: surf.Placement}
		if err := s.renderSurface(ctx, cfg.ID, design, surf, out, &r); err != nil {
			r = SurfaceResult{Placement: surf.Placement, Error: err.Error(), ErrorKind: apperr.KindOf(err)}
			failed++
			s.log.Warn().Err(err).Str("product", cfg.ID).Str("placement", surf.Placement).Msg("surface failed")
		}
		res.Results = append(res.Results, r)
	}
	s.log.Info().
		Str("product", cfg.ID).
		Int("surfaces", len(cfg.Display)).
		Int("failed", failed).
		Msg("product rendered")
	return res, nil
}

func (s *Service) renderSurface(ctx context.Context, productID string, design *image.NRGBA, surf product.Surface, out delivery.Strategy, r *SurfaceResult) error {
	if surf.BackgroundURL == "" && surf.Print == nil {
		return apperr.New(apperr.KindValidation, "placement %q has neither background_url nor print", surf.Placement)
	}
	if surf.BackgroundURL != "" {
		bg, err := s.load(ctx, apperr.RoleBackground, surf.BackgroundURL)
		if err != nil {
			return err
		}
		comp, err := s.engine.Compose(design, bg, imagepkg.Request{
			Mode:         imagepkg.ModeDisplay,
			WidthPercent: PercentOr(surf.WidthPercent, DefaultWidthPercent),
			XPercent:     PercentOr(surf.XPercent, DefaultXPercent),
			YPercent:     PercentOr(surf.YPercent, DefaultYPercent),
		})
		if err != nil {
			return err
		}
		ref, err := s.publish(ctx, out, product.FileName(productID, "mockup", surf.Placement), comp.Image)
		if err != nil {
			return err
		}
		r.MockupURL = ref
		r.MockupPosition = surf.Position
	}
	if p := surf.Print; p != nil {
		req := s.surfacePrintRequest(p)
		if err := s.engine.CheckCanvas(req.CanvasWidth, req.CanvasHeight); err != nil {
			return err
		}
		comp, err := s.engine.Compose(design, nil, req)
		if err != nil {
			return err
		}
		ref, err := s.publish(ctx, out, product.FileName(productID, "print", surf.Placement), comp.Image)
		if err != nil {
			return err
		}
		specs := specsOf(req, s.defaults.DPI, comp)
		r.PrintFileURL = ref
		r.PrintFilePosition = p.Position
		r.PrintSpecs = &specs
	}
	return nil
}

func (s *Service) surfacePrintRequest(p *product.Print) imagepkg.Request {
	return imagepkg.Request{
		Mode:         imagepkg.ModePrint,
		CanvasWidth:  p.CanvasWidth,
		CanvasHeight: p.CanvasHeight,
		SafePercent:  PercentOr(p.MaxDesignPercent, s.defaults.SafePercent),
		XPercent:     DefaultXPercent,
		YPercent:     DefaultYPercent,
		Placements:   Instances(p.Placements),
	}
}

// Instances converts caller placements into engine instances, filling the
// default anchor and, for entries without pixel caps, the default width.
func Instances(in []product.Instance) []imagepkg.Instance {
	if len(in) == 0 {
		return nil
	}
	out := make([]imagepkg.Instance, 0, len(in))
	for _, p := range in {
		inst := imagepkg.Instance{
			MaxWidth:  p.MaxWidth,
			MaxHeight: p.MaxHeight,
			XPercent:  PercentOr(p.XPercent, DefaultXPercent),
			YPercent:  PercentOr(p.YPercent, DefaultYPercent),
		}
		if inst.MaxWidth == 0 && inst.MaxHeight == 0 {
			inst.WidthPercent = PercentOr(p.WidthPercent, DefaultInstancePercent)
		}
		out = append(out, inst)
	}
	return out
}
