package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/youruser/mockupapp/internal/apperr"
	"github.com/youruser/mockupapp/internal/delivery"
	imagepkg "github.com/youruser/mockupapp/internal/image"
	"github.com/youruser/mockupapp/internal/presets"
	"github.com/youruser/mockupapp/internal/product"
	"github.com/youruser/mockupapp/internal/render"
	"github.com/youruser/mockupapp/internal/store"
)

type Options struct {
	// PublicBaseURL prefixes stored image links. Empty means scheme and host
	// of the incoming request.
	PublicBaseURL string
	Delivery      delivery.Mode
	BodyLimit     int64
}

type Handler struct {
	svc   *render.Service
	store store.Store
	opts  Options
	log   zerolog.Logger
}

func NewHandler(svc *render.Service, st store.Store, opts Options, log zerolog.Logger) *Handler {
	if opts.Delivery == "" {
		opts.Delivery = delivery.ModeURL
	}
	return &Handler{svc: svc, store: st, opts: opts, log: log}
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type compositeRequest struct {
	Type          string             `json:"type"`
	Mode          string             `json:"mode"`
	DesignURL     string             `json:"design_url"`
	BackgroundURL string             `json:"background_url"`
	WidthPercent  *float64           `json:"width_percent"`
	XPercent      *float64           `json:"x_percent"`
	YPercent      *float64           `json:"y_percent"`
	CanvasWidth   int                `json:"canvas_width"`
	CanvasHeight  int                `json:"canvas_height"`
	SafeWidth     int                `json:"safe_width"`
	SafeHeight    int                `json:"safe_height"`
	FullBleed     bool               `json:"full_bleed"`
	Placements    []product.Instance `json:"placements"`
	Name          string             `json:"name"`
	WebhookURL    string             `json:"webhook_url"`
	Metadata      json.RawMessage    `json:"metadata"`
	Delivery      string             `json:"delivery"`
}

func (r compositeRequest) job() render.CompositeJob {
	mode := r.Mode
	if mode == "" {
		mode = r.Type
	}
	req := imagepkg.Request{
		Mode:         imagepkg.Mode(strings.ToLower(strings.TrimSpace(mode))),
		XPercent:     render.PercentOr(r.XPercent, render.DefaultXPercent),
		YPercent:     render.PercentOr(r.YPercent, render.DefaultYPercent),
		WidthPercent: render.PercentOr(r.WidthPercent, render.DefaultWidthPercent),
		CanvasWidth:  r.CanvasWidth,
		CanvasHeight: r.CanvasHeight,
		SafeWidth:    r.SafeWidth,
		SafeHeight:   r.SafeHeight,
		FullBleed:    r.FullBleed,
		Placements:   render.Instances(r.Placements),
	}
	return render.CompositeJob{
		DesignURL:     r.DesignURL,
		BackgroundURL: r.BackgroundURL,
		Request:       req,
		Name:          r.Name,
		WebhookURL:    r.WebhookURL,
		Metadata:      r.Metadata,
	}
}

func (h *Handler) compositeHandler(c *gin.Context) {
	var req compositeRequest
	if !h.bind(c, &req) {
		return
	}
	out, err := h.strategy(c, req.Delivery)
	if err != nil {
		h.fail(c, err)
		return
	}
	res, err := h.svc.Composite(c.Request.Context(), req.job(), out)
	if err != nil {
		h.fail(c, err)
		return
	}
	body := gin.H{"success": true, "image_url": res.ImageURL, "placements": res.Placed}
	if res.Webhook {
		body["message"] = "Webhook delivered"
		body["webhook_delivered"] = res.Notified
	}
	c.JSON(http.StatusOK, body)
}

type printFileRequest struct {
	DesignURL        string   `json:"design_url"`
	Placement        string   `json:"placement"`
	PlacementName    string   `json:"placement_name"`
	CanvasWidth      int      `json:"canvas_width"`
	CanvasHeight     int      `json:"canvas_height"`
	DPI              int      `json:"dpi"`
	MaxWidthPercent  *float64 `json:"max_design_width_percent"`
	MaxHeightPercent *float64 `json:"max_design_height_percent"`
	FullBleed        bool     `json:"full_bleed"`
	Delivery         string   `json:"delivery"`
}

func (h *Handler) printFileHandler(c *gin.Context) {
	var req printFileRequest
	if !h.bind(c, &req) {
		return
	}
	out, err := h.strategy(c, req.Delivery)
	if err != nil {
		h.fail(c, err)
		return
	}
	name := req.PlacementName
	if name == "" {
		name = req.Placement
	}
	res, err := h.svc.PrintFile(c.Request.Context(), render.PrintJob{
		DesignURL:        req.DesignURL,
		Preset:           req.Placement,
		CanvasWidth:      req.CanvasWidth,
		CanvasHeight:     req.CanvasHeight,
		DPI:              req.DPI,
		MaxWidthPercent:  render.PercentOr(req.MaxWidthPercent, 0),
		MaxHeightPercent: render.PercentOr(req.MaxHeightPercent, 0),
		FullBleed:        req.FullBleed,
		Name:             product.FileName("", "print", name),
	}, out)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "print_file_url": res.URL, "specs": res.Specs})
}

type generateProductRequest struct {
	ProductID    string `json:"product_id"`
	DesignURL    string `json:"design_url"`
	RenderConfig struct {
		Display []product.Surface `json:"display"`
	} `json:"render_config"`
	Delivery string `json:"delivery"`
}

func (h *Handler) generateProductHandler(c *gin.Context) {
	var req generateProductRequest
	if !h.bind(c, &req) {
		return
	}
	out, err := h.strategy(c, req.Delivery)
	if err != nil {
		h.fail(c, err)
		return
	}
	res, err := h.svc.Product(c.Request.Context(), product.Config{
		ID:        req.ProductID,
		DesignURL: req.DesignURL,
		Display:   req.RenderConfig.Display,
	}, out)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product_id": res.ProductID, "files": res.Results})
}

type overlayRequest struct {
	Base     string                `json:"base"`
	Overlays []render.OverlayLayer `json:"overlays"`
	Output   string                `json:"output"`
}

// overlay answers with the image itself rather than a link.
func (h *Handler) overlayHandler(c *gin.Context) {
	var req overlayRequest
	if !h.bind(c, &req) {
		return
	}
	data, contentType, err := h.svc.Overlay(c.Request.Context(), render.OverlayJob{
		BaseURL: req.Base,
		Layers:  req.Overlays,
		Format:  req.Output,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentType, data)
}

func (h *Handler) fetchImageHandler(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		h.fail(c, apperr.New(apperr.KindValidation, "Missing id"))
		return
	}
	obj, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, obj.ContentType, obj.Data)
}

func (h *Handler) presetsHandler(c *gin.Context) {
	opt := presets.FilterOptions{FreeWords: c.Query("q")}
	if p := c.Query("product"); p != "" {
		opt.Products = strings.Split(p, ",")
	}
	out := presets.Filter(h.svc.Presets(), opt)
	c.JSON(http.StatusOK, gin.H{"count": len(out), "presets": out})
}

// qr endpoint returns a PNG of a QR for "text" query param
func (h *Handler) qrHandler(c *gin.Context) {
	text := c.Query("text")
	if text == "" {
		h.fail(c, apperr.New(apperr.KindValidation, "Missing text"))
		return
	}
	size := imagepkg.DefaultQRSize
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 {
		size = min(v, imagepkg.MaxQRSize)
	}
	transparent, _ := strconv.ParseBool(c.Query("transparent"))
	b, err := imagepkg.GenerateQRPNG(text, size, transparent)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, imagepkg.ContentTypePNG, b)
}

// strategy picks the delivery for one request. mode overrides the configured
// default.
func (h *Handler) strategy(c *gin.Context, mode string) (delivery.Strategy, error) {
	m, err := delivery.ParseMode(mode, h.opts.Delivery)
	if err != nil {
		return nil, err
	}
	if m == delivery.ModeInline {
		return delivery.Inline{}, nil
	}
	return delivery.StoredURL{Store: h.store, BaseURL: h.baseURL(c)}, nil
}

func (h *Handler) baseURL(c *gin.Context) string {
	if h.opts.PublicBaseURL != "" {
		return h.opts.PublicBaseURL
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if p := c.GetHeader("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + c.Request.Host
}

func (h *Handler) bind(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		h.fail(c, apperr.Wrap(apperr.KindValidation, err, "invalid JSON body"))
		return false
	}
	return true
}

// fail answers with the status of err's kind. Internal errors are logged and
// hidden from the caller.
func (h *Handler) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	kind := apperr.KindOf(err)
	msg := err.Error()
	if kind == apperr.KindInternal {
		h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
		msg = "internal error"
	}
	c.JSON(kind.HTTPStatus(), gin.H{"success": false, "error": msg, "kind": kind})
}
