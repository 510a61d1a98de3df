// Package product describes a whole product render: one design placed on
// several mockups and print areas.
package product

import (
	"encoding/json"
	"strings"

	"github.com/youruser/mockupapp/internal/apperr"
)

// Config is the render configuration of one product.
type Config struct {
	ID        string    `json:"product_id"`
	DesignURL string    `json:"design_url"`
	Display   []Surface `json:"display"`
}

// Surface is one named placement of the product, e.g. "Front Full". It may
// produce a mockup (BackgroundURL set), a print file (Print set), or both.
type Surface struct {
	Placement     string          `json:"placement"`
	BackgroundURL string          `json:"background_url,omitempty"`
	WidthPercent  *float64        `json:"width_percent,omitempty"`
	XPercent      *float64        `json:"x_percent,omitempty"`
	YPercent      *float64        `json:"y_percent,omitempty"`
	Position      json.RawMessage `json:"position,omitempty"`
	Print         *Print          `json:"print,omitempty"`
}

// Print describes the print file of a surface.
type Print struct {
	CanvasWidth      int             `json:"canvas_width"`
	CanvasHeight     int             `json:"canvas_height"`
	MaxDesignPercent *float64        `json:"max_design_percent,omitempty"`
	Placements       []Instance      `json:"placements,omitempty"`
	Position         json.RawMessage `json:"position,omitempty"`
}

// Instance is one repeat of the design on a multi-placement print.
type Instance struct {
	MaxWidth     int      `json:"max_width,omitempty"`
	MaxHeight    int      `json:"max_height,omitempty"`
	WidthPercent *float64 `json:"width_percent,omitempty"`
	XPercent     *float64 `json:"x_percent,omitempty"`
	YPercent     *float64 `json:"y_percent,omitempty"`
}

// Validate checks what the whole batch needs. Per-surface geometry problems
// are left to the renderer so they fail only their own surface.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DesignURL) == "" {
		return apperr.New(apperr.KindValidation, "Missing design_url")
	}
	if len(c.Display) == 0 {
		return apperr.New(apperr.KindValidation, "Missing or invalid render_config.display")
	}
	if c.ID == "" {
		c.ID = "product"
	}
	return nil
}
