package presets

// Preset is a named print area of a product.
type Preset struct {
	Name         string  `json:"name"`
	Product      string  `json:"product"`
	CanvasWidth  int     `json:"canvas_width"`
	CanvasHeight int     `json:"canvas_height"`
	DPI          int     `json:"dpi"`
	SafePercent  float64 `json:"safe_percent"`
}

// Builtin lists the print areas the service knows without any data files.
func Builtin() []Preset {
	return []Preset{
		{Name: "Front Full", Product: "tee", CanvasWidth: 4200, CanvasHeight: 4800, DPI: 300, SafePercent: 90},
		{Name: "Front Pocket", Product: "tee", CanvasWidth: 4200, CanvasHeight: 3000, DPI: 300, SafePercent: 90},
		{Name: "Back Full", Product: "tee", CanvasWidth: 4200, CanvasHeight: 4800, DPI: 300, SafePercent: 90},
		{Name: "Left Chest", Product: "tee", CanvasWidth: 1500, CanvasHeight: 1500, DPI: 300, SafePercent: 90},
		{Name: "Sleeve", Product: "tee", CanvasWidth: 1140, CanvasHeight: 1140, DPI: 300, SafePercent: 90},
		{Name: "Mug Wrap", Product: "mug", CanvasWidth: 4200, CanvasHeight: 1200, DPI: 300, SafePercent: 100},
	}
}
