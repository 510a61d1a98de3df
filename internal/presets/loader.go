package presets

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// FileName is the optional CSV looked up in the presets directory.
const FileName = "print_presets.csv"

// LoadFromDataDir returns the built-in presets overlaid with dataDir's CSV.
// A missing directory or file is not an error.
func LoadFromDataDir(dataDir string) ([]Preset, error) {
	all := Builtin()
	if dataDir == "" {
		return all, nil
	}
	path := filepath.Join(dataDir, FileName)
	if _, err := os.Stat(path); err != nil {
		return all, nil
	}
	extra, err := loadSingleCSV(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return merge(all, extra), nil
}

// merge replaces presets with the same name and appends new ones.
func merge(base, extra []Preset) []Preset {
	out := append([]Preset(nil), base...)
	for _, p := range extra {
		replaced := false
		for i := range out {
			if strings.EqualFold(out[i].Name, p.Name) {
				out[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return out
}

func loadSingleCSV(path string) ([]Preset, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	r := csv.NewReader(fp)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv %s has no header", path)
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "canvas_width", "canvas_height"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("csv %s: missing column %q", path, required)
		}
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []Preset{}
	for n, row := range rows[1:] {
		line := n + 2
		p := Preset{
			Name:        get(row, "name"),
			Product:     get(row, "product"),
			DPI:         300,
			SafePercent: 90,
		}
		if p.Name == "" {
			continue
		}
		if p.CanvasWidth, err = positiveInt(get(row, "canvas_width")); err != nil {
			return nil, fmt.Errorf("line %d canvas_width: %w", line, err)
		}
		if p.CanvasHeight, err = positiveInt(get(row, "canvas_height")); err != nil {
			return nil, fmt.Errorf("line %d canvas_height: %w", line, err)
		}
		if s := get(row, "dpi"); s != "" && s != "-" {
			if p.DPI, err = positiveInt(s); err != nil {
				return nil, fmt.Errorf("line %d dpi: %w", line, err)
			}
		}
		if s := get(row, "safe_percent"); s != "" && s != "-" {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil || v <= 0 || v > 100 {
				return nil, fmt.Errorf("line %d safe_percent: %q out of range", line, s)
			}
			p.SafePercent = v
		}
		out = append(out, p)
	}
	return out, nil
}

func positiveInt(s string) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if v <= 0 {
		return 0, fmt.Errorf("%d is not positive", v)
	}
	return v, nil
}
