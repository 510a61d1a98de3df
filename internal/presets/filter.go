package presets

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

type FilterOptions struct {
	Products  []string
	FreeWords string
}

// Filter keeps presets whose product is one of opt.Products (when given) and
// whose name or product contains every word of opt.FreeWords.
func Filter(all []Preset, opt FilterOptions) []Preset {
	out := []Preset{}
	for _, p := range all {
		if len(opt.Products) > 0 {
			matched := false
			for _, want := range opt.Products {
				if strings.EqualFold(p.Product, want) {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
		}
		if opt.FreeWords != "" {
			hay := strings.ToLower(p.Name + " " + p.Product)
			ok := true
			for _, k := range strings.Fields(opt.FreeWords) {
				if !strings.Contains(hay, strings.ToLower(k)) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// Lookup finds a preset by name, ignoring case and surrounding space.
func Lookup(all []Preset, name string) (Preset, bool) {
	name = strings.TrimSpace(name)
	for _, p := range all {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Preset{}, false
}

type names []Preset

func (n names) String(i int) string { return n[i].Name }
func (n names) Len() int            { return len(n) }

// Suggest returns up to limit preset names that fuzzily match name, best
// first.
func Suggest(all []Preset, name string, limit int) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	out := []string{}
	for _, m := range fuzzy.FindFrom(name, names(all)) {
		if len(out) == limit {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
