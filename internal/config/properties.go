package config

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Section is the config file section holding the parameters.
const Section = "mesh"

// colorKeys hold colors that wallpaper hosts may send as "r g b" floats.
var colorKeys = map[string]bool{
	"backgroundcolor": true,
	"clockcolor":      true,
	"clockoutline":    true,
}

// ApplyProperties merges a property snapshot into base and returns the result
// together with the keys it did not recognize. Snapshot values may be bare or
// wrapped as {"value": v}; keys are matched case-insensitively. On error base
// is returned unchanged.
func ApplyProperties(base Config, props map[string]any) (Config, []string, error) {
	input := make(map[string]any, len(props))
	for key, raw := range props {
		key = strings.ToLower(key)
		v := unwrap(raw)
		if colorKeys[key] {
			if s, ok := v.(string); ok {
				v = wallpaperColor(s)
			}
		}
		input[key] = v
	}

	next := base
	unused, err := decode(input, &next)
	if err != nil {
		return base, nil, fmt.Errorf("failed to apply properties: %w", err)
	}
	return next, unused, nil
}

// decode weakly decodes input over cfg and returns the unknown keys sorted.
func decode(input map[string]any, cfg *Config) ([]string, error) {
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(input); err != nil {
		return nil, err
	}
	sort.Strings(md.Unused)
	return md.Unused, nil
}

func unwrap(raw any) any {
	if m, ok := raw.(map[string]any); ok {
		if v, ok := m["value"]; ok {
			return v
		}
	}
	return raw
}

// wallpaperColor converts "0.5 0.25 1" (channels in [0,1]) to #rrggbb and
// returns any other string unchanged.
func wallpaperColor(s string) string {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return s
	}
	var rgb [3]int
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || v < 0 || v > 1 {
			return s
		}
		rgb[i] = int(math.Round(v * 255))
	}
	return fmt.Sprintf("#%02x%02x%02x", rgb[0], rgb[1], rgb[2])
}

// SetDefaults registers every parameter default under the mesh section so
// that environment variables and partial files resolve against them.
func SetDefaults(v *viper.Viper) error {
	var flat map[string]any
	if err := mapstructure.Decode(Defaults(), &flat); err != nil {
		return fmt.Errorf("failed to flatten defaults: %w", err)
	}
	for key, value := range flat {
		v.SetDefault(Section+"."+key, value)
	}
	return nil
}

// Load decodes the mesh section of v over the defaults and normalizes it.
// Settings are read leaf by leaf so environment overrides registered through
// SetDefaults take effect.
func Load(v *viper.Viper) (Config, []string, error) {
	cfg := Defaults()
	section, _ := v.AllSettings()[Section].(map[string]any)
	if _, err := decode(section, &cfg); err != nil {
		return Defaults(), nil, fmt.Errorf("failed to decode %s config: %w", Section, err)
	}
	return cfg, cfg.Normalize(), nil
}
