package config

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults_AreNormal(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, cfg.Normalize())
	assert.Equal(t, Defaults(), cfg)
}

func TestMeshParams(t *testing.T) {
	cfg := Defaults()
	cfg.DedupeFaces = true
	p := cfg.MeshParams()

	assert.Equal(t, 500, p.DotCount)
	assert.Equal(t, 100.0, p.CurveStrength)
	assert.Equal(t, 800.0, p.SpikeFrequency)
	assert.Equal(t, 4, p.MaxNeighbors)
	assert.True(t, p.DedupeFaces)
}

func TestMeshParams_ZeroSpikesFallBack(t *testing.T) {
	tests := []struct {
		name          string
		amplitude     float64
		frequency     float64
		wantAmplitude float64
		wantFrequency float64
	}{
		{"both unset", 0, 0, FallbackSpikeAmplitude, FallbackSpikeFrequency},
		{"amplitude unset", 0, 12, FallbackSpikeAmplitude, 12},
		{"frequency unset", 0.3, 0, 0.3, FallbackSpikeFrequency},
		{"both set", 0.05, 800, 0.05, 800},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.SpikeAmplitude = tt.amplitude
			cfg.SpikeFrequency = tt.frequency

			if warnings := cfg.Normalize(); len(warnings) != 0 {
				t.Fatalf("unexpected warnings: %v", warnings)
			}
			if cfg.SpikeAmplitude != tt.amplitude || cfg.SpikeFrequency != tt.frequency {
				t.Errorf("Normalize changed spikes to %v/%v", cfg.SpikeAmplitude, cfg.SpikeFrequency)
			}

			p := cfg.MeshParams()
			if p.SpikeAmplitude != tt.wantAmplitude {
				t.Errorf("SpikeAmplitude = %v, want %v", p.SpikeAmplitude, tt.wantAmplitude)
			}
			if p.SpikeFrequency != tt.wantFrequency {
				t.Errorf("SpikeFrequency = %v, want %v", p.SpikeFrequency, tt.wantFrequency)
			}
		})
	}
}

func TestApplyProperties_OpenFaces(t *testing.T) {
	cfg, _, err := ApplyProperties(Defaults(), map[string]any{"openfaces": map[string]any{"value": true}})
	if err != nil {
		t.Fatalf("ApplyProperties: %v", err)
	}
	if !cfg.OpenFaces || !cfg.MeshParams().OpenFaces {
		t.Error("openfaces property did not reach the mesh parameters")
	}
	if Defaults().OpenFaces {
		t.Error("open faces must be off by default")
	}
}

func TestFrameInterval(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, time.Millisecond, cfg.FrameInterval())
	cfg.FrameRate = 33.5
	assert.Equal(t, 33500*time.Microsecond, cfg.FrameInterval())
}

func TestParseFontSize(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"100px", 100, false},
		{" 42 ", 42, false},
		{"12.5PX", 12.5, false},
		{"0px", 0, true},
		{"-3px", 0, true},
		{"large", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFontSize(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockPosition(t *testing.T) {
	assert.Len(t, ClockPositions, 9)
	for _, p := range ClockPositions {
		assert.True(t, p.Visible(), p)
		assert.True(t, p.Valid(), p)
	}
	assert.False(t, ClockNone.Visible())
	assert.True(t, ClockNone.Valid())
	assert.False(t, ClockPosition("middle").Valid())
}

func TestNormalize_ResetsOutOfRange(t *testing.T) {
	cfg := Defaults()
	cfg.CurveStrength = 0
	cfg.PlaneMinOpacity = 2
	cfg.LineMinOpacity = 0.5
	cfg.LineMaxOpacity = 0.1
	cfg.MaxNeighbors = -1
	cfg.FrameRate = math.NaN()
	cfg.ClockPosition = "middle"
	cfg.ClockColor = "not-a-color"
	cfg.ClockFontSize = "huge"
	cfg.RenderMode = "sometimes"
	cfg.Supersample = 9
	cfg.DotCount = 1

	warnings := cfg.Normalize()

	d := Defaults()
	assert.Equal(t, d.CurveStrength, cfg.CurveStrength)
	assert.Equal(t, d.PlaneMinOpacity, cfg.PlaneMinOpacity)
	assert.Equal(t, 0.1, cfg.LineMinOpacity)
	assert.Equal(t, 0.5, cfg.LineMaxOpacity)
	assert.Equal(t, d.MaxNeighbors, cfg.MaxNeighbors)
	assert.Equal(t, d.FrameRate, cfg.FrameRate)
	assert.Equal(t, ClockNone, cfg.ClockPosition)
	assert.Equal(t, ClipColor, cfg.ClockColor)
	assert.Equal(t, "100px", cfg.ClockFontSize)
	assert.Equal(t, Continuous, cfg.RenderMode)
	assert.Equal(t, 1, cfg.Supersample)
	assert.Equal(t, 1, cfg.DotCount, "dot count is validated by generation")

	assert.Len(t, warnings, 10)
	assert.True(t, strings.HasPrefix(warnings[0], "curveStrength:"), warnings[0])
}

func TestNormalize_OutlineNone(t *testing.T) {
	cfg := Defaults()
	cfg.ClockOutline = "none"
	assert.Empty(t, cfg.Normalize())
	assert.Equal(t, "none", cfg.ClockOutline)
}

func TestApplyProperties(t *testing.T) {
	props := map[string]any{
		"dotcount":        map[string]any{"value": 300.0},
		"ClockPosition":   map[string]any{"value": "top-right"},
		"backgroundcolor": map[string]any{"value": "1 0.5 0"},
		"dedupefaces":     map[string]any{"value": "true"},
		"linewidth":       2,
		"unknownslider":   map[string]any{"value": 3},
	}

	got, unused, err := ApplyProperties(Defaults(), props)
	require.NoError(t, err)

	assert.Equal(t, 300, got.DotCount)
	assert.Equal(t, ClockTopRight, got.ClockPosition)
	assert.Equal(t, "#ff8000", got.BackgroundColor)
	assert.True(t, got.DedupeFaces)
	assert.Equal(t, 2.0, got.LineWidth)
	assert.Equal(t, []string{"unknownslider"}, unused)

	// Untouched keys keep their previous values.
	assert.Equal(t, Defaults().MaxNeighbors, got.MaxNeighbors)
}

func TestApplyProperties_MalformedLeavesBase(t *testing.T) {
	base := Defaults()
	got, _, err := ApplyProperties(base, map[string]any{
		"dotcount": map[string]any{"value": "many"},
	})
	assert.Error(t, err)
	assert.Equal(t, base, got)
}

func TestWallpaperColor(t *testing.T) {
	assert.Equal(t, "#000000", wallpaperColor("0 0 0"))
	assert.Equal(t, "#ffffff", wallpaperColor("1 1 1"))
	assert.Equal(t, "#050206", wallpaperColor("#050206"))
	assert.Equal(t, "2 0 0", wallpaperColor("2 0 0"))
	assert.Equal(t, "clip", wallpaperColor("clip"))
}

func TestLoad(t *testing.T) {
	v := viper.New()
	require.NoError(t, SetDefaults(v))
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
mesh:
  dotcount: 120
  clockposition: center
  rendermode: regenerate-on-resize
  curvestrength: -4
`)))

	cfg, warnings, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.DotCount)
	assert.Equal(t, ClockCenter, cfg.ClockPosition)
	assert.Equal(t, RegenerateOnResize, cfg.RenderMode)
	assert.Equal(t, Defaults().CurveStrength, cfg.CurveStrength)
	assert.Equal(t, Defaults().SpikeFrequency, cfg.SpikeFrequency)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "curveStrength")
}

func TestLoad_Empty(t *testing.T) {
	cfg, warnings, err := Load(viper.New())
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, Defaults(), cfg)
}

func TestSetDefaults_EnvOverride(t *testing.T) {
	t.Setenv("MESHWALL_MESH_DOTCOUNT", "42")

	v := viper.New()
	v.SetEnvPrefix("MESHWALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	require.NoError(t, SetDefaults(v))

	cfg, _, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.DotCount)
}
