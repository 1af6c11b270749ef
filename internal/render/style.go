package render

import (
	"image/color"

	"github.com/MeKo-Tech/meshwall/internal/config"
	"github.com/MeKo-Tech/meshwall/internal/palette"
)

// StyleFor derives the drawing style from cfg. An unparsable background
// falls back to black.
func StyleFor(cfg config.Config) Style {
	bg, err := palette.ParseColor(cfg.BackgroundColor)
	if err != nil {
		bg = color.Black
	}
	return Style{
		Background:      bg,
		BackgroundGrain: cfg.BackgroundGrain,
		DotSize:         cfg.DotSize,
		LineWidth:       cfg.LineWidth,
	}
}
