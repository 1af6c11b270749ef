package clock

import "github.com/MeKo-Tech/meshwall/internal/config"

// Length is an offset from one viewport edge, either in pixels or as a
// percentage of the viewport dimension along that axis.
type Length struct {
	Value   float64
	Percent bool
}

// Px returns a pixel length.
func Px(v float64) *Length { return &Length{Value: v} }

// Pct returns a percentage length.
func Pct(v float64) *Length { return &Length{Value: v, Percent: true} }

func (l *Length) resolve(total float64) float64 {
	if l.Percent {
		return total * l.Value / 100
	}
	return l.Value
}

// Placement anchors the clock box inside the viewport. Nil edges are unset.
// TranslateX and TranslateY shift the box by a fraction of its own size.
type Placement struct {
	Top, Left, Right, Bottom *Length
	TranslateX, TranslateY   float64
}

// PlacementFor returns the anchor rules for pos. padding is the distance kept
// from the nearest edges; centered axes ignore it.
func PlacementFor(pos config.ClockPosition, padding float64) Placement {
	switch pos {
	case config.ClockLeft:
		return Placement{Top: Pct(50), Left: Px(padding), TranslateY: -0.5}
	case config.ClockCenter:
		return Placement{Top: Pct(50), Left: Pct(50), TranslateX: -0.5, TranslateY: -0.5}
	case config.ClockRight:
		return Placement{Top: Pct(50), Right: Px(padding), TranslateY: -0.5}
	case config.ClockTopLeft:
		return Placement{Top: Px(padding), Left: Px(padding)}
	case config.ClockTop:
		return Placement{Top: Px(padding), Left: Pct(50), TranslateX: -0.5}
	case config.ClockTopRight:
		return Placement{Top: Px(padding), Right: Px(padding)}
	case config.ClockBottomLeft:
		return Placement{Bottom: Px(padding), Left: Px(padding)}
	case config.ClockBottom:
		return Placement{Bottom: Px(padding), Left: Pct(50), TranslateX: -0.5}
	case config.ClockBottomRight:
		return Placement{Bottom: Px(padding), Right: Px(padding)}
	}
	return Placement{}
}

// Resolve returns the top-left corner of a boxW x boxH box in a viewW x viewH
// viewport. Left wins over Right and Top over Bottom.
func (p Placement) Resolve(viewW, viewH, boxW, boxH float64) (x, y float64) {
	switch {
	case p.Left != nil:
		x = p.Left.resolve(viewW)
	case p.Right != nil:
		x = viewW - p.Right.resolve(viewW) - boxW
	}
	switch {
	case p.Top != nil:
		y = p.Top.resolve(viewH)
	case p.Bottom != nil:
		y = viewH - p.Bottom.resolve(viewH) - boxH
	}
	return x + p.TranslateX*boxW, y + p.TranslateY*boxH
}
