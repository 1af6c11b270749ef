package mesh

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestGenerate_CompleteGraphOnFivePoints(t *testing.T) {
	page := PageMetrics{Width: 1000, Height: 1000}
	// The outermost samples sit exactly 1000 apart; thresholds are strict, so the
	// limit is the next float above the page size.
	limit := math.Nextafter(1000, math.Inf(1))
	p := Params{
		CurveStrength:         1,
		LeftMaxHeight:         1,
		MiddleMaxHeight:       1,
		RightMaxHeight:        1,
		DotCount:              5,
		MaxNeighbors:          4,
		MaxEdgeWidthDistance:  limit,
		MaxEdgeHeightDistance: limit,
	}

	m, err := Generate(page, p, newRand(42))
	if err != nil {
		t.Fatal(err)
	}

	if got, want := m.Stats(), (Stats{Dots: 5, Lines: 10, Shapes: 30}); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
	for i, pt := range m.Points {
		if len(pt.Neighbors) != 4 {
			t.Errorf("point %d has %d neighbors, want 4", i, len(pt.Neighbors))
		}
	}

	p.DedupeFaces = true
	m, err = Generate(page, p, newRand(42))
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Faces) != 10 {
		t.Errorf("deduped faces = %d, want 10", len(m.Faces))
	}
}

func TestGenerate_TwoPoints(t *testing.T) {
	page := NewPageMetrics(1000, 1000)

	near := defaultParams()
	near.DotCount = 2
	near.MaxEdgeWidthDistance, near.MaxEdgeHeightDistance = 5000, 5000
	far := near
	far.MaxEdgeWidthDistance = 10

	tests := []struct {
		name  string
		p     Params
		edges int
	}{
		{"within range", near, 1},
		{"out of range", far, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Generate(page, tt.p, newRand(1))
			if err != nil {
				t.Fatal(err)
			}
			if len(m.Edges) != tt.edges {
				t.Errorf("edges = %d, want %d", len(m.Edges), tt.edges)
			}
			if len(m.Faces) != 0 {
				t.Errorf("faces = %d, want 0", len(m.Faces))
			}
		})
	}
}

func TestGenerate_InvalidDotCount(t *testing.T) {
	p := defaultParams()
	p.DotCount = 1

	m, err := Generate(NewPageMetrics(100, 100), p, newRand(1))
	if m != nil {
		t.Error("expected nil mesh")
	}
	if !errors.Is(err, ErrInvalidConfiguration) {
		t.Fatalf("error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestGenerate_RegenerationKeepsProfileBounds(t *testing.T) {
	page := NewPageMetrics(1024, 768)
	p := defaultParams()
	profile := p.Profile()

	first, err := Generate(page, p, newRand(1))
	if err != nil {
		t.Fatal(err)
	}
	second, err := Generate(page, p, newRand(2))
	if err != nil {
		t.Fatal(err)
	}

	for _, m := range []*Mesh{first, second} {
		if m.Page != page {
			t.Errorf("mesh page = %+v, want %+v", m.Page, page)
		}
		for i, pt := range m.Points {
			if pt.Y < profile.Floor(pt.X, page) {
				t.Errorf("point %d above the profile floor", i)
			}
		}
	}
	if first.Points[0].Y == second.Points[0].Y {
		t.Error("different seeds produced the same first point")
	}
}

func TestMesh_PoseAndPosition(t *testing.T) {
	m := &Mesh{Points: []Point{{X: 1, Y: 10}, {X: 2, Y: 20}}}

	if y := m.Position(0, nil).Y(); y != 10 {
		t.Errorf("rest position y = %v, want 10", y)
	}

	pose := m.Pose(0, 3)
	if math.Abs(pose[0]-10) > 1e-9 {
		t.Errorf("pose[0] = %v, want 10", pose[0])
	}
	if want := 20 + math.Sin(1)*3; math.Abs(pose[1]-want) > 1e-9 {
		t.Errorf("pose[1] = %v, want %v", pose[1], want)
	}
	pos := m.Position(1, pose)
	if pos.X() != 2 || math.Abs(pos.Y()-pose[1]) > 1e-12 {
		t.Errorf("Position(1, pose) = %v, want [2 %v]", pos, pose[1])
	}
}

func TestPhase_ReductionPreservesPose(t *testing.T) {
	m := &Mesh{Points: []Point{{Y: 100}, {Y: 200}, {Y: 300}}}

	base := 1234 * time.Millisecond
	mod := PhaseModulus
	wrapped := base + time.Duration(mod*float64(time.Millisecond))

	if d := math.Abs(Phase(base) - Phase(wrapped)); d > 1e-3 {
		t.Errorf("phase differs by %v across one modulus", d)
	}
	if Phase(wrapped) >= PhaseModulus {
		t.Errorf("Phase(%v) = %v, not reduced below %v", wrapped, Phase(wrapped), PhaseModulus)
	}

	want := m.Pose(Phase(base), 5)
	got := m.Pose(Phase(wrapped), 5)
	for i := range want {
		if math.Abs(want[i]-got[i]) > 1e-6 {
			t.Errorf("pose[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestStats_NilMesh(t *testing.T) {
	var m *Mesh
	if got := m.Stats(); got != (Stats{}) {
		t.Fatalf("nil mesh stats = %+v", got)
	}
}
