package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/meshwall/internal/config"
	"github.com/MeKo-Tech/meshwall/internal/framestore"
	"github.com/MeKo-Tech/meshwall/internal/logger"
	"github.com/MeKo-Tech/meshwall/internal/worker"
)

func testConfig() config.Config {
	cfg := config.Defaults()
	cfg.DotCount = 60
	cfg.MaxEdgeWidthDistance = 40
	cfg.MaxEdgeHeightDistance = 40
	cfg.AnimationAmplitude = 10
	cfg.DotSize = 4
	return cfg
}

func newGenerator(t *testing.T, cfg config.Config, opts Options) *FrameGenerator {
	t.Helper()
	m, err := GenerateMesh(cfg, 96, 54, 42)
	require.NoError(t, err)

	opts.Config = cfg
	opts.Mesh = m
	opts.Width, opts.Height = 96, 54
	opts.Logger = logger.NewTestLogger()
	g, err := NewFrameGenerator(opts)
	require.NoError(t, err)
	return g
}

// memorySink collects frames in memory.
type memorySink struct {
	mu     sync.Mutex
	frames map[int][]byte
}

func (s *memorySink) WriteFrame(index int, _ time.Duration, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frames == nil {
		s.frames = make(map[int][]byte)
	}
	s.frames[index] = data
	return nil
}

func TestGenerateMesh(t *testing.T) {
	m, err := GenerateMesh(testConfig(), 96, 54, 7)
	require.NoError(t, err)
	assert.Len(t, m.Points, 60)

	cfg := testConfig()
	cfg.DotCount = 1
	_, err = GenerateMesh(cfg, 96, 54, 7)
	assert.Error(t, err)
}

func TestNewFrameGenerator_Validation(t *testing.T) {
	_, err := NewFrameGenerator(Options{Config: testConfig(), Width: 0, Height: 10})
	assert.Error(t, err)

	_, err = NewFrameGenerator(Options{Config: testConfig(), Width: 10, Height: 10})
	assert.Error(t, err, "mesh is required")
}

func TestTasks(t *testing.T) {
	tasks := Tasks(3, 40*time.Millisecond)
	assert.Equal(t, []worker.Task{
		{Index: 0, Elapsed: 0},
		{Index: 1, Elapsed: 40 * time.Millisecond},
		{Index: 2, Elapsed: 80 * time.Millisecond},
	}, tasks)
}

func TestFrameGenerator_WritesFiles(t *testing.T) {
	dir := t.TempDir()
	g := newGenerator(t, testConfig(), Options{OutputDir: dir})

	path, err := g.Generate(context.Background(), worker.Task{Index: 7, Elapsed: time.Second})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "frame_00007.png"), path)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 96, 54), img.Bounds())
}

func TestFrameGenerator_SkipsExisting(t *testing.T) {
	dir := t.TempDir()
	existing := FramePath(dir, 0)
	require.NoError(t, os.WriteFile(existing, []byte("keep"), 0o644))

	g := newGenerator(t, testConfig(), Options{OutputDir: dir})
	_, err := g.Generate(context.Background(), worker.Task{Index: 0})
	require.NoError(t, err)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep", string(data))

	g = newGenerator(t, testConfig(), Options{OutputDir: dir, Force: true})
	_, err = g.Generate(context.Background(), worker.Task{Index: 0})
	require.NoError(t, err)
	data, err = os.ReadFile(existing)
	require.NoError(t, err)
	assert.NotEqual(t, "keep", string(data))
}

func TestFrameGenerator_CancelledContext(t *testing.T) {
	g := newGenerator(t, testConfig(), Options{Sink: &memorySink{}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Generate(ctx, worker.Task{Index: 0})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFrameGenerator_AnimationModes(t *testing.T) {
	g := newGenerator(t, testConfig(), Options{Sink: &memorySink{}})
	a, err := g.Render(0)
	require.NoError(t, err)
	b, err := g.Render(1500 * time.Millisecond)
	require.NoError(t, err)
	assert.NotEqual(t, a.Pix, b.Pix, "continuous frames move")

	cfg := testConfig()
	cfg.RenderMode = config.RegenerateOnResize
	g = newGenerator(t, cfg, Options{Sink: &memorySink{}})
	a, err = g.Render(0)
	require.NoError(t, err)
	b, err = g.Render(1500 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, a.Pix, b.Pix, "static mode ignores time")
	assert.Nil(t, g.Pose(time.Second))
}

func TestFrameGenerator_WithClock(t *testing.T) {
	cfg := testConfig()
	cfg.ClockPosition = config.ClockCenter
	cfg.ClockFontSize = "16px"
	cfg.BackgroundColor = "#000000"

	withClock := newGenerator(t, cfg, Options{ClockStart: time.Date(2025, 1, 1, 10, 20, 0, 0, time.UTC)})
	cfg.ClockPosition = config.ClockNone
	without := newGenerator(t, cfg, Options{})

	// Same seed, same mesh: only the overlay differs.
	a, err := withClock.Render(0)
	require.NoError(t, err)
	b, err := without.Render(0)
	require.NoError(t, err)
	assert.NotEqual(t, a.Pix, b.Pix)
}

func TestPoolIntoFramestore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "frames.db")
	w, err := framestore.New(dbPath, framestore.Metadata{Name: "test", Format: "png", Width: 96, Height: 54})
	require.NoError(t, err)

	g := newGenerator(t, testConfig(), Options{Sink: w})
	pool := worker.New(worker.Config{Workers: 3, Generator: g})
	results := pool.Run(context.Background(), Tasks(6, 100*time.Millisecond))
	for _, r := range results {
		require.NoError(t, r.Err)
	}
	require.NoError(t, w.Close())

	r, err := framestore.OpenReader(dbPath)
	require.NoError(t, err)
	defer r.Close()

	n, err := r.Count()
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	data, elapsed, err := r.ReadFrame(5)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, elapsed)
	_, err = png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
}

func TestStaticModeFramesShareStorage(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "frames.db")
	w, err := framestore.New(dbPath, framestore.Metadata{Name: "static", Format: "png"})
	require.NoError(t, err)

	cfg := testConfig()
	cfg.RenderMode = config.RegenerateOnResize
	g := newGenerator(t, cfg, Options{Sink: w})
	for _, r := range worker.New(worker.Config{Workers: 2, Generator: g}).Run(context.Background(), Tasks(4, time.Second)) {
		require.NoError(t, r.Err)
	}
	require.NoError(t, w.Close())

	r, err := framestore.OpenReader(dbPath)
	require.NoError(t, err)
	defer r.Close()

	distinct, err := r.Distinct()
	require.NoError(t, err)
	assert.Equal(t, 1, distinct)
}

func TestFrameGenerator_WriteSVG(t *testing.T) {
	g := newGenerator(t, testConfig(), Options{})

	var buf bytes.Buffer
	require.NoError(t, g.WriteSVG(&buf, 0, "mesh"))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Equal(t, 60, strings.Count(out, "<circle"))
	assert.Contains(t, out, "<title>mesh</title>")
}
