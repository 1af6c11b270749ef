// Package server exposes the live scene over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MeKo-Tech/meshwall/internal/config"
	"github.com/MeKo-Tech/meshwall/internal/framestore"
	"github.com/MeKo-Tech/meshwall/internal/scene"
)

// maxBodyBytes bounds property and resize payloads.
const maxBodyBytes = 1 << 20

// maxDimension bounds resize requests.
const maxDimension = 16384

// Scene is the part of the live scene the server drives.
type Scene interface {
	WritePNG(w io.Writer) error
	Status() scene.Status
	Config() config.Config
	ApplyProperties(props map[string]any) error
	Resize(width, height int)
}

// Archive serves stored frames. framestore.Reader implements it.
type Archive interface {
	ReadFrame(index int) ([]byte, time.Duration, error)
	Count() (int, error)
}

// Config configures the server handlers.
type Config struct {
	CacheControl string
	// Archive is optional; without it /archive/ answers 404.
	Archive Archive
}

// Server holds the HTTP handlers.
type Server struct {
	scene        Scene
	archive      Archive
	logger       *slog.Logger
	cacheControl string
}

// New creates a server for s.
func New(s Scene, cfg Config, logger *slog.Logger) *Server {
	if cfg.CacheControl == "" {
		cfg.CacheControl = "no-store"
	}
	return &Server{
		scene:        s,
		archive:      cfg.Archive,
		logger:       logger,
		cacheControl: cfg.CacheControl,
	}
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /frame.png", s.serveFrame)
	mux.HandleFunc("GET /status", s.serveStatus)
	mux.HandleFunc("GET /config", s.serveConfig)
	mux.HandleFunc("POST /properties", s.applyProperties)
	mux.HandleFunc("POST /resize", s.resize)
	mux.HandleFunc("GET /archive", s.serveArchiveInfo)
	mux.HandleFunc("GET /archive/{frame}", s.serveArchiveFrame)
	return withCORS(mux)
}

func (s *Server) serveFrame(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", s.cacheControl)
	w.Header().Set("Content-Type", "image/png")

	if err := s.scene.WritePNG(w); err != nil {
		if errors.Is(err, scene.ErrNoFrame) {
			w.Header().Del("Content-Type")
			http.Error(w, "No frame rendered yet", http.StatusServiceUnavailable)
			return
		}
		s.log().Error("Failed to write frame", "error", err)
	}
}

func (s *Server) serveStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.scene.Status())
}

func (s *Server) serveConfig(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.scene.Config())
}

func (s *Server) applyProperties(w http.ResponseWriter, r *http.Request) {
	var props map[string]any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&props); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON: %v", err), http.StatusBadRequest)
		return
	}
	if err := s.scene.ApplyProperties(props); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.log().Info("Applied properties", "count", len(props))
	s.writeJSON(w, s.scene.Config())
}

type resizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) resize(w http.ResponseWriter, r *http.Request) {
	var req resizeRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON: %v", err), http.StatusBadRequest)
		return
	}
	if req.Width <= 0 || req.Height <= 0 || req.Width > maxDimension || req.Height > maxDimension {
		http.Error(w, fmt.Sprintf("invalid size %dx%d", req.Width, req.Height), http.StatusBadRequest)
		return
	}
	s.scene.Resize(req.Width, req.Height)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) serveArchiveInfo(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		http.NotFound(w, r)
		return
	}
	n, err := s.archive.Count()
	if err != nil {
		s.log().Error("Failed to count frames", "error", err)
		http.Error(w, "archive unavailable", http.StatusInternalServerError)
		return
	}
	s.writeJSON(w, map[string]int{"frames": n})
}

func (s *Server) serveArchiveFrame(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		http.NotFound(w, r)
		return
	}
	index, ok := parseFrameName(r.PathValue("frame"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	data, elapsed, err := s.archive.ReadFrame(index)
	if err != nil {
		if !errors.Is(err, framestore.ErrFrameNotFound) {
			s.log().Error("Failed to read frame", "frame", index, "error", err)
		}
		http.Error(w, "Frame not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Cache-Control", s.cacheControl)
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("X-Frame-Elapsed-Ms", strconv.FormatInt(elapsed.Milliseconds(), 10))
	if _, err := w.Write(data); err != nil {
		s.log().Error("Failed to write response", "error", err)
	}
}

// parseFrameName parses "12.png" into 12.
func parseFrameName(name string) (int, bool) {
	base, ok := strings.CutSuffix(name, ".png")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(base)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log().Error("Failed to encode response", "error", err)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
