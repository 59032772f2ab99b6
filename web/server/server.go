package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/accel"
	"github.com/df07/go-whitted-raytracer/pkg/log"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// frameInterval limits how often partial frames are streamed
const frameInterval = 250 * time.Millisecond

// Server streams renders of the built-in scenes to a browser
type Server struct {
	port   int
	logger log.Logger
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port, logger: log.New("web")}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string `json:"scene"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	SamplesPerPixel int    `json:"samplesPerPixel"`
	MaxDepth        int    `json:"maxDepth"`
	Accelerator     string `json:"accelerator"`
}

// ProgressUpdate is a partial or final frame sent via SSE
type ProgressUpdate struct {
	PixelsDone  int    `json:"pixelsDone"`
	TotalPixels int    `json:"totalPixels"`
	Rays        int64  `json:"rays"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Handler returns the API routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Noticef("starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes with their sampling defaults
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	type sceneEntry struct {
		ID          string               `json:"id"`
		Name        string               `json:"name"`
		Description string               `json:"description"`
		Defaults    scene.SamplingConfig `json:"defaults"`
	}

	var entries []sceneEntry
	for _, info := range scene.ListScenes() {
		sc, err := scene.NewByName(info.ID)
		if err != nil {
			continue
		}
		entries = append(entries, sceneEntry{
			ID:          info.ID,
			Name:        info.DisplayName,
			Description: info.Description,
			Defaults:    sc.SamplingConfig,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(entries)
}

// handleRender renders into a shared buffer and streams snapshots of it
// with SSE while the workers fill it in
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sc, err := scene.NewByName(req.Scene)
	if err != nil {
		s.sendSSEError(w, err.Error())
		return
	}
	sc.SamplingConfig.Width = req.Width
	sc.SamplingConfig.Height = req.Height
	sc.SamplingConfig.SamplesPerPixel = req.SamplesPerPixel
	sc.SamplingConfig.MaxDepth = req.MaxDepth
	sc.Accelerator = req.Accelerator
	if err := sc.Preprocess(); err != nil {
		s.sendSSEError(w, err.Error())
		return
	}

	buffer := make([]uint32, req.Width*req.Height)
	progress := make(chan ProgressUpdate, 1)
	rt := renderer.NewRenderer(sc, renderer.DefaultConfig())
	rt.SetProgress(func(done, total int, rays int64) {
		update := ProgressUpdate{PixelsDone: done, TotalPixels: total, Rays: rays}
		select {
		case progress <- update:
		default: // The streamer is busy encoding, skip this update
		}
	})

	finished := make(chan renderer.RenderStats, 1)
	go func() {
		stats, err := rt.RenderInto(buffer)
		if err != nil {
			s.logger.Errorf("render of %q failed: %v", req.Scene, err)
		}
		finished <- stats
	}()

	ctx := r.Context()
	start := time.Now()
	lastFrame := time.Time{}
	for {
		select {
		case <-ctx.Done():
			// The render runs to completion in the background
			s.logger.Infof("client disconnected from %q render", req.Scene)
			return
		case update := <-progress:
			if time.Since(lastFrame) < frameInterval {
				continue
			}
			lastFrame = time.Now()
			update.ElapsedMs = time.Since(start).Milliseconds()
			if err := s.sendFrame(w, buffer, req, update); err != nil {
				s.logger.Warningf("failed to stream frame: %v", err)
				return
			}
		case stats := <-finished:
			update := ProgressUpdate{
				PixelsDone:  stats.TotalPixels,
				TotalPixels: stats.TotalPixels,
				Rays:        stats.Rays,
				IsComplete:  true,
				ElapsedMs:   time.Since(start).Milliseconds(),
			}
			if err := s.sendFrame(w, buffer, req, update); err != nil {
				s.logger.Warningf("failed to stream final frame: %v", err)
				return
			}
			s.sendSSEEvent(w, "complete", "Rendering completed")
			return
		}
	}
}

// sendFrame snapshots the live buffer and sends it as a progress event
func (s *Server) sendFrame(w http.ResponseWriter, buffer []uint32, req *RenderRequest, update ProgressUpdate) error {
	imageData, err := s.imageToBase64PNG(snapshot(buffer, req.Width, req.Height))
	if err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	update.ImageData = imageData

	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	return s.sendSSEEvent(w, "progress", string(data))
}

// snapshot copies packed 0xAARRGGBB pixels into an image using atomic loads
func snapshot(buffer []uint32, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range buffer {
		argb := atomic.LoadUint32(&buffer[i])
		img.Pix[4*i] = uint8(argb >> 16)
		img.Pix[4*i+1] = uint8(argb >> 8)
		img.Pix[4*i+2] = uint8(argb)
		img.Pix[4*i+3] = uint8(argb >> 24)
	}
	return img
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{
		Scene:       query.Get("scene"),
		Accelerator: query.Get("accel"),
	}
	if req.Scene == "" {
		req.Scene = "cornell"
	}
	if req.Accelerator == "" {
		req.Accelerator = accel.KindKdTree
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 400, 16, 2000); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(query, "spp", 4, 1, 1024); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", 6, 1, 50); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 800*600 && req.SamplesPerPixel > 64 {
		s.logger.Warningf("large image with high samples may render slowly")
	}
	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEError sends an error via SSE
func (s *Server) sendSSEError(w http.ResponseWriter, message string) error {
	return s.sendSSEEvent(w, "error", message)
}

// sendSSEEvent sends a generic SSE event
func (s *Server) sendSSEEvent(w http.ResponseWriter, event, data string) error {
	if flusher, ok := w.(http.Flusher); ok {
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
		flusher.Flush()
		return nil
	}
	return fmt.Errorf("streaming not supported")
}
