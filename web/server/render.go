package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/df07/go-weekend-raytracer/pkg/core"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
)

// RenderRequest represents a render request from the client.
// Zero values keep the scene's defaults.
type RenderRequest struct {
	Scene    string  `json:"scene"`    // Built-in id or scenes/ file name
	Width    int     `json:"width"`    // Image width
	Samples  int     `json:"samples"`  // Samples per pixel
	Depth    int     `json:"depth"`    // Maximum ray bounces
	Seed     int64   `json:"seed"`     // Base random seed
	VFov     float64 `json:"vfov"`     // Vertical field of view in degrees
	Aperture float64 `json:"aperture"` // Lens aperture
}

// ProgressUpdate reports finished scanlines
type ProgressUpdate struct {
	RowsDone  int   `json:"rowsDone"`
	TotalRows int   `json:"totalRows"`
	ElapsedMs int64 `json:"elapsedMs"`
}

// FrameUpdate carries the finished image
type FrameUpdate struct {
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	ImageData string `json:"imageData"` // Base64 encoded PNG
	Stats     Stats  `json:"stats"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels      int     `json:"totalPixels"`
	TotalSamples     int     `json:"totalSamples"`
	SamplesPerPixel  int     `json:"samplesPerPixel"`
	MaxDepth         int     `json:"maxDepth"`
	Workers          int     `json:"workers"`
	PrimitiveCount   int     `json:"primitiveCount"`
	ElapsedMs        int64   `json:"elapsedMs"`
	SamplesPerSecond float64 `json:"samplesPerSecond"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "progress", "frame", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// progressSteps bounds the number of progress events per render
const progressSteps = 20

// handleRender renders a scene and streams console output, progress and the final frame via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Single writer goroutine owns w
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go s.writeSSEEvents(w, ctx, sseEventChan, writerDone)
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.emit(ctx, sseEventChan, "error", fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, sampling, err := s.setupScene(req)
	if err != nil {
		s.emit(ctx, sseEventChan, "error", err.Error())
		return
	}

	// Console messages are relayed until the render finishes
	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go s.streamConsoleMessages(ctx, consoleChan, sseEventChan, consoleDone)

	width := sampling.Width
	height := sceneObj.ImageHeight(width)
	startTime := time.Now()
	progressEvery := max(height/progressSteps, 1)

	raytracer := renderer.NewRaytracer(sceneObj, sampling, webLogger)
	frame, stats, err := raytracer.RenderContext(ctx, width, height, sampling.SamplesPerPixel, renderer.RenderOptions{
		NumWorkers: sampling.NumWorkers,
		OnRow: func(p renderer.RowProgress) {
			if p.RowsDone%progressEvery != 0 && p.RowsDone != p.TotalRows {
				return
			}
			s.emitJSON(ctx, sseEventChan, "progress", ProgressUpdate{
				RowsDone:  p.RowsDone,
				TotalRows: p.TotalRows,
				ElapsedMs: time.Since(startTime).Milliseconds(),
			})
		},
	})

	close(consoleChan)
	<-consoleDone

	if err != nil {
		// Client disconnected
		log.Printf("Render aborted: %v", err)
		return
	}

	imageData, err := imageToBase64PNG(frame.ToRGBA())
	if err != nil {
		s.emit(ctx, sseEventChan, "error", fmt.Sprintf("Error encoding image: %v", err))
		return
	}

	s.emitJSON(ctx, sseEventChan, "frame", FrameUpdate{
		Width:     width,
		Height:    height,
		ImageData: imageData,
		Stats: Stats{
			TotalPixels:      stats.TotalPixels,
			TotalSamples:     stats.TotalSamples,
			SamplesPerPixel:  stats.SamplesPerPixel,
			MaxDepth:         sampling.MaxDepth,
			Workers:          stats.Workers,
			PrimitiveCount:   sceneObj.GetPrimitiveCount(),
			ElapsedMs:        stats.Elapsed.Milliseconds(),
			SamplesPerSecond: stats.SamplesPerSecond(),
		},
	})
	s.emit(ctx, sseEventChan, "complete", "Rendering completed")
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// setupScene creates the requested scene and applies the request overrides
func (s *Server) setupScene(req *RenderRequest) (*scene.Scene, renderer.SamplingConfig, error) {
	sceneObj, err := createScene(req.Scene)
	if err != nil {
		return nil, renderer.SamplingConfig{}, err
	}

	if req.VFov != 0 || req.Aperture != 0 {
		sceneObj, err = sceneObj.WithCamera(renderer.MergeCameraConfig(sceneObj.CameraConfig, renderer.CameraConfig{
			VFov:     req.VFov,
			Aperture: req.Aperture,
		}))
		if err != nil {
			return nil, renderer.SamplingConfig{}, fmt.Errorf("invalid camera: %w", err)
		}
	}

	sampling := renderer.MergeSamplingConfig(sceneObj.GetSamplingConfig(), renderer.SamplingConfig{
		Width:           req.Width,
		SamplesPerPixel: req.Samples,
		MaxDepth:        req.Depth,
		Seed:            req.Seed,
	})
	// Scene defaults are tuned for offline renders
	sampling.Width = min(sampling.Width, maxWidth)

	// Performance warning
	if sampling.Width*sceneObj.ImageHeight(sampling.Width) > 800*600 && sampling.SamplesPerPixel > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}
	return sceneObj, sampling, nil
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan <-chan SSEEvent, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}

			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages relays console messages until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case consoleMsg, ok := <-consoleChan:
			if !ok {
				return
			}

			data, err := json.Marshal(consoleMsg)
			if err != nil {
				log.Printf("Error marshaling console message: %v", err)
				continue
			}
			s.emit(ctx, sseEventChan, "console", string(data))

		case <-ctx.Done():
			return
		}
	}
}

// emit queues an event for the writer, giving up once the client is gone
func (s *Server) emit(ctx context.Context, sseEventChan chan<- SSEEvent, eventType, data string) {
	select {
	case sseEventChan <- SSEEvent{Type: eventType, Data: data}:
	case <-ctx.Done():
	}
}

// emitJSON queues an event with a JSON payload
func (s *Server) emitJSON(ctx context.Context, sseEventChan chan<- SSEEvent, eventType string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Error marshaling %s event: %v", eventType, err)
		return
	}
	s.emit(ctx, sseEventChan, eventType, string(data))
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = defaultName
	}

	// Zero defaults defer to the scene
	var err error
	if req.Width, err = parseIntParam(query, "width", 0, minWidth, maxWidth); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", 0, 1, maxDepth); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(query, "seed", 0, 0, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)
	if req.VFov, err = parseFloatParam(query, "vfov", 0, 1, 179); err != nil {
		return nil, err
	}
	if req.Aperture, err = parseFloatParam(query, "aperture", 0, 0, 10); err != nil {
		return nil, err
	}

	return req, nil
}
