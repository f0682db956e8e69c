package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

type sseRecord struct {
	event string
	data  string
}

// parseSSE splits a recorded event stream into events
func parseSSE(t *testing.T, body string) []sseRecord {
	t.Helper()
	var events []sseRecord
	for _, block := range strings.Split(body, "\n\n") {
		if strings.TrimSpace(block) == "" {
			continue
		}
		var rec sseRecord
		for _, line := range strings.Split(block, "\n") {
			switch {
			case strings.HasPrefix(line, "event: "):
				rec.event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				rec.data = strings.TrimPrefix(line, "data: ")
			}
		}
		events = append(events, rec)
	}
	return events
}

func serve(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	NewServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(t, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("Expected status ok, got %q", body["status"])
	}
}

func TestScenes(t *testing.T) {
	rec := serve(t, "/api/scenes")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var scenes []struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&scenes); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}

	found := map[string]bool{}
	for _, s := range scenes {
		found[s.ID] = true
	}
	for _, id := range []string{"default", "hollow-glass", "random-spheres"} {
		if !found[id] {
			t.Errorf("Expected built-in scene %q in %v", id, scenes)
		}
	}
}

func TestSceneConfig(t *testing.T) {
	rec := serve(t, "/api/scene-config?scene=hollow-glass")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Scene    string         `json:"scene"`
		Defaults map[string]int `json:"defaults"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if body.Scene != "hollow-glass" {
		t.Errorf("Expected scene hollow-glass, got %q", body.Scene)
	}
	if body.Defaults["samplesPerPixel"] != 100 || body.Defaults["maxDepth"] != 50 {
		t.Errorf("Unexpected defaults: %v", body.Defaults)
	}

	if rec := serve(t, "/api/scene-config?scene=no-such-scene"); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown scene, got %d", rec.Code)
	}
}

func TestRender_StreamsFrame(t *testing.T) {
	rec := serve(t, "/api/render?scene=default&width=16&samples=1&depth=3&seed=7")

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Expected event stream, got %q", ct)
	}

	events := parseSSE(t, rec.Body.String())
	if len(events) == 0 {
		t.Fatal("Expected SSE events")
	}

	counts := map[string]int{}
	frameIndex := -1
	var frame FrameUpdate
	for i, ev := range events {
		counts[ev.event]++
		if ev.event == "frame" {
			frameIndex = i
			if err := json.Unmarshal([]byte(ev.data), &frame); err != nil {
				t.Fatalf("Invalid frame payload: %v", err)
			}
		}
	}

	if counts["error"] != 0 {
		t.Fatalf("Unexpected error events: %v", events)
	}
	if counts["console"] == 0 {
		t.Error("Expected console events from the renderer")
	}
	if counts["progress"] == 0 {
		t.Error("Expected progress events")
	}
	if counts["frame"] != 1 {
		t.Fatalf("Expected exactly one frame event, got %d", counts["frame"])
	}
	if last := events[len(events)-1].event; last != "complete" {
		t.Errorf("Expected the stream to end with complete, got %q", last)
	}
	if frameIndex != len(events)-2 {
		t.Errorf("Expected frame right before complete, got index %d of %d", frameIndex, len(events))
	}

	if frame.Width != 16 || frame.Height != 9 {
		t.Errorf("Expected 16x9 frame, got %dx%d", frame.Width, frame.Height)
	}
	if frame.Stats.TotalSamples != 16*9 {
		t.Errorf("Expected %d samples, got %d", 16*9, frame.Stats.TotalSamples)
	}
	if frame.Stats.MaxDepth != 3 {
		t.Errorf("Expected max depth 3, got %d", frame.Stats.MaxDepth)
	}

	raw, err := base64.StdEncoding.DecodeString(frame.ImageData)
	if err != nil {
		t.Fatalf("Invalid base64 image: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("Invalid PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 9 {
		t.Errorf("Expected 16x9 PNG, got %v", b)
	}
}

func TestRender_LastProgressCoversAllRows(t *testing.T) {
	events := parseSSE(t, serve(t, "/api/render?scene=hollow-glass&width=32&samples=1&depth=2").Body.String())

	var last ProgressUpdate
	for _, ev := range events {
		if ev.event == "progress" {
			if err := json.Unmarshal([]byte(ev.data), &last); err != nil {
				t.Fatalf("Invalid progress payload: %v", err)
			}
		}
	}
	if last.TotalRows == 0 || last.RowsDone != last.TotalRows {
		t.Errorf("Expected final progress to report every row, got %+v", last)
	}
}

func TestRender_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		query url.Values
		want  string
	}{
		{"width too small", url.Values{"width": {"2"}}, "width must be between"},
		{"width not a number", url.Values{"width": {"wide"}}, "invalid width"},
		{"zero samples", url.Values{"samples": {"0"}}, "samples must be between"},
		{"depth too large", url.Values{"depth": {"100000"}}, "depth must be between"},
		{"vfov out of range", url.Values{"vfov": {"180"}}, "vfov must be between"},
		{"negative aperture", url.Values{"aperture": {"-1"}}, "aperture must be between"},
		{"unknown scene", url.Values{"scene": {"no-such-scene"}}, "unknown scene"},
		{"scene path", url.Values{"scene": {"../scenes/glass-trio.json"}}, "unknown scene"},
		{"scene json name", url.Values{"scene": {"glass-trio.json"}}, "unknown scene"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := parseSSE(t, serve(t, "/api/render?"+tt.query.Encode()).Body.String())
			if len(events) != 1 {
				t.Fatalf("Expected a single event, got %v", events)
			}
			if events[0].event != "error" {
				t.Fatalf("Expected error event, got %q", events[0].event)
			}
			if !strings.Contains(events[0].data, tt.want) {
				t.Errorf("Expected error containing %q, got %q", tt.want, events[0].data)
			}
		})
	}
}

func TestParseRenderRequest_Defaults(t *testing.T) {
	s := NewServer(0)
	req, err := s.parseRenderRequest(httptest.NewRequest(http.MethodGet, "/api/render", nil))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := RenderRequest{Scene: "default"}
	if *req != expected {
		t.Errorf("Expected %+v, got %+v", expected, *req)
	}
}

func TestSetupScene_AppliesOverrides(t *testing.T) {
	s := NewServer(0)
	sceneObj, sampling, err := s.setupScene(&RenderRequest{
		Scene:    "default",
		Width:    64,
		Samples:  4,
		Depth:    5,
		Seed:     9,
		VFov:     40,
		Aperture: 0.5,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if sampling.Width != 64 || sampling.SamplesPerPixel != 4 || sampling.MaxDepth != 5 || sampling.Seed != 9 {
		t.Errorf("Sampling overrides not applied: %+v", sampling)
	}
	config := sceneObj.Camera.GetConfig()
	if config.VFov != 40 || config.Aperture != 0.5 {
		t.Errorf("Camera overrides not applied: %+v", config)
	}
	if config.LookFrom != sceneObj.CameraConfig.LookFrom {
		t.Errorf("Unrelated camera fields should keep the scene defaults")
	}
}

func TestSetupScene_SeedZeroKeepsSceneSeed(t *testing.T) {
	s := NewServer(0)
	req := httptest.NewRequest(http.MethodGet, "/api/render?scene=default&seed=0", nil)
	parsed, err := s.parseRenderRequest(req)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if parsed.Seed != 0 {
		t.Fatalf("Expected seed 0, got %d", parsed.Seed)
	}

	sceneObj, sampling, err := s.setupScene(parsed)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sampling.Seed != sceneObj.SamplingConfig.Seed {
		t.Errorf("Expected the scene seed %d, got %d", sceneObj.SamplingConfig.Seed, sampling.Seed)
	}
}

func TestInspect(t *testing.T) {
	// 400x225 puts pixel (199, 112) next to the image centre, on the diffuse sphere
	rec := serve(t, "/api/inspect?scene=hollow-glass&width=400&x=199&y=112")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp InspectResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if !resp.Hit {
		t.Fatal("Expected the centre ray to hit")
	}
	if resp.MaterialType != "lambertian" || resp.GeometryType != "sphere" {
		t.Errorf("Expected lambertian sphere, got %s %s", resp.MaterialType, resp.GeometryType)
	}
	if !resp.FrontFace {
		t.Error("Expected a front face hit from outside the sphere")
	}
	geometry, _ := resp.Properties["geometry"].(map[string]interface{})
	if geometry["radius"] != 0.5 {
		t.Errorf("Expected radius 0.5, got %v", geometry["radius"])
	}
}

func TestInspect_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"missing x", "/api/inspect?y=3"},
		{"missing y", "/api/inspect?x=3"},
		{"x out of bounds", "/api/inspect?width=100&x=100&y=0"},
		{"y out of bounds", "/api/inspect?width=160&x=0&y=90"},
		{"unknown scene", "/api/inspect?scene=no-such-scene&x=0&y=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := serve(t, tt.target); rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}
