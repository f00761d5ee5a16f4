package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Request limits shared by the render, stream and inspect endpoints
const (
	MinImageSize = 16
	MaxImageSize = 2000
	MaxSamples   = 10000
	MaxDepth     = 1000
)

// Server handles web requests for the path tracer
type Server struct {
	port      int
	defaults  config.Config
	publisher *output.S3Publisher // nil disables publishing
	mux       *http.ServeMux
}

// NewServer creates a new web server. Request parameters that are not given
// fall back to defaults; a non-nil publisher enables ?publish=true.
func NewServer(port int, defaults config.Config, publisher *output.S3Publisher) *Server {
	s := &Server{
		port:      port,
		defaults:  defaults,
		publisher: publisher,
		mux:       http.NewServeMux(),
	}

	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scenes", s.handleScenes)
	s.mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/render/stream", s.handleRenderStream)
	s.mux.HandleFunc("/api/inspect", s.handleInspect)

	return s
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in and mesh scenes grouped for the UI
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.defaults.ScenesDir)
	if err != nil {
		log.Printf("Error listing scenes: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to list scenes")
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = s.defaults.Scene
	}

	sceneObj, err := s.createScene(sceneName, scene.Options{Seed: s.defaults.Seed})
	if err != nil {
		writeSceneError(w, sceneName, err)
		return
	}

	sampling := sceneObj.SamplingConfig
	response := map[string]interface{}{
		"scene": sceneName,
		"defaults": map[string]interface{}{
			"samplesPerPixel": sampling.SamplesPerPixel,
			"maxDepth":        sampling.MaxDepth,
			"aspectRatio":     sceneObj.CameraConfig.AspectRatio,
			"shapes":          sceneObj.Shapes,
		},
		"limits": map[string]interface{}{
			"width":   map[string]int{"min": MinImageSize, "max": MaxImageSize},
			"height":  map[string]int{"min": MinImageSize, "max": MaxImageSize},
			"samples": map[string]int{"min": 1, "max": MaxSamples},
			"depth":   map[string]int{"min": 1, "max": MaxDepth},
		},
	}

	writeJSON(w, http.StatusOK, response)
}

// createScene builds a scene, resolving the bare "mesh" ID to the configured mesh file.
// Mesh IDs must name a file discovered in the scenes directory.
func (s *Server) createScene(id string, opts scene.Options) (*scene.Scene, error) {
	if strings.HasPrefix(id, "mesh:") {
		meshScenes, err := scene.ListMeshScenes(s.defaults.ScenesDir)
		if err != nil {
			return nil, err
		}
		if !slices.ContainsFunc(meshScenes, func(info scene.SceneInfo) bool { return info.ID == id }) {
			return nil, fmt.Errorf("%w: %q", scene.ErrUnknownScene, id)
		}
	}

	opts.MeshPath = s.defaults.MeshPath
	opts.TexturePath = s.defaults.TexturePath
	return scene.Create(id, opts)
}

// samplingDefaults are the renderer settings used when a request gives none
func (s *Server) samplingDefaults() renderer.SamplingConfig {
	return renderer.SamplingConfig{
		SamplesPerPixel: s.defaults.Samples,
		MaxDepth:        s.defaults.MaxDepth,
		NumWorkers:      s.defaults.Workers,
		Seed:            s.defaults.Seed,
	}
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

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
