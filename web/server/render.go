package server

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/disintegration/imaging"
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string         // Scene ID, see scene.Create
	Width   int            // Image width
	Height  int            // Image height, 0 derives it from the scene's aspect ratio
	Samples int            // Samples per pixel
	Depth   int            // Maximum bounce depth
	Seed    int64          // Scene and sampling seed
	Format  imaging.Format // Encoding of the response body
	Publish bool           // Also upload the result to S3
}

// RenderResult is a finished render ready to be encoded
type RenderResult struct {
	Scene *scene.Scene
	Image *image.RGBA
	Stats renderer.RenderStats
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{Scene: query.Get("scene")}
	if req.Scene == "" {
		req.Scene = s.defaults.Scene
	}

	defaults := s.samplingDefaults()

	var err error
	if req.Width, err = parseIntParam(query, "width", clampSize(s.defaults.Width), MinImageSize, MaxImageSize); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, MinImageSize, MaxImageSize); err != nil {
		return nil, err
	}
	if req.Samples, err = parseIntParam(query, "samples", defaults.SamplesPerPixel, 1, MaxSamples); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", defaults.MaxDepth, 1, MaxDepth); err != nil {
		return nil, err
	}

	req.Seed = defaults.Seed
	if value := query.Get("seed"); value != "" {
		if req.Seed, err = strconv.ParseInt(value, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", value)
		}
	}

	if req.Format, err = output.ParseFormat(query.Get("format")); err != nil {
		return nil, fmt.Errorf("invalid format: %s", query.Get("format"))
	}

	if value := query.Get("publish"); value != "" {
		if req.Publish, err = strconv.ParseBool(value); err != nil {
			return nil, fmt.Errorf("invalid publish: %s", value)
		}
	}

	// Performance warning
	if req.Width > 800 && req.Samples > 100 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

func clampSize(size int) int {
	return max(MinImageSize, min(MaxImageSize, size))
}

// handleRender renders a scene and responds with the encoded image
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	if req.Publish && s.publisher == nil {
		writeError(w, http.StatusBadRequest, "Publishing is not configured")
		return
	}

	start := time.Now()
	result, err := s.render(req, renderer.NewDefaultLogger())
	if err != nil {
		writeSceneError(w, req.Scene, err)
		return
	}

	var buf bytes.Buffer
	if err := output.Encode(&buf, result.Image, req.Format); err != nil {
		log.Printf("Error encoding render: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to encode image")
		return
	}

	if req.Publish {
		key := s.publisher.Key(publishName(req, result))
		if err := s.publisher.Publish(r.Context(), key, buf.Bytes(), output.ContentType(req.Format)); err != nil {
			log.Printf("Upload failed: %v", err)
			writeError(w, http.StatusBadGateway, "Upload failed")
			return
		}
		w.Header().Set("X-Object-Key", key)
	}

	log.Printf("Render %s %dx%d finished in %v", req.Scene, req.Width, req.Height, time.Since(start))

	w.Header().Set("Content-Type", output.ContentType(req.Format))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Render-Time-Ms", strconv.FormatInt(result.Stats.Duration.Milliseconds(), 10))
	w.Header().Set("X-Render-Samples", strconv.Itoa(result.Stats.TotalSamples))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Printf("Error writing response: %v", err)
	}
}

// publishName is the object name a published render is stored under
func publishName(req *RenderRequest, result *RenderResult) string {
	return fmt.Sprintf("%s-%d.%s", result.Scene.Name, req.Seed, output.Extension(req.Format))
}

// render builds the scene and runs the renderer. req.Height is filled in
// from the scene's aspect ratio when it was not given.
func (s *Server) render(req *RenderRequest, logger core.Logger) (*RenderResult, error) {
	return s.renderWithProgress(req, logger, nil)
}

// renderWithProgress is render with a hook that receives the renderer's
// progress counter before pixel work starts
func (s *Server) renderWithProgress(req *RenderRequest, logger core.Logger, onStart func(*renderer.Progress)) (*RenderResult, error) {
	opts := scene.Options{Seed: req.Seed, Logger: logger}
	if req.Height > 0 {
		opts.AspectRatio = float64(req.Width) / float64(req.Height)
	}

	sceneObj, err := s.createScene(req.Scene, opts)
	if err != nil {
		return nil, err
	}
	if req.Height == 0 {
		req.Height = clampSize(int(math.Round(float64(req.Width) / sceneObj.CameraConfig.AspectRatio)))
	}

	sampling := s.samplingDefaults()
	sampling.SamplesPerPixel = req.Samples
	sampling.MaxDepth = req.Depth
	sampling.Seed = req.Seed

	raytracer := renderer.NewRaytracer(sampling, logger)
	if onStart != nil {
		onStart(raytracer.Progress())
	}

	buf, stats, err := raytracer.RenderWithStats(req.Width, req.Height, sceneObj.Camera, sceneObj.World)
	if err != nil {
		return nil, err
	}

	img, err := renderer.ToImage(buf, req.Width, req.Height)
	if err != nil {
		return nil, err
	}

	return &RenderResult{Scene: sceneObj, Image: img, Stats: stats}, nil
}

// writeSceneError maps scene construction and render failures to a status code
func writeSceneError(w http.ResponseWriter, sceneName string, err error) {
	switch {
	case errors.Is(err, scene.ErrUnknownScene), errors.Is(err, scene.ErrNoMeshPath):
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scene: %s", sceneName))
	default:
		log.Printf("Render error for %s: %v", sceneName, err)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
	}
}
