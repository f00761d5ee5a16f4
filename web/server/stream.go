package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// progressInterval is how often a streaming render reports progress
const progressInterval = 250 * time.Millisecond

// SSEEvent represents a unified SSE event
type SSEEvent struct {
	Type string // "console", "progress", "complete", "error"
	Data string // JSON-encoded data
}

// ProgressUpdate reports how many pixels a streaming render has finished
type ProgressUpdate struct {
	Done      int     `json:"done"`
	Total     int     `json:"total"`
	Percent   float64 `json:"percent"`
	ElapsedMs int64   `json:"elapsedMs"`
}

// CompleteUpdate carries the finished image of a streaming render
type CompleteUpdate struct {
	ImageData      string  `json:"imageData"` // Base64 encoded image
	ContentType    string  `json:"contentType"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	Workers        int     `json:"workers"`
	ElapsedMs      int64   `json:"elapsedMs"`
	ObjectKey      string  `json:"objectKey,omitempty"` // Set when the render was published
}

type renderOutcome struct {
	result *RenderResult
	err    error
}

// handleRenderStream renders like /api/render but streams console output and
// progress as Server-Sent Events, ending with the base64 encoded image.
// Published renders are uploaded before the complete event.
func (s *Server) handleRenderStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	if req.Publish && s.publisher == nil {
		writeError(w, http.StatusBadRequest, "Publishing is not configured")
		return
	}

	s.setSSEHeaders(w)
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	consoleChan := make(chan ConsoleMessage, 50)
	logger := NewWebLogger(fmt.Sprintf("render-%d", time.Now().UnixNano()), consoleChan)

	started := make(chan *renderer.Progress, 1)
	done := make(chan renderOutcome, 1)
	start := time.Now()

	go func() {
		result, err := s.renderWithProgress(req, logger, func(p *renderer.Progress) { started <- p })
		done <- renderOutcome{result: result, err: err}
	}()

	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	send := func(event SSEEvent) bool {
		if err := writeSSEEvent(w, event); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	var progress *renderer.Progress
	for {
		select {
		case msg := <-consoleChan:
			if !send(consoleEvent(msg)) {
				return
			}

		case p := <-started:
			progress = p

		case <-ticker.C:
			if progress == nil || progress.Total() == 0 {
				continue
			}
			if !send(jsonEvent("progress", ProgressUpdate{
				Done:      progress.Done(),
				Total:     progress.Total(),
				Percent:   progress.Percent(),
				ElapsedMs: time.Since(start).Milliseconds(),
			})) {
				return
			}

		case outcome := <-done:
			// Flush console output the render produced before finishing
			for len(consoleChan) > 0 {
				send(consoleEvent(<-consoleChan))
			}
			if outcome.err != nil {
				log.Printf("Render error for %s: %v", req.Scene, outcome.err)
				send(SSEEvent{Type: "error", Data: fmt.Sprintf("Render error: %v", outcome.err)})
				return
			}
			var key string
			if req.Publish {
				if key, err = s.publisher.PublishImage(ctx, publishName(req, outcome.result), outcome.result.Image, req.Format); err != nil {
					log.Printf("Upload failed: %v", err)
					send(SSEEvent{Type: "error", Data: fmt.Sprintf("Upload failed: %v", err)})
					return
				}
			}
			send(s.completeEvent(req, outcome.result, key, start))
			return

		case <-ctx.Done():
			// Client disconnected; the render finishes in the background
			return
		}
	}
}

func (s *Server) completeEvent(req *RenderRequest, result *RenderResult, objectKey string, start time.Time) SSEEvent {
	var buf bytes.Buffer
	if err := output.Encode(&buf, result.Image, req.Format); err != nil {
		return SSEEvent{Type: "error", Data: fmt.Sprintf("Failed to encode image: %v", err)}
	}

	return jsonEvent("complete", CompleteUpdate{
		ImageData:      base64.StdEncoding.EncodeToString(buf.Bytes()),
		ContentType:    output.ContentType(req.Format),
		Width:          req.Width,
		Height:         req.Height,
		TotalSamples:   result.Stats.TotalSamples,
		AverageSamples: result.Stats.AverageSamples,
		Workers:        result.Stats.Workers,
		ElapsedMs:      time.Since(start).Milliseconds(),
		ObjectKey:      objectKey,
	})
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func consoleEvent(msg ConsoleMessage) SSEEvent {
	return jsonEvent("console", msg)
}

func jsonEvent(eventType string, v interface{}) SSEEvent {
	data, err := json.Marshal(v)
	if err != nil {
		return SSEEvent{Type: "error", Data: fmt.Sprintf("Error marshaling %s event: %v", eventType, err)}
	}
	return SSEEvent{Type: eventType, Data: string(data)}
}

// writeSSEEvent writes one event in the text/event-stream format
func writeSSEEvent(w http.ResponseWriter, event SSEEvent) error {
	_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data)
	return err
}
