package core

import "errors"

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// NopLogger discards all output
type NopLogger struct{}

func (NopLogger) Printf(format string, args ...interface{}) {}

var (
	// ErrNoBoundingBox is returned when a shape without a finite extent is handed to the BVH builder
	ErrNoBoundingBox = errors.New("shape has no bounding box")
	// ErrEmptyScene is returned when a scene is built from zero shapes
	ErrEmptyScene = errors.New("scene has no shapes")
	// ErrInvalidDimensions is returned for non-positive image sizes
	ErrInvalidDimensions = errors.New("invalid image dimensions")
)
