package renderer

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

const (
	// hitEpsilon keeps scattered rays from re-hitting the surface they left
	hitEpsilon = 0.001
	// DefaultMaxDepth caps the number of bounces per camera ray
	DefaultMaxDepth = 50
)

var (
	skyBottom = core.NewVec3(1.0, 1.0, 1.0)
	skyTop    = core.NewVec3(0.5, 0.7, 1.0)
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	MaxDepth        int   // Maximum ray bounce depth
	NumWorkers      int   // Worker goroutines; <= 0 uses runtime.NumCPU()
	Seed            int64 // Base seed; every row derives its own stream from it
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        DefaultMaxDepth,
		NumWorkers:      runtime.NumCPU(),
		Seed:            42,
	}
}

// ErrRenderInProgress is returned when a Raytracer is asked to render while
// another render on it is still running
var ErrRenderInProgress = errors.New("raytracer is already rendering")

// Raytracer estimates pixel colors by Monte Carlo path sampling.
// A Raytracer runs one render at a time; its Progress belongs to that render.
type Raytracer struct {
	config    SamplingConfig
	logger    core.Logger
	progress  *Progress
	rendering atomic.Bool
}

// NewRaytracer creates a new raytracer. A nil logger discards output.
func NewRaytracer(config SamplingConfig, logger core.Logger) *Raytracer {
	if config.SamplesPerPixel <= 0 {
		config.SamplesPerPixel = 1
	}
	if config.MaxDepth <= 0 {
		config.MaxDepth = DefaultMaxDepth
	}
	if config.NumWorkers <= 0 {
		config.NumWorkers = runtime.NumCPU()
	}
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Raytracer{
		config:   config,
		logger:   logger,
		progress: &Progress{},
	}
}

// Config returns the effective sampling configuration
func (rt *Raytracer) Config() SamplingConfig {
	return rt.config
}

// Progress returns the counter updated by the current or last render
func (rt *Raytracer) Progress() *Progress {
	return rt.progress
}

// RayColor returns the radiance carried back along ray. depth counts the
// bounces taken so far; past MaxDepth the path contributes black.
func (rt *Raytracer) RayColor(ray core.Ray, world geometry.Shape, depth int, sampler core.Sampler) core.Vec3 {
	hit, isHit := world.Hit(ray, hitEpsilon, math.Inf(1))
	if !isHit {
		return skyColor(ray)
	}

	if depth >= rt.config.MaxDepth || hit.Material == nil {
		return core.Vec3{}
	}

	scatter, didScatter := hit.Material.Scatter(ray, *hit, sampler)
	if !didScatter {
		return core.Vec3{} // Material absorbed the ray
	}

	return scatter.Attenuation.MultiplyVec(rt.RayColor(scatter.Scattered, world, depth+1, sampler))
}

// skyColor blends white at the horizon into light blue overhead
func skyColor(r core.Ray) core.Vec3 {
	unitDirection := r.Direction.Normalize()
	t := 0.5 * (unitDirection.Y + 1.0)
	return skyBottom.Multiply(1.0 - t).Add(skyTop.Multiply(t))
}

// samplePixel averages SamplesPerPixel jittered estimates for pixel (i, j),
// where j counts rows from the bottom
func (rt *Raytracer) samplePixel(i, j, width, height int, camera *Camera, world geometry.Shape, sampler core.Sampler) core.Vec3 {
	var stats PixelStats
	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		jitter := sampler.Get2D()
		s := (float64(i) + jitter.X) / float64(width)
		t := (float64(j) + jitter.Y) / float64(height)

		stats.AddSample(rt.RayColor(camera.GetRay(s, t, sampler), world, 0, sampler))
	}
	return stats.GetColor()
}

// Render traces the full image and returns width*height*3 bytes of RGB,
// row-major from the top row down
func (rt *Raytracer) Render(width, height int, camera *Camera, world geometry.Shape) ([]byte, error) {
	buf, _, err := rt.RenderWithStats(width, height, camera, world)
	return buf, err
}

// RenderWithStats is Render that also reports timing and sample counts
func (rt *Raytracer) RenderWithStats(width, height int, camera *Camera, world geometry.Shape) ([]byte, RenderStats, error) {
	if width <= 0 || height <= 0 {
		return nil, RenderStats{}, fmt.Errorf("%dx%d: %w", width, height, core.ErrInvalidDimensions)
	}
	if camera == nil {
		return nil, RenderStats{}, errors.New("render: nil camera")
	}
	if world == nil {
		return nil, RenderStats{}, fmt.Errorf("render: %w", core.ErrEmptyScene)
	}
	if !rt.rendering.CompareAndSwap(false, true) {
		return nil, RenderStats{}, ErrRenderInProgress
	}
	defer rt.rendering.Store(false)

	start := time.Now()
	buf := make([]byte, width*height*3)
	rt.progress.Reset(width * height)

	rt.logger.Printf("Rendering %dx%d, %d samples/pixel, max depth %d, %d workers\n",
		width, height, rt.config.SamplesPerPixel, rt.config.MaxDepth, rt.config.NumWorkers)

	pool := NewWorkerPool(rt, camera, world, width, height, buf, rt.config.NumWorkers)
	pool.Start()
	for row := 0; row < height; row++ {
		pool.SubmitTask(RowTask{Row: row})
	}
	pool.Stop()

	stats := RenderStats{
		Width:          width,
		Height:         height,
		TotalPixels:    width * height,
		TotalSamples:   width * height * rt.config.SamplesPerPixel,
		AverageSamples: float64(rt.config.SamplesPerPixel),
		Workers:        pool.GetNumWorkers(),
		Duration:       time.Since(start),
	}
	rt.logger.Printf("Render complete in %v\n", stats.Duration)

	return buf, stats, nil
}

// Render traces an image with the default sampling configuration
func Render(width, height int, camera *Camera, world geometry.Shape) ([]byte, error) {
	return NewRaytracer(DefaultSamplingConfig(), nil).Render(width, height, camera, world)
}

// quantize applies gamma 2 and maps a linear channel to 8 bits
func quantize(c float64) uint8 {
	if !(c > 0) {
		return 0 // Also catches NaN
	}
	return uint8(math.Min(255, 255.99*math.Sqrt(c)))
}
