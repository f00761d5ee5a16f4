package renderer

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Progress counts finished pixels. It is advisory only and safe to read while
// a render is running.
type Progress struct {
	done  atomic.Int64
	total atomic.Int64
}

// Reset zeroes the counter for a render of total pixels
func (p *Progress) Reset(total int) {
	p.done.Store(0)
	p.total.Store(int64(total))
}

// Increment records one finished pixel
func (p *Progress) Increment() {
	p.done.Add(1)
}

// Done returns the number of finished pixels
func (p *Progress) Done() int {
	return int(p.done.Load())
}

// Total returns the number of pixels in the render
func (p *Progress) Total() int {
	return int(p.total.Load())
}

// Percent returns completion in [0, 100]
func (p *Progress) Percent() float64 {
	total := p.total.Load()
	if total <= 0 {
		return 0
	}
	return 100 * float64(p.done.Load()) / float64(total)
}

// ProgressReporter periodically logs a Progress until stopped
type ProgressReporter struct {
	progress *Progress
	logger   core.Logger
	interval time.Duration
	stop     chan struct{}
	wg       sync.WaitGroup
}

// NewProgressReporter creates a reporter; call Start and Stop around a render
func NewProgressReporter(progress *Progress, logger core.Logger, interval time.Duration) *ProgressReporter {
	if interval <= 0 {
		interval = time.Second
	}
	return &ProgressReporter{
		progress: progress,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start launches the reporting goroutine
func (r *ProgressReporter) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.report()
			case <-r.stop:
				return
			}
		}
	}()
}

// Stop ends reporting and logs the final state
func (r *ProgressReporter) Stop() {
	close(r.stop)
	r.wg.Wait()
	r.report()
}

func (r *ProgressReporter) report() {
	r.logger.Printf("Progress: %d/%d pixels (%.1f%%)\n", r.progress.Done(), r.progress.Total(), r.progress.Percent())
}

// DefaultLogger implements core.Logger by writing through the standard log package
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	log.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}
