package renderer

import (
	"runtime"
	"sync"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// RowTask asks a worker to render one image row, counted from the top
type RowTask struct {
	Row int
}

// WorkerPool renders rows in parallel into a shared output buffer.
// Rows never overlap, so workers write their slots without locking.
type WorkerPool struct {
	taskQueue  chan RowTask
	workers    []*Worker
	numWorkers int
	wg         sync.WaitGroup
}

// Worker handles individual row rendering tasks
type Worker struct {
	ID        int
	raytracer *Raytracer
	camera    *Camera
	world     geometry.Shape
	width     int
	height    int
	buf       []byte
	taskQueue chan RowTask
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(rt *Raytracer, camera *Camera, world geometry.Shape, width, height int, buf []byte, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:  make(chan RowTask, height), // Buffer for every row
		numWorkers: numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:        i,
			raytracer: rt,
			camera:    camera,
			world:     world,
			width:     width,
			height:    height,
			buf:       buf,
			taskQueue: wp.taskQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(&wp.wg)
	}
}

// Stop closes the queue and waits for in-flight rows to finish
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue)
	wp.wg.Wait()
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		w.renderRow(task.Row)
	}
}

// renderRow fills one row of the buffer. The row's sampler is seeded from the
// row index alone, so the output does not depend on which worker ran it.
func (w *Worker) renderRow(row int) {
	rt := w.raytracer
	sampler := core.NewSeededSampler(core.SeedFor(rt.config.Seed, row))

	// Output rows run top-down, camera t runs bottom-up
	j := w.height - 1 - row
	offset := row * w.width * 3

	for i := 0; i < w.width; i++ {
		color := rt.samplePixel(i, j, w.width, w.height, w.camera, w.world, sampler)

		w.buf[offset+i*3] = quantize(color.X)
		w.buf[offset+i*3+1] = quantize(color.Y)
		w.buf[offset+i*3+2] = quantize(color.Z)

		rt.progress.Increment()
	}
}
