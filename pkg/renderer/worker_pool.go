package renderer

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// RowTask represents a scanline rendering task for the worker pool
type RowTask struct {
	Y int
}

// RowResult contains the result from rendering a row
type RowResult struct {
	Y       int
	Samples int
	Skipped bool // The render was cancelled before this row started
}

// RowProgress is reported after every finished row
type RowProgress struct {
	Row       int
	RowsDone  int
	TotalRows int
}

// RenderOptions controls a parallel render
type RenderOptions struct {
	NumWorkers int               // 0 = runtime.NumCPU()
	OnRow      func(RowProgress) // Optional, called from the collecting goroutine
}

// WorkerPool manages parallel row rendering. Each row has exactly one writer,
// so the frame needs no locking.
type WorkerPool struct {
	ctx         context.Context
	raytracer   *Raytracer
	frame       *Frame
	samples     int
	taskQueue   chan RowTask
	resultQueue chan RowResult
	numWorkers  int
	wg          sync.WaitGroup
}

// NewWorkerPool creates a worker pool rendering into frame
func NewWorkerPool(ctx context.Context, rt *Raytracer, frame *Frame, samplesPerPixel, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	numWorkers = min(numWorkers, max(frame.Height, 1))

	return &WorkerPool{
		ctx:         ctx,
		raytracer:   rt,
		frame:       frame,
		samples:     samplesPerPixel,
		taskQueue:   make(chan RowTask, frame.Height),   // Buffer for every row
		resultQueue: make(chan RowResult, frame.Height), // Buffer for every result
		numWorkers:  numWorkers,
	}
}

// Start begins all workers
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run()
	}
}

// Stop gracefully shuts down all workers
func (wp *WorkerPool) Stop() {
	close(wp.taskQueue) // No more tasks
	wp.wg.Wait()        // Wait for workers to finish
	close(wp.resultQueue)
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// GetResult retrieves a completed row result
func (wp *WorkerPool) GetResult() (RowResult, bool) {
	result, ok := <-wp.resultQueue
	return result, ok
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (wp *WorkerPool) run() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		if wp.ctx.Err() != nil {
			wp.resultQueue <- RowResult{Y: task.Y, Skipped: true}
			continue
		}

		sampler := rowSampler(wp.raytracer.config.Seed, task.Y)
		wp.raytracer.renderRow(wp.frame, task.Y, wp.samples, sampler)

		wp.resultQueue <- RowResult{Y: task.Y, Samples: wp.frame.Width * wp.samples}
	}
}

// RenderContext renders the frame on a pool of row workers. Once ctx is done, rows
// that have not started are skipped and ctx.Err() is returned with the partial frame.
func (rt *Raytracer) RenderContext(ctx context.Context, width, height, samplesPerPixel int, opts RenderOptions) (*Frame, RenderStats, error) {
	start := time.Now()
	frame := NewFrame(width, height)
	samplesPerPixel = max(samplesPerPixel, 1)

	pool := NewWorkerPool(ctx, rt, frame, samplesPerPixel, opts.NumWorkers)
	rt.logger.Printf("Rendering %dx%d at %d spp (max depth %d) with %d workers\n",
		width, height, samplesPerPixel, rt.config.MaxDepth, pool.GetNumWorkers())

	pool.Start()
	for y := 0; y < height; y++ {
		pool.SubmitTask(RowTask{Y: y})
	}

	stats := RenderStats{
		SamplesPerPixel: samplesPerPixel,
		Workers:         pool.GetNumWorkers(),
	}
	logEvery := max(height/10, 1)

	for received := 0; received < height; received++ {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Skipped {
			continue
		}

		stats.RowsRendered++
		stats.TotalPixels += width
		stats.TotalSamples += result.Samples

		if opts.OnRow != nil {
			opts.OnRow(RowProgress{Row: result.Y, RowsDone: stats.RowsRendered, TotalRows: height})
		}
		if stats.RowsRendered%logEvery == 0 && stats.RowsRendered < height {
			rt.logger.Printf("Scanlines remaining: %d\n", height-stats.RowsRendered)
		}
	}
	pool.Stop()

	stats.Elapsed = time.Since(start)
	if err := ctx.Err(); err != nil {
		rt.logger.Printf("Render cancelled after %d/%d rows\n", stats.RowsRendered, height)
		return frame, stats, err
	}

	rt.logger.Printf("Render complete in %v (%d samples)\n", stats.Elapsed, stats.TotalSamples)
	return frame, stats, nil
}
