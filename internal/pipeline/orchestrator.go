package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Orchestrator runs queued analysis jobs on a fixed worker pool.
type Orchestrator struct {
	runner *Runner
	store  *JobStore
	log    *slog.Logger

	outDir  string
	workers int
	queue   chan *Job
	wg      sync.WaitGroup
	cancel  context.CancelFunc
}

// NewOrchestrator wires a worker pool of the given size over store, writing
// per-job artifacts under outDir.
func NewOrchestrator(runner *Runner, store *JobStore, log *slog.Logger, outDir string, workers, queueSize int) *Orchestrator {
	return &Orchestrator{
		runner:  runner,
		store:   store,
		log:     log,
		outDir:  outDir,
		workers: workers,
		queue:   make(chan *Job, queueSize),
	}
}

// Start launches the workers and the expired-job cleanup loop.
func (o *Orchestrator) Start(ctx context.Context) {
	ctx, o.cancel = context.WithCancel(ctx)

	for i := 0; i < o.workers; i++ {
		o.wg.Add(1)
		go o.worker(ctx)
	}

	o.wg.Add(1)
	go o.cleanupLoop(ctx)
}

// Stop cancels the workers and waits for in-flight jobs to finish.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	o.wg.Wait()
}

// Submit queues the job. It fails the job and returns an error when the
// queue is full.
func (o *Orchestrator) Submit(job *Job) error {
	select {
	case o.queue <- job:
		return nil
	default:
		job.Fail("queue full")
		return fmt.Errorf("job queue is full")
	}
}

// QueueDepth reports how many jobs are waiting for a worker.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}

func (o *Orchestrator) worker(ctx context.Context) {
	defer o.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-o.queue:
			o.process(job)
		}
	}
}

func (o *Orchestrator) process(job *Job) {
	start := time.Now()
	o.log.Info("processing job", "job_id", job.ID, "filename", job.Filename)

	tmpPath, cleanup, err := stageUpload(job)
	if err != nil {
		job.Fail(err.Error())
		o.log.Error("job failed", "job_id", job.ID, "error", err)
		return
	}
	defer cleanup()

	outputs, err := o.runner.Run(Options{
		InputPath: tmpPath,
		OutDir:    filepath.Join(o.outDir, job.ID),
		Segment:   true,
		Chunk:     true,
		OnStage: func(stage string) {
			job.SetStatus(stage)
		},
	})
	if err != nil {
		job.Fail(err.Error())
		o.log.Error("job failed", "job_id", job.ID, "error", err)
		return
	}

	job.Complete(outputs)
	o.log.Info("job completed",
		"job_id", job.ID, "duration", time.Since(start).Round(time.Millisecond))
}

// stageUpload writes the job's uploaded bytes to a temp file that keeps the
// original extension, since the page source is chosen by extension.
func stageUpload(job *Job) (string, func(), error) {
	job.mu.Lock()
	data := job.data
	job.data = nil
	job.mu.Unlock()

	if len(data) == 0 {
		return "", nil, fmt.Errorf("job %s has no document data", job.ID)
	}

	f, err := os.CreateTemp("", "docanalyzer-*"+filepath.Ext(job.Filename))
	if err != nil {
		return "", nil, fmt.Errorf("stage upload: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("stage upload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", nil, fmt.Errorf("stage upload: %w", err)
	}
	name := f.Name()
	return name, func() { os.Remove(name) }, nil
}

func (o *Orchestrator) cleanupLoop(ctx context.Context) {
	defer o.wg.Done()
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := o.store.Cleanup(); removed > 0 {
				o.log.Info("expired jobs removed", "count", removed)
			}
		}
	}
}
