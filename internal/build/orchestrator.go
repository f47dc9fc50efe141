package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/docnav/internal/config"
	"github.com/dgallion1/docnav/internal/project"
	"github.com/dgallion1/docnav/internal/theme"
)

// ErrQueueFull is returned by Submit when no queue slot is free.
var ErrQueueFull = errors.New("build queue is full")

// Orchestrator runs site builds on a fixed pool of workers.
type Orchestrator struct {
	jobs  *JobStore
	queue chan *Job
	theme theme.Theme
	log   *slog.Logger
	cfg   config.Config

	pageTimes  *Latency
	buildTimes *Latency

	hookMu sync.RWMutex
	hooks  []func(*project.Project)

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewOrchestrator creates the build pipeline. Call Start to run it.
func NewOrchestrator(cfg config.Config, th theme.Theme, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		jobs:  NewJobStore(cfg.JobTTL),
		queue: make(chan *Job, cfg.MaxQueueSize),
		theme: th,
		log:   log,
		cfg:   cfg,

		pageTimes:  NewLatency(cfg.JobTTL),
		buildTimes: NewLatency(cfg.JobTTL),
	}
}

// OnComplete registers fn to be called with the project of every
// successful build.
func (o *Orchestrator) OnComplete(fn func(*project.Project)) {
	o.hookMu.Lock()
	defer o.hookMu.Unlock()
	o.hooks = append(o.hooks, fn)
}

// Start launches worker goroutines.
func (o *Orchestrator) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	for range o.cfg.WorkerCount {
		o.wg.Add(1)
		go func() {
			defer o.wg.Done()
			w := NewWorker(o.theme, o.cfg, o.log)
			w.onDone = o.completed
			w.pageTimes, w.buildTimes = o.pageTimes, o.buildTimes
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-o.queue:
					if !ok {
						return
					}
					w.Process(workerCtx, job)
				}
			}
		}()
	}

	// Start job store cleanup.
	o.wg.Add(1)
	go func() {
		defer o.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				o.jobs.Cleanup()
			}
		}
	}()
}

func (o *Orchestrator) completed(p *project.Project) {
	o.hookMu.RLock()
	defer o.hookMu.RUnlock()
	for _, fn := range o.hooks {
		fn(p)
	}
}

// Stop gracefully shuts down the pipeline.
func (o *Orchestrator) Stop() {
	if o.cancel != nil {
		o.cancel()
	}
	close(o.queue)
	o.wg.Wait()
}

// Submit queues a new build.
func (o *Orchestrator) Submit(job *Job) error {
	o.jobs.Put(job)
	select {
	case o.queue <- job:
		o.log.Info("build queued", "job_id", job.ID, "source", job.SourceDir)
		return nil
	default:
		job.SetStatus(StatusFailed, "queue_full")
		return fmt.Errorf("%w (%d)", ErrQueueFull, o.cfg.MaxQueueSize)
	}
}

// GetJob returns a job by ID.
func (o *Orchestrator) GetJob(id string) *Job {
	return o.jobs.Get(id)
}

// PageLatency returns render times of single pages within the job TTL.
func (o *Orchestrator) PageLatency() LatencySnapshot { return o.pageTimes.Snapshot() }

// BuildLatency returns durations of completed builds within the job TTL.
func (o *Orchestrator) BuildLatency() LatencySnapshot { return o.buildTimes.Snapshot() }

// QueueDepth returns current queue depth.
func (o *Orchestrator) QueueDepth() int {
	return len(o.queue)
}
