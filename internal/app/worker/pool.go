package worker

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jobregv/interventionweb-whisper/internal/app/queue"
	"github.com/jobregv/interventionweb-whisper/internal/metrics"
)

const (
	reapInterval      = 30 * time.Second
	claimErrorBackoff = time.Second

	// Heartbeats outlive two missed beats, so one slow refresh does not make
	// a live worker vanish from the health endpoint.
	heartbeatInterval = 15 * time.Second
	heartbeatTTL      = 3 * heartbeatInterval
)

// JobQueue is the slice of the queue the pool consumes.
type JobQueue interface {
	Claim(ctx context.Context, consumer string) (*queue.Delivery, error)
	Ack(ctx context.Context, consumer string, delivery *queue.Delivery) error
	ReclaimExpired(ctx context.Context) (int, error)
	Heartbeat(ctx context.Context, consumer string, ttl time.Duration) error
}

// Pool runs a fixed number of workers plus a reaper that requeues jobs whose
// claim lease expired. Workers share nothing except the queue; each owns its
// engine instance.
type Pool struct {
	cfg       Config
	queue     JobQueue
	store     ResultStore
	notifier  Notifier
	newEngine EngineFactory
	logger    *zap.Logger
}

// NewPool creates a Pool.
func NewPool(cfg Config, q JobQueue, store ResultStore, notifier Notifier, newEngine EngineFactory, logger *zap.Logger) *Pool {
	return &Pool{
		cfg:       cfg,
		queue:     q,
		store:     store,
		notifier:  notifier,
		newEngine: newEngine,
		logger:    logger,
	}
}

// Run starts the workers and blocks until the context is cancelled and every
// in-flight job has reached a terminal state.
func (p *Pool) Run(ctx context.Context) {
	hostname, _ := os.Hostname()

	var wg sync.WaitGroup
	ids := make([]string, 0, p.cfg.Concurrency)
	for i := 1; i <= p.cfg.Concurrency; i++ {
		id := fmt.Sprintf("%s-%d-%d", hostname, os.Getpid(), i)
		ids = append(ids, id)
		w := NewWorker(id, p.cfg, p.store, p.notifier, p.newEngine, p.logger)

		wg.Add(1)
		go func() {
			defer wg.Done()
			p.runWorker(ctx, w)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.reap(ctx)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		p.keepAlive(ctx, ids)
	}()

	p.logger.Info("worker pool started", zap.Int("concurrency", p.cfg.Concurrency))
	wg.Wait()
	p.logger.Info("worker pool stopped")
}

// runWorker is one worker's claim loop. Claiming stops on shutdown; a job
// already claimed is handled and acknowledged before the loop exits.
func (p *Pool) runWorker(ctx context.Context, w *Worker) {
	for {
		if ctx.Err() != nil {
			return
		}

		delivery, err := p.queue.Claim(ctx, w.id)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.logger.Error("claim failed", zap.Error(err))
			select {
			case <-time.After(claimErrorBackoff):
			case <-ctx.Done():
				return
			}
			continue
		}
		if delivery == nil {
			continue // claim window elapsed with an empty queue
		}

		w.Handle(delivery.Job)

		// Late ack: only after the terminal result is stored. Uses its own
		// context so shutdown cannot leave a finished job unacked.
		ackCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := p.queue.Ack(ackCtx, w.id, delivery); err != nil {
			w.logger.Error("ack failed, job may be redelivered",
				zap.String("job_id", delivery.Job.ID),
				zap.Error(err),
			)
		}
		cancel()
	}
}

// keepAlive refreshes the pool's worker heartbeats so the health endpoint can
// report real liveness. On shutdown the keys lapse by TTL.
func (p *Pool) keepAlive(ctx context.Context, ids []string) {
	beat := func() {
		for _, id := range ids {
			if err := p.queue.Heartbeat(ctx, id, heartbeatTTL); err != nil {
				if ctx.Err() == nil {
					p.logger.Warn("worker heartbeat failed", zap.String("worker_id", id), zap.Error(err))
				}
				return
			}
		}
	}
	beat()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			beat()
		}
	}
}

func (p *Pool) reap(ctx context.Context) {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.queue.ReclaimExpired(ctx)
			if err != nil {
				if ctx.Err() == nil {
					p.logger.Error("reclaim pass failed", zap.Error(err))
				}
				continue
			}
			if n > 0 {
				metrics.JobsReclaimed.Add(float64(n))
				p.logger.Warn("requeued jobs from dead workers", zap.Int("count", n))
			}
		}
	}
}
