package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cuongbtq/jobreel/internal/events"
	"github.com/cuongbtq/jobreel/internal/worker/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrDeliveriesClosed is returned by Start when the broker closes the consumer
var ErrDeliveriesClosed = errors.New("rabbitmq delivery channel closed")

// EventRecorder persists posting events
type EventRecorder interface {
	RecordEvent(ctx context.Context, ev *events.PostingEvent) (int, error)
}

// DraftSweeper removes drafts past their retention window
type DraftSweeper interface {
	Sweep(ctx context.Context, now time.Time) (int, error)
}

// DeliverySource is the consuming side of the RabbitMQ client
type DeliverySource interface {
	Qos(prefetchCount int) error
	Consume(consumerTag string) (<-chan amqp.Delivery, error)
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Recorder      EventRecorder
	Sweeper       DraftSweeper
	Source        DeliverySource
	Concurrency   int
	EventTimeout  time.Duration
	SweepInterval time.Duration
	PrefetchCount int
	WorkerID      string
	QueueName     string
}

// Worker consumes posting events and records them; it also sweeps expired drafts
type Worker struct {
	logger        *slog.Logger
	recorder      EventRecorder
	sweeper       DraftSweeper
	source        DeliverySource
	concurrency   int
	eventTimeout  time.Duration
	sweepInterval time.Duration
	prefetchCount int
	workerID      string
	queueName     string
	now           func() time.Time

	eventsChan chan *domain.EventMessage
	wg         sync.WaitGroup
	stopChan   chan struct{}
	stopOnce   sync.Once
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	prefetch := cfg.PrefetchCount
	if prefetch <= 0 {
		prefetch = concurrency
	}

	return &Worker{
		logger:        cfg.Logger,
		recorder:      cfg.Recorder,
		sweeper:       cfg.Sweeper,
		source:        cfg.Source,
		concurrency:   concurrency,
		eventTimeout:  cfg.EventTimeout,
		sweepInterval: cfg.SweepInterval,
		prefetchCount: prefetch,
		workerID:      cfg.WorkerID,
		queueName:     cfg.QueueName,
		now:           time.Now,
		eventsChan:    make(chan *domain.EventMessage, concurrency),
		stopChan:      make(chan struct{}),
	}
}

// Start subscribes to the queue, spawns the pool and blocks until ctx is canceled
// or the delivery channel closes.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("event_timeout", w.eventTimeout),
		slog.Duration("sweep_interval", w.sweepInterval),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to setup consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)

	dispatcherDone := make(chan struct{})
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer close(dispatcherDone)
		w.startMessageDispatcher(ctx, deliveries)
	}()

	if w.sweeper != nil && w.sweepInterval > 0 {
		w.wg.Add(1)
		go w.sweepLoop(ctx)
	}

	select {
	case <-ctx.Done():
		w.logger.Info("Worker context canceled, stopping...")
		return nil
	case <-w.stopChan:
		return nil
	case <-dispatcherDone:
		select {
		case <-ctx.Done():
			return nil
		case <-w.stopChan:
			return nil
		default:
			return ErrDeliveriesClosed
		}
	}
}

// Stop gracefully stops the worker and waits for in-flight events
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	w.stopOnce.Do(func() { close(w.stopChan) })
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}

// sweepLoop deletes expired drafts on every tick
func (w *Worker) sweepLoop(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := w.sweeper.Sweep(ctx, w.now())
			if err != nil {
				w.logger.Warn("Failed to sweep expired drafts",
					slog.String("error", err.Error()),
				)
				continue
			}
			if n > 0 {
				w.logger.Info("Expired drafts swept",
					slog.Int("count", n),
				)
			}
		}
	}
}
