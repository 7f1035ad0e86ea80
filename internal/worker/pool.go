package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobreel/internal/worker/domain"
)

// spawnWorkerPool spawns N worker goroutines based on concurrency configuration
func (w *Worker) spawnWorkerPool(ctx context.Context) {
	w.logger.Info("Spawning worker pool",
		slog.Int("concurrency", w.concurrency),
		slog.String("worker_id", w.workerID),
	)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.workerLoop(ctx, i)
	}
}

// workerLoop is the main processing loop for each worker goroutine
func (w *Worker) workerLoop(ctx context.Context, workerNum int) {
	defer w.wg.Done()

	workerName := fmt.Sprintf("%s-%d", w.workerID, workerNum)
	w.logger.Debug("Worker goroutine started",
		slog.String("worker_name", workerName),
	)

	for {
		select {
		case <-w.stopChan:
			w.logger.Debug("Worker goroutine stopping - stopChan closed",
				slog.String("worker_name", workerName),
			)
			return

		case <-ctx.Done():
			w.logger.Debug("Worker goroutine stopping - context canceled",
				slog.String("worker_name", workerName),
			)
			return

		case msg := <-w.eventsChan:
			err := w.processEvent(ctx, msg)
			w.settle(workerName, msg, err)
		}
	}
}

// settle ACKs or NACKs the delivery behind msg
func (w *Worker) settle(workerName string, msg *domain.EventMessage, err error) {
	eventID := msg.Event.EventID

	if err == nil {
		if ackErr := msg.Delivery.Ack(false); ackErr != nil {
			w.logger.Error("Failed to ACK message",
				slog.String("worker_name", workerName),
				slog.String("event_id", eventID),
				slog.String("error", ackErr.Error()),
			)
		}
		return
	}

	requeue := shouldRequeue(err, msg.Delivery.Redelivered)
	w.logger.Error("Event processing failed",
		slog.String("worker_name", workerName),
		slog.String("event_id", eventID),
		slog.Bool("requeue", requeue),
		slog.String("error", err.Error()),
	)

	if nackErr := msg.Delivery.Nack(false, requeue); nackErr != nil {
		w.logger.Error("Failed to NACK message",
			slog.String("worker_name", workerName),
			slog.String("event_id", eventID),
			slog.String("error", nackErr.Error()),
		)
	}
}

// shouldRequeue requeues retryable failures once; a redelivered message that fails again is dropped
func shouldRequeue(err error, redelivered bool) bool {
	if redelivered {
		return false
	}

	var retryableErr *domain.RetryableError
	return errors.As(err, &retryableErr)
}
