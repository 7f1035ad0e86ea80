package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobreel/internal/worker/domain"
)

// processEvent records one posting event within the event timeout
func (w *Worker) processEvent(ctx context.Context, msg *domain.EventMessage) error {
	ev := msg.Event

	w.logger.Info("Processing posting event",
		slog.String("event_id", ev.EventID),
		slog.String("kind", string(ev.Kind)),
		slog.String("draft_id", ev.DraftID),
		slog.Int("success_count", ev.SuccessCount),
		slog.Int("total", ev.Total),
	)

	if w.eventTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.eventTimeout)
		defer cancel()
	}

	n, err := w.recorder.RecordEvent(ctx, ev)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEvent) {
			// already stored by an earlier delivery
			return nil
		}
		return domain.NewRetryableError(fmt.Errorf("failed to record posting event: %w", err))
	}

	w.logger.Info("Posting event processed",
		slog.String("event_id", ev.EventID),
		slog.Int("rows", n),
	)

	return nil
}
