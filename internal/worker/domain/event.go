package domain

import (
	"sort"
	"time"

	"github.com/cuongbtq/jobreel/internal/events"
	amqp "github.com/rabbitmq/amqp091-go"
)

// EventMessage is a decoded posting event handed to the worker pool
type EventMessage struct {
	Event    *events.PostingEvent
	Delivery amqp.Delivery
}

// ResultRow is one platform outcome as stored in posting_results
type ResultRow struct {
	EventID      string    `db:"event_id"`
	Kind         string    `db:"kind"`
	DraftID      string    `db:"draft_id"`
	Platform     string    `db:"platform"`
	Status       string    `db:"status"`
	PostID       string    `db:"post_id"`
	URL          string    `db:"url"`
	ErrorMessage string    `db:"error_message"`
	PostedAt     time.Time `db:"posted_at"`
}

// RowsFromEvent flattens an event into one row per platform, ordered by platform name
func RowsFromEvent(ev *events.PostingEvent) []ResultRow {
	rows := make([]ResultRow, 0, len(ev.Results))
	for name, r := range ev.Results {
		status := ResultStatusFailed
		if r.Success {
			status = ResultStatusSuccess
		}
		rows = append(rows, ResultRow{
			EventID:      ev.EventID,
			Kind:         string(ev.Kind),
			DraftID:      ev.DraftID,
			Platform:     name,
			Status:       status,
			PostID:       r.PostID,
			URL:          r.URL,
			ErrorMessage: r.Error,
			PostedAt:     ev.PostedAt,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Platform < rows[j].Platform })
	return rows
}
