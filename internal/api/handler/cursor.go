package handler

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/cuongbtq/jobreel/internal/workflow"
)

// DecodeDraftCursor parses a cursor produced by EncodeDraftCursor; an empty string means the first page
func DecodeDraftCursor(cursorStr string) (*workflow.DraftCursor, error) {
	if cursorStr == "" {
		return nil, nil
	}

	decoded, err := base64.RawURLEncoding.DecodeString(cursorStr)
	if err != nil {
		return nil, err
	}

	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, fmt.Errorf("invalid cursor format")
	}

	var createdAt int64
	if _, err := fmt.Sscanf(parts[0], "%d", &createdAt); err != nil {
		return nil, fmt.Errorf("invalid createdAt in cursor: %w", err)
	}

	return &workflow.DraftCursor{
		CreatedAt: time.Unix(0, createdAt),
		ID:        parts[1],
	}, nil
}

func EncodeDraftCursor(cursor *workflow.DraftCursor) string {
	cs := fmt.Sprintf("%d|%s", cursor.CreatedAt.UnixNano(), cursor.ID)
	return base64.RawURLEncoding.EncodeToString([]byte(cs))
}
