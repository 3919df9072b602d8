// Package audit appends authorization and security events to an append-only
// store. Recording is best-effort: a lost entry is tolerated, a blocked
// request is not.
package audit

import (
	"context"
	"strings"
	"time"
)

// Level classifies an entry for later review.
type Level string

const (
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Entry is one immutable audit row. ActorID is empty for anonymous requests
// and ResourceID is empty when the event does not target a single instance.
type Entry struct {
	ID         string            `json:"id"`
	ActorID    string            `json:"actor_id,omitempty"`
	Action     string            `json:"action"`
	Resource   string            `json:"resource"`
	ResourceID string            `json:"resource_id,omitempty"`
	Details    map[string]string `json:"details,omitempty"`
	Level      Level             `json:"level"`
	IPAddress  string            `json:"ip_address,omitempty"`
	UserAgent  string            `json:"user_agent,omitempty"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Recorder persists entries. Implementations must treat entries as
// append-only and may be slow; callers who cannot block wrap a Recorder in a
// Logger.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(ctx context.Context, entry Entry) error

func (f RecorderFunc) Record(ctx context.Context, entry Entry) error {
	return f(ctx, entry)
}

func normalize(entry *Entry) {
	entry.Action = strings.TrimSpace(entry.Action)
	entry.Resource = strings.TrimSpace(entry.Resource)
	if entry.Level == "" {
		entry.Level = LevelInfo
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
}
