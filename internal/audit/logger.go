package audit

import (
	"context"
	"errors"
	"sync"
	"time"

	"missiondonate.org/internal/ids"
	"missiondonate.org/internal/obs"
)

const writeTimeout = 5 * time.Second

// Logger dispatches entries to a Recorder through a bounded queue so the
// authorization decision path is never slowed by audit-store latency.
// Delivery is at-most-once: a full queue or a failed write drops the entry
// and reports it to local diagnostics only.
type Logger struct {
	sink Recorder

	mu     sync.Mutex
	queue  chan Entry
	done   chan struct{}
	closed bool
}

// NewLogger starts the background worker. queueSize caps how many entries
// may be buffered before new ones are dropped.
func NewLogger(sink Recorder, queueSize int) *Logger {
	if queueSize <= 0 {
		queueSize = 256
	}
	l := &Logger{
		sink:  sink,
		queue: make(chan Entry, queueSize),
		done:  make(chan struct{}),
	}
	go l.drain()
	return l
}

// Record enqueues the entry and returns immediately. It never returns an
// error to the caller: failures must not alter the caller's control flow.
func (l *Logger) Record(_ context.Context, entry Entry) error {
	normalize(&entry)
	if entry.ID == "" {
		entry.ID = ids.New()
	}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		l.drop(entry, errors.New("audit logger closed"))
		return nil
	}
	select {
	case l.queue <- entry:
		l.mu.Unlock()
	default:
		l.mu.Unlock()
		l.drop(entry, errors.New("audit queue full"))
	}
	return nil
}

// Close stops accepting entries, flushes what is already queued and waits
// for the worker to exit.
func (l *Logger) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()
	<-l.done
}

func (l *Logger) drain() {
	defer close(l.done)
	for entry := range l.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := l.sink.Record(ctx, entry)
		cancel()
		if err != nil {
			l.drop(entry, err)
		}
	}
}

func (l *Logger) drop(entry Entry, err error) {
	obs.ObserveAuditDropped()
	obs.Errorf("audit entry dropped", err, map[string]any{
		"action":   entry.Action,
		"resource": entry.Resource,
		"level":    string(entry.Level),
	})
}
