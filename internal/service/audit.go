package service

import (
	"context"
	"sync"
	"time"

	"github.com/labstack/gommon/log"

	"garage/internal/model"
	"garage/internal/repository"
)

const (
	auditBatchSize     = 10
	auditFlushInterval = time.Second
)

// RequestMeta identifies the caller of an auth operation in the event log.
type RequestMeta struct {
	RemoteIP  string
	RequestID string
}

// AuditLog writes auth events in the background, in batches.
type AuditLog struct {
	repo   repository.AuthEventRepository
	events chan model.AuthEvent
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
}

// NewAuditLog starts the background writer. Close flushes it.
func NewAuditLog(repo repository.AuthEventRepository) *AuditLog {
	a := &AuditLog{
		repo:   repo,
		events: make(chan model.AuthEvent, 100),
		done:   make(chan struct{}),
	}
	go a.worker()
	return a
}

func (a *AuditLog) worker() {
	defer close(a.done)

	ctx := context.Background()
	batch := make([]model.AuthEvent, 0, auditBatchSize)
	ticker := time.NewTicker(auditFlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := a.repo.CreateBatch(ctx, batch); err != nil {
			log.Warnf("auth events: dropped %d: %v", len(batch), err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case ev, ok := <-a.events:
			if !ok {
				flush()
				return
			}
			batch = append(batch, ev)
			if len(batch) >= auditBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// Record queues an event. When the queue is full, or the log is closed,
// it is written synchronously. A nil AuditLog discards events.
func (a *AuditLog) Record(ctx context.Context, ev model.AuthEvent) {
	if a == nil {
		return
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}

	a.mu.RLock()
	queued := false
	if !a.closed {
		select {
		case a.events <- ev:
			queued = true
		default:
		}
	}
	a.mu.RUnlock()

	if !queued {
		a.write(ctx, &ev)
	}
}

func (a *AuditLog) write(ctx context.Context, ev *model.AuthEvent) {
	if err := a.repo.Create(ctx, ev); err != nil {
		log.Warnf("auth events: %v", err)
	}
}

// Close stops queueing events and waits until queued ones are written
// or ctx is done. Events recorded afterwards are written synchronously.
func (a *AuditLog) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.events)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
