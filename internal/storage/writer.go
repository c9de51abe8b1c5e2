package storage

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/form"
)

// Writer persists the design in the background. Each key holds at most one
// pending value; a newer value replaces an unwritten older one. Failures are
// logged and never reach the caller.
type Writer struct {
	store   *Store
	timeout time.Duration
	logger  *zap.Logger

	mu      sync.Mutex
	fields  *form.List
	config  *form.TextConfig
	wake    chan struct{}
	closed  bool
	done    chan struct{}
	flushed *sync.Cond
	busy    bool
}

// NewWriter starts a background writer for store
func NewWriter(store *Store, timeout time.Duration, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	w := &Writer{
		store:   store,
		timeout: timeout,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	w.flushed = sync.NewCond(&w.mu)
	go w.loop()
	return w
}

// SaveFields queues the field list
func (w *Writer) SaveFields(fields form.List) {
	snapshot := fields.Clone()
	if snapshot == nil {
		snapshot = form.List{}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.fields = &snapshot
	w.signal()
}

// SaveTextConfig queues the text config
func (w *Writer) SaveTextConfig(cfg form.TextConfig) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.config = &cfg
	w.signal()
}

// signal must be called with mu held
func (w *Writer) signal() {
	if w.closed {
		return
	}
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush blocks until every queued value has been written
func (w *Writer) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for (w.fields != nil || w.config != nil || w.busy) && !w.closed {
		w.flushed.Wait()
	}
}

// Close writes what is queued and stops the writer
func (w *Writer) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.wake)
	w.mu.Unlock()
	<-w.done
}

func (w *Writer) loop() {
	defer close(w.done)
	for range w.wake {
		w.drain()
	}
	w.drain()
}

func (w *Writer) drain() {
	for {
		w.mu.Lock()
		fields, config := w.fields, w.config
		w.fields, w.config = nil, nil
		if fields == nil && config == nil {
			w.busy = false
			w.flushed.Broadcast()
			w.mu.Unlock()
			return
		}
		w.busy = true
		w.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
		if fields != nil {
			if err := w.store.SaveFields(ctx, *fields); err != nil {
				w.logger.Warn("failed to persist fields", zap.Error(err))
			}
		}
		if config != nil {
			if err := w.store.SaveTextConfig(ctx, *config); err != nil {
				w.logger.Warn("failed to persist text config", zap.Error(err))
			}
		}
		cancel()
	}
}
