package export

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/a3tai/mcp-pdf-formdesigner/internal/metrics"
)

// retainedResults bounds how many finished results stay waitable
const retainedResults = 16

// ErrUnknownToken is returned by Wait for a token that was never issued or
// whose result is no longer retained
var ErrUnknownToken = errors.New("unknown export token")

// Renderer is the export step run by a Dispatcher
type Renderer interface {
	Export(ctx context.Context, req Request) (*Document, error)
}

// Result is the outcome of one submitted export
type Result struct {
	Token    uint64    `json:"token"`
	Document *Document `json:"document,omitempty"`
	Err      error     `json:"-"`
	// Stale is true when a newer export had already been adopted
	Stale bool `json:"stale"`
}

type pending struct {
	done   chan struct{}
	result Result
}

// Dispatcher runs exports asynchronously. Every submission gets a
// monotonically increasing token; a completion is adopted only when its
// token is newer than the adopted one, so late results of superseded
// snapshots are dropped.
type Dispatcher struct {
	renderer Renderer
	timeout  time.Duration
	logger   *zap.Logger
	metrics  *metrics.Metrics

	mu       sync.Mutex
	issued   uint64
	adopted  uint64
	latest   *Document
	pending  map[uint64]*pending
	finished []uint64
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher. A zero timeout disables the per-export
// deadline.
func NewDispatcher(renderer Renderer, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		renderer: renderer,
		timeout:  timeout,
		logger:   logger,
		metrics:  m,
		pending:  make(map[uint64]*pending),
	}
}

// Submit starts exporting req and returns its token immediately
func (d *Dispatcher) Submit(req Request) uint64 {
	token, _ := d.submit(req)
	return token
}

func (d *Dispatcher) submit(req Request) (uint64, *pending) {
	d.mu.Lock()
	d.issued++
	token := d.issued
	p := &pending{done: make(chan struct{})}
	d.pending[token] = p
	d.mu.Unlock()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.run(token, p, req)
	}()
	return token, p
}

func (d *Dispatcher) run(token uint64, p *pending, req Request) {
	ctx := context.Background()
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	doc, err := d.renderer.Export(ctx, req)

	d.mu.Lock()
	defer d.mu.Unlock()

	p.result = Result{Token: token, Document: doc, Err: err}
	switch {
	case err != nil:
		d.logger.Warn("export failed", zap.Uint64("token", token), zap.Error(err))
	case token > d.adopted:
		d.adopted = token
		d.latest = doc
	default:
		p.result.Stale = true
		d.metrics.RecordStaleExport()
		d.logger.Debug("dropping stale export",
			zap.Uint64("token", token), zap.Uint64("adopted", d.adopted))
	}
	close(p.done)

	d.finished = append(d.finished, token)
	for len(d.finished) > retainedResults {
		delete(d.pending, d.finished[0])
		d.finished = d.finished[1:]
	}
}

// Wait blocks until the export with token completes or ctx ends
func (d *Dispatcher) Wait(ctx context.Context, token uint64) (Result, error) {
	d.mu.Lock()
	p, ok := d.pending[token]
	d.mu.Unlock()
	if !ok {
		return Result{}, fmt.Errorf("%w: %d", ErrUnknownToken, token)
	}
	return d.wait(ctx, p)
}

func (d *Dispatcher) wait(ctx context.Context, p *pending) (Result, error) {
	select {
	case <-p.done:
		d.mu.Lock()
		defer d.mu.Unlock()
		return p.result, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Export submits req and waits for it. The caller holds its own result, so
// eviction of retained results by later submissions cannot lose it.
func (d *Dispatcher) Export(ctx context.Context, req Request) (Result, error) {
	_, p := d.submit(req)
	return d.wait(ctx, p)
}

// Latest returns the most recent adopted document and its token
func (d *Dispatcher) Latest() (*Document, uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest, d.adopted
}

// Issued returns the newest token handed out
func (d *Dispatcher) Issued() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.issued
}

// Close waits for every in-flight export to finish
func (d *Dispatcher) Close() {
	d.wg.Wait()
}
