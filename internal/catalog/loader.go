package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/noah-isme/shopfront/internal/obs"
)

// State describes where the loader is in its fetch cycle.
type State string

const (
	// StateLoading is the initial state and the state after every
	// re-activation, until the fetch resolves.
	StateLoading State = "loading"
	// StateReady means products are populated and no error is pending.
	StateReady State = "ready"
	// StateFailed means the fetch failed; Err carries a display message.
	StateFailed State = "failed"
)

// Snapshot is the loader's observable state. Raw errors never cross this
// boundary; consumers only see a message string.
type Snapshot struct {
	State    State
	Products []Product
	Err      string
}

// Loader drives one asynchronous fetch of the product list per activation.
// A monotonic generation counter suppresses stale results: a fetch that
// resolves after a newer activation, or after Close, is discarded without a
// state change.
type Loader struct {
	mu       sync.Mutex
	provider Provider
	gen      uint64
	closed   bool
	cancel   context.CancelFunc
	state    State
	products []Product
	errMsg   string
}

// NewLoader constructs a loader over the given provider. The loader starts
// in StateLoading; call Load to begin the first fetch.
func NewLoader(provider Provider) *Loader {
	return &Loader{provider: provider, state: StateLoading}
}

// Load activates a fetch. Any prior in-flight fetch is cancelled and its
// result, should it still arrive, discarded. Calling Load after Close is a
// no-op.
func (l *Loader) Load(ctx context.Context) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.gen++
	gen := l.gen
	if l.cancel != nil {
		l.cancel()
	}
	fetchCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.state = StateLoading
	l.errMsg = ""
	provider := l.provider
	l.mu.Unlock()

	go l.fetch(fetchCtx, provider, gen)
}

func (l *Loader) fetch(ctx context.Context, provider Provider, gen uint64) {
	start := time.Now()
	products, err := provider.List(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || gen != l.gen {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
		l.state = StateFailed
		l.products = nil
		l.errMsg = err.Error()
	} else {
		l.state = StateReady
		l.products = products
		l.errMsg = ""
	}
	if obs.CatalogLoadTotal != nil {
		obs.CatalogLoadTotal.WithLabelValues(result).Inc()
	}
	if obs.CatalogFetchLatency != nil {
		obs.CatalogFetchLatency.WithLabelValues("list").Observe(obs.DurationMillis(time.Since(start)))
	}
}

// Snapshot returns the current state with a defensive copy of the product
// list.
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	products := make([]Product, len(l.products))
	copy(products, l.products)
	return Snapshot{State: l.state, Products: products, Err: l.errMsg}
}

// Ready reports whether the last fetch succeeded.
func (l *Loader) Ready() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state == StateReady
}

// Close tears the loader down. In-flight fetches are cancelled and their
// results discarded silently; no state update is applied afterwards.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.closed = true
	if l.cancel != nil {
		l.cancel()
	}
}
