package ocr

import (
	"context"
	"errors"
	"sync"
)

// ErrReleased is returned by a Managed engine after Release has been called.
var ErrReleased = errors.New("ocr: engine released")

// Managed owns an engine whose worker is expensive to start. The factory runs
// at most once, on first use, no matter how many callers race the first
// recognition; every caller observes the same engine or the same construction
// error. Release tears the worker down and is safe to call more than once.
type Managed struct {
	factory func() (Engine, error)

	mu       sync.Mutex
	engine   Engine
	initErr  error
	started  bool
	released bool
}

// NewManaged wraps factory in a lazily-initialized, releasable engine handle.
func NewManaged(factory func() (Engine, error)) *Managed {
	return &Managed{factory: factory}
}

// Name identifies the underlying engine when started, or the handle itself.
func (m *Managed) Name() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.engine != nil {
		return m.engine.Name()
	}
	return "managed"
}

// Recognize acquires the underlying engine (starting it on first use) and
// delegates to it.
func (m *Managed) Recognize(ctx context.Context, in Input) (Result, error) {
	eng, err := m.acquire()
	if err != nil {
		return Result{}, err
	}
	return eng.Recognize(ctx, in)
}

func (m *Managed) acquire() (Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return nil, ErrReleased
	}
	if !m.started {
		m.started = true
		m.engine, m.initErr = m.factory()
	}
	if m.initErr != nil {
		return nil, m.initErr
	}
	return m.engine, nil
}

// Release shuts the underlying worker down. Subsequent Recognize calls return
// ErrReleased; repeated Release calls are no-ops.
func (m *Managed) Release() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return nil
	}
	m.released = true
	if m.engine == nil {
		return nil
	}
	eng := m.engine
	m.engine = nil
	if c, ok := eng.(CloseableEngine); ok {
		return c.Close()
	}
	return nil
}
