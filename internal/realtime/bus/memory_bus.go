package bus

import (
	"context"
	"sync"

	"github.com/lunacare/lunacare-backend/internal/platform/logger"
	"github.com/lunacare/lunacare-backend/internal/realtime"
)

// memoryBus is the single-instance fallback used when no REDIS_ADDR is
// configured (development, tests). Same delivery contract, no cross-instance
// fanout.
type memoryBus struct {
	log *logger.Logger

	mu        sync.RWMutex
	forwarder func(m realtime.Message)
	closed    bool
}

func NewMemoryBus(log *logger.Logger) Bus {
	return &memoryBus{log: log.With("service", "MemoryEventBus")}
}

// NewEventBus prefers Redis and falls back to the in-process bus.
func NewEventBus(log *logger.Logger) Bus {
	b, err := NewRedisBus(log)
	if err != nil {
		log.Warn("Redis event bus unavailable; using in-process bus", "error", err)
		return NewMemoryBus(log)
	}
	return b
}

func (b *memoryBus) Publish(_ context.Context, msg realtime.Message) error {
	b.mu.RLock()
	fwd := b.forwarder
	closed := b.closed
	b.mu.RUnlock()

	if closed || fwd == nil {
		return nil
	}
	fwd(msg)
	return nil
}

func (b *memoryBus) StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error {
	b.mu.Lock()
	b.forwarder = onMsg
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		b.forwarder = nil
		b.mu.Unlock()
	}()
	return nil
}

func (b *memoryBus) Close() error {
	b.mu.Lock()
	b.closed = true
	b.forwarder = nil
	b.mu.Unlock()
	return nil
}
