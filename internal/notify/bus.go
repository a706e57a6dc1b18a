// Package notify broadcasts payload-free change signals to in-process listeners and,
// optionally, to other instances through a Relay.
//
// A signal carries no data. Listeners are expected to re-read the state they care about
// when they are called.
package notify

import (
	"context"
	"sync"
	"time"

	"golang-storefront/pkg/metrics"

	"go.uber.org/zap"
)

const relayPublishTimeout = 2 * time.Second

// Listener is called once per broadcast of the signal it subscribed to.
type Listener func()

type subscription struct {
	id uint64
	fn Listener
}

// Bus owns the named signals of a process. A name exists only while it has listeners.
type Bus struct {
	logger *zap.Logger

	mu        sync.Mutex
	nextID    uint64
	listeners map[string][]subscription
	relay     Relay
}

func NewBus(logger *zap.Logger) *Bus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		logger:    logger,
		listeners: make(map[string][]subscription),
	}
}

// Subscribe registers fn for the named signal and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Bus) Subscribe(name string, fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.listeners[name] = append(b.listeners[name], subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.listeners[name]
		for i, sub := range subs {
			if sub.id != id {
				continue
			}
			subs = append(subs[:i:i], subs[i+1:]...)
			if len(subs) == 0 {
				delete(b.listeners, name)
			} else {
				b.listeners[name] = subs
			}
			return
		}
	}
}

// ListenerCount reports how many listeners the named signal currently has.
func (b *Bus) ListenerCount(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[name])
}

// Broadcast calls every local listener of name, in subscription order, on the calling
// goroutine, and then forwards the name to the relay if one is attached.
func (b *Bus) Broadcast(name string) {
	b.deliver(name)
	metrics.RecordNotification(name, "local")
	b.forward(name)
}

// Attach connects the bus to other instances. Local broadcasts are published through
// relay, and names received from relay are delivered to local listeners only. Attach
// blocks until ctx is done or the relay fails.
func (b *Bus) Attach(ctx context.Context, relay Relay) error {
	b.mu.Lock()
	b.relay = relay
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.relay = nil
		b.mu.Unlock()
	}()

	return relay.Run(ctx, func(name string) {
		if b.deliver(name) {
			metrics.RecordNotification(name, "relay")
		}
	})
}

func (b *Bus) deliver(name string) bool {
	b.mu.Lock()
	subs := b.listeners[name]
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	b.mu.Unlock()

	for _, sub := range snapshot {
		sub.fn()
	}
	return len(snapshot) > 0
}

func (b *Bus) forward(name string) {
	b.mu.Lock()
	relay := b.relay
	b.mu.Unlock()
	if relay == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), relayPublishTimeout)
	defer cancel()

	if err := relay.Publish(ctx, name); err != nil {
		b.logger.Warn("relay publish failed", zap.String("signal", name), zap.Error(err))
	}
}
