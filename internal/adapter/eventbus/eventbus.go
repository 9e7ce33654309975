// Package eventbus delivers core change events to in-process subscribers.
package eventbus

import (
	"log/slog"
	"sync"

	evbus "github.com/asaskevich/EventBus"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.EventBus = (*Bus)(nil)

// A Bus registers one dispatcher per topic on the underlying bus and fans
// each payload out to the topic subscribers. Subscribers are tracked by id
// because the underlying bus identifies handlers by code pointer, which is
// shared by every closure built from the same literal.
type Bus struct {
	bus evbus.Bus

	mu     sync.RWMutex
	nextID uint64
	subs   map[string]map[uint64]func(any)
}

func New() *Bus {
	return &Bus{
		bus:  evbus.New(),
		subs: make(map[string]map[uint64]func(any)),
	}
}

// Publish hands payload to the topic subscribers. Delivery happens on a bus
// goroutine, in publish order per topic, so a subscriber may call back into
// the core without blocking the publisher.
func (b *Bus) Publish(topic string, payload any) {
	if !b.bus.HasCallback(topic) {
		return
	}
	b.bus.Publish(topic, payload)
}

func (b *Bus) Subscribe(topic string, fn func(payload any)) (unsubscribe func()) {
	const op = "Bus.Subscribe"

	b.mu.Lock()
	defer b.mu.Unlock()

	topicSubs, ok := b.subs[topic]
	if !ok {
		topicSubs = make(map[uint64]func(any))
		b.subs[topic] = topicSubs
		dispatch := func(payload any) { b.dispatch(topic, payload) }
		if err := b.bus.SubscribeAsync(topic, dispatch, true); err != nil {
			slog.Error("failed to register topic", "op", op, "topic", topic, "err", err)
		}
	}

	b.nextID++
	id := b.nextID
	topicSubs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[topic], id)
			b.mu.Unlock()
		})
	}
}

// Wait blocks until every published payload has been delivered.
func (b *Bus) Wait() {
	b.bus.WaitAsync()
}

func (b *Bus) dispatch(topic string, payload any) {
	b.mu.RLock()
	fns := make([]func(any), 0, len(b.subs[topic]))
	for _, fn := range b.subs[topic] {
		fns = append(fns, fn)
	}
	b.mu.RUnlock()

	for _, fn := range fns {
		fn(payload)
	}
}
