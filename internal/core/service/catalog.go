package service

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

const produceEventTimeout = 5 * time.Second

var _ port.ProductFinder = (*Catalog)(nil)

// A Catalog is the in-memory ordered product collection, newest first.
type Catalog struct {
	ids      port.ProductIDGenerator
	notifier port.NotificationShower
	bus      port.EventBus
	producer port.CatalogEventsProducer
	now      func() time.Time

	mu       sync.RWMutex
	products []domain.Product

	inflight sync.WaitGroup
}

type CatalogOpt func(*Catalog)

func CatalogIDGeneratorOpt(g port.ProductIDGenerator) CatalogOpt {
	return func(c *Catalog) {
		if g != nil {
			c.ids = g
		}
	}
}

// CatalogEventsProducerOpt forwards every mutation to an external stream.
func CatalogEventsProducerOpt(p port.CatalogEventsProducer) CatalogOpt {
	return func(c *Catalog) {
		c.producer = p
	}
}

func NewCatalog(
	notifier port.NotificationShower, bus port.EventBus, opts ...CatalogOpt,
) *Catalog {
	c := &Catalog{
		ids:      UUIDGenerator{},
		notifier: notifier,
		bus:      bus,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Seed replaces the collection without notifying anyone.
func (c *Catalog) Seed(ps []domain.Product) {
	cloned := make([]domain.Product, len(ps))
	for i, p := range ps {
		cloned[i] = p.Clone()
	}
	c.mu.Lock()
	c.products = cloned
	c.mu.Unlock()
}

// Add assigns a fresh identity to the draft and puts the product at the head.
func (c *Catalog) Add(draft domain.ProductDraft) domain.Product {
	p := draft.WithID(c.ids.NewProductID())

	c.mu.Lock()
	c.products = slices.Insert(c.products, 0, p)
	c.mu.Unlock()

	c.emit(domain.EventProductAdded, p.ID, &p)
	c.notifier.Show(domain.MsgProductAdded, domain.SeveritySuccess)
	return p.Clone()
}

// Update replaces the product with the same identity, keeping its position.
// An unknown identity leaves the collection untouched and reports false.
func (c *Catalog) Update(p domain.Product) bool {
	const op = "Catalog.Update"

	p = p.Clone()

	c.mu.Lock()
	i := c.indexOf(p.ID)
	if i >= 0 {
		c.products[i] = p
	}
	c.mu.Unlock()

	if i < 0 {
		slog.Warn("update of unknown product ignored", "op", op, "id", p.ID)
		return false
	}

	c.emit(domain.EventProductUpdated, p.ID, &p)
	c.notifier.Show(domain.MsgProductUpdated, domain.SeveritySuccess)
	return true
}

// Remove deletes the product when present. Removing an absent identity is
// not an error and is still acknowledged.
func (c *Catalog) Remove(id string) {
	c.mu.Lock()
	i := c.indexOf(id)
	if i >= 0 {
		c.products = slices.Delete(c.products, i, i+1)
	}
	c.mu.Unlock()

	if i >= 0 {
		c.emit(domain.EventProductRemoved, id, nil)
	}
	c.notifier.Show(domain.MsgProductRemoved, domain.SeveritySuccess)
}

// Products returns a snapshot of the collection in display order.
func (c *Catalog) Products() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ps := make([]domain.Product, len(c.products))
	for i, p := range c.products {
		ps[i] = p.Clone()
	}
	return ps
}

func (c *Catalog) Product(id string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i := c.indexOf(id)
	if i < 0 {
		return domain.Product{}, false
	}
	return c.products[i].Clone(), true
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.products)
}

// Subscribe calls fn after every catalog mutation.
func (c *Catalog) Subscribe(fn func(domain.Event)) (unsubscribe func()) {
	if c.bus == nil {
		return func() {}
	}
	return c.bus.Subscribe(domain.TopicCatalogChanged, func(p any) {
		if ev, ok := p.(domain.Event); ok {
			fn(ev)
		}
	})
}

// indexOf must be called with mu held.
func (c *Catalog) indexOf(id string) int {
	return slices.IndexFunc(c.products, func(p domain.Product) bool {
		return p.ID == id
	})
}

func (c *Catalog) emit(kind domain.EventKind, id string, p *domain.Product) {
	ev := domain.Event{Kind: kind, ProductID: id, At: c.now()}
	if p != nil {
		cloned := p.Clone()
		ev.Product = &cloned
	}

	if c.bus != nil {
		c.bus.Publish(domain.TopicCatalogChanged, ev)
	}

	if c.producer != nil {
		c.inflight.Add(1)
		go func() {
			defer c.inflight.Done()
			c.produce(ev)
		}()
	}
}

// Drain waits for events still being produced to the broker. It returns
// ctx.Err() when ctx is done first.
func (c *Catalog) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Catalog) produce(ev domain.Event) {
	const op = "Catalog.produce"

	ctx, cancel := context.WithTimeout(context.Background(), produceEventTimeout)
	defer cancel()

	if err := c.producer.ProduceEvent(ctx, ev); err != nil {
		slog.Error(
			"failed to produce catalog event",
			"op", op, "kind", ev.Kind, "id", ev.ProductID, "err", err,
		)
	}
}

// A UUIDGenerator issues time ordered identities.
type UUIDGenerator struct{}

func (UUIDGenerator) NewProductID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
