package service

import (
	"context"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// Settings holds the contact number shown on product cards.
type Settings struct {
	kv       port.KeyValueStore
	notifier port.NotificationShower
	bus      port.EventBus

	mu            sync.RWMutex
	contactNumber string
}

func NewSettings(
	ctx context.Context,
	kv port.KeyValueStore,
	notifier port.NotificationShower,
	bus port.EventBus,
) *Settings {
	return &Settings{
		kv:            kv,
		notifier:      notifier,
		bus:           bus,
		contactNumber: load(ctx, kv, domain.KeyContactNumber, ""),
	}
}

func (s *Settings) ContactNumber() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contactNumber
}

// SetContactNumber stores v verbatim. Digits are extracted where the contact
// link is built.
func (s *Settings) SetContactNumber(v string) {
	s.mu.Lock()
	s.contactNumber = v
	s.mu.Unlock()

	persist(s.kv, domain.KeyContactNumber, v)
	if s.bus != nil {
		s.bus.Publish(domain.TopicSettingsChanged, v)
	}
	s.notifier.Show(domain.MsgContactUpdated, domain.SeveritySuccess)
}
