package service

import (
	"sync"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.NotificationShower = (*Notifier)(nil)

// A Notifier holds at most one open notification and closes it after ttl.
//
// Each Show bumps a generation counter; an expiring timer only closes the
// notification of its own generation, so a timer that already fired while
// being stopped cannot close a newer notification.
//
// Every state change is stamped with a sequence number while mu is held.
// Subscribers skip states older than the last one they saw, so concurrent
// changes published out of order never leave a subscriber on a stale state.
type Notifier struct {
	ttl time.Duration
	bus port.EventBus

	mu      sync.Mutex
	current domain.Notification
	timer   *time.Timer
	gen     uint64
	seq     uint64
}

type notificationChange struct {
	seq   uint64
	state domain.Notification
}

func NewNotifier(ttl time.Duration, bus port.EventBus) *Notifier {
	if ttl <= 0 {
		ttl = domain.DefaultNotificationTTL
	}
	return &Notifier{ttl: ttl, bus: bus}
}

func (n *Notifier) Show(message string, severity domain.Severity) {
	if severity == "" {
		severity = domain.SeveritySuccess
	}

	n.mu.Lock()
	n.stopTimer()
	n.gen++
	gen := n.gen
	n.current = domain.Notification{
		Open:     true,
		Message:  message,
		Severity: severity,
	}
	n.timer = time.AfterFunc(n.ttl, func() { n.expire(gen) })
	change := n.change()
	n.mu.Unlock()

	n.publish(change)
}

func (n *Notifier) Hide() {
	n.mu.Lock()
	n.stopTimer()
	n.gen++
	if !n.current.Open {
		n.mu.Unlock()
		return
	}
	n.current = domain.Notification{}
	change := n.change()
	n.mu.Unlock()

	n.publish(change)
}

func (n *Notifier) Current() domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Subscribe calls fn with every notification state change.
func (n *Notifier) Subscribe(fn func(domain.Notification)) (unsubscribe func()) {
	if n.bus == nil {
		return func() {}
	}
	var (
		mu   sync.Mutex
		last uint64
	)
	return n.bus.Subscribe(domain.TopicNotificationChanged, func(p any) {
		c, ok := p.(notificationChange)
		if !ok {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if c.seq <= last {
			return
		}
		last = c.seq
		fn(c.state)
	})
}

func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen {
		n.mu.Unlock()
		return
	}
	n.timer = nil
	n.current = domain.Notification{}
	change := n.change()
	n.mu.Unlock()

	n.publish(change)
}

// change must be called with mu held.
func (n *Notifier) change() notificationChange {
	n.seq++
	return notificationChange{seq: n.seq, state: n.current}
}

// stopTimer must be called with mu held.
func (n *Notifier) stopTimer() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) publish(v notificationChange) {
	if n.bus != nil {
		n.bus.Publish(domain.TopicNotificationChanged, v)
	}
}
