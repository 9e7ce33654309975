package service_test

import (
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/niksmo/storefront/internal/adapter/eventbus"
	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier(t *testing.T) {
	t.Run("ShowDefaultsToSuccess", func(t *testing.T) {
		n := service.NewNotifier(time.Minute, nil)
		n.Show("saved", "")

		got := n.Current()
		assert.True(t, got.Open)
		assert.Equal(t, "saved", got.Message)
		assert.Equal(t, domain.SeveritySuccess, got.Severity)
	})

	t.Run("AutoClose", func(t *testing.T) {
		n := service.NewNotifier(20*time.Millisecond, nil)
		n.Show("saved", domain.SeveritySuccess)

		require.Eventually(t, func() bool {
			return !n.Current().Open
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("Hide", func(t *testing.T) {
		n := service.NewNotifier(time.Minute, nil)
		n.Show("failed", domain.SeverityError)
		n.Hide()
		n.Hide()
		assert.False(t, n.Current().Open)
	})

	t.Run("SupersededTimerDoesNotFire", func(t *testing.T) {
		const ttl = 100 * time.Millisecond
		n := service.NewNotifier(ttl, nil)

		n.Show("A", domain.SeveritySuccess)
		time.Sleep(ttl / 2)
		n.Show("B", domain.SeveritySuccess)

		// A's window ends here; B must still be visible.
		time.Sleep(ttl/2 + ttl/4)
		got := n.Current()
		assert.True(t, got.Open)
		assert.Equal(t, "B", got.Message)

		require.Eventually(t, func() bool {
			return !n.Current().Open
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("HideCancelsTimer", func(t *testing.T) {
		const ttl = 30 * time.Millisecond
		n := service.NewNotifier(ttl, nil)

		n.Show("A", domain.SeveritySuccess)
		n.Hide()
		n.Show("B", domain.SeveritySuccess)
		time.Sleep(ttl / 2)

		assert.Equal(t, "B", n.Current().Message)
		assert.True(t, n.Current().Open)
	})

	t.Run("Subscribe", func(t *testing.T) {
		bus := eventbus.New()
		n := service.NewNotifier(time.Minute, bus)

		var (
			mu  sync.Mutex
			got []domain.Notification
		)
		unsubscribe := n.Subscribe(func(v domain.Notification) {
			mu.Lock()
			got = append(got, v)
			mu.Unlock()
		})

		n.Show("A", domain.SeverityError)
		n.Hide()
		bus.Wait()
		unsubscribe()
		n.Show("B", domain.SeveritySuccess)
		bus.Wait()

		mu.Lock()
		defer mu.Unlock()
		require.Len(t, got, 2)
		assert.Equal(t, domain.Notification{
			Open: true, Message: "A", Severity: domain.SeverityError,
		}, got[0])
		assert.False(t, got[1].Open)
	})

	t.Run("OutOfOrderDeliverySkipsStale", func(t *testing.T) {
		bus := new(reorderingBus)
		n := service.NewNotifier(time.Minute, bus)

		var got []domain.Notification
		n.Subscribe(func(v domain.Notification) { got = append(got, v) })

		n.Show("A", domain.SeveritySuccess)
		n.Show("B", domain.SeverityError)
		bus.deliverReversed()

		require.Len(t, got, 1)
		assert.Equal(t, n.Current(), got[0])
		assert.Equal(t, "B", got[0].Message)
	})

	t.Run("ConcurrentShowsEndOnCurrent", func(t *testing.T) {
		bus := eventbus.New()
		n := service.NewNotifier(time.Minute, bus)

		var (
			mu   sync.Mutex
			last domain.Notification
		)
		n.Subscribe(func(v domain.Notification) {
			mu.Lock()
			last = v
			mu.Unlock()
		})

		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				n.Show(strconv.Itoa(i), domain.SeveritySuccess)
			}()
		}
		wg.Wait()
		bus.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, n.Current(), last)
	})
}

// reorderingBus holds published payloads until deliverReversed hands them
// to the subscribers newest first.
type reorderingBus struct {
	payloads []any
	subs     []func(any)
}

func (b *reorderingBus) Publish(_ string, payload any) {
	b.payloads = append(b.payloads, payload)
}

func (b *reorderingBus) Subscribe(_ string, fn func(any)) func() {
	b.subs = append(b.subs, fn)
	return func() {}
}

func (b *reorderingBus) deliverReversed() {
	for i := len(b.payloads) - 1; i >= 0; i-- {
		for _, fn := range b.subs {
			fn(b.payloads[i])
		}
	}
}
