package service_test

import (
	"context"
	"sync"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

type MockKeyValueStore struct {
	mock.Mock
}

func (m *MockKeyValueStore) Get(
	ctx context.Context, key string,
) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockKeyValueStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockKeyValueStore) Close() error {
	return m.Called().Error(0)
}

type MockImageGenerator struct {
	mock.Mock
	configErr error
}

func (m *MockImageGenerator) Configured() error {
	return m.configErr
}

func (m *MockImageGenerator) GenerateTryOnImage(
	ctx context.Context, person, garment domain.Image,
) (domain.Image, error) {
	args := m.Called(ctx, person, garment)
	return args.Get(0).(domain.Image), args.Error(1)
}

type MockImageFetcher struct {
	mock.Mock
}

func (m *MockImageFetcher) FetchImage(
	ctx context.Context, url string,
) (domain.Image, error) {
	args := m.Called(ctx, url)
	return args.Get(0).(domain.Image), args.Error(1)
}

type MockCatalogEventsProducer struct {
	mock.Mock
}

func (m *MockCatalogEventsProducer) ProduceEvent(
	ctx context.Context, ev domain.Event,
) error {
	return m.Called(ctx, ev).Error(0)
}

// recordingNotifier keeps every shown message in order.
type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recordingNotifier) Show(message string, _ domain.Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, message)
}

func (n *recordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.msgs...)
}

// emptyKV answers every Get as missing and accepts every Set.
func emptyKV() *MockKeyValueStore {
	kv := new(MockKeyValueStore)
	kv.On("Get", mock.Anything, mock.Anything).Return("", false, nil)
	kv.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	return kv
}
