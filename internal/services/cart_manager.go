package services

import (
	"sync"

	"golang-storefront/internal/notify"
	"golang-storefront/internal/repositories"

	"go.uber.org/zap"
)

// CartManager hands out the cart of each shopper. All carts live in one KVStore under
// "<key>:<scope>" and signal "<signal>:<scope>".
type CartManager struct {
	kv      repositories.KVStore
	bus     *notify.Bus
	key     string
	signal  string
	locks   *keyedMutex
	pricing Pricing
	logger  *zap.Logger
}

func NewCartManager(kv repositories.KVStore, bus *notify.Bus, key, signal string, pricing Pricing, logger *zap.Logger) *CartManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartManager{
		kv:      kv,
		bus:     bus,
		key:     key,
		signal:  signal,
		locks:   newKeyedMutex(),
		pricing: pricing,
		logger:  logger,
	}
}

func (m *CartManager) Pricing() Pricing {
	return m.pricing
}

// ForScope returns the cart of one shopper. The empty scope addresses the unscoped key.
func (m *CartManager) ForScope(scope string) *CartService {
	key, signal := m.key, m.signal
	if scope != "" {
		key += ":" + scope
		signal += ":" + scope
	}

	store := NewCartStore(m.kv, key, m.bus, signal, m.logger)
	return newCartService(store, m.bus, m.locks, m.pricing, m.logger)
}

// keyedMutex serializes work per key. Entries are dropped once nobody holds or waits for
// them, so the map only grows with concurrent keys.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refMutex)}
}

// Lock blocks until key is free and returns the matching unlock function.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()

	return func() {
		m.Unlock()

		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
