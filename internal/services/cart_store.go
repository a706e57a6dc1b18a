package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"golang-storefront/internal/models"
	"golang-storefront/internal/notify"
	"golang-storefront/internal/repositories"

	"go.uber.org/zap"
)

// CartStore reads and writes one serialized cart collection under a single key and fires
// the change signal after every write or erase.
type CartStore struct {
	kv     repositories.KVStore
	key    string
	bus    *notify.Bus
	signal string
	logger *zap.Logger
}

func NewCartStore(kv repositories.KVStore, key string, bus *notify.Bus, signal string, logger *zap.Logger) *CartStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartStore{
		kv:     kv,
		key:    key,
		bus:    bus,
		signal: signal,
		logger: logger,
	}
}

func (s *CartStore) Key() string {
	return s.key
}

// Signal is the name of the change signal fired by this store.
func (s *CartStore) Signal() string {
	return s.signal
}

// Load returns the persisted collection. An absent key or a value that does not decode
// yields an empty collection; only a failing storage backend returns an error. Lines
// written by other writers are normalized: duplicates merge into the first line for the
// product, and lines without a product ID or with a quantity below 1 are dropped.
func (s *CartStore) Load(ctx context.Context) (models.CartCollection, error) {
	raw, err := s.kv.Get(ctx, s.key)
	if errors.Is(err, repositories.ErrKeyNotFound) {
		return models.CartCollection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("kv.Get: %w", err)
	}

	var cart models.CartCollection
	if err := json.Unmarshal(raw, &cart); err != nil {
		s.logger.Warn("discarding unreadable cart", zap.String("key", s.key), zap.Error(err))
		return models.CartCollection{}, nil
	}
	normalized := normalizeCart(cart)
	if len(normalized) != len(cart) {
		s.logger.Warn("normalized stored cart",
			zap.String("key", s.key),
			zap.Int("stored_lines", len(cart)),
			zap.Int("kept_lines", len(normalized)),
		)
	}
	return normalized, nil
}

func normalizeCart(cart models.CartCollection) models.CartCollection {
	out := make(models.CartCollection, 0, len(cart))
	for _, line := range cart {
		if line.ProductID == "" || line.Quantity < 1 {
			continue
		}
		if i := out.Index(line.ProductID); i >= 0 {
			out[i].Quantity = addQuantity(out[i].Quantity, line.Quantity)
			continue
		}
		out = append(out, line)
	}
	return out
}

// Store replaces the persisted collection and fires one change signal.
func (s *CartStore) Store(ctx context.Context, cart models.CartCollection) error {
	if err := s.write(ctx, cart); err != nil {
		return err
	}
	s.notify()
	return nil
}

// Erase removes the key itself and fires one change signal.
func (s *CartStore) Erase(ctx context.Context) error {
	if err := s.remove(ctx); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *CartStore) write(ctx context.Context, cart models.CartCollection) error {
	if cart == nil {
		cart = models.CartCollection{}
	}

	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := s.kv.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("kv.Set: %w", err)
	}
	return nil
}

func (s *CartStore) remove(ctx context.Context) error {
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("kv.Delete: %w", err)
	}
	return nil
}

func (s *CartStore) notify() {
	if s.bus != nil {
		s.bus.Broadcast(s.signal)
	}
}
