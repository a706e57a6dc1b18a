package services

import (
	"context"
	"errors"
	"math"

	"golang-storefront/internal/models"
	"golang-storefront/internal/notify"
	"golang-storefront/pkg/metrics"

	"go.uber.org/zap"
)

var (
	ErrProductIDRequired = errors.New("product ID is required")
	ErrQuantityPositive  = errors.New("quantity must be positive")
)

// CartService applies the cart rules on top of a CartStore. Every mutation is one
// read-modify-write of the whole collection, serialized per cart key.
type CartService struct {
	store   *CartStore
	bus     *notify.Bus
	locks   *keyedMutex
	pricing Pricing
	logger  *zap.Logger
}

// NewCartService returns a service for a single cart priced with DefaultPricing. Services
// created by a CartManager share their locks; a standalone service only serializes its own
// calls.
func NewCartService(store *CartStore, bus *notify.Bus, logger *zap.Logger) *CartService {
	return newCartService(store, bus, newKeyedMutex(), DefaultPricing(), logger)
}

func newCartService(store *CartStore, bus *notify.Bus, locks *keyedMutex, pricing Pricing, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		store:   store,
		bus:     bus,
		locks:   locks,
		pricing: pricing,
		logger:  logger,
	}
}

// Load returns the current collection.
func (s *CartService) Load(ctx context.Context) (models.CartCollection, error) {
	return s.store.Load(ctx)
}

// Summary prices the current collection. promoCode may be empty.
func (s *CartService) Summary(ctx context.Context, promoCode string) (CartSummary, error) {
	cart, err := s.store.Load(ctx)
	if err != nil {
		return CartSummary{}, err
	}
	return s.pricing.Summarize(cart, promoCode), nil
}

// Subscribe registers fn to run after every change to this cart. fn should call Load to
// see the new state.
func (s *CartService) Subscribe(fn notify.Listener) func() {
	if s.bus == nil {
		return func() {}
	}
	return s.bus.Subscribe(s.store.Signal(), fn)
}

// AddToCart merges quantity into the line for product, or appends a new line that
// snapshots the product's price, list price, descriptive fields and primary image.
func (s *CartService) AddToCart(ctx context.Context, product models.Product, quantity int) error {
	if product.ProductID == "" {
		return ErrProductIDRequired
	}
	if quantity < 1 {
		return ErrQuantityPositive
	}

	return s.mutate(ctx, "add", func(cart models.CartCollection) models.CartCollection {
		if i := cart.Index(product.ProductID); i >= 0 {
			cart[i].Quantity = addQuantity(cart[i].Quantity, quantity)
			return cart
		}
		return append(cart, newCartLine(product, quantity))
	})
}

// RemoveFromCart drops the line for productID. A missing line is not an error.
func (s *CartService) RemoveFromCart(ctx context.Context, productID string) error {
	return s.mutate(ctx, "remove", func(cart models.CartCollection) models.CartCollection {
		return removeLine(cart, productID)
	})
}

// UpdateQuantity sets the quantity of the line for productID. A quantity below 1 removes
// the line. A missing line is not created.
func (s *CartService) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	return s.mutate(ctx, "update", func(cart models.CartCollection) models.CartCollection {
		if quantity < 1 {
			return removeLine(cart, productID)
		}
		if i := cart.Index(productID); i >= 0 {
			cart[i].Quantity = quantity
		}
		return cart
	})
}

// ChangeQuantityBy adds delta to the line's quantity, never going below 1. Large deltas
// saturate at math.MaxInt.
func (s *CartService) ChangeQuantityBy(ctx context.Context, productID string, delta int) error {
	return s.mutate(ctx, "change", func(cart models.CartCollection) models.CartCollection {
		if i := cart.Index(productID); i >= 0 {
			cart[i].Quantity = max(1, addQuantity(cart[i].Quantity, delta))
		}
		return cart
	})
}

// ClearCart removes the persisted cart entirely.
func (s *CartService) ClearCart(ctx context.Context) error {
	unlock := s.locks.Lock(s.store.Key())
	err := s.store.remove(ctx)
	unlock()

	metrics.RecordCartOperation("clear", err)
	if err != nil {
		return err
	}

	s.store.notify()
	return nil
}

// mutate runs one read-modify-write under the cart's lock. The change signal fires after
// the lock is released so listeners may read or even change the cart.
func (s *CartService) mutate(ctx context.Context, op string, fn func(models.CartCollection) models.CartCollection) error {
	unlock := s.locks.Lock(s.store.Key())
	err := func() error {
		cart, err := s.store.Load(ctx)
		if err != nil {
			return err
		}
		return s.store.write(ctx, fn(cart))
	}()
	unlock()

	metrics.RecordCartOperation(op, err)
	if err != nil {
		s.logger.Error("cart operation failed",
			zap.String("operation", op),
			zap.String("key", s.store.Key()),
			zap.Error(err),
		)
		return err
	}

	s.store.notify()
	return nil
}

func newCartLine(product models.Product, quantity int) models.CartLine {
	return models.CartLine{
		ProductID:    product.ProductID,
		Title:        product.Title,
		Category:     product.Category,
		Stock:        product.Stock,
		UnitPrice:    product.Price,
		ListPrice:    product.LabeledPrice,
		DisplayImage: product.Image.Primary(),
		Quantity:     quantity,
	}
}

// addQuantity returns a+b clamped to the int range.
func addQuantity(a, b int) int {
	switch {
	case b > 0 && a > math.MaxInt-b:
		return math.MaxInt
	case b < 0 && a < math.MinInt-b:
		return math.MinInt
	}
	return a + b
}

func removeLine(cart models.CartCollection, productID string) models.CartCollection {
	out := cart[:0]
	for _, line := range cart {
		if line.ProductID != productID {
			out = append(out, line)
		}
	}
	return out
}
