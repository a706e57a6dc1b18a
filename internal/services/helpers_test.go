package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"golang-storefront/internal/models"
	"golang-storefront/internal/notify"
	"golang-storefront/internal/repositories"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var decimalComparer = cmp.Comparer(func(x, y decimal.Decimal) bool {
	return x.Equal(y)
})

func randomProduct() models.Product {
	return models.Product{
		ProductID: gofakeit.UUID(),
		Title:     gofakeit.ProductName(),
		Category:  gofakeit.ProductCategory(),
		Price:     decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Stock:     gofakeit.IntRange(1, 50),
		Image:     models.ImageRef{gofakeit.URL(), gofakeit.URL()},
	}
}

func productWithPrice(id string, price int64) models.Product {
	p := randomProduct()
	p.ProductID = id
	p.Price = decimal.NewFromInt(price)
	return p
}

func assertCart(t *testing.T, expected, actual models.CartCollection) {
	t.Helper()

	diff := cmp.Diff(expected, actual, decimalComparer)
	assert.Empty(t, diff)
}

// counter counts broadcasts of one signal.
type counter struct {
	n atomic.Int64
}

func (c *counter) listen() { c.n.Add(1) }

func (c *counter) count() int { return int(c.n.Load()) }

// failingKV fails every call with err.
type failingKV struct {
	err error
}

func (f failingKV) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingKV) Set(context.Context, string, []byte) error   { return f.err }
func (f failingKV) Delete(context.Context, string) error        { return f.err }

var errBackendDown = errors.New("backend down")

// rawKV wraps a KVStore and records the keys written.
type rawKV struct {
	repositories.KVStore

	mu      sync.Mutex
	written []string
}

func (r *rawKV) Set(ctx context.Context, key string, value []byte) error {
	r.mu.Lock()
	r.written = append(r.written, key)
	r.mu.Unlock()
	return r.KVStore.Set(ctx, key, value)
}

func newTestCart(t *testing.T) (*CartService, *CartStore, *notify.Bus) {
	t.Helper()

	bus := notify.NewBus(nil)
	store := NewCartStore(repositories.NewMemoryKVStore(), "cartItems", bus, "cartUpdated", nil)
	return NewCartService(store, bus, nil), store, bus
}
