package services

import (
	"math"
	"sync"
	"testing"

	"golang-storefront/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type cartServiceSuite struct {
	suite.Suite

	cart   *CartService
	store  *CartStore
	events *counter
}

func TestCartServiceSuite(t *testing.T) {
	suite.Run(t, new(cartServiceSuite))
}

// before each test
func (suite *cartServiceSuite) SetupTest() {
	cart, store, bus := newTestCart(suite.T())
	suite.cart = cart
	suite.store = store
	suite.events = &counter{}
	bus.Subscribe(store.Signal(), suite.events.listen)
}

func (suite *cartServiceSuite) load() models.CartCollection {
	cart, err := suite.cart.Load(suite.T().Context())
	suite.Require().NoError(err)
	return cart
}

func (suite *cartServiceSuite) TestAddToCart() {
	tests := []struct {
		name      string
		product   models.Product
		quantity  int
		wantError error
	}{
		{
			name:     "add new product: ok",
			product:  randomProduct(),
			quantity: 2,
		},
		{
			name:      "empty product ID: error",
			product:   models.Product{Price: decimal.NewFromInt(10)},
			quantity:  1,
			wantError: ErrProductIDRequired,
		},
		{
			name:      "zero quantity: error",
			product:   randomProduct(),
			quantity:  0,
			wantError: ErrQuantityPositive,
		},
		{
			name:      "negative quantity: error",
			product:   randomProduct(),
			quantity:  -3,
			wantError: ErrQuantityPositive,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()
			before := suite.events.count()

			err := suite.cart.AddToCart(ctx, tt.product, tt.quantity)
			if tt.wantError != nil {
				require.ErrorIs(t, err, tt.wantError)
				assert.Equal(t, before, suite.events.count(), "rejected input must not notify")
				return
			}
			require.NoError(t, err)

			line, ok := suite.load().Find(tt.product.ProductID)
			require.True(t, ok)
			assert.Equal(t, tt.quantity, line.Quantity)
			assert.True(t, tt.product.Price.Equal(line.UnitPrice))
			assert.Equal(t, tt.product.Image[0], line.DisplayImage)
			assert.Equal(t, tt.product.Title, line.Title)
			assert.Equal(t, before+1, suite.events.count())
		})
	}
}

func (suite *cartServiceSuite) TestAddToCartMergesQuantities() {
	t := suite.T()
	ctx := t.Context()
	product := randomProduct()
	q1, q2 := gofakeit.IntRange(1, 10), gofakeit.IntRange(1, 10)

	require.NoError(t, suite.cart.AddToCart(ctx, product, q1))
	require.NoError(t, suite.cart.AddToCart(ctx, product, q2))

	cart := suite.load()
	require.Len(t, cart, 1)
	assert.Equal(t, q1+q2, cart[0].Quantity)
}

func (suite *cartServiceSuite) TestAddToCartSaturatesQuantity() {
	t := suite.T()
	ctx := t.Context()
	product := randomProduct()

	require.NoError(t, suite.cart.AddToCart(ctx, product, math.MaxInt))
	require.NoError(t, suite.cart.AddToCart(ctx, product, 1))
	require.NoError(t, suite.cart.ChangeQuantityBy(ctx, product.ProductID, math.MaxInt))

	line, ok := suite.load().Find(product.ProductID)
	require.True(t, ok)
	assert.Equal(t, math.MaxInt, line.Quantity)
}

func (suite *cartServiceSuite) TestAddQuantity() {
	t := suite.T()
	assert.Equal(t, 7, addQuantity(3, 4))
	assert.Equal(t, -1, addQuantity(3, -4))
	assert.Equal(t, math.MaxInt, addQuantity(math.MaxInt-1, 2))
	assert.Equal(t, math.MinInt, addQuantity(math.MinInt+1, -2))
}

func (suite *cartServiceSuite) TestAddToCartKeepsProductIDsUnique() {
	t := suite.T()
	ctx := t.Context()
	products := []models.Product{randomProduct(), randomProduct(), randomProduct()}

	for i := 0; i < 20; i++ {
		p := products[gofakeit.IntRange(0, len(products)-1)]
		require.NoError(t, suite.cart.AddToCart(ctx, p, gofakeit.IntRange(1, 3)))
	}

	seen := map[string]bool{}
	for _, line := range suite.load() {
		assert.False(t, seen[line.ProductID], "duplicate line for %s", line.ProductID)
		seen[line.ProductID] = true
		assert.GreaterOrEqual(t, line.Quantity, 1)
	}
}

func (suite *cartServiceSuite) TestAddToCartSnapshotsScalarImageAndListPrice() {
	t := suite.T()
	ctx := t.Context()

	product := randomProduct()
	product.Image = models.ImageRef{"https://cdn.example.com/only.png"}
	product.LabeledPrice = decimal.NewNullDecimal(product.Price.Add(decimal.NewFromInt(20)))

	require.NoError(t, suite.cart.AddToCart(ctx, product, 1))

	line, ok := suite.load().Find(product.ProductID)
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example.com/only.png", line.DisplayImage)
	require.True(t, line.ListPrice.Valid)
	assert.True(t, product.LabeledPrice.Decimal.Equal(line.ListPrice.Decimal))
}

func (suite *cartServiceSuite) TestRemoveFromCart() {
	t := suite.T()
	ctx := t.Context()
	a, b := randomProduct(), randomProduct()
	require.NoError(t, suite.cart.AddToCart(ctx, a, 1))
	require.NoError(t, suite.cart.AddToCart(ctx, b, 2))

	require.NoError(t, suite.cart.RemoveFromCart(ctx, a.ProductID))
	cart := suite.load()
	require.Len(t, cart, 1)
	assert.Equal(t, b.ProductID, cart[0].ProductID)

	before := suite.load()
	require.NoError(t, suite.cart.RemoveFromCart(ctx, gofakeit.UUID()))
	assertCart(t, before, suite.load())
}

func (suite *cartServiceSuite) TestUpdateQuantity() {
	tests := []struct {
		name      string
		quantity  int
		wantLines int
		wantQty   int
	}{
		{name: "set quantity: ok", quantity: 7, wantLines: 1, wantQty: 7},
		{name: "zero removes the line", quantity: 0, wantLines: 0},
		{name: "negative removes the line", quantity: -2, wantLines: 0},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()
			require.NoError(t, suite.cart.ClearCart(ctx))

			product := randomProduct()
			require.NoError(t, suite.cart.AddToCart(ctx, product, 3))
			require.NoError(t, suite.cart.UpdateQuantity(ctx, product.ProductID, tt.quantity))

			cart := suite.load()
			require.Len(t, cart, tt.wantLines)
			if tt.wantLines > 0 {
				assert.Equal(t, tt.wantQty, cart[0].Quantity)
			}
		})
	}
}

func (suite *cartServiceSuite) TestUpdateQuantityOfAbsentProductIsNoop() {
	t := suite.T()
	ctx := t.Context()
	require.NoError(t, suite.cart.AddToCart(ctx, productWithPrice("A", 100), 1))
	before := suite.load()

	require.NoError(t, suite.cart.UpdateQuantity(ctx, "B", 5))

	assertCart(t, before, suite.load())
}

func (suite *cartServiceSuite) TestChangeQuantityByFloorsAtOne() {
	tests := []struct {
		name    string
		start   int
		delta   int
		wantQty int
	}{
		{name: "increment", start: 2, delta: 1, wantQty: 3},
		{name: "decrement", start: 2, delta: -1, wantQty: 1},
		{name: "underflow floors at 1", start: 2, delta: -10, wantQty: 1},
		{name: "zero delta", start: 4, delta: 0, wantQty: 4},
		{name: "huge delta saturates", start: 5, delta: math.MaxInt, wantQty: math.MaxInt},
		{name: "huge negative delta floors at 1", start: 5, delta: math.MinInt, wantQty: 1},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()
			ctx := t.Context()
			require.NoError(t, suite.cart.ClearCart(ctx))

			product := randomProduct()
			require.NoError(t, suite.cart.AddToCart(ctx, product, tt.start))
			require.NoError(t, suite.cart.ChangeQuantityBy(ctx, product.ProductID, tt.delta))

			line, ok := suite.load().Find(product.ProductID)
			require.True(t, ok)
			assert.Equal(t, tt.wantQty, line.Quantity)
		})
	}
}

func (suite *cartServiceSuite) TestClearCart() {
	t := suite.T()
	ctx := t.Context()
	require.NoError(t, suite.cart.AddToCart(ctx, randomProduct(), 2))

	before := suite.events.count()
	require.NoError(t, suite.cart.ClearCart(ctx))

	assert.Empty(t, suite.load())
	assert.Equal(t, before+1, suite.events.count())
}

func (suite *cartServiceSuite) TestEveryMutationNotifiesOnce() {
	t := suite.T()
	ctx := t.Context()
	product := randomProduct()

	steps := []func() error{
		func() error { return suite.cart.AddToCart(ctx, product, 1) },
		func() error { return suite.cart.ChangeQuantityBy(ctx, product.ProductID, 2) },
		func() error { return suite.cart.UpdateQuantity(ctx, product.ProductID, 5) },
		func() error { return suite.cart.RemoveFromCart(ctx, product.ProductID) },
		func() error { return suite.cart.ClearCart(ctx) },
	}

	for i, step := range steps {
		before := suite.events.count()
		require.NoError(t, step())
		assert.Equal(t, before+1, suite.events.count(), "step %d", i)
	}
}

func (suite *cartServiceSuite) TestScenarioAddStepRemove() {
	t := suite.T()
	ctx := t.Context()
	a := productWithPrice("A", 100)

	require.NoError(t, suite.cart.AddToCart(ctx, a, 1))
	cart := suite.load()
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
	assert.True(t, decimal.NewFromInt(100).Equal(cart[0].UnitPrice))

	require.NoError(t, suite.cart.AddToCart(ctx, a, 2))
	cart = suite.load()
	require.Len(t, cart, 1)
	assert.Equal(t, 3, cart[0].Quantity)

	require.NoError(t, suite.cart.ChangeQuantityBy(ctx, "A", -5))
	cart = suite.load()
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)

	require.NoError(t, suite.cart.RemoveFromCart(ctx, "A"))
	assert.Empty(t, suite.load())
}

func (suite *cartServiceSuite) TestListenerSeesCommittedState() {
	t := suite.T()
	ctx := t.Context()
	product := randomProduct()

	var seen models.CartCollection
	unsubscribe := suite.cart.Subscribe(func() {
		cart, err := suite.cart.Load(ctx)
		if err == nil {
			seen = cart
		}
	})
	defer unsubscribe()

	require.NoError(t, suite.cart.AddToCart(ctx, product, 4))

	require.Len(t, seen, 1)
	assert.Equal(t, 4, seen[0].Quantity)
}

func (suite *cartServiceSuite) TestListenerMayMutateWithoutDeadlock() {
	t := suite.T()
	ctx := t.Context()
	product := randomProduct()

	var once sync.Once
	unsubscribe := suite.cart.Subscribe(func() {
		once.Do(func() {
			_ = suite.cart.ChangeQuantityBy(ctx, product.ProductID, 1)
		})
	})
	defer unsubscribe()

	require.NoError(t, suite.cart.AddToCart(ctx, product, 1))

	line, ok := suite.load().Find(product.ProductID)
	require.True(t, ok)
	assert.Equal(t, 2, line.Quantity)
}

func (suite *cartServiceSuite) TestConcurrentAddsAreSerialized() {
	t := suite.T()
	ctx := t.Context()
	product := randomProduct()

	const workers = 32
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, suite.cart.AddToCart(ctx, product, 1))
		}()
	}
	wg.Wait()

	line, ok := suite.load().Find(product.ProductID)
	require.True(t, ok)
	assert.Equal(t, workers, line.Quantity)
	assert.Equal(t, 0, suite.cart.locks.size())
}

func TestCartServiceBackendFailure(t *testing.T) {
	ctx := t.Context()
	store := NewCartStore(failingKV{err: errBackendDown}, "cartItems", nil, "cartUpdated", nil)
	cart := NewCartService(store, nil, nil)

	_, err := cart.Load(ctx)
	require.ErrorIs(t, err, errBackendDown)

	require.ErrorIs(t, cart.AddToCart(ctx, randomProduct(), 1), errBackendDown)
	require.ErrorIs(t, cart.RemoveFromCart(ctx, "A"), errBackendDown)
	require.ErrorIs(t, cart.ClearCart(ctx), errBackendDown)

	// Subscribe without a bus is inert.
	cart.Subscribe(func() {})()
}
