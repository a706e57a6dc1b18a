package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang-storefront/internal/models"
	"golang-storefront/pkg/messaging"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// orderEventTimeout bounds publishing the order event once the order is placed.
const orderEventTimeout = 2 * time.Second

var (
	ErrCartEmpty             = errors.New("cart is empty")
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
)

// ShippingMethods maps each checkout shipping option to its fee.
var ShippingMethods = map[string]decimal.Decimal{
	"standard":  decimal.Zero,
	"express":   decimal.NewFromInt(200),
	"overnight": decimal.NewFromInt(300),
}

// ValidationError lists the checkout fields that are missing.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

type ShippingInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Street    string `json:"street"`
	City      string `json:"city"`
	Zip       string `json:"zip"`
}

type CheckoutRequest struct {
	Shipping       ShippingInfo `json:"shipping"`
	ShippingMethod string       `json:"shipping_method"`
}

type CheckoutTotals struct {
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

type CheckoutResult struct {
	Message string
	Totals  CheckoutTotals
	Items   int
}

// OrderPlacer is the remote order API.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, order models.PlaceOrderRequest, token string) (string, error)
}

// EventPublisher is satisfied by *messaging.KafkaProducer.
type EventPublisher interface {
	SendMessage(ctx context.Context, topic string, key string, value interface{}) error
}

type CheckoutService struct {
	orders       OrderPlacer
	events       EventPublisher
	orderTopic   string
	taxRate      decimal.Decimal
	eventTimeout time.Duration
	logger       *zap.Logger
}

// NewCheckoutService returns a checkout that places orders through orders. events may be
// nil, in which case no order events are published.
func NewCheckoutService(orders OrderPlacer, events EventPublisher, orderTopic string, taxRate decimal.Decimal, logger *zap.Logger) *CheckoutService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutService{
		orders:       orders,
		events:       events,
		orderTopic:   orderTopic,
		taxRate:      taxRate,
		eventTimeout: orderEventTimeout,
		logger:       logger,
	}
}

// Totals prices cart for checkout. An empty method means standard shipping. The cart page
// promo codes do not apply here.
func (s *CheckoutService) Totals(cart models.CartCollection, method string) (CheckoutTotals, error) {
	if method == "" {
		method = "standard"
	}
	shipping, ok := ShippingMethods[method]
	if !ok {
		return CheckoutTotals{}, fmt.Errorf("%w: %q", ErrUnknownShippingMethod, method)
	}

	subtotal := decimal.Zero
	for _, line := range cart {
		subtotal = subtotal.Add(line.LineTotal())
	}
	tax := subtotal.Mul(s.taxRate).Round(0)

	return CheckoutTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal.Add(shipping).Add(tax),
	}, nil
}

// Checkout places an order for the contents of cart and clears the cart once the remote
// API accepts it. On any failure the cart is left as it was.
func (s *CheckoutService) Checkout(ctx context.Context, cart *CartService, req CheckoutRequest, token, userID string) (*CheckoutResult, error) {
	if err := validateShipping(req.Shipping); err != nil {
		return nil, err
	}

	items, err := cart.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrCartEmpty
	}

	totals, err := s.Totals(items, req.ShippingMethod)
	if err != nil {
		return nil, err
	}

	order := buildOrder(items, req.Shipping, totals.Total)
	message, err := s.orders.PlaceOrder(ctx, order, token)
	if err != nil {
		return nil, fmt.Errorf("place order: %w", err)
	}

	if err := cart.ClearCart(ctx); err != nil {
		s.logger.Error("order placed but cart not cleared", zap.Error(err))
	}

	s.publish(ctx, userID, items, totals)

	return &CheckoutResult{
		Message: message,
		Totals:  totals,
		Items:   len(items),
	}, nil
}

func (s *CheckoutService) publish(ctx context.Context, userID string, items models.CartCollection, totals CheckoutTotals) {
	if s.events == nil {
		return
	}

	// Sent even if the client has gone, within eventTimeout.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.eventTimeout)
	defer cancel()

	event := messaging.OrderEvent{
		Type:      messaging.OrderPlaced,
		UserID:    userID,
		Total:     totals.Total.String(),
		Items:     items.Units(),
		Timestamp: time.Now(),
	}
	if err := s.events.SendMessage(ctx, s.orderTopic, userID, event); err != nil {
		s.logger.Warn("failed to publish order event", zap.Error(err))
	}
}

func buildOrder(items models.CartCollection, info ShippingInfo, total decimal.Decimal) models.PlaceOrderRequest {
	products := make([]models.OrderProduct, 0, len(items))
	for _, line := range items {
		products = append(products, models.OrderProduct{
			ProductID:    line.ProductID,
			Quantity:     line.Quantity,
			ProductImage: line.DisplayImage,
		})
	}

	return models.PlaceOrderRequest{
		Products: products,
		Name:     strings.TrimSpace(info.FirstName + " " + info.LastName),
		Address: models.Address{
			Street: info.Street,
			City:   info.City,
			Zip:    info.Zip,
		},
		Phone:      info.Phone,
		Email:      info.Email,
		TotalPrice: models.NumberOf(total),
	}
}

func validateShipping(info ShippingInfo) error {
	required := []struct {
		name  string
		value string
	}{
		{"first_name", info.FirstName},
		{"last_name", info.LastName},
		{"email", info.Email},
		{"phone", info.Phone},
		{"street", info.Street},
		{"city", info.City},
		{"zip", info.Zip},
	}

	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
