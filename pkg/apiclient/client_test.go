package apiclient

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang-storefront/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second)
}

func TestListProducts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/products/getproducts", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"products":[
			{"productId":"p1","title":"Pixel 9","category":"smart phones","price":650,"image":["a.png","b.png"]},
			{"productId":"p2","title":"iPad","category":"tablet","price":"600.50","labeledprice":700,"image":"c.png"}
		]}`)
	})

	products, err := client.ListProducts(t.Context())
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "a.png", products[0].Image.Primary())
	assert.True(t, decimal.RequireFromString("600.50").Equal(products[1].Price))
	assert.True(t, products[1].LabeledPrice.Valid)
}

func TestGetProductNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products/p%2F1", r.URL.RawPath)
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"Product not found"}`)
	})

	_, err := client.GetProduct(t.Context(), "p/1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Product not found", apiErr.Message)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestGetProductMissingBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})

	_, err := client.GetProduct(t.Context(), "p1")
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
}

func TestPlaceOrder(t *testing.T) {
	var got models.PlaceOrderRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		raw, err := io.ReadAll(r.Body)
		assert.NoError(t, err)
		assert.Contains(t, string(raw), `"totalPrice":416`)
		assert.Contains(t, string(raw), `"productimage":"a.png"`)
		assert.NoError(t, json.Unmarshal(raw, &got))

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"Order placed"}`)
	})

	msg, err := client.PlaceOrder(t.Context(), models.PlaceOrderRequest{
		Products:   []models.OrderProduct{{ProductID: "A", Quantity: 2, ProductImage: "a.png"}},
		Name:       "Asha Rao",
		Address:    models.Address{Street: "12 MG Road", City: "Pune", Zip: "411001"},
		Phone:      "9876543210",
		Email:      "asha@example.com",
		TotalPrice: "416",
	}, "tok")
	require.NoError(t, err)
	assert.Equal(t, "Order placed", msg)
	assert.Equal(t, "Asha Rao", got.Name)
}

func TestListOrdersAndUpdateStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/orders/2/10":
			_, _ = io.WriteString(w, `{"orders":[{"orderId":"o1","name":"Asha","status":"pending","totalPrice":100}],"totalpage":4}`)
		case r.Method == http.MethodPut && r.URL.Path == "/api/orders/o1":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "shipped", body["status"])
			_, _ = io.WriteString(w, `{"message":"Status updated"}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/api/orders/o1":
			_, _ = io.WriteString(w, `{"message":"Order deleted"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusTeapot)
		}
	})

	page, err := client.ListOrders(t.Context(), 2, 10, "tok")
	require.NoError(t, err)
	assert.Equal(t, 4, page.TotalPage)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, "o1", page.Orders[0].OrderID)

	msg, err := client.UpdateOrderStatus(t.Context(), "o1", "shipped", "tok")
	require.NoError(t, err)
	assert.Equal(t, "Status updated", msg)

	msg, err = client.DeleteOrder(t.Context(), "o1", "tok")
	require.NoError(t, err)
	assert.Equal(t, "Order deleted", msg)
}

func TestUsers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/users/profile":
			_, _ = io.WriteString(w, `{"message":"ok","user":{"_id":"u1","name":"Meera","email":"m@example.com","role":"user"}}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/users/1/20":
			_, _ = io.WriteString(w, `{"users":[{"_id":"u1","name":"Meera","isBlocked":true}],"totalPages":2}`)
		case r.Method == http.MethodPut && r.URL.Path == "/api/users/u1":
			raw, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"isEmailverifyed":true}`, string(raw))
			_, _ = io.WriteString(w, `{"message":"User updated"}`)
		default:
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, "boom")
		}
	})

	user, err := client.Profile(t.Context(), "tok")
	require.NoError(t, err)
	assert.Equal(t, "Meera", user.Name)

	page, err := client.ListUsers(t.Context(), 1, 20, "tok")
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.Users[0].IsBlocked)

	verified := true
	_, err = client.UpdateUser(t.Context(), "u1", models.UserPatch{IsEmailVerified: &verified}, "tok")
	require.NoError(t, err)

	_, err = client.DeleteUser(t.Context(), "u1", "tok")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "boom", apiErr.Message)
}

func TestTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := New(srv.URL, time.Second).ListProducts(t.Context())
	require.Error(t, err)
	assert.Zero(t, StatusCode(err))
}
