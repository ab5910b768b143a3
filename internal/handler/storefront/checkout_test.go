package storefront_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/corinapavel/atelier/internal/domain"
	"github.com/corinapavel/atelier/internal/records"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFormJSON() string {
	expiry := time.Now().AddDate(1, 0, 0).Format("01/06")
	return fmt.Sprintf(`{
		"fullName": "Ioana Marinescu",
		"email": "ioana@example.com",
		"phone": "+40 721 000 111",
		"addressLine1": "Str. Plopilor 12",
		"city": "Cluj-Napoca",
		"postalCode": "400383",
		"cardNumber": "4111111111111111",
		"cvv": "123",
		"expiry": %q
	}`, expiry)
}

func TestCheckout_RequiresSignIn(t *testing.T) {
	store := records.NewMemoryStore()
	seedSoap(store)
	c := newClient(t, testServer(t, store))

	c.do(http.MethodPost, "/cart/items", `{"productId":"soap-1"}`)

	rec := c.do(http.MethodGet, "/checkout", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestCheckout_EmptyCartRedirects(t *testing.T) {
	c := newClient(t, testServer(t, records.NewMemoryStore()))
	c.signIn("u1", "ioana@example.com", "Ioana M.")

	rec := c.do(http.MethodGet, "/checkout", "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get("Location"))
}

func TestCheckout_ViewReturnsReconciledDefaults(t *testing.T) {
	store := records.NewMemoryStore()
	seedSoap(store)
	store.Seed(domain.CollectionAddresses, "u1", domain.Record{
		"full_name": "Ioana Marinescu",
		"line1":     "Str. Plopilor 12",
	})
	c := newClient(t, testServer(t, store))
	c.signIn("u1", "ioana@example.com", "Ioana M.")

	c.do(http.MethodPost, "/cart/items", `{"productId":"soap-1"}`)

	rec := c.do(http.MethodGet, "/checkout", "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	defaults := body["defaults"].(map[string]any)
	assert.Equal(t, "Ioana Marinescu", defaults["fullName"])
	assert.Equal(t, "ioana@example.com", defaults["email"])
	cart := body["cart"].(map[string]any)
	assert.Equal(t, float64(1), cart["itemCount"])
}

func TestCheckout_SubmitCommitsOrderAndClearsCart(t *testing.T) {
	store := records.NewMemoryStore()
	seedSoap(store)
	c := newClient(t, testServer(t, store))
	c.signIn("u1", "ioana@example.com", "Ioana M.")

	c.do(http.MethodPost, "/cart/items", `{"productId":"soap-1"}`)
	c.do(http.MethodPost, "/cart/items", `{"productId":"soap-1"}`)

	rec := c.do(http.MethodPost, "/checkout", validFormJSON())
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decode(t, rec)
	orderID := body["orderId"].(string)
	assert.NotEmpty(t, orderID)
	assert.Equal(t, 49.0, body["grandTotal"])
	assert.Equal(t, "/orders/"+orderID, body["redirect"])

	// The cart is empty only now, after the committed order.
	rec = c.do(http.MethodGet, "/cart", "")
	assert.Equal(t, float64(0), decode(t, rec)["itemCount"])

	// The confirmation view shows the owner's order.
	rec = c.do(http.MethodGet, "/orders/"+orderID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	order := decode(t, rec)
	assert.Equal(t, "u1", order["ownerId"])
	assert.Equal(t, "1111", order["payment"].(map[string]any)["last4"])
}

func TestCheckout_InvalidFormReportsFieldsAndKeepsCart(t *testing.T) {
	store := records.NewMemoryStore()
	seedSoap(store)
	c := newClient(t, testServer(t, store))
	c.signIn("u1", "ioana@example.com", "Ioana M.")

	c.do(http.MethodPost, "/cart/items", `{"productId":"soap-1"}`)

	rec := c.do(http.MethodPost, "/checkout", `{"fullName":"Ioana"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	errBody := decode(t, rec)["error"].(map[string]any)
	assert.Equal(t, "invalid", errBody["code"])
	assert.Contains(t, errBody["fields"].(map[string]any), "Email")

	rec = c.do(http.MethodGet, "/cart", "")
	assert.Equal(t, float64(1), decode(t, rec)["itemCount"])
}

func TestOrders_OtherUsersOrderIsNotFound(t *testing.T) {
	store := records.NewMemoryStore()
	seedSoap(store)
	c := newClient(t, testServer(t, store))
	c.signIn("u1", "ioana@example.com", "Ioana M.")

	c.do(http.MethodPost, "/cart/items", `{"productId":"soap-1"}`)
	rec := c.do(http.MethodPost, "/checkout", validFormJSON())
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := decode(t, rec)["orderId"].(string)

	other := newClient(t, testServer(t, store))
	other.signIn("u2", "radu@example.com", "Radu I.")
	rec = other.do(http.MethodGet, "/orders/"+orderID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
