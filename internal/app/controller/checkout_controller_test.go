package controller

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkoutForm() map[string]string {
	return map[string]string{
		"full_name":      "Ann Lee",
		"email":          "ann@example.com",
		"address":        "1 Main St",
		"city":           "Springfield",
		"state":          "IL",
		"zip_code":       "62701",
		"payment_method": "credit-card",
		"card_number":    "4111111111111111",
		"card_expiry":    "12/30",
		"card_cvv":       "123",
	}
}

func TestCheckoutController_EmptyCart(t *testing.T) {
	env := setupControllerTest(t, false)

	w := env.do(t, http.MethodPost, "/api/v1/checkout", checkoutForm())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "CART_EMPTY", body["error"])
	assert.Equal(t, []string{"Empty Cart"}, notificationTitles(body))
}

func TestCheckoutController_MissingFields(t *testing.T) {
	env := setupControllerTest(t, false)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/cart/items", sareePayload(1)).Code)

	form := checkoutForm()
	delete(form, "city")
	delete(form, "card_cvv")
	w := env.do(t, http.MethodPost, "/api/v1/checkout", form)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION_INVALID_INPUT", body.Error)
	assert.Contains(t, body.Fields, "city")
	assert.Contains(t, body.Fields, "card_cvv")

	w = env.do(t, http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, float64(1), cartOf(t, decodeBody(t, w))["item_count"])
}

func TestCheckoutController_Simulated(t *testing.T) {
	env := setupControllerTest(t, false)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/cart/items", sareePayload(3)).Code)

	form := checkoutForm()
	form["payment_method"] = "cash"
	delete(form, "card_number")
	w := env.do(t, http.MethodPost, "/api/v1/checkout", form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	receipt := body["receipt"].(map[string]interface{})
	assert.Equal(t, "897", receipt["total"])
	assert.Equal(t, false, receipt["submitted"])
	assert.Regexp(t, `^SIM-[0-9A-F]{8}$`, receipt["reference"])
	assert.Equal(t, []string{"Order placed successfully!"}, notificationTitles(body))
	assert.Zero(t, env.shop.count(http.MethodPost, "/orders/"))

	w = env.do(t, http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, float64(0), cartOf(t, decodeBody(t, w))["line_count"])
}

func TestCheckoutController_Submitted(t *testing.T) {
	env := setupControllerTest(t, true)
	env.signIn(t)
	env.shop.handle(http.MethodPost, "/orders/", func(w http.ResponseWriter, r *http.Request) {
		var input map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, "897", input["total_amount"])
		writeJSON(w, http.StatusCreated, orderPayload(42))
	})
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/cart/items", sareePayload(3)).Code)

	w := env.do(t, http.MethodPost, "/api/v1/checkout", checkoutForm())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	receipt := decodeBody(t, w)["receipt"].(map[string]interface{})
	assert.Equal(t, "ORD-42", receipt["reference"])
	assert.Equal(t, true, receipt["submitted"])
}

func TestCheckoutController_SubmitFailureKeepsCart(t *testing.T) {
	env := setupControllerTest(t, true)
	env.signIn(t)
	env.shop.handle(http.MethodPost, "/orders/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Product 1 is out of stock"})
	})
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/cart/items", sareePayload(3)).Code)

	w := env.do(t, http.MethodPost, "/api/v1/checkout", checkoutForm())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "UPSTREAM_REJECTED", body["error"])
	assert.Contains(t, notificationTitles(body), "Order failed")

	w = env.do(t, http.MethodGet, "/api/v1/cart", nil)
	assert.Equal(t, float64(3), cartOf(t, decodeBody(t, w))["item_count"])
}
