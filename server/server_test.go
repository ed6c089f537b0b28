package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inventory-billing/config"
	"inventory-billing/repositories"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:            "test",
		StoreDriver:       "memory",
		JWTSecret:         "test-secret",
		JWTExpiry:         time.Hour,
		CheckoutMode:      "atomic",
		StoreTimeout:      time.Second,
		CheckoutTimeout:   5 * time.Second,
		LowStockThreshold: 5,
		AuthRatePerMinute: 600,
		AuthRateBurst:     100,
	}
}

func setupRouter(t *testing.T, cfg *config.Config) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router, err := NewRouter(cfg, Deps{Store: repositories.NewMemoryStore()})
	require.NoError(t, err)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	var env envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &env), recorder.Body.String())
	return recorder.Code, env
}

func signUp(t *testing.T, router *gin.Engine, email string) string {
	t.Helper()
	code, env := doRequest(t, router, http.MethodPost, "/auth/signup", "", gin.H{"email": email, "password": "password123"})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var session struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	return session.Token
}

func createProduct(t *testing.T, router *gin.Engine, token, name string, qty int, price string) int64 {
	t.Helper()
	code, env := doRequest(t, router, http.MethodPost, "/products", token, gin.H{
		"name":     name,
		"quantity": qty,
		"price":    json.Number(price),
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var product struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &product))
	return product.ID
}

func TestNewRouter_RejectsUnknownCheckoutMode(t *testing.T) {
	cfg := testConfig()
	cfg.CheckoutMode = "eventually"
	_, err := NewRouter(cfg, Deps{Store: repositories.NewMemoryStore()})
	assert.Error(t, err)
}

func TestHealth(t *testing.T) {
	router := setupRouter(t, testConfig())

	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"status":"ok"}`, recorder.Body.String())
}

func TestAuthFlow(t *testing.T) {
	router := setupRouter(t, testConfig())

	code, env := doRequest(t, router, http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	token := signUp(t, router, "clerk@example.com")

	code, env = doRequest(t, router, http.MethodPost, "/auth/signup", "", gin.H{"email": "clerk@example.com", "password": "password123"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "conflict", env.Error)

	code, env = doRequest(t, router, http.MethodPost, "/auth/signin", "", gin.H{"email": "clerk@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid email or password", env.Message)

	code, env = doRequest(t, router, http.MethodPost, "/auth/signin", "", gin.H{"email": "clerk@example.com"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Invalid request", env.Message)

	code, env = doRequest(t, router, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "clerk@example.com")

	code, _ = doRequest(t, router, http.MethodPost, "/auth/signout", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = doRequest(t, router, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Token has been revoked", env.Message)
}

func TestProductEndpoints(t *testing.T) {
	router := setupRouter(t, testConfig())
	token := signUp(t, router, "clerk@example.com")

	widgetID := createProduct(t, router, token, "Widget", 10, "2.50")
	createProduct(t, router, token, "Empty", 0, "1.00")

	t.Run("validation", func(t *testing.T) {
		code, env := doRequest(t, router, http.MethodPost, "/products", token, gin.H{"name": " ", "quantity": 1, "price": 1})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Please enter a product name", env.Message)

		code, env = doRequest(t, router, http.MethodPost, "/products", token, gin.H{"name": "Bad", "quantity": -1, "price": 1})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Please enter a valid quantity", env.Message)

		code, _ = doRequest(t, router, http.MethodPost, "/products", token, gin.H{"name": "NoPrice", "quantity": 1})
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("list and available", func(t *testing.T) {
		code, env := doRequest(t, router, http.MethodGet, "/products", token, nil)
		require.Equal(t, http.StatusOK, code)
		var all []struct {
			Name string `json:"name"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &all))
		assert.Len(t, all, 2)

		code, env = doRequest(t, router, http.MethodGet, "/products/available", token, nil)
		require.Equal(t, http.StatusOK, code)
		var available []struct {
			Name string `json:"name"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &available))
		require.Len(t, available, 1)
		assert.Equal(t, "Widget", available[0].Name)
	})

	t.Run("get update delete", func(t *testing.T) {
		path := fmt.Sprintf("/products/%d", widgetID)

		code, _ := doRequest(t, router, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusOK, code)

		code, env := doRequest(t, router, http.MethodPatch, path, token, gin.H{"quantity": 7})
		require.Equal(t, http.StatusOK, code)
		var updated struct {
			Name     string `json:"name"`
			Quantity int    `json:"quantity"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &updated))
		assert.Equal(t, "Widget", updated.Name)
		assert.Equal(t, 7, updated.Quantity)

		code, _ = doRequest(t, router, http.MethodGet, "/products/abc", token, nil)
		assert.Equal(t, http.StatusBadRequest, code)

		code, _ = doRequest(t, router, http.MethodDelete, path, token, nil)
		assert.Equal(t, http.StatusOK, code)

		code, env = doRequest(t, router, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "not_found", env.Error)
	})
}

func TestCartCheckoutAndBill(t *testing.T) {
	router := setupRouter(t, testConfig())
	token := signUp(t, router, "clerk@example.com")

	widgetID := createProduct(t, router, token, "Widget", 10, "2.50")
	gadgetID := createProduct(t, router, token, "Gadget", 2, "10.00")

	code, env := doRequest(t, router, http.MethodPost, "/cart/checkout", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "empty_cart", env.Error)

	code, _ = doRequest(t, router, http.MethodPost, "/cart/items", token, gin.H{"product_id": widgetID, "quantity": 2})
	require.Equal(t, http.StatusOK, code)
	code, _ = doRequest(t, router, http.MethodPost, "/cart/items", token, gin.H{"product_id": widgetID, "quantity": 1})
	require.Equal(t, http.StatusOK, code)
	code, _ = doRequest(t, router, http.MethodPost, "/cart/items", token, gin.H{"product_id": gadgetID, "quantity": 2})
	require.Equal(t, http.StatusOK, code)

	code, env = doRequest(t, router, http.MethodPost, "/cart/items", token, gin.H{"product_id": gadgetID, "quantity": 1})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "validation", env.Error)

	code, env = doRequest(t, router, http.MethodPost, "/cart/items", token, gin.H{"product_id": widgetID, "quantity": math.MaxInt})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Not enough stock. Only 7 more available.", env.Message)

	code, _ = doRequest(t, router, http.MethodPatch, fmt.Sprintf("/cart/items/%d", gadgetID), token, gin.H{"quantity": 1})
	require.Equal(t, http.StatusOK, code)

	code, env = doRequest(t, router, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, code)
	var cart struct {
		Lines []struct {
			Quantity int `json:"quantity"`
		} `json:"lines"`
		Total decimal.Decimal `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	require.Len(t, cart.Lines, 2)
	assert.True(t, decimal.RequireFromString("17.50").Equal(cart.Total), cart.Total.String())

	code, env = doRequest(t, router, http.MethodPost, "/cart/checkout", token, nil)
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.Equal(t, "Checkout successful", env.Message)
	var result struct {
		Status string `json:"status"`
		Bill   struct {
			ID string `json:"id"`
		} `json:"bill"`
		Items    []json.RawMessage `json:"items"`
		Total    decimal.Decimal   `json:"total"`
		Products []struct {
			Name     string `json:"name"`
			Quantity int    `json:"quantity"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "success", result.Status)
	assert.Len(t, result.Items, 2)
	assert.True(t, decimal.RequireFromString("17.50").Equal(result.Total), result.Total.String())
	require.Len(t, result.Products, 2)
	assert.Equal(t, "Gadget", result.Products[0].Name)
	assert.Equal(t, 1, result.Products[0].Quantity)
	assert.Equal(t, 7, result.Products[1].Quantity)

	code, env = doRequest(t, router, http.MethodGet, "/cart", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &cart))
	assert.Empty(t, cart.Lines)

	billPath := "/bills/" + result.Bill.ID
	code, env = doRequest(t, router, http.MethodGet, billPath, token, nil)
	require.Equal(t, http.StatusOK, code)
	var bill struct {
		Total decimal.Decimal   `json:"total"`
		Items []json.RawMessage `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &bill))
	assert.True(t, decimal.RequireFromString("17.50").Equal(bill.Total))
	assert.Len(t, bill.Items, 2)

	other := signUp(t, router, "other@example.com")
	code, _ = doRequest(t, router, http.MethodGet, billPath, other, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = doRequest(t, router, http.MethodGet, "/bills/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLowStockReport(t *testing.T) {
	router := setupRouter(t, testConfig())
	token := signUp(t, router, "clerk@example.com")
	for i, qty := range []int{10, 3, 5, 0} {
		createProduct(t, router, token, fmt.Sprintf("P%d", i), qty, "1.00")
	}

	code, env := doRequest(t, router, http.MethodGet, "/reports/low-stock", token, nil)
	require.Equal(t, http.StatusOK, code)
	var report struct {
		Threshold int `json:"threshold"`
		Products  []struct {
			Quantity int `json:"quantity"`
		} `json:"products"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 5, report.Threshold)
	require.Len(t, report.Products, 2)
	assert.Equal(t, 0, report.Products[0].Quantity)
	assert.Equal(t, 3, report.Products[1].Quantity)

	for _, bad := range []string{"0", "-2", "lots"} {
		code, env = doRequest(t, router, http.MethodGet, "/reports/low-stock?threshold="+bad, token, nil)
		assert.Equal(t, http.StatusBadRequest, code, bad)
		assert.Equal(t, "Threshold must be a positive integer", env.Message)
	}
}
