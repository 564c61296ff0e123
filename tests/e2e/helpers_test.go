package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

type TestClient struct {
	BaseURL string
	HTTP    *http.Client
}

// BASE_URL未設定ならスキップ（起動済みサーバーが前提のテスト）。
func NewTestClient(t *testing.T) *TestClient {
	t.Helper()

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		t.Skip("BASE_URL not set; skipping e2e")
	}

	return &TestClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

type UserDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type JwtAccessToken struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type AuthLoginResponse struct {
	User  UserDTO        `json:"user"`
	Token JwtAccessToken `json:"token"`
}

type ProductDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Code        string  `json:"code"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

type ProductListResponse struct {
	Items []ProductDTO `json:"items"`
	Total int          `json:"total"`
}

type CartLineDTO struct {
	ID        int64   `json:"id"`
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Code      string  `json:"code"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
}

type CartDTO struct {
	Lines []CartLineDTO `json:"lines"`
	Total float64       `json:"total"`
}

type OrderLineDTO struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int64   `json:"quantity"`
}

type OrderDTO struct {
	ID         int64          `json:"id"`
	UserID     int64          `json:"user_id"`
	Status     string         `json:"status"`
	Total      float64        `json:"total"`
	PaymentRef string         `json:"payment_ref"`
	Lines      []OrderLineDTO `json:"lines"`
}

type AdminOrderListResponse struct {
	Items []OrderDTO `json:"items"`
	Total int64      `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

func (c *TestClient) doJSON(
	ctx context.Context,
	t *testing.T,
	method string,
	path string,
	bearer string,
	bodyBytes []byte,
) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if bodyBytes != nil {
		reqBody = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("http.NewRequest failed: %v", err)
	}

	if bodyBytes != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		t.Fatalf("HTTP.Do failed: %v", err)
	}

	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	return resp, data
}

func requireStatus(t *testing.T, resp *http.Response, want int, body []byte) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status=%d want=%d body=%s", resp.StatusCode, want, string(body))
	}
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	return b
}

func mustDecodeError(t *testing.T, body []byte) ErrorResponse {
	t.Helper()
	var v ErrorResponse
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("json.Unmarshal(ErrorResponse) failed: %v body=%s", err, string(body))
	}
	return v
}

func mustDecodeLogin(t *testing.T, body []byte) AuthLoginResponse {
	t.Helper()
	var v AuthLoginResponse
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("json.Unmarshal(AuthLoginResponse) failed: %v body=%s", err, string(body))
	}
	return v
}

func mustDecodeProduct(t *testing.T, body []byte) ProductDTO {
	t.Helper()
	var v ProductDTO
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("json.Unmarshal(ProductDTO) failed: %v body=%s", err, string(body))
	}
	return v
}

func mustDecodeCart(t *testing.T, body []byte) CartDTO {
	t.Helper()
	var v CartDTO
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("json.Unmarshal(CartDTO) failed: %v body=%s", err, string(body))
	}
	return v
}

func mustDecodeOrder(t *testing.T, body []byte) OrderDTO {
	t.Helper()
	var v OrderDTO
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("json.Unmarshal(OrderDTO) failed: %v body=%s", err, string(body))
	}
	return v
}

// ユニークなemailでユーザー登録してaccess_tokenを返す。
// role="ADMIN"で管理者も作れる（デモ仕様）。
func registerAndLogin(t *testing.T, c *TestClient, ctx context.Context, prefix string, role string) (string, int64) {
	t.Helper()

	email := fmt.Sprintf("%s_%d@test.com", prefix, time.Now().UnixNano())
	password := "CorrectPW123!"

	resp, body := c.doJSON(ctx, t, http.MethodPost, "/auth/register", "", mustMarshal(t, map[string]string{
		"name":     "E2E " + prefix,
		"email":    email,
		"password": password,
		"role":     role,
	}))
	requireStatus(t, resp, http.StatusCreated, body)

	resp, body = c.doJSON(ctx, t, http.MethodPost, "/auth/login", "", mustMarshal(t, map[string]string{
		"email":    email,
		"password": password,
	}))
	requireStatus(t, resp, http.StatusOK, body)

	login := mustDecodeLogin(t, body)
	if strings.TrimSpace(login.Token.AccessToken) == "" {
		t.Fatalf("access token is empty: body=%s", string(body))
	}

	return login.Token.AccessToken, login.User.ID
}

// 管理者tokenで商品を作る
func createProduct(t *testing.T, c *TestClient, ctx context.Context, adminToken string, name string, price float64) ProductDTO {
	t.Helper()

	code := fmt.Sprintf("E2E-%d", time.Now().UnixNano())
	resp, body := c.doJSON(ctx, t, http.MethodPost, "/admin/products", adminToken, mustMarshal(t, map[string]interface{}{
		"name":  name,
		"code":  code,
		"price": price,
	}))
	requireStatus(t, resp, http.StatusCreated, body)

	return mustDecodeProduct(t, body)
}
