//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-storefront/app/auth"
	"github.com/vibast-solutions/ms-go-storefront/app/types"
)

const (
	defaultStorefrontHTTPBase = "http://localhost:8080"
	defaultStorefrontUserID   = uint64(1)
)

type httpClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func newHTTPClient(baseURL, token string) *httpClient {
	return &httpClient{
		baseURL: baseURL,
		token:   token,
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (c *httpClient) doJSON(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal failed: %v", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(t, req)
}

func (c *httpClient) doForm(t *testing.T, path string, form url.Values) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("new request failed: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(t, req)
}

func (c *httpClient) do(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	req.Header.Set("X-Request-ID", fmt.Sprintf("e2e-http-%d", time.Now().UnixNano()))
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("http request failed: %v", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response failed: %v", err)
	}

	return resp, bodyBytes
}

func waitForHTTP(baseURL string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}
	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(500 * time.Millisecond)
	}
	return fmt.Errorf("http service not ready at %s", baseURL)
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func customerToken(t *testing.T) string {
	t.Helper()

	secret := os.Getenv("AUTH_JWT_SECRET")
	if secret == "" {
		t.Skip("AUTH_JWT_SECRET is not set")
	}
	userID := defaultStorefrontUserID
	if raw := os.Getenv("STOREFRONT_E2E_USER_ID"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			t.Fatalf("invalid STOREFRONT_E2E_USER_ID: %v", err)
		}
		userID = parsed
	}

	token, err := auth.NewTokenService(secret, time.Hour).GenerateAccessToken(userID, "customer")
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	return token
}

func TestStorefrontE2E(t *testing.T) {
	httpBase := envOrDefault("STOREFRONT_HTTP_URL", defaultStorefrontHTTPBase)
	if err := waitForHTTP(httpBase, 30*time.Second); err != nil {
		t.Fatalf("http not ready: %v", err)
	}

	anonymous := newHTTPClient(httpBase, "")

	t.Run("HTTPHealth", func(t *testing.T) {
		resp, _ := anonymous.doJSON(t, http.MethodGet, "/health", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if resp.Header.Get("X-Request-ID") == "" {
			t.Fatal("expected x-request-id on the response")
		}
	})

	t.Run("HTTPMetrics", func(t *testing.T) {
		resp, body := anonymous.doJSON(t, http.MethodGet, "/metrics", nil)
		if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "go_goroutines") {
			t.Fatalf("expected prometheus metrics, got %d", resp.StatusCode)
		}
	})

	t.Run("HTTPCartRequiresToken", func(t *testing.T) {
		resp, _ := anonymous.doJSON(t, http.MethodGet, "/api/cart", nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", resp.StatusCode)
		}
	})

	t.Run("HTTPAdminRequiresRole", func(t *testing.T) {
		customer := newHTTPClient(httpBase, customerToken(t))
		resp, _ := customer.doJSON(t, http.MethodGet, "/api/orders/admin/orders", nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", resp.StatusCode)
		}
	})

	t.Run("HTTPListProducts", func(t *testing.T) {
		resp, body := anonymous.doJSON(t, http.MethodGet, "/api/products?limit=10", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d body=%s", resp.StatusCode, string(body))
		}
		var payload types.ListProductsResponse
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal list products failed: %v body=%s", err, string(body))
		}
	})

	t.Run("HTTPCallbackRejectedGenerically", func(t *testing.T) {
		forms := []url.Values{
			{"ReturnOid": {"ORD-1"}, "Response": {"Approved"}},
			{"ReturnOid": {"ORD-1"}, "Response": {"Approved"}, "HASH": {"bm90LWEtc2lnbmF0dXJl"}},
		}
		for _, form := range forms {
			resp, body := anonymous.doForm(t, "/api/orders/payment-callback", form)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d body=%s", resp.StatusCode, string(body))
			}
			if strings.TrimSpace(string(body)) != `{"error":"invalid callback"}` {
				t.Fatalf("unexpected body %s", string(body))
			}
		}
	})

	t.Run("HTTPPaymentRedirects", func(t *testing.T) {
		resp, _ := anonymous.doForm(t, "/api/payments/fail", url.Values{"oid": {"ORD-1"}})
		if resp.StatusCode != http.StatusFound || resp.Header.Get("Location") == "" {
			t.Fatalf("expected redirect, got %d", resp.StatusCode)
		}
	})

	t.Run("HTTPCreateOrderEmptyCart", func(t *testing.T) {
		customer := newHTTPClient(httpBase, customerToken(t))
		resp, _ := customer.doJSON(t, http.MethodGet, "/api/cart", nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		resp, body := customer.doJSON(t, http.MethodPost, "/api/orders", map[string]any{})
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d body=%s", resp.StatusCode, string(body))
		}
	})

	t.Run("HTTPOrderNotFound", func(t *testing.T) {
		customer := newHTTPClient(httpBase, customerToken(t))
		resp, body := customer.doJSON(t, http.MethodGet, "/api/orders/"+strconv.FormatUint(999999, 10), nil)
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d body=%s", resp.StatusCode, string(body))
		}
	})
}
