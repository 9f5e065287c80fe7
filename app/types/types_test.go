package types

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-storefront/app/auth"
)

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestNewCreateOrderRequestFromContext(t *testing.T) {
	ctx, _ := newJSONContext(http.MethodPost, "/api/orders", `{"shipping_details":{"name":" Ana ","street":"Main 1","city":"Skopje","zip":"1000","country":"MK"}}`)
	auth.WithClaims(ctx, &auth.Claims{UserID: 9, Role: "customer"})

	req, err := NewCreateOrderRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if req.GetUserID() != 9 {
		t.Fatalf("expected user 9, got %d", req.GetUserID())
	}
	if req.GetShippingDetails().Name != "Ana" {
		t.Fatalf("expected trimmed name, got %q", req.GetShippingDetails().Name)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	req.ShippingDetails.City = ""
	err = req.Validate()
	if err == nil || !strings.Contains(err.Error(), "city") {
		t.Fatalf("expected city validation error, got %v", err)
	}
}

func TestAddCartItemDefaults(t *testing.T) {
	ctx, _ := newJSONContext(http.MethodPost, "/api/cart", `{"product_id":3,"size":"Large","color":"Black"}`)
	auth.WithClaims(ctx, &auth.Claims{UserID: 1})

	req, err := NewAddCartItemRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if req.GetQuantity() != 1 || req.GetStyle() != "Regular" {
		t.Fatalf("unexpected defaults: %+v", req)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	req.Quantity = 500
	if err := req.Validate(); err == nil {
		t.Fatal("expected quantity validation error")
	}
}

func TestSaveProductValidate(t *testing.T) {
	ctx, _ := newJSONContext(http.MethodPost, "/api/products", `{"name":"Tee","price":"12.50","available_sizes":["Large"],"available_colors":["Black"]}`)
	req, err := NewCreateProductRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid product, got %v", err)
	}

	req.AvailableSizes = []string{"Huge"}
	if err := req.Validate(); err == nil {
		t.Fatal("expected size validation error")
	}

	req.AvailableSizes = []string{"Large"}
	req.Price = req.Price.Neg()
	if err := req.Validate(); err == nil {
		t.Fatal("expected price validation error")
	}
}

func TestListOrdersValidate(t *testing.T) {
	e := echo.New()
	ctx := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/orders?payment_status=Paid&limit=20&offset=3", nil), httptest.NewRecorder())

	req, err := NewListOrdersRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid list request, got %v", err)
	}
	if req.GetLimit() != 20 || req.GetOffset() != 3 || req.GetPaymentStatus() != "Paid" {
		t.Fatalf("unexpected parse: %+v", req)
	}

	req.PaymentStatus = "Refunded"
	if err := req.Validate(); err == nil {
		t.Fatal("expected payment_status validation error")
	}
}

func TestPaymentCallbackRequestFromForm(t *testing.T) {
	form := url.Values{}
	form.Set("ReturnOid", "ORD-1")
	form.Set("Response", "Approved")
	form.Set("HASH", "abc")
	form.Set("oid", "ORD-1")
	form.Set("amount", "25.00")
	form.Set("MaskedPan", "435508***4358")

	e := echo.New()
	httpReq := httptest.NewRequest(http.MethodPost, "/api/orders/payment-callback", strings.NewReader(form.Encode()))
	httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	ctx := e.NewContext(httpReq, httptest.NewRecorder())

	req, err := NewPaymentCallbackRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid callback, got %v", err)
	}
	if req.GetHash() != "abc" {
		t.Fatalf("expected HASH fallback, got %q", req.GetHash())
	}
	if req.GetFields()["amount"] != "25.00" {
		t.Fatalf("expected amount field, got %v", req.GetFields())
	}
	if _, ok := req.GetFields()["MaskedPan"]; ok || strings.Contains(req.GetPayload(), "4358") {
		t.Fatal("expected card fields to be dropped")
	}
	if !strings.HasPrefix(req.GetPayload(), `{"HASH":"abc","Response":"Approved","ReturnOid":"ORD-1"`) {
		t.Fatalf("expected sorted payload, got %s", req.GetPayload())
	}
}

func TestPaymentCallbackRequestKeepsHashUntrimmed(t *testing.T) {
	req := NewPaymentCallbackRequest(map[string]string{
		"ReturnOid": "ORD-1",
		"Response":  "Approved",
		"Hash":      "  ",
		"HASH":      " abc= ",
	})
	if req.GetHash() != " abc= " {
		t.Fatalf("expected posted hash verbatim, got %q", req.GetHash())
	}
}

func TestPaymentCallbackRequestFromJSONKeepsNumbers(t *testing.T) {
	ctx, _ := newJSONContext(http.MethodPost, "/api/orders/payment-callback", `{"ReturnOid":"ORD-1","Response":"Declined","Hash":"x","amount":25.00,"taksit":null}`)

	req, err := NewPaymentCallbackRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if req.GetFields()["amount"] != "25.00" {
		t.Fatalf("expected literal amount, got %q", req.GetFields()["amount"])
	}
	if v, ok := req.GetFields()["taksit"]; !ok || v != "" {
		t.Fatalf("expected empty taksit, got %q", v)
	}
}

func TestPaymentCallbackValidateRequiresFields(t *testing.T) {
	cases := []map[string]string{
		{"Response": "Approved", "Hash": "x"},
		{"ReturnOid": "ORD-1", "Hash": "x"},
		{"ReturnOid": "ORD-1", "Response": "Approved"},
	}
	for _, fields := range cases {
		if err := NewPaymentCallbackRequest(fields).Validate(); err == nil {
			t.Fatalf("expected validation error for %v", fields)
		}
	}
}

func TestDirectPaymentValidate(t *testing.T) {
	ctx, _ := newJSONContext(http.MethodPost, "/api/payments/test", `{"amount":"10.00","card_number":"4355 0843 5508 4358","expiry":"12/26","cvv":"000"}`)
	req, err := NewDirectPaymentRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if req.GetCardNumber() != "4355084355084358" {
		t.Fatalf("expected spaces stripped, got %q", req.GetCardNumber())
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}

	req.Expiry = "2026-12"
	if err := req.Validate(); err == nil {
		t.Fatal("expected expiry validation error")
	}
}

func TestPaymentRedirectApproved(t *testing.T) {
	form := url.Values{}
	form.Set("ProcReturnCode", "00")
	form.Set("oid", "ORD-1")

	e := echo.New()
	httpReq := httptest.NewRequest(http.MethodPost, "/api/payments/success", strings.NewReader(form.Encode()))
	httpReq.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	ctx := e.NewContext(httpReq, httptest.NewRecorder())

	req, err := NewPaymentRedirectRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !req.Approved() || req.OrderID != "ORD-1" {
		t.Fatalf("unexpected redirect parse: %+v", req)
	}
}
