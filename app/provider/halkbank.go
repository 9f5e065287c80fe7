package provider

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-storefront/app/signature"
)

const GatewayName = "halkbank"

const (
	storeType3DPayHosting = "3D_PAY_HOSTING"
	transactionTypeAuth   = "Auth"
	encodingUTF8          = "UTF-8"
	nonceLength           = 20
)

type HalkbankConfig struct {
	ClientID        string
	StoreKey        string
	GatewayURL      string
	APIURL          string
	APIUser         string
	APIPassword     string
	CallbackBaseURL string
	FrontendURL     string
	CompanyName     string
	Language        string
	Currency        string
	HTTPTimeout     time.Duration
}

type Option func(p *HalkbankProvider)

// WithNonce replaces the random nonce generator.
func WithNonce(fn func() string) Option {
	return func(p *HalkbankProvider) {
		p.nonce = fn
	}
}

func WithClock(fn func() time.Time) Option {
	return func(p *HalkbankProvider) {
		p.now = fn
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(p *HalkbankProvider) {
		p.client = client
	}
}

// HalkbankProvider assembles signed payment requests for the bank's 3-D
// hosted page, verifies its callbacks and calls its direct API.
type HalkbankProvider struct {
	cfg      HalkbankConfig
	client   *http.Client
	checkout *signature.Signer
	hosted   *signature.Signer
	direct   *signature.Signer
	nonce    func() string
	now      func() time.Time
}

func NewHalkbankProvider(cfg HalkbankConfig, opts ...Option) *HalkbankProvider {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if strings.TrimSpace(cfg.Currency) == "" {
		cfg.Currency = "807"
	}
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = "en"
	}

	p := &HalkbankProvider{
		cfg:      cfg,
		client:   &http.Client{Timeout: timeout},
		checkout: signature.NewPositionalSigner(cfg.StoreKey, CheckoutFields...),
		hosted:   signature.NewHashV3Signer(cfg.StoreKey),
		direct:   signature.NewPositionalSigner(cfg.StoreKey, "orderid", "amount", "currency"),
		nonce:    newNonce,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *HalkbankProvider) Name() string {
	return GatewayName
}

// Ready reports ErrNotConfigured when checkout requests cannot be signed.
func (p *HalkbankProvider) Ready() error {
	return p.requireConfigured()
}

// CheckoutIntent builds the signed hosted-page request for a confirmed order.
func (p *HalkbankProvider) CheckoutIntent(orderID string, amount decimal.Decimal) (*Intent, error) {
	if err := p.requireConfigured(); err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	frontend := strings.TrimRight(strings.TrimSpace(p.cfg.FrontendURL), "/")
	escapedOrderID := url.QueryEscape(orderID)

	params := signature.Params{
		{Name: "clientid", Value: p.cfg.ClientID},
		{Name: "amount", Value: formatAmount(amount)},
		{Name: "oid", Value: orderID},
		{Name: "okUrl", Value: frontend + "/payment-success.html?orderId=" + escapedOrderID},
		{Name: "failUrl", Value: frontend + "/payment-failed.html?orderId=" + escapedOrderID},
		{Name: "rnd", Value: p.nonce()},
		{Name: "currency", Value: p.cfg.Currency},
		{Name: "storetype", Value: storeType3DPayHosting},
		{Name: "islemtipi", Value: transactionTypeAuth},
		{Name: "taksit", Value: ""},
		{Name: "lang", Value: p.cfg.Language},
		{Name: "encoding", Value: encodingUTF8},
	}

	signed, err := p.checkout.Attach(params)
	if err != nil {
		return nil, err
	}
	return &Intent{GatewayURL: p.cfg.GatewayURL, Params: signed}, nil
}

// HostedIntent builds a Hashv3 signed hosted-page request.
func (p *HalkbankProvider) HostedIntent(input *HostedPaymentInput) (*Intent, error) {
	if err := p.requireConfigured(); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	successURL := joinURL(p.cfg.CallbackBaseURL, "success")
	params := signature.Params{
		{Name: "clientid", Value: p.cfg.ClientID},
		{Name: "amount", Value: formatAmount(input.Amount)},
		{Name: "oid", Value: input.OrderID},
		{Name: "okurl", Value: successURL},
		{Name: "failUrl", Value: joinURL(p.cfg.CallbackBaseURL, "fail")},
		{Name: "TranType", Value: transactionTypeAuth},
		{Name: "Instalment", Value: ""},
		{Name: "callbackUrl", Value: successURL},
		{Name: "rnd", Value: p.nonce()},
		{Name: "currency", Value: p.cfg.Currency},
		{Name: "storetype", Value: storeType3DPayHosting},
		{Name: "hashAlgorithm", Value: "ver3"},
		{Name: "lang", Value: p.cfg.Language},
		{Name: "BillToName", Value: input.Name},
		{Name: "BillToCompany", Value: p.cfg.CompanyName},
		{Name: "email", Value: input.Email},
		{Name: "refreshtime", Value: "5"},
		{Name: "encoding", Value: encodingUTF8},
	}

	signed, err := p.hosted.Attach(params)
	if err != nil {
		return nil, err
	}
	return &Intent{GatewayURL: p.cfg.GatewayURL, Params: signed}, nil
}

// VerifyCallback recomputes the checkout signature from the fields echoed in
// a bank callback and compares it with hash.
func (p *HalkbankProvider) VerifyCallback(fields map[string]string, hash string) error {
	params := make(signature.Params, 0, len(CheckoutFields))
	for _, name := range CheckoutFields {
		params = append(params, signature.Param{Name: name, Value: fields[name]})
	}
	return p.checkout.Verify(params, hash)
}

type cc5Response struct {
	XMLName        xml.Name `xml:"CC5Response"`
	OrderID        string   `xml:"OrderId"`
	Response       string   `xml:"Response"`
	AuthCode       string   `xml:"AuthCode"`
	ProcReturnCode string   `xml:"ProcReturnCode"`
	TransID        string   `xml:"TransId"`
	ErrMsg         string   `xml:"ErrMsg"`
}

// Authorize charges a card through the bank's direct API. Card data is sent
// to the bank only.
func (p *HalkbankProvider) Authorize(ctx context.Context, input *DirectAuthInput) (*DirectAuthResult, error) {
	if err := p.requireConfigured(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.cfg.APIURL) == "" {
		return nil, ErrNotConfigured
	}
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	orderID := "TEST-" + strconv.FormatInt(p.now().UnixMilli(), 10)
	params := signature.Params{
		{Name: "clientid", Value: p.cfg.ClientID},
		{Name: "username", Value: p.cfg.APIUser},
		{Name: "password", Value: p.cfg.APIPassword},
		{Name: "storetype", Value: storeType3DPayHosting},
		{Name: "orderid", Value: orderID},
		{Name: "amount", Value: formatAmount(input.Amount)},
		{Name: "currency", Value: p.cfg.Currency},
		{Name: "cardnumber", Value: input.CardNumber},
		{Name: "cardexpired", Value: strings.ReplaceAll(input.Expiry, "/", "")},
		{Name: "cvv2", Value: input.CVV},
	}
	sig, err := p.direct.Sign(params)
	if err != nil {
		return nil, err
	}
	params.Set(signature.HashField, sig)
	params.Set("encoding", encodingUTF8)

	body, err := p.postForm(ctx, params)
	if err != nil {
		return nil, err
	}

	result := &DirectAuthResult{OrderID: orderID, Raw: string(body)}
	var parsed cc5Response
	if err := xml.Unmarshal(body, &parsed); err == nil {
		result.Response = strings.TrimSpace(parsed.Response)
		result.AuthCode = strings.TrimSpace(parsed.AuthCode)
		result.ProcReturnCode = strings.TrimSpace(parsed.ProcReturnCode)
		result.TransID = strings.TrimSpace(parsed.TransID)
		result.ErrMsg = strings.TrimSpace(parsed.ErrMsg)
		if id := strings.TrimSpace(parsed.OrderID); id != "" {
			result.OrderID = id
		}
	}
	return result, nil
}

func (p *HalkbankProvider) postForm(ctx context.Context, params signature.Params) ([]byte, error) {
	values := url.Values{}
	for _, item := range params {
		values.Set(item.Name, item.Value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.APIURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstreamFailed, err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: status=%d", ErrUpstreamFailed, resp.StatusCode)
	}

	return body, nil
}

func (p *HalkbankProvider) requireConfigured() error {
	if strings.TrimSpace(p.cfg.ClientID) == "" || strings.TrimSpace(p.cfg.StoreKey) == "" || strings.TrimSpace(p.cfg.GatewayURL) == "" {
		return ErrNotConfigured
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

func newNonce() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:nonceLength]
}

func joinURL(baseURL, path string) string {
	baseURL = strings.TrimSpace(strings.TrimRight(baseURL, "/"))
	path = strings.TrimSpace(strings.TrimLeft(path, "/"))
	if baseURL == "" || path == "" {
		return ""
	}
	return baseURL + "/" + path
}
