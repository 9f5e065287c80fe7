package provider

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-storefront/app/signature"
)

var (
	ErrUpstreamTimeout   = errors.New("bank request timed out")
	ErrUpstreamFailed    = errors.New("bank request failed")
	ErrInvalidAmount     = errors.New("amount must be greater than zero")
	ErrNotConfigured     = errors.New("bank gateway is not configured")
	ErrSignatureMismatch = signature.ErrSignatureMismatch
)

// ResponseApproved is the callback Response value of a successful payment.
const ResponseApproved = "Approved"

// CheckoutFields is the positional field order signed for order checkout and
// recomputed for its callback.
var CheckoutFields = []string{"clientid", "oid", "amount", "okUrl", "failUrl", "islemtipi", "taksit", "rnd"}

// Intent is a signed request for the bank's hosted payment page.
type Intent struct {
	GatewayURL string
	Params     signature.Params
}

type HostedPaymentInput struct {
	OrderID string
	Amount  decimal.Decimal
	Email   string
	Name    string
}

type DirectAuthInput struct {
	Amount     decimal.Decimal
	CardNumber string
	Expiry     string
	CVV        string
}

type DirectAuthResult struct {
	OrderID        string
	Response       string
	AuthCode       string
	ProcReturnCode string
	TransID        string
	ErrMsg         string
	Raw            string
}

func (r *DirectAuthResult) Approved() bool {
	return r != nil && r.Response == ResponseApproved
}
