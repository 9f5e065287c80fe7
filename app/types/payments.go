package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-storefront/app/signature"
)

// Callback field names posted by the bank.
const (
	FieldReturnOid      = "ReturnOid"
	FieldResponse       = "Response"
	FieldTransID        = "TransId"
	FieldAuthCode       = "AuthCode"
	FieldProcReturnCode = "ProcReturnCode"
)

// cardFields never leave the request, not even into the audit payload.
var cardFields = map[string]struct{}{
	"pan":                             {},
	"maskedpan":                       {},
	"cardnumber":                      {},
	"cardexpired":                     {},
	"cvv":                             {},
	"cvv2":                            {},
	"ecom_payment_card_expdate_month": {},
	"ecom_payment_card_expdate_year":  {},
}

// PaymentCallbackRequest is the server-to-server result posted by the bank.
type PaymentCallbackRequest struct {
	ReturnOid      string
	Response       string
	TransID        string
	AuthCode       string
	ProcReturnCode string
	Hash           string

	Fields  map[string]string
	Payload string
}

func NewPaymentCallbackRequestFromContext(ctx echo.Context) (*PaymentCallbackRequest, error) {
	fields, err := readFields(ctx)
	if err != nil {
		return nil, err
	}
	return NewPaymentCallbackRequest(fields), nil
}

// NewPaymentCallbackRequest builds a callback request from posted fields.
// Card fields are dropped.
func NewPaymentCallbackRequest(fields map[string]string) *PaymentCallbackRequest {
	clean := make(map[string]string, len(fields))
	for name, value := range fields {
		if _, ok := cardFields[strings.ToLower(name)]; ok {
			continue
		}
		clean[name] = value
	}

	req := &PaymentCallbackRequest{
		ReturnOid:      strings.TrimSpace(clean[FieldReturnOid]),
		Response:       strings.TrimSpace(clean[FieldResponse]),
		TransID:        strings.TrimSpace(clean[FieldTransID]),
		AuthCode:       strings.TrimSpace(clean[FieldAuthCode]),
		ProcReturnCode: strings.TrimSpace(clean[FieldProcReturnCode]),
		Hash:           firstPresent(clean["Hash"], clean["HASH"], clean["hash"]),
		Fields:         clean,
	}
	req.Payload = encodePayload(clean)

	return req
}

func (r *PaymentCallbackRequest) Validate() error {
	if r.ReturnOid == "" {
		return errors.New("ReturnOid is required")
	}
	if r.Response == "" {
		return errors.New("Response is required")
	}
	if r.Hash == "" {
		return errors.New("Hash is required")
	}
	return nil
}

func (r *PaymentCallbackRequest) GetReturnOid() string {
	return r.ReturnOid
}

func (r *PaymentCallbackRequest) GetResponse() string {
	return r.Response
}

func (r *PaymentCallbackRequest) GetTransID() string {
	return r.TransID
}

func (r *PaymentCallbackRequest) GetAuthCode() string {
	return r.AuthCode
}

func (r *PaymentCallbackRequest) GetHash() string {
	return r.Hash
}

func (r *PaymentCallbackRequest) GetFields() map[string]string {
	return r.Fields
}

func (r *PaymentCallbackRequest) GetPayload() string {
	return r.Payload
}

// PaymentRedirectRequest is the browser redirect from the hosted page.
type PaymentRedirectRequest struct {
	OrderID        string
	Response       string
	ProcReturnCode string
}

func NewPaymentRedirectRequestFromContext(ctx echo.Context) (*PaymentRedirectRequest, error) {
	fields, err := readFields(ctx)
	if err != nil {
		return nil, err
	}
	return &PaymentRedirectRequest{
		OrderID:        firstNonEmpty(fields["oid"], fields[FieldReturnOid]),
		Response:       strings.TrimSpace(fields[FieldResponse]),
		ProcReturnCode: strings.TrimSpace(fields[FieldProcReturnCode]),
	}, nil
}

// Approved reports the bank's browser-side result. It is not authoritative.
func (r *PaymentRedirectRequest) Approved() bool {
	return r.ProcReturnCode == "00"
}

type CreateHostedPaymentRequest struct {
	OrderID string          `json:"order_id" validate:"required,max=64"`
	Amount  decimal.Decimal `json:"amount"`
	Email   string          `json:"email" validate:"omitempty,email"`
	Name    string          `json:"name" validate:"max=200"`
}

func NewCreateHostedPaymentRequestFromContext(ctx echo.Context) (*CreateHostedPaymentRequest, error) {
	var body CreateHostedPaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.OrderID = strings.TrimSpace(body.OrderID)
	body.Email = strings.TrimSpace(body.Email)
	body.Name = strings.TrimSpace(body.Name)
	return &body, nil
}

func (r *CreateHostedPaymentRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return errors.New("amount must be > 0")
	}
	return nil
}

func (r *CreateHostedPaymentRequest) GetOrderID() string {
	return r.OrderID
}

func (r *CreateHostedPaymentRequest) GetAmount() decimal.Decimal {
	return r.Amount
}

func (r *CreateHostedPaymentRequest) GetEmail() string {
	return r.Email
}

func (r *CreateHostedPaymentRequest) GetName() string {
	return r.Name
}

// DirectPaymentRequest carries card data for the staging bank API. It must
// not be logged.
type DirectPaymentRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	CardNumber string          `json:"card_number" validate:"required,numeric,min=12,max=19"`
	Expiry     string          `json:"expiry" validate:"required"`
	CVV        string          `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

func NewDirectPaymentRequestFromContext(ctx echo.Context) (*DirectPaymentRequest, error) {
	var body DirectPaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.CardNumber = strings.ReplaceAll(strings.TrimSpace(body.CardNumber), " ", "")
	body.Expiry = strings.TrimSpace(body.Expiry)
	body.CVV = strings.TrimSpace(body.CVV)
	return &body, nil
}

func (r *DirectPaymentRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return errors.New("amount must be > 0")
	}
	if len(strings.ReplaceAll(r.Expiry, "/", "")) != 4 {
		return errors.New("expiry must be MM/YY")
	}
	return nil
}

func (r *DirectPaymentRequest) GetAmount() decimal.Decimal {
	return r.Amount
}

func (r *DirectPaymentRequest) GetCardNumber() string {
	return r.CardNumber
}

func (r *DirectPaymentRequest) GetExpiry() string {
	return r.Expiry
}

func (r *DirectPaymentRequest) GetCVV() string {
	return r.CVV
}

// readFields collects posted fields from a form or a flat JSON object.
func readFields(ctx echo.Context) (map[string]string, error) {
	contentType := ctx.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		raw := map[string]interface{}{}
		decoder := json.NewDecoder(ctx.Request().Body)
		decoder.UseNumber()
		if err := decoder.Decode(&raw); err != nil {
			return nil, err
		}
		fields := make(map[string]string, len(raw))
		for name, value := range raw {
			switch v := value.(type) {
			case nil:
				fields[name] = ""
			case string:
				fields[name] = v
			default:
				fields[name] = fmt.Sprint(v)
			}
		}
		return fields, nil
	}

	values, err := ctx.FormParams()
	if err != nil {
		return nil, err
	}
	fields := make(map[string]string, len(values))
	for name := range values {
		fields[name] = values.Get(name)
	}
	return fields, nil
}

func encodePayload(fields map[string]string) string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	params := make(signature.Params, 0, len(names))
	for _, name := range names {
		params = append(params, signature.Param{Name: name, Value: fields[name]})
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// firstPresent returns the first value that is not blank, untrimmed.
func firstPresent(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
