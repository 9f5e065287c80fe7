package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-storefront/app/auth"
)

const (
	defaultListLimit = int32(100)
	maxListLimit     = int32(500)
)

type ShippingDetails struct {
	Name    string `json:"name" validate:"required,max=200"`
	Street  string `json:"street" validate:"required,max=255"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state,omitempty" validate:"max=100"`
	Zip     string `json:"zip" validate:"required,max=20"`
	Country string `json:"country" validate:"required,max=100"`
	Phone   string `json:"phone,omitempty" validate:"max=50"`
}

type CreateOrderRequest struct {
	UserID          uint64          `json:"-"`
	ShippingDetails ShippingDetails `json:"shipping_details"`
}

func NewCreateOrderRequestFromContext(ctx echo.Context) (*CreateOrderRequest, error) {
	var body CreateOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.UserID = auth.UserIDFromContext(ctx)
	s := &body.ShippingDetails
	s.Name = strings.TrimSpace(s.Name)
	s.Street = strings.TrimSpace(s.Street)
	s.City = strings.TrimSpace(s.City)
	s.State = strings.TrimSpace(s.State)
	s.Zip = strings.TrimSpace(s.Zip)
	s.Country = strings.TrimSpace(s.Country)
	s.Phone = strings.TrimSpace(s.Phone)

	return &body, nil
}

func (r *CreateOrderRequest) Validate() error {
	if r.UserID == 0 {
		return errors.New("user is required")
	}
	return validateStruct(r)
}

func (r *CreateOrderRequest) GetUserID() uint64 {
	return r.UserID
}

func (r *CreateOrderRequest) GetShippingDetails() ShippingDetails {
	return r.ShippingDetails
}

type GetOrderRequest struct {
	ID      uint64
	UserID  uint64
	IsAdmin bool
}

func NewGetOrderRequestFromContext(ctx echo.Context) (*GetOrderRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}

	req := &GetOrderRequest{ID: id, UserID: auth.UserIDFromContext(ctx)}
	if claims, ok := auth.ClaimsFromContext(ctx); ok {
		req.IsAdmin = claims.IsAdmin()
	}
	return req, nil
}

func (r *GetOrderRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("invalid order id")
	}
	return nil
}

func (r *GetOrderRequest) GetID() uint64 {
	return r.ID
}

func (r *GetOrderRequest) GetUserID() uint64 {
	return r.UserID
}

func (r *GetOrderRequest) GetIsAdmin() bool {
	return r.IsAdmin
}

type GetOrderStatusRequest struct {
	OrderID string
	UserID  uint64
}

func NewGetOrderStatusRequestFromContext(ctx echo.Context) (*GetOrderStatusRequest, error) {
	return &GetOrderStatusRequest{
		OrderID: strings.TrimSpace(ctx.Param("id")),
		UserID:  auth.UserIDFromContext(ctx),
	}, nil
}

func (r *GetOrderStatusRequest) Validate() error {
	if r.OrderID == "" {
		return errors.New("order id is required")
	}
	return nil
}

func (r *GetOrderStatusRequest) GetOrderID() string {
	return r.OrderID
}

func (r *GetOrderStatusRequest) GetUserID() uint64 {
	return r.UserID
}

type ListOrdersRequest struct {
	UserID        uint64
	PaymentStatus string
	OrderStatus   string
	Limit         int32
	Offset        int32
}

// NewListOrdersRequestFromContext parses filters from the query string.
// UserID is left for the caller to scope.
func NewListOrdersRequestFromContext(ctx echo.Context) (*ListOrdersRequest, error) {
	req := &ListOrdersRequest{
		PaymentStatus: strings.TrimSpace(ctx.QueryParam("payment_status")),
		OrderStatus:   strings.TrimSpace(ctx.QueryParam("order_status")),
	}

	limit, offset, err := parsePage(ctx)
	if err != nil {
		return nil, err
	}
	req.Limit = limit
	req.Offset = offset

	return req, nil
}

func (r *ListOrdersRequest) Validate() error {
	if err := validatePage(&r.Limit, r.Offset); err != nil {
		return err
	}
	switch r.PaymentStatus {
	case "", "Pending", "Paid", "Failed":
	default:
		return errors.New("invalid payment_status")
	}
	switch r.OrderStatus {
	case "", "Processing", "Shipped", "Delivered", "Cancelled":
	default:
		return errors.New("invalid order_status")
	}
	return nil
}

func (r *ListOrdersRequest) GetUserID() uint64 {
	return r.UserID
}

func (r *ListOrdersRequest) GetPaymentStatus() string {
	return r.PaymentStatus
}

func (r *ListOrdersRequest) GetOrderStatus() string {
	return r.OrderStatus
}

func (r *ListOrdersRequest) GetLimit() int32 {
	return r.Limit
}

func (r *ListOrdersRequest) GetOffset() int32 {
	return r.Offset
}

type UpdateOrderStatusRequest struct {
	ID     uint64 `json:"-"`
	Status string `json:"status" validate:"required,oneof=Processing Shipped Delivered Cancelled"`
}

func NewUpdateOrderStatusRequestFromContext(ctx echo.Context) (*UpdateOrderStatusRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}

	var body UpdateOrderStatusRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.ID = id
	body.Status = strings.TrimSpace(body.Status)

	return &body, nil
}

func (r *UpdateOrderStatusRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("invalid order id")
	}
	return validateStruct(r)
}

func (r *UpdateOrderStatusRequest) GetID() uint64 {
	return r.ID
}

func (r *UpdateOrderStatusRequest) GetStatus() string {
	return r.Status
}

func parsePage(ctx echo.Context) (int32, int32, error) {
	limit := defaultListLimit
	offset := int32(0)

	if limitRaw := strings.TrimSpace(ctx.QueryParam("limit")); limitRaw != "" {
		parsed, err := strconv.ParseInt(limitRaw, 10, 32)
		if err != nil {
			return 0, 0, err
		}
		limit = int32(parsed)
	}

	if offsetRaw := strings.TrimSpace(ctx.QueryParam("offset")); offsetRaw != "" {
		parsed, err := strconv.ParseInt(offsetRaw, 10, 32)
		if err != nil {
			return 0, 0, err
		}
		offset = int32(parsed)
	}

	return limit, offset, nil
}

func validatePage(limit *int32, offset int32) error {
	if *limit == 0 {
		*limit = defaultListLimit
	}
	if *limit < 0 || *limit > maxListLimit {
		return errors.New("limit must be between 1 and 500")
	}
	if offset < 0 {
		return errors.New("offset must be >= 0")
	}
	return nil
}
