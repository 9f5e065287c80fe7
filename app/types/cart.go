package types

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/vibast-solutions/ms-go-storefront/app/auth"
)

const defaultStyle = "Regular"

type GetCartRequest struct {
	UserID uint64
}

func NewGetCartRequestFromContext(ctx echo.Context) (*GetCartRequest, error) {
	return &GetCartRequest{UserID: auth.UserIDFromContext(ctx)}, nil
}

func (r *GetCartRequest) Validate() error {
	if r.UserID == 0 {
		return errors.New("user is required")
	}
	return nil
}

func (r *GetCartRequest) GetUserID() uint64 {
	return r.UserID
}

type AddCartItemRequest struct {
	UserID     uint64 `json:"-"`
	ProductID  uint64 `json:"product_id" validate:"required"`
	Size       string `json:"size" validate:"required"`
	Color      string `json:"color" validate:"required"`
	Style      string `json:"style"`
	CustomText string `json:"custom_text" validate:"max=200"`
	Pattern    string `json:"pattern" validate:"max=100"`
	Quantity   int32  `json:"quantity" validate:"gte=1,lte=99"`
}

func NewAddCartItemRequestFromContext(ctx echo.Context) (*AddCartItemRequest, error) {
	var body AddCartItemRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.UserID = auth.UserIDFromContext(ctx)
	body.Size = strings.TrimSpace(body.Size)
	body.Color = strings.TrimSpace(body.Color)
	body.Style = strings.TrimSpace(body.Style)
	if body.Style == "" {
		body.Style = defaultStyle
	}
	body.CustomText = strings.TrimSpace(body.CustomText)
	body.Pattern = strings.TrimSpace(body.Pattern)
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	return &body, nil
}

func (r *AddCartItemRequest) Validate() error {
	if r.UserID == 0 {
		return errors.New("user is required")
	}
	return validateStruct(r)
}

func (r *AddCartItemRequest) GetUserID() uint64 {
	return r.UserID
}

func (r *AddCartItemRequest) GetProductID() uint64 {
	return r.ProductID
}

func (r *AddCartItemRequest) GetSize() string {
	return r.Size
}

func (r *AddCartItemRequest) GetColor() string {
	return r.Color
}

func (r *AddCartItemRequest) GetStyle() string {
	return r.Style
}

func (r *AddCartItemRequest) GetCustomText() string {
	return r.CustomText
}

func (r *AddCartItemRequest) GetPattern() string {
	return r.Pattern
}

func (r *AddCartItemRequest) GetQuantity() int32 {
	return r.Quantity
}

// UpdateCartItemRequest changes a cart line. Empty attributes keep their
// current value.
type UpdateCartItemRequest struct {
	UserID     uint64  `json:"-"`
	ItemID     string  `json:"-"`
	Quantity   int32   `json:"quantity" validate:"omitempty,gte=1,lte=99"`
	Size       string  `json:"size"`
	Color      string  `json:"color"`
	Style      string  `json:"style"`
	CustomText *string `json:"custom_text" validate:"omitempty,max=200"`
	Pattern    *string `json:"pattern" validate:"omitempty,max=100"`
}

func NewUpdateCartItemRequestFromContext(ctx echo.Context) (*UpdateCartItemRequest, error) {
	var body UpdateCartItemRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.UserID = auth.UserIDFromContext(ctx)
	body.ItemID = strings.TrimSpace(ctx.Param("itemId"))
	body.Size = strings.TrimSpace(body.Size)
	body.Color = strings.TrimSpace(body.Color)
	body.Style = strings.TrimSpace(body.Style)

	return &body, nil
}

func (r *UpdateCartItemRequest) Validate() error {
	if r.UserID == 0 {
		return errors.New("user is required")
	}
	if r.ItemID == "" {
		return errors.New("item id is required")
	}
	return validateStruct(r)
}

func (r *UpdateCartItemRequest) GetUserID() uint64 {
	return r.UserID
}

func (r *UpdateCartItemRequest) GetItemID() string {
	return r.ItemID
}

func (r *UpdateCartItemRequest) GetQuantity() int32 {
	return r.Quantity
}

func (r *UpdateCartItemRequest) GetSize() string {
	return r.Size
}

func (r *UpdateCartItemRequest) GetColor() string {
	return r.Color
}

func (r *UpdateCartItemRequest) GetStyle() string {
	return r.Style
}

func (r *UpdateCartItemRequest) GetCustomText() *string {
	return r.CustomText
}

func (r *UpdateCartItemRequest) GetPattern() *string {
	return r.Pattern
}

type RemoveCartItemRequest struct {
	UserID uint64
	ItemID string
}

func NewRemoveCartItemRequestFromContext(ctx echo.Context) (*RemoveCartItemRequest, error) {
	return &RemoveCartItemRequest{
		UserID: auth.UserIDFromContext(ctx),
		ItemID: strings.TrimSpace(ctx.Param("itemId")),
	}, nil
}

func (r *RemoveCartItemRequest) Validate() error {
	if r.UserID == 0 {
		return errors.New("user is required")
	}
	if r.ItemID == "" {
		return errors.New("item id is required")
	}
	return nil
}

func (r *RemoveCartItemRequest) GetUserID() uint64 {
	return r.UserID
}

func (r *RemoveCartItemRequest) GetItemID() string {
	return r.ItemID
}
