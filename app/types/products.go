package types

import (
	"errors"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ListProductsRequest struct {
	Style  string
	Search string
	Limit  int32
	Offset int32
}

func NewListProductsRequestFromContext(ctx echo.Context) (*ListProductsRequest, error) {
	req := &ListProductsRequest{
		Style:  strings.TrimSpace(ctx.QueryParam("style")),
		Search: strings.TrimSpace(ctx.QueryParam("search")),
	}

	limit, offset, err := parsePage(ctx)
	if err != nil {
		return nil, err
	}
	req.Limit = limit
	req.Offset = offset

	return req, nil
}

func (r *ListProductsRequest) Validate() error {
	return validatePage(&r.Limit, r.Offset)
}

func (r *ListProductsRequest) GetStyle() string {
	return r.Style
}

func (r *ListProductsRequest) GetSearch() string {
	return r.Search
}

func (r *ListProductsRequest) GetLimit() int32 {
	return r.Limit
}

func (r *ListProductsRequest) GetOffset() int32 {
	return r.Offset
}

type ProductIDRequest struct {
	ID uint64
}

func NewProductIDRequestFromContext(ctx echo.Context) (*ProductIDRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}
	return &ProductIDRequest{ID: id}, nil
}

func (r *ProductIDRequest) Validate() error {
	if r.ID == 0 {
		return errors.New("invalid product id")
	}
	return nil
}

func (r *ProductIDRequest) GetID() uint64 {
	return r.ID
}

// SaveProductRequest creates a product, or replaces one when ID is set.
type SaveProductRequest struct {
	ID              uint64          `json:"-"`
	Name            string          `json:"name" validate:"required,max=200"`
	Description     string          `json:"description" validate:"max=5000"`
	Price           decimal.Decimal `json:"price"`
	AvailableSizes  []string        `json:"available_sizes" validate:"required,min=1,dive,oneof=Small Medium Large X-Large XXL 3XL 4XL 5XL"`
	AvailableColors []string        `json:"available_colors" validate:"required,min=1,dive,required,max=50"`
	Style           string          `json:"style" validate:"max=50"`
}

func NewCreateProductRequestFromContext(ctx echo.Context) (*SaveProductRequest, error) {
	var body SaveProductRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.normalize()
	return &body, nil
}

func NewUpdateProductRequestFromContext(ctx echo.Context) (*SaveProductRequest, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, err
	}

	var body SaveProductRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}
	body.ID = id
	body.normalize()
	return &body, nil
}

func (r *SaveProductRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Style = strings.TrimSpace(r.Style)
	if r.Style == "" {
		r.Style = defaultStyle
	}
	r.AvailableSizes = trimList(r.AvailableSizes)
	r.AvailableColors = trimList(r.AvailableColors)
}

func (r *SaveProductRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	if !r.Price.IsPositive() {
		return errors.New("price must be > 0")
	}
	if !r.Price.Equal(r.Price.Round(2)) {
		return errors.New("price must have at most two decimals")
	}
	return nil
}

func (r *SaveProductRequest) GetID() uint64 {
	return r.ID
}

func (r *SaveProductRequest) GetName() string {
	return r.Name
}

func (r *SaveProductRequest) GetDescription() string {
	return r.Description
}

func (r *SaveProductRequest) GetPrice() decimal.Decimal {
	return r.Price
}

func (r *SaveProductRequest) GetAvailableSizes() []string {
	return r.AvailableSizes
}

func (r *SaveProductRequest) GetAvailableColors() []string {
	return r.AvailableColors
}

func (r *SaveProductRequest) GetStyle() string {
	return r.Style
}

func trimList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		out = append(out, value)
	}
	return out
}
