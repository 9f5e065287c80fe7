package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Cart struct {
	ID     uint64
	UserID uint64

	Items []CartItem
	Total decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

type CartItem struct {
	ID              string          `json:"id"`
	ProductID       uint64          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Size            string          `json:"size"`
	Color           string          `json:"color"`
	Style           string          `json:"style,omitempty"`
	CustomText      string          `json:"custom_text,omitempty"`
	Pattern         string          `json:"pattern,omitempty"`
	Quantity        int32           `json:"quantity"`
	PriceAtAddition decimal.Decimal `json:"price_at_addition"`
}

// SameLine reports whether two items only differ by quantity.
func (i CartItem) SameLine(other CartItem) bool {
	return i.ProductID == other.ProductID &&
		i.Size == other.Size &&
		strings.EqualFold(i.Color, other.Color) &&
		i.Style == other.Style &&
		i.CustomText == other.CustomText &&
		i.Pattern == other.Pattern
}

// Recalculate sums item prices into Total.
func (c *Cart) Recalculate() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.PriceAtAddition.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	c.Total = total
}
