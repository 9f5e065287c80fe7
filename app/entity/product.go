package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ProductSizes = []string{"Small", "Medium", "Large", "X-Large", "XXL", "3XL", "4XL", "5XL"}

type Product struct {
	ID uint64

	Name        string
	Description string
	Price       decimal.Decimal

	AvailableSizes  []string
	AvailableColors []string
	Style           string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Product) HasSize(size string) bool {
	return contains(p.AvailableSizes, size)
}

// HasColor matches colours case-insensitively.
func (p *Product) HasColor(color string) bool {
	for _, item := range p.AvailableColors {
		if strings.EqualFold(item, color) {
			return true
		}
	}
	return false
}

func contains(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}
