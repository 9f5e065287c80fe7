package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusFailed  PaymentStatus = "Failed"
)

// Terminal reports whether no further payment transition is allowed.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusPaid || s == PaymentStatusFailed
}

type OrderStatus string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

const (
	NotificationNone    int32 = 0
	NotificationPending int32 = 1
	NotificationSent    int32 = 10
	NotificationFailed  int32 = 20
)

type Order struct {
	ID uint64

	OrderID string
	UserID  uint64

	Items    []OrderItem
	Shipping ShippingDetails

	TotalAmount decimal.Decimal

	PaymentStatus PaymentStatus
	OrderStatus   OrderStatus

	TransactionID *string
	AuthCode      *string
	PaidAt        *time.Time

	NotificationStatus   int32
	NotificationAttempts int32
	NotificationNextAt   *time.Time
	NotificationLastErr  *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ProductID       uint64          `json:"product_id"`
	ProductName     string          `json:"product_name"`
	Size            string          `json:"size"`
	Color           string          `json:"color"`
	Style           string          `json:"style,omitempty"`
	CustomText      string          `json:"custom_text,omitempty"`
	Pattern         string          `json:"pattern,omitempty"`
	Quantity        int32           `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"price_at_purchase"`
}

func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtPurchase.Mul(decimal.NewFromInt32(i.Quantity))
}

type ShippingDetails struct {
	Name    string `json:"name"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
}
