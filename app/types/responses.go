package types

import "github.com/vibast-solutions/ms-go-storefront/app/signature"

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type OrderItem struct {
	ProductID       uint64 `json:"product_id"`
	ProductName     string `json:"product_name"`
	Size            string `json:"size"`
	Color           string `json:"color"`
	Style           string `json:"style,omitempty"`
	CustomText      string `json:"custom_text,omitempty"`
	Pattern         string `json:"pattern,omitempty"`
	Quantity        int32  `json:"quantity"`
	PriceAtPurchase string `json:"price_at_purchase"`
}

type Order struct {
	ID              uint64          `json:"id"`
	OrderID         string          `json:"order_id"`
	UserID          uint64          `json:"user_id"`
	Items           []OrderItem     `json:"items"`
	ShippingDetails ShippingDetails `json:"shipping_details"`
	TotalAmount     string          `json:"total_amount"`
	PaymentStatus   string          `json:"payment_status"`
	OrderStatus     string          `json:"order_status"`
	TransactionID   string          `json:"transaction_id,omitempty"`
	AuthCode        string          `json:"auth_code,omitempty"`
	PaidAt          string          `json:"paid_at,omitempty"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

type OrderResponse struct {
	Order *Order `json:"order"`
}

type ListOrdersResponse struct {
	Orders []*Order `json:"orders"`
}

type OrderStatusResponse struct {
	OrderID       string `json:"order_id"`
	PaymentStatus string `json:"payment_status"`
	TotalAmount   string `json:"total_amount"`
	CreatedAt     string `json:"created_at"`
}

type BankPayment struct {
	BankURL string           `json:"bank_url"`
	Params  signature.Params `json:"params"`
}

type CreateOrderResponse struct {
	Order       *Order       `json:"order"`
	BankPayment *BankPayment `json:"bank_payment"`
}

type CallbackResponse struct {
	Status  string `json:"status"`
	OrderID string `json:"order_id"`
}

type CartItem struct {
	ID              string `json:"id"`
	ProductID       uint64 `json:"product_id"`
	ProductName     string `json:"product_name"`
	Size            string `json:"size"`
	Color           string `json:"color"`
	Style           string `json:"style,omitempty"`
	CustomText      string `json:"custom_text,omitempty"`
	Pattern         string `json:"pattern,omitempty"`
	Quantity        int32  `json:"quantity"`
	PriceAtAddition string `json:"price_at_addition"`
}

type Cart struct {
	Items []CartItem `json:"items"`
	Total string     `json:"total"`
}

type CartResponse struct {
	Cart *Cart `json:"cart"`
}

type Product struct {
	ID              uint64   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	Price           string   `json:"price"`
	AvailableSizes  []string `json:"available_sizes"`
	AvailableColors []string `json:"available_colors"`
	Style           string   `json:"style"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

type ProductResponse struct {
	Product *Product `json:"product"`
}

type ListProductsResponse struct {
	Products []*Product `json:"products"`
}

type DirectPaymentResponse struct {
	OrderID        string `json:"order_id"`
	Approved       bool   `json:"approved"`
	Response       string `json:"response"`
	AuthCode       string `json:"auth_code,omitempty"`
	ProcReturnCode string `json:"proc_return_code,omitempty"`
	TransID        string `json:"trans_id,omitempty"`
	ErrMsg         string `json:"err_msg,omitempty"`
}

type PaymentCallback struct {
	ID        uint64 `json:"id"`
	ReturnOid string `json:"return_oid"`
	Gateway   string `json:"gateway"`
	Response  string `json:"response"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	CreatedAt string `json:"created_at"`
}

type ListPaymentCallbacksResponse struct {
	Callbacks []*PaymentCallback `json:"callbacks"`
}
