package service

import "errors"

var (
	ErrInvalidRequest       = errors.New("invalid request")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderAlreadyExists   = errors.New("order already exists")
	ErrEmptyCart            = errors.New("no items in cart")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrInvalidSize          = errors.New("invalid size for this product")
	ErrInvalidColor         = errors.New("invalid color for this product")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrSignatureMismatch    = errors.New("callback signature mismatch")
	ErrMalformedCallback    = errors.New("malformed callback")
	ErrUpstreamTimeout      = errors.New("bank request timed out")
	ErrUpstreamFailed       = errors.New("bank request failed")
	ErrGatewayNotConfigured = errors.New("bank gateway is not configured")
)
