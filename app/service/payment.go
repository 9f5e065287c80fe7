package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-storefront/app/metrics"
	"github.com/vibast-solutions/ms-go-storefront/app/provider"
)

type createHostedPaymentRequest interface {
	GetOrderID() string
	GetAmount() decimal.Decimal
	GetEmail() string
	GetName() string
}

type directPaymentRequest interface {
	GetAmount() decimal.Decimal
	GetCardNumber() string
	GetExpiry() string
	GetCVV() string
}

type hostedGateway interface {
	HostedIntent(input *provider.HostedPaymentInput) (*provider.Intent, error)
	Authorize(ctx context.Context, input *provider.DirectAuthInput) (*provider.DirectAuthResult, error)
}

// PaymentService exposes the bank integrations that are not tied to an order
// lifecycle: the Hashv3 hosted form and the direct staging API.
type PaymentService struct {
	gateway hostedGateway
}

func NewPaymentService(gateway hostedGateway) *PaymentService {
	return &PaymentService{gateway: gateway}
}

func (s *PaymentService) CreateHostedPayment(_ context.Context, req createHostedPaymentRequest) (*provider.Intent, error) {
	intent, err := s.gateway.HostedIntent(&provider.HostedPaymentInput{
		OrderID: req.GetOrderID(),
		Amount:  req.GetAmount(),
		Email:   req.GetEmail(),
		Name:    req.GetName(),
	})
	if err != nil {
		return nil, mapGatewayError(err)
	}
	return intent, nil
}

// AuthorizeDirect charges a card through the bank API. Nothing about the card
// is kept.
func (s *PaymentService) AuthorizeDirect(ctx context.Context, req directPaymentRequest) (*provider.DirectAuthResult, error) {
	result, err := s.gateway.Authorize(ctx, &provider.DirectAuthInput{
		Amount:     req.GetAmount(),
		CardNumber: req.GetCardNumber(),
		Expiry:     req.GetExpiry(),
		CVV:        req.GetCVV(),
	})
	if err != nil {
		err = mapGatewayError(err)
		switch {
		case errors.Is(err, ErrUpstreamTimeout):
			metrics.ObserveBankRequest("timeout")
		case errors.Is(err, ErrUpstreamFailed):
			metrics.ObserveBankRequest("error")
		}
		return nil, err
	}

	if result.Approved() {
		metrics.ObserveBankRequest("approved")
	} else {
		metrics.ObserveBankRequest("declined")
	}
	return result, nil
}

func mapGatewayError(err error) error {
	switch {
	case errors.Is(err, provider.ErrUpstreamTimeout):
		return ErrUpstreamTimeout
	case errors.Is(err, provider.ErrUpstreamFailed):
		return ErrUpstreamFailed
	case errors.Is(err, provider.ErrNotConfigured):
		return ErrGatewayNotConfigured
	case errors.Is(err, provider.ErrInvalidAmount):
		return ErrInvalidRequest
	default:
		return fmt.Errorf("bank gateway: %w", err)
	}
}
