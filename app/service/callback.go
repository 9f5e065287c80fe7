package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-storefront/app/entity"
	"github.com/vibast-solutions/ms-go-storefront/app/factory"
	"github.com/vibast-solutions/ms-go-storefront/app/metrics"
	"github.com/vibast-solutions/ms-go-storefront/app/provider"
)

type paymentCallbackRequest interface {
	Validate() error
	GetReturnOid() string
	GetResponse() string
	GetTransID() string
	GetAuthCode() string
	GetHash() string
	GetFields() map[string]string
	GetPayload() string
}

// HandlePaymentCallback settles a pending order from a signed bank callback.
// A callback for an order that is no longer pending is acknowledged without
// side effects.
func (s *OrderService) HandlePaymentCallback(ctx context.Context, req paymentCallbackRequest) (*entity.Order, error) {
	if err := req.Validate(); err != nil {
		s.rejectCallback(ctx, nil, req, metrics.CallbackMalformed, "malformed callback: "+err.Error())
		return nil, ErrMalformedCallback
	}

	if err := s.gateway.VerifyCallback(req.GetFields(), req.GetHash()); err != nil {
		reason := "signature verification failed"
		if !errors.Is(err, provider.ErrSignatureMismatch) {
			reason = "signature verification failed: " + err.Error()
		}
		s.rejectCallback(ctx, nil, req, metrics.CallbackRejected, reason)
		return nil, ErrSignatureMismatch
	}

	// ReturnOid is not covered by the signature; bind it to the signed oid.
	if strings.TrimSpace(req.GetFields()["oid"]) != req.GetReturnOid() {
		s.rejectCallback(ctx, nil, req, metrics.CallbackRejected, "signed oid does not match ReturnOid")
		return nil, ErrSignatureMismatch
	}

	order, err := s.orderRepo.FindByOrderID(ctx, req.GetReturnOid())
	if err != nil {
		return nil, err
	}
	if order == nil {
		s.rejectCallback(ctx, nil, req, metrics.CallbackRejected, "order not found")
		return nil, ErrOrderNotFound
	}

	orderRef := order.ID
	if signedAmount := strings.TrimSpace(req.GetFields()["amount"]); signedAmount != order.TotalAmount.StringFixed(2) {
		s.rejectCallback(ctx, &orderRef, req, metrics.CallbackRejected, "signed amount does not match order total")
		return nil, ErrSignatureMismatch
	}

	if order.PaymentStatus.Terminal() {
		s.recordDuplicateCallback(ctx, order, req)
		return order, nil
	}

	now := s.now().UTC()
	from := order.PaymentStatus
	settled := *order
	settled.UpdatedAt = now

	approved := req.GetResponse() == provider.ResponseApproved
	if approved {
		settled.PaymentStatus = entity.PaymentStatusPaid
		settled.TransactionID = optionalString(req.GetTransID())
		settled.AuthCode = optionalString(req.GetAuthCode())
		settled.PaidAt = &now
		s.markForNotification(&settled, now)
	} else {
		settled.PaymentStatus = entity.PaymentStatusFailed
	}

	applied, err := s.orderRepo.TransitionPaymentStatus(ctx, &settled, from)
	if err != nil {
		return nil, err
	}
	if !applied {
		current, err := s.orderRepo.FindByOrderID(ctx, order.OrderID)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, ErrOrderNotFound
		}
		s.recordDuplicateCallback(ctx, current, req)
		return current, nil
	}

	oldStatus := string(from)
	payload := req.GetPayload()
	_ = s.eventRepo.Create(ctx, &entity.OrderEvent{
		OrderID:     settled.ID,
		EventType:   "payment_callback",
		OldStatus:   &oldStatus,
		NewStatus:   string(settled.PaymentStatus),
		PayloadJSON: &payload,
		CreatedAt:   now,
	})
	s.recordCallback(ctx, &entity.PaymentCallback{
		OrderRef:    &orderRef,
		Gateway:     s.gateway.Name(),
		ReturnOid:   req.GetReturnOid(),
		Response:    req.GetResponse(),
		Signature:   req.GetHash(),
		PayloadJSON: payload,
		Status:      entity.PaymentCallbackProcessed,
		CreatedAt:   now,
		UpdatedAt:   now,
	})

	logger := s.logger.WithFields(logrus.Fields{
		"order_id":       settled.OrderID,
		"payment_status": settled.PaymentStatus,
	})

	if !approved {
		metrics.ObserveCallback(metrics.CallbackFailed)
		logger.Info("payment declined")
		return &settled, nil
	}

	metrics.ObserveCallback(metrics.CallbackPaid)
	logger.WithField("transaction_id", factory.MaskIdentifier(req.GetTransID())).Info("payment approved")

	if err := s.cartRepo.DeleteByUserID(ctx, settled.UserID); err != nil {
		logger.WithError(err).Warn("failed to clear cart after payment")
	}

	notifyOrder := settled
	s.async(func() {
		_ = s.deliverNotification(context.Background(), &notifyOrder)
	})

	return &settled, nil
}

func (s *OrderService) recordDuplicateCallback(ctx context.Context, order *entity.Order, req paymentCallbackRequest) {
	now := s.now().UTC()
	orderRef := order.ID
	reason := "order already " + strings.ToLower(string(order.PaymentStatus))
	s.recordCallback(ctx, &entity.PaymentCallback{
		OrderRef:    &orderRef,
		Gateway:     s.gateway.Name(),
		ReturnOid:   req.GetReturnOid(),
		Response:    req.GetResponse(),
		Signature:   req.GetHash(),
		PayloadJSON: req.GetPayload(),
		Status:      entity.PaymentCallbackProcessed,
		Error:       &reason,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	metrics.ObserveCallback(metrics.CallbackDuplicate)
	s.logger.WithField("order_id", order.OrderID).Info("duplicate payment callback ignored")
}

func (s *OrderService) rejectCallback(
	ctx context.Context,
	orderRef *uint64,
	req paymentCallbackRequest,
	result string,
	reason string,
) {
	now := s.now().UTC()
	trimmedErr := truncate(strings.TrimSpace(reason), 1024)
	s.recordCallback(ctx, &entity.PaymentCallback{
		OrderRef:    orderRef,
		Gateway:     s.gateway.Name(),
		ReturnOid:   truncate(req.GetReturnOid(), 64),
		Response:    truncate(req.GetResponse(), 64),
		Signature:   truncate(req.GetHash(), 255),
		PayloadJSON: req.GetPayload(),
		Status:      entity.PaymentCallbackRejected,
		Error:       &trimmedErr,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	metrics.ObserveCallback(result)
	s.logger.WithFields(logrus.Fields{
		"return_oid": req.GetReturnOid(),
		"reason":     trimmedErr,
	}).Warn("payment callback rejected")
}

func (s *OrderService) recordCallback(ctx context.Context, callback *entity.PaymentCallback) {
	if err := s.callbackRepo.Create(ctx, callback); err != nil {
		s.logger.WithError(err).Error("failed to store payment callback")
	}
	if s.journal == nil {
		return
	}
	if err := s.journal.Append(ctx, callback); err != nil {
		s.logger.WithError(err).Warn("failed to journal payment callback")
	}
}

// ListPaymentCallbacks returns the audit trail of bank callbacks received
// for an order, including rejected ones.
func (s *OrderService) ListPaymentCallbacks(ctx context.Context, req getOrderRequest) ([]*entity.PaymentCallback, error) {
	order, err := s.GetOrder(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.callbackRepo.ListByReturnOid(ctx, order.OrderID, callbackAuditLimit)
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// truncate cuts value to at most max bytes without splitting a rune.
func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return value[:cut]
}
