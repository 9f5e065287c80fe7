package service

import (
	"context"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-storefront/app/entity"
	"github.com/vibast-solutions/ms-go-storefront/app/metrics"
)

var errRecipientNotFound = errors.New("order owner not found")

// markForNotification queues the confirmation email. The first delivery is
// attempted inline, so the retry job only picks the order up after one
// retry interval.
func (s *OrderService) markForNotification(order *entity.Order, now time.Time) {
	next := now.Add(s.retryInterval())
	order.NotificationStatus = entity.NotificationPending
	order.NotificationAttempts = 0
	order.NotificationNextAt = &next
	order.NotificationLastErr = nil
}

// RunDispatchNotificationsBatch retries confirmation emails that are due.
func (s *OrderService) RunDispatchNotificationsBatch(ctx context.Context) error {
	now := s.now().UTC()
	items, err := s.orderRepo.ListDueNotifications(ctx, now, s.batchSize())
	if err != nil {
		return err
	}

	var firstErr error
	for _, order := range items {
		if order == nil || order.PaymentStatus != entity.PaymentStatusPaid {
			continue
		}
		if err := s.deliverNotification(ctx, order); err != nil {
			firstErr = keepFirstErr(firstErr, err)
		}
	}

	return firstErr
}

func (s *OrderService) deliverNotification(ctx context.Context, order *entity.Order) error {
	now := s.now().UTC()
	logger := s.logger.WithField("order_id", order.OrderID)

	user, err := s.userRepo.FindByID(ctx, order.UserID)
	if err != nil {
		return s.recordNotificationFailure(ctx, order, now, err)
	}
	if user == nil {
		return s.recordNotificationFailure(ctx, order, now, errRecipientNotFound)
	}

	if err := s.notifier.NotifyPaid(ctx, user, order); err != nil {
		logger.WithError(err).Warn("order confirmation failed")
		return s.recordNotificationFailure(ctx, order, now, err)
	}

	order.NotificationStatus = entity.NotificationSent
	order.NotificationAttempts++
	order.NotificationNextAt = nil
	order.NotificationLastErr = nil
	order.UpdatedAt = now
	metrics.ObserveNotification(true)

	if err := s.orderRepo.UpdateNotification(ctx, order); err != nil {
		logger.WithError(err).Error("failed to store notification status")
		return err
	}

	_ = s.eventRepo.Create(ctx, &entity.OrderEvent{
		OrderID:   order.ID,
		EventType: "confirmation_sent",
		NewStatus: string(order.PaymentStatus),
		CreatedAt: now,
	})
	logger.Info("order confirmation sent")

	return nil
}

func (s *OrderService) recordNotificationFailure(ctx context.Context, order *entity.Order, now time.Time, sendErr error) error {
	order.NotificationAttempts++
	trimmed := truncate(sendErr.Error(), 1024)
	order.NotificationLastErr = &trimmed

	maxAttempts := s.notifyCfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	if order.NotificationAttempts >= maxAttempts {
		order.NotificationStatus = entity.NotificationFailed
		order.NotificationNextAt = nil
	} else {
		next := now.Add(s.retryInterval())
		order.NotificationStatus = entity.NotificationPending
		order.NotificationNextAt = &next
	}
	order.UpdatedAt = now
	metrics.ObserveNotification(false)

	if err := s.orderRepo.UpdateNotification(ctx, order); err != nil {
		return err
	}

	_ = s.eventRepo.Create(ctx, &entity.OrderEvent{
		OrderID:   order.ID,
		EventType: "confirmation_failed",
		NewStatus: string(order.PaymentStatus),
		CreatedAt: now,
	})

	return sendErr
}

func (s *OrderService) retryInterval() time.Duration {
	if s.notifyCfg.RetryInterval <= 0 {
		return defaultRetryBackoff
	}
	return s.notifyCfg.RetryInterval
}

func (s *OrderService) batchSize() int32 {
	if s.notifyCfg.BatchSize <= 0 {
		return defaultBatchSize
	}
	return s.notifyCfg.BatchSize
}

func keepFirstErr(current error, candidate error) error {
	if current != nil {
		return current
	}
	return candidate
}
