package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-storefront/app/entity"
	"github.com/vibast-solutions/ms-go-storefront/app/factory"
	"github.com/vibast-solutions/ms-go-storefront/app/metrics"
	"github.com/vibast-solutions/ms-go-storefront/app/provider"
	"github.com/vibast-solutions/ms-go-storefront/app/repository"
	"github.com/vibast-solutions/ms-go-storefront/app/types"
	"github.com/vibast-solutions/ms-go-storefront/config"
)

const (
	defaultBatchSize    = int32(100)
	callbackAuditLimit  = int32(50)
	orderIDCreateTries  = 3
	defaultRetryBackoff = 5 * time.Minute
)

type createOrderRequest interface {
	GetUserID() uint64
	GetShippingDetails() types.ShippingDetails
}

type getOrderRequest interface {
	GetID() uint64
	GetUserID() uint64
	GetIsAdmin() bool
}

type getOrderStatusRequest interface {
	GetOrderID() string
	GetUserID() uint64
}

type listOrdersRequest interface {
	GetUserID() uint64
	GetPaymentStatus() string
	GetOrderStatus() string
	GetLimit() int32
	GetOffset() int32
}

type updateOrderStatusRequest interface {
	GetID() uint64
	GetStatus() string
}

type orderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, id uint64) (*entity.Order, error)
	FindByOrderID(ctx context.Context, orderID string) (*entity.Order, error)
	List(ctx context.Context, filter repository.OrderFilter) ([]*entity.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint64, status entity.OrderStatus, now time.Time) error
	TransitionPaymentStatus(ctx context.Context, order *entity.Order, from entity.PaymentStatus) (bool, error)
	UpdateNotification(ctx context.Context, order *entity.Order) error
	ListDueNotifications(ctx context.Context, now time.Time, limit int32) ([]*entity.Order, error)
}

type orderCartRepository interface {
	FindByUserID(ctx context.Context, userID uint64) (*entity.Cart, error)
	DeleteByUserID(ctx context.Context, userID uint64) error
}

type userRepository interface {
	FindByID(ctx context.Context, id uint64) (*entity.User, error)
}

type orderEventRepository interface {
	Create(ctx context.Context, event *entity.OrderEvent) error
}

type paymentCallbackRepository interface {
	Create(ctx context.Context, callback *entity.PaymentCallback) error
	ListByReturnOid(ctx context.Context, returnOid string, limit int32) ([]*entity.PaymentCallback, error)
}

type callbackJournal interface {
	Append(ctx context.Context, callback *entity.PaymentCallback) error
}

type checkoutGateway interface {
	Name() string
	Ready() error
	CheckoutIntent(orderID string, amount decimal.Decimal) (*provider.Intent, error)
	VerifyCallback(fields map[string]string, hash string) error
}

type paidNotifier interface {
	NotifyPaid(ctx context.Context, user *entity.User, order *entity.Order) error
}

type OrderService struct {
	orderRepo    orderRepository
	cartRepo     orderCartRepository
	userRepo     userRepository
	eventRepo    orderEventRepository
	callbackRepo paymentCallbackRepository
	journal      callbackJournal
	gateway      checkoutGateway
	notifier     paidNotifier
	notifyCfg    config.NotificationsConfig
	logger       logrus.FieldLogger

	// async runs fire-and-forget work; tests replace it to run inline.
	async func(fn func())
	now   func() time.Time
}

func NewOrderService(
	orderRepo orderRepository,
	cartRepo orderCartRepository,
	userRepo userRepository,
	eventRepo orderEventRepository,
	callbackRepo paymentCallbackRepository,
	journal callbackJournal,
	gateway checkoutGateway,
	notifier paidNotifier,
	notifyCfg config.NotificationsConfig,
) *OrderService {
	return &OrderService{
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		userRepo:     userRepo,
		eventRepo:    eventRepo,
		callbackRepo: callbackRepo,
		journal:      journal,
		gateway:      gateway,
		notifier:     notifier,
		notifyCfg:    notifyCfg,
		logger:       factory.NewModuleLogger("orders"),
		async:        func(fn func()) { go fn() },
		now:          time.Now,
	}
}

// CreateOrder turns the user's cart into a pending order and returns the
// signed hosted-page request for it.
func (s *OrderService) CreateOrder(ctx context.Context, req createOrderRequest) (*entity.Order, *provider.Intent, error) {
	if req.GetUserID() == 0 {
		return nil, nil, ErrInvalidRequest
	}

	cart, err := s.cartRepo.FindByUserID(ctx, req.GetUserID())
	if err != nil {
		return nil, nil, err
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, nil, ErrEmptyCart
	}
	cart.Recalculate()
	if !cart.Total.IsPositive() {
		return nil, nil, ErrInvalidRequest
	}
	if err := s.gateway.Ready(); err != nil {
		return nil, nil, ErrGatewayNotConfigured
	}

	items := make([]entity.OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, entity.OrderItem{
			ProductID:       line.ProductID,
			ProductName:     line.ProductName,
			Size:            line.Size,
			Color:           line.Color,
			Style:           line.Style,
			CustomText:      line.CustomText,
			Pattern:         line.Pattern,
			Quantity:        line.Quantity,
			PriceAtPurchase: line.PriceAtAddition,
		})
	}

	shipping := req.GetShippingDetails()
	now := s.now().UTC()
	order := &entity.Order{
		UserID: req.GetUserID(),
		Items:  items,
		Shipping: entity.ShippingDetails{
			Name:    shipping.Name,
			Street:  shipping.Street,
			City:    shipping.City,
			State:   shipping.State,
			Zip:     shipping.Zip,
			Country: shipping.Country,
			Phone:   shipping.Phone,
		},
		TotalAmount:        cart.Total,
		PaymentStatus:      entity.PaymentStatusPending,
		OrderStatus:        entity.OrderStatusProcessing,
		NotificationStatus: entity.NotificationNone,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	// Order references are millisecond based; step forward on collision.
	for attempt := 0; ; attempt++ {
		order.OrderID = "ORD-" + strconv.FormatInt(now.UnixMilli()+int64(attempt), 10)
		err = s.orderRepo.Create(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrOrderAlreadyExists) {
			return nil, nil, err
		}
		if attempt+1 >= orderIDCreateTries {
			return nil, nil, ErrOrderAlreadyExists
		}
	}

	_ = s.eventRepo.Create(ctx, &entity.OrderEvent{
		OrderID:   order.ID,
		EventType: "order_created",
		NewStatus: string(order.PaymentStatus),
		CreatedAt: now,
	})
	metrics.ObserveOrderCreated()

	intent, err := s.gateway.CheckoutIntent(order.OrderID, order.TotalAmount)
	if err != nil {
		if errors.Is(err, provider.ErrNotConfigured) {
			return nil, nil, ErrGatewayNotConfigured
		}
		return nil, nil, fmt.Errorf("build checkout intent: %w", err)
	}

	return order, intent, nil
}

func (s *OrderService) ListOrders(ctx context.Context, req listOrdersRequest) ([]*entity.Order, error) {
	limit := req.GetLimit()
	if limit <= 0 {
		limit = defaultBatchSize
	}

	return s.orderRepo.List(ctx, repository.OrderFilter{
		UserID:        req.GetUserID(),
		PaymentStatus: req.GetPaymentStatus(),
		OrderStatus:   req.GetOrderStatus(),
		Limit:         limit,
		Offset:        req.GetOffset(),
	})
}

// GetOrder returns an order owned by the caller, or any order for admins.
func (s *OrderService) GetOrder(ctx context.Context, req getOrderRequest) (*entity.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, req.GetID())
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if !req.GetIsAdmin() && order.UserID != req.GetUserID() {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) GetOrderStatus(ctx context.Context, req getOrderStatusRequest) (*entity.Order, error) {
	order, err := s.orderRepo.FindByOrderID(ctx, req.GetOrderID())
	if err != nil {
		return nil, err
	}
	if order == nil || order.UserID != req.GetUserID() {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// UpdateOrderStatus changes fulfilment status. Payment status is owned by
// verified bank callbacks only.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, req updateOrderStatusRequest) (*entity.Order, error) {
	status := entity.OrderStatus(req.GetStatus())
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	order, err := s.orderRepo.FindByID(ctx, req.GetID())
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	now := s.now().UTC()
	if err := s.orderRepo.UpdateOrderStatus(ctx, order.ID, status, now); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	oldStatus := string(order.OrderStatus)
	_ = s.eventRepo.Create(ctx, &entity.OrderEvent{
		OrderID:   order.ID,
		EventType: "order_status_updated",
		OldStatus: &oldStatus,
		NewStatus: string(status),
		CreatedAt: now,
	})

	order.OrderStatus = status
	order.UpdatedAt = now
	return order, nil
}
