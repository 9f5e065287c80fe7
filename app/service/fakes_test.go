package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vibast-solutions/ms-go-storefront/app/entity"
	"github.com/vibast-solutions/ms-go-storefront/app/repository"
)

// memOrderRepo keeps orders in memory and applies payment transitions with
// the same compare-and-set rule as the SQL repository.
type memOrderRepo struct {
	mu     sync.Mutex
	nextID uint64
	orders map[uint64]*entity.Order

	createErrs    []error
	transitionErr error
	notifyUpdates int
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{orders: map[uint64]*entity.Order{}}
}

func (r *memOrderRepo) Create(_ context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.createErrs) > 0 {
		err := r.createErrs[0]
		r.createErrs = r.createErrs[1:]
		if err != nil {
			return err
		}
	}
	for _, existing := range r.orders {
		if existing.OrderID == order.OrderID {
			return repository.ErrOrderAlreadyExists
		}
	}

	r.nextID++
	order.ID = r.nextID
	stored := *order
	r.orders[order.ID] = &stored
	return nil
}

func (r *memOrderRepo) FindByID(_ context.Context, id uint64) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (r *memOrderRepo) FindByOrderID(_ context.Context, orderID string) (*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, order := range r.orders {
		if order.OrderID == orderID {
			copied := *order
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memOrderRepo) List(_ context.Context, filter repository.OrderFilter) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*entity.Order, 0)
	for id := uint64(1); id <= r.nextID; id++ {
		order, ok := r.orders[id]
		if !ok {
			continue
		}
		if filter.UserID != 0 && order.UserID != filter.UserID {
			continue
		}
		if filter.PaymentStatus != "" && string(order.PaymentStatus) != filter.PaymentStatus {
			continue
		}
		copied := *order
		result = append(result, &copied)
	}
	return result, nil
}

func (r *memOrderRepo) UpdateOrderStatus(_ context.Context, id uint64, status entity.OrderStatus, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return repository.ErrOrderNotFound
	}
	order.OrderStatus = status
	order.UpdatedAt = now
	return nil
}

func (r *memOrderRepo) TransitionPaymentStatus(_ context.Context, order *entity.Order, from entity.PaymentStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.transitionErr != nil {
		return false, r.transitionErr
	}
	stored, ok := r.orders[order.ID]
	if !ok || stored.PaymentStatus != from {
		return false, nil
	}
	updated := *order
	r.orders[order.ID] = &updated
	return true, nil
}

func (r *memOrderRepo) UpdateNotification(_ context.Context, order *entity.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return repository.ErrOrderNotFound
	}
	r.notifyUpdates++
	stored.NotificationStatus = order.NotificationStatus
	stored.NotificationAttempts = order.NotificationAttempts
	stored.NotificationNextAt = order.NotificationNextAt
	stored.NotificationLastErr = order.NotificationLastErr
	stored.UpdatedAt = order.UpdatedAt
	return nil
}

func (r *memOrderRepo) ListDueNotifications(_ context.Context, now time.Time, limit int32) ([]*entity.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make([]*entity.Order, 0)
	for id := uint64(1); id <= r.nextID && int32(len(result)) < limit; id++ {
		order, ok := r.orders[id]
		if !ok || order.NotificationStatus != entity.NotificationPending || order.NotificationNextAt == nil {
			continue
		}
		if order.NotificationNextAt.After(now) {
			continue
		}
		copied := *order
		result = append(result, &copied)
	}
	return result, nil
}

func (r *memOrderRepo) get(id uint64) entity.Order {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.orders[id]
}

type memCartRepo struct {
	mu      sync.Mutex
	carts   map[uint64]*entity.Cart
	deleted []uint64
	saves   int
}

func newMemCartRepo() *memCartRepo {
	return &memCartRepo{carts: map[uint64]*entity.Cart{}}
}

func (r *memCartRepo) FindByUserID(_ context.Context, userID uint64) (*entity.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	copied := *cart
	copied.Items = append([]entity.CartItem(nil), cart.Items...)
	return &copied, nil
}

func (r *memCartRepo) Save(_ context.Context, cart *entity.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.saves++
	copied := *cart
	copied.Items = append([]entity.CartItem(nil), cart.Items...)
	r.carts[cart.UserID] = &copied
	return nil
}

func (r *memCartRepo) DeleteByUserID(_ context.Context, userID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deleted = append(r.deleted, userID)
	delete(r.carts, userID)
	return nil
}

type memUserRepo struct {
	users map[uint64]*entity.User
}

func (r *memUserRepo) FindByID(_ context.Context, id uint64) (*entity.User, error) {
	return r.users[id], nil
}

type memEventRepo struct {
	mu     sync.Mutex
	events []*entity.OrderEvent
}

func (r *memEventRepo) Create(_ context.Context, event *entity.OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *memEventRepo) count(eventType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, event := range r.events {
		if event.EventType == eventType {
			n++
		}
	}
	return n
}

type memCallbackRepo struct {
	mu        sync.Mutex
	callbacks []*entity.PaymentCallback
}

func (r *memCallbackRepo) Create(_ context.Context, callback *entity.PaymentCallback) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = append(r.callbacks, callback)
	return nil
}

func (r *memCallbackRepo) ListByReturnOid(_ context.Context, returnOid string, limit int32) ([]*entity.PaymentCallback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []*entity.PaymentCallback
	for i := len(r.callbacks) - 1; i >= 0 && int32(len(result)) < limit; i-- {
		if r.callbacks[i].ReturnOid == returnOid {
			result = append(result, r.callbacks[i])
		}
	}
	return result, nil
}

func (r *memCallbackRepo) last() *entity.PaymentCallback {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.callbacks) == 0 {
		return nil
	}
	return r.callbacks[len(r.callbacks)-1]
}

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	errs  []error
	calls int
}

func (n *fakeNotifier) NotifyPaid(_ context.Context, user *entity.User, order *entity.Order) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.calls++
	if len(n.errs) > 0 {
		err := n.errs[0]
		n.errs = n.errs[1:]
		if err != nil {
			return err
		}
	}
	n.sent = append(n.sent, user.Email+":"+order.OrderID)
	return nil
}

func (n *fakeNotifier) sentCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type memProductRepo struct {
	products map[uint64]*entity.Product
	nextID   uint64
}

func newMemProductRepo(products ...*entity.Product) *memProductRepo {
	repo := &memProductRepo{products: map[uint64]*entity.Product{}}
	for _, product := range products {
		repo.products[product.ID] = product
		if product.ID > repo.nextID {
			repo.nextID = product.ID
		}
	}
	return repo
}

func (r *memProductRepo) Create(_ context.Context, product *entity.Product) error {
	r.nextID++
	product.ID = r.nextID
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *memProductRepo) Update(_ context.Context, product *entity.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		return repository.ErrProductNotFound
	}
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uint64) error {
	if _, ok := r.products[id]; !ok {
		return repository.ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepo) FindByID(_ context.Context, id uint64) (*entity.Product, error) {
	product, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	copied := *product
	return &copied, nil
}

func (r *memProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	result := make([]*entity.Product, 0)
	for id := uint64(1); id <= r.nextID; id++ {
		product, ok := r.products[id]
		if !ok {
			continue
		}
		if filter.Style != "" && product.Style != filter.Style {
			continue
		}
		result = append(result, product)
	}
	return result, nil
}

var errBoom = errors.New("boom")
