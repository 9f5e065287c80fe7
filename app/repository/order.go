package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/vibast-solutions/ms-go-storefront/app/entity"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderAlreadyExists = errors.New("order already exists")
)

const orderColumns = `
	id, order_id, user_id, items_json, shipping_json, total_amount,
	payment_status, order_status, transaction_id, auth_code, paid_at,
	notification_status, notification_attempts, notification_next_at, notification_last_error,
	created_at, updated_at
`

type OrderFilter struct {
	UserID        uint64
	PaymentStatus string
	OrderStatus   string
	Limit         int32
	Offset        int32
}

type OrderRepository struct {
	db DBTX
}

func NewOrderRepository(db DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	itemsJSON, err := serializeJSON(order.Items)
	if err != nil {
		return err
	}
	shippingJSON, err := serializeJSON(order.Shipping)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO orders (
			order_id, user_id, items_json, shipping_json, total_amount,
			payment_status, order_status, transaction_id, auth_code, paid_at,
			notification_status, notification_attempts, notification_next_at, notification_last_error,
			created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		order.OrderID,
		order.UserID,
		itemsJSON,
		shippingJSON,
		order.TotalAmount.StringFixed(2),
		string(order.PaymentStatus),
		string(order.OrderStatus),
		nullableStringValue(order.TransactionID),
		nullableStringValue(order.AuthCode),
		nullableTimeValue(order.PaidAt),
		order.NotificationStatus,
		order.NotificationAttempts,
		nullableTimeValue(order.NotificationNextAt),
		nullableStringValue(order.NotificationLastErr),
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrOrderAlreadyExists
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	order.ID = uint64(id)
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id uint64) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = ?`
	return r.findOne(ctx, query, id)
}

func (r *OrderRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_id = ? LIMIT 1`
	return r.findOne(ctx, query, orderID)
}

func (r *OrderRepository) List(ctx context.Context, filter OrderFilter) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders`

	conditions := make([]string, 0, 3)
	args := make([]interface{}, 0, 5)

	if filter.UserID > 0 {
		conditions = append(conditions, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if strings.TrimSpace(filter.PaymentStatus) != "" {
		conditions = append(conditions, "payment_status = ?")
		args = append(args, filter.PaymentStatus)
	}
	if strings.TrimSpace(filter.OrderStatus) != "" {
		conditions = append(conditions, "order_status = ?")
		args = append(args, filter.OrderStatus)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	return r.findMany(ctx, query, args...)
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, id uint64, status entity.OrderStatus, now time.Time) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET order_status = ?, updated_at = ? WHERE id = ?`,
		string(status), now, id,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// TransitionPaymentStatus writes the payment outcome carried by order only if
// the stored payment status still equals from. It reports whether the row was
// changed; false means another callback already settled the order.
func (r *OrderRepository) TransitionPaymentStatus(ctx context.Context, order *entity.Order, from entity.PaymentStatus) (bool, error) {
	query := `
		UPDATE orders SET
			payment_status = ?,
			transaction_id = ?,
			auth_code = ?,
			paid_at = ?,
			notification_status = ?,
			notification_attempts = ?,
			notification_next_at = ?,
			notification_last_error = ?,
			updated_at = ?
		WHERE id = ? AND payment_status = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		string(order.PaymentStatus),
		nullableStringValue(order.TransactionID),
		nullableStringValue(order.AuthCode),
		nullableTimeValue(order.PaidAt),
		order.NotificationStatus,
		order.NotificationAttempts,
		nullableTimeValue(order.NotificationNextAt),
		nullableStringValue(order.NotificationLastErr),
		order.UpdatedAt,
		order.ID,
		string(from),
	)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (r *OrderRepository) UpdateNotification(ctx context.Context, order *entity.Order) error {
	query := `
		UPDATE orders SET
			notification_status = ?,
			notification_attempts = ?,
			notification_next_at = ?,
			notification_last_error = ?,
			updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		order.NotificationStatus,
		order.NotificationAttempts,
		nullableTimeValue(order.NotificationNextAt),
		nullableStringValue(order.NotificationLastErr),
		order.UpdatedAt,
		order.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) ListDueNotifications(ctx context.Context, now time.Time, limit int32) ([]*entity.Order, error) {
	query := `SELECT ` + orderColumns + `
		FROM orders
		WHERE notification_status = ?
		  AND notification_next_at IS NOT NULL
		  AND notification_next_at <= ?
		ORDER BY notification_next_at ASC
		LIMIT ?
	`
	return r.findMany(ctx, query, entity.NotificationPending, now, limit)
}

func (r *OrderRepository) findOne(ctx context.Context, query string, args ...interface{}) (*entity.Order, error) {
	order := &entity.Order{}
	if err := scanOrder(r.db.QueryRowContext(ctx, query, args...), order); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *OrderRepository) findMany(ctx context.Context, query string, args ...interface{}) ([]*entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]*entity.Order, 0)
	for rows.Next() {
		item := &entity.Order{}
		if err := scanOrder(rows, item); err != nil {
			return nil, err
		}
		orders = append(orders, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}

func scanOrder(scan rowScanner, order *entity.Order) error {
	var itemsJSON string
	var shippingJSON string
	var paymentStatus string
	var orderStatus string
	var transactionID sql.NullString
	var authCode sql.NullString
	var paidAt sql.NullTime
	var notificationNextAt sql.NullTime
	var notificationLastErr sql.NullString

	err := scan.Scan(
		&order.ID,
		&order.OrderID,
		&order.UserID,
		&itemsJSON,
		&shippingJSON,
		&order.TotalAmount,
		&paymentStatus,
		&orderStatus,
		&transactionID,
		&authCode,
		&paidAt,
		&order.NotificationStatus,
		&order.NotificationAttempts,
		&notificationNextAt,
		&notificationLastErr,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := parseJSON(itemsJSON, &order.Items); err != nil {
		return err
	}
	if err := parseJSON(shippingJSON, &order.Shipping); err != nil {
		return err
	}
	if order.Items == nil {
		order.Items = []entity.OrderItem{}
	}

	order.PaymentStatus = entity.PaymentStatus(paymentStatus)
	order.OrderStatus = entity.OrderStatus(orderStatus)
	order.TransactionID = stringPtrFromNull(transactionID)
	order.AuthCode = stringPtrFromNull(authCode)
	order.PaidAt = timePtrFromNull(paidAt)
	order.NotificationNextAt = timePtrFromNull(notificationNextAt)
	order.NotificationLastErr = stringPtrFromNull(notificationLastErr)

	return nil
}
