package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-storefront/app/entity"
)

type PaymentCallbackRepository struct {
	db DBTX
}

func NewPaymentCallbackRepository(db DBTX) *PaymentCallbackRepository {
	return &PaymentCallbackRepository{db: db}
}

func (r *PaymentCallbackRepository) Create(ctx context.Context, callback *entity.PaymentCallback) error {
	query := `
		INSERT INTO payment_callbacks (
			order_ref, gateway, return_oid, response, signature, payload_json, status, error, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		nullableUint64Value(callback.OrderRef),
		callback.Gateway,
		callback.ReturnOid,
		callback.Response,
		callback.Signature,
		callback.PayloadJSON,
		callback.Status,
		nullableStringValue(callback.Error),
		callback.CreatedAt,
		callback.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	callback.ID = uint64(id)

	return nil
}

// ListByReturnOid returns the newest callbacks first. Rejected callbacks for
// unknown orders carry no order_ref, so lookups go through return_oid.
func (r *PaymentCallbackRepository) ListByReturnOid(ctx context.Context, returnOid string, limit int32) ([]*entity.PaymentCallback, error) {
	query := `
		SELECT id, order_ref, gateway, return_oid, response, signature, payload_json, status, error, created_at, updated_at
		FROM payment_callbacks
		WHERE return_oid = ?
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, returnOid, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var callbacks []*entity.PaymentCallback
	for rows.Next() {
		callback := &entity.PaymentCallback{}
		if err := scanPaymentCallback(rows, callback); err != nil {
			return nil, err
		}
		callbacks = append(callbacks, callback)
	}

	return callbacks, rows.Err()
}

func scanPaymentCallback(scan rowScanner, callback *entity.PaymentCallback) error {
	var (
		orderRef  sql.NullInt64
		errorText sql.NullString
	)

	err := scan.Scan(
		&callback.ID,
		&orderRef,
		&callback.Gateway,
		&callback.ReturnOid,
		&callback.Response,
		&callback.Signature,
		&callback.PayloadJSON,
		&callback.Status,
		&errorText,
		&callback.CreatedAt,
		&callback.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if orderRef.Valid {
		ref := uint64(orderRef.Int64)
		callback.OrderRef = &ref
	}
	callback.Error = stringPtrFromNull(errorText)
	return nil
}
