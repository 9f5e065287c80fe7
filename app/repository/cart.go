package repository

import (
	"context"
	"database/sql"

	"github.com/vibast-solutions/ms-go-storefront/app/entity"
)

type CartRepository struct {
	db DBTX
}

func NewCartRepository(db DBTX) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) FindByUserID(ctx context.Context, userID uint64) (*entity.Cart, error) {
	query := `
		SELECT id, user_id, items_json, total, created_at, updated_at
		FROM carts
		WHERE user_id = ?
		LIMIT 1
	`

	cart := &entity.Cart{}
	var itemsJSON string
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&itemsJSON,
		&cart.Total,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := parseJSON(itemsJSON, &cart.Items); err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []entity.CartItem{}
	}
	return cart, nil
}

// Save inserts the cart of a user or replaces its items and total.
func (r *CartRepository) Save(ctx context.Context, cart *entity.Cart) error {
	if cart.Items == nil {
		cart.Items = []entity.CartItem{}
	}
	itemsJSON, err := serializeJSON(cart.Items)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO carts (user_id, items_json, total, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			items_json = VALUES(items_json),
			total = VALUES(total),
			updated_at = VALUES(updated_at)
	`

	result, err := r.db.ExecContext(ctx, query,
		cart.UserID,
		itemsJSON,
		cart.Total.StringFixed(2),
		cart.CreatedAt,
		cart.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if cart.ID == 0 {
		if id, err := result.LastInsertId(); err == nil && id > 0 {
			cart.ID = uint64(id)
		}
	}
	return nil
}

func (r *CartRepository) DeleteByUserID(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = ?`, userID)
	return err
}
