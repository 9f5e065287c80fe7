package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/vibast-solutions/ms-go-storefront/app/entity"
)

var ErrProductNotFound = errors.New("product not found")

type ProductFilter struct {
	Style  string
	Search string
	Limit  int32
	Offset int32
}

type ProductRepository struct {
	db DBTX
}

func NewProductRepository(db DBTX) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	sizesJSON, err := serializeJSON(product.AvailableSizes)
	if err != nil {
		return err
	}
	colorsJSON, err := serializeJSON(product.AvailableColors)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (name, description, price, sizes_json, colors_json, style, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.Description,
		product.Price.StringFixed(2),
		sizesJSON,
		colorsJSON,
		product.Style,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	product.ID = uint64(id)
	return nil
}

func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	sizesJSON, err := serializeJSON(product.AvailableSizes)
	if err != nil {
		return err
	}
	colorsJSON, err := serializeJSON(product.AvailableColors)
	if err != nil {
		return err
	}

	query := `
		UPDATE products SET
			name = ?,
			description = ?,
			price = ?,
			sizes_json = ?,
			colors_json = ?,
			style = ?,
			updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		product.Name,
		product.Description,
		product.Price.StringFixed(2),
		sizesJSON,
		colorsJSON,
		product.Style,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint64) (*entity.Product, error) {
	query := `
		SELECT id, name, description, price, sizes_json, colors_json, style, created_at, updated_at
		FROM products
		WHERE id = ?
	`

	product := &entity.Product{}
	if err := scanProduct(r.db.QueryRowContext(ctx, query, id), product); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error) {
	query := `
		SELECT id, name, description, price, sizes_json, colors_json, style, created_at, updated_at
		FROM products
	`

	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 4)

	if strings.TrimSpace(filter.Style) != "" {
		conditions = append(conditions, "style = ?")
		args = append(args, filter.Style)
	}
	if strings.TrimSpace(filter.Search) != "" {
		conditions = append(conditions, "name LIKE ?")
		args = append(args, "%"+filter.Search+"%")
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY id DESC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]*entity.Product, 0)
	for rows.Next() {
		item := &entity.Product{}
		if err := scanProduct(rows, item); err != nil {
			return nil, err
		}
		products = append(products, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func scanProduct(scan rowScanner, product *entity.Product) error {
	var description sql.NullString
	var sizesJSON string
	var colorsJSON string

	err := scan.Scan(
		&product.ID,
		&product.Name,
		&description,
		&product.Price,
		&sizesJSON,
		&colorsJSON,
		&product.Style,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return err
	}

	product.Description = description.String
	if err := parseJSON(sizesJSON, &product.AvailableSizes); err != nil {
		return err
	}
	return parseJSON(colorsJSON, &product.AvailableColors)
}
