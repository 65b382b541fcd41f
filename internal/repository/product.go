package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/apperr"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/entity"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

const productColumns = `p.id, p.name, p.image_url, COALESCE(p.description, ''),
	p.price_agency, p.price_retail, p.price_retail_with_install,
	p.quantity, p.category_id, p.features, p.created_at, p.updated_at,
	COALESCE(c.name, '')`

func scanProduct(row interface{ Scan(...interface{}) error }) (*entity.Product, error) {
	var (
		product    entity.Product
		categoryID sql.NullInt64
		features   sql.NullString
	)
	err := row.Scan(&product.ID, &product.Name, &product.ImageURL, &product.Description,
		&product.PriceAgency, &product.PriceRetail, &product.PriceRetailWithInstall,
		&product.Quantity, &categoryID, &features, &product.CreatedAt, &product.UpdatedAt,
		&product.CategoryName)
	if err != nil {
		return nil, err
	}
	if categoryID.Valid {
		id := int(categoryID.Int64)
		product.CategoryID = &id
	}
	if features.Valid && features.String != "" {
		if err := json.Unmarshal([]byte(features.String), &product.Features); err != nil {
			return nil, err
		}
	}
	return &product, nil
}

func encodeFeatures(features []string) (interface{}, error) {
	if features == nil {
		return nil, nil
	}
	raw, err := json.Marshal(features)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func nullableCategoryID(id *int) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

func (r *ProductRepository) GetProducts(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.name ASC`
	return r.queryProducts(ctx, query)
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = ?`
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("product not found")
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	features, err := encodeFeatures(product.Features)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO products (name, image_url, description, price_agency, price_retail,
		price_retail_with_install, quantity, category_id, features)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, product.Name, product.ImageURL, product.Description,
		product.PriceAgency, product.PriceRetail, product.PriceRetailWithInstall,
		product.Quantity, nullableCategoryID(product.CategoryID), features)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return r.GetProductByID(ctx, int(id))
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	features, err := encodeFeatures(product.Features)
	if err != nil {
		return nil, err
	}

	query := `UPDATE products SET name = ?, image_url = ?, description = ?, price_agency = ?,
		price_retail = ?, price_retail_with_install = ?, quantity = ?, category_id = ?, features = ?
		WHERE id = ?`
	_, err = r.db.ExecContext(ctx, query, product.Name, product.ImageURL, product.Description,
		product.PriceAgency, product.PriceRetail, product.PriceRetailWithInstall,
		product.Quantity, nullableCategoryID(product.CategoryID), features, product.ID)
	if err != nil {
		return nil, err
	}

	return r.GetProductByID(ctx, product.ID)
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id int) error {
	query := `DELETE FROM products WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("product not found")
	}

	return nil
}

// SearchByNamePrefix returns products whose name starts with the query,
// case-insensitively, up to limit.
func (r *ProductRepository) SearchByNamePrefix(ctx context.Context, q string, limit int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		WHERE LOWER(p.name) LIKE CONCAT(LOWER(?), '%')
		LIMIT ?`
	return r.queryProducts(ctx, query, q, limit)
}

// SearchByNameContains returns products whose name contains the query,
// skipping the already-found ids.
func (r *ProductRepository) SearchByNameContains(ctx context.Context, q string, exclude []int, limit int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		WHERE LOWER(p.name) LIKE CONCAT('%', LOWER(?), '%')` + excludeClause(exclude) + `
		LIMIT ?`
	args := append([]interface{}{q}, excludeArgs(exclude)...)
	args = append(args, limit)
	return r.queryProducts(ctx, query, args...)
}

// SearchByDescriptionOrCategory returns products whose description or
// category name contains the query, skipping the already-found ids.
func (r *ProductRepository) SearchByDescriptionOrCategory(ctx context.Context, q string, exclude []int, limit int) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products p LEFT JOIN categories c ON c.id = p.category_id
		WHERE (LOWER(COALESCE(p.description, '')) LIKE CONCAT('%', LOWER(?), '%')
			OR LOWER(COALESCE(c.name, '')) LIKE CONCAT('%', LOWER(?), '%'))` + excludeClause(exclude) + `
		LIMIT ?`
	args := append([]interface{}{q, q}, excludeArgs(exclude)...)
	args = append(args, limit)
	return r.queryProducts(ctx, query, args...)
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]*entity.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*entity.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

func excludeClause(exclude []int) string {
	if len(exclude) == 0 {
		return ""
	}
	return ` AND p.id NOT IN (?` + strings.Repeat(", ?", len(exclude)-1) + `)`
}

func excludeArgs(exclude []int) []interface{} {
	args := make([]interface{}, len(exclude))
	for i, id := range exclude {
		args[i] = id
	}
	return args
}
