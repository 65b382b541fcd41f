package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/apperr"
	"github.com/Autum7899/DuyMinhSmartDoorLock/internal/entity"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db}
}

func (r *CategoryRepository) GetCategories(ctx context.Context) ([]*entity.Category, error) {
	query := `SELECT id, name, COALESCE(description, '') FROM categories ORDER BY id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*entity.Category
	for rows.Next() {
		var category entity.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Description); err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}

	return categories, rows.Err()
}

func (r *CategoryRepository) GetCategoryByID(ctx context.Context, id int) (*entity.Category, error) {
	query := `SELECT id, name, COALESCE(description, '') FROM categories WHERE id = ?`
	category := &entity.Category{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&category.ID, &category.Name, &category.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("category not found")
	}
	if err != nil {
		return nil, err
	}

	return category, nil
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	query := `INSERT INTO categories (name, description) VALUES (?, ?)`
	res, err := r.db.ExecContext(ctx, query, category.Name, category.Description)
	if apperr.IsDuplicateEntry(err) {
		return nil, apperr.Conflict("category name already exists")
	}
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	category.ID = int(id)
	return category, nil
}

func (r *CategoryRepository) UpdateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	query := `UPDATE categories SET name = ?, description = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, category.Name, category.Description, category.ID)
	if apperr.IsDuplicateEntry(err) {
		return nil, apperr.Conflict("category name already exists")
	}
	if err != nil {
		return nil, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Distinguish a missing row from an unchanged one.
		if _, err := r.GetCategoryByID(ctx, category.ID); err != nil {
			return nil, err
		}
	}

	return category, nil
}

func (r *CategoryRepository) DeleteCategory(ctx context.Context, id int) error {
	query := `DELETE FROM categories WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apperr.NotFound("category not found")
	}

	return nil
}
