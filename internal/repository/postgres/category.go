package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dtroode/notekeeper-server/internal/model"
)

var _ model.CategoryStore = (*CategoryRepository)(nil)

type CategoryRepository struct {
	db *Connection
}

func NewCategoryRepository(db *Connection) *CategoryRepository {
	return &CategoryRepository{
		db: db,
	}
}

func (r *CategoryRepository) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Category, error) {
	query := `SELECT id, owner_id, name, description, created_at
			  FROM categories WHERE owner_id = $1 ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories by owner: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var category model.Category
		err := rows.Scan(
			&category.ID, &category.OwnerID, &category.Name,
			&category.Description, &category.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category model.Category) (model.Category, error) {
	query := `INSERT INTO categories (id, owner_id, name, description)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, owner_id, name, description, created_at`

	var savedCategory model.Category
	err := r.db.QueryRow(ctx, query,
		category.ID, category.OwnerID, category.Name, category.Description,
	).Scan(
		&savedCategory.ID, &savedCategory.OwnerID, &savedCategory.Name,
		&savedCategory.Description, &savedCategory.CreatedAt,
	)
	if err != nil {
		return model.Category{}, fmt.Errorf("failed to create category: %w", err)
	}

	return savedCategory, nil
}

func (r *CategoryRepository) Update(ctx context.Context, category model.Category) (model.Category, error) {
	query := `UPDATE categories SET name = $3, description = $4
			  WHERE id = $1 AND owner_id = $2
			  RETURNING id, owner_id, name, description, created_at`

	var savedCategory model.Category
	err := r.db.QueryRow(ctx, query,
		category.ID, category.OwnerID, category.Name, category.Description,
	).Scan(
		&savedCategory.ID, &savedCategory.OwnerID, &savedCategory.Name,
		&savedCategory.Description, &savedCategory.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Category{}, model.ErrNotFound
		}
		return model.Category{}, fmt.Errorf("failed to update category: %w", err)
	}

	return savedCategory, nil
}

// Delete is a no-op when the category does not exist or belongs to
// another user. Notes referencing the category keep existing with a NULL
// category reference.
func (r *CategoryRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	const query = `DELETE FROM categories WHERE id = $1 AND owner_id = $2`

	if _, err := r.db.Exec(ctx, query, id, ownerID); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	return nil
}
