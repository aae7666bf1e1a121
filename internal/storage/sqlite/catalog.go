package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mealplanner/internal/models"
	"mealplanner/internal/storage"
)

// CreateCategory inserts a new ingredient category.
func (s *SQLiteStore) CreateCategory(ctx context.Context, category *models.IngredientCategory) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt == 0 {
		category.CreatedAt = time.Now().Unix()
	}

	_, err := s.q.ExecContext(ctx,
		"INSERT INTO ingredient_categories (id, name, created_at) VALUES (?, ?, ?)",
		category.ID, category.Name, category.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// UpdateCategory renames a category.
func (s *SQLiteStore) UpdateCategory(ctx context.Context, category *models.IngredientCategory) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE ingredient_categories SET name = ? WHERE id = ?",
		category.Name, category.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	return requireRowAffected(res, "category", category.ID)
}

// DeleteCategory removes a category. The schema clears category links on
// ingredients (ON DELETE SET NULL) in the same statement's transaction,
// so ingredients survive their category.
func (s *SQLiteStore) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM ingredient_categories WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return requireRowAffected(res, "category", id)
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, id string) (*models.IngredientCategory, error) {
	category := &models.IngredientCategory{}
	err := s.q.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM ingredient_categories WHERE id = ?",
		id,
	).Scan(&category.ID, &category.Name, &category.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "category", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// ListCategories retrieves all categories, name ascending.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]*models.IngredientCategory, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT id, name, created_at FROM ingredient_categories ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*models.IngredientCategory
	for rows.Next() {
		category := &models.IngredientCategory{}
		if err := rows.Scan(&category.ID, &category.Name, &category.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// FindCategoryByName retrieves a category by name, case-insensitively.
// Returns (nil, nil) when no category matches.
func (s *SQLiteStore) FindCategoryByName(ctx context.Context, name string) (*models.IngredientCategory, error) {
	category := &models.IngredientCategory{}
	err := s.q.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM ingredient_categories WHERE name = ? COLLATE NOCASE",
		name,
	).Scan(&category.ID, &category.Name, &category.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category by name: %w", err)
	}
	return category, nil
}

// CreateIngredient inserts a new catalog ingredient.
func (s *SQLiteStore) CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	if ingredient.ID == "" {
		ingredient.ID = uuid.New().String()
	}
	if ingredient.CreatedAt == 0 {
		ingredient.CreatedAt = time.Now().Unix()
	}

	_, err := s.q.ExecContext(ctx,
		"INSERT INTO ingredients (id, name, category_id, created_at) VALUES (?, ?, ?, ?)",
		ingredient.ID, ingredient.Name, nullableText(ingredient.CategoryID), ingredient.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create ingredient: %w", err)
	}
	return nil
}

// UpdateIngredient updates an ingredient's name and category link.
func (s *SQLiteStore) UpdateIngredient(ctx context.Context, ingredient *models.Ingredient) error {
	res, err := s.q.ExecContext(ctx,
		"UPDATE ingredients SET name = ?, category_id = ? WHERE id = ?",
		ingredient.Name, nullableText(ingredient.CategoryID), ingredient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ingredient: %w", err)
	}
	return requireRowAffected(res, "ingredient", ingredient.ID)
}

// DeleteIngredient removes a catalog ingredient. The delete is refused
// while any recipe entry references the ingredient; shopping-list items
// keep their row but lose the link, all within one transaction.
func (s *SQLiteStore) DeleteIngredient(ctx context.Context, id string) error {
	return s.InTx(ctx, func(txStore storage.Store) error {
		tx := txStore.(*SQLiteStore)

		var usages int
		err := tx.q.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM recipe_ingredients WHERE ingredient_id = ?", id,
		).Scan(&usages)
		if err != nil {
			return fmt.Errorf("failed to count recipe usages: %w", err)
		}
		if usages > 0 {
			return &models.ReferentialIntegrityError{
				Entity:       "ingredient",
				ID:           id,
				ReferencedBy: "recipe ingredients",
			}
		}

		// The item keeps its display name; only the catalog link goes.
		if _, err := tx.q.ExecContext(ctx,
			"UPDATE shopping_list_items SET ingredient_id = NULL WHERE ingredient_id = ?", id,
		); err != nil {
			return fmt.Errorf("failed to unlink shopping list items: %w", err)
		}

		res, err := tx.q.ExecContext(ctx, "DELETE FROM ingredients WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("failed to delete ingredient: %w", err)
		}
		return requireRowAffected(res, "ingredient", id)
	})
}

// GetIngredient retrieves an ingredient by ID.
func (s *SQLiteStore) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	ingredient := &models.Ingredient{}
	var categoryID sql.NullString
	err := s.q.QueryRowContext(ctx,
		"SELECT id, name, category_id, created_at FROM ingredients WHERE id = ?",
		id,
	).Scan(&ingredient.ID, &ingredient.Name, &categoryID, &ingredient.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "ingredient", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	ingredient.CategoryID = categoryID.String
	return ingredient, nil
}

// ListIngredients retrieves the whole catalog, name ascending.
func (s *SQLiteStore) ListIngredients(ctx context.Context) ([]*models.Ingredient, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT id, name, category_id, created_at FROM ingredients ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []*models.Ingredient
	for rows.Next() {
		ingredient := &models.Ingredient{}
		var categoryID sql.NullString
		if err := rows.Scan(&ingredient.ID, &ingredient.Name, &categoryID, &ingredient.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredient.CategoryID = categoryID.String
		ingredients = append(ingredients, ingredient)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ingredients: %w", err)
	}
	return ingredients, nil
}

// FindIngredientByName retrieves an ingredient by name,
// case-insensitively. Returns (nil, nil) when no ingredient matches.
func (s *SQLiteStore) FindIngredientByName(ctx context.Context, name string) (*models.Ingredient, error) {
	ingredient := &models.Ingredient{}
	var categoryID sql.NullString
	err := s.q.QueryRowContext(ctx,
		"SELECT id, name, category_id, created_at FROM ingredients WHERE name = ? COLLATE NOCASE",
		name,
	).Scan(&ingredient.ID, &ingredient.Name, &categoryID, &ingredient.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find ingredient by name: %w", err)
	}
	ingredient.CategoryID = categoryID.String
	return ingredient, nil
}

// nullableText maps the empty string to NULL, for optional foreign keys.
func nullableText(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// requireRowAffected turns a zero-row write into a NotFoundError.
func requireRowAffected(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return &models.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}
