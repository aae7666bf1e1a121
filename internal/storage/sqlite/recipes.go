package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"mealplanner/internal/models"
)

// CreateRecipe inserts a new recipe. Ingredient entries are added
// separately via AddRecipeIngredient.
func (s *SQLiteStore) CreateRecipe(ctx context.Context, recipe *models.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	if recipe.CreatedAt == 0 {
		recipe.CreatedAt = time.Now().Unix()
	}

	_, err := s.q.ExecContext(ctx,
		"INSERT INTO recipes (id, owner_id, name, created_at) VALUES (?, ?, ?, ?)",
		recipe.ID, recipe.OwnerID, recipe.Name, recipe.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// DeleteRecipe removes a recipe. Its ingredient entries cascade with it.
func (s *SQLiteStore) DeleteRecipe(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM recipes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	return requireRowAffected(res, "recipe", id)
}

// GetRecipe retrieves a recipe with its ingredient entries, ordered by
// ingredient name.
func (s *SQLiteStore) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	recipe := &models.Recipe{}
	err := s.q.QueryRowContext(ctx,
		"SELECT id, owner_id, name, created_at FROM recipes WHERE id = ?",
		id,
	).Scan(&recipe.ID, &recipe.OwnerID, &recipe.Name, &recipe.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Entity: "recipe", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}

	entries, err := s.listRecipeIngredients(ctx, id)
	if err != nil {
		return nil, err
	}
	recipe.Ingredients = entries
	return recipe, nil
}

// ListRecipes retrieves all recipes with their entries, name ascending.
func (s *SQLiteStore) ListRecipes(ctx context.Context) ([]*models.Recipe, error) {
	rows, err := s.q.QueryContext(ctx,
		"SELECT id, owner_id, name, created_at FROM recipes ORDER BY name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	var recipes []*models.Recipe
	for rows.Next() {
		recipe := &models.Recipe{}
		if err := rows.Scan(&recipe.ID, &recipe.OwnerID, &recipe.Name, &recipe.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}

	for _, recipe := range recipes {
		entries, err := s.listRecipeIngredients(ctx, recipe.ID)
		if err != nil {
			return nil, err
		}
		recipe.Ingredients = entries
	}
	return recipes, nil
}

func (s *SQLiteStore) listRecipeIngredients(ctx context.Context, recipeID string) ([]models.RecipeIngredient, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT ri.id, ri.recipe_id, ri.ingredient_id, i.name,
		       ri.quantity_per_person, ri.unit, ri.created_at
		FROM recipe_ingredients ri
		JOIN ingredients i ON i.id = ri.ingredient_id
		WHERE ri.recipe_id = ?
		ORDER BY i.name`,
		recipeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipe ingredients: %w", err)
	}
	defer rows.Close()

	var entries []models.RecipeIngredient
	for rows.Next() {
		var entry models.RecipeIngredient
		if err := rows.Scan(
			&entry.ID, &entry.RecipeID, &entry.IngredientID, &entry.IngredientName,
			&entry.QuantityPerPerson, &entry.Unit, &entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipe ingredients: %w", err)
	}
	return entries, nil
}

// AddRecipeIngredient inserts one recipe entry.
func (s *SQLiteStore) AddRecipeIngredient(ctx context.Context, entry *models.RecipeIngredient) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.CreatedAt == 0 {
		entry.CreatedAt = time.Now().Unix()
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO recipe_ingredients (id, recipe_id, ingredient_id, quantity_per_person, unit, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.RecipeID, entry.IngredientID,
		entry.QuantityPerPerson.String(), string(entry.Unit), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add recipe ingredient: %w", err)
	}
	return nil
}

// DeleteRecipeIngredient removes one recipe entry.
func (s *SQLiteStore) DeleteRecipeIngredient(ctx context.Context, id string) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM recipe_ingredients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe ingredient: %w", err)
	}
	return requireRowAffected(res, "recipe ingredient", id)
}
