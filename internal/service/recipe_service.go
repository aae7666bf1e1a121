package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"mealplanner/internal/models"
	"mealplanner/internal/quantity"
	"mealplanner/internal/storage"
)

// RecipeService manages recipes and their per-person ingredient entries.
type RecipeService struct {
	store storage.Store
}

// NewRecipeService creates a new RecipeService with the given storage
// backend.
func NewRecipeService(store storage.Store) *RecipeService {
	return &RecipeService{store: store}
}

// CreateRecipe creates an empty recipe owned by the acting user.
func (s *RecipeService) CreateRecipe(ctx context.Context, ownerID, name string) (*models.Recipe, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name", "must not be empty")
	}
	if _, err := s.store.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{OwnerID: ownerID, Name: name}
	if err := s.store.CreateRecipe(ctx, recipe); err != nil {
		return nil, err
	}

	slog.Info("recipe created", "recipe_id", recipe.ID, "owner_id", ownerID, "name", name)
	return recipe, nil
}

// DeleteRecipe removes a recipe and, with it, its ingredient entries.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string) error {
	if err := s.store.DeleteRecipe(ctx, id); err != nil {
		return err
	}
	slog.Info("recipe deleted", "recipe_id", id)
	return nil
}

// GetRecipe retrieves a recipe with its entries ordered by ingredient
// name.
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	return s.store.GetRecipe(ctx, id)
}

// ListRecipes returns all recipes, name ascending.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]*models.Recipe, error) {
	return s.store.ListRecipes(ctx)
}

// AddIngredient appends one per-person entry to a recipe. The quantity
// must be strictly positive and is stored at 2 decimal places; the unit
// must be empty or one of the closed set; the ingredient must resolve in
// the catalog.
func (s *RecipeService) AddIngredient(ctx context.Context, recipeID, ingredientID string, quantityPerPerson decimal.Decimal, unit models.Unit) (*models.RecipeIngredient, error) {
	if !quantity.Positive(quantityPerPerson) {
		return nil, models.NewValidationError("quantity_per_person", "must be greater than zero")
	}
	if !unit.Valid() {
		return nil, models.NewValidationError("unit", "unknown unit")
	}

	entry := &models.RecipeIngredient{
		RecipeID:          recipeID,
		IngredientID:      ingredientID,
		QuantityPerPerson: quantity.Absolute(quantityPerPerson),
		Unit:              unit,
	}

	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := tx.GetRecipe(ctx, recipeID); err != nil {
			return err
		}
		ingredient, err := tx.GetIngredient(ctx, ingredientID)
		if err != nil {
			var nf *models.NotFoundError
			if errors.As(err, &nf) {
				return &models.IngredientNotFoundError{IngredientID: ingredientID}
			}
			return err
		}
		entry.IngredientName = ingredient.Name
		return tx.AddRecipeIngredient(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("recipe ingredient added",
		"recipe_id", recipeID,
		"ingredient_id", ingredientID,
		"quantity_per_person", entry.QuantityPerPerson.String(),
		"unit", string(unit),
	)
	return entry, nil
}

// RemoveIngredient deletes one entry from a recipe.
func (s *RecipeService) RemoveIngredient(ctx context.Context, entryID string) error {
	return s.store.DeleteRecipeIngredient(ctx, entryID)
}
