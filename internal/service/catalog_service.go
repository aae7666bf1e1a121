package service

import (
	"context"
	"log/slog"
	"strings"

	"mealplanner/internal/models"
	"mealplanner/internal/storage"
)

// CatalogService manages the shared ingredient catalog and its
// categories. Catalog entries are referenced by recipes and shopping
// lists but owned by nobody; deletes are guarded accordingly.
type CatalogService struct {
	store storage.Store
}

// NewCatalogService creates a new CatalogService with the given storage
// backend.
func NewCatalogService(store storage.Store) *CatalogService {
	return &CatalogService{store: store}
}

// CreateCategory adds an ingredient category. Names are trimmed and must
// be unique case-insensitively.
func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.IngredientCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name", "must not be empty")
	}

	category := &models.IngredientCategory{Name: name}
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		existing, err := tx.FindCategoryByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil {
			return models.NewValidationError("name", "category already exists")
		}
		return tx.CreateCategory(ctx, category)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("category created", "category_id", category.ID, "name", category.Name)
	return category, nil
}

// RenameCategory changes a category's name, with the same duplicate rule
// as CreateCategory (excluding the category itself).
func (s *CatalogService) RenameCategory(ctx context.Context, id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.NewValidationError("name", "must not be empty")
	}

	return s.store.InTx(ctx, func(tx storage.Store) error {
		category, err := tx.GetCategory(ctx, id)
		if err != nil {
			return err
		}
		existing, err := tx.FindCategoryByName(ctx, name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != category.ID {
			return models.NewValidationError("name", "category already exists")
		}
		category.Name = name
		return tx.UpdateCategory(ctx, category)
	})
}

// DeleteCategory removes a category. Its ingredients survive,
// uncategorized.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		return err
	}
	slog.Info("category deleted", "category_id", id)
	return nil
}

// ListCategories returns all categories, name ascending.
func (s *CatalogService) ListCategories(ctx context.Context) ([]*models.IngredientCategory, error) {
	return s.store.ListCategories(ctx)
}

// CreateIngredient adds a catalog ingredient, optionally linked to a
// category.
func (s *CatalogService) CreateIngredient(ctx context.Context, name, categoryID string) (*models.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name", "must not be empty")
	}

	ingredient := &models.Ingredient{Name: name, CategoryID: categoryID}
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if err := s.checkIngredientName(ctx, tx, name, ""); err != nil {
			return err
		}
		if categoryID != "" {
			if _, err := tx.GetCategory(ctx, categoryID); err != nil {
				return err
			}
		}
		return tx.CreateIngredient(ctx, ingredient)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("ingredient created",
		"ingredient_id", ingredient.ID,
		"name", ingredient.Name,
		"category_id", ingredient.CategoryID,
	)
	return ingredient, nil
}

// UpdateIngredient changes an ingredient's name and category link.
func (s *CatalogService) UpdateIngredient(ctx context.Context, id, name, categoryID string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.NewValidationError("name", "must not be empty")
	}

	return s.store.InTx(ctx, func(tx storage.Store) error {
		ingredient, err := tx.GetIngredient(ctx, id)
		if err != nil {
			return err
		}
		if err := s.checkIngredientName(ctx, tx, name, ingredient.ID); err != nil {
			return err
		}
		if categoryID != "" {
			if _, err := tx.GetCategory(ctx, categoryID); err != nil {
				return err
			}
		}
		ingredient.Name = name
		ingredient.CategoryID = categoryID
		return tx.UpdateIngredient(ctx, ingredient)
	})
}

// DeleteIngredient removes an ingredient from the catalog. The store
// refuses with a ReferentialIntegrityError while any recipe still uses
// it; shopping-list items keep their row and display name but lose the
// catalog link.
func (s *CatalogService) DeleteIngredient(ctx context.Context, id string) error {
	if err := s.store.DeleteIngredient(ctx, id); err != nil {
		slog.Warn("ingredient delete refused", "ingredient_id", id, "error", err)
		return err
	}
	slog.Info("ingredient deleted", "ingredient_id", id)
	return nil
}

// GetIngredient retrieves one catalog ingredient.
func (s *CatalogService) GetIngredient(ctx context.Context, id string) (*models.Ingredient, error) {
	return s.store.GetIngredient(ctx, id)
}

// ListIngredients returns the whole catalog, name ascending.
func (s *CatalogService) ListIngredients(ctx context.Context) ([]*models.Ingredient, error) {
	return s.store.ListIngredients(ctx)
}

func (s *CatalogService) checkIngredientName(ctx context.Context, tx storage.Store, name, selfID string) error {
	existing, err := tx.FindIngredientByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return models.NewValidationError("name", "ingredient already exists")
	}
	return nil
}
