// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"mealplanner/internal/models"
)

// Store defines the persistence operations the services build on. This
// abstraction allows swapping storage backends (SQLite, PostgreSQL, ...)
// without changing the service layer.
//
// Get* methods return a models.NotFoundError for missing IDs. Find*
// methods return (nil, nil) when nothing matches.
type Store interface {
	// InTx runs fn against a transaction-scoped view of the store. The
	// transaction takes the write lock up front, so every read-modify-
	// write sequence inside fn is atomic per database: two requests
	// racing on the same list cannot lose an update. fn returning an
	// error rolls everything back. Nested calls reuse the open
	// transaction.
	InTx(ctx context.Context, fn func(Store) error) error

	// Users (identity records only; credentials live elsewhere).
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)

	// Ingredient catalog.
	CreateCategory(ctx context.Context, category *models.IngredientCategory) error
	UpdateCategory(ctx context.Context, category *models.IngredientCategory) error
	DeleteCategory(ctx context.Context, id string) error
	GetCategory(ctx context.Context, id string) (*models.IngredientCategory, error)
	ListCategories(ctx context.Context) ([]*models.IngredientCategory, error)
	FindCategoryByName(ctx context.Context, name string) (*models.IngredientCategory, error)

	CreateIngredient(ctx context.Context, ingredient *models.Ingredient) error
	UpdateIngredient(ctx context.Context, ingredient *models.Ingredient) error
	// DeleteIngredient refuses with a models.ReferentialIntegrityError
	// while any recipe entry references the ingredient; shopping-list
	// item links are cleared in the same transaction.
	DeleteIngredient(ctx context.Context, id string) error
	GetIngredient(ctx context.Context, id string) (*models.Ingredient, error)
	ListIngredients(ctx context.Context) ([]*models.Ingredient, error)
	FindIngredientByName(ctx context.Context, name string) (*models.Ingredient, error)

	// Recipes. GetRecipe loads entries ordered by ingredient name;
	// DeleteRecipe cascades to its entries.
	CreateRecipe(ctx context.Context, recipe *models.Recipe) error
	DeleteRecipe(ctx context.Context, id string) error
	GetRecipe(ctx context.Context, id string) (*models.Recipe, error)
	ListRecipes(ctx context.Context) ([]*models.Recipe, error)
	AddRecipeIngredient(ctx context.Context, entry *models.RecipeIngredient) error
	DeleteRecipeIngredient(ctx context.Context, id string) error

	// Shopping lists.
	CreateList(ctx context.Context, list *models.ShoppingList) error
	GetList(ctx context.Context, id string) (*models.ShoppingList, error)
	ListOpenLists(ctx context.Context, ownerID string) ([]*models.ShoppingList, error)
	ListClosedLists(ctx context.Context, ownerID string) ([]*models.ShoppingList, error)
	UpdateListPeopleCount(ctx context.Context, id string, peopleCount int) error
	// CloseList performs the open -> closed transition, setting closed_at
	// exactly once.
	CloseList(ctx context.Context, id string, closedAt int64) error
	AddParticipant(ctx context.Context, listID, userID string) error
	RemoveParticipant(ctx context.Context, listID, userID string) error

	// Shopping list items.
	CreateItem(ctx context.Context, item *models.ShoppingListItem) error
	UpdateItem(ctx context.Context, item *models.ShoppingListItem) error
	DeleteItem(ctx context.Context, id string) error
	GetItem(ctx context.Context, id string) (*models.ShoppingListItem, error)
	ListItems(ctx context.Context, listID string) ([]*models.ShoppingListItem, error)
	// FindMergeItem locates the item a new contribution merges into:
	// same list, same ingredient identity (catalog ID when linked, exact
	// name otherwise), same unit, and the same manual/derived population.
	FindMergeItem(ctx context.Context, listID, ingredientID, name string, unit models.Unit, manual bool) (*models.ShoppingListItem, error)

	// Close releases any resources held by the store.
	Close() error
}
