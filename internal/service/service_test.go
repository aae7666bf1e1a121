package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"mealplanner/internal/models"
	"mealplanner/internal/storage/sqlite"
)

// fixture wires the three services over a temp-file SQLite store, with
// one user to own everything.
type fixture struct {
	store   *sqlite.SQLiteStore
	catalog *CatalogService
	recipes *RecipeService
	lists   *ListService
	owner   *models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "mealplanner-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	owner := &models.User{Name: "Alice"}
	if err := store.CreateUser(context.Background(), owner); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return &fixture{
		store:   store,
		catalog: NewCatalogService(store),
		recipes: NewRecipeService(store),
		lists:   NewListService(store),
		owner:   owner,
	}
}

func (f *fixture) ingredient(t *testing.T, name string) *models.Ingredient {
	t.Helper()
	ingredient, err := f.catalog.CreateIngredient(context.Background(), name, "")
	if err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ingredient
}

type entrySpec struct {
	ingredient *models.Ingredient
	perPerson  string
	unit       models.Unit
}

func (f *fixture) recipe(t *testing.T, name string, entries ...entrySpec) *models.Recipe {
	t.Helper()
	ctx := context.Background()
	recipe, err := f.recipes.CreateRecipe(ctx, f.owner.ID, name)
	if err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}
	for _, e := range entries {
		qty := decimal.RequireFromString(e.perPerson)
		if _, err := f.recipes.AddIngredient(ctx, recipe.ID, e.ingredient.ID, qty, e.unit); err != nil {
			t.Fatalf("failed to add ingredient to %s: %v", name, err)
		}
	}
	return recipe
}

func (f *fixture) list(t *testing.T, name string, peopleCount int) *models.ShoppingList {
	t.Helper()
	list, err := f.lists.CreateList(context.Background(), f.owner.ID, name, peopleCount)
	if err != nil {
		t.Fatalf("failed to create list %s: %v", name, err)
	}
	return list
}

func (f *fixture) items(t *testing.T, listID string) []*models.ShoppingListItem {
	t.Helper()
	items, err := f.store.ListItems(context.Background(), listID)
	if err != nil {
		t.Fatalf("failed to list items: %v", err)
	}
	return items
}

func requireDecimal(t *testing.T, got decimal.Decimal, want string, what string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("%s = %s, want %s", what, got, want)
	}
}

func requireRate(t *testing.T, got *decimal.Decimal, want string, what string) {
	t.Helper()
	if got == nil {
		t.Fatalf("%s is nil, want %s", what, want)
	}
	requireDecimal(t, *got, want, what)
}
