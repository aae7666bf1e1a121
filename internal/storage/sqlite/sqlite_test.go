package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"mealplanner/internal/models"
	"mealplanner/internal/storage"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "mealplanner-sqlite-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func seedUser(t *testing.T, store *SQLiteStore) *models.User {
	t.Helper()
	user := &models.User{Name: "Alice"}
	if err := store.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func seedList(t *testing.T, store *SQLiteStore, ownerID string) *models.ShoppingList {
	t.Helper()
	list := &models.ShoppingList{OwnerID: ownerID, Name: "Week 36", PeopleCount: 2}
	if err := store.CreateList(context.Background(), list); err != nil {
		t.Fatalf("failed to create list: %v", err)
	}
	return list
}

func rate(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestDeleteListCascadesItems(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	owner := seedUser(t, store)
	list := seedList(t, store, owner.ID)

	item := &models.ShoppingListItem{
		ListID:   list.ID,
		Name:     "Bread",
		Unit:     models.UnitPiece,
		Quantity: decimal.NewFromInt(1),
	}
	if err := store.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	if _, err := store.db.ExecContext(ctx, "DELETE FROM shopping_lists WHERE id = ?", list.ID); err != nil {
		t.Fatalf("deleting list failed: %v", err)
	}

	var nferr *models.NotFoundError
	if _, err := store.GetItem(ctx, item.ID); !errors.As(err, &nferr) {
		t.Errorf("expected NotFoundError for cascaded item, got %v", err)
	}
}

func TestRecipeEntryProtectsIngredient(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	owner := seedUser(t, store)

	ingredient := &models.Ingredient{Name: "Flour"}
	if err := store.CreateIngredient(ctx, ingredient); err != nil {
		t.Fatalf("CreateIngredient failed: %v", err)
	}
	recipe := &models.Recipe{OwnerID: owner.ID, Name: "Bread"}
	if err := store.CreateRecipe(ctx, recipe); err != nil {
		t.Fatalf("CreateRecipe failed: %v", err)
	}
	entry := &models.RecipeIngredient{
		RecipeID:          recipe.ID,
		IngredientID:      ingredient.ID,
		QuantityPerPerson: decimal.RequireFromString("100.00"),
		Unit:              models.UnitGram,
	}
	if err := store.AddRecipeIngredient(ctx, entry); err != nil {
		t.Fatalf("AddRecipeIngredient failed: %v", err)
	}

	var rierr *models.ReferentialIntegrityError
	if err := store.DeleteIngredient(ctx, ingredient.ID); !errors.As(err, &rierr) {
		t.Fatalf("expected ReferentialIntegrityError, got %v", err)
	}

	// Recipe deletion cascades to its entries and lifts the protection.
	if err := store.DeleteRecipe(ctx, recipe.ID); err != nil {
		t.Fatalf("DeleteRecipe failed: %v", err)
	}
	if err := store.DeleteIngredient(ctx, ingredient.ID); err != nil {
		t.Errorf("DeleteIngredient after cascade failed: %v", err)
	}
}

func TestFindMergeItem(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	owner := seedUser(t, store)
	list := seedList(t, store, owner.ID)

	tomato := &models.Ingredient{Name: "Tomato"}
	if err := store.CreateIngredient(ctx, tomato); err != nil {
		t.Fatalf("CreateIngredient failed: %v", err)
	}

	derived := &models.ShoppingListItem{
		ListID:            list.ID,
		IngredientID:      tomato.ID,
		Name:              "Tomato",
		Unit:              models.UnitGram,
		Quantity:          decimal.RequireFromString("400.00"),
		PerPersonQuantity: rate("200.0000"),
	}
	manual := &models.ShoppingListItem{
		ListID:       list.ID,
		IngredientID: tomato.ID,
		Name:         "Tomato",
		Unit:         models.UnitGram,
		Quantity:     decimal.RequireFromString("50.00"),
	}
	freeText := &models.ShoppingListItem{
		ListID:   list.ID,
		Name:     "Paper towels",
		Unit:     models.UnitPiece,
		Quantity: decimal.NewFromInt(2),
	}
	for _, item := range []*models.ShoppingListItem{derived, manual, freeText} {
		if err := store.CreateItem(ctx, item); err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}
	}

	tests := []struct {
		name         string
		ingredientID string
		itemName     string
		unit         models.Unit
		manual       bool
		wantID       string
	}{
		{"derived by ingredient", tomato.ID, "Tomato", models.UnitGram, false, derived.ID},
		{"manual by ingredient", tomato.ID, "Tomato", models.UnitGram, true, manual.ID},
		{"free text by name", "", "Paper towels", models.UnitPiece, true, freeText.ID},
		{"different unit no match", tomato.ID, "Tomato", models.UnitKilogram, false, ""},
		{"unlinked never matches linked", "", "Tomato", models.UnitGram, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.FindMergeItem(ctx, list.ID, tt.ingredientID, tt.itemName, tt.unit, tt.manual)
			if err != nil {
				t.Fatalf("FindMergeItem failed: %v", err)
			}
			if tt.wantID == "" {
				if got != nil {
					t.Errorf("expected no match, got item %s", got.ID)
				}
				return
			}
			if got == nil {
				t.Fatal("expected a match, got nil")
			}
			if got.ID != tt.wantID {
				t.Errorf("matched item %s, want %s", got.ID, tt.wantID)
			}
		})
	}
}

func TestCloseListWritesClosedAtOnce(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	owner := seedUser(t, store)
	list := seedList(t, store, owner.ID)

	if err := store.CloseList(ctx, list.ID, 1000); err != nil {
		t.Fatalf("CloseList failed: %v", err)
	}

	var clerr *models.ListClosedError
	if err := store.CloseList(ctx, list.ID, 2000); !errors.As(err, &clerr) {
		t.Fatalf("expected ListClosedError on second close, got %v", err)
	}

	loaded, err := store.GetList(ctx, list.ID)
	if err != nil {
		t.Fatalf("GetList failed: %v", err)
	}
	if !loaded.IsClosed || loaded.ClosedAt != 1000 {
		t.Errorf("closed_at = %d (closed=%v), want first timestamp 1000", loaded.ClosedAt, loaded.IsClosed)
	}

	var nferr *models.NotFoundError
	if err := store.CloseList(ctx, "no-such-list", 1000); !errors.As(err, &nferr) {
		t.Errorf("expected NotFoundError for missing list, got %v", err)
	}
}

func TestInTxRollsBackOnError(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	owner := seedUser(t, store)
	list := seedList(t, store, owner.ID)

	failed := errors.New("boom")
	err := store.InTx(ctx, func(tx storage.Store) error {
		item := &models.ShoppingListItem{
			ListID:   list.ID,
			Name:     "Bread",
			Unit:     models.UnitPiece,
			Quantity: decimal.NewFromInt(1),
		}
		if err := tx.CreateItem(ctx, item); err != nil {
			return err
		}
		if err := tx.UpdateListPeopleCount(ctx, list.ID, 9); err != nil {
			return err
		}
		return failed
	})
	if !errors.Is(err, failed) {
		t.Fatalf("expected fn error back, got %v", err)
	}

	items, err := store.ListItems(ctx, list.ID)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected rollback to discard the item, found %d items", len(items))
	}
	loaded, err := store.GetList(ctx, list.ID)
	if err != nil {
		t.Fatalf("GetList failed: %v", err)
	}
	if loaded.PeopleCount != 2 {
		t.Errorf("people count = %d, want rollback to 2", loaded.PeopleCount)
	}
}

func TestInTxNestedCallsShareTransaction(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	owner := seedUser(t, store)
	list := seedList(t, store, owner.ID)

	err := store.InTx(ctx, func(outer storage.Store) error {
		if err := outer.UpdateListPeopleCount(ctx, list.ID, 5); err != nil {
			return err
		}
		return outer.InTx(ctx, func(inner storage.Store) error {
			loaded, err := inner.GetList(ctx, list.ID)
			if err != nil {
				return err
			}
			if loaded.PeopleCount != 5 {
				t.Errorf("inner scope sees people count %d, want 5", loaded.PeopleCount)
			}
			return nil
		})
	})
	if err != nil {
		t.Fatalf("InTx failed: %v", err)
	}

	loaded, err := store.GetList(ctx, list.ID)
	if err != nil {
		t.Fatalf("GetList failed: %v", err)
	}
	if loaded.PeopleCount != 5 {
		t.Errorf("people count = %d, want 5 after commit", loaded.PeopleCount)
	}
}

func TestCatalogNameLookupIsCaseInsensitive(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	category := &models.IngredientCategory{Name: "Produce"}
	if err := store.CreateCategory(ctx, category); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	ingredient := &models.Ingredient{Name: "Tomato", CategoryID: category.ID}
	if err := store.CreateIngredient(ctx, ingredient); err != nil {
		t.Fatalf("CreateIngredient failed: %v", err)
	}

	found, err := store.FindCategoryByName(ctx, "PRODUCE")
	if err != nil {
		t.Fatalf("FindCategoryByName failed: %v", err)
	}
	if found == nil || found.ID != category.ID {
		t.Error("expected case-insensitive category match")
	}

	foundIng, err := store.FindIngredientByName(ctx, "tomato")
	if err != nil {
		t.Fatalf("FindIngredientByName failed: %v", err)
	}
	if foundIng == nil || foundIng.ID != ingredient.ID {
		t.Error("expected case-insensitive ingredient match")
	}

	missing, err := store.FindIngredientByName(ctx, "Basil")
	if err != nil {
		t.Fatalf("FindIngredientByName failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown name, got %v", missing)
	}
}

func TestListItemsOrdersUncheckedFirst(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	owner := seedUser(t, store)
	list := seedList(t, store, owner.ID)

	for _, row := range []struct {
		name    string
		checked bool
	}{
		{"Zucchini", false},
		{"Apple", true},
		{"Milk", false},
	} {
		item := &models.ShoppingListItem{
			ListID:   list.ID,
			Name:     row.name,
			Unit:     models.UnitPiece,
			Quantity: decimal.NewFromInt(1),
			Checked:  row.checked,
		}
		if err := store.CreateItem(ctx, item); err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}
	}

	items, err := store.ListItems(ctx, list.ID)
	if err != nil {
		t.Fatalf("ListItems failed: %v", err)
	}
	var names []string
	for _, item := range items {
		names = append(names, item.Name)
	}
	want := []string{"Milk", "Zucchini", "Apple"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order = %v, want %v", names, want)
		}
	}
}

func TestGetRecipeLoadsEntriesWithNames(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	owner := seedUser(t, store)

	flour := &models.Ingredient{Name: "Flour"}
	if err := store.CreateIngredient(ctx, flour); err != nil {
		t.Fatalf("CreateIngredient failed: %v", err)
	}
	recipe := &models.Recipe{OwnerID: owner.ID, Name: "Bread"}
	if err := store.CreateRecipe(ctx, recipe); err != nil {
		t.Fatalf("CreateRecipe failed: %v", err)
	}
	entry := &models.RecipeIngredient{
		RecipeID:          recipe.ID,
		IngredientID:      flour.ID,
		QuantityPerPerson: decimal.RequireFromString("125.50"),
		Unit:              models.UnitGram,
	}
	if err := store.AddRecipeIngredient(ctx, entry); err != nil {
		t.Fatalf("AddRecipeIngredient failed: %v", err)
	}

	loaded, err := store.GetRecipe(ctx, recipe.ID)
	if err != nil {
		t.Fatalf("GetRecipe failed: %v", err)
	}
	if len(loaded.Ingredients) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(loaded.Ingredients))
	}
	got := loaded.Ingredients[0]
	if got.IngredientName != "Flour" {
		t.Errorf("ingredient name = %q, want Flour", got.IngredientName)
	}
	if !got.QuantityPerPerson.Equal(decimal.RequireFromString("125.50")) {
		t.Errorf("quantity per person = %s, want 125.50", got.QuantityPerPerson)
	}
}

func TestItemRatePersistsNull(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	owner := seedUser(t, store)
	list := seedList(t, store, owner.ID)

	manual := &models.ShoppingListItem{
		ListID:   list.ID,
		Name:     "Sponges",
		Unit:     models.UnitPiece,
		Quantity: decimal.NewFromInt(3),
	}
	derived := &models.ShoppingListItem{
		ListID:            list.ID,
		Name:              "Rice",
		Unit:              models.UnitGram,
		Quantity:          decimal.RequireFromString("150.00"),
		PerPersonQuantity: rate("75.0000"),
	}
	for _, item := range []*models.ShoppingListItem{manual, derived} {
		if err := store.CreateItem(ctx, item); err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}
	}

	loadedManual, err := store.GetItem(ctx, manual.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if !loadedManual.Manual() {
		t.Error("expected manual item to come back without a rate")
	}

	loadedDerived, err := store.GetItem(ctx, derived.ID)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if loadedDerived.Manual() {
		t.Fatal("expected derived item to keep its rate")
	}
	if !loadedDerived.PerPersonQuantity.Equal(decimal.RequireFromString("75.0000")) {
		t.Errorf("rate = %s, want 75.0000", loadedDerived.PerPersonQuantity)
	}
}
