package service

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"mealplanner/internal/aggregate"
	"mealplanner/internal/metrics"
	"mealplanner/internal/models"
	"mealplanner/internal/storage"
)

// ListService is the shopping-list aggregation engine. It turns recipe
// selections into per-person rates and absolute quantities on list
// items, merges contributions sharing an ingredient identity, and
// rescales derived items when the headcount changes.
//
// Every mutation runs inside one store transaction, so concurrent
// requests on the same list cannot lose an update, and a closed list
// rejects every mutation with a ListClosedError.
type ListService struct {
	store storage.Store
}

// NewListService creates a new ListService with the given storage
// backend.
func NewListService(store storage.Store) *ListService {
	return &ListService{store: store}
}

// CreateList creates an open shopping list. A peopleCount of 0 means
// "use the default" (1); negative counts are rejected.
func (s *ListService) CreateList(ctx context.Context, ownerID, name string, peopleCount int) (*models.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.NewValidationError("name", "must not be empty")
	}
	if peopleCount < 0 {
		return nil, models.NewValidationError("people_count", "must be at least 1")
	}
	if peopleCount == 0 {
		peopleCount = 1
	}
	if _, err := s.store.GetUser(ctx, ownerID); err != nil {
		return nil, err
	}

	list := &models.ShoppingList{OwnerID: ownerID, Name: name, PeopleCount: peopleCount}
	if err := s.store.CreateList(ctx, list); err != nil {
		return nil, err
	}

	slog.Info("shopping list created",
		"list_id", list.ID,
		"owner_id", ownerID,
		"people_count", peopleCount,
	)
	return list, nil
}

// GetList retrieves one list with its participants.
func (s *ListService) GetList(ctx context.Context, id string) (*models.ShoppingList, error) {
	return s.store.GetList(ctx, id)
}

// ListOpen returns the user's open lists, newest first.
func (s *ListService) ListOpen(ctx context.Context, ownerID string) ([]*models.ShoppingList, error) {
	return s.store.ListOpenLists(ctx, ownerID)
}

// ListClosed returns the user's closed lists, most recently closed
// first.
func (s *ListService) ListClosed(ctx context.Context, ownerID string) ([]*models.ShoppingList, error) {
	return s.store.ListClosedLists(ctx, ownerID)
}

// AddParticipant shares an open list with another user.
func (s *ListService) AddParticipant(ctx context.Context, listID, userID string) error {
	return s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := s.requireOpen(ctx, tx, listID); err != nil {
			return err
		}
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return err
		}
		return tx.AddParticipant(ctx, listID, userID)
	})
}

// RemoveParticipant unshares an open list.
func (s *ListService) RemoveParticipant(ctx context.Context, listID, userID string) error {
	return s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := s.requireOpen(ctx, tx, listID); err != nil {
			return err
		}
		return tx.RemoveParticipant(ctx, listID, userID)
	})
}

// AddRecipes merges the selected recipes' ingredients into the list.
// Each selection carries its own headcount, so a recipe can be added for
// more or fewer people than the list targets; the contribution is scaled
// by people / list.PeopleCount before merging.
//
// Contributions are applied in selection order, then in each recipe's
// ingredient order. Addition is commutative up to the fixed quantization,
// so the order affects intermediate rounding only.
func (s *ListService) AddRecipes(ctx context.Context, listID string, selections []models.RecipeSelection) error {
	if len(selections) == 0 {
		return models.NewValidationError("recipes", "select at least one recipe")
	}
	for _, sel := range selections {
		if sel.People < 1 {
			return models.NewValidationError("people", "must be at least 1")
		}
	}

	var merged, created int
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		list, err := s.requireOpen(ctx, tx, listID)
		if err != nil {
			return err
		}

		listPeople := list.PeopleCount
		if listPeople < 1 {
			listPeople = 1
		}

		for _, sel := range selections {
			recipe, err := tx.GetRecipe(ctx, sel.RecipeID)
			if err != nil {
				return err
			}
			for _, entry := range recipe.Ingredients {
				contribution, err := aggregate.Contribution(entry.QuantityPerPerson, sel.People, listPeople)
				if err != nil {
					return err
				}

				existing, err := tx.FindMergeItem(ctx, listID, entry.IngredientID, entry.IngredientName, entry.Unit, false)
				if err != nil {
					return err
				}

				if existing != nil {
					newRate := aggregate.MergeRate(*existing.PerPersonQuantity, contribution)
					existing.PerPersonQuantity = &newRate
					existing.Quantity = aggregate.AbsoluteFor(listPeople, newRate)
					// Refresh the display name in case the catalog entry
					// was renamed since the item was created.
					existing.Name = entry.IngredientName
					if err := tx.UpdateItem(ctx, existing); err != nil {
						return err
					}
					merged++
					continue
				}

				rate := contribution
				item := &models.ShoppingListItem{
					ListID:            listID,
					IngredientID:      entry.IngredientID,
					Name:              entry.IngredientName,
					Unit:              entry.Unit,
					Quantity:          aggregate.AbsoluteFor(listPeople, rate),
					PerPersonQuantity: &rate,
				}
				if err := tx.CreateItem(ctx, item); err != nil {
					return err
				}
				created++
			}
		}
		return nil
	})
	if err != nil {
		slog.Warn("add recipes failed", "list_id", listID, "error", err)
		return err
	}

	metrics.ContributionsMerged.Add(float64(merged))
	metrics.ItemsCreated.WithLabelValues("recipe").Add(float64(created))
	slog.Info("recipes added to list",
		"list_id", listID,
		"selections", len(selections),
		"items_merged", merged,
		"items_created", created,
	)
	return nil
}

// AddManualItem puts a fixed absolute quantity on the list, either
// linked to a catalog ingredient (ingredientID set) or as free text
// (name set). Manual entries merge only with other manual entries of the
// same identity and unit, and are never rescaled by headcount changes.
func (s *ListService) AddManualItem(ctx context.Context, listID, ingredientID, name string, unit models.Unit, qty decimal.Decimal) (*models.ShoppingListItem, error) {
	if !qty.IsPositive() {
		return nil, models.NewValidationError("quantity", "must be greater than zero")
	}
	if !unit.Valid() {
		return nil, models.NewValidationError("unit", "unknown unit")
	}
	name = strings.TrimSpace(name)
	if ingredientID == "" && name == "" {
		return nil, models.NewValidationError("name", "must not be empty")
	}

	var result *models.ShoppingListItem
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := s.requireOpen(ctx, tx, listID); err != nil {
			return err
		}

		if ingredientID != "" {
			ingredient, err := tx.GetIngredient(ctx, ingredientID)
			if err != nil {
				var nf *models.NotFoundError
				if errors.As(err, &nf) {
					return &models.IngredientNotFoundError{IngredientID: ingredientID}
				}
				return err
			}
			name = ingredient.Name
		}

		existing, err := tx.FindMergeItem(ctx, listID, ingredientID, name, unit, true)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.Quantity = aggregate.MergeManual(existing.Quantity, qty)
			existing.Name = name
			if err := tx.UpdateItem(ctx, existing); err != nil {
				return err
			}
			result = existing
			return nil
		}

		item := &models.ShoppingListItem{
			ListID:       listID,
			IngredientID: ingredientID,
			Name:         name,
			Unit:         unit,
			Quantity:     aggregate.MergeManual(decimal.Zero, qty),
		}
		if err := tx.CreateItem(ctx, item); err != nil {
			return err
		}
		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.ItemsCreated.WithLabelValues("manual").Inc()
	slog.Info("manual item added",
		"list_id", listID,
		"item_id", result.ID,
		"quantity", result.Quantity.String(),
	)
	return result, nil
}

// SetPeopleCount changes the list's target headcount and rescales every
// derived item to newCount x its per-person rate. Manual items keep
// their quantity. The operation is idempotent: repeating it with the
// same count changes nothing.
func (s *ListService) SetPeopleCount(ctx context.Context, listID string, newCount int) error {
	if newCount < 1 {
		return models.NewValidationError("people_count", "must be at least 1")
	}

	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := s.requireOpen(ctx, tx, listID); err != nil {
			return err
		}
		if err := tx.UpdateListPeopleCount(ctx, listID, newCount); err != nil {
			return err
		}

		items, err := tx.ListItems(ctx, listID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if item.Manual() {
				continue
			}
			item.Quantity = aggregate.AbsoluteFor(newCount, *item.PerPersonQuantity)
			if err := tx.UpdateItem(ctx, item); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Warn("set people count failed", "list_id", listID, "people_count", newCount, "error", err)
		return err
	}

	metrics.Recalculations.Inc()
	slog.Info("people count updated", "list_id", listID, "people_count", newCount)
	return nil
}

// ToggleItem flips an item's checked flag. Guarded by the open-list
// rule like every other mutation: a closed list's items cannot be
// checked off.
func (s *ListService) ToggleItem(ctx context.Context, listID, itemID string) (bool, error) {
	var checked bool
	err := s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := s.requireOpen(ctx, tx, listID); err != nil {
			return err
		}
		item, err := s.requireListItem(ctx, tx, listID, itemID)
		if err != nil {
			return err
		}
		item.Checked = !item.Checked
		checked = item.Checked
		return tx.UpdateItem(ctx, item)
	})
	return checked, err
}

// RemoveItem deletes one item from an open list.
func (s *ListService) RemoveItem(ctx context.Context, listID, itemID string) error {
	return s.store.InTx(ctx, func(tx storage.Store) error {
		if _, err := s.requireOpen(ctx, tx, listID); err != nil {
			return err
		}
		if _, err := s.requireListItem(ctx, tx, listID, itemID); err != nil {
			return err
		}
		return tx.DeleteItem(ctx, itemID)
	})
}

// Close archives the list: open -> closed, exactly once. Closing an
// already-closed list fails with ListClosedError and leaves closed_at
// untouched.
func (s *ListService) Close(ctx context.Context, listID string) (*models.ShoppingList, error) {
	if err := s.store.CloseList(ctx, listID, time.Now().Unix()); err != nil {
		return nil, err
	}

	metrics.ListsClosed.Inc()
	slog.Info("shopping list closed", "list_id", listID)
	return s.store.GetList(ctx, listID)
}

// GroupedItems returns the presentation projection of a list: items
// grouped by ingredient category, categories name-ascending with
// uncategorized last, items unchecked-before-checked then name-ascending
// within each group. Unlinked items fall into the uncategorized group.
func (s *ListService) GroupedItems(ctx context.Context, listID string) ([]models.ItemGroup, error) {
	items, err := s.store.ListItems(ctx, listID)
	if err != nil {
		return nil, err
	}

	ingredients, err := s.store.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, err
	}

	categoryOf := make(map[string]string, len(ingredients)) // ingredient ID -> category ID
	for _, ingredient := range ingredients {
		categoryOf[ingredient.ID] = ingredient.CategoryID
	}
	categoryName := make(map[string]string, len(categories))
	for _, category := range categories {
		categoryName[category.ID] = category.Name
	}

	// ListItems already orders by (checked, name); appending preserves
	// that order inside each group.
	groups := make(map[string]*models.ItemGroup)
	var order []string
	for _, item := range items {
		categoryID := ""
		if item.IngredientID != "" {
			categoryID = categoryOf[item.IngredientID]
		}
		group, ok := groups[categoryID]
		if !ok {
			group = &models.ItemGroup{
				CategoryID:   categoryID,
				CategoryName: categoryName[categoryID],
			}
			groups[categoryID] = group
			order = append(order, categoryID)
		}
		group.Items = append(group.Items, *item)
	}

	sort.SliceStable(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if (a == "") != (b == "") {
			return b == "" // uncategorized sorts last
		}
		return categoryName[a] < categoryName[b]
	})

	result := make([]models.ItemGroup, 0, len(order))
	for _, categoryID := range order {
		result = append(result, *groups[categoryID])
	}
	return result, nil
}

// requireOpen loads a list and rejects the operation when it is closed.
func (s *ListService) requireOpen(ctx context.Context, tx storage.Store, listID string) (*models.ShoppingList, error) {
	list, err := tx.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if list.IsClosed {
		return nil, &models.ListClosedError{ListID: listID}
	}
	return list, nil
}

// requireListItem loads an item and checks it belongs to the list, so an
// item ID from one list cannot mutate another.
func (s *ListService) requireListItem(ctx context.Context, tx storage.Store, listID, itemID string) (*models.ShoppingListItem, error) {
	item, err := tx.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.ListID != listID {
		return nil, &models.NotFoundError{Entity: "item", ID: itemID}
	}
	return item, nil
}
