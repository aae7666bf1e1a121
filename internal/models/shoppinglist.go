package models

import "github.com/shopspring/decimal"

// ShoppingList aggregates recipe contributions and manual entries into
// absolute quantities for PeopleCount people. A list starts open and
// closes exactly once; a closed list rejects every mutation.
type ShoppingList struct {
	// ID is the unique identifier for the list (UUID format).
	ID string

	// OwnerID references the user who created the list.
	OwnerID string

	// Name is the display name of the list.
	Name string

	// PeopleCount is the target headcount all per-person rates are
	// multiplied by. Always >= 1.
	PeopleCount int

	// ParticipantIDs lists the users sharing the list, besides the owner.
	ParticipantIDs []string

	// IsClosed marks the list as archived and read-only.
	IsClosed bool

	// ClosedAt is the unix timestamp of the close transition, 0 while the
	// list is open. Set exactly once; there is no reopen.
	ClosedAt int64

	// CreatedAt is the unix timestamp when the list was created.
	CreatedAt int64
}

// ShoppingListItem is one line of a shopping list. Two contributions land
// on the same item only when they share the list, the ingredient identity
// (catalog ID when linked, display name otherwise), the unit, and the
// manual/derived population.
type ShoppingListItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// ListID references the owning shopping list.
	ListID string

	// IngredientID links the optional catalog ingredient; empty for
	// free-text entries. Cleared, not cascaded, when the ingredient is
	// deleted from the catalog.
	IngredientID string

	// Name is the display name: the catalog name while linked, literal
	// text otherwise.
	Name string

	// Unit is the measurement unit, possibly UnitNone.
	Unit Unit

	// Quantity is the absolute amount to buy, quantized to 2 decimal
	// places. For derived items it always equals
	// PeopleCount x PerPersonQuantity re-quantized to 2 places.
	Quantity decimal.Decimal

	// PerPersonQuantity is the per-person rate, quantized to 4 decimal
	// places. Nil marks a manual entry, exempt from headcount
	// recalculation.
	PerPersonQuantity *decimal.Decimal

	// Checked marks the item as bought.
	Checked bool

	// CreatedAt is the unix timestamp when the item was created.
	CreatedAt int64
}

// Manual reports whether the item is a manual entry (no per-person rate).
func (i *ShoppingListItem) Manual() bool {
	return i.PerPersonQuantity == nil
}

// RecipeSelection pairs a recipe with the headcount it is being added
// for. A selection's People may differ from the list's PeopleCount; the
// contribution is scaled by People / PeopleCount.
type RecipeSelection struct {
	RecipeID string
	People   int
}

// ItemGroup is the presentation grouping of a list's items: one group per
// ingredient category, uncategorized last. Items inside a group come
// unchecked first, then by name.
type ItemGroup struct {
	// CategoryID is empty for the uncategorized group.
	CategoryID   string
	CategoryName string
	Items        []ShoppingListItem
}
