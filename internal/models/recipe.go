package models

import "github.com/shopspring/decimal"

// Recipe is an owned collection of per-person ingredient quantities.
// Deleting a recipe cascades to its ingredient entries.
type Recipe struct {
	// ID is the unique identifier for the recipe (UUID format).
	ID string

	// OwnerID references the user who created the recipe.
	OwnerID string

	// Name is the display name of the recipe.
	Name string

	// Ingredients holds the recipe's entries, ordered by ingredient name.
	Ingredients []RecipeIngredient

	// CreatedAt is the unix timestamp when the recipe was created.
	CreatedAt int64
}

// RecipeIngredient is one line of a recipe: how much of a catalog
// ingredient one person eats. The referenced ingredient is protected
// against deletion for as long as this entry exists.
type RecipeIngredient struct {
	// ID is the unique identifier for the entry (UUID format).
	ID string

	// RecipeID references the owning recipe.
	RecipeID string

	// IngredientID references the catalog ingredient.
	IngredientID string

	// IngredientName is the catalog name, denormalized for display and
	// ordering. Populated on read; not a stored column of its own.
	IngredientName string

	// QuantityPerPerson is the amount needed for exactly one person,
	// quantized to 2 decimal places. Always > 0.
	QuantityPerPerson decimal.Decimal

	// Unit is the measurement unit, possibly UnitNone.
	Unit Unit

	// CreatedAt is the unix timestamp when the entry was created.
	CreatedAt int64
}
