// Package models defines the core domain entities for the meal planner.
//
// # Entities
//
//   - User: identity record used for ownership stamping (authentication
//     lives outside this module)
//   - IngredientCategory / Ingredient: the shared ingredient catalog
//   - Recipe / RecipeIngredient: per-person ingredient quantities
//   - ShoppingList / ShoppingListItem: derived and manual list entries
//
// # Design principles
//
//  1. Relationships are expressed as ID strings, never pointers, to avoid
//     circular references between entities.
//  2. All quantities are decimal.Decimal, never float64: per-person rates
//     carry 4 fractional digits, absolute quantities 2. Rounding is
//     half-to-even everywhere (see the quantity package).
//  3. A ShoppingListItem with a nil PerPersonQuantity is a manual entry:
//     its quantity is fixed and never rescaled when the list headcount
//     changes. Manual and recipe-derived entries never merge with each
//     other, even for the same ingredient and unit.
//  4. Timestamps are unix seconds (int64); ClosedAt is written exactly
//     once, when a list closes.
package models
