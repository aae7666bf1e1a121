package models

// IngredientCategory groups catalog ingredients for display ("Fruits et
// légumes", "Épicerie", ...). Names are unique case-insensitively.
type IngredientCategory struct {
	// ID is the unique identifier for the category (UUID format).
	ID string

	// Name is the display name, unique case-insensitively.
	Name string

	// CreatedAt is the unix timestamp when the category was created.
	CreatedAt int64
}

// Ingredient is a shared catalog entry. Ingredients are referenced, never
// owned, by recipe entries and shopping-list items: deleting one is
// refused while a recipe still uses it, and list items merely lose their
// link (keeping the last known name) when it goes away.
type Ingredient struct {
	// ID is the unique identifier for the ingredient (UUID format).
	ID string

	// Name is the display name, unique case-insensitively.
	Name string

	// CategoryID links the optional category; empty means uncategorized.
	// Deleting the category clears this field, it never deletes the
	// ingredient.
	CategoryID string

	// CreatedAt is the unix timestamp when the ingredient was created.
	CreatedAt int64
}
