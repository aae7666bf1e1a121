package service

import "mealplanner/internal/storage"

// Registry bundles the three services over one storage backend. The
// transport layer (external to this module) takes a Registry and mounts
// its routes on top of it.
type Registry struct {
	Catalog *CatalogService
	Recipes *RecipeService
	Lists   *ListService
}

// NewRegistry wires all services against the given store.
func NewRegistry(store storage.Store) *Registry {
	return &Registry{
		Catalog: NewCatalogService(store),
		Recipes: NewRecipeService(store),
		Lists:   NewListService(store),
	}
}
