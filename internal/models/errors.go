package models

import "fmt"

// ValidationError reports invalid input: a non-positive quantity or
// headcount, an empty recipe selection, a duplicate catalog name, an
// unknown unit. Field is empty for form-level errors.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-level ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ListClosedError reports a mutation attempted against a closed shopping
// list. The caller must not retry; the list is read-only forever.
type ListClosedError struct {
	ListID string
}

func (e *ListClosedError) Error() string {
	return fmt.Sprintf("shopping list %s is closed", e.ListID)
}

// IngredientNotFoundError reports a catalog ingredient reference that
// could not be resolved at write time, typically because the ingredient
// was deleted between page render and submit.
type IngredientNotFoundError struct {
	IngredientID string
}

func (e *IngredientNotFoundError) Error() string {
	return fmt.Sprintf("ingredient not found: %s", e.IngredientID)
}

// ReferentialIntegrityError reports a refused delete: the target is still
// referenced by other records. The delete has no partial effect.
type ReferentialIntegrityError struct {
	Entity       string
	ID           string
	ReferencedBy string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s %s is still referenced by %s", e.Entity, e.ID, e.ReferencedBy)
}

// NotFoundError reports a missing entity of any kind.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}
