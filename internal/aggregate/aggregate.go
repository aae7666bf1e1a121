// Package aggregate holds the pure arithmetic of the shopping-list
// engine: scaling a recipe's per-person quantities to a list's headcount
// and merging contributions that share an ingredient identity.
//
// The functions here never touch storage; the service layer decides which
// item a contribution lands on and persists the result.
package aggregate

import (
	"github.com/shopspring/decimal"

	"mealplanner/internal/models"
	"mealplanner/internal/quantity"
)

// Contribution computes the per-person rate a recipe ingredient adds to a
// list: quantityPerPerson x people / listPeople, quantized to 4 places.
//
// people is the headcount the recipe was selected for and must be >= 1.
// listPeople below 1 is treated as 1; the list itself enforces the
// minimum, this is a belt against stale rows.
func Contribution(quantityPerPerson decimal.Decimal, people, listPeople int) (decimal.Decimal, error) {
	if people < 1 {
		return decimal.Decimal{}, models.NewValidationError("people", "must be at least 1")
	}
	if listPeople < 1 {
		listPeople = 1
	}
	scaled := quantityPerPerson.
		Mul(decimal.NewFromInt(int64(people))).
		Div(decimal.NewFromInt(int64(listPeople)))
	return quantity.Rate(scaled), nil
}

// AbsoluteFor derives the display quantity for a per-person rate at the
// given headcount: people x rate, quantized to 2 places.
func AbsoluteFor(people int, rate decimal.Decimal) decimal.Decimal {
	if people < 1 {
		people = 1
	}
	return quantity.Absolute(decimal.NewFromInt(int64(people)).Mul(rate))
}

// MergeRate folds a new contribution into an existing per-person rate.
func MergeRate(existing, contribution decimal.Decimal) decimal.Decimal {
	return quantity.Rate(existing.Add(contribution))
}

// MergeManual folds an additional absolute quantity into an existing
// manual item's quantity.
func MergeManual(existing, addition decimal.Decimal) decimal.Decimal {
	return quantity.Absolute(existing.Add(addition))
}
