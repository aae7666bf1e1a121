package models

// Unit is a measurement unit for ingredient quantities. The empty string
// is a valid value and means "no unit" (e.g. "3 eggs" vs "200 g flour").
// There is no conversion between units: quantities merge only when their
// units match exactly.
type Unit string

const (
	UnitNone       Unit = ""
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "l"
	UnitPiece      Unit = "unit"
	UnitTablespoon Unit = "tablespoon"
	UnitTeaspoon   Unit = "teaspoon"
	UnitPinch      Unit = "pinch"
)

// Units lists every selectable unit, in menu order, excluding UnitNone.
var Units = []Unit{
	UnitGram,
	UnitKilogram,
	UnitMilliliter,
	UnitLiter,
	UnitPiece,
	UnitTablespoon,
	UnitTeaspoon,
	UnitPinch,
}

// unitLabels maps units to their display labels. The labels are rendered
// verbatim by the presentation layer.
var unitLabels = map[Unit]string{
	UnitNone:       "Sans unité",
	UnitGram:       "g",
	UnitKilogram:   "kg",
	UnitMilliliter: "ml",
	UnitLiter:      "l",
	UnitPiece:      "unité(s)",
	UnitTablespoon: "c. à s.",
	UnitTeaspoon:   "c. à c.",
	UnitPinch:      "pincée",
}

// Valid reports whether u is the empty unit or one of the closed set.
func (u Unit) Valid() bool {
	_, ok := unitLabels[u]
	return ok
}

// Label returns the display label for u. Unknown units fall back to the
// raw value so bad data stays visible instead of disappearing.
func (u Unit) Label() string {
	if label, ok := unitLabels[u]; ok {
		return label
	}
	return string(u)
}
