package dataset

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Column is one of the required dataset columns.
type Column struct {
	// Key is the normalized lookup key (snake_case, ASCII).
	Key string

	// English is the canonical English header.
	English string

	// Spanish is the header used by field teams' spreadsheets.
	Spanish string

	// Aliases are further accepted headers.
	Aliases []string

	// RowRequired marks columns whose cells may not be empty.
	RowRequired bool
}

// Dialect is the header language a file was written in.
type Dialect int

const (
	DialectEnglish Dialect = iota
	DialectSpanish
)

func (d Dialect) String() string {
	if d == DialectSpanish {
		return "spanish"
	}
	return "english"
}

// Name returns the header to show for this column in the given dialect.
func (c Column) Name(d Dialect) string {
	if d == DialectSpanish {
		return c.Spanish
	}
	return c.English
}

// Required columns, in canonical output order.
var (
	ColActivity = Column{Key: "activity", English: "Activity", Spanish: "Actividad", RowRequired: true}
	ColGroup    = Column{Key: "group", English: "Group", Spanish: "Área", Aliases: []string{"area"}, RowRequired: true}
	ColUnit     = Column{Key: "unit", English: "Unit", Spanish: "Unidad"}
	ColTotal    = Column{Key: "total_quantity", English: "Total_Quantity", Spanish: "Cantidad_Total", RowRequired: true}
	ColExecuted = Column{Key: "executed_quantity", English: "Executed_Quantity", Spanish: "Cantidad_Ejecutada", RowRequired: true}
)

// RequiredColumns returns the required columns in canonical order.
func RequiredColumns() []Column {
	return []Column{ColActivity, ColGroup, ColUnit, ColTotal, ColExecuted}
}

// CanonicalHeader returns the English headers of the required columns.
func CanonicalHeader() []string {
	cols := RequiredColumns()
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.English
	}
	return header
}

// match reports whether a normalized header names this column, and in which dialect.
func (c Column) match(normalized string) (Dialect, bool) {
	if normalized == normalizeColumnName(c.English) {
		return DialectEnglish, true
	}
	if normalized == normalizeColumnName(c.Spanish) {
		return DialectSpanish, true
	}
	for _, alias := range c.Aliases {
		if normalized == normalizeColumnName(alias) {
			return DialectEnglish, true
		}
	}
	return DialectEnglish, false
}

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeColumnName folds a header to lowercase ASCII snake_case.
// "Área", "AREA" and " area " all normalize to "area";
// "Cantidad Total", "CantidadTotal" and "cantidad_total" to "cantidad_total".
func normalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	if folded, _, err := transform.String(accentStripper, name); err == nil {
		name = folded
	}

	// PascalCase/camelCase -> snake_case, only for single-token headers
	if !strings.ContainsAny(name, "_ -.") && strings.ToLower(name) != name {
		var result strings.Builder
		for i, r := range name {
			if i > 0 && r >= 'A' && r <= 'Z' {
				prev := rune(name[i-1])
				if prev >= 'a' && prev <= 'z' {
					result.WriteByte('_')
				}
			}
			result.WriteRune(r)
		}
		name = result.String()
	}

	name = strings.ToLower(name)
	name = strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-' || r == '.'
	}), "_")
	return name
}
