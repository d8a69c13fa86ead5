package bubble

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Category is a named, weighted, colored item with optional subcategories.
// Weight is a percentage in [0, 100]; values outside that range are not an
// error, but negative and non-finite weights size as 0.
type Category struct {
	Name     string     `json:"name" bson:"name"`
	Weight   float64    `json:"weight" bson:"weight"`
	Color    string     `json:"color,omitempty" bson:"color,omitempty"`
	Children []Category `json:"children" bson:"children"`
}

// IsLeaf reports whether c has no subcategories.
func (c Category) IsLeaf() bool { return len(c.Children) == 0 }

// Normalize returns a deep copy of c with a non-nil Children slice, a
// sanitized weight, and children inheriting c's color when they have none.
func (c Category) Normalize() Category {
	out := Category{
		Name:     strings.TrimSpace(c.Name),
		Weight:   SanitizeWeight(c.Weight),
		Color:    c.Color,
		Children: make([]Category, len(c.Children)),
	}
	for i, child := range c.Children {
		if child.Color == "" {
			child.Color = c.Color
		}
		out.Children[i] = child.Normalize()
	}
	return out
}

// NormalizeAll applies [Category.Normalize] to every category.
// The result is never nil.
func NormalizeAll(cats []Category) []Category {
	out := make([]Category, len(cats))
	for i, c := range cats {
		out[i] = c.Normalize()
	}
	return out
}

// SanitizeWeight maps negative, NaN and infinite weights to 0.
func SanitizeWeight(w float64) float64 {
	if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
		return 0
	}
	return w
}

// ParseWeight converts a percentage string such as "53%" or "12.5" to a
// number. Malformed, empty and negative inputs yield 0.
func ParseWeight(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return 0
	}
	return SanitizeWeight(d.InexactFloat64())
}

// FormatWeight renders a weight as a percentage label: 53 → "53%",
// 12.5 → "12.5%". At most one decimal place is kept.
func FormatWeight(w float64) string {
	return decimal.NewFromFloat(SanitizeWeight(w)).Round(1).String() + "%"
}
