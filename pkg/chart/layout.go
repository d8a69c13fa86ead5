package chart

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/bubblechart/pkg/bubble"
	"github.com/matzehuels/bubblechart/pkg/drilldown"
	"github.com/matzehuels/bubblechart/pkg/errors"
)

// Visualization types.
const (
	VizTypeBubbles = "bubbles"
	VizTypeTree    = "tree"
)

// =============================================================================
// Layout - Positioned Bubble Document
// =============================================================================

// Layout is the serialization format for one computed drill-down view.
//
// Tier is "parent" or "child". For child layouts Active holds the source
// index of the selected parent and ActiveName its name. Bubbles are in
// placement order; Bubble.Index refers back to the source category, which
// is the value to pass to a selector.
type Layout struct {
	Title         string   `json:"title,omitempty" bson:"title,omitempty"`
	Tier          string   `json:"tier" bson:"tier"`
	Width         float64  `json:"width" bson:"width"`
	Height        float64  `json:"height" bson:"height"`
	Padding       float64  `json:"padding" bson:"padding"`
	CenterYOffset float64  `json:"center_y_offset,omitempty" bson:"center_y_offset,omitempty"`
	Active        *int     `json:"active,omitempty" bson:"active,omitempty"`
	ActiveName    string   `json:"active_name,omitempty" bson:"active_name,omitempty"`
	Bubbles       []Bubble `json:"bubbles" bson:"bubbles"`
}

// Bubble is a positioned circle in a [Layout]. X and Y are the top-left
// corner of its bounding box.
type Bubble struct {
	Index    int     `json:"index" bson:"index"`
	Name     string  `json:"name" bson:"name"`
	Color    string  `json:"color,omitempty" bson:"color,omitempty"`
	Weight   float64 `json:"weight" bson:"weight"`
	Label    string  `json:"label" bson:"label"`
	Diameter float64 `json:"diameter" bson:"diameter"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Fallback bool    `json:"fallback,omitempty" bson:"fallback,omitempty"`
}

// CenterX returns the horizontal center of the bubble.
func (b Bubble) CenterX() float64 { return b.X + b.Diameter/2 }

// CenterY returns the vertical center of the bubble.
func (b Bubble) CenterY() float64 { return b.Y + b.Diameter/2 }

// IsChild reports whether the layout shows subcategories.
func (l *Layout) IsChild() bool { return l.Tier == bubble.TierChild.String() }

// NewLayout converts positioned bubbles on a canvas into a Layout.
func NewLayout(title string, tier bubble.Tier, canvas bubble.Canvas, bubbles []bubble.PositionedBubble) Layout {
	l := Layout{
		Title:         title,
		Tier:          tier.String(),
		Width:         canvas.Width,
		Height:        canvas.Height,
		Padding:       canvas.Padding,
		CenterYOffset: canvas.CenterYOffset,
		Bubbles:       make([]Bubble, len(bubbles)),
	}
	for i, b := range bubbles {
		l.Bubbles[i] = Bubble{
			Index:    b.Index,
			Name:     b.Name,
			Color:    b.Color,
			Weight:   b.Weight,
			Label:    bubble.FormatWeight(b.Weight),
			Diameter: b.Diameter,
			X:        b.X,
			Y:        b.Y,
			Fallback: b.Fallback,
		}
	}
	return l
}

// FromSelector lays out the selector's active item set.
func FromSelector(title string, sel *drilldown.Selector) Layout {
	tier := sel.Tier()
	l := NewLayout(title, tier, sel.Config().Tier(tier).Canvas, sel.Layout())
	if i, ok := sel.Active(); ok {
		l.Active = &i
		if p, ok := sel.Parent(); ok {
			l.ActiveName = p.Name
		}
	}
	return l
}

// Positioned converts the layout back to placement output.
func (l *Layout) Positioned() []bubble.PositionedBubble {
	out := make([]bubble.PositionedBubble, len(l.Bubbles))
	for i, b := range l.Bubbles {
		out[i] = bubble.PositionedBubble{
			Index:    b.Index,
			Name:     b.Name,
			Color:    b.Color,
			Weight:   b.Weight,
			Diameter: b.Diameter,
			X:        b.X,
			Y:        b.Y,
			Fallback: b.Fallback,
		}
	}
	return out
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// An empty tier defaults to parent; unknown tiers and non-positive canvas
// dimensions are rejected.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	tier, err := bubble.ParseTier(l.Tier)
	if err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidTier, err, "layout tier")
	}
	l.Tier = tier.String()

	if l.Width <= 0 || l.Height <= 0 {
		return Layout{}, errors.New(errors.ErrCodeInvalidInput,
			"layout canvas must have positive dimensions, got %gx%g", l.Width, l.Height)
	}
	if l.Bubbles == nil {
		l.Bubbles = []Bubble{}
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
		}
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
