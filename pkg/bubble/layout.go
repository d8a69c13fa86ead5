package bubble

import (
	"fmt"
	"strings"
)

// Tier selects the parent-level or drill-down configuration.
type Tier int

const (
	TierParent Tier = iota
	TierChild
)

func (t Tier) String() string {
	if t == TierChild {
		return "child"
	}
	return "parent"
}

// ParseTier converts "parent" or "child" (case-insensitive) to a Tier.
func ParseTier(s string) (Tier, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "parent":
		return TierParent, nil
	case "child":
		return TierChild, nil
	}
	return TierParent, fmt.Errorf("invalid tier: %q (must be one of: parent, child)", s)
}

// TierConfig pairs size bounds with the canvas for one tier.
type TierConfig struct {
	Size   SizeConfig `json:"size" mapstructure:"size"`
	Canvas Canvas     `json:"canvas" mapstructure:"canvas"`
}

// Config holds both tiers plus the shared search tuning.
type Config struct {
	Parent TierConfig `json:"parent" mapstructure:"parent"`
	Child  TierConfig `json:"child" mapstructure:"child"`
	Search Search     `json:"search" mapstructure:"search"`
}

// Default canvas and tier values.
const (
	DefaultWidth             = 350.0
	DefaultHeight            = 400.0
	DefaultPadding           = 30.0
	DefaultChildCenterOffset = 80.0

	DefaultParentMinSize = 70.0
	DefaultParentMaxSize = 120.0
	DefaultChildMinSize  = 50.0
	DefaultChildMaxSize  = 100.0
)

// DefaultConfig returns the stock parent/child configuration.
func DefaultConfig() Config {
	canvas := Canvas{Width: DefaultWidth, Height: DefaultHeight, Padding: DefaultPadding}
	child := canvas
	child.CenterYOffset = DefaultChildCenterOffset

	return Config{
		Parent: TierConfig{
			Size:   SizeConfig{MinSize: DefaultParentMinSize, MaxSize: DefaultParentMaxSize, ScaleFactor: DefaultScaleFactor},
			Canvas: canvas,
		},
		Child: TierConfig{
			Size:   SizeConfig{MinSize: DefaultChildMinSize, MaxSize: DefaultChildMaxSize, ScaleFactor: DefaultScaleFactor},
			Canvas: child,
		},
		Search: DefaultSearch(),
	}
}

// Tier returns the configuration for t.
func (c Config) Tier(t Tier) TierConfig {
	if t == TierChild {
		return c.Child
	}
	return c.Parent
}

// Layout sizes and places categories for the given tier. It does not modify
// categories, and the result has one bubble per category in placement order.
func Layout(categories []Category, tier Tier, cfg Config) []PositionedBubble {
	tc := cfg.Tier(tier)
	items := make([]Item, len(categories))
	for i, c := range categories {
		w := SanitizeWeight(c.Weight)
		items[i] = Item{
			Index:    i,
			Name:     c.Name,
			Color:    c.Color,
			Weight:   w,
			Diameter: tc.Size.Size(w),
		}
	}
	return Place(items, tc.Canvas, cfg.Search)
}
