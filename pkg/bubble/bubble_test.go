package bubble

import (
	"math"
	"reflect"
	"testing"
)

func portfolio() []Category {
	return []Category{
		{Name: "Technology", Weight: 53, Color: "#f89c5e", Children: []Category{
			{Name: "Software", Weight: 50}, {Name: "Hardware", Weight: 30}, {Name: "Cloud Services", Weight: 20},
		}},
		{Name: "Consumer Goods", Weight: 22, Color: "#d9d9d9", Children: []Category{
			{Name: "Food & Beverage", Weight: 45}, {Name: "Clothing", Weight: 35}, {Name: "Electronics", Weight: 20},
		}},
		{Name: "Healthcare", Weight: 14, Color: "#b066f7"},
		{Name: "Infrastructure", Weight: 6, Color: "#e8ed69"},
		{Name: "Sustainability", Weight: 5, Color: "#6dcff6"},
	}
}

func TestSize(t *testing.T) {
	tests := []struct {
		name     string
		weight   float64
		min, max float64
		want     float64
	}{
		{"clamped at max", 53, 70, 120, 120},
		{"linear ramp", 14, 70, 120, 112},
		{"small weight", 5, 70, 120, 85},
		{"zero weight", 0, 70, 120, 70},
		{"negative weight", -5, 70, 120, 70},
		{"NaN weight", math.NaN(), 70, 120, 70},
		{"infinite weight", math.Inf(1), 70, 120, 70},
		{"child tier", 10, 50, 100, 80},
		{"max below min", 50, 100, 80, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Size(tt.weight, tt.min, tt.max); got != tt.want {
				t.Errorf("Size(%v, %v, %v) = %v, want %v", tt.weight, tt.min, tt.max, got, tt.want)
			}
		})
	}
}

func TestSizeConfigScaleFactor(t *testing.T) {
	cfg := SizeConfig{MinSize: 50, MaxSize: 500, ScaleFactor: 100}
	if got := cfg.Size(50); got != 100 {
		t.Errorf("Size(50) = %v, want 100", got)
	}

	zero := SizeConfig{MinSize: 50, MaxSize: 500}
	if got := zero.Size(50); got != 200 {
		t.Errorf("zero ScaleFactor should use default: got %v, want 200", got)
	}
}

func TestSizeMonotonicAndBounded(t *testing.T) {
	cfg := SizeConfig{MinSize: 70, MaxSize: 120, ScaleFactor: DefaultScaleFactor}
	prev := cfg.Size(0)
	for w := 0.0; w <= 150; w += 0.5 {
		got := cfg.Size(w)
		if got < prev {
			t.Fatalf("Size(%v) = %v decreased from %v", w, got, prev)
		}
		if got < cfg.MinSize || got > cfg.MaxSize {
			t.Fatalf("Size(%v) = %v outside [%v, %v]", w, got, cfg.MinSize, cfg.MaxSize)
		}
		prev = got
	}
}

func TestParseWeight(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"53%", 53},
		{"53", 53},
		{" 12.5 % ", 12.5},
		{"100%", 100},
		{"0%", 0},
		{"N/A", 0},
		{"", 0},
		{"%", 0},
		{"-4%", 0},
		{"abc%", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseWeight(tt.in); got != tt.want {
				t.Errorf("ParseWeight(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatWeight(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{53, "53%"},
		{12.5, "12.5%"},
		{12.46, "12.5%"},
		{0, "0%"},
		{-3, "0%"},
	}

	for _, tt := range tests {
		if got := FormatWeight(tt.in); got != tt.want {
			t.Errorf("FormatWeight(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	in := Category{
		Name:   "  Technology ",
		Weight: -1,
		Color:  "#f89c5e",
		Children: []Category{
			{Name: "Software", Weight: 50},
			{Name: "Hardware", Weight: 30, Color: "#000000"},
		},
	}

	got := in.Normalize()

	if got.Name != "Technology" {
		t.Errorf("Name = %q, want trimmed", got.Name)
	}
	if got.Weight != 0 {
		t.Errorf("Weight = %v, want 0", got.Weight)
	}
	if got.Children[0].Color != "#f89c5e" {
		t.Errorf("child without color should inherit parent color, got %q", got.Children[0].Color)
	}
	if got.Children[1].Color != "#000000" {
		t.Errorf("child color should be kept, got %q", got.Children[1].Color)
	}
	if got.Children[0].Children == nil {
		t.Error("leaf children should be an empty slice, not nil")
	}
	if in.Children[0].Color != "" {
		t.Error("Normalize must not modify its receiver")
	}
}

func TestLayoutEmpty(t *testing.T) {
	got := Layout(nil, TierParent, DefaultConfig())
	if got == nil || len(got) != 0 {
		t.Errorf("Layout(nil) = %v, want empty non-nil slice", got)
	}
}

func TestLayoutSingleCentered(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parent = TierConfig{
		Size:   SizeConfig{MinSize: 80, MaxSize: 140, ScaleFactor: 300},
		Canvas: Canvas{Width: 300, Height: 300, Padding: 20},
	}

	got := Layout([]Category{{Name: "Technology", Weight: 53}}, TierParent, cfg)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	b := got[0]
	if b.Diameter != 140 {
		t.Errorf("Diameter = %v, want 140", b.Diameter)
	}
	if b.X != 80 || b.Y != 80 {
		t.Errorf("position = (%v, %v), want (80, 80)", b.X, b.Y)
	}
	if b.Fallback {
		t.Error("single bubble should not use the fallback")
	}
}

func TestLayoutParentTier(t *testing.T) {
	cfg := DefaultConfig()
	cats := portfolio()
	got := Layout(cats, TierParent, cfg)

	if len(got) != len(cats) {
		t.Fatalf("len = %d, want %d", len(got), len(cats))
	}

	first := got[0]
	if first.Index != 0 || first.Name != "Technology" {
		t.Errorf("first placed = %d/%s, want 0/Technology", first.Index, first.Name)
	}
	if first.X != 115 || first.Y != 140 {
		t.Errorf("largest bubble at (%v, %v), want centered (115, 140)", first.X, first.Y)
	}

	seen := make(map[int]bool)
	canvas := cfg.Parent.Canvas
	const eps = 1e-9
	for _, b := range got {
		if seen[b.Index] {
			t.Errorf("index %d placed twice", b.Index)
		}
		seen[b.Index] = true

		if b.X < canvas.Padding-eps || b.X+b.Diameter > canvas.Width-canvas.Padding+eps ||
			b.Y < canvas.Padding-eps || b.Y+b.Diameter > canvas.Height-canvas.Padding+eps {
			t.Errorf("%s at (%v, %v) d=%v escapes the padded canvas", b.Name, b.X, b.Y, b.Diameter)
		}
		if b.Name != cats[b.Index].Name || b.Color != cats[b.Index].Color {
			t.Errorf("bubble %d does not match its source category", b.Index)
		}
	}

	// Two 120px bubbles leave the spiral no room on the default canvas, so
	// Consumer Goods lands on the grid, still clear of Technology. The rest
	// are placed by the spiral.
	s := Stats(got)
	if s.Overlaps != 0 {
		t.Errorf("overlaps = %d, want 0", s.Overlaps)
	}
	if s.Fallbacks != 1 {
		t.Errorf("fallbacks = %d, want 1", s.Fallbacks)
	}
	if b := got[1]; b.Index != 1 || !b.Fallback || b.X != 30 || b.Y != 30 {
		t.Errorf("second placed = index %d fallback %v at (%v, %v), want grid cell (30, 30) for index 1",
			b.Index, b.Fallback, b.X, b.Y)
	}
	for _, b := range got[2:] {
		if b.Fallback {
			t.Errorf("%s should be placed by the spiral", b.Name)
		}
	}
}

func TestLayoutDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	a := Layout(portfolio(), TierParent, cfg)
	b := Layout(portfolio(), TierParent, cfg)
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different layouts")
	}
}

func TestLayoutDoesNotMutateInput(t *testing.T) {
	cats := portfolio()
	cats[2].Weight = -10
	before := portfolio()
	before[2].Weight = -10

	Layout(cats, TierParent, DefaultConfig())

	if !reflect.DeepEqual(cats, before) {
		t.Error("Layout modified its input")
	}
}

func TestLayoutStableTies(t *testing.T) {
	cats := []Category{
		{Name: "a", Weight: 50},
		{Name: "b", Weight: 50},
		{Name: "c", Weight: 50},
	}
	got := Layout(cats, TierParent, DefaultConfig())
	for i, b := range got {
		if b.Index != i {
			t.Errorf("placement %d has index %d, want %d (stable order)", i, b.Index, i)
		}
	}
}

func TestLayoutMalformedWeightAtMinSize(t *testing.T) {
	cats := []Category{{Name: "bad", Weight: ParseWeight("N/A")}}
	got := Layout(cats, TierParent, DefaultConfig())
	if got[0].Diameter != DefaultParentMinSize {
		t.Errorf("Diameter = %v, want %v", got[0].Diameter, DefaultParentMinSize)
	}
}

func TestLayoutCrowdedCanvasUsesFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parent.Canvas = Canvas{Width: 200, Height: 200, Padding: 20}

	cats := make([]Category, 10)
	for i := range cats {
		cats[i] = Category{Name: string(rune('a' + i)), Weight: 100}
	}

	got := Layout(cats, TierParent, cfg)
	if len(got) != 10 {
		t.Fatalf("len = %d, want 10", len(got))
	}

	s := Stats(got)
	if s.Fallbacks == 0 {
		t.Error("expected at least one grid fallback placement")
	}

	seen := make(map[int]bool)
	for _, b := range got {
		seen[b.Index] = true
	}
	if len(seen) != 10 {
		t.Errorf("distinct indices = %d, want 10", len(seen))
	}
}

func TestLayoutOversizedBubbleCentersOnAxis(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Parent = TierConfig{
		Size:   SizeConfig{MinSize: 300, MaxSize: 300},
		Canvas: Canvas{Width: 200, Height: 200, Padding: 20},
	}

	got := Layout([]Category{{Name: "a"}, {Name: "b"}}, TierParent, cfg)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[1].Fallback {
		t.Error("second bubble should use the fallback")
	}
	if got[1].X != -50 || got[1].Y != -50 {
		t.Errorf("fallback position = (%v, %v), want (-50, -50)", got[1].X, got[1].Y)
	}
}

func TestLayoutOversizedBubbleUsesOffsetCenter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Child = TierConfig{
		Size:   SizeConfig{MinSize: 300, MaxSize: 300},
		Canvas: Canvas{Width: 200, Height: 200, Padding: 20, CenterYOffset: 30},
	}

	got := Layout([]Category{{Name: "a"}, {Name: "b"}}, TierChild, cfg)
	if !got[1].Fallback {
		t.Fatal("second bubble should use the fallback")
	}
	// Center (100, 70) minus the 150 radius.
	if got[1].X != -50 || got[1].Y != -80 {
		t.Errorf("fallback position = (%v, %v), want (-50, -80)", got[1].X, got[1].Y)
	}
}

func TestPlaceNonFiniteCanvas(t *testing.T) {
	items := []Item{{Index: 0, Diameter: 100}, {Index: 1, Diameter: 80}, {Index: 2, Diameter: 60}}

	tests := []struct {
		name   string
		canvas Canvas
	}{
		{"NaN width", Canvas{Width: math.NaN(), Height: 400, Padding: 30}},
		{"NaN height", Canvas{Width: 350, Height: math.NaN(), Padding: 30}},
		{"infinite width", Canvas{Width: math.Inf(1), Height: 400, Padding: 30}},
		{"infinite padding", Canvas{Width: 350, Height: 400, Padding: math.Inf(1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Place(items, tt.canvas, DefaultSearch())
			if len(got) != len(items) {
				t.Errorf("len = %d, want %d", len(got), len(items))
			}
		})
	}
}

func TestGridAxis(t *testing.T) {
	tests := []struct {
		name         string
		lo, hi, step float64
		want         int
	}{
		{"regular", 30, 110, 20, 5},
		{"single cell", 30, 30, 20, 1},
		{"does not fit", 30, 10, 20, 1},
		{"NaN bound", 30, math.NaN(), 20, 1},
		{"infinite bound", 30, math.Inf(1), 20, 1},
		{"huge range is capped", 0, 1e12, 20, maxGridCells + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := gridAxis(tt.lo, tt.hi, -1, tt.step); len(got) != tt.want {
				t.Errorf("gridAxis(%v, %v) has %d cells, want %d", tt.lo, tt.hi, len(got), tt.want)
			}
		})
	}
}

func TestPlaceZeroSearchUsesDefaults(t *testing.T) {
	items := []Item{{Index: 0, Diameter: 100}, {Index: 1, Diameter: 60}}
	a := Place(items, Canvas{Width: 350, Height: 400, Padding: 30}, Search{})
	b := Place(items, Canvas{Width: 350, Height: 400, Padding: 30}, DefaultSearch())
	if !reflect.DeepEqual(a, b) {
		t.Error("zero Search should behave like DefaultSearch")
	}
}

func TestChildTierOffset(t *testing.T) {
	cfg := DefaultConfig()
	children := portfolio()[0].Children
	got := Layout(children, TierChild, cfg)

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	// 50% → 50+150, clamped to the child max of 100.
	if got[0].Diameter != DefaultChildMaxSize {
		t.Errorf("Diameter = %v, want %v", got[0].Diameter, DefaultChildMaxSize)
	}
	if got[0].X != 125 || got[0].Y != 70 {
		t.Errorf("first child at (%v, %v), want (125, 70)", got[0].X, got[0].Y)
	}
}

func TestStats(t *testing.T) {
	bubbles := []PositionedBubble{
		{Diameter: 100, X: 0, Y: 0},
		{Diameter: 100, X: 50, Y: 0, Fallback: true},
		{Diameter: 100, X: 300, Y: 300},
	}
	s := Stats(bubbles)
	if s.Count != 3 || s.Fallbacks != 1 || s.Overlaps != 1 {
		t.Errorf("Stats = %+v, want {3 1 1}", s)
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    Tier
		wantErr bool
	}{
		{"", TierParent, false},
		{"parent", TierParent, false},
		{"CHILD", TierChild, false},
		{"grandchild", TierParent, true},
	}
	for _, tt := range tests {
		got, err := ParseTier(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTier(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseTier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
