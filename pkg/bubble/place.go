package bubble

import (
	"cmp"
	"math"
	"slices"
)

// Canvas is the bounded drawing area bubbles are placed into.
// CenterYOffset shifts the placement center upward.
type Canvas struct {
	Width         float64 `json:"width" mapstructure:"width"`
	Height        float64 `json:"height" mapstructure:"height"`
	Padding       float64 `json:"padding" mapstructure:"padding"`
	CenterYOffset float64 `json:"center_y_offset" mapstructure:"center_y_offset"`
}

// Center returns the point the spiral search revolves around.
func (c Canvas) Center() (x, y float64) {
	return c.Width / 2, c.Height/2 - c.CenterYOffset
}

// contains reports whether a circle of diameter d with top-left (x, y) lies
// entirely within the padded canvas.
func (c Canvas) contains(x, y, d float64) bool {
	return x >= c.Padding && x+d <= c.Width-c.Padding &&
		y >= c.Padding && y+d <= c.Height-c.Padding
}

// Search tunes the spiral search and the grid fallback.
type Search struct {
	StartRadius float64 `json:"start_radius" mapstructure:"start_radius"`
	AngleStep   float64 `json:"angle_step" mapstructure:"angle_step"`
	RadiusStep  float64 `json:"radius_step" mapstructure:"radius_step"`
	MaxSamples  int     `json:"max_samples" mapstructure:"max_samples"`
	Buffer      float64 `json:"buffer" mapstructure:"buffer"`
	GridStep    float64 `json:"grid_step" mapstructure:"grid_step"`
}

// DefaultSearch returns the tuning used by [DefaultConfig].
func DefaultSearch() Search {
	return Search{
		StartRadius: 80,
		AngleStep:   math.Pi / 12,
		RadiusStep:  10,
		MaxSamples:  500,
		Buffer:      8,
		GridStep:    20,
	}
}

// withDefaults fills zero fields from [DefaultSearch]. A zero Search is
// replaced entirely.
func (s Search) withDefaults() Search {
	def := DefaultSearch()
	if s == (Search{}) {
		return def
	}
	if s.AngleStep <= 0 {
		s.AngleStep = def.AngleStep
	}
	if s.GridStep <= 0 {
		s.GridStep = def.GridStep
	}
	if s.MaxSamples < 0 {
		s.MaxSamples = 0
	}
	return s
}

// stepsPerTurn is the number of angle samples in one revolution.
func (s Search) stepsPerTurn() int {
	n := int(math.Ceil(2*math.Pi/s.AngleStep - 1e-9))
	return max(n, 1)
}

// Item is a sized bubble waiting to be placed.
type Item struct {
	Index    int
	Name     string
	Color    string
	Weight   float64
	Diameter float64
}

// PositionedBubble is a sized, placed bubble ready for rendering.
// X and Y are the top-left corner of the circle's bounding box.
// Index is the position of the source category in the layout input.
type PositionedBubble struct {
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	Color    string  `json:"color,omitempty"`
	Weight   float64 `json:"weight"`
	Diameter float64 `json:"diameter"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Fallback bool    `json:"fallback,omitempty"`
}

// Radius returns half the diameter.
func (b PositionedBubble) Radius() float64 { return b.Diameter / 2 }

// CenterX returns the horizontal center of the bubble.
func (b PositionedBubble) CenterX() float64 { return b.X + b.Diameter/2 }

// CenterY returns the vertical center of the bubble.
func (b PositionedBubble) CenterY() float64 { return b.Y + b.Diameter/2 }

// Overlaps reports whether the two circles intersect.
func (b PositionedBubble) Overlaps(o PositionedBubble) bool {
	return math.Hypot(b.CenterX()-o.CenterX(), b.CenterY()-o.CenterY()) < b.Radius()+o.Radius()
}

// Place assigns a top-left coordinate to every item. The result is in
// placement order (largest first, stable among equal diameters) and always
// has len(items) entries.
func Place(items []Item, canvas Canvas, search Search) []PositionedBubble {
	search = search.withDefaults()

	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b Item) int {
		return cmp.Compare(b.Diameter, a.Diameter)
	})

	placed := make([]PositionedBubble, 0, len(sorted))
	for i, it := range sorted {
		b := PositionedBubble{
			Index:    it.Index,
			Name:     it.Name,
			Color:    it.Color,
			Weight:   it.Weight,
			Diameter: it.Diameter,
		}
		if i == 0 {
			cx, cy := canvas.Center()
			b.X, b.Y = cx-it.Diameter/2, cy-it.Diameter/2
		} else if x, y, ok := spiral(it.Diameter, placed, canvas, search); ok {
			b.X, b.Y = x, y
		} else {
			b.X, b.Y = gridFallback(it.Diameter, placed, canvas, search)
			b.Fallback = true
		}
		placed = append(placed, b)
	}
	return placed
}

// spiral samples positions around the canvas center at increasing radius
// and returns the first one that is contained and collision-free.
func spiral(d float64, placed []PositionedBubble, canvas Canvas, s Search) (x, y float64, ok bool) {
	cx, cy := canvas.Center()
	turn := s.stepsPerTurn()

	for k := 0; k < s.MaxSamples; k++ {
		angle := float64(k%turn) * s.AngleStep
		radius := s.StartRadius + float64(k/turn)*s.RadiusStep

		x = cx - d/2 + radius*math.Cos(angle)
		y = cy - d/2 + radius*math.Sin(angle)
		if !canvas.contains(x, y, d) {
			continue
		}
		if clearance(x, y, d, placed, s.Buffer) >= 0 {
			return x, y, true
		}
	}
	return 0, 0, false
}

// gridFallback scans a coarse grid over the padded interior and returns the
// cell whose minimum clearance to every placed bubble is largest.
// Negative clearance (overlap) is accepted.
func gridFallback(d float64, placed []PositionedBubble, canvas Canvas, s Search) (x, y float64) {
	cx, cy := canvas.Center()
	xs := gridAxis(canvas.Padding, canvas.Width-canvas.Padding-d, cx-d/2, s.GridStep)
	ys := gridAxis(canvas.Padding, canvas.Height-canvas.Padding-d, cy-d/2, s.GridStep)

	best := math.Inf(-1)
	x, y = xs[0], ys[0]
	for _, gx := range xs {
		for _, gy := range ys {
			if c := clearance(gx, gy, d, placed, s.Buffer); c > best {
				best, x, y = c, gx, gy
			}
		}
	}
	return x, y
}

// maxGridCells bounds one grid axis so a huge canvas cannot stall placement.
const maxGridCells = 1000

// gridAxis returns the sampled coordinates from lo to hi inclusive, at most
// maxGridCells of them. When the range is empty or not finite the bubble
// does not fit on this axis and the single centered coordinate is used.
func gridAxis(lo, hi, centered, step float64) []float64 {
	if !(hi >= lo) || math.IsInf(hi-lo, 0) || math.IsNaN(step) || step <= 0 {
		return []float64{centered}
	}
	if cells := (hi - lo) / step; cells > maxGridCells {
		step = (hi - lo) / maxGridCells
	}
	out := make([]float64, 0, int((hi-lo)/step)+1)
	for v := lo; v <= hi && len(out) <= maxGridCells; v += step {
		out = append(out, v)
	}
	return out
}

// clearance is the smallest signed gap between a candidate circle and the
// placed bubbles, after subtracting the buffer. +Inf when nothing is placed.
func clearance(x, y, d float64, placed []PositionedBubble, buffer float64) float64 {
	cx, cy := x+d/2, y+d/2
	minGap := math.Inf(1)
	for _, p := range placed {
		dist := math.Hypot(cx-p.CenterX(), cy-p.CenterY())
		gap := dist - ((d+p.Diameter)/2 + buffer)
		minGap = min(minGap, gap)
	}
	return minGap
}

// LayoutStats summarizes a placement result.
type LayoutStats struct {
	Count     int
	Fallbacks int
	Overlaps  int
}

// Stats counts bubbles, grid-fallback placements, and overlapping pairs.
func Stats(bubbles []PositionedBubble) LayoutStats {
	s := LayoutStats{Count: len(bubbles)}
	for i, b := range bubbles {
		if b.Fallback {
			s.Fallbacks++
		}
		for _, o := range bubbles[i+1:] {
			if b.Overlaps(o) {
				s.Overlaps++
			}
		}
	}
	return s
}
