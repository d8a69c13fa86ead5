// Package bubble computes bubble chart layouts: weighted categories become
// non-overlapping circles inside a bounded canvas.
//
// # Overview
//
// A layout runs in two stages:
//
//  1. Sizing: each category weight (a percentage) maps to a diameter on a
//     linear ramp from MinSize, clamped at MaxSize. See [SizeConfig].
//  2. Placement: bubbles are sorted largest first. The largest is centered,
//     every other bubble is placed by a spiral search around the canvas
//     center, and a coarse grid scan picks the least-crowded cell when the
//     spiral runs out of samples. See [Place].
//
// Parent and child (drill-down) views use different [TierConfig] values so
// the child view reads as a zoomed-in detail.
//
// # Usage
//
//	bubbles := bubble.Layout(categories, bubble.TierParent, bubble.DefaultConfig())
//	for _, b := range bubbles {
//	    fmt.Println(b.Name, b.Diameter, b.X, b.Y)
//	}
//
// # Guarantees
//
// Every function in this package is pure and safe for concurrent use.
// Placement is deterministic, returns exactly one bubble per input, and never
// fails: a bubble that fits nowhere is still placed at the grid cell with the
// largest clearance, even if that clearance is negative.
//
// Malformed weights (non-numeric, negative, NaN) are treated as 0 and render
// at MinSize. See [ParseWeight].
package bubble
