// Package drilldown holds the two-state selection that decides which
// categories a bubble chart shows.
//
// A [Selector] starts in [ViewingParents]. Selecting a parent bubble by its
// source index moves to [ViewingChildren], where that parent's
// subcategories are laid out with the child tier. Back and Reset return to
// the parent view. There is no direct child-to-child transition:
//
//	sel := drilldown.New(categories, bubble.DefaultConfig())
//	if err := sel.Select(b.Index); err != nil {
//	    // errors.ErrCodeInvalidSelection, state unchanged
//	}
//	bubbles := sel.Layout() // child tier
//	sel.Back()
//
// Layout is re-derived on every call from the immutable parent list, so
// returning to the parent view reproduces the original placement exactly.
package drilldown
