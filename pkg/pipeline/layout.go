package pipeline

import (
	"github.com/matzehuels/bubblechart/pkg/chart"
	"github.com/matzehuels/bubblechart/pkg/drilldown"
)

// =============================================================================
// Layout Generation
// =============================================================================

// GenerateLayout computes the drill-down view selected by opts: the parent
// tier when Select is nil, otherwise the children of parent *Select.
func GenerateLayout(ds chart.Dataset, opts Options) (chart.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return chart.Layout{}, err
	}

	sel, err := NewSelector(ds, opts)
	if err != nil {
		return chart.Layout{}, err
	}
	return chart.FromSelector(ds.Title, sel), nil
}

// NewSelector builds a drill-down selector over the dataset using the
// layout configuration in opts, positioned at opts.Select.
func NewSelector(ds chart.Dataset, opts Options) (*drilldown.Selector, error) {
	opts.SetLayoutDefaults()
	sel := drilldown.New(ds.Normalized(), opts.BubbleConfig())
	if opts.Select != nil {
		if err := sel.Select(*opts.Select); err != nil {
			return nil, err
		}
	}
	return sel, nil
}
