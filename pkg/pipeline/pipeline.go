// Package pipeline provides the dataset → layout → render pipeline for
// bubble charts.
//
// The CLI and the API server both go through this package so that defaults,
// validation and caching behave the same at every entry point.
//
// # Stages
//
//  1. Load: read a dataset file or a built-in sample ([LoadDataset])
//  2. Layout: size and place the selected tier ([GenerateLayout])
//  3. Render: produce SVG, PNG, PDF or JSON artifacts ([RenderFromLayout])
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	sel := 0
//	result, err := runner.Execute(ctx, ds, pipeline.Options{
//	    Select:  &sel,
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bubblechart/pkg/bubble"
	"github.com/matzehuels/bubblechart/pkg/cache"
	"github.com/matzehuels/bubblechart/pkg/chart"
	"github.com/matzehuels/bubblechart/pkg/errors"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultVizType is the default visualization type.
	DefaultVizType = chart.VizTypeBubbles

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidVizTypes is the set of supported visualization types.
var ValidVizTypes = map[string]bool{
	chart.VizTypeBubbles: true,
	chart.VizTypeTree:    true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests. Zero numeric
// fields take the package defaults.
type Options struct {
	// Layout options
	Tier               string  `json:"tier,omitempty"`
	Select             *int    `json:"select,omitempty"`
	Width              float64 `json:"width,omitempty"`
	Height             float64 `json:"height,omitempty"`
	Padding            float64 `json:"padding,omitempty"`
	CenterYOffset      float64 `json:"center_y_offset,omitempty"`
	ChildCenterYOffset float64 `json:"child_center_y_offset,omitempty"`
	ParentMinSize      float64 `json:"parent_min_size,omitempty"`
	ParentMaxSize      float64 `json:"parent_max_size,omitempty"`
	ChildMinSize       float64 `json:"child_min_size,omitempty"`
	ChildMaxSize       float64 `json:"child_max_size,omitempty"`
	ScaleFactor        float64 `json:"scale_factor,omitempty"`
	Buffer             float64 `json:"buffer,omitempty"`
	GridStep           float64 `json:"grid_step,omitempty"`
	MaxSamples         int     `json:"max_samples,omitempty"`

	// Render options
	VizType    string   `json:"viz_type,omitempty"`
	Formats    []string `json:"formats,omitempty"`
	ShowLabels bool     `json:"show_labels,omitempty"`
	Title      string   `json:"title,omitempty"`
	Background string   `json:"background,omitempty"`
	Scale      float64  `json:"scale,omitempty"`

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DatasetHash is the content hash of the input dataset.
	DatasetHash string

	// Layout is the computed drill-down view.
	Layout chart.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and placement information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Bubbles    int
	Fallbacks  int
	Overlaps   int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	if !ValidVizTypes[vizType] {
		return errors.New(errors.ErrCodeInvalidVizType,
			"invalid viz_type: %q (must be one of: bubbles, tree)", vizType)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults fills zero layout fields. Tier is derived from Select
// when unset.
func (o *Options) SetLayoutDefaults() {
	search := bubble.DefaultSearch()
	setDefault(&o.Width, bubble.DefaultWidth)
	setDefault(&o.Height, bubble.DefaultHeight)
	setDefault(&o.Padding, bubble.DefaultPadding)
	setDefault(&o.ChildCenterYOffset, bubble.DefaultChildCenterOffset)
	setDefault(&o.ParentMinSize, bubble.DefaultParentMinSize)
	setDefault(&o.ParentMaxSize, bubble.DefaultParentMaxSize)
	setDefault(&o.ChildMinSize, bubble.DefaultChildMinSize)
	setDefault(&o.ChildMaxSize, bubble.DefaultChildMaxSize)
	setDefault(&o.ScaleFactor, bubble.DefaultScaleFactor)
	setDefault(&o.Buffer, search.Buffer)
	setDefault(&o.GridStep, search.GridStep)
	if o.MaxSamples == 0 {
		o.MaxSamples = search.MaxSamples
	}
	if o.Tier == "" {
		o.Tier = bubble.TierParent.String()
		if o.Select != nil {
			o.Tier = bubble.TierChild.String()
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

func setDefault(v *float64, def float64) {
	if *v == 0 {
		*v = def
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()

	tier, err := bubble.ParseTier(o.Tier)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidTier, err, "layout options")
	}
	o.Tier = tier.String()
	if tier == bubble.TierChild && o.Select == nil {
		return errors.New(errors.ErrCodeInvalidTier, "child tier requires a selected parent")
	}
	if tier == bubble.TierParent && o.Select != nil {
		return errors.New(errors.ErrCodeInvalidTier, "parent tier cannot have a selection")
	}

	for _, f := range []struct {
		name string
		v    float64
	}{
		{"width", o.Width}, {"height", o.Height}, {"padding", o.Padding},
		{"center_y_offset", o.CenterYOffset}, {"child_center_y_offset", o.ChildCenterYOffset},
		{"parent_min_size", o.ParentMinSize}, {"parent_max_size", o.ParentMaxSize},
		{"child_min_size", o.ChildMinSize}, {"child_max_size", o.ChildMaxSize},
		{"scale_factor", o.ScaleFactor}, {"buffer", o.Buffer}, {"grid_step", o.GridStep},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return errors.New(errors.ErrCodeInvalidInput, "%s must be a finite number, got %g", f.name, f.v)
		}
	}
	if o.Width < 0 || o.Height < 0 || o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidInput,
			"canvas dimensions must be positive, got %gx%g padding %g", o.Width, o.Height, o.Padding)
	}
	if 2*o.Padding >= o.Width || 2*o.Padding >= o.Height {
		return errors.New(errors.ErrCodeInvalidInput,
			"padding %g leaves no room on a %gx%g canvas", o.Padding, o.Width, o.Height)
	}
	if o.ParentMinSize > o.ParentMaxSize || o.ChildMinSize > o.ChildMaxSize {
		return errors.New(errors.ErrCodeInvalidInput, "minimum bubble size exceeds maximum")
	}
	if o.MaxSamples < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max_samples must not be negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must not be negative")
	}
	return nil
}

// ValidateAndSetDefaults prepares options for the full pipeline.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// IsTree reports whether the category tree is rendered instead of bubbles.
func (o *Options) IsTree() bool {
	return o.VizType == chart.VizTypeTree
}

// BubbleConfig builds the layout configuration for both tiers. Call after
// SetLayoutDefaults.
func (o *Options) BubbleConfig() bubble.Config {
	canvas := bubble.Canvas{
		Width:         o.Width,
		Height:        o.Height,
		Padding:       o.Padding,
		CenterYOffset: o.CenterYOffset,
	}
	child := canvas
	child.CenterYOffset = o.ChildCenterYOffset

	search := bubble.DefaultSearch()
	search.Buffer = o.Buffer
	search.GridStep = o.GridStep
	search.MaxSamples = o.MaxSamples

	return bubble.Config{
		Parent: bubble.TierConfig{
			Size:   bubble.SizeConfig{MinSize: o.ParentMinSize, MaxSize: o.ParentMaxSize, ScaleFactor: o.ScaleFactor},
			Canvas: canvas,
		},
		Child: bubble.TierConfig{
			Size:   bubble.SizeConfig{MinSize: o.ChildMinSize, MaxSize: o.ChildMaxSize, ScaleFactor: o.ScaleFactor},
			Canvas: child,
		},
		Search: search,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Select: o.Select, Config: o.BubbleConfig()}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		VizType:    o.VizType,
		Format:     format,
		Labels:     o.ShowLabels,
		Title:      o.Title,
		Background: o.Background,
	}
	if format == FormatPNG {
		opts.Scale = o.Scale
	}
	return opts
}
