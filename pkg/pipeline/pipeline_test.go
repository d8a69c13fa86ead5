package pipeline

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/bubblechart/pkg/bubble"
	"github.com/matzehuels/bubblechart/pkg/cache"
	"github.com/matzehuels/bubblechart/pkg/chart"
	"github.com/matzehuels/bubblechart/pkg/errors"
	"github.com/matzehuels/bubblechart/pkg/observability"
)

func intPtr(i int) *int { return &i }

func portfolio(t *testing.T) chart.Dataset {
	t.Helper()
	ds, err := chart.Sample(chart.SamplePortfolio)
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateVizType(t *testing.T) {
	tests := []struct {
		vizType string
		wantErr bool
	}{
		{"bubbles", false},
		{"tree", false},
		{"treemap", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateVizType(tt.vizType)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateVizType(%q) error = %v, wantErr %v", tt.vizType, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidVizType) {
			t.Errorf("ValidateVizType(%q) code = %s", tt.vizType, errors.GetCode(err))
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options should be valid: %v", err)
	}

	if got := opts.BubbleConfig(); !reflect.DeepEqual(got, bubble.DefaultConfig()) {
		t.Errorf("BubbleConfig() =\n%+v\nwant\n%+v", got, bubble.DefaultConfig())
	}
	if opts.Tier != "parent" {
		t.Errorf("Tier = %q, want parent", opts.Tier)
	}
	if opts.VizType != DefaultVizType {
		t.Errorf("VizType = %q, want %q", opts.VizType, DefaultVizType)
	}
	if !reflect.DeepEqual(opts.Formats, []string{FormatSVG}) {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultScale)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	child := Options{Select: intPtr(1)}
	if err := child.ValidateForLayout(); err != nil {
		t.Fatalf("ValidateForLayout: %v", err)
	}
	if child.Tier != "child" {
		t.Errorf("Tier with selection = %q, want child", child.Tier)
	}
}

func TestOptionsOverrides(t *testing.T) {
	opts := Options{Width: 500, Height: 600, ParentMaxSize: 150, Buffer: 2, MaxSamples: 10}
	opts.SetLayoutDefaults()
	cfg := opts.BubbleConfig()

	if cfg.Parent.Canvas.Width != 500 || cfg.Child.Canvas.Height != 600 {
		t.Errorf("canvas = %+v / %+v", cfg.Parent.Canvas, cfg.Child.Canvas)
	}
	if cfg.Parent.Size.MaxSize != 150 || cfg.Child.Size.MaxSize != bubble.DefaultChildMaxSize {
		t.Errorf("sizes = %+v / %+v", cfg.Parent.Size, cfg.Child.Size)
	}
	if cfg.Search.Buffer != 2 || cfg.Search.MaxSamples != 10 {
		t.Errorf("search = %+v", cfg.Search)
	}
	if cfg.Child.Canvas.CenterYOffset != bubble.DefaultChildCenterOffset {
		t.Errorf("child center offset = %v", cfg.Child.Canvas.CenterYOffset)
	}
}

func TestValidateForLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"unknown tier", Options{Tier: "grandchild"}, errors.ErrCodeInvalidTier},
		{"child without selection", Options{Tier: "child"}, errors.ErrCodeInvalidTier},
		{"parent with selection", Options{Tier: "parent", Select: intPtr(0)}, errors.ErrCodeInvalidTier},
		{"negative width", Options{Width: -1}, errors.ErrCodeInvalidInput},
		{"padding too large", Options{Padding: 200}, errors.ErrCodeInvalidInput},
		{"min above max", Options{ParentMinSize: 200}, errors.ErrCodeInvalidInput},
		{"negative samples", Options{MaxSamples: -1}, errors.ErrCodeInvalidInput},
		{"NaN width", Options{Width: math.NaN()}, errors.ErrCodeInvalidInput},
		{"infinite height", Options{Height: math.Inf(1)}, errors.ErrCodeInvalidInput},
		{"infinite padding", Options{Padding: math.Inf(-1)}, errors.ErrCodeInvalidInput},
		{"NaN child max", Options{ChildMaxSize: math.NaN()}, errors.ErrCodeInvalidInput},
		{"infinite grid step", Options{GridStep: math.Inf(1)}, errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestGenerateLayoutRejectsNonFiniteCanvas(t *testing.T) {
	for _, opts := range []Options{{Width: math.NaN()}, {Height: math.Inf(1)}} {
		if _, err := GenerateLayout(portfolio(t), opts); !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("GenerateLayout(%gx%g) error = %v, want INVALID_INPUT", opts.Width, opts.Height, err)
		}
	}
}

func TestGenerateLayout(t *testing.T) {
	ds := portfolio(t)

	parent, err := GenerateLayout(ds, Options{})
	if err != nil {
		t.Fatalf("GenerateLayout: %v", err)
	}
	if parent.Tier != "parent" || len(parent.Bubbles) != len(ds.Categories) {
		t.Errorf("parent layout tier=%q bubbles=%d", parent.Tier, len(parent.Bubbles))
	}
	if parent.Title != ds.Title {
		t.Errorf("Title = %q, want %q", parent.Title, ds.Title)
	}

	child, err := GenerateLayout(ds, Options{Select: intPtr(0)})
	if err != nil {
		t.Fatalf("GenerateLayout(select 0): %v", err)
	}
	if !child.IsChild() || child.Active == nil || *child.Active != 0 {
		t.Errorf("child layout tier=%q active=%v", child.Tier, child.Active)
	}
	if len(child.Bubbles) != len(ds.Categories[0].Children) {
		t.Errorf("child bubbles = %d, want %d", len(child.Bubbles), len(ds.Categories[0].Children))
	}

	if _, err := GenerateLayout(ds, Options{Select: intPtr(99)}); !errors.Is(err, errors.ErrCodeInvalidSelection) {
		t.Errorf("out of range selection error = %v, want INVALID_SELECTION", err)
	}
}

func TestGenerateLayoutDeterministic(t *testing.T) {
	ds := portfolio(t)
	a, _ := GenerateLayout(ds, Options{})
	b, _ := GenerateLayout(ds, Options{})
	if !reflect.DeepEqual(a, b) {
		t.Error("identical inputs produced different layouts")
	}
}

func TestRenderFromLayout(t *testing.T) {
	ds := portfolio(t)
	l, err := GenerateLayout(ds, Options{})
	if err != nil {
		t.Fatal(err)
	}

	artifacts, err := RenderFromLayout(context.Background(), l, ds, Options{
		Formats:    []string{FormatSVG, FormatJSON},
		ShowLabels: true,
		Title:      "Holdings",
	})
	if err != nil {
		t.Fatalf("RenderFromLayout: %v", err)
	}

	svg := string(artifacts[FormatSVG])
	if got := strings.Count(svg, "<circle"); got != len(l.Bubbles) {
		t.Errorf("circles = %d, want %d", got, len(l.Bubbles))
	}
	if !strings.Contains(svg, ">Holdings</text>") {
		t.Error("missing title")
	}

	back, err := chart.UnmarshalLayout(artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if !reflect.DeepEqual(back, l) {
		t.Error("json artifact does not round-trip the layout")
	}

	if _, err := RenderFromLayout(context.Background(), l, ds, Options{VizType: "pie"}); !errors.Is(err, errors.ErrCodeInvalidVizType) {
		t.Errorf("bad viz type error = %v", err)
	}
}

func TestRenderFromLayoutData(t *testing.T) {
	ds := portfolio(t)
	l, _ := GenerateLayout(ds, Options{})
	data, _ := chart.MarshalLayout(l)

	artifacts, err := RenderFromLayoutData(context.Background(), data, ds, Options{})
	if err != nil {
		t.Fatalf("RenderFromLayoutData: %v", err)
	}
	if !strings.HasPrefix(string(artifacts[FormatSVG]), "<svg") {
		t.Error("expected svg output")
	}

	if _, err := RenderFromLayoutData(context.Background(), []byte("{"), ds, Options{}); err == nil {
		t.Error("malformed layout should fail")
	}
}

func TestRenderTree(t *testing.T) {
	ds := portfolio(t)
	l, _ := GenerateLayout(ds, Options{Select: intPtr(1)})

	artifacts, err := RenderFromLayout(context.Background(), l, ds, Options{
		VizType:    chart.VizTypeTree,
		Formats:    []string{FormatSVG},
		ShowLabels: true,
	})
	if err != nil {
		t.Fatalf("RenderFromLayout(tree): %v", err)
	}
	svg := string(artifacts[FormatSVG])
	if !strings.Contains(svg, "<svg") || !strings.Contains(svg, "Technology") {
		t.Errorf("tree svg missing content: %.200s", svg)
	}
}

func TestRunnerCaching(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	ds := portfolio(t)
	opts := Options{Select: intPtr(0), Formats: []string{FormatSVG, FormatJSON}}

	first, err := runner.Execute(ctx, ds, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss: %+v", first.CacheInfo)
	}
	if first.Stats.Bubbles != len(ds.Categories[0].Children) {
		t.Errorf("Stats.Bubbles = %d", first.Stats.Bubbles)
	}
	if first.DatasetHash == "" {
		t.Error("DatasetHash not set")
	}

	second, err := runner.Execute(ctx, ds, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit: %+v", second.CacheInfo)
	}
	if !reflect.DeepEqual(first.Layout, second.Layout) {
		t.Error("cached layout differs")
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached svg differs")
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, ds, opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh should bypass the cache: %+v", third.CacheInfo)
	}

	other := Options{Select: intPtr(1), Formats: []string{FormatSVG}}
	if res, _ := runner.Execute(ctx, ds, other); res.CacheInfo.LayoutHit {
		t.Error("different selection must not hit the cache")
	}
}

func TestDatasetHashNormalizes(t *testing.T) {
	a := chart.Dataset{Categories: []chart.CategoryDoc{{Name: "A", Weight: "53%"}}}
	b := chart.Dataset{Categories: []chart.CategoryDoc{{Name: "A", Weight: chart.Weight(53)}}}
	c := chart.Dataset{Categories: []chart.CategoryDoc{{Name: "A", Weight: "54"}}}

	ha, _ := DatasetHash(a)
	hb, _ := DatasetHash(b)
	hc, _ := DatasetHash(c)
	if ha != hb {
		t.Error("equivalent weights should hash alike")
	}
	if ha == hc {
		t.Error("different weights should hash differently")
	}
}

type countingLayoutHooks struct {
	observability.NoopLayoutHooks
	starts, completes int
}

func (h *countingLayoutHooks) OnLayoutStart(context.Context, string, int) { h.starts++ }
func (h *countingLayoutHooks) OnLayoutComplete(context.Context, string, int, int, time.Duration, error) {
	h.completes++
}

func TestRunnerEmitsLayoutHooks(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	hooks := &countingLayoutHooks{}
	observability.SetLayoutHooks(hooks)

	runner := NewRunner(nil, nil, nil)
	if _, err := runner.Layout(context.Background(), portfolio(t), Options{}); err != nil {
		t.Fatal(err)
	}
	if hooks.starts != 1 || hooks.completes != 1 {
		t.Errorf("hooks called start=%d complete=%d, want 1/1", hooks.starts, hooks.completes)
	}
}

func TestLoadDataset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.json")
	if err := os.WriteFile(path, []byte(`{"title": "File", "categories": [{"name": "A", "weight": 10}]}`), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		ref   string
		title string
		code  errors.Code
	}{
		{path, "File", ""},
		{"sample:portfolio", "Portfolio", ""},
		{"sold", "", ""},
		{"sample:nope", "", errors.ErrCodeNotFound},
		{filepath.Join(dir, "missing.json"), "", errors.ErrCodeFileNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			ds, err := LoadDataset(tt.ref)
			if tt.code != "" {
				if !errors.Is(err, tt.code) {
					t.Errorf("error = %v, want %s", err, tt.code)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadDataset: %v", err)
			}
			if tt.title != "" && ds.Title != tt.title {
				t.Errorf("Title = %q, want %q", ds.Title, tt.title)
			}
			if len(ds.Categories) == 0 {
				t.Error("no categories loaded")
			}
		})
	}
}
