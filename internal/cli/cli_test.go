package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblechart/pkg/chart"
	"github.com/matzehuels/bubblechart/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG, json", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/holdings.yaml", "data/holdings"},
		{"", "sample:portfolio", "portfolio"},
		{"", "chart.layout.json", "chart.layout"},
		{"out/chart.svg", "holdings.json", "out/chart"},
		{"out/chart", "holdings.json", "out/chart"},
		{"out/chart.txt", "holdings.json", "out/chart.txt"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestSelectFlag(t *testing.T) {
	if selectFlag(-1) != nil {
		t.Error("selectFlag(-1) should be nil")
	}
	if got := selectFlag(2); got == nil || *got != 2 {
		t.Errorf("selectFlag(2) = %v, want 2", got)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"layout", "visualize", "render", "browse", "serve", "samples", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("root command should have a --config flag")
	}
}

// runCLI executes the root command with isolated config and cache dirs.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestLayoutCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "portfolio.layout.json")

	if err := runCLI(t, "layout", "sample:portfolio", "-o", out); err != nil {
		t.Fatalf("layout: %v", err)
	}

	l, err := chart.ReadLayoutFile(out)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if l.Tier != "parent" {
		t.Errorf("Tier = %q, want parent", l.Tier)
	}
	if len(l.Bubbles) == 0 {
		t.Error("layout should contain bubbles")
	}
}

func TestLayoutCommandSelect(t *testing.T) {
	out := filepath.Join(t.TempDir(), "child.layout.json")

	if err := runCLI(t, "layout", "sample:portfolio", "--select", "0", "--no-cache", "-o", out); err != nil {
		t.Fatalf("layout --select: %v", err)
	}

	l, err := chart.ReadLayoutFile(out)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if !l.IsChild() || l.Active == nil || *l.Active != 0 {
		t.Errorf("layout = tier %q active %v, want child of 0", l.Tier, l.Active)
	}
}

func TestLayoutCommandBadSelect(t *testing.T) {
	out := filepath.Join(t.TempDir(), "bad.layout.json")
	if err := runCLI(t, "layout", "sample:portfolio", "--select", "99", "-o", out); err == nil {
		t.Error("selecting a missing parent should fail")
	}
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "chart")

	if err := runCLI(t, "render", "sample:bought", "-f", "svg,json", "-o", base, "--title", "Today"); err != nil {
		t.Fatalf("render: %v", err)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") || !strings.Contains(string(svg), "Today") {
		t.Errorf("svg output missing root element or title")
	}

	data, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	var l chart.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		t.Fatalf("json output is not a layout: %v", err)
	}
}

func TestRenderCommandSelect(t *testing.T) {
	base := filepath.Join(t.TempDir(), "technology")

	if err := runCLI(t, "render", "sample:portfolio", "--select", "0", "--no-cache", "-f", "json", "-o", base+".json"); err != nil {
		t.Fatalf("render --select: %v", err)
	}

	l, err := chart.ReadLayoutFile(base + ".json")
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if !l.IsChild() || l.Active == nil || *l.Active != 0 {
		t.Errorf("layout = tier %q active %v, want child of 0", l.Tier, l.Active)
	}
}

func TestSetCLIDefaultsLeavesTierToSelect(t *testing.T) {
	opts := pipeline.Options{}
	setCLIDefaults(&opts)
	if opts.Tier != "" {
		t.Fatalf("Tier = %q after CLI defaults, want empty", opts.Tier)
	}

	opts.Select = selectFlag(2)
	if err := opts.ValidateForLayout(); err != nil {
		t.Fatalf("ValidateForLayout with a selection: %v", err)
	}
	if opts.Tier != "child" {
		t.Errorf("Tier = %q, want child", opts.Tier)
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	if err := runCLI(t, "render", "sample:bought", "-f", "gif"); err == nil {
		t.Error("render with an invalid format should fail")
	}
}

func TestVisualizeCommand(t *testing.T) {
	dir := t.TempDir()
	layoutPath := filepath.Join(dir, "sold.layout.json")
	if err := runCLI(t, "layout", "sample:sold", "-o", layoutPath); err != nil {
		t.Fatalf("layout: %v", err)
	}

	svgPath := filepath.Join(dir, "sold.svg")
	if err := runCLI(t, "visualize", layoutPath, "-o", svgPath); err != nil {
		t.Fatalf("visualize: %v", err)
	}
	if _, err := os.Stat(svgPath); err != nil {
		t.Errorf("visualize did not write %s: %v", svgPath, err)
	}

	if err := runCLI(t, "visualize", layoutPath, "-t", pipeline.FormatJSON); err == nil {
		t.Error("visualize with an invalid type should fail")
	}
	if err := runCLI(t, "visualize", layoutPath, "-t", chart.VizTypeTree); err == nil {
		t.Error("tree visualization without --dataset should fail")
	}
}

func TestSamplesExport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "portfolio.yaml")
	if err := runCLI(t, "samples", "portfolio", "-o", out); err != nil {
		t.Fatalf("samples: %v", err)
	}

	ds, err := chart.ReadDatasetFile(out)
	if err != nil {
		t.Fatalf("ReadDatasetFile: %v", err)
	}
	want, _ := chart.Sample("portfolio")
	if ds.Title != want.Title || len(ds.Categories) != len(want.Categories) {
		t.Errorf("exported sample = %q with %d categories, want %q with %d",
			ds.Title, len(ds.Categories), want.Title, len(want.Categories))
	}
}

func TestSamplesUnknown(t *testing.T) {
	if err := runCLI(t, "samples", "nope"); err == nil {
		t.Error("exporting an unknown sample should fail")
	}
}

func TestWriteArtifactsMissingFormat(t *testing.T) {
	err := writeArtifacts(artifactWriteParams{
		artifacts: map[string][]byte{"svg": []byte("<svg/>")},
		formats:   []string{"svg", "png"},
		input:     "x.json",
		output:    filepath.Join(t.TempDir(), "x"),
	})
	if err == nil {
		t.Error("writeArtifacts should fail when a format was not rendered")
	}
}

func TestCompleteDataset(t *testing.T) {
	got, directive := completeDataset(nil, nil, "sample:p")
	if strings.Join(got, ",") != "sample:portfolio" {
		t.Errorf("completeDataset(sample:p) = %v, want [sample:portfolio]", got)
	}
	if directive != cobra.ShellCompDirectiveNoFileComp {
		t.Errorf("directive = %v, want NoFileComp", directive)
	}

	got, directive = completeDataset(nil, nil, "data/")
	if directive != cobra.ShellCompDirectiveFilterFileExt {
		t.Errorf("directive = %v, want FilterFileExt for file paths", directive)
	}
	if strings.Join(got, ",") != strings.Join(datasetExts, ",") {
		t.Errorf("completeDataset(data/) = %v, want %v", got, datasetExts)
	}

	if got, _ := completeDataset(nil, []string{"x.json"}, ""); got != nil {
		t.Errorf("second argument should not complete, got %v", got)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 << 20, "5.0 MiB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.n); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	for _, args := range [][]string{
		{"cache", "info"},
		{"cache", "clear", "--expired"},
		{"cache", "clear"},
		{"cache", "path"},
	} {
		if err := runCLI(t, args...); err != nil {
			t.Errorf("%v: %v", args, err)
		}
	}
}
