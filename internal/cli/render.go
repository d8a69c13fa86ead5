package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblechart/pkg/pipeline"
)

// renderCommand creates the render command, the shortcut from dataset to
// visual output.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		sel        int
	)
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "render [dataset]",
		Short: "Render a dataset to SVG, PNG, PDF or JSON",
		Long: `Render a dataset to SVG, PNG, PDF or JSON.

Runs layout and visualize in one step. The bubbles type draws the packed
circles of the current drill-down level; the tree type draws the whole
category hierarchy with Graphviz.

PNG and PDF output require rsvg-convert (librsvg).`,
		Example: `  bubblechart render sample:portfolio
  bubblechart render holdings.yaml --select 0 -f svg,png
  bubblechart render holdings.json -t tree -o tree.svg`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDataset,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := pipeline.ValidateVizType(opts.VizType); err != nil {
				return err
			}
			if err := c.applyLayoutConfig(cmd, &opts); err != nil {
				return err
			}
			opts.Select = selectFlag(sel)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().IntVar(&sel, "select", -1, "render the children of the parent at this index")
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", opts.VizType, "visualization type: bubbles (default), tree")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	addRenderFlags(cmd, &opts)
	addLayoutFlags(cmd, &opts)

	return cmd
}

// addRenderFlags registers the drawing flags shared by render and visualize.
func addRenderFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().BoolVar(&opts.ShowLabels, "labels", opts.ShowLabels, "draw weight and name labels")
	cmd.Flags().StringVar(&opts.Title, "title", opts.Title, "chart title")
	cmd.Flags().StringVar(&opts.Background, "background", opts.Background, "background color (default: transparent)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG scale factor")
}

// runRender loads the dataset and runs the full pipeline.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	ds, err := pipeline.LoadDataset(input)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.VizType))
	spinner.Start()

	result, err := runner.Execute(ctx, ds, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if spinner.Cancelled() {
		return ctx.Err()
	}

	return writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    output,
		layout:    result.Layout,
		cacheHit:  result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit,
	})
}
