package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblechart/pkg/chart"
)

// samplesCommand lists the built-in datasets or writes one out.
func (c *CLI) samplesCommand() *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "samples [name]",
		Short: "List or export the built-in sample datasets",
		Long: `List or export the built-in sample datasets.

Without arguments, lists the samples. With a name, prints the dataset to
stdout, or writes it to --output with the format taken from the extension.`,
		Example: `  bubblechart samples
  bubblechart samples portfolio -f yaml
  bubblechart samples sold -o sold.toml`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: chart.SampleNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return listSamples()
			}
			return exportSample(args[0], output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.json, .yaml, .yml or .toml)")
	cmd.Flags().StringVarP(&format, "format", "f", chart.FormatJSON, "stdout format: json, yaml, toml")

	return cmd
}

func listSamples() error {
	var rows [][]string
	for _, name := range chart.SampleNames() {
		ds, err := chart.Sample(name)
		if err != nil {
			return err
		}
		children := 0
		for _, cat := range ds.Categories {
			children += len(cat.Children)
		}
		rows = append(rows, []string{name, ds.Title, fmt.Sprintf("%d", len(ds.Categories)), fmt.Sprintf("%d", children)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("Name", "Title", "Parents", "Children").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			if col == 0 {
				return StyleHighlight
			}
			return lipgloss.NewStyle().Foreground(colorMuted)
		})

	fmt.Println(t.Render())
	printNextStep("Try", appName+" browse sample:"+chart.SampleNames()[0])
	return nil
}

func exportSample(name, output, format string) error {
	ds, err := chart.Sample(name)
	if err != nil {
		return err
	}

	if output != "" {
		if err := chart.WriteDatasetFile(ds, output); err != nil {
			return fmt.Errorf("write %s: %w", output, err)
		}
		printSuccess("Wrote sample %s", StyleHighlight.Render(name))
		printFile(output)
		return nil
	}

	data, err := chart.MarshalDataset(ds, strings.ToLower(format))
	if err != nil {
		return err
	}
	out, _ := openOutput("")
	_, err = out.Write(data)
	return err
}
