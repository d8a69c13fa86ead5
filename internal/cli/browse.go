package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bubblechart/pkg/chart"
	"github.com/matzehuels/bubblechart/pkg/drilldown"
	"github.com/matzehuels/bubblechart/pkg/pipeline"
)

// browseCommand creates the interactive drill-down browser.
func (c *CLI) browseCommand() *cobra.Command {
	opts := pipeline.Options{}
	setCLIDefaults(&opts)

	cmd := &cobra.Command{
		Use:   "browse [dataset]",
		Short: "Explore a dataset's categories interactively",
		Long: `Explore a dataset's categories interactively.

Shows the laid-out parent bubbles as a table. Press enter on a parent to
drill into its subcategories, backspace or esc to go back, r to reset and
q to quit.`,
		Example: `  bubblechart browse sample:portfolio
  bubblechart browse holdings.yaml`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeDataset,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.applyLayoutConfig(cmd, &opts); err != nil {
				return err
			}
			return c.runBrowse(cmd.Context(), args[0], opts)
		},
	}

	addLayoutFlags(cmd, &opts)

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, input string, opts pipeline.Options) error {
	ds, err := pipeline.LoadDataset(input)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", input, err)
	}

	opts.Logger = c.Logger
	sel, err := pipeline.NewSelector(ds, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(newBrowseModel(ds.Title, sel), tea.WithContext(ctx), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}

	if m, ok := final.(browseModel); ok {
		loggerFromContext(ctx).Debug("browse finished", "state", m.sel.State())
	}
	return nil
}

// =============================================================================
// Key Bindings
// =============================================================================

// browseKeyMap defines the browser's keyboard shortcuts.
type browseKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Back   key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

func defaultBrowseKeyMap() browseKeyMap {
	return browseKeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("⏎", "drill in"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace", "esc", "left", "h"),
			key.WithHelp("esc", "back"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k browseKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Back, k.Reset, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k browseKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Select, k.Back, k.Reset}, {k.Quit}}
}

// =============================================================================
// browseModel - Interactive drill-down
// =============================================================================

var (
	browseCrumbStyle  = lipgloss.NewStyle().Foreground(colorMuted)
	browseStatusStyle = lipgloss.NewStyle().Foreground(colorWarn)
)

// browseModel is the bubbletea model wrapping a drilldown.Selector. The
// cursor indexes the layout's bubbles, which are in placement order.
type browseModel struct {
	title  string
	sel    *drilldown.Selector
	layout chart.Layout
	cursor int
	status string
	keys   browseKeyMap
	help   help.Model
}

func newBrowseModel(title string, sel *drilldown.Selector) browseModel {
	m := browseModel{
		title: title,
		sel:   sel,
		keys:  defaultBrowseKeyMap(),
		help:  help.New(),
	}
	m.refresh()
	return m
}

// refresh recomputes the layout after a selector transition.
func (m *browseModel) refresh() {
	m.layout = chart.FromSelector(m.title, m.sel)
	if m.cursor >= len(m.layout.Bubbles) {
		m.cursor = 0
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.status = ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.layout.Bubbles)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			m.drillIn()
		case key.Matches(msg, m.keys.Back):
			if m.sel.Back() {
				m.cursor = m.parentCursor()
				m.refresh()
			}
		case key.Matches(msg, m.keys.Reset):
			m.sel.Reset()
			m.cursor = 0
			m.refresh()
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	}
	return m, nil
}

// drillIn selects the parent under the cursor. Selecting while children
// are shown is reported in the status line and leaves the view unchanged.
func (m *browseModel) drillIn() {
	if len(m.layout.Bubbles) == 0 {
		return
	}
	b := m.layout.Bubbles[m.cursor]
	if err := m.sel.Select(b.Index); err != nil {
		m.status = err.Error()
		return
	}
	m.cursor = 0
	m.refresh()
}

// parentCursor returns the row of the previously active parent once the
// view is back on parents, so the cursor lands where the user left.
func (m browseModel) parentCursor() int {
	if m.layout.Active == nil {
		return 0
	}
	parents := chart.FromSelector(m.title, m.sel)
	for i, b := range parents.Bubbles {
		if b.Index == *m.layout.Active {
			return i
		}
	}
	return 0
}

func (m browseModel) View() string {
	var b strings.Builder

	title := m.title
	if title == "" {
		title = "Categories"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")

	crumb := "all categories"
	if m.layout.ActiveName != "" {
		crumb = "all categories › " + m.layout.ActiveName
	}
	b.WriteString(browseCrumbStyle.Render(crumb))
	b.WriteString("\n\n")

	if len(m.layout.Bubbles) == 0 {
		b.WriteString(StyleDim.Render("  no categories"))
	} else {
		b.WriteString(bubbleTable(m.layout, m.cursor))
	}
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(browseStatusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d] %s", m.cursor+1, len(m.layout.Bubbles), m.sel.State())))
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))

	return b.String()
}
