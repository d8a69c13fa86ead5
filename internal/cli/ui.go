package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/bubblechart/pkg/bubble"
	"github.com/matzehuels/bubblechart/pkg/chart"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorFail   = lipgloss.Color("167") // soft red
	colorCmd    = lipgloss.Color("75")  // light blue
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	// StyleTitle renders chart titles and headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleHighlight renders names and addresses inline.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)

	styleValue   = lipgloss.NewStyle().Foreground(colorText)
	styleLabel   = lipgloss.NewStyle().Foreground(colorMuted).Width(10)
	styleWarning = lipgloss.NewStyle().Foreground(colorWarn)
	styleCommand = lipgloss.NewStyle().Foreground(colorCmd)
	styleHeader  = lipgloss.NewStyle().Foreground(colorMuted).Bold(true)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorOK)
	styleIconError   = lipgloss.NewStyle().Foreground(colorFail)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorMuted)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)

	styleCached = lipgloss.NewStyle().Foreground(colorOK)
	styleFresh  = lipgloss.NewStyle().Foreground(colorMuted)
)

const (
	iconSuccess  = "✓"
	iconError    = "✗"
	iconWarning  = "!"
	iconInfo     = "›"
	iconArrow    = "→"
	iconCursor   = "▸"
	iconSep      = " · "
	weightBarMax = 12
)

// =============================================================================
// Status lines
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleWarning.Render(iconWarning + " " + fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + styleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println("  " + styleLabel.Render(key) + styleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// =============================================================================
// Layout summaries
// =============================================================================

// printLayoutSummary prints which drill-down level a layout shows and on
// what canvas.
func printLayoutSummary(l chart.Layout) {
	if l.Title != "" {
		printKeyValue("Chart", l.Title)
	}
	level := "all categories"
	if l.IsChild() {
		level = l.ActiveName
	}
	printKeyValue("Showing", level)
	printKeyValue("Canvas", fmt.Sprintf("%.0f×%.0f, padding %.0f", l.Width, l.Height, l.Padding))
}

// printStats prints placement counts and the cache status on one line, and
// warns when the grid fallback left bubbles overlapping.
func printStats(l chart.Layout, cached bool) {
	s := bubble.Stats(l.Positioned())

	parts := []string{fmt.Sprintf("%d bubbles", s.Count)}
	if s.Fallbacks > 0 {
		parts = append(parts, fmt.Sprintf("%d on grid", s.Fallbacks))
	}
	status := styleFresh.Render("fresh")
	if cached {
		status = styleCached.Render("cached")
	}
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, iconSep)+iconSep) + status)

	if s.Overlaps > 0 {
		printWarning("%d overlapping pair(s); try a larger canvas or smaller --parent-max/--child-max", s.Overlaps)
	}
}

// =============================================================================
// Tables
// =============================================================================

// weightBar draws w (a percentage) as a bar scaled to the heaviest bubble.
func weightBar(w, heaviest float64) string {
	if heaviest <= 0 {
		return ""
	}
	n := int(w/heaviest*weightBarMax + 0.5)
	return strings.Repeat("█", n) + strings.Repeat("░", weightBarMax-n)
}

// bubbleTable renders a layout as one row per bubble: source index, name in
// the bubble color, weight with a proportional bar, and diameter. The row at
// cursor is highlighted; pass -1 for none.
func bubbleTable(l chart.Layout, cursor int) string {
	heaviest := 0.0
	for _, b := range l.Bubbles {
		heaviest = max(heaviest, b.Weight)
	}

	rows := make([][]string, len(l.Bubbles))
	for i, b := range l.Bubbles {
		marker := " "
		if i == cursor {
			marker = iconCursor
		}
		name := b.Name
		if b.Fallback {
			name += " " + iconWarning
		}
		rows[i] = []string{
			marker,
			fmt.Sprintf("%d", b.Index),
			name,
			b.Label,
			weightBar(b.Weight, heaviest),
			fmt.Sprintf("%.0f", b.Diameter),
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "#", "Category", "Weight", "", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			style := lipgloss.NewStyle()
			if row >= len(l.Bubbles) {
				return style
			}
			switch col {
			case 2, 4:
				if c := l.Bubbles[row].Color; c != "" {
					style = style.Foreground(lipgloss.Color(c))
				}
			case 3, 5:
				style = style.Foreground(colorMuted)
			}
			if row == cursor {
				style = style.Bold(true)
			}
			return style
		}).
		Render()
}
