package cli

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/matzehuels/bubblechart/pkg/chart"
)

func TestWeightBar(t *testing.T) {
	tests := []struct {
		w, heaviest float64
		full        int
	}{
		{53, 53, weightBarMax},
		{0, 53, 0},
		{26.5, 53, weightBarMax / 2},
	}
	for _, tt := range tests {
		bar := weightBar(tt.w, tt.heaviest)
		if n := utf8.RuneCountInString(bar); n != weightBarMax {
			t.Errorf("weightBar(%v, %v) width = %d, want %d", tt.w, tt.heaviest, n, weightBarMax)
		}
		if got := strings.Count(bar, "█"); got != tt.full {
			t.Errorf("weightBar(%v, %v) filled = %d, want %d", tt.w, tt.heaviest, got, tt.full)
		}
	}

	if weightBar(5, 0) != "" {
		t.Error("weightBar with no heaviest weight should be empty")
	}
}

func TestBubbleTable(t *testing.T) {
	l := chart.Layout{
		Tier: "parent",
		Bubbles: []chart.Bubble{
			{Index: 0, Name: "Technology", Weight: 53, Label: "53%", Diameter: 120},
			{Index: 3, Name: "Energy", Weight: 6, Label: "6%", Diameter: 88, Fallback: true},
		},
	}

	out := bubbleTable(l, 1)
	for _, want := range []string{"Category", "Technology", "53%", "Energy " + iconWarning, iconCursor} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}
