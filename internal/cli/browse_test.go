package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/bubblechart/pkg/bubble"
	"github.com/matzehuels/bubblechart/pkg/chart"
	"github.com/matzehuels/bubblechart/pkg/drilldown"
)

func testBrowseModel(t *testing.T) browseModel {
	t.Helper()
	ds, err := chart.Sample("portfolio")
	if err != nil {
		t.Fatal(err)
	}
	return newBrowseModel(ds.Title, drilldown.New(ds.Normalized(), bubble.DefaultConfig()))
}

func press(m browseModel, keys ...tea.KeyMsg) browseModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(browseModel)
	}
	return m
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyReset = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}}
	keyQuit  = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
)

func TestBrowseStartsOnParents(t *testing.T) {
	m := testBrowseModel(t)

	if m.sel.State() != drilldown.ViewingParents {
		t.Errorf("State = %v, want parents", m.sel.State())
	}
	if len(m.layout.Bubbles) == 0 {
		t.Fatal("parent layout is empty")
	}
	if !strings.Contains(m.View(), m.layout.Bubbles[0].Name) {
		t.Error("view should list the first bubble")
	}
}

func TestBrowseCursorBounds(t *testing.T) {
	m := testBrowseModel(t)

	m = press(m, keyUp)
	if m.cursor != 0 {
		t.Errorf("cursor = %d after up at top, want 0", m.cursor)
	}

	for range len(m.layout.Bubbles) + 3 {
		m = press(m, keyDown)
	}
	if want := len(m.layout.Bubbles) - 1; m.cursor != want {
		t.Errorf("cursor = %d after overshooting down, want %d", m.cursor, want)
	}
}

func TestBrowseDrillInAndBack(t *testing.T) {
	m := testBrowseModel(t)
	m = press(m, keyDown)
	picked := m.layout.Bubbles[1]

	m = press(m, keyEnter)
	if m.sel.State() != drilldown.ViewingChildren {
		t.Fatalf("State = %v after enter, want children", m.sel.State())
	}
	if m.layout.Active == nil || *m.layout.Active != picked.Index {
		t.Errorf("Active = %v, want %d", m.layout.Active, picked.Index)
	}
	if !strings.Contains(m.View(), picked.Name) {
		t.Error("child view should show the parent name in the breadcrumb")
	}

	m = press(m, keyEnter)
	if m.status == "" {
		t.Error("selecting while viewing children should set a status message")
	}
	if m.sel.State() != drilldown.ViewingChildren {
		t.Error("failed select should leave children shown")
	}

	m = press(m, keyEsc)
	if m.sel.State() != drilldown.ViewingParents {
		t.Fatalf("State = %v after back, want parents", m.sel.State())
	}
	if m.cursor != 1 {
		t.Errorf("cursor = %d after back, want 1 (the previously opened parent)", m.cursor)
	}
}

func TestBrowseReset(t *testing.T) {
	m := testBrowseModel(t)
	m = press(m, keyEnter, keyReset)

	if m.sel.State() != drilldown.ViewingParents {
		t.Errorf("State = %v after reset, want parents", m.sel.State())
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d after reset, want 0", m.cursor)
	}
}

func TestBrowseQuit(t *testing.T) {
	m := testBrowseModel(t)
	_, cmd := m.Update(keyQuit)
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
