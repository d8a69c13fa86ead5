package drilldown

import (
	"sync"

	"github.com/matzehuels/bubblechart/pkg/bubble"
	"github.com/matzehuels/bubblechart/pkg/errors"
)

// None is the active index while parents are shown.
const None = -1

// State is the drill-down position of a [Selector].
type State int

const (
	ViewingParents State = iota
	ViewingChildren
)

func (s State) String() string {
	if s == ViewingChildren {
		return "children"
	}
	return "parents"
}

// Selector swaps the active item set between the parent categories and the
// children of one selected parent. The parent list is normalized once and
// never modified. All methods are safe for concurrent use; competing
// mutations resolve last-write-wins.
type Selector struct {
	mu      sync.Mutex
	parents []bubble.Category
	cfg     bubble.Config
	active  int
}

// New returns a Selector viewing parents.
func New(parents []bubble.Category, cfg bubble.Config) *Selector {
	return &Selector{
		parents: bubble.NormalizeAll(parents),
		cfg:     cfg,
		active:  None,
	}
}

// Select drills into parents[index]. It fails with INVALID_SELECTION when
// children are already shown or index is out of range, leaving the state
// unchanged.
func (s *Selector) Select(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != None {
		return errors.New(errors.ErrCodeInvalidSelection,
			"cannot select %d while viewing children of %q", index, s.parents[s.active].Name)
	}
	if index < 0 || index >= len(s.parents) {
		return errors.New(errors.ErrCodeInvalidSelection,
			"selection %d out of range [0, %d)", index, len(s.parents))
	}
	s.active = index
	return nil
}

// Back returns to the parent view. It reports false, and does nothing,
// when parents are already shown.
func (s *Selector) Back() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active == None {
		return false
	}
	s.active = None
	return true
}

// Reset forces the parent view.
func (s *Selector) Reset() {
	s.mu.Lock()
	s.active = None
	s.mu.Unlock()
}

// Restore sets the active index from a persisted value. [None] restores the
// parent view; any other value must be a valid parent index.
func (s *Selector) Restore(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index != None && (index < 0 || index >= len(s.parents)) {
		return errors.New(errors.ErrCodeInvalidSelection,
			"restored selection %d out of range [0, %d)", index, len(s.parents))
	}
	s.active = index
	return nil
}

// State reports whether parents or children are shown.
func (s *Selector) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Selector) state() State {
	if s.active == None {
		return ViewingParents
	}
	return ViewingChildren
}

// Active returns the selected parent index, or (None, false).
func (s *Selector) Active() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active, s.active != None
}

// Parents returns a copy of the normalized parent list.
func (s *Selector) Parents() []bubble.Category {
	return bubble.NormalizeAll(s.parents)
}

// Parent returns the selected parent category.
func (s *Selector) Parent() (bubble.Category, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == None {
		return bubble.Category{}, false
	}
	return s.parents[s.active].Normalize(), true
}

// Config returns the layout configuration.
func (s *Selector) Config() bubble.Config { return s.cfg }

// Items returns a copy of the active item set: the parents, or the children
// of the selected parent with inherited colors.
func (s *Selector) Items() []bubble.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, _ := s.snapshot()
	return items
}

// Tier returns the tier the active item set is laid out with.
func (s *Selector) Tier() bubble.Tier {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, tier := s.snapshot()
	return tier
}

// Layout sizes and places the active item set. It is recomputed on every
// call.
func (s *Selector) Layout() []bubble.PositionedBubble {
	s.mu.Lock()
	items, tier := s.snapshot()
	s.mu.Unlock()
	return bubble.Layout(items, tier, s.cfg)
}

func (s *Selector) snapshot() ([]bubble.Category, bubble.Tier) {
	if s.active == None {
		return bubble.NormalizeAll(s.parents), bubble.TierParent
	}
	return bubble.NormalizeAll(s.parents[s.active].Children), bubble.TierChild
}
