package search

import (
	"github.com/nurye/shop/internal/catalog"
)

// Phase is the controller's position in the query pipeline.
type Phase int

const (
	Idle Phase = iota
	Debouncing
	Fetching
	Settled
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Debouncing:
		return "debouncing"
	case Fetching:
		return "fetching"
	case Settled:
		return "settled"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of the controller. Selected is -1 when nothing is
// highlighted and otherwise indexes Results.
type State struct {
	Input    string
	Results  []catalog.Suggestion
	Selected int
	Phase    Phase
	Open     bool
	// Version increases with every change and lets receivers drop
	// snapshots that arrive out of order.
	Version uint64
}

// Loading reports whether a query is pending or in flight.
func (s State) Loading() bool {
	return s.Phase == Debouncing || s.Phase == Fetching
}

// Highlighted returns the selected suggestion.
func (s State) Highlighted() (catalog.Suggestion, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Results) {
		return catalog.Suggestion{}, false
	}
	return s.Results[s.Selected], true
}

func (s State) clone() State {
	if len(s.Results) > 0 {
		dup := make([]catalog.Suggestion, len(s.Results))
		copy(dup, s.Results)
		s.Results = dup
	}
	return s
}
