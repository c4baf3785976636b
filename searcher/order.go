package searcher

import (
	"cmp"
	"fmt"
	"time"

	"divercite/game"

	"golang.org/x/exp/slices"
)

// Ordering decides in which order sibling actions are searched. It only
// changes how much gets pruned, never the value found.
type Ordering int

const (
	Ascending  Ordering = iota // Lowest one-ply utility first, at every node
	ByNodeKind                 // Highest first when maximizing, lowest first when minimizing
	Unordered                  // Enumeration order
)

func (o Ordering) String() string {
	switch o {
	case Ascending:
		return "ascending"
	case ByNodeKind:
		return "node-kind"
	case Unordered:
		return "none"
	default:
		return fmt.Sprintf("Ordering(%d)", int(o))
	}
}

func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case "", "ascending":
		return Ascending, nil
	case "node-kind":
		return ByNodeKind, nil
	case "none":
		return Unordered, nil
	default:
		return 0, fmt.Errorf("unknown ordering %q", s)
	}
}

type candidate struct {
	action   game.Action
	next     game.State
	estimate float64
}

// order generates every successor once and sorts them by their utility.
// The sort is stable so equal estimates keep enumeration order.
func (s *AlphaBeta) order(actions []game.Action, maximizing bool, remaining time.Duration) ([]candidate, error) {
	children := make([]candidate, len(actions))
	for i, action := range actions {
		children[i] = candidate{action: action, next: action.Next()}
	}
	if s.ordering == Unordered {
		return children, nil
	}

	for i := range children {
		estimate, err := s.utility.Evaluate(children[i].next, remaining)
		if err != nil {
			return nil, err
		}
		s.metrics.AddEvaluation()
		children[i].estimate = estimate
	}

	descending := s.ordering == ByNodeKind && maximizing
	slices.SortStableFunc(children, func(a, b candidate) int {
		if descending {
			return cmp.Compare(b.estimate, a.estimate)
		}
		return cmp.Compare(a.estimate, b.estimate)
	})
	return children, nil
}
