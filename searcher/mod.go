package searcher

import (
	"errors"
	"math"
)

// Search window bounds. Utilities are expected to stay strictly inside them.
const (
	MaxValue = math.MaxFloat64
	MinValue = -math.MaxFloat64
)

var (
	// ErrNoLegalActions is returned when the root state offers nothing to play.
	ErrNoLegalActions = errors.New("no legal actions")
	// ErrInconsistentScores is returned when a score mapping lacks the acting
	// player or the designated opponent.
	ErrInconsistentScores = errors.New("inconsistent score mapping")
)
