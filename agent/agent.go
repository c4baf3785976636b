package agent

import (
	"time"

	"divercite/experiments/metrics"
	"divercite/game"
)

type Agent interface {
	// FindMove returns the chosen action and the metrics collected while searching for it
	FindMove(state game.State, remaining time.Duration) (game.Action, metrics.SearchMetric, error)
}
