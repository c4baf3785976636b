package searcher

import (
	"fmt"
	"time"

	"divercite/experiments/metrics"
	"divercite/game"

	"github.com/rs/zerolog/log"
)

type Option func(s *AlphaBeta)

// Decision is the outcome of one search from the root.
type Decision struct {
	Action game.Action
	Value  float64
	Depth  int
	Metric metrics.SearchMetric
}

// AlphaBeta is a depth-limited minimax search with alpha-beta pruning. The
// player it searches for maximizes; every other ply minimizes. An AlphaBeta is
// not safe for concurrent use.
type AlphaBeta struct {
	utility  Utility
	depth    DepthPolicy
	ordering Ordering
	pruning  bool
	metrics  metrics.Collector
}

// WithDepthPolicy replaces the default policy. An empty policy keeps the
// default; an invalid one panics.
func WithDepthPolicy(policy DepthPolicy) Option {
	return func(s *AlphaBeta) {
		if len(policy) == 0 {
			return
		}
		if err := policy.Validate(); err != nil {
			panic(fmt.Sprintf("invalid depth policy: %v", err))
		}
		s.depth = policy
	}
}

// WithOpponent scores positions against a single designated opponent.
func WithOpponent(opponent string) Option {
	return func(s *AlphaBeta) {
		if opponent != "" {
			s.utility.Aggregation = SingleOpponent
			s.utility.Opponent = opponent
		}
	}
}

func WithUrgencyWeight(weight float64) Option {
	return func(s *AlphaBeta) {
		if weight >= 0 {
			s.utility.UrgencyWeight = weight
		}
	}
}

func WithoutUrgency() Option {
	return func(s *AlphaBeta) {
		s.utility.UrgencyWeight = 0
	}
}

func WithOrdering(ordering Ordering) Option {
	return func(s *AlphaBeta) {
		s.ordering = ordering
	}
}

// WithoutPruning searches every sibling, giving plain minimax.
func WithoutPruning() Option {
	return func(s *AlphaBeta) {
		s.pruning = false
	}
}

func WithMetrics() Option {
	return func(s *AlphaBeta) {
		s.metrics = metrics.NewCollector()
	}
}

func NewAlphaBeta(player string, options ...Option) *AlphaBeta {
	if player == "" {
		panic("player ID must not be empty")
	}
	s := &AlphaBeta{ // Default values
		utility:  NewUtility(player),
		depth:    DefaultDepthPolicy(),
		ordering: Ascending,
		pruning:  true,
		metrics:  metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	if s.utility.Opponent == player {
		panic("opponent must differ from the searching player")
	}
	return s
}

func (s *AlphaBeta) Player() string {
	return s.utility.Player
}

func (s *AlphaBeta) Utility() Utility {
	return s.utility
}

// ComputeAction returns the action with the strictly highest minimax value.
func (s *AlphaBeta) ComputeAction(state game.State, remaining time.Duration) (game.Action, error) {
	decision, err := s.Search(state, remaining)
	if err != nil {
		return nil, err
	}
	return decision.Action, nil
}

// Search picks a depth from the remaining time, then evaluates every root
// action as the opponent's reply with a full window. Ties keep the first action
// in search order.
func (s *AlphaBeta) Search(state game.State, remaining time.Duration) (Decision, error) {
	if state.IsTerminal() {
		return Decision{}, fmt.Errorf("%w: state is terminal", ErrNoLegalActions)
	}
	if _, err := s.utility.Position(state.Scores()); err != nil {
		return Decision{}, err
	}
	actions := state.LegalActions()
	if len(actions) == 0 {
		return Decision{}, ErrNoLegalActions
	}

	depth := s.depth.Select(remaining)
	s.metrics.Start(depth)
	s.metrics.AddNode()

	children, err := s.order(actions, true, remaining)
	if err != nil {
		return Decision{}, err
	}

	decision := Decision{Depth: depth}
	for i, child := range children {
		value, err := s.minValue(child.next, depth-1, MinValue, MaxValue, remaining)
		if err != nil {
			return Decision{}, err
		}
		if i == 0 || value > decision.Value {
			decision.Action = child.action
			decision.Value = value
		}
	}
	decision.Metric = s.metrics.Complete()

	log.Debug().
		Str("player", s.utility.Player).
		Int("depth", depth).
		Dur("remaining", remaining).
		Float64("value", decision.Value).
		Int64("leaves", decision.Metric.Leaves).
		Int64("cutoffs", decision.Metric.Cutoffs).
		Msgf("selected %v out of %d actions", decision.Action, len(actions))
	return decision, nil
}

func (s *AlphaBeta) maxValue(state game.State, depth int, alpha, beta float64, remaining time.Duration) (float64, error) {
	children, err := s.expand(state, depth, true, remaining)
	if err != nil {
		return 0, err
	}
	if children == nil {
		return s.leaf(state, remaining)
	}

	best := MinValue
	for i, child := range children {
		value, err := s.minValue(child.next, depth-1, alpha, beta, remaining)
		if err != nil {
			return 0, err
		}
		best = max(best, value)
		alpha = max(alpha, best)
		if s.pruning && best >= beta {
			s.cutoff(i, len(children))
			break
		}
	}
	return best, nil
}

func (s *AlphaBeta) minValue(state game.State, depth int, alpha, beta float64, remaining time.Duration) (float64, error) {
	children, err := s.expand(state, depth, false, remaining)
	if err != nil {
		return 0, err
	}
	if children == nil {
		return s.leaf(state, remaining)
	}

	best := MaxValue
	for i, child := range children {
		value, err := s.maxValue(child.next, depth-1, alpha, beta, remaining)
		if err != nil {
			return 0, err
		}
		best = min(best, value)
		beta = min(beta, best)
		if s.pruning && best <= alpha {
			s.cutoff(i, len(children))
			break
		}
	}
	return best, nil
}

// expand returns the ordered successors of state, or nil when state is a leaf
// at this depth. A non-terminal state without actions is treated as a leaf.
func (s *AlphaBeta) expand(state game.State, depth int, maximizing bool, remaining time.Duration) ([]candidate, error) {
	if depth <= 0 || state.IsTerminal() {
		return nil, nil
	}
	actions := state.LegalActions()
	if len(actions) == 0 {
		return nil, nil
	}
	s.metrics.AddNode()
	return s.order(actions, maximizing, remaining)
}

func (s *AlphaBeta) leaf(state game.State, remaining time.Duration) (float64, error) {
	s.metrics.AddLeaf()
	return s.utility.Evaluate(state, remaining)
}

// cutoff records a cutoff only when siblings were actually skipped.
func (s *AlphaBeta) cutoff(searched, total int) {
	if searched < total-1 {
		s.metrics.AddCutoff()
	}
}
