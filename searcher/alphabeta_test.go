package searcher

import (
	"errors"
	"testing"
	"time"

	"divercite/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// minimax is the unpruned reference search used to check AlphaBeta's values.
func minimax(u Utility, state game.State, depth int, maximizing bool, remaining time.Duration) float64 {
	actions := state.LegalActions()
	if depth == 0 || state.IsTerminal() || len(actions) == 0 {
		value, err := u.Evaluate(state, remaining)
		if err != nil {
			panic(err)
		}
		return value
	}
	best := MaxValue
	if maximizing {
		best = MinValue
	}
	for _, action := range actions {
		value := minimax(u, action.Next(), depth-1, !maximizing, remaining)
		if maximizing {
			best = max(best, value)
		} else {
			best = min(best, value)
		}
	}
	return best
}

func rootValue(u Utility, state game.State, depth int, remaining time.Duration) float64 {
	best := MinValue
	for _, action := range state.LegalActions() {
		best = max(best, minimax(u, action.Next(), depth-1, false, remaining))
	}
	return best
}

func randomTree(r *rand.Rand, depth int, root bool) *mockState {
	state := &mockState{
		scores: map[string]float64{
			"me":   float64(r.Intn(21) - 10),
			"them": float64(r.Intn(21) - 10),
		},
	}
	if depth == 0 {
		return state
	}
	n := r.Intn(4)
	if root {
		n = 1 + r.Intn(3)
	}
	for i := 0; i < n; i++ {
		state.children = append(state.children, randomTree(r, depth-1, false))
	}
	return state
}

func TestSearchSelectsBestImmediateAction(t *testing.T) {
	t.Run("depth 1 picks the highest successor utility", func(t *testing.T) {
		best := node("best", 5)
		root := node("root", 0, best, node("worst", -2), node("middle", 3))
		s := NewAlphaBeta("me", WithoutUrgency())

		decision, err := s.Search(root, 500*time.Millisecond)

		require.NoError(t, err)
		require.Equal(t, 1, decision.Depth)
		require.Equal(t, actionTo(best), decision.Action)
		require.Equal(t, 5.0, decision.Value)
	})

	t.Run("urgency shifts values but not the choice", func(t *testing.T) {
		best := node("best", 5)
		root := node("root", 0, best, node("worst", -2), node("middle", 3))
		s := NewAlphaBeta("me")

		decision, err := s.Search(root, 500*time.Millisecond)

		require.NoError(t, err)
		require.Equal(t, actionTo(best), decision.Action)
		require.InDelta(t, 5.0+2.5, decision.Value, 1e-9)
	})

	t.Run("ties keep the first action in search order", func(t *testing.T) {
		first, second := node("first", 2), node("second", 2)
		root := node("root", 0, first, second)
		s := NewAlphaBeta("me", WithoutUrgency())

		action, err := s.ComputeAction(root, time.Second)

		require.NoError(t, err)
		require.Equal(t, actionTo(first), action)
	})
}

func TestSearchAssumesOpponentReplies(t *testing.T) {
	// Greedy "bait" scores best immediately but lets the opponent answer with -10
	bait := node("bait", 4, node("punished", -10), node("spared", 6))
	safe := node("safe", 1, node("held", 2), node("kept", 3))
	root := node("root", 0, bait, safe)
	s := NewAlphaBeta("me", WithoutUrgency())

	t.Run("depth 1 is greedy", func(t *testing.T) {
		action, err := s.ComputeAction(root, time.Second)
		require.NoError(t, err)
		require.Equal(t, actionTo(bait), action)
	})

	t.Run("depth 2 avoids the opponent's best reply", func(t *testing.T) {
		decision, err := s.Search(root, 5*time.Second)
		require.NoError(t, err)
		require.Equal(t, 2, decision.Depth)
		require.Equal(t, actionTo(safe), decision.Action)
		require.Equal(t, 2.0, decision.Value)
	})
}

func TestSearchMatchesMinimax(t *testing.T) {
	orderings := []Ordering{Ascending, ByNodeKind, Unordered}
	budgets := []time.Duration{time.Second, 5 * time.Second, 15 * time.Second}

	for seed := uint64(1); seed <= 200; seed++ {
		r := rand.New(rand.NewSource(seed))
		root := randomTree(r, 5, true)

		for _, ordering := range orderings {
			for _, remaining := range budgets {
				pruned := NewAlphaBeta("me", WithOrdering(ordering), WithMetrics())
				full := NewAlphaBeta("me", WithOrdering(ordering), WithMetrics(), WithoutPruning())

				got, err := pruned.Search(root, remaining)
				require.NoError(t, err)
				want, err := full.Search(root, remaining)
				require.NoError(t, err)

				require.Equal(t, rootValue(pruned.Utility(), root, got.Depth, remaining), got.Value,
					"seed=%d ordering=%s remaining=%s", seed, ordering, remaining)
				require.Equal(t, want.Value, got.Value, "Pruning should not change the value")
				require.Equal(t, want.Action, got.Action, "Pruning should not change the action")
				require.LessOrEqual(t, got.Metric.Leaves, want.Metric.Leaves, "Pruning should never add work")
				require.Zero(t, want.Metric.Cutoffs)
			}
		}
	}
}

func TestSearchCutoff(t *testing.T) {
	// root -> a (min) -> x, y (max) -> leaves. Once x is worth 4 to the
	// minimizer, y's first leaf (5) already beats it and y's second leaf is skipped.
	x := node("x", 1, node("x1", 3), node("x2", 4))
	y := node("y", 2, node("y1", 5), node("y2", 6))
	root := node("root", 0, node("a", 0, x, y))

	pruned := NewAlphaBeta("me", WithoutUrgency(), WithMetrics())
	full := NewAlphaBeta("me", WithoutUrgency(), WithMetrics(), WithoutPruning())

	got, err := pruned.Search(root, 15*time.Second)
	require.NoError(t, err)
	want, err := full.Search(root, 15*time.Second)
	require.NoError(t, err)

	require.Equal(t, 3, got.Depth)
	require.Equal(t, 4.0, got.Value)
	require.Equal(t, want.Value, got.Value)
	require.Equal(t, int64(3), got.Metric.Leaves)
	require.Equal(t, int64(4), want.Metric.Leaves)
	require.Less(t, got.Metric.Leaves, want.Metric.Leaves)
	require.Equal(t, int64(1), got.Metric.Cutoffs)
}

func TestSearchIsDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	root := randomTree(r, 4, true)
	s := NewAlphaBeta("me")

	first, err := s.ComputeAction(root, 15*time.Second)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := s.ComputeAction(root, 15*time.Second)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestSearchOnGames(t *testing.T) {
	t.Run("never returns an absent action while actions exist", func(t *testing.T) {
		players := [2]string{"me", "them"}
		searchers := map[string]*AlphaBeta{
			"me":   NewAlphaBeta("me"),
			"them": NewAlphaBeta("them"),
		}
		for seed := uint64(1); seed <= 20; seed++ {
			var state game.Match = game.RandomCoinRow(7, 9, seed, players)
			for !state.IsTerminal() {
				action, err := searchers[state.Player()].ComputeAction(state, 15*time.Second)
				require.NoError(t, err)
				require.NotNil(t, action)
				state = action.Next().(game.Match)
			}
		}
	})

	t.Run("takes the larger end when the rest of the row is even", func(t *testing.T) {
		row := game.NewCoinRow([]int{1, 2, 9}, [2]string{"me", "them"})
		s := NewAlphaBeta("me")

		action, err := s.ComputeAction(row, 15*time.Second)

		require.NoError(t, err)
		require.Equal(t, game.RightEnd, action.(game.Take).Side)
	})
}

func TestSearchWithSingleOpponent(t *testing.T) {
	// Summing opponents prefers "quiet"; scoring only against "a" prefers "loud"
	loud := &mockState{name: "loud", scores: map[string]float64{"me": 3, "a": 0, "b": 4}}
	quiet := &mockState{name: "quiet", scores: map[string]float64{"me": 2, "a": 1, "b": 0}}
	root := &mockState{scores: map[string]float64{"me": 0, "a": 0, "b": 0}, children: []*mockState{loud, quiet}}

	action, err := NewAlphaBeta("me").ComputeAction(root, time.Second)
	require.NoError(t, err)
	require.Equal(t, actionTo(quiet), action)

	action, err = NewAlphaBeta("me", WithOpponent("a")).ComputeAction(root, time.Second)
	require.NoError(t, err)
	require.Equal(t, actionTo(loud), action)
}

func TestSearchErrors(t *testing.T) {
	t.Run("terminal root", func(t *testing.T) {
		_, err := NewAlphaBeta("me").ComputeAction(node("done", 1), time.Second)
		require.True(t, errors.Is(err, ErrNoLegalActions))
	})

	t.Run("non-terminal root without actions", func(t *testing.T) {
		stuck := node("stuck", 1)
		stuck.stuck = true

		_, err := NewAlphaBeta("me").ComputeAction(stuck, time.Second)

		require.True(t, errors.Is(err, ErrNoLegalActions))
	})

	t.Run("acting player missing from the root scores", func(t *testing.T) {
		root := node("root", 0, node("a", 1))

		_, err := NewAlphaBeta("stranger").ComputeAction(root, time.Second)

		require.True(t, errors.Is(err, ErrInconsistentScores))
	})

	t.Run("acting player missing deeper in the tree", func(t *testing.T) {
		broken := &mockState{name: "broken", scores: map[string]float64{"them": 1}}
		root := node("root", 0, node("a", 1, broken))

		_, err := NewAlphaBeta("me").ComputeAction(root, 5*time.Second)

		require.True(t, errors.Is(err, ErrInconsistentScores))
	})

	t.Run("designated opponent missing", func(t *testing.T) {
		root := node("root", 0, node("a", 1))

		_, err := NewAlphaBeta("me", WithOpponent("ghost")).ComputeAction(root, time.Second)

		require.True(t, errors.Is(err, ErrInconsistentScores))
	})
}

func TestSearchStuckNodeIsALeaf(t *testing.T) {
	stuck := node("stuck", 7)
	stuck.stuck = true
	root := node("root", 0, stuck, node("other", 1, node("reply", 0)))

	decision, err := NewAlphaBeta("me", WithoutUrgency()).Search(root, 5*time.Second)

	require.NoError(t, err)
	require.Equal(t, actionTo(stuck), decision.Action)
	require.Equal(t, 7.0, decision.Value)
}

func TestNewAlphaBeta(t *testing.T) {
	t.Run("panics without a player", func(t *testing.T) {
		require.Panics(t, func() { NewAlphaBeta("") })
	})

	t.Run("panics when playing against itself", func(t *testing.T) {
		require.Panics(t, func() { NewAlphaBeta("me", WithOpponent("me")) })
	})

	t.Run("panics on an invalid depth policy", func(t *testing.T) {
		require.Panics(t, func() { NewAlphaBeta("me", WithDepthPolicy(DepthPolicy{{Above: 0, Depth: -1}})) })
	})

	t.Run("keeps the default for an empty depth policy", func(t *testing.T) {
		s := NewAlphaBeta("me", WithDepthPolicy(nil))
		require.Equal(t, DefaultDepthPolicy(), s.depth)
	})

	t.Run("applies a custom depth policy", func(t *testing.T) {
		policy := DepthPolicy{{Above: 0, Depth: 4}}
		s := NewAlphaBeta("me", WithDepthPolicy(policy))
		require.Equal(t, 4, s.depth.Select(time.Millisecond))
	})

	t.Run("reweights urgency", func(t *testing.T) {
		s := NewAlphaBeta("me", WithUrgencyWeight(2))
		require.InDelta(t, 100.0, s.Utility().Urgency(10*time.Second), 1e-9)
	})
}
