package searcher

import (
	"fmt"
	"time"

	"divercite/game"

	"golang.org/x/exp/slices"
)

// Aggregation decides how opponents' scores are combined.
type Aggregation int

const (
	SumOpponents   Aggregation = iota // Every other player's score
	SingleOpponent                    // Only the designated opponent
)

func (a Aggregation) String() string {
	switch a {
	case SumOpponents:
		return "sum"
	case SingleOpponent:
		return "single"
	default:
		return fmt.Sprintf("Aggregation(%d)", int(a))
	}
}

func ParseAggregation(s string) (Aggregation, error) {
	switch s {
	case "", "sum":
		return SumOpponents, nil
	case "single":
		return SingleOpponent, nil
	default:
		return 0, fmt.Errorf("unknown aggregation %q", s)
	}
}

// UrgencyRate is the bonus per millisecond of remaining time.
const UrgencyRate = 0.05 / 10

// Utility scores states from Player's perspective:
// own score - opponents' score + urgency bonus.
type Utility struct {
	Player        string
	Aggregation   Aggregation
	Opponent      string  // Only used by SingleOpponent
	UrgencyWeight float64 // 0 disables the urgency term
}

func NewUtility(player string) Utility {
	return Utility{Player: player, UrgencyWeight: 1}
}

func (u Utility) Evaluate(state game.State, remaining time.Duration) (float64, error) {
	position, err := u.Position(state.Scores())
	if err != nil {
		return 0, err
	}
	return position + u.Urgency(remaining), nil
}

// Position is the score difference between Player and its opponents.
func (u Utility) Position(scores map[string]float64) (float64, error) {
	own, ok := scores[u.Player]
	if !ok {
		return 0, fmt.Errorf("%w: no score for player %q", ErrInconsistentScores, u.Player)
	}

	if u.Aggregation == SingleOpponent {
		opponent, ok := scores[u.Opponent]
		if !ok {
			return 0, fmt.Errorf("%w: no score for opponent %q", ErrInconsistentScores, u.Opponent)
		}
		return own - opponent, nil
	}

	// Sum in a fixed order so equal positions evaluate to identical floats
	others := make([]string, 0, len(scores))
	for player := range scores {
		if player != u.Player {
			others = append(others, player)
		}
	}
	slices.Sort(others)

	total := 0.0
	for _, player := range others {
		total += scores[player]
	}
	return own - total, nil
}

// Urgency grows with the remaining time. It does not depend on the position.
func (u Utility) Urgency(remaining time.Duration) float64 {
	ms := float64(remaining) / float64(time.Millisecond)
	return ms * UrgencyRate * u.UrgencyWeight
}
