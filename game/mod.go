package game

// Action is bound to the state that generated it. Next must not mutate that state.
type Action interface {
	Next() State
}

// State should be immutable - operations on State always return a new copy
type State interface {
	LegalActions() []Action
	IsTerminal() bool
	// Scores maps player IDs to their current score. Keys are stable across all
	// states reachable from one root.
	Scores() map[string]float64
}

// Match is a State that also knows whose turn it is and who has won. The
// searcher never needs it, only the local engine does.
type Match interface {
	State
	Player() string
	Winner() string
}

// Leader returns the player with the strictly highest score, or "" on a tie.
func Leader(scores map[string]float64) string {
	leader := ""
	best := 0.0
	tied := false
	for player, score := range scores {
		switch {
		case leader == "" || score > best:
			leader, best, tied = player, score, false
		case score == best:
			tied = true
		}
	}
	if tied {
		return ""
	}
	return leader
}
