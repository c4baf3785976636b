package searcher

import "divercite/game"

type mockAction struct {
	next *mockState
}

func (m mockAction) Next() game.State {
	return m.next
}

type mockState struct {
	name     string
	scores   map[string]float64
	children []*mockState
	stuck    bool // Non-terminal but without legal actions
}

func (m *mockState) LegalActions() []game.Action {
	actions := make([]game.Action, 0, len(m.children))
	for _, child := range m.children {
		actions = append(actions, mockAction{next: child})
	}
	return actions
}

func (m *mockState) IsTerminal() bool {
	return len(m.children) == 0 && !m.stuck
}

func (m *mockState) Scores() map[string]float64 {
	return m.scores
}

// node builds a two player state where "me" scores own and "them" scores 0.
func node(name string, own float64, children ...*mockState) *mockState {
	return &mockState{
		name:     name,
		scores:   map[string]float64{"me": own, "them": 0},
		children: children,
	}
}

func actionTo(state *mockState) game.Action {
	return mockAction{next: state}
}
