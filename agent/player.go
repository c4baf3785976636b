package agent

import (
	"fmt"
	"time"

	"divercite/experiments/metrics"
	"divercite/game"
	"divercite/searcher"
)

const DefaultName = "MyPlayer"

type Option func(p *Player)

// Player plays one piece type with an alpha-beta searcher. Its ID indexes the
// game's score mapping.
type Player struct {
	ID        string
	PieceType string
	Name      string
	search    *searcher.AlphaBeta
	options   []searcher.Option
}

func WithName(name string) Option {
	return func(p *Player) {
		if name != "" {
			p.Name = name
		}
	}
}

// WithID sets the score key when it differs from the piece type.
func WithID(id string) Option {
	return func(p *Player) {
		if id != "" {
			p.ID = id
		}
	}
}

func WithSearch(options ...searcher.Option) Option {
	return func(p *Player) {
		p.options = append(p.options, options...)
	}
}

func New(pieceType string, options ...Option) *Player {
	p := &Player{ // Default values
		ID:        pieceType,
		PieceType: pieceType,
		Name:      DefaultName,
	}
	for _, option := range options {
		option(p)
	}
	p.search = searcher.NewAlphaBeta(p.ID, append(p.options, searcher.WithMetrics())...)
	return p
}

// ComputeAction returns the best action for this player. The state must not be
// terminal and must have at least one legal action.
func (p *Player) ComputeAction(state game.State, remaining time.Duration) (game.Action, error) {
	action, _, err := p.FindMove(state, remaining)
	return action, err
}

func (p *Player) FindMove(state game.State, remaining time.Duration) (game.Action, metrics.SearchMetric, error) {
	decision, err := p.search.Search(state, remaining)
	if err != nil {
		return nil, metrics.SearchMetric{}, fmt.Errorf("player %s (%s): %w", p.Name, p.ID, err)
	}
	return decision.Action, decision.Metric, nil
}

func (p *Player) String() string {
	return fmt.Sprintf("%s (%s)", p.Name, p.PieceType)
}
