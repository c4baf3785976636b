package engine

import (
	"fmt"
	"time"

	"divercite/agent"
	"divercite/experiments/metrics"
	"divercite/game"

	"github.com/rs/zerolog/log"
)

// Local runs a game in process. Each player has its own clock that only runs
// while its agent is searching.
type Local struct {
	State  game.Match
	Agents map[string]agent.Agent
	Clocks map[string]time.Duration
	now    func() time.Time
}

func LocalEngine(state game.Match, agents map[string]agent.Agent, budget time.Duration) *Local {
	if len(agents) < 2 {
		panic("need at least two players")
	}
	clocks := make(map[string]time.Duration, len(agents))
	for player := range state.Scores() {
		if _, ok := agents[player]; !ok {
			panic(fmt.Sprintf("no agent for player %s", player))
		}
		clocks[player] = budget
	}

	return &Local{
		State:  state,
		Agents: agents,
		Clocks: clocks,
		now:    time.Now,
	}
}

// Run executes the game loop until the game is over.
func (e *Local) Run() (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{
		StartingPlayer: e.State.Player(),
		StartTime:      e.now(),
	}
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("player %s is starting", e.State.Player())

	for step := 1; !e.State.IsTerminal() && step <= MaxMoves; step++ {
		player := e.State.Player()
		remaining := e.Clocks[player]

		began := e.now()
		action, metric, err := e.Agents[player].FindMove(e.State, remaining)
		if err != nil {
			return "", gameMetric, moveMetrics, fmt.Errorf("move %d: %w", step, err)
		}
		e.Clocks[player] = remaining - e.now().Sub(began)

		next, ok := action.Next().(game.Match)
		if !ok {
			return "", gameMetric, moveMetrics, fmt.Errorf("move %d: %v does not lead to a match state", step, action)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			Move:         fmt.Sprint(action),
			SearchMetric: metric,
		})
		log.Info().
			Int("step", step).
			Str("player", player).
			Int("depth", metric.Depth).
			Dur("clock", e.Clocks[player]).
			Msgf("played %v", action)
		if e.Clocks[player] <= 0 {
			log.Warn().Msgf("player %s is out of time, searching at minimum depth", player)
		}

		e.State = next
	}

	if !e.State.IsTerminal() {
		log.Warn().Msgf("stopped after %d moves (no winner yet)", MaxMoves)
	}

	gameMetric.EndTime = e.now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	gameMetric.Scores = e.State.Scores()
	gameMetric.Winner = e.State.Winner()

	log.Info().Msgf("game over after %d moves, winner: %q", gameMetric.TotalMoves, gameMetric.Winner)
	return gameMetric.Winner, gameMetric, moveMetrics, nil
}
