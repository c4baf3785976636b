package experiments

import (
	"fmt"
	"time"

	"divercite/agent"
	"divercite/engine"
	"divercite/experiments/metrics"
	"divercite/game"
	"divercite/searcher"

	"github.com/rs/zerolog/log"
)

// Setup describes a series of CoinRow games between two agents.
type Setup struct {
	Name    string
	Games   int
	Coins   int
	MaxCoin int
	Seed    uint64 // Game i deals its row from Seed+i
	Agents  [2]metrics.AgentConfig
	OutDir  string // No files are written when empty
}

// Result tallies a finished series.
type Result struct {
	Games []metrics.GameRecord
	Moves []metrics.MoveRecord
	Wins  map[string]int // Per agent name; draws are not counted
}

// Run plays the series, alternating which agent moves first.
func Run(setup Setup) (Result, error) {
	if setup.Agents[0].Name == setup.Agents[1].Name {
		return Result{}, fmt.Errorf("agents must have distinct names, got %q twice", setup.Agents[0].Name)
	}
	result := Result{Wins: map[string]int{}}

	log.Info().Msgf("starting %s experiment with %d games...", setup.Name, setup.Games)

	for i := 0; i < setup.Games; i++ {
		first, second := setup.Agents[0], setup.Agents[1]
		if i%2 == 1 {
			first, second = second, first
		}
		log.Info().Msgf("starting game %d of %d: %s moves first", i+1, setup.Games, first.Name)

		winner, gameMetric, moveMetrics, err := runGame(first, second, setup, uint64(i))
		if err != nil {
			return result, fmt.Errorf("game %d: %w", i+1, err)
		}

		id := i + 1
		result.Games = append(result.Games, metrics.GameRecord{
			ID:         id,
			Agent1:     first.ID,
			Agent2:     second.ID,
			GameMetric: gameMetric,
		})
		for _, mm := range moveMetrics {
			result.Moves = append(result.Moves, metrics.MoveRecord{
				Game:       id,
				MoveMetric: mm,
			})
		}
		if winner != "" {
			result.Wins[winner]++
		}

		log.Info().Msgf("completed game %d with winner: %q", id, winner)
	}

	log.Info().Msgf("completed %s experiment: %v", setup.Name, result.Wins)

	if setup.OutDir == "" {
		return result, nil
	}
	dir, err := store(setup, result)
	if err != nil {
		return result, err
	}
	log.Info().Msgf("stored experiment records in %s", dir)
	return result, nil
}

func store(setup Setup, result Result) (string, error) {
	writer, err := metrics.NewWriter(setup.OutDir, setup.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(setup.Agents[:]); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(result.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(result.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	return writer.Dir(), nil
}

// runGame executes a single game between two agents and returns the winner
func runGame(first, second metrics.AgentConfig, setup Setup, offset uint64) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	row := game.RandomCoinRow(setup.Coins, setup.MaxCoin, setup.Seed+offset, [2]string{first.Name, second.Name})
	agents := map[string]agent.Agent{}
	for _, config := range []metrics.AgentConfig{first, second} {
		options, err := searchOptions(config)
		if err != nil {
			return "", metrics.GameMetric{}, nil, err
		}
		agents[config.Name] = agent.New(config.Name, agent.WithName(config.Name), agent.WithSearch(options...))
	}

	e := engine.LocalEngine(row, agents, first.Budget)
	e.Clocks[second.Name] = second.Budget
	return e.Run()
}

func searchOptions(config metrics.AgentConfig) ([]searcher.Option, error) {
	ordering, err := searcher.ParseOrdering(config.Ordering)
	if err != nil {
		return nil, fmt.Errorf("agent %s: %w", config.Name, err)
	}
	options := []searcher.Option{searcher.WithOrdering(ordering)}
	if !config.Pruning {
		options = append(options, searcher.WithoutPruning())
	}
	return options, nil
}

// DefaultAgents pits the default ascending ordering against node-kind ordering.
func DefaultAgents(budget time.Duration) [2]metrics.AgentConfig {
	return [2]metrics.AgentConfig{
		{ID: 1, Name: "white", Budget: budget, Ordering: searcher.Ascending.String(), Pruning: true},
		{ID: 2, Name: "black", Budget: budget, Ordering: searcher.ByNodeKind.String(), Pruning: true},
	}
}
