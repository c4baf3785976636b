// Package config loads agent settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"

	"divercite/agent"
	"divercite/searcher"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config is the top-level agent configuration. Fields left out of a file keep
// their defaults.
type Config struct {
	Player PlayerConfig `yaml:"player"`
	Search SearchConfig `yaml:"search"`
	Log    LogConfig    `yaml:"log"`
}

type PlayerConfig struct {
	PieceType string `yaml:"piece_type"`
	Name      string `yaml:"name"`
	ID        string `yaml:"id"` // Defaults to the piece type
}

type SearchConfig struct {
	Depth         searcher.DepthPolicy `yaml:"depth"`
	Aggregation   string               `yaml:"aggregation"` // "sum" or "single"
	Opponent      string               `yaml:"opponent"`    // Required by "single"
	UrgencyWeight float64              `yaml:"urgency_weight"`
	Ordering      string               `yaml:"ordering"` // "ascending", "node-kind" or "none"
	Pruning       bool                 `yaml:"pruning"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

func Default() Config {
	return Config{
		Player: PlayerConfig{
			Name: agent.DefaultName,
		},
		Search: SearchConfig{
			Depth:         searcher.DefaultDepthPolicy(),
			Aggregation:   searcher.SumOpponents.String(),
			UrgencyWeight: 1,
			Ordering:      searcher.Ascending.String(),
			Pruning:       true,
		},
		Log: LogConfig{
			Level: zerolog.InfoLevel.String(),
		},
	}
}

// Load reads path on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	aggregation, err := searcher.ParseAggregation(c.Search.Aggregation)
	if err != nil {
		return err
	}
	if aggregation == searcher.SingleOpponent && c.Search.Opponent == "" {
		return errors.New("single opponent aggregation needs search.opponent")
	}
	if c.Search.Opponent != "" && c.Search.Opponent == c.PlayerID() {
		return errors.New("search.opponent must differ from the player ID")
	}
	if _, err := searcher.ParseOrdering(c.Search.Ordering); err != nil {
		return err
	}
	if err := c.Search.Depth.Validate(); err != nil {
		return err
	}
	if c.Search.UrgencyWeight < 0 {
		return fmt.Errorf("urgency weight %g must not be negative", c.Search.UrgencyWeight)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

func (c Config) PlayerID() string {
	if c.Player.ID != "" {
		return c.Player.ID
	}
	return c.Player.PieceType
}

// SearchOptions assumes the config is valid.
func (c Config) SearchOptions() []searcher.Option {
	options := []searcher.Option{
		searcher.WithUrgencyWeight(c.Search.UrgencyWeight),
		searcher.WithDepthPolicy(c.Search.Depth), // An empty policy keeps the default
	}
	if aggregation, _ := searcher.ParseAggregation(c.Search.Aggregation); aggregation == searcher.SingleOpponent {
		options = append(options, searcher.WithOpponent(c.Search.Opponent))
	}
	if ordering, err := searcher.ParseOrdering(c.Search.Ordering); err == nil {
		options = append(options, searcher.WithOrdering(ordering))
	}
	if !c.Search.Pruning {
		options = append(options, searcher.WithoutPruning())
	}
	return options
}

func (c Config) PlayerOptions() []agent.Option {
	return []agent.Option{
		agent.WithName(c.Player.Name),
		agent.WithID(c.Player.ID),
		agent.WithSearch(c.SearchOptions()...),
	}
}

func (c Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
