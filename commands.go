package main

import (
	"fmt"
	"os"
	"time"

	"divercite/agent"
	"divercite/config"
	"divercite/experiments"
	"divercite/game"
	"divercite/server"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	pretty     bool
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "divercite",
		Short:         "Alpha-beta game agent",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "agent YAML config file")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level, overrides the config")
	root.PersistentFlags().BoolVar(&opts.pretty, "pretty", false, "human readable console logs")

	root.AddCommand(newSearchCmd(opts), newPlayCmd(opts), newServeCmd(opts))
	return root
}

func (o *rootOptions) load() error {
	cfg := config.Default()
	if o.configPath != "" {
		loaded, err := config.Load(o.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if o.pretty {
		cfg.Log.Pretty = true
	}
	o.cfg = cfg

	zerolog.SetGlobalLevel(cfg.LogLevel())
	if cfg.Log.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
	return nil
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var (
		treePath  string
		pieceType string
		remaining time.Duration
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Choose the next action in a YAML game tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := game.LoadTree(treePath)
			if err != nil {
				return err
			}
			cfg := opts.cfg
			if pieceType != "" {
				cfg.Player.PieceType = pieceType
			}
			if cfg.PlayerID() == "" {
				return fmt.Errorf("no player: set --player or player.piece_type in the config")
			}

			player := agent.New(cfg.Player.PieceType, cfg.PlayerOptions()...)
			action, metric, err := player.FindMove(tree, remaining)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "player: %s\n", player)
			fmt.Fprintf(out, "action: %v\n", action)
			fmt.Fprintf(out, "depth: %d\n", metric.Depth)
			fmt.Fprintf(out, "nodes: %d leaves: %d cutoffs: %d\n", metric.Nodes, metric.Leaves, metric.Cutoffs)
			return nil
		},
	}
	cmd.Flags().StringVar(&treePath, "tree", "", "YAML game tree file")
	cmd.Flags().StringVar(&pieceType, "player", "", "piece type to play, overrides the config")
	cmd.Flags().DurationVar(&remaining, "remaining", 15*time.Second, "remaining time budget")
	_ = cmd.MarkFlagRequired("tree")
	return cmd
}

func newPlayCmd(opts *rootOptions) *cobra.Command {
	setup := experiments.Setup{Name: "coinrow"}
	var budget time.Duration
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play CoinRow games between two agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			if setup.Games < 1 || setup.Coins < 1 || setup.MaxCoin < 1 {
				return fmt.Errorf("games, coins and max-coin must be positive")
			}
			setup.Agents = experiments.DefaultAgents(budget)
			result, err := experiments.Run(setup)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, config := range setup.Agents {
				fmt.Fprintf(out, "%s (%s ordering): %d wins\n", config.Name, config.Ordering, result.Wins[config.Name])
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&setup.Games, "games", 2, "number of games")
	cmd.Flags().IntVar(&setup.Coins, "coins", 10, "coins per row")
	cmd.Flags().IntVar(&setup.MaxCoin, "max-coin", 9, "highest coin value")
	cmd.Flags().Uint64Var(&setup.Seed, "seed", 1, "seed of the first row")
	cmd.Flags().DurationVar(&budget, "budget", 30*time.Second, "clock per player per game")
	cmd.Flags().StringVar(&setup.OutDir, "out", "", "directory for CSV records")
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var (
		addr      string
		pieceType string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer move requests for JSON game trees over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if pieceType != "" {
				cfg.Player.PieceType = pieceType
			}
			if cfg.PlayerID() == "" {
				return fmt.Errorf("no player: set --player or player.piece_type in the config")
			}
			player := agent.New(cfg.Player.PieceType, cfg.PlayerOptions()...)
			return server.New(player).ListenAndServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&pieceType, "player", "", "piece type to play, overrides the config")
	return cmd
}
