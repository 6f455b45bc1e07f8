package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/patternmesh/patternmesh-go/internal/matchnode"
	"github.com/patternmesh/patternmesh-go/pkg/routingtable"
)

func newRouteCommand() *cobra.Command {
	var (
		patternFile string
		configFile  string
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "route [topics...]",
		Short: "Route topics through a full matching node",
		Long: `Route topics through an in-process PatternMesh node: the pattern-set file
is subscribed through the node (journaled and applied to the routing table),
then each topic is routed and the matching subscriber IDs are printed,
followed by node statistics.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoute(os.Stdout, configFile, patternFile, timeout, args)
		},
	}

	cmd.Flags().StringVar(&patternFile, "patterns", "", "Pattern-set YAML file (required)")
	cmd.Flags().StringVar(&configFile, "config", "", "Node config YAML file (optional)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall timeout")
	if err := cmd.MarkFlagRequired("patterns"); err != nil {
		panic(fmt.Sprintf("Failed to mark patterns as required: %v", err))
	}

	return cmd
}

func runRoute(out io.Writer, configFile, patternFile string, timeout time.Duration, topics []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	config := matchnode.NewConfig(appName)
	if configFile != "" {
		loaded, err := matchnode.LoadConfig(configFile)
		if err != nil {
			return err
		}
		config = loaded
	}

	node, err := matchnode.NewNode(config, logger)
	if err != nil {
		return fmt.Errorf("failed to create node: %w", err)
	}
	defer node.Close()

	if err := node.Start(ctx); err != nil {
		return fmt.Errorf("failed to start node: %w", err)
	}

	entries, err := loadPatternSet(patternFile)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		subscriber := routingtable.NewLocalSubscriber(entry.ID)
		if err := node.Subscribe(ctx, entry.Pattern, subscriber); err != nil {
			return fmt.Errorf("failed to subscribe %q: %w", entry.Pattern, err)
		}
	}

	for _, topic := range topics {
		subscribers, err := node.Route(ctx, topic)
		if err != nil {
			return fmt.Errorf("failed to route %q: %w", topic, err)
		}

		fmt.Fprintf(out, "%s: %d subscriber(s)\n", topic, len(subscribers))
		for _, sub := range subscribers {
			fmt.Fprintf(out, "  %s\n", sub.ID())
		}
	}

	stats, err := node.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}
	fmt.Fprintf(out, "patterns=%d subscriptions=%d journal=%d\n",
		stats.Patterns, stats.Subscriptions, stats.JournalEntries)

	return nil
}
