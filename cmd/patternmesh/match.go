package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/patternmesh/patternmesh-go/pkg/pattern"
)

func newMatchCommand() *cobra.Command {
	var patternFile string

	cmd := &cobra.Command{
		Use:   "match [topics...]",
		Short: "Match topics against a pattern set",
		Long: `Match one or more topics against the patterns in a pattern-set file.
For each topic, every matching (pattern, id) pair is printed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(os.Stdout, patternFile, args)
		},
	}

	cmd.Flags().StringVar(&patternFile, "patterns", "", "Pattern-set YAML file (required)")
	if err := cmd.MarkFlagRequired("patterns"); err != nil {
		panic(fmt.Sprintf("Failed to mark patterns as required: %v", err))
	}

	return cmd
}

func runMatch(out io.Writer, patternFile string, topics []string) error {
	entries, err := loadPatternSet(patternFile)
	if err != nil {
		return err
	}

	trie := pattern.New[string]()
	for _, entry := range entries {
		if err := trie.Register(entry.Pattern, entry.ID); err != nil {
			return fmt.Errorf("failed to register %q: %w", entry.Pattern, err)
		}
	}
	logger.Debug().Int("patterns", trie.Len()).Msg("pattern set registered")

	for _, topic := range topics {
		matches, err := trie.Match(topic)
		if err != nil {
			return fmt.Errorf("failed to match %q: %w", topic, err)
		}

		fmt.Fprintf(out, "%s: %d match(es)\n", topic, len(matches))
		for _, m := range matches {
			fmt.Fprintf(out, "  %s -> %s\n", m.Pattern, m.ID)
		}
	}

	return nil
}
