package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/patternmesh/patternmesh-go/internal/matchloop"
	"github.com/patternmesh/patternmesh-go/pkg/pattern"
)

// benchFixture mirrors a realistic subscription mix: exact topics, single and
// multi-level wildcards, and overlapping prefixes.
var benchFixture = []PatternEntry{
	{Pattern: "stock.nyse.*.price", ID: "nyse-prices"},
	{Pattern: "stock.**.price", ID: "all-prices"},
	{Pattern: "stock.nasdaq.aapl.price", ID: "aapl-price"},
	{Pattern: "stock.*.ibm.price", ID: "ibm-price"},
	{Pattern: "stock.nyse.**", ID: "nyse-firehose"},
	{Pattern: "stock.**", ID: "stock-firehose"},
	{Pattern: "*.nyse.ibm.*", ID: "ibm-nyse"},
	{Pattern: "**.price", ID: "price-tail"},
	{Pattern: "stock.nyse.ibm.volume", ID: "ibm-volume"},
}

var benchTopics = []string{
	"stock.nyse.ibm.price",
	"stock.nasdaq.aapl.price",
	"stock.nyse.msft.price",
	"stock.nyse.ibm.volume",
	"stock.foo.bar.baz.qux",
	"other.nyse.ibm.price",
	"something.completely.different",
	"stock.price",
	"stock.nyse.goog.data",
}

func newBenchCommand() *cobra.Command {
	var (
		iterations int
		extra      int
		workers    int
		batchSize  int
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Benchmark the matching core",
		Long: `Benchmark registration and matching over a fixed subscription mix, first
against the raw trie and then against the actor loop with concurrent callers.
Use --extra to add synthetic exact-match patterns and grow the trie.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(iterations, extra, workers, batchSize)
		},
	}

	cmd.Flags().IntVar(&iterations, "iterations", 10000, "Match iterations per topic")
	cmd.Flags().IntVar(&extra, "extra", 0, "Additional synthetic patterns to register")
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent callers for the actor loop phase")
	cmd.Flags().IntVar(&batchSize, "batch-size", matchloop.DefaultBatchSize, "Actor loop batch size")

	return cmd
}

func runBench(iterations, extra, workers, batchSize int) error {
	if iterations <= 0 {
		iterations = 1
	}
	if workers <= 0 {
		workers = 1
	}

	trie := pattern.New[string]()

	start := time.Now()
	for _, entry := range benchFixture {
		if err := trie.Register(entry.Pattern, entry.ID); err != nil {
			return fmt.Errorf("failed to register %q: %w", entry.Pattern, err)
		}
	}
	for i := 0; i < extra; i++ {
		p := fmt.Sprintf("synthetic.feed%d.*.value", i)
		if err := trie.Register(p, fmt.Sprintf("feed-%d", i)); err != nil {
			return fmt.Errorf("failed to register %q: %w", p, err)
		}
	}
	logger.Info().
		Int("patterns", trie.Len()).
		Dur("elapsed", time.Since(start)).
		Msg("registration phase complete")

	// Phase 1: raw trie, single caller
	start = time.Now()
	var total int
	for i := 0; i < iterations; i++ {
		for _, topic := range benchTopics {
			matches, err := trie.Match(topic)
			if err != nil {
				return fmt.Errorf("failed to match %q: %w", topic, err)
			}
			total += len(matches)
		}
	}
	elapsed := time.Since(start)
	calls := iterations * len(benchTopics)
	logger.Info().
		Int("calls", calls).
		Int("matches", total).
		Dur("elapsed", elapsed).
		Dur("per_call", elapsed/time.Duration(calls)).
		Msg("raw trie phase complete")

	// Phase 2: actor loop, concurrent callers
	loop := matchloop.New[string](matchloop.Config{BatchSize: batchSize, Logger: logger})
	if err := loop.Start(); err != nil {
		return fmt.Errorf("failed to start match loop: %w", err)
	}
	defer loop.Close()

	ctx := context.Background()
	for _, entry := range benchFixture {
		if err := loop.Register(ctx, entry.Pattern, entry.ID); err != nil {
			return fmt.Errorf("failed to register %q: %w", entry.Pattern, err)
		}
	}

	perWorker := iterations / workers
	if perWorker == 0 {
		perWorker = 1
	}

	start = time.Now()
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				for _, topic := range benchTopics {
					if _, err := loop.Match(ctx, topic); err != nil {
						errs <- err
						return
					}
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	if err := <-errs; err != nil {
		return fmt.Errorf("actor loop phase failed: %w", err)
	}

	elapsed = time.Since(start)
	calls = workers * perWorker * len(benchTopics)
	logger.Info().
		Int("calls", calls).
		Int("workers", workers).
		Dur("elapsed", elapsed).
		Dur("per_call", elapsed/time.Duration(calls)).
		Msg("actor loop phase complete")

	return nil
}
