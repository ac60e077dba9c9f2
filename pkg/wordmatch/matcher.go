package wordmatch

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/ib-77/rail/pkg/rail"
	"github.com/ib-77/rail/pkg/rail/pipeline"
	"github.com/ib-77/rail/pkg/rail/stream"
	"github.com/ib-77/rail/pkg/rail/traverse"
)

// Strategy selects how one matching run is composed from the combinators.
// Every strategy performs the identical workload — read each source,
// tokenize it, score the candidates against every lookup word — and feeds
// the same shared Aggregator; they differ only in ordering, failure and
// streaming behavior.
type Strategy int

const (
	// StrategyBatch traverses the sources concurrently and keeps input
	// order; the first failed source fails the whole run.
	StrategyBatch Strategy = iota
	// StrategyRace drains source reads in completion order; each finished
	// read fans out one scoring wave drained fully before the next read
	// outcome is pulled. The first failure is reported after everything
	// settled.
	StrategyRace
	// StrategyPipeline streams sources through read, tokenize and score
	// stages with bounded buffers; a failing item is logged and dropped
	// while the rest keep flowing.
	StrategyPipeline
)

func (s Strategy) String() string {
	switch s {
	case StrategyBatch:
		return "batch"
	case StrategyRace:
		return "race"
	case StrategyPipeline:
		return "pipeline"
	default:
		return "unknown"
	}
}

// Matcher runs the word-matching workload under a chosen composition
// strategy. The aggregator is shared: concurrent and repeated runs union
// their matches into it.
type Matcher struct {
	scorer    Scorer
	threshold float64
	agg       *Aggregator
	log       zerolog.Logger
}

func NewMatcher(scorer Scorer, threshold float64, agg *Aggregator) *Matcher {
	return &Matcher{
		scorer:    scorer,
		threshold: threshold,
		agg:       agg,
		log:       zerolog.Nop(),
	}
}

func (m *Matcher) WithLogger(log zerolog.Logger) *Matcher {
	m.log = log
	return m
}

// Run matches every word of every source against the lookup words. The
// error contract follows the strategy: batch reports the first failed
// source by position, race reports the first failure observed after all
// work settled, and pipeline isolates item failures to the log, returning
// an error only when ingestion itself stopped early.
func (m *Matcher) Run(ctx context.Context, paths, lookups []string, strategy Strategy) error {
	switch strategy {
	case StrategyBatch:
		return m.runBatch(ctx, paths, lookups)
	case StrategyRace:
		return m.runRace(ctx, paths, lookups)
	case StrategyPipeline:
		return m.runPipeline(ctx, paths, lookups)
	default:
		return fmt.Errorf("matcher: unknown strategy %d", int(strategy))
	}
}

// runBatch nests two ordered traversals: sources outside, lookup words
// inside. All sources settle before a failure surfaces.
func (m *Matcher) runBatch(ctx context.Context, paths, lookups []string) error {
	counts, err := traverse.Map(ctx, paths, func(ctx context.Context, path string) (int, error) {
		text, err := ReadAll(path)
		if err != nil {
			return 0, err
		}
		candidates := Tokenize(text)

		perLookup, err := traverse.Map(ctx, lookups, func(ctx context.Context, lookup string) ([]Match, error) {
			return m.scorer.Score(candidates, lookup, m.threshold)
		})
		if err != nil {
			return 0, err
		}

		found := 0
		for _, matches := range perLookup {
			m.agg.AddAll(matches)
			found += len(matches)
		}
		return found, nil
	})
	if err != nil {
		return fmt.Errorf("batch: %w", err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	m.log.Debug().Int("matches", total).Int("sources", len(paths)).Msg("batch flushed")
	return nil
}

// runRace starts every read at once and handles each as it settles; a
// settled read spawns one scoring operation per lookup word, drained as
// its own completion-ordered wave before the next read outcome is pulled.
func (m *Matcher) runRace(ctx context.Context, paths, lookups []string) error {
	reads := make([]rail.Awaitable[string], len(paths))
	for i, path := range paths {
		reads[i] = rail.Go(ctx, func(ctx context.Context) (string, error) {
			return ReadAll(path)
		})
	}

	var firstErr error
	keep := func(err error) {
		if firstErr == nil {
			firstErr = err
			return
		}
		m.log.Warn().Err(err).Msg("race: extra failure discarded")
	}

	for res := range stream.New(ctx, reads).Seq(ctx) {
		if !res.IsSuccess() {
			keep(res.Err())
			continue
		}
		candidates := Tokenize(res.Result())

		wave := make([]rail.Awaitable[[]Match], len(lookups))
		for i, lookup := range lookups {
			wave[i] = rail.Go(ctx, func(ctx context.Context) ([]Match, error) {
				return m.scorer.Score(candidates, lookup, m.threshold)
			})
		}
		for scored := range stream.New(ctx, wave).Seq(ctx) {
			if !scored.IsSuccess() {
				keep(scored.Err())
				continue
			}
			m.agg.AddAll(scored.Result())
		}
	}

	// a canceled context ends the drain early; report it unless a real
	// failure already did
	if firstErr == nil {
		firstErr = ctx.Err()
	}
	if firstErr != nil {
		return fmt.Errorf("race: %w", firstErr)
	}

	m.log.Debug().Int("sources", len(paths)).Msg("race flushed")
	return nil
}

// runPipeline streams the sources through three bounded stages. Item
// failures go to the error sink and are counted, never aborting the run.
func (m *Matcher) runPipeline(ctx context.Context, paths, lookups []string) error {
	read := pipeline.Stage[string, string]{
		Name:  "read",
		Lines: 2,
		Transform: func(ctx context.Context, path string) (string, error) {
			return ReadAll(path)
		},
	}
	tokenize := pipeline.Stage[string, []string]{
		Name:  "tokenize",
		Lines: 1,
		Transform: func(ctx context.Context, text string) ([]string, error) {
			return Tokenize(text), nil
		},
	}
	score := pipeline.Stage[[]string, []Match]{
		Name:  "score",
		Lines: 2,
		Transform: func(ctx context.Context, candidates []string) ([]Match, error) {
			found := make([]Match, 0)
			for _, lookup := range lookups {
				matches, err := m.scorer.Score(candidates, lookup, m.threshold)
				if err != nil {
					return nil, err
				}
				found = append(found, matches...)
			}
			return found, nil
		},
	}

	var dropped atomic.Int32
	flow := pipeline.Then(pipeline.Then(pipeline.First(read), tokenize), score).
		WithLogger(m.log).
		Start(ctx, pipeline.Handlers[[]Match]{
			OnOut: func(ctx context.Context, matches []Match) {
				m.agg.AddAll(matches)
			},
			OnItemError: func(ctx context.Context, stageErr pipeline.StageError) {
				dropped.Add(1)
				m.log.Warn().Str("stage", stageErr.Stage).Err(stageErr.Err).Msg("pipeline: item dropped")
			},
		})

	err := flow.EnqueueAll(ctx, paths)
	flow.Close()
	<-flow.Done()

	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	m.log.Debug().Int("sources", len(paths)).Int32("dropped", dropped.Load()).Msg("pipeline flushed")
	return nil
}
