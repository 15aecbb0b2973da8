package montecarlo

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"golang.org/x/sync/errgroup"

	"combatsim/internal/combat"
	"combatsim/internal/util"
)

type batch struct {
	index      int
	start, end int
}

type batchResult struct {
	index int
	acc   *accumulator
}

// runner fans battles out to a fixed worker pool in batches and folds the
// records back in batch order.
type runner struct {
	opts   Options
	runs   int
	seed   uint64
	units  int
	skills int
	fight  func(rng *rand.Rand, record bool) combat.BattleRecord
}

func newRunner(s *combat.Setup, runs int, opts Options) (*runner, error) {
	seed := opts.Seed
	if seed == 0 {
		var err error
		if seed, err = util.NewSeed(); err != nil {
			return nil, err
		}
	}
	r := &runner{opts: opts, runs: runs, seed: seed, fight: s.Run}
	for side := 1; side <= 2; side++ {
		for _, c := range s.Side(side) {
			r.units++
			r.skills += len(c.Skills)
		}
	}
	return r, nil
}

// execute runs every batch unless ctx is cancelled first. Batches already
// handed to a worker always complete. The second return value reports
// whether the invocation stopped early.
func (r *runner) execute(ctx context.Context) (*accumulator, bool) {
	log := r.opts.Logger
	nb := (r.runs + r.opts.BatchSize - 1) / r.opts.BatchSize
	workers := min(r.opts.Workers, nb)

	jobs := make(chan batch)
	results := make(chan batchResult, workers)

	var g errgroup.Group
	g.Go(func() error {
		defer close(jobs)
		for i := 0; i < nb; i++ {
			if ctx.Err() != nil {
				return nil
			}
			b := batch{index: i, start: i * r.opts.BatchSize, end: min((i+1)*r.opts.BatchSize, r.runs)}
			select {
			case <-ctx.Done():
				return nil
			case jobs <- b:
			}
		}
		return nil
	})
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for b := range jobs {
				results <- batchResult{index: b.index, acc: r.runBatch(b)}
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(results)
	}()

	parts := make([]*accumulator, nb)
	done := 0
	for res := range results {
		parts[res.index] = res.acc
		done += res.acc.runs + res.acc.skipped
		if r.opts.OnProgress != nil {
			r.opts.OnProgress(100 * float64(done) / float64(r.runs))
		}
		log.Debug().Int("batch", res.index).Int("done", done).Int("runs", r.runs).Msg("batch finished")
	}

	total := newAccumulator(r.opts, r.units, r.skills)
	for _, p := range parts {
		if p != nil {
			total.merge(p)
		}
	}
	stopped := done < r.runs
	if stopped {
		log.Warn().Int("done", done).Int("runs", r.runs).Err(ctx.Err()).Msg("simulation cancelled, returning partial results")
	}
	return total, stopped
}

func (r *runner) runBatch(b batch) *accumulator {
	acc := newAccumulator(r.opts, r.units, r.skills)
	for i := b.start; i < b.end; i++ {
		rec, err := r.runOne(i)
		if err != nil {
			acc.skipped++
			r.opts.Logger.Warn().Err(err).Int("run", i).Msg("skipping run")
			continue
		}
		acc.add(i, rec)
	}
	return acc
}

func (r *runner) runOne(i int) (rec combat.BattleRecord, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: run %d: %v", ErrRunPanicked, i, p)
		}
	}()
	rec = r.fight(util.New(r.seed, uint64(i)), i < r.opts.SaveSampleBattles)
	return rec, nil
}

func (r *runner) info(id string, acc *accumulator, cancelled bool, started time.Time) RunInfo {
	return RunInfo{
		ID:            id,
		Seed:          r.seed,
		RequestedRuns: r.runs,
		TotalRuns:     acc.runs,
		SkippedRuns:   acc.skipped,
		Cancelled:     cancelled,
		ElapsedSecs:   time.Since(started).Seconds(),
	}
}
