package montecarlo

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/rs/zerolog"

	"combatsim/internal/combat"
)

const (
	DefaultBatchSize           = 100
	DefaultLowHPThreshold      = 0.10
	DefaultCloseMatchThreshold = 0.10
)

// ErrRunPanicked marks a single battle that crashed and was excluded from
// the aggregates.
var ErrRunPanicked = errors.New("battle run panicked")

// Options controls a Monte Carlo invocation.
type Options struct {
	// Runs is the number of battles. RunTeamSimulation takes it as an
	// argument instead.
	Runs int
	// Config is the duel configuration. The zero value means
	// combat.DefaultBattleConfig().
	Config combat.BattleConfig
	// SaveSampleBattles keeps the full log of the first runs by index.
	SaveSampleBattles int
	// OnProgress is called with a percentage in [0,100] once per completed
	// batch, never concurrently.
	OnProgress func(percent float64)
	// Seed is the base seed. 0 draws a fresh one, reported in the result.
	Seed      uint64
	Workers   int
	BatchSize int
	Logger    *zerolog.Logger

	LowHPThreshold      float64
	CloseMatchThreshold float64
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.LowHPThreshold <= 0 {
		o.LowHPThreshold = DefaultLowHPThreshold
	}
	if o.CloseMatchThreshold <= 0 {
		o.CloseMatchThreshold = DefaultCloseMatchThreshold
	}
	if o.SaveSampleBattles < 0 {
		o.SaveSampleBattles = 0
	}
	if o.Logger == nil {
		nop := zerolog.Nop()
		o.Logger = &nop
	}
	return o
}

func checkRuns(runs int) error {
	if runs <= 0 {
		return fmt.Errorf("%w: runs must be > 0", combat.ErrInvalidInput)
	}
	return nil
}
