// Package estimate implements the parallel duration estimator: headless
// bot-vs-bot playouts on cloned state that never contend with live play.
package estimate

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"parlor/internal/bot"
	"parlor/internal/domain"
	"parlor/internal/rules"
)

var (
	// ErrEstimateRunning is returned when a run is started while another is
	// still in flight for the same instance.
	ErrEstimateRunning = errors.New("estimate already running")
	// ErrTickBudget marks a simulation that failed to terminate within its
	// tick budget. Such runs are failures, never estimates.
	ErrTickBudget = errors.New("simulation exceeded tick budget")
)

// Config carries the estimator knobs.
type Config struct {
	// Simulations is the number of independent playouts per run.
	Simulations int
	// TickBudget bounds each simulation's tick counter.
	TickBudget int
	// MinSuccess is the minimum number of in-budget simulations required to
	// report an estimate instead of "unavailable".
	MinSuccess int
	// HumanSpeedMultiplier scales simulated ticks to human pace; bots act
	// faster than humans.
	HumanSpeedMultiplier float64
	// TickDuration is the wall-clock length of one simulated tick.
	TickDuration time.Duration
}

// Report aggregates a completed run.
type Report struct {
	Succeeded   int
	Failed      int
	MeanTicks   float64
	StdDevTicks float64
	Outliers    int
	Estimate    time.Duration
	// Unavailable is set when too few simulations finished in budget; the
	// estimate is then not extrapolated from insufficient data.
	Unavailable bool
}

// Estimator runs one estimation at a time for a game instance. Simulations
// execute in worker goroutines over state clones; the shared result set is
// mutex-guarded and completion is detected by polling CheckCompletion from
// the match loop, so no estimator goroutine ever touches live state.
type Estimator struct {
	cfg Config

	mu      sync.Mutex
	running bool
	pending int
	ticks   []int
	failed  int
}

// New constructs an estimator, applying defaults for unset knobs.
func New(cfg Config) *Estimator {
	if cfg.Simulations <= 0 {
		cfg.Simulations = 10
	}
	if cfg.TickBudget <= 0 {
		cfg.TickBudget = 5000
	}
	if cfg.MinSuccess <= 0 {
		cfg.MinSuccess = 3
	}
	if cfg.HumanSpeedMultiplier <= 0 {
		cfg.HumanSpeedMultiplier = 6
	}
	if cfg.TickDuration <= 0 {
		cfg.TickDuration = time.Second
	}
	return &Estimator{cfg: cfg}
}

// Running reports whether a run is in progress.
func (e *Estimator) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Start launches the configured number of simulations for the profile and
// player count. Each simulation uses a distinct seed derived from the base
// seed so runs differ but the whole estimate replays identically.
func (e *Estimator) Start(profile rules.Profile, playerIDs []string, seed int64) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrEstimateRunning
	}
	e.running = true
	e.pending = e.cfg.Simulations
	e.ticks = nil
	e.failed = 0
	e.mu.Unlock()

	for i := 0; i < e.cfg.Simulations; i++ {
		go func(simSeed int64) {
			ticks, err := Simulate(profile, playerIDs, simSeed, e.cfg.TickBudget)

			e.mu.Lock()
			defer e.mu.Unlock()
			if err != nil {
				e.failed++
			} else {
				e.ticks = append(e.ticks, ticks)
			}
			e.pending--
		}(seed + int64(i)*7919)
	}
	return nil
}

// CheckCompletion reports the aggregated result once all simulations are
// done. Poll it from the match loop; it returns ok=false while any worker is
// still running and after the report has been consumed.
func (e *Estimator) CheckCompletion() (Report, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.running || e.pending > 0 {
		return Report{}, false
	}
	e.running = false
	return e.report(), true
}

func (e *Estimator) report() Report {
	r := Report{Succeeded: len(e.ticks), Failed: e.failed}
	if r.Succeeded < e.cfg.MinSuccess {
		r.Unavailable = true
		return r
	}

	mean := 0.0
	for _, t := range e.ticks {
		mean += float64(t)
	}
	mean /= float64(len(e.ticks))

	variance := 0.0
	for _, t := range e.ticks {
		d := float64(t) - mean
		variance += d * d
	}
	if len(e.ticks) > 1 {
		variance /= float64(len(e.ticks) - 1)
	}

	r.MeanTicks = mean
	r.StdDevTicks = math.Sqrt(variance)
	r.Outliers = countOutliers(e.ticks)
	r.Estimate = time.Duration(mean * e.cfg.HumanSpeedMultiplier * float64(e.cfg.TickDuration))
	return r
}

// countOutliers flags samples outside 1.5 interquartile ranges of the
// quartiles.
func countOutliers(samples []int) int {
	if len(samples) < 4 {
		return 0
	}
	sorted := append([]int(nil), samples...)
	sort.Ints(sorted)
	q1 := quantile(sorted, 0.25)
	q3 := quantile(sorted, 0.75)
	iqr := q3 - q1
	lo := q1 - 1.5*iqr
	hi := q3 + 1.5*iqr

	n := 0
	for _, s := range sorted {
		v := float64(s)
		if v < lo || v > hi {
			n++
		}
	}
	return n
}

func quantile(sorted []int, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return float64(sorted[lo])
	}
	frac := pos - float64(lo)
	return float64(sorted[lo])*(1-frac) + float64(sorted[hi])*frac
}

// FormatEstimate renders a report as a human-facing duration string key and
// args; rendering/localization is external.
func FormatEstimate(r Report) (string, map[string]any) {
	if r.Unavailable {
		return "estimate-unavailable", nil
	}
	mins := int(math.Round(r.Estimate.Minutes()))
	if mins < 1 {
		mins = 1
	}
	return "estimate-duration", map[string]any{
		"minutes":  mins,
		"readable": fmt.Sprintf("%d min", mins),
	}
}

// Simulate plays one full headless game with deterministic bots and returns
// the simulated tick count. It operates exclusively on profile state it
// created itself.
func Simulate(profile rules.Profile, playerIDs []string, seed int64, tickBudget int) (int, error) {
	state := profile.Setup(playerIDs, seed)

	var turns domain.TurnOrder
	turns.SetTurnPlayers(playerIDs)

	ticks := 0
	for {
		if profile.Finished(state) {
			return ticks, nil
		}
		if ticks >= tickBudget {
			return ticks, ErrTickBudget
		}

		current, ok := turns.CurrentPlayerID()
		if !ok {
			return ticks, fmt.Errorf("simulation has no current player")
		}

		ctx, _, err := profile.BeginTurn(state, current)
		if err != nil {
			return ticks, err
		}
		ticks++

		set := profile.GenerateCandidates(state, ctx)
		var effects []rules.Effect
		if move, ok := bot.Choose(profile, state, ctx, set, bot.DefaultWeights); ok {
			effects, err = profile.ApplyMove(state, ctx, move)
			if err != nil {
				return ticks, err
			}
		} else {
			effects = profile.Pass(state, ctx)
		}
		ticks++

		for _, ef := range effects {
			switch ef.Kind {
			case rules.EffectAdvanceTurn:
				if _, err := turns.AdvanceTurn(); err != nil {
					return ticks, err
				}
			case rules.EffectBonusTurn:
				// Same player decides again next loop iteration.
			case rules.EffectSkipPlayers:
				turns.SkipNextPlayers(ef.PlayerID, ef.N)
			case rules.EffectReverseDirection:
				turns.ReverseTurnDirection()
			case rules.EffectPlayerEliminated:
				turns.RemoveTurnPlayer(ef.PlayerID)
			case rules.EffectGameEnded:
				return ticks, nil
			}
		}
	}
}
