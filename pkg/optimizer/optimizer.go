// Package optimizer runs the generational search over layout candidates:
// parallel fitness evaluation with a per-generation barrier, elitist
// fitness-proportionate selection, and the cross/mutate/clone operator mix.
package optimizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/kanaforge/kanaforge/pkg/keymap"
	"github.com/kanaforge/kanaforge/pkg/scoring"
)

// ErrPopulationStalled is returned when a generation cannot be refilled
// with valid candidates within the draw budget.
var ErrPopulationStalled = errors.New("optimizer: could not refill population")

// maxAdmissionDraws bounds the operator draws per generation. Valid
// candidates are admitted at a high rate in practice; the cap only guards
// against a pathological population.
const maxAdmissionDraws = 100000

// seedAttemptsPerMember bounds how many raw layouts are drawn per seeded
// population member before giving up.
const seedAttemptsPerMember = 10000

// Config holds the search parameters. Operator probabilities are drawn in
// order cross, mutate, clone-the-rest, so the two configured values must
// sum to at most 1.
type Config struct {
	// PopulationSize is the number of layouts per generation.
	PopulationSize int

	// Workers caps concurrent fitness evaluations.
	Workers int

	CrossProbability  float64
	MutateProbability float64

	// SavePercent is the elitism fraction: the share of the ranked
	// population admitted into the selection pool.
	SavePercent float64
}

// DefaultConfig returns the tuned search parameters.
func DefaultConfig() Config {
	return Config{
		PopulationSize:    100,
		Workers:           20,
		CrossProbability:  0.05,
		MutateProbability: 0.01,
		SavePercent:       0.3,
	}
}

func (c Config) validate() error {
	if c.PopulationSize <= 0 {
		return fmt.Errorf("population size must be positive, got %d", c.PopulationSize)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.CrossProbability < 0 || c.MutateProbability < 0 ||
		c.CrossProbability+c.MutateProbability > 1 {
		return fmt.Errorf("operator probabilities %v+%v must stay within [0,1]",
			c.CrossProbability, c.MutateProbability)
	}
	if c.SavePercent <= 0 || c.SavePercent > 1 {
		return fmt.Errorf("save percent must be in (0,1], got %v", c.SavePercent)
	}
	return nil
}

// Stats summarizes one generation's fitness distribution.
type Stats struct {
	Generation uint64
	Best       uint64
	Mean       float64
	Median     float64
	StdDev     float64

	// Discarded counts operator results rejected by validation while
	// refilling the generation.
	Discarded int
}

// Result is the outcome of one generational step: the best layout of the
// evaluated generation and its score.
type Result struct {
	Best      *keymap.Keymap
	BestScore uint64
	Stats     Stats
}

// Optimizer owns the population. All randomness flows through the rng
// passed to New and Advance by the single orchestrating goroutine, so a
// fixed seed reproduces a run draw for draw.
type Optimizer struct {
	cfg    Config
	table  *scoring.ConnectionTable
	freq   []float64
	logger *slog.Logger
	runID  uuid.UUID

	generation uint64
	population []*keymap.Keymap
}

// New seeds a population of validated layouts. A nil logger discards.
func New(cfg Config, table *scoring.ConnectionTable, freq []float64, rng *rand.Rand, logger *slog.Logger) (*Optimizer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("optimizer config: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	o := &Optimizer{
		cfg:        cfg,
		table:      table,
		freq:       freq,
		logger:     logger,
		runID:      uuid.New(),
		generation: 1,
		population: make([]*keymap.Keymap, 0, cfg.PopulationSize),
	}

	for len(o.population) < cfg.PopulationSize {
		var admitted bool
		for attempt := 0; attempt < seedAttemptsPerMember; attempt++ {
			// Placement dead-ends are a normal outcome of the guided
			// random build; discard and redraw like any invalid candidate.
			m, err := keymap.Generate(rng)
			if err != nil {
				continue
			}
			if !m.MeetRequirements() {
				continue
			}
			o.population = append(o.population, m)
			admitted = true
			break
		}
		if !admitted {
			return nil, fmt.Errorf("seed population member %d: %w",
				len(o.population), ErrPopulationStalled)
		}
	}

	o.logger.Info("population seeded",
		slog.String("run_id", o.runID.String()),
		slog.Int("size", cfg.PopulationSize))
	return o, nil
}

// Generation returns the current generation counter, starting at 1.
func (o *Optimizer) Generation() uint64 { return o.generation }

// RunID identifies this optimization run in logs.
func (o *Optimizer) RunID() uuid.UUID { return o.runID }

// rankedMember pairs a population index with its evaluated total.
type rankedMember struct {
	index int
	total uint64
}

// rank evaluates every member in parallel and returns the indices sorted by
// total ascending. The table, corpus and frequency vector are read-only;
// each task touches only its own slice element, so the barrier needs no
// locking.
func (o *Optimizer) rank(ctx context.Context, conjunctions []scoring.Conjunction) ([]rankedMember, error) {
	ranked := make([]rankedMember, len(o.population))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.cfg.Workers)
	for i, m := range o.population {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			score, err := scoring.Evaluate(o.table, m, conjunctions, o.freq)
			if err != nil {
				return fmt.Errorf("evaluate member %d: %w", i, err)
			}
			ranked[i] = rankedMember{index: i, total: score.Total()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(ranked, func(a, b int) bool { return ranked[a].total < ranked[b].total })
	return ranked, nil
}

// selectionProbabilities computes the normalized fitness-proportionate
// distribution over the elite pool: weight 1 − score/poolTotal, lower
// scores drawing more often.
func selectionProbabilities(pool []rankedMember) []float64 {
	probs := make([]float64, len(pool))
	if len(pool) == 1 {
		probs[0] = 1
		return probs
	}

	var total float64
	for _, m := range pool {
		total += float64(m.total)
	}
	var sum float64
	for i, m := range pool {
		probs[i] = 1 - float64(m.total)/total
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

func draw(rng *rand.Rand, probs []float64) int {
	x := rng.Float64()
	var accum float64
	for i, p := range probs {
		accum += p
		if x < accum {
			return i
		}
	}
	return len(probs) - 1
}

// Advance runs one generational step: barrier-evaluate, rank, select from
// the elite pool, refill via cross/mutate/clone with validate-or-discard,
// swap in the next generation. It returns the best layout of the evaluated
// generation.
func (o *Optimizer) Advance(ctx context.Context, rng *rand.Rand, conjunctions []scoring.Conjunction) (Result, error) {
	ranked, err := o.rank(ctx, conjunctions)
	if err != nil {
		return Result{}, fmt.Errorf("rank generation %d: %w", o.generation, err)
	}

	eliteSize := int(float64(o.cfg.PopulationSize) * o.cfg.SavePercent)
	if eliteSize < 1 {
		eliteSize = 1
	}
	if eliteSize > len(ranked) {
		eliteSize = len(ranked)
	}
	pool := ranked[:eliteSize]
	probs := selectionProbabilities(pool)

	parent := func() *keymap.Keymap {
		return o.population[pool[draw(rng, probs)].index]
	}

	next := make([]*keymap.Keymap, 0, o.cfg.PopulationSize)
	var discarded int
	for draws := 0; len(next) < o.cfg.PopulationSize; draws++ {
		if draws >= maxAdmissionDraws {
			return Result{}, fmt.Errorf("generation %d: %w", o.generation, ErrPopulationStalled)
		}
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		p := rng.Float64()
		switch {
		case p < o.cfg.CrossProbability:
			childA, childB := parent().Cross(parent(), rng)
			for _, child := range []*keymap.Keymap{childA, childB} {
				if !child.MeetRequirements() {
					discarded++
					continue
				}
				if len(next) < o.cfg.PopulationSize {
					next = append(next, child)
				}
			}
		case p < o.cfg.CrossProbability+o.cfg.MutateProbability:
			child, err := parent().Mutate(rng)
			if err != nil {
				discarded++
				continue
			}
			next = append(next, child)
		default:
			next = append(next, parent().Clone())
		}
	}

	best := o.population[ranked[0].index].Clone()
	bestScore := ranked[0].total

	st, err := o.generationStats(ranked, discarded)
	if err != nil {
		return Result{}, err
	}

	o.population = next
	o.generation++

	o.logger.Info("generation advanced",
		slog.String("run_id", o.runID.String()),
		slog.Uint64("generation", st.Generation),
		slog.Uint64("best_score", st.Best),
		slog.Float64("mean", st.Mean),
		slog.Int("discarded", st.Discarded))

	return Result{Best: best, BestScore: bestScore, Stats: st}, nil
}

func (o *Optimizer) generationStats(ranked []rankedMember, discarded int) (Stats, error) {
	totals := make([]float64, len(ranked))
	for i, m := range ranked {
		totals[i] = float64(m.total)
	}

	mean, err := stats.Mean(totals)
	if err != nil {
		return Stats{}, fmt.Errorf("generation stats: %w", err)
	}
	median, err := stats.Median(totals)
	if err != nil {
		return Stats{}, fmt.Errorf("generation stats: %w", err)
	}
	stddev, err := stats.StandardDeviation(totals)
	if err != nil {
		return Stats{}, fmt.Errorf("generation stats: %w", err)
	}

	return Stats{
		Generation: o.generation,
		Best:       ranked[0].total,
		Mean:       mean,
		Median:     median,
		StdDev:     stddev,
		Discarded:  discarded,
	}, nil
}
