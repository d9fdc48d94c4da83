package planting

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/agrivision/backend/internal/core/domain"
)

// Agronomic spacing bounds in meters. Candidates outside these are never
// produced; inputs below the minima score the invalid sentinel.
const (
	RowSpacingMin = 0.5
	RowSpacingMax = 1.2

	PlantSpacingMin = 0.4
	PlantSpacingMax = 1.0

	DefaultRowSpacingM   = 0.75
	DefaultPlantSpacingM = 0.60
)

const invalidFitness = -1000

// OptimizerConfig holds the genetic-search parameters.
type OptimizerConfig struct {
	PopulationSize int
	Generations    int
	TournamentSize int
	CrossoverRate  float64
	MutationRate   float64
	MutationSigma  float64
}

// DefaultOptimizerConfig returns the tuned production parameters.
func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		PopulationSize: 20,
		Generations:    30,
		TournamentSize: 3,
		CrossoverRate:  0.8,
		MutationRate:   0.1,
		MutationSigma:  0.05,
	}
}

// Optimizer searches for the spacing pair maximizing plant count weighted by
// closeness to the agronomic sweet spot and soil quality.
type Optimizer struct {
	cfg OptimizerConfig
	rng *rand.Rand
}

// NewOptimizer builds an optimizer. A nil rng gets a time-seeded source;
// tests pass a fixed seed for reproducibility.
func NewOptimizer(cfg OptimizerConfig, rng *rand.Rand) *Optimizer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Optimizer{cfg: cfg, rng: rng}
}

type candidate struct {
	row, plant float64
}

// Fitness scores a spacing pair for a field. Plant count is estimated as
// area / (row·plant), weighted by a Gaussian centered on the default spacing
// and scaled by soilScore. Pairs below the agronomic minima score the
// invalid sentinel so selection discards them.
func Fitness(rowM, plantM, areaM2, soilScore float64) float64 {
	if rowM < RowSpacingMin || plantM < PlantSpacingMin {
		return invalidFitness
	}
	plants := areaM2 / (rowM * plantM)
	drow := rowM - DefaultRowSpacingM
	dplant := plantM - DefaultPlantSpacingM
	proximity := math.Exp(-(drow*drow + dplant*dplant) / 0.1)
	return plants * proximity * soilScore
}

// Optimize runs the genetic search and returns the best spacing found across
// all generations. If no candidate ever scores above the invalid sentinel the
// default spacing is returned with its own fitness.
func (o *Optimizer) Optimize(ctx context.Context, areaM2, soilScore float64) (*domain.OptimizationResult, error) {
	if !(areaM2 > 0) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidArea, areaM2)
	}
	if soilScore < 0 || soilScore > 1 || math.IsNaN(soilScore) {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidSoilScore, soilScore)
	}

	// Seed the first slot with the known-good default so the search never
	// returns anything worse than the baseline spacing.
	pop := make([]candidate, o.cfg.PopulationSize)
	pop[0] = candidate{DefaultRowSpacingM, DefaultPlantSpacingM}
	for i := 1; i < len(pop); i++ {
		pop[i] = candidate{
			row:   RowSpacingMin + o.rng.Float64()*(RowSpacingMax-RowSpacingMin),
			plant: PlantSpacingMin + o.rng.Float64()*(PlantSpacingMax-PlantSpacingMin),
		}
	}

	best := candidate{DefaultRowSpacingM, DefaultPlantSpacingM}
	bestFitness := math.Inf(-1)

	for gen := 0; gen < o.cfg.Generations; gen++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		for _, c := range pop {
			if f := Fitness(c.row, c.plant, areaM2, soilScore); f > bestFitness {
				best, bestFitness = c, f
			}
		}
		pop = o.evolve(pop, areaM2, soilScore)
	}

	if bestFitness <= invalidFitness {
		best = candidate{DefaultRowSpacingM, DefaultPlantSpacingM}
		bestFitness = Fitness(best.row, best.plant, areaM2, soilScore)
	}

	return &domain.OptimizationResult{
		RowSpacingM:   round3(best.row),
		PlantSpacingM: round3(best.plant),
		Fitness:       math.Round(bestFitness*10000) / 10000,
		Generations:   o.cfg.Generations,
	}, nil
}

// evolve produces the next generation: tournament selection, pairwise
// single-point crossover, then Gaussian mutation clamped to the bounds.
// The returned population always matches the input size.
func (o *Optimizer) evolve(pop []candidate, areaM2, soilScore float64) []candidate {
	next := make([]candidate, 0, len(pop))
	for len(next) < len(pop) {
		next = append(next, o.tournament(pop, areaM2, soilScore))
	}

	for i := 0; i+1 < len(next); i += 2 {
		if o.rng.Float64() < o.cfg.CrossoverRate {
			// Two genes, so a single-point crossover swaps the plant gene.
			next[i].plant, next[i+1].plant = next[i+1].plant, next[i].plant
		}
	}

	for i := range next {
		if o.rng.Float64() < o.cfg.MutationRate {
			next[i].row = clamp(next[i].row+o.rng.NormFloat64()*o.cfg.MutationSigma, RowSpacingMin, RowSpacingMax)
			next[i].plant = clamp(next[i].plant+o.rng.NormFloat64()*o.cfg.MutationSigma, PlantSpacingMin, PlantSpacingMax)
		}
	}
	return next
}

func (o *Optimizer) tournament(pop []candidate, areaM2, soilScore float64) candidate {
	winner := pop[o.rng.Intn(len(pop))]
	winnerFit := Fitness(winner.row, winner.plant, areaM2, soilScore)
	for i := 1; i < o.cfg.TournamentSize; i++ {
		c := pop[o.rng.Intn(len(pop))]
		if f := Fitness(c.row, c.plant, areaM2, soilScore); f > winnerFit {
			winner, winnerFit = c, f
		}
	}
	return winner
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
