package simulation

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"lexcore-hq/lexcore/pkg/entity"
	"lexcore-hq/lexcore/pkg/holder"
	"lexcore-hq/lexcore/pkg/parameter"
	"lexcore-hq/lexcore/pkg/period"
	"lexcore-hq/lexcore/pkg/telemetry/metrics"
	"lexcore-hq/lexcore/pkg/tracer"
	"lexcore-hq/lexcore/pkg/variable"
)

// DefaultMaxSpiralLoops is how many prior stack frames may carry the same
// variable name before the next entry is treated as a spiral.
const DefaultMaxSpiralLoops = 1

// Config tunes one simulation instance.
type Config struct {
	// MaxSpiralLoops caps same-variable re-entries at different periods.
	// Zero means DefaultMaxSpiralLoops.
	MaxSpiralLoops int

	// Tracer receives evaluation events. Nil means a stack-only tracer.
	Tracer tracer.Tracer

	// MemoryThresholdBytes and Storage configure each holder's cache tiers.
	MemoryThresholdBytes int64
	Storage              holder.Storage

	// Metrics optionally records engine behavior. Nil disables recording.
	Metrics *metrics.Collector

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Simulation evaluates variables for one request. It owns the populations,
// one holder per evaluated variable, the tracer driving cycle detection and
// the set of variables scheduled for cache invalidation after a spiral.
// Not safe for concurrent use.
type Simulation struct {
	// ID namespaces this simulation's rows in secondary cache storage.
	ID string

	system      *System
	populations map[string]*entity.Population
	holders     map[string]*holder.Holder
	tracer      tracer.Tracer

	// invalidated collects variable names whose caches must be purged once
	// the spiral that produced them resolves.
	invalidated map[string]struct{}

	maxSpiralLoops int
	holderConfig   holder.Config
	metrics        *metrics.Collector
	logger         *slog.Logger
}

// New creates a simulation over populations keyed by entity key.
func New(system *System, populations map[string]*entity.Population, config Config) *Simulation {
	if config.MaxSpiralLoops <= 0 {
		config.MaxSpiralLoops = DefaultMaxSpiralLoops
	}
	if config.Tracer == nil {
		config.Tracer = tracer.NewSimpleTracer()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	s := &Simulation{
		ID:             id,
		system:         system,
		populations:    populations,
		holders:        make(map[string]*holder.Holder),
		tracer:         config.Tracer,
		invalidated:    make(map[string]struct{}),
		maxSpiralLoops: config.MaxSpiralLoops,
		metrics:        config.Metrics,
		logger:         logger.With("component", "simulation", "simulation_id", id),
	}
	s.holderConfig = holder.Config{
		MemoryThresholdBytes: config.MemoryThresholdBytes,
		Storage:              config.Storage,
		SimulationID:         id,
		Metrics:              config.Metrics,
		Logger:               config.Logger,
	}
	return s
}

// Tracer returns the tracer observing this simulation.
func (s *Simulation) Tracer() tracer.Tracer { return s.tracer }

// Population returns the population for an entity key.
func (s *Simulation) Population(entityKey string) (*entity.Population, bool) {
	p, ok := s.populations[entityKey]
	return p, ok
}

// Calculate parses the period string and evaluates the variable for it.
func (s *Simulation) Calculate(name, periodStr string) (variable.Array, error) {
	p, err := period.Parse(periodStr)
	if err != nil {
		return nil, err
	}
	return s.Evaluate(name, p)
}

// Evaluate computes one variable for one period: cache check, cycle check,
// formula dispatch, recursive dependency resolution, cast and cache store.
// Exact cycles fail with *CycleError; spirals past the threshold fail with
// *SpiralError, which dependency computations absorb by substituting the
// variable's default.
func (s *Simulation) Evaluate(name string, p period.Period) (variable.Array, error) {
	v, err := s.system.registry.Get(name)
	if err != nil {
		return nil, err
	}
	pop, ok := s.populations[v.Entity]
	if !ok {
		return nil, &SituationError{
			Path:   name,
			Reason: fmt.Sprintf("no population for entity %q", v.Entity),
		}
	}
	h := s.holderFor(v, pop)

	s.tracer.RecordCalculationStart(name, p)
	defer s.tracer.RecordCalculationEnd()
	started := time.Now()

	if values, ok := h.Get(p); ok {
		s.tracer.RecordCalculationResult(values)
		return values, nil
	}

	if err := s.checkForCycle(name, p); err != nil {
		return nil, err
	}

	values, err := s.run(v, pop, p)
	if err != nil {
		return nil, err
	}

	h.Put(p, values)
	s.flushInvalidated()
	s.tracer.RecordCalculationResult(values)
	s.metrics.RecordEvaluation(name, time.Since(started))
	return values, nil
}

// run dispatches the governing formula, or broadcasts the default when none
// applies, and casts the result to the variable's type and the population
// length.
func (s *Simulation) run(v *variable.Variable, pop *entity.Population, p period.Period) (variable.Array, error) {
	formula, ok := v.FormulaAt(p)
	if !ok {
		return v.Cast(v.DefaultArray(pop.Count()), pop.Count(), p)
	}
	ctx := &formulaContext{sim: s, population: pop, period: p}
	raw, err := formula(ctx)
	if err != nil {
		return nil, err
	}
	return v.Cast(raw, pop.Count(), p)
}

// checkForCycle inspects the stack below the current frame. An identical
// (variable, period) frame is an exact cycle. Past that, maxSpiralLoops prior
// frames with the same variable name mark the variable for cache invalidation
// and raise a spiral.
func (s *Simulation) checkForCycle(name string, p period.Period) error {
	stack := s.tracer.Stack()
	previous := stack[:len(stack)-1]

	sameName := 0
	for _, frame := range previous {
		if frame.Name != name {
			continue
		}
		if frame.Period == p {
			s.metrics.RecordCycle()
			return &CycleError{
				Variable: name,
				Period:   p.String(),
				Stack:    frameKeys(stack),
			}
		}
		sameName++
	}
	if sameName >= s.maxSpiralLoops {
		s.invalidated[name] = struct{}{}
		s.metrics.RecordSpiral()
		s.logger.Debug("spiral detected, branch falls back to default",
			"variable", name, "period", p.String(), "loops", sameName)
		return &SpiralError{Variable: name, Period: p.String(), Loops: sameName}
	}
	return nil
}

// flushInvalidated purges the caches of spiral-invalidated variables so their
// default-substituted entries never satisfy later requests.
func (s *Simulation) flushInvalidated() {
	for name := range s.invalidated {
		if h, ok := s.holders[name]; ok {
			h.InvalidateAll()
		}
		delete(s.invalidated, name)
	}
}

func (s *Simulation) holderFor(v *variable.Variable, pop *entity.Population) *holder.Holder {
	if h, ok := s.holders[v.Name]; ok {
		return h
	}
	h := holder.New(v, pop.Count(), s.holderConfig)
	s.holders[v.Name] = h
	return h
}

// defaultFor broadcasts a variable's default to its population size. Used by
// spiral recovery.
func (s *Simulation) defaultFor(name string) (variable.Array, error) {
	v, err := s.system.registry.Get(name)
	if err != nil {
		return nil, err
	}
	pop, ok := s.populations[v.Entity]
	if !ok {
		return nil, &SituationError{Path: name, Reason: fmt.Sprintf("no population for entity %q", v.Entity)}
	}
	return v.DefaultArray(pop.Count()), nil
}

func frameKeys(frames []tracer.Frame) []string {
	keys := make([]string, len(frames))
	for i, f := range frames {
		keys[i] = fmt.Sprintf("%s<%s>", f.Name, f.Period)
	}
	return keys
}

// formulaContext is the window one formula invocation gets onto the running
// simulation. Compute re-enters Evaluate and absorbs spirals raised by the
// callee, substituting the callee's default so the rest of the evaluation
// proceeds.
type formulaContext struct {
	sim        *Simulation
	population *entity.Population
	period     period.Period
}

func (c *formulaContext) Count() int { return c.population.Count() }

func (c *formulaContext) Period() period.Period { return c.period }

func (c *formulaContext) Compute(name string, p period.Period) (variable.Array, error) {
	values, err := c.sim.Evaluate(name, p)
	if err != nil {
		var spiral *SpiralError
		if errors.As(err, &spiral) {
			return c.sim.defaultFor(name)
		}
		return nil, err
	}
	return values, nil
}

func (c *formulaContext) Parameter(path string) (any, error) {
	at := c.period.StartInstant()
	value, err := c.sim.system.Parameters().Value(path, at)
	if err != nil {
		return nil, err
	}
	c.sim.tracer.RecordParameterAccess(path, at, value)
	return value, nil
}

func (c *formulaContext) Scale(path string) (parameter.Brackets, error) {
	at := c.period.StartInstant()
	brackets, err := c.sim.system.Parameters().ScaleAt(path, at)
	if err != nil {
		return nil, err
	}
	c.sim.tracer.RecordParameterAccess(path, at, brackets)
	return brackets, nil
}
