package lineage

import "math"

// Simulation grows a lineage tree from a single zygote until the configured
// population target is reached. Cells awaiting their next simulated event sit
// in a FIFO queue; strict breadth-first order is an invariant the
// generation-boundary detection depends on, so the queue must never be
// reordered.
type Simulation struct {
	params   Params
	rng      Rand
	founders map[string]struct{}

	zygote          *Cell
	queue           []*Cell
	generation      int
	alive           int
	divisions       int
	quiescentEvents int
}

// Option customizes simulation construction.
type Option func(*Simulation)

// WithRand overrides the random source, enabling deterministic runs.
func WithRand(r Rand) Option {
	return func(s *Simulation) { s.rng = r }
}

// NewSimulation constructs a simulation for the given parameters. The default
// random source is PCG seeded from entropy.
func NewSimulation(params Params, opts ...Option) *Simulation {
	s := &Simulation{
		params:   params,
		rng:      NewEntropySource(),
		founders: make(map[string]struct{}, len(params.Founders)),
	}
	for _, name := range params.Founders {
		s.founders[name] = struct{}{}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Result summarizes one completed growth run. The tree hanging off Zygote is
// append-only and fully owned by the result.
type Result struct {
	Zygote          *Cell
	Generations     int
	AliveCells      int
	Divisions       int
	QuiescentEvents int
}

// Newick serializes the lineage tree, see NewickString.
func (r *Result) Newick() string {
	return NewickString(r.Zygote)
}

// Generate runs the growth loop to completion and returns the resulting
// lineage. Each call starts a fresh tree.
func (s *Simulation) Generate() *Result {
	s.zygote = NewCell(1, 1, s.params.CycleTime)
	s.queue = append(s.queue[:0], s.zygote)
	s.generation = 1
	s.alive = 1
	s.divisions = 0
	s.quiescentEvents = 0

	for s.alive < s.params.TotalCells {
		current := s.dequeue()

		// The smallest ID on each depth level is a power of two and, under
		// FIFO dequeue order, is always the first of its level to surface.
		if current.ID&(current.ID-1) == 0 {
			s.generation++
		}

		s.applyFounderOverride(current)

		if current.Quiescent {
			s.revisitQuiescent(current)
		} else {
			s.divide(current)
		}
	}

	return &Result{
		Zygote:          s.zygote,
		Generations:     s.generation,
		AliveCells:      s.alive,
		Divisions:       s.divisions,
		QuiescentEvents: s.quiescentEvents,
	}
}

// applyFounderOverride replaces the cycle time of a configured founder cell
// with a draw uniform in [5/6, 7/6) of the preset cycle time. Matching is by
// exact binary name; a quiescent founder is re-perturbed on every revisit.
// The override never rewrites the cell's label: a dividing founder keeps its
// birth-time annotation while its daughters inherit the perturbed value.
func (s *Simulation) applyFounderOverride(c *Cell) {
	if len(s.founders) == 0 {
		return
	}
	if _, ok := s.founders[c.BinaryName()]; !ok {
		return
	}
	base := s.params.CycleTime
	c.CycleTime = base*5/6 + s.rng.Float64()*base/3
}

// revisitQuiescent re-enqueues a quiescent cell with a doubled cycle time.
// The doubled value replaces the cell's label annotation; no structural
// change happens, quiescent cells never produce daughters.
func (s *Simulation) revisitQuiescent(c *Cell) {
	s.queue = append(s.queue, c)
	c.CycleTime *= 2
	c.LabelTime = c.CycleTime
	s.quiescentEvents++
}

// divide creates both daughters atomically, drawing quiescence for each
// against the mitotic fraction at the current population. The alive count
// grows by exactly one per division event; this net-growth accounting is the
// preserved historical rule and changes termination timing if altered.
func (s *Simulation) divide(parent *Cell) {
	left := NewCell(parent.ID*2, s.generation, parent.CycleTime)
	if s.rng.Float64() > s.mitoticFraction() {
		left.Quiescent = true
	}
	parent.Left = left
	s.queue = append(s.queue, left)

	right := NewCell(parent.ID*2+1, s.generation, parent.CycleTime)
	if s.rng.Float64() > s.mitoticFraction() {
		right.Quiescent = true
	}
	parent.Right = right
	s.queue = append(s.queue, right)

	s.alive++
	s.divisions++
}

// mitoticFraction computes a^(N^b) for the current alive count N. A NaN
// fraction (pathological a or b) compares false against every draw and so
// silently disables quiescence.
func (s *Simulation) mitoticFraction() float64 {
	return math.Pow(s.params.MitoticA, math.Pow(float64(s.alive), s.params.MitoticB))
}

func (s *Simulation) dequeue() *Cell {
	c := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return c
}
