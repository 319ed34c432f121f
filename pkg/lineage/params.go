package lineage

// Params configures one simulation run. The engine performs no validation;
// pathological values (non-positive targets, parameters whose fractional
// powers yield NaN) propagate into arithmetic outcomes rather than errors.
// Operator-facing layers validate before constructing a simulation.
type Params struct {
	// TotalCells is the target population; generation stops once the alive
	// count reaches it.
	TotalCells int `json:"total_cells"`
	// CycleTime is the uniform cell cycle time assigned to the zygote and
	// inherited by daughters at division.
	CycleTime float64 `json:"cycle_time"`
	// MitoticA and MitoticB parameterize the mitotic fraction a^(N^b),
	// evaluated against the alive count N at each daughter's creation.
	MitoticA float64 `json:"mitotic_a"`
	MitoticB float64 `json:"mitotic_b"`
	// Founders lists binary-position names of cells that receive a perturbed
	// cycle time when dequeued. Names that never match a live cell are
	// silently ignored.
	Founders []string `json:"founders,omitempty"`
}
