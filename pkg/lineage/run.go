package lineage

import "time"

// Run records one completed simulation for persistence: the inputs, the
// final population summary, and where the serialized tree artifact lives.
type Run struct {
	ID              string        `json:"id"`
	CreatedAt       time.Time     `json:"created_at"`
	Params          Params        `json:"params"`
	Generations     int           `json:"generations"`
	AliveCells      int           `json:"alive_cells"`
	Divisions       int           `json:"divisions"`
	QuiescentEvents int           `json:"quiescent_events"`
	ArtifactKey     string        `json:"artifact_key,omitempty"`
	Elapsed         time.Duration `json:"elapsed_ns"`
}
