// Package core wires the lineage domain to persistence, artifact storage,
// and observability.
package core

import "lineagecore/pkg/lineage"

type (
	Cell       = lineage.Cell
	Params     = lineage.Params
	Result     = lineage.Result
	Run        = lineage.Run
	RunStore   = lineage.RunStore
	Rand       = lineage.Rand
	Simulation = lineage.Simulation
)
