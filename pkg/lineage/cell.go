// Package lineage defines the cell entity, the lineage generation engine,
// and the persistence primitives used by lineagecore.
package lineage

import (
	"fmt"
	"strconv"
)

// Cell is a single node in the lineage tree. Identity encodes tree position
// in binary: the root is 1, the left daughter of cell n is 2n and the right
// daughter is 2n+1. The binary digit string of ID, read after the leading 1,
// is the root-to-cell path (0 = left, 1 = right).
type Cell struct {
	ID         int
	Generation int
	CycleTime  float64
	// LabelTime is the cycle time carried by the cell's label in the
	// serialized tree: fixed at birth, refreshed only when a quiescent
	// revisit doubles the cycle time. A founder override applied to a cell
	// that then divides changes CycleTime (and what its daughters inherit)
	// but not the cell's own label.
	LabelTime float64
	Left      *Cell
	Right     *Cell
	Quiescent bool
}

// NewCell constructs a cell with no daughters in the non-quiescent state.
func NewCell(id, generation int, cycleTime float64) *Cell {
	return &Cell{ID: id, Generation: generation, CycleTime: cycleTime, LabelTime: cycleTime}
}

// BinaryName renders the cell's ID as a binary digit string with no padding.
// Founder identifiers are matched against this rendering.
func (c *Cell) BinaryName() string {
	return strconv.FormatInt(int64(c.ID), 2)
}

// IsLeaf reports whether the cell has not divided. Division is atomic, so
// checking one daughter link suffices.
func (c *Cell) IsLeaf() bool {
	return c.Left == nil
}

func (c *Cell) String() string {
	return fmt.Sprintf("Cell{name=%s, gen=%d, cycle=%.2f, quiescent=%t}",
		c.BinaryName(), c.Generation, c.CycleTime, c.Quiescent)
}
