package lineage

import (
	"fmt"
	"strings"
)

// NewickString serializes the tree rooted at root in Newick notation: leaves
// as `id:labelTime`, internal nodes as `(left,right)id:labelTime`, times in
// 4-decimal fixed point. Annotations come from each cell's LabelTime, not its
// current CycleTime, so founder overrides applied at division are not
// reflected in the dividing cell's own label. No trailing semicolon is
// appended, matching the artifact format consumed by downstream viewers of
// historical runs.
func NewickString(root *Cell) string {
	var b strings.Builder
	writeNewick(&b, root)
	return b.String()
}

func writeNewick(b *strings.Builder, c *Cell) {
	if c.Left != nil {
		b.WriteByte('(')
		writeNewick(b, c.Left)
		b.WriteByte(',')
		writeNewick(b, c.Right)
		b.WriteByte(')')
	}
	fmt.Fprintf(b, "%d:%.4f", c.ID, c.LabelTime)
}
