package lineage

import (
	"testing"

	"github.com/zeebo/assert"
)

func TestCellBinaryName(t *testing.T) {
	cases := []struct {
		id   int
		name string
	}{
		{1, "1"},
		{2, "10"},
		{3, "11"},
		{6, "110"},
		{13, "1101"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.name, NewCell(tc.id, 1, 1.0).BinaryName())
	}
}

func TestCellString(t *testing.T) {
	c := NewCell(5, 3, 1.25)
	c.Quiescent = true
	assert.Equal(t, "Cell{name=101, gen=3, cycle=1.25, quiescent=true}", c.String())
}
