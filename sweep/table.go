package sweep

import (
	"bufio"
	"fmt"
	"io"

	"gonum.org/v1/gonum/mat"
)

// Cell accumulates the scores of repeated samples of one configuration.
type Cell struct {
	Param Param
	// Sum of scores until finalized, then their mean.
	Mean    float64
	Max     float64
	Samples int
	Final   bool
}

// Table holds one Cell per configuration in order of insertion.
type Table struct {
	cells []*Cell
	index map[string]int
}

func NewTable() *Table {
	return &Table{index: make(map[string]int)}
}

func (t *Table) cell(p Param) *Cell {
	key := p.Key()
	if i, ok := t.index[key]; ok {
		return t.cells[i]
	}
	c := &Cell{Param: p}
	t.index[key] = len(t.cells)
	t.cells = append(t.cells, c)
	return c
}

// Add records the score of one sample.
func (t *Table) Add(p Param, score float64) {
	c := t.cell(p)
	if c.Final {
		panic(fmt.Sprintf("add to finalized cell: %s", p.ID()))
	}
	if c.Samples == 0 || score > c.Max {
		c.Max = score
	}
	c.Mean += score
	c.Samples++
}

// Put inserts a finalized cell, such as one loaded from a previous run.
// It replaces any cell with the same parameters.
func (t *Table) Put(c Cell) {
	c.Final = true
	*t.cell(c.Param) = c
}

// Finalize converts the sum of a configuration into the mean.
func (t *Table) Finalize(p Param) Cell {
	c := t.cell(p)
	if !c.Final && c.Samples > 0 {
		c.Mean /= float64(c.Samples)
	}
	c.Final = true
	return *c
}

// Cells returns a copy of the cells in order of insertion.
func (t *Table) Cells() []Cell {
	cells := make([]Cell, len(t.cells))
	for i, c := range t.cells {
		cells[i] = *c
	}
	return cells
}

// Matrices arranges the mean and max scores by reservoir size (rows)
// and number of layers (columns).
// If several cells share a size and depth, the last one is used.
// Entries without a cell are zero.
func (t *Table) Matrices(sizes, layers []int) (mean, max *mat.Dense) {
	mean = mat.NewDense(len(sizes), len(layers), nil)
	max = mat.NewDense(len(sizes), len(layers), nil)
	for _, c := range t.cells {
		for i, size := range sizes {
			for j, n := range layers {
				if c.Param.ReservoirSize == size && c.Param.Layers == n {
					mean.Set(i, j, c.Mean)
					max.Set(i, j, c.Max)
				}
			}
		}
	}
	return mean, max
}

// WriteTSV writes one line per cell with the given parameter fields.
func (t *Table) WriteTSV(w io.Writer, fields []string) error {
	buf := bufio.NewWriter(w)
	fmt.Fprint(buf, "Key")
	for _, name := range fields {
		fmt.Fprintf(buf, "\t%s", name)
	}
	fmt.Fprintln(buf, "\tSamples\tMeanF1\tMaxF1")
	for _, c := range t.cells {
		fmt.Fprint(buf, c.Param.Key())
		for _, name := range fields {
			fmt.Fprintf(buf, "\t%s", c.Param.Field(name))
		}
		fmt.Fprintf(buf, "\t%d\t%g\t%g\n", c.Samples, c.Mean, c.Max)
	}
	return buf.Flush()
}
