package analysis

import (
	"gridmc/core"
	"gridmc/util"
)

type visitDataset struct {
	Episodes int            `json:"episodes"`
	Counts   map[string]int `json:"counts"`
}

func (d *visitDataset) Copy() *visitDataset {
	return &visitDataset{
		Episodes: d.Episodes,
		Counts:   util.CopyStringIntMap(d.Counts),
	}
}

// VisitAnalyzer counts how often each cell appears across training
// trajectories. Useful for spotting unexplored regions of the grid.
type VisitAnalyzer struct {
	dataset *visitDataset
}

var _ Analyzer = &VisitAnalyzer{}

func NewVisitAnalyzer() *VisitAnalyzer {
	return &VisitAnalyzer{
		dataset: &visitDataset{
			Counts: make(map[string]int),
		},
	}
}

func (v *VisitAnalyzer) Observe(_ int, trajectory core.Trajectory, _ float64) {
	for _, step := range trajectory {
		v.dataset.Counts[step.State.String()]++
	}
	v.dataset.Episodes++
}

func (v *VisitAnalyzer) DataSet() interface{} {
	return v.dataset.Copy()
}

func (v *VisitAnalyzer) Reset() {
	v.dataset = &visitDataset{
		Counts: make(map[string]int),
	}
}
