package analysis

import (
	"gridmc/core"
	"gridmc/util"

	"gonum.org/v1/gonum/stat"
)

type rewardDataset struct {
	Window   int       `json:"window"`
	Episodes []int     `json:"episodes"`
	Mean     []float64 `json:"mean"`
	StdDev   []float64 `json:"std_dev"`
}

func (d *rewardDataset) Copy() *rewardDataset {
	return &rewardDataset{
		Window:   d.Window,
		Episodes: util.CopyIntSlice(d.Episodes),
		Mean:     util.CopyFloatSlice(d.Mean),
		StdDev:   util.CopyFloatSlice(d.StdDev),
	}
}

// RewardAnalyzer turns the per-episode returns into a windowed learning
// curve: one (mean, stddev) point per window episodes.
type RewardAnalyzer struct {
	window  int
	pending []float64
	dataset *rewardDataset
}

var _ Analyzer = &RewardAnalyzer{}

func NewRewardAnalyzer(window int) *RewardAnalyzer {
	if window <= 0 {
		window = 50
	}
	return &RewardAnalyzer{
		window:  window,
		pending: make([]float64, 0, window),
		dataset: &rewardDataset{
			Window:   window,
			Episodes: make([]int, 0),
			Mean:     make([]float64, 0),
			StdDev:   make([]float64, 0),
		},
	}
}

func (r *RewardAnalyzer) Observe(episode int, _ core.Trajectory, totalReturn float64) {
	r.pending = append(r.pending, totalReturn)
	if len(r.pending) < r.window {
		return
	}
	mean, std := stat.MeanStdDev(r.pending, nil)
	r.dataset.Episodes = append(r.dataset.Episodes, episode)
	r.dataset.Mean = append(r.dataset.Mean, mean)
	r.dataset.StdDev = append(r.dataset.StdDev, std)
	r.pending = r.pending[:0]
}

func (r *RewardAnalyzer) DataSet() interface{} {
	return r.dataset.Copy()
}

func (r *RewardAnalyzer) Reset() {
	r.pending = r.pending[:0]
	r.dataset = &rewardDataset{
		Window:   r.window,
		Episodes: make([]int, 0),
		Mean:     make([]float64, 0),
		StdDev:   make([]float64, 0),
	}
}
