package core

// ReturnEstimator computes discounted returns over a trajectory and applies
// the incremental every-visit Monte Carlo update to a QTable.
type ReturnEstimator struct {
	gamma float64
}

func NewReturnEstimator(gamma float64) *ReturnEstimator {
	return &ReturnEstimator{gamma: gamma}
}

// ComputeAndApply walks the trajectory in reverse, accumulating the
// discounted return G = r + gamma*G, and moves each visited (state, action)
// estimate toward G by alpha. A pair visited more than once in the episode is
// updated once per visit, each time toward that suffix's return.
func (r *ReturnEstimator) ComputeAndApply(q *QTable, trajectory Trajectory, alpha float64) {
	G := 0.0
	for i := len(trajectory) - 1; i >= 0; i-- {
		step := trajectory[i]
		G = step.Reward + r.gamma*G
		cur := q.Get(step.State, step.Action)
		q.Set(step.State, step.Action, cur+alpha*(G-cur))
	}
}
