package core

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestReturnRecursion(t *testing.T) {
	_, q := newTestQTable(3)
	estimator := NewReturnEstimator(0.9)

	trajectory := Trajectory{
		{State: Position{2, 0}, Action: ActionRight, Reward: -1},
		{State: Position{2, 1}, Action: ActionUp, Reward: -1},
		{State: Position{1, 1}, Action: ActionRight, Reward: 10},
	}

	// With alpha=1 each zero-initialized cell takes on its suffix return:
	// G2 = 10, G1 = -1 + 0.9*10 = 8, G0 = -1 + 0.9*8 = 6.2.
	estimator.ComputeAndApply(q, trajectory, 1.0)

	wants := []float64{6.2, 8.0, 10.0}
	for i, want := range wants {
		step := trajectory[i]
		if got := q.Get(step.State, step.Action); !almostEqual(got, want) {
			t.Errorf("step %d: expected G=%v, got %v", i, want, got)
		}
	}
}

func TestIncrementalUpdateStep(t *testing.T) {
	_, q := newTestQTable(3)
	estimator := NewReturnEstimator(0.9)

	trajectory := Trajectory{
		{State: Position{2, 0}, Action: ActionRight, Reward: -1},
		{State: Position{2, 1}, Action: ActionUp, Reward: -1},
		{State: Position{1, 1}, Action: ActionRight, Reward: 10},
	}
	estimator.ComputeAndApply(q, trajectory, 0.1)

	// 0 + 0.1 * (6.2 - 0) at the first step.
	if got := q.Get(Position{2, 0}, ActionRight); !almostEqual(got, 0.62) {
		t.Errorf("expected 0.62, got %v", got)
	}
}

func TestEveryVisitUpdatesEachOccurrence(t *testing.T) {
	_, q := newTestQTable(3)
	estimator := NewReturnEstimator(0.9)

	// The same pair twice: a bounce at (2,0) then the same action again.
	trajectory := Trajectory{
		{State: Position{2, 0}, Action: ActionUp, Reward: -1},
		{State: Position{2, 0}, Action: ActionUp, Reward: -1},
	}
	estimator.ComputeAndApply(q, trajectory, 0.5)

	// Reverse order: first visit of the pair processed is the later step
	// (G=-1, value 0 -> -0.5), then the earlier one
	// (G = -1 + 0.9*-1 = -1.9, value -0.5 -> -0.5 + 0.5*(-1.9 - -0.5) = -1.2).
	if got := q.Get(Position{2, 0}, ActionUp); !almostEqual(got, -1.2) {
		t.Errorf("expected every-visit result -1.2, got %v", got)
	}
}

func TestEmptyTrajectoryIsNoOp(t *testing.T) {
	world, q := newTestQTable(3)
	NewReturnEstimator(0.9).ComputeAndApply(q, Trajectory{}, 0.5)

	for _, s := range world.States() {
		if s == world.Config().Goal {
			continue
		}
		for _, a := range Actions {
			if v := q.Get(s, a); v != 0.0 {
				t.Fatalf("expected untouched table, got %v at %s/%s", v, s, a)
			}
		}
	}
}
