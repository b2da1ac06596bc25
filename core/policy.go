package core

import (
	"golang.org/x/exp/rand"
)

// EpsilonGreedyPolicy selects actions from a QTable. With probability epsilon
// it explores uniformly over the whole action set, otherwise it exploits the
// maximal-value actions with a uniform tie-break.
type EpsilonGreedyPolicy struct {
	rand *rand.Rand
}

func NewEpsilonGreedyPolicy(source rand.Source) *EpsilonGreedyPolicy {
	return &EpsilonGreedyPolicy{
		rand: rand.New(source),
	}
}

// Select picks an action for state. Epsilon outside [0,1] is not rejected:
// values at or above 1 behave as always-random, at or below 0 as
// always-greedy.
func (p *EpsilonGreedyPolicy) Select(q *QTable, state Position, epsilon float64) Action {
	if p.rand.Float64() < epsilon {
		return Actions[p.rand.Intn(len(Actions))]
	}
	action, _ := q.MaxAmong(state)
	return action
}
