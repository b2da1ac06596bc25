package core

import (
	"math"

	"golang.org/x/exp/rand"
)

// QTable holds the action-value estimates for every non-goal, non-wall cell.
// Entries are populated up front since the state space is small and static;
// a missing key is a programming error, not a lazily-filled default.
type QTable struct {
	entries map[Position]map[Action]float64

	rand *rand.Rand
}

func NewQTable(world *GridWorld, source rand.Source) *QTable {
	q := &QTable{
		entries: make(map[Position]map[Action]float64),
		rand:    rand.New(source),
	}
	goal := world.Config().Goal
	for _, s := range world.States() {
		if s == goal {
			continue
		}
		row := make(map[Action]float64, len(Actions))
		for _, a := range Actions {
			row[a] = 0.0
		}
		q.entries[s] = row
	}
	return q
}

func (q *QTable) Get(state Position, action Action) float64 {
	return q.entries[state][action]
}

func (q *QTable) Set(state Position, action Action, val float64) {
	q.entries[state][action] = val
}

func (q *QTable) Has(state Position) bool {
	_, ok := q.entries[state]
	return ok
}

func (q *QTable) Size() int {
	return len(q.entries)
}

// MaxAmong returns an action attaining the maximal value at state, breaking
// ties uniformly at random among the maximal set.
func (q *QTable) MaxAmong(state Position) (Action, float64) {
	maxActions := make([]Action, 0, len(Actions))
	maxVal := math.Inf(-1)
	for _, a := range Actions {
		val := q.entries[state][a]
		if val > maxVal {
			maxActions = maxActions[:0]
			maxVal = val
		}
		if val == maxVal {
			maxActions = append(maxActions, a)
		}
	}
	return maxActions[q.rand.Intn(len(maxActions))], maxVal
}

// Snapshot returns a deep copy keyed by the stable "row,col" encoding.
func (q *QTable) Snapshot() map[string]map[Action]float64 {
	out := make(map[string]map[Action]float64, len(q.entries))
	for state, row := range q.entries {
		entry := make(map[Action]float64, len(row))
		for a, val := range row {
			entry[a] = val
		}
		out[state.String()] = entry
	}
	return out
}
