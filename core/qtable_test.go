package core

import (
	"testing"

	"golang.org/x/exp/rand"
)

func newTestQTable(seed uint64) (*GridWorld, *QTable) {
	world := NewGridWorld(DefaultGridConfig())
	return world, NewQTable(world, rand.NewSource(seed))
}

func TestQTablePopulation(t *testing.T) {
	world, q := newTestQTable(1)

	// 13 non-wall cells minus the goal.
	if q.Size() != 12 {
		t.Fatalf("expected 12 entries, got %d", q.Size())
	}
	if q.Has(world.Config().Goal) {
		t.Error("goal cell should not have an entry")
	}
	for _, s := range world.States() {
		if s == world.Config().Goal {
			continue
		}
		if !q.Has(s) {
			t.Errorf("missing entry for %s", s)
		}
		for _, a := range Actions {
			if v := q.Get(s, a); v != 0.0 {
				t.Errorf("expected zero initial value at %s/%s, got %v", s, a, v)
			}
		}
	}
}

func TestQTableMaxAmongSingleMax(t *testing.T) {
	_, q := newTestQTable(1)
	state := Position{Row: 0, Col: 0}
	q.Set(state, ActionRight, 2.5)

	for i := 0; i < 20; i++ {
		action, val := q.MaxAmong(state)
		if action != ActionRight || val != 2.5 {
			t.Fatalf("expected (R, 2.5), got (%s, %v)", action, val)
		}
	}
}

func TestQTableMaxAmongTieBreak(t *testing.T) {
	_, q := newTestQTable(1)
	state := Position{Row: 0, Col: 0}
	q.Set(state, ActionUp, 1.0)
	q.Set(state, ActionLeft, 1.0)

	seen := make(map[Action]bool)
	for i := 0; i < 200; i++ {
		action, val := q.MaxAmong(state)
		if val != 1.0 {
			t.Fatalf("expected max value 1.0, got %v", val)
		}
		if action != ActionUp && action != ActionLeft {
			t.Fatalf("tie-break returned non-maximal action %s", action)
		}
		seen[action] = true
	}
	if len(seen) != 2 {
		t.Errorf("expected both tied actions over 200 draws, saw %v", seen)
	}
}

func TestQTableSnapshotIsCopy(t *testing.T) {
	_, q := newTestQTable(1)
	state := Position{Row: 0, Col: 0}

	snap := q.Snapshot()
	if len(snap) != 12 {
		t.Fatalf("expected 12 snapshot entries, got %d", len(snap))
	}
	snap[state.String()][ActionUp] = 99.0
	if q.Get(state, ActionUp) != 0.0 {
		t.Error("mutating the snapshot must not touch the table")
	}
}
