package core

import (
	"testing"
)

func newTestTrainer(t *testing.T, seed uint64) *Trainer {
	t.Helper()
	trainer, err := NewTrainer(DefaultGridConfig(), seed)
	if err != nil {
		t.Fatalf("NewTrainer: %v", err)
	}
	return trainer
}

func TestTrainerRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultGridConfig()
	cfg.Goal = Position{Row: 9, Col: 9}
	if _, err := NewTrainer(cfg, 1); err == nil {
		t.Fatal("expected config validation error")
	}
}

func TestEpsilonSchedule(t *testing.T) {
	trainer := newTestTrainer(t, 1)

	cases := []struct {
		episode int
		want    float64
	}{
		{0, 1.0},
		{100, 0.9},
		{500, 0.5},
		{950, 0.05},
		{1000, 0.05},
		{5000, 0.05},
	}
	for _, c := range cases {
		if got := trainer.EpsilonAt(c.episode); !almostEqual(got, c.want) {
			t.Errorf("EpsilonAt(%d): expected %v, got %v", c.episode, c.want, got)
		}
	}
}

func TestResetIdempotent(t *testing.T) {
	trainer := newTestTrainer(t, 1)
	if err := trainer.Train(TrainParams{Episodes: 20, Alpha: 0.1, EvalEvery: 10, NEval: 5}); err != nil {
		t.Fatalf("Train: %v", err)
	}

	trainer.Reset()
	first := trainer.Snapshot()
	trainer.Reset()
	second := trainer.Snapshot()

	for _, snap := range []Snapshot{first, second} {
		if snap.Episode != 0 {
			t.Errorf("expected episode 0 after reset, got %d", snap.Episode)
		}
		if len(snap.RewardHistory) != 0 || len(snap.EvalHistory) != 0 {
			t.Errorf("expected empty histories after reset, got %d/%d", len(snap.RewardHistory), len(snap.EvalHistory))
		}
		if !almostEqual(snap.Epsilon, 1.0) {
			t.Errorf("expected scheduled epsilon 1.0 at episode 0, got %v", snap.Epsilon)
		}
		for key, row := range snap.Q {
			for a, v := range row {
				if v != 0.0 {
					t.Errorf("expected zeroed table, got %v at %s/%s", v, key, a)
				}
			}
		}
	}
}

func TestTrainCountsAndHistory(t *testing.T) {
	trainer := newTestTrainer(t, 1)

	if err := trainer.Train(TrainParams{Episodes: 37, Alpha: 0.1, EvalEvery: 100, NEval: 5}); err != nil {
		t.Fatalf("Train: %v", err)
	}
	if trainer.Episode() != 37 {
		t.Errorf("expected episode counter 37, got %d", trainer.Episode())
	}

	snap := trainer.Snapshot()
	if len(snap.RewardHistory) != 37 {
		t.Errorf("expected 37 reward entries, got %d", len(snap.RewardHistory))
	}

	// Counter accumulates across calls.
	if err := trainer.Train(TrainParams{Episodes: 13, Alpha: 0.1, EvalEvery: 100, NEval: 5}); err != nil {
		t.Fatalf("Train: %v", err)
	}
	if trainer.Episode() != 50 {
		t.Errorf("expected episode counter 50, got %d", trainer.Episode())
	}
}

func TestEvaluationCadence(t *testing.T) {
	trainer := newTestTrainer(t, 1)

	if err := trainer.Train(TrainParams{Episodes: 150, Alpha: 0.1, EvalEvery: 50, NEval: 5}); err != nil {
		t.Fatalf("Train: %v", err)
	}

	snap := trainer.Snapshot()
	if len(snap.EvalHistory) != 3 {
		t.Fatalf("expected 3 eval entries, got %d", len(snap.EvalHistory))
	}
	for i, wantEpisode := range []int{50, 100, 150} {
		if snap.EvalHistory[i].Episode != wantEpisode {
			t.Errorf("eval entry %d: expected episode %d, got %d", i, wantEpisode, snap.EvalHistory[i].Episode)
		}
	}
}

func TestSnapshotPolicyValidity(t *testing.T) {
	trainer := newTestTrainer(t, 1)
	snap := trainer.Snapshot()

	cfg := DefaultGridConfig()
	if len(snap.Policy) != cfg.Height*cfg.Width {
		t.Fatalf("expected %d policy entries, got %d", cfg.Height*cfg.Width, len(snap.Policy))
	}

	valid := map[string]bool{"U": true, "D": true, "L": true, "R": true}
	for r := 0; r < cfg.Height; r++ {
		for c := 0; c < cfg.Width; c++ {
			p := Position{Row: r, Col: c}
			entry, ok := snap.Policy[p.String()]
			if !ok {
				t.Fatalf("missing policy entry for %s", p)
			}
			switch {
			case cfg.Walls[p]:
				if entry != nil {
					t.Errorf("wall %s: expected nil, got %q", p, *entry)
				}
			case p == cfg.Goal:
				if entry == nil || *entry != GoalMarker {
					t.Errorf("goal %s: expected %q marker", p, GoalMarker)
				}
			default:
				if entry == nil || !valid[*entry] {
					t.Errorf("cell %s: expected an action, got %v", p, entry)
				}
			}
		}
	}
}

func TestObserverNotifiedPerEpisode(t *testing.T) {
	trainer := newTestTrainer(t, 1)

	var episodes []int
	trainer.AddObserver(observerFunc(func(episode int, _ Trajectory, _ float64) {
		episodes = append(episodes, episode)
	}))

	if err := trainer.Train(TrainParams{Episodes: 5, Alpha: 0.1, EvalEvery: 100, NEval: 5}); err != nil {
		t.Fatalf("Train: %v", err)
	}
	if len(episodes) != 5 {
		t.Fatalf("expected 5 notifications, got %d", len(episodes))
	}
	for i, e := range episodes {
		if e != i+1 {
			t.Errorf("notification %d: expected episode %d, got %d", i, i+1, e)
		}
	}
}

type observerFunc func(int, Trajectory, float64)

func (f observerFunc) Observe(episode int, trajectory Trajectory, totalReturn float64) {
	f(episode, trajectory, totalReturn)
}

func TestTrainingImprovesGreedyReturn(t *testing.T) {
	if testing.Short() {
		t.Skip("long training run")
	}
	trainer := newTestTrainer(t, 42)

	if err := trainer.Train(TrainParams{Episodes: 2000, Alpha: 0.1, EvalEvery: 100, NEval: 20}); err != nil {
		t.Fatalf("Train: %v", err)
	}

	snap := trainer.Snapshot()
	if len(snap.EvalHistory) != 20 {
		t.Fatalf("expected 20 eval entries, got %d", len(snap.EvalHistory))
	}
	first := snap.EvalHistory[0].AvgReturn
	last := snap.EvalHistory[len(snap.EvalHistory)-1].AvgReturn
	if last < first-0.5 {
		t.Errorf("expected greedy return to improve: first %v, last %v", first, last)
	}
	// The shortest route is 8 steps: 7 step costs plus the goal reward = 3.
	// Converged training should be well clear of the never-reaches-goal
	// baseline of -50.
	if last < 0 {
		t.Errorf("expected converged greedy return above 0, got %v", last)
	}
}
