package core

import (
	"math"
	"sort"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultEpsilonMin is the exploration floor of the epsilon schedule.
	DefaultEpsilonMin = 0.05

	// epsilonDecayEpisodes is the linear-decay span of the schedule.
	epsilonDecayEpisodes = 1000.0

	// GoalMarker is the policy-snapshot sentinel for the goal cell.
	GoalMarker = "G"
)

type TrainParams struct {
	Episodes  int
	Alpha     float64
	EvalEvery int
	NEval     int
}

// Observer is notified after every training episode. Implementations must
// not retain the trajectory beyond the call.
type Observer interface {
	Observe(episode int, trajectory Trajectory, totalReturn float64)
}

type EvalPoint struct {
	Episode   int     `json:"episode"`
	AvgReturn float64 `json:"avg_return"`
}

type GridInfo struct {
	Height int      `json:"H"`
	Width  int      `json:"W"`
	Start  [2]int   `json:"start"`
	Goal   [2]int   `json:"goal"`
	Walls  [][2]int `json:"walls"`
}

// Snapshot is a consistent view of training progress, safe to serialize.
// Policy holds a greedy action per cell, nil for walls and GoalMarker for the
// goal; at value plateaus the greedy action is a uniform random pick among
// the maximal set, so two snapshots without intervening training may differ.
type Snapshot struct {
	Grid          GridInfo                      `json:"grid"`
	Episode       int                           `json:"episode"`
	Epsilon       float64                       `json:"epsilon"`
	Q             map[string]map[Action]float64 `json:"Q"`
	Policy        map[string]*string            `json:"policy"`
	RewardHistory []float64                     `json:"reward_history"`
	EvalHistory   []EvalPoint                   `json:"eval_history"`
}

// Trainer owns the value table and training state. It is not safe for
// concurrent use: Train, Evaluate and Snapshot must be serialized by the
// caller, since Evaluate and Snapshot read the table that Train mutates in
// place.
type Trainer struct {
	world      *GridWorld
	policy     *EpsilonGreedyPolicy
	episodes   *EpisodeGenerator
	estimator  *ReturnEstimator
	epsilonMin float64
	seed       uint64

	q             *QTable
	episode       int
	rewardHistory []float64
	evalHistory   []EvalPoint

	observers []Observer
}

func NewTrainer(config GridConfig, seed uint64) (*Trainer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	world := NewGridWorld(config)
	policy := NewEpsilonGreedyPolicy(rand.NewSource(seed))
	t := &Trainer{
		world:      world,
		policy:     policy,
		episodes:   NewEpisodeGenerator(world, policy),
		estimator:  NewReturnEstimator(config.Gamma),
		epsilonMin: DefaultEpsilonMin,
		seed:       seed,
	}
	t.Reset()
	return t, nil
}

func (t *Trainer) AddObserver(o Observer) {
	t.observers = append(t.observers, o)
}

// Reset reinitializes the value table to zeros and clears the episode
// counter and histories. This is also the state at construction.
func (t *Trainer) Reset() {
	t.q = NewQTable(t.world, rand.NewSource(t.seed+1))
	t.episode = 0
	t.rewardHistory = make([]float64, 0)
	t.evalHistory = make([]EvalPoint, 0)
}

func (t *Trainer) Episode() int {
	return t.episode
}

// EpsilonAt is the exploration schedule: linear decay from 1.0 over the
// first thousand episodes, floored at the epsilon minimum so exploration
// never fully vanishes.
func (t *Trainer) EpsilonAt(episode int) float64 {
	return math.Max(t.epsilonMin, 1.0-float64(episode)/epsilonDecayEpisodes)
}

// Train runs params.Episodes training episodes, applying the every-visit
// Monte Carlo update after each. Every EvalEvery episodes a greedy
// evaluation of NEval episodes is recorded in the evaluation history.
// Parameters are assumed well-formed; bounds checking happens at the
// boundary that accepts them.
func (t *Trainer) Train(params TrainParams) error {
	for i := 0; i < params.Episodes; i++ {
		eps := t.EpsilonAt(t.episode)
		trajectory, totalReturn, err := t.episodes.Run(t.q, eps)
		if err != nil {
			return err
		}
		t.estimator.ComputeAndApply(t.q, trajectory, params.Alpha)
		t.rewardHistory = append(t.rewardHistory, totalReturn)
		t.episode++

		for _, o := range t.observers {
			o.Observe(t.episode, trajectory, totalReturn)
		}

		if params.EvalEvery > 0 && t.episode%params.EvalEvery == 0 {
			avg, err := t.Evaluate(params.NEval)
			if err != nil {
				return err
			}
			t.evalHistory = append(t.evalHistory, EvalPoint{Episode: t.episode, AvgReturn: avg})
		}
	}
	return nil
}

// Evaluate runs nEval fully greedy episodes without touching the value table
// and returns their mean total return.
func (t *Trainer) Evaluate(nEval int) (float64, error) {
	returns := make([]float64, nEval)
	for i := 0; i < nEval; i++ {
		_, totalReturn, err := t.episodes.Run(t.q, 0.0)
		if err != nil {
			return 0, err
		}
		returns[i] = totalReturn
	}
	return stat.Mean(returns, nil), nil
}

// Snapshot assembles the externally visible training state without mutating
// it.
func (t *Trainer) Snapshot() Snapshot {
	cfg := t.world.Config()

	policy := make(map[string]*string, cfg.Height*cfg.Width)
	for r := 0; r < cfg.Height; r++ {
		for c := 0; c < cfg.Width; c++ {
			p := Position{Row: r, Col: c}
			switch {
			case cfg.Walls[p]:
				policy[p.String()] = nil
			case p == cfg.Goal:
				marker := GoalMarker
				policy[p.String()] = &marker
			default:
				action, _ := t.q.MaxAmong(p)
				name := string(action)
				policy[p.String()] = &name
			}
		}
	}

	rewards := make([]float64, len(t.rewardHistory))
	copy(rewards, t.rewardHistory)
	evals := make([]EvalPoint, len(t.evalHistory))
	copy(evals, t.evalHistory)

	return Snapshot{
		Grid:          t.gridInfo(),
		Episode:       t.episode,
		Epsilon:       t.EpsilonAt(t.episode),
		Q:             t.q.Snapshot(),
		Policy:        policy,
		RewardHistory: rewards,
		EvalHistory:   evals,
	}
}

func (t *Trainer) gridInfo() GridInfo {
	cfg := t.world.Config()
	walls := make([][2]int, 0, len(cfg.Walls))
	for w := range cfg.Walls {
		walls = append(walls, [2]int{w.Row, w.Col})
	}
	sort.Slice(walls, func(i, j int) bool {
		if walls[i][0] != walls[j][0] {
			return walls[i][0] < walls[j][0]
		}
		return walls[i][1] < walls[j][1]
	})
	return GridInfo{
		Height: cfg.Height,
		Width:  cfg.Width,
		Start:  [2]int{cfg.Start.Row, cfg.Start.Col},
		Goal:   [2]int{cfg.Goal.Row, cfg.Goal.Col},
		Walls:  walls,
	}
}
