package core

// TimeStep is one (state, action, reward) triple of a trajectory.
type TimeStep struct {
	State  Position
	Action Action
	Reward float64
}

// Trajectory is the ordered step sequence of a single episode. It is built
// fresh per episode and discarded once its return has been applied.
type Trajectory []TimeStep

// EpisodeGenerator drives the environment and policy to produce one bounded
// trajectory.
type EpisodeGenerator struct {
	world  *GridWorld
	policy *EpsilonGreedyPolicy
}

func NewEpisodeGenerator(world *GridWorld, policy *EpsilonGreedyPolicy) *EpisodeGenerator {
	return &EpisodeGenerator{
		world:  world,
		policy: policy,
	}
}

// Run generates one episode from the start cell and returns the trajectory
// and its total (undiscounted) return. The trajectory is capped at the
// configured step limit regardless of policy behaviour, and is empty when
// the start cell is the goal.
func (e *EpisodeGenerator) Run(q *QTable, epsilon float64) (Trajectory, float64, error) {
	cfg := e.world.Config()
	state := cfg.Start
	trajectory := make(Trajectory, 0, cfg.MaxSteps)
	totalReturn := 0.0

	for step := 0; step < cfg.MaxSteps; step++ {
		if state == cfg.Goal {
			break
		}
		action := e.policy.Select(q, state, epsilon)
		next, reward, done, err := e.world.Transition(state, action)
		if err != nil {
			return nil, 0, err
		}
		trajectory = append(trajectory, TimeStep{State: state, Action: action, Reward: reward})
		totalReturn += reward
		state = next
		if done {
			break
		}
	}
	return trajectory, totalReturn, nil
}
