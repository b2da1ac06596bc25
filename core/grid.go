package core

import (
	"errors"
	"fmt"
)

var ErrUnknownAction = errors.New("unknown action")

// Position is a cell on the grid, identified by value.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.Row, p.Col)
}

type Action string

const (
	ActionUp    Action = "U"
	ActionDown  Action = "D"
	ActionLeft  Action = "L"
	ActionRight Action = "R"
)

// Actions is the fixed action set, in canonical order.
var Actions = []Action{ActionUp, ActionDown, ActionLeft, ActionRight}

type GridConfig struct {
	Height     int
	Width      int
	Start      Position
	Goal       Position
	Walls      map[Position]bool
	StepReward float64
	GoalReward float64
	Gamma      float64
	MaxSteps   int
}

// DefaultGridConfig is the fixed deployment grid.
func DefaultGridConfig() GridConfig {
	return GridConfig{
		Height: 3,
		Width:  5,
		Start:  Position{Row: 2, Col: 0},
		Goal:   Position{Row: 2, Col: 4},
		Walls: map[Position]bool{
			{Row: 1, Col: 2}: true,
			{Row: 2, Col: 2}: true,
		},
		StepReward: -1.0,
		GoalReward: 10.0,
		Gamma:      0.9,
		MaxSteps:   50,
	}
}

func (c GridConfig) Validate() error {
	if c.Height <= 0 || c.Width <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got %dx%d", c.Height, c.Width)
	}
	if c.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d", c.MaxSteps)
	}
	if !c.inBounds(c.Start) {
		return fmt.Errorf("start %s out of bounds", c.Start)
	}
	if !c.inBounds(c.Goal) {
		return fmt.Errorf("goal %s out of bounds", c.Goal)
	}
	for w := range c.Walls {
		if !c.inBounds(w) {
			return fmt.Errorf("wall %s out of bounds", w)
		}
	}
	if c.Walls[c.Start] {
		return fmt.Errorf("start %s is a wall", c.Start)
	}
	if c.Walls[c.Goal] {
		return fmt.Errorf("goal %s is a wall", c.Goal)
	}
	return nil
}

func (c GridConfig) inBounds(p Position) bool {
	return p.Row >= 0 && p.Row < c.Height && p.Col >= 0 && p.Col < c.Width
}

// GridWorld is the deterministic environment. It carries no mutable state;
// Transition is a pure function of the configuration.
type GridWorld struct {
	config GridConfig
}

func NewGridWorld(config GridConfig) *GridWorld {
	return &GridWorld{config: config}
}

func (g *GridWorld) Config() GridConfig {
	return g.config
}

// IsValid reports whether cell is within bounds and not a wall.
func (g *GridWorld) IsValid(cell Position) bool {
	return g.config.inBounds(cell) && !g.config.Walls[cell]
}

// States returns every non-wall cell in row-major order.
func (g *GridWorld) States() []Position {
	states := make([]Position, 0, g.config.Height*g.config.Width)
	for r := 0; r < g.config.Height; r++ {
		for c := 0; c < g.config.Width; c++ {
			p := Position{Row: r, Col: c}
			if !g.config.Walls[p] {
				states = append(states, p)
			}
		}
	}
	return states
}

// Transition applies action at state and returns the successor cell, the
// reward and whether the episode terminates. The goal is absorbing. Moving
// into a wall or off the grid leaves the agent in place at the ordinary step
// cost; bumping a wall simply wastes a step.
func (g *GridWorld) Transition(state Position, action Action) (Position, float64, bool, error) {
	next := state
	switch action {
	case ActionUp:
		next.Row--
	case ActionDown:
		next.Row++
	case ActionLeft:
		next.Col--
	case ActionRight:
		next.Col++
	default:
		return state, 0, false, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	if state == g.config.Goal {
		return state, 0, true, nil
	}

	if !g.IsValid(next) {
		next = state
	}

	if next == g.config.Goal {
		return next, g.config.GoalReward, true, nil
	}
	return next, g.config.StepReward, false, nil
}
