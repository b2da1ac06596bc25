package experiment

import (
	"gridmc/analysis"
	"gridmc/core"
)

// Experiment is one training configuration to run and compare.
type Experiment struct {
	Name   string
	Grid   core.GridConfig
	Params core.TrainParams
	Seed   uint64
}

// Result is the outcome of one experiment.
type Result struct {
	index int

	Name        string                 `json:"name"`
	Episodes    int                    `json:"episodes"`
	FinalEval   float64                `json:"final_eval"`
	EvalHistory []core.EvalPoint       `json:"eval_history"`
	Datasets    map[string]interface{} `json:"datasets"`

	Err error `json:"-"`
}

func (r *Result) IsError() bool {
	return r.Err != nil
}

// AnalyzerConstructor builds a fresh analyzer per experiment, so parallel
// workers never share one.
type AnalyzerConstructor func() analysis.Analyzer

// Comparison is a set of experiments trained side by side, each with its own
// trainer and analyzers.
type Comparison struct {
	Experiments []*Experiment
	Analyzers   map[string]AnalyzerConstructor
}

func NewComparison() *Comparison {
	return &Comparison{
		Experiments: make([]*Experiment, 0),
		Analyzers:   make(map[string]AnalyzerConstructor),
	}
}

func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

func (c *Comparison) AddAnalyzer(name string, cons AnalyzerConstructor) {
	c.Analyzers[name] = cons
}
