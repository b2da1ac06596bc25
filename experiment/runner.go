package experiment

import (
	"context"
	"fmt"
	"path"
	"time"

	"gridmc/analysis"
	"gridmc/core"
	"gridmc/util"
)

// RunConfig controls how a comparison is run.
type RunConfig struct {
	// NEvalFinal is the greedy episode count of the final evaluation.
	NEvalFinal int
	// ChunkSize is the number of episodes trained between progress updates
	// and context checks. Defaults to the experiment's EvalEvery.
	ChunkSize int
	// SavePath, when set, is the directory the results are recorded to.
	SavePath string
	// Progress enables the live terminal output.
	Progress bool
}

type work struct {
	index      int
	experiment *Experiment
	comp       *Comparison
	line       *util.ProgressLine
	cfg        *RunConfig
}

// Workers drain the queue even after cancellation; runWork observes the
// context and fails fast, so every queued experiment yields a result.
func runWorker(ctx context.Context, workCh <-chan *work, resultsCh chan<- *Result) {
	for wk := range workCh {
		resultsCh <- runWork(ctx, wk)
	}
}

func runWork(ctx context.Context, wk *work) *Result {
	e := wk.experiment
	result := &Result{
		index:    wk.index,
		Name:     e.Name,
		Datasets: make(map[string]interface{}),
	}

	trainer, err := core.NewTrainer(e.Grid, e.Seed)
	if err != nil {
		result.Err = err
		return result
	}

	analyzers := make(map[string]analysis.Analyzer, len(wk.comp.Analyzers))
	for name, cons := range wk.comp.Analyzers {
		a := cons()
		analyzers[name] = a
		trainer.AddObserver(a)
	}

	chunk := wk.cfg.ChunkSize
	if chunk <= 0 {
		chunk = e.Params.EvalEvery
	}
	// A non-positive chunk would never drain the episode budget.
	if chunk <= 0 {
		chunk = e.Params.Episodes
	}
	remaining := e.Params.Episodes
	for remaining > 0 {
		select {
		case <-ctx.Done():
			result.Err = ctx.Err()
			return result
		default:
		}

		n := chunk
		if n > remaining {
			n = remaining
		}
		params := e.Params
		params.Episodes = n
		if err := trainer.Train(params); err != nil {
			result.Err = err
			return result
		}
		remaining -= n

		if wk.line != nil {
			wk.line.TrySet(fmt.Sprintf(
				"Experiment: %s, Episode %d/%d",
				e.Name, trainer.Episode(), e.Params.Episodes,
			))
		}
	}

	finalEval, err := trainer.Evaluate(wk.cfg.NEvalFinal)
	if err != nil {
		result.Err = err
		return result
	}
	result.Episodes = trainer.Episode()
	result.FinalEval = finalEval
	result.EvalHistory = trainer.Snapshot().EvalHistory
	for name, a := range analyzers {
		result.Datasets[name] = a.DataSet()
	}

	if wk.line != nil {
		wk.line.Set(fmt.Sprintf(
			"Experiment: %s, Episode %d/%d, FinalEval: %.2f",
			e.Name, trainer.Episode(), e.Params.Episodes, finalEval,
		))
	}
	return result
}

// Run trains every experiment on a pool of parallel workers and returns the
// results in experiment order. Each worker owns its trainer and analyzers
// outright; nothing is shared across experiments.
func (c *Comparison) Run(ctx context.Context, cfg *RunConfig, parallelism int) ([]*Result, error) {
	if parallelism <= 0 {
		parallelism = 1
	}

	var printer *util.TerminalPrinter
	lines := make([]*util.ProgressLine, len(c.Experiments))
	if cfg.Progress {
		printer = util.NewTerminalPrinter(100 * time.Millisecond)
		for i := range c.Experiments {
			lines[i] = printer.NewLine()
		}
		printer.Start(ctx)
		defer printer.Stop()
	}

	workCh := make(chan *work, len(c.Experiments))
	resultsCh := make(chan *Result, len(c.Experiments))

	for i := 0; i < parallelism; i++ {
		go runWorker(ctx, workCh, resultsCh)
	}

	for i, e := range c.Experiments {
		workCh <- &work{
			index:      i,
			experiment: e,
			comp:       c,
			line:       lines[i],
			cfg:        cfg,
		}
	}
	close(workCh)

	// One result arrives per queued experiment, error or not. Results are
	// slotted by index so duplicate experiment names cannot collide.
	results := make([]*Result, len(c.Experiments))
	for i := 0; i < len(c.Experiments); i++ {
		result := <-resultsCh
		results[result.index] = result
	}

	if err := ctx.Err(); err != nil {
		return results, err
	}
	if cfg.SavePath != "" {
		if err := util.SaveJson(path.Join(cfg.SavePath, "results.json"), results); err != nil {
			return results, err
		}
	}
	return results, nil
}
