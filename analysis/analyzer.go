package analysis

import (
	"gridmc/core"
)

// Analyzer observes training episodes and accumulates a dataset for later
// recording or comparison. Analyzers are attached to a Trainer as observers
// and are driven single-threaded with it.
type Analyzer interface {
	core.Observer
	DataSet() interface{}
	Reset()
}
