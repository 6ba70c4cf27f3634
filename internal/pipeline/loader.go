package pipeline

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/holdcalc/internal/assets"
	"github.com/theirongolddev/holdcalc/internal/projection"
)

// Outcome is the projection of one scenario. Err is set when the scenario
// was rejected and Savings is then left zero.
type Outcome struct {
	Scenario Scenario          `json:"scenario" yaml:"scenario"`
	Savings  projection.Series `json:"savings" yaml:"savings"`
	Err      error             `json:"-" yaml:"-"`
}

// Options tunes a batch run.
type Options struct {
	Workers       int  // <= 0 uses GOMAXPROCS
	AllowNegative bool // skip validation
}

// ProgressFunc is called during a run to report progress.
// current is the number of scenarios processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Run projects every scenario with a bounded worker pool. Outcomes keep the
// input order. A cancelled context stops handing out work and returns the
// context error.
func Run(ctx context.Context, scenarios []Scenario, opts Options, progressFn ProgressFunc) ([]Outcome, error) {
	if len(scenarios) == 0 {
		return nil, nil
	}

	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(scenarios) {
		numWorkers = len(scenarios)
	}

	work := make(chan int, len(scenarios))
	results := make([]Outcome, len(scenarios))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range scenarios {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				if ctx.Err() != nil {
					return
				}
				results[idx] = project(scenarios[idx], opts.AllowNegative)
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(scenarios))
				}
			}
		}()
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func project(s Scenario, allowNegative bool) Outcome {
	out := Outcome{Scenario: s}
	if !allowNegative {
		if err := assets.Validate(s.Portfolio); err != nil {
			out.Err = err
			return out
		}
	}
	out.Savings = projection.Project(s.Portfolio)
	return out
}
