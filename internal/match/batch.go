package match

import (
	"sync"

	"attest/internal/evidence"
)

// Aggregates holds the summary counts for one analysis run.
type Aggregates struct {
	Total      int
	Observed   int
	Deviations int
	Skipped    int
	NotVisible int
	Altered    int
}

// Report is the full outcome of matching every planned step against one
// timeline, in step order.
type Report struct {
	Results []Result
	Totals  Aggregates
}

// Engine applies the matcher and classifier to every planned step against one
// shared observation timeline.
type Engine struct {
	matcher    *Matcher
	classifier *Classifier
	workers    int
}

// NewEngine wires a matcher and classifier together. workers bounds the
// number of steps matched concurrently; values below 1 mean sequential.
func NewEngine(matcher *Matcher, classifier *Classifier, workers int) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{matcher: matcher, classifier: classifier, workers: workers}
}

// Run matches all steps in input order and computes aggregate counts. Steps
// are data-independent, so they may be matched on a bounded worker pool; the
// scan within one step stays sequential because the tie-break rule depends on
// scan order. An empty timeline is valid and resolves every step to a skipped
// deviation; an empty step list yields an empty report.
func (e *Engine) Run(steps []Step, timeline evidence.Timeline) Report {
	results := make([]Result, len(steps))

	if e.workers <= 1 || len(steps) <= 1 {
		for i, step := range steps {
			results[i] = e.matchOne(step, timeline)
		}
	} else {
		var wg sync.WaitGroup
		sem := make(chan struct{}, e.workers)
		for i, step := range steps {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int, step Step) {
				defer wg.Done()
				defer func() { <-sem }()
				results[i] = e.matchOne(step, timeline)
			}(i, step)
		}
		wg.Wait()
	}

	report := Report{Results: results}
	report.Totals.Total = len(results)
	for _, result := range results {
		if result.Verdict == VerdictObserved {
			report.Totals.Observed++
			continue
		}
		report.Totals.Deviations++
		if result.Deviation == nil {
			continue
		}
		switch result.Deviation.Category {
		case CategorySkipped:
			report.Totals.Skipped++
		case CategoryNotVisible:
			report.Totals.NotVisible++
		case CategoryAltered:
			report.Totals.Altered++
		}
	}
	return report
}

func (e *Engine) matchOne(step Step, timeline evidence.Timeline) Result {
	result := e.matcher.MatchStep(step, timeline)
	if result.Verdict == VerdictDeviation {
		result.Deviation = &DeviationRecord{Category: e.classifier.Categorize(result.BestScore)}
	}
	return result
}
