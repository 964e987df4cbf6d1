// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract runs the chart and table extractors over a page's
// fragments and collects their records in input order.
//
// In fail-fast mode the first failure, by input order with charts before
// tables, aborts the run. In best-effort mode failed fragments are left
// out of the record lists and reported in Result.Failures with their
// original index.
package extract

import (
	"fmt"
	"io"

	"github.com/sourcegraph/conc/iter"

	"github.com/pdiddy/pollharvest/internal/fragment"
	"github.com/pdiddy/pollharvest/internal/summary"
	"github.com/pdiddy/pollharvest/internal/tables"
	"github.com/pdiddy/pollharvest/pkg/types"
)

// Kind names the kind of fragment a failure came from.
type Kind string

const (
	KindChart Kind = "chart"
	KindTable Kind = "table"
)

// FragmentError is the failure of one fragment. It unwraps to the
// extractor's error, so errors.Is matches the package sentinels.
type FragmentError struct {
	Kind  Kind
	Index int
	Err   error
}

func (e *FragmentError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Kind, e.Index, e.Err)
}

func (e *FragmentError) Unwrap() error {
	return e.Err
}

// Failure is the serializable form of a FragmentError.
type Failure struct {
	Kind  Kind   `json:"kind" yaml:"kind"`
	Index int    `json:"index" yaml:"index"`
	Error string `json:"error" yaml:"error"`
}

// Result holds the records of one run. Summaries and Tables follow the
// input order of their fragments.
type Result struct {
	Summaries []types.GraphSummary `json:"summaries" yaml:"summaries"`
	Tables    []types.TableRecord  `json:"tables" yaml:"tables"`
	Failures  []Failure            `json:"failures,omitempty" yaml:"failures,omitempty"`
}

// HasFailures reports whether any fragment failed.
func (r Result) HasFailures() bool {
	return len(r.Failures) > 0
}

// Extractor runs both extractors with one configuration. Status lines for
// failures and the run summary are written to the writer given to New.
type Extractor struct {
	cfg     types.ExtractionConfig
	grammar summary.Grammar
	tables  *tables.Extractor
	w       io.Writer
}

// New validates cfg and returns an Extractor. A nil w discards status lines.
func New(cfg types.ExtractionConfig, w io.Writer) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if w == nil {
		w = io.Discard
	}
	cfg = cfg.WithDefaults()
	return &Extractor{
		cfg:     cfg,
		grammar: summary.DefaultGrammar,
		tables:  tables.New(cfg),
		w:       w,
	}, nil
}

// WithGrammar returns a copy of e that parses chart captions with g.
func (e *Extractor) WithGrammar(g summary.Grammar) (*Extractor, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	cp := *e
	cp.grammar = g
	return &cp, nil
}

// ExtractPage extracts every chart and table of a parsed page.
func (e *Extractor) ExtractPage(doc *fragment.Document) (*Result, error) {
	return e.Run(doc.Charts(), doc.Tables())
}

// Run extracts chart summaries from charts and records from tables.
func (e *Extractor) Run(charts, tableFrags []fragment.Fragment) (*Result, error) {
	res := &Result{
		Summaries: make([]types.GraphSummary, 0, len(charts)),
		Tables:    make([]types.TableRecord, 0, len(tableFrags)),
	}

	chartOut := runEach(e, KindChart, charts, e.grammar.FromFragment)
	for _, o := range chartOut {
		if o.err != nil {
			if err := e.fail(res, o.err); err != nil {
				return nil, err
			}
			continue
		}
		res.Summaries = append(res.Summaries, o.rec)
	}

	tableOut := runEach(e, KindTable, tableFrags, e.tables.Extract)
	for _, o := range tableOut {
		if o.err != nil {
			if err := e.fail(res, o.err); err != nil {
				return nil, err
			}
			continue
		}
		res.Tables = append(res.Tables, o.rec)
	}

	fmt.Fprintf(e.w, "\nExtraction summary: %d charts, %d tables, %d failed (total: %d)\n",
		len(res.Summaries), len(res.Tables), len(res.Failures), len(charts)+len(tableFrags))
	return res, nil
}

// fail records a fragment failure. It returns the failure itself in
// fail-fast mode.
func (e *Extractor) fail(res *Result, ferr *FragmentError) error {
	if e.cfg.Mode == types.ModeFailFast {
		return ferr
	}
	fmt.Fprintf(e.w, "failed:  %s %d (%v)\n", ferr.Kind, ferr.Index, ferr.Err)
	res.Failures = append(res.Failures, Failure{
		Kind:  ferr.Kind,
		Index: ferr.Index,
		Error: ferr.Err.Error(),
	})
	return nil
}

type outcome[T any] struct {
	rec T
	err *FragmentError
}

// runEach applies fn to every fragment. With more than one worker the
// fragments are processed concurrently; outcomes keep input order either
// way. Sequential fail-fast runs stop at the first failure.
func runEach[T any](e *Extractor, kind Kind, frags []fragment.Fragment, fn func(fragment.Fragment) (T, error)) []outcome[T] {
	apply := func(i int, f fragment.Fragment) outcome[T] {
		rec, err := fn(f)
		if err != nil {
			return outcome[T]{err: &FragmentError{Kind: kind, Index: i, Err: err}}
		}
		return outcome[T]{rec: rec}
	}

	if e.cfg.Workers < 2 {
		out := make([]outcome[T], 0, len(frags))
		for i, f := range frags {
			o := apply(i, f)
			out = append(out, o)
			if o.err != nil && e.cfg.Mode == types.ModeFailFast {
				break
			}
		}
		return out
	}

	indexed := make([]int, len(frags))
	for i := range indexed {
		indexed[i] = i
	}
	mapper := iter.Mapper[int, outcome[T]]{MaxGoroutines: e.cfg.Workers}
	return mapper.Map(indexed, func(i *int) outcome[T] {
		return apply(*i, frags[*i])
	})
}
