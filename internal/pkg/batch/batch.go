// Package batch reports the per-item outcome of bulk jobs.
package batch

import "fmt"

// Failure is one item that could not be processed.
type Failure struct {
	Key string `json:"key"`
	Err string `json:"error"`
}

// Result counts processed items and lists the failed ones. The zero value is ready to use.
type Result struct {
	Succeeded int       `json:"succeeded"`
	Skipped   int       `json:"skipped,omitempty"`
	Failed    []Failure `json:"failed"`
}

func (r *Result) Ok() { r.Succeeded++ }

func (r *Result) Skip() { r.Skipped++ }

func (r *Result) Fail(key string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	r.Failed = append(r.Failed, Failure{Key: key, Err: msg})
}

// Merge folds o into r.
func (r *Result) Merge(o Result) {
	r.Succeeded += o.Succeeded
	r.Skipped += o.Skipped
	r.Failed = append(r.Failed, o.Failed...)
}

func (r Result) Total() int { return r.Succeeded + r.Skipped + len(r.Failed) }

// Err summarizes the failures, or returns nil when there were none.
func (r Result) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d items failed; first: %s: %s", len(r.Failed), r.Total(), r.Failed[0].Key, r.Failed[0].Err)
}
