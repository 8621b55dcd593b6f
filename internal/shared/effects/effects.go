// Package effects models best-effort side effects that run after a primary
// write has committed. Callers receive a Report and decide what to do with
// failures; nothing in a Report can undo the write that preceded it.
package effects

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Outcome is the result of a single side effect attempt.
type Outcome struct {
	Effect string `json:"effect"`
	Error  string `json:"error,omitempty"`
}

// Failed reports whether the effect attempt returned an error.
func (o Outcome) Failed() bool {
	return o.Error != ""
}

// Succeeded builds a successful outcome.
func Succeeded(effect string) Outcome {
	return Outcome{Effect: effect}
}

// FailedWith builds a failed outcome from err.
func FailedWith(effect string, err error) Outcome {
	if err == nil {
		return Succeeded(effect)
	}
	return Outcome{Effect: effect, Error: err.Error()}
}

// Attempt runs fn once and converts its result (or panic) into an Outcome.
func Attempt(ctx context.Context, effect string, fn func(context.Context) error) (outcome Outcome) {
	if fn == nil {
		return Succeeded(effect)
	}
	defer func() {
		if r := recover(); r != nil {
			outcome = Outcome{Effect: effect, Error: fmt.Sprintf("panic: %v", r)}
		}
	}()
	return FailedWith(effect, fn(ctx))
}

// Report collects the outcomes of every side effect triggered by one operation.
type Report []Outcome

// Add appends an outcome.
func (r *Report) Add(outcome Outcome) {
	*r = append(*r, outcome)
}

// Failures returns only the failed outcomes.
func (r Report) Failures() []Outcome {
	var failed []Outcome
	for _, outcome := range r {
		if outcome.Failed() {
			failed = append(failed, outcome)
		}
	}
	return failed
}

// Outcome looks up the outcome recorded for effect.
func (r Report) Outcome(effect string) (Outcome, bool) {
	for _, outcome := range r {
		if outcome.Effect == effect {
			return outcome, true
		}
	}
	return Outcome{}, false
}

// Err joins all failures into a single error, or returns nil.
func (r Report) Err() error {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}
	errs := make([]error, 0, len(failures))
	for _, f := range failures {
		errs = append(errs, fmt.Errorf("%s: %s", f.Effect, f.Error))
	}
	return errors.Join(errs...)
}

// String renders the report as "effect=ok effect=error".
func (r Report) String() string {
	parts := make([]string, 0, len(r))
	for _, outcome := range r {
		if outcome.Failed() {
			parts = append(parts, outcome.Effect+"=failed")
			continue
		}
		parts = append(parts, outcome.Effect+"=ok")
	}
	return strings.Join(parts, " ")
}
