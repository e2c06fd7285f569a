package email

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Stage is one delivery attempt in a Pipeline.
type Stage struct {
	Transport Transport
	Timeout   time.Duration // zero means no per-stage limit
}

// StageResult is the tagged result of a single stage.
type StageResult struct {
	Stage    string
	Err      error
	Duration time.Duration
}

func (r StageResult) OK() bool { return r.Err == nil }

// Outcome records every stage that ran, in order.
type Outcome struct {
	Results []StageResult
}

// Delivered reports whether any stage succeeded.
func (o Outcome) Delivered() bool {
	return o.DeliveredBy() != ""
}

// DeliveredBy names the stage that delivered the message, or "".
func (o Outcome) DeliveredBy() string {
	for _, r := range o.Results {
		if r.OK() {
			return r.Stage
		}
	}
	return ""
}

// Err joins the errors of all failed stages.
func (o Outcome) Err() error {
	var errs []error
	for _, r := range o.Results {
		if !r.OK() {
			errs = append(errs, fmt.Errorf("%s: %w", r.Stage, r.Err))
		}
	}
	return errors.Join(errs...)
}

// Pipeline tries its stages strictly in order and stops at the first success.
// A later stage only runs after the previous one has returned.
type Pipeline struct {
	stages []Stage
}

func NewPipeline(stages ...Stage) *Pipeline {
	return &Pipeline{stages: stages}
}

// Stages returns the configured transport names in order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Transport.Name()
	}
	return names
}

func (p *Pipeline) Deliver(ctx context.Context, msg Message) Outcome {
	var out Outcome
	for _, s := range p.stages {
		res := runStage(ctx, s, msg)
		out.Results = append(out.Results, res)
		if res.OK() {
			break
		}
	}
	return out
}

func runStage(ctx context.Context, s Stage, msg Message) StageResult {
	stageCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		stageCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := s.Transport.Send(stageCtx, msg)

	return StageResult{
		Stage:    s.Transport.Name(),
		Err:      err,
		Duration: time.Since(start),
	}
}
