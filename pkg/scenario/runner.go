/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package scenario

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nscaledev/workorder-apitest/pkg/credentials"
	"github.com/nscaledev/workorder-apitest/pkg/graphql"
	"github.com/nscaledev/workorder-apitest/pkg/resources"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// Runner executes scenarios.
type Runner struct {
	workOrders *resources.WorkOrders
	units      *resources.Units
	fixture    Fixture
	now        func() time.Time
}

// NewRunner returns a runner that executes steps with the given operations.
func NewRunner(workOrders *resources.WorkOrders, units *resources.Units, fixture Fixture) *Runner {
	return &Runner{
		workOrders: workOrders,
		units:      units,
		fixture:    fixture,
		now:        time.Now,
	}
}

// fatal errors abort the whole run.
func fatal(ctx context.Context, err error) bool {
	return errors.Is(err, credentials.ErrAuth) || errors.Is(err, graphql.ErrTransport) || ctx.Err() != nil
}

// abortsScenario errors skip the remaining steps of a scenario regardless
// of whether the step is hard.
func abortsScenario(err error) bool {
	return errors.Is(err, resources.ErrOperation) || errors.Is(err, resources.ErrInvalidResponse) || errors.Is(err, graphql.ErrInvalidRequest)
}

// Run executes the scenarios in order.  The summary is always returned, the
// error is set when the run was aborted by an authentication or transport
// failure, in which case the remaining scenarios are marked skipped.
func (r *Runner) Run(ctx context.Context, scenarios []*Scenario) (*Summary, error) {
	log := log.FromContext(ctx)

	summary := &Summary{
		Started: r.now(),
	}

	defer func() {
		summary.Duration = r.now().Sub(summary.Started)
	}()

	for i, scenario := range scenarios {
		result, err := r.runScenario(ctx, scenario)

		summary.Results = append(summary.Results, result)

		if err != nil {
			summary.Aborted = err.Error()

			for _, remaining := range scenarios[i+1:] {
				summary.Results = append(summary.Results, skipped(remaining))
			}

			log.Error(err, "run aborted", "scenario", scenario.Name)

			return summary, fmt.Errorf("%w: %w", ErrAborted, err)
		}
	}

	return summary, nil
}

func skipped(scenario *Scenario) *Result {
	result := &Result{
		Name:        scenario.Name,
		Description: scenario.Description,
		Tags:        scenario.Tags,
		Status:      StatusSkipped,
		Steps:       make([]*StepResult, len(scenario.Steps)),
	}

	for i := range scenario.Steps {
		result.Steps[i] = &StepResult{
			Name:   scenario.Steps[i].Name,
			Status: StatusSkipped,
		}
	}

	return result
}

// runScenario executes the steps of a scenario.  An error is returned only
// when the run must be aborted.
func (r *Runner) runScenario(ctx context.Context, scenario *Scenario) (*Result, error) {
	logger := log.FromContext(ctx).WithValues("scenario", scenario.Name)
	ctx = log.IntoContext(ctx, logger)

	result := skipped(scenario)
	result.Status = StatusRunning

	for _, step := range result.Steps {
		step.Status = StatusPending
	}

	state := &State{
		WorkOrders: r.workOrders,
		Units:      r.units,
		Fixture:    r.fixture,
		result:     result,
	}

	logger.Info("running scenario")

	start := r.now()

	defer func() {
		result.Duration = r.now().Sub(start)
	}()

	var failures []error

	for i := range scenario.Steps {
		step := &scenario.Steps[i]
		stepResult := result.Steps[i]

		state.step = stepResult
		stepResult.Status = StatusRunning

		stepStart := r.now()
		err := step.Action(ctx, state)
		stepResult.Duration = r.now().Sub(stepStart)

		if err == nil {
			stepResult.Status = StatusPassed

			logger.V(1).Info("step passed", "step", step.Name)

			continue
		}

		stepResult.Status = StatusFailed
		stepResult.Error = err.Error()

		failures = append(failures, fmt.Errorf("%s: %w", step.Name, err))

		logger.Info("step failed", "step", step.Name, "error", err.Error())

		if fatal(ctx, err) {
			result.Aborted = true

			r.finish(result, failures)

			return result, err
		}

		if step.Hard || abortsScenario(err) || !errors.Is(err, ErrAssertion) {
			result.Aborted = true

			for _, remaining := range result.Steps[i+1:] {
				remaining.Status = StatusSkipped
			}

			break
		}
	}

	r.finish(result, failures)

	logger.Info("scenario complete", "status", result.Status)

	return result, nil
}

func (r *Runner) finish(result *Result, failures []error) {
	for _, step := range result.Steps {
		if step.Status == StatusPending {
			step.Status = StatusSkipped
		}
	}

	if len(failures) == 0 {
		result.Status = StatusPassed

		return
	}

	result.Status = StatusFailed
	result.err = All(failures...)
	result.Error = result.err.Error()
}
