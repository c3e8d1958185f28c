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

// Package scenario runs ordered steps against the API and records the
// outcome of each.  Scenarios run strictly sequentially, there is no retry
// and no rollback, anything created is reported as residue.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/nscaledev/workorder-apitest/pkg/resources"
)

var (
	// ErrAssertion is raised when a response does not match expectations.
	ErrAssertion = errors.New("assertion failed")

	// ErrUnknownScenario is raised when a selector matches nothing.
	ErrUnknownScenario = errors.New("unknown scenario")

	// ErrAborted is raised when the run stops before all scenarios ran.
	ErrAborted = errors.New("run aborted")
)

// AssertionError describes an unmet expectation.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return ErrAssertion.Error() + ": " + e.Message
}

func (e *AssertionError) Unwrap() error {
	return ErrAssertion
}

// Status is the state of a scenario or step.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	// StatusSkipped is set on steps that never ran because an earlier hard
	// step failed, and on scenarios that never ran because the run aborted.
	StatusSkipped Status = "skipped"
)

// Action performs a step.
type Action func(ctx context.Context, state *State) error

// Step is a single action and its expectations.
type Step struct {
	// Name is a short human readable description.
	Name string
	// Action performs the step, returning any failure.
	Action Action
	// Hard steps are preconditions, failure skips the remaining steps.
	// Assertion failures in other steps are recorded and the scenario
	// continues.
	Hard bool
}

// Scenario is an ordered set of steps.
type Scenario struct {
	Name        string
	Description string
	Tags        []string
	Steps       []Step
}

// Matches returns true if the selector is the scenario name or one of its
// tags.
func (s *Scenario) Matches(selector string) bool {
	return s.Name == selector || slices.Contains(s.Tags, selector)
}

// Fixture is the pre-existing data scenarios refer to.
type Fixture struct {
	// ContactID is attached to created work orders.
	ContactID string
	// UnitID is attached to created work orders.
	UnitID string
	// PageSize is used when a scenario requests explicit paging.
	PageSize int
	// UnitLimit is the unit page size.
	UnitLimit int
}

// State is passed to every step in a scenario.
type State struct {
	WorkOrders *resources.WorkOrders
	Units      *resources.Units
	Fixture    Fixture

	result *Result
	step   *StepResult
}

// Created records a resource identity the scenario is responsible for, it
// is reported as residue.
func (s *State) Created(id string) {
	s.result.Residue = append(s.result.Residue, id)
}

// Deleted removes a resource from the residue.
func (s *State) Deleted(id string) {
	s.result.Residue = slices.DeleteFunc(s.result.Residue, func(residue string) bool {
		return residue == id
	})
}

// Notef records an informational message against the current step.
func (s *State) Notef(format string, args ...any) {
	s.step.Notes = append(s.step.Notes, fmt.Sprintf(format, args...))
}

// Warnf records a warning against the current step, warnings do not fail
// the step.
func (s *State) Warnf(format string, args ...any) {
	s.step.Warnings = append(s.step.Warnings, fmt.Sprintf(format, args...))
}

// StepResult is the outcome of a step.
type StepResult struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Error    string        `json:"error,omitempty"`
	Notes    []string      `json:"notes,omitempty"`
	Warnings []string      `json:"warnings,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Result is the outcome of a scenario.
type Result struct {
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Status      Status        `json:"status"`
	Steps       []*StepResult `json:"steps"`
	// Residue lists identities created and not deleted.
	Residue  []string      `json:"residue,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
	// Aborted is set when a hard step or an unrecoverable operation error
	// stopped the scenario early, soft assertion failures leave it unset.
	Aborted bool `json:"aborted,omitempty"`

	err error
}

// Err returns the error that failed the scenario.
func (r *Result) Err() error {
	return r.err
}

// Summary is the outcome of a run.
type Summary struct {
	Results  []*Result     `json:"results"`
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	// Aborted is set when a fatal error stopped the run.
	Aborted string `json:"aborted,omitempty"`
}

// Count returns the number of scenarios with the status.
func (s *Summary) Count(status Status) int {
	count := 0

	for _, result := range s.Results {
		if result.Status == status {
			count++
		}
	}

	return count
}

// Passed returns true if the run completed and no scenario failed.
func (s *Summary) Passed() bool {
	return s.Aborted == "" && s.Count(StatusFailed) == 0 && s.Count(StatusSkipped) == 0
}

// Fatal returns true if the run was aborted or any scenario stopped early.
// Soft assertion failures are reported but are not fatal.
func (s *Summary) Fatal() bool {
	if s.Aborted != "" {
		return true
	}

	for _, result := range s.Results {
		if result.Aborted {
			return true
		}
	}

	return false
}

// Residue returns all residue across the run.
func (s *Summary) Residue() []string {
	var residue []string

	for _, result := range s.Results {
		residue = append(residue, result.Residue...)
	}

	return residue
}
