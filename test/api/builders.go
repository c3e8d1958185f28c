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

package api

import (
	"github.com/nscaledev/workorder-apitest/pkg/resources"
)

// WorkOrderPayloadBuilder builds work order inputs for testing.
type WorkOrderPayloadBuilder struct {
	input resources.CreateWorkOrderInput
}

// NewWorkOrderPayload creates a new work order builder with defaults from config.
func NewWorkOrderPayload(config *TestConfig) *WorkOrderPayloadBuilder {
	return &WorkOrderPayloadBuilder{
		input: resources.CreateWorkOrderInput{
			ContactID:   config.ContactID,
			UnitID:      config.UnitID,
			Status:      resources.StatusPending,
			Description: "Test automation work order",
			Notes:       []string{},
		},
	}
}

// WithStatus sets the status.
func (b *WorkOrderPayloadBuilder) WithStatus(status resources.WorkOrderStatus) *WorkOrderPayloadBuilder {
	b.input.Status = status

	return b
}

// WithDescription sets the description.
func (b *WorkOrderPayloadBuilder) WithDescription(description string) *WorkOrderPayloadBuilder {
	b.input.Description = description

	return b
}

// WithNotes replaces the notes.
func (b *WorkOrderPayloadBuilder) WithNotes(notes ...string) *WorkOrderPayloadBuilder {
	b.input.Notes = notes

	return b
}

// Build returns the completed input.
func (b *WorkOrderPayloadBuilder) Build() resources.CreateWorkOrderInput {
	return b.input
}
