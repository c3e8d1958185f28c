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

//nolint:revive,staticcheck // dot imports are standard for Ginkgo/Gomega test code
package api

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/workorder-apitest/pkg/resources"
)

// CreateWorkOrderWithCleanup creates a work order and schedules its deletion.
func CreateWorkOrderWithCleanup(client *APIClient, ctx context.Context, input resources.CreateWorkOrderInput) *resources.WorkOrder {
	workOrder, err := client.WorkOrders.Create(ctx, input)
	Expect(err).NotTo(HaveOccurred(), "Should create work order")
	Expect(workOrder.WorkOrderID).NotTo(BeEmpty(), "Created work order should have an ID")

	GinkgoWriter.Printf("Created work order with ID: %s\n", workOrder.WorkOrderID)

	// Schedule cleanup - this runs whether the test passes or fails so we don't need to clean up manually
	DeferCleanup(func() {
		DeleteWorkOrderIfLive(client, ctx, workOrder.WorkOrderID)
	})

	return workOrder
}

// DeleteWorkOrderIfLive deletes a work order unless it has already gone.
func DeleteWorkOrderIfLive(client *APIClient, ctx context.Context, id string) {
	lookup, err := client.WorkOrders.Lookup(ctx, id)
	if err != nil {
		GinkgoWriter.Printf("Warning: Failed to look up work order %s: %v\n", id, err)

		return
	}

	if lookup.State != resources.LookupFound {
		return
	}

	GinkgoWriter.Printf("Cleaning up work order: %s\n", id)

	if _, err := client.WorkOrders.Delete(ctx, id); err != nil {
		GinkgoWriter.Printf("Warning: Failed to delete work order %s: %v\n", id, err)
	} else {
		GinkgoWriter.Printf("Successfully deleted work order: %s\n", id)
	}
}

// SeedWorkOrders creates three work orders in different states, each cleaned
// up after the test.
func SeedWorkOrders(client *APIClient, ctx context.Context, config *TestConfig) []*resources.WorkOrder {
	seeds := []*WorkOrderPayloadBuilder{
		NewWorkOrderPayload(config).WithStatus(resources.StatusPending).WithDescription("Oil change and filter replacement").WithNotes("Customer requested synthetic oil", "Check tire pressure"),
		NewWorkOrderPayload(config).WithStatus(resources.StatusInProgress).WithDescription("Transmission fluid check").WithNotes("Fluid appears dark", "Schedule full service"),
		NewWorkOrderPayload(config).WithStatus(resources.StatusCompleted).WithDescription("Battery test and replacement").WithNotes("Battery failed load test", "Replaced with new battery"),
	}

	workOrders := make([]*resources.WorkOrder, len(seeds))

	for i, seed := range seeds {
		workOrders[i] = CreateWorkOrderWithCleanup(client, ctx, seed.Build())
	}

	return workOrders
}

// ExpectDeleted asserts a deleted work order reads back in one of the
// accepted deletion presentations.
func ExpectDeleted(client *APIClient, ctx context.Context, id string) resources.LookupState {
	lookup, err := client.WorkOrders.Lookup(ctx, id)
	Expect(err).NotTo(HaveOccurred(), "Lookup should not fail at the transport level")
	Expect(lookup.State).NotTo(Equal(resources.LookupFound), "Deleted work order should not be live without deletedAt")

	GinkgoWriter.Printf("Deleted work order %s reads back as %s\n", id, lookup.State)

	return lookup.State
}
