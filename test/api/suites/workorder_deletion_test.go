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

//nolint:testpackage,revive // test package in suites is standard for these tests
package suites

import (
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/workorder-apitest/pkg/resources"
	"github.com/nscaledev/workorder-apitest/test/api"
)

var _ = Describe("Work Order Deletion", func() {
	Context("When deleting a work order", func() {
		Describe("Given the work order exists", func() {
			It("should no longer be live on read back", func() {
				created := api.CreateWorkOrderWithCleanup(client, ctx, api.NewWorkOrderPayload(config).
					WithDescription("Coolant system flush - TO BE DELETED").
					WithNotes("Test workorder for deletion", "This will be removed").
					Build())

				acknowledged, err := client.WorkOrders.Delete(ctx, created.WorkOrderID)
				Expect(err).NotTo(HaveOccurred(), "Should delete the work order")
				Expect(acknowledged).To(BeTrue())

				state := api.ExpectDeleted(client, ctx, created.WorkOrderID)
				Expect(state).To(BeElementOf(resources.LookupSoftDeleted, resources.LookupNotFound, resources.LookupErrored))
			})

			It("should not be deletable twice", func() {
				created := api.CreateWorkOrderWithCleanup(client, ctx, api.NewWorkOrderPayload(config).Build())

				_, err := client.WorkOrders.Delete(ctx, created.WorkOrderID)
				Expect(err).NotTo(HaveOccurred())

				_, err = client.WorkOrders.Delete(ctx, created.WorkOrderID)
				Expect(err).To(MatchError(resources.ErrOperation), "Deleting a deleted work order should not be acknowledged")
				GinkgoWriter.Printf("Expected error for second deletion: %v\n", err)
			})
		})

		Describe("Given the work order does not exist", func() {
			It("should return GraphQL errors", func() {
				acknowledged, err := client.WorkOrders.Delete(ctx, uuid.Nil.String())
				Expect(err).To(MatchError(resources.ErrOperation))
				Expect(acknowledged).To(BeFalse())

				operationErr, ok := resources.IsOperationError(err)
				Expect(ok).To(BeTrue())
				Expect(operationErr.Errors).NotTo(BeEmpty(), "Deletion of nil work order should populate errors")
			})
		})
	})
})
