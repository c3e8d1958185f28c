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
	"slices"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/workorder-apitest/pkg/resources"
	"github.com/nscaledev/workorder-apitest/test/api"

	"k8s.io/utils/ptr"
)

var _ = Describe("Work Order Lifecycle", func() {
	Context("When creating a work order", func() {
		Describe("Given a valid input", func() {
			It("should be readable by the returned ID", func() {
				input := api.NewWorkOrderPayload(config).
					WithDescription("Brake inspection and repair").
					WithNotes("Customer reports squeaking noise", "Check brake pads and rotors").
					Build()

				created := api.CreateWorkOrderWithCleanup(client, ctx, input)
				Expect(created.Status).To(Equal(resources.StatusPending))
				Expect(created.Notes).To(Equal(input.Notes))

				fetched, err := client.WorkOrders.Get(ctx, created.WorkOrderID)
				Expect(err).NotTo(HaveOccurred(), "Should get the created work order")
				Expect(fetched).NotTo(BeNil(), "Created work order should exist")
				Expect(fetched.WorkOrderID).To(Equal(created.WorkOrderID))
				Expect(fetched.Status).To(Equal(created.Status))
				Expect(fetched.Description).To(Equal(created.Description))
				Expect(fetched.IsDeleted()).To(BeFalse())
			})
		})

		Describe("Given an invalid status", func() {
			It("should return GraphQL errors", func() {
				input := api.NewWorkOrderPayload(config).WithStatus("unknown").Build()

				_, err := client.WorkOrders.Create(ctx, input)
				Expect(err).To(MatchError(resources.ErrOperation))
				GinkgoWriter.Printf("Expected error for invalid status: %v\n", err)
			})
		})
	})

	Context("When updating a work order", func() {
		Describe("Given a partial update", func() {
			It("should change only the targeted fields", func() {
				created := api.CreateWorkOrderWithCleanup(client, ctx, api.NewWorkOrderPayload(config).
					WithDescription("Brake inspection and repair").
					WithNotes("Customer reports squeaking noise", "Check brake pads and rotors").
					Build())

				notes := append(slices.Clone(created.Notes), "Front pads show 30% wear", "Rotors within spec")

				updated, err := client.WorkOrders.Update(ctx, created.WorkOrderID, resources.UpdateWorkOrderInput{
					Status:      ptr.To(resources.StatusInProgress),
					Description: ptr.To("Brake inspection in progress - removed wheels for inspection"),
					Notes:       notes,
				})
				Expect(err).NotTo(HaveOccurred(), "Should update the work order")
				Expect(updated.Status).To(Equal(resources.StatusInProgress))

				fetched, err := client.WorkOrders.Get(ctx, created.WorkOrderID)
				Expect(err).NotTo(HaveOccurred())
				Expect(fetched).NotTo(BeNil())
				Expect(fetched.Status).To(Equal(resources.StatusInProgress))
				Expect(fetched.Notes).To(HaveLen(len(notes)))
				Expect(fetched.Notes[:len(created.Notes)]).To(Equal(created.Notes), "Original notes should be preserved as a prefix")
				Expect(fetched.ContactID).To(Equal(created.ContactID))
				Expect(fetched.UnitID).To(Equal(created.UnitID))
				Expect(fetched.CreatedAt).To(Equal(created.CreatedAt))
				GinkgoWriter.Printf("Work order %s updated at %d\n", fetched.WorkOrderID, fetched.UpdatedAt)
			})

			It("should leave unspecified fields unchanged", func() {
				created := api.CreateWorkOrderWithCleanup(client, ctx, api.NewWorkOrderPayload(config).WithNotes("Untouched").Build())

				updated, err := client.WorkOrders.Update(ctx, created.WorkOrderID, resources.UpdateWorkOrderInput{
					Status: ptr.To(resources.StatusCompleted),
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Status).To(Equal(resources.StatusCompleted))
				Expect(updated.Description).To(Equal(created.Description))
				Expect(updated.Notes).To(Equal(created.Notes))
			})
		})
	})
})
