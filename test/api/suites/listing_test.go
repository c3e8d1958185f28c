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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nscaledev/workorder-apitest/pkg/resources"
	"github.com/nscaledev/workorder-apitest/test/api"
)

var _ = Describe("Listing", func() {
	Context("When listing work orders", func() {
		Describe("Given seeded work orders", func() {
			var seeded []*resources.WorkOrder

			BeforeEach(func() {
				seeded = api.SeedWorkOrders(client, ctx, config)
			})

			It("should respect the page size", func() {
				page, err := client.WorkOrders.List(ctx, resources.ListOptions{PageSize: config.PageSizeDefault})
				Expect(err).NotTo(HaveOccurred())
				Expect(len(page.Items)).To(BeNumerically("<=", config.PageSizeDefault))
				GinkgoWriter.Printf("Listed %d work orders, more pages: %t\n", page.Len(), page.Continuation() != "")
			})

			It("should visit every seeded work order exactly once", func() {
				pages := 0

				all, err := client.WorkOrders.ListAll(ctx, config.PageSizeDefault, func(page *resources.Page[resources.WorkOrder]) error {
					pages++

					Expect(len(page.Items)).To(BeNumerically("<=", config.PageSizeDefault))

					return nil
				})
				Expect(err).NotTo(HaveOccurred(), "Pagination should have no repeated cursors or identities")

				ids := make([]string, len(all))

				for i := range all {
					ids[i] = all[i].WorkOrderID
				}

				for _, workOrder := range seeded {
					Expect(ids).To(ContainElement(workOrder.WorkOrderID))
				}

				GinkgoWriter.Printf("Listed %d work orders over %d pages\n", len(all), pages)
			})
		})

		Describe("Given an invalid cursor", func() {
			It("should return an error", func() {
				_, err := client.WorkOrders.List(ctx, resources.ListOptions{Cursor: "not-a-cursor"})
				Expect(err).To(HaveOccurred())
				GinkgoWriter.Printf("Expected error for invalid cursor: %v\n", err)
			})
		})
	})

	Context("When listing units with work orders", func() {
		It("should return at most the limit with a consistent page", func() {
			page, err := client.Units.ListWithWorkOrders(ctx, resources.ListOptions{})
			Expect(err).NotTo(HaveOccurred())
			Expect(len(page.Items)).To(BeNumerically("<=", config.UnitLimit))

			for _, unit := range page.Items {
				Expect(unit.ID).NotTo(BeEmpty())

				GinkgoWriter.Printf("Unit %s %s %s has %d work orders\n", unit.ID, unit.Make, unit.Model, len(unit.WorkOrders))
			}
		})
	})
})
