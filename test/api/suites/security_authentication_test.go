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

	"github.com/nscaledev/workorder-apitest/pkg/credentials"
	"github.com/nscaledev/workorder-apitest/pkg/graphql"
	"github.com/nscaledev/workorder-apitest/pkg/resources"
	"github.com/nscaledev/workorder-apitest/test/api"
)

var _ = Describe("Security and Authentication", func() {
	Context("When accessing the API", func() {
		Describe("Given an invalid token", func() {
			It("should reject the request", func() {
				unauthenticated := api.NewAPIClientWithProvider(config, credentials.StaticProvider("invalid-token"))

				_, err := unauthenticated.WorkOrders.List(ctx, resources.ListOptions{})
				Expect(err).To(HaveOccurred())
				GinkgoWriter.Printf("Expected error for invalid token: %v\n", err)
			})
		})

		Describe("Given no token", func() {
			It("should not send the request", func() {
				unauthenticated := api.NewAPIClientWithProvider(config, credentials.StaticProvider(""))

				_, err := unauthenticated.WorkOrders.List(ctx, resources.ListOptions{})
				Expect(err).To(MatchError(credentials.ErrAuth))
			})
		})

		Describe("Given another account", func() {
			It("should deny access", func() {
				response, err := client.Raw(ctx, `query GetWorkOrder($accountId: ID!, $workOrderId: ID!) {
  getWorkOrder(accountId: $accountId, workOrderId: $workOrderId) { workOrderId }
}`, map[string]any{
					"accountId":   "00000000-0000-0000-0000-000000000000",
					"workOrderId": "00000000-0000-0000-0000-000000000000",
				})
				Expect(err).NotTo(HaveOccurred())
				Expect(response.HasErrors()).To(BeTrue(), "Cross account access should return errors")
			})
		})
	})

	Context("When submitting malformed documents", func() {
		It("should return GraphQL errors for unknown fields", func() {
			response, err := client.Raw(ctx, `query { noSuchField }`, nil)
			if err != nil {
				Expect(err).To(MatchError(graphql.ErrTransport))

				return
			}

			Expect(response.HasErrors()).To(BeTrue())
		})
	})
})
