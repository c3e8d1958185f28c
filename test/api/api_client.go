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
	"context"
	"fmt"

	"github.com/onsi/ginkgo/v2"

	"github.com/nscaledev/workorder-apitest/pkg/credentials"
	"github.com/nscaledev/workorder-apitest/pkg/graphql"
	"github.com/nscaledev/workorder-apitest/pkg/resources"
)

// APIClient bundles the typed operations with raw access for specs that
// need to send documents the typed operations never would.
type APIClient struct {
	*graphql.Client

	WorkOrders *resources.WorkOrders
	Units      *resources.Units
}

// NewAPIClientWithConfig creates a client authenticated as configured.
func NewAPIClientWithConfig(config *TestConfig) (*APIClient, error) {
	provider, err := credentials.FromOptions(config.Options)
	if err != nil {
		return nil, err
	}

	return NewAPIClientWithProvider(config, provider), nil
}

// NewAPIClientWithProvider creates a client with the credentials provider
// substituted, for authentication specs.
func NewAPIClientWithProvider(config *TestConfig, provider credentials.Provider) *APIClient {
	client := graphql.NewFromOptions(config.Options, provider)

	return &APIClient{
		Client:     client,
		WorkOrders: resources.NewWorkOrders(client, config.AccountID, config.PageSizeDefault),
		Units:      resources.NewUnits(client, config.UnitLimit),
	}
}

// Raw executes an arbitrary document, failing the test if it is not a valid
// single operation.
func (c *APIClient) Raw(ctx context.Context, query string, variables map[string]any) (*graphql.Response, error) {
	request, err := graphql.NewRequest(query, variables)
	if err != nil {
		ginkgo.Fail(fmt.Sprintf("invalid document: %v", err))
	}

	response, err := c.Execute(ctx, request)
	if err != nil {
		ginkgo.GinkgoWriter.Printf("[%s] ERROR %v\n", request.OperationName(), err)

		return nil, err
	}

	if response.HasErrors() {
		ginkgo.GinkgoWriter.Printf("[%s] GraphQL errors: %v\n", request.OperationName(), response.ErrorMessages())
	}

	return response, nil
}
