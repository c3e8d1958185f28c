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

package resources

import (
	"context"

	"github.com/nscaledev/workorder-apitest/pkg/graphql"
)

// Units provides read operations on units.
type Units struct {
	executor     graphql.Executor
	limitDefault int
}

// NewUnits returns unit operations.
func NewUnits(executor graphql.Executor, limitDefault int) *Units {
	return &Units{
		executor:     executor,
		limitDefault: limitDefault,
	}
}

// ListWithWorkOrders returns a page of units with their work orders
// embedded.  The page size is passed as the limit argument.
func (c *Units) ListWithWorkOrders(ctx context.Context, opts ListOptions) (*Page[Unit], error) {
	variables := map[string]any{}

	switch {
	case opts.PageSize > 0:
		variables["limit"] = opts.PageSize
	case opts.PageSize == 0 && c.limitDefault > 0:
		variables["limit"] = c.limitDefault
	}

	if opts.Cursor != "" {
		variables["cursor"] = opts.Cursor
	}

	response, err := execute(ctx, c.executor, getUnitWithWorkOrdersQuery, variables)
	if err != nil {
		return nil, err
	}

	var page Page[Unit]

	if err := unwrap(response, FieldGetUnitWithWorkOrders, &page); err != nil {
		return nil, err
	}

	if err := ValidatePage(&page); err != nil {
		return nil, err
	}

	return &page, nil
}
