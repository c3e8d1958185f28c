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
	"fmt"

	"github.com/google/uuid"
	"github.com/spjmurray/go-util/pkg/set"

	"github.com/nscaledev/workorder-apitest/pkg/graphql"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// WorkOrders provides operations on work orders within an account.
type WorkOrders struct {
	executor        graphql.Executor
	accountID       string
	pageSizeDefault int
}

// NewWorkOrders returns work order operations scoped to the account.
func NewWorkOrders(executor graphql.Executor, accountID string, pageSizeDefault int) *WorkOrders {
	return &WorkOrders{
		executor:        executor,
		accountID:       accountID,
		pageSizeDefault: pageSizeDefault,
	}
}

// execute builds and runs a request.
func execute(ctx context.Context, executor graphql.Executor, query string, variables map[string]any) (*graphql.Response, error) {
	request, err := graphql.NewRequest(query, variables)
	if err != nil {
		return nil, err
	}

	return executor.Execute(ctx, request)
}

// unwrap decodes a root field that must be present, any GraphQL errors or a
// missing field are an operation error.
func unwrap(response *graphql.Response, field string, out any) error {
	if response.HasErrors() {
		return &OperationError{Operation: field, Errors: response.Errors}
	}

	ok, err := response.Field(field, out)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if !ok {
		return &OperationError{Operation: field, Reason: "response contains no data"}
	}

	return nil
}

// checkIdentity ensures the server assigned a UUID.
func checkIdentity(workOrder *WorkOrder) error {
	if workOrder.WorkOrderID == "" {
		return fmt.Errorf("%w: work order has no ID", ErrInvalidResponse)
	}

	if _, err := uuid.Parse(workOrder.WorkOrderID); err != nil {
		return fmt.Errorf("%w: work order ID %q is not a UUID", ErrInvalidResponse, workOrder.WorkOrderID)
	}

	return nil
}

// Create creates a work order and returns it as stored by the server.
func (c *WorkOrders) Create(ctx context.Context, input CreateWorkOrderInput) (*WorkOrder, error) {
	log := log.FromContext(ctx)

	response, err := execute(ctx, c.executor, createWorkOrderMutation, map[string]any{
		"accountId": c.accountID,
		"input":     input,
	})
	if err != nil {
		return nil, err
	}

	var workOrder WorkOrder

	if err := unwrap(response, FieldCreateWorkOrder, &workOrder); err != nil {
		return nil, err
	}

	if err := checkIdentity(&workOrder); err != nil {
		return nil, err
	}

	log.V(1).Info("created work order", "id", workOrder.WorkOrderID)

	return &workOrder, nil
}

// Get returns a work order, or nil if the server returned no entity.  GraphQL
// errors are returned as an operation error, use Lookup where an error is an
// acceptable outcome.
func (c *WorkOrders) Get(ctx context.Context, id string) (*WorkOrder, error) {
	lookup, err := c.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	switch lookup.State {
	case LookupErrored:
		return nil, &OperationError{Operation: FieldGetWorkOrder, Errors: lookup.Errors}
	case LookupNotFound:
		//nolint:nilnil
		return nil, nil
	case LookupFound, LookupSoftDeleted:
	}

	return lookup.WorkOrder, nil
}

// Lookup reads a work order and classifies the outcome.  Only transport and
// authentication failures are returned as errors.
func (c *WorkOrders) Lookup(ctx context.Context, id string) (*Lookup, error) {
	response, err := execute(ctx, c.executor, getWorkOrderQuery, map[string]any{
		"accountId":   c.accountID,
		"workOrderId": id,
	})
	if err != nil {
		return nil, err
	}

	if response.HasErrors() {
		return &Lookup{State: LookupErrored, Errors: response.Errors}, nil
	}

	var workOrder WorkOrder

	ok, err := response.Field(FieldGetWorkOrder, &workOrder)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponse, err)
	}

	if !ok {
		return &Lookup{State: LookupNotFound}, nil
	}

	if workOrder.IsDeleted() {
		return &Lookup{State: LookupSoftDeleted, WorkOrder: &workOrder}, nil
	}

	return &Lookup{State: LookupFound, WorkOrder: &workOrder}, nil
}

// Update applies a partial update and returns the updated work order.
func (c *WorkOrders) Update(ctx context.Context, id string, input UpdateWorkOrderInput) (*WorkOrder, error) {
	response, err := execute(ctx, c.executor, updateWorkOrderMutation, map[string]any{
		"accountId":   c.accountID,
		"workOrderId": id,
		"input":       input,
	})
	if err != nil {
		return nil, err
	}

	var workOrder WorkOrder

	if err := unwrap(response, FieldUpdateWorkOrder, &workOrder); err != nil {
		return nil, err
	}

	if workOrder.WorkOrderID != id {
		return nil, fmt.Errorf("%w: updated work order ID %q, expected %q", ErrInvalidResponse, workOrder.WorkOrderID, id)
	}

	return &workOrder, nil
}

// Delete deletes a work order, returning the server's acknowledgment.  An
// acknowledgment of false is returned as an operation error.
func (c *WorkOrders) Delete(ctx context.Context, id string) (bool, error) {
	response, err := execute(ctx, c.executor, deleteWorkOrderMutation, map[string]any{
		"accountId":   c.accountID,
		"workOrderId": id,
	})
	if err != nil {
		return false, err
	}

	var acknowledged bool

	if err := unwrap(response, FieldDeleteWorkOrder, &acknowledged); err != nil {
		return false, err
	}

	if !acknowledged {
		return false, &OperationError{Operation: FieldDeleteWorkOrder, Reason: "deletion not acknowledged"}
	}

	return true, nil
}

// List returns a single page of work orders.  A zero page size selects the
// configured default, use -1 to omit the page size and accept the server
// default.  The cursor is forwarded verbatim.
func (c *WorkOrders) List(ctx context.Context, opts ListOptions) (*Page[WorkOrder], error) {
	variables := map[string]any{
		"accountId": c.accountID,
	}

	switch {
	case opts.PageSize > 0:
		variables["pageSize"] = opts.PageSize
	case opts.PageSize == 0 && c.pageSizeDefault > 0:
		variables["pageSize"] = c.pageSizeDefault
	}

	if opts.Cursor != "" {
		variables["cursor"] = opts.Cursor
	}

	response, err := execute(ctx, c.executor, listWorkOrdersQuery, variables)
	if err != nil {
		return nil, err
	}

	var page Page[WorkOrder]

	if err := unwrap(response, FieldListWorkOrders, &page); err != nil {
		return nil, err
	}

	if err := ValidatePage(&page); err != nil {
		return nil, err
	}

	return &page, nil
}

// ListAll follows continuation tokens until the listing is exhausted,
// calling visit for each page.  A repeated cursor or an identity seen on an
// earlier page is an invalid response.
func (c *WorkOrders) ListAll(ctx context.Context, pageSize int, visit func(page *Page[WorkOrder]) error) ([]WorkOrder, error) {
	log := log.FromContext(ctx)

	var (
		all     []WorkOrder
		ids     []string
		cursors []string
		cursor  string
	)

	for {
		page, err := c.List(ctx, ListOptions{PageSize: pageSize, Cursor: cursor})
		if err != nil {
			return nil, err
		}

		if visit != nil {
			if err := visit(page); err != nil {
				return nil, err
			}
		}

		pageIDs := make([]string, len(page.Items))

		for i := range page.Items {
			pageIDs[i] = page.Items[i].WorkOrderID
		}

		if err := checkDuplicates(ids, pageIDs); err != nil {
			return nil, err
		}

		all = append(all, page.Items...)
		ids = append(ids, pageIDs...)

		next := page.Continuation()
		if next == "" {
			break
		}

		for _, seen := range cursors {
			if seen == next {
				return nil, fmt.Errorf("%w: cursor %q repeated", ErrInvalidResponse, next)
			}
		}

		log.V(1).Info("following cursor", "pages", len(cursors)+1, "items", len(all))

		cursors = append(cursors, next)
		cursor = next
	}

	return all, nil
}

// checkDuplicates ensures a page neither repeats an identity internally nor
// repeats one already seen.
func checkDuplicates(seen, page []string) error {
	pageSet := set.New[string](page...)

	unique := 0

	for range pageSet.All() {
		unique++
	}

	if unique != len(page) {
		return fmt.Errorf("%w: page contains duplicate identities", ErrInvalidResponse)
	}

	for id := range set.New[string](seen...).Intersection(pageSet).All() {
		return fmt.Errorf("%w: identity %s returned on more than one page", ErrInvalidResponse, id)
	}

	return nil
}

// ValidatePage checks the page invariants: the reported count matches the
// items, and a page claiming more results carries a continuation token.
func ValidatePage[T any](page *Page[T]) error {
	if page.Count != nil && *page.Count != len(page.Items) {
		return fmt.Errorf("%w: page count %d does not match %d items", ErrInvalidResponse, *page.Count, len(page.Items))
	}

	if page.HasMore != nil && *page.HasMore && page.Continuation() == "" {
		return fmt.Errorf("%w: page reports more results without a cursor", ErrInvalidResponse)
	}

	return nil
}
