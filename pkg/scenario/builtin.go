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

package scenario

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/spjmurray/go-util/pkg/set"

	"github.com/nscaledev/workorder-apitest/pkg/resources"

	"k8s.io/utils/ptr"
)

const (
	NameWorkOrderLifecycle  = "workorder-lifecycle"
	NameDeleteWorkOrder     = "delete-workorder"
	NameDeleteNonExistent   = "delete-nonexistent"
	NameListPagination      = "list-pagination"
	NameUnitsWithWorkOrders = "units-with-workorders"
)

// Builtin returns a fresh copy of every built in scenario, in run order.
func Builtin() []*Scenario {
	return []*Scenario{
		WorkOrderLifecycle(),
		DeleteWorkOrder(),
		DeleteNonExistent(),
		ListPagination(),
		UnitsWithWorkOrders(),
	}
}

// Select returns the scenarios matching any selector by name or tag,
// preserving order.  No selectors selects everything.
func Select(scenarios []*Scenario, selectors []string) ([]*Scenario, error) {
	if len(selectors) == 0 {
		return scenarios, nil
	}

	var selected []*Scenario

	for _, selector := range selectors {
		if !slices.ContainsFunc(scenarios, func(s *Scenario) bool { return s.Matches(selector) }) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, selector)
		}
	}

	for _, scenario := range scenarios {
		if slices.ContainsFunc(selectors, scenario.Matches) {
			selected = append(selected, scenario)
		}
	}

	return selected, nil
}

// create creates a work order and records it as residue.
func create(ctx context.Context, state *State, status resources.WorkOrderStatus, description string, notes ...string) (*resources.WorkOrder, error) {
	input := resources.CreateWorkOrderInput{
		ContactID:   state.Fixture.ContactID,
		UnitID:      state.Fixture.UnitID,
		Status:      status,
		Description: description,
		Notes:       notes,
	}

	workOrder, err := state.WorkOrders.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	state.Created(workOrder.WorkOrderID)
	state.Notef("created work order %s", workOrder.WorkOrderID)

	return workOrder, All(
		Equal("status", status, workOrder.Status),
		Equal("description", description, workOrder.Description),
		HasPrefix("notes", notes, workOrder.Notes),
	)
}

// get reads a work order that must exist.
func get(ctx context.Context, state *State, id string) (*resources.WorkOrder, error) {
	workOrder, err := state.WorkOrders.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if workOrder == nil {
		return nil, &AssertionError{Message: fmt.Sprintf("work order %s not returned", id)}
	}

	return workOrder, Equal("workOrderId", id, workOrder.WorkOrderID)
}

// WorkOrderLifecycle creates a pending work order, moves it in progress
// with extended notes and checks the partial update.
func WorkOrderLifecycle() *Scenario {
	var created *resources.WorkOrder

	notes := []string{
		"Customer reports squeaking noise",
		"Check brake pads and rotors",
	}

	extended := append(slices.Clone(notes),
		"Front pads show 30% wear",
		"Rotors within spec",
	)

	description := "Brake inspection in progress - removed wheels for inspection"

	return &Scenario{
		Name:        NameWorkOrderLifecycle,
		Description: "Create, read and partially update a work order",
		Tags:        []string{"workorder", "smoke"},
		Steps: []Step{
			{
				Name: "create pending work order",
				Hard: true,
				Action: func(ctx context.Context, state *State) error {
					workOrder, err := create(ctx, state, resources.StatusPending, "Brake inspection and repair", notes...)
					created = workOrder

					return err
				},
			},
			{
				Name: "get returns the created work order",
				Hard: true,
				Action: func(ctx context.Context, state *State) error {
					workOrder, err := get(ctx, state, created.WorkOrderID)
					if err != nil {
						return err
					}

					return All(
						Equal("status", created.Status, workOrder.Status),
						Equal("description", created.Description, workOrder.Description),
					)
				},
			},
			{
				Name: "update status and extend notes",
				Hard: true,
				Action: func(ctx context.Context, state *State) error {
					workOrder, err := state.WorkOrders.Update(ctx, created.WorkOrderID, resources.UpdateWorkOrderInput{
						Status:      ptr.To(resources.StatusInProgress),
						Description: ptr.To(description),
						Notes:       extended,
					})
					if err != nil {
						return err
					}

					return Equal("status", resources.StatusInProgress, workOrder.Status)
				},
			},
			{
				Name: "get reflects the update",
				Action: func(ctx context.Context, state *State) error {
					workOrder, err := get(ctx, state, created.WorkOrderID)
					if err != nil {
						return err
					}

					state.Notef("updated at %d, previously %d", workOrder.UpdatedAt, created.UpdatedAt)

					return All(
						Equal("status", resources.StatusInProgress, workOrder.Status),
						Equal("description", description, workOrder.Description),
						HasPrefix("notes", created.Notes, workOrder.Notes),
						Equal("notes length", len(extended), len(workOrder.Notes)),
						Equal("contactId", created.ContactID, workOrder.ContactID),
						Equal("unitId", created.UnitID, workOrder.UnitID),
						Equal("createdAt", created.CreatedAt, workOrder.CreatedAt),
						Assertf(workOrder.UpdatedAt >= created.UpdatedAt, "updatedAt %d precedes the original updatedAt %d", workOrder.UpdatedAt, created.UpdatedAt),
					)
				},
			},
		},
	}
}

// DeleteWorkOrder deletes a work order and accepts any of the deletion
// presentations on read back, other than a live entity.
func DeleteWorkOrder() *Scenario {
	var created *resources.WorkOrder

	return &Scenario{
		Name:        NameDeleteWorkOrder,
		Description: "Delete a work order and verify it is gone",
		Tags:        []string{"workorder", "delete"},
		Steps: []Step{
			{
				Name: "create work order to delete",
				Hard: true,
				Action: func(ctx context.Context, state *State) error {
					workOrder, err := create(ctx, state, resources.StatusPending, "Coolant system flush - TO BE DELETED", "Test workorder for deletion", "This will be removed")
					created = workOrder

					return err
				},
			},
			{
				Name: "verify work order exists",
				Hard: true,
				Action: func(ctx context.Context, state *State) error {
					_, err := get(ctx, state, created.WorkOrderID)

					return err
				},
			},
			{
				Name: "delete work order",
				Hard: true,
				Action: func(ctx context.Context, state *State) error {
					if _, err := state.WorkOrders.Delete(ctx, created.WorkOrderID); err != nil {
						return err
					}

					state.Notef("work order %s deleted", created.WorkOrderID)

					return nil
				},
			},
			{
				Name: "verify work order is deleted",
				Action: func(ctx context.Context, state *State) error {
					lookup, err := state.WorkOrders.Lookup(ctx, created.WorkOrderID)
					if err != nil {
						return err
					}

					switch lookup.State {
					case resources.LookupErrored:
						state.Notef("work order no longer accessible: %s", lookup.Errors.Error())
					case resources.LookupSoftDeleted:
						state.Notef("work order marked as deleted at %s", lookup.WorkOrder.DeletedTime().UTC().Format("2006-01-02 15:04:05"))
					case resources.LookupNotFound:
						state.Notef("work order no longer exists")
					case resources.LookupFound:
						return &AssertionError{Message: "work order still exists without deletedAt"}
					}

					state.Deleted(created.WorkOrderID)

					return nil
				},
			},
		},
	}
}

// DeleteNonExistent checks deleting an identity that cannot exist is
// reported as an error.
func DeleteNonExistent() *Scenario {
	return &Scenario{
		Name:        NameDeleteNonExistent,
		Description: "Deleting a non-existent work order returns errors",
		Tags:        []string{"workorder", "delete", "errors"},
		Steps: []Step{
			{
				Name: "delete nil work order",
				Action: func(ctx context.Context, state *State) error {
					_, err := state.WorkOrders.Delete(ctx, uuid.Nil.String())
					if err == nil {
						return &AssertionError{Message: "no error returned for non-existent work order"}
					}

					operationErr, ok := resources.IsOperationError(err)
					if !ok {
						return err
					}

					if len(operationErr.Errors) == 0 {
						return &AssertionError{Message: fmt.Sprintf("expected GraphQL errors, got %s", operationErr.Reason)}
					}

					state.Notef("correctly returned error: %s", operationErr.Errors.Error())

					return nil
				},
			},
		},
	}
}

// ListPagination seeds work orders and walks the listing.
func ListPagination() *Scenario {
	seeds := []struct {
		status      resources.WorkOrderStatus
		description string
		notes       []string
	}{
		{status: resources.StatusPending, description: "Oil change and filter replacement", notes: []string{"Customer requested synthetic oil", "Check tire pressure"}},
		{status: resources.StatusInProgress, description: "Transmission fluid check", notes: []string{"Fluid appears dark", "Schedule full service"}},
		{status: resources.StatusCompleted, description: "Battery test and replacement", notes: []string{"Battery failed load test", "Replaced with new battery"}},
	}

	var created []string

	return &Scenario{
		Name:        NameListPagination,
		Description: "List work orders following continuation cursors",
		Tags:        []string{"workorder", "list", "pagination"},
		Steps: []Step{
			{
				Name: "seed work orders",
				Hard: true,
				Action: func(ctx context.Context, state *State) error {
					created = nil

					for _, seed := range seeds {
						workOrder, err := create(ctx, state, seed.status, seed.description, seed.notes...)
						if err != nil {
							return err
						}

						created = append(created, workOrder.WorkOrderID)
					}

					return nil
				},
			},
			{
				Name: "list with the server default page size",
				Action: func(ctx context.Context, state *State) error {
					page, err := state.WorkOrders.List(ctx, resources.ListOptions{PageSize: -1})
					if err != nil {
						return err
					}

					state.Notef("returned %d items with page size %d", page.Len(), page.PageSize)

					return Assertf(len(page.Items) > 0, "expected at least one work order")
				},
			},
			{
				Name: "list with explicit page size",
				Action: func(ctx context.Context, state *State) error {
					page, err := state.WorkOrders.List(ctx, resources.ListOptions{PageSize: state.Fixture.PageSize})
					if err != nil {
						return err
					}

					state.Notef("returned %d items, more pages: %t", page.Len(), page.Continuation() != "")

					return Assertf(len(page.Items) <= state.Fixture.PageSize, "page has %d items, exceeding page size %d", len(page.Items), state.Fixture.PageSize)
				},
			},
			{
				Name: "follow cursors to the final page",
				Action: func(ctx context.Context, state *State) error {
					var oversize []error

					pages := 0

					all, err := state.WorkOrders.ListAll(ctx, state.Fixture.PageSize, func(page *resources.Page[resources.WorkOrder]) error {
						pages++

						oversize = append(oversize, Assertf(len(page.Items) <= state.Fixture.PageSize, "page %d has %d items, exceeding page size %d", pages, len(page.Items), state.Fixture.PageSize))

						return nil
					})
					if err != nil {
						return err
					}

					state.Notef("listed %d work orders over %d pages", len(all), pages)

					ids := make([]string, len(all))

					for i := range all {
						ids[i] = all[i].WorkOrderID
					}

					var missing []error

					for id := range set.New[string](created...).Difference(set.New[string](ids...)).All() {
						missing = append(missing, &AssertionError{Message: fmt.Sprintf("seeded work order %s not listed", id)})
					}

					return All(append(oversize, missing...)...)
				},
			},
		},
	}
}

// UnitsWithWorkOrders lists units and checks the embedded work orders.
func UnitsWithWorkOrders() *Scenario {
	return &Scenario{
		Name:        NameUnitsWithWorkOrders,
		Description: "List units with their work orders embedded",
		Tags:        []string{"unit", "list"},
		Steps: []Step{
			{
				Name: "list units with work orders",
				Action: func(ctx context.Context, state *State) error {
					page, err := state.Units.ListWithWorkOrders(ctx, resources.ListOptions{PageSize: state.Fixture.UnitLimit})
					if err != nil {
						return err
					}

					var errs []error

					errs = append(errs, Assertf(len(page.Items) <= state.Fixture.UnitLimit, "returned %d units, exceeding limit %d", len(page.Items), state.Fixture.UnitLimit))

					workOrders := 0

					for _, unit := range page.Items {
						errs = append(errs, NotEmpty("unit id", unit.ID))

						for _, workOrder := range unit.WorkOrders {
							if workOrder.UnitID != "" {
								errs = append(errs, Equal("unit "+unit.ID+" work order unitId", unit.ID, workOrder.UnitID))
							}
						}

						workOrders += len(unit.WorkOrders)
					}

					state.Notef("returned %d units with %d work orders, more pages: %t", len(page.Items), workOrders, page.Continuation() != "")

					if page.HasMore == nil {
						state.Warnf("page does not report hasMore")
					}

					return All(errs...)
				},
			},
		},
	}
}
