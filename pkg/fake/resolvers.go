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

package fake

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/vektah/gqlparser/v2/ast"

	"github.com/nscaledev/workorder-apitest/pkg/resources"

	"k8s.io/utils/ptr"
)

var (
	errInvalidCursor = errors.New("invalid cursor")
	errInvalidInput  = errors.New("invalid input")
)

// resolve dispatches a root field.  The lock is held by the caller.
func (s *Server) resolve(field *ast.Field, variables map[string]any) (any, error) {
	if message, ok := s.failures[field.Name]; ok {
		return nil, errors.New(message) //nolint:err113
	}

	args, err := arguments(field, variables)
	if err != nil {
		return nil, err
	}

	switch field.Name {
	case resources.FieldCreateWorkOrder:
		return s.createWorkOrder(args)
	case resources.FieldGetWorkOrder:
		return s.getWorkOrder(args)
	case resources.FieldUpdateWorkOrder:
		return s.updateWorkOrder(args)
	case resources.FieldDeleteWorkOrder:
		return s.deleteWorkOrder(args)
	case resources.FieldListWorkOrders:
		return s.listWorkOrders(args)
	case resources.FieldGetUnitWithWorkOrders:
		return s.getUnitWithWorkOrders(args)
	}

	//nolint:err113
	return nil, fmt.Errorf("Cannot query field %q on type \"Query\"", field.Name)
}

// arguments resolves literal and variable argument values.
func arguments(field *ast.Field, variables map[string]any) (map[string]any, error) {
	args := map[string]any{}

	for _, argument := range field.Arguments {
		value, err := argument.Value.Value(variables)
		if err != nil {
			return nil, err
		}

		args[argument.Name] = value
	}

	return args, nil
}

func (s *Server) checkAccount(args map[string]any) error {
	if accountID, _ := args["accountId"].(string); accountID != s.accountID {
		return errAccessDenied
	}

	return nil
}

func validStatus(status string) bool {
	switch resources.WorkOrderStatus(status) {
	case resources.StatusDraft, resources.StatusPending, resources.StatusInProgress, resources.StatusCompleted:
		return true
	}

	return false
}

func stringList(value any) ([]string, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: notes must be a list", errInvalidInput)
	}

	out := make([]string, len(items))

	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: notes must be strings", errInvalidInput)
		}

		out[i] = s
	}

	return out, nil
}

func toInt(value any) (int, bool) {
	switch t := value.(type) {
	case float64:
		return int(t), true
	case int64:
		return int(t), true
	case int:
		return t, true
	}

	return 0, false
}

func encodeCursor(offset int) string {
	return base64.RawURLEncoding.EncodeToString([]byte("offset:" + strconv.Itoa(offset)))
}

func decodeCursor(value any) (int, error) {
	cursor, _ := value.(string)
	if cursor == "" {
		return 0, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, errInvalidCursor
	}

	offset, ok := strings.CutPrefix(string(raw), "offset:")
	if !ok {
		return 0, errInvalidCursor
	}

	n, err := strconv.Atoi(offset)
	if err != nil || n < 0 {
		return 0, errInvalidCursor
	}

	return n, nil
}

// window returns the bounds of a page and the continuation, if any.
func window(total, offset, size int) (int, int, *string) {
	start := min(offset, total)
	end := min(start+size, total)

	if end < total {
		return start, end, ptr.To(encodeCursor(end))
	}

	return start, end, nil
}

func (s *Server) createWorkOrder(args map[string]any) (any, error) {
	if err := s.checkAccount(args); err != nil {
		return nil, err
	}

	input, ok := args["input"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: input is required", errInvalidInput)
	}

	workOrder := &resources.WorkOrder{
		WorkOrderID: uuid.NewString(),
		AccountID:   s.accountID,
		Notes:       []string{},
	}

	for _, name := range []string{"contactId", "unitId", "status", "description"} {
		if value, _ := input[name].(string); value == "" {
			return nil, fmt.Errorf("%w: %s is required", errInvalidInput, name)
		}
	}

	workOrder.ContactID, _ = input["contactId"].(string)
	workOrder.UnitID, _ = input["unitId"].(string)
	workOrder.Description, _ = input["description"].(string)

	status, _ := input["status"].(string)
	if !validStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", errInvalidInput, status)
	}

	workOrder.Status = resources.WorkOrderStatus(status)

	if value, ok := input["notes"]; ok && value != nil {
		notes, err := stringList(value)
		if err != nil {
			return nil, err
		}

		workOrder.Notes = notes
	}

	now := s.now().Unix()
	workOrder.CreatedAt = now
	workOrder.UpdatedAt = now

	s.workOrders[workOrder.WorkOrderID] = workOrder
	s.order = append(s.order, workOrder.WorkOrderID)

	result := *workOrder

	return &result, nil
}

func (s *Server) getWorkOrder(args map[string]any) (any, error) {
	if err := s.checkAccount(args); err != nil {
		return nil, err
	}

	id, _ := args["workOrderId"].(string)

	workOrder, ok := s.workOrders[id]
	if !ok {
		return nil, errNotFound
	}

	if workOrder.IsDeleted() {
		//nolint:exhaustive
		switch s.deleteMode {
		case HardDelete:
			return nil, nil
		case ErrorOnDeleted:
			return nil, errNotFound
		}
	}

	result := *workOrder

	return &result, nil
}

func (s *Server) updateWorkOrder(args map[string]any) (any, error) {
	if err := s.checkAccount(args); err != nil {
		return nil, err
	}

	id, _ := args["workOrderId"].(string)

	workOrder, ok := s.workOrders[id]
	if !ok || workOrder.IsDeleted() {
		return nil, errNotFound
	}

	input, ok := args["input"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: input is required", errInvalidInput)
	}

	updated := *workOrder

	if value, ok := input["contactId"].(string); ok {
		updated.ContactID = value
	}

	if value, ok := input["unitId"].(string); ok {
		updated.UnitID = value
	}

	if value, ok := input["description"].(string); ok {
		updated.Description = value
	}

	if value, ok := input["status"].(string); ok {
		if !validStatus(value) {
			return nil, fmt.Errorf("%w: unknown status %q", errInvalidInput, value)
		}

		updated.Status = resources.WorkOrderStatus(value)
	}

	if value, ok := input["notes"]; ok && value != nil {
		notes, err := stringList(value)
		if err != nil {
			return nil, err
		}

		updated.Notes = notes
	}

	updated.UpdatedAt = s.now().Unix()

	*workOrder = updated

	return &updated, nil
}

func (s *Server) deleteWorkOrder(args map[string]any) (any, error) {
	if err := s.checkAccount(args); err != nil {
		return nil, err
	}

	id, _ := args["workOrderId"].(string)

	workOrder, ok := s.workOrders[id]
	if !ok || workOrder.IsDeleted() {
		return nil, errNotFound
	}

	if s.deleteMode != IgnoreDelete {
		workOrder.DeletedAt = ptr.To(s.now().Unix())
	}

	return true, nil
}

func (s *Server) liveWorkOrders() []resources.WorkOrder {
	live := make([]resources.WorkOrder, 0, len(s.order))

	for _, id := range s.order {
		if workOrder := s.workOrders[id]; !workOrder.IsDeleted() {
			live = append(live, *workOrder)
		}
	}

	return live
}

func (s *Server) listWorkOrders(args map[string]any) (any, error) {
	if err := s.checkAccount(args); err != nil {
		return nil, err
	}

	pageSize := defaultPageSize

	if value, ok := toInt(args["pageSize"]); ok {
		if value <= 0 {
			return nil, fmt.Errorf("%w: pageSize must be positive", errInvalidInput)
		}

		pageSize = value
	}

	offset, err := decodeCursor(args["cursor"])
	if err != nil {
		return nil, err
	}

	live := s.liveWorkOrders()

	start, end, next := window(len(live), offset, pageSize)

	return &resources.Page[resources.WorkOrder]{
		Items:      live[start:end],
		NextCursor: next,
		PageSize:   pageSize,
		Count:      ptr.To(end - start),
	}, nil
}

func (s *Server) getUnitWithWorkOrders(args map[string]any) (any, error) {
	limit := defaultUnitLimit

	if value, ok := toInt(args["limit"]); ok && value > 0 {
		limit = value
	}

	offset, err := decodeCursor(args["cursor"])
	if err != nil {
		return nil, err
	}

	live := s.liveWorkOrders()

	start, end, next := window(len(s.units), offset, limit)

	items := make([]resources.Unit, 0, end-start)

	for _, unit := range s.units[start:end] {
		unit.WorkOrders = []resources.WorkOrder{}

		for _, workOrder := range live {
			if workOrder.UnitID == unit.ID {
				unit.WorkOrders = append(unit.WorkOrders, workOrder)
			}
		}

		items = append(items, unit)
	}

	return &resources.Page[resources.Unit]{
		Items:   items,
		Cursor:  next,
		HasMore: ptr.To(next != nil),
	}, nil
}
