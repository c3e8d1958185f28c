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

// Package resources provides typed operations over the work order and unit
// GraphQL API.  Each operation builds a request, executes it and unwraps
// the response into a Go type.
package resources

import (
	"time"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

// WorkOrderStatus is the lifecycle state of a work order.
type WorkOrderStatus string

const (
	StatusDraft      WorkOrderStatus = "draft"
	StatusPending    WorkOrderStatus = "pending"
	StatusInProgress WorkOrderStatus = "inProgress"
	StatusCompleted  WorkOrderStatus = "completed"
)

// WorkOrder is a server owned work order.  Timestamps are epoch seconds.
type WorkOrder struct {
	WorkOrderID string          `json:"workOrderId"`
	AccountID   string          `json:"accountId,omitempty"`
	ContactID   string          `json:"contactId,omitempty"`
	UnitID      string          `json:"unitId,omitempty"`
	Status      WorkOrderStatus `json:"status"`
	Description string          `json:"description"`
	Notes       []string        `json:"notes,omitempty"`
	CreatedAt   int64           `json:"createdAt,omitempty"`
	UpdatedAt   int64           `json:"updatedAt,omitempty"`
	// DeletedAt is set when the work order has been soft deleted.
	DeletedAt *int64 `json:"deletedAt,omitempty"`
}

// IsDeleted returns true if the work order carries a deletion timestamp.
func (w *WorkOrder) IsDeleted() bool {
	return w.DeletedAt != nil && *w.DeletedAt != 0
}

// DeletedTime returns the deletion time, zero if not deleted.
func (w *WorkOrder) DeletedTime() time.Time {
	if !w.IsDeleted() {
		return time.Time{}
	}

	return time.Unix(*w.DeletedAt, 0)
}

// CreateWorkOrderInput is the createWorkOrder input object.
type CreateWorkOrderInput struct {
	ContactID   string          `json:"contactId"`
	UnitID      string          `json:"unitId"`
	Status      WorkOrderStatus `json:"status"`
	Description string          `json:"description"`
	Notes       []string        `json:"notes,omitempty"`
}

// UpdateWorkOrderInput is a partial update, nil fields are left unchanged
// by the server.
type UpdateWorkOrderInput struct {
	ContactID   *string          `json:"contactId,omitempty"`
	UnitID      *string          `json:"unitId,omitempty"`
	Status      *WorkOrderStatus `json:"status,omitempty"`
	Description *string          `json:"description,omitempty"`
	Notes       []string         `json:"notes,omitempty"`
}

// Unit is a vehicle with its work orders embedded at query time.
type Unit struct {
	ID               string      `json:"id"`
	AccountID        string      `json:"accountId,omitempty"`
	LocationID       string      `json:"locationId,omitempty"`
	SuggestedVIN     string      `json:"suggestedVin,omitempty"`
	Make             string      `json:"make,omitempty"`
	Model            string      `json:"model,omitempty"`
	ModelYear        string      `json:"modelYear,omitempty"`
	ManufacturerName string      `json:"manufacturerName,omitempty"`
	VehicleType      string      `json:"vehicleType,omitempty"`
	UnitType         string      `json:"unitType,omitempty"`
	CreatedAt        int64       `json:"createdAt,omitempty"`
	UpdatedAt        int64       `json:"updatedAt,omitempty"`
	WorkOrders       []WorkOrder `json:"workOrders"`
}

// Page is one page of a listing.  Work order listings carry nextCursor and
// count, unit listings carry cursor and hasMore.
type Page[T any] struct {
	Items      []T     `json:"items"`
	NextCursor *string `json:"nextCursor,omitempty"`
	Cursor     *string `json:"cursor,omitempty"`
	PageSize   int     `json:"pageSize,omitempty"`
	Count      *int    `json:"count,omitempty"`
	HasMore    *bool   `json:"hasMore,omitempty"`
}

// Continuation returns the opaque token for the next page, empty when this
// is the last page.
func (p *Page[T]) Continuation() string {
	if p.NextCursor != nil && *p.NextCursor != "" {
		return *p.NextCursor
	}

	if p.Cursor != nil && *p.Cursor != "" {
		return *p.Cursor
	}

	return ""
}

// Len returns the reported item count, or the number of items if the server
// does not report one.
func (p *Page[T]) Len() int {
	if p.Count != nil {
		return *p.Count
	}

	return len(p.Items)
}

// ListOptions controls a single page request.  Zero values are omitted from
// the request.
type ListOptions struct {
	PageSize int
	Cursor   string
}

// LookupState discriminates the outcomes of reading back a work order,
// where deletion may be signalled in more than one way.
type LookupState int

const (
	// LookupFound means the work order exists and is live.
	LookupFound LookupState = iota
	// LookupSoftDeleted means the work order exists with deletedAt set.
	LookupSoftDeleted
	// LookupNotFound means the server returned no entity and no errors.
	LookupNotFound
	// LookupErrored means the server returned GraphQL errors.
	LookupErrored
)

func (s LookupState) String() string {
	switch s {
	case LookupFound:
		return "found"
	case LookupSoftDeleted:
		return "soft-deleted"
	case LookupNotFound:
		return "not-found"
	case LookupErrored:
		return "errored"
	}

	return "unknown"
}

// Lookup is the result of reading a work order by ID.
type Lookup struct {
	State LookupState
	// WorkOrder is set for found and soft deleted states.
	WorkOrder *WorkOrder
	// Errors is set for the errored state.
	Errors gqlerror.List
}
