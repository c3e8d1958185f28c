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

// GraphQL documents.  Field and argument names are fixed by the remote
// schema and must not be altered.
const (
	workOrderFields = `workOrderId accountId contactId unitId status description notes createdAt updatedAt deletedAt`

	createWorkOrderMutation = `mutation CreateWorkOrder($accountId: ID!, $input: CreateWorkOrderInput!) {
  createWorkOrder(accountId: $accountId, input: $input) {
    ` + workOrderFields + `
  }
}`

	getWorkOrderQuery = `query GetWorkOrder($accountId: ID!, $workOrderId: ID!) {
  getWorkOrder(accountId: $accountId, workOrderId: $workOrderId) {
    ` + workOrderFields + `
  }
}`

	updateWorkOrderMutation = `mutation UpdateWorkOrder($accountId: ID!, $workOrderId: ID!, $input: UpdateWorkOrderInput!) {
  updateWorkOrder(accountId: $accountId, workOrderId: $workOrderId, input: $input) {
    ` + workOrderFields + `
  }
}`

	deleteWorkOrderMutation = `mutation DeleteWorkOrder($accountId: ID!, $workOrderId: ID!) {
  deleteWorkOrder(accountId: $accountId, workOrderId: $workOrderId)
}`

	listWorkOrdersQuery = `query ListWorkOrders($accountId: ID!, $pageSize: Int, $cursor: String) {
  listWorkOrders(accountId: $accountId, pageSize: $pageSize, cursor: $cursor) {
    items {
      workOrderId
      status
      description
      createdAt
      updatedAt
    }
    nextCursor
    pageSize
    count
  }
}`

	getUnitWithWorkOrdersQuery = `query GetUnitsWithWorkOrders($cursor: String, $limit: Int) {
  getUnitWithWorkOrders(cursor: $cursor, limit: $limit) {
    items {
      id
      accountId
      locationId
      suggestedVin
      model
      modelYear
      make
      manufacturerName
      vehicleType
      unitType
      createdAt
      updatedAt
      workOrders {
        workOrderId
        accountId
        unitId
        status
        description
        notes
        createdAt
        updatedAt
      }
    }
    cursor
    hasMore
  }
}`
)

// Root field names, used to unwrap responses.
const (
	FieldCreateWorkOrder       = "createWorkOrder"
	FieldGetWorkOrder          = "getWorkOrder"
	FieldUpdateWorkOrder       = "updateWorkOrder"
	FieldDeleteWorkOrder       = "deleteWorkOrder"
	FieldListWorkOrders        = "listWorkOrders"
	FieldGetUnitWithWorkOrders = "getUnitWithWorkOrders"
)
