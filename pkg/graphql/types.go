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

package graphql

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"
)

var (
	// ErrInvalidRequest is raised when a document is not a single,
	// syntactically valid operation.
	ErrInvalidRequest = errors.New("invalid graphql request")
)

// Request is an immutable GraphQL operation with its variables.
type Request struct {
	query         string
	operationName string
	operation     ast.Operation
	variables     map[string]any
}

// NewRequest parses the query and returns a request.  Only structure is
// checked, there is no schema to validate against.
func NewRequest(query string, variables map[string]any) (*Request, error) {
	document, err := parser.ParseQuery(&ast.Source{Name: "request", Input: query})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}

	if len(document.Operations) != 1 {
		return nil, fmt.Errorf("%w: expected exactly one operation, got %d", ErrInvalidRequest, len(document.Operations))
	}

	operation := document.Operations[0]

	for _, definition := range operation.VariableDefinitions {
		if definition.Type.NonNull && definition.DefaultValue == nil {
			if _, ok := variables[definition.Variable]; !ok {
				return nil, fmt.Errorf("%w: required variable $%s not provided", ErrInvalidRequest, definition.Variable)
			}
		}
	}

	return &Request{
		query:         query,
		operationName: operation.Name,
		operation:     operation.Operation,
		variables:     maps.Clone(variables),
	}, nil
}

// Query returns the GraphQL document.
func (r *Request) Query() string {
	return r.query
}

// OperationName returns the operation name, which may be empty.
func (r *Request) OperationName() string {
	return r.operationName
}

// Operation returns the operation type e.g. query or mutation.
func (r *Request) Operation() ast.Operation {
	return r.operation
}

// Variables returns a copy of the request variables.
func (r *Request) Variables() map[string]any {
	return maps.Clone(r.variables)
}

type wireRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// MarshalJSON encodes the request body.  Variables are always present,
// an empty object if none were given.
func (r *Request) MarshalJSON() ([]byte, error) {
	variables := r.variables
	if variables == nil {
		variables = map[string]any{}
	}

	return json.Marshal(wireRequest{
		Query:     r.query,
		Variables: variables,
	})
}

// Response is a decoded GraphQL response.  Data and errors may both be
// populated on partial success.
type Response struct {
	Data       json.RawMessage `json:"data,omitempty"`
	Errors     gqlerror.List   `json:"errors,omitempty"`
	Extensions map[string]any  `json:"extensions,omitempty"`
}

// HasErrors returns true if the errors array is populated.
func (r *Response) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasData returns true if the data field is present and not null.
func (r *Response) HasData() bool {
	return len(r.Data) > 0 && string(r.Data) != "null"
}

// Field decodes data.<name> into out.  It returns false when the data object
// or the field is absent or null, in which case out is untouched.
func (r *Response) Field(name string, out any) (bool, error) {
	if !r.HasData() {
		return false, nil
	}

	var fields map[string]json.RawMessage

	if err := json.Unmarshal(r.Data, &fields); err != nil {
		return false, fmt.Errorf("decoding data object: %w", err)
	}

	raw, ok := fields[name]
	if !ok || len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("decoding field %s: %w", name, err)
	}

	return true, nil
}

// ErrorMessages returns the messages of all errors in order.
func (r *Response) ErrorMessages() []string {
	messages := make([]string, len(r.Errors))

	for i, e := range r.Errors {
		messages[i] = e.Message
	}

	return messages
}
