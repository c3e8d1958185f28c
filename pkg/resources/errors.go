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
	"errors"
	"fmt"
	"strings"

	"github.com/vektah/gqlparser/v2/gqlerror"
)

var (
	// ErrOperation is raised when an operation expected to succeed returned
	// GraphQL errors or no data.
	ErrOperation = errors.New("operation error")

	// ErrInvalidResponse is raised when a response is well formed GraphQL
	// but violates the expected shape.
	ErrInvalidResponse = errors.New("invalid response")
)

// OperationError describes a failed operation.
type OperationError struct {
	// Operation is the root field e.g. createWorkOrder.
	Operation string
	// Errors are any GraphQL errors returned.
	Errors gqlerror.List
	// Reason is set when there were no GraphQL errors.
	Reason string
}

func (e *OperationError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("%s: %s: %s", ErrOperation.Error(), e.Operation, e.Reason)
	}

	messages := make([]string, len(e.Errors))

	for i, err := range e.Errors {
		messages[i] = err.Message
	}

	return fmt.Sprintf("%s: %s: %s", ErrOperation.Error(), e.Operation, strings.Join(messages, "; "))
}

func (e *OperationError) Unwrap() error {
	return ErrOperation
}

// IsOperationError returns the operation error if err is one.
func IsOperationError(err error) (*OperationError, bool) {
	var target *OperationError

	if errors.As(err, &target) {
		return target, true
	}

	return nil, false
}
