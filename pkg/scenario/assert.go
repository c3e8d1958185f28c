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
	"fmt"
	"slices"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

// Assertf returns an assertion error with the message if the condition
// does not hold.
func Assertf(condition bool, format string, args ...any) error {
	if condition {
		return nil
	}

	return &AssertionError{Message: fmt.Sprintf(format, args...)}
}

// Equal asserts a named value.
func Equal[T comparable](name string, expected, actual T) error {
	return Assertf(expected == actual, "%s: expected %v, got %v", name, expected, actual)
}

// NotEmpty asserts a named value is set.
func NotEmpty[T comparable](name string, actual T) error {
	var zero T

	return Assertf(actual != zero, "%s: expected a value", name)
}

// HasPrefix asserts a list begins with the prefix, in order.
func HasPrefix[T comparable](name string, prefix, actual []T) error {
	return Assertf(len(actual) >= len(prefix) && slices.Equal(prefix, actual[:len(prefix)]), "%s: expected %v to begin with %v", name, actual, prefix)
}

// All combines assertions, returning nil if all passed.
func All(errs ...error) error {
	return utilerrors.NewAggregate(errs)
}
