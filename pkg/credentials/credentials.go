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

// Package credentials acquires the opaque bearer token the harness presents
// to the API.  Token minting is delegated to an external process, the
// harness only invokes it and trims the result.
package credentials

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/nscaledev/workorder-apitest/pkg/options"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

var (
	// ErrAuth is raised when no usable token could be acquired.
	ErrAuth = errors.New("authentication error")
)

// CommandProvider runs an external command and uses its trimmed standard
// output as the token.
type CommandProvider struct {
	name string
	args []string
}

// Ensure the interface is implemented.
var _ Provider = &CommandProvider{}

// NewCommandProvider parses a whitespace separated command line.
func NewCommandProvider(command string) (*CommandProvider, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: token command is empty", ErrAuth)
	}

	return &CommandProvider{
		name: fields[0],
		args: fields[1:],
	}, nil
}

// Fetch runs the command.  A non-zero exit or empty output is an error, there
// are no retries.
func (p *CommandProvider) Fetch(ctx context.Context) (string, error) {
	log := log.FromContext(ctx)

	log.V(1).Info("fetching token", "command", p.name)

	var stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, p.name, p.args...)
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%w: token command %s failed: %w (stderr: %s)", ErrAuth, p.name, err, strings.TrimSpace(stderr.String()))
	}

	token := strings.TrimSpace(string(out))
	if token == "" {
		return "", fmt.Errorf("%w: token command %s produced no output", ErrAuth, p.name)
	}

	return token, nil
}

// StaticProvider returns a fixed token, typically supplied by the
// environment in CI.
type StaticProvider string

// Ensure the interface is implemented.
var _ Provider = StaticProvider("")

// Fetch returns the token.
func (p StaticProvider) Fetch(_ context.Context) (string, error) {
	token := strings.TrimSpace(string(p))
	if token == "" {
		return "", fmt.Errorf("%w: static token is empty", ErrAuth)
	}

	return token, nil
}

// Once wraps a provider so the token is acquired at most once, subsequent
// calls return the same token or the same error.  It is not safe for
// concurrent use, the harness is strictly sequential.
type Once struct {
	provider Provider
	fetched  bool
	token    string
	err      error
}

// Ensure the interface is implemented.
var _ Provider = &Once{}

// NewOnce wraps the provider.
func NewOnce(provider Provider) *Once {
	return &Once{
		provider: provider,
	}
}

// Fetch returns the memoised token.
func (o *Once) Fetch(ctx context.Context) (string, error) {
	if !o.fetched {
		o.token, o.err = o.provider.Fetch(ctx)
		o.fetched = true
	}

	return o.token, o.err
}

// FromOptions returns the provider selected by configuration.  An explicit
// token takes precedence over the token command.
func FromOptions(o *options.Options) (Provider, error) {
	if o.AuthToken != "" {
		return NewOnce(StaticProvider(o.AuthToken)), nil
	}

	provider, err := NewCommandProvider(o.TokenCommand)
	if err != nil {
		return nil, err
	}

	return NewOnce(provider), nil
}
