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

// Package graphql provides a minimal GraphQL over HTTPS client.  It
// distinguishes transport failures, which are returned as errors, from
// GraphQL level errors, which are returned in the response for the caller
// to interpret.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nscaledev/workorder-apitest/pkg/credentials"
	"github.com/nscaledev/workorder-apitest/pkg/options"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

var (
	// ErrTransport is raised on network failure, or a non-2xx status
	// without a GraphQL body.
	ErrTransport = errors.New("transport error")
)

// maxLoggedBody bounds the body excerpt included in errors.
const maxLoggedBody = 512

// Client sends GraphQL requests over HTTP.
type Client struct {
	endpoint     string
	client       *http.Client
	credentials  credentials.Provider
	logRequests  bool
	logResponses bool
}

// Ensure the interface is implemented.
var _ Executor = &Client{}

// New returns a client for the endpoint.  A zero timeout leaves the HTTP
// client default in place.
func New(endpoint string, provider credentials.Provider, timeout time.Duration) *Client {
	return &Client{
		endpoint:    endpoint,
		client:      &http.Client{Timeout: timeout},
		credentials: provider,
	}
}

// NewFromOptions returns a client configured from harness options.
func NewFromOptions(o *options.Options, provider credentials.Provider) *Client {
	c := New(o.EndpointURL, provider, o.RequestTimeout)
	c.logRequests = o.LogRequests
	c.logResponses = o.LogResponses

	return c
}

// Execute performs a single synchronous POST.  There are no retries.
//
//nolint:cyclop
func (c *Client) Execute(ctx context.Context, request *Request) (*Response, error) {
	token, err := c.credentials.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	traceParent := createTraceParent()

	log := log.FromContext(ctx).WithValues("operation", request.OperationName(), "traceID", extractTraceID(traceParent))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", ErrTransport, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Traceparent", traceParent)
	req.Header.Set("Tracestate", "test-automation=workorder-apitest")

	start := time.Now()
	resp, err := c.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		log.Error(err, "http request failed", "duration", duration)

		return nil, fmt.Errorf("%w: http request failed: %w", ErrTransport, err)
	}

	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response body: %w", ErrTransport, err)
	}

	if c.logRequests {
		log.Info("graphql request", "status", resp.StatusCode, "duration", duration)
	}

	if c.logResponses {
		log.Info("graphql response", "body", string(respBody))
	}

	var response Response

	decodeErr := json.Unmarshal(respBody, &response)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// GraphQL servers may return errors with a non-2xx status, these are
		// surfaced to the caller like any other GraphQL error.
		if decodeErr == nil && (response.HasErrors() || response.HasData()) {
			log.V(1).Info("graphql errors with non-2xx status", "status", resp.StatusCode)

			return &response, nil
		}

		return nil, fmt.Errorf("%w: unexpected status code %d, body: %s (trace ID: %s)", ErrTransport, resp.StatusCode, excerpt(respBody), extractTraceID(traceParent))
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decoding response: %w (trace ID: %s)", ErrTransport, decodeErr, extractTraceID(traceParent))
	}

	if response.HasErrors() {
		log.V(1).Info("graphql errors", "errors", response.ErrorMessages())
	}

	return &response, nil
}

func excerpt(body []byte) string {
	if len(body) > maxLoggedBody {
		return string(body[:maxLoggedBody]) + "..."
	}

	return string(body)
}
