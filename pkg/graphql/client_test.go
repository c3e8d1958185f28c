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

package graphql_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vektah/gqlparser/v2/ast"
	"go.uber.org/mock/gomock"

	"github.com/nscaledev/workorder-apitest/pkg/credentials"
	"github.com/nscaledev/workorder-apitest/pkg/credentials/mock"
	"github.com/nscaledev/workorder-apitest/pkg/graphql"
	"github.com/nscaledev/workorder-apitest/pkg/options"

	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

const getQuery = `query GetWorkOrder($accountId: ID!, $workOrderId: ID!) {
  getWorkOrder(accountId: $accountId, workOrderId: $workOrderId) { workOrderId status }
}`

func newRequest(t *testing.T) *graphql.Request {
	t.Helper()

	request, err := graphql.NewRequest(getQuery, map[string]any{"accountId": "a", "workOrderId": "w"})
	require.NoError(t, err)

	return request
}

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))

	t.Cleanup(server.Close)

	return server
}

// TestExecuteRequestShape ensures the wire request matches the GraphQL over
// HTTP convention with bearer authentication.
func TestExecuteRequestShape(t *testing.T) {
	t.Parallel()

	var (
		header http.Header
		body   map[string]any
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Clone()

		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		_, _ = io.WriteString(w, `{"data":{"getWorkOrder":{"workOrderId":"w","status":"pending"}}}`)
	}))
	defer server.Close()

	client := graphql.New(server.URL, credentials.StaticProvider("secret"), 5*time.Second)

	response, err := client.Execute(t.Context(), newRequest(t))
	require.NoError(t, err)
	require.False(t, response.HasErrors())

	require.Equal(t, "Bearer secret", header.Get("Authorization"))
	require.Equal(t, "application/json", header.Get("Content-Type"))
	require.Regexp(t, `^00-[0-9a-f]{32}-[0-9a-f]{16}-01$`, header.Get("Traceparent"))

	require.Equal(t, getQuery, body["query"])
	require.Equal(t, map[string]any{"accountId": "a", "workOrderId": "w"}, body["variables"])

	var workOrder struct {
		WorkOrderID string `json:"workOrderId"`
	}

	ok, err := response.Field("getWorkOrder", &workOrder)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "w", workOrder.WorkOrderID)
}

// TestExecuteGraphQLErrors ensures GraphQL errors never surface as Go errors.
func TestExecuteGraphQLErrors(t *testing.T) {
	t.Parallel()

	body := `{"data":{"getWorkOrder":null},"errors":[{"message":"WorkOrder not found","path":["getWorkOrder",0],"extensions":{"code":"NOT_FOUND"},"locations":[{"line":2,"column":3}]}]}`

	for _, status := range []int{http.StatusOK, http.StatusBadRequest, http.StatusInternalServerError} {
		server := serve(t, status, body)

		response, err := graphql.New(server.URL, credentials.StaticProvider("t"), 0).Execute(t.Context(), newRequest(t))
		require.NoError(t, err, status)
		require.True(t, response.HasErrors())
		require.Equal(t, []string{"WorkOrder not found"}, response.ErrorMessages())
		require.Equal(t, ast.Path{ast.PathName("getWorkOrder"), ast.PathIndex(0)}, response.Errors[0].Path)
		require.Equal(t, "NOT_FOUND", response.Errors[0].Extensions["code"])

		ok, err := response.Field("getWorkOrder", &struct{}{})
		require.NoError(t, err)
		require.False(t, ok)
	}
}

// TestExecuteTransportErrors ensures failures without a GraphQL body are
// transport errors.
func TestExecuteTransportErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		status int
		body   string
	}{
		{name: "non-2xx html", status: http.StatusBadGateway, body: "<html>bad gateway</html>"},
		{name: "non-2xx empty json", status: http.StatusUnauthorized, body: `{}`},
		{name: "2xx garbage", status: http.StatusOK, body: "not json"},
	}

	for _, tc := range cases {
		server := serve(t, tc.status, tc.body)

		_, err := graphql.New(server.URL, credentials.StaticProvider("t"), 0).Execute(t.Context(), newRequest(t))
		require.ErrorIs(t, err, graphql.ErrTransport, tc.name)
	}

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := graphql.New(url, credentials.StaticProvider("t"), time.Second).Execute(t.Context(), newRequest(t))
	require.ErrorIs(t, err, graphql.ErrTransport)
}

// TestExecuteAuthError ensures credential failures abort before any request.
func TestExecuteAuthError(t *testing.T) {
	t.Parallel()

	c := gomock.NewController(t)
	defer c.Finish()

	provider := mock.NewMockProvider(c)
	provider.EXPECT().Fetch(gomock.Any()).Return("", credentials.ErrAuth)

	called := false

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	_, err := graphql.New(server.URL, provider, 0).Execute(t.Context(), newRequest(t))
	require.ErrorIs(t, err, credentials.ErrAuth)
	require.False(t, called)
}

// TestNewFromOptions ensures the logging switches from options are applied.
func TestNewFromOptions(t *testing.T) {
	t.Parallel()

	server := serve(t, http.StatusOK, `{"data":{"getWorkOrder":null}}`)

	o := options.New()
	o.EndpointURL = server.URL
	o.LogRequests = true
	o.LogResponses = true

	var logs bytes.Buffer

	ctx := log.IntoContext(t.Context(), zap.New(zap.WriteTo(&logs)))

	response, err := graphql.NewFromOptions(o, credentials.StaticProvider("t")).Execute(ctx, newRequest(t))
	require.NoError(t, err)
	require.True(t, response.HasData())

	ok, err := response.Field("getWorkOrder", &struct{}{})
	require.NoError(t, err)
	require.False(t, ok)

	require.Contains(t, logs.String(), "graphql request")
	require.Contains(t, logs.String(), "graphql response")
	require.Contains(t, logs.String(), "GetWorkOrder")

	logs.Reset()

	o.LogRequests = false
	o.LogResponses = false

	_, err = graphql.NewFromOptions(o, credentials.StaticProvider("t")).Execute(ctx, newRequest(t))
	require.NoError(t, err)
	require.NotContains(t, logs.String(), "graphql request")
	require.NotContains(t, logs.String(), "graphql response")
}

// TestNewFromOptionsTimeout ensures the request timeout from options bounds
// each request.
func TestNewFromOptionsTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))

	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	o := options.New()
	o.EndpointURL = server.URL
	o.RequestTimeout = 50 * time.Millisecond

	_, err := graphql.NewFromOptions(o, credentials.StaticProvider("t")).Execute(t.Context(), newRequest(t))
	require.ErrorIs(t, err, graphql.ErrTransport)
}
