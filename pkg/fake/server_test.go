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

package fake_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nscaledev/workorder-apitest/pkg/fake"
)

const (
	token     = "token"
	accountID = "38c14370-a081-70c1-80e7-900c418472e5"
)

type result struct {
	Data   map[string]json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
		Path    []any  `json:"path"`
	} `json:"errors"`
}

func post(t *testing.T, url, bearer, query string, variables map[string]any) (int, *result) {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	require.NoError(t, err)

	req, err := http.NewRequestWithContext(t.Context(), http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)

	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, nil
	}

	var out result

	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return resp.StatusCode, &out
}

func TestRejectsBadToken(t *testing.T) {
	t.Parallel()

	server := fake.New(token, accountID)
	url := fake.Start(t, server)

	status, _ := post(t, url, "wrong", `query { listWorkOrders(accountId: "x") { count } }`, nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Zero(t, server.Requests())
}

func TestUnknownFieldAndAccount(t *testing.T) {
	t.Parallel()

	server := fake.New(token, accountID)
	url := fake.Start(t, server)

	status, out := post(t, url, token, `query { nothing }`, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, out.Errors, 1)
	require.Equal(t, []any{"nothing"}, out.Errors[0].Path)

	_, out = post(t, url, token, `query L($accountId: ID!) { listWorkOrders(accountId: $accountId) { count } }`, map[string]any{"accountId": "someone-else"})
	require.Len(t, out.Errors, 1)
	require.Contains(t, out.Errors[0].Message, "Access denied")
	require.JSONEq(t, "null", string(out.Data["listWorkOrders"]))
}

func TestLiteralArguments(t *testing.T) {
	t.Parallel()

	server := fake.New(token, accountID)
	url := fake.Start(t, server)

	_, out := post(t, url, token, `query { listWorkOrders(accountId: "`+accountID+`", pageSize: 3) { count pageSize } }`, nil)
	require.Empty(t, out.Errors)

	var page struct {
		Count    int `json:"count"`
		PageSize int `json:"pageSize"`
	}

	require.NoError(t, json.Unmarshal(out.Data["listWorkOrders"], &page))
	require.Equal(t, 0, page.Count)
	require.Equal(t, 3, page.PageSize)
}

func TestInvalidCursor(t *testing.T) {
	t.Parallel()

	server := fake.New(token, accountID)
	url := fake.Start(t, server)

	_, out := post(t, url, token, `query L($accountId: ID!, $cursor: String) { listWorkOrders(accountId: $accountId, cursor: $cursor) { count } }`,
		map[string]any{"accountId": accountID, "cursor": "!!not-a-cursor!!"})
	require.Len(t, out.Errors, 1)
}

func TestMalformedDocument(t *testing.T) {
	t.Parallel()

	server := fake.New(token, accountID)
	url := fake.Start(t, server)

	status, _ := post(t, url, token, `query {`, nil)
	require.Equal(t, http.StatusBadRequest, status)
}
