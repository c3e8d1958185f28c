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

// Package fake provides an in-memory implementation of the work order and
// unit GraphQL API.  It exists so the harness can be exercised end to end
// without network access, and can be configured to reproduce each of the
// deletion behaviours observed from the real service.
package fake

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/parser"

	"github.com/nscaledev/workorder-apitest/pkg/resources"
)

var (
	errNotFound     = errors.New("WorkOrder not found")
	errAccessDenied = errors.New("Access denied: accountId must match authenticated user")
)

// DeleteMode selects how deleted work orders are presented on read.
type DeleteMode int

const (
	// SoftDelete returns the work order with deletedAt set.
	SoftDelete DeleteMode = iota
	// HardDelete returns a null work order.
	HardDelete
	// ErrorOnDeleted returns a not found error.
	ErrorOnDeleted
	// IgnoreDelete acknowledges deletion but leaves the work order live,
	// which clients must treat as a failure.
	IgnoreDelete
)

const (
	defaultPageSize  = 10
	defaultUnitLimit = 10
)

// Server is the fake service.  It is safe for concurrent use.
type Server struct {
	token     string
	accountID string

	lock       sync.Mutex
	deleteMode DeleteMode
	workOrders map[string]*resources.WorkOrder
	order      []string
	units      []resources.Unit
	failures   map[string]string
	requests   int
	now        func() time.Time
}

// New returns a server that accepts the given bearer token and account.
func New(token, accountID string) *Server {
	return &Server{
		token:      token,
		accountID:  accountID,
		workOrders: map[string]*resources.WorkOrder{},
		failures:   map[string]string{},
		now:        time.Now,
	}
}

// SetDeleteMode changes how deleted work orders are read back.
func (s *Server) SetDeleteMode(mode DeleteMode) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.deleteMode = mode
}

// SetClock replaces the source of created and updated timestamps.
func (s *Server) SetClock(now func() time.Time) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.now = now
}

// Fail makes every subsequent call to the root field return a GraphQL error
// with the message.  An empty message clears the failure.
func (s *Server) Fail(field, message string) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if message == "" {
		delete(s.failures, field)

		return
	}

	s.failures[field] = message
}

// AddUnit registers a unit, its work orders are joined on read.
func (s *Server) AddUnit(unit resources.Unit) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.units = append(s.units, unit)
}

// WorkOrder returns a copy of the stored work order.
func (s *Server) WorkOrder(id string) (resources.WorkOrder, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	workOrder, ok := s.workOrders[id]
	if !ok {
		return resources.WorkOrder{}, false
	}

	return *workOrder, true
}

// Requests returns the number of authenticated requests served.
func (s *Server) Requests() int {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.requests
}

// Handler returns the HTTP handler, the API is served on /graphql.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.authenticate)
	router.Post("/graphql", s.serveGraphQL)

	return router
}

// authenticate rejects requests without the expected bearer token, as an
// API gateway would, with no GraphQL body.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token != s.token {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)

			return
		}

		next.ServeHTTP(w, r)
	})
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type response struct {
	Data   map[string]any `json:"data"`
	Errors gqlerror.List  `json:"errors,omitempty"`
}

func (s *Server) serveGraphQL(w http.ResponseWriter, r *http.Request) {
	var req request

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{Errors: gqlerror.List{gqlerror.Errorf("malformed request: %v", err)}})

		return
	}

	document, err := parser.ParseQuery(&ast.Source{Input: req.Query})
	if err != nil {
		writeJSON(w, http.StatusBadRequest, response{Errors: gqlerror.List{gqlerror.Errorf("%s", err.Error())}})

		return
	}

	if len(document.Operations) != 1 {
		writeJSON(w, http.StatusBadRequest, response{Errors: gqlerror.List{gqlerror.Errorf("expected a single operation")}})

		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.requests++

	resp := response{Data: map[string]any{}}

	for _, selection := range document.Operations[0].SelectionSet {
		field, ok := selection.(*ast.Field)
		if !ok {
			continue
		}

		key := field.Alias
		if key == "" {
			key = field.Name
		}

		value, err := s.resolve(field, req.Variables)
		if err != nil {
			resp.Data[key] = nil
			resp.Errors = append(resp.Errors, &gqlerror.Error{
				Message: err.Error(),
				Path:    ast.Path{ast.PathName(key)},
			})

			continue
		}

		resp.Data[key] = value
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(body)
}
