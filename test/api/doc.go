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

// Package api provides integration test utilities for the work order
// GraphQL API.
//
// # Shared Client Implementation
//
// Unlike the command line harness, which runs fixed scenarios and leaves
// residue, the suites here register a cleanup for every work order they
// create.  Both share the same client and typed operations, so a change to
// the request documents is exercised by the fake backed unit tests and by
// these suites against a real deployment.
//
// # Configuration
//
// The suites read the same environment variables as the command line, from
// the process environment or a .env file.  They are skipped when required
// values are missing or SKIP_INTEGRATION is set.
package api
