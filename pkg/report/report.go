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

// Package report renders run summaries.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nscaledev/workorder-apitest/pkg/scenario"
)

// ErrFormat is raised when the output format is not supported.
var ErrFormat = errors.New("unsupported report format")

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Write renders the summary in the requested format.
func Write(w io.Writer, format string, summary *scenario.Summary) error {
	switch format {
	case FormatText, "":
		return Text(w, summary)
	case FormatJSON:
		return JSON(w, summary)
	}

	return fmt.Errorf("%w: %s", ErrFormat, format)
}

// JSON renders the summary as an indented document.
func JSON(w io.Writer, summary *scenario.Summary) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(summary)
}

func symbol(status scenario.Status) string {
	switch status {
	case scenario.StatusPassed:
		return "✅"
	case scenario.StatusFailed:
		return "❌"
	case scenario.StatusSkipped:
		return "⏭️ "
	case scenario.StatusPending, scenario.StatusRunning:
	}

	return "  "
}

// Text renders a human readable report.
func Text(w io.Writer, summary *scenario.Summary) error {
	var b strings.Builder

	rule := strings.Repeat("=", 50)

	for _, result := range summary.Results {
		fmt.Fprintf(&b, "%s %s", symbol(result.Status), result.Name)

		if result.Description != "" {
			fmt.Fprintf(&b, ": %s", result.Description)
		}

		fmt.Fprintf(&b, " (%s)\n", result.Duration.Round(time.Millisecond))

		for _, step := range result.Steps {
			fmt.Fprintf(&b, "   %s %s\n", symbol(step.Status), step.Name)

			for _, note := range step.Notes {
				fmt.Fprintf(&b, "      %s\n", note)
			}

			for _, warning := range step.Warnings {
				fmt.Fprintf(&b, "      ⚠️  Warning: %s\n", warning)
			}

			if step.Error != "" {
				fmt.Fprintf(&b, "      Error: %s\n", step.Error)
			}
		}

		b.WriteString("\n")
	}

	b.WriteString(rule + "\n")

	fmt.Fprintf(&b, "Scenarios: %d passed, %d failed, %d skipped (%s)\n",
		summary.Count(scenario.StatusPassed),
		summary.Count(scenario.StatusFailed),
		summary.Count(scenario.StatusSkipped),
		summary.Duration.Round(time.Millisecond))

	if summary.Aborted != "" {
		fmt.Fprintf(&b, "Run aborted: %s\n", summary.Aborted)
	}

	if residue := summary.Residue(); len(residue) > 0 {
		fmt.Fprintf(&b, "Residue: %d work orders were not cleaned up\n", len(residue))

		for _, id := range residue {
			fmt.Fprintf(&b, "   - %s\n", id)
		}
	}

	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())

	return err
}
