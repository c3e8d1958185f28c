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

package api

import (
	"os"
	"time"

	"github.com/nscaledev/workorder-apitest/pkg/options"
)

// TestConfig is the configuration for the live suites.
type TestConfig struct {
	*options.Options

	// TestTimeout bounds each spec.
	TestTimeout time.Duration
	// SkipIntegration disables the live suites.
	SkipIntegration bool
}

// LoadTestConfig loads configuration from environment variables and .env files.
// Returns an error if required configuration values are missing.
func LoadTestConfig() (*TestConfig, error) {
	if err := options.LoadEnvFile(os.Getenv("ENV_FILE")); err != nil {
		return nil, err
	}

	config := &TestConfig{
		Options:         options.New(),
		TestTimeout:     options.GetDurationWithDefault("TEST_TIMEOUT", 2*time.Minute),
		SkipIntegration: options.GetBoolWithDefault("SKIP_INTEGRATION", false),
	}

	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
