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

// Package options defines the harness configuration.  Values are layered,
// lowest precedence first: built in defaults, an optional YAML file, the
// process environment (optionally seeded from a .env file) and finally
// command line flags.
package options

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
)

var (
	// ErrMissingConfiguration is raised when required values are not set.
	ErrMissingConfiguration = errors.New("missing required configuration")

	// ErrInvalidConfiguration is raised when a value is out of range.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

const (
	// DefaultTokenCommand is the script historically used to mint ID tokens.
	DefaultTokenCommand = "/bin/bash ./get_token.sh"

	// DefaultContactID is the contact work orders are raised against.
	DefaultContactID = "550e8400-e29b-41d4-a716-446655440001"

	// DefaultUnitID is the unit work orders are raised against.
	DefaultUnitID = "550e8400-e29b-41d4-a716-446655440002"

	defaultPageSize       = 2
	defaultUnitLimit      = 5
	defaultRequestTimeout = 30 * time.Second
)

// Options is the complete harness configuration.
type Options struct {
	// EndpointURL is the GraphQL endpoint all requests are POSTed to.
	EndpointURL string `yaml:"endpointUrl"`
	// AccountID scopes all work order operations.
	AccountID string `yaml:"accountId"`
	// PageSizeDefault is used by list operations when no page size is given.
	PageSizeDefault int `yaml:"pageSizeDefault"`
	// UnitLimit is the page limit for unit listings.
	UnitLimit int `yaml:"unitLimit"`
	// ContactID and UnitID are referenced by created work orders.
	ContactID string `yaml:"contactId"`
	UnitID    string `yaml:"unitId"`

	// AuthToken, when set, is used verbatim and TokenCommand is ignored.
	// It is never read from a file.
	AuthToken    string `yaml:"-"`
	TokenCommand string `yaml:"tokenCommand"`

	RequestTimeout time.Duration `yaml:"requestTimeout"`
	LogRequests    bool          `yaml:"logRequests"`
	LogResponses   bool          `yaml:"logResponses"`

	// Scenarios restricts the run to the named scenarios, all run if empty.
	Scenarios []string `yaml:"scenarios"`
	// Output selects the report renderer.
	Output string `yaml:"output"`

	// ConfigPath and EnvFile are only settable on the command line.
	ConfigPath string `yaml:"-"`
	EnvFile    string `yaml:"-"`

	Logging zap.Options `yaml:"-"`
}

// New returns options populated with defaults.
func New() *Options {
	return &Options{
		PageSizeDefault: defaultPageSize,
		UnitLimit:       defaultUnitLimit,
		ContactID:       DefaultContactID,
		UnitID:          DefaultUnitID,
		TokenCommand:    DefaultTokenCommand,
		RequestTimeout:  defaultRequestTimeout,
		Output:          "text",
	}
}

// AddFlags registers command line flags.
func (o *Options) AddFlags(f *pflag.FlagSet) {
	f.StringVar(&o.EndpointURL, "endpoint", o.EndpointURL, "GraphQL endpoint URL.")
	f.StringVar(&o.AccountID, "account-id", o.AccountID, "Account ID work orders are scoped to.")
	f.IntVar(&o.PageSizeDefault, "page-size", o.PageSizeDefault, "Default page size for list operations.")
	f.IntVar(&o.UnitLimit, "unit-limit", o.UnitLimit, "Page limit for unit listings.")
	f.StringVar(&o.ContactID, "contact-id", o.ContactID, "Contact ID referenced by created work orders.")
	f.StringVar(&o.UnitID, "unit-id", o.UnitID, "Unit ID referenced by created work orders.")
	f.StringVar(&o.TokenCommand, "token-command", o.TokenCommand, "Command whose standard output is the bearer token.")
	f.DurationVar(&o.RequestTimeout, "request-timeout", o.RequestTimeout, "Per request HTTP timeout.")
	f.BoolVar(&o.LogRequests, "log-requests", o.LogRequests, "Log every request with its trace ID.")
	f.BoolVar(&o.LogResponses, "log-responses", o.LogResponses, "Log every response body.")
	f.StringSliceVar(&o.Scenarios, "scenario", o.Scenarios, "Scenario to run, may be repeated.")
	f.StringVar(&o.Output, "output", o.Output, "Report format, one of text or json.")
	f.StringVar(&o.ConfigPath, "config", o.ConfigPath, "Optional YAML configuration file.")
	f.StringVar(&o.EnvFile, "env-file", o.EnvFile, "Optional .env file to seed the environment from.")
}

// AddLoggingFlags registers the zap logging flags on the flag set.
func (o *Options) AddLoggingFlags(f *pflag.FlagSet) {
	goflags := flag.NewFlagSet("logging", flag.ContinueOnError)

	o.Logging.BindFlags(goflags)

	f.AddGoFlagSet(goflags)
}

// SetupLogging installs the global logger.
func (o *Options) SetupLogging() {
	log.SetLogger(zap.New(zap.UseFlagOptions(&o.Logging)))
}

// Complete resolves the final configuration after flags have been parsed.
// Defaults are overlaid with the configuration file, then the environment,
// then any flags explicitly set on the command line.
func (o *Options) Complete(flags *pflag.FlagSet) error {
	if err := LoadEnvFile(o.EnvFile); err != nil {
		return err
	}

	resolved := New()
	resolved.Logging = o.Logging
	resolved.ConfigPath = o.ConfigPath
	resolved.EnvFile = o.EnvFile

	if o.ConfigPath != "" {
		if err := resolved.LoadFile(o.ConfigPath); err != nil {
			return err
		}
	}

	resolved.ApplyEnv()

	overlay := pflag.NewFlagSet("overlay", pflag.ContinueOnError)
	resolved.AddFlags(overlay)

	var err error

	flags.Visit(func(f *pflag.Flag) {
		target := overlay.Lookup(f.Name)
		if target == nil || err != nil {
			return
		}

		if from, ok := f.Value.(pflag.SliceValue); ok {
			//nolint:forcetypeassert // both flag sets are built by AddFlags
			err = target.Value.(pflag.SliceValue).Replace(from.GetSlice())

			return
		}

		err = target.Value.Set(f.Value.String())
	})

	if err != nil {
		return err
	}

	*o = *resolved

	return o.Validate()
}

// LoadFile overlays values from a YAML file.
func (o *Options) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, o); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// ApplyEnv overlays values from the environment.  Unparseable numeric and
// boolean values are ignored and the existing value retained.
func (o *Options) ApplyEnv() {
	setString(&o.EndpointURL, "GRAPHQL_ENDPOINT")
	setString(&o.AccountID, "TEST_ACCOUNT_ID")
	setString(&o.ContactID, "TEST_CONTACT_ID")
	setString(&o.UnitID, "TEST_UNIT_ID")
	setString(&o.AuthToken, "API_AUTH_TOKEN")
	setString(&o.TokenCommand, "TOKEN_COMMAND")
	setString(&o.Output, "REPORT_OUTPUT")

	o.PageSizeDefault = GetIntWithDefault("PAGE_SIZE_DEFAULT", o.PageSizeDefault)
	o.UnitLimit = GetIntWithDefault("UNIT_LIMIT", o.UnitLimit)
	o.RequestTimeout = GetDurationWithDefault("REQUEST_TIMEOUT", o.RequestTimeout)
	o.LogRequests = GetBoolWithDefault("LOG_REQUESTS", o.LogRequests)
	o.LogResponses = GetBoolWithDefault("LOG_RESPONSES", o.LogResponses)

	if value := os.Getenv("TEST_SCENARIOS"); value != "" {
		o.Scenarios = strings.Split(value, ",")
	}
}

// Validate checks that all required configuration values are set.
func (o *Options) Validate() error {
	var missing []string

	if o.EndpointURL == "" {
		missing = append(missing, "GRAPHQL_ENDPOINT")
	}

	if o.AccountID == "" {
		missing = append(missing, "TEST_ACCOUNT_ID")
	}

	if o.AuthToken == "" && o.TokenCommand == "" {
		missing = append(missing, "API_AUTH_TOKEN or TOKEN_COMMAND")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfiguration, strings.Join(missing, ", "))
	}

	if o.PageSizeDefault <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidConfiguration, o.PageSizeDefault)
	}

	if o.UnitLimit <= 0 {
		return fmt.Errorf("%w: unit limit must be positive, got %d", ErrInvalidConfiguration, o.UnitLimit)
	}

	switch o.Output {
	case "text", "json":
	default:
		return fmt.Errorf("%w: unsupported output %q", ErrInvalidConfiguration, o.Output)
	}

	return nil
}

// LoadEnvFile seeds the process environment from a .env file.  With no
// explicit path the working directory and the repository test directory are
// searched, and a missing file is not an error, as in CI the variables are
// set directly.
func LoadEnvFile(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}

		return nil
	}

	for _, candidate := range []string{".env", "test/.env", "../../../test/.env"} {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}

		absPath, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}

		if err := godotenv.Load(absPath); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to load .env file from %s: %v\n", absPath, err)
		}

		return nil
	}

	return nil
}

func setString(target *string, key string) {
	if value := os.Getenv(key); value != "" {
		*target = value
	}
}

// GetDurationWithDefault gets a duration from environment variable or returns default.
func GetDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// GetBoolWithDefault gets a boolean from environment variable or returns default.
func GetBoolWithDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolValue
}

// GetIntWithDefault gets an integer from environment variable or returns default.
func GetIntWithDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}
