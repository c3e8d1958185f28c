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

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/nscaledev/workorder-apitest/pkg/constants"
	"github.com/nscaledev/workorder-apitest/pkg/credentials"
	"github.com/nscaledev/workorder-apitest/pkg/graphql"
	"github.com/nscaledev/workorder-apitest/pkg/options"
	"github.com/nscaledev/workorder-apitest/pkg/report"
	"github.com/nscaledev/workorder-apitest/pkg/resources"
	"github.com/nscaledev/workorder-apitest/pkg/scenario"

	cr "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log"
)

func main() {
	options := options.New()

	options.AddFlags(pflag.CommandLine)
	options.AddLoggingFlags(pflag.CommandLine)

	pflag.Parse()

	options.SetupLogging()

	logger := log.Log.WithName("init")
	logger.Info("harness starting", "version", constants.VersionString())

	if err := options.Complete(pflag.CommandLine); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	scenarios, err := scenario.Select(scenario.Builtin(), options.Scenarios)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	provider, err := credentials.FromOptions(options)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	ctx := log.IntoContext(cr.SetupSignalHandler(), log.Log.WithName("apitest"))

	// Fail fast on credentials before any scenario runs, the token is
	// memoized for the remainder of the run.
	if _, err := provider.Fetch(ctx); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	client := graphql.NewFromOptions(options, provider)

	fixture := scenario.Fixture{
		ContactID: options.ContactID,
		UnitID:    options.UnitID,
		PageSize:  options.PageSizeDefault,
		UnitLimit: options.UnitLimit,
	}

	runner := scenario.NewRunner(resources.NewWorkOrders(client, options.AccountID, options.PageSizeDefault), resources.NewUnits(client, options.UnitLimit), fixture)

	summary, runErr := runner.Run(ctx, scenarios)

	if err := report.Write(os.Stdout, options.Output, summary); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	if runErr != nil || summary.Fatal() {
		os.Exit(1)
	}
}
