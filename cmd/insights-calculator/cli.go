/*
Copyright © 2021, 2022, 2023 Red Hat, Inc.

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
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RedHatInsights/insights-calculator/conf"
	"github.com/RedHatInsights/insights-calculator/types"
)

// Exit codes
const (
	// ExitStatusOK means that the tool finished with success
	ExitStatusOK = iota
	// ExitStatusConfiguration is an error code related to program configuration
	ExitStatusConfiguration
)

const (
	versionMessage = "Insights calculator version 1.0"
	authorsMessage = "Red Hat Inc."
)

// showVersion function displays version information.
func showVersion() {
	fmt.Println(versionMessage)
}

// showAuthors function displays information about authors.
func showAuthors() {
	fmt.Println(authorsMessage)
}

// setupCliFlags defines and parses all command line options
func setupCliFlags() types.CliFlags {
	var cliFlags types.CliFlags
	flag.BoolVar(&cliFlags.ShowVersion, "show-version", false, "show version and exit")
	flag.BoolVar(&cliFlags.ShowAuthors, "show-authors", false, "show authors and exit")
	flag.BoolVar(&cliFlags.ShowConfiguration, "show-configuration", false, "show configuration and exit")
	flag.BoolVar(&cliFlags.PrintJournalForCleanup, "print-journal-for-cleanup", false, "print journal records to be cleaned up")
	flag.BoolVar(&cliFlags.PerformJournalCleanup, "journal-cleanup", false, "perform journal clean up")
	flag.BoolVar(&cliFlags.Verbose, "verbose", false, "verbose logs")
	flag.StringVar(&cliFlags.MaxAge, "max-age", "", "max age for displaying/cleaning old records")
	flag.StringVar(&cliFlags.Expression, "expression", "", "keys to be evaluated, the calculator exits after printing the display")
	flag.Parse()
	return cliFlags
}

// showConfiguration function displays actual configuration.
func showConfiguration(config *conf.ConfigStruct) {
	brokerConfig := conf.GetKafkaBrokerConfiguration(config)
	log.Info().
		Bool("Enabled", brokerConfig.Enabled).
		Str("Addresses", brokerConfig.Addresses).
		Str("SecurityProtocol", brokerConfig.SecurityProtocol).
		Str("SaslMechanism", brokerConfig.SaslMechanism).
		Str("Topic", brokerConfig.Topic).
		Str("Timeout", brokerConfig.Timeout.String()).
		Str("Event filter", brokerConfig.EventFilter).
		Msg("Broker configuration")

	storageConfig := conf.GetStorageConfiguration(config)
	log.Info().
		Str("Driver", storageConfig.Driver).
		Str("SQLite data source", storageConfig.SQLiteDataSource).
		Str("DB Name", storageConfig.PGDBName).
		Str("Username", storageConfig.PGUsername). // password is omitted on purpose
		Str("Host", storageConfig.PGHost).
		Int("Port", storageConfig.PGPort).
		Bool("LogSQLQueries", storageConfig.LogSQLQueries).
		Str("Parameters", storageConfig.PGParams).
		Msg("Storage configuration")

	loggingConfig := conf.GetLoggingConfiguration(config)
	log.Info().
		Str("Level", loggingConfig.LogLevel).
		Bool("Pretty colored debug logging", loggingConfig.Debug).
		Msg("Logging configuration")

	metricsConfig := conf.GetMetricsConfiguration(config)

	// Authentication token is omitted on purpose
	log.Info().
		Str("Job", metricsConfig.Job).
		Str("Namespace", metricsConfig.Namespace).
		Str("Subsystem", metricsConfig.Subsystem).
		Str("Push Gateway", metricsConfig.GatewayURL).
		Int("Retries", metricsConfig.Retries).
		Str("Retry after", metricsConfig.RetryAfter.String()).
		Msg("Metrics configuration")

	cleanerConfig := conf.GetCleanerConfiguration(config)
	log.Info().
		Str("Max age", cleanerConfig.MaxAge).
		Msg("Cleaner configuration")

	calculatorConfig := conf.GetCalculatorConfiguration(config)
	log.Info().
		Bool("Show expression", calculatorConfig.ShowExpression).
		Bool("Journal enabled", calculatorConfig.JournalEnabled).
		Str("Prompt", calculatorConfig.Prompt).
		Msg("Calculator configuration")
}

// checkArgs function handles command line options passed to the process
func checkArgs(args *types.CliFlags) {
	switch {
	case args.ShowVersion:
		showVersion()
		os.Exit(ExitStatusOK)
	case args.ShowAuthors:
		showAuthors()
		os.Exit(ExitStatusOK)
	case args.ShowConfiguration:
		// config not loaded yet, just skip the rest of function for
		// now
		return
	case args.PrintJournalForCleanup && args.PerformJournalCleanup:
		log.Error().Msg("Only one cleanup operation can be specified on command line")
		os.Exit(ExitStatusConfiguration)
	case args.Expression != "" && (args.PrintJournalForCleanup || args.PerformJournalCleanup):
		log.Error().Msg("Expression can not be combined with cleanup operation")
		os.Exit(ExitStatusConfiguration)
	default:
	}
}

func convertLogLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	}

	return zerolog.DebugLevel
}
