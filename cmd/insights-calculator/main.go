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

// Entry point to the calculator.
//
// The calculator reads keys from standard input line by line, feeds them as
// input events into integer four-function calculator and prints the
// displayed value after each line. Expressions are evaluated with the usual
// precedence of multiplication and division over addition and subtraction.
//
// Every evaluation is stored into journal (SQLite or PostgreSQL database)
// and it can be sent to the configured Kafka topic as well. Records older
// than given age can be displayed or deleted from the journal by cleanup
// operations selected on command line.
//
// Additionally the calculator exposes several metrics about dispatched
// events and evaluated expressions. These metrics are pushed into Prometheus
// push gateway at the end of the session.
package main

// Generated documentation is available at:
// https://pkg.go.dev/github.com/RedHatInsights/insights-calculator/

import (
	"os"

	"github.com/RedHatInsights/insights-operator-utils/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/RedHatInsights/insights-calculator/conf"
	"github.com/RedHatInsights/insights-calculator/session"
)

// Configuration-related constants
const (
	loadConfigurationMessage = "Load configuration"
)

func main() {
	cliFlags := setupCliFlags()
	checkArgs(&cliFlags)

	// config has exactly the same structure as *.toml file
	config, err := conf.LoadConfiguration(conf.ConfigFileEnvVariableName, conf.DefaultConfigFileName)
	if err != nil {
		log.Err(err).Msg(loadConfigurationMessage)
		os.Exit(ExitStatusConfiguration)
	}

	err = logger.InitZerolog(
		conf.GetLoggingConfiguration(&config),
		conf.GetCloudWatchConfiguration(&config),
		conf.GetSentryLoggingConfiguration(&config),
		conf.GetKafkaZerologConfiguration(&config),
	)
	if err != nil {
		log.Err(err).Msg(loadConfigurationMessage)
		os.Exit(ExitStatusConfiguration)
	}

	// configuration is loaded, so it would be possible to display it if
	// asked by user
	if cliFlags.ShowConfiguration {
		showConfiguration(&config)
		os.Exit(ExitStatusOK)
	}

	// override default value by one read from configuration file
	if cliFlags.MaxAge == "" {
		cliFlags.MaxAge = conf.GetCleanerConfiguration(&config).MaxAge
	}

	if config.Logging.Debug {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	logLevel := convertLogLevel(config.Logging.LogLevel)
	zerolog.SetGlobalLevel(logLevel)
	log.Info().
		Str("configured", config.Logging.LogLevel).
		Int("internal", int(logLevel)).
		Msg("Log level")

	if cliFlags.Verbose {
		showConfiguration(&config)
	}

	os.Exit(session.Run(&config, cliFlags, os.Stdin, os.Stdout))
}
