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

package session_test

import (
	"database/sql"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/RedHatInsights/insights-operator-utils/tests/helpers"
	"github.com/stretchr/testify/assert"

	"github.com/RedHatInsights/insights-calculator/conf"
	"github.com/RedHatInsights/insights-calculator/session"
	"github.com/RedHatInsights/insights-calculator/types"
)

// runnerConfiguration function prepares configuration with journal stored
// in SQLite database in temporary directory and with Kafka disabled
func runnerConfiguration(t *testing.T) (*conf.ConfigStruct, string) {
	dataSource := filepath.Join(t.TempDir(), "journal.db")

	config := conf.ConfigStruct{
		Storage: conf.StorageConfiguration{
			Driver:           "sqlite3",
			SQLiteDataSource: dataSource,
		},
		Kafka: conf.KafkaConfiguration{
			Enabled:     false,
			EventFilter: session.DefaultEventFilter,
		},
		Cleaner: conf.CleanerConfiguration{
			MaxAge: "90 days",
		},
		Calculator: conf.CalculatorConfiguration{
			JournalEnabled: true,
		},
	}
	return &config, dataSource
}

// countJournalRecords function returns number of records stored in journal
func countJournalRecords(t *testing.T, dataSource string) int {
	connection, err := sql.Open("sqlite3", dataSource)
	helpers.FailOnError(t, err)
	defer func() {
		helpers.FailOnError(t, connection.Close())
	}()

	var count int
	err = connection.QueryRow("SELECT count(*) FROM evaluations").Scan(&count)
	helpers.FailOnError(t, err)
	return count
}

// TestRunExpression checks batch mode with expression given on command line
func TestRunExpression(t *testing.T) {
	config, dataSource := runnerConfiguration(t)
	output := &strings.Builder{}

	status := session.Run(config, types.CliFlags{Expression: "2+3*4="}, strings.NewReader(""), output)

	assert.Equal(t, session.ExitStatusOK, status)
	assert.Equal(t, "14\n", output.String())
	assert.Equal(t, 1, countJournalRecords(t, dataSource))
}

// TestRunExpressionWithoutEq checks that expression is not evaluated
// without Eq key
func TestRunExpressionWithoutEq(t *testing.T) {
	config, dataSource := runnerConfiguration(t)
	config.Calculator.ShowExpression = true
	output := &strings.Builder{}

	status := session.Run(config, types.CliFlags{Expression: "2+3*4"}, strings.NewReader(""), output)

	assert.Equal(t, session.ExitStatusOK, status)
	assert.Equal(t, "2 + 3 * | 4\n", output.String())
	assert.Equal(t, 0, countJournalRecords(t, dataSource))
}

// TestRunExpressionError checks batch mode with expression that can not be
// evaluated
func TestRunExpressionError(t *testing.T) {
	config, dataSource := runnerConfiguration(t)
	output := &strings.Builder{}

	status := session.Run(config, types.CliFlags{Expression: "1/0="}, strings.NewReader(""), output)

	assert.Equal(t, session.ExitStatusEvaluationError, status)
	assert.Equal(t, "error: division by zero: 1 / 0\n0\n", output.String())
	assert.Equal(t, 1, countJournalRecords(t, dataSource))
}

// TestRunInteractive checks interactive mode without journal
func TestRunInteractive(t *testing.T) {
	config, _ := runnerConfiguration(t)
	config.Calculator.JournalEnabled = false
	config.Calculator.Prompt = "calc> "
	output := &strings.Builder{}

	status := session.Run(config, types.CliFlags{}, strings.NewReader("1+1=\n+40=\n"), output)

	assert.Equal(t, session.ExitStatusOK, status)
	assert.Equal(t, "calc> 2\ncalc> 42\ncalc> ", output.String())
}

// TestRunUnsupportedStorage checks that journal setup errors are reported
func TestRunUnsupportedStorage(t *testing.T) {
	config, _ := runnerConfiguration(t)
	config.Storage.Driver = "mysql"

	status := session.Run(config, types.CliFlags{Expression: "1="}, strings.NewReader(""), &strings.Builder{})
	assert.Equal(t, session.ExitStatusStorageError, status)
}

// TestRunCleanup checks both cleanup operations
func TestRunCleanup(t *testing.T) {
	config, dataSource := runnerConfiguration(t)

	status := session.Run(config, types.CliFlags{Expression: "5*5="}, strings.NewReader(""), &strings.Builder{})
	assert.Equal(t, session.ExitStatusOK, status)

	status = session.Run(config, types.CliFlags{PrintJournalForCleanup: true, MaxAge: "1 day"},
		strings.NewReader(""), &strings.Builder{})
	assert.Equal(t, session.ExitStatusOK, status)

	status = session.Run(config, types.CliFlags{PerformJournalCleanup: true, MaxAge: "1 day"},
		strings.NewReader(""), &strings.Builder{})
	assert.Equal(t, session.ExitStatusOK, status)

	// the record is not old enough to be deleted
	assert.Equal(t, 1, countJournalRecords(t, dataSource))
}

// TestRunCleanupStorageError checks that cleanup can not be performed
// without storage
func TestRunCleanupStorageError(t *testing.T) {
	config, _ := runnerConfiguration(t)
	config.Storage.Driver = ""

	status := session.Run(config, types.CliFlags{PerformJournalCleanup: true, MaxAge: "1 day"},
		strings.NewReader(""), &strings.Builder{})
	assert.Equal(t, session.ExitStatusStorageError, status)
}

// TestRunEventFilterNotSet checks that Kafka can not be enabled without
// event filter
func TestRunEventFilterNotSet(t *testing.T) {
	config, _ := runnerConfiguration(t)
	config.Kafka.Enabled = true
	config.Kafka.EventFilter = ""

	status := session.Run(config, types.CliFlags{Expression: "1="}, strings.NewReader(""), &strings.Builder{})
	assert.Equal(t, session.ExitStatusEventFilterError, status)
}

// TestRunWrongEventFilter checks that event filter is checked on startup
func TestRunWrongEventFilter(t *testing.T) {
	config, _ := runnerConfiguration(t)
	config.Kafka.Enabled = true
	config.Kafka.EventFilter = "result >"

	status := session.Run(config, types.CliFlags{Expression: "1="}, strings.NewReader(""), &strings.Builder{})
	assert.Equal(t, session.ExitStatusEventFilterError, status)
}

// TestRunKafkaBrokerError checks that unavailable broker is reported
func TestRunKafkaBrokerError(t *testing.T) {
	config, _ := runnerConfiguration(t)
	config.Kafka.Enabled = true
	config.Kafka.Addresses = "localhost:1"
	config.Kafka.Topic = "calculator_evaluations"

	status := session.Run(config, types.CliFlags{Expression: "1="}, strings.NewReader(""), &strings.Builder{})
	assert.Equal(t, session.ExitStatusKafkaBrokerError, status)
}

// TestRunPushMetrics checks that metrics are pushed at the end of session
func TestRunPushMetrics(t *testing.T) {
	var pushes int32

	testServer := newPushGateway(0, &pushes)
	defer testServer.Close()

	config, _ := runnerConfiguration(t)
	config.Metrics = conf.MetricsConfiguration{
		Job:        "insights_calculator",
		Namespace:  "insights_calculator",
		Subsystem:  "session",
		GatewayURL: testServer.URL,
	}

	status := session.Run(config, types.CliFlags{Expression: "3-5="}, strings.NewReader(""), &strings.Builder{})
	assert.Equal(t, session.ExitStatusOK, status)
	assert.Equal(t, int32(1), atomic.LoadInt32(&pushes))
}

// TestRunPushMetricsError checks that metrics push failure is reported
func TestRunPushMetricsError(t *testing.T) {
	var pushes int32

	testServer := newPushGateway(100, &pushes)
	defer testServer.Close()

	config, _ := runnerConfiguration(t)
	config.Metrics = conf.MetricsConfiguration{
		Job:        "insights_calculator",
		GatewayURL: testServer.URL,
	}

	status := session.Run(config, types.CliFlags{Expression: "3-5="}, strings.NewReader(""), &strings.Builder{})
	assert.Equal(t, session.ExitStatusMetricsError, status)
}
