/*
Copyright © 2022, 2023 Red Hat, Inc.

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

package conf_test

// Benchmark for config module

import (
	"os"
	"testing"

	"github.com/RedHatInsights/insights-calculator/conf"
)

// Configuration-related constants
const (
	configFileEnvName = conf.ConfigFileEnvVariableName
	configFileName    = "../tests/benchmark"
)

// loadConfiguration function loads configuration prepared to be used by
// benchmarks
func loadConfiguration() (conf.ConfigStruct, error) {
	os.Clearenv()

	err := os.Setenv(configFileEnvName, configFileName)
	if err != nil {
		return conf.ConfigStruct{}, err
	}

	config, err := conf.LoadConfiguration(configFileEnvName, configFileName)
	if err != nil {
		return conf.ConfigStruct{}, err
	}

	return config, nil
}

func mustLoadBenchmarkConfiguration(b *testing.B) conf.ConfigStruct {
	configuration, err := loadConfiguration()
	if err != nil {
		b.Fatal(err)
	}
	return configuration
}

// BenchmarkGetCleanerConfiguration measures the speed of
// GetCleanerConfiguration function from the conf module.
func BenchmarkGetCleanerConfiguration(b *testing.B) {
	configuration := mustLoadBenchmarkConfiguration(b)

	for i := 0; i < b.N; i++ {
		// call benchmarked function
		m := conf.GetCleanerConfiguration(&configuration)

		b.StopTimer()
		if m.MaxAge != "90 days" {
			b.Fatal("Wrong configuration: max_age = '" + m.MaxAge + "'")
		}
		b.StartTimer()
	}

}

// BenchmarkGetCalculatorConfiguration measures the speed of
// GetCalculatorConfiguration function from the conf module.
func BenchmarkGetCalculatorConfiguration(b *testing.B) {
	configuration := mustLoadBenchmarkConfiguration(b)

	for i := 0; i < b.N; i++ {
		// call benchmarked function
		m := conf.GetCalculatorConfiguration(&configuration)

		b.StopTimer()
		if !m.ShowExpression {
			b.Fatal("Wrong configuration: show_expression is set to false")
		}
		if !m.JournalEnabled {
			b.Fatal("Wrong configuration: journal_enabled is set to false")
		}
		b.StartTimer()
	}

}

// BenchmarkGetStorageConfiguration measures the speed of
// GetStorageConfiguration function from the conf module.
func BenchmarkGetStorageConfiguration(b *testing.B) {
	configuration := mustLoadBenchmarkConfiguration(b)

	for i := 0; i < b.N; i++ {
		// call benchmarked function
		m := conf.GetStorageConfiguration(&configuration)

		b.StopTimer()
		if m.Driver != "postgres" {
			b.Fatal("Wrong configuration: driver = '" + m.Driver + "'")
		}
		if m.PGPort != 5432 {
			b.Fatal("Wrong configuration: pg_port is not 5432")
		}
		b.StartTimer()
	}

}

// BenchmarkGetLoggingConfiguration measures the speed of
// GetLoggingConfiguration function from the conf module.
func BenchmarkGetLoggingConfiguration(b *testing.B) {
	configuration := mustLoadBenchmarkConfiguration(b)

	for i := 0; i < b.N; i++ {
		// call benchmarked function
		m := conf.GetLoggingConfiguration(&configuration)

		b.StopTimer()
		if m.Debug {
			b.Fatal("Wrong configuration: debug is set to true")
		}
		if m.LogLevel != "warn" {
			b.Fatal("Wrong configuration: loglevel = '" + m.LogLevel + "'")
		}
		b.StartTimer()
	}

}

// BenchmarkGetKafkaBrokerConfiguration measures the speed of
// GetKafkaBrokerConfiguration function from the conf module.
func BenchmarkGetKafkaBrokerConfiguration(b *testing.B) {
	configuration := mustLoadBenchmarkConfiguration(b)

	for i := 0; i < b.N; i++ {
		// call benchmarked function
		m := conf.GetKafkaBrokerConfiguration(&configuration)

		b.StopTimer()
		if m.Addresses != "localhost:9092" {
			b.Fatal("Wrong configuration: addresses = '" + m.Addresses + "'")
		}
		if m.EventFilter != "failed == 0" {
			b.Fatal("Wrong configuration: event_filter = '" + m.EventFilter + "'")
		}
		b.StartTimer()
	}

}

// BenchmarkGetMetricsConfiguration measures the speed of
// GetMetricsConfiguration function from the conf module.
func BenchmarkGetMetricsConfiguration(b *testing.B) {
	configuration := mustLoadBenchmarkConfiguration(b)

	for i := 0; i < b.N; i++ {
		// call benchmarked function
		m := conf.GetMetricsConfiguration(&configuration)

		b.StopTimer()
		if m.Namespace != "insights_calculator" {
			b.Fatal("Wrong configuration: namespace = '" + m.Namespace + "'")
		}
		if m.Subsystem != "session" {
			b.Fatal("Wrong configuration: subsystem = '" + m.Subsystem + "'")
		}
		b.StartTimer()
	}

}
