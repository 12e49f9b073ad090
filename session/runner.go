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

package session

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/RedHatInsights/insights-calculator/conf"
	"github.com/RedHatInsights/insights-calculator/producer"
	"github.com/RedHatInsights/insights-calculator/producer/disabled"
	"github.com/RedHatInsights/insights-calculator/producer/kafka"
	"github.com/RedHatInsights/insights-calculator/types"
)

// Exit codes
const (
	// ExitStatusOK means that the tool finished with success
	ExitStatusOK = iota
	// ExitStatusConfiguration is an error code related to program configuration
	ExitStatusConfiguration
	// ExitStatusError is a general error code
	ExitStatusError
	// ExitStatusStorageError is returned in case of any journal-related error
	ExitStatusStorageError
	// ExitStatusKafkaBrokerError is for kafka broker connection establishment errors
	ExitStatusKafkaBrokerError
	// ExitStatusKafkaProducerError is for kafka event production failures
	ExitStatusKafkaProducerError
	// ExitStatusKafkaConnectionNotClosedError is raised when connection cannot be closed
	ExitStatusKafkaConnectionNotClosedError
	// ExitStatusCleanerError is raised when clean operation is not successful
	ExitStatusCleanerError
	// ExitStatusMetricsError is raised when prometheus metrics cannot be pushed
	ExitStatusMetricsError
	// ExitStatusEventFilterError is raised when event filter is not set correctly
	ExitStatusEventFilterError
	// ExitStatusEvaluationError is raised when expression given on command
	// line can not be evaluated
	ExitStatusEvaluationError
)

// Messages
const (
	separator                = "------------------------------------------------------------"
	operationFailedMessage   = "Operation failed"
	metricsPushedMessage     = "Metrics pushed successfully"
	metricsPushFailedMessage = "Couldn't push prometheus metrics"
	eventFilterNotSetMessage = "Event filter not set"
	sessionStartedMessage    = "Calculator session started"
	sessionFinishedMessage   = "Calculator session finished"
)

// registerMetrics registers metrics using the provided namespace, if any
func registerMetrics(metricsConfig conf.MetricsConfiguration) {
	if metricsConfig.Namespace != "" {
		log.Info().Str("namespace", metricsConfig.Namespace).Msg("Setting metrics namespace")
		AddMetricsWithNamespaceAndSubsystem(
			metricsConfig.Namespace,
			metricsConfig.Subsystem)
	}
}

// setupStorage function opens and initializes the journal
func setupStorage(config *conf.ConfigStruct) (*DBStorage, error) {
	storage, err := NewStorage(conf.GetStorageConfiguration(config))
	if err != nil {
		StorageSetupErrors.Inc()
		log.Err(err).Msg(operationFailedMessage)
		return nil, err
	}

	err = storage.Init()
	if err != nil {
		StorageSetupErrors.Inc()
		log.Err(err).Msg("Journal initialization failed")
		_ = storage.Close()
		return nil, err
	}

	return storage, nil
}

// checkEventFilter function checks that event filter is set and that it
// can be evaluated
func checkEventFilter(eventFilter string) error {
	if eventFilter == "" {
		err := &StatusEventFilterError{Msg: "Configuration problem"}
		log.Err(err).Msg(eventFilterNotSetMessage)
		return err
	}

	_, err := evaluateFilterExpression(eventFilter, EventValue{Operands: 1})
	if err != nil {
		log.Err(err).Str("filter", eventFilter).Msg(eventFilterErrorMessage)
		return &StatusEventFilterError{Msg: err.Error()}
	}

	return nil
}

// setupKafkaProducer function creates a Kafka producer using the provided
// configuration
func setupKafkaProducer(config *conf.ConfigStruct) (producer.Producer, error) {
	// broker enable/disable is very important information, let's inform
	// admins about the state
	brokerConfig := conf.GetKafkaBrokerConfiguration(config)
	if !brokerConfig.Enabled {
		log.Info().Msg("Broker config for calculator is disabled")
		return &disabled.Producer{}, nil
	}
	log.Info().Msg("Broker config for calculator is enabled")

	err := checkEventFilter(brokerConfig.EventFilter)
	if err != nil {
		return nil, err
	}

	kafkaProducer, err := kafka.New(config)
	if err != nil {
		ProducerSetupErrors.Inc()
		log.Error().
			Err(err).
			Msg("Couldn't initialize Kafka producer with the provided config.")
		return nil, &KafkaBrokerError{}
	}

	log.Info().Msg("Kafka producer ready")
	return kafkaProducer, nil
}

// performCleanup function performs cleanup operation selected on command line
func performCleanup(config *conf.ConfigStruct, cliFlags types.CliFlags) int {
	storage, err := setupStorage(config)
	if err != nil {
		return ExitStatusStorageError
	}
	defer closeJournal(storage)

	err = PerformCleanupOperation(storage, cliFlags)
	if err != nil {
		return ExitStatusCleanerError
	}
	return ExitStatusOK
}

func closeJournal(journal Journal) error {
	err := journal.Close()
	if err != nil {
		log.Err(err).Msg(operationFailedMessage)
		return err
	}
	return nil
}

func closeNotifier(notifier producer.Producer) error {
	err := notifier.Close()
	if err != nil {
		log.Err(err).Msg(operationFailedMessage)
		return err
	}
	return nil
}

// closeSession function closes journal and producer and returns exit code
// that reflects the first failure
func closeSession(journal Journal, notifier producer.Producer) int {
	status := ExitStatusOK

	log.Info().Msg(separator)
	if journal != nil {
		if err := closeJournal(journal); err != nil {
			status = ExitStatusStorageError
		}
	}
	log.Info().Msg(separator)
	if err := closeNotifier(notifier); err != nil && status == ExitStatusOK {
		status = ExitStatusKafkaConnectionNotClosedError
	}
	log.Info().Msg(separator)

	return status
}

// runSession function feeds the session either by expression given on
// command line or by lines read from input
func runSession(s *Session, calculatorConfig conf.CalculatorConfiguration,
	cliFlags types.CliFlags, input io.Reader, output io.Writer) int {
	if cliFlags.Expression != "" {
		err := s.ProcessLine(cliFlags.Expression)
		if err != nil {
			fmt.Fprintln(output, errorOutputPrefix+err.Error())
		}
		fmt.Fprintln(output, s.formatDisplay(calculatorConfig.ShowExpression))
		if err != nil {
			return ExitStatusEvaluationError
		}
		return ExitStatusOK
	}

	err := s.Process(input, output, calculatorConfig.Prompt, calculatorConfig.ShowExpression)
	if err != nil {
		log.Err(err).Msg("Reading input failed")
		return ExitStatusError
	}
	return ExitStatusOK
}

// Run function is entry point to the calculator session. It returns exit
// code to be returned from the process.
func Run(config *conf.ConfigStruct, cliFlags types.CliFlags, input io.Reader, output io.Writer) int {
	metricsConfig := conf.GetMetricsConfiguration(config)
	registerMetrics(metricsConfig)

	if DeleteOperationSpecified(cliFlags) {
		return performCleanup(config, cliFlags)
	}

	calculatorConfig := conf.GetCalculatorConfiguration(config)

	var journal Journal
	if calculatorConfig.JournalEnabled {
		storage, err := setupStorage(config)
		if err != nil {
			return ExitStatusStorageError
		}
		journal = storage
	} else {
		log.Info().Msg("Journal is disabled")
	}

	notifier, err := setupKafkaProducer(config)
	if err != nil {
		if journal != nil {
			_ = closeJournal(journal)
		}
		var filterErr *StatusEventFilterError
		if errors.As(err, &filterErr) {
			return ExitStatusEventFilterError
		}
		return ExitStatusKafkaBrokerError
	}

	s := New(journal, notifier, conf.GetKafkaBrokerConfiguration(config).EventFilter)
	log.Info().Str(sessionAttribute, string(s.ID())).Msg(sessionStartedMessage)

	status := runSession(s, calculatorConfig, cliFlags, input, output)
	log.Info().Str(sessionAttribute, string(s.ID())).Msg(sessionFinishedMessage)

	if closeStatus := closeSession(journal, notifier); status == ExitStatusOK {
		status = closeStatus
	}

	if metricsConfig.GatewayURL != "" {
		err := PushMetrics(metricsConfig)
		if err != nil && status == ExitStatusOK {
			status = ExitStatusMetricsError
		}
	}

	return status
}
