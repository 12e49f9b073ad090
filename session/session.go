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

// Package session contains the host side of the calculator: one Session
// owns one calculator instance, feeds it with events read from terminal and
// records every evaluation into the journal and into Kafka topic.
package session

// Generated documentation is available at:
// https://pkg.go.dev/github.com/RedHatInsights/insights-calculator/session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/RedHatInsights/insights-calculator/calculator"
	"github.com/RedHatInsights/insights-calculator/keypad"
	"github.com/RedHatInsights/insights-calculator/producer"
	"github.com/RedHatInsights/insights-calculator/types"
)

// Messages
const (
	evaluationErrorMessage     = "Evaluation error"
	eventFilterErrorMessage    = "Event filter can not be evaluated"
	journalWriteErrorMessage   = "Unable to write evaluation into journal"
	producerErrorMessage       = "Unable to produce evaluation message"
	messageFilteredOutMessage  = "Evaluation message filtered out"
	messageProducedMessage     = "Evaluation message produced"
	invalidJSONContent         = "The provided content cannot be encoded as JSON."
	partitionAttribute         = "partition"
	offsetAttribute            = "offset"
	sessionAttribute           = "session"
	expressionAttribute        = "expression"
	errorOutputPrefix          = "error: "
	defaultInteractivePrompt   = ""
	expressionDisplaySeparator = " | "
)

// Session represents one run of the calculator
type Session struct {
	id          types.SessionID
	calculator  *calculator.Calculator
	journal     Journal
	producer    producer.Producer
	eventFilter string
}

// New function constructs new session with fresh calculator. Journal and
// producer are optional and can be nil.
func New(journal Journal, notifier producer.Producer, eventFilter string) *Session {
	if eventFilter == "" {
		eventFilter = DefaultEventFilter
	}
	return &Session{
		id:          types.NewSessionID(),
		calculator:  calculator.New(),
		journal:     journal,
		producer:    notifier,
		eventFilter: eventFilter,
	}
}

// ID method returns identifier of the session
func (s *Session) ID() types.SessionID {
	return s.id
}

// Display method returns value displayed by the calculator
func (s *Session) Display() string {
	return s.calculator.Display()
}

// Calculator method returns calculator owned by the session
func (s *Session) Calculator() *calculator.Calculator {
	return s.calculator
}

// Dispatch method applies one event to the calculator. Evaluations are
// recorded into journal and sent to Kafka; failures of those two are logged
// and counted only, they never stop the calculator.
func (s *Session) Dispatch(event types.Event) error {
	EventsDispatched.WithLabelValues(event.Kind.String()).Inc()

	if event.Kind != types.EventEq {
		err := s.calculator.Dispatch(event)
		if err != nil {
			EvaluationErrors.WithLabelValues(errorKind(err)).Inc()
		}
		return err
	}

	// expression needs to be taken before the calculator replaces it by
	// the result
	expression := s.calculator.Expression()
	err := s.calculator.Dispatch(event)
	s.recordEvaluation(expression, err)
	return err
}

// ProcessLine method dispatches all keys from one line of input. Nothing is
// dispatched when the line contains unknown key. Processing stops on first
// evaluation error.
func (s *Session) ProcessLine(line string) error {
	events, err := keypad.ParseSequence(line)
	if err != nil {
		EvaluationErrors.WithLabelValues(errorKind(err)).Inc()
		return err
	}

	for _, event := range events {
		err := s.Dispatch(event)
		if err != nil {
			return err
		}
	}
	return nil
}

// Process method reads input line by line, dispatches the keys and writes
// the display after each line into output.
func (s *Session) Process(input io.Reader, output io.Writer, prompt string, showExpression bool) error {
	scanner := bufio.NewScanner(input)

	writePrompt(output, prompt)
	for scanner.Scan() {
		err := s.ProcessLine(scanner.Text())
		if err != nil {
			log.Warn().Err(err).Str(sessionAttribute, string(s.id)).Msg(evaluationErrorMessage)
			fmt.Fprintln(output, errorOutputPrefix+err.Error())
		}
		fmt.Fprintln(output, s.formatDisplay(showExpression))
		writePrompt(output, prompt)
	}

	return scanner.Err()
}

func writePrompt(output io.Writer, prompt string) {
	if prompt != defaultInteractivePrompt {
		fmt.Fprint(output, prompt)
	}
}

// formatDisplay method returns display optionally prefixed by committed
// part of expression, for example "2 + 3 * | 4"
func (s *Session) formatDisplay(showExpression bool) string {
	tokens := s.calculator.Tokens()
	if !showExpression || len(tokens) == 0 {
		return s.calculator.Display()
	}
	return types.FormatTokens(tokens) + expressionDisplaySeparator + s.calculator.Display()
}

// recordEvaluation method stores result of one evaluation into journal and
// sends it to Kafka
func (s *Session) recordEvaluation(expression []types.Token, evaluationErr error) {
	Evaluations.Inc()

	record := types.EvaluationRecord{
		SessionID:   s.id,
		Expression:  types.FormatTokens(expression),
		EvaluatedAt: types.Timestamp(time.Now().UTC()),
	}

	if calculator.Validate(expression) == nil {
		record.Postfix = types.FormatTokens(calculator.Reorder(expression))
	}

	if evaluationErr != nil {
		EvaluationErrors.WithLabelValues(errorKind(evaluationErr)).Inc()
		record.Error = evaluationErr.Error()
		log.Warn().
			Str(sessionAttribute, string(s.id)).
			Str(expressionAttribute, record.Expression).
			Err(evaluationErr).
			Msg(evaluationErrorMessage)
	} else {
		record.Result = s.calculator.Pending()
	}

	if s.journal != nil {
		err := s.journal.WriteEvaluation(record)
		if err != nil {
			JournalWriteErrors.Inc()
			log.Error().Err(err).Msg(journalWriteErrorMessage)
		}
	}

	operators := len(expression) / 2
	s.produceEvaluation(record, EventValue{
		Result:    record.Result,
		Operands:  operators + 1,
		Operators: operators,
		Failed:    record.Failed(),
	})
}

// produceEvaluation method sends the evaluation record into Kafka topic when
// event filter allows it
func (s *Session) produceEvaluation(record types.EvaluationRecord, eventValue EventValue) {
	if s.producer == nil {
		return
	}

	result, err := evaluateFilterExpression(s.eventFilter, eventValue)
	if err != nil {
		log.Error().Err(err).Str("filter", s.eventFilter).Msg(eventFilterErrorMessage)
		return
	}
	if result == 0 {
		MessagesFilteredOut.Inc()
		log.Debug().Str(expressionAttribute, record.Expression).Msg(messageFilteredOutMessage)
		return
	}

	message, err := json.Marshal(newEvaluationMessage(record))
	if err != nil {
		log.Error().Err(err).Msg(invalidJSONContent)
		return
	}

	partition, offset, err := s.producer.ProduceMessage(message)
	if err != nil {
		ProducerErrors.Inc()
		log.Error().Err(err).Msg(producerErrorMessage)
		return
	}

	MessagesProduced.Inc()
	log.Debug().
		Int32(partitionAttribute, partition).
		Int64(offsetAttribute, offset).
		Msg(messageProducedMessage)
}

func newEvaluationMessage(record types.EvaluationRecord) types.EvaluationMessage {
	return types.EvaluationMessage{
		SessionID:  record.SessionID,
		Expression: record.Expression,
		Postfix:    record.Postfix,
		Result:     record.Result,
		Error:      record.Error,
		Timestamp:  time.Time(record.EvaluatedAt).Format(time.RFC3339),
	}
}
