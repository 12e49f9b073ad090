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

	"github.com/RedHatInsights/insights-calculator/calculator"
	"github.com/RedHatInsights/insights-calculator/keypad"
)

// Evaluation error kinds used as metric labels
const (
	errorKindDivisionByZero = "division_by_zero"
	errorKindOverflow       = "overflow"
	errorKindMalformed      = "malformed"
	errorKindUnknownEvent   = "unknown_event"
	errorKindInvalidDigit   = "invalid_digit"
	errorKindUnknownKey     = "unknown_key"
	errorKindOther          = "other"
)

// KafkaBrokerError represent an error related to Kafka initialization
type KafkaBrokerError struct{}

func (e *KafkaBrokerError) Error() string {
	return "KafkaBrokerError"
}

// StatusEventFilterError is returned when event filter is not set or can
// not be evaluated
type StatusEventFilterError struct {
	Msg string
}

func (e *StatusEventFilterError) Error() string {
	return e.Msg
}

// errorKind function returns label for given calculator error
func errorKind(err error) string {
	var (
		divisionByZero *calculator.DivisionByZeroError
		overflow       *calculator.OverflowError
		malformed      *calculator.MalformedExpressionError
		unknownEvent   *calculator.UnknownEventError
		invalidDigit   *calculator.InvalidDigitError
		unknownKey     *keypad.UnknownKeyError
	)

	switch {
	case errors.As(err, &divisionByZero):
		return errorKindDivisionByZero
	case errors.As(err, &overflow):
		return errorKindOverflow
	case errors.As(err, &malformed):
		return errorKindMalformed
	case errors.As(err, &unknownEvent):
		return errorKindUnknownEvent
	case errors.As(err, &invalidDigit):
		return errorKindInvalidDigit
	case errors.As(err, &unknownKey):
		return errorKindUnknownKey
	default:
		return errorKindOther
	}
}
