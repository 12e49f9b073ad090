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

// This source file contains event filter that decides whether evaluation
// message is to be sent to Kafka topic. Event filter is an expression like
// "failed == 0 && operators >= 1" evaluated over the following values:
//
// result - result of evaluation (zero for failed evaluations)
// operands - number of operands in evaluated expression
// operators - number of operators in evaluated expression
// failed - 1 when evaluation failed, 0 otherwise

import (
	"github.com/RedHatInsights/insights-operator-utils/evaluator"
)

// DefaultEventFilter is a default value for event filter expression
const DefaultEventFilter = "failed == 0"

// Names of values that can be used in event filter expression
const (
	resultValue    = "result"
	operandsValue  = "operands"
	operatorsValue = "operators"
	failedValue    = "failed"
)

// EventValue structure contains values describing one evaluation
type EventValue struct {
	Result    int64
	Operands  int
	Operators int
	Failed    bool
}

// evaluateFilterExpression function tries to evaluate event filter expression
// based on provided evaluation values
func evaluateFilterExpression(eventFilter string, eventValue EventValue) (int, error) {
	failed := 0
	if eventValue.Failed {
		failed = 1
	}

	// values to be passed into expression evaluator
	values := make(map[string]int)
	values[resultValue] = int(eventValue.Result)
	values[operandsValue] = eventValue.Operands
	values[operatorsValue] = eventValue.Operators
	values[failedValue] = failed

	// try to evaluate event filter expression
	return evaluator.Evaluate(eventFilter, values)
}
