/*
Copyright © 2023 Red Hat, Inc.

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

package calculator

import (
	"fmt"

	"github.com/RedHatInsights/insights-calculator/types"
)

// MalformedExpressionError is returned when token sequence does not
// alternate operands and operators, or when evaluation stack underflows or
// ends with more than one value.
type MalformedExpressionError struct {
	Msg string
}

func (e *MalformedExpressionError) Error() string {
	return "malformed expression: " + e.Msg
}

// DivisionByZeroError is returned when divisor evaluates to zero
type DivisionByZeroError struct {
	Dividend int64
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("division by zero: %d / 0", e.Dividend)
}

// OverflowError is returned when result of operation does not fit into
// signed 64bit integer
type OverflowError struct {
	X        int64
	Y        int64
	Operator types.Token
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("integer overflow: %d %s %d", e.X, e.Operator, e.Y)
}

// InvalidDigitError is returned when digit entry event carries value
// outside 0..9
type InvalidDigitError struct {
	Digit int64
}

func (e *InvalidDigitError) Error() string {
	return fmt.Sprintf("invalid digit %d", e.Digit)
}

// UnknownEventError is returned for event kinds the calculator does not
// handle
type UnknownEventError struct {
	Kind types.EventKind
}

func (e *UnknownEventError) Error() string {
	return "unknown event " + e.Kind.String()
}
