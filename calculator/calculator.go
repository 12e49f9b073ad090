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

// Package calculator contains the token accumulator that turns discrete
// user input events into an infix expression, together with the expression
// reducer that evaluates the expression to an integer.
//
// Calculator is not safe for concurrent use; it is expected to be owned by
// one input loop that dispatches events one by one and reads the display
// value back after each of them.
package calculator

// Generated documentation is available at:
// https://pkg.go.dev/github.com/RedHatInsights/insights-calculator/calculator

import (
	"strconv"

	"github.com/RedHatInsights/insights-calculator/types"
)

// MaxGuardedOperand is the largest operand magnitude that still accepts
// another digit. Digits entered after the operand grows past this value are
// silently dropped.
const MaxGuardedOperand = 9_999_999_999

// Mode represents the observable mode of the calculator
type Mode int

const (
	// ModeEntering means that operand is being typed
	ModeEntering Mode = iota
	// ModeResult means that result of the last evaluation is displayed
	ModeResult
)

// String function returns string representation of given mode
func (m Mode) String() string {
	if m == ModeResult {
		return "result"
	}
	return "entering"
}

// Calculator holds state of one interactive calculation: the committed
// (not yet evaluated) expression prefix and the pending operand.
type Calculator struct {
	// tokens always ends with an operator when it is not empty
	tokens  []types.Token
	pending int64
	mode    Mode
}

// New function constructs calculator with empty expression and zero
// displayed
func New() *Calculator {
	return &Calculator{}
}

// Dispatch method applies one input event to the calculator state.
//
// The only errors that can be returned are reducer errors for EventEq (in
// which case the calculator is reset before returning), InvalidDigitError and
// UnknownEventError (state is left unchanged).
func (c *Calculator) Dispatch(event types.Event) error {
	switch event.Kind {
	case types.EventIdle:
	case types.EventReset:
		c.Reset()
	case types.EventNeg:
		c.pending = -c.pending
	case types.EventNumber:
		return c.appendDigit(event.Digit)
	case types.EventBackspace:
		c.pending /= 10
		c.mode = ModeEntering
	case types.EventAdd:
		c.commit(types.AddToken)
	case types.EventSub:
		c.commit(types.SubToken)
	case types.EventMul:
		c.commit(types.MulToken)
	case types.EventDiv:
		c.commit(types.DivToken)
	case types.EventEq:
		return c.evaluate()
	default:
		return &UnknownEventError{Kind: event.Kind}
	}
	return nil
}

// Reset method clears the whole state
func (c *Calculator) Reset() {
	c.tokens = c.tokens[:0]
	c.pending = 0
	c.mode = ModeEntering
}

// Display method returns the decimal representation of pending operand (or
// of the last result)
func (c *Calculator) Display() string {
	return strconv.FormatInt(c.pending, 10)
}

// Pending method returns the pending operand
func (c *Calculator) Pending() int64 {
	return c.pending
}

// Mode method returns the current mode
func (c *Calculator) Mode() Mode {
	return c.mode
}

// Tokens method returns copy of committed tokens
func (c *Calculator) Tokens() []types.Token {
	return append([]types.Token(nil), c.tokens...)
}

// Expression method returns the infix expression that would be evaluated by
// EventEq right now, ie. committed tokens followed by the pending operand.
func (c *Calculator) Expression() []types.Token {
	expression := make([]types.Token, 0, len(c.tokens)+1)
	expression = append(expression, c.tokens...)
	return append(expression, types.NumberToken(c.pending))
}

func (c *Calculator) appendDigit(digit int64) error {
	if digit < 0 || digit > 9 {
		return &InvalidDigitError{Digit: digit}
	}

	// result of previous evaluation is not extended by new digits
	if c.mode == ModeResult {
		c.pending = 0
		c.mode = ModeEntering
	}

	switch {
	case c.pending >= 0 && c.pending <= MaxGuardedOperand:
		c.pending = c.pending*10 + digit
	case c.pending < 0 && c.pending >= -MaxGuardedOperand:
		c.pending = c.pending*10 - digit
	}
	return nil
}

func (c *Calculator) commit(operator types.Token) {
	c.tokens = append(c.tokens, types.NumberToken(c.pending), operator)
	c.pending = 0
	c.mode = ModeEntering
}

func (c *Calculator) evaluate() error {
	result, err := Reduce(c.Expression())
	if err != nil {
		c.Reset()
		return err
	}

	c.tokens = c.tokens[:0]
	c.pending = result
	c.mode = ModeResult
	return nil
}
