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

// This source file contains the expression reducer: conversion of infix
// token sequence into postfix (RPN) order and evaluation of postfix sequence
// with numeric stack.
//
// Only four left-associative binary operators with two precedence levels are
// supported, there are no parentheses and no unary operators, so the
// shunting-yard algorithm degenerates into "pop operators with the same or
// higher precedence, then push".

import (
	"fmt"
	"math"

	"github.com/RedHatInsights/insights-calculator/types"
)

// Reorder function converts infix token sequence into postfix order. The
// input is expected to be well-formed (see Validate).
func Reorder(infix []types.Token) []types.Token {
	output := make([]types.Token, 0, len(infix))
	operators := make([]types.Token, 0, len(infix)/2)

	for _, token := range infix {
		if !token.IsOperator() {
			output = append(output, token)
			continue
		}

		// Mul/Div pops only Mul/Div, Add/Sub pops everything; equal
		// precedence is popped too as all operators are left-associative
		for len(operators) > 0 {
			top := operators[len(operators)-1]
			if top.Precedence() < token.Precedence() {
				break
			}
			output = append(output, top)
			operators = operators[:len(operators)-1]
		}
		operators = append(operators, token)
	}

	for i := len(operators) - 1; i >= 0; i-- {
		output = append(output, operators[i])
	}

	return output
}

// Evaluate function reduces postfix token sequence into single value.
func Evaluate(postfix []types.Token) (int64, error) {
	stack := make([]int64, 0, len(postfix)/2+1)

	for _, token := range postfix {
		switch token.Kind {
		case types.TokenNumber:
			stack = append(stack, token.Value)
		case types.TokenAdd, types.TokenSub, types.TokenMul, types.TokenDiv:
			if len(stack) < 2 {
				return 0, &MalformedExpressionError{
					Msg: fmt.Sprintf("operator %s without two operands", token)}
			}
			// the value pushed later is the right operand
			y := stack[len(stack)-1]
			x := stack[len(stack)-2]
			stack = stack[:len(stack)-2]

			result, err := apply(token, x, y)
			if err != nil {
				return 0, err
			}
			stack = append(stack, result)
		default:
			return 0, &MalformedExpressionError{
				Msg: fmt.Sprintf("unknown token kind %d", token.Kind)}
		}
	}

	if len(stack) != 1 {
		return 0, &MalformedExpressionError{
			Msg: fmt.Sprintf("%d values left on stack", len(stack))}
	}

	return stack[0], nil
}

// apply function performs one binary operation with overflow checks.
// Division truncates toward zero.
func apply(operator types.Token, x, y int64) (int64, error) {
	overflow := &OverflowError{X: x, Y: y, Operator: operator}

	switch operator.Kind {
	case types.TokenAdd:
		result := x + y
		if (y > 0 && result < x) || (y < 0 && result > x) {
			return 0, overflow
		}
		return result, nil
	case types.TokenSub:
		result := x - y
		if (y > 0 && result > x) || (y < 0 && result < x) {
			return 0, overflow
		}
		return result, nil
	case types.TokenMul:
		if x == 0 || y == 0 {
			return 0, nil
		}
		result := x * y
		if result/y != x || (x == -1 && y == math.MinInt64) || (y == -1 && x == math.MinInt64) {
			return 0, overflow
		}
		return result, nil
	case types.TokenDiv:
		if y == 0 {
			return 0, &DivisionByZeroError{Dividend: x}
		}
		if x == math.MinInt64 && y == -1 {
			return 0, overflow
		}
		return x / y, nil
	default:
		return 0, &MalformedExpressionError{
			Msg: fmt.Sprintf("%s is not an operator", operator)}
	}
}

// Validate function checks that token sequence alternates operands and
// operators, starts and ends with operand.
func Validate(infix []types.Token) error {
	if len(infix) == 0 {
		return &MalformedExpressionError{Msg: "empty expression"}
	}

	for i, token := range infix {
		switch token.Kind {
		case types.TokenNumber, types.TokenAdd, types.TokenSub, types.TokenMul, types.TokenDiv:
		default:
			return &MalformedExpressionError{
				Msg: fmt.Sprintf("unknown token kind %d at position %d", token.Kind, i)}
		}

		expectOperand := i%2 == 0
		if expectOperand == token.IsOperator() {
			return &MalformedExpressionError{
				Msg: fmt.Sprintf("unexpected token %s at position %d", token, i)}
		}
	}

	if infix[len(infix)-1].IsOperator() {
		return &MalformedExpressionError{Msg: "expression ends with operator"}
	}

	return nil
}

// Reduce function validates infix token sequence, reorders it into postfix
// order and evaluates it.
func Reduce(infix []types.Token) (int64, error) {
	if err := Validate(infix); err != nil {
		return 0, err
	}
	return Evaluate(Reorder(infix))
}
