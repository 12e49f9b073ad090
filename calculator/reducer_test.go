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

package calculator_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/RedHatInsights/insights-calculator/calculator"
	"github.com/RedHatInsights/insights-calculator/types"
)

// shorthands used to make expressions in tests readable
var (
	add = types.AddToken
	sub = types.SubToken
	mul = types.MulToken
	div = types.DivToken
)

func n(value int64) types.Token {
	return types.NumberToken(value)
}

func TestReorder(t *testing.T) {
	var testScenarios = []struct {
		infix    []types.Token
		expected []types.Token
	}{
		{
			infix:    []types.Token{n(1)},
			expected: []types.Token{n(1)},
		},
		{
			infix:    []types.Token{n(1), add, n(2)},
			expected: []types.Token{n(1), n(2), add},
		},
		{
			infix:    []types.Token{n(2), add, n(3), mul, n(4)},
			expected: []types.Token{n(2), n(3), n(4), mul, add},
		},
		{
			infix:    []types.Token{n(2), mul, n(3), add, n(4)},
			expected: []types.Token{n(2), n(3), mul, n(4), add},
		},
		{
			infix:    []types.Token{n(10), sub, n(3), sub, n(2)},
			expected: []types.Token{n(10), n(3), sub, n(2), sub},
		},
		{
			infix:    []types.Token{n(100), div, n(10), div, n(5)},
			expected: []types.Token{n(100), n(10), div, n(5), div},
		},
		{
			infix:    []types.Token{n(1), add, n(2), mul, n(3), sub, n(4)},
			expected: []types.Token{n(1), n(2), n(3), mul, add, n(4), sub},
		},
		{
			infix:    []types.Token{n(1), sub, n(2), mul, n(3), div, n(4), add, n(5)},
			expected: []types.Token{n(1), n(2), n(3), mul, n(4), div, sub, n(5), add},
		},
	}

	for _, scenario := range testScenarios {
		assert.Equal(t, scenario.expected, calculator.Reorder(scenario.infix),
			types.FormatTokens(scenario.infix))
	}
}

func TestReorderEmpty(t *testing.T) {
	assert.Empty(t, calculator.Reorder(nil))
}

func TestReorderDoesNotModifyInput(t *testing.T) {
	infix := []types.Token{n(2), add, n(3), mul, n(4)}
	calculator.Reorder(infix)
	assert.Equal(t, []types.Token{n(2), add, n(3), mul, n(4)}, infix)
}

func TestReduce(t *testing.T) {
	var testScenarios = []struct {
		infix    []types.Token
		expected int64
	}{
		{[]types.Token{n(2), add, n(3), mul, n(4)}, 14},
		{[]types.Token{n(2), mul, n(3), add, n(4)}, 10},
		{[]types.Token{n(10), sub, n(3), sub, n(2)}, 5},
		{[]types.Token{n(7), div, n(2)}, 3},
		{[]types.Token{n(-7), div, n(2)}, -3},
		{[]types.Token{n(7), div, n(-2)}, -3},
		{[]types.Token{n(100), div, n(10), div, n(5)}, 2},
		{[]types.Token{n(1), sub, n(2), mul, n(3), div, n(4), add, n(5)}, 5},
		{[]types.Token{n(-5), mul, n(-5)}, 25},
		{[]types.Token{n(math.MaxInt64), sub, n(1), add, n(1)}, math.MaxInt64},
	}

	for _, scenario := range testScenarios {
		result, err := calculator.Reduce(scenario.infix)
		assert.NoError(t, err, types.FormatTokens(scenario.infix))
		assert.Equal(t, scenario.expected, result, types.FormatTokens(scenario.infix))
	}
}

// TestReduceSingleOperator checks that reordering and evaluating
// a single-operator expression gives the same result as direct computation
func TestReduceSingleOperator(t *testing.T) {
	operands := []int64{-1000, -7, -1, 0, 1, 3, 7, 1000, 999999999}

	for _, a := range operands {
		for _, b := range operands {
			result, err := calculator.Reduce([]types.Token{n(a), add, n(b)})
			assert.NoError(t, err)
			assert.Equal(t, a+b, result)

			result, err = calculator.Reduce([]types.Token{n(a), sub, n(b)})
			assert.NoError(t, err)
			assert.Equal(t, a-b, result)

			result, err = calculator.Reduce([]types.Token{n(a), mul, n(b)})
			assert.NoError(t, err)
			assert.Equal(t, a*b, result)

			result, err = calculator.Reduce([]types.Token{n(a), div, n(b)})
			if b == 0 {
				assert.IsType(t, &calculator.DivisionByZeroError{}, err)
				continue
			}
			assert.NoError(t, err)
			assert.Equal(t, a/b, result)
		}
	}
}

func TestEvaluateMalformed(t *testing.T) {
	var testScenarios = []struct {
		postfix  []types.Token
		expected string
	}{
		{nil, "malformed expression: 0 values left on stack"},
		{[]types.Token{add}, "malformed expression: operator + without two operands"},
		{[]types.Token{n(1), mul}, "malformed expression: operator * without two operands"},
		{[]types.Token{n(1), n(2)}, "malformed expression: 2 values left on stack"},
		{[]types.Token{n(1), {Kind: types.TokenKind(42)}}, "malformed expression: unknown token kind 42"},
	}

	for _, scenario := range testScenarios {
		_, err := calculator.Evaluate(scenario.postfix)
		assert.IsType(t, &calculator.MalformedExpressionError{}, err)
		assert.EqualError(t, err, scenario.expected)
	}
}

func TestEvaluateDivisionByZero(t *testing.T) {
	_, err := calculator.Evaluate([]types.Token{n(5), n(0), div})
	assert.EqualError(t, err, "division by zero: 5 / 0")

	// divisor computed from subexpression
	_, err = calculator.Reduce([]types.Token{n(5), div, n(2), sub, n(2)})
	assert.NoError(t, err)
	_, err = calculator.Reduce([]types.Token{n(5), sub, n(1), div, n(0)})
	assert.IsType(t, &calculator.DivisionByZeroError{}, err)
}

func TestEvaluateOverflow(t *testing.T) {
	var testScenarios = [][]types.Token{
		{n(math.MaxInt64), n(1), add},
		{n(math.MinInt64), n(1), sub},
		{n(math.MinInt64), n(-1), add},
		{n(math.MaxInt64), n(-1), sub},
		{n(math.MaxInt64), n(2), mul},
		{n(math.MinInt64), n(-1), mul},
		{n(-1), n(math.MinInt64), mul},
		{n(math.MinInt64), n(-1), div},
	}

	for _, postfix := range testScenarios {
		_, err := calculator.Evaluate(postfix)
		assert.IsType(t, &calculator.OverflowError{}, err, types.FormatTokens(postfix))
	}

	_, err := calculator.Evaluate([]types.Token{n(math.MaxInt64), n(2), mul})
	assert.EqualError(t, err, "integer overflow: 9223372036854775807 * 2")
}

func TestValidate(t *testing.T) {
	var malformed = [][]types.Token{
		nil,
		{add},
		{n(1), add},
		{n(1), n(2)},
		{add, n(1)},
		{n(1), add, mul, n(2)},
		{n(1), {Kind: types.TokenKind(42)}, n(2)},
	}

	for _, infix := range malformed {
		err := calculator.Validate(infix)
		assert.IsType(t, &calculator.MalformedExpressionError{}, err, types.FormatTokens(infix))

		_, err = calculator.Reduce(infix)
		assert.Error(t, err)
	}

	assert.NoError(t, calculator.Validate([]types.Token{n(1)}))
	assert.NoError(t, calculator.Validate([]types.Token{n(1), div, n(2)}))
}

// BenchmarkReduce measures the speed of reorder+evaluate for a long
// expression
func BenchmarkReduce(b *testing.B) {
	infix := []types.Token{n(1)}
	for i := int64(2); i < 500; i++ {
		switch i % 4 {
		case 0:
			infix = append(infix, add)
		case 1:
			infix = append(infix, sub)
		case 2:
			infix = append(infix, mul)
		case 3:
			infix = append(infix, div)
		}
		infix = append(infix, n(i))
	}

	for i := 0; i < b.N; i++ {
		if _, err := calculator.Reduce(infix); err != nil {
			b.Fatal(err)
		}
	}
}
