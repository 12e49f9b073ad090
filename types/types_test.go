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

package types_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/RedHatInsights/insights-calculator/types"
)

func TestTokenString(t *testing.T) {
	var testScenarios = []struct {
		token    types.Token
		expected string
	}{
		{types.AddToken, "+"},
		{types.SubToken, "-"},
		{types.MulToken, "*"},
		{types.DivToken, "/"},
		{types.NumberToken(0), "0"},
		{types.NumberToken(42), "42"},
		{types.NumberToken(-7), "-7"},
		{types.Token{Kind: types.TokenKind(100)}, "?"},
	}

	for _, scenario := range testScenarios {
		assert.Equal(t, scenario.expected, scenario.token.String())
	}
}

func TestTokenPrecedence(t *testing.T) {
	assert.Equal(t, 1, types.AddToken.Precedence())
	assert.Equal(t, 1, types.SubToken.Precedence())
	assert.Equal(t, 2, types.MulToken.Precedence())
	assert.Equal(t, 2, types.DivToken.Precedence())
	assert.Equal(t, 0, types.NumberToken(5).Precedence())

	assert.True(t, types.AddToken.IsOperator())
	assert.True(t, types.DivToken.IsOperator())
	assert.False(t, types.NumberToken(5).IsOperator())
}

func TestTokenEquality(t *testing.T) {
	assert.Equal(t, types.NumberToken(3), types.NumberToken(3))
	assert.NotEqual(t, types.NumberToken(3), types.NumberToken(4))
	assert.True(t, types.AddToken == types.Token{Kind: types.TokenAdd})
}

func TestFormatTokens(t *testing.T) {
	assert.Equal(t, "", types.FormatTokens(nil))
	assert.Equal(t, "2 + 3 * 4", types.FormatTokens([]types.Token{
		types.NumberToken(2), types.AddToken, types.NumberToken(3),
		types.MulToken, types.NumberToken(4)}))
}

func TestEventString(t *testing.T) {
	var testScenarios = []struct {
		event    types.Event
		expected string
	}{
		{types.Event{}, "idle"},
		{types.IdleEvent, "idle"},
		{types.AddEvent, "add"},
		{types.SubEvent, "sub"},
		{types.MulEvent, "mul"},
		{types.DivEvent, "div"},
		{types.NegEvent, "neg"},
		{types.NumberEvent(7), "number(7)"},
		{types.EqEvent, "eq"},
		{types.BackspaceEvent, "backspace"},
		{types.ResetEvent, "reset"},
		{types.Event{Kind: types.EventKind(42)}, "unknown(42)"},
	}

	for _, scenario := range testScenarios {
		assert.Equal(t, scenario.expected, scenario.event.String())
	}
}

func TestNewSessionID(t *testing.T) {
	first := types.NewSessionID()
	second := types.NewSessionID()

	assert.NotEqual(t, first, second)

	_, err := uuid.Parse(string(first))
	assert.NoError(t, err)
}

func TestEvaluationRecordFailed(t *testing.T) {
	assert.False(t, types.EvaluationRecord{Result: 1}.Failed())
	assert.True(t, types.EvaluationRecord{Error: "division by zero"}.Failed())
}
