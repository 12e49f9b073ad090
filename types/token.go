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

package types

import (
	"strconv"
	"strings"
)

// TokenKind represents the variant of expression token
type TokenKind int

// Token kinds as enum
const (
	TokenNumber TokenKind = iota
	TokenAdd
	TokenSub
	TokenMul
	TokenDiv
)

// Token is one unit of an expression: either an operand (TokenNumber with
// its Value) or one of four binary operators. Value is always zero for
// operators so tokens can be compared with ==.
type Token struct {
	Kind  TokenKind
	Value int64
}

// Operator tokens
var (
	AddToken = Token{Kind: TokenAdd}
	SubToken = Token{Kind: TokenSub}
	MulToken = Token{Kind: TokenMul}
	DivToken = Token{Kind: TokenDiv}
)

// NumberToken function constructs an operand token
func NumberToken(value int64) Token {
	return Token{Kind: TokenNumber, Value: value}
}

// IsOperator method returns true for Add, Sub, Mul and Div tokens
func (t Token) IsOperator() bool {
	switch t.Kind {
	case TokenAdd, TokenSub, TokenMul, TokenDiv:
		return true
	default:
		return false
	}
}

// Precedence method returns precedence level of operator token: 1 for
// additive operators, 2 for multiplicative ones and 0 for operands.
func (t Token) Precedence() int {
	switch t.Kind {
	case TokenAdd, TokenSub:
		return 1
	case TokenMul, TokenDiv:
		return 2
	default:
		return 0
	}
}

// String function returns string representation of given token
func (t Token) String() string {
	switch t.Kind {
	case TokenNumber:
		return strconv.FormatInt(t.Value, 10)
	case TokenAdd:
		return "+"
	case TokenSub:
		return "-"
	case TokenMul:
		return "*"
	case TokenDiv:
		return "/"
	default:
		return "?"
	}
}

// FormatTokens function renders sequence of tokens as space separated
// string, for example "2 + 3 * 4" or "2 3 4 * +".
func FormatTokens(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, token := range tokens {
		parts[i] = token.String()
	}
	return strings.Join(parts, " ")
}
