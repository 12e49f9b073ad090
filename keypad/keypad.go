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

// Package keypad maps keys typed on terminal into calculator input events.
//
// Key map:
//
//	0-9        digit entry
//	+ - * /    binary operators
//	= enter    evaluate
//	n ~ ±      negate the pending operand
//	b < BS DEL remove last digit
//	c C        clear everything
//	. space    nothing (float entry is not supported)
package keypad

import (
	"fmt"

	"github.com/RedHatInsights/insights-calculator/types"
)

// UnknownKeyError is returned for keys that are not part of the key map
type UnknownKeyError struct {
	Key      rune
	Position int
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown key %q at position %d", e.Key, e.Position)
}

// ParseKey function returns event for one key
func ParseKey(key rune) (types.Event, error) {
	event, ok := lookup(key)
	if !ok {
		return types.IdleEvent, &UnknownKeyError{Key: key}
	}
	return event, nil
}

func lookup(key rune) (types.Event, bool) {
	switch key {
	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return types.NumberEvent(int64(key - '0')), true
	case '+':
		return types.AddEvent, true
	case '-':
		return types.SubEvent, true
	case '*', 'x', '×':
		return types.MulEvent, true
	case '/', '÷':
		return types.DivEvent, true
	case '=', '\n':
		return types.EqEvent, true
	case 'n', '~', '±':
		return types.NegEvent, true
	case 'b', '<', '\b', 0x7f:
		return types.BackspaceEvent, true
	case 'c', 'C':
		return types.ResetEvent, true
	case '.', ' ', '\t', '\r':
		return types.IdleEvent, true
	default:
		return types.IdleEvent, false
	}
}

// ParseSequence function converts whole line of keys into events. Idle
// events are not included in the result.
func ParseSequence(keys string) ([]types.Event, error) {
	events := make([]types.Event, 0, len(keys))

	position := 0
	for _, key := range keys {
		event, ok := lookup(key)
		if !ok {
			return nil, &UnknownKeyError{Key: key, Position: position}
		}
		if event.Kind != types.EventIdle {
			events = append(events, event)
		}
		position++
	}

	return events, nil
}
