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

import "fmt"

// EventKind represents the variant of user input event
type EventKind int

// Event kinds as enum. EventIdle is the zero value, so an uninitialized
// Event never changes calculator state.
const (
	EventIdle EventKind = iota
	EventAdd
	EventSub
	EventMul
	EventDiv
	EventNeg
	EventNumber
	EventEq
	EventBackspace
	EventReset
)

// Event kinds string representation
const (
	eventIdle      = "idle"
	eventAdd       = "add"
	eventSub       = "sub"
	eventMul       = "mul"
	eventDiv       = "div"
	eventNeg       = "neg"
	eventNumber    = "number"
	eventEq        = "eq"
	eventBackspace = "backspace"
	eventReset     = "reset"
)

// String function returns string representation of given event kind
func (k EventKind) String() string {
	if k < EventIdle || k > EventReset {
		return fmt.Sprintf("unknown(%d)", int(k))
	}
	return [...]string{eventIdle, eventAdd, eventSub, eventMul, eventDiv,
		eventNeg, eventNumber, eventEq, eventBackspace, eventReset}[k]
}

// Event represents one user action. Digit is used by EventNumber only.
type Event struct {
	Kind  EventKind
	Digit int64
}

// Events without payload
var (
	IdleEvent      = Event{Kind: EventIdle}
	AddEvent       = Event{Kind: EventAdd}
	SubEvent       = Event{Kind: EventSub}
	MulEvent       = Event{Kind: EventMul}
	DivEvent       = Event{Kind: EventDiv}
	NegEvent       = Event{Kind: EventNeg}
	EqEvent        = Event{Kind: EventEq}
	BackspaceEvent = Event{Kind: EventBackspace}
	ResetEvent     = Event{Kind: EventReset}
)

// NumberEvent function constructs digit entry event
func NumberEvent(digit int64) Event {
	return Event{Kind: EventNumber, Digit: digit}
}

// String function returns string representation of given event
func (e Event) String() string {
	if e.Kind == EventNumber {
		return fmt.Sprintf("%s(%d)", eventNumber, e.Digit)
	}
	return e.Kind.String()
}
