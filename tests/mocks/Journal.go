/*
Copyright © 2021, 2023 Red Hat, Inc.

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

package mocks

import (
	types "github.com/RedHatInsights/insights-calculator/types"
	mock "github.com/stretchr/testify/mock"
)

// Journal is a mock type for the Journal type
type Journal struct {
	mock.Mock
}

// Init provides a mock function with given fields:
func (_m *Journal) Init() error {
	ret := _m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Close provides a mock function with given fields:
func (_m *Journal) Close() error {
	ret := _m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// WriteEvaluation provides a mock function with given fields: record
func (_m *Journal) WriteEvaluation(record types.EvaluationRecord) error {
	ret := _m.Called(record)

	var r0 error
	if rf, ok := ret.Get(0).(func(types.EvaluationRecord) error); ok {
		r0 = rf(record)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// ReadEvaluations provides a mock function with given fields: sessionID
func (_m *Journal) ReadEvaluations(sessionID types.SessionID) ([]types.EvaluationRecord, error) {
	ret := _m.Called(sessionID)

	var r0 []types.EvaluationRecord
	if rf, ok := ret.Get(0).(func(types.SessionID) []types.EvaluationRecord); ok {
		r0 = rf(sessionID)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]types.EvaluationRecord)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(types.SessionID) error); ok {
		r1 = rf(sessionID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// PrintEvaluationsForCleanup provides a mock function with given fields: maxAge
func (_m *Journal) PrintEvaluationsForCleanup(maxAge string) error {
	ret := _m.Called(maxAge)

	var r0 error
	if rf, ok := ret.Get(0).(func(string) error); ok {
		r0 = rf(maxAge)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// CleanupEvaluations provides a mock function with given fields: maxAge
func (_m *Journal) CleanupEvaluations(maxAge string) (int, error) {
	ret := _m.Called(maxAge)

	var r0 int
	if rf, ok := ret.Get(0).(func(string) int); ok {
		r0 = rf(maxAge)
	} else {
		r0 = ret.Get(0).(int)
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(string) error); ok {
		r1 = rf(maxAge)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}
