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

package types

// Generated documentation is available at:
// https://pkg.go.dev/github.com/RedHatInsights/insights-calculator/types

import (
	"time"

	"github.com/google/uuid"
)

// Timestamp represents any timestamp in a form gathered from database
type Timestamp time.Time

// SessionID represents identifier of one calculator session. All
// evaluations made by one process share the same session ID.
type SessionID string

// NewSessionID function generates new random session ID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// DBDriver type for db driver enum
type DBDriver int

const (
	// DBDriverSQLite3 shows that db driver is sqlite
	DBDriverSQLite3 DBDriver = iota
	// DBDriverPostgres shows that db driver is postgres
	DBDriverPostgres
	// DBDriverGeneral general sql(used for mock now)
	DBDriverGeneral
)

// CliFlags represents structure holding all command line arguments/flags.
type CliFlags struct {
	ShowVersion            bool
	ShowAuthors            bool
	ShowConfiguration      bool
	PrintJournalForCleanup bool
	PerformJournalCleanup  bool
	Verbose                bool
	MaxAge                 string
	Expression             string
}

// EvaluationRecord structure represents one record stored in the
// `evaluations` table.
type EvaluationRecord struct {
	SessionID   SessionID
	Expression  string
	Postfix     string
	Result      int64
	Error       string
	EvaluatedAt Timestamp
}

// Failed method returns true when the evaluation ended with an error
func (record EvaluationRecord) Failed() bool {
	return record.Error != ""
}

// EvaluationMessage represents content of messages sent to the configured
// Kafka topic for each evaluated expression.
type EvaluationMessage struct {
	SessionID  SessionID `json:"session_id"`
	Expression string    `json:"expression"`
	Postfix    string    `json:"postfix"`
	Result     int64     `json:"result"`
	Error      string    `json:"error,omitempty"`
	Timestamp  string    `json:"timestamp"`
}

// ProducerMessage is a message that is sent by any producer
type ProducerMessage []byte
