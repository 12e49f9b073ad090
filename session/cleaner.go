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

package session

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/RedHatInsights/insights-calculator/types"
)

// Messages
const (
	databasePrintEvaluationsForCleanupOperationFailedMessage = "Print records from `evaluations` table prepared for cleanup failed"
	databaseCleanupEvaluationsOperationFailedMessage         = "Cleanup records from `evaluations` table failed"
	rowsDeletedMessage                                       = "Rows deleted"
)

// PerformCleanupOperation function performs selected cleanup operation
func PerformCleanupOperation(journal Journal, cliFlags types.CliFlags) error {
	switch {
	case cliFlags.PrintJournalForCleanup:
		return printEvaluationsForCleanup(journal, cliFlags)
	case cliFlags.PerformJournalCleanup:
		return performEvaluationsCleanup(journal, cliFlags)
	default:
		return errors.New("Unknown operation selected")
	}
}

// DeleteOperationSpecified function returns true when any cleanup operation
// is selected on command line
func DeleteOperationSpecified(cliFlags types.CliFlags) bool {
	return cliFlags.PrintJournalForCleanup ||
		cliFlags.PerformJournalCleanup
}

// printEvaluationsForCleanup function print all records from `evaluations`
// table that are older than specified max age.
func printEvaluationsForCleanup(journal Journal, cliFlags types.CliFlags) error {
	err := journal.PrintEvaluationsForCleanup(cliFlags.MaxAge)
	if err != nil {
		log.Error().Err(err).Msg(databasePrintEvaluationsForCleanupOperationFailedMessage)
		return err
	}

	return nil
}

// performEvaluationsCleanup function deletes all records from `evaluations`
// table that are older than specified max age.
func performEvaluationsCleanup(journal Journal, cliFlags types.CliFlags) error {
	affected, err := journal.CleanupEvaluations(cliFlags.MaxAge)
	if err != nil {
		log.Error().Err(err).Msg(databaseCleanupEvaluationsOperationFailedMessage)
		return err
	}
	log.Info().Int(rowsDeletedMessage, affected).Msg("Cleanup `evaluations` finished")

	return nil
}
