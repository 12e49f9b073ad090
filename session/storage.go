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

// This source file contains an implementation of interface between Go code
// and SQL database (PostgreSQL or SQLite) that is used to store journal of
// all evaluations made by the calculator.
//
// It is possible to configure connection to selected database by using
// StorageConfiguration structure:
//
// Driver - a SQL driver, "sqlite3" or "postgres"
// SQLiteDataSource - data source used by SQLite driver
// PG* - connection parameters for PostgreSQL database

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	_ "github.com/lib/pq"           // PostgreSQL database driver
	_ "github.com/mattn/go-sqlite3" // SQLite database driver

	"github.com/rs/zerolog/log"

	"github.com/RedHatInsights/insights-calculator/conf"
	"github.com/RedHatInsights/insights-calculator/types"
)

// Journal represents an interface to almost any database or storage system
// where evaluation records are stored
type Journal interface {
	Init() error
	Close() error
	WriteEvaluation(record types.EvaluationRecord) error
	ReadEvaluations(sessionID types.SessionID) ([]types.EvaluationRecord, error)
	PrintEvaluationsForCleanup(maxAge string) error
	CleanupEvaluations(maxAge string) (int, error)
}

// DBStorage is an implementation of Journal interface that use selected SQL
// like database, SQLite or PostgreSQL. That implementation is based on the
// standard sql package.
type DBStorage struct {
	connection   *sql.DB
	dbDriverType types.DBDriver
}

// error messages
const (
	unableToCloseDBRowsHandle = "Unable to close DB rows handle"
)

// other messages
const (
	SessionIDMessage   = "Session ID"
	ExpressionMessage  = "Expression"
	ResultMessage      = "Result"
	ErrorMessage       = "Error"
	EvaluatedAtMessage = "Evaluated at"
	AgeMessage         = "Age"
	MaxAgeAttribute    = "max age"
	DeleteStatement    = "delete statement"
)

// SQL statements
const (
	// Create table with journal if it does not exist
	createEvaluationsTable = `
		CREATE TABLE IF NOT EXISTS evaluations (
		    session_id   VARCHAR NOT NULL,
		    expression   VARCHAR NOT NULL,
		    postfix      VARCHAR NOT NULL,
		    result       BIGINT NOT NULL,
		    error        VARCHAR NOT NULL,
		    evaluated_at TIMESTAMP NOT NULL
		)
`

	// Index used by cleanup statements
	createEvaluationsIndex = `
		CREATE INDEX IF NOT EXISTS evaluations_evaluated_at_idx
		    ON evaluations (evaluated_at)
`

	// Write one evaluation record
	insertEvaluationStatement = `
		INSERT INTO evaluations(session_id, expression, postfix, result, error, evaluated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
`

	// Read all evaluations made in given session
	readEvaluationsQuery = `
		SELECT session_id, expression, postfix, result, error, evaluated_at
		  FROM evaluations
		 WHERE session_id = $1
		 ORDER BY evaluated_at
`

	// Display older records from evaluations table (PostgreSQL variant)
	displayOldEvaluationsPostgres = `
		SELECT session_id, expression, result, error, evaluated_at
		  FROM evaluations
		 WHERE evaluated_at < NOW() - $1::INTERVAL
		 ORDER BY evaluated_at
`

	// Display older records from evaluations table (SQLite variant)
	displayOldEvaluationsSQLite = `
		SELECT session_id, expression, result, error, evaluated_at
		  FROM evaluations
		 WHERE evaluated_at < datetime('now', '-' || $1)
		 ORDER BY evaluated_at
`

	// Delete older records from evaluations table (PostgreSQL variant)
	deleteOldEvaluationsPostgres = `
		DELETE
		  FROM evaluations
		 WHERE evaluated_at < NOW() - $1::INTERVAL
`

	// Delete older records from evaluations table (SQLite variant)
	deleteOldEvaluationsSQLite = `
		DELETE
		  FROM evaluations
		 WHERE evaluated_at < datetime('now', '-' || $1)
`
)

// NewStorage function creates and initializes a new instance of Journal
// interface
func NewStorage(configuration conf.StorageConfiguration) (*DBStorage, error) {
	driverType, driverName, dataSource, err := initAndGetDriver(configuration)
	if err != nil {
		return nil, err
	}

	log.Info().Msgf(
		"Making connection to data storage, driver=%s",
		driverName,
	)

	connection, err := sql.Open(driverName, dataSource)
	if err != nil {
		log.Error().Err(err).Msg("Can not connect to data storage")
		return nil, err
	}

	return NewFromConnection(connection, driverType), nil
}

// NewFromConnection function creates and initializes a new instance of
// Journal interface from prepared connection
func NewFromConnection(connection *sql.DB, dbDriverType types.DBDriver) *DBStorage {
	return &DBStorage{
		connection:   connection,
		dbDriverType: dbDriverType,
	}
}

// initAndGetDriver checks if driver is supported and returns driver type,
// driver name, dataSource and error
func initAndGetDriver(configuration conf.StorageConfiguration) (driverType types.DBDriver, driverName, dataSource string, err error) {
	driverName = configuration.Driver

	switch driverName {
	case "sqlite3":
		driverType = types.DBDriverSQLite3
		dataSource = configuration.SQLiteDataSource
	case "postgres":
		driverType = types.DBDriverPostgres
		dataSource = fmt.Sprintf(
			"postgresql://%v:%v@%v:%v/%v?%v",
			configuration.PGUsername,
			configuration.PGPassword,
			configuration.PGHost,
			configuration.PGPort,
			configuration.PGDBName,
			configuration.PGParams,
		)
	default:
		err = fmt.Errorf("driver %v is not supported", driverName)
		return
	}

	return
}

// checkDriver method returns an error for database drivers that the journal
// has no SQL dialect for
func (storage DBStorage) checkDriver() error {
	if storage.dbDriverType != types.DBDriverSQLite3 && storage.dbDriverType != types.DBDriverPostgres {
		return fmt.Errorf("journal operations with DB %v are not supported", storage.dbDriverType)
	}
	return nil
}

// Init method creates the evaluations table and its index when they don't
// exist yet
func (storage DBStorage) Init() error {
	if err := storage.checkDriver(); err != nil {
		return err
	}

	for _, statement := range []string{createEvaluationsTable, createEvaluationsIndex} {
		if _, err := storage.connection.Exec(statement); err != nil {
			log.Error().Err(err).Str("statement", getPrintableStatement(statement)).Msg("Unable to initialize journal")
			return err
		}
	}

	log.Info().Msg("Journal initialized")
	return nil
}

// Close method closes the connection to database. Needs to be called at the
// end of application lifecycle.
func (storage DBStorage) Close() error {
	log.Info().Msg("Closing connection to data storage")
	if storage.connection != nil {
		err := storage.connection.Close()
		if err != nil {
			log.Error().Err(err).Msg("Can not close connection to data storage")
			return err
		}
	}
	return nil
}

// WriteEvaluation method writes one evaluation record into the journal
func (storage DBStorage) WriteEvaluation(record types.EvaluationRecord) error {
	if err := storage.checkDriver(); err != nil {
		return err
	}

	evaluatedAt := time.Time(record.EvaluatedAt).UTC()

	_, err := storage.connection.Exec(insertEvaluationStatement,
		string(record.SessionID),
		record.Expression,
		record.Postfix,
		record.Result,
		record.Error,
		evaluatedAt)
	if err != nil {
		log.Err(err).
			Str(SessionIDMessage, string(record.SessionID)).
			Str(ExpressionMessage, record.Expression).
			Str(EvaluatedAtMessage, evaluatedAt.String()).
			Msg("Unable to write record into evaluations table")
		return err
	}
	return nil
}

// ReadEvaluations method reads all evaluations made in given session
// ordered by evaluation time
func (storage DBStorage) ReadEvaluations(sessionID types.SessionID) ([]types.EvaluationRecord, error) {
	var records = make([]types.EvaluationRecord, 0)

	rows, err := storage.connection.Query(readEvaluationsQuery, string(sessionID))
	if err != nil {
		return records, err
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			log.Error().Err(err).Msg(unableToCloseDBRowsHandle)
		}
	}()

	for rows.Next() {
		var (
			record      types.EvaluationRecord
			evaluatedAt time.Time
		)

		err := rows.Scan(
			&record.SessionID,
			&record.Expression,
			&record.Postfix,
			&record.Result,
			&record.Error,
			&evaluatedAt)
		if err != nil {
			return records, err
		}

		record.EvaluatedAt = types.Timestamp(evaluatedAt)
		records = append(records, record)
	}

	return records, rows.Err()
}

func getPrintableStatement(sqlStatement string) string {
	s := strings.ReplaceAll(sqlStatement, "\n", " ")
	s = strings.ReplaceAll(s, "\t", "")
	return strings.Trim(s, " ")
}

// dialect method selects the SQL statement variant for actual database
func (storage DBStorage) dialect(postgresStatement, sqliteStatement string) string {
	if storage.dbDriverType == types.DBDriverSQLite3 {
		return sqliteStatement
	}
	return postgresStatement
}

// PrintEvaluationsForCleanup method prints all evaluations older than
// specified relative time
func (storage DBStorage) PrintEvaluationsForCleanup(maxAge string) error {
	if err := storage.checkDriver(); err != nil {
		return err
	}

	query := storage.dialect(displayOldEvaluationsPostgres, displayOldEvaluationsSQLite)

	log.Info().
		Str(MaxAgeAttribute, maxAge).
		Str("select statement", getPrintableStatement(query)).
		Msg("PrintEvaluationsForCleanup operation")

	rows, err := storage.connection.Query(query, maxAge)
	if err != nil {
		return err
	}

	defer func() {
		err := rows.Close()
		if err != nil {
			log.Error().Err(err).Msg(unableToCloseDBRowsHandle)
		}
	}()

	// used to compute a real record age
	now := time.Now()

	// iterate over all old records
	for rows.Next() {
		var (
			sessionID   string
			expression  string
			result      int64
			errorText   string
			evaluatedAt time.Time
		)

		// read one old record from the evaluations table
		if err := rows.Scan(&sessionID, &expression, &result, &errorText, &evaluatedAt); err != nil {
			return err
		}

		// compute the real record age
		age := int(math.Ceil(now.Sub(evaluatedAt).Hours() / 24)) // in days

		// just print the record
		log.Info().
			Str(SessionIDMessage, sessionID).
			Str(ExpressionMessage, expression).
			Int64(ResultMessage, result).
			Str(ErrorMessage, errorText).
			Str(EvaluatedAtMessage, evaluatedAt.Format(time.RFC3339)).
			Int(AgeMessage, age).
			Msg("Old record from `evaluations` table")
	}
	return rows.Err()
}

// CleanupEvaluations method deletes all evaluations older than specified
// relative time
func (storage DBStorage) CleanupEvaluations(maxAge string) (int, error) {
	if err := storage.checkDriver(); err != nil {
		return 0, err
	}

	statement := storage.dialect(deleteOldEvaluationsPostgres, deleteOldEvaluationsSQLite)

	log.Info().
		Str(MaxAgeAttribute, maxAge).
		Str(DeleteStatement, getPrintableStatement(statement)).
		Msg("Cleanup operation for all sessions")

	// perform the SQL statement
	result, err := storage.connection.Exec(statement, maxAge)
	if err != nil {
		return 0, err
	}

	// read number of affected (deleted) rows
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(affected), nil
}
