/*
 * Copyright (c) 2025, Consentio, Inc. (https://consentio.io).
 *
 * Consentio, Inc. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package provider

import (
	"database/sql"
	"fmt"

	dbmodel "github.com/consentio/tcf-consent-api/internal/system/database/model"
	dbutils "github.com/consentio/tcf-consent-api/internal/system/database/utils"
	"github.com/consentio/tcf-consent-api/internal/system/log"
)

// DBClientInterface defines the interface for executing identified queries
// against a datasource.
type DBClientInterface interface {
	Query(query dbmodel.DBQueryInterface, args ...interface{}) ([]map[string]interface{}, error)
	Execute(query dbmodel.DBQueryInterface, args ...interface{}) (int64, error)
	BeginTx() (dbmodel.TxInterface, error)
	GetDBType() string
}

// dbClient is the default DBClientInterface implementation over database/sql.
type dbClient struct {
	db     dbmodel.DBInterface
	dbType string
}

// NewDBClient creates a new database client for the given database type.
func NewDBClient(db dbmodel.DBInterface, dbType string) DBClientInterface {
	return &dbClient{
		db:     db,
		dbType: dbType,
	}
}

// GetDBType returns the configured database type.
func (c *dbClient) GetDBType() string {
	return c.dbType
}

// Query runs a read query and returns the result set as a slice of
// column-name keyed maps.
func (c *dbClient) Query(query dbmodel.DBQueryInterface, args ...interface{}) ([]map[string]interface{}, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBClient"))
	logger.Debug("Executing query", log.String("query_id", query.GetID()))

	rows, err := c.db.Query(c.prepareQuery(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", query.GetID(), err)
	}
	defer rows.Close()

	results, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("query %s scan failed: %w", query.GetID(), err)
	}
	return results, nil
}

// Execute runs a write query and returns the number of affected rows.
func (c *dbClient) Execute(query dbmodel.DBQueryInterface, args ...interface{}) (int64, error) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, "DBClient"))
	logger.Debug("Executing statement", log.String("query_id", query.GetID()))

	result, err := c.db.Exec(c.prepareQuery(query), args...)
	if err != nil {
		return 0, fmt.Errorf("statement %s failed: %w", query.GetID(), err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}

// BeginTx starts a new transaction on the underlying database.
func (c *dbClient) BeginTx() (dbmodel.TxInterface, error) {
	tx, err := c.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return dbmodel.NewTx(tx), nil
}

func (c *dbClient) prepareQuery(query dbmodel.DBQueryInterface) string {
	q := query.GetQuery(c.dbType)
	if c.dbType == "postgres" || c.dbType == "postgresql" {
		return dbutils.ConvertToPostgresParams(q)
	}
	return q
}

// scanRows converts a sql.Rows result set into column-name keyed maps.
// Byte slices are normalized to strings so store mappers can type-assert.
func scanRows(rows *sql.Rows) ([]map[string]interface{}, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]map[string]interface{}, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}

	return results, rows.Err()
}
