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

package model

import (
	"database/sql"
)

// DBInterface is the subset of database/sql operations the client layer
// needs. *sqlx.DB and *sql.DB both satisfy it.
type DBInterface interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Exec(query string, args ...interface{}) (sql.Result, error)
	Begin() (*sql.Tx, error)
	Close() error
}

// TxInterface is the transaction handle passed into store tx methods and
// StoreRegistry.ExecuteTransaction closures.
type TxInterface interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	Commit() error
	Rollback() error
}

// Tx adapts sql.Tx to TxInterface.
type Tx struct {
	*sql.Tx
}

// NewTx wraps a sql.Tx.
func NewTx(tx *sql.Tx) TxInterface {
	return &Tx{Tx: tx}
}
