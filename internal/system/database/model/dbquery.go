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

// DBQueryInterface is a named, dialect-aware SQL query. Stores declare
// their queries as DBQuery vars; the ID shows up in debug logs.
type DBQueryInterface interface {
	GetID() string
	GetQuery(dbType string) string
}

var _ DBQueryInterface = (*DBQuery)(nil)

// DBQuery holds a query in MySQL syntax with an optional PostgreSQL
// variant for queries whose syntax diverges.
type DBQuery struct {
	ID            string `json:"id"`
	Query         string `json:"query"`
	PostgresQuery string `json:"postgres_query,omitempty"`
}

// GetID returns the query identifier.
func (d *DBQuery) GetID() string {
	return d.ID
}

// GetQuery returns the variant for the database type, falling back to the
// MySQL default.
func (d *DBQuery) GetQuery(dbType string) string {
	switch dbType {
	case "postgres", "postgresql":
		if d.PostgresQuery != "" {
			return d.PostgresQuery
		}
	}
	return d.Query
}
