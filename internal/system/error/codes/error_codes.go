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

package codes

// Error codes for the TCF Consent Service
const (
	// General errors
	InternalServerError = "CSE-5000"
	DatabaseError       = "CSE-5001"
	InvalidRequest      = "CSE-4000"
	ValidationError     = "CSE-4001"
	ResourceNotFound    = "CSE-4004"
	ConflictError       = "CSE-4009"

	// Preference-specific errors
	PreferenceSaveFailed   = "CSE-5010"
	IdentityMissing        = "CSE-4040"
	PreferenceKeyInvalid   = "CSE-4041"
	NoticeHistoryNotFound  = "CSE-4042"
	ServedRecordSaveFailed = "CSE-5011"
	CurrentRecordConflict  = "CSE-4043"

	// TCF experience errors
	ExperienceBuildFailed    = "CSE-5020"
	PublisherOverrideInvalid = "CSE-4050"
)
