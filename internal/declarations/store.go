package declarations

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/consentio/tcf-consent-api/internal/declarations/model"
	dbmodel "github.com/consentio/tcf-consent-api/internal/system/database/model"
	"github.com/consentio/tcf-consent-api/internal/system/database/provider"
)

// DBQuery objects for declaration and publisher override operations
var (
	QueryGetMatchingDeclarations = dbmodel.DBQuery{
		ID: "GET_MATCHING_DECLARATIONS",
		Query: "SELECT S.SYSTEM_ID, S.NAME, S.DESCRIPTION, S.VENDOR_ID, D.DATA_USE, D.LEGAL_BASIS, D.FEATURES " +
			"FROM SYSTEM_RESOURCE S INNER JOIN PRIVACY_DECLARATION D ON D.SYSTEM_ID = S.SYSTEM_ID " +
			"WHERE D.DATA_USE IN (%s) AND D.LEGAL_BASIS IN (%s) " +
			"ORDER BY S.CREATED_TIME DESC, S.SYSTEM_ID ASC, D.DATA_USE ASC",
	}

	QueryListPublisherOverrides = dbmodel.DBQuery{
		ID:    "LIST_PUBLISHER_OVERRIDES",
		Query: "SELECT OVERRIDE_ID, PURPOSE, IS_INCLUDED, REQUIRED_LEGAL_BASIS FROM TCF_PUBLISHER_OVERRIDE ORDER BY PURPOSE ASC",
	}

	QueryDeleteAllPublisherOverrides = dbmodel.DBQuery{
		ID:    "DELETE_ALL_PUBLISHER_OVERRIDES",
		Query: "DELETE FROM TCF_PUBLISHER_OVERRIDE",
	}

	QueryCreatePublisherOverride = dbmodel.DBQuery{
		ID:    "CREATE_PUBLISHER_OVERRIDE",
		Query: "INSERT INTO TCF_PUBLISHER_OVERRIDE (OVERRIDE_ID, PURPOSE, IS_INCLUDED, REQUIRED_LEGAL_BASIS) VALUES (?, ?, ?, ?)",
	}
)

// DeclarationStore defines the interface for privacy declaration reads
type DeclarationStore interface {
	GetMatchingDeclarations(dataUses []string, legalBases []string) ([]model.DeclarationRow, error)
}

// PublisherOverrideStore defines the interface for publisher override operations
type PublisherOverrideStore interface {
	ListOverrides() ([]model.PublisherOverride, error)
	DeleteAllOverrides(tx dbmodel.TxInterface) error
	CreateOverride(tx dbmodel.TxInterface, override *model.PublisherOverride) error
}

// declarationStore implements the DeclarationStore interface
type declarationStore struct {
	dbClient provider.DBClientInterface
}

func newDeclarationStore(dbClient provider.DBClientInterface) DeclarationStore {
	return &declarationStore{
		dbClient: dbClient,
	}
}

// GetMatchingDeclarations retrieves declaration rows whose data use and legal
// basis are in the given sets. Rows are ordered newest system first so the
// builder sees a stable iteration order.
func (s *declarationStore) GetMatchingDeclarations(dataUses []string, legalBases []string) ([]model.DeclarationRow, error) {
	if len(dataUses) == 0 || len(legalBases) == 0 {
		return []model.DeclarationRow{}, nil
	}

	query := dbmodel.DBQuery{
		ID:    QueryGetMatchingDeclarations.ID,
		Query: fmt.Sprintf(QueryGetMatchingDeclarations.Query, placeholders(len(dataUses)), placeholders(len(legalBases))),
	}

	args := make([]interface{}, 0, len(dataUses)+len(legalBases))
	for _, use := range dataUses {
		args = append(args, use)
	}
	for _, basis := range legalBases {
		args = append(args, basis)
	}

	rows, err := s.dbClient.Query(&query, args...)
	if err != nil {
		return nil, err
	}

	declarations := make([]model.DeclarationRow, 0, len(rows))
	for _, row := range rows {
		declaration := mapToDeclarationRow(row)
		if declaration != nil {
			declarations = append(declarations, *declaration)
		}
	}

	return declarations, nil
}

// placeholders returns a comma-separated list of n query placeholders.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// overrideStore implements the PublisherOverrideStore interface
type overrideStore struct {
	dbClient provider.DBClientInterface
}

func newPublisherOverrideStore(dbClient provider.DBClientInterface) PublisherOverrideStore {
	return &overrideStore{
		dbClient: dbClient,
	}
}

// ListOverrides retrieves all publisher overrides ordered by purpose
func (s *overrideStore) ListOverrides() ([]model.PublisherOverride, error) {
	rows, err := s.dbClient.Query(&QueryListPublisherOverrides)
	if err != nil {
		return nil, err
	}

	overrides := make([]model.PublisherOverride, 0, len(rows))
	for _, row := range rows {
		override := mapToPublisherOverride(row)
		if override != nil {
			overrides = append(overrides, *override)
		}
	}

	return overrides, nil
}

// DeleteAllOverrides removes every publisher override within a transaction
func (s *overrideStore) DeleteAllOverrides(tx dbmodel.TxInterface) error {
	_, err := tx.Exec(QueryDeleteAllPublisherOverrides.GetQuery(s.dbClient.GetDBType()))
	return err
}

// CreateOverride creates a publisher override within a transaction
func (s *overrideStore) CreateOverride(tx dbmodel.TxInterface, override *model.PublisherOverride) error {
	_, err := tx.Exec(QueryCreatePublisherOverride.GetQuery(s.dbClient.GetDBType()),
		override.ID, override.Purpose, override.IsIncluded, override.RequiredLegalBasis)
	return err
}

// Mapper functions

func mapToDeclarationRow(row map[string]interface{}) *model.DeclarationRow {
	if row == nil {
		return nil
	}

	declaration := &model.DeclarationRow{}

	if id, ok := row["SYSTEM_ID"].(string); ok {
		declaration.SystemID = id
	}
	if name, ok := row["NAME"].(string); ok {
		declaration.SystemName = name
	}
	if description, ok := row["DESCRIPTION"].(string); ok {
		declaration.SystemDescription = description
	}
	if vendorID, ok := row["VENDOR_ID"].(string); ok {
		declaration.VendorID = &vendorID
	}
	if dataUse, ok := row["DATA_USE"].(string); ok {
		declaration.DataUse = dataUse
	}
	if basis, ok := row["LEGAL_BASIS"].(string); ok {
		declaration.LegalBasis = &basis
	}
	if features, ok := row["FEATURES"].(string); ok && features != "" {
		var parsed []string
		if err := json.Unmarshal([]byte(features), &parsed); err == nil {
			declaration.Features = parsed
		}
	}

	return declaration
}

func mapToPublisherOverride(row map[string]interface{}) *model.PublisherOverride {
	if row == nil {
		return nil
	}

	override := &model.PublisherOverride{}

	if id, ok := row["OVERRIDE_ID"].(string); ok {
		override.ID = id
	}
	if purpose, ok := row["PURPOSE"].(int64); ok {
		override.Purpose = int(purpose)
	}
	if included, ok := row["IS_INCLUDED"].(bool); ok {
		override.IsIncluded = included
	} else if included, ok := row["IS_INCLUDED"].(int64); ok {
		override.IsIncluded = included != 0
	}
	if basis, ok := row["REQUIRED_LEGAL_BASIS"].(string); ok {
		override.RequiredLegalBasis = &basis
	}

	return override
}
