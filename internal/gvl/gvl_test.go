package gvl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type GVLLookupTestSuite struct {
	suite.Suite
	lookup Lookup
}

func TestGVLLookupSuite(t *testing.T) {
	suite.Run(t, new(GVLLookupTestSuite))
}

func (suite *GVLLookupTestSuite) SetupTest() {
	suite.lookup = Default()
}

func (suite *GVLLookupTestSuite) TestDataUseToPurpose() {
	testCases := []struct {
		dataUse   string
		purposeID int
		special   bool
	}{
		{"functional.storage", 1, false},
		{"marketing.advertising.first_party.contextual", 2, false},
		{"marketing.advertising.frequency_capping", 2, false},
		{"marketing.advertising.negative_targeting", 2, false},
		{"marketing.advertising.profiling", 3, false},
		{"marketing.advertising.first_party.targeted", 4, false},
		{"marketing.advertising.third_party.targeted", 4, false},
		{"personalize.profiling", 5, false},
		{"personalize.content", 6, false},
		{"analytics.reporting.ad_performance", 7, false},
		{"analytics.reporting.content_performance", 8, false},
		{"analytics.reporting.campaign_insights", 9, false},
		{"functional.service.improve", 10, false},
		{"personalize.content.limited", 11, false},
		{"essential.fraud_detection", 1, true},
		{"essential.service.security", 1, true},
		{"marketing.advertising.serving", 2, true},
	}

	for _, tc := range testCases {
		purpose, special := suite.lookup.DataUseToPurpose(tc.dataUse)
		if assert.NotNil(suite.T(), purpose, "expected a purpose for data use %s", tc.dataUse) {
			assert.Equal(suite.T(), tc.purposeID, purpose.ID, "data use %s", tc.dataUse)
			assert.Equal(suite.T(), tc.special, special, "data use %s", tc.dataUse)
		}
	}
}

func (suite *GVLLookupTestSuite) TestDataUseToPurposeUnknown() {
	purpose, _ := suite.lookup.DataUseToPurpose("essential.legal_obligation")
	assert.Nil(suite.T(), purpose)

	purpose, _ = suite.lookup.DataUseToPurpose("")
	assert.Nil(suite.T(), purpose)
}

func (suite *GVLLookupTestSuite) TestFeatureNameToFeature() {
	feature, special := suite.lookup.FeatureNameToFeature("Link different devices")
	if assert.NotNil(suite.T(), feature) {
		assert.False(suite.T(), special)
		assert.Equal(suite.T(), 2, feature.ID)
	}

	feature, special = suite.lookup.FeatureNameToFeature("Use precise geolocation data")
	if assert.NotNil(suite.T(), feature) {
		assert.True(suite.T(), special)
		assert.Equal(suite.T(), 1, feature.ID)
	}

	feature, _ = suite.lookup.FeatureNameToFeature("Cloud-based storage")
	assert.Nil(suite.T(), feature)
}

func (suite *GVLLookupTestSuite) TestCatalogSizes() {
	assert.Len(suite.T(), suite.lookup.Purposes(), 11)
	assert.Len(suite.T(), suite.lookup.SpecialPurposes(), 2)
	assert.Len(suite.T(), suite.lookup.Features(), 3)
	assert.Len(suite.T(), suite.lookup.SpecialFeatures(), 2)
}

func (suite *GVLLookupTestSuite) TestCatalogsAreSortedByID() {
	purposes := suite.lookup.Purposes()
	for i := 1; i < len(purposes); i++ {
		assert.Less(suite.T(), purposes[i-1].ID, purposes[i].ID)
	}
}
