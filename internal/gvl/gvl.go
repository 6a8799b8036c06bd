// Package gvl provides read-only access to Global Vendor List reference
// data: the TCF purposes, special purposes, features, and special features,
// and the mapping from data uses and feature names to their GVL records.
package gvl

// Purpose is a GVL purpose or special purpose with its stable numeric id
// and the data uses that map onto it.
type Purpose struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	DataUses    []string `json:"data_uses"`
}

// Feature is a GVL feature or special feature.
type Feature struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Lookup resolves data uses and feature names against GVL reference data.
type Lookup interface {
	// DataUseToPurpose returns the purpose or special purpose a data use
	// maps to, or nil if the data use is unmapped. The second return is
	// true when the match is a special purpose.
	DataUseToPurpose(dataUse string) (*Purpose, bool)
	// FeatureNameToFeature returns the feature or special feature with the
	// given name, or nil if the name is unmapped. The second return is
	// true when the match is a special feature.
	FeatureNameToFeature(name string) (*Feature, bool)

	Purposes() []Purpose
	SpecialPurposes() []Purpose
	Features() []Feature
	SpecialFeatures() []Feature
}

// lookup is the default Lookup backed by the embedded reference tables.
type lookup struct {
	purposeByDataUse        map[string]*Purpose
	specialPurposeByDataUse map[string]*Purpose
	featureByName           map[string]*Feature
	specialFeatureByName    map[string]*Feature
}

var defaultLookup = newLookup()

// Default returns the Lookup backed by the embedded TCF reference data.
func Default() Lookup {
	return defaultLookup
}

func newLookup() *lookup {
	l := &lookup{
		purposeByDataUse:        make(map[string]*Purpose),
		specialPurposeByDataUse: make(map[string]*Purpose),
		featureByName:           make(map[string]*Feature),
		specialFeatureByName:    make(map[string]*Feature),
	}
	for i := range mappedPurposes {
		p := &mappedPurposes[i]
		for _, use := range p.DataUses {
			l.purposeByDataUse[use] = p
		}
	}
	for i := range mappedSpecialPurposes {
		p := &mappedSpecialPurposes[i]
		for _, use := range p.DataUses {
			l.specialPurposeByDataUse[use] = p
		}
	}
	for i := range gvlFeatures {
		l.featureByName[gvlFeatures[i].Name] = &gvlFeatures[i]
	}
	for i := range gvlSpecialFeatures {
		l.specialFeatureByName[gvlSpecialFeatures[i].Name] = &gvlSpecialFeatures[i]
	}
	return l
}

func (l *lookup) DataUseToPurpose(dataUse string) (*Purpose, bool) {
	if p, ok := l.purposeByDataUse[dataUse]; ok {
		return p, false
	}
	if p, ok := l.specialPurposeByDataUse[dataUse]; ok {
		return p, true
	}
	return nil, false
}

func (l *lookup) FeatureNameToFeature(name string) (*Feature, bool) {
	if f, ok := l.featureByName[name]; ok {
		return f, false
	}
	if f, ok := l.specialFeatureByName[name]; ok {
		return f, true
	}
	return nil, false
}

func (l *lookup) Purposes() []Purpose {
	return mappedPurposes
}

func (l *lookup) SpecialPurposes() []Purpose {
	return mappedSpecialPurposes
}

func (l *lookup) Features() []Feature {
	return gvlFeatures
}

func (l *lookup) SpecialFeatures() []Feature {
	return gvlSpecialFeatures
}
