package gvl

// TCF v2.2 reference data. IDs are the stable identifiers published in the
// Global Vendor List; data uses follow the privacy taxonomy used on system
// privacy declarations.

var mappedPurposes = []Purpose{
	{
		ID:          1,
		Name:        "Store and/or access information on a device",
		Description: "Cookies, device or similar online identifiers can be stored or read on your device.",
		DataUses:    []string{"functional.storage"},
	},
	{
		ID:          2,
		Name:        "Use limited data to select advertising",
		Description: "Advertising presented to you can be based on limited data, such as the website or app you are using, your non-precise location, or your device type.",
		DataUses: []string{
			"marketing.advertising.first_party.contextual",
			"marketing.advertising.frequency_capping",
			"marketing.advertising.negative_targeting",
		},
	},
	{
		ID:          3,
		Name:        "Create profiles for personalised advertising",
		Description: "Information about your activity can be combined into a profile about you for personalised advertising.",
		DataUses:    []string{"marketing.advertising.profiling"},
	},
	{
		ID:          4,
		Name:        "Use profiles to select personalised advertising",
		Description: "Advertising presented to you can be based on your advertising profiles.",
		DataUses: []string{
			"marketing.advertising.first_party.targeted",
			"marketing.advertising.third_party.targeted",
		},
	},
	{
		ID:          5,
		Name:        "Create profiles to personalise content",
		Description: "Information about your activity can be combined into a profile about you for personalised content.",
		DataUses:    []string{"personalize.profiling"},
	},
	{
		ID:          6,
		Name:        "Use profiles to select personalised content",
		Description: "Content presented to you can be based on your content personalisation profiles.",
		DataUses:    []string{"personalize.content"},
	},
	{
		ID:          7,
		Name:        "Measure advertising performance",
		Description: "Information regarding which advertising is presented to you and how you interact with it can be used to determine how well an advert has worked.",
		DataUses:    []string{"analytics.reporting.ad_performance"},
	},
	{
		ID:          8,
		Name:        "Measure content performance",
		Description: "Information regarding which content is presented to you and how you interact with it can be used to determine whether the content has reached its intended audience.",
		DataUses:    []string{"analytics.reporting.content_performance"},
	},
	{
		ID:          9,
		Name:        "Understand audiences through statistics or combinations of data from different sources",
		Description: "Reports can be generated based on the combination of data sets regarding your interactions and those of other users.",
		DataUses:    []string{"analytics.reporting.campaign_insights"},
	},
	{
		ID:          10,
		Name:        "Develop and improve services",
		Description: "Information about your activity can be used to improve existing systems and software and to develop new products.",
		DataUses:    []string{"functional.service.improve"},
	},
	{
		ID:          11,
		Name:        "Use limited data to select content",
		Description: "Content presented to you can be based on limited data, such as the website or app you are using, your non-precise location, or your device type.",
		DataUses:    []string{"personalize.content.limited"},
	},
}

var mappedSpecialPurposes = []Purpose{
	{
		ID:          1,
		Name:        "Ensure security, prevent and detect fraud, and fix errors",
		Description: "Your data can be used to monitor for and prevent unusual and possibly fraudulent activity, and ensure systems and processes work properly and securely.",
		DataUses: []string{
			"essential.fraud_detection",
			"essential.service.security",
		},
	},
	{
		ID:          2,
		Name:        "Deliver and present advertising and content",
		Description: "Certain information is used to ensure the technical compatibility of the content or advertising, and to facilitate the transmission of the content or ad to your device.",
		DataUses:    []string{"marketing.advertising.serving"},
	},
}

var gvlFeatures = []Feature{
	{
		ID:          1,
		Name:        "Match and combine data from other data sources",
		Description: "Information about your activity may be matched and combined with other information relating to you originating from various sources.",
	},
	{
		ID:          2,
		Name:        "Link different devices",
		Description: "Different devices can be determined as belonging to you or your household in support of one or more purposes.",
	},
	{
		ID:          3,
		Name:        "Identify devices based on information transmitted automatically",
		Description: "Your device might be distinguished from other devices based on information it automatically sends when accessing the Internet.",
	},
}

var gvlSpecialFeatures = []Feature{
	{
		ID:          1,
		Name:        "Use precise geolocation data",
		Description: "With your acceptance, your precise location can be used in support of one or more purposes.",
	},
	{
		ID:          2,
		Name:        "Actively scan device characteristics for identification",
		Description: "With your acceptance, certain characteristics specific to your device might be requested and used to distinguish it from other devices.",
	},
}
