// internal/quality/weights.go
package quality

// Field weights are hand-assigned per field importance and sum to 1.0.
// The two magnitudes are 4/149 and 1/149; a handful of fields carry zero
// weight but stay listed so error reporting covers them. Downstream
// consumers compare scores across datasets, so this table must not change
// without rescoring every dataset.
const (
	weightHigh = 0.026845638
	weightLow  = 0.006711409
	weightNone = 0.0
)

// FieldWeight binds one dot-separated v2 metadata path to its weight.
type FieldWeight struct {
	Path   string
	Weight float64
}

var fieldWeights = []FieldWeight{
	{"identifier", weightHigh},

	{"summary.title", weightHigh},
	{"summary.abstract", weightHigh},
	{"summary.contactPoint", weightHigh},
	{"summary.keywords", weightHigh},
	{"summary.doiName", weightHigh},
	{"summary.publisher.identifier", weightHigh},
	{"summary.publisher.name", weightHigh},
	{"summary.publisher.memberOf", weightLow},
	{"summary.publisher.contactPoint", weightNone},
	{"summary.publisher.description", weightNone},
	{"summary.publisher.logo", weightNone},
	{"summary.alternateIdentifiers", weightNone},

	{"documentation.description", weightHigh},
	{"documentation.associatedMedia", weightLow},
	{"documentation.isPartOf", weightLow},

	{"coverage.spatial", weightHigh},
	{"coverage.typicalAgeRange", weightHigh},
	{"coverage.physicalSampleAvailability", weightHigh},
	{"coverage.followup", weightLow},
	{"coverage.pathway", weightLow},

	{"provenance.origin.purpose", weightLow},
	{"provenance.origin.source", weightLow},
	{"provenance.origin.collectionSituation", weightLow},
	{"provenance.temporal.accrualPeriodicity", weightHigh},
	{"provenance.temporal.distributionReleaseDate", weightLow},
	{"provenance.temporal.startDate", weightHigh},
	{"provenance.temporal.endDate", weightLow},
	{"provenance.temporal.timeLag", weightLow},

	{"accessibility.usage.dataUseLimitation", weightHigh},
	{"accessibility.usage.dataUseRequirements", weightHigh},
	{"accessibility.usage.resourceCreator", weightHigh},
	{"accessibility.usage.investigations", weightLow},
	{"accessibility.usage.isReferencedBy", weightLow},
	{"accessibility.access.accessRights", weightHigh},
	{"accessibility.access.accessService", weightHigh},
	{"accessibility.access.accessRequestCost", weightHigh},
	{"accessibility.access.deliveryLeadTime", weightHigh},
	{"accessibility.access.jurisdiction", weightHigh},
	{"accessibility.access.dataController", weightHigh},
	{"accessibility.access.dataProcessor", weightNone},
	{"accessibility.formatAndStandards.vocabularyEncodingScheme", weightHigh},
	{"accessibility.formatAndStandards.conformsTo", weightHigh},
	{"accessibility.formatAndStandards.language", weightHigh},
	{"accessibility.formatAndStandards.format", weightHigh},

	{"enrichmentAndLinkage.qualifiedRelation", weightLow},
	{"enrichmentAndLinkage.derivation", weightLow},
	{"enrichmentAndLinkage.tools", weightLow},

	{"observations.observedNode", weightHigh},
	{"observations.measuredValue", weightHigh},
	{"observations.observationDate", weightHigh},
	{"observations.measuredProperty", weightHigh},
	{"observations.disambiguatingDescription", weightLow},

	{"structuralMetadata.tables", weightHigh},
	{"structuralMetadata.dataClassesCount", weightHigh},
}

// FieldWeights returns a copy of the weight table.
func FieldWeights() []FieldWeight {
	out := make([]FieldWeight, len(fieldWeights))
	copy(out, fieldWeights)
	return out
}
