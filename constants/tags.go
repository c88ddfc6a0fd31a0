package constants

// Tag is one entry of the fixed vocabulary reviewers attach to a housing review.
type Tag string

const (
	TagCloseToCampus          Tag = "close_to_campus"
	TagResponsiveMaintenance  Tag = "responsive_maintenance"
	TagAffordable             Tag = "affordable"
	TagThinWalls              Tag = "thin_walls"
	TagPartyAtmosphere        Tag = "party_atmosphere"
	TagSecureBuilding         Tag = "secure_building"
	TagNoisyNeighbors         Tag = "noisy_neighbors"
	TagAllInclusiveUtilities  Tag = "all_inclusive_utilities"
	TagHelpfulOfficeStaff     Tag = "helpful_office_staff"
	TagModernAppliances       Tag = "modern_appliances"
	TagWalkableArea           Tag = "walkable_area"
	TagUnresponsiveManagement Tag = "unresponsive_management"
	TagQuietAndChill          Tag = "quiet_and_chill"
	TagFreeParking            Tag = "free_parking"
	TagFrequentPestIssues     Tag = "frequent_pest_issues"
)

var tagLabels = map[Tag]string{
	TagCloseToCampus:          "Close to Campus",
	TagResponsiveMaintenance:  "Responsive Maintenance",
	TagAffordable:             "Affordable",
	TagThinWalls:              "Thin Walls",
	TagPartyAtmosphere:        "Party Atmosphere",
	TagSecureBuilding:         "Secure Building",
	TagNoisyNeighbors:         "Noisy Neighbors",
	TagAllInclusiveUtilities:  "All-Inclusive Utilities",
	TagHelpfulOfficeStaff:     "Helpful Office Staff",
	TagModernAppliances:       "Modern Appliances",
	TagWalkableArea:           "Walkable Area",
	TagUnresponsiveManagement: "Unresponsive Management",
	TagQuietAndChill:          "Quiet & Chill",
	TagFreeParking:            "Free Parking",
	TagFrequentPestIssues:     "Frequent Pest Issues",
}

// Tags lists the vocabulary in display order.
var Tags = []Tag{
	TagCloseToCampus,
	TagResponsiveMaintenance,
	TagAffordable,
	TagThinWalls,
	TagPartyAtmosphere,
	TagSecureBuilding,
	TagNoisyNeighbors,
	TagAllInclusiveUtilities,
	TagHelpfulOfficeStaff,
	TagModernAppliances,
	TagWalkableArea,
	TagUnresponsiveManagement,
	TagQuietAndChill,
	TagFreeParking,
	TagFrequentPestIssues,
}

func (t Tag) IsValid() bool {
	_, ok := tagLabels[t]
	return ok
}

func (t Tag) Label() string {
	return tagLabels[t]
}
