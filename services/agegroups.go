package services

// Age bands used to pick the measurement schema. Reserved measurement codes
// carry demographics instead of physical results: 53 age, 54 gender, 55
// months since birth for infants.
const (
	AgeGroupInfant     = "infant"
	AgeGroupChild      = "child"
	AgeGroupAdolescent = "adolescent"
	AgeGroupAdult      = "adult"
	AgeGroupSenior     = "senior"
)

const (
	CodeHeight = "1"
	CodeWeight = "2"
	CodeAge    = "53"
	CodeGender = "54"
	CodeMonths = "55"
)

// MeasurementSchema lists the codes a given age band may submit and which
// of them are mandatory.
type MeasurementSchema struct {
	AgeGroup string            `json:"ageGroup"`
	Required []string          `json:"required"`
	Items    map[string]string `json:"items"`
}

var baseItems = map[string]string{
	CodeHeight: "height",
	CodeWeight: "weight",
}

var schemaByGroup = map[string]MeasurementSchema{
	AgeGroupInfant: {
		AgeGroup: AgeGroupInfant,
		Required: []string{CodeHeight, CodeWeight},
		Items: mergeItems(map[string]string{
			"3":        "body mass index",
			"10":       "standing long jump",
			"11":       "one-leg balance",
			CodeMonths: "months",
		}),
	},
	AgeGroupChild: {
		AgeGroup: AgeGroupChild,
		Required: []string{CodeHeight, CodeWeight},
		Items: mergeItems(map[string]string{
			"3":  "body mass index",
			"13": "shuttle run",
			"14": "sit and reach",
			"15": "sit-up",
		}),
	},
	AgeGroupAdolescent: {
		AgeGroup: AgeGroupAdolescent,
		Required: []string{CodeHeight, CodeWeight},
		Items: mergeItems(map[string]string{
			"3":  "body mass index",
			"13": "shuttle run",
			"14": "sit and reach",
			"15": "sit-up",
			"16": "50m sprint",
		}),
	},
	AgeGroupAdult: {
		AgeGroup: AgeGroupAdult,
		Required: []string{CodeHeight, CodeWeight},
		Items: mergeItems(map[string]string{
			"3":  "body mass index",
			"4":  "body fat percentage",
			"14": "sit and reach",
			"15": "sit-up",
			"17": "grip strength",
			"18": "step test",
		}),
	},
	AgeGroupSenior: {
		AgeGroup: AgeGroupSenior,
		Required: []string{CodeHeight, CodeWeight},
		Items: mergeItems(map[string]string{
			"3":  "body mass index",
			"17": "grip strength",
			"19": "chair stand",
			"20": "2-minute step",
			"21": "timed up and go",
		}),
	},
}

func mergeItems(extra map[string]string) map[string]string {
	items := make(map[string]string, len(baseItems)+len(extra))
	for k, v := range baseItems {
		items[k] = v
	}
	for k, v := range extra {
		items[k] = v
	}
	return items
}

// GetAgeGroup maps an age in years onto its measurement band.
func GetAgeGroup(age int) string {
	switch {
	case age < 7:
		return AgeGroupInfant
	case age <= 12:
		return AgeGroupChild
	case age <= 18:
		return AgeGroupAdolescent
	case age <= 64:
		return AgeGroupAdult
	default:
		return AgeGroupSenior
	}
}

// GetMeasurementSchema returns the schema for an age band, defaulting to
// the adult schema for unknown bands.
func GetMeasurementSchema(ageGroup string) MeasurementSchema {
	if schema, ok := schemaByGroup[ageGroup]; ok {
		return schema
	}
	return schemaByGroup[AgeGroupAdult]
}
