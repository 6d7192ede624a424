package assessment

import (
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/types"
)

const (
	INDICATOR_TEMPORAL_ASSOCIATION = "Temporal association (onset within hours)"
	INDICATOR_POSITIVE_DECHALLENGE = "Positive dechallenge (improved after stopping)"
	INDICATOR_RECHALLENGE          = "Rechallenge performed"
	INDICATOR_NO_CONFOUNDERS       = "No confounders (no other medications)"
)

// MandatoryFields lists the fields a complete report needs, in canonical order.
var MandatoryFields = []string{
	types.FIELD_TIME_TO_ONSET,
	types.FIELD_SYMPTOMS,
	types.FIELD_SEVERITY,
	types.FIELD_SERIOUSNESS,
	types.FIELD_ACTION_TAKEN,
	types.FIELD_OUTCOME,
	types.FIELD_CONCOMITANT_MEDS,
}

type indicatorRule struct {
	label   string
	applies func(a types.AnswerSet) bool
}

// evaluated in this order, each rule independently
var indicatorRules = []indicatorRule{
	{
		label: INDICATOR_TEMPORAL_ASSOCIATION,
		applies: func(a types.AnswerSet) bool {
			return a.TimeToOnset == "immediate" || a.TimeToOnset == "hours"
		},
	},
	{
		label: INDICATOR_POSITIVE_DECHALLENGE,
		applies: func(a types.AnswerSet) bool {
			return a.ActionTaken == "stopped" && (a.Outcome == "resolved" || a.Outcome == "improved")
		},
	},
	{
		label: INDICATOR_RECHALLENGE,
		applies: func(a types.AnswerSet) bool {
			return a.ActionTaken == "restarted"
		},
	},
	{
		label: INDICATOR_NO_CONFOUNDERS,
		applies: func(a types.AnswerSet) bool {
			return a.ConcomitantMeds == "none"
		},
	},
}

// Assess maps an answer set to its verdict. Values outside a field's domain simply do not
// trigger any rule.
func Assess(answers types.AnswerSet) types.Verdict {
	seriousness := types.SERIOUSNESS_NON_SERIOUS
	if isSerious(answers) {
		seriousness = types.SERIOUSNESS_SERIOUS
	}

	indicators := []string{}
	for _, rule := range indicatorRules {
		if rule.applies(answers) {
			indicators = append(indicators, rule.label)
		}
	}

	return types.Verdict{
		Severity:            answers.Severity,
		Seriousness:         seriousness,
		CausalityIndicators: indicators,
		RequiresEscalation:  seriousness == types.SERIOUSNESS_SERIOUS && answers.Outcome != "resolved",
	}
}

func isSerious(a types.AnswerSet) bool {
	if a.MedicalAttention == "hospital" || a.MedicalAttention == "emergency" {
		return true
	}
	return a.HasSymptom("breathing") || a.HasSymptom("swelling")
}

// MissingFields returns the mandatory fields that are unset, or empty for the symptom list.
func MissingFields(answers types.AnswerSet) []string {
	missing := []string{}
	for _, field := range MandatoryFields {
		if !isSet(answers, field) {
			missing = append(missing, field)
		}
	}
	return missing
}

func isSet(a types.AnswerSet, field string) bool {
	switch field {
	case types.FIELD_TIME_TO_ONSET:
		return a.TimeToOnset != ""
	case types.FIELD_SYMPTOMS:
		return len(a.Symptoms) > 0
	case types.FIELD_SEVERITY:
		return a.Severity != ""
	case types.FIELD_SERIOUSNESS:
		return a.Seriousness != ""
	case types.FIELD_MEDICAL_ATTENTION:
		return a.MedicalAttention != ""
	case types.FIELD_ACTION_TAKEN:
		return a.ActionTaken != ""
	case types.FIELD_OUTCOME:
		return a.Outcome != ""
	case types.FIELD_CONCOMITANT_MEDS:
		return a.ConcomitantMeds != ""
	default:
		return false
	}
}
