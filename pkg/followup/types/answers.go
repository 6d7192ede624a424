package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrInvalidAnswers = errors.New("invalid answers")

// Canonical keys of the structured answer fields.
const (
	FIELD_TIME_TO_ONSET     = "timeToOnset"
	FIELD_SYMPTOMS          = "symptoms"
	FIELD_SEVERITY          = "severity"
	FIELD_SERIOUSNESS       = "seriousness"
	FIELD_MEDICAL_ATTENTION = "medicalAttention"
	FIELD_ACTION_TAKEN      = "actionTaken"
	FIELD_OUTCOME           = "outcome"
	FIELD_CONCOMITANT_MEDS  = "concomitantMeds"
)

const (
	SERIOUSNESS_SERIOUS     = "serious"
	SERIOUSNESS_NON_SERIOUS = "non-serious"
)

// AnswerSet holds a subject's responses to the field catalog. Empty strings and an empty
// symptom list mean "not answered".
type AnswerSet struct {
	TimeToOnset      string   `bson:"timeToOnset,omitempty" json:"timeToOnset,omitempty"`
	Symptoms         []string `bson:"symptoms,omitempty" json:"symptoms,omitempty"`
	Severity         string   `bson:"severity,omitempty" json:"severity,omitempty"`
	Seriousness      string   `bson:"seriousness,omitempty" json:"seriousness,omitempty"`
	MedicalAttention string   `bson:"medicalAttention,omitempty" json:"medicalAttention,omitempty"`
	ActionTaken      string   `bson:"actionTaken,omitempty" json:"actionTaken,omitempty"`
	Outcome          string   `bson:"outcome,omitempty" json:"outcome,omitempty"`
	ConcomitantMeds  string   `bson:"concomitantMeds,omitempty" json:"concomitantMeds,omitempty"`
}

// Verdict is derived from an AnswerSet and never edited by hand.
type Verdict struct {
	Severity            string   `json:"severity"`
	Seriousness         string   `json:"seriousness"`
	CausalityIndicators []string `json:"causalityIndicators"`
	RequiresEscalation  bool     `json:"requiresEscalation"`
}

// HasSymptom reports whether s is among the reported symptoms.
func (a AnswerSet) HasSymptom(s string) bool {
	for _, v := range a.Symptoms {
		if v == s {
			return true
		}
	}
	return false
}

// DecodeAnswers parses a JSON answer object. An empty payload or null is an empty set, a
// payload of the wrong shape is ErrInvalidAnswers.
func DecodeAnswers(raw json.RawMessage) (AnswerSet, error) {
	answers := AnswerSet{}
	if len(raw) == 0 || string(raw) == "null" {
		return answers, nil
	}
	if err := json.Unmarshal(raw, &answers); err != nil {
		return AnswerSet{}, fmt.Errorf("%w: %v", ErrInvalidAnswers, err)
	}
	return answers, nil
}

// Validate checks every answered field against its domain. Unanswered fields are accepted.
func (a AnswerSet) Validate() error {
	singles := []struct {
		key   string
		value string
	}{
		{FIELD_TIME_TO_ONSET, a.TimeToOnset},
		{FIELD_SEVERITY, a.Severity},
		{FIELD_SERIOUSNESS, a.Seriousness},
		{FIELD_MEDICAL_ATTENTION, a.MedicalAttention},
		{FIELD_ACTION_TAKEN, a.ActionTaken},
		{FIELD_OUTCOME, a.Outcome},
		{FIELD_CONCOMITANT_MEDS, a.ConcomitantMeds},
	}
	for _, f := range singles {
		if f.value == "" {
			continue
		}
		if !IsAllowedValue(f.key, f.value) {
			return fmt.Errorf("%w: %s has unknown value %q", ErrInvalidAnswers, f.key, f.value)
		}
	}

	seen := make(map[string]bool, len(a.Symptoms))
	for _, s := range a.Symptoms {
		if !IsAllowedValue(FIELD_SYMPTOMS, s) {
			return fmt.Errorf("%w: %s has unknown value %q", ErrInvalidAnswers, FIELD_SYMPTOMS, s)
		}
		if seen[s] {
			return fmt.Errorf("%w: symptom %q listed twice", ErrInvalidAnswers, s)
		}
		seen[s] = true
	}
	return nil
}

// MergeAnswers returns the patient answers with unanswered fields taken from known.
func MergeAnswers(known AnswerSet, patient AnswerSet) AnswerSet {
	merged := patient
	if merged.TimeToOnset == "" {
		merged.TimeToOnset = known.TimeToOnset
	}
	if len(merged.Symptoms) == 0 && len(known.Symptoms) > 0 {
		merged.Symptoms = append([]string{}, known.Symptoms...)
	}
	if merged.Severity == "" {
		merged.Severity = known.Severity
	}
	if merged.Seriousness == "" {
		merged.Seriousness = known.Seriousness
	}
	if merged.MedicalAttention == "" {
		merged.MedicalAttention = known.MedicalAttention
	}
	if merged.ActionTaken == "" {
		merged.ActionTaken = known.ActionTaken
	}
	if merged.Outcome == "" {
		merged.Outcome = known.Outcome
	}
	if merged.ConcomitantMeds == "" {
		merged.ConcomitantMeds = known.ConcomitantMeds
	}
	return merged
}
