package generation

import (
	"context"
	"strconv"
	"strings"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/types"
)

const notAnswered = "not answered"

// CaseSummarizer produces the doctor-facing summary of a submitted case.
type CaseSummarizer struct {
	generator Generator
}

func NewCaseSummarizer(generator Generator) *CaseSummarizer {
	return &CaseSummarizer{generator: generator}
}

func (s *CaseSummarizer) Summarize(ctx context.Context, c types.FollowupCase, verdict types.Verdict) (string, error) {
	return s.generator.Generate(ctx, Request{
		Kind:     KIND_SUMMARY,
		Language: c.Contact.Language,
		Inputs:   SummaryInputs(c, verdict),
	})
}

// PatientIntro renders the text shown above the questions. Only call it for unlocked cases.
func (s *CaseSummarizer) PatientIntro(ctx context.Context, caseKind string, drug string, language string, questionCount int) (string, error) {
	return s.generator.Generate(ctx, Request{
		Kind:     KIND_PATIENT_INTRO,
		Language: language,
		Inputs: map[string]string{
			"caseKind":      caseKind,
			"drug":          drug,
			"questionCount": strconv.Itoa(questionCount),
		},
	})
}

// SummaryInputs flattens case, answers and verdict into labelled template inputs.
func SummaryInputs(c types.FollowupCase, verdict types.Verdict) map[string]string {
	answers := types.AnswerSet{}
	if c.Answers != nil {
		answers = *c.Answers
	}

	symptoms := make([]string, 0, len(answers.Symptoms))
	for _, s := range answers.Symptoms {
		symptoms = append(symptoms, types.OptionLabel(types.FIELD_SYMPTOMS, s))
	}

	inputs := map[string]string{
		"reference":           c.Reference,
		"caseKind":            c.Kind,
		"drug":                c.Prescription.Drug,
		"dosage":              c.Prescription.Dosage,
		"startedAt":           c.Prescription.StartedAt,
		"symptoms":            orNotAnswered(strings.Join(symptoms, ", ")),
		"timeToOnset":         label(types.FIELD_TIME_TO_ONSET, answers.TimeToOnset),
		"severity":            label(types.FIELD_SEVERITY, answers.Severity),
		"seriousness":         verdict.Seriousness,
		"medicalAttention":    label(types.FIELD_MEDICAL_ATTENTION, answers.MedicalAttention),
		"actionTaken":         label(types.FIELD_ACTION_TAKEN, answers.ActionTaken),
		"outcome":             label(types.FIELD_OUTCOME, answers.Outcome),
		"concomitantMeds":     label(types.FIELD_CONCOMITANT_MEDS, answers.ConcomitantMeds),
		"causalityIndicators": orNotAnswered(strings.Join(verdict.CausalityIndicators, "; ")),
		"requiresEscalation":  strconv.FormatBool(verdict.RequiresEscalation),
	}
	if len(verdict.CausalityIndicators) == 0 {
		inputs["causalityIndicators"] = "none"
	}
	return inputs
}

func label(field string, value string) string {
	if value == "" {
		return notAnswered
	}
	return types.OptionLabel(field, value)
}

func orNotAnswered(value string) string {
	if value == "" {
		return notAnswered
	}
	return value
}
