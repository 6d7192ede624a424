package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/templates"
)

var DefaultTemplates = map[string]string{
	KIND_SUMMARY: `Follow-up {{.reference}} ({{.caseKind}})
Medication: {{.drug}}{{if .dosage}}, {{.dosage}}{{end}}
Symptoms: {{.symptoms}}
Time to onset: {{.timeToOnset}}
Severity: {{.severity}}
Seriousness: {{.seriousness}}
Medical attention: {{.medicalAttention}}
Action taken: {{.actionTaken}}
Outcome: {{.outcome}}
Concomitant medication: {{.concomitantMeds}}
Causality indicators: {{.causalityIndicators}}
Escalation required: {{.requiresEscalation}}`,
	KIND_PATIENT_INTRO: `Your doctor would like to know how you are doing with {{.drug}}. Please answer the following {{.questionCount}} questions.`,
}

// TemplateGenerator renders requests with local text templates, one per kind.
type TemplateGenerator struct {
	templates map[string]string
}

// NewTemplateGenerator falls back to DefaultTemplates for kinds without a custom template.
func NewTemplateGenerator(custom map[string]string) *TemplateGenerator {
	tmpls := map[string]string{}
	for k, v := range DefaultTemplates {
		tmpls[k] = v
	}
	for k, v := range custom {
		if strings.TrimSpace(v) != "" {
			tmpls[k] = v
		}
	}
	return &TemplateGenerator{templates: tmpls}
}

func (g *TemplateGenerator) Generate(ctx context.Context, req Request) (string, error) {
	def, ok := g.templates[req.Kind]
	if !ok {
		return "", fmt.Errorf("no template for kind %s", req.Kind)
	}
	text, err := templates.ResolveTextTemplate("generation-"+req.Kind, def, req.Inputs)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}
