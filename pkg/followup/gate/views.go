package gate

import (
	"context"
	"time"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/assessment"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/types"
)

// StatusView is what the subject's link page may show before verification.
type StatusView struct {
	ID        string    `json:"id"`
	Reference string    `json:"reference"`
	Status    string    `json:"status"`
	Verified  bool      `json:"verified"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Questionnaire lists the questions still open for an unlocked case.
type Questionnaire struct {
	CaseKind      string                  `json:"caseKind"`
	Drug          string                  `json:"drug"`
	Language      string                  `json:"language"`
	KnownAnswers  types.AnswerSet         `json:"knownAnswers"`
	MissingFields []string                `json:"missingFields"`
	Questions     []types.FieldDefinition `json:"questions"`
	Submitted     bool                    `json:"submitted"`
}

func (g *Gate) Status(ctx context.Context, caseID string) (StatusView, error) {
	c, err := g.getCase(ctx, caseID)
	if err != nil {
		return StatusView{}, err
	}
	return StatusView{
		ID:        c.ID,
		Reference: c.Reference,
		Status:    c.Status,
		Verified:  c.Verified,
		ExpiresAt: c.SecretExpiresAt,
	}, nil
}

// Questionnaire returns ErrUnauthorized unless the case is unlocked.
func (g *Gate) Questionnaire(ctx context.Context, caseID string) (Questionnaire, error) {
	c, err := g.getCase(ctx, caseID)
	if err != nil {
		return Questionnaire{}, err
	}
	if !c.Verified {
		return Questionnaire{}, ErrUnauthorized
	}

	missing := assessment.MissingFields(c.KnownAnswers)
	return Questionnaire{
		CaseKind:      c.Kind,
		Drug:          c.Prescription.Drug,
		Language:      c.Contact.Language,
		KnownAnswers:  c.KnownAnswers,
		MissingFields: missing,
		Questions:     types.PatientQuestions(missing),
		Submitted:     c.Consent,
	}, nil
}

// Reissue is the subject's request for a new code. It is refused once the case is verified
// and within the cooldown after the last issue.
func (g *Gate) Reissue(ctx context.Context, caseID string) (types.FollowupCase, Challenge, error) {
	c, err := g.getCase(ctx, caseID)
	if err != nil {
		return types.FollowupCase{}, Challenge{}, err
	}
	if c.Verified || c.Status != types.CASE_STATUS_INITIATED {
		return types.FollowupCase{}, Challenge{}, ErrInvalidTransition
	}
	issuedAt := c.SecretExpiresAt.Add(-g.conf.CodeTTL)
	if g.now().Before(issuedAt.Add(g.conf.ResendCooldown)) {
		return types.FollowupCase{}, Challenge{}, ErrResendCooldown
	}

	challenge, err := g.Initiate(ctx, caseID)
	if err != nil {
		return types.FollowupCase{}, Challenge{}, err
	}
	return *c, challenge, nil
}

// Reinitiate is the owner's request for a new verification round. Closed cases stay closed.
func (g *Gate) Reinitiate(ctx context.Context, caseID string, requesterID string) (types.FollowupCase, Challenge, error) {
	c, err := g.getCase(ctx, caseID)
	if err != nil {
		return types.FollowupCase{}, Challenge{}, err
	}
	if !isOwner(c, requesterID) {
		return types.FollowupCase{}, Challenge{}, ErrForbidden
	}
	if c.Status == types.CASE_STATUS_CLOSED {
		return types.FollowupCase{}, Challenge{}, ErrInvalidTransition
	}

	challenge, err := g.Initiate(ctx, caseID)
	if err != nil {
		return types.FollowupCase{}, Challenge{}, err
	}
	return *c, challenge, nil
}
