package gate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/assessment"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/types"
	"github.com/google/uuid"
)

type Submission struct {
	Answers types.AnswerSet `json:"answers"`
	Verdict types.Verdict   `json:"verdict"`
	// SummaryPending is set when the summary could not be generated; the submission itself
	// is stored regardless.
	SummaryPending bool `json:"summaryPending"`
}

type Disclosure struct {
	Case          types.FollowupCase `json:"case"`
	Answers       types.AnswerSet    `json:"answers"`
	Verdict       types.Verdict      `json:"verdict"`
	MissingFields []string           `json:"missingFields"`
}

// Open stores a new case and issues its first secret. An empty ID is replaced by a generated one.
func (g *Gate) Open(ctx context.Context, c types.FollowupCase) (types.FollowupCase, Challenge, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	now := g.now()
	c.Status = types.CASE_STATUS_INITIATED
	c.Secret = ""
	c.Verified = false
	c.VerifiedAt = nil
	c.Attempts = 0
	c.Consent = false
	c.ConsentedAt = nil
	c.Answers = nil
	c.CreatedAt = now
	c.UpdatedAt = now

	if err := g.store.CreateCase(ctx, c); err != nil {
		return c, Challenge{}, err
	}

	challenge, err := g.Initiate(ctx, c.ID)
	if err != nil {
		return c, Challenge{}, err
	}
	c.Secret = challenge.Secret
	c.SecretExpiresAt = challenge.ExpiresAt
	return c, challenge, nil
}

// RecordConsent attaches the subject's answers to a verified case. consentFlag must be the
// boolean true; any other value, including the string "true", is rejected.
func (g *Gate) RecordConsent(ctx context.Context, caseID string, answers types.AnswerSet, consentFlag interface{}) (Submission, error) {
	c, err := g.submittableCase(ctx, caseID, consentFlag)
	if err != nil {
		return Submission{}, err
	}
	return g.recordConsent(ctx, c, answers)
}

// RecordRawConsent is RecordConsent for answers still in their JSON encoding. The answers are
// decoded only after the unlock and consent checks passed.
func (g *Gate) RecordRawConsent(ctx context.Context, caseID string, rawAnswers json.RawMessage, consentFlag interface{}) (Submission, error) {
	c, err := g.submittableCase(ctx, caseID, consentFlag)
	if err != nil {
		return Submission{}, err
	}
	answers, err := types.DecodeAnswers(rawAnswers)
	if err != nil {
		return Submission{}, err
	}
	return g.recordConsent(ctx, c, answers)
}

// submittableCase runs the checks that precede any look at the answers, in order: existence,
// unlock, consent, earlier submission.
func (g *Gate) submittableCase(ctx context.Context, caseID string, consentFlag interface{}) (*types.FollowupCase, error) {
	c, err := g.getCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !c.Verified {
		return nil, ErrUnauthorized
	}
	if consent, ok := consentFlag.(bool); !ok || !consent {
		return nil, ErrConsentRequired
	}
	if c.Consent {
		return nil, ErrAlreadySubmitted
	}
	return c, nil
}

func (g *Gate) recordConsent(ctx context.Context, c *types.FollowupCase, answers types.AnswerSet) (Submission, error) {
	if err := answers.Validate(); err != nil {
		return Submission{}, err
	}
	caseID := c.ID

	merged := types.MergeAnswers(c.KnownAnswers, answers)
	now := g.now()
	saved, err := g.store.SaveSubmission(ctx, caseID, merged, now)
	if err != nil {
		return Submission{}, fmt.Errorf("save submission: %w", err)
	}
	if !saved {
		// state changed since the read: either re-initiated or submitted concurrently
		latest, err := g.getCase(ctx, caseID)
		if err != nil {
			return Submission{}, err
		}
		if !latest.Verified {
			return Submission{}, ErrUnauthorized
		}
		return Submission{}, ErrAlreadySubmitted
	}
	if g.observer != nil {
		g.observer.ConsentCaptured(c.Kind)
	}

	c.Answers = &merged
	c.Consent = true
	c.ConsentedAt = &now
	c.Status = types.CASE_STATUS_SUBMITTED

	sub := Submission{
		Answers: merged,
		Verdict: assessment.Assess(merged),
	}
	sub.SummaryPending = !g.summarize(ctx, *c, sub.Verdict)
	return sub, nil
}

// summarize generates and stores the summary. Failures are logged only, the consent write
// stands either way.
func (g *Gate) summarize(ctx context.Context, c types.FollowupCase, verdict types.Verdict) bool {
	if g.summarizer == nil {
		return true
	}

	summary, err := g.summarizer.Summarize(ctx, c, verdict)
	summaryErr := ""
	if err != nil {
		slog.Error("failed to generate case summary", slog.String("caseID", c.ID), slog.String("error", err.Error()))
		if g.observer != nil {
			g.observer.SummaryFailed(c.Kind)
		}
		summaryErr = err.Error()
	}

	if err := g.store.SaveSummary(ctx, c.ID, summary, summaryErr, g.now()); err != nil {
		slog.Error("failed to save case summary", slog.String("caseID", c.ID), slog.String("error", err.Error()))
		return false
	}
	return summaryErr == ""
}

// IsDisclosable reports whether the requester may read the case's medical content.
func (g *Gate) IsDisclosable(ctx context.Context, caseID string, requesterID string) (bool, error) {
	c, err := g.getCase(ctx, caseID)
	if err != nil {
		return false, err
	}
	if err := checkDisclosable(c, requesterID); err != nil {
		return false, err
	}
	return true, nil
}

// Disclose returns the answers with their freshly computed verdict to the case owner.
func (g *Gate) Disclose(ctx context.Context, caseID string, requesterID string) (Disclosure, error) {
	c, err := g.getCase(ctx, caseID)
	if err != nil {
		return Disclosure{}, err
	}
	if err := checkDisclosable(c, requesterID); err != nil {
		return Disclosure{}, err
	}

	answers := types.AnswerSet{}
	if c.Answers != nil {
		answers = *c.Answers
	}
	return Disclosure{
		Case:          *c,
		Answers:       answers,
		Verdict:       assessment.Assess(answers),
		MissingFields: assessment.MissingFields(answers),
	}, nil
}

// Close marks a submitted case as reviewed. Only the owner may close it.
func (g *Gate) Close(ctx context.Context, caseID string, requesterID string) error {
	c, err := g.getCase(ctx, caseID)
	if err != nil {
		return err
	}
	if !isOwner(c, requesterID) {
		return ErrForbidden
	}
	if c.Status != types.CASE_STATUS_SUBMITTED {
		return ErrInvalidTransition
	}

	closed, err := g.store.CloseCase(ctx, caseID, g.now())
	if err != nil {
		return fmt.Errorf("close case: %w", err)
	}
	if !closed {
		return ErrInvalidTransition
	}
	return nil
}

func checkDisclosable(c *types.FollowupCase, requesterID string) error {
	if !isOwner(c, requesterID) {
		return ErrForbidden
	}
	if !c.Consent {
		return ErrPendingConsent
	}
	return nil
}

func isOwner(c *types.FollowupCase, requesterID string) bool {
	return requesterID != "" && c.OwnerID == requesterID
}
