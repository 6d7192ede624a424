package gate

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/utils"
)

const (
	OUTCOME_VERIFIED          = "verified"
	OUTCOME_ALREADY_VERIFIED  = "already_verified"
	OUTCOME_NOT_FOUND         = "not_found"
	OUTCOME_EXPIRED           = "expired"
	OUTCOME_ATTEMPTS_EXCEEDED = "attempts_exceeded"
	OUTCOME_INVALID_CODE      = "invalid_code"
)

// Challenge is the freshly issued secret, to be delivered to the subject out-of-band.
type Challenge struct {
	Secret    string
	ExpiresAt time.Time
}

// Initiate issues a new secret for the case and resets the verification and consent state.
// Previously stored answers and summary are left in place.
func (g *Gate) Initiate(ctx context.Context, caseID string) (Challenge, error) {
	secret, err := utils.GenerateOTPCode(g.conf.CodeLength)
	if err != nil {
		return Challenge{}, fmt.Errorf("generate secret: %w", err)
	}

	now := g.now()
	expiresAt := now.Add(g.conf.CodeTTL)
	found, err := g.store.ResetVerification(ctx, caseID, secret, expiresAt, now)
	if err != nil {
		return Challenge{}, fmt.Errorf("reset verification: %w", err)
	}
	if !found {
		return Challenge{}, ErrNotFound
	}
	return Challenge{Secret: secret, ExpiresAt: expiresAt}, nil
}

// Verify checks a candidate secret. Checks run in a fixed order: existence, already verified,
// expiry, attempt limit. The attempt counter is incremented before the comparison, so
// successful attempts count as well.
func (g *Gate) Verify(ctx context.Context, caseID string, candidate string) error {
	c, err := g.getCase(ctx, caseID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			g.observeAttempt(OUTCOME_NOT_FOUND)
		}
		return err
	}

	if c.Verified {
		g.observeAttempt(OUTCOME_ALREADY_VERIFIED)
		return nil
	}

	now := g.now()
	if now.After(c.SecretExpiresAt) {
		g.observeAttempt(OUTCOME_EXPIRED)
		return ErrExpired
	}

	if c.Attempts >= g.conf.MaxAttempts {
		g.observeAttempt(OUTCOME_ATTEMPTS_EXCEEDED)
		return ErrAttemptsExceeded
	}

	_, ok, err := g.store.IncrementAttempts(ctx, caseID, c.Secret, g.conf.MaxAttempts)
	if err != nil {
		return fmt.Errorf("increment attempts: %w", err)
	}
	if !ok {
		// a concurrent attempt took the last slot, or the secret was reissued meanwhile
		return g.rejectUncountedAttempt(ctx, caseID)
	}

	if candidate == "" || subtle.ConstantTimeCompare([]byte(candidate), []byte(c.Secret)) != 1 {
		g.observeAttempt(OUTCOME_INVALID_CODE)
		return ErrInvalidCode
	}

	ok, err = g.store.MarkVerified(ctx, caseID, c.Secret, now)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if !ok {
		g.observeAttempt(OUTCOME_INVALID_CODE)
		return ErrInvalidCode
	}
	g.observeAttempt(OUTCOME_VERIFIED)
	return nil
}

// rejectUncountedAttempt classifies an attempt the store refused to count. Only a used up
// attempt limit is reported as such; a reissued secret makes the candidate merely invalid.
func (g *Gate) rejectUncountedAttempt(ctx context.Context, caseID string) error {
	latest, err := g.getCase(ctx, caseID)
	if err != nil {
		return err
	}
	if latest.Attempts >= g.conf.MaxAttempts {
		g.observeAttempt(OUTCOME_ATTEMPTS_EXCEEDED)
		return ErrAttemptsExceeded
	}
	g.observeAttempt(OUTCOME_INVALID_CODE)
	return ErrInvalidCode
}

// IsUnlocked is the authorization predicate for any read, generation or write on the case.
func (g *Gate) IsUnlocked(ctx context.Context, caseID string) (bool, error) {
	c, err := g.getCase(ctx, caseID)
	if err != nil {
		return false, err
	}
	return c.Verified, nil
}
