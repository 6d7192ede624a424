package gate_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	followupcases "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/db/followup-cases"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/assessment"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/gate"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ownerID = "doctor-1"

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type stubSummarizer struct {
	summary string
	err     error
	calls   int
}

func (s *stubSummarizer) Summarize(ctx context.Context, c types.FollowupCase, verdict types.Verdict) (string, error) {
	s.calls++
	return s.summary, s.err
}

type countingObserver struct {
	attempts        map[string]int
	consents        int
	summaryFailures int
}

func (o *countingObserver) VerificationAttempt(outcome string) {
	if o.attempts == nil {
		o.attempts = map[string]int{}
	}
	o.attempts[outcome]++
}

func (o *countingObserver) ConsentCaptured(caseKind string) { o.consents++ }

func (o *countingObserver) SummaryFailed(caseKind string) { o.summaryFailures++ }

var hospitalAnswers = types.AnswerSet{
	MedicalAttention: "hospital",
	Symptoms:         []string{"breathing"},
	Outcome:          "improved",
	ActionTaken:      "stopped",
	ConcomitantMeds:  "none",
	TimeToOnset:      "hours",
}

func setup(t *testing.T, opts ...gate.Option) (*gate.Gate, *followupcases.InMemoryStore, *testClock) {
	t.Helper()
	store := followupcases.NewInMemoryStore()
	clock := &testClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	opts = append([]gate.Option{gate.WithClock(clock.Now)}, opts...)
	g := gate.New(store, gate.Config{}, opts...)
	return g, store, clock
}

func openCase(t *testing.T, g *gate.Gate) (types.FollowupCase, gate.Challenge) {
	t.Helper()
	c, challenge, err := g.Open(context.Background(), types.FollowupCase{
		Kind:      types.CASE_KIND_ADVERSE_EVENT,
		OwnerID:   ownerID,
		Reference: "AE-1",
	})
	require.NoError(t, err)
	return c, challenge
}

func verifiedCase(t *testing.T, g *gate.Gate) types.FollowupCase {
	t.Helper()
	c, challenge := openCase(t, g)
	require.NoError(t, g.Verify(context.Background(), c.ID, challenge.Secret))
	return c
}

func TestOpen(t *testing.T) {
	g, store, clock := setup(t)
	ctx := context.Background()

	t.Run("generates id and secret", func(t *testing.T) {
		c, challenge := openCase(t, g)
		assert.NotEmpty(t, c.ID)
		assert.Len(t, challenge.Secret, gate.DEFAULT_CODE_LENGTH)
		assert.Equal(t, clock.Now().Add(gate.DEFAULT_CODE_TTL), challenge.ExpiresAt)

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, types.CASE_STATUS_INITIATED, stored.Status)
		assert.Equal(t, challenge.Secret, stored.Secret)
		assert.False(t, stored.Verified)
		assert.Zero(t, stored.Attempts)
		assert.False(t, stored.Consent)
	})

	t.Run("caller supplied id", func(t *testing.T) {
		c, _, err := g.Open(ctx, types.FollowupCase{ID: "rx-42", OwnerID: ownerID})
		require.NoError(t, err)
		assert.Equal(t, "rx-42", c.ID)

		_, _, err = g.Open(ctx, types.FollowupCase{ID: "rx-42", OwnerID: ownerID})
		assert.ErrorIs(t, err, gate.ErrCaseExists)
	})
}

func TestInitiate(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown case", func(t *testing.T) {
		g, _, _ := setup(t)
		_, err := g.Initiate(ctx, "missing")
		assert.ErrorIs(t, err, gate.ErrNotFound)
	})

	t.Run("re-initiation resets a verified case", func(t *testing.T) {
		g, store, _ := setup(t)
		c, first := openCase(t, g)
		require.NoError(t, g.Verify(ctx, c.ID, first.Secret))

		second, err := g.Initiate(ctx, c.ID)
		require.NoError(t, err)
		assert.NotEqual(t, first.Secret, second.Secret)

		unlocked, err := g.IsUnlocked(ctx, c.ID)
		require.NoError(t, err)
		assert.False(t, unlocked)

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, types.CASE_STATUS_INITIATED, stored.Status)
		assert.Zero(t, stored.Attempts)
		assert.Nil(t, stored.VerifiedAt)
	})

	t.Run("re-initiation resets the attempt counter", func(t *testing.T) {
		g, _, _ := setup(t)
		c, _ := openCase(t, g)
		for i := 0; i < gate.DEFAULT_MAX_ATTEMPTS; i++ {
			assert.ErrorIs(t, g.Verify(ctx, c.ID, "wrong"), gate.ErrInvalidCode)
		}
		assert.ErrorIs(t, g.Verify(ctx, c.ID, "wrong"), gate.ErrAttemptsExceeded)

		challenge, err := g.Initiate(ctx, c.ID)
		require.NoError(t, err)
		assert.NoError(t, g.Verify(ctx, c.ID, challenge.Secret))
	})

	t.Run("re-initiation keeps stored answers out of reach", func(t *testing.T) {
		g, store, _ := setup(t)
		c := verifiedCase(t, g)
		_, err := g.RecordConsent(ctx, c.ID, hospitalAnswers, true)
		require.NoError(t, err)

		_, err = g.Initiate(ctx, c.ID)
		require.NoError(t, err)

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.Answers, "answers are retained")
		assert.False(t, stored.Consent)
		assert.Nil(t, stored.ConsentedAt)

		_, err = g.IsDisclosable(ctx, c.ID, ownerID)
		assert.ErrorIs(t, err, gate.ErrPendingConsent)
	})
}

func TestVerify(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown case", func(t *testing.T) {
		g, _, _ := setup(t)
		assert.ErrorIs(t, g.Verify(ctx, "missing", "123456"), gate.ErrNotFound)
	})

	t.Run("correct code unlocks", func(t *testing.T) {
		g, store, clock := setup(t)
		c, challenge := openCase(t, g)

		require.NoError(t, g.Verify(ctx, c.ID, challenge.Secret))

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, stored.Verified)
		assert.Equal(t, types.CASE_STATUS_VERIFIED, stored.Status)
		assert.Equal(t, 1, stored.Attempts, "successful attempts are counted")
		require.NotNil(t, stored.VerifiedAt)
		assert.Equal(t, clock.Now(), *stored.VerifiedAt)
	})

	t.Run("already verified is a no-op success", func(t *testing.T) {
		g, store, clock := setup(t)
		c, challenge := openCase(t, g)
		require.NoError(t, g.Verify(ctx, c.ID, challenge.Secret))

		clock.Set(challenge.ExpiresAt.Add(time.Hour))
		assert.NoError(t, g.Verify(ctx, c.ID, "anything"))

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Attempts)
	})

	t.Run("one millisecond before expiry", func(t *testing.T) {
		g, _, clock := setup(t)
		c, challenge := openCase(t, g)
		clock.Set(challenge.ExpiresAt.Add(-time.Millisecond))
		assert.NoError(t, g.Verify(ctx, c.ID, challenge.Secret))
	})

	t.Run("exactly at expiry", func(t *testing.T) {
		g, _, clock := setup(t)
		c, challenge := openCase(t, g)
		clock.Set(challenge.ExpiresAt)
		assert.NoError(t, g.Verify(ctx, c.ID, challenge.Secret))
	})

	t.Run("one millisecond after expiry", func(t *testing.T) {
		g, store, clock := setup(t)
		c, challenge := openCase(t, g)
		clock.Set(challenge.ExpiresAt.Add(time.Millisecond))
		assert.ErrorIs(t, g.Verify(ctx, c.ID, challenge.Secret), gate.ErrExpired)

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.Zero(t, stored.Attempts, "expired attempts are not counted")
	})

	t.Run("wrong code counts an attempt", func(t *testing.T) {
		g, store, _ := setup(t)
		c, _ := openCase(t, g)
		assert.ErrorIs(t, g.Verify(ctx, c.ID, "000000x"), gate.ErrInvalidCode)
		assert.ErrorIs(t, g.Verify(ctx, c.ID, ""), gate.ErrInvalidCode)

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, stored.Attempts)
		assert.False(t, stored.Verified)
	})

	t.Run("lockout after five attempts", func(t *testing.T) {
		g, store, _ := setup(t)
		c, challenge := openCase(t, g)

		for i := 0; i < 5; i++ {
			assert.ErrorIs(t, g.Verify(ctx, c.ID, "wrong"), gate.ErrInvalidCode, "attempt %d", i+1)
		}
		assert.ErrorIs(t, g.Verify(ctx, c.ID, "wrong"), gate.ErrAttemptsExceeded)
		assert.ErrorIs(t, g.Verify(ctx, c.ID, challenge.Secret), gate.ErrAttemptsExceeded)

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, stored.Attempts)
		assert.False(t, stored.Verified)
	})

	t.Run("concurrent attempts respect the cap", func(t *testing.T) {
		g, store, _ := setup(t)
		c, _ := openCase(t, g)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = g.Verify(ctx, c.ID, "wrong")
			}()
		}
		wg.Wait()

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, gate.DEFAULT_MAX_ATTEMPTS, stored.Attempts)
	})

	t.Run("outcomes are observed", func(t *testing.T) {
		observer := &countingObserver{}
		g, _, _ := setup(t, gate.WithObserver(observer))
		c, challenge := openCase(t, g)

		_ = g.Verify(ctx, c.ID, "wrong")
		_ = g.Verify(ctx, c.ID, challenge.Secret)
		_ = g.Verify(ctx, c.ID, challenge.Secret)
		_ = g.Verify(ctx, "missing", challenge.Secret)

		assert.Equal(t, map[string]int{
			gate.OUTCOME_INVALID_CODE:     1,
			gate.OUTCOME_VERIFIED:         1,
			gate.OUTCOME_ALREADY_VERIFIED: 1,
			gate.OUTCOME_NOT_FOUND:        1,
		}, observer.attempts)
	})
}

// reissuingStore issues a new secret right before an attempt is counted.
type reissuingStore struct {
	*followupcases.InMemoryStore
	newSecret string
	now       time.Time
}

func (s *reissuingStore) IncrementAttempts(ctx context.Context, caseID string, secret string, limit int) (int, bool, error) {
	if _, err := s.ResetVerification(ctx, caseID, s.newSecret, s.now.Add(time.Hour), s.now); err != nil {
		return 0, false, err
	}
	return s.InMemoryStore.IncrementAttempts(ctx, caseID, secret, limit)
}

func TestVerifyDuringReissue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &reissuingStore{InMemoryStore: followupcases.NewInMemoryStore(), newSecret: "999999", now: now}
	observer := &countingObserver{}
	g := gate.New(store, gate.Config{}, gate.WithClock(func() time.Time { return now }), gate.WithObserver(observer))

	c, challenge := openCase(t, g)
	assert.ErrorIs(t, g.Verify(ctx, c.ID, challenge.Secret), gate.ErrInvalidCode)
	assert.Equal(t, 1, observer.attempts[gate.OUTCOME_INVALID_CODE])
	assert.Zero(t, observer.attempts[gate.OUTCOME_ATTEMPTS_EXCEEDED])

	stored, err := store.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "999999", stored.Secret)
	assert.Equal(t, 0, stored.Attempts)
	assert.False(t, stored.Verified)
}

func TestIsUnlocked(t *testing.T) {
	g, _, _ := setup(t)
	ctx := context.Background()

	_, err := g.IsUnlocked(ctx, "missing")
	assert.ErrorIs(t, err, gate.ErrNotFound)

	c, challenge := openCase(t, g)
	unlocked, err := g.IsUnlocked(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, unlocked)

	require.NoError(t, g.Verify(ctx, c.ID, challenge.Secret))
	unlocked, err = g.IsUnlocked(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, unlocked)
}

func TestRecordConsent(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown case", func(t *testing.T) {
		g, _, _ := setup(t)
		_, err := g.RecordConsent(ctx, "missing", hospitalAnswers, true)
		assert.ErrorIs(t, err, gate.ErrNotFound)
	})

	t.Run("not verified", func(t *testing.T) {
		g, store, _ := setup(t)
		c, _ := openCase(t, g)
		_, err := g.RecordConsent(ctx, c.ID, hospitalAnswers, true)
		assert.ErrorIs(t, err, gate.ErrUnauthorized)

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.False(t, stored.Consent)
		assert.Nil(t, stored.Answers)
		assert.Equal(t, types.CASE_STATUS_INITIATED, stored.Status)
	})

	t.Run("consent flag must be boolean true", func(t *testing.T) {
		g, store, _ := setup(t)
		c := verifiedCase(t, g)

		for _, flag := range []interface{}{"true", false, nil, 1, "yes", map[string]interface{}{}} {
			_, err := g.RecordConsent(ctx, c.ID, hospitalAnswers, flag)
			assert.ErrorIs(t, err, gate.ErrConsentRequired, "flag %#v", flag)
		}

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.False(t, stored.Consent)
	})

	t.Run("unauthorized is checked before consent", func(t *testing.T) {
		g, _, _ := setup(t)
		c, _ := openCase(t, g)
		_, err := g.RecordConsent(ctx, c.ID, hospitalAnswers, "true")
		assert.ErrorIs(t, err, gate.ErrUnauthorized)
	})

	t.Run("invalid answers", func(t *testing.T) {
		g, store, _ := setup(t)
		c := verifiedCase(t, g)
		_, err := g.RecordConsent(ctx, c.ID, types.AnswerSet{Outcome: "fine"}, true)
		assert.ErrorIs(t, err, gate.ErrInvalidAnswers)

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.False(t, stored.Consent)
	})

	t.Run("successful submission", func(t *testing.T) {
		summarizer := &stubSummarizer{summary: "Patient hospitalised, improving."}
		observer := &countingObserver{}
		g, store, clock := setup(t, gate.WithSummarizer(summarizer), gate.WithObserver(observer))
		c := verifiedCase(t, g)

		sub, err := g.RecordConsent(ctx, c.ID, hospitalAnswers, true)
		require.NoError(t, err)
		assert.Equal(t, assessment.Assess(hospitalAnswers), sub.Verdict)
		assert.False(t, sub.SummaryPending)
		assert.Equal(t, 1, summarizer.calls)
		assert.Equal(t, 1, observer.consents)

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, stored.Consent)
		require.NotNil(t, stored.ConsentedAt)
		assert.Equal(t, clock.Now(), *stored.ConsentedAt)
		assert.Equal(t, types.CASE_STATUS_SUBMITTED, stored.Status)
		assert.Equal(t, "Patient hospitalised, improving.", stored.Summary)
		require.NotNil(t, stored.Answers)
		assert.Equal(t, hospitalAnswers, *stored.Answers)
	})

	t.Run("known answers are merged", func(t *testing.T) {
		g, _, _ := setup(t)
		c, challenge, err := g.Open(ctx, types.FollowupCase{
			OwnerID:      ownerID,
			KnownAnswers: types.AnswerSet{Seriousness: types.SERIOUSNESS_SERIOUS, Symptoms: []string{"rash"}},
		})
		require.NoError(t, err)
		require.NoError(t, g.Verify(ctx, c.ID, challenge.Secret))

		sub, err := g.RecordConsent(ctx, c.ID, types.AnswerSet{Outcome: "resolved"}, true)
		require.NoError(t, err)
		assert.Equal(t, types.SERIOUSNESS_SERIOUS, sub.Answers.Seriousness)
		assert.Equal(t, []string{"rash"}, sub.Answers.Symptoms)
		assert.Equal(t, "resolved", sub.Answers.Outcome)
	})

	t.Run("answers are immutable after consent", func(t *testing.T) {
		g, store, _ := setup(t)
		c := verifiedCase(t, g)
		_, err := g.RecordConsent(ctx, c.ID, hospitalAnswers, true)
		require.NoError(t, err)

		_, err = g.RecordConsent(ctx, c.ID, types.AnswerSet{Outcome: "resolved"}, true)
		assert.ErrorIs(t, err, gate.ErrAlreadySubmitted)

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, "improved", stored.Answers.Outcome)
	})

	t.Run("summary failure keeps the consent", func(t *testing.T) {
		summarizer := &stubSummarizer{err: errors.New("generation service unavailable")}
		observer := &countingObserver{}
		g, store, _ := setup(t, gate.WithSummarizer(summarizer), gate.WithObserver(observer))
		c := verifiedCase(t, g)

		sub, err := g.RecordConsent(ctx, c.ID, hospitalAnswers, true)
		require.NoError(t, err)
		assert.True(t, sub.SummaryPending)
		assert.Equal(t, 1, observer.summaryFailures)

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, stored.Consent)
		assert.NotNil(t, stored.Answers)
		assert.Equal(t, "generation service unavailable", stored.SummaryError)
	})

	t.Run("resubmission after a new verification cycle", func(t *testing.T) {
		g, store, _ := setup(t)
		c := verifiedCase(t, g)
		_, err := g.RecordConsent(ctx, c.ID, hospitalAnswers, true)
		require.NoError(t, err)

		challenge, err := g.Initiate(ctx, c.ID)
		require.NoError(t, err)
		_, err = g.RecordConsent(ctx, c.ID, types.AnswerSet{Outcome: "resolved"}, true)
		assert.ErrorIs(t, err, gate.ErrUnauthorized)

		require.NoError(t, g.Verify(ctx, c.ID, challenge.Secret))
		_, err = g.RecordConsent(ctx, c.ID, types.AnswerSet{Outcome: "resolved"}, true)
		require.NoError(t, err)

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, types.AnswerSet{Outcome: "resolved"}, *stored.Answers)
	})
}

func TestRecordRawConsent(t *testing.T) {
	ctx := context.Background()
	malformed := json.RawMessage(`{"symptoms":"rash"}`)

	t.Run("unlock is checked before the answer shape", func(t *testing.T) {
		g, _, _ := setup(t)
		c, _ := openCase(t, g)
		_, err := g.RecordRawConsent(ctx, c.ID, malformed, true)
		assert.ErrorIs(t, err, gate.ErrUnauthorized)
	})

	t.Run("consent is checked before the answer shape", func(t *testing.T) {
		g, _, _ := setup(t)
		c := verifiedCase(t, g)
		_, err := g.RecordRawConsent(ctx, c.ID, malformed, "true")
		assert.ErrorIs(t, err, gate.ErrConsentRequired)
	})

	t.Run("wrong shape is invalid", func(t *testing.T) {
		g, store, _ := setup(t)
		c := verifiedCase(t, g)
		_, err := g.RecordRawConsent(ctx, c.ID, malformed, true)
		assert.ErrorIs(t, err, gate.ErrInvalidAnswers)

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.False(t, stored.Consent)
	})

	t.Run("valid payload is stored", func(t *testing.T) {
		g, store, _ := setup(t)
		c := verifiedCase(t, g)
		sub, err := g.RecordRawConsent(ctx, c.ID, json.RawMessage(`{"medicalAttention":"hospital","symptoms":["breathing"]}`), true)
		require.NoError(t, err)
		assert.Equal(t, types.SERIOUSNESS_SERIOUS, sub.Verdict.Seriousness)

		stored, err := store.GetCase(ctx, c.ID)
		require.NoError(t, err)
		assert.True(t, stored.Consent)
		require.NotNil(t, stored.Answers)
		assert.Equal(t, []string{"breathing"}, stored.Answers.Symptoms)
	})
}

func TestDisclosure(t *testing.T) {
	ctx := context.Background()
	g, _, _ := setup(t)

	_, err := g.IsDisclosable(ctx, "missing", ownerID)
	assert.ErrorIs(t, err, gate.ErrNotFound)

	c := verifiedCase(t, g)

	_, err = g.IsDisclosable(ctx, c.ID, ownerID)
	assert.ErrorIs(t, err, gate.ErrPendingConsent)

	_, err = g.IsDisclosable(ctx, c.ID, "doctor-2")
	assert.ErrorIs(t, err, gate.ErrForbidden)

	_, err = g.IsDisclosable(ctx, c.ID, "")
	assert.ErrorIs(t, err, gate.ErrForbidden)

	_, err = g.RecordConsent(ctx, c.ID, hospitalAnswers, true)
	require.NoError(t, err)

	ok, err := g.IsDisclosable(ctx, c.ID, ownerID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = g.IsDisclosable(ctx, c.ID, "doctor-2")
	assert.ErrorIs(t, err, gate.ErrForbidden)

	disclosure, err := g.Disclose(ctx, c.ID, ownerID)
	require.NoError(t, err)
	assert.Equal(t, hospitalAnswers, disclosure.Answers)
	assert.Equal(t, types.SERIOUSNESS_SERIOUS, disclosure.Verdict.Seriousness)
	assert.True(t, disclosure.Verdict.RequiresEscalation)
	assert.Equal(t, []string{types.FIELD_SEVERITY, types.FIELD_SERIOUSNESS}, disclosure.MissingFields)
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	g, store, _ := setup(t)

	c := verifiedCase(t, g)
	assert.ErrorIs(t, g.Close(ctx, c.ID, ownerID), gate.ErrInvalidTransition, "not submitted yet")

	_, err := g.RecordConsent(ctx, c.ID, hospitalAnswers, true)
	require.NoError(t, err)

	assert.ErrorIs(t, g.Close(ctx, c.ID, "doctor-2"), gate.ErrForbidden)
	require.NoError(t, g.Close(ctx, c.ID, ownerID))
	assert.ErrorIs(t, g.Close(ctx, c.ID, ownerID), gate.ErrInvalidTransition, "already closed")

	stored, err := store.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, types.CASE_STATUS_CLOSED, stored.Status)
	assert.NotNil(t, stored.ClosedAt)

	ok, err := g.IsDisclosable(ctx, c.ID, ownerID)
	require.NoError(t, err)
	assert.True(t, ok, "closed cases stay readable by the owner")

	assert.ErrorIs(t, g.Close(ctx, "missing", ownerID), gate.ErrNotFound)
}

func TestConsentImpliesVerification(t *testing.T) {
	ctx := context.Background()
	g, store, _ := setup(t)
	c, challenge := openCase(t, g)

	// every attempt to skip the verification step fails
	for _, flag := range []interface{}{true, "true"} {
		_, err := g.RecordConsent(ctx, c.ID, hospitalAnswers, flag)
		assert.Error(t, err)
	}
	stored, err := store.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, stored.Consent)

	require.NoError(t, g.Verify(ctx, c.ID, challenge.Secret))
	_, err = g.RecordConsent(ctx, c.ID, hospitalAnswers, true)
	require.NoError(t, err)

	stored, err = store.GetCase(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, stored.Consent)
	assert.True(t, stored.Verified)
	require.NotNil(t, stored.VerifiedAt)
	require.NotNil(t, stored.ConsentedAt)
	assert.False(t, stored.ConsentedAt.Before(*stored.VerifiedAt))
}
