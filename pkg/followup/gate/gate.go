package gate

import (
	"context"
	"time"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/types"
)

const (
	DEFAULT_CODE_LENGTH  = 6
	DEFAULT_CODE_TTL     = 10 * time.Minute
	DEFAULT_MAX_ATTEMPTS = 5

	DEFAULT_RESEND_COOLDOWN = time.Minute
)

// RecordStore persists follow-up cases. Every conditional method reports whether a record
// matched its condition; an unmatched condition is not an error.
type RecordStore interface {
	// GetCase returns nil and no error if the case does not exist.
	GetCase(ctx context.Context, caseID string) (*types.FollowupCase, error)
	// CreateCase returns ErrCaseExists if the ID is taken.
	CreateCase(ctx context.Context, c types.FollowupCase) error
	ResetVerification(ctx context.Context, caseID string, secret string, expiresAt time.Time, now time.Time) (bool, error)
	// IncrementAttempts atomically increments the attempt counter if the stored secret equals
	// secret and fewer than limit attempts were recorded. It returns the new counter value.
	IncrementAttempts(ctx context.Context, caseID string, secret string, limit int) (int, bool, error)
	MarkVerified(ctx context.Context, caseID string, secret string, at time.Time) (bool, error)
	// SaveSubmission stores answers and consent if the case is verified and has no consent yet.
	SaveSubmission(ctx context.Context, caseID string, answers types.AnswerSet, at time.Time) (bool, error)
	SaveSummary(ctx context.Context, caseID string, summary string, summaryErr string, at time.Time) error
	CloseCase(ctx context.Context, caseID string, at time.Time) (bool, error)
}

// Summarizer turns a submitted case into doctor-facing text.
type Summarizer interface {
	Summarize(ctx context.Context, c types.FollowupCase, verdict types.Verdict) (string, error)
}

// Observer is notified about gate outcomes, e.g. to count them.
type Observer interface {
	VerificationAttempt(outcome string)
	ConsentCaptured(caseKind string)
	SummaryFailed(caseKind string)
}

type Config struct {
	CodeLength  int           `json:"code_length" yaml:"code_length"`
	CodeTTL     time.Duration `json:"code_ttl" yaml:"code_ttl"`
	MaxAttempts int           `json:"max_attempts" yaml:"max_attempts"`
	// ResendCooldown limits how often the subject may request a new code.
	ResendCooldown time.Duration `json:"resend_cooldown" yaml:"resend_cooldown"`
}

type Gate struct {
	store      RecordStore
	conf       Config
	now        func() time.Time
	summarizer Summarizer
	observer   Observer
}

type Option func(g *Gate)

func WithClock(now func() time.Time) Option {
	return func(g *Gate) {
		g.now = now
	}
}

func WithSummarizer(s Summarizer) Option {
	return func(g *Gate) {
		g.summarizer = s
	}
}

func WithObserver(o Observer) Option {
	return func(g *Gate) {
		g.observer = o
	}
}

func New(store RecordStore, conf Config, opts ...Option) *Gate {
	if conf.CodeLength <= 0 {
		conf.CodeLength = DEFAULT_CODE_LENGTH
	}
	if conf.CodeTTL <= 0 {
		conf.CodeTTL = DEFAULT_CODE_TTL
	}
	if conf.MaxAttempts <= 0 {
		conf.MaxAttempts = DEFAULT_MAX_ATTEMPTS
	}
	if conf.ResendCooldown <= 0 {
		conf.ResendCooldown = DEFAULT_RESEND_COOLDOWN
	}

	g := &Gate{
		store: store,
		conf:  conf,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gate) getCase(ctx context.Context, caseID string) (*types.FollowupCase, error) {
	c, err := g.store.GetCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (g *Gate) observeAttempt(outcome string) {
	if g.observer != nil {
		g.observer.VerificationAttempt(outcome)
	}
}
