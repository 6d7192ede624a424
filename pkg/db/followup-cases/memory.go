package followupcases

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/db"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/gate"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/types"
)

var _ gate.RecordStore = (*InMemoryStore)(nil)

// InMemoryStore keeps cases in process memory. It applies the same conditions as the
// MongoDB implementation and is meant for local runs without a database.
type InMemoryStore struct {
	mu    sync.Mutex
	cases map[string]types.FollowupCase
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		cases: map[string]types.FollowupCase{},
	}
}

// Ping always succeeds, the store lives in process memory.
func (s *InMemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *InMemoryStore) GetCase(ctx context.Context, caseID string) (*types.FollowupCase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[caseID]
	if !ok {
		return nil, nil
	}
	c = copyCase(c)
	return &c, nil
}

func (s *InMemoryStore) CreateCase(ctx context.Context, c types.FollowupCase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cases[c.ID]; ok {
		return gate.ErrCaseExists
	}
	s.cases[c.ID] = copyCase(c)
	return nil
}

func (s *InMemoryStore) ResetVerification(ctx context.Context, caseID string, secret string, expiresAt time.Time, now time.Time) (bool, error) {
	return s.update(caseID, func(c *types.FollowupCase) bool {
		c.Secret = secret
		c.SecretExpiresAt = expiresAt
		c.Verified = false
		c.VerifiedAt = nil
		c.Attempts = 0
		c.Consent = false
		c.ConsentedAt = nil
		c.ClosedAt = nil
		c.Status = types.CASE_STATUS_INITIATED
		c.UpdatedAt = now
		return true
	})
}

func (s *InMemoryStore) IncrementAttempts(ctx context.Context, caseID string, secret string, limit int) (int, bool, error) {
	attempts := 0
	ok, err := s.update(caseID, func(c *types.FollowupCase) bool {
		if c.Secret != secret || c.Attempts >= limit {
			return false
		}
		c.Attempts++
		attempts = c.Attempts
		return true
	})
	return attempts, ok, err
}

func (s *InMemoryStore) MarkVerified(ctx context.Context, caseID string, secret string, at time.Time) (bool, error) {
	return s.update(caseID, func(c *types.FollowupCase) bool {
		if c.Secret != secret {
			return false
		}
		c.Verified = true
		c.VerifiedAt = &at
		c.Status = types.CASE_STATUS_VERIFIED
		c.UpdatedAt = at
		return true
	})
}

func (s *InMemoryStore) SaveSubmission(ctx context.Context, caseID string, answers types.AnswerSet, at time.Time) (bool, error) {
	return s.update(caseID, func(c *types.FollowupCase) bool {
		if !c.Verified || c.Consent {
			return false
		}
		stored := copyAnswers(answers)
		c.Answers = &stored
		c.Consent = true
		c.ConsentedAt = &at
		c.Status = types.CASE_STATUS_SUBMITTED
		c.Summary = ""
		c.SummaryError = ""
		c.UpdatedAt = at
		return true
	})
}

func (s *InMemoryStore) SaveSummary(ctx context.Context, caseID string, summary string, summaryErr string, at time.Time) error {
	_, err := s.update(caseID, func(c *types.FollowupCase) bool {
		c.Summary = summary
		c.SummaryError = summaryErr
		c.UpdatedAt = at
		return true
	})
	return err
}

func (s *InMemoryStore) CloseCase(ctx context.Context, caseID string, at time.Time) (bool, error) {
	return s.update(caseID, func(c *types.FollowupCase) bool {
		if c.Status != types.CASE_STATUS_SUBMITTED {
			return false
		}
		c.Status = types.CASE_STATUS_CLOSED
		c.ClosedAt = &at
		c.UpdatedAt = at
		return true
	})
}

func (s *InMemoryStore) FindCasesByOwner(ctx context.Context, ownerID string, page int64, limit int64) ([]types.CaseOverview, *db.PaginationInfos, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	owned := []types.FollowupCase{}
	for _, c := range s.cases {
		if c.OwnerID == ownerID {
			owned = append(owned, c)
		}
	}
	sort.Slice(owned, func(i, j int) bool {
		return owned[i].CreatedAt.After(owned[j].CreatedAt)
	})

	paginationInfo := db.PrepPaginationInfos(int64(len(owned)), page, limit)
	start := (paginationInfo.CurrentPage - 1) * paginationInfo.PageSize
	end := start + paginationInfo.PageSize
	if end > int64(len(owned)) {
		end = int64(len(owned))
	}

	cases := []types.CaseOverview{}
	for _, c := range owned[start:end] {
		cases = append(cases, types.CaseOverview{
			ID:        c.ID,
			Kind:      c.Kind,
			Reference: c.Reference,
			Status:    c.Status,
			Consent:   c.Consent,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	return cases, paginationInfo, nil
}

func (s *InMemoryStore) update(caseID string, apply func(c *types.FollowupCase) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[caseID]
	if !ok {
		return false, nil
	}
	if !apply(&c) {
		return false, nil
	}
	s.cases[caseID] = c
	return true, nil
}

func copyCase(c types.FollowupCase) types.FollowupCase {
	c.KnownAnswers = copyAnswers(c.KnownAnswers)
	if c.Answers != nil {
		a := copyAnswers(*c.Answers)
		c.Answers = &a
	}
	return c
}

func copyAnswers(a types.AnswerSet) types.AnswerSet {
	if a.Symptoms != nil {
		a.Symptoms = append([]string{}, a.Symptoms...)
	}
	return a
}
