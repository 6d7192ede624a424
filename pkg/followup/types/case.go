package types

import "time"

const (
	CASE_KIND_PRESCRIPTION_FOLLOWUP = "prescription_followup"
	CASE_KIND_ADVERSE_EVENT         = "adverse_event"
)

// Case status values. A case moves strictly forward through this list, except that
// re-initiation puts it back to CASE_STATUS_INITIATED.
const (
	CASE_STATUS_INITIATED = "initiated"
	CASE_STATUS_VERIFIED  = "verified"
	CASE_STATUS_SUBMITTED = "submitted"
	CASE_STATUS_CLOSED    = "closed"
)

const (
	CHANNEL_SMS      = "sms"
	CHANNEL_WHATSAPP = "whatsapp"
	CHANNEL_EMAIL    = "email"
)

// FollowupCase is the record a verification cycle operates on, one per prescription follow-up
// or adverse-event report.
type FollowupCase struct {
	ID           string       `bson:"_id" json:"id"`
	Kind         string       `bson:"kind" json:"kind"`
	OwnerID      string       `bson:"ownerID" json:"ownerId"`
	Reference    string       `bson:"reference" json:"reference"`
	Contact      Contact      `bson:"contact" json:"contact"`
	Prescription Prescription `bson:"prescription" json:"prescription"`
	Status       string       `bson:"status" json:"status"`

	Secret          string     `bson:"secret" json:"-"`
	SecretExpiresAt time.Time  `bson:"secretExpiresAt" json:"secretExpiresAt"`
	Verified        bool       `bson:"verified" json:"verified"`
	VerifiedAt      *time.Time `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	Attempts        int        `bson:"attempts" json:"attempts"`
	Consent         bool       `bson:"consent" json:"consent"`
	ConsentedAt     *time.Time `bson:"consentedAt,omitempty" json:"consentedAt,omitempty"`

	// KnownAnswers are filled in by the doctor when the case is created, e.g. from a report form.
	KnownAnswers AnswerSet  `bson:"knownAnswers" json:"knownAnswers"`
	Answers      *AnswerSet `bson:"answers,omitempty" json:"answers,omitempty"`
	Summary      string     `bson:"summary,omitempty" json:"summary,omitempty"`
	SummaryError string     `bson:"summaryError,omitempty" json:"summaryError,omitempty"`

	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
	ClosedAt  *time.Time `bson:"closedAt,omitempty" json:"closedAt,omitempty"`
}

type Contact struct {
	Phone            string `bson:"phone,omitempty" json:"phone,omitempty"`
	Email            string `bson:"email,omitempty" json:"email,omitempty"`
	PreferredChannel string `bson:"preferredChannel,omitempty" json:"preferredChannel,omitempty"`
	Language         string `bson:"language,omitempty" json:"language,omitempty"`
}

type Prescription struct {
	Drug      string `bson:"drug" json:"drug"`
	Dosage    string `bson:"dosage,omitempty" json:"dosage,omitempty"`
	StartedAt string `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	Notes     string `bson:"notes,omitempty" json:"notes,omitempty"`
}

func IsValidCaseKind(kind string) bool {
	return kind == CASE_KIND_PRESCRIPTION_FOLLOWUP || kind == CASE_KIND_ADVERSE_EVENT
}

// CaseOverview is the part of a case that may be listed without consent.
type CaseOverview struct {
	ID        string    `bson:"_id" json:"id"`
	Kind      string    `bson:"kind" json:"kind"`
	Reference string    `bson:"reference" json:"reference"`
	Status    string    `bson:"status" json:"status"`
	Consent   bool      `bson:"consent" json:"consent"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
