package types

import "time"

// CodeMessage is the out-of-band delivery of a verification code and the case link.
type CodeMessage struct {
	CaseID           string
	CaseReference    string
	Phone            string
	Email            string
	Language         string
	Code             string
	Link             string
	ExpiresAt        time.Time
	PreferredChannel string // tried first if set
}

// Payload returns the template variables for the message.
func (m CodeMessage) Payload() map[string]string {
	return map[string]string{
		"code":      m.Code,
		"link":      m.Link,
		"reference": m.CaseReference,
		"expiresAt": m.ExpiresAt.UTC().Format("15:04 MST"),
		"language":  m.Language,
	}
}
