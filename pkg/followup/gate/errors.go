package gate

import (
	"errors"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/types"
)

var (
	ErrNotFound          = errors.New("case not found")
	ErrCaseExists        = errors.New("case already exists")
	ErrExpired           = errors.New("verification code expired")
	ErrAttemptsExceeded  = errors.New("too many verification attempts")
	ErrInvalidCode       = errors.New("invalid verification code")
	ErrUnauthorized      = errors.New("case not verified")
	ErrConsentRequired   = errors.New("explicit consent required")
	ErrInvalidAnswers    = types.ErrInvalidAnswers
	ErrAlreadySubmitted  = errors.New("answers already submitted")
	ErrPendingConsent    = errors.New("consent pending")
	ErrForbidden         = errors.New("requester is not the case owner")
	ErrInvalidTransition = errors.New("invalid case status transition")
	ErrResendCooldown    = errors.New("new code requested too early")
)
