package apihandlers

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/gate"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/types"
	jwthandling "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/jwt-handling"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/notifier"
	messagingTypes "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/types"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
)

// ERROR_CODE_INVALID_REQUEST answers bodies and queries that cannot be parsed.
const ERROR_CODE_INVALID_REQUEST = "invalid_request"

var errorCodes = []struct {
	err    error
	status int
	code   string
}{
	{gate.ErrNotFound, http.StatusNotFound, "not_found"},
	{gate.ErrCaseExists, http.StatusConflict, "case_exists"},
	{gate.ErrExpired, http.StatusGone, "expired"},
	{gate.ErrAttemptsExceeded, http.StatusTooManyRequests, "attempts_exceeded"},
	{gate.ErrInvalidCode, http.StatusUnauthorized, "invalid_code"},
	{gate.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{gate.ErrConsentRequired, http.StatusBadRequest, "consent_required"},
	{gate.ErrInvalidAnswers, http.StatusBadRequest, "invalid_answers"},
	{gate.ErrAlreadySubmitted, http.StatusConflict, "already_submitted"},
	{gate.ErrPendingConsent, http.StatusConflict, "pending_consent"},
	{gate.ErrForbidden, http.StatusForbidden, "forbidden"},
	{gate.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{gate.ErrResendCooldown, http.StatusTooManyRequests, "resend_cooldown"},
}

// respondWithGateError answers with the status and stable error code of a gate error.
// Anything else is logged and reported as an internal error.
func respondWithGateError(c *gin.Context, err error) {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			c.JSON(e.status, gin.H{"error": e.code})
			return
		}
	}
	slog.Error("unexpected error", slog.String("path", c.FullPath()), slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
}

func randomWait(minTimeSec int, maxTimeSec int) {
	time.Sleep(time.Duration(rand.Intn(maxTimeSec-minTimeSec)+minTimeSec) * time.Second)
}

// validateCaseIDParam rejects case IDs that cannot be used in a link.
func validateCaseIDParam(c *gin.Context) {
	if !utils.IsURLSafe(c.Param("caseID")) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid_case_id"})
		return
	}
	c.Next()
}

func getStaffUserID(c *gin.Context) string {
	token := c.MustGet("validatedToken").(*jwthandling.StaffUserClaims)
	return token.Subject
}

func (h *HttpEndpoints) caseLink(caseID string) string {
	return strings.TrimSuffix(h.linkBaseURL, "/") + "/" + url.PathEscape(caseID)
}

type DeliveryResponse struct {
	CaseID    string          `json:"caseId"`
	Reference string          `json:"reference,omitempty"`
	Status    string          `json:"status"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Delivery  notifier.Report `json:"delivery"`
	ShareLink string          `json:"shareLink"`
	// Code is only returned to staff if no channel delivered it, for manual sharing.
	Code string `json:"code,omitempty"`
}

// deliverCode sends the fresh code to the subject. A failed delivery leaves the code valid.
func (h *HttpEndpoints) deliverCode(ctx context.Context, fc types.FollowupCase, challenge gate.Challenge) notifier.Report {
	if h.dispatcher == nil {
		return notifier.Report{}
	}
	return h.dispatcher.Deliver(ctx, messagingTypes.CodeMessage{
		CaseID:           fc.ID,
		CaseReference:    fc.Reference,
		Phone:            fc.Contact.Phone,
		Email:            fc.Contact.Email,
		Language:         fc.Contact.Language,
		Code:             challenge.Secret,
		Link:             h.caseLink(fc.ID),
		ExpiresAt:        challenge.ExpiresAt,
		PreferredChannel: fc.Contact.PreferredChannel,
	})
}

func (h *HttpEndpoints) staffDeliveryResponse(fc types.FollowupCase, challenge gate.Challenge, report notifier.Report) DeliveryResponse {
	resp := DeliveryResponse{
		CaseID:    fc.ID,
		Reference: fc.Reference,
		Status:    types.CASE_STATUS_INITIATED,
		ExpiresAt: challenge.ExpiresAt,
		Delivery:  report,
		ShareLink: h.caseLink(fc.ID),
	}
	if !report.Delivered {
		resp.Code = challenge.Secret
	}
	return resp
}
