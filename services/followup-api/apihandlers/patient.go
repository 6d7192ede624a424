package apihandlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	mw "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/apihelpers/middlewares"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/gate"
	"github.com/gin-gonic/gin"
)

// AddPatientAPI registers the link based routes. Possession of the case link and the code is
// the only credential here.
func (h *HttpEndpoints) AddPatientAPI(rg *gin.RouterGroup) {
	followupGroup := rg.Group("/followups/:caseID")
	followupGroup.Use(validateCaseIDParam)
	{
		followupGroup.GET("", h.getFollowupStatus)
		followupGroup.POST("/verify", mw.RequireJSONPayload(), h.verifyCode)
		followupGroup.POST("/resend", h.resendCodeForPatient)
		followupGroup.GET("/questions", h.getQuestions)
		followupGroup.POST("/submit", mw.RequireJSONPayload(), h.submitAnswers)
	}
}

func (h *HttpEndpoints) getFollowupStatus(c *gin.Context) {
	view, err := h.gate.Status(c.Request.Context(), c.Param("caseID"))
	if err != nil {
		respondWithGateError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

type VerifyCodeReq struct {
	Code string `json:"code"`
}

func (h *HttpEndpoints) verifyCode(c *gin.Context) {
	caseID := c.Param("caseID")

	var req VerifyCodeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("failed to bind request", slog.String("caseID", caseID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": ERROR_CODE_INVALID_REQUEST})
		return
	}

	if err := h.gate.Verify(c.Request.Context(), caseID, req.Code); err != nil {
		slog.Warn("verification failed", slog.String("caseID", caseID), slog.String("error", err.Error()))
		if isFailedAttempt(err) {
			h.failedAttemptDelay()
		}
		respondWithGateError(c, err)
		return
	}

	slog.Info("case verified", slog.String("caseID", caseID))
	c.JSON(http.StatusOK, gin.H{"verified": true})
}

func isFailedAttempt(err error) bool {
	return errors.Is(err, gate.ErrInvalidCode) ||
		errors.Is(err, gate.ErrNotFound) ||
		errors.Is(err, gate.ErrExpired) ||
		errors.Is(err, gate.ErrAttemptsExceeded)
}

func (h *HttpEndpoints) resendCodeForPatient(c *gin.Context) {
	caseID := c.Param("caseID")

	fc, challenge, err := h.gate.Reissue(c.Request.Context(), caseID)
	if err != nil {
		slog.Warn("code reissue refused", slog.String("caseID", caseID), slog.String("error", err.Error()))
		respondWithGateError(c, err)
		return
	}

	report := h.deliverCode(c.Request.Context(), fc, challenge)
	// the subject only learns whether a message went out, never the code itself
	c.JSON(http.StatusOK, gin.H{
		"delivered": report.Delivered,
		"channel":   report.Channel,
		"expiresAt": challenge.ExpiresAt,
	})
}

type QuestionsResponse struct {
	gate.Questionnaire
	Intro string `json:"intro,omitempty"`
}

func (h *HttpEndpoints) getQuestions(c *gin.Context) {
	caseID := c.Param("caseID")

	q, err := h.gate.Questionnaire(c.Request.Context(), caseID)
	if err != nil {
		if errors.Is(err, gate.ErrUnauthorized) {
			c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized"})
			return
		}
		respondWithGateError(c, err)
		return
	}

	resp := QuestionsResponse{Questionnaire: q}
	if h.introGenerator != nil && !q.Submitted {
		intro, err := h.introGenerator.PatientIntro(c.Request.Context(), q.CaseKind, q.Drug, q.Language, len(q.Questions))
		if err != nil {
			slog.Warn("failed to generate intro text", slog.String("caseID", caseID), slog.String("error", err.Error()))
		} else {
			resp.Intro = intro
		}
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitAnswersReq keeps consent untyped, so that only a JSON boolean true counts as consent.
// Answers are decoded by the gate once the case is unlocked and consent is given.
type SubmitAnswersReq struct {
	Answers json.RawMessage `json:"answers"`
	Consent interface{}     `json:"consent"`
}

func (h *HttpEndpoints) submitAnswers(c *gin.Context) {
	caseID := c.Param("caseID")

	var req SubmitAnswersReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("failed to bind request", slog.String("caseID", caseID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": ERROR_CODE_INVALID_REQUEST})
		return
	}

	submission, err := h.gate.RecordRawConsent(c.Request.Context(), caseID, req.Answers, req.Consent)
	if err != nil {
		slog.Warn("submission refused", slog.String("caseID", caseID), slog.String("error", err.Error()))
		respondWithGateError(c, err)
		return
	}

	slog.Info("answers submitted", slog.String("caseID", caseID), slog.Bool("summaryPending", submission.SummaryPending))
	c.JSON(http.StatusOK, submission)
}
