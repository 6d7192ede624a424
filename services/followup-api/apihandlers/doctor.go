package apihandlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/apihelpers"
	mw "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/apihelpers/middlewares"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/types"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
)

func (h *HttpEndpoints) AddDoctorAPI(rg *gin.RouterGroup) {
	casesGroup := rg.Group("/cases")
	casesGroup.Use(mw.GetAndValidateStaffUserJWT(h.tokenSignKey))
	{
		casesGroup.POST("", mw.RequireJSONPayload(), h.createCase)
		casesGroup.GET("", h.listCases)
	}

	caseGroup := casesGroup.Group("/:caseID")
	caseGroup.Use(validateCaseIDParam)
	{
		caseGroup.POST("/resend", h.resendCodeForDoctor)
		caseGroup.GET("/summary", h.getCaseSummary)
		caseGroup.POST("/close", h.closeCase)
	}
}

type CreateCaseReq struct {
	ID           string             `json:"id"`
	Kind         string             `json:"kind"`
	Reference    string             `json:"reference"`
	Contact      types.Contact      `json:"contact"`
	Prescription types.Prescription `json:"prescription"`
	KnownAnswers types.AnswerSet    `json:"knownAnswers"`
}

func (req CreateCaseReq) validate() string {
	if !types.IsValidCaseKind(req.Kind) {
		return "invalid case kind"
	}
	if req.ID != "" && !utils.IsURLSafe(req.ID) {
		return "invalid case id"
	}
	if req.Contact.Phone == "" && req.Contact.Email == "" {
		return "phone or email required"
	}
	if req.Prescription.Drug == "" {
		return "drug required"
	}
	if err := req.KnownAnswers.Validate(); err != nil {
		return err.Error()
	}
	return ""
}

func (h *HttpEndpoints) createCase(c *gin.Context) {
	staffUserID := getStaffUserID(c)

	var req CreateCaseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("failed to bind request", slog.String("staffUserID", staffUserID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": ERROR_CODE_INVALID_REQUEST})
		return
	}
	if msg := req.validate(); msg != "" {
		slog.Warn("invalid case request", slog.String("staffUserID", staffUserID), slog.String("error", msg))
		c.JSON(http.StatusBadRequest, gin.H{"error": ERROR_CODE_INVALID_REQUEST, "details": msg})
		return
	}

	fc, challenge, err := h.gate.Open(c.Request.Context(), types.FollowupCase{
		ID:           req.ID,
		Kind:         req.Kind,
		OwnerID:      staffUserID,
		Reference:    req.Reference,
		Contact:      req.Contact,
		Prescription: req.Prescription,
		KnownAnswers: req.KnownAnswers,
	})
	if err != nil {
		respondWithGateError(c, err)
		return
	}

	slog.Info("case created", slog.String("caseID", fc.ID), slog.String("staffUserID", staffUserID))
	report := h.deliverCode(c.Request.Context(), fc, challenge)
	c.JSON(http.StatusCreated, h.staffDeliveryResponse(fc, challenge, report))
}

func (h *HttpEndpoints) listCases(c *gin.Context) {
	staffUserID := getStaffUserID(c)

	query, err := apihelpers.ParsePaginatedQueryFromCtx(c)
	if err != nil {
		slog.Warn("invalid pagination query", slog.String("staffUserID", staffUserID), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": ERROR_CODE_INVALID_REQUEST})
		return
	}

	cases, paginationInfo, err := h.caseLister.FindCasesByOwner(c.Request.Context(), staffUserID, query.Page, query.Limit)
	if err != nil {
		slog.Error("failed to list cases", slog.String("staffUserID", staffUserID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cases":      cases,
		"pagination": paginationInfo,
	})
}

func (h *HttpEndpoints) resendCodeForDoctor(c *gin.Context) {
	staffUserID := getStaffUserID(c)
	caseID := c.Param("caseID")

	fc, challenge, err := h.gate.Reinitiate(c.Request.Context(), caseID, staffUserID)
	if err != nil {
		slog.Warn("code resend refused", slog.String("caseID", caseID), slog.String("staffUserID", staffUserID), slog.String("error", err.Error()))
		respondWithGateError(c, err)
		return
	}

	report := h.deliverCode(c.Request.Context(), fc, challenge)
	c.JSON(http.StatusOK, h.staffDeliveryResponse(fc, challenge, report))
}

type CaseSummaryResponse struct {
	CaseID         string          `json:"caseId"`
	Reference      string          `json:"reference,omitempty"`
	Kind           string          `json:"kind"`
	Status         string          `json:"status"`
	ConsentedAt    *time.Time      `json:"consentedAt,omitempty"`
	Answers        types.AnswerSet `json:"answers"`
	Verdict        types.Verdict   `json:"verdict"`
	MissingFields  []string        `json:"missingFields"`
	Summary        string          `json:"summary,omitempty"`
	SummaryPending bool            `json:"summaryPending"`
}

func (h *HttpEndpoints) getCaseSummary(c *gin.Context) {
	staffUserID := getStaffUserID(c)
	caseID := c.Param("caseID")

	disclosure, err := h.gate.Disclose(c.Request.Context(), caseID, staffUserID)
	if err != nil {
		slog.Warn("summary access refused", slog.String("caseID", caseID), slog.String("staffUserID", staffUserID), slog.String("error", err.Error()))
		respondWithGateError(c, err)
		return
	}

	fc := disclosure.Case
	c.JSON(http.StatusOK, CaseSummaryResponse{
		CaseID:         fc.ID,
		Reference:      fc.Reference,
		Kind:           fc.Kind,
		Status:         fc.Status,
		ConsentedAt:    fc.ConsentedAt,
		Answers:        disclosure.Answers,
		Verdict:        disclosure.Verdict,
		MissingFields:  disclosure.MissingFields,
		Summary:        fc.Summary,
		SummaryPending: fc.Summary == "" || fc.SummaryError != "",
	})
}

func (h *HttpEndpoints) closeCase(c *gin.Context) {
	staffUserID := getStaffUserID(c)
	caseID := c.Param("caseID")

	if err := h.gate.Close(c.Request.Context(), caseID, staffUserID); err != nil {
		slog.Warn("case close refused", slog.String("caseID", caseID), slog.String("staffUserID", staffUserID), slog.String("error", err.Error()))
		respondWithGateError(c, err)
		return
	}

	slog.Info("case closed", slog.String("caseID", caseID), slog.String("staffUserID", staffUserID))
	c.JSON(http.StatusOK, gin.H{"message": "case closed"})
}
