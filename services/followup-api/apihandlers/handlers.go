package apihandlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/db"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/gate"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/types"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/notifier"
	messagingTypes "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/messaging/types"
	"github.com/gin-gonic/gin"
)

// Pinger checks that a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheckHandle answers 503 while the case store cannot be reached.
func HealthCheckHandle(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store != nil {
			if err := store.Ping(c.Request.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

type CaseLister interface {
	FindCasesByOwner(ctx context.Context, ownerID string, page int64, limit int64) ([]types.CaseOverview, *db.PaginationInfos, error)
}

type Deliverer interface {
	Deliver(ctx context.Context, msg messagingTypes.CodeMessage) notifier.Report
}

type IntroGenerator interface {
	PatientIntro(ctx context.Context, caseKind string, drug string, language string, questionCount int) (string, error)
}

type HttpEndpoints struct {
	gate           *gate.Gate
	caseLister     CaseLister
	dispatcher     Deliverer
	introGenerator IntroGenerator
	tokenSignKey   string
	linkBaseURL    string

	failedAttemptDelay func()
}

func NewHTTPHandler(
	tokenSignKey string,
	linkBaseURL string,
	followupGate *gate.Gate,
	caseLister CaseLister,
	dispatcher Deliverer,
	introGenerator IntroGenerator,
) *HttpEndpoints {
	return &HttpEndpoints{
		gate:           followupGate,
		caseLister:     caseLister,
		dispatcher:     dispatcher,
		introGenerator: introGenerator,
		tokenSignKey:   tokenSignKey,
		linkBaseURL:    linkBaseURL,
		failedAttemptDelay: func() {
			randomWait(1, 3)
		},
	}
}
