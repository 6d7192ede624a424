package followupcases

import (
	"time"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/types"
	"go.mongodb.org/mongo-driver/bson"
)

// Filter and update documents for the conditional case writes. The conditions here are what
// makes the verification cycle safe under concurrent requests.

func caseByIDFilter(caseID string) bson.M {
	return bson.M{"_id": caseID}
}

func resetVerificationUpdate(secret string, expiresAt time.Time, now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"secret":          secret,
			"secretExpiresAt": expiresAt,
			"verified":        false,
			"attempts":        0,
			"consent":         false,
			"status":          types.CASE_STATUS_INITIATED,
			"updatedAt":       now,
		},
		"$unset": bson.M{
			"verifiedAt":  "",
			"consentedAt": "",
			"closedAt":    "",
		},
	}
}

// incrementAttemptsFilter only matches while the secret is current and attempts are left.
func incrementAttemptsFilter(caseID string, secret string, limit int) bson.M {
	return bson.M{
		"_id":      caseID,
		"secret":   secret,
		"attempts": bson.M{"$lt": limit},
	}
}

func incrementAttemptsUpdate() bson.M {
	return bson.M{"$inc": bson.M{"attempts": 1}}
}

func markVerifiedFilter(caseID string, secret string) bson.M {
	return bson.M{"_id": caseID, "secret": secret}
}

func markVerifiedUpdate(at time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"verified":   true,
		"verifiedAt": at,
		"status":     types.CASE_STATUS_VERIFIED,
		"updatedAt":  at,
	}}
}

// submissionFilter matches verified cases without consent in the current cycle.
func submissionFilter(caseID string) bson.M {
	return bson.M{"_id": caseID, "verified": true, "consent": false}
}

func submissionUpdate(answers types.AnswerSet, at time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"answers":     answers,
			"consent":     true,
			"consentedAt": at,
			"status":      types.CASE_STATUS_SUBMITTED,
			"updatedAt":   at,
		},
		"$unset": bson.M{
			"summary":      "",
			"summaryError": "",
		},
	}
}

func summaryUpdate(summary string, summaryErr string, at time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"summary":      summary,
		"summaryError": summaryErr,
		"updatedAt":    at,
	}}
}

func closeCaseFilter(caseID string) bson.M {
	return bson.M{"_id": caseID, "status": types.CASE_STATUS_SUBMITTED}
}

func closeCaseUpdate(at time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"status":    types.CASE_STATUS_CLOSED,
		"closedAt":  at,
		"updatedAt": at,
	}}
}
