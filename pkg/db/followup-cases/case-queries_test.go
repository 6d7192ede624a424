package followupcases

import (
	"testing"
	"time"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// storedCaseFields returns the top level keys of a fully populated case document.
func storedCaseFields(t *testing.T) map[string]bool {
	t.Helper()
	at := testTime
	c := newTestCase("c1", "d1")
	c.VerifiedAt = &at
	c.ConsentedAt = &at
	c.ClosedAt = &at
	c.Answers = &types.AnswerSet{Severity: "mild"}
	c.Summary = "summary"
	c.SummaryError = "error"

	raw, err := bson.Marshal(c)
	require.NoError(t, err)
	doc := bson.M{}
	require.NoError(t, bson.Unmarshal(raw, &doc))

	fields := map[string]bool{}
	for k := range doc {
		fields[k] = true
	}
	return fields
}

func assertKnownFields(t *testing.T, fields map[string]bool, doc bson.M) {
	t.Helper()
	for k := range doc {
		assert.True(t, fields[k], "unknown case field %q", k)
	}
}

func TestCaseQueryFieldNames(t *testing.T) {
	fields := storedCaseFields(t)
	at := testTime
	answers := types.AnswerSet{}

	filters := []bson.M{
		caseByIDFilter("c1"),
		incrementAttemptsFilter("c1", "123456", 5),
		markVerifiedFilter("c1", "123456"),
		submissionFilter("c1"),
		closeCaseFilter("c1"),
	}
	for _, f := range filters {
		assertKnownFields(t, fields, f)
	}

	updates := []bson.M{
		resetVerificationUpdate("123456", at.Add(10*time.Minute), at),
		incrementAttemptsUpdate(),
		markVerifiedUpdate(at),
		submissionUpdate(answers, at),
		summaryUpdate("s", "", at),
		closeCaseUpdate(at),
	}
	for _, u := range updates {
		for op, body := range u {
			assert.Contains(t, []string{"$set", "$unset", "$inc"}, op)
			assertKnownFields(t, fields, body.(bson.M))
		}
	}
}

func TestIncrementAttemptsFilter(t *testing.T) {
	f := incrementAttemptsFilter("c1", "123456", 5)
	assert.Equal(t, "c1", f["_id"])
	assert.Equal(t, "123456", f["secret"])
	assert.Equal(t, bson.M{"$lt": 5}, f["attempts"])

	assert.Equal(t, bson.M{"$inc": bson.M{"attempts": 1}}, incrementAttemptsUpdate())
}

func TestSubmissionQuery(t *testing.T) {
	assert.Equal(t, bson.M{"_id": "c1", "verified": true, "consent": false}, submissionFilter("c1"))

	answers := types.AnswerSet{Severity: "mild"}
	u := submissionUpdate(answers, testTime)
	set := u["$set"].(bson.M)
	assert.Equal(t, answers, set["answers"])
	assert.Equal(t, true, set["consent"])
	assert.Equal(t, testTime, set["consentedAt"])
	assert.Equal(t, types.CASE_STATUS_SUBMITTED, set["status"])
	assert.Contains(t, u["$unset"].(bson.M), "summary")
	assert.Contains(t, u["$unset"].(bson.M), "summaryError")
}

func TestResetVerificationUpdate(t *testing.T) {
	expiresAt := testTime.Add(10 * time.Minute)
	u := resetVerificationUpdate("654321", expiresAt, testTime)
	set := u["$set"].(bson.M)
	assert.Equal(t, "654321", set["secret"])
	assert.Equal(t, expiresAt, set["secretExpiresAt"])
	assert.Equal(t, false, set["verified"])
	assert.Equal(t, 0, set["attempts"])
	assert.Equal(t, false, set["consent"])
	assert.Equal(t, types.CASE_STATUS_INITIATED, set["status"])
	// stored answers stay, only the cycle markers go
	assert.NotContains(t, set, "answers")
	assert.Equal(t, bson.M{"verifiedAt": "", "consentedAt": "", "closedAt": ""}, u["$unset"])
}

func TestVerifiedAndCloseQueries(t *testing.T) {
	assert.Equal(t, bson.M{"_id": "c1", "secret": "123456"}, markVerifiedFilter("c1", "123456"))
	set := markVerifiedUpdate(testTime)["$set"].(bson.M)
	assert.Equal(t, true, set["verified"])
	assert.Equal(t, types.CASE_STATUS_VERIFIED, set["status"])

	assert.Equal(t, bson.M{"_id": "c1", "status": types.CASE_STATUS_SUBMITTED}, closeCaseFilter("c1"))
	set = closeCaseUpdate(testTime)["$set"].(bson.M)
	assert.Equal(t, types.CASE_STATUS_CLOSED, set["status"])
	assert.Equal(t, testTime, set["closedAt"])
}
