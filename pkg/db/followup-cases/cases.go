package followupcases

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/db"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/gate"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/followup/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ gate.RecordStore = (*FollowupDBService)(nil)

var caseSortOnCreatedAt = bson.D{{Key: "createdAt", Value: -1}}

func (dbService *FollowupDBService) CreateIndexForCases() error {
	ctx, cancel := dbService.getContext(context.Background())
	defer cancel()

	_, err := dbService.collectionCases().Indexes().CreateMany(
		ctx, []mongo.IndexModel{
			{
				Keys: bson.D{
					{Key: "ownerID", Value: 1},
					{Key: "createdAt", Value: -1},
				},
			},
			{
				Keys: bson.D{
					{Key: "status", Value: 1},
				},
			},
			{
				Keys: bson.D{
					{Key: "reference", Value: 1},
				},
			},
		},
	)
	return err
}

// default index names as generated by mongo for the keys above
var defaultCaseIndexNames = []string{
	"ownerID_1_createdAt_-1",
	"status_1",
	"reference_1",
}

// DropIndexForCases removes the default indexes, or every index except _id if dropAll is set.
func (dbService *FollowupDBService) DropIndexForCases(dropAll bool) error {
	ctx, cancel := dbService.getContext(context.Background())
	defer cancel()

	if dropAll {
		_, err := dbService.collectionCases().Indexes().DropAll(ctx)
		return err
	}

	existing, err := db.ListCollectionIndexes(ctx, dbService.collectionCases())
	if err != nil {
		return err
	}
	for _, index := range existing {
		name, _ := index["name"].(string)
		if !slices.Contains(defaultCaseIndexNames, name) {
			continue
		}
		if _, err := dbService.collectionCases().Indexes().DropOne(ctx, name); err != nil {
			return fmt.Errorf("drop index %s: %w", name, err)
		}
	}
	return nil
}

func (dbService *FollowupDBService) GetIndexesForCases() ([]bson.M, error) {
	ctx, cancel := dbService.getContext(context.Background())
	defer cancel()
	return db.ListCollectionIndexes(ctx, dbService.collectionCases())
}

func (dbService *FollowupDBService) GetCase(ctx context.Context, caseID string) (*types.FollowupCase, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	var c types.FollowupCase
	err := dbService.collectionCases().FindOne(ctx, caseByIDFilter(caseID)).Decode(&c)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (dbService *FollowupDBService) CreateCase(ctx context.Context, c types.FollowupCase) error {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	_, err := dbService.collectionCases().InsertOne(ctx, c)
	if mongo.IsDuplicateKeyError(err) {
		return gate.ErrCaseExists
	}
	return err
}

func (dbService *FollowupDBService) ResetVerification(ctx context.Context, caseID string, secret string, expiresAt time.Time, now time.Time) (bool, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	res, err := dbService.collectionCases().UpdateOne(ctx, caseByIDFilter(caseID), resetVerificationUpdate(secret, expiresAt, now))
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (dbService *FollowupDBService) IncrementAttempts(ctx context.Context, caseID string, secret string, limit int) (int, bool, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"attempts": 1})

	var res struct {
		Attempts int `bson:"attempts"`
	}
	err := dbService.collectionCases().FindOneAndUpdate(ctx, incrementAttemptsFilter(caseID, secret, limit), incrementAttemptsUpdate(), opts).Decode(&res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return res.Attempts, true, nil
}

func (dbService *FollowupDBService) MarkVerified(ctx context.Context, caseID string, secret string, at time.Time) (bool, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	res, err := dbService.collectionCases().UpdateOne(ctx, markVerifiedFilter(caseID, secret), markVerifiedUpdate(at))
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (dbService *FollowupDBService) SaveSubmission(ctx context.Context, caseID string, answers types.AnswerSet, at time.Time) (bool, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	res, err := dbService.collectionCases().UpdateOne(ctx, submissionFilter(caseID), submissionUpdate(answers, at))
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (dbService *FollowupDBService) SaveSummary(ctx context.Context, caseID string, summary string, summaryErr string, at time.Time) error {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	_, err := dbService.collectionCases().UpdateOne(ctx, caseByIDFilter(caseID), summaryUpdate(summary, summaryErr, at))
	return err
}

func (dbService *FollowupDBService) CloseCase(ctx context.Context, caseID string, at time.Time) (bool, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	res, err := dbService.collectionCases().UpdateOne(ctx, closeCaseFilter(caseID), closeCaseUpdate(at))
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

// FindCasesByOwner lists the owner's cases, newest first, without any medical content.
func (dbService *FollowupDBService) FindCasesByOwner(ctx context.Context, ownerID string, page int64, limit int64) ([]types.CaseOverview, *db.PaginationInfos, error) {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()

	filter := bson.M{"ownerID": ownerID}
	totalCount, err := dbService.collectionCases().CountDocuments(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	paginationInfo := db.PrepPaginationInfos(totalCount, page, limit)
	skip := (paginationInfo.CurrentPage - 1) * paginationInfo.PageSize

	opts := options.Find()
	opts.SetSort(caseSortOnCreatedAt)
	opts.SetSkip(skip)
	opts.SetLimit(paginationInfo.PageSize)
	opts.SetProjection(bson.M{
		"kind":      1,
		"reference": 1,
		"status":    1,
		"consent":   1,
		"createdAt": 1,
		"updatedAt": 1,
	})

	cursor, err := dbService.collectionCases().Find(ctx, filter, opts)
	if err != nil {
		return nil, nil, err
	}
	defer cursor.Close(ctx)

	cases := []types.CaseOverview{}
	if err = cursor.All(ctx, &cases); err != nil {
		return nil, nil, err
	}
	return cases, paginationInfo, nil
}
