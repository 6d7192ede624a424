package followupcases

import (
	"context"
	"log/slog"
	"time"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/db"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// collection names
const (
	COLLECTION_NAME_CASES = "cases"
)

type FollowupDBService struct {
	DBClient        *mongo.Client
	timeout         int
	noCursorTimeout bool
	DBNamePrefix    string
}

func NewFollowupDBService(configs db.DBConfig) (*FollowupDBService, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	defer cancel()

	dbClient, err := mongo.Connect(ctx,
		options.Client().ApplyURI(configs.URI),
		options.Client().SetMaxConnIdleTime(time.Duration(configs.IdleConnTimeout)*time.Second),
		options.Client().SetMaxPoolSize(configs.MaxPoolSize),
	)

	if err != nil {
		return nil, err
	}

	ctx, conCancel := context.WithTimeout(context.Background(), time.Duration(configs.Timeout)*time.Second)
	err = dbClient.Ping(ctx, nil)
	defer conCancel()

	if err != nil {
		return nil, err
	}

	fuDBSc := &FollowupDBService{
		DBClient:        dbClient,
		timeout:         configs.Timeout,
		noCursorTimeout: configs.NoCursorTimeout,
		DBNamePrefix:    configs.DBNamePrefix,
	}

	if configs.RunIndexCreation {
		fuDBSc.ensureIndexes()
	}
	return fuDBSc, nil
}

func (dbService *FollowupDBService) getDBName() string {
	return dbService.DBNamePrefix + "followup"
}

func (dbService *FollowupDBService) getContext(parent context.Context) (ctx context.Context, cancel context.CancelFunc) {
	return context.WithTimeout(parent, time.Duration(dbService.timeout)*time.Second)
}

func (dbService *FollowupDBService) collectionCases() *mongo.Collection {
	return dbService.DBClient.Database(dbService.getDBName()).Collection(COLLECTION_NAME_CASES)
}

func (dbService *FollowupDBService) ensureIndexes() {
	slog.Debug("Ensuring indexes for follow-up DB")

	if err := dbService.CreateIndexForCases(); err != nil {
		slog.Error("Error creating indexes for cases", slog.String("error", err.Error()))
	}
}

// Ping checks the connection to the database server.
func (dbService *FollowupDBService) Ping(ctx context.Context) error {
	ctx, cancel := dbService.getContext(ctx)
	defer cancel()
	return dbService.DBClient.Ping(ctx, nil)
}
