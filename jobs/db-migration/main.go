package main

import (
	"log/slog"
	"time"
)

func main() {
	start := time.Now()

	dropIndexes()

	createIndexes()

	getIndexes()

	slog.Info("DB migration finished", slog.String("duration", time.Since(start).String()))
}

func dropIndexes() {
	var err error
	switch conf.TaskConfigs.DropIndexes {
	case DropIndexesModeAll:
		err = followupDBService.DropIndexForCases(true)
	case DropIndexesModeDefaults:
		err = followupDBService.DropIndexForCases(false)
	default:
		return
	}
	if err != nil {
		slog.Error("Error dropping indexes for cases", slog.String("mode", string(conf.TaskConfigs.DropIndexes)), slog.String("error", err.Error()))
		return
	}
	slog.Info("Indexes dropped for cases", slog.String("mode", string(conf.TaskConfigs.DropIndexes)))
}

func createIndexes() {
	if !conf.TaskConfigs.CreateIndexes {
		return
	}
	if err := followupDBService.CreateIndexForCases(); err != nil {
		slog.Error("Error creating indexes for cases", slog.String("error", err.Error()))
		return
	}
	slog.Info("Indexes created for cases")
}

func getIndexes() {
	if !conf.TaskConfigs.GetIndexes {
		return
	}
	indexes, err := followupDBService.GetIndexesForCases()
	if err != nil {
		slog.Error("Error listing indexes for cases", slog.String("error", err.Error()))
		return
	}
	for _, index := range indexes {
		slog.Info("Index found for cases", slog.Any("name", index["name"]), slog.Any("keys", index["key"]))
	}
}
