package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/db"
	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/utils"
	"gopkg.in/yaml.v2"

	followupDB "github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/db/followup-cases"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_FOLLOWUP_DB_USERNAME = "FOLLOWUP_DB_USERNAME"
	ENV_FOLLOWUP_DB_PASSWORD = "FOLLOWUP_DB_PASSWORD"
)

type config struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	// DB configs
	DBConfigs struct {
		FollowupDB db.DBConfigYaml `json:"followup_db" yaml:"followup_db"`
	} `json:"db_configs" yaml:"db_configs"`

	// Task configurations
	TaskConfigs TaskConfigs `json:"task_configs" yaml:"task_configs"`
}

type TaskConfigs struct {
	DropIndexes   DropIndexesMode `json:"drop_indexes" yaml:"drop_indexes"`
	CreateIndexes bool            `json:"create_indexes" yaml:"create_indexes"`
	GetIndexes    bool            `json:"get_indexes" yaml:"get_indexes"`
}

type DropIndexesMode string

const (
	DropIndexesModeAll      DropIndexesMode = "all"
	DropIndexesModeDefaults DropIndexesMode = "defaults"
	DropIndexesModeNone     DropIndexesMode = "none"
)

func (mode DropIndexesMode) IsValid() bool {
	switch mode {
	case DropIndexesModeAll, DropIndexesModeDefaults, DropIndexesModeNone:
		return true
	default:
		return false
	}
}

func validateConfig() {
	// an omitted mode means nothing is dropped
	if conf.TaskConfigs.DropIndexes == "" {
		conf.TaskConfigs.DropIndexes = DropIndexesModeNone
	}
	if !conf.TaskConfigs.DropIndexes.IsValid() {
		panic(fmt.Sprintf("invalid drop indexes mode for task_configs.drop_indexes: %q. Use one of: %v", conf.TaskConfigs.DropIndexes, []DropIndexesMode{DropIndexesModeAll, DropIndexesModeDefaults, DropIndexesModeNone}))
	}
}

var conf config

var followupDBService *followupDB.FollowupDBService

func init() {
	// Read config from file
	yamlFile, err := os.ReadFile(os.Getenv(ENV_CONFIG_FILE_PATH))
	if err != nil {
		panic(err)
	}

	err = yaml.UnmarshalStrict(yamlFile, &conf)
	if err != nil {
		panic(err)
	}

	validateConfig()

	// Init logger:
	utils.InitLogger(conf.Logging)

	// Override secrets from environment variables
	secretsOverride()

	// init db
	initDBs()
}

func secretsOverride() {
	if dbUsername := os.Getenv(ENV_FOLLOWUP_DB_USERNAME); dbUsername != "" {
		conf.DBConfigs.FollowupDB.Username = dbUsername
	}

	if dbPassword := os.Getenv(ENV_FOLLOWUP_DB_PASSWORD); dbPassword != "" {
		conf.DBConfigs.FollowupDB.Password = dbPassword
	}
}

func initDBs() {
	dbConfig := db.DBConfigFromYamlObj(conf.DBConfigs.FollowupDB)
	// indexes are handled by the tasks of this job
	dbConfig.RunIndexCreation = false

	var err error
	followupDBService, err = followupDB.NewFollowupDBService(dbConfig)
	if err != nil {
		slog.Error("Error connecting to Followup DB", slog.String("error", err.Error()))
		panic(err)
	}
}
