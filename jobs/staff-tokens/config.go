package main

import (
	"errors"
	"os"
	"time"

	"github.com/Jay121305/Medical-Follow-Up-System-sub001/pkg/utils"
	"gopkg.in/yaml.v2"
)

// Environment variables
const (
	ENV_CONFIG_FILE_PATH = "CONFIG_FILE_PATH"

	// Variables to override "secrets" in the config file
	ENV_STAFF_JWT_SIGN_KEY = "STAFF_JWT_SIGN_KEY"
)

const defaultTokenExpiresIn = 30 * 24 * time.Hour

type StaffUser struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
}

type config struct {
	// Logging configs
	Logging utils.LoggerConfig `json:"logging" yaml:"logging"`

	StaffJWTConfig struct {
		SignKey   string        `json:"sign_key" yaml:"sign_key"`
		ExpiresIn time.Duration `json:"expires_in" yaml:"expires_in"`
	} `json:"staff_jwt_config" yaml:"staff_jwt_config"`

	StaffUsers []StaffUser `json:"staff_users" yaml:"staff_users"`
}

// loadConfig reads the optional config file and applies the env overrides.
func loadConfig(path string) (config, error) {
	conf := config{}
	if path != "" {
		yamlFile, err := os.ReadFile(path)
		if err != nil {
			return conf, err
		}
		if err := yaml.UnmarshalStrict(yamlFile, &conf); err != nil {
			return conf, err
		}
	}

	if signKey := os.Getenv(ENV_STAFF_JWT_SIGN_KEY); signKey != "" {
		conf.StaffJWTConfig.SignKey = signKey
	}
	if conf.StaffJWTConfig.SignKey == "" {
		return conf, errors.New("staff JWT sign key not set - configure " + ENV_STAFF_JWT_SIGN_KEY + " env variable")
	}
	if conf.StaffJWTConfig.ExpiresIn <= 0 {
		conf.StaffJWTConfig.ExpiresIn = defaultTokenExpiresIn
	}
	return conf, nil
}
