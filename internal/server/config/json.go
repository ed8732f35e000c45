package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/proxy201/nexus-auth/internal/flagx"
	"github.com/proxy201/nexus-auth/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for the token lifetime, which allows parsing
// both string values such as "7d" and integer nanoseconds. After
// unmarshalling, non-zero fields are copied into the runtime Config.
type JsonConfig struct {
	Address       string         `json:"address"`
	DatabaseDSN   string         `json:"database_dsn"`
	SecretKey     string         `json:"secret_key"`
	TokenValidity timex.Duration `json:"token_validity"`
	RedirectURL   string         `json:"redirect_url"`
	Production    *bool          `json:"production"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config flags; when
// neither is set, no JSON file is loaded. An unreadable or invalid file
// panics: a half-applied config file is worse than no server.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Address != "" {
		config.Address = c.Address
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.TokenValidity.Duration != 0 {
		config.TokenValidity = time.Duration(c.TokenValidity.Duration)
	}
	if c.RedirectURL != "" {
		config.RedirectURL = c.RedirectURL
	}
	if c.Production != nil {
		config.Production = *c.Production
	}
}
