// Package config defines the connection configuration for the virtual cards
// simulator service and its loading rules.
//
// Configuration comes from a JSON config file (the "vcSimulator" section),
// with environment variable overrides applied on top. Validation happens at
// client construction time: a malformed or incomplete configuration is an
// InvalidConfig error before any network call is made.
package config

import (
	"encoding/json"
	"net/url"
	"os"

	"github.com/caarlos0/env/v11"

	"github.com/cardsim/sdk-go/errors"
)

// AuthMode selects how simulator requests are authenticated.
type AuthMode string

const (
	// AuthModeAPIKey authenticates requests with a static API key header.
	AuthModeAPIKey AuthMode = "apiKey"

	// AuthModeUserPools authenticates requests with a bearer token obtained
	// from the hosted user pool with the caller's credentials.
	AuthModeUserPools AuthMode = "userPools"
)

// Config holds the connection settings for the simulator service.
// Exactly one of APIKey or the (UserPoolID, ClientID) pair must be set.
type Config struct {
	// Endpoint is the GraphQL API URL of the simulator service.
	Endpoint string `json:"apiUrl" env:"CARDSIM_API_URL"`

	// Region is the cloud region the service is deployed in.
	Region string `json:"region" env:"CARDSIM_REGION"`

	// APIKey authenticates requests when using AuthModeAPIKey.
	APIKey string `json:"apiKey" env:"CARDSIM_API_KEY"`

	// UserPoolID is the hosted user pool to authenticate against when using
	// AuthModeUserPools.
	UserPoolID string `json:"userPoolId" env:"CARDSIM_USER_POOL_ID"`

	// ClientID is the user pool app client id when using AuthModeUserPools.
	ClientID string `json:"clientId" env:"CARDSIM_CLIENT_ID"`

	// ClientDatabasePrefix namespaces any client-side cached data.
	ClientDatabasePrefix string `json:"clientDatabasePrefix" env:"CARDSIM_CLIENT_DATABASE_PREFIX"`
}

// configFile is the on-disk shape of the platform config file. Only the
// simulator section is consumed here.
type configFile struct {
	VcSimulator Config `json:"vcSimulator"`
}

// Load reads the simulator section from the JSON config file at path and
// applies environment variable overrides. The result is not validated;
// call Validate (or construct a client, which validates) afterwards.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.New(errors.InvalidConfig, "failed to read config file", err)
	}

	var file configFile
	if err := json.Unmarshal(data, &file); err != nil {
		return Config{}, errors.New(errors.InvalidConfig, "failed to parse config file", err)
	}

	cfg := file.VcSimulator
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.New(errors.InvalidConfig, "failed to apply environment overrides", err)
	}
	return cfg, nil
}

// FromEnv builds a Config from environment variables alone.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.New(errors.InvalidConfig, "failed to read environment", err)
	}
	return cfg, nil
}

// AuthMode returns the authentication mode implied by the populated fields.
// The zero AuthMode is returned for configurations Validate would reject.
func (c Config) AuthMode() AuthMode {
	switch {
	case c.APIKey != "" && c.UserPoolID == "" && c.ClientID == "":
		return AuthModeAPIKey
	case c.APIKey == "" && c.UserPoolID != "" && c.ClientID != "":
		return AuthModeUserPools
	default:
		return ""
	}
}

// Validate checks the configuration for completeness. All failures are
// InvalidConfig errors.
func (c Config) Validate() error {
	if c.Endpoint == "" {
		return errors.New(errors.InvalidConfig, "endpoint is required", nil)
	}
	parsed, err := url.Parse(c.Endpoint)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errors.New(errors.InvalidConfig, "endpoint is not a valid URL", err)
	}
	if c.Region == "" {
		return errors.New(errors.InvalidConfig, "region is required", nil)
	}
	if c.AuthMode() == "" {
		return errors.New(errors.InvalidConfig, "exactly one of apiKey or userPoolId+clientId must be configured", nil)
	}
	return nil
}
