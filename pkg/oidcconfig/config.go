// Package oidcconfig loads the configuration for the oidcrp-harness CLI.
package oidcconfig

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/oidcrp/oidcrp/pkg/helpers"
	"github.com/oidcrp/oidcrp/pkg/logger"

	"github.com/creasty/defaults"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// HarnessConfig is the root configuration for the oidcrp-harness CLI and any
// other process embedding this library that wants file+env driven config.
type HarnessConfig struct {
	// Issuer is the OpenID Provider issuer URL used for discovery.
	Issuer string `yaml:"issuer" validate:"required,url"`

	// ClientID and ClientSecret are used when registration is not performed
	// dynamically. Either may be empty if DynamicRegistration is set.
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`

	// RedirectURI is the redirect_uri this RP identifies itself with.
	RedirectURI string `yaml:"redirect_uri" validate:"required,url"`

	// Scopes requested in the authorization request, in addition to "openid".
	Scopes []string `yaml:"scopes" default:"[\"profile\",\"email\"]"`

	// DynamicRegistration, when true, registers a fresh client with the
	// provider's registration_endpoint instead of using ClientID/ClientSecret.
	DynamicRegistration bool `yaml:"dynamic_registration" default:"false"`

	// AllowedSigningAlgs restricts which JWS algorithms the verifier accepts.
	// Empty means the library default (RS256 only).
	AllowedSigningAlgs []string `yaml:"allowed_signing_algs"`

	// InsecureDisableSignatureCheck turns off ID Token signature verification.
	// Never set true outside of conformance testing against alg=none tokens.
	InsecureDisableSignatureCheck bool `yaml:"insecure_disable_signature_check" default:"false"`

	// Production controls the logger's encoder (JSON vs console) and level.
	Production bool `yaml:"production" default:"false"`
}

type envVars struct {
	ConfigYAML string `envconfig:"OIDCRP_CONFIG_YAML" required:"true"`
}

// New parses the harness config file named by the OIDCRP_CONFIG_YAML
// environment variable, applying defaults and struct validation.
func New(ctx context.Context) (*HarnessConfig, error) {
	log := logger.NewSimple("configuration")
	log.Info("reading environment variables")

	env := envVars{}
	if err := envconfig.Process("", &env); err != nil {
		return nil, err
	}

	return Load(ctx, env.ConfigYAML, log)
}

// Load parses the harness config file at path, applying defaults and struct
// validation. It is separated from New so tests and callers that already
// know the path can skip the environment-variable indirection.
func Load(ctx context.Context, path string, log *logger.Log) (*HarnessConfig, error) {
	cfg := &HarnessConfig{}

	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}

	configFile, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if fileInfo.IsDir() {
		return nil, errors.New("config path is a directory")
	}

	if err := yaml.Unmarshal(configFile, cfg); err != nil {
		return nil, err
	}

	if err := helpers.CheckSimple(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
