package config

import (
	"errors"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/denis-hade/hade-avatar-server/internal/domain"
)

const (
	envPrefix         = "HADE_"
	defaultConfigPath = "config.yaml"
)

type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Voiceflow VoiceflowConfig `koanf:"voiceflow"`
	DID       DIDConfig       `koanf:"did"`
	Upstream  UpstreamConfig  `koanf:"upstream"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
}

type ServerConfig struct {
	Port           int           `koanf:"port"`
	ServiceName    string        `koanf:"service_name"`
	AllowedOrigin  string        `koanf:"allowed_origin"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// VoiceflowConfig addresses the conversational runtime.
type VoiceflowConfig struct {
	BaseURL       string `koanf:"base_url"`
	VersionID     string `koanf:"version_id"`
	APIKey        string `koanf:"api_key"`
	FallbackReply string `koanf:"fallback_reply"`
}

// DIDConfig addresses the avatar service.
type DIDConfig struct {
	BaseURL       string        `koanf:"base_url"`
	Username      string        `koanf:"username"`
	Password      string        `koanf:"password"`
	AllowedDomain string        `koanf:"allowed_domain"` // comma-separated
	ExistsMarker  string        `koanf:"exists_marker"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`
}

// UpstreamConfig tunes the outbound HTTP client shared by both collaborators.
type UpstreamConfig struct {
	Timeout     time.Duration `koanf:"timeout"`
	DenyPrivate bool          `koanf:"deny_private"`
}

type TelemetryConfig struct {
	Enabled     bool    `koanf:"enabled"`
	SampleRatio float64 `koanf:"sample_ratio"`
}

var defaults = map[string]any{
	"server.port":              8080,
	"server.service_name":      "hade-avatar-server",
	"server.allowed_origin":    "*",
	"server.request_timeout":   "30s",
	"voiceflow.base_url":       "https://general-runtime.voiceflow.com",
	"voiceflow.version_id":     "production",
	"voiceflow.fallback_reply": "Sorry, I didn't catch that.",
	"did.base_url":             "https://api.d-id.com",
	"did.exists_marker":        "already exists",
	"did.cache_ttl":            "10m",
	"upstream.timeout":         "30s",
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Load reads config.yaml (or the file named by HADE_CONFIG) if present, then
// applies HADE_ environment variables on top.
func Load() (*Config, error) {
	path := os.Getenv(envPrefix + "CONFIG")
	if path == "" {
		path = defaultConfigPath
	}
	return LoadFile(path)
}

// LoadFile is Load with an explicit config file path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		// File not found is OK, we'll use env vars
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	// Load environment variables (can override file config)
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	for key, value := range defaults {
		if !k.Exists(key) {
			k.Set(key, value)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}

	// Substitute environment variables in secrets
	cfg.Voiceflow.APIKey = substituteEnvVars(cfg.Voiceflow.APIKey)
	cfg.DID.Username = substituteEnvVars(cfg.DID.Username)
	cfg.DID.Password = substituteEnvVars(cfg.DID.Password)

	return &cfg, nil
}

// Validate reports the first missing value the reply relay needs.
func (c VoiceflowConfig) Validate() error {
	switch {
	case c.APIKey == "":
		return domain.ErrConfig("voiceflow api key is not configured")
	case c.VersionID == "":
		return domain.ErrConfig("voiceflow version id is not configured")
	case c.BaseURL == "":
		return domain.ErrConfig("voiceflow base url is not configured")
	}
	return nil
}

// Validate reports the first missing credential the client-key endpoint needs.
func (c DIDConfig) Validate() error {
	switch {
	case c.Username == "" || c.Password == "":
		return domain.ErrConfig("avatar service credentials are not configured")
	case c.BaseURL == "":
		return domain.ErrConfig("avatar service base url is not configured")
	}
	return nil
}

func substituteEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}
