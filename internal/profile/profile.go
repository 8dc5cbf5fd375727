package profile

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Backend mode values for Profile.Backend.
const (
	// BackendBypass disables the AI backend; only the CROSS ruling
	// pipeline answers, everything else gets a canned reply.
	BackendBypass = "bypass"
	// BackendPromptFlow is the stateless REST scoring endpoint.
	BackendPromptFlow = "promptflow"
	// BackendAssistant is the stateful agent/thread API.
	BackendAssistant = "assistant"
)

// Gateway mode values for Profile.CrossMode.
const (
	// CrossModeAPI queries the structured JSON search endpoint.
	CrossModeAPI = "api"
	// CrossModeScrape parses the rendered results page. Degraded
	// fallback for deployments where the JSON API is unreachable.
	CrossModeScrape = "scrape"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Version is the current version of server
	Version string

	// CrossBaseURL is the base URL of the CBP CROSS rulings service.
	CrossBaseURL string // CROSSAGENT_CROSS_BASE_URL (default: https://rulings.cbp.gov)
	// CrossMode selects the retrieval strategy ("api" or "scrape").
	CrossMode string // CROSSAGENT_CROSS_MODE (default: api)
	// MaxRulings caps how many rulings a search returns.
	MaxRulings int // CROSSAGENT_MAX_RULINGS (default: 3)
	// CrossTimeoutSec bounds a single ruling search.
	CrossTimeoutSec int // CROSSAGENT_CROSS_TIMEOUT (default: 30)
	// CrossCacheSize is the ruling cache capacity. 0 disables caching.
	CrossCacheSize int // CROSSAGENT_CROSS_CACHE_SIZE (default: 256)
	// CrossCacheTTLSec is the ruling cache entry lifetime.
	CrossCacheTTLSec int // CROSSAGENT_CROSS_CACHE_TTL (default: 600)

	// Backend selects the AI backend ("bypass", "promptflow" or "assistant").
	Backend string // CROSSAGENT_BACKEND (default: promptflow)
	// PromptFlowEndpoint is the scoring URL of the prompt-flow deployment.
	PromptFlowEndpoint string // CROSSAGENT_PROMPTFLOW_ENDPOINT
	// PromptFlowAPIKey authorizes calls to the scoring endpoint.
	PromptFlowAPIKey string // CROSSAGENT_PROMPTFLOW_API_KEY
	// AssistantBaseURL overrides the assistants API base URL.
	AssistantBaseURL string // CROSSAGENT_ASSISTANT_BASE_URL
	// AssistantAPIKey authorizes calls to the assistants API.
	AssistantAPIKey string // CROSSAGENT_ASSISTANT_API_KEY
	// AssistantID identifies the externally provisioned agent.
	AssistantID string // CROSSAGENT_ASSISTANT_ID
	// ThreadID identifies the externally provisioned thread.
	ThreadID string // CROSSAGENT_THREAD_ID
	// BackendTimeoutSec bounds a single AI backend call.
	BackendTimeoutSec int // CROSSAGENT_BACKEND_TIMEOUT (default: 60)
	// EnrichBackend restores the legacy routing policy: rulings enrich
	// the AI backend prompt instead of short-circuiting the answer.
	EnrichBackend bool // CROSSAGENT_ENRICH_BACKEND (default: false)

	// RateLimitPerSec is the per-client request rate. 0 disables limiting.
	RateLimitPerSec float64 // CROSSAGENT_RATE_LIMIT (default: 10)
	// RateLimitBurst is the per-client burst size.
	RateLimitBurst int // CROSSAGENT_RATE_LIMIT_BURST (default: 20)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// ListenAddr returns the host:port the HTTP server binds to.
func (p *Profile) ListenAddr() string {
	return net.JoinHostPort(p.Addr, strconv.Itoa(p.Port))
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// FromEnv loads configuration from CROSSAGENT_* environment variables.
func (p *Profile) FromEnv() {
	p.CrossBaseURL = getEnvOrDefault("CROSSAGENT_CROSS_BASE_URL", "https://rulings.cbp.gov")
	p.CrossMode = strings.ToLower(getEnvOrDefault("CROSSAGENT_CROSS_MODE", CrossModeAPI))
	p.MaxRulings = getEnvInt("CROSSAGENT_MAX_RULINGS", 3)
	p.CrossTimeoutSec = getEnvInt("CROSSAGENT_CROSS_TIMEOUT", 30)
	p.CrossCacheSize = getEnvInt("CROSSAGENT_CROSS_CACHE_SIZE", 256)
	p.CrossCacheTTLSec = getEnvInt("CROSSAGENT_CROSS_CACHE_TTL", 600)

	p.Backend = strings.ToLower(getEnvOrDefault("CROSSAGENT_BACKEND", BackendPromptFlow))
	p.PromptFlowEndpoint = os.Getenv("CROSSAGENT_PROMPTFLOW_ENDPOINT")
	p.PromptFlowAPIKey = os.Getenv("CROSSAGENT_PROMPTFLOW_API_KEY")
	p.AssistantBaseURL = os.Getenv("CROSSAGENT_ASSISTANT_BASE_URL")
	p.AssistantAPIKey = os.Getenv("CROSSAGENT_ASSISTANT_API_KEY")
	p.AssistantID = os.Getenv("CROSSAGENT_ASSISTANT_ID")
	p.ThreadID = os.Getenv("CROSSAGENT_THREAD_ID")
	p.BackendTimeoutSec = getEnvInt("CROSSAGENT_BACKEND_TIMEOUT", 60)
	p.EnrichBackend = getEnvBool("CROSSAGENT_ENRICH_BACKEND", false)

	p.RateLimitPerSec = getEnvFloat("CROSSAGENT_RATE_LIMIT", 10)
	p.RateLimitBurst = getEnvInt("CROSSAGENT_RATE_LIMIT_BURST", 20)
}

// Validate checks that the profile is complete for the selected modes.
// A missing endpoint or credential is fatal at startup.
func (p *Profile) Validate() error {
	switch p.CrossMode {
	case CrossModeAPI, CrossModeScrape:
	default:
		return errors.Errorf("unknown cross mode %q", p.CrossMode)
	}
	if p.CrossBaseURL == "" {
		return errors.New("cross base URL is required")
	}
	if p.MaxRulings <= 0 {
		return errors.Errorf("max rulings must be positive, got %d", p.MaxRulings)
	}

	switch p.Backend {
	case BackendBypass:
	case BackendPromptFlow:
		if p.PromptFlowEndpoint == "" {
			return errors.New("prompt-flow backend selected but CROSSAGENT_PROMPTFLOW_ENDPOINT is not set")
		}
		if p.PromptFlowAPIKey == "" {
			return errors.New("prompt-flow backend selected but CROSSAGENT_PROMPTFLOW_API_KEY is not set")
		}
	case BackendAssistant:
		if p.AssistantAPIKey == "" {
			return errors.New("assistant backend selected but CROSSAGENT_ASSISTANT_API_KEY is not set")
		}
		if p.AssistantID == "" || p.ThreadID == "" {
			return errors.New("assistant backend requires CROSSAGENT_ASSISTANT_ID and CROSSAGENT_THREAD_ID")
		}
	default:
		return errors.Errorf("unknown backend %q", p.Backend)
	}
	return nil
}

func (p *Profile) String() string {
	return fmt.Sprintf("mode=%s addr=%s cross=%s backend=%s", p.Mode, p.ListenAddr(), p.CrossMode, p.Backend)
}
