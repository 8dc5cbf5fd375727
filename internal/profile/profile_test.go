package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "https://rulings.cbp.gov", p.CrossBaseURL)
	assert.Equal(t, CrossModeAPI, p.CrossMode)
	assert.Equal(t, 3, p.MaxRulings)
	assert.Equal(t, 30, p.CrossTimeoutSec)
	assert.Equal(t, BackendPromptFlow, p.Backend)
	assert.Equal(t, 60, p.BackendTimeoutSec)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CROSSAGENT_CROSS_MODE", "SCRAPE")
	t.Setenv("CROSSAGENT_MAX_RULINGS", "5")
	t.Setenv("CROSSAGENT_BACKEND", "bypass")
	t.Setenv("CROSSAGENT_RATE_LIMIT", "2.5")
	t.Setenv("CROSSAGENT_ENRICH_BACKEND", "true")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, CrossModeScrape, p.CrossMode)
	assert.Equal(t, 5, p.MaxRulings)
	assert.Equal(t, BackendBypass, p.Backend)
	assert.Equal(t, 2.5, p.RateLimitPerSec)
	assert.True(t, p.EnrichBackend)
}

func TestValidate(t *testing.T) {
	base := func() *Profile {
		p := &Profile{}
		p.FromEnv()
		return p
	}

	t.Run("bypass needs no credentials", func(t *testing.T) {
		p := base()
		p.Backend = BackendBypass
		require.NoError(t, p.Validate())
	})

	t.Run("promptflow without endpoint fails", func(t *testing.T) {
		p := base()
		p.Backend = BackendPromptFlow
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "PROMPTFLOW_ENDPOINT")
	})

	t.Run("promptflow without key fails", func(t *testing.T) {
		p := base()
		p.Backend = BackendPromptFlow
		p.PromptFlowEndpoint = "https://example.com/score"
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "API_KEY")
	})

	t.Run("promptflow complete passes", func(t *testing.T) {
		p := base()
		p.Backend = BackendPromptFlow
		p.PromptFlowEndpoint = "https://example.com/score"
		p.PromptFlowAPIKey = "secret"
		require.NoError(t, p.Validate())
	})

	t.Run("assistant requires ids", func(t *testing.T) {
		p := base()
		p.Backend = BackendAssistant
		p.AssistantAPIKey = "secret"
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "THREAD_ID")
	})

	t.Run("unknown backend fails", func(t *testing.T) {
		p := base()
		p.Backend = "quantum"
		require.Error(t, p.Validate())
	})

	t.Run("unknown cross mode fails", func(t *testing.T) {
		p := base()
		p.Backend = BackendBypass
		p.CrossMode = "carrier-pigeon"
		require.Error(t, p.Validate())
	})

	t.Run("non-positive max rulings fails", func(t *testing.T) {
		p := base()
		p.Backend = BackendBypass
		p.MaxRulings = 0
		require.Error(t, p.Validate())
	})
}
