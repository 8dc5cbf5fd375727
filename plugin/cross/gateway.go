package cross

import (
	"net/http"
	"time"

	"github.com/tariffwise/crossagent/internal/profile"
	apperr "github.com/tariffwise/crossagent/internal/errors"
)

// NewGateway builds the gateway selected by the profile, wrapped with the
// result cache when caching is enabled.
func NewGateway(p *profile.Profile) (Gateway, error) {
	client := &http.Client{Timeout: time.Duration(p.CrossTimeoutSec) * time.Second}

	var gw Gateway
	switch p.CrossMode {
	case profile.CrossModeAPI:
		gw = NewAPIClient(p.CrossBaseURL, client)
	case profile.CrossModeScrape:
		gw = NewScraper(p.CrossBaseURL, client)
	default:
		return nil, apperr.Configuration("unknown cross mode: " + p.CrossMode)
	}

	if p.CrossCacheSize > 0 && p.CrossCacheTTLSec > 0 {
		gw = NewCachingGateway(gw, p.CrossCacheSize, time.Duration(p.CrossCacheTTLSec)*time.Second)
	}
	return gw, nil
}
