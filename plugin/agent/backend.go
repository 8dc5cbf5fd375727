package agent

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/tariffwise/crossagent/internal/profile"
	apperr "github.com/tariffwise/crossagent/internal/errors"
)

// answerFieldSentinel replaces a backend reply that carries neither an
// "output" nor an "answer" field.
const answerFieldSentinel = "[No output or answer field in response]"

// Answer is a textual reply from an AI backend. History is empty unless
// the backend is stateful.
type Answer struct {
	Text    string
	History []string
}

// Backend answers open-ended customs questions. Implementations are
// functionally interchangeable from the orchestrator's point of view:
// send question plus context, receive a textual answer.
type Backend interface {
	// Kind is the result tag this backend's answers carry.
	Kind() ResultKind

	// Ask sends the question with accumulated context text.
	Ask(ctx context.Context, question, contexts string) (*Answer, error)
}

// NewBackend builds the backend selected by the profile. Bypass mode
// returns nil; the router answers without an AI backend then.
func NewBackend(p *profile.Profile) (Backend, error) {
	timeout := time.Duration(p.BackendTimeoutSec) * time.Second
	switch p.Backend {
	case profile.BackendBypass:
		return nil, nil
	case profile.BackendPromptFlow:
		return NewPromptFlowBackend(p.PromptFlowEndpoint, p.PromptFlowAPIKey, &http.Client{Timeout: timeout}), nil
	case profile.BackendAssistant:
		return NewAssistantBackend(AssistantConfig{
			APIKey:      p.AssistantAPIKey,
			BaseURL:     p.AssistantBaseURL,
			AssistantID: p.AssistantID,
			ThreadID:    p.ThreadID,
		}), nil
	default:
		return nil, apperr.Configuration("unknown backend: " + p.Backend)
	}
}

// classifyBackendErr maps a transport failure to the error taxonomy.
func classifyBackendErr(op string, err error) error {
	if stderrors.Is(err, context.DeadlineExceeded) {
		return apperr.UpstreamTimeout(op, err)
	}
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return apperr.UpstreamTimeout(op, err)
	}
	return apperr.UpstreamNetwork(op, err)
}
