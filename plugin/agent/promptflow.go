package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	apperr "github.com/tariffwise/crossagent/internal/errors"
)

// PromptFlowBackend calls a stateless REST scoring endpoint.
type PromptFlowBackend struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewPromptFlowBackend wires an HTTP client; a nil client gets a 60s
// timeout default.
func NewPromptFlowBackend(endpoint, apiKey string, client *http.Client) *PromptFlowBackend {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &PromptFlowBackend{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   client,
	}
}

// Kind implements Backend.
func (b *PromptFlowBackend) Kind() ResultKind {
	return KindAgentText
}

type scoreRequest struct {
	Question string `json:"question"`
	Contexts string `json:"contexts"`
}

type scoreResponse struct {
	Output *string `json:"output"`
	Answer *string `json:"answer"`
}

// Ask posts the question and context to the scoring endpoint. The answer
// is taken from the first present field of the preference list ("output",
// then "answer"); a reply with neither yields a fixed sentinel instead of
// an error.
func (b *PromptFlowBackend) Ask(ctx context.Context, question, contexts string) (*Answer, error) {
	payload, err := json.Marshal(scoreRequest{Question: question, Contexts: contexts})
	if err != nil {
		return nil, apperr.Internal("encode prompt-flow payload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, apperr.Internal("build prompt-flow request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, classifyBackendErr("prompt-flow", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, apperr.UpstreamHTTP("prompt-flow", resp.StatusCode, string(body))
	}

	var score scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&score); err != nil {
		return nil, apperr.Parse("decode prompt-flow response", err)
	}

	text := answerFieldSentinel
	switch {
	case score.Output != nil:
		text = *score.Output
	case score.Answer != nil:
		text = *score.Answer
	}
	return &Answer{Text: text, History: []string{}}, nil
}
