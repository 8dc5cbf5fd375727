package agent

import (
	"context"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	apperr "github.com/tariffwise/crossagent/internal/errors"
)

// AssistantConfig holds the connection settings for the stateful agent
// backend. AssistantID and ThreadID identify an externally provisioned
// agent/thread pair.
type AssistantConfig struct {
	APIKey      string
	BaseURL     string
	AssistantID string
	ThreadID    string

	// PollInterval between run status checks. Default 500ms.
	PollInterval time.Duration
}

// AssistantBackend answers through a persistent assistant thread:
// create message, run the assistant, then list messages.
type AssistantBackend struct {
	client       *openai.Client
	assistantID  string
	threadID     string
	pollInterval time.Duration
}

// NewAssistantBackend creates the stateful agent backend.
func NewAssistantBackend(cfg AssistantConfig) *AssistantBackend {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}

	return &AssistantBackend{
		client:       openai.NewClientWithConfig(clientConfig),
		assistantID:  cfg.AssistantID,
		threadID:     cfg.ThreadID,
		pollInterval: pollInterval,
	}
}

// Kind implements Backend.
func (b *AssistantBackend) Kind() ResultKind {
	return KindAgent
}

// Ask appends the question to the thread, runs the assistant and returns
// the newest assistant reply. History carries every text message on the
// thread in order, most recent last.
func (b *AssistantBackend) Ask(ctx context.Context, question, contexts string) (*Answer, error) {
	content := question
	if contexts != "" {
		content = question + "\n\nContext:\n" + contexts
	}

	if _, err := b.client.CreateMessage(ctx, b.threadID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: content,
	}); err != nil {
		return nil, classifyBackendErr("agent message create", err)
	}

	run, err := b.client.CreateRun(ctx, b.threadID, openai.RunRequest{
		AssistantID: b.assistantID,
	})
	if err != nil {
		return nil, classifyBackendErr("agent run create", err)
	}

	if err := b.awaitRun(ctx, &run); err != nil {
		return nil, err
	}

	order := "asc"
	list, err := b.client.ListMessage(ctx, b.threadID, nil, &order, nil, nil, nil)
	if err != nil {
		return nil, classifyBackendErr("agent message list", err)
	}

	history := make([]string, 0, len(list.Messages))
	answer := ""
	for _, msg := range list.Messages {
		text := messageText(msg)
		if text == "" {
			continue
		}
		history = append(history, text)
		if msg.Role == string(openai.ChatMessageRoleAssistant) {
			answer = text
		}
	}
	if answer == "" {
		return nil, apperr.Parse("agent thread returned no assistant reply", nil)
	}
	return &Answer{Text: answer, History: history}, nil
}

// awaitRun polls the run until it reaches a terminal status.
func (b *AssistantBackend) awaitRun(ctx context.Context, run *openai.Run) error {
	for {
		switch run.Status {
		case openai.RunStatusCompleted:
			return nil
		case openai.RunStatusFailed, openai.RunStatusExpired, openai.RunStatusCancelled,
			openai.RunStatusIncomplete, openai.RunStatusRequiresAction:
			return &apperr.RouteError{
				Code:    apperr.ErrCodeUpstreamHTTP,
				Message: "agent run ended with status " + string(run.Status),
			}
		}

		select {
		case <-ctx.Done():
			return apperr.UpstreamTimeout("agent run", ctx.Err())
		case <-time.After(b.pollInterval):
		}

		updated, err := b.client.RetrieveRun(ctx, b.threadID, run.ID)
		if err != nil {
			return classifyBackendErr("agent run poll", err)
		}
		*run = updated
	}
}

// messageText joins the text parts of a thread message.
func messageText(msg openai.Message) string {
	var parts []string
	for _, c := range msg.Content {
		if c.Text != nil && c.Text.Value != "" {
			parts = append(parts, c.Text.Value)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}
