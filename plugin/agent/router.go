package agent

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tariffwise/crossagent/plugin/cross"
	apperr "github.com/tariffwise/crossagent/internal/errors"
	"github.com/tariffwise/crossagent/internal/observability"
)

// noItemNote is attached as context when a classification question did
// not yield a search term; the backend relies on general knowledge then.
const noItemNote = "Note: A specific item for CROSS ruling search was not identified in the query."

// bypassReply is the canned answer when no AI backend is configured.
const bypassReply = "This deployment answers from CROSS rulings only. Please ask a classification question about a specific item."

// genericInternalMessage is what external callers see for unanticipated
// failures; full detail stays in the server logs.
const genericInternalMessage = "An internal error occurred while processing the request."

// Query is the inbound request. Locale and ConversationID are accepted
// and logged but do not influence routing.
type Query struct {
	Message        string
	Locale         string
	ConversationID string
}

// Router is the routing state machine. For classification questions it
// prefers authoritative CROSS rulings over a generated paraphrase: any
// ruling-path outcome, including failure, returns without calling the AI
// backend.
type Router struct {
	gateway cross.Gateway
	backend Backend // nil in bypass mode

	maxRulings     int
	gatewayTimeout time.Duration
	backendTimeout time.Duration
	enrichBackend  bool
	logger         *slog.Logger
}

// RouterOption customizes a Router.
type RouterOption func(*Router)

// WithMaxRulings caps how many rulings a lookup may return.
func WithMaxRulings(n int) RouterOption {
	return func(r *Router) {
		if n > 0 {
			r.maxRulings = n
		}
	}
}

// WithTimeouts sets the per-call deadlines for the ruling gateway and
// the AI backend.
func WithTimeouts(gateway, backend time.Duration) RouterOption {
	return func(r *Router) {
		if gateway > 0 {
			r.gatewayTimeout = gateway
		}
		if backend > 0 {
			r.backendTimeout = backend
		}
	}
}

// WithRulingEnrichment restores the legacy routing policy: retrieved
// rulings enrich the AI backend prompt instead of short-circuiting the
// answer. Has no effect without a backend.
func WithRulingEnrichment() RouterOption {
	return func(r *Router) {
		r.enrichBackend = true
	}
}

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRouter creates the orchestrator. A nil backend selects bypass mode.
func NewRouter(gateway cross.Gateway, backend Backend, opts ...RouterOption) *Router {
	r := &Router{
		gateway:        gateway,
		backend:        backend,
		maxRulings:     3,
		gatewayTimeout: 30 * time.Second,
		backendTimeout: 60 * time.Second,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ask routes one query to a terminal RouterResult. It never returns an
// error or panics to its caller; every failure along any transition is
// converted into a result at this boundary.
func (r *Router) Ask(ctx context.Context, q Query) (result *RouterResult) {
	rc := observability.NewRequestContext(r.logger)
	rc.Info("routing started",
		slog.Int(observability.LogFieldMessageLen, len(q.Message)),
		slog.String("locale", q.Locale),
		slog.String("conversation_id", q.ConversationID),
	)

	defer func() {
		if p := recover(); p != nil {
			rc.Error("routing panicked", fmt.Errorf("%v", p))
			result = errorResult(KindError, genericInternalMessage)
		}
		rc.Info("routing finished",
			slog.String("kind", string(result.Kind)),
			slog.Int64(observability.LogFieldDuration, rc.DurationMs()),
		)
	}()

	if !IsClassificationQuestion(q.Message) {
		rc.Debug("not a classification question")
		return r.callBackend(ctx, rc, q.Message, "")
	}

	term, ok := ExtractSearchTerm(q.Message)
	if !ok {
		rc.Info("no search term extracted")
		return r.callBackend(ctx, rc, q.Message, noItemNote)
	}
	rc.Info("search term extracted", slog.String(observability.LogFieldTerm, term))

	return r.lookupRulings(ctx, rc, q.Message, term)
}

// lookupRulings runs the ruling path. All three outcomes short-circuit:
// rulings found, none found, or gateway failure. A failed authoritative
// lookup is reported, not silently masked by a generated answer.
func (r *Router) lookupRulings(ctx context.Context, rc *observability.RequestContext, message, term string) *RouterResult {
	searchCtx, cancel := context.WithTimeout(ctx, r.gatewayTimeout)
	defer cancel()

	rulings, err := r.gateway.Search(searchCtx, term, cross.SearchOptions{PageSize: r.maxRulings})
	if err != nil {
		rc.Warn("cross lookup failed",
			slog.String(observability.LogFieldTerm, term),
			slog.String(observability.LogFieldErrorCode, string(apperr.CodeOf(err))),
			slog.Any("error", err),
		)
		return errorResult(KindCrossRulings, apperr.UserMessage(err))
	}

	if r.enrichBackend && r.backend != nil {
		return r.enrichAndAsk(ctx, rc, message, term, rulings)
	}

	if len(rulings) == 0 {
		rc.Info("no rulings found", slog.String(observability.LogFieldTerm, term))
		return textResult(KindCrossRulings, fmt.Sprintf("No CROSS rulings were found for '%s'.", term))
	}

	rc.Info("rulings found",
		slog.String(observability.LogFieldTerm, term),
		slog.Int("count", len(rulings)),
	)
	res := textResult(KindCrossRulings, cross.FormatRulings(rulings, r.maxRulings))
	res.CrossRulings = rulings
	return res
}

// enrichAndAsk runs the legacy policy: ruling data becomes backend
// context rather than the answer itself.
func (r *Router) enrichAndAsk(ctx context.Context, rc *observability.RequestContext, message, term string, rulings []cross.Ruling) *RouterResult {
	contexts := cross.FormatContext(rulings, r.maxRulings)
	if len(rulings) == 0 {
		contexts = fmt.Sprintf("No specific CROSS rulings were found for '%s'.", term)
	}

	rc.Info("enriching backend prompt with rulings",
		slog.String(observability.LogFieldTerm, term),
		slog.Int("count", len(rulings)),
	)
	res := r.callBackend(ctx, rc, message, contexts)
	if len(rulings) > 0 {
		res.CrossRulings = rulings
	}
	return res
}

// callBackend forwards the question to the configured AI backend, or
// answers with the canned bypass reply when none is configured.
func (r *Router) callBackend(ctx context.Context, rc *observability.RequestContext, message, contexts string) *RouterResult {
	if r.backend == nil {
		return textResult(KindBypass, bypassReply)
	}

	askCtx, cancel := context.WithTimeout(ctx, r.backendTimeout)
	defer cancel()

	answer, err := r.backend.Ask(askCtx, message, contexts)
	if err != nil {
		rc.Warn("backend call failed",
			slog.String(observability.LogFieldErrorCode, string(apperr.CodeOf(err))),
			slog.Any("error", err),
		)
		return errorResult(KindError, apperr.UserMessage(err))
	}

	res := textResult(r.backend.Kind(), answer.Text)
	if len(answer.History) > 0 {
		res.History = answer.History
	}
	return res
}
