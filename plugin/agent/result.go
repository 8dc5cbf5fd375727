package agent

import (
	"github.com/tariffwise/crossagent/plugin/cross"
)

// ResultKind tags a RouterResult. The set is closed; callers branch on
// the kind rather than inspecting error presence alone.
type ResultKind string

const (
	// KindBypass is returned when no AI backend is configured.
	KindBypass ResultKind = "bypass_result"
	// KindCrossRulings is returned for any outcome of the ruling path,
	// including its failures.
	KindCrossRulings ResultKind = "cross_rulings_result"
	// KindAgent is returned by the stateful agent backend.
	KindAgent ResultKind = "customs_agent_result"
	// KindAgentText is returned by the stateless prompt-flow backend.
	KindAgentText ResultKind = "customs_agent_text_result"
	// KindError is returned for unanticipated failures.
	KindError ResultKind = "error"
)

// RouterResult is the unit returned to the caller. Exactly one of
// Result/Error is non-nil on any terminal path, except the explicit
// "no rulings found" case which carries an explanatory Result.
type RouterResult struct {
	Kind         ResultKind     `json:"kind"`
	Result       *string        `json:"result"`
	CrossRulings []cross.Ruling `json:"cross_rulings"`
	History      []string       `json:"history"`
	Error        *string        `json:"error"`
}

func textResult(kind ResultKind, text string) *RouterResult {
	return &RouterResult{
		Kind:         kind,
		Result:       &text,
		CrossRulings: []cross.Ruling{},
		History:      []string{},
	}
}

func errorResult(kind ResultKind, message string) *RouterResult {
	return &RouterResult{
		Kind:         kind,
		CrossRulings: []cross.Ruling{},
		History:      []string{},
		Error:        &message,
	}
}
