// Package architect runs the conversation loop between a chat model and
// the drawio runtime: it relays the model's function calls to runtime
// operations and feeds the results back until the model answers in text.
package architect

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/flexigpt/drawioagent-go/spec"
)

const (
	// DefaultModel is the Gemini model used when none is configured.
	DefaultModel = "gemini-2.5-flash"

	// DefaultMaxToolTurns bounds how many rounds of function calls a
	// single Ask may spend before giving up.
	DefaultMaxToolTurns = 8
)

// Function names the model calls with. These are the model-facing
// handles, distinct from the llmtools slugs.
const (
	funcSearchTemplates = "search_templates"
	funcExtractPattern  = "extract_and_save_pattern"
	funcSaveDiagram     = "save_diagram"
	funcListLibrary     = "list_library"
)

// ToolCall is one function call requested by the model.
type ToolCall struct {
	Name string
	Args map[string]any
}

// ToolResult carries one call's outcome back to the model. Payload is
// the JSON object form of the runtime result, or {"error": ...} when the
// call failed.
type ToolResult struct {
	Name    string
	Payload map[string]any
}

// ModelTurn is one model response: free text, function calls, or both.
type ModelTurn struct {
	Text  string
	Calls []ToolCall
}

// ChatModel is a stateful conversation with a model that supports
// function calling. Implementations own the conversation history.
type ChatModel interface {
	Send(ctx context.Context, text string) (ModelTurn, error)
	SendToolResults(ctx context.Context, results []ToolResult) (ModelTurn, error)
}

type Architect struct {
	model  ChatModel
	rt     spec.Runtime
	logger *slog.Logger

	maxToolTurns int
}

type Option func(*Architect) error

func WithLogger(l *slog.Logger) Option {
	return func(a *Architect) error {
		a.logger = l
		return nil
	}
}

// WithMaxToolTurns overrides DefaultMaxToolTurns.
func WithMaxToolTurns(n int) Option {
	return func(a *Architect) error {
		if n <= 0 {
			return fmt.Errorf("%w: max tool turns must be positive", spec.ErrInvalidArgument)
		}
		a.maxToolTurns = n
		return nil
	}
}

func New(model ChatModel, rt spec.Runtime, opts ...Option) (*Architect, error) {
	if model == nil {
		return nil, fmt.Errorf("%w: nil model", spec.ErrInvalidArgument)
	}
	if rt == nil {
		return nil, fmt.Errorf("%w: nil runtime", spec.ErrInvalidArgument)
	}
	a := &Architect{
		model:        model,
		rt:           rt,
		logger:       slog.Default(),
		maxToolTurns: DefaultMaxToolTurns,
	}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o(a); err != nil {
			return nil, err
		}
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a, nil
}

// Ask sends the prompt and serves the model's function calls until it
// answers in plain text. Tool failures are relayed to the model as
// {"error": ...} payloads rather than aborting the conversation, so the
// model can recover or explain.
func (a *Architect) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is required", spec.ErrInvalidArgument)
	}

	turn, err := a.model.Send(ctx, prompt)
	if err != nil {
		return "", err
	}

	for round := 0; len(turn.Calls) > 0; round++ {
		if round >= a.maxToolTurns {
			return "", fmt.Errorf("model exceeded %d tool turns", a.maxToolTurns)
		}

		results := make([]ToolResult, 0, len(turn.Calls))
		for _, call := range turn.Calls {
			payload := a.dispatch(ctx, call)
			if errMsg, failed := payload["error"]; failed {
				a.logger.Warn("tool call failed", "name", call.Name, "error", errMsg)
			}
			results = append(results, ToolResult{Name: call.Name, Payload: payload})
		}

		turn, err = a.model.SendToolResults(ctx, results)
		if err != nil {
			return "", err
		}
	}

	return turn.Text, nil
}

func (a *Architect) dispatch(ctx context.Context, call ToolCall) map[string]any {
	a.logger.Debug("dispatching tool call", "name", call.Name)

	switch call.Name {
	case funcSearchTemplates:
		return invoke(ctx, call.Args, a.rt.SearchTemplates)
	case funcExtractPattern:
		return invoke(ctx, call.Args, a.rt.ExtractPattern)
	case funcSaveDiagram:
		return invoke(ctx, call.Args, a.rt.SaveDiagram)
	case funcListLibrary:
		return invoke(ctx, call.Args, a.rt.ListLibrary)
	default:
		return errPayload(fmt.Errorf("unknown tool: %s", call.Name))
	}
}

// invoke decodes the model's loose argument map into typed args, runs
// the operation, and re-encodes the result as a JSON object.
func invoke[A, R any](
	ctx context.Context,
	raw map[string]any,
	fn func(context.Context, A) (R, error),
) map[string]any {
	var args A
	if err := decodeArgs(raw, &args); err != nil {
		return errPayload(fmt.Errorf("decode args: %w", err))
	}
	res, err := fn(ctx, args)
	if err != nil {
		return errPayload(err)
	}
	payload, err := encodeResult(res)
	if err != nil {
		return errPayload(fmt.Errorf("encode result: %w", err))
	}
	return payload
}

func decodeArgs(raw map[string]any, into any) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, into)
}

func encodeResult(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	out := map[string]any{}
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func errPayload(err error) map[string]any {
	return map[string]any{"error": err.Error()}
}
