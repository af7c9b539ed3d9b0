package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	"hermes/internal/metrics"
	"hermes/internal/tools"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

const defaultMaxTurns = 8

// ResponsesClient is the slice of the OpenAI SDK the agent needs. Satisfied
// by *responses.ResponseService.
type ResponsesClient interface {
	New(ctx context.Context, params responses.ResponseNewParams, opts ...option.RequestOption) (*responses.Response, error)
}

// Config carries the agent's model settings.
type Config struct {
	Model string
	// Character shapes the assistant's voice; prepended to the system prompt.
	Character string
	// MaxTurns bounds model round-trips per request so a confused model
	// cannot loop forever.
	MaxTurns int
}

// Agent runs the conversation loop: user message in, tool calls dispatched,
// final assistant text out.
type Agent struct {
	cfg      Config
	client   ResponsesClient
	registry *tools.Registry
	log      *logger.Logger
}

// New creates an agent over a Responses API client and a tool registry.
func New(cfg Config, client ResponsesClient, registry *tools.Registry) *Agent {
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = defaultMaxTurns
	}
	return &Agent{
		cfg:      cfg,
		client:   client,
		registry: registry,
		log:      logger.Get().With("component", "agent"),
	}
}

// NewOpenAIClient builds the SDK client for production wiring.
func NewOpenAIClient(apiKey string) ResponsesClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &client.Responses
}

// Respond handles one user message, running tool calls until the model
// produces a final text answer.
func (a *Agent) Respond(ctx context.Context, handle, message string) (reply string, err error) {
	if handle == "" {
		return "", errors.NewValidationError("handle", "must not be empty", handle)
	}
	if strings.TrimSpace(message) == "" {
		return "", errors.NewValidationError("message", "must not be empty", message)
	}
	defer func() {
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.AgentRequests.WithLabelValues(status).Inc()
	}()

	ctx = tools.WithUserHandle(ctx, handle)

	items := []responses.ResponseInputItemUnionParam{
		responses.ResponseInputItemParamOfMessage(a.systemPrompt(), responses.EasyInputMessageRoleSystem),
		responses.ResponseInputItemParamOfMessage(message, responses.EasyInputMessageRoleUser),
	}
	toolParams := a.toolParams()

	for turn := 1; turn <= a.cfg.MaxTurns; turn++ {
		params := responses.ResponseNewParams{
			Model: a.cfg.Model,
			Input: responses.ResponseNewParamsInputUnion{OfInputItemList: items},
		}
		if len(toolParams) > 0 {
			params.Tools = toolParams
		}

		resp, err := a.client.New(ctx, params)
		if err != nil {
			return "", errors.Wrap(err, "model request failed")
		}

		text, calls := splitOutput(resp)
		if len(calls) == 0 {
			metrics.AgentTurns.WithLabelValues(a.cfg.Model).Observe(float64(turn))
			return text, nil
		}

		if text != "" {
			items = append(items, responses.ResponseInputItemParamOfMessage(
				text, responses.EasyInputMessageRoleAssistant))
		}
		for _, call := range calls {
			items = append(items,
				responses.ResponseInputItemParamOfFunctionCall(call.Arguments, call.CallID, call.Name))
			items = append(items,
				responses.ResponseInputItemParamOfFunctionCallOutput(call.CallID, a.dispatch(ctx, call)))
		}
	}

	return "", errors.Wrapf(errors.ErrInternal,
		"conversation did not settle within %d turns", a.cfg.MaxTurns)
}

type toolCall struct {
	CallID    string
	Name      string
	Arguments string
}

// splitOutput separates a response into assistant text and tool calls.
func splitOutput(resp *responses.Response) (string, []toolCall) {
	var text strings.Builder
	var calls []toolCall
	for _, item := range resp.Output {
		switch item.Type {
		case "function_call":
			calls = append(calls, toolCall{
				CallID:    item.CallID,
				Name:      item.Name,
				Arguments: item.Arguments,
			})
		case "message":
			for _, content := range item.Content {
				if content.Type == "output_text" {
					text.WriteString(content.Text)
				}
			}
		}
	}
	return text.String(), calls
}

// dispatch executes one tool call and serializes its result for the model.
// A bad tool name or malformed arguments become a failed result, never an
// aborted conversation.
func (a *Agent) dispatch(ctx context.Context, call toolCall) string {
	tool, ok := a.registry.Get(call.Name)
	if !ok {
		a.log.Warnw("model requested unknown tool", "tool", call.Name)
		return encodeResult(tools.Failure(fmt.Sprintf("Tool %s is not available.", call.Name)))
	}

	args := make(map[string]interface{})
	if call.Arguments != "" {
		if err := json.Unmarshal([]byte(call.Arguments), &args); err != nil {
			a.log.Warnw("malformed tool arguments", "tool", call.Name, "error", err)
			return encodeResult(tools.Failure("Tool arguments were not valid JSON."))
		}
	}

	result := tool.Execute(ctx, args, func(p tools.Progress) {
		a.log.Infow("tool progress", "tool", call.Name, "stage", p.Stage, "message", p.Message)
	})
	a.log.Infow("tool executed", "tool", call.Name, "success", result.Success)
	return encodeResult(result)
}

func encodeResult(r tools.Result) string {
	raw, err := json.Marshal(r)
	if err != nil {
		return `{"success":false,"message":"internal error"}`
	}
	return string(raw)
}

func (a *Agent) systemPrompt() string {
	var b strings.Builder
	if a.cfg.Character != "" {
		b.WriteString(a.cfg.Character)
		b.WriteString("\n\n")
	}
	b.WriteString("You are a crypto trading assistant. Use the available tools to act on the user's behalf. ")
	b.WriteString("Report tool outcomes honestly, including failures, and include transaction hashes when present. ")
	b.WriteString("Never invent balances, prices or transactions.")
	return b.String()
}

// toolParams converts registered tools into function declarations for the
// Responses API.
func (a *Agent) toolParams() []responses.ToolUnionParam {
	list := a.registry.List()
	params := make([]responses.ToolUnionParam, 0, len(list))
	for _, t := range list {
		params = append(params, responses.ToolUnionParam{
			OfFunction: &responses.FunctionToolParam{
				Name:        t.Name(),
				Description: openai.String(t.Description()),
				Parameters:  t.Schema().JSON(),
			},
		})
	}
	return params
}
