// Package anthropic provides a model.ChatModel adapter for Anthropic's
// Messages API.
package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/dshills/warplan/planner/model"
)

// DefaultModel is used when NewChatModel receives an empty model name.
const DefaultModel = "claude-3-5-sonnet-20241022"

// defaultMaxTokens is sent when no limit is configured; the API requires one.
const defaultMaxTokens = 4096

const providerName = "anthropic"

// ChatModel implements model.ChatModel for Claude models.
//
// System messages are sent in the dedicated system field. The Messages API
// has no JSON response mode, so WithJSONOutput has no effect here and the
// caller's prompt must ask for JSON.
type ChatModel struct {
	modelName string
	config    model.Config
	client    anthropicClient
}

// anthropicClient is the seam between the adapter and the SDK.
type anthropicClient interface {
	createMessage(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error)
}

// NewChatModel creates an Anthropic chat model. An empty modelName selects
// DefaultModel.
func NewChatModel(apiKey, modelName string, opts ...model.Option) *ChatModel {
	if modelName == "" {
		modelName = DefaultModel
	}

	return &ChatModel{
		modelName: modelName,
		config:    model.NewConfig(opts...),
		client:    newDefaultClient(apiKey),
	}
}

// ModelName returns the Claude model identifier.
func (m *ChatModel) ModelName() string {
	return m.modelName
}

// Chat implements the model.ChatModel interface.
//
// It sends one request and never retries. Returns:
//   - the reply text, tool calls and token usage
//   - ctx.Err() when the context is already done
//   - *model.APIError for provider failures, classified by status code
//
// Example:
//
//	m := anthropic.NewChatModel(os.Getenv("ANTHROPIC_API_KEY"), "")
//	out, err := m.Chat(ctx, []model.Message{
//	    {Role: model.RoleSystem, Content: "Reply with a JSON plan."},
//	    {Role: model.RoleUser, Content: "Move Arthur to the Forest"},
//	}, nil)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(out.Text, out.Usage.Total())
func (m *ChatModel) Chat(ctx context.Context, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error) {
	if ctx.Err() != nil {
		return model.ChatOut{}, ctx.Err()
	}

	msg, err := m.client.createMessage(ctx, m.buildParams(messages, tools))
	if err != nil {
		return model.ChatOut{}, mapError(err)
	}

	return convertResponse(msg)
}

func (m *ChatModel) buildParams(messages []model.Message, tools []model.ToolSpec) anthropic.MessageNewParams {
	system, rest := model.SplitSystem(messages)

	maxTokens := int64(defaultMaxTokens)
	if m.config.MaxTokens > 0 {
		maxTokens = int64(m.config.MaxTokens)
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(m.modelName),
		MaxTokens: maxTokens,
		Messages:  convertMessages(rest),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if len(tools) > 0 {
		params.Tools = convertTools(tools)
	}
	if m.config.HasTemperature {
		params.Temperature = anthropic.Float(m.config.Temperature)
	}
	return params
}

func convertMessages(messages []model.Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(messages))
	for _, msg := range messages {
		block := anthropic.NewTextBlock(msg.Content)
		if msg.Role == model.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(block))
			continue
		}
		out = append(out, anthropic.NewUserMessage(block))
	}
	return out
}

func convertTools(tools []model.ToolSpec) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, len(tools))
	for i, tool := range tools {
		schema := anthropic.ToolInputSchemaParam{}
		if props, ok := tool.Schema["properties"]; ok {
			schema.Properties = props
		}
		schema.Required = requiredFields(tool.Schema)

		out[i] = anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        tool.Name,
				Description: anthropic.String(tool.Description),
				InputSchema: schema,
			},
		}
	}
	return out
}

func requiredFields(schema map[string]interface{}) []string {
	switch required := schema["required"].(type) {
	case []string:
		return required
	case []interface{}:
		out := make([]string, 0, len(required))
		for _, v := range required {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func convertResponse(msg *anthropic.Message) (model.ChatOut, error) {
	if msg == nil {
		return model.ChatOut{}, errors.New("no response from Anthropic API")
	}

	out := model.ChatOut{
		Usage: model.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}

	var text []string
	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			text = append(text, block.Text)
		case "tool_use":
			var input map[string]interface{}
			if len(block.Input) > 0 {
				if err := json.Unmarshal(block.Input, &input); err != nil {
					return model.ChatOut{}, fmt.Errorf("invalid input for tool call %q: %w", block.Name, err)
				}
			}
			out.ToolCalls = append(out.ToolCalls, model.ToolCall{Name: block.Name, Input: input})
		}
	}
	out.Text = strings.Join(text, "\n")

	return out, nil
}

func mapError(err error) error {
	if errors.Is(err, model.ErrMissingAPIKey) {
		return err
	}

	status := 0
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
	}
	return model.ClassifyError(providerName, status, err)
}

// defaultClient wraps the official anthropic-sdk-go client.
type defaultClient struct {
	apiKey string
	client anthropic.Client
}

func newDefaultClient(apiKey string) *defaultClient {
	return &defaultClient{
		apiKey: apiKey,
		client: anthropic.NewClient(
			option.WithAPIKey(apiKey),
			option.WithMaxRetries(0),
		),
	}
}

func (c *defaultClient) createMessage(ctx context.Context, params anthropic.MessageNewParams) (*anthropic.Message, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("anthropic: %w", model.ErrMissingAPIKey)
	}
	return c.client.Messages.New(ctx, params)
}
