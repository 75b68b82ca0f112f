// Package openai provides a model.ChatModel adapter for OpenAI chat completions.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/dshills/warplan/planner/model"
)

// DefaultModel is used when NewChatModel receives an empty model name.
const DefaultModel = "gpt-4o-mini"

const providerName = "openai"

// ChatModel implements model.ChatModel for OpenAI's chat completions API.
//
// The SDK's built-in retries are disabled; a failed request is reported as a
// *model.APIError on the first attempt.
//
//	m := openai.NewChatModel(os.Getenv("OPENAI_API_KEY"), "gpt-4o", model.WithJSONOutput())
type ChatModel struct {
	modelName string
	config    model.Config
	client    openaiClient
}

// openaiClient is the seam between the adapter and the SDK.
type openaiClient interface {
	createChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// NewChatModel creates an OpenAI chat model. An empty modelName selects
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

// ModelName returns the OpenAI model identifier.
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
//	m := openai.NewChatModel(os.Getenv("OPENAI_API_KEY"), "")
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

	completion, err := m.client.createChatCompletion(ctx, m.buildParams(messages, tools))
	if err != nil {
		return model.ChatOut{}, mapError(err)
	}

	return convertResponse(completion)
}

func (m *ChatModel) buildParams(messages []model.Message, tools []model.ToolSpec) openai.ChatCompletionNewParams {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(m.modelName),
		Messages: convertMessages(messages),
	}

	if len(tools) > 0 {
		params.Tools = convertTools(tools)
	}
	if m.config.JSONOutput {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: openai.Ptr(shared.NewResponseFormatJSONObjectParam()),
		}
	}
	if m.config.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(m.config.MaxTokens))
	}
	if m.config.HasTemperature {
		params.Temperature = openai.Float(m.config.Temperature)
	}

	return params
}

func convertMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case model.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

func convertTools(tools []model.ToolSpec) []openai.ChatCompletionToolParam {
	out := make([]openai.ChatCompletionToolParam, len(tools))
	for i, tool := range tools {
		out[i] = openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        tool.Name,
				Description: openai.String(tool.Description),
				Parameters:  shared.FunctionParameters(tool.Schema),
			},
		}
	}
	return out
}

func convertResponse(completion *openai.ChatCompletion) (model.ChatOut, error) {
	if completion == nil || len(completion.Choices) == 0 {
		return model.ChatOut{}, errors.New("no response from OpenAI API")
	}

	msg := completion.Choices[0].Message
	out := model.ChatOut{
		Text: msg.Content,
		Usage: model.Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
		},
	}

	for _, call := range msg.ToolCalls {
		var input map[string]interface{}
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &input); err != nil {
				return model.ChatOut{}, fmt.Errorf("invalid arguments for tool call %q: %w", call.Function.Name, err)
			}
		}
		out.ToolCalls = append(out.ToolCalls, model.ToolCall{
			Name:  call.Function.Name,
			Input: input,
		})
	}

	return out, nil
}

func mapError(err error) error {
	if errors.Is(err, model.ErrMissingAPIKey) {
		return err
	}

	status := 0
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		status = apiErr.StatusCode
	}
	return model.ClassifyError(providerName, status, err)
}

// defaultClient wraps the official openai-go client.
type defaultClient struct {
	apiKey string
	client openai.Client
}

func newDefaultClient(apiKey string) *defaultClient {
	return &defaultClient{
		apiKey: apiKey,
		client: openai.NewClient(
			option.WithAPIKey(apiKey),
			option.WithMaxRetries(0),
		),
	}
}

func (c *defaultClient) createChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openai: %w", model.ErrMissingAPIKey)
	}
	return c.client.Chat.Completions.New(ctx, params)
}
