// Package google provides a model.ChatModel adapter for the Gemini API.
package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/dshills/warplan/planner/model"
)

// DefaultModel is used when NewChatModel receives an empty model name.
const DefaultModel = "gemini-2.0-flash"

const providerName = "google"

// ChatModel implements model.ChatModel for Google's Gemini API.
//
// System messages become the model's system instruction. Assistant turns
// are replayed as chat history with the "model" role. Blocked prompts and
// candidates surface as *SafetyFilterError; other failures as
// *model.APIError.
//
//	m := google.NewChatModel(os.Getenv("GOOGLE_API_KEY"), "", model.WithJSONOutput())
//	out, err := m.Chat(ctx, messages, nil)
//	var safetyErr *google.SafetyFilterError
//	if errors.As(err, &safetyErr) {
//	    log.Printf("blocked: %s", safetyErr.Category())
//	}
type ChatModel struct {
	modelName string
	config    model.Config
	client    googleClient
}

// request is the provider-shaped form of a Chat call.
type request struct {
	system  *genai.Content
	tools   []*genai.Tool
	history []*genai.Content
	parts   []genai.Part
	config  model.Config
}

// googleClient is the seam between the adapter and the SDK.
type googleClient interface {
	generateContent(ctx context.Context, req request) (*genai.GenerateContentResponse, error)
}

// NewChatModel creates a Gemini chat model. An empty modelName selects
// DefaultModel. The API key is checked on first use.
func NewChatModel(apiKey, modelName string, opts ...model.Option) *ChatModel {
	if modelName == "" {
		modelName = DefaultModel
	}

	return &ChatModel{
		modelName: modelName,
		config:    model.NewConfig(opts...),
		client:    &defaultClient{apiKey: apiKey, modelName: modelName},
	}
}

// ModelName returns the Gemini model identifier.
func (m *ChatModel) ModelName() string {
	return m.modelName
}

// Chat implements the model.ChatModel interface.
//
// It sends one request and never retries. Returns:
//   - the reply text, tool calls and token usage
//   - ctx.Err() when the context is already done
//   - *model.APIError for provider failures, classified by status code
//   - *SafetyFilterError when Gemini blocks the prompt or the reply
//   - model.ErrMissingAPIKey when the model was built without a key
//
// Example:
//
//	m := google.NewChatModel(os.Getenv("GOOGLE_API_KEY"), "")
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

	req := buildRequest(messages, tools, m.config)
	if len(req.parts) == 0 {
		return model.ChatOut{}, errors.New("google: no user content to send")
	}

	resp, err := m.client.generateContent(ctx, req)
	if err != nil {
		return model.ChatOut{}, mapError(err)
	}

	return convertResponse(resp), nil
}

// defaultClient wraps the official Gemini SDK client. A client is created
// per call and closed before returning.
type defaultClient struct {
	apiKey    string
	modelName string
}

func (c *defaultClient) generateContent(ctx context.Context, req request) (*genai.GenerateContentResponse, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("google: %w", model.ErrMissingAPIKey)
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google client: %w", err)
	}
	defer func() {
		_ = client.Close()
	}()

	genModel := client.GenerativeModel(c.modelName)
	genModel.SystemInstruction = req.system
	if len(req.tools) > 0 {
		genModel.Tools = req.tools
	}
	if req.config.JSONOutput {
		genModel.ResponseMIMEType = "application/json"
	}
	if req.config.MaxTokens > 0 {
		genModel.SetMaxOutputTokens(int32(req.config.MaxTokens))
	}
	if req.config.HasTemperature {
		genModel.SetTemperature(float32(req.config.Temperature))
	}

	if len(req.history) == 0 {
		return genModel.GenerateContent(ctx, req.parts...)
	}

	session := genModel.StartChat()
	session.History = req.history
	return session.SendMessage(ctx, req.parts...)
}

// buildRequest converts messages into Gemini form. The final user turn is
// sent as parts; earlier turns become history. An empty user turn is sent
// as an empty text part so the service decides whether to accept it.
func buildRequest(messages []model.Message, tools []model.ToolSpec, cfg model.Config) request {
	req := request{config: cfg}

	system, rest := model.SplitSystem(messages)
	if system != "" {
		req.system = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if len(tools) > 0 {
		req.tools = convertTools(tools)
	}

	var contents []*genai.Content
	for _, msg := range rest {
		role := "user"
		if msg.Role == model.RoleAssistant {
			role = "model"
			if msg.Content == "" {
				continue
			}
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}

	if n := len(contents); n > 0 && contents[n-1].Role == "user" {
		req.parts = contents[n-1].Parts
		req.history = contents[:n-1]
	}
	return req
}

func convertTools(tools []model.ToolSpec) []*genai.Tool {
	declarations := make([]*genai.FunctionDeclaration, len(tools))
	for i, tool := range tools {
		declarations[i] = &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
			Parameters:  convertSchema(tool.Schema),
		}
	}
	return []*genai.Tool{{FunctionDeclarations: declarations}}
}

// convertSchema converts a JSON schema map into a genai.Schema. Nested
// objects and array items are converted recursively; keywords Gemini does
// not support are dropped.
func convertSchema(schema map[string]interface{}) *genai.Schema {
	if schema == nil {
		return nil
	}

	result := &genai.Schema{Type: genai.TypeObject}
	if typeStr, ok := schema["type"].(string); ok {
		result.Type = convertTypeString(typeStr)
	}
	if desc, ok := schema["description"].(string); ok {
		result.Description = desc
	}

	if props, ok := schema["properties"].(map[string]interface{}); ok {
		result.Properties = make(map[string]*genai.Schema, len(props))
		for key, val := range props {
			if propMap, ok := val.(map[string]interface{}); ok {
				result.Properties[key] = convertSchema(propMap)
			}
		}
	}

	if items, ok := schema["items"].(map[string]interface{}); ok {
		result.Items = convertSchema(items)
	}

	if enum, ok := schema["enum"].([]interface{}); ok {
		for _, v := range enum {
			if s, ok := v.(string); ok {
				result.Enum = append(result.Enum, s)
			}
		}
	}

	switch required := schema["required"].(type) {
	case []string:
		result.Required = required
	case []interface{}:
		for _, v := range required {
			if s, ok := v.(string); ok {
				result.Required = append(result.Required, s)
			}
		}
	}

	return result
}

func convertTypeString(typeStr string) genai.Type {
	switch typeStr {
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	case "object":
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}

func convertResponse(resp *genai.GenerateContentResponse) model.ChatOut {
	out := model.ChatOut{}
	if resp == nil {
		return out
	}

	if resp.UsageMetadata != nil {
		out.Usage = model.Usage{
			InputTokens:  int(resp.UsageMetadata.PromptTokenCount),
			OutputTokens: int(resp.UsageMetadata.CandidatesTokenCount),
		}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return out
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			if out.Text != "" {
				out.Text += "\n"
			}
			out.Text += string(p)
		case genai.FunctionCall:
			out.ToolCalls = append(out.ToolCalls, model.ToolCall{
				Name:  p.Name,
				Input: p.Args,
			})
		}
	}

	return out
}

// mapError turns SDK errors into *SafetyFilterError or *model.APIError.
func mapError(err error) error {
	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return newSafetyFilterError(blocked)
	}
	if errors.Is(err, model.ErrMissingAPIKey) {
		return err
	}

	status := 0
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		status = gerr.Code
	}
	return model.ClassifyError(providerName, status, err)
}

// SafetyFilterError reports a prompt or response blocked by Gemini's
// safety filters.
//
//	var safetyErr *google.SafetyFilterError
//	if errors.As(err, &safetyErr) {
//	    log.Printf("blocked: %s (%s)", safetyErr.Category(), safetyErr.Reason())
//	}
type SafetyFilterError struct {
	reason   string
	category string
	err      error
}

func newSafetyFilterError(blocked *genai.BlockedError) *SafetyFilterError {
	sfe := &SafetyFilterError{reason: "SAFETY", err: blocked}

	var ratings []*genai.SafetyRating
	switch {
	case blocked.PromptFeedback != nil:
		sfe.reason = blocked.PromptFeedback.BlockReason.String()
		ratings = blocked.PromptFeedback.SafetyRatings
	case blocked.Candidate != nil:
		sfe.reason = blocked.Candidate.FinishReason.String()
		ratings = blocked.Candidate.SafetyRatings
	}

	for _, r := range ratings {
		if r != nil && r.Blocked {
			sfe.category = r.Category.String()
			break
		}
	}
	return sfe
}

// Error implements the error interface.
func (e *SafetyFilterError) Error() string {
	if e.category == "" {
		return "content blocked by safety filter: " + e.reason
	}
	return "content blocked by safety filter: " + e.category
}

// Unwrap returns the SDK error, when there is one.
func (e *SafetyFilterError) Unwrap() error {
	return e.err
}

// Category returns the harm category that triggered the block, if known.
func (e *SafetyFilterError) Category() string {
	return e.category
}

// Reason returns why the content was blocked.
func (e *SafetyFilterError) Reason() string {
	return e.reason
}
