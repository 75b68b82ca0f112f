// Package backend selects the chat model adapter for a configuration.
package backend

import (
	"fmt"

	"github.com/dshills/warplan/internal/config"
	"github.com/dshills/warplan/planner/model"
	"github.com/dshills/warplan/planner/model/anthropic"
	"github.com/dshills/warplan/planner/model/google"
	"github.com/dshills/warplan/planner/model/openai"
)

// Backend is a configured chat model plus the names used for pricing,
// events and metric labels.
type Backend struct {
	Provider  string
	ModelName string
	Model     model.ChatModel
}

// New builds the adapter for cfg.Provider.
//
// Plans are requested in JSON mode unless native tool calling is enabled;
// Gemini rejects function declarations combined with a JSON response type.
func New(cfg *config.Config) (*Backend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for provider %q", config.ErrMissingCredential, cfg.Provider)
	}

	var opts []model.Option
	if !cfg.NativeTools {
		opts = append(opts, model.WithJSONOutput())
	}
	if cfg.MaxTokens > 0 {
		opts = append(opts, model.WithMaxTokens(cfg.MaxTokens))
	}

	b := &Backend{Provider: cfg.Provider}
	switch cfg.Provider {
	case config.ProviderGoogle:
		m := google.NewChatModel(cfg.APIKey, cfg.Model, opts...)
		b.Model, b.ModelName = m, m.ModelName()
	case config.ProviderOpenAI:
		m := openai.NewChatModel(cfg.APIKey, cfg.Model, opts...)
		b.Model, b.ModelName = m, m.ModelName()
	case config.ProviderAnthropic:
		m := anthropic.NewChatModel(cfg.APIKey, cfg.Model, opts...)
		b.Model, b.ModelName = m, m.ModelName()
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, cfg.Provider)
	}
	return b, nil
}
