package model

// Config holds request settings shared by all provider adapters.
type Config struct {
	// JSONOutput asks the provider for a JSON object response when it
	// supports a dedicated mode.
	JSONOutput bool

	// MaxTokens caps the response length. Zero uses the provider default.
	MaxTokens int

	// Temperature is applied only when HasTemperature is set.
	Temperature    float64
	HasTemperature bool
}

// Option configures an adapter.
type Option func(*Config)

// WithJSONOutput requests JSON object output.
func WithJSONOutput() Option {
	return func(c *Config) {
		c.JSONOutput = true
	}
}

// WithMaxTokens caps the number of generated tokens.
func WithMaxTokens(n int) Option {
	return func(c *Config) {
		c.MaxTokens = n
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(c *Config) {
		c.Temperature = t
		c.HasTemperature = true
	}
}

// NewConfig applies opts over the zero Config.
func NewConfig(opts ...Option) Config {
	var c Config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// SplitSystem separates system messages from the conversation. Providers
// that take the system prompt as a separate field use it; multiple system
// messages are joined with a blank line.
func SplitSystem(messages []Message) (system string, rest []Message) {
	for _, msg := range messages {
		if msg.Role == RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
			continue
		}
		rest = append(rest, msg)
	}
	return system, rest
}
