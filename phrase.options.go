package phrase

import (
	"go.uber.org/zap"
)

// Option is a functional option for configuring a Template.
type Option func(*templateConfig)

// templateConfig holds the internal configuration for a Template.
type templateConfig struct {
	bracket Bracket
	logger  *zap.Logger
}

// defaultTemplateConfig returns the default template configuration.
func defaultTemplateConfig() *templateConfig {
	return &templateConfig{
		bracket: BracketCurly,
		logger:  nil,
	}
}

// WithBracket selects the delimiter pair surrounding keys.
// Default: BracketCurly
func WithBracket(bracket Bracket) Option {
	return func(c *templateConfig) {
		if bracket.Valid() {
			c.bracket = bracket
		}
	}
}

// WithLogger sets the logger for the template.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(c *templateConfig) {
		c.logger = logger
	}
}
