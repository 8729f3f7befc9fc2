package config

import "github.com/heliolab/seriesq/pkg/parser"

// Default configuration values.
const (
	DefaultOutput = "table"
)

// DefaultLimits returns the default parser limits as configuration.
func DefaultLimits() LimitsConfig {
	limits := parser.DefaultLimits()
	return LimitsConfig{
		MaxIdentifierLength: limits.MaxIdentLen,
		MaxPredicates:       limits.MaxPredicates,
		MaxDimensions:       limits.MaxDimensions,
		MaxIntegerDigits:    limits.MaxIntDigits,
	}
}

// ApplyDefaults fills in zero-valued fields of the configuration.
func ApplyDefaults(c *Config) {
	if c == nil {
		return
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	defaults := DefaultLimits()
	if c.Limits.MaxIdentifierLength == 0 {
		c.Limits.MaxIdentifierLength = defaults.MaxIdentifierLength
	}
	if c.Limits.MaxPredicates == 0 {
		c.Limits.MaxPredicates = defaults.MaxPredicates
	}
	if c.Limits.MaxDimensions == 0 {
		c.Limits.MaxDimensions = defaults.MaxDimensions
	}
	if c.Limits.MaxIntegerDigits == 0 {
		c.Limits.MaxIntegerDigits = defaults.MaxIntegerDigits
	}
}
