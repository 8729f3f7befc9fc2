// Package config provides the seriesq configuration types and loading.
// It is decoupled from CLI concerns so the engine and other tools can
// load configuration directly.
package config

import (
	"github.com/heliolab/seriesq/pkg/parser"
)

// LimitsConfig holds the configurable parser limits.
type LimitsConfig struct {
	// MaxIdentifierLength bounds identifiers and string literals.
	MaxIdentifierLength int `koanf:"max_identifier_length"`
	// MaxPredicates bounds the number of predicates composed into one
	// filter expression.
	MaxPredicates int `koanf:"max_predicates"`
	// MaxDimensions bounds the number of array-index dimensions.
	MaxDimensions int `koanf:"max_dimensions"`
	// MaxIntegerDigits bounds the digits of integer literals.
	MaxIntegerDigits int `koanf:"max_integer_digits"`
}

// ParserLimits converts the configuration to the parser's limit set.
func (c LimitsConfig) ParserLimits() parser.Limits {
	return parser.Limits{
		MaxIdentLen:   c.MaxIdentifierLength,
		MaxPredicates: c.MaxPredicates,
		MaxDimensions: c.MaxDimensions,
		MaxIntDigits:  c.MaxIntegerDigits,
	}
}

// Config holds the full seriesq configuration.
type Config struct {
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
	// Output selects the CLI output format (table, plain).
	Output string `koanf:"output"`
	// Limits holds the parser limits.
	Limits LimitsConfig `koanf:"limits"`
}
