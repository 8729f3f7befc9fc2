package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// Config file names, in lookup order.
const (
	ConfigFileName    = "seriesq.yaml"
	ConfigFileNameAlt = "seriesq.yml"
)

// EnvPrefix is the prefix of the environment variable overrides:
// SERIESQ_VERBOSE, SERIESQ_LIMITS_MAX_PREDICATES and so on.
const EnvPrefix = "SERIESQ_"

// findConfigFile returns the config file to use. An explicit path wins;
// otherwise the working directory is searched.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads the configuration from defaults, an optional config file,
// environment variables and flags. Precedence, highest to lowest:
// flags > env vars > config file > defaults.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := DefaultLimits()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"verbose":                      false,
		"output":                       DefaultOutput,
		"limits.max_identifier_length": defaults.MaxIdentifierLength,
		"limits.max_predicates":        defaults.MaxPredicates,
		"limits.max_dimensions":        defaults.MaxDimensions,
		"limits.max_integer_digits":    defaults.MaxIntegerDigits,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configFile := findConfigFile(cfgFile); configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	// SERIESQ_LIMITS_MAX_PREDICATES -> limits.max_predicates
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.Replace(key, "limits_", "limits.", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}
