package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/churchill/log"
)

// resolve is a [kong.ConfigurationLoader] that reads a YAML configuration
// file, as written by the init command.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve, "/path/to/config.yaml")
//
// Keys are flag names. Nested mappings are joined with hyphens, and
// underscores may be used in place of hyphens, so the following are
// equivalent:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// Sequences are accepted for repeatable flags. Command-line flags override
// configuration file values. A file that cannot be parsed is ignored with a
// warning.
func resolve(r io.Reader) (kong.Resolver, error) {
	var raw map[string]any

	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if !errors.Is(err, io.EOF) {
			log.Warn("ignoring invalid configuration file", slog.Any("error", err))
		}

		return config{}, nil
	}

	cfg := make(config, len(raw))
	cfg.flatten("", raw)

	return cfg, nil
}

// config implements [kong.Resolver] for YAML configuration files.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for key, val := range m {
		key = strings.ReplaceAll(key, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := val.(map[string]any); ok {
			c.flatten(key, sub)

			continue
		}

		c[key] = flagString(val)
	}
}

// flagString converts a decoded YAML value to the form Kong parses flags
// from. Booleans are kept as is.
func flagString(val any) any {
	switch v := val.(type) {
	case bool, string:
		return v

	case int:
		return strconv.Itoa(v)

	case uint64:
		return strconv.FormatUint(v, 10)

	case int64:
		return strconv.FormatInt(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)

	case []any:
		elems := make([]string, len(v))
		for i, e := range v {
			elems[i] = fmt.Sprint(flagString(e))
		}

		return strings.Join(elems, ",")

	default:
		return fmt.Sprint(v)
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	// Not found - return nil to let Kong use defaults
	return nil, nil
}
