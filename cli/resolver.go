package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/tzlang/log"
)

// resolve returns a [kong.ConfigurationLoader] that reads YAML config files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(ctx), "/path/to/config.yaml")
//
// Nested mappings are flattened by joining keys with hyphens, so both of
// the following set --log-level:
//
//	log-level: debug
//
//	log:
//	  level: debug
//
// Keys may use underscores in place of hyphens. Command-line flags override
// config file values.
func resolve(ctx context.Context) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		var doc map[string]any

		err := yaml.NewDecoder(r).DecodeContext(ctx, &doc)
		if err != nil && !errors.Is(err, io.EOF) {
			// A broken config file must not prevent the CLI from running.
			log.WarnContext(ctx, "ignoring invalid config", slog.Any("error", err))

			return config{}, nil
		}

		cfg := config{}
		flatten(cfg, "", doc)

		return cfg, nil
	}
}

// config implements [kong.Resolver] over a flattened config document.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (r config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	name := flag.Name

	if value, ok := r[name]; ok {
		return value, nil
	}

	if value, ok := r[strings.ReplaceAll(name, "-", "_")]; ok {
		return value, nil
	}

	// Not found: kong uses the flag default.
	return nil, nil
}

// flatten copies the leaves of doc into cfg. Kong parses scalar values
// from strings, so numbers are formatted here.
func flatten(cfg config, prefix string, doc map[string]any) {
	for _, key := range slices.Sorted(maps.Keys(doc)) {
		name := key
		if prefix != "" {
			name = prefix + "-" + key
		}

		switch v := doc[key].(type) {
		case map[string]any:
			flatten(cfg, name, v)
		case int:
			cfg[name] = strconv.Itoa(v)
		case int64:
			cfg[name] = strconv.FormatInt(v, 10)
		case uint64:
			cfg[name] = strconv.FormatUint(v, 10)
		case float64:
			cfg[name] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			cfg[name] = v
		}
	}
}
