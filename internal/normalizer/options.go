package normalizer

import (
	"strings"

	"txt2xlsx/internal/config"
)

// Options is the immutable line layout used by the normalizer.
type Options struct {
	Delimiter  string
	SkipTokens []string
	Columns    config.ColumnsConfig
}

// OptionsFromConfig builds normalizer options from a validated configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Delimiter:  cfg.Input.Delimiter,
		SkipTokens: append([]string(nil), cfg.Location.SkipTokens...),
		Columns:    cfg.Columns,
	}
}

// DefaultOptions returns the options for the built-in layout.
func DefaultOptions() Options {
	return OptionsFromConfig(config.Default())
}

func (o Options) skipSet() map[string]struct{} {
	set := make(map[string]struct{}, len(o.SkipTokens))
	for _, tok := range o.SkipTokens {
		set[strings.ToLower(trimSpace(tok))] = struct{}{}
	}

	return set
}
