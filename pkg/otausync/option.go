package otausync

import (
	"context"
)

type config struct {
	DryRun  bool
	OnEntry func(context.Context, Entry)
}

// Option is an abstract option for New.
type Option interface {
	apply(*config)
}

// OptionDryRun makes Sync only report which files would be downloaded.
// Neither the directory nor any file is created.
type OptionDryRun bool

func (opt OptionDryRun) apply(cfg *config) {
	cfg.DryRun = bool(opt)
}

// OptionOnEntry sets a function called after each manifest entry with a
// binary URL was processed.
type OptionOnEntry func(context.Context, Entry)

func (opt OptionOnEntry) apply(cfg *config) {
	cfg.OnEntry = opt
}

func getConfig(opts ...Option) config {
	var cfg config
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	return cfg
}
