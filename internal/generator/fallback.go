package generator

import (
	"context"

	"github.com/examforge/examforge/internal/config"
)

// fallbackProvider tries each provider in order and keeps the first
// non-empty result. Generation is best-effort by contract: when every
// provider fails it returns an empty list, never an error.
type fallbackProvider struct {
	providers []Provider
}

func NewFallbackProvider(providers ...Provider) Provider {
	return &fallbackProvider{providers: providers}
}

func (p *fallbackProvider) Generate(ctx context.Context, req Request) ([]Draft, error) {
	log := config.WithContext(ctx)

	for _, provider := range p.providers {
		drafts, err := provider.Generate(ctx, req)
		if err != nil {
			log.WithError(err).Warn("Generation provider failed, trying next")
			continue
		}
		if len(drafts) > 0 {
			return drafts, nil
		}
	}

	log.WithField("type", req.Type).
		WithField("difficulty", req.Difficulty).
		Warn("All generation providers came up empty")
	return nil, nil
}
