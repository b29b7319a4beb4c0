package generator

import (
	"context"
	"os"

	"github.com/examforge/examforge/internal/config"
)

type Container struct {
	Service Service
}

// NewContainer assembles the provider chain from configuration: the remote
// provider when enabled, always backed by the static template bank.
func NewContainer() *Container {
	ctx := context.Background()
	log := config.WithContext(ctx)

	providers := []Provider{}
	if os.Getenv("GENERATOR_REMOTE_DISABLED") == "" {
		remote, err := NewGeminiProvider(ctx)
		if err != nil {
			log.WithError(err).Warn("Remote generation provider unavailable, using templates only")
		} else {
			providers = append(providers, remote)
		}
	}
	providers = append(providers, NewTemplateProvider())

	service := NewService(NewFallbackProvider(providers...))

	return &Container{Service: service}
}
