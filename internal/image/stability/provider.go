package stability

import (
	"context"

	"github.com/kiranshivaraju/gamesmith/internal/config"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

// Provider implements models.ImageProvider using Stability AI.
type Provider struct {
	cfg config.StabilityConfig
}

func NewProvider(cfg config.StabilityConfig) *Provider {
	return &Provider{cfg: cfg}
}

func (p *Provider) Name() string { return "stability" }

func (p *Provider) Generate(_ context.Context, _ models.GenerationRequest) (models.GeneratedImage, error) {
	panic("stability.Provider.Generate not yet implemented")
}

var _ models.ImageProvider = (*Provider)(nil)
