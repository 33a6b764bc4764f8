package image

import (
	"fmt"

	"github.com/kiranshivaraju/gamesmith/internal/config"
	"github.com/kiranshivaraju/gamesmith/internal/image/mock"
	"github.com/kiranshivaraju/gamesmith/internal/image/openai"
	"github.com/kiranshivaraju/gamesmith/internal/image/stability"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

// NewProvider constructs the appropriate image provider based on config.
// Called once at server startup.
func NewProvider(cfg config.ImageConfig) (models.ImageProvider, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewProvider(cfg.OpenAI), nil
	case "stability":
		return stability.NewProvider(cfg.Stability), nil
	case "mock":
		return mock.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unknown image provider %q: must be one of openai, stability, mock", cfg.Provider)
	}
}
