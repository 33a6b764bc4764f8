package mock

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

// MockProvider satisfies models.ImageProvider for testing and development.
type MockProvider struct {
	Name_        string
	GenerateFunc func(ctx context.Context, req models.GenerationRequest) (models.GeneratedImage, error)
}

func (m *MockProvider) Name() string { return m.Name_ }

func (m *MockProvider) Generate(ctx context.Context, req models.GenerationRequest) (models.GeneratedImage, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, req)
	}
	return models.GeneratedImage{}, nil
}

// NewProvider returns a MockProvider with sensible default responses.
func NewProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, _ models.GenerationRequest) (models.GeneratedImage, error) {
			return models.GeneratedImage{
				URL:   fmt.Sprintf("https://assets.invalid/mock/%s.png", uuid.NewString()),
				Model: "mock-v1",
			}, nil
		},
	}
}

// NewFailingProvider returns a MockProvider that always returns the given error.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_: "mock-failing",
		GenerateFunc: func(_ context.Context, _ models.GenerationRequest) (models.GeneratedImage, error) {
			return models.GeneratedImage{}, err
		},
	}
}

var _ models.ImageProvider = (*MockProvider)(nil)
