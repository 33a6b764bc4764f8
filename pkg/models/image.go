// Package models contains shared data models used across the GameSmith codebase.
package models

import "context"

// ImageProvider is the core interface that all image-generation integrations
// must implement. Never call specific providers directly — always inject
// this interface.
type ImageProvider interface {
	// Generate renders an image for the given request and returns a
	// reference to the stored artifact.
	Generate(ctx context.Context, req GenerationRequest) (GeneratedImage, error)
	// Name returns the provider identifier (e.g., "openai", "stability").
	Name() string
}

// GenerationRequest is the input to an image generation operation.
type GenerationRequest struct {
	Prompt string
}

// GeneratedImage is the artifact reference returned by a provider.
type GeneratedImage struct {
	URL   string
	Model string
}
