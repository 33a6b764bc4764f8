// Package imgerr holds the image provider sentinel errors in a leaf
// package so providers can reference them without importing the parent
// image package (which imports the providers for its factory).
package imgerr

import "errors"

var (
	ErrProviderUnavailable = errors.New("image provider unavailable")
	ErrGenerationTimeout   = errors.New("image generation timeout")
	ErrInvalidResponse     = errors.New("image provider returned invalid response")
	ErrPromptRejected      = errors.New("image provider rejected the prompt")
)
