package image

import "github.com/kiranshivaraju/gamesmith/internal/image/imgerr"

// Re-exported from imgerr so callers can keep using image.Err*; the
// values are identical, so errors.Is matches across both names.
var (
	ErrProviderUnavailable = imgerr.ErrProviderUnavailable
	ErrGenerationTimeout   = imgerr.ErrGenerationTimeout
	ErrInvalidResponse     = imgerr.ErrInvalidResponse
	ErrPromptRejected      = imgerr.ErrPromptRejected
)
