package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/kiranshivaraju/gamesmith/internal/config"
	"github.com/kiranshivaraju/gamesmith/internal/image/imgerr"
	"github.com/kiranshivaraju/gamesmith/pkg/models"
)

const defaultBaseURL = "https://api.openai.com"

// Provider implements models.ImageProvider using the OpenAI images API.
type Provider struct {
	cfg     config.OpenAIConfig
	baseURL string
	client  *http.Client
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	// No client timeout here: the per-generation deadline comes from the
	// caller's context.
	return &Provider{cfg: cfg, baseURL: defaultBaseURL, client: &http.Client{}}
}

func (p *Provider) Name() string { return "openai" }

type generationRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

type generationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (p *Provider) Generate(ctx context.Context, req models.GenerationRequest) (models.GeneratedImage, error) {
	body, err := json.Marshal(generationRequest{
		Model:          p.cfg.Model,
		Prompt:         req.Prompt,
		N:              1,
		ResponseFormat: "url",
	})
	if err != nil {
		return models.GeneratedImage{}, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/images/generations", bytes.NewReader(body))
	if err != nil {
		return models.GeneratedImage{}, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return models.GeneratedImage{}, classifyError(err)
	}
	defer resp.Body.Close()

	var genResp generationResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return models.GeneratedImage{}, fmt.Errorf("%w: %v", imgerr.ErrInvalidResponse, err)
	}

	if resp.StatusCode == http.StatusBadRequest && genResp.Error != nil && genResp.Error.Code == "content_policy_violation" {
		return models.GeneratedImage{}, fmt.Errorf("%w: %s", imgerr.ErrPromptRejected, genResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return models.GeneratedImage{}, fmt.Errorf("%w: status %d", imgerr.ErrProviderUnavailable, resp.StatusCode)
	}
	if len(genResp.Data) == 0 || genResp.Data[0].URL == "" {
		return models.GeneratedImage{}, fmt.Errorf("%w: empty data", imgerr.ErrInvalidResponse)
	}

	return models.GeneratedImage{URL: genResp.Data[0].URL, Model: p.cfg.Model}, nil
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", imgerr.ErrGenerationTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", imgerr.ErrGenerationTimeout, err)
	}

	return fmt.Errorf("%w: %v", imgerr.ErrProviderUnavailable, err)
}

var _ models.ImageProvider = (*Provider)(nil)
