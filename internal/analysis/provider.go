// Package analysis provides the optional external analysis collaborator
// that produces a free-text narrative for a contract. Narrative text is
// stored verbatim and never parsed; provider failures degrade the
// analysis transition rather than aborting it.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/anshuman444/hacknovation2.0/internal/config"
	"github.com/anshuman444/hacknovation2.0/internal/domain"
	"github.com/anshuman444/hacknovation2.0/internal/observability"
)

const systemPrompt = `You are a smart contract security expert. Analyze the provided contract and report:
- critical vulnerabilities with severity levels and exploit scenarios
- gas optimization opportunities with estimated savings
- an overall security score (0-100) with key strengths and weaknesses`

// HTTPProvider calls an OpenAI-compatible chat completions endpoint.
type HTTPProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	logger  observability.Logger
}

// NewHTTPProvider creates a provider for the configured endpoint.
func NewHTTPProvider(cfg *config.AnalysisConfig, logger observability.Logger) *HTTPProvider {
	return &HTTPProvider{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		logger:  logger,
	}
}

var _ domain.AnalysisProvider = (*HTTPProvider)(nil)

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Analyze requests a narrative for the given source. All failures are
// reported as ErrAnalysisUnavailable so the pipeline can degrade
// uniformly.
func (p *HTTPProvider) Analyze(ctx context.Context, source string) (string, error) {
	payload, err := json.Marshal(chatRequest{
		Model: p.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: source},
		},
		Temperature: 0.2,
		MaxTokens:   1024,
	})
	if err != nil {
		return "", domain.ErrAnalysisUnavailable.WithCause(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", domain.ErrAnalysisUnavailable.WithCause(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", domain.ErrAnalysisUnavailable.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		p.logger.Warn(ctx, "Analysis endpoint returned non-OK status", observability.Fields{
			"status": resp.StatusCode,
			"body":   string(body),
		})
		return "", domain.ErrAnalysisUnavailable.WithCause(fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", domain.ErrAnalysisUnavailable.WithCause(err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", domain.ErrAnalysisUnavailable.WithCause(fmt.Errorf("empty completion"))
	}

	return parsed.Choices[0].Message.Content, nil
}

// StaticProvider returns a canned diagnostic narrative. It is the
// fallback when no analysis endpoint is configured, so the pipeline
// still attaches a narrative in development.
type StaticProvider struct{}

// NewStaticProvider returns the diagnostic-mode provider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

var _ domain.AnalysisProvider = (*StaticProvider)(nil)

const staticNarrative = `[VULNERABILITY_SCAN]
[DIAGNOSTIC MODE - NO ANALYSIS ENDPOINT CONFIGURED]
- Review withdrawal patterns for reentrancy exposure
- Verify arithmetic bounds checking on token operations
- Confirm access-control modifiers on administrative functions

[OPTIMIZATION_ANALYSIS]
- Storage Efficiency: consider packed variables to reduce gas costs
- Loop Management: cache array lengths in external calls

[SYSTEM_NOTE]: This is a simulated analysis. Configure ANALYSIS_API_KEY for production-grade scanning.`

// Analyze always succeeds with the diagnostic narrative.
func (p *StaticProvider) Analyze(_ context.Context, _ string) (string, error) {
	return staticNarrative, nil
}

// FromConfig selects the HTTP provider when an API key is configured,
// falling back to the static diagnostic provider.
func FromConfig(cfg *config.AnalysisConfig, logger observability.Logger) domain.AnalysisProvider {
	if cfg.APIKey != "" {
		return NewHTTPProvider(cfg, logger)
	}
	logger.Warn(context.Background(), "No analysis endpoint configured; using diagnostic narrative", nil)
	return NewStaticProvider()
}
