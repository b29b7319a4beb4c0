package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/examforge/examforge/internal/config"
)

const geminiModel = "gemini-2.0-flash"

type geminiProvider struct {
	client *genai.Client
}

func NewGeminiProvider(ctx context.Context) (Provider, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &geminiProvider{client: client}, nil
}

func (p *geminiProvider) Generate(ctx context.Context, req Request) ([]Draft, error) {
	log := config.WithContext(ctx)
	prompt := systemPrompt + "\n\n" + BuildUserPrompt(req)

	result, err := p.client.Models.GenerateContent(ctx, geminiModel, genai.Text(prompt), nil)
	if err != nil {
		log.WithError(err).Error("Gemini content generation failed")
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	raw := result.Text()
	if raw == "" {
		return nil, errors.New("empty response from model")
	}

	clean := strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, "```json")
	clean = strings.TrimSuffix(clean, "```")
	clean = strings.Trim(clean, "`")

	var drafts []Draft
	if err := json.Unmarshal([]byte(clean), &drafts); err != nil {
		log.WithError(err).Errorf("Failed to decode generated JSON. Cleaned content:\n%s", clean)
		return nil, fmt.Errorf("failed to decode generated JSON: %w", err)
	}

	log.Infof("Generated %d question drafts via Gemini", len(drafts))
	return drafts, nil
}
