package recommendations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You recommend products for an online store.
Pick products the shopper is likely to want next, based on their history.
Only choose names from the catalog list you are given.
Reply with a JSON object of the form {"names": ["..."]}.`

var errEmptyCompletion = errors.New("openai: empty completion")

// listMarker matches "- ", "* ", "1. " and "2) " bullets, not a leading
// number that is part of a name like "7 Colores".
var listMarker = regexp.MustCompile(`^\s*(?:[-*]|\d+[.)])\s+`)

// Recommender turns a shopper history summary into product names.
type Recommender interface {
	RecommendNames(ctx context.Context, history string, catalog []string, max int) ([]string, error)
}

type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAIRecommender asks a chat completion model for recommendations.
type OpenAIRecommender struct {
	client  chatCompleter
	model   string
	timeout time.Duration
}

// NewOpenAIRecommender returns a nil Recommender when no API key is configured.
func NewOpenAIRecommender(cfg config.OpenAIConfig) (Recommender, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, fmt.Errorf("openai model is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.BaseURL = base
	}
	return &OpenAIRecommender{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

func (r *OpenAIRecommender) RecommendNames(ctx context.Context, history string, catalog []string, max int) ([]string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	user := fmt.Sprintf("Shopper history:\n%s\n\nCatalog:\n- %s\n\nReturn at most %d names.",
		history, strings.Join(catalog, "\n- "), max)

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.4,
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errEmptyCompletion
	}
	return parseNames(resp.Choices[0].Message.Content)
}

// parseNames accepts {"names": [...]} and falls back to one name per line.
func parseNames(content string) ([]string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, errEmptyCompletion
	}
	var payload struct {
		Names []string `json:"names"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err == nil {
		return cleanNames(payload.Names), nil
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = listMarker.ReplaceAllString(line, "")
	}
	return cleanNames(lines), nil
}

func cleanNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}
