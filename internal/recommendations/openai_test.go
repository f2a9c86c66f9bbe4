package recommendations

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	resp openai.ChatCompletionResponse
	err  error
	req  openai.ChatCompletionRequest
}

func (s *stubCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	s.req = req
	return s.resp, s.err
}

func TestNewOpenAIRecommenderDisabledWithoutKey(t *testing.T) {
	rec, err := NewOpenAIRecommender(config.OpenAIConfig{Model: "gpt-4o-mini"})
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestOpenAIRecommenderSendsCatalogAndParsesJSON(t *testing.T) {
	stub := &stubCompleter{resp: openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{{Message: openai.ChatCompletionMessage{Content: `{"names":["Termo Acero"]}`}}},
	}}
	rec := &OpenAIRecommender{client: stub, model: "gpt-4o-mini"}

	names, err := rec.RecommendNames(context.Background(), "Liked: Mate Imperial (Mates)", []string{"Termo Acero", "Mate Torpedo"}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Termo Acero"}, names)
	assert.Equal(t, "gpt-4o-mini", stub.req.Model)
	require.Len(t, stub.req.Messages, 2)
	assert.Contains(t, stub.req.Messages[1].Content, "- Mate Torpedo")
	assert.Contains(t, stub.req.Messages[1].Content, "at most 2 names")
}

func TestOpenAIRecommenderErrors(t *testing.T) {
	rec := &OpenAIRecommender{client: &stubCompleter{err: errors.New("429")}, model: "m"}
	_, err := rec.RecommendNames(context.Background(), "", nil, 1)
	assert.Error(t, err)

	rec = &OpenAIRecommender{client: &stubCompleter{}, model: "m"}
	_, err = rec.RecommendNames(context.Background(), "", nil, 1)
	assert.ErrorIs(t, err, errEmptyCompletion)
}

func TestParseNamesStripsOnlyListMarkers(t *testing.T) {
	names, err := parseNames("1. 7 Colores\n2) Mate Imperial\n- 3 Tiempos Yerba\n* Termo 1L\n100 Fuegos")
	require.NoError(t, err)
	assert.Equal(t, []string{"7 Colores", "Mate Imperial", "3 Tiempos Yerba", "Termo 1L", "100 Fuegos"}, names)
}
