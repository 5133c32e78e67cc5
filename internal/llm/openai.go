package llm

import (
	"context"
	"strings"

	"github.com/EugenyBaz/ChekhovAgent/internal/logger"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAI - OpenAI-совместимый API (DeepSeek)
type OpenAI struct {
	client *openai.Client
	model  string
}

func NewOpenAI(apiKey, baseURL, model string) *OpenAI {
	cnf := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cnf.BaseURL = strings.TrimRight(baseURL, "/")
	}

	return &OpenAI{
		client: openai.NewClientWithConfig(cnf),
		model:  model,
	}
}

func (o *OpenAI) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Stream: false,
	})
	if err != nil {
		return "", errors.Wrap(err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion: empty choices")
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", errors.New("chat completion: empty answer")
	}

	logger.Debug("Ответ модели получен", o.model, resp.Usage.TotalTokens)
	return answer, nil
}
