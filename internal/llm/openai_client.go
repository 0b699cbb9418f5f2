package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

const draftSystemPrompt = "You are a podcast script writer."

var errNoChoices = errors.New("openai API returned no choices")

type openAIClient struct {
	apiKey string
	model  string
	base   string
	client *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *openAIClient) Name() string {
	return fmt.Sprintf("OpenAI (%s)", c.model)
}

func (c *openAIClient) DraftScript(ctx context.Context, req DraftRequest) (string, error) {
	prompt, err := buildDraftPrompt(req)
	if err != nil {
		return "", err
	}
	in := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: draftSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
	}
	headers := http.Header{"Authorization": {"Bearer " + c.apiKey}}
	var resp chatResponse
	if err := postJSON(ctx, c.client, "openai", c.base+"/chat/completions", headers, in, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errNoChoices
	}
	return cleanDraft(resp.Choices[0].Message.Content)
}
