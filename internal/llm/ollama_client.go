package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type ollamaClient struct {
	host   string
	model  string
	client *http.Client
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (c *ollamaClient) Name() string {
	return fmt.Sprintf("Ollama (%s)", c.model)
}

func (c *ollamaClient) DraftScript(ctx context.Context, req DraftRequest) (string, error) {
	prompt, err := buildDraftPrompt(req)
	if err != nil {
		return "", err
	}
	var resp generateResponse
	in := generateRequest{Model: c.model, Prompt: prompt}
	if err := postJSON(ctx, c.client, "ollama", c.host+"/api/generate", nil, in, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Response) == "" {
		return "", errEmptyDraft
	}
	return cleanDraft(resp.Response)
}
