package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/csheth/podscript/internal/script"
)

const (
	defaultOllamaModel = "ministral-3:latest"
	defaultOllamaHost  = "http://localhost:11434"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultOpenAIBase  = "https://api.openai.com/v1"
	defaultTurns       = 16
	maxTurns           = 60
	// Source text is clipped well below the default models' context windows
	// (roughly 4 chars/token) so the prompt and the reply both fit.
	maxDraftSourceChars = 60_000
)

const defaultLLMHTTPTimeout = 3 * time.Minute

// ErrNotConfigured is returned when the selected provider lacks credentials.
var ErrNotConfigured = errors.New("llm provider not configured")

// Config describes how to build an LLM client.
type Config struct {
	Provider   string
	Model      string
	Endpoint   string
	APIKey     string
	HTTPClient *http.Client
}

// DraftRequest is the material a script is drafted from.
type DraftRequest struct {
	Title     string
	SourceURL string
	Content   string
	Cast      script.Cast
	Markers   []string
	Turns     int
}

// Client drafts two-host scripts in transcript form ("Name: text" turns
// separated by blank lines).
type Client interface {
	DraftScript(ctx context.Context, req DraftRequest) (string, error)
	Name() string
}

// New builds the client for cfg.Provider; an empty provider means Ollama.
func New(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		if strings.TrimSpace(cfg.APIKey) == "" {
			return nil, ErrNotConfigured
		}
		base := strings.TrimRight(cfg.Endpoint, "/")
		if base == "" {
			base = defaultOpenAIBase
		}
		model := cfg.Model
		if model == "" {
			model = defaultOpenAIModel
		}
		return &openAIClient{apiKey: cfg.APIKey, model: model, base: base, client: pickHTTPClient(cfg.HTTPClient)}, nil
	case "", "ollama":
		host := strings.TrimRight(cfg.Endpoint, "/")
		if host == "" {
			host = defaultOllamaHost
		}
		model := cfg.Model
		if model == "" {
			model = defaultOllamaModel
		}
		return &ollamaClient{host: host, model: model, client: pickHTTPClient(cfg.HTTPClient)}, nil
	default:
		return nil, errors.New("unknown llm provider " + cfg.Provider)
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Local models often need more than a minute; callers cancel through ctx.
	return &http.Client{Timeout: defaultLLMHTTPTimeout}
}

func (r DraftRequest) turns() int {
	switch {
	case r.Turns <= 0:
		return defaultTurns
	case r.Turns > maxTurns:
		return maxTurns
	default:
		return r.Turns
	}
}

func (r DraftRequest) cast() script.Cast {
	if r.Cast.Validate() != nil {
		return script.DefaultCast
	}
	return r.Cast.Canonical()
}
