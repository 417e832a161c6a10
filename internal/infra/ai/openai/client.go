package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/spf13/afero"

	domain "github.com/bryanwahyu/wireframe-extract/internal/domain/analysis"
)

const (
	defaultModel     = "gpt-4o"
	defaultMaxTokens = 4000

	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderLocal      = "local"

	openRouterBaseURL = "https://openrouter.ai/api/v1"
)

// Options selects the provider and endpoint behind the client
type Options struct {
	Provider string
	APIKey   string
	BaseURL  string        // empty → provider default
	Timeout  time.Duration // zero → no client-side timeout
	Referer  string        // OpenRouter attribution headers
	Title    string
}

// Client is the single vision client for every OpenAI-compatible provider
type Client struct {
	*openai.Client
	FS       afero.Fs
	provider string
}

var _ domain.VisionClient = (*Client)(nil)

// NewClient builds a client for opts.Provider reading images from fsys
func NewClient(fsys afero.Fs, opts Options) (*Client, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = ProviderOpenAI
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	headers := http.Header{}
	switch provider {
	case ProviderOpenAI:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
	case ProviderOpenRouter:
		if opts.APIKey == "" {
			return nil, fmt.Errorf("openrouter provider requires an API key")
		}
		cfg.BaseURL = openRouterBaseURL
		if opts.Referer != "" {
			headers.Set("HTTP-Referer", opts.Referer)
		}
		if opts.Title != "" {
			headers.Set("X-Title", opts.Title)
		}
	case ProviderLocal:
		if opts.BaseURL == "" {
			return nil, fmt.Errorf("local provider requires a base URL")
		}
	default:
		return nil, fmt.Errorf("unsupported provider: %s", opts.Provider)
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}

	hc := &http.Client{Timeout: opts.Timeout}
	if len(headers) > 0 {
		hc.Transport = &headerTransport{base: http.DefaultTransport, headers: headers}
	}
	cfg.HTTPClient = hc

	return &Client{Client: openai.NewClientWithConfig(cfg), FS: fsys, provider: provider}, nil
}

// Provider name recorded in results
func (c *Client) Provider() string { return c.provider }

// Analyze sends the prompt and every image of req in one chat completion
func (c *Client) Analyze(ctx context.Context, req domain.Request) (domain.Response, error) {
	model := req.Params.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := req.Params.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	parts := make([]openai.ChatMessagePart, 0, len(req.Images)+1)
	parts = append(parts, openai.ChatMessagePart{Type: openai.ChatMessagePartTypeText, Text: req.Prompt})
	for _, img := range req.Images {
		url, err := c.dataURL(img)
		if err != nil {
			return domain.Response{}, err
		}
		parts = append(parts, openai.ChatMessagePart{
			Type: openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{
				URL:    url,
				Detail: imageDetail(req.Params.Detail),
			},
		})
	}

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	if len(req.Images) == 0 {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})
	} else {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, MultiContent: parts})
	}

	creq := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if isReasoningModel(model) {
		creq.MaxCompletionTokens = maxTokens
	} else {
		creq.MaxTokens = maxTokens
		creq.Temperature = temperature(req.Params.Temperature)
	}

	resp, err := c.CreateChatCompletion(ctx, creq)
	if err != nil {
		return domain.Response{}, classify(err)
	}
	if len(resp.Choices) == 0 {
		return domain.Response{}, fmt.Errorf("%w: no choices in response", domain.ErrExternalService)
	}

	usedModel := resp.Model
	if usedModel == "" {
		usedModel = model
	}
	return domain.Response{
		Text:  resp.Choices[0].Message.Content,
		Model: usedModel,
		Usage: domain.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

func (c *Client) dataURL(img domain.ImageRef) (string, error) {
	data, err := afero.ReadFile(c.FS, img.Path)
	if err != nil {
		return "", fmt.Errorf("%w: read image %s: %w", domain.ErrAnalysisFailed, img.Name, err)
	}
	mime := img.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func imageDetail(d string) openai.ImageURLDetail {
	switch strings.ToLower(d) {
	case "low":
		return openai.ImageURLDetailLow
	case "auto":
		return openai.ImageURLDetailAuto
	default:
		return openai.ImageURLDetailHigh
	}
}

func isReasoningModel(model string) bool {
	return strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5")
}

// classify maps go-openai failures onto the domain taxonomy, keeping the cause
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", domain.ErrQuotaExceeded, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", domain.ErrQuotaExceeded, err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrExternalService, err)
	}
	return fmt.Errorf("%w: failed to create chat completion: %w", domain.ErrExternalService, err)
}

// headerTransport adds fixed headers to every outgoing request
type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	for k, vs := range t.headers {
		for _, v := range vs {
			r.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(r)
}

// temperature keeps an explicit 0 on the wire; go-openai omits a zero value
func temperature(t float32) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return t
}
