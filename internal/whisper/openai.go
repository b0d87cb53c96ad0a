package whisper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const DefaultOpenAIModel = openai.Whisper1

type OpenAIOptions struct {
	APIKey string
	// BaseURL points at any OpenAI-compatible API, e.g. Groq or a local server.
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// OpenAIEngine transcribes through the OpenAI audio API.
type OpenAIEngine struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIEngine(opts OpenAIOptions) (*OpenAIEngine, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, errors.New("openai API key not configured; set OPENAI_API_KEY or openai.api_key")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if opts.HTTPClient != nil {
		cfg.HTTPClient = opts.HTTPClient
	} else {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Minute}
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIEngine{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: opts.Logger,
	}, nil
}

func (o *OpenAIEngine) Model() string {
	return o.model
}

func (o *OpenAIEngine) Transcribe(ctx context.Context, req TranscriptionRequest) (Result, error) {
	if strings.TrimSpace(req.AudioPath) == "" {
		return Result{}, errors.New("audio path is required")
	}

	audioReq := openai.AudioRequest{
		Model:    o.model,
		FilePath: req.AudioPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
	}

	var (
		resp openai.AudioResponse
		err  error
	)
	if req.Task == TaskTranslate {
		o.logger.Debug("openai translation request", zap.String("model", o.model), zap.String("audio", req.AudioPath))
		resp, err = o.client.CreateTranslation(ctx, audioReq)
	} else {
		if lang := SanitizeLanguage(req.Language); lang != "auto" {
			audioReq.Language = lang
		}
		o.logger.Debug("openai transcription request", zap.String("model", o.model), zap.String("audio", req.AudioPath), zap.String("language", audioReq.Language))
		resp, err = o.client.CreateTranscription(ctx, audioReq)
	}
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return Result{}, fmt.Errorf("openai API error (status %d): %s", apiErr.HTTPStatusCode, apiErr.Message)
		}
		return Result{}, fmt.Errorf("openai transcription request: %w", err)
	}

	return Result{
		Text:     strings.TrimSpace(resp.Text),
		Language: resp.Language,
		Duration: time.Duration(resp.Duration * float64(time.Second)),
	}, nil
}
