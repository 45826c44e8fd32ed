package service

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"github.com/yyonggg2/MechMentorApp/config"
	"google.golang.org/api/option"
)

// ImagePart is an encoded image attached to a model request.
type ImagePart struct {
	MIMEType string
	Data     []byte
}

// ModelGateway is the capability the analysis and explanation flows consume:
// send a prompt (plus an optional image) to a generative model and get raw
// text back. Failures are per-call, never fatal to the process.
type ModelGateway interface {
	// Generate runs the main analysis model.
	Generate(ctx context.Context, prompt string, image *ImagePart) (string, error)
	// GenerateFast runs the lighter model used for term explanations.
	GenerateFast(ctx context.Context, prompt string) (string, error)
}

// GeminiService wraps the Gemini API behind ModelGateway. One client is
// built at startup and shared by all calls.
type GeminiService struct {
	client     *genai.Client
	model      string
	flashModel string
}

// NewGeminiService builds the shared Gemini client. Callers decide what to
// do when the API key is absent; this constructor treats it as an error.
func NewGeminiService(ctx context.Context, cfg *config.GeminiConfig) (*GeminiService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: api key is empty")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	return &GeminiService{
		client:     client,
		model:      cfg.Model,
		flashModel: cfg.FlashModel,
	}, nil
}

func (s *GeminiService) Generate(ctx context.Context, prompt string, image *ImagePart) (string, error) {
	return s.generate(ctx, s.model, prompt, image)
}

func (s *GeminiService) GenerateFast(ctx context.Context, prompt string) (string, error) {
	return s.generate(ctx, s.flashModel, prompt, nil)
}

func (s *GeminiService) generate(ctx context.Context, modelName, prompt string, image *ImagePart) (string, error) {
	m := s.client.GenerativeModel(modelName)

	parts := []genai.Part{genai.Text(prompt)}
	if image != nil {
		parts = append(parts, genai.Blob{MIMEType: image.MIMEType, Data: image.Data})
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	text := firstText(resp)
	if text == "" {
		return "", fmt.Errorf("gemini: empty response from model %s", modelName)
	}
	return text, nil
}

// Close releases the underlying client.
func (s *GeminiService) Close() error {
	return s.client.Close()
}

// firstText returns the first text part of the first usable candidate.
func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				return string(t)
			}
		}
	}
	return ""
}
