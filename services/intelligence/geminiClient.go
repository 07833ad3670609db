// File: services/intelligence/geminiClient.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenerateRequest is one single-turn completion.
type GenerateRequest struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int32
	// JSON asks the model for an application/json response.
	JSON bool
}

// LLM is the text generation capability behind the endpoint.
type LLM interface {
	GenerateContent(ctx context.Context, req GenerateRequest) (string, error)
}

var ErrEmptyCompletion = errors.New("gemini returned no content")

type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, modelName: modelName}, nil
}

func (g *GeminiClient) GenerateContent(ctx context.Context, req GenerateRequest) (string, error) {
	model := g.client.GenerativeModel(g.modelName)
	model.SetTemperature(req.Temperature)
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(req.MaxTokens)
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(genai.Text); ok {
			sb.WriteString(string(textPart))
		}
	}
	return sb.String(), nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

var ErrModelUnavailable = errors.New("no language model configured")

// Unavailable stands in when no API key is configured. Every call fails,
// and callers fall back.
type Unavailable struct{}

func (Unavailable) GenerateContent(context.Context, GenerateRequest) (string, error) {
	return "", ErrModelUnavailable
}
