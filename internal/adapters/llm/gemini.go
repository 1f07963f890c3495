package llm

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Backend selects how the Gemini client authenticates.
type Backend string

const (
	BackendGeminiAPI Backend = "gemini_api"
	BackendVertex    Backend = "vertex"
)

type GeminiConfig struct {
	Backend  Backend
	APIKey   string // gemini_api only
	Project  string // vertex only
	Location string // vertex only
	BaseURL  string // optional endpoint override
}

type GeminiClient struct {
	client *genai.Client
}

// NewGeminiClient creates a domain.TextCompleter backed by Gemini, either
// through the public Gemini API or through Vertex AI.
func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{}

	switch cfg.Backend {
	case BackendVertex:
		if cfg.Project == "" || cfg.Location == "" {
			return nil, fmt.Errorf("project and location must be set for the vertex backend")
		}
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	case BackendGeminiAPI, "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("api key must be set for the gemini_api backend")
		}
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	default:
		return nil, fmt.Errorf("unknown gemini backend %q", cfg.Backend)
	}

	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{client: client}, nil
}

// Complete implements domain.TextCompleter.
func (g *GeminiClient) Complete(ctx context.Context, model, prompt string) (string, error) {
	temp := float32(0.7)
	topP := float32(0.9)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   int32(8192),
	}

	res, err := g.client.Models.GenerateContent(ctx, model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content (%s): %w", model, err)
	}

	// Only the text, never the raw structs.
	text := strings.TrimSpace(res.Text())
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text (%s)", model)
	}

	return text, nil
}
