// Package ai forwards shopper questions to a hosted generative model.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultModel = "gemini-2.0-flash"

const instruction = "You are a chat assistant for an e-commerce web app. Only answer questions " +
	"related to products. If a user asks anything unrelated, tell them you cannot help with that.\n\n" +
	"Here is the product context:\n"

const acknowledgement = "Understood! I am now an e-commerce chat assistant. I will only answer " +
	"questions related to products available on the website. If a user asks anything unrelated, " +
	"I will respond with: \"I'm sorry, I can only help you with questions about our products.\""

var ErrEmptyResponse = errors.New("model returned no text")

// Generator answers one prompt against one product context.
type Generator interface {
	Generate(ctx context.Context, productContext, prompt string) (string, error)
}

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

// Generate starts a fresh chat for every call; nothing carries over between
// requests.
func (g *GeminiClient) Generate(ctx context.Context, productContext, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(1)
	model.SetTopP(0.95)
	model.SetTopK(40)
	model.SetMaxOutputTokens(8192)
	model.ResponseMIMEType = "text/plain"

	chat := model.StartChat()
	chat.History = []*genai.Content{
		{Role: "user", Parts: []genai.Part{genai.Text(instruction + productContext)}},
		{Role: "model", Parts: []genai.Part{genai.Text(acknowledgement)}},
	}

	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini send: %w", err)
	}
	return responseText(resp)
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

func (g *GeminiClient) Close() error {
	return g.client.Close()
}
