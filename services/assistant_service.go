package services

import (
	"context"
	"net/http"
	"strings"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/ai"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"go.uber.org/zap"
)

type PromptRequest struct {
	Prompt   string       `json:"prompt"`
	Product  *ai.Product  `json:"product"`
	Products []ai.Product `json:"products"`
}

// AssistantService is a stateless proxy to the generative model.
type AssistantService struct {
	generator ai.Generator
}

func NewAssistantService(generator ai.Generator) *AssistantService {
	return &AssistantService{generator: generator}
}

func (s *AssistantService) Ask(ctx context.Context, req PromptRequest) (string, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", apperrors.BadRequest("prompt is required")
	}
	if s.generator == nil {
		return "", apperrors.New(http.StatusServiceUnavailable, "AI assistant is not configured", nil)
	}

	text, err := s.generator.Generate(ctx, ai.BuildContext(req.Product, req.Products), prompt)
	if err != nil {
		zap.L().Error("assistant generation failed", zap.Error(err))
		return "", apperrors.Internal("Error from gemini", err)
	}
	return text, nil
}
