// Package ai implements the completion service on Google's Gemini API.
package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"deepthinker-backend/application/ports"
	"deepthinker-backend/domain/quota"
	pkgerrors "deepthinker-backend/pkg/errors"
)

const (
	// generateMaxTokens caps single-thought generations so they stay card-sized
	generateMaxTokens = 50

	// chatMaxTokens caps conversational replies
	chatMaxTokens = 150

	generateSystemPrompt = "You are Praxis, an AI assistant that generates related thoughts based on user input and existing thoughts. Provide a short, concise thought that is related to or expands upon the given thought, considering the context of all existing thoughts."

	rewriteSystemPrompt = "You are Praxis, an AI assistant that rewrites thoughts. Rewrite the given thought according to the instruction, keeping it short and card-sized. Reply with the rewritten text only."

	chatSystemPromptFormat = "You are Praxis, an AI assistant that helps users explore and develop their thoughts. You have access to the following thoughts on the canvas:\n\n%s\n\nUse this information to provide insightful responses and help the user develop their ideas further."
)

// GenAIService implements ports.CompletionService using the Gemini API
type GenAIService struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGenAIService creates a new Gemini-backed completion service
func NewGenAIService(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GenAIService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GenAIService{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// GenerateRelatedThought produces a short new idea branching off the parent
func (s *GenAIService) GenerateRelatedThought(ctx context.Context, parentText string, canvasThoughts []string) (ports.CompletionResult, error) {
	thoughtsContext := strings.Join(canvasThoughts, "\n")
	prompt := fmt.Sprintf("Existing thoughts:\n%s\n\nGenerate a related thought for: %q", thoughtsContext, parentText)

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	return s.generate(ctx, contents, generateSystemPrompt, generateMaxTokens, "generate")
}

// RewriteThought rewrites a thought's text per the instruction
func (s *GenAIService) RewriteThought(ctx context.Context, text, instruction string) (ports.CompletionResult, error) {
	prompt := fmt.Sprintf("Thought: %q\n\nInstruction: %s", text, instruction)

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	return s.generate(ctx, contents, rewriteSystemPrompt, generateMaxTokens, "rewrite")
}

// Chat continues a multi-turn conversation grounded in the canvas
func (s *GenAIService) Chat(ctx context.Context, history []ports.ChatMessage, canvasThoughts []string) (ports.CompletionResult, error) {
	system := fmt.Sprintf(chatSystemPromptFormat, strings.Join(canvasThoughts, "\n"))

	contents := make([]*genai.Content, 0, len(history))
	for _, message := range history {
		var role genai.Role = genai.RoleUser
		if message.Role == ports.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(message.Text, role))
	}

	return s.generate(ctx, contents, system, chatMaxTokens, "chat")
}

func (s *GenAIService) generate(ctx context.Context, contents []*genai.Content, system string, maxTokens int32, operation string) (ports.CompletionResult, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		MaxOutputTokens:   maxTokens,
	}

	response, err := s.client.Models.GenerateContent(ctx, s.model, contents, config)
	if err != nil {
		s.logger.Error("completion request failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return ports.CompletionResult{}, pkgerrors.NewExternalError("genai", err)
	}

	text := strings.TrimSpace(response.Text())
	if text == "" {
		return ports.CompletionResult{}, pkgerrors.NewExternalError("genai", fmt.Errorf("empty completion"))
	}

	result := ports.CompletionResult{Text: text}
	if usage := response.UsageMetadata; usage != nil {
		result.InputTokens = int(usage.PromptTokenCount)
		result.OutputTokens = int(usage.CandidatesTokenCount)
	} else {
		// Fall back to the rough heuristic when the API omits usage
		for _, content := range contents {
			for _, part := range content.Parts {
				result.InputTokens += quota.EstimateTokens(part.Text)
			}
		}
		result.OutputTokens = quota.EstimateTokens(text)
	}

	s.logger.Debug("completion succeeded",
		zap.String("operation", operation),
		zap.Int("inputTokens", result.InputTokens),
		zap.Int("outputTokens", result.OutputTokens),
	)

	return result, nil
}
