package narrative

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"nytro_assessment_backend/platform/ai/openaicompat"
)

// Generator produces advisory recommendations through an LLM agent.
type Generator struct {
	agent          agent.Agent
	runner         *runner.Runner
	sessionService session.Service
	appName        string
	runMu          sync.Mutex
}

// Config for the recommendation agent.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewGenerator creates a recommendation agent without tools.
func NewGenerator(cfg Config) (*Generator, error) {
	chat := openaicompat.NewModel(openaicompat.Config{
		APIKey:   cfg.APIKey,
		BaseURL:  cfg.BaseURL,
		Model:    cfg.Model,
		JSONMode: true,
	})

	adkAgent, err := llmagent.New(llmagent.Config{
		Name:        "RecommendationGenerator",
		Model:       chat,
		Description: "Generates lead generation maturity recommendations as structured JSON.",
		Instruction: systemPrompt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation agent: %w", err)
	}

	sessionService := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        "recommendation-generator",
		Agent:          adkAgent,
		SessionService: sessionService,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create recommendation runner: %w", err)
	}

	return &Generator{
		agent:          adkAgent,
		runner:         r,
		sessionService: sessionService,
		appName:        "recommendation-generator",
	}, nil
}

// Generate runs the agent over the assessment input and decodes the JSON
// payload. Callers are expected to substitute Fallback on error.
func (g *Generator) Generate(ctx context.Context, input Input) (Recommendation, error) {
	g.runMu.Lock()
	defer g.runMu.Unlock()

	promptText := buildRecommendationPrompt(input)
	sessionID := uuid.New().String()
	userID := "recommendation-" + uuid.New().String()

	_, err := g.sessionService.Create(ctx, &session.CreateRequest{
		AppName:   g.appName,
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return Recommendation{}, fmt.Errorf("recommendation: create session: %w", err)
	}
	defer func() {
		_ = g.sessionService.Delete(ctx, &session.DeleteRequest{
			AppName:   g.appName,
			UserID:    userID,
			SessionID: sessionID,
		})
	}()

	userMessage := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{{
			Text: promptText,
		}},
	}

	runConfig := agent.RunConfig{StreamingMode: agent.StreamingModeNone}

	var outputText strings.Builder
	for event, err := range g.runner.Run(ctx, userID, sessionID, userMessage, runConfig) {
		if err != nil {
			return Recommendation{}, fmt.Errorf("recommendation: run failed: %w", err)
		}
		if event.Content == nil {
			continue
		}
		for _, part := range event.Content.Parts {
			outputText.WriteString(part.Text)
		}
	}

	return decodeRecommendation(outputText.String())
}
