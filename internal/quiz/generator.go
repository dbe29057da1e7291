package quiz

import (
	"context"

	"quizmaker/internal/extract"
	"quizmaker/internal/logger"
	"quizmaker/internal/models"
	"quizmaker/internal/prompt"
)

// Provider is the outbound generation call.
type Provider interface {
	Generate(ctx context.Context, apiKey, systemPrompt, userPrompt string) (string, error)
}

// Generator is the single authoritative ingestion -> prompt -> provider ->
// validation pipeline. Quota gating happens at the API layer before this
// runs; the pipeline itself has no per-user state.
type Generator struct {
	provider Provider
}

func NewGenerator(provider Provider) *Generator {
	return &Generator{provider: provider}
}

// Generate turns an uploaded document plus teacher metadata into a list of
// questions. It returns the full list or a typed error, never a partial
// result.
func (g *Generator) Generate(ctx context.Context, apiKey, filename string, data []byte, meta prompt.Metadata) ([]models.Question, error) {
	text, err := extract.Text(filename, data)
	if err != nil {
		return nil, err
	}

	systemPrompt, userPrompt := prompt.Build(meta, text)

	raw, err := g.provider.Generate(ctx, apiKey, systemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}

	questions, err := models.ParseQuestions(raw)
	if err != nil {
		// keep the raw payload server-side for troubleshooting; it is never
		// echoed to the client
		logger.Error("failed to parse provider response", "error", err, "raw", raw)
		return nil, err
	}

	return questions, nil
}
