package quiz

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quizmaker/internal/extract"
	"quizmaker/internal/models"
	"quizmaker/internal/prompt"
)

type fakeProvider struct {
	response string
	err      error

	gotAPIKey     string
	gotSystem     string
	gotUserPrompt string
}

func (f *fakeProvider) Generate(ctx context.Context, apiKey, systemPrompt, userPrompt string) (string, error) {
	f.gotAPIKey = apiKey
	f.gotSystem = systemPrompt
	f.gotUserPrompt = userPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

const validResponse = `[{"id":"placeholder_id","type":"single","Question":"What drives photosynthesis?","Options":["Light","Sound","Heat","Pressure"],"answer":"Light","Rationale":"Light energy powers the reaction.","hint":"Think about the sun."}]`

func TestGenerate_FullPipeline(t *testing.T) {
	provider := &fakeProvider{response: validResponse}
	gen := NewGenerator(provider)

	questions, err := gen.Generate(context.Background(), "AIza-key", "notes.txt",
		[]byte("photosynthesis converts light into chemical energy"),
		prompt.Metadata{Subject: "Biology"})

	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, models.TypeSingle, questions[0].Type)
	assert.Equal(t, "Light", questions[0].Answer.Single)
	assert.NotEmpty(t, questions[0].ID)

	assert.Equal(t, "AIza-key", provider.gotAPIKey)
	assert.Equal(t, prompt.SystemPrompt, provider.gotSystem)
	assert.Contains(t, provider.gotUserPrompt, "- Subject: Biology")
	assert.Contains(t, provider.gotUserPrompt, "photosynthesis converts light into chemical energy")
}

func TestGenerate_UnsupportedDocument(t *testing.T) {
	provider := &fakeProvider{response: validResponse}
	gen := NewGenerator(provider)

	_, err := gen.Generate(context.Background(), "AIza-key", "slides.pptx", []byte("x"), prompt.Metadata{})

	assert.ErrorIs(t, err, extract.ErrUnsupportedFormat)
	// the provider must not be called for a rejected document
	assert.Empty(t, provider.gotUserPrompt)
}

func TestGenerate_ProviderFailure(t *testing.T) {
	providerErr := errors.New("deadline exceeded")
	gen := NewGenerator(&fakeProvider{err: providerErr})

	_, err := gen.Generate(context.Background(), "AIza-key", "notes.txt", []byte("content"), prompt.Metadata{})

	assert.ErrorIs(t, err, providerErr)
}

func TestGenerate_MalformedResponse(t *testing.T) {
	gen := NewGenerator(&fakeProvider{response: "I'm sorry, I cannot do that."})

	_, err := gen.Generate(context.Background(), "AIza-key", "notes.txt", []byte("content"), prompt.Metadata{})

	assert.ErrorIs(t, err, models.ErrMalformedResponse)
}

func TestGenerate_EmptyQuestionList(t *testing.T) {
	gen := NewGenerator(&fakeProvider{response: "[]"})

	questions, err := gen.Generate(context.Background(), "AIza-key", "notes.txt", []byte("content"), prompt.Metadata{})

	require.NoError(t, err)
	assert.NotNil(t, questions)
	assert.Len(t, questions, 0)
}
