package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// ModelName is the Gemini model used for generation
	ModelName = "gemini-1.5-flash-latest"

	temperature     = 0.7
	maxOutputTokens = 8192

	// callTimeout bounds the single synchronous provider call
	callTimeout = 2 * time.Minute
)

var (
	ErrMissingCredential = errors.New("api key not configured on server")
	ErrInvalidCredential = errors.New("api key is invalid or has insufficient permissions")
)

// ProviderError wraps any failure reported by the provider. Authorization
// failures are flagged so the API layer can map them to 401.
type ProviderError struct {
	Authorization bool
	Err           error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider error: %v", e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Client calls the Gemini API. The API key is passed per call because it can
// be replaced at runtime through the key-verification endpoint.
type Client struct {
	modelName string
}

// NewClient creates a Gemini client using the default model.
func NewClient() *Client {
	return &Client{modelName: ModelName}
}

// Generate issues exactly one synchronous, non-streaming generation call and
// returns the raw response text. No retry is attempted.
func (c *Client) Generate(ctx context.Context, apiKey, systemPrompt, userPrompt string) (string, error) {
	if apiKey == "" {
		return "", ErrMissingCredential
	}

	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", &ProviderError{Err: fmt.Errorf("failed to create client: %w", err)}
	}
	defer client.Close()

	model := client.GenerativeModel(c.modelName)
	model.SetTemperature(temperature)
	model.SetMaxOutputTokens(maxOutputTokens)
	// request machine-readable JSON instead of free text
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt)},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		return "", &ProviderError{Authorization: isAuthError(err), Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &ProviderError{Err: errors.New("no content generated")}
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}

	if text == "" {
		return "", &ProviderError{Err: errors.New("response contained no text parts")}
	}

	return text, nil
}

// VerifyKey confirms a candidate API key with a lightweight read-only call.
// It performs no generation and is safe to run before persisting the key.
func (c *Client) VerifyKey(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		return ErrMissingCredential
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return &ProviderError{Err: fmt.Errorf("failed to create client: %w", err)}
	}
	defer client.Close()

	it := client.ListModels(ctx)
	if _, err := it.Next(); err != nil && err != iterator.Done {
		if isAuthError(err) {
			return ErrInvalidCredential
		}
		return &ProviderError{Err: err}
	}

	return nil
}

// isAuthError reports whether the provider rejected the credential. A bad
// API key surfaces as 400 INVALID_ARGUMENT from the Gemini API, not only as
// 401/403.
func isAuthError(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case 400, 401, 403:
			return true
		}
		return false
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.Unauthenticated, codes.PermissionDenied, codes.InvalidArgument:
			return true
		}
	}

	return false
}
