package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quizmaker/internal/ledger"
	"quizmaker/internal/models"
	"quizmaker/internal/prompt"
)

// Generator is the quiz generation pipeline.
type Generator interface {
	Generate(ctx context.Context, apiKey, filename string, data []byte, meta prompt.Metadata) ([]models.Question, error)
}

// KeyVerifier checks a candidate provider credential.
type KeyVerifier interface {
	VerifyKey(ctx context.Context, apiKey string) error
}

// Accounts is the ledger surface the handlers need.
type Accounts interface {
	Register(ctx context.Context, email, password string) (*ledger.User, error)
	Login(ctx context.Context, email, password string) (string, error)
	CheckAndRecordUsage(ctx context.Context, userID uuid.UUID) error
}

// KeyStore holds the process-wide provider credential.
type KeyStore interface {
	APIKey() string
	SetAPIKey(key string) error
}

// Archiver stores uploaded documents out of band.
type Archiver interface {
	StoreDocument(ctx context.Context, filename string, data []byte) (string, error)
}

type VerifyKeyRequest struct {
	APIKey string `json:"api_key"`
}

type CredentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type GenerateResponse struct {
	Success   bool              `json:"success"`
	Questions []models.Question `json:"questions"`
}

// fail writes the standard failure body used by the document endpoints.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
