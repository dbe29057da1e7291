package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"quizmaker/internal/auth"
	"quizmaker/internal/extract"
	"quizmaker/internal/gemini"
	"quizmaker/internal/ledger"
	"quizmaker/internal/logger"
	"quizmaker/internal/models"
	"quizmaker/internal/prompt"
)

// Handler contains the API handlers' dependencies
type Handler struct {
	Keys          KeyStore
	Verifier      KeyVerifier
	Generator     Generator
	Accounts      Accounts
	Archive       Archiver // nil when archival is disabled
	QuotaEnforced bool
}

// HandleVerifyAndSaveKey verifies a candidate Gemini API key with the
// provider and persists it to configuration on success.
func (h *Handler) HandleVerifyAndSaveKey(c *gin.Context) {
	var req VerifyKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.APIKey == "" {
		fail(c, http.StatusBadRequest, "API key is required.")
		return
	}

	if err := h.Verifier.VerifyKey(c.Request.Context(), req.APIKey); err != nil {
		if errors.Is(err, gemini.ErrInvalidCredential) {
			fail(c, http.StatusUnauthorized, "Authentication failed. The API key is invalid or has insufficient permissions.")
			return
		}
		logger.ErrorErr(err, "unexpected error during API key verification")
		fail(c, http.StatusInternalServerError, "An unexpected error occurred during API key verification.")
		return
	}

	if err := h.Keys.SetAPIKey(req.APIKey); err != nil {
		logger.ErrorErr(err, "failed to persist verified API key")
		fail(c, http.StatusInternalServerError, "Failed to save the API key.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "API Key is valid and has been saved."})
}

// HandleRegister creates a new free-tier account.
func (h *Handler) HandleRegister(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	user, err := h.Accounts.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ledger.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"message": "An account with this email already exists."})
			return
		}
		logger.ErrorErr(err, "failed to register user", "email", req.Email)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create account."})
		return
	}

	logger.Info("registered new user", "user_id", user.ID, "email", user.Email)
	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully."})
}

// HandleLogin verifies credentials and issues a bearer token.
func (h *Handler) HandleLogin(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email and password are required"})
		return
	}

	token, err := h.Accounts.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password."})
			return
		}
		logger.ErrorErr(err, "failed to log in user", "email", req.Email)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to log in."})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

// HandleGenerateQuestions runs the document -> questions pipeline.
func (h *Handler) HandleGenerateQuestions(c *gin.Context) {
	ctx := c.Request.Context()

	apiKey := h.Keys.APIKey()
	if apiKey == "" {
		fail(c, http.StatusUnauthorized, "API key not configured on server. Please verify your key first.")
		return
	}

	if h.QuotaEnforced {
		if err := h.gateUsage(c); err != nil {
			return // response already written
		}
	}

	fileHeader, err := c.FormFile("document")
	if err != nil {
		fail(c, http.StatusBadRequest, "No document file provided.")
		return
	}
	if fileHeader.Filename == "" {
		fail(c, http.StatusBadRequest, "No selected file.")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data.")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		fail(c, http.StatusBadRequest, "Invalid request data.")
		return
	}

	meta := prompt.Metadata{
		Subject:       c.PostForm("subject"),
		Grade:         c.PostForm("grade"),
		Notes:         c.PostForm("notes"),
		NumQuestions:  c.PostForm("num_questions"),
		QuestionTypes: c.PostForm("question_types"),
	}

	questions, err := h.Generator.Generate(ctx, apiKey, fileHeader.Filename, data, meta)
	if err != nil {
		h.writeGenerateError(c, err)
		return
	}

	if h.Archive != nil {
		go h.archiveDocument(fileHeader.Filename, data)
	}

	c.JSON(http.StatusOK, GenerateResponse{Success: true, Questions: questions})
}

// gateUsage enforces the per-user monthly quota. It writes the response and
// returns a non-nil error when the request must not proceed.
func (h *Handler) gateUsage(c *gin.Context) error {
	userIDStr, ok := auth.GetUserID(c)
	if !ok {
		fail(c, http.StatusUnauthorized, "Authentication required.")
		return errors.New("unauthenticated")
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		fail(c, http.StatusUnauthorized, "Authentication required.")
		return err
	}

	if err := h.Accounts.CheckAndRecordUsage(c.Request.Context(), userID); err != nil {
		if errors.Is(err, ledger.ErrQuotaExceeded) {
			fail(c, http.StatusTooManyRequests, "You have reached your monthly generation limit.")
			return err
		}
		logger.ErrorErr(err, "failed to check usage quota", "user_id", userID)
		fail(c, http.StatusInternalServerError, "Failed to check usage quota.")
		return err
	}

	return nil
}

// writeGenerateError maps pipeline errors to status codes and messages. Raw
// provider detail stays in the server logs.
func (h *Handler) writeGenerateError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat):
		fail(c, http.StatusBadRequest, "Unsupported file type. Please use PDF or TXT.")
	case errors.Is(err, extract.ErrEmptyDocument):
		fail(c, http.StatusBadRequest, "Could not extract any text from the document.")
	case errors.Is(err, gemini.ErrMissingCredential):
		fail(c, http.StatusUnauthorized, "API key not configured on server. Please verify your key first.")
	case errors.Is(err, models.ErrMalformedResponse):
		fail(c, http.StatusInternalServerError, "The AI returned an invalid JSON format. Please try again.")
	default:
		var perr *gemini.ProviderError
		if errors.As(err, &perr) {
			logger.ErrorErr(err, "provider call failed")
			fail(c, http.StatusInternalServerError, "An error occurred while generating questions.")
			return
		}
		logger.ErrorErr(err, "failed to process generation request")
		fail(c, http.StatusInternalServerError, "Failed to process the uploaded document.")
	}
}

// archiveDocument stores the source document out of band. Failures are
// logged and never affect the client response.
func (h *Handler) archiveDocument(filename string, data []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	key, err := h.Archive.StoreDocument(ctx, filename, data)
	if err != nil {
		logger.ErrorErr(err, "failed to archive document", "filename", filename)
		return
	}
	logger.Info("archived source document", "key", key)
}
