package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"quizmaker/internal/auth"
)

// SetupRoutes wires the API routes. The generation endpoint requires a
// bearer token only when quota enforcement is on.
func SetupRoutes(router *gin.Engine, h *Handler, jwtSecret, frontendURL string) {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if frontendURL != "" {
		corsConfig.AllowOrigins = []string{frontendURL}
	} else {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	api := router.Group("/api")
	{
		api.POST("/verify-and-save-key", h.HandleVerifyAndSaveKey)
		api.POST("/register", h.HandleRegister)
		api.POST("/login", h.HandleLogin)

		if h.QuotaEnforced {
			api.POST("/generate-questions", auth.Middleware(jwtSecret), h.HandleGenerateQuestions)
		} else {
			api.POST("/generate-questions", h.HandleGenerateQuestions)
		}
	}
}
