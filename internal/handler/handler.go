package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sakshamjn/intervue/internal/auth"
	"github.com/sakshamjn/intervue/internal/interview"
	"github.com/sakshamjn/intervue/internal/repository"
	"go.uber.org/zap"
)

type Handler struct {
	Logger     *zap.Logger
	Interviews *interview.Service
	Repository *repository.Repository
	JwtSecret  string
	JwtTTL     time.Duration
}

// GetClaimsFromContext retrieves verified JWT claims set by the auth
// middleware.
func (h *Handler) GetClaimsFromContext(c *gin.Context) *auth.Claims {
	contextClaims, exists := c.Get("claims")
	if !exists {
		return nil
	}

	claims, ok := contextClaims.(*auth.Claims)
	if !ok {
		return nil
	}

	return claims
}
