package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sakshamjn/intervue/internal/auth"
	"github.com/sakshamjn/intervue/pkg"
	"github.com/sakshamjn/intervue/pkg/model"
)

// SignUp creates a new interviewer account
func (h *Handler) SignUp(c *gin.Context) {
	var req model.SignUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("signup bad request", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	pwHash, err := pkg.HashPassword(req.Password)
	if err != nil {
		h.Logger.Sugar().Errorw("failed to hash password", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	_, err = h.Repository.User.Create(ctx, req.Name, req.Email, pwHash)
	if err != nil {
		h.Logger.Sugar().Errorw("user create failed", "email", req.Email, "err", err)
		// hide DB errors from clients; duplicate email is surfaced by repo
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user created successfully"})
}

// Login verifies credentials and returns JWT
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Logger.Sugar().Warnw("login bad request", "err", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, err := h.Repository.User.GetByEmail(ctx, req.Email)
	if err != nil {
		h.Logger.Sugar().Warnw("login user not found", "email", req.Email, "err", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	if err := pkg.ComparePassword(user.PasswordHash, req.Password); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, expiresAt, err := auth.GenerateToken(h.JwtSecret, user.UserID, user.Email, h.JwtTTL)
	if err != nil {
		h.Logger.Sugar().Errorw("token generation failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, model.TokenRes{
		AccessToken: token,
		ExpiresAt:   expiresAt.Unix(),
	})
}
