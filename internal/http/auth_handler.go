package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crowdfund/internal/service"
)

// AuthHandler expone registro, verificacion, login y reseteo de contraseña.
type AuthHandler struct {
	logger *zap.Logger
	auth   *service.AuthService
}

func NewAuthHandler(logger *zap.Logger, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{logger: logger, auth: auth}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type emailRequest struct {
	Email string `json:"email" binding:"required"`
}

// Register maneja POST /api/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "register", err)
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, "register", err)
		return
	}
	c.JSON(http.StatusCreated, successBody("User registered. Please verify your email.", gin.H{"user": user}))
}

// VerifyEmail maneja GET /api/verify/:token.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	if err := h.auth.VerifyEmail(c.Request.Context(), c.Param("token")); err != nil {
		respondError(c, h.logger, "verify email", err)
		return
	}
	c.JSON(http.StatusOK, successBody("Email verified successfully. You can now log in.", nil))
}

// ResendVerification maneja POST /api/resend-verification.
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "resend verification", err)
		return
	}
	already, err := h.auth.ResendVerification(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.logger, "resend verification", err)
		return
	}
	if already {
		c.JSON(http.StatusOK, successBody("Email already verified", nil))
		return
	}
	c.JSON(http.StatusOK, successBody("Verification email resent", nil))
}

// Login maneja POST /api/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "login", err)
		return
	}
	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, "login", err)
		return
	}
	c.JSON(http.StatusOK, successBody("Login successful", gin.H{
		"token":      res.Token,
		"expires_in": res.ExpiresIn,
		"user":       res.User,
	}))
}

// ForgotPassword maneja POST /api/forgot-password.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "forgot password", err)
		return
	}
	if err := h.auth.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, h.logger, "forgot password", err)
		return
	}
	c.JSON(http.StatusOK, successBody("If the account exists, a password reset link has been sent", nil))
}

// ValidateResetToken maneja GET /api/reset-password/:token.
func (h *AuthHandler) ValidateResetToken(c *gin.Context) {
	if err := h.auth.ValidateResetToken(c.Request.Context(), c.Param("token")); err != nil {
		respondError(c, h.logger, "validate reset token", err)
		return
	}
	c.JSON(http.StatusOK, successBody("Token is valid. Submit a new password.", nil))
}

// ResetPassword maneja POST /api/reset-password/:token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, h.logger, "reset password", err)
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), c.Param("token"), req.Password); err != nil {
		respondError(c, h.logger, "reset password", err)
		return
	}
	c.JSON(http.StatusOK, successBody("Password reset successful. You can now log in.", nil))
}

// Profile maneja GET /api/profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		respondError(c, h.logger, "profile", err)
		return
	}
	user, err := h.auth.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, "profile", err)
		return
	}
	c.JSON(http.StatusOK, successBody("", gin.H{"user": user}))
}
