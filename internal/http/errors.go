package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crowdfund/internal/service"
)

type errorCase struct {
	err     error
	status  int
	message string
}

// errorCases traduce los errores del servicio a status HTTP. El orden importa
// solo para errores que envuelven a otros.
var errorCases = []errorCase{
	{service.ErrDuplicateEmail, http.StatusBadRequest, "Email already registered"},
	{service.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials"},
	{service.ErrInvalidToken, http.StatusBadRequest, "Invalid or already used token"},
	{service.ErrTokenExpired, http.StatusBadRequest, "Token expired"},
	{service.ErrUnauthenticated, http.StatusUnauthorized, "Authentication required"},
	{service.ErrEmailNotVerified, http.StatusForbidden, "Please verify your email before logging in"},
	{service.ErrForbidden, http.StatusForbidden, "Not allowed"},
	{service.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{service.ErrNotFound, http.StatusNotFound, "Not found"},
	{service.ErrRateLimited, http.StatusTooManyRequests, "Too many requests, please try again later"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "Request timed out"},
}

// respondError escribe el envelope de error. Los errores sin caso conocido
// se loguean y salen como 500 genericos.
func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, errorBody(verr.Error()))
		return
	}
	var limited *service.RateLimitError
	if errors.As(err, &limited) {
		setRetryAfter(c, limited.RetryAfter)
	}
	for _, ec := range errorCases {
		if errors.Is(err, ec.err) {
			c.JSON(ec.status, errorBody(ec.message))
			return
		}
	}
	logger.Error(op+" failed", zap.Error(err), zap.String("request_id", requestID(c)))
	c.JSON(http.StatusInternalServerError, errorBody("Internal server error"))
}

func respondBadRequest(c *gin.Context, logger *zap.Logger, op string, err error) {
	logger.Warn("invalid "+op+" request", zap.Error(err))
	c.JSON(http.StatusBadRequest, errorBody("Invalid request"))
}

func errorBody(message string) gin.H {
	return gin.H{"status": "error", "error": message}
}

func successBody(message string, extra gin.H) gin.H {
	body := gin.H{"status": "success"}
	if message != "" {
		body["message"] = message
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}
