package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"luy-todo/backend/internal/models"
	"luy-todo/backend/internal/services"
)

// RequestIDHeader はリクエストIDを運ぶヘッダーです。
const RequestIDHeader = "X-Request-ID"

// AuthMiddleware はJWTトークンを検証し、subject をコンテキストに設定するミドルウェアです。
func AuthMiddleware(jwtService *services.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorBody{Error: "Authorization header required"})
			return
		}
		// "Bearer " プレフィックスを削除
		if !strings.HasPrefix(tokenString, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorBody{Error: "Invalid token format"})
			return
		}
		tokenString = tokenString[len("Bearer "):]

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorBody{Error: "Invalid or expired token"})
			return
		}

		c.Set("subject", claims.Subject)
		c.Next()
	}
}

// RequestID はリクエストIDを発行してレスポンスヘッダーとコンテキストに設定します。
// クライアントが送ったIDはそのまま使います。
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger は処理したリクエストを1行ずつログに出します。
func RequestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", c.GetString("request_id"),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "err", c.Errors.Last().Err)
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("handled", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("handled", fields...)
		default:
			logger.Info("handled", fields...)
		}
	}
}
