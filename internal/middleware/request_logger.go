package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const CtxRequestIDKey = "request_id"

// 記録用のリクエストログ。1リクエスト1行。
func RequestLogger(logger *zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := uuid.NewString()
			c.Set(CtxRequestIDKey, requestID)

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			logger.Info().
				Str("request_id", requestID).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", c.Response().Status).
				Dur("elapsed", time.Since(start)).
				Msg("request")

			return nil
		}
	}
}
