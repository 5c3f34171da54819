package middleware

import (
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CtxSessionKey = "session_key" // string

	sessionCookieName = "cart_session"
	sessionTTL        = 30 * 24 * time.Hour
)

// 匿名カートのセッショントークンを保証するミドルウェア。
// ログイン済みでも発行はする（ログイン前の行が残っている場合があるため）。
// Cookieが無ければトークンを作って永続化し、Cookieに入れる。
func CartSession(sessions repo.SessionRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			now := time.Now()

			if cookie, err := c.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
				s, err := sessions.FindByToken(ctx, cookie.Value)
				if err == nil && !s.Expired(now) {
					//有効期限を延ばして続行
					_ = sessions.Touch(ctx, s.Token, now.Add(sessionTTL))
					c.Set(CtxSessionKey, s.Token)
					return next(c)
				}
				if err != nil && err != repo.ErrNotFound {
					return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
				}
				//無効なCookieは作り直す
			}

			token := uuid.NewString()
			if err := sessions.Create(ctx, model.Session{
				Token:     token,
				CreatedAt: now,
				ExpiresAt: now.Add(sessionTTL),
			}); err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			c.SetCookie(&http.Cookie{
				Name:     sessionCookieName,
				Value:    token,
				Path:     "/",
				Expires:  now.Add(sessionTTL),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})

			c.Set(CtxSessionKey, token)
			return next(c)
		}
	}
}
