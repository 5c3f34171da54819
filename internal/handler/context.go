package handler

import (
	"app/internal/domain/model"
	"app/internal/middleware"

	"github.com/labstack/echo/v4"
)

// 認証済みユーザーIDを取り出す
func userIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	return id, ok
}

func sessionKeyFromContext(c echo.Context) string {
	key, _ := c.Get(middleware.CtxSessionKey).(string)
	return key
}

// カート所有者を解決する。ログイン済みならbuyer、未ログインならセッション
func ownerKeyFromContext(c echo.Context) model.OwnerKey {
	if id, ok := userIDFromContext(c); ok {
		return model.BuyerOwner(id)
	}
	return model.SessionOwner(sessionKeyFromContext(c))
}
