package server

import (
	"app/internal/config"
	"app/internal/middleware"
	repo "app/internal/repository"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, sessions repo.SessionRepository, h Handlers) {
	// 認証なしの公開ルート
	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)

	// カート系。ログイン済みならbuyer、未ログインならセッションCookieで所有者を決める
	cartGroup := e.Group("", middleware.OptionalAuthJWT(cfg), middleware.CartSession(sessions))
	h.Cart.RegisterRoutes(cartGroup)

	// 注文参照とプロフィールはログイン必須。checkoutだけはカート系のグループ
	authGroup := e.Group("", middleware.AuthJWT(cfg))
	h.Order.RegisterRoutes(e, cartGroup, authGroup)
	h.Auth.RegisterProtectedRoutes(authGroup)

	// 出品者専用
	masterGroup := e.Group("/master", middleware.AuthJWT(cfg), middleware.MasterRoleGuard())
	h.Master.RegisterRoutes(masterGroup)
}
