package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/middleware"
	repo "app/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

type Handlers struct {
	Auth    *handler.AuthHandler
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Master  *handler.MasterHandler
}

func Start(cfg config.Config, logger *zerolog.Logger, sessions repo.SessionRepository, h Handlers) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLogger(logger))
	e.Use(echomw.Recover())

	RegisterRoutes(e, cfg, sessions, h)

	//商品画像
	e.Static(cfg.MediaBaseURL, cfg.MediaDir)

	return e.Start(":" + cfg.Port)
}
