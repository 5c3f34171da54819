package middleware

import (
	"net/http"

	"app/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// 出品者（MASTER）だけ通すガード。AuthJWTの後ろに置く。
func MasterRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxUserRoleKey).(string)
			if !ok || model.Role(role) != model.RoleMaster {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}
			return next(c)
		}
	}
}
