package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	checkoutUC *usecase.CheckoutUsecase
	orderUC    *usecase.OrderUsecase
}

func NewOrderHandler(checkoutUC *usecase.CheckoutUsecase, orderUC *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{checkoutUC: checkoutUC, orderUC: orderUC}
}

// cartGroupにはOptionalAuthJWT+CartSession、authGroupにはAuthJWTが掛かっている前提
func (h *OrderHandler) RegisterRoutes(e *echo.Echo, cartGroup *echo.Group, authGroup *echo.Group) {
	cartGroup.POST("/checkout", h.checkout)
	authGroup.GET("/orders", h.listMyOrders)
	authGroup.GET("/orders/:id", h.orderDetail)

	// 電話番号だけで照会できる。認証なし
	e.GET("/orders/lookup", h.lookupByPhone)
}

type checkoutRequest struct {
	DeliveryAddress string `json:"delivery_address"`
	Phone           string `json:"phone"`
}

func (h *OrderHandler) checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	// ログイン前のセッションキーを渡す。移行はusecase側でやる
	actor := usecase.CheckoutActor{SessionKey: sessionKeyFromContext(c)}
	if id, ok := userIDFromContext(c); ok {
		actor.BuyerID = id
	}

	out, err := h.checkoutUC.Checkout(c.Request().Context(), actor, usecase.CheckoutInput{
		DeliveryAddress: req.DeliveryAddress,
		Phone:           req.Phone,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *OrderHandler) listMyOrders(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.orderUC.ListMyOrders(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) orderDetail(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.orderUC.GetMyOrderDetail(c.Request().Context(), userID, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) lookupByPhone(c echo.Context) error {
	out, err := h.orderUC.LookupByPhone(c.Request().Context(), c.QueryParam("phone"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
