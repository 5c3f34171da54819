package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// カートのAPI。ログイン済みでも未ログインでも使える
type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// gにはOptionalAuthJWTとCartSessionが掛かっている前提
func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/cart", h.getCart)
	g.POST("/cart", h.addToCart)
	g.PATCH("/cart/:id", h.adjustQuantity)
	g.DELETE("/cart/:id", h.removeLine)
}

func (h *CartHandler) getCart(c echo.Context) error {
	out, err := h.uc.GetCart(c.Request().Context(), ownerKeyFromContext(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type addCartRequest struct {
	ProductID int64  `json:"product_id"`
	Size      string `json:"size"`
	Quantity  int64  `json:"quantity"`
}

func (h *CartHandler) addToCart(c echo.Context) error {
	var req addCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	out, err := h.uc.AddToCart(c.Request().Context(), ownerKeyFromContext(c), usecase.AddCartInput{
		ProductID: req.ProductID,
		Size:      req.Size,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

type adjustCartRequest struct {
	// increase か decrease
	Direction string `json:"direction"`
}

func (h *CartHandler) adjustQuantity(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req adjustCartRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	out, err := h.uc.AdjustQuantity(c.Request().Context(), ownerKeyFromContext(c), id, req.Direction)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeLine(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.RemoveLine(c.Request().Context(), ownerKeyFromContext(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
