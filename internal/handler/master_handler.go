package handler

import (
	"net/http"
	"strconv"

	"app/internal/storage"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// 出品者向けのAPI。AuthJWT+MasterRoleGuardが掛かっている前提
type MasterHandler struct {
	productUC *usecase.ProductUsecase
	orderUC   *usecase.SellerOrderUsecase
	images    storage.ImageStore
}

func NewMasterHandler(
	productUC *usecase.ProductUsecase,
	orderUC *usecase.SellerOrderUsecase,
	images storage.ImageStore,
) *MasterHandler {
	return &MasterHandler{productUC: productUC, orderUC: orderUC, images: images}
}

func (h *MasterHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/products", h.listMine)
	g.POST("/products", h.create)
	g.PUT("/products/:id", h.update)
	g.DELETE("/products/:id", h.delete)
	g.POST("/products/:id/images", h.addImage)
	g.PUT("/products/:id/stock", h.setStock)
	g.PATCH("/orders/:id/status", h.updateOrderStatus)
}

type saveProductRequest struct {
	CategoryID  *int64           `json:"category_id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	OldPrice    *decimal.Decimal `json:"old_price"`
	Stock       int64            `json:"stock"`
	Sizes       string           `json:"sizes"`
}

func (r saveProductRequest) toInput() usecase.SaveProductInput {
	return usecase.SaveProductInput{
		CategoryID:  r.CategoryID,
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		OldPrice:    r.OldPrice,
		Stock:       r.Stock,
		Sizes:       r.Sizes,
	}
}

func (h *MasterHandler) listMine(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.productUC.ListMine(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MasterHandler) create(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req saveProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	out, err := h.productUC.Create(c.Request().Context(), userID, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *MasterHandler) update(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req saveProductRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	out, err := h.productUC.Update(c.Request().Context(), userID, productID, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MasterHandler) delete(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	if err := h.productUC.Delete(c.Request().Context(), userID, productID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// multipart/form-dataのimageフィールドで受ける
func (h *MasterHandler) addImage(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "image file required"})
	}

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "image file required"})
	}
	defer f.Close()

	url, err := h.images.Save(c.Request().Context(), fh.Filename, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to store image"})
	}

	out, err := h.productUC.AddImage(c.Request().Context(), userID, productID, url)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

type setStockRequest struct {
	Stock  int64  `json:"stock"`
	Reason string `json:"reason"`
}

func (h *MasterHandler) setStock(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req setStockRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	if err := h.productUC.SetStock(c.Request().Context(), userID, productID, req.Stock, req.Reason); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (h *MasterHandler) updateOrderStatus(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	if err := h.orderUC.UpdateStatus(c.Request().Context(), userID, orderID, usecase.UpdateOrderStatusInput{Status: req.Status}); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
