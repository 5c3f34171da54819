package handler

import (
	"errors"
	"net/http"

	repo "app/internal/repository"
	auth "app/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase
	loginUC    *auth.LoginUsecase
	profileUC  *auth.ProfileUsecase
}

func NewAuthHandler(registerUC *auth.RegisterUserUsecase, loginUC *auth.LoginUsecase, profileUC *auth.ProfileUsecase) *AuthHandler {
	return &AuthHandler{registerUC: registerUC, loginUC: loginUC, profileUC: profileUC}
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/auth/register", h.register)
	e.POST("/auth/login", h.login)
}

// gにはAuthJWTが掛かっている前提
func (h *AuthHandler) RegisterProtectedRoutes(g *echo.Group) {
	g.GET("/me", h.me)
	g.PUT("/me", h.updateMe)
}

type registerRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Master   bool   `json:"master"`
}

type registerResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Username: req.Username,
		Password: req.Password,
		Phone:    req.Phone,
		Master:   req.Master,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameAlreadyExists):
			return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
		case errors.Is(err, auth.ErrUsernameRequired),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrInvalidPhone):
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, registerResponse{
		ID:       out.User.ID,
		Username: out.User.Username,
		Role:     string(out.User.Role),
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
		}
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) me(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	user, err := h.profileUC.Get(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

type updateMeRequest struct {
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}

func (h *AuthHandler) updateMe(c echo.Context) error {
	userID, ok := userIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req updateMeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	user, err := h.profileUC.Update(c.Request().Context(), userID, auth.UpdateProfileInput{
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotFound):
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
		case errors.Is(err, auth.ErrInvalidPhone),
			errors.Is(err, auth.ErrPasswordTooShort):
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
