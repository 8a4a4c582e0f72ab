package handler

import (
	"fmt"
	"net/http"

	model "auction-marketplace/internal/models"
	"auction-marketplace/services/user/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type UserServiceInterface interface {
	Register(username, password string) (model.User, string, error)
	Login(username, password string) (model.User, string, error)
}

type UserHandler struct {
	service UserServiceInterface
}

func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{service: service}
}

// SignupHandler handles POST /auth/signup
func (h *UserHandler) SignupHandler(c *gin.Context) {
	var req helpers.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SignupHandler", err)
		return
	}

	u, token, err := h.service.Register(req.Username, req.Password)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("SignupHandler: failed to register user", map[string]any{
			"username": req.Username,
			"error":    err.Error(),
		})
		return
	}

	resp := helpers.AuthResponse{
		UserID:   u.UserID,
		Username: u.Username,
		Token:    token,
	}

	utils.JSONResponse(c, http.StatusCreated, resp, "user registered successfully")
	utils.Info("SignupHandler: user registered successfully", map[string]any{
		"user_id":  u.UserID,
		"username": u.Username,
	})
}

// SigninHandler handles POST /auth/signin
func (h *UserHandler) SigninHandler(c *gin.Context) {
	var req helpers.SigninRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SigninHandler", err)
		return
	}

	u, token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("SigninHandler: sign-in rejected", map[string]any{
			"username": req.Username,
			"error":    err.Error(),
		})
		return
	}

	resp := helpers.AuthResponse{
		UserID:   u.UserID,
		Username: u.Username,
		Token:    token,
	}

	utils.JSONResponse(c, http.StatusOK, resp, "signed in successfully")
	utils.Info("SigninHandler: user signed in", map[string]any{
		"user_id":  u.UserID,
		"username": u.Username,
	})
}
