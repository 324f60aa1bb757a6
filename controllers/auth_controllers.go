package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/kokum-coast/services"
	"github.com/yeremiapane/kokum-coast/utils"
)

type AuthController struct {
	Auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{Auth: auth}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login -> return JWT
func (ac *AuthController) Login(c *gin.Context) {
	var input loginRequest
	if !bindJSON(c, &input) {
		return
	}

	token, err := ac.Auth.Login(input.Email, input.Password)
	if err != nil {
		utils.InfoLogger.WithField("client_ip", c.ClientIP()).Warn("admin login failed")
		utils.RespondAppError(c, err)
		return
	}

	utils.InfoLogger.WithField("client_ip", c.ClientIP()).Info("admin login succeeded")
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   utils.TokenType,
	})
}
