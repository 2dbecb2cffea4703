package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maddreams/cleaning-site/sessions"
	"github.com/maddreams/cleaning-site/utils"
)

const (
	dashboardPage = "/admin.html"
	homePage      = "/"
)

type AuthController struct {
	Sessions    *sessions.Manager
	Credentials utils.Credentials
}

func NewAuthController(sm *sessions.Manager, creds utils.Credentials) *AuthController {
	return &AuthController{Sessions: sm, Credentials: creds}
}

// Login -> POST /admin/login
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}
	if !bind(c, &input) {
		return
	}

	if err := ac.Credentials.Verify(input.Username, input.Password); err != nil {
		utils.InfoLogger.WithField("client_ip", c.ClientIP()).Warn("failed admin login")
		utils.RespondError(c, http.StatusUnauthorized, err)
		return
	}

	if _, err := ac.Sessions.Login(c); err != nil {
		utils.ErrorLogger.WithError(err).Error("could not start admin session")
		utils.RespondError(c, http.StatusInternalServerError, errors.New("Could not log in, please try again."))
		return
	}

	utils.InfoLogger.WithField("client_ip", c.ClientIP()).Info("admin logged in")
	utils.RespondJSON(c, http.StatusOK, "Login successful!", gin.H{"redirect": dashboardPage})
}

func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.Sessions.Logout(c); err != nil {
		utils.ErrorLogger.WithError(err).Error("logout failed")
		utils.RespondError(c, http.StatusInternalServerError, errors.New("Could not log out, please try again."))
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out successfully.", gin.H{"redirect": homePage})
}
