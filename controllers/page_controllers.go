package controllers

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maddreams/cleaning-site/middlewares"
	"github.com/maddreams/cleaning-site/sessions"
	"github.com/maddreams/cleaning-site/utils"
)

// PageController serves the HTML pages from an embedded file system.
type PageController struct {
	Pages    fs.FS
	Sessions *sessions.Manager
}

func NewPageController(pages fs.FS, sm *sessions.Manager) *PageController {
	return &PageController{Pages: pages, Sessions: sm}
}

func (pc *PageController) Home(c *gin.Context) {
	pc.render(c, "index.html")
}

// Dashboard is only routed behind RequireAdmin.
func (pc *PageController) Dashboard(c *gin.Context) {
	pc.render(c, "admin.html")
}

// LoginPage sends an already logged in admin straight to the dashboard.
func (pc *PageController) LoginPage(c *gin.Context) {
	if pc.Sessions.Current(c).IsAdmin() {
		c.Redirect(http.StatusFound, dashboardPage)
		return
	}
	pc.render(c, "admin-login.html")
}

func (pc *PageController) NotFound(c *gin.Context) {
	if middlewares.WantsJSON(c) {
		utils.RespondJSON(c, http.StatusNotFound, "Page Not Found", nil)
		return
	}
	c.String(http.StatusNotFound, "Page Not Found")
}

func (pc *PageController) render(c *gin.Context, name string) {
	page, err := fs.ReadFile(pc.Pages, name)
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("page", name).Error("embedded page missing")
		c.String(http.StatusInternalServerError, "Page unavailable")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
