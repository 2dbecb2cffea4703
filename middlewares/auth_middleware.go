package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maddreams/cleaning-site/sessions"
	"github.com/maddreams/cleaning-site/utils"
)

const LoginPage = "/admin-login.html"

var ErrUnauthenticated = errors.New("Unauthorized. Please log in.")

// WantsJSON reports whether the client declared it accepts a JSON answer,
// either as an XHR or through its Accept header.
func WantsJSON(c *gin.Context) bool {
	if strings.EqualFold(c.GetHeader("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	return strings.Contains(strings.ToLower(c.GetHeader("Accept")), "json")
}

// RequireAdmin lets the request through only for an admin session. Other
// callers get a 401 JSON body if they accept JSON and a redirect to the login
// page otherwise.
func RequireAdmin(sm *sessions.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sm.Current(c).IsAdmin() {
			c.Next()
			return
		}

		if WantsJSON(c) {
			utils.AbortWithError(c, http.StatusUnauthorized, ErrUnauthenticated)
			return
		}
		c.Redirect(http.StatusFound, LoginPage)
		c.Abort()
	}
}
