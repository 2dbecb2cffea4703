package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// ReadyCheck is a named dependency check for /readyz.
type ReadyCheck struct {
	Name  string
	Check func(context.Context) error
}

type HealthController struct {
	Checks []ReadyCheck
}

func NewHealthController(checks ...ReadyCheck) *HealthController {
	return &HealthController{Checks: checks}
}

func (hc *HealthController) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (hc *HealthController) Readyz(c *gin.Context) {
	var failures []string
	for _, check := range hc.Checks {
		if check.Check == nil {
			continue
		}
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		err := check.Check(ctx)
		cancel()
		if err != nil {
			name := check.Name
			if name == "" {
				name = "dependency"
			}
			failures = append(failures, name+": "+err.Error())
		}
	}
	if len(failures) > 0 {
		c.String(http.StatusServiceUnavailable, strings.Join(failures, "; "))
		return
	}
	c.String(http.StatusOK, "ok")
}
