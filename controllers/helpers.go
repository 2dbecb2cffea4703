package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maddreams/cleaning-site/models"
	"github.com/maddreams/cleaning-site/store"
	"github.com/maddreams/cleaning-site/utils"
)

var errMalformedBody = errors.New("Request body could not be parsed.")

// respondStoreError maps store errors onto the response envelope. notFound is
// the message used for store.ErrNotFound.
func respondStoreError(c *gin.Context, err error, notFound string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		utils.RespondError(c, http.StatusBadRequest, verr)
	case errors.Is(err, store.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, errors.New(notFound))
	default:
		utils.ErrorLogger.WithError(err).WithField("path", c.Request.URL.Path).Error("store operation failed")
		utils.RespondError(c, http.StatusInternalServerError, errors.New("Something went wrong, please try again."))
	}
}

// bind accepts JSON and urlencoded bodies. Field presence is checked by the
// record's own validation.
func bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBind(dst); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errMalformedBody)
		return false
	}
	return true
}
