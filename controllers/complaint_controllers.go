package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maddreams/cleaning-site/events"
	"github.com/maddreams/cleaning-site/models"
	"github.com/maddreams/cleaning-site/store"
	"github.com/maddreams/cleaning-site/utils"
)

// ComplaintController handles the public contact form and the admin inbox.
type ComplaintController struct {
	Store store.RecordStore[models.Complaint]
	Hub   *events.Hub
}

func NewComplaintController(s store.RecordStore[models.Complaint], hub *events.Hub) *ComplaintController {
	return &ComplaintController{Store: s, Hub: hub}
}

// Contact -> POST /api/contact
func (cc *ComplaintController) Contact(c *gin.Context) {
	var req struct {
		Name    string `json:"name" form:"name"`
		Email   string `json:"email" form:"email"`
		Message string `json:"message" form:"message"`
	}
	if !bind(c, &req) {
		return
	}

	complaint, err := cc.Store.Create(c.Request.Context(), models.Complaint{
		SenderName:  req.Name,
		SenderEmail: req.Email,
		Message:     req.Message,
	})
	if err != nil {
		respondStoreError(c, err, "Complaint/message not found.")
		return
	}

	cc.Hub.Publish(events.EventComplaintCreated, complaint)
	utils.InfoLogger.Printf("New message %s from %s", complaint.ID, complaint.SenderEmail)
	utils.RespondJSON(c, http.StatusOK, "Your message has been sent successfully!", nil)
}

// ListComplaints returns messages newest first; ordering is the store's.
func (cc *ComplaintController) ListComplaints(c *gin.Context) {
	complaints, err := cc.Store.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "Complaint/message not found.")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of complaints", complaints)
}

func (cc *ComplaintController) DeleteComplaint(c *gin.Context) {
	id := c.Param("id")
	if err := cc.Store.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Complaint/message not found.")
		return
	}

	cc.Hub.Publish(events.EventComplaintDeleted, gin.H{"id": id})
	utils.InfoLogger.Printf("Complaint %s deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Complaint/message deleted successfully.", nil)
}
