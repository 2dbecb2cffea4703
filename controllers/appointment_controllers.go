package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maddreams/cleaning-site/events"
	"github.com/maddreams/cleaning-site/models"
	"github.com/maddreams/cleaning-site/store"
	"github.com/maddreams/cleaning-site/utils"
)

type AppointmentController struct {
	Store store.RecordStore[models.Appointment]
	Hub   *events.Hub
}

func NewAppointmentController(s store.RecordStore[models.Appointment], hub *events.Hub) *AppointmentController {
	return &AppointmentController{Store: s, Hub: hub}
}

// CreateAppointment -> POST /admin/appointments
func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	var req struct {
		Time            string `json:"time" form:"time"`
		ClientName      string `json:"clientName" form:"clientName"`
		TypeOfService   string `json:"typeOfService" form:"typeOfService"`
		CleanerAssigned string `json:"cleanerAssigned" form:"cleanerAssigned"`
	}
	if !bind(c, &req) {
		return
	}

	appt, err := ac.Store.Create(c.Request.Context(), models.Appointment{
		Time:            req.Time,
		ClientName:      req.ClientName,
		TypeOfService:   req.TypeOfService,
		CleanerAssigned: req.CleanerAssigned,
	})
	if err != nil {
		respondStoreError(c, err, "Appointment not found.")
		return
	}

	ac.Hub.Publish(events.EventAppointmentCreated, appt)
	utils.InfoLogger.Printf("Appointment %s added for %s", appt.ID, appt.ClientName)
	utils.RespondJSON(c, http.StatusCreated, "Appointment added successfully!", appt)
}

// ListAppointments serves both the public listing and the dashboard.
func (ac *AppointmentController) ListAppointments(c *gin.Context) {
	appts, err := ac.Store.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "Appointment not found.")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of appointments", appts)
}

func (ac *AppointmentController) DeleteAppointment(c *gin.Context) {
	id := c.Param("id")
	if err := ac.Store.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Appointment not found.")
		return
	}

	ac.Hub.Publish(events.EventAppointmentDeleted, gin.H{"id": id})
	utils.InfoLogger.Printf("Appointment %s deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Appointment deleted successfully.", nil)
}
