package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maddreams/cleaning-site/events"
	"github.com/maddreams/cleaning-site/models"
	"github.com/maddreams/cleaning-site/store"
	"github.com/maddreams/cleaning-site/utils"
)

type ClientController struct {
	Store store.RecordStore[models.Client]
	Hub   *events.Hub
}

func NewClientController(s store.RecordStore[models.Client], hub *events.Hub) *ClientController {
	return &ClientController{Store: s, Hub: hub}
}

func (cc *ClientController) CreateClient(c *gin.Context) {
	var req struct {
		Name          string `json:"name" form:"name"`
		Address       string `json:"address" form:"address"`
		ContactNumber string `json:"contactNumber" form:"contactNumber"`
	}
	if !bind(c, &req) {
		return
	}

	client, err := cc.Store.Create(c.Request.Context(), models.Client{
		Name:          req.Name,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		respondStoreError(c, err, "Client not found.")
		return
	}

	cc.Hub.Publish(events.EventClientCreated, client)
	utils.InfoLogger.Printf("Client %s added (%s)", client.ID, client.Name)
	utils.RespondJSON(c, http.StatusCreated, "Client added successfully!", client)
}

func (cc *ClientController) ListClients(c *gin.Context) {
	clients, err := cc.Store.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, "Client not found.")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of clients", clients)
}

func (cc *ClientController) DeleteClient(c *gin.Context) {
	id := c.Param("id")
	if err := cc.Store.Delete(c.Request.Context(), id); err != nil {
		respondStoreError(c, err, "Client not found.")
		return
	}

	cc.Hub.Publish(events.EventClientDeleted, gin.H{"id": id})
	utils.InfoLogger.Printf("Client %s deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Client deleted successfully.", nil)
}
