package server

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/moviops/conductor/internal/agent"
	"github.com/moviops/conductor/internal/store"
)

// chatRequest is the POST /api/chat body. The screenshot, when present, is
// base64 in ImageB64 with its MIME type alongside.
type chatRequest struct {
	SessionID   string `json:"session_id"`
	Message     string `json:"message" binding:"required"`
	CurrentPage string `json:"current_page"`
	ImageB64    string `json:"image_base64"`
	ImageMIME   string `json:"image_mime"`
}

// chatResponse mirrors agent.TurnOutput.
type chatResponse struct {
	SessionID            string `json:"session_id"`
	Response             string `json:"response"`
	AwaitingConfirmation bool   `json:"awaiting_confirmation"`
}

// registerRoutes sets up all API routes on the gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB, machine *agent.Machine) {
	api := router.Group("/api")

	api.GET("/health", handleHealth(db))
	api.POST("/chat", handleChat(machine))

	api.GET("/trips", listHandler(func() (any, error) { return store.ListTrips(db) }))
	api.GET("/routes", listHandler(func() (any, error) { return store.ListRoutes(db) }))
	api.GET("/stops", listHandler(func() (any, error) { return store.ListStops(db) }))
	api.GET("/paths", listHandler(func() (any, error) { return store.ListPaths(db) }))
	api.GET("/vehicles", listHandler(func() (any, error) { return store.ListVehicles(db) }))
	api.GET("/drivers", listHandler(func() (any, error) { return store.ListDrivers(db) }))
}

func handleHealth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func handleChat(machine *agent.Machine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
			return
		}

		var image []byte
		if req.ImageB64 != "" {
			decoded, err := base64.StdEncoding.DecodeString(req.ImageB64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "image_base64 is not valid base64"})
				return
			}
			image = decoded
		}

		out, err := machine.HandleTurn(c.Request.Context(), agent.TurnInput{
			SessionID:   req.SessionID,
			Text:        req.Message,
			CurrentPage: req.CurrentPage,
			Image:       image,
			ImageMIME:   req.ImageMIME,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, chatResponse{
			SessionID:            out.SessionID,
			Response:             out.ResponseText,
			AwaitingConfirmation: out.AwaitingConfirmation,
		})
	}
}

// listHandler wraps a store list call as a JSON endpoint.
func listHandler(list func() (any, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := list()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}
