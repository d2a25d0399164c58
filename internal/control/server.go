package control

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type startRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
	UserID    string `json:"userId"`
}

// NewRouter builds the HTTP surface of the daemon: health, relay CRUD
// and the websocket RPC endpoint. All relay routes require auth.
func NewRouter(manager *Manager, jwtSecret string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	authorized := router.Group("/", AuthMiddleware(jwtSecret))

	authorized.POST("/relays", func(c *gin.Context) {
		var req startRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		userID := req.UserID
		if userID == "" {
			userID = AuthUser(c)
		}

		status, err := manager.Start(req.SessionID, userID)
		if errors.Is(err, ErrRelayExists) || errors.Is(err, ErrUserBusy) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, status)
	})

	authorized.GET("/relays", func(c *gin.Context) {
		c.JSON(http.StatusOK, manager.List())
	})

	authorized.GET("/relays/:id", func(c *gin.Context) {
		status, err := manager.Status(c.Param("id"))
		if errors.Is(err, ErrRelayNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, status)
	})

	authorized.DELETE("/relays/:id", func(c *gin.Context) {
		if err := manager.Stop(c.Param("id")); err != nil {
			if errors.Is(err, ErrRelayNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	})

	authorized.GET("/ws", func(c *gin.Context) {
		ServeRPC(manager, c.Writer, c.Request)
	})

	return router
}
