package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/app/repositories"
)

// Handler upgrades authenticated sessions into snapshot subscriptions
type Handler struct {
	hub         *Hub
	studentRepo repositories.IStudentRepository
	parentRepo  repositories.IParentRepository
	logger      zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(
	hub *Hub,
	studentRepo repositories.IStudentRepository,
	parentRepo repositories.IParentRepository,
	logger zerolog.Logger,
) *Handler {
	return &Handler{
		hub:         hub,
		studentRepo: studentRepo,
		parentRepo:  parentRepo,
		logger:      logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to live student snapshots
// @Description Upgrades the connection to a WebSocket feed of full student record snapshots. A student session watches its own record; a parent session watches its linked student. Each message carries the view to render and, for student sessions, an alert flag set once per new pickup request.
// @Tags sync, websocket
// @Produce json
// @Security BearerAuth
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} gin.H "Unauthorized: JWT token missing or invalid"
// @Failure 404 {object} gin.H "Parent has no linked student"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	accountIDValue, exists := c.Get("accountID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account ID not found in context"})
		return
	}
	accountID, ok := accountIDValue.(int64)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid account ID format"})
		return
	}

	roleValue, exists := c.Get("role")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found in context"})
		return
	}
	role := models.RoleType(roleValue.(string))

	// Resolve which student record this session watches
	var studentID int64
	switch role {
	case models.RoleStudent:
		studentID = accountID
	case models.RoleParent:
		parent, err := h.parentRepo.GetParentByID(c.Request.Context(), accountID)
		if err != nil {
			h.logger.Error().Err(err).Int64("parentID", accountID).Msg("Failed to load parent for subscription")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load parent"})
			return
		}
		if !parent.Linked() {
			c.JSON(http.StatusNotFound, gin.H{"error": "No linked student to subscribe to"})
			return
		}
		studentID = *parent.LinkedStudentID
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Unknown role"})
		return
	}

	// The initial snapshot primes edge detection and gives the client its
	// first full document without waiting for a change.
	student, err := h.studentRepo.GetStudentByID(c.Request.Context(), studentID)
	if err != nil {
		h.logger.Error().Err(err).Int64("studentID", studentID).Msg("Failed to load student for subscription")
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("accountID", accountID).
			Int64("studentID", studentID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:       h.hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		accountID: accountID,
		role:      role,
		studentID: studentID,
		initial:   student,
		logger:    h.logger,
	}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Int64("accountID", accountID).
		Int64("studentID", studentID).
		Str("role", string(role)).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("Snapshot subscription established")
}
