package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"attendance-server-go/db"
	"attendance-server-go/models"
	"attendance-server-go/reports"
	"attendance-server-go/school"
)

const (
	msgUnexpected   = "An unexpected error occurred. Please try again."
	msgNotPersisted = "Changes were applied but could not be saved. They may be lost on restart."
)

// Storage is what the handlers need from the store besides the registry.
type Storage interface {
	Ping(ctx context.Context) error
	LoadBackup(ctx context.Context) (*db.Backup, error)
}

// APIHandler holds the dependencies for API handlers
type APIHandler struct {
	Registry *school.Registry
	Storage  Storage
	log      *zap.Logger
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(registry *school.Registry, storage Storage, log *zap.Logger) *APIHandler {
	return &APIHandler{
		Registry: registry,
		Storage:  storage,
		log:      log,
	}
}

// respondError writes the HTTP error matching err.
func (h *APIHandler) respondError(c *gin.Context, err error) {
	var vErr *school.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "fields": vErr.Fields})
	case errors.Is(err, models.ErrStudentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
	case errors.Is(err, models.ErrClassNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
	case errors.Is(err, school.ErrAssignmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Assignment not found"})
	case errors.Is(err, school.ErrDuplicateStudentID),
		errors.Is(err, school.ErrClassExists),
		errors.Is(err, school.ErrSubjectAssigned):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgUnexpected})
	}
}

// respondMutation writes the result of a change. A change that could not be persisted
// is still reported with status, wrapped with a warning.
func (h *APIHandler) respondMutation(c *gin.Context, status int, result interface{}, err error) {
	switch {
	case err == nil:
		if result == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(status, result)
	case errors.Is(err, school.ErrNotPersisted):
		_ = c.Error(err)
		c.JSON(status, gin.H{"data": result, "warning": msgNotPersisted})
	default:
		h.respondError(c, err)
	}
}

// bindJSON binds the request body, answering 400 on failure.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return false
	}
	return true
}

// --- Misc Handlers ---

// PingHandler handles GET /api/ping
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}

// Health handles GET /api/health
func (h *APIHandler) Health(c *gin.Context) {
	if err := h.Storage.Ping(c.Request.Context()); err != nil {
		h.log.Warn("store ping failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "store unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetSubjects handles GET /api/subjects
func (h *APIHandler) GetSubjects(c *gin.Context) {
	c.JSON(http.StatusOK, models.Curriculum)
}

// GetBackup handles GET /api/backup
func (h *APIHandler) GetBackup(c *gin.Context) {
	b, err := h.Storage.LoadBackup(c.Request.Context())
	if errors.Is(err, db.ErrKeyNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No backup available"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetDashboard handles GET /api/dashboard
func (h *APIHandler) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, reports.NewDashboard(h.Registry.Snapshot()))
}
