package handler

import (
	"crypto/subtle"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"registration/internal/auth"
	"registration/internal/httpmiddleware"
	"registration/internal/student"
)

// Response messages are part of the wire contract the frontend relies on.
const (
	msgRegistered   = "User registered successfully!"
	msgDeleted      = "Student deleted successfully!"
	msgUpdated      = "Student data updated successfully"
	msgNotFound     = "Student not found"
	msgMissing      = "Missing fields in the request body"
	msgUpdateFailed = "Error updating student data"
	msgStoreFailed  = "Database error"
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(c *gin.Context) bool

// TokenIssuer configures POST /auth/token. A zero value disables it.
type TokenIssuer struct {
	APIKey     string
	Issuer     string
	SigningKey string
	TTL        time.Duration
}

// Handler serves the registration API.
type Handler struct {
	students *student.Service
	log      *slog.Logger
	health   map[string]HealthCheck
	tokens   TokenIssuer
}

// New creates a handler. health maps dependency names to checks.
func New(svc *student.Service, log *slog.Logger, health map[string]HealthCheck, tokens TokenIssuer) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{students: svc, log: log, health: health, tokens: tokens}
}

// Register handles POST /register. The body is passed through as sent;
// absent fields reach the store as NULL and fail there with 500. A dob that
// is present but unparseable (including empty) is answered with 400
// {error:"invalid date of birth"} instead of the store failure the original
// Express service produced.
func (h *Handler) Register(c *gin.Context) {
	var in student.Input
	if err := c.ShouldBind(&in); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	h.log.Debug("incoming registration",
		slog.String("firstName", deref(in.FirstName)),
		slog.String("lastName", deref(in.LastName)),
		slog.String("rollNumber", deref(in.RollNumber)))

	id, err := h.students.Register(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, student.ErrInvalidDOB) {
			c.JSON(http.StatusBadRequest, gin.H{"error": student.ErrInvalidDOB.Error()})
			return
		}
		h.storeFailure(c, "register student", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgStoreFailed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgRegistered, "userId": id})
}

// ListUsers handles GET /users.
func (h *Handler) ListUsers(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		h.storeFailure(c, "list students", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgStoreFailed})
		return
	}
	c.JSON(http.StatusOK, students)
}

// Delete handles DELETE /delete/:id. Unknown ids still report success.
func (h *Handler) Delete(c *gin.Context) {
	id, err := student.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": student.ErrInvalidID.Error()})
		return
	}
	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		h.storeFailure(c, "delete student", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgStoreFailed})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgDeleted})
}

// Update handles PUT /update/:id.
func (h *Handler) Update(c *gin.Context) {
	id, err := student.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": student.ErrInvalidID.Error()})
		return
	}
	var in student.Input
	if err := c.ShouldBind(&in); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}

	err = h.students.Update(c.Request.Context(), id, in)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": msgUpdated})
	case errors.Is(err, student.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"message": msgMissing})
	case errors.Is(err, student.ErrInvalidDOB):
		c.JSON(http.StatusBadRequest, gin.H{"message": student.ErrInvalidDOB.Error()})
	case errors.Is(err, student.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
	default:
		h.storeFailure(c, "update student", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": msgUpdateFailed})
	}
}

// Healthz reports dependency health; any failing check yields 503.
func (h *Handler) Healthz(c *gin.Context) {
	body := gin.H{"status": "ok"}
	status := http.StatusOK
	for name, check := range h.health {
		ok := check(c)
		body[name] = ok
		if !ok {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
		}
	}
	c.JSON(status, body)
}

// IssueToken handles POST /auth/token, exchanging the admin API key for a
// bearer token.
func (h *Handler) IssueToken(c *gin.Context) {
	if h.tokens.APIKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "token issuing disabled"})
		return
	}
	var req struct {
		APIKey string `json:"apiKey" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "apiKey required"})
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.tokens.APIKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
		return
	}

	tok, err := auth.Issue("admin", auth.RoleAdmin, h.tokens.Issuer, h.tokens.SigningKey, h.tokens.TTL)
	if err != nil {
		h.log.Error("issue token", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": tok.AccessToken,
		"expires_at":   tok.ExpiresAt.Unix(),
	})
}

// storeFailure logs the underlying cause; callers only see a generic message.
func (h *Handler) storeFailure(c *gin.Context, op string, err error) {
	h.log.ErrorContext(c.Request.Context(), op,
		slog.String("request_id", c.GetString(httpmiddleware.RequestIDHeader)),
		slog.Any("error", err))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
