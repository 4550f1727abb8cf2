package handler

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"registration/internal/httpmiddleware"
)

// RouterConfig selects the middleware wrapped around the API.
type RouterConfig struct {
	CORSOrigin string
	// Limiter is applied to every route when set.
	Limiter httpmiddleware.Limiter
	// Auth guards the mutating routes when set.
	Auth gin.HandlerFunc
	// WebDir holds the browser frontend; empty disables static serving.
	WebDir string
	Log    *slog.Logger
}

// NewRouter builds the gin engine exposing the registration API.
func NewRouter(h *Handler, cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestID())
	r.Use(httpmiddleware.Logger(log, "/healthz", "/metrics"))
	r.Use(httpmiddleware.Metrics())
	r.Use(httpmiddleware.CORS(cfg.CORSOrigin))
	r.Use(httpmiddleware.SecurityHeaders())
	if cfg.Limiter != nil {
		r.Use(httpmiddleware.RateLimit(cfg.Limiter))
	}

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", h.Healthz)
	r.POST("/auth/token", h.IssueToken)

	r.GET("/users", h.ListUsers)

	write := r.Group("/")
	if cfg.Auth != nil {
		write.Use(cfg.Auth)
	}
	write.POST("/register", h.Register)
	write.PUT("/update/:id", h.Update)
	write.DELETE("/delete/:id", h.Delete)

	if cfg.WebDir != "" {
		serveWeb(r, cfg.WebDir, log)
	}
	return r
}

func serveWeb(r *gin.Engine, dir string, log *slog.Logger) {
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		log.Warn("frontend not found, static serving disabled", slog.String("dir", dir))
		return
	}
	r.StaticFile("/", index)
	r.Static("/static", filepath.Join(dir, "static"))
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.File(index)
	})
}
