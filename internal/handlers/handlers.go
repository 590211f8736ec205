package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"issuetrack/api/internal/apperror"
	"issuetrack/api/internal/config"
	"issuetrack/api/internal/middleware"
	"issuetrack/api/internal/repository"
	"issuetrack/api/internal/security"
	"issuetrack/api/internal/service"
)

type HandlerSet struct {
	log      zerolog.Logger
	cfg      *config.AppConfig
	auth     *service.AuthService
	issues   *service.IssueService
	denylist *security.Denylist
	db       *pgxpool.Pool
	cache    *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewPostgresUserRepository(db, cfg.Postgres.QueryTimeout)
	issueRepo := repository.NewPostgresIssueRepository(db, cfg.Postgres.QueryTimeout)

	return HandlerSet{
		log:      log,
		cfg:      cfg,
		auth:     service.NewAuthService(userRepo, cfg, log),
		issues:   service.NewIssueService(issueRepo, log),
		denylist: security.NewDenylist(cache),
		db:       db,
		cache:    cache,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.GET("/check", h.CheckAuth)

	issues := router.Group("/issues")
	issues.Use(middleware.Auth(h.cfg.Security.JWTSecret, h.denylist))
	issues.POST("", h.CreateIssue)
	issues.GET("", h.ListIssues)
	issues.GET("/:id", h.GetIssue)
	issues.PUT("/:id", h.UpdateIssue)
	issues.DELETE("/:id", h.DeleteIssue)
}

// writeError is the single place failure kinds become HTTP statuses. Internal
// causes are logged with the request id and never leave the process.
func (h HandlerSet) writeError(c *gin.Context, err error) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		appErr = apperror.Unexpected(err)
	}

	if appErr.Cause != nil {
		h.log.Error().
			Err(appErr.Cause).
			Str("request_id", c.Writer.Header().Get("X-Request-Id")).
			Str("kind", appErr.Kind.Error()).
			Msg("request failed")
	}

	switch {
	case errors.Is(appErr.Kind, apperror.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"errors": appErr.Violations})
	case errors.Is(appErr.Kind, apperror.ErrDuplicateEmail):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email already registered"})
	case errors.Is(appErr.Kind, apperror.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid Credentials"})
	case errors.Is(appErr.Kind, apperror.ErrMissingToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "no token provided"})
	case errors.Is(appErr.Kind, apperror.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid token"})
	case errors.Is(appErr.Kind, apperror.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid issue ID format"})
	case errors.Is(appErr.Kind, apperror.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}

// currentUser returns the id set by the auth middleware. Routes registered
// behind middleware.Auth always have it; the guard covers wiring mistakes.
func (h HandlerSet) currentUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "no token provided"})
	}
	return userID, ok
}
