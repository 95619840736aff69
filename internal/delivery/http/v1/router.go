package v1

import (
	"net/http"

	"go-collab-backend/config"
	"go-collab-backend/internal/delivery/http/middleware"
	"go-collab-backend/internal/delivery/http/response"
	"go-collab-backend/internal/domain"
	"go-collab-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	UserUC        domain.UserUsecase
	CollabUC      domain.CollabUsecase
	DiscoveryUC   domain.DiscoveryUsecase
	MessageUC     domain.MessageUsecase
	ReliabilityUC domain.ReliabilityUsecase
	ContactUC     domain.ContactUsecase
	JWKSProvider  *auth.Provider
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware()) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.GlobalRateLimitMiddleware(deps.Config))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Public routes
	contact := v1.Group("")
	contact.Use(middleware.RateLimitMiddleware(middleware.ContactRateLimitConfig()))
	NewContactHandler(contact, deps.ContactUC)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWKSProvider, deps.Config))
	{
		NewProfileHandler(protected, deps.UserUC, deps.ReliabilityUC)
		NewCollabHandler(protected, deps.CollabUC)
		NewDiscoveryHandler(protected, deps.DiscoveryUC, deps.Config)
		NewMessageHandler(protected, deps.MessageUC)

		uploads := protected.Group("")
		uploads.Use(middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig()))
		NewMediaHandler(uploads, deps.Config)
	}

	return r
}
