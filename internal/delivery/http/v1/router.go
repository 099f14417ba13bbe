package v1

import (
	"go-interview-scheduler/config"
	"go-interview-scheduler/internal/delivery/http/middleware"
	"go-interview-scheduler/internal/domain"
	"go-interview-scheduler/internal/usecase"
	"go-interview-scheduler/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC         domain.AuthUsecase
	AvailabilityUC domain.AvailabilityUsecase
	EventUC        domain.EventUsecase
	SchedulingUC   domain.SchedulingUsecase
	InvitationUC   domain.InvitationUsecase
	HealthUC       usecase.HealthUsecase
	Verifier       middleware.TokenVerifier
	Config         *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.RegisterValidators(v)
	}

	r := gin.New()

	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL, deps.Config.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	slotLimiter := middleware.RateLimitMiddleware(middleware.SlotDiscoveryRateLimitConfig(
		deps.Config.RateLimitWindowSeconds,
		deps.Config.RateLimitSlotThreshold,
	))
	bookingLimiter := middleware.RateLimitMiddleware(middleware.BookingRateLimitConfig())

	// Public routes. The caller identity is optional and only used for timezone defaults.
	public := v1.Group("")
	public.Use(middleware.OptionalAuth(deps.Verifier, deps.AuthUC))

	NewHealthHandler(v1, deps.HealthUC)
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Verifier, deps.AuthUC))
	{
		NewAvailabilityHandler(public, protected, deps.AvailabilityUC, slotLimiter)
		NewEventHandler(public, protected, deps.EventUC)
		NewInterviewHandler(protected, deps.SchedulingUC, bookingLimiter)
		NewInvitationHandler(public, protected, deps.InvitationUC)
	}

	return r
}
