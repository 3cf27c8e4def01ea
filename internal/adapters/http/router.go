package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/example/academia/config"
	"github.com/example/academia/internal/adapters/http/handlers"
	"github.com/example/academia/internal/adapters/http/internalapi"
	authmw "github.com/example/academia/internal/adapters/http/middleware"
)

type payloadValidator struct {
	validate *validator.Validate
}

func (v *payloadValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

type Router struct {
	cfg             *config.Config
	authHandler     *handlers.AuthHandler
	dashboard       *handlers.DashboardHandler
	onboarding      *handlers.OnboardingHandler
	creators        *handlers.CreatorsHandler
	debug           *handlers.DebugHandler
	internalHandler *internalapi.Handler
	sessionMW       *authmw.SessionMiddleware
}

func NewRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	dashboard *handlers.DashboardHandler,
	onboarding *handlers.OnboardingHandler,
	creators *handlers.CreatorsHandler,
	debug *handlers.DebugHandler,
	internalHandler *internalapi.Handler,
	sessionMW *authmw.SessionMiddleware,
) *Router {
	return &Router{
		cfg:             cfg,
		authHandler:     authHandler,
		dashboard:       dashboard,
		onboarding:      onboarding,
		creators:        creators,
		debug:           debug,
		internalHandler: internalHandler,
		sessionMW:       sessionMW,
	}
}

func (r *Router) Setup(e *echo.Echo) {
	e.HideBanner = true
	e.Validator = &payloadValidator{validate: validator.New()}
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{r.cfg.CORSAllowOrigins},
		AllowHeaders: []string{echo.HeaderAuthorization, echo.HeaderContentType, echo.HeaderXRequestedWith},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	auth := e.Group("/api/auth/tiktok")
	auth.GET("", r.authHandler.Login)
	auth.GET("/callback", r.authHandler.Callback)

	api := e.Group("/api", r.sessionMW.Handler)
	api.GET("/dashboard", r.dashboard.Get)
	api.POST("/onboarding", r.onboarding.Complete)
	api.GET("/similar-creators", r.creators.List)

	if !r.cfg.IsProduction() {
		debug := e.Group("/api/debug")
		debug.GET("/oauth-config", r.debug.OAuthConfig)
		debug.GET("/user-data", r.debug.UserData, r.sessionMW.Handler)
	}

	r.internalHandler.Register(e.Group("/internal"))
}
