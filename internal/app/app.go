package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/example/academia/config"
	"github.com/example/academia/internal/adapters/broker"
	"github.com/example/academia/internal/adapters/echotik"
	httpport "github.com/example/academia/internal/adapters/http"
	"github.com/example/academia/internal/adapters/http/handlers"
	"github.com/example/academia/internal/adapters/http/internalapi"
	mw "github.com/example/academia/internal/adapters/http/middleware"
	"github.com/example/academia/internal/adapters/refreshfn"
	"github.com/example/academia/internal/adapters/tiktok"
	"github.com/example/academia/internal/domain"
	"github.com/example/academia/internal/repo"
	"github.com/example/academia/internal/service"
	pkglog "github.com/example/academia/pkg/log"
)

type App struct {
	cfg       *config.Config
	logger    pkglog.Logger
	db        *gorm.DB
	publisher broker.Publisher
	echo      *echo.Echo
}

func New(ctx context.Context) (*App, error) {
	cfg := config.MustLoad()
	logger := pkglog.New(cfg.AppEnv).With().Str("service", cfg.AppName).Logger()

	db, err := gorm.Open(postgres.Open(buildDSN(cfg)), &gorm.Config{
		Logger: loggerForGorm(cfg),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, err
	}
	if cfg.DBMigrateOnStart {
		if err := db.WithContext(ctx).AutoMigrate(
			&domain.User{},
			&domain.CreatorVideo{},
			&domain.EchoTikCreator{},
			&domain.CreatorSimilar{},
			&domain.VideoProduct{},
		); err != nil {
			return nil, err
		}
	}

	sessionCodec, err := service.NewSessionCodec(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}

	tiktokClient := tiktok.NewHTTPClient(tiktok.Config{
		ClientKey:    cfg.TikTokClientKey,
		ClientSecret: cfg.TikTokClientSecret,
		RedirectURI:  cfg.TikTokRedirectURI,
		APIBaseURL:   cfg.TikTokAPIBaseURL,
		AuthURL:      cfg.TikTokAuthURL,
	}, cfg.OutboundTimeout)
	echotikClient := echotik.NewHTTPClient(cfg.EchoTikBaseURL, cfg.EchoTikUser, cfg.EchoTikPass, cfg.OutboundTimeout)
	refreshClient := refreshfn.NewHTTPClient(cfg.RefreshFunctionURL, cfg.AnonKey, cfg.OutboundTimeout)

	var publisher broker.Publisher
	switch cfg.MessageBroker {
	case "nats":
		publisher, err = broker.NewNATSPublisher(cfg.NATSURL)
	default:
		publisher, err = broker.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	}
	if err != nil {
		logger.Warn().Err(err).Str("broker", cfg.MessageBroker).Msg("broker init failed, events disabled")
		publisher = nil
	}

	userRepo := repo.NewUserRepository(db)
	videoRepo := repo.NewVideoRepository(db)
	creatorRepo := repo.NewCreatorRepository(db)
	similarityRepo := repo.NewSimilarityRepository(db)
	productRepo := repo.NewProductRepository(db)

	authService := service.NewAuthService(cfg, logger, userRepo, videoRepo, tiktokClient, publisher)
	userService := service.NewUserService(logger, userRepo, videoRepo, publisher)
	creatorService := service.NewCreatorService(cfg, logger, userRepo, creatorRepo, refreshClient)
	refreshService := service.NewRefreshService(cfg, logger, echotikClient, creatorRepo)
	dashboardService := service.NewDashboardService(logger, userRepo, videoRepo, productRepo, similarityRepo)

	sessionMW := mw.NewSessionMiddleware(sessionCodec)
	authHandler := handlers.NewAuthHandler(cfg, logger, authService, sessionCodec)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	onboardingHandler := handlers.NewOnboardingHandler(userService)
	creatorsHandler := handlers.NewCreatorsHandler(creatorService)
	debugHandler := handlers.NewDebugHandler(cfg, userService)
	internalHandler := internalapi.NewHandler(cfg.AnonKey, refreshService)

	e := echo.New()
	router := httpport.NewRouter(cfg, authHandler, dashboardHandler, onboardingHandler, creatorsHandler, debugHandler, internalHandler, sessionMW)
	router.Setup(e)

	return &App{cfg: cfg, logger: logger, db: db, publisher: publisher, echo: e}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.echo.Shutdown(shutdownCtx)
	}()
	go func() {
		errCh <- a.echo.Start(":" + a.cfg.AppPort)
	}()
	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (a *App) Close() {
	if a.publisher != nil {
		_ = a.publisher.Close()
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)
}

func loggerForGorm(cfg *config.Config) logger.Interface {
	level := logger.Silent
	switch cfg.GormLogLevel {
	case "error":
		level = logger.Error
	case "warn":
		level = logger.Warn
	case "info":
		level = logger.Info
	}
	return logger.Default.LogMode(level)
}
