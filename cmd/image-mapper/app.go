package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"golang.org/x/sync/errgroup"

	"imagemapper/internal/api"
	"imagemapper/internal/config"
	"imagemapper/internal/constants"
	"imagemapper/internal/ingest"
	"imagemapper/internal/logger"
	"imagemapper/internal/mapper"
	"imagemapper/internal/publisher"
	"imagemapper/internal/validation"
	"imagemapper/pkg/bootstrap"
	"imagemapper/pkg/health"
	"imagemapper/pkg/metrics"
	"imagemapper/pkg/middleware"
	"imagemapper/pkg/ratelimit"
	"imagemapper/pkg/tracing"
)

type App struct {
	*bootstrap.Base
	dispatcher     *ingest.Dispatcher
	handler        *api.Handler
	server         *http.Server
	router         *gin.Engine
	tracerProvider *tracing.TracerProvider
}

func NewApp(cfg *config.Config, log logger.Logger) *App {
	return &App{
		Base: bootstrap.NewBase(cfg, log),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	if a.Config.Tracing.Enabled {
		tp, err := tracing.Init(a.Config.Tracing, constants.ServiceName)
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		a.tracerProvider = tp
	}

	metrics.Register()

	if err := a.InitBroker(constants.ServiceName); err != nil {
		return err
	}

	if err := a.initPipeline(); err != nil {
		return fmt.Errorf("failed to initialize pipeline: %w", err)
	}

	a.initRouter(ctx)
	a.initServer()

	return nil
}

func (a *App) initPipeline() error {
	m, err := mapper.New(a.Config.Mapper, a.Logger)
	if err != nil {
		return err
	}

	validator, err := validation.NewPublishingValidator(a.Config.Publishing.Rules, a.Logger)
	if err != nil {
		return err
	}

	builder := publisher.NewEnvelopeBuilder(a.Config.Mapper.SystemCode, a.Config.Mapper.ContentURIPrefix)
	producing := publisher.NewProducingMapper(m, builder, a.Producer, a.Config.Broker.Kafka.OutputTopic, a.Logger)

	a.dispatcher = ingest.NewDispatcher(a.Config.Mapper.SystemCode, validator, producing, a.Logger)
	a.handler = api.NewHandler(m, producing, validator, a.Logger)
	return nil
}

func (a *App) initRouter(ctx context.Context) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	if a.Config.Tracing.Enabled {
		router.Use(tracing.GinMiddleware(constants.ServiceName))
	}

	router.Use(middleware.RecoveryMiddleware(a.Logger))
	router.Use(middleware.TransactionIDMiddleware())
	router.Use(middleware.LoggerMiddleware(a.Logger))

	if a.Config.Server.RateLimit.Enabled {
		rateLimitConfig := ratelimit.FromConfig(a.Config.Server.RateLimit)
		router.Use(ratelimit.RateLimitMiddleware(ctx, rateLimitConfig))
		a.Logger.InfowCtx(ctx, "Rate limiting enabled", "rps", rateLimitConfig.RPS, "burst", rateLimitConfig.Burst)
	}

	a.handler.RegisterRoutes(router)

	healthRegistry := health.NewCheckerRegistry()
	healthRegistry.Register(health.NewKafkaChecker(a.Config.Broker.Kafka.Brokers))

	router.GET("/health", func(c *gin.Context) {
		h := healthRegistry.Check(c.Request.Context())
		statusCode := http.StatusOK
		if h.Status == health.StatusUnhealthy {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, h)
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	a.router = router
}

func (a *App) initServer() {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}
}

// Run serves HTTP and consumes the input topic until ctx is cancelled or
// either side fails.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfowCtx(gctx, "Server listening", "port", a.Config.Server.Port)
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		topic := a.Config.Broker.Kafka.InputTopic
		a.Logger.InfowCtx(gctx, "Consuming native CMS events", "topic", topic)
		if err := a.Consumer.Consume(gctx, topic, a.dispatcher.HandleMessage); err != nil && gctx.Err() == nil {
			return fmt.Errorf("consumer error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.shutdownServer()
	})

	runErr := g.Wait()
	if err := a.Shutdown(context.Background(), a.shutdownTracing); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

func (a *App) shutdownServer() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	return nil
}

func (a *App) shutdownTracing(ctx context.Context) []error {
	if a.tracerProvider == nil {
		return nil
	}
	if err := a.tracerProvider.Shutdown(ctx); err != nil {
		return []error{fmt.Errorf("tracer provider shutdown error: %w", err)}
	}
	return nil
}
