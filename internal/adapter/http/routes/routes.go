package routes

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "mecanica_jobs/docs" // swagger registration
	"mecanica_jobs/internal/adapter/http/handlers"
	"mecanica_jobs/internal/adapter/http/middleware"
	"mecanica_jobs/internal/config"
	"mecanica_jobs/internal/infrastructure/observability"
	"mecanica_jobs/internal/usecase"
	"mecanica_jobs/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

// RouterDeps is what NewRouter needs; everything is built by the caller.
type RouterDeps struct {
	Jobs        usecase.IJobUseCase
	Metrics     *observability.Metrics
	Gatherer    prometheus.Gatherer
	JWTSecret   string
	ServiceName string
}

// NewRouter builds the gin engine with middlewares and every route.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, deps)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	addPingRoutes(router)

	jobHandler := handlers.NewJobHandler(deps.Jobs)

	v1 := router.Group("/v1", middleware.Auth(deps.JWTSecret))
	addInternalRoutes(v1, jobHandler)
	addJobRoutes(v1, jobHandler)
	return router
}

func setMiddlewares(router *gin.Engine, deps RouterDeps) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error(c.Request.Context(), "[http] recovered from panic", "panic", fmt.Sprint(recovered))
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	router.Use(middleware.RequestID())
	if deps.Metrics != nil {
		router.Use(deps.Metrics.GinMiddleware())
	}
	router.Use(observability.GinTracing(deps.ServiceName))
}

// Run builds every dependency from cfg, serves HTTP and shuts down on
// SIGINT/SIGTERM.
func Run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
	metrics.SetAppInfo(cfg.ServiceName, "1.0")

	deps, err := BuildDependencies(ctx, cfg, metrics)
	if err != nil {
		return err
	}
	defer deps.Close()

	router := NewRouter(RouterDeps{
		Jobs:        deps.Jobs,
		Metrics:     metrics,
		JWTSecret:   cfg.JWTSecret,
		ServiceName: cfg.ServiceName,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "[http] listening", "addr", srv.Addr, "storage", cfg.StorageDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to startup the application: %w", err)
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "[http] shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(sctx)
}
