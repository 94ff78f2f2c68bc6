package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"pm-backoffice/core/diary"
	"pm-backoffice/core/landlords"
	"pm-backoffice/pkg/diaryapi"
	"pm-backoffice/pkg/resources"
	"pm-backoffice/pkg/servers"
)

func main() {
	var err error

	name, version, env := "pm-backoffice", "1.0", ""

	// 1. Config (Logger base included)
	ctx := resources.Default(context.Background(), name, version, env)
	env = viper.GetString("APP_ENV")

	startupLogger := log.Ctx(ctx).With().Str("stage", "startup").Str("component", "main").Logger()
	shutdownLogger := log.Ctx(ctx).With().Str("stage", "shut down").Str("component", "main").Logger()

	startupLogger.Info().Msg("application starting up")
	defer shutdownLogger.Info().Msg("application stopped")

	hookFn := func(ctx context.Context) (context.Context, error) {
		log.Logger = log.Logger.Hook(resources.NewZerologHook(name, version))
		return log.Logger.WithContext(ctx), nil
	}

	// 2. Telemetry (traces/metrics/logs), zerolog bridged to OTel logs
	ctx, stopFn, err := resources.Observe(ctx, name, version, env, hookFn, resources.WithInsecure())
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg(fmt.Sprintf("unable to setup otel telemetry: %v", err))
	}
	defer stopFn(ctx, 15*time.Second)

	// 3. Core resources
	pool, stopFn, err := resources.CreateDatabaseConnectionPool(ctx)
	if err != nil {
		shutdownLogger.Fatal().Err(err).Msg(fmt.Sprintf("unable to create database connection pool: %v", err))
	}
	defer stopFn(ctx, 15*time.Second)

	var sessions diary.SessionStore

	switch backend := viper.GetString("FORMS_STORE"); backend {
	case "redis":
		client, stopFn, err := resources.CreateRedisClient(ctx)
		if err != nil {
			shutdownLogger.Fatal().Err(err).Msg(fmt.Sprintf("unable to create redis client: %v", err))
		}
		defer stopFn(ctx, 15*time.Second)

		sessions = diary.NewRedisSessionStore(client, viper.GetDuration("FORMS_TTL"))
	case "memory":
		sessions = diary.NewMemorySessionStore(viper.GetDuration("FORMS_TTL"))
	default:
		shutdownLogger.Fatal().Str("forms_store", backend).Msg("unknown forms store")
	}

	// 4. Wiring
	var service *diary.Service

	switch backend := viper.GetString("DIARY_BACKEND"); backend {
	case "remote":
		// The remote diary owns the time zone; times pass through unchanged.
		client := diaryapi.NewClient(viper.GetString("DIARY_API_URL"),
			diaryapi.WithTimeout(viper.GetDuration("DIARY_API_TIMEOUT")),
			diaryapi.WithToken(viper.GetString("DIARY_API_TOKEN")))
		service = diary.NewService(client, client, client, time.UTC)
	case "postgres":
		settings := diary.NewSettingsRepository(pool)
		service = diary.NewService(diary.NewPostgresStore(pool), settings, settings, resources.Location())
	default:
		shutdownLogger.Fatal().Str("diary_backend", backend).Msg("unknown diary backend")
	}

	startupLogger.Info().Str("diary_backend", viper.GetString("DIARY_BACKEND")).
		Str("forms_store", viper.GetString("FORMS_STORE")).
		Str("timezone", service.Location().String()).Msg("diary wired")

	diaryHandlers := diary.NewHandlers(service, sessions)
	landlordHandlers := landlords.NewHandlers(landlords.NewRepository(pool))

	// 5. Servers setup
	gin.SetMode(gin.ReleaseMode)

	restHandler := gin.New()
	restHandler.Use(gin.Recovery())
	restHandler.Use(resources.TracerMiddleware(name))
	restHandler.Use(resources.MeterMiddleware(name))
	restHandler.Use(resources.LoggerMiddleware())

	restHandler.GET("/health", func(gctx *gin.Context) {
		err := pool.Ping(gctx.Request.Context())
		if err != nil {
			gctx.JSON(http.StatusServiceUnavailable, gin.H{"status": "down"})
			return
		}

		gctx.JSON(http.StatusOK, gin.H{"status": "up"})
	})

	api := restHandler.Group("/api/v1")
	api.Use(resources.AuthMiddleware(viper.GetString("AUTH_JWT_SECRET"), viper.GetBool("AUTH_REQUIRED")))

	diary.Register(api, diaryHandlers)
	landlords.Register(api, landlordHandlers)

	debugHandler := http.NewServeMux()
	debugHandler.HandleFunc("/debug/pprof/", pprof.Index)
	debugHandler.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	debugHandler.HandleFunc("/debug/pprof/profile", pprof.Profile)
	debugHandler.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	debugHandler.HandleFunc("/debug/pprof/trace", pprof.Trace)

	// 6. Servers lifecycle
	errChan := make(chan error, 16)

	host := viper.GetString("HTTP_HOST")

	serverName, server := servers.BuildBaseServer()
	stopFn = servers.Start(ctx, serverName, server, errChan)
	defer stopFn(ctx, 15*time.Second)

	debugServer := servers.NewServer(host, viper.GetString("DEBUG_PORT"), debugHandler)
	serverName, server = servers.BuildHttpServer("debug-server", debugServer)
	stopFn = servers.Start(ctx, serverName, server, errChan)
	defer stopFn(ctx, 15*time.Second)

	restServer := servers.NewServer(host, viper.GetString("HTTP_PORT"),
		resources.CORS(restHandler, viper.GetString("CORS_ALLOWED_ORIGINS")))
	serverName, server = servers.BuildHttpServer("rest-server", restServer)
	stopFn = servers.Start(ctx, serverName, server, errChan)
	defer stopFn(ctx, 15*time.Second)

	startupLogger.Info().Msg("application running")

	// 7. Wait for shutdown signal
	notifyCtx, cancelNotifyFn := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancelNotifyFn()

	select {
	case <-notifyCtx.Done():
		startupLogger.Info().Msg("application shutdown requested")
	case runErr := <-errChan:
		shutdownLogger.Error().Err(runErr).Msg("runtime error")
	}
}
