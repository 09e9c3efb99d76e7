package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reading-list-api/config"
	"reading-list-api/db"
	"reading-list-api/handler"
	"reading-list-api/logger"
	"reading-list-api/repository"
	"reading-list-api/router"
	"reading-list-api/service"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if config.AppConfig.Database.AutoMigrate {
		if err := db.RunMigrations("file://db/migrations"); err != nil {
			logger.Log.Fatalf("Error running migrations: %v", err)
		}
	}

	redisClient, err := db.ConnectRedis()
	if err != nil {
		logger.Log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer redisClient.Close()

	// Keys are loaded once here; only this process needs the private key,
	// verification elsewhere requires just the public key.
	jwtCfg := config.AppConfig.JWT
	tokenService, err := service.NewTokenServiceFromFiles(
		jwtCfg.PrivateKeyPath,
		jwtCfg.PublicKeyPath,
		time.Duration(jwtCfg.AccessTokenTTLMinutes)*time.Minute,
		time.Duration(jwtCfg.RefreshTokenTTLDays)*24*time.Hour,
	)
	if err != nil {
		logger.Log.Fatalf("Error loading JWT keys: %v", err)
	}

	cookieTransport := service.NewCookieTransport(config.AppConfig.Cookies)

	// --- Wiring All Layers Together ---
	userRepo := repository.NewUserRepository(database)
	itemRepo := repository.NewItemRepository(database)
	tagRepo := repository.NewTagRepository(database)

	authService := service.NewAuthService(userRepo, tokenService)
	itemService := service.NewItemService(database, itemRepo, tagRepo, redisClient)
	resolver := service.NewCurrentUserResolver(userRepo, tokenService, cookieTransport)

	authHandler := handler.NewAuthHandler(authService, cookieTransport)
	itemHandler := handler.NewItemHandler(itemService)

	r := router.NewRouter(authHandler, itemHandler, resolver, cookieTransport)

	// --- Start the Server with Graceful Shutdown ---
	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}
