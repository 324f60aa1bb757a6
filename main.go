package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/kokum-coast/config"
	"github.com/yeremiapane/kokum-coast/router"
	"github.com/yeremiapane/kokum-coast/utils"
)

const shutdownTimeout = 10 * time.Second

func main() {
	utils.InitLogger()

	// Load .env lalu validasi konfigurasi
	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to load configuration: %v", err)
	}
	if err := utils.SetLogLevel(cfg.LogLevel); err != nil {
		utils.ErrorLogger.Fatalf("Invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}
	if cfg.IsProduction() {
		utils.UseJSONFormat()
	}
	if cfg.JWTSecret == config.DefaultJWTSecret || cfg.AdminPassword == config.DefaultAdminPassword {
		utils.InfoLogger.Warn("Using development credentials; set JWT_SECRET and ADMIN_PASSWORD before deploying")
	}

	gin.SetMode(cfg.GinMode)

	store, err := config.InitStore(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to document store: %v", err)
	}

	r, err := router.SetupRouter(cfg, store)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to set up router: %v", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	utils.InfoLogger.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Printf("Server forced to shutdown: %v", err)
	}
	if err := store.Close(ctx); err != nil {
		utils.ErrorLogger.Printf("Error closing document store: %v", err)
	}
}
