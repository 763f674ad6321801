package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/existflow/taskbreeze/internal/config"
	"github.com/existflow/taskbreeze/internal/logger"
	"github.com/existflow/taskbreeze/server"
)

func main() {
	cfg := config.LoadServer()

	if err := logger.Init(logger.Config{
		Level:   logger.ParseLevel(cfg.LogLevel),
		Console: true,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Close()

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Printf("Error closing server: %v", err)
		}
	}()

	go func() {
		logger.Info("TaskBreeze server starting", logger.F("port", cfg.Port))
		if err := srv.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", logger.Err(err))
	}
	logger.Info("TaskBreeze server stopped")
}
