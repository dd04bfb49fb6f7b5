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

	"opticapa_api/internal/config"
	"opticapa_api/internal/controllers"
	"opticapa_api/internal/logger"
	"opticapa_api/internal/middleware"
	"opticapa_api/internal/routes"
	"opticapa_api/internal/services"
)

func main() {
	settings := config.Load()

	// Structured logging to a rotating file
	logger.Setup(settings.LogLevel)

	// Connection pool lives for the whole process and is torn down on exit
	pool, err := config.NewPool(settings)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	svc := services.NewAxeEfService(pool)
	ctrl := controllers.NewAxeEfController(svc)
	r := routes.SetupRouter(ctrl, settings)

	// Wrap with CORS
	handler := middleware.EnableCORS(r, settings.AllowedOrigins())

	srv := &http.Server{Addr: "0.0.0.0:" + settings.ServerPort, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("🚀 Server running at :%s", settings.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := pool.Close(); err != nil {
		log.Printf("closing pool: %v", err)
	}
}
