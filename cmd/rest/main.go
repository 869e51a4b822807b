package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gelisim-chatbot-be/internal/bootstrap"
	"gelisim-chatbot-be/internal/config"
	"gelisim-chatbot-be/internal/server"
	"gelisim-chatbot-be/internal/tracer"
	"gelisim-chatbot-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.Tracing)
	defer shutdownTracer(context.Background())

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Initialize Server
	srv := server.New(cfg, container)

	// 6. Graceful shutdown on SIGINT/SIGTERM
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down...")
		if err := srv.GetApp().Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
		if container.NatsPublisher != nil {
			container.NatsPublisher.Close()
		}
		_ = container.Redis.Close()
	}()

	// 7. Run Server
	if err := srv.Run(); err != nil {
		log.Fatal(err)
	}
}
