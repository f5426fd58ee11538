package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go-jobhunter/internal/app"
	"go-jobhunter/internal/config"
	"go-jobhunter/internal/scheduler"
	"go-jobhunter/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize: %v", err)
	}
	defer a.Close()

	deps := server.Deps{
		Store:     a.Store,
		Review:    a.Review,
		Scorer:    a.Scorer,
		Profile:   cfg.Profile,
		Assistant: a.Assistant,
		Memory:    a.Learner,
		Runner:    a.Pipeline,
	}

	var sched *scheduler.Scheduler
	if cfg.Schedule.AutoSearch() {
		interval := time.Duration(cfg.Schedule.IntervalMinutes) * time.Minute
		sched = scheduler.New(func(ctx context.Context) error {
			_, err := a.Pipeline.RunFull(ctx)
			return err
		}, interval)
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("❌ Failed to start scheduler: %v", err)
		}
		defer sched.Stop()
		deps.Scheduler = sched
		log.Printf("⏰ Auto-search every %d minutes", cfg.Schedule.IntervalMinutes)
	} else {
		log.Println("⏸️ Auto-search disabled")
	}

	r := server.NewRouter(server.NewHandler(deps))
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🌐 Dashboard listening on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Server shutdown: %v", err)
	}
}
