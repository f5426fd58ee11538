package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go-jobhunter/internal/app"
	"go-jobhunter/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}
	log.Printf("🔧 Config loaded. Keywords: %v", cfg.Preferences.EmotionKeywords)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	log.Println("🚀 Starting job hunter run...")

	a, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize: %v", err)
	}
	defer a.Close()

	report, err := a.Pipeline.RunFull(ctx)
	if err != nil {
		if a.Bot != nil {
			_ = a.Bot.SendError(err)
		}
		log.Fatalf("❌ Pipeline failed: %v", err)
	}

	log.Printf("📊 emotion=%d research=%d adoption=%d general=%d",
		len(report.Buckets.EmotionAI), len(report.Buckets.Research), len(report.Buckets.Adoption), len(report.Buckets.GeneralAI))
	log.Println("🏁 Done!")
}
