package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"go-jobhunter/internal/browser"
	"go-jobhunter/internal/config"
	"go-jobhunter/internal/dedup"
	"go-jobhunter/internal/memory"
)

// doctorCmd checks each configured collaborator and reports which ones are
// reachable. It exits non-zero when a required one fails.
func doctorCmd() *cobra.Command {
	var withBrowser bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check config, cookies, storage backends and the browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				fmt.Printf("❌ config: %v\n", err)
				return err
			}
			fmt.Printf("✅ config: env=%s data=%s\n", cfg.Env, cfg.Paths.DataDir)

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			failed := checkMemory(ctx, cfg)
			checkRedis(ctx, cfg)
			checkCookies(cfg)
			checkIntegrations(cfg)
			if withBrowser && !checkBrowser(ctx, cfg) {
				failed = true
			}

			if failed {
				return fmt.Errorf("one or more checks failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withBrowser, "browser", false, "also launch a headless browser")
	return cmd
}

func checkMemory(ctx context.Context, cfg *config.Config) bool {
	decisions, err := memory.OpenLog(ctx, cfg.Memory.Backend, cfg.Paths.DataDir, cfg.Memory.DatabaseURL)
	if err != nil {
		fmt.Printf("❌ memory (%s): %v\n", cfg.Memory.Backend, err)
		return true
	}
	defer decisions.Close()

	records, err := decisions.List(ctx)
	if err != nil {
		fmt.Printf("❌ memory (%s): %v\n", cfg.Memory.Backend, err)
		return true
	}
	fmt.Printf("✅ memory (%s): %d decisions\n", cfg.Memory.Backend, len(records))
	return false
}

func checkRedis(ctx context.Context, cfg *config.Config) {
	if cfg.RedisURL == "" {
		fmt.Println("➖ redis: not configured, file cache in use")
		return
	}
	rdb, err := dedup.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		fmt.Printf("⚠️ redis: %v (file cache will be used)\n", err)
		return
	}
	defer rdb.Close()
	fmt.Println("✅ redis: reachable")
}

func checkCookies(cfg *config.Config) {
	files, _ := filepath.Glob(filepath.Join(cfg.Paths.CookiesDir, "cookies-*.json"))
	if len(files) == 0 {
		fmt.Printf("➖ cookies: none in %s\n", cfg.Paths.CookiesDir)
		return
	}
	for _, f := range files {
		name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(f), "cookies-"), ".json")
		cookies, err := browser.LoadCookies(f)
		if err != nil {
			fmt.Printf("⚠️ cookies (%s): %v\n", name, err)
			continue
		}
		fmt.Printf("✅ cookies (%s): %d loaded\n", name, len(cookies))
	}
}

func checkIntegrations(cfg *config.Config) {
	if cfg.Telegram.Configured() {
		fmt.Println("✅ telegram: configured")
	} else {
		fmt.Println("➖ telegram: not configured")
	}
	if cfg.AI.GroqAPIKey != "" {
		fmt.Println("✅ groq: key set")
	} else {
		fmt.Println("➖ groq: no key, research and enhance disabled")
	}
	if _, err := os.Stat(cfg.Paths.ExportDir); err != nil {
		fmt.Printf("➖ exports: %s will be created on first export\n", cfg.Paths.ExportDir)
	}
}

func checkBrowser(ctx context.Context, cfg *config.Config) bool {
	pm, err := browser.NewPlaywright(ctx)
	if err != nil {
		fmt.Printf("❌ browser: %v\n", err)
		return false
	}
	defer pm.Close()

	page, err := pm.NewPage()
	if err != nil {
		fmt.Printf("❌ browser: %v\n", err)
		return false
	}
	if err := page.SetContent("<html><body><p>ok</p></body></html>"); err != nil {
		fmt.Printf("❌ browser: %v\n", err)
		return false
	}
	fmt.Println("✅ browser: chromium launched")

	if dir := os.Getenv("SCREENSHOT_DIR"); dir != "" {
		if path, err := browser.NewScreenshotDebugger(dir).Capture(page, "doctor", "browser check"); err == nil {
			fmt.Printf("   screenshot: %s\n", path)
		}
	}
	return true
}
