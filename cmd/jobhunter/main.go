package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"go-jobhunter/internal/app"
	"go-jobhunter/internal/config"
	"go-jobhunter/internal/export"
	"go-jobhunter/internal/memory"
	"go-jobhunter/internal/outreach"
	"go-jobhunter/internal/pdf"
	"go-jobhunter/internal/scraper"
	"go-jobhunter/internal/store"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "jobhunter",
		Short: "Find, score and review internship opportunities",
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CONFIG_PATH or configs/config.yaml)")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(quickCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(cleanCmd())
	rootCmd.AddCommand(importHistoryCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(draftCmd())
	rootCmd.AddCommand(researchCmd())
	rootCmd.AddCommand(contactsCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		os.Setenv("CONFIG_PATH", configPath)
	}
	return config.Load()
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}

func buildApp(ctx context.Context, opts ...app.Option) (*app.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return app.Build(ctx, cfg, opts...)
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Scrape every enabled source and categorize the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			a, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Pipeline.RunFull(ctx)
			if err != nil {
				return err
			}
			printReport(report.Scraped, report.New, report.Kept, report.Duration)
			return nil
		},
	}
}

func quickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quick",
		Short: "Re-score stored opportunities without scraping",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			a, err := buildApp(ctx, app.WithoutScrapers(), app.WithoutNotifier())
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.Pipeline.RunQuick(ctx)
			if err != nil {
				return err
			}
			printReport(report.Scraped, report.New, report.Kept, report.Duration)
			return nil
		},
	}
}

func printReport(scraped, fresh, kept int, d time.Duration) {
	fmt.Printf("Scraped: %d\n", scraped)
	fmt.Printf("New:     %d\n", fresh)
	fmt.Printf("Kept:    %d\n", kept)
	fmt.Printf("Took:    %s\n", d.Round(time.Millisecond))
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show store counts and learned preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, app.WithoutScrapers(), app.WithoutNotifier())
			if err != nil {
				return err
			}
			defer a.Close()

			st := a.Store.Stats()
			fmt.Printf("Found: %d  Approved: %d  Refused: %d  Sent: %d\n", st.Found, st.Approved, st.Refused, st.Sent)

			ms, err := a.Learner.Stats(ctx)
			if err != nil {
				return fmt.Errorf("memory stats: %w", err)
			}
			fmt.Printf("Decisions: %d (%d approved, %d refused)\n", ms.TotalInteractions, ms.Approved, ms.Refused)
			fmt.Printf("Remote preference: %.2f\n", ms.RemotePreference)
			if len(ms.TopKeywords) > 0 {
				fmt.Println("Top keywords:")
				for _, kw := range ms.TopKeywords {
					fmt.Printf("  %-28s %d\n", kw.Keyword, kw.Count)
				}
			}
			if len(ms.AvoidedKeywords) > 0 {
				fmt.Println("Avoided keywords:")
				for _, kw := range ms.AvoidedKeywords {
					fmt.Printf("  %-28s %d\n", kw.Keyword, kw.Count)
				}
			}
			if len(ms.BestSources) > 0 {
				fmt.Println("Sources:")
				for _, s := range ms.BestSources {
					fmt.Printf("  %-28s %d/%d (%.0f%%)\n", s.Source, s.Approved, s.Total, s.SuccessRate*100)
				}
			}
			return nil
		},
	}
}

func cleanCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Drop refused and duplicate records from the found store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s := store.New(cfg.Paths.DataDir)

			if all {
				if err := s.ClearFound(); err != nil {
					return err
				}
				fmt.Println("Cleared found store")
				return nil
			}

			refused, err := s.DropRefused()
			if err != nil {
				return err
			}
			dupes, err := s.DropDuplicates()
			if err != nil {
				return err
			}
			fmt.Printf("Removed %d refused and %d duplicate records\n", refused, dupes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "clear the found store entirely")
	return cmd
}

func importHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-history",
		Short: "Replay approved and refused records into decision memory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, app.WithoutScrapers(), app.WithoutNotifier())
			if err != nil {
				return err
			}
			defer a.Close()

			res := memory.ImportHistory(ctx, a.Learner, a.Store.LoadApproved(), a.Store.LoadRefused())
			fmt.Printf("Imported %d approved, %d refused (%d failed)\n", res.Approved, res.Refused, res.Failed)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var xlsxPath, pdfPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stores to a workbook and approved records to a PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s := store.New(cfg.Paths.DataDir)
			stamp := time.Now().Format("20060102-150405")

			if xlsxPath == "" {
				xlsxPath = filepath.Join(cfg.Paths.ExportDir, "opportunities-"+stamp+".xlsx")
			}
			if err := export.WriteFile(s, xlsxPath); err != nil {
				return err
			}
			fmt.Printf("Workbook: %s\n", xlsxPath)

			if pdfPath == "-" {
				return nil
			}
			if pdfPath == "" {
				pdfPath = filepath.Join(cfg.Paths.ExportDir, "approved-"+stamp+".pdf")
			}
			report := pdf.Report{
				Title:       "Approved Opportunities",
				Profile:     cfg.Profile,
				GeneratedAt: time.Now(),
				Items:       s.LoadApproved(),
			}
			data, err := pdf.NewGenerator("").Generate(cmd.Context(), report)
			if err != nil {
				return err
			}
			if err := pdf.SaveToFile(data, pdfPath); err != nil {
				return err
			}
			fmt.Printf("PDF: %s\n", pdfPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "workbook output path")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "PDF output path, or - to skip")
	return cmd
}

func draftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "draft [fingerprint]",
		Short: "Print an outreach email for a found or approved opportunity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			s := store.New(cfg.Paths.DataDir)

			opp, err := s.FindFound(args[0])
			if err != nil {
				found := false
				for _, a := range s.LoadApproved() {
					if a.Fingerprint == args[0] {
						opp, found = a, true
						break
					}
				}
				if !found {
					return err
				}
			}
			fmt.Print(outreach.Draft(cfg.Profile, opp))
			return nil
		},
	}
}

func researchCmd() *cobra.Command {
	var jobURL string

	cmd := &cobra.Command{
		Use:   "research [company] [title]",
		Short: "Ask the assistant for a company brief",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := buildApp(ctx, app.WithoutScrapers(), app.WithoutNotifier())
			if err != nil {
				return err
			}
			defer a.Close()

			title := ""
			if len(args) > 1 {
				title = args[1]
			}
			res := a.Assistant.ResearchCompany(ctx, args[0], title, jobURL)
			if !res.Success {
				fmt.Fprintf(os.Stderr, "warning: %s\n", res.Message)
			}
			fmt.Println(res.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&jobURL, "url", "", "job posting URL")
	return cmd
}

func contactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contacts [url]",
		Short: "Look for contact emails on a posting and its contact pages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd)
			defer stop()

			fetcher := scraper.NewHTTPFetcher(15 * time.Second)
			res := outreach.FindContactEmails(ctx, fetcher, args[0], scraper.RandomPause(time.Second, 2*time.Second))
			if len(res.Emails) == 0 {
				fmt.Println("No emails found")
				return nil
			}
			for _, e := range res.Emails {
				marker := " "
				if e == res.Best {
					marker = "*"
				}
				fmt.Printf("%s %-40s %s\n", marker, e, res.Sources[e])
			}
			return nil
		},
	}
}

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration with secrets redacted",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			shown := *cfg
			shown.Telegram.Token = redact(shown.Telegram.Token)
			shown.AI.GroqAPIKey = redact(shown.AI.GroqAPIKey)
			shown.Memory.DatabaseURL = redact(shown.Memory.DatabaseURL)
			shown.RedisURL = redact(shown.RedisURL)

			enc := yaml.NewEncoder(os.Stdout)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(shown)
		},
	}
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", 8)
}
