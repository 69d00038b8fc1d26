package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/polysignal/engine/internal/alerts"
	"github.com/polysignal/engine/internal/analyzer"
	"github.com/polysignal/engine/internal/config"
	"github.com/polysignal/engine/internal/metrics"
	"github.com/polysignal/engine/internal/polymarket/dataapi"
	"github.com/polysignal/engine/internal/polymarket/gammaapi"
	"github.com/polysignal/engine/internal/scoring"
	"github.com/polysignal/engine/internal/stats"
	"github.com/polysignal/engine/internal/storage"
)

func main() {
	minProfit := flag.Float64("min-profit", 5000, "Minimum total profit threshold for wallets")
	topN := flag.Int("top", 20, "Number of top wallets to display")
	jsonOut := flag.Bool("json", false, "Output results as JSON instead of formatted text")
	mock := flag.Bool("mock", false, "Use canned data for testing (no API calls)")
	history := flag.Int("history", 0, "Also print the last N recorded runs for this market (requires DATABASE_DSN)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		usage()
		os.Exit(2)
	}
	marketURL := flag.Arg(0)

	// Logs go to stderr so the report and JSON output stay clean on stdout
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	cfg.MinTotalPnL = *minProfit

	log.WithFields(logrus.Fields{
		"environment":   cfg.Environment,
		"min_profit":    cfg.MinTotalPnL,
		"stats_workers": cfg.StatsWorkers,
		"alert_mode":    cfg.AlertMode,
		"mock":          *mock,
	}).Info("Configuration loaded")

	if cfg.MetricsPort > 0 {
		go startHTTPServer(cfg.MetricsPort, log)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	thresholds := scoring.Thresholds{
		MinTotalPnL:    cfg.MinTotalPnL,
		MinRealizedPnL: cfg.MinRealizedPnL,
		MinMarkets:     cfg.MinMarkets,
		MinClosedWins:  cfg.MinClosedWins,
	}

	var a *analyzer.Analyzer
	if *mock {
		log.Warn("Using mock data (test mode)")
		backend := analyzer.NewMockBackend()
		a = analyzer.New(backend, backend, backend, thresholds, cfg.StatsWorkers)
	} else {
		dataClient := dataapi.NewClient(cfg)
		gammaClient := gammaapi.NewClient(cfg)
		a = analyzer.New(
			gammaClient,
			analyzer.NewHTTPPositionSource(dataClient),
			stats.NewHTTPProvider(dataClient),
			thresholds,
			cfg.StatsWorkers,
		)
	}

	progress := func(msg string, pct int) {
		fmt.Fprintf(os.Stderr, "  [%3d%%] %s\n", pct, msg)
	}
	if *jsonOut {
		progress = nil
	}

	result, err := a.Run(ctx, marketURL, progress)
	if err != nil {
		log.WithError(err).Error("Analysis failed")
		fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
		os.Exit(1)
	}

	// Run history is optional; the engine itself is stateless
	var pastRuns []storage.AnalysisRun
	var topWallets map[int64]string
	if cfg.DatabaseDSN != "" && !*mock {
		if db, dbErr := storage.New(cfg, log); dbErr != nil {
			log.WithError(dbErr).Warn("Run history disabled: database unavailable")
		} else {
			defer db.Close()
			if migErr := db.AutoMigrate(); migErr != nil {
				log.WithError(migErr).Warn("Database migration failed")
			} else if runID, recErr := db.RecordRun(ctx, result); recErr != nil {
				log.WithError(recErr).Warn("Failed to record run")
			} else {
				log.WithField("run_id", runID).Info("Run recorded")
			}
			if *history > 0 {
				if runs, histErr := db.RecentRuns(ctx, result.Market.ConditionID, *history); histErr != nil {
					log.WithError(histErr).Warn("Failed to load run history")
				} else {
					pastRuns = runs
					topWallets = make(map[int64]string, len(runs))
					for _, run := range runs {
						records, profErr := db.RunProfiles(ctx, run.ID)
						if profErr != nil || len(records) == 0 {
							continue
						}
						topWallets[run.ID] = records[0].WalletAddress
					}
				}
			}
		}
	}

	if sender := createAlertSender(cfg, log); sender != nil {
		payload := alerts.NewPayload(result, cfg.Environment)
		if sendErr := sender.Send(ctx, payload); sendErr != nil {
			metrics.RecordAlert("error", cfg.AlertMode)
			log.WithError(sendErr).Warn("Failed to send signal alert")
		} else {
			metrics.RecordAlert("success", cfg.AlertMode)
		}
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(buildReport(result, *topN)); encErr != nil {
			log.WithError(encErr).Fatal("Failed to encode JSON output")
		}
		return
	}

	fmt.Println(formatReport(result, *topN))
	if len(pastRuns) > 0 {
		fmt.Println(formatHistory(pastRuns, topWallets))
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: polysignal [flags] <market_url>

Analyzes the holders of a Polymarket binary market and aggregates their
track records into a directional signal.

Examples:
  polysignal https://polymarket.com/event/bitcoin-100k
  polysignal -min-profit 10000 https://polymarket.com/event/trump-2024
  polysignal -mock test

Flags:
`)
	flag.PrintDefaults()
}

func createAlertSender(cfg *config.Config, log *logrus.Logger) alerts.Sender {
	var senders []alerts.Sender
	for _, mode := range strings.Split(cfg.AlertMode, ",") {
		switch strings.TrimSpace(mode) {
		case "log":
			senders = append(senders, alerts.NewLogSender(log))
		case "discord":
			if cfg.DiscordWebhookURL != "" {
				senders = append(senders, alerts.NewDiscordSender(cfg.DiscordWebhookURL))
			} else {
				log.Warn("Discord mode specified but DISCORD_WEBHOOK_URL not set")
			}
		case "smtp":
			if cfg.SMTPHost != "" {
				senders = append(senders, alerts.NewSMTPSender(
					cfg.SMTPHost,
					cfg.SMTPPort,
					cfg.SMTPUser,
					cfg.SMTPPassword,
					cfg.SMTPFrom,
					cfg.SMTPTo,
				))
			} else {
				log.Warn("SMTP mode specified but SMTP_HOST not set")
			}
		default:
			log.WithField("mode", mode).Warn("Unknown alert mode, skipping")
		}
	}

	if len(senders) == 0 {
		return nil
	}
	if len(senders) == 1 {
		return senders[0]
	}
	return alerts.NewMultiSender(senders...)
}

func startHTTPServer(port int, log *logrus.Logger) {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		metrics.RecordHealthCheck(true)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy"}`)
	})

	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	log.WithField("port", port).Info("Starting HTTP server (health + metrics)")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Error("HTTP server failed")
	}
}
