package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xavierdc9/sports-betting-analyzer/internal/aggregator"
	"github.com/xavierdc9/sports-betting-analyzer/internal/config"
	"github.com/xavierdc9/sports-betting-analyzer/internal/display"
	"github.com/xavierdc9/sports-betting-analyzer/internal/oddsapi"
	"github.com/xavierdc9/sports-betting-analyzer/internal/ratelimit"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nReceived interrupt signal, shutting down...")
		cancel()
	}()

	limiter := ratelimit.New(cfg.RequestsPerSecond)
	client := oddsapi.NewClient(cfg.APIBaseURL, cfg.APIKey, cfg.RequestTimeout(), limiter)

	// One independent odds fetch per event; failures stay per-event.
	agg := aggregator.New(
		func(e oddsapi.Event) string { return e.ID },
		func(ctx context.Context, e oddsapi.Event) ([]oddsapi.OddsRecord, error) {
			return client.ListEventOdds(ctx, e.ID, 0)
		},
	)

	if err := renderDashboard(ctx, cfg, client, agg); err != nil {
		log.Fatalf("Dashboard failed: %v", err)
	}

	interval := cfg.RefreshInterval()
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := renderDashboard(ctx, cfg, client, agg); err != nil {
				slog.Error("refresh failed", "error", err)
			}
		}
	}
}

// renderDashboard runs one full aggregation pass and prints it.
func renderDashboard(ctx context.Context, cfg *config.Config, client *oddsapi.Client, agg *aggregator.Aggregator[oddsapi.Event, oddsapi.OddsRecord]) error {
	fetchCtx, fetchCancel := context.WithTimeout(ctx, 30*time.Second)
	defer fetchCancel()

	sports, err := client.ListSports(fetchCtx, true)
	if err != nil {
		return fmt.Errorf("failed to list sports: %w", err)
	}

	completed := false
	events, err := client.ListEvents(fetchCtx, oddsapi.EventQuery{Completed: &completed})
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	result, _ := agg.Run(fetchCtx, events, cfg.EventDisplayCap)

	fmt.Println("================================================")
	fmt.Printf("Tracked sports: ")
	for i, s := range sports {
		if i > 0 {
			fmt.Print(", ")
		}
		fmt.Print(s.Title)
	}
	fmt.Println()
	fmt.Println("================================================")

	renderOdds(events, result, cfg.DefaultMarket)

	alerts, err := client.ListAlerts(fetchCtx, oddsapi.AlertQuery{UnreadOnly: true})
	if err != nil {
		// Alerts are a side panel; a failure there never blanks the odds view.
		slog.Warn("failed to list alerts", "error", err)
		return nil
	}
	renderAlerts(alerts)

	return nil
}

// renderOdds prints one line per outcome of the chosen market for
// every event covered by the pass. A fully failed pass collapses to a
// single retryable error line; partial failures render inline against
// only the failed events.
func renderOdds(events []oddsapi.Event, result *aggregator.Result[oddsapi.OddsRecord], market string) {
	if result.GlobalErr != "" {
		fmt.Printf("ERROR - %s (refresh to retry)\n", result.GlobalErr)
		return
	}

	for _, e := range events {
		records, ok := result.RecordsByEntity[e.ID]
		if !ok {
			// Beyond the display cap; not fetched this pass.
			continue
		}

		fmt.Printf("%s vs %s  (%s)\n", e.HomeTeam, e.AwayTeam, e.CommenceTime.Format(time.RFC822))

		if msg, failed := result.ErrorByEntity[e.ID]; failed {
			fmt.Printf("  ERROR - %s\n", msg)
			continue
		}

		quotes := display.FilterMarket(records, market)
		if len(quotes) == 0 {
			fmt.Println("  no odds available")
			continue
		}
		for _, q := range quotes {
			fmt.Printf("  %-28s %8s  %6s%%\n",
				q.OutcomeName,
				display.FormatPrice(q.Price),
				display.FormatImpliedProbability(q.Price))
		}
	}
}

func renderAlerts(alerts []oddsapi.Alert) {
	if len(alerts) == 0 {
		return
	}
	fmt.Println("------------------------------------------------")
	fmt.Printf("Unread alerts (%d):\n", len(alerts))
	for _, a := range alerts {
		fmt.Printf("  [%s] %s\n", a.AlertType, a.Title)
	}
}
