package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/xavierdc9/sports-betting-analyzer/internal/aggregator"
	"github.com/xavierdc9/sports-betting-analyzer/internal/display"
	"github.com/xavierdc9/sports-betting-analyzer/internal/oddsapi"
	"github.com/xavierdc9/sports-betting-analyzer/internal/ratelimit"
)

// newFakeBackend serves the odds API surface the dashboard consumes:
// a sports list, three upcoming events, per-event odds where event e2
// always fails, and one unread alert.
func newFakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/sports", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "s1", "key": "americanfootball_nfl", "title": "NFL", "active": true, "created_at": "2026-01-05T10:00:00Z"}
		]`))
	})

	mux.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("completed") != "false" {
			t.Errorf("completed = %q, want false", r.URL.Query().Get("completed"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "e1", "external_id": "x1", "sport_id": "s1", "home_team": "Chiefs", "away_team": "Bills",
			 "commence_time": "2026-09-01T17:00:00Z", "completed": false,
			 "created_at": "2026-08-20T00:00:00Z", "updated_at": "2026-08-25T00:00:00Z"},
			{"id": "e2", "external_id": "x2", "sport_id": "s1", "home_team": "Lions", "away_team": "Eagles",
			 "commence_time": "2026-09-02T17:00:00Z", "completed": false,
			 "created_at": "2026-08-20T00:00:00Z", "updated_at": "2026-08-25T00:00:00Z"},
			{"id": "e3", "external_id": "x3", "sport_id": "s1", "home_team": "Jets", "away_team": "Giants",
			 "commence_time": "2026-09-03T17:00:00Z", "completed": false,
			 "created_at": "2026-08-20T00:00:00Z", "updated_at": "2026-08-25T00:00:00Z"}
		]`))
	})

	mux.HandleFunc("/odds", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("event_id") {
		case "e1":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[
				{"id": "o1", "event_id": "e1", "bookmaker_id": "b1", "market_type": "h2h",
				 "outcome_name": "Chiefs", "price": "2.00", "point": null, "scraped_at": "2026-08-26T09:00:00Z"},
				{"id": "o2", "event_id": "e1", "bookmaker_id": "b1", "market_type": "h2h",
				 "outcome_name": "Bills", "price": "1.85", "point": null, "scraped_at": "2026-08-26T09:00:00Z"}
			]`))
		case "e2":
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("db down"))
		default:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[]`))
		}
	})

	mux.HandleFunc("/alerts", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": "a1", "alert_type": "value_bet", "event_id": "e1", "title": "Edge on Chiefs ML",
			 "details": null, "is_read": false, "created_at": "2026-08-26T08:00:00Z"}
		]`))
	})

	return httptest.NewServer(mux)
}

func newEventOddsAggregator(client *oddsapi.Client) *aggregator.Aggregator[oddsapi.Event, oddsapi.OddsRecord] {
	return aggregator.New(
		func(e oddsapi.Event) string { return e.ID },
		func(ctx context.Context, e oddsapi.Event) ([]oddsapi.OddsRecord, error) {
			return client.ListEventOdds(ctx, e.ID, 0)
		},
	)
}

func TestIntegration_PartialFailurePass(t *testing.T) {
	server := newFakeBackend(t)
	defer server.Close()

	client := oddsapi.NewClient(server.URL, "", 5*time.Second, ratelimit.New(0))
	agg := newEventOddsAggregator(client)
	ctx := context.Background()

	completed := false
	events, err := client.ListEvents(ctx, oddsapi.EventQuery{Completed: &completed})
	if err != nil {
		t.Fatalf("ListEvents() returned unexpected error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	result, published := agg.Run(ctx, events, 10)
	if !published {
		t.Fatal("single pass was not published")
	}

	// e1 succeeded with records, e2 failed, e3 succeeded empty.
	if got := len(result.RecordsByEntity["e1"]); got != 2 {
		t.Errorf("RecordsByEntity[e1] has %d records, want 2", got)
	}
	if got := result.RecordsByEntity["e2"]; got == nil || len(got) != 0 {
		t.Errorf("RecordsByEntity[e2] = %v, want empty non-nil slice", got)
	}
	if got := result.RecordsByEntity["e3"]; got == nil || len(got) != 0 {
		t.Errorf("RecordsByEntity[e3] = %v, want empty non-nil slice", got)
	}
	if got := result.ErrorByEntity["e2"]; got != "db down" {
		t.Errorf("ErrorByEntity[e2] = %q, want %q", got, "db down")
	}
	if len(result.ErrorByEntity) != 1 {
		t.Errorf("ErrorByEntity = %v, want only e2", result.ErrorByEntity)
	}
	if result.GlobalErr != "" {
		t.Errorf("GlobalErr = %q, want empty: one failed event must not blank the view", result.GlobalErr)
	}

	// Presentation derivation over the successful event.
	h2h := display.FilterMarket(result.RecordsByEntity["e1"], oddsapi.MarketHeadToHead)
	if len(h2h) != 2 {
		t.Fatalf("h2h group has %d records, want 2", len(h2h))
	}
	if got := display.FormatImpliedProbability(h2h[0].Price); got != "50.0" {
		t.Errorf("implied probability for price 2.00 = %q, want 50.0", got)
	}

	alerts, err := client.ListAlerts(ctx, oddsapi.AlertQuery{UnreadOnly: true})
	if err != nil {
		t.Fatalf("ListAlerts() returned unexpected error: %v", err)
	}
	if len(alerts) != 1 || alerts[0].AlertType != oddsapi.AlertValueBet {
		t.Errorf("alerts = %+v, want one value_bet alert", alerts)
	}
}

func TestIntegration_BackendDown_SingleGlobalError(t *testing.T) {
	server := newFakeBackend(t)
	server.Close() // nothing is listening anymore

	client := oddsapi.NewClient(server.URL, "", 2*time.Second, ratelimit.New(0))
	agg := newEventOddsAggregator(client)

	events := []oddsapi.Event{
		{ID: "e1", HomeTeam: "Chiefs", AwayTeam: "Bills"},
		{ID: "e2", HomeTeam: "Lions", AwayTeam: "Eagles"},
	}

	result, _ := agg.Run(context.Background(), events, 10)

	if len(result.ErrorByEntity) != 2 {
		t.Fatalf("ErrorByEntity has %d keys, want 2", len(result.ErrorByEntity))
	}
	if result.GlobalErr != "Network error — unable to reach the server" {
		t.Errorf("GlobalErr = %q, want fixed network error message", result.GlobalErr)
	}
}

func TestIntegration_RetryIsAFreshPass(t *testing.T) {
	// First pass fails everywhere; the backend then recovers and a
	// manual retry re-fetches the full capped set from scratch.
	var failing atomic.Bool
	failing.Store(true)
	mux := http.NewServeMux()
	mux.HandleFunc("/odds", func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := oddsapi.NewClient(server.URL, "", 5*time.Second, ratelimit.New(0))
	agg := newEventOddsAggregator(client)
	events := []oddsapi.Event{{ID: "e1"}, {ID: "e2"}}

	first, _ := agg.Run(context.Background(), events, 10)
	if first.GlobalErr != "request failed with status 503" {
		t.Errorf("GlobalErr = %q, want synthesized 503 message", first.GlobalErr)
	}

	failing.Store(false)
	second, published := agg.Run(context.Background(), events, 10)
	if !published {
		t.Fatal("retry pass was not published")
	}
	if second.GlobalErr != "" {
		t.Errorf("GlobalErr = %q after recovery, want empty", second.GlobalErr)
	}
	if len(second.ErrorByEntity) != 0 {
		t.Errorf("ErrorByEntity = %v after recovery, want empty", second.ErrorByEntity)
	}
	if agg.Latest() != second {
		t.Error("Latest() should be the retry pass")
	}
}
