package oddsapi

import "time"

// Market type discriminants used by OddsRecord.MarketType.
const (
	MarketHeadToHead = "h2h"
	MarketSpreads    = "spreads"
	MarketTotals     = "totals"
)

// Alert types emitted by the backend's analysis jobs.
const (
	AlertArbitrage    = "arbitrage"
	AlertValueBet     = "value_bet"
	AlertLineMovement = "line_movement"
)

// Sport is one sport tracked by the backend.
type Sport struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Event is a sporting event between two teams.
type Event struct {
	ID           string    `json:"id"`
	ExternalID   string    `json:"external_id"`
	SportID      string    `json:"sport_id"`
	HomeTeam     string    `json:"home_team"`
	AwayTeam     string    `json:"away_team"`
	CommenceTime time.Time `json:"commence_time"`
	Completed    bool      `json:"completed"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// OddsRecord is one scraped price quotation for an event outcome.
// Price and Point are decimals kept as strings; parsing happens only
// at display time so no precision is lost in transit.
type OddsRecord struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	BookmakerID string    `json:"bookmaker_id"`
	MarketType  string    `json:"market_type"`
	OutcomeName string    `json:"outcome_name"`
	Price       string    `json:"price"`
	Point       *string   `json:"point"`
	ScrapedAt   time.Time `json:"scraped_at"`
}

// Alert is a notification produced by arbitrage/value-bet/line-movement
// analysis.
type Alert struct {
	ID        string         `json:"id"`
	AlertType string         `json:"alert_type"`
	EventID   string         `json:"event_id"`
	Title     string         `json:"title"`
	Details   map[string]any `json:"details"`
	IsRead    bool           `json:"is_read"`
	CreatedAt time.Time      `json:"created_at"`
}

// PolymarketOutcome is one outcome of a prediction market. Price is a
// probability between 0 and 1, as a string.
type PolymarketOutcome struct {
	Name   string `json:"name"`
	Price  string `json:"price"`
	Volume string `json:"volume"`
}

// PolymarketMarket is a prediction market mirrored from Polymarket.
type PolymarketMarket struct {
	ID          string              `json:"id"`
	Question    string              `json:"question"`
	Category    string              `json:"category"`
	EndDate     time.Time           `json:"end_date"`
	Active      bool                `json:"active"`
	TotalVolume string              `json:"total_volume"`
	Outcomes    []PolymarketOutcome `json:"outcomes"`
	Source      string              `json:"source"`
	URL         *string             `json:"url"`
}
