package oddsapi

import (
	"context"
	"strconv"
	"time"

	"resty.dev/v3"

	"github.com/xavierdc9/sports-betting-analyzer/internal/fetcher"
	"github.com/xavierdc9/sports-betting-analyzer/internal/ratelimit"
)

// Default list sizes matching the backend's own defaults.
const (
	defaultEventLimit = 50
	defaultOddsLimit  = 200
	defaultAlertLimit = 50
)

// Client is a typed client for the odds aggregation backend. Every
// call issues exactly one outbound request; there are no retries, no
// caching, and no de-duplication of in-flight calls. All failures are
// classified through the fetcher package — callers never see a raw
// transport error.
type Client struct {
	http    *resty.Client
	limiter *ratelimit.Limiter
}

// NewClient creates a client for the API at baseURL. apiKey may be
// empty. limiter may be nil to disable client-side rate limiting.
func NewClient(baseURL, apiKey string, timeout time.Duration, limiter *ratelimit.Limiter) *Client {
	return &Client{
		http:    fetcher.NewHTTPClient(baseURL, apiKey, timeout),
		limiter: limiter,
	}
}

// wait blocks on the client-side limiter. A canceled wait never
// produced a response, so it classifies as unreachable.
func (c *Client) wait(ctx context.Context, resource ratelimit.Resource) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx, resource); err != nil {
		return fetcher.Classify(0, "", err)
	}
	return nil
}

// getList issues one GET for a JSON array of T.
func getList[T any](ctx context.Context, c *Client, resource ratelimit.Resource, path string, query map[string]string) ([]T, error) {
	if err := c.wait(ctx, resource); err != nil {
		return nil, err
	}

	var out []T
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(query).
		SetResult(&out).
		Get(path)

	if err != nil {
		return nil, fetcher.Classify(0, "", err)
	}
	if !resp.IsSuccess() {
		return nil, fetcher.Classify(resp.StatusCode(), resp.String(), nil)
	}
	return out, nil
}

// getOne issues one GET for a single JSON object of T.
func getOne[T any](ctx context.Context, c *Client, resource ratelimit.Resource, path string) (T, error) {
	var out T
	if err := c.wait(ctx, resource); err != nil {
		return out, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(path)

	if err != nil {
		return out, fetcher.Classify(0, "", err)
	}
	if !resp.IsSuccess() {
		return out, fetcher.Classify(resp.StatusCode(), resp.String(), nil)
	}
	return out, nil
}

// confirm checks a fire-and-confirm response: the body is discarded
// but failures are classified exactly like the typed calls.
func confirm(resp *resty.Response, err error) error {
	if err != nil {
		return fetcher.Classify(0, "", err)
	}
	if !resp.IsSuccess() {
		return fetcher.Classify(resp.StatusCode(), resp.String(), nil)
	}
	return nil
}

// ListSports returns the sports tracked by the backend.
func (c *Client) ListSports(ctx context.Context, activeOnly bool) ([]Sport, error) {
	return getList[Sport](ctx, c, ratelimit.ResourceSports, "/sports", map[string]string{
		"active_only": strconv.FormatBool(activeOnly),
	})
}

// EventQuery filters ListEvents. A zero Limit uses the backend default.
type EventQuery struct {
	SportID   string
	Completed *bool
	Limit     int
}

// ListEvents returns events, most recent commence time first.
func (c *Client) ListEvents(ctx context.Context, q EventQuery) ([]Event, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultEventLimit
	}
	query := map[string]string{
		"limit": strconv.Itoa(limit),
	}
	if q.SportID != "" {
		query["sport_id"] = q.SportID
	}
	if q.Completed != nil {
		query["completed"] = strconv.FormatBool(*q.Completed)
	}
	return getList[Event](ctx, c, ratelimit.ResourceEvents, "/events", query)
}

// ListEventOdds returns the latest odds records for one event.
func (c *Client) ListEventOdds(ctx context.Context, eventID string, limit int) ([]OddsRecord, error) {
	if limit <= 0 {
		limit = defaultOddsLimit
	}
	return getList[OddsRecord](ctx, c, ratelimit.ResourceOdds, "/odds", map[string]string{
		"event_id": eventID,
		"limit":    strconv.Itoa(limit),
	})
}

// OddsHistory returns the full time-ordered odds history for an event,
// used for line-movement charts.
func (c *Client) OddsHistory(ctx context.Context, eventID string) ([]OddsRecord, error) {
	return getList[OddsRecord](ctx, c, ratelimit.ResourceOdds, "/odds/event/"+eventID+"/history", nil)
}

// AlertQuery filters ListAlerts. A zero Limit uses the backend default.
type AlertQuery struct {
	UnreadOnly bool
	Limit      int
}

// ListAlerts returns alerts, newest first.
func (c *Client) ListAlerts(ctx context.Context, q AlertQuery) ([]Alert, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultAlertLimit
	}
	return getList[Alert](ctx, c, ratelimit.ResourceAlerts, "/alerts", map[string]string{
		"unread_only": strconv.FormatBool(q.UnreadOnly),
		"limit":       strconv.Itoa(limit),
	})
}

// MarkAlertRead marks a single alert as read. The response body is
// discarded; failures are still classified.
func (c *Client) MarkAlertRead(ctx context.Context, alertID string) error {
	if err := c.wait(ctx, ratelimit.ResourceAlerts); err != nil {
		return err
	}
	return confirm(c.http.R().SetContext(ctx).Patch("/alerts/" + alertID + "/read"))
}

// MarkAllAlertsRead marks every unread alert as read.
func (c *Client) MarkAllAlertsRead(ctx context.Context) error {
	if err := c.wait(ctx, ratelimit.ResourceAlerts); err != nil {
		return err
	}
	return confirm(c.http.R().SetContext(ctx).Post("/alerts/mark-all-read"))
}

// ListPolymarketMarkets returns prediction markets, optionally filtered
// by category (NFL, NBA, MLB).
func (c *Client) ListPolymarketMarkets(ctx context.Context, category string) ([]PolymarketMarket, error) {
	query := map[string]string{}
	if category != "" {
		query["category"] = category
	}
	return getList[PolymarketMarket](ctx, c, ratelimit.ResourcePolymarket, "/polymarket/markets", query)
}

// GetPolymarketMarket returns a single prediction market by id.
func (c *Client) GetPolymarketMarket(ctx context.Context, marketID string) (PolymarketMarket, error) {
	return getOne[PolymarketMarket](ctx, c, ratelimit.ResourcePolymarket, "/polymarket/markets/"+marketID)
}
