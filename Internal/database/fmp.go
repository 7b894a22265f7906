package datafeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/fazecat/stockpilot/Internal/types"
)

const fmpBase = "https://financialmodelingprep.com/api/v3"

// TopActives pulls the most-active symbols list, the default universe
// for a screening run. Symbols beyond limit are dropped.
func (c *Client) TopActives(ctx context.Context, limit int) ([]string, error) {
	if c.fmpKey == "" {
		return nil, fmt.Errorf("FMP_API_KEY not set")
	}

	apiURL := fmt.Sprintf("%s/stock_market/actives?apikey=%s", fmpBase, url.QueryEscape(c.fmpKey))

	var items []struct {
		Symbol string `json:"symbol"`
	}
	if err := c.getPlain(ctx, apiURL, &items); err != nil {
		return nil, fmt.Errorf("fetching top actives: %w", err)
	}

	symbols := make([]string, 0, limit)
	for _, item := range items {
		if item.Symbol == "" {
			continue
		}
		symbols = append(symbols, item.Symbol)
		if len(symbols) == limit {
			break
		}
	}
	return symbols, nil
}

// fillFundamentals adds float, sector and days-to-earnings to a
// snapshot. Everything here is best-effort: a missing key or failed
// call leaves the neutral defaults in place and only logs.
func (c *Client) fillFundamentals(ctx context.Context, snap *types.TickerSnapshot) {
	if c.fmpKey == "" {
		return
	}

	profileURL := fmt.Sprintf("%s/profile/%s?apikey=%s", fmpBase, url.PathEscape(snap.Symbol), url.QueryEscape(c.fmpKey))
	var profiles []struct {
		Sector            string  `json:"sector"`
		SharesOutstanding float64 `json:"sharesOutstanding"`
	}
	if err := c.getPlain(ctx, profileURL, &profiles); err != nil {
		log.Printf("Profile fetch failed for %s: %v (continuing without fundamentals)", snap.Symbol, err)
	} else if len(profiles) > 0 {
		if profiles[0].Sector != "" {
			snap.Sector = profiles[0].Sector
		}
		snap.SharesOutstanding = profiles[0].SharesOutstanding
	}

	earningsURL := fmt.Sprintf("%s/earning_calendar/%s?apikey=%s", fmpBase, url.PathEscape(snap.Symbol), url.QueryEscape(c.fmpKey))
	var events []struct {
		Date string `json:"date"`
	}
	if err := c.getPlain(ctx, earningsURL, &events); err != nil {
		log.Printf("Earnings fetch failed for %s: %v (continuing without earnings date)", snap.Symbol, err)
		return
	}

	now := time.Now()
	for _, ev := range events {
		t, err := time.Parse("2006-01-02", ev.Date)
		if err != nil || t.Before(now) {
			continue
		}
		days := int(t.Sub(now).Hours() / 24)
		snap.DaysToEarnings = &days
		break
	}
}

// getPlain is the unauthenticated variant of get for FMP, which keys
// off the query string instead of headers.
func (c *Client) getPlain(ctx context.Context, rawURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
