package datafeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"

	"github.com/fazecat/stockpilot/Internal/types"
	"github.com/fazecat/stockpilot/Internal/utils"
)

type Bar = types.Bar

// ErrDataUnavailable marks a per-ticker fetch that came back empty or
// timed out. The engine skips the ticker and keeps going.
var ErrDataUnavailable = errors.New("market data unavailable")

const alpacaDataBase = "https://data.alpaca.markets"

// Client fetches per-ticker market data from Alpaca, with FMP filling
// in float, sector and earnings dates when a key is configured.
type Client struct {
	apiKey     string
	secretKey  string
	fmpKey     string
	httpClient *http.Client
	retry      utils.RetryConfig

	Timeframe string // bar resolution, e.g. "5Min"
	BarLimit  int
}

func NewClient(requestTimeout time.Duration) *Client {
	return &Client{
		apiKey:     os.Getenv("ALPACA_API_KEY"),
		secretKey:  os.Getenv("ALPACA_API_SECRET"),
		fmpKey:     os.Getenv("FMP_API_KEY"),
		httpClient: &http.Client{Timeout: requestTimeout},
		retry:      utils.DefaultRetryConfig(),
		Timeframe:  "5Min",
		BarLimit:   100,
	}
}

func (c *Client) get(ctx context.Context, rawURL string, out interface{}) error {
	return utils.RetryWithBackoff(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return err
		}
		req.Header.Set("APCA-API-KEY-ID", c.apiKey)
		req.Header.Set("APCA-API-SECRET-KEY", c.secretKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("API returned status %d", resp.StatusCode)
		}
		return json.NewDecoder(resp.Body).Decode(out)
	}, c.retry)
}

// GetBars returns up to limit bars for a symbol, oldest first, the
// order the indicator calculators expect.
func (c *Client) GetBars(ctx context.Context, symbol string) ([]Bar, error) {
	start := time.Now().UTC().Add(-barSpan(c.Timeframe, c.BarLimit))
	apiURL := fmt.Sprintf(
		"%s/v2/stocks/%s/bars?timeframe=%s&limit=%d&start=%s",
		alpacaDataBase, url.PathEscape(symbol), c.Timeframe, c.BarLimit,
		start.Format(time.RFC3339),
	)

	var r struct {
		Bars []Bar `json:"bars"`
	}
	if err := c.get(ctx, apiURL, &r); err != nil {
		return nil, err
	}
	return r.Bars, nil
}

// Snapshot assembles the full per-ticker input for one screening cycle.
// Optional fields that no provider can fill stay at their neutral
// defaults; only missing bars or a missing last price are fatal for the
// ticker.
func (c *Client) Snapshot(ctx context.Context, symbol string) (types.TickerSnapshot, error) {
	snap := types.TickerSnapshot{Symbol: symbol, Sector: "Unknown"}

	bars, err := c.GetBars(ctx, symbol)
	if err != nil {
		return snap, fmt.Errorf("%w: %s bars: %v", ErrDataUnavailable, symbol, err)
	}
	if len(bars) == 0 {
		return snap, fmt.Errorf("%w: no bars for %s", ErrDataUnavailable, symbol)
	}
	snap.Bars = bars

	apiURL := fmt.Sprintf("%s/v2/stocks/%s/snapshot", alpacaDataBase, url.PathEscape(symbol))
	var r struct {
		LatestTrade struct {
			Price float64 `json:"p"`
		} `json:"latestTrade"`
		LatestQuote struct {
			Bid float64 `json:"bp"`
			Ask float64 `json:"ap"`
		} `json:"latestQuote"`
		PrevDailyBar struct {
			Close float64 `json:"c"`
		} `json:"prevDailyBar"`
	}
	if err := c.get(ctx, apiURL, &r); err != nil {
		return snap, fmt.Errorf("%w: %s snapshot: %v", ErrDataUnavailable, symbol, err)
	}

	snap.LastPrice = r.LatestTrade.Price
	if snap.LastPrice == 0 {
		snap.LastPrice = bars[len(bars)-1].Close
	}
	if snap.LastPrice <= 0 {
		return snap, fmt.Errorf("%w: no last price for %s", ErrDataUnavailable, symbol)
	}

	// Previous close may be stale or zero during provider outages; the
	// percent-change metric handles that downstream.
	snap.PreviousClose = r.PrevDailyBar.Close
	snap.Bid = r.LatestQuote.Bid
	snap.Ask = r.LatestQuote.Ask

	c.fillFundamentals(ctx, &snap)

	return snap, nil
}

// PercentChanges returns the previous-close-to-last percent change for
// each benchmark symbol, in input order. A symbol that cannot be
// fetched contributes 0 rather than failing the run.
func (c *Client) PercentChanges(ctx context.Context, symbols []string) []float64 {
	changes := make([]float64, len(symbols))
	for i, symbol := range symbols {
		apiURL := fmt.Sprintf("%s/v2/stocks/%s/snapshot", alpacaDataBase, url.PathEscape(symbol))
		var r struct {
			LatestTrade struct {
				Price float64 `json:"p"`
			} `json:"latestTrade"`
			PrevDailyBar struct {
				Close float64 `json:"c"`
			} `json:"prevDailyBar"`
		}
		if err := c.get(ctx, apiURL, &r); err != nil || r.PrevDailyBar.Close == 0 {
			continue
		}
		changes[i] = (r.LatestTrade.Price - r.PrevDailyBar.Close) / r.PrevDailyBar.Close * 100.0
	}
	return changes
}

func barSpan(timeframe string, limit int) time.Duration {
	barDur := 24 * time.Hour
	switch timeframe {
	case "1Min":
		barDur = time.Minute
	case "5Min":
		barDur = 5 * time.Minute
	case "15Min":
		barDur = 15 * time.Minute
	case "30Min":
		barDur = 30 * time.Minute
	case "1Hour":
		barDur = time.Hour
	case "1Day":
		barDur = 24 * time.Hour
	}
	// Pad generously so weekends and halts don't starve the window.
	return barDur * time.Duration(limit*4)
}

var alpacaClient *alpaca.Client

func InitAlpacaClient() error {
	apiKey := os.Getenv("ALPACA_API_KEY")
	secretKey := os.Getenv("ALPACA_API_SECRET")

	if apiKey == "" || secretKey == "" {
		return fmt.Errorf("ALPACA_API_KEY or ALPACA_API_SECRET not set")
	}

	alpacaClient = alpaca.NewClient(alpaca.ClientOpts{
		APIKey:    apiKey,
		APISecret: secretKey,
		BaseURL:   "https://paper-api.alpaca.markets",
	})

	return nil
}

func GetAlpacaClient() *alpaca.Client {
	return alpacaClient
}

// TradableSymbols lists active US equities from the trading API, used
// as a universe fallback when neither a watchlist nor an FMP key is
// configured.
func TradableSymbols() ([]string, error) {
	client := GetAlpacaClient()
	if client == nil {
		return nil, fmt.Errorf("alpaca client not initialized - call InitAlpacaClient() first")
	}

	assets, err := client.GetAssets(alpaca.GetAssetsRequest{Status: "active"})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch assets from Alpaca: %v", err)
	}

	symbols := make([]string, 0, len(assets))
	for _, asset := range assets {
		if asset.Class == "us_equity" && asset.Tradable {
			symbols = append(symbols, asset.Symbol)
		}
	}
	return symbols, nil
}
