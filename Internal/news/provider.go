package news

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

type Headline struct {
	Title       string `json:"title"`
	PublishedAt string `json:"publishedAt"`
}

// Client fetches recent headlines for a ticker from the news API.
type Client struct {
	apiKey     string
	httpClient *http.Client
}

func NewHeadlineClient(requestTimeout time.Duration) *Client {
	return &Client{
		apiKey:     os.Getenv("NEWS_API_KEY"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) Headlines(ctx context.Context, symbol string) ([]Headline, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("NEWS_API_KEY not set")
	}

	apiURL := fmt.Sprintf("https://newsapi.org/v2/everything?q=%s&apiKey=%s",
		url.QueryEscape(symbol), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("news API returned status %d", resp.StatusCode)
	}

	var r struct {
		Articles []Headline `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, err
	}
	return r.Articles, nil
}

// Provider turns headlines into a single per-ticker sentiment score by
// averaging per-headline polarity. No headlines means neutral 0, which
// is a valid answer, not an error.
type Provider struct {
	client   *Client
	analyzer *Analyzer
}

func NewProvider(client *Client) *Provider {
	return &Provider{
		client:   client,
		analyzer: NewAnalyzer(),
	}
}

func (p *Provider) SentimentScore(ctx context.Context, symbol string) (float64, error) {
	headlines, err := p.client.Headlines(ctx, symbol)
	if err != nil {
		return 0, err
	}
	return p.analyzer.Average(headlines), nil
}

// Average scores each non-empty headline and averages the polarities.
func (a *Analyzer) Average(headlines []Headline) float64 {
	var sum float64
	var scored int
	for _, h := range headlines {
		if h.Title == "" {
			continue
		}
		sum += a.Polarity(h.Title)
		scored++
	}
	if scored == 0 {
		return 0
	}
	return sum / float64(scored)
}
