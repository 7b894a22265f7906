package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	datafeed "github.com/fazecat/stockpilot/Internal/database"
	"github.com/fazecat/stockpilot/Internal/engine"
	"github.com/fazecat/stockpilot/Internal/news"
	"github.com/fazecat/stockpilot/Internal/utils/config"
	"github.com/fazecat/stockpilot/Internal/utils/formatting"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	engineCfg, err := cfg.EngineConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := datafeed.InitDatabase(); err != nil {
		log.Printf("Warning: database unavailable, runs will not be journaled: %v", err)
	} else {
		defer datafeed.CloseDatabase()
	}

	market := datafeed.NewClient(10 * time.Second)

	if err := datafeed.InitAlpacaClient(); err != nil {
		log.Printf("Warning: Alpaca trading client unavailable: %v", err)
	}

	var sentiment engine.SentimentProvider
	if os.Getenv("NEWS_API_KEY") != "" {
		sentiment = news.NewProvider(news.NewHeadlineClient(10 * time.Second))
	} else {
		log.Println("NEWS_API_KEY not set, sentiment stays neutral")
	}

	screener := engine.New(market, sentiment, market, engineCfg)

	status, isOpen := cfg.MarketStatus(time.Now())
	fmt.Printf("Market Status: %s (Open: %v)\n", status, isOpen)

	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Println("\n--- StockPilot Menu ---")
		fmt.Println("1. Run Screener")
		fmt.Println("2. View Configuration")
		fmt.Println("3. Configure Settings")
		fmt.Println("4. Recent Runs")
		fmt.Println("5. Exit")
		fmt.Print("Enter choice (1-5): ")

		var choice int
		_, err := fmt.Scanln(&choice)
		if err != nil {
			fmt.Println("Invalid input. Try again.")
			continue
		}

		switch choice {
		case 1:
			runScreener(ctx, reader, cfg, screener, market)
		case 2:
			config.DisplayConfiguration(cfg)
		case 3:
			if err := config.ConfigureInteractive(cfg); err != nil {
				fmt.Printf("Configuration error: %v\n", err)
				continue
			}
			engineCfg, err = cfg.EngineConfig()
			if err != nil {
				log.Fatalf("Invalid configuration: %v", err)
			}
			screener = engine.New(market, sentiment, market, engineCfg)
		case 4:
			showRecentRuns(ctx)
		case 5:
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid choice. Try again.")
		}
	}
}

func runScreener(ctx context.Context, reader *bufio.Reader, cfg *config.Config, screener *engine.Screener, market *datafeed.Client) {
	investment := promptInvestment(reader, cfg.Run.InvestmentAmount)

	symbols := cfg.Universe.Watchlist
	if len(symbols) == 0 {
		fetched, err := market.TopActives(ctx, cfg.Universe.TopActives)
		if err != nil {
			log.Printf("Top actives unavailable: %v (falling back to tradable assets)", err)
			fetched, err = datafeed.TradableSymbols()
			if err != nil {
				fmt.Printf("Could not build a universe: %v\n", err)
				return
			}
			if len(fetched) > cfg.Universe.TopActives {
				fetched = fetched[:cfg.Universe.TopActives]
			}
		}
		symbols = fetched
	}

	fmt.Printf("\nScreening %d tickers with $%.2f budget...\n", len(symbols), investment)
	start := time.Now()

	result, err := screener.Run(ctx, symbols, investment)
	if err != nil {
		fmt.Printf("Screening run failed: %v\n", err)
		return
	}

	fmt.Printf("\nDone in %.1fs. %d of %d tickers passed, %d plans.\n",
		time.Since(start).Seconds(), result.Accepted, result.UniverseSize, len(result.Plans))
	fmt.Printf("Benchmark composite change: %.2f%%\n\n", result.BenchmarkComposite)
	fmt.Print(formatting.PlanTable(result.Plans))

	reasons := make([]string, 0, len(result.Rejections))
	rejections := make([]datafeed.RejectionRecord, 0, len(result.Rejections))
	for _, r := range result.Rejections {
		reasons = append(reasons, r.Reason.String())
		rejections = append(rejections, datafeed.RejectionRecord{Ticker: r.Symbol, Reason: r.Reason.String()})
	}
	fmt.Println()
	fmt.Print(formatting.RejectionSummary(reasons))

	if err := datafeed.LogScreeningRun(ctx, investment, result.UniverseSize, result.Accepted, result.Plans, rejections); err != nil {
		log.Printf("Could not journal run: %v", err)
	}
}

func promptInvestment(reader *bufio.Reader, fallback float64) float64 {
	fmt.Printf("Investment amount [$%.2f]: ", fallback)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return fallback
	}
	val, err := strconv.ParseFloat(strings.TrimPrefix(input, "$"), 64)
	if err != nil || val <= 0 {
		fmt.Println("Invalid amount, using default")
		return fallback
	}
	return val
}

func showRecentRuns(ctx context.Context) {
	runs, err := datafeed.RecentRuns(ctx, 10)
	if err != nil {
		fmt.Printf("Could not fetch runs: %v\n", err)
		return
	}
	if len(runs) == 0 {
		fmt.Println("No journaled runs yet.")
		return
	}

	fmt.Printf("\n%-6s %-22s %12s %10s %8s\n", "ID", "Ran At", "Investment", "Universe", "Plans")
	fmt.Println(formatting.Separator(64))
	for _, r := range runs {
		fmt.Printf("%-6d %-22s %12s %10d %8d\n", r.ID, r.RanAt, r.InvestmentAmount, r.UniverseSize, r.Planned)
	}
}
