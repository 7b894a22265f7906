package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ConfigureInteractive allows users to interactively configure the screener
func ConfigureInteractive(cfg *Config) error {
	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Println("\n⚙️  Configuration Menu:")
		fmt.Println("1. View Current Configuration")
		fmt.Println("2. Configure Screening Thresholds")
		fmt.Println("3. Configure Scoring Weights")
		fmt.Println("4. Toggle Hard Filters")
		fmt.Println("5. Configure Trade Planning")
		fmt.Println("6. Save & Exit")
		fmt.Print("Select option: ")

		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)

		switch choice {
		case "1":
			DisplayConfiguration(cfg)
		case "2":
			configureThresholds(cfg, reader)
		case "3":
			configureWeights(cfg, reader)
		case "4":
			configureFilters(cfg, reader)
		case "5":
			configurePlanner(cfg, reader)
		case "6":
			err := SaveConfig(cfg)
			if err != nil {
				fmt.Printf("❌ Error saving config: %v\n", err)
				continue
			}
			fmt.Println("✅ Configuration saved successfully!")
			return nil
		default:
			fmt.Println("❌ Invalid option")
		}
	}
}

// DisplayConfiguration shows current configuration
func DisplayConfiguration(cfg *Config) {
	fmt.Println("\n📋 Current Configuration:")

	fmt.Println("\n=== Screening Thresholds ===")
	fmt.Printf("  • Price Range: $%.2f - $%.2f\n", cfg.Screener.PriceMin, cfg.Screener.PriceMax)
	fmt.Printf("  • Min Volume: %d\n", cfg.Screener.VolumeMin)
	fmt.Printf("  • Percent Change: %.1f%% - %.1f%%\n", cfg.Screener.PercentChangeMin, cfg.Screener.PercentChangeMax)
	fmt.Printf("  • RVOL Threshold: %.2f\n", cfg.Screener.RVOLThreshold)
	fmt.Printf("  • ATR Range: %.2f - %.2f\n", cfg.Screener.ATRMin, cfg.Screener.ATRMax)
	fmt.Printf("  • Float Range: %.0f - %.0f\n", cfg.Screener.FloatMin, cfg.Screener.FloatMax)
	fmt.Printf("  • RSI Range: %.0f - %.0f\n", cfg.Screener.RSIMin, cfg.Screener.RSIMax)
	fmt.Printf("  • Min Range: %.1f%%\n", cfg.Screener.RangeMinPercent)
	fmt.Printf("  • Min Sentiment: %.2f\n", cfg.Screener.MinSentimentScore)
	fmt.Printf("  • Max Spread: %.3f%%\n", cfg.Screener.MaxSpreadPercent*100)
	fmt.Printf("  • Excluded Tickers: %s\n", strings.Join(cfg.Screener.ExcludedTickers, ", "))
	fmt.Printf("  • Earnings Blackout: %d days\n", cfg.Screener.EarningsLookaheadDays)

	fmt.Println("\n=== Hard Filters ===")
	fmt.Printf("Price: %s  Volume: %s  %%Change: %s  Spread: %s\n",
		enabledStr(cfg.Screener.Filters.Price), enabledStr(cfg.Screener.Filters.Volume),
		enabledStr(cfg.Screener.Filters.PercentChange), enabledStr(cfg.Screener.Filters.Spread))
	fmt.Printf("RVOL: %s  ATR: %s  Float: %s  RSI: %s\n",
		enabledStr(cfg.Screener.Filters.RVOL), enabledStr(cfg.Screener.Filters.ATR),
		enabledStr(cfg.Screener.Filters.Float), enabledStr(cfg.Screener.Filters.RSI))
	fmt.Printf("Range: %s  Sentiment: %s  Momentum: %s\n",
		enabledStr(cfg.Screener.Filters.Range), enabledStr(cfg.Screener.Filters.Sentiment),
		enabledStr(cfg.Screener.Filters.Momentum))

	fmt.Println("\n=== Scoring Weights ===")
	fmt.Printf("  • Volume: %.1f  %%Change: %.1f  RVOL: %.1f\n", cfg.Weights.Volume, cfg.Weights.PercentChange, cfg.Weights.RVOL)
	fmt.Printf("  • Float: %.1f  ATR: %.1f  Range: %.1f\n", cfg.Weights.Float, cfg.Weights.ATR, cfg.Weights.Range)
	fmt.Printf("  • Sentiment: %.1f  Spread: %.1f  Price: %.1f\n", cfg.Weights.Sentiment, cfg.Weights.Spread, cfg.Weights.Price)
	fmt.Printf("  • Total: %.1f (must be 10)\n", cfg.Weights.Total())

	fmt.Println("\n=== Trade Planning ===")
	fmt.Printf("  • ATR Multiplier: %.2f\n", cfg.Planner.ATRMultiplier)
	fmt.Printf("  • Risk Per Trade: %.1f%%\n", cfg.Planner.RiskPercentage*100)
	fmt.Printf("  • Max Shares: %d\n", cfg.Planner.MaxSharesPerTrade)
	fmt.Printf("  • Default Investment: $%.2f\n", cfg.Run.InvestmentAmount)

	fmt.Println("\n=== Run Settings ===")
	fmt.Printf("  • Top N: %d\n", cfg.Run.TopN)
	fmt.Printf("  • Tie Break: %s\n", cfg.Run.TieBreak)
	fmt.Printf("  • Workers: %d\n", cfg.Run.Workers)
	fmt.Printf("  • Per-Ticker Timeout: %ds\n", cfg.Run.TickerTimeoutSeconds)
	fmt.Printf("  • Benchmarks: %s\n", strings.Join(cfg.Run.Benchmarks, ", "))

	fmt.Println("\n=== Market Hours ===")
	fmt.Printf("Regular Open: %s\n", cfg.Global.MarketHours.RegularOpen)
	fmt.Printf("Regular Close: %s\n", cfg.Global.MarketHours.RegularClose)
	fmt.Printf("Timezone: %s\n", cfg.Global.MarketHours.Timezone)
}

func configureThresholds(cfg *Config, reader *bufio.Reader) {
	fmt.Println("\n📊 Configure Screening Thresholds:")
	fmt.Println("(Press Enter to keep the current value)")

	promptFloat(reader, "Price min", &cfg.Screener.PriceMin)
	promptFloat(reader, "Price max", &cfg.Screener.PriceMax)
	promptInt64(reader, "Min session volume", &cfg.Screener.VolumeMin)
	promptFloat(reader, "Percent change min", &cfg.Screener.PercentChangeMin)
	promptFloat(reader, "Percent change max", &cfg.Screener.PercentChangeMax)
	promptFloat(reader, "RVOL threshold", &cfg.Screener.RVOLThreshold)
	promptFloat(reader, "ATR min", &cfg.Screener.ATRMin)
	promptFloat(reader, "ATR max", &cfg.Screener.ATRMax)
	promptFloat(reader, "Float min", &cfg.Screener.FloatMin)
	promptFloat(reader, "Float max", &cfg.Screener.FloatMax)
	promptFloat(reader, "RSI min (0-100)", &cfg.Screener.RSIMin)
	promptFloat(reader, "RSI max (0-100)", &cfg.Screener.RSIMax)
	promptFloat(reader, "Range min percent", &cfg.Screener.RangeMinPercent)
	promptFloat(reader, "Min sentiment score", &cfg.Screener.MinSentimentScore)
	promptFloat(reader, "Max spread fraction", &cfg.Screener.MaxSpreadPercent)
	promptInt(reader, "Earnings blackout days", &cfg.Screener.EarningsLookaheadDays)

	fmt.Println("✅ Thresholds updated")
}

func configureWeights(cfg *Config, reader *bufio.Reader) {
	fmt.Println("\n⚖️  Configure Scoring Weights:")
	fmt.Println("(Weights must sum to 10.0)")

	promptFloat(reader, "Volume weight", &cfg.Weights.Volume)
	promptFloat(reader, "Percent change weight", &cfg.Weights.PercentChange)
	promptFloat(reader, "RVOL weight", &cfg.Weights.RVOL)
	promptFloat(reader, "Float weight", &cfg.Weights.Float)
	promptFloat(reader, "ATR weight", &cfg.Weights.ATR)
	promptFloat(reader, "Range weight", &cfg.Weights.Range)
	promptFloat(reader, "Sentiment weight", &cfg.Weights.Sentiment)
	promptFloat(reader, "Spread weight", &cfg.Weights.Spread)
	promptFloat(reader, "Price weight", &cfg.Weights.Price)

	sum := cfg.Weights.Total()
	fmt.Printf("✅ Weights updated (Sum: %.2f)\n", sum)
	if err := cfg.Weights.Validate(); err != nil {
		fmt.Printf("⚠️  Note: %v\n", err)
	}
}

func configureFilters(cfg *Config, reader *bufio.Reader) {
	f := &cfg.Screener.Filters
	toggles := []struct {
		name  string
		value *bool
	}{
		{"Price", &f.Price},
		{"Volume", &f.Volume},
		{"Percent Change", &f.PercentChange},
		{"RVOL", &f.RVOL},
		{"ATR", &f.ATR},
		{"Float", &f.Float},
		{"RSI", &f.RSI},
		{"Range", &f.Range},
		{"Sentiment", &f.Sentiment},
		{"Spread", &f.Spread},
		{"Momentum", &f.Momentum},
	}

	fmt.Println("\n🚀 Toggle Hard Filters:")
	fmt.Println("(Disabled checks still contribute to the score)")
	for i, t := range toggles {
		fmt.Printf("%d. %s: %s\n", i+1, t.name, enabledStr(*t.value))
	}
	fmt.Print("Select filter to toggle (number) or press Enter to skip: ")

	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)
	if choice == "" {
		fmt.Println("No changes made")
		return
	}

	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(toggles) {
		fmt.Println("❌ Invalid selection")
		return
	}

	t := toggles[idx-1]
	*t.value = !*t.value
	fmt.Printf("✅ %s: %s\n", t.name, enabledStr(*t.value))
}

func configurePlanner(cfg *Config, reader *bufio.Reader) {
	fmt.Println("\n💰 Configure Trade Planning:")
	fmt.Println("(Press Enter to keep the current value)")

	promptFloat(reader, "ATR multiplier", &cfg.Planner.ATRMultiplier)
	promptFloat(reader, "Risk per trade (fraction)", &cfg.Planner.RiskPercentage)
	promptInt64(reader, "Max shares per trade", &cfg.Planner.MaxSharesPerTrade)
	promptFloat(reader, "Default investment amount", &cfg.Run.InvestmentAmount)
	promptInt(reader, "Top N candidates", &cfg.Run.TopN)

	fmt.Println("✅ Trade planning updated")
}

func promptFloat(reader *bufio.Reader, label string, target *float64) {
	fmt.Printf("%s [%.2f]: ", label, *target)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}
	if val, err := strconv.ParseFloat(input, 64); err == nil {
		*target = val
	}
}

func promptInt(reader *bufio.Reader, label string, target *int) {
	fmt.Printf("%s [%d]: ", label, *target)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}
	if val, err := strconv.Atoi(input); err == nil {
		*target = val
	}
}

func promptInt64(reader *bufio.Reader, label string, target *int64) {
	fmt.Printf("%s [%d]: ", label, *target)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return
	}
	if val, err := strconv.ParseInt(input, 10, 64); err == nil {
		*target = val
	}
}

func enabledStr(enabled bool) string {
	if enabled {
		return "✅ Enabled"
	}
	return "❌ Disabled"
}
