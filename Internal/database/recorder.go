package datafeed

import (
	"context"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/fazecat/stockpilot/Internal/types"
)

// RejectionRecord is one skipped ticker and the filter that rejected it.
type RejectionRecord struct {
	Ticker string
	Reason string
}

// LogScreeningRun journals a finished run for later review. The engine
// stays read-only over market data; this is diagnostics only, and a nil
// DB (no configured database) makes it a no-op.
func LogScreeningRun(ctx context.Context, investmentAmount float64, universeSize, accepted int, plans []types.TradePlan, rejections []RejectionRecord) error {
	if DB == nil {
		return nil
	}

	tx, err := DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin run transaction: %w", err)
	}
	defer tx.Rollback()

	var runID int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO screening_runs (investment_amount, universe_size, accepted, planned)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		decimal.NewFromFloat(investmentAmount).String(), universeSize, accepted, len(plans),
	).Scan(&runID)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for _, p := range plans {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO screening_plans (run_id, ticker, score, entry_price, stop_loss, target, shares, total_invested, trend_label)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			runID, p.Ticker, p.Score,
			decimal.NewFromFloat(p.EntryPrice).String(),
			decimal.NewFromFloat(p.StopLoss).String(),
			decimal.NewFromFloat(p.Target).String(),
			p.Shares,
			decimal.NewFromFloat(p.TotalInvested).String(),
			string(p.Trend),
		)
		if err != nil {
			return fmt.Errorf("failed to insert plan for %s: %w", p.Ticker, err)
		}
	}

	for _, r := range rejections {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO screening_rejections (run_id, ticker, reason) VALUES ($1, $2, $3)`,
			runID, r.Ticker, r.Reason,
		)
		if err != nil {
			return fmt.Errorf("failed to insert rejection for %s: %w", r.Ticker, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	log.Printf("Screening run %d journaled: %d plans, %d rejections", runID, len(plans), len(rejections))
	return nil
}

// RecentRuns returns summaries of the latest journaled runs.
func RecentRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	rows, err := DB.QueryContext(ctx,
		`SELECT id, ran_at, investment_amount, universe_size, planned
		 FROM screening_runs ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.RanAt, &r.InvestmentAmount, &r.UniverseSize, &r.Planned); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type RunSummary struct {
	ID               int64
	RanAt            string
	InvestmentAmount string
	UniverseSize     int
	Planned          int
}
