package internal

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	datafeed "github.com/fazecat/stockpilot/Internal/database"
	"github.com/fazecat/stockpilot/Internal/engine"
	"github.com/fazecat/stockpilot/Internal/utils/config"
)

type API struct {
	Screener   *engine.Screener
	Market     *datafeed.Client
	Config     *config.Config
	JWTManager *JWTManager
}

func (api *API) HandleGenerateToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" {
		WriteError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	token, err := api.JWTManager.GenerateToken(req.UserID, req.Email, 24)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		WriteError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"token":      token,
		"expires_in": 24 * 3600,
	})
}

// HandleRunScreener runs one full screening cycle over the requested
// universe. With no symbols in the body it falls back to the configured
// watchlist, then the top-actives list.
func (api *API) HandleRunScreener(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Symbols          []string `json:"symbols"`
		InvestmentAmount float64  `json:"investment_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.InvestmentAmount == 0 {
		req.InvestmentAmount = api.Config.Run.InvestmentAmount
	}
	if req.InvestmentAmount <= 0 {
		WriteError(w, http.StatusBadRequest, "investment_amount must be positive")
		return
	}

	symbols := req.Symbols
	if len(symbols) == 0 {
		symbols = api.Config.Universe.Watchlist
	}
	if len(symbols) == 0 {
		fetched, err := api.Market.TopActives(r.Context(), api.Config.Universe.TopActives)
		if err != nil {
			log.Printf("Error fetching universe: %v", err)
			WriteError(w, http.StatusBadGateway, "Failed to build screening universe")
			return
		}
		symbols = fetched
	}

	result, err := api.Screener.Run(r.Context(), symbols, req.InvestmentAmount)
	if err != nil {
		log.Printf("Screening run failed: %v", err)
		WriteError(w, http.StatusInternalServerError, "Screening run failed")
		return
	}

	rejections := make([]map[string]string, 0, len(result.Rejections))
	records := make([]datafeed.RejectionRecord, 0, len(result.Rejections))
	for _, rej := range result.Rejections {
		rejections = append(rejections, map[string]string{
			"ticker": rej.Symbol,
			"reason": rej.Reason.String(),
		})
		records = append(records, datafeed.RejectionRecord{Ticker: rej.Symbol, Reason: rej.Reason.String()})
	}

	if err := datafeed.LogScreeningRun(context.Background(), req.InvestmentAmount, result.UniverseSize, result.Accepted, result.Plans, records); err != nil {
		log.Printf("Could not journal run: %v", err)
	}

	response := map[string]interface{}{
		"plans":               result.Plans,
		"rejections":          rejections,
		"benchmark_composite": result.BenchmarkComposite,
		"universe_size":       result.UniverseSize,
		"accepted":            result.Accepted,
	}
	WriteJSON(w, http.StatusOK, response)
}

func (api *API) HandleGetCriteria(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"screener": api.Config.Screener,
		"weights":  api.Config.Weights,
		"planner":  api.Config.Planner,
		"run":      api.Config.Run,
	}
	WriteJSON(w, http.StatusOK, response)
}

func (api *API) HandleGetRuns(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		parsedLimit, err := strconv.Atoi(limitStr)
		if err == nil && parsedLimit > 0 {
			limit = parsedLimit
		}
	}

	runs, err := datafeed.RecentRuns(r.Context(), limit)
	if err != nil {
		log.Printf("Error fetching runs: %v", err)
		WriteError(w, http.StatusInternalServerError, "Failed to fetch runs")
		return
	}

	WriteJSON(w, http.StatusOK, runs)
}
