package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	datafeed "github.com/fazecat/stockpilot/Internal/database"
	"github.com/fazecat/stockpilot/Internal/engine"
	"github.com/fazecat/stockpilot/Internal/news"
	"github.com/fazecat/stockpilot/Internal/utils/config"
	"github.com/fazecat/stockpilot/cmd/api/internal"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../../.env")

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

	var sentiment engine.SentimentProvider
	if os.Getenv("NEWS_API_KEY") != "" {
		sentiment = news.NewProvider(news.NewHeadlineClient(10 * time.Second))
	} else {
		log.Println("NEWS_API_KEY not set, sentiment stays neutral")
	}

	screener := engine.New(market, sentiment, market, engineCfg)

	jwtManager := internal.NewJWTManager()

	apiServer := &internal.API{
		Screener:   screener,
		Market:     market,
		Config:     cfg,
		JWTManager: jwtManager,
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(internal.CorsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    "healthy",
		})
	})

	// Public routes
	r.Post("/api/token", apiServer.HandleGenerateToken)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(internal.JWTAuthMiddleware(jwtManager))
		r.Post("/api/v1/screener/run", apiServer.HandleRunScreener)
		r.Get("/api/v1/criteria", apiServer.HandleGetCriteria)
		r.Get("/api/v1/runs", apiServer.HandleGetRuns)
	})

	log.Println("Starting API server on :8080")
	if err := http.ListenAndServe(":8080", r); err != nil {
		log.Fatal(err)
	}
}
