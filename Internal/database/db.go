package datafeed

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

var DB *sql.DB

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func InitDatabase() error {
	config := DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "localhost"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: os.Getenv("DB_PASSWORD"), // Required - no default
		DBName:   getEnvOrDefault("DB_NAME", "stockpilot"),
		SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	if err = DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err = initializeSchema(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// initializeSchema creates the screening journal tables if they don't exist
func initializeSchema() error {
	schemaSQL := `
	CREATE TABLE IF NOT EXISTS screening_runs (
		id SERIAL PRIMARY KEY,
		ran_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		investment_amount NUMERIC NOT NULL,
		universe_size INTEGER NOT NULL,
		accepted INTEGER NOT NULL,
		planned INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS screening_plans (
		id SERIAL PRIMARY KEY,
		run_id INTEGER NOT NULL,
		ticker TEXT NOT NULL,
		score REAL NOT NULL,
		entry_price NUMERIC NOT NULL,
		stop_loss NUMERIC NOT NULL,
		target NUMERIC NOT NULL,
		shares BIGINT NOT NULL,
		total_invested NUMERIC NOT NULL,
		trend_label TEXT,
		FOREIGN KEY(run_id) REFERENCES screening_runs(id)
	);

	CREATE TABLE IF NOT EXISTS screening_rejections (
		id SERIAL PRIMARY KEY,
		run_id INTEGER NOT NULL,
		ticker TEXT NOT NULL,
		reason TEXT NOT NULL,
		FOREIGN KEY(run_id) REFERENCES screening_runs(id)
	);

	CREATE INDEX IF NOT EXISTS idx_screening_plans_run ON screening_plans(run_id);
	CREATE INDEX IF NOT EXISTS idx_screening_rejections_run ON screening_rejections(run_id);
	`

	_, err := DB.Exec(schemaSQL)
	return err
}

func CloseDatabase() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func HealthCheck() error {
	if DB == nil {
		return fmt.Errorf("database connection is nil")
	}
	return DB.Ping()
}
