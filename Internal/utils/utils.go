package utils

import (
	"log"
	"math"
	"time"
)

func Abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func Max(values ...float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

func Min(values ...float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Round2 rounds to 2 decimal places for display output
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func CalculateAvgVolume(volumes []int64, period int) float64 {
	if period <= 0 || len(volumes) == 0 {
		return 0
	}
	if len(volumes) < period {
		period = len(volumes)
	}

	var total int64
	for _, v := range volumes[len(volumes)-period:] {
		total += v
	}
	return float64(total) / float64(period)
}

type RetryConfig struct {
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:   3,
		InitialDelay: 500 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
	}
}

// RetryWithBackoff runs fn until it succeeds or retries are exhausted,
// sleeping with exponential backoff between attempts.
func RetryWithBackoff(fn func() error, cfg RetryConfig) error {
	var err error
	delay := cfg.InitialDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}

		if attempt == cfg.MaxRetries {
			break
		}

		log.Printf("Attempt %d/%d failed: %v (retrying in %v)", attempt+1, cfg.MaxRetries, err, delay)
		time.Sleep(delay)

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return err
}
