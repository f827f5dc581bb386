package jobs

import (
	"fmt"
	"log"
	"math"
	"time"
)

// RetryWithBackoff executes fn with exponential backoff between attempts.
func RetryWithBackoff(maxRetries int, initialDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(math.Pow(2, float64(attempt-1))) * initialDelay
			log.Printf("[INFO] retrying after %v (attempt %d/%d)", delay, attempt, maxRetries)
			time.Sleep(delay)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		log.Printf("[ERROR] attempt %d failed: %v", attempt+1, lastErr)
	}

	return fmt.Errorf("failed after %d attempts: %v", maxRetries+1, lastErr)
}
