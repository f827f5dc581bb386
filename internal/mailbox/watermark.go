package mailbox

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"PokerClubBooks/internal/config"
)

// Watermark persists the last clean scan time so each run only searches
// mail received since the previous one. Reads and writes are best effort:
// a broken state row widens the next search instead of failing the scan.
type Watermark struct {
	db *pgxpool.Pool
}

func NewWatermark(db *pgxpool.Pool) *Watermark {
	return &Watermark{db: db}
}

// LastRun returns the previous clean run time, or nil when the state row is
// missing or unreadable (the scan then searches the whole mailbox).
func (w *Watermark) LastRun(ctx context.Context) *time.Time {
	var t *time.Time
	query := `SELECT last_run_time FROM ` + config.EmailStateTable + ` WHERE id = 1`
	if err := w.db.QueryRow(ctx, query).Scan(&t); err != nil {
		log.Printf("[INFO] mailbox: no usable watermark, scanning full mailbox: %v", err)
		return nil
	}
	return t
}

// Advance moves the watermark forward after a clean run.
func (w *Watermark) Advance(ctx context.Context, t time.Time) {
	query := `INSERT INTO ` + config.EmailStateTable + ` (id, last_run_time, created_at, updated_at)
		VALUES (1, $1, $1, $1)
		ON CONFLICT (id) DO UPDATE SET last_run_time = EXCLUDED.last_run_time, updated_at = EXCLUDED.updated_at`
	if _, err := w.db.Exec(ctx, query, t); err != nil {
		log.Printf("[ERROR] mailbox: advance watermark: %v", err)
	}
}
