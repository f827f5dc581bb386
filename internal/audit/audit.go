package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"PokerClubBooks/api/constants"
	"PokerClubBooks/internal/logger"
)

// Entry is one row of the operation history.
type Entry struct {
	ID        string          `json:"id"`
	UserEmail string          `json:"user_email"`
	Operation string          `json:"operation"`
	TableName string          `json:"table_name"`
	RecordID  string          `json:"record_id"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Recorder writes operation history rows. All writes are best effort: a
// failed audit insert must never fail the operation it describes.
type Recorder struct {
	db *pgxpool.Pool
}

func NewRecorder(db *pgxpool.Pool) *Recorder {
	return &Recorder{db: db}
}

// LogOperation records who did what to which row. details may be nil.
func (r *Recorder) LogOperation(ctx context.Context, userEmail, operation, tableName, recordID string, details any) {
	var payload []byte
	if details != nil {
		var err error
		payload, err = json.Marshal(details)
		if err != nil {
			log.Printf("[ERROR] audit: marshal details for %s on %s: %v", operation, tableName, err)
			payload = nil
		}
	}

	query := `INSERT INTO ` + constants.TableAuditLogs + ` (id, user_email, operation, table_name, record_id, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`
	if _, err := r.db.Exec(ctx, query, uuid.New().String(), userEmail, operation, tableName, recordID, payload); err != nil {
		log.Printf("[ERROR] audit: insert %s on %s/%s: %v", operation, tableName, recordID, err)
		return
	}
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit(fmt.Sprintf("%s %s %s/%s", userEmail, operation, tableName, recordID))
	}
}

// HistoryFilter narrows a history query. Zero values mean no filter.
type HistoryFilter struct {
	TableName string
	Operation string
	UserEmail string
	Start     *time.Time
	End       *time.Time
	Limit     int
}

// History returns the most recent operations, newest first.
func (r *Recorder) History(ctx context.Context, f HistoryFilter) ([]Entry, error) {
	query := `SELECT id, user_email, operation, table_name, record_id, details, created_at
		FROM ` + constants.TableAuditLogs + ` WHERE 1=1`
	args := []any{}
	n := 0
	add := func(clause, val string) {
		if val == "" {
			return
		}
		n++
		query += " AND " + clause + "$" + strconv.Itoa(n)
		args = append(args, val)
	}
	add("table_name = ", f.TableName)
	add("operation = ", f.Operation)
	add("user_email = ", f.UserEmail)
	if f.Start != nil {
		n++
		query += " AND created_at >= $" + strconv.Itoa(n)
		args = append(args, *f.Start)
	}
	if f.End != nil {
		n++
		query += " AND created_at <= $" + strconv.Itoa(n)
		args = append(args, *f.End)
	}

	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	n++
	query += " ORDER BY created_at DESC LIMIT $" + strconv.Itoa(n)
	args = append(args, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var details []byte
		if err := rows.Scan(&e.ID, &e.UserEmail, &e.Operation, &e.TableName, &e.RecordID, &details, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Details = details
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
