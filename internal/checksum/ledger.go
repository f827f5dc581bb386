package checksum

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DedupPolicy names the deliberate availability-over-strictness choices the
// upload ledger makes, so tests can assert the policy rather than the accident.
type DedupPolicy string

const (
	// DedupFailOpen: a storage error during the existence check is treated as
	// "not uploaded". A transient error may let a duplicate through; that is
	// preferred over rejecting a fresh file.
	DedupFailOpen DedupPolicy = "FAIL_OPEN"

	// LedgerBestEffort: marking a file as uploaded never fails the upload
	// that already succeeded.
	LedgerBestEffort DedupPolicy = "BEST_EFFORT"
)

// FileDigest returns the content identity of an uploaded file: sha256 over
// the raw bytes, hex encoded.
func FileDigest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Ledger is the uploaded-file registry backing idempotent re-upload detection.
type Ledger struct {
	db *pgxpool.Pool
}

func NewLedger(db *pgxpool.Pool) *Ledger {
	return &Ledger{db: db}
}

// IsUploaded reports whether a file with this digest was processed before.
// Applies DedupFailOpen on storage errors.
func (l *Ledger) IsUploaded(ctx context.Context, digest string) bool {
	var exists bool
	err := l.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM uploaded_csvs WHERE csv_hash = $1)`, digest,
	).Scan(&exists)
	if err != nil {
		log.Printf("[ERROR] upload ledger check failed (%s policy, treating as new): %v", DedupFailOpen, err)
		return false
	}
	return exists
}

// MarkUploaded records the file in the ledger. Applies LedgerBestEffort:
// a failed write is logged and swallowed.
func (l *Ledger) MarkUploaded(ctx context.Context, digest, filename string, rowCount int) {
	_, err := l.db.Exec(ctx,
		`INSERT INTO uploaded_csvs (csv_hash, filename, row_count, uploaded_at) VALUES ($1, $2, $3, $4)`,
		digest, filename, rowCount, time.Now(),
	)
	if err != nil {
		log.Printf("[ERROR] upload ledger write failed (%s policy, ignored): %v", LedgerBestEffort, err)
	}
}
