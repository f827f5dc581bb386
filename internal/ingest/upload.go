package ingest

import (
	"context"
	"fmt"

	"PokerClubBooks/internal/checksum"
	"PokerClubBooks/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UploadResult is the summary every upload path gets back, whether the file
// came from the HTTP endpoint or the email ingestor.
type UploadResult struct {
	Success       bool   `json:"success"`
	RowsProcessed int    `json:"rows_processed"`
	RowsInserted  int    `json:"rows_inserted"`
	RowsSkipped   int    `json:"rows_skipped"`
	Message       string `json:"message"`
}

// UploadLedger is the dedup-guard surface the orchestrator consumes;
// checksum.Ledger is the pgx-backed implementation.
type UploadLedger interface {
	IsUploaded(ctx context.Context, digest string) bool
	MarkUploaded(ctx context.Context, digest, filename string, rowCount int)
}

// Uploader composes the dedup guard, the normalizer and the batch loader
// into the one upload operation.
type Uploader struct {
	ledger    UploadLedger
	writer    GameWriter
	batchSize int
}

func NewUploader(db *pgxpool.Pool) *Uploader {
	return &Uploader{
		ledger:    checksum.NewLedger(db),
		writer:    NewPGGameWriter(db),
		batchSize: config.GameInsertBatchSize,
	}
}

// NewUploaderWith wires explicit collaborators; used by tests.
func NewUploaderWith(ledger UploadLedger, writer GameWriter, batchSize int) *Uploader {
	return &Uploader{ledger: ledger, writer: writer, batchSize: batchSize}
}

// UploadFile ingests one file. A re-upload of byte-identical content is a
// success=false no-op, not an error; validation failures return a typed
// ValidationError the caller maps to a 4xx response.
func (u *Uploader) UploadFile(ctx context.Context, data []byte, filename string) (UploadResult, error) {
	digest := checksum.FileDigest(data)

	if u.ledger.IsUploaded(ctx, digest) {
		return UploadResult{
			Success: false,
			Message: fmt.Sprintf("CSV '%s' has already been uploaded", filename),
		}, nil
	}

	table, err := ParseTabular(filename, data)
	if err != nil {
		return UploadResult{}, err
	}

	records, err := Normalize(table)
	if err != nil {
		return UploadResult{}, err
	}

	loaded, err := LoadRecords(ctx, u.writer, records, u.batchSize)
	if err != nil {
		return UploadResult{}, err
	}

	u.ledger.MarkUploaded(ctx, digest, filename, len(records))

	return UploadResult{
		Success:       true,
		RowsProcessed: len(records),
		RowsInserted:  loaded.Inserted,
		RowsSkipped:   loaded.Skipped,
		Message:       fmt.Sprintf("Successfully uploaded %d rows from '%s'", loaded.Inserted, filename),
	}, nil
}
