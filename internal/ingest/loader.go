package ingest

import (
	"context"
	"strings"
)

// GameWriter is the store surface the loader needs. The pgx-backed
// implementation lives in store.go; tests substitute their own.
type GameWriter interface {
	InsertBatch(ctx context.Context, records []Record) error
	InsertOne(ctx context.Context, record Record) error
}

type LoadResult struct {
	Inserted int
	Skipped  int
}

// Phrases that identify a uniqueness conflict in a bulk-insert failure.
var duplicatePhrases = []string{"duplicate", "unique", "primary key"}

func isDuplicateErr(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range duplicatePhrases {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// LoadRecords inserts records in fixed-size batches. A batch that fails on a
// uniqueness conflict is retried row by row; rows that still fail are counted
// as skipped. Any other bulk failure aborts the load.
func LoadRecords(ctx context.Context, w GameWriter, records []Record, batchSize int) (LoadResult, error) {
	var result LoadResult
	if batchSize <= 0 {
		batchSize = 100
	}

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}
		batch := records[start:end]

		err := w.InsertBatch(ctx, batch)
		if err == nil {
			result.Inserted += len(batch)
			continue
		}
		if !isDuplicateErr(err) {
			return result, err
		}
		for _, rec := range batch {
			if err := w.InsertOne(ctx, rec); err != nil {
				result.Skipped++
			} else {
				result.Inserted++
			}
		}
	}
	return result, nil
}
