package ingest

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeWriter scripts bulk failures and per-row collisions.
type fakeWriter struct {
	bulkErr      error
	bulkCalls    int
	rowCalls     int
	collideRanks map[int]bool
}

func (f *fakeWriter) InsertBatch(ctx context.Context, records []Record) error {
	f.bulkCalls++
	return f.bulkErr
}

func (f *fakeWriter) InsertOne(ctx context.Context, rec Record) error {
	f.rowCalls++
	if f.collideRanks[rec.Rank] {
		return errors.New(`duplicate key value violates unique constraint "games_pkey"`)
	}
	return nil
}

func makeRecords(n int) []Record {
	records := make([]Record, n)
	for i := range records {
		records[i] = Record{Rank: i + 1, PlayerID: fmt.Sprintf("p%d", i+1)}
	}
	return records
}

func TestLoadRecordsCleanBatches(t *testing.T) {
	w := &fakeWriter{}
	res, err := LoadRecords(context.Background(), w, makeRecords(250), 100)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Inserted != 250 || res.Skipped != 0 {
		t.Fatalf("got %+v", res)
	}
	if w.bulkCalls != 3 || w.rowCalls != 0 {
		t.Fatalf("bulk=%d row=%d", w.bulkCalls, w.rowCalls)
	}
}

func TestLoadRecordsDuplicateFallback(t *testing.T) {
	w := &fakeWriter{
		bulkErr:      errors.New("ERROR: duplicate key value violates unique constraint"),
		collideRanks: map[int]bool{7: true, 42: true, 99: true},
	}
	res, err := LoadRecords(context.Background(), w, makeRecords(100), 100)
	if err != nil {
		t.Fatalf("fallback must not raise: %v", err)
	}
	if res.Inserted != 97 || res.Skipped != 3 {
		t.Fatalf("got inserted=%d skipped=%d, want 97/3", res.Inserted, res.Skipped)
	}
	if res.Inserted+res.Skipped != 100 {
		t.Fatalf("counts must cover the batch")
	}
}

func TestLoadRecordsFatalErrorPropagates(t *testing.T) {
	w := &fakeWriter{bulkErr: errors.New("connection refused")}
	_, err := LoadRecords(context.Background(), w, makeRecords(10), 100)
	if err == nil {
		t.Fatal("expected fatal bulk error to propagate")
	}
	if w.rowCalls != 0 {
		t.Fatalf("no per-row fallback on non-duplicate errors, got %d calls", w.rowCalls)
	}
}

func TestIsDuplicateErr(t *testing.T) {
	if !isDuplicateErr(errors.New("Duplicate entry")) {
		t.Fatal("case-insensitive match expected")
	}
	if !isDuplicateErr(errors.New("violates PRIMARY KEY constraint")) {
		t.Fatal("primary key phrase expected to match")
	}
	if isDuplicateErr(errors.New("deadlock detected")) {
		t.Fatal("unrelated error must not classify as duplicate")
	}
	if isDuplicateErr(nil) {
		t.Fatal("nil is not a duplicate")
	}
}
