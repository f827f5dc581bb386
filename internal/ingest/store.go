package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var gameColumns = []string{
	"rank", "game_code", "club_code", "player_id", "player_name",
	"date_started", "date_ended", "game_type", "big_blind",
	"profit", "tips", "buy_in", "total_tips", "hands",
}

// PGGameWriter writes normalized game records into the games table.
type PGGameWriter struct {
	db *pgxpool.Pool
}

func NewPGGameWriter(db *pgxpool.Pool) *PGGameWriter {
	return &PGGameWriter{db: db}
}

func (w *PGGameWriter) InsertBatch(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	placeholders := make([]string, 0, len(records))
	args := make([]interface{}, 0, len(records)*len(gameColumns))
	for i, rec := range records {
		base := i * len(gameColumns)
		marks := make([]string, len(gameColumns))
		for j := range gameColumns {
			marks[j] = fmt.Sprintf("$%d", base+j+1)
		}
		placeholders = append(placeholders, "("+strings.Join(marks, ",")+")")
		args = append(args, recordArgs(rec)...)
	}
	sql := fmt.Sprintf(
		"INSERT INTO games (%s) VALUES %s",
		strings.Join(gameColumns, ", "),
		strings.Join(placeholders, ", "),
	)
	_, err := w.db.Exec(ctx, sql, args...)
	return err
}

func (w *PGGameWriter) InsertOne(ctx context.Context, rec Record) error {
	marks := make([]string, len(gameColumns))
	for j := range gameColumns {
		marks[j] = fmt.Sprintf("$%d", j+1)
	}
	sql := fmt.Sprintf(
		"INSERT INTO games (%s) VALUES (%s)",
		strings.Join(gameColumns, ", "),
		strings.Join(marks, ","),
	)
	_, err := w.db.Exec(ctx, sql, recordArgs(rec)...)
	return err
}

func recordArgs(rec Record) []interface{} {
	return []interface{}{
		rec.Rank, rec.GameCode, rec.ClubCode, rec.PlayerID, rec.PlayerName,
		nullIfEmpty(rec.DateStarted), nullIfEmpty(rec.DateEnded), rec.GameType, rec.BigBlind,
		rec.Profit, rec.Tips, rec.BuyIn, rec.TotalTips, rec.Hands,
	}
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
