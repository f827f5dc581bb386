package ingest

import (
	"strconv"
	"strings"
	"time"

	"PokerClubBooks/api/constants"
)

// Record is one player's result in one game session, normalized to the
// canonical games-table shape.
type Record struct {
	Rank        int     `json:"rank"`
	GameCode    string  `json:"game_code"`
	ClubCode    string  `json:"club_code"`
	PlayerID    string  `json:"player_id"`
	PlayerName  string  `json:"player_name"`
	DateStarted string  `json:"date_started"`
	DateEnded   string  `json:"date_ended"`
	GameType    string  `json:"game_type"`
	BigBlind    float64 `json:"big_blind"`
	Profit      float64 `json:"profit"`
	Tips        float64 `json:"tips"`
	BuyIn       float64 `json:"buy_in"`
	TotalTips   float64 `json:"total_tips"`
	Hands       int     `json:"hands"`
}

// Session-level columns carry one value for the whole file; only the first
// row is trusted for them and every row is overwritten with that value.
var sessionColumns = []string{"ClubCode", "GameCode", "DateStarted", "DateEnded", "GameType", "BigBlind", "TotalTips"}

// Row-level columns that must be present in the header.
var requiredColumns = []string{"Rank", "Player", "ID", "Profit", "Tips", "BuyIn"}

// Source column names mapped to canonical field names, exact match.
var gameDataMap = map[string]string{
	"Rank":        "rank",
	"Player":      "player_name",
	"ID":          "player_id",
	"DateStarted": "date_started",
	"DateEnded":   "date_ended",
	"GameType":    "game_type",
	"BigBlind":    "big_blind",
	"Profit":      "profit",
	"Tips":        "tips",
	"BuyIn":       "buy_in",
	"TotalTips":   "total_tips",
	"GameCode":    "game_code",
	"ClubCode":    "club_code",
	"Hands":       "hands",
}

var dateLayouts = []string{
	constants.DateFormatISO,
	constants.DateTimeFormat,
	time.RFC3339,
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"2006/01/02 15:04:05",
	constants.DateFormat,
	"01/02/2006",
}

// Normalize turns a parsed table (header row first) into canonical game
// records, or fails with a descriptive validation error. The whole file is
// accepted or rejected; no per-row salvage happens here.
func Normalize(table [][]string) ([]Record, error) {
	if len(table) < 2 {
		return nil, EmptyFileError{}
	}
	header := table[0]
	rows := table[1:]

	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}

	// Session-level values come from the first data row only.
	sessionValues := make(map[string]string, len(sessionColumns))
	for _, col := range sessionColumns {
		idx, ok := colIdx[col]
		if !ok {
			return nil, MissingSessionFieldError{Column: col}
		}
		v := cellAt(rows[0], idx)
		if v == "" {
			return nil, MissingSessionFieldError{Column: col, InHeader: true}
		}
		sessionValues[col] = v
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, MissingColumnError{Columns: missing}
	}

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		cell := func(col string) string {
			if v, ok := sessionValues[col]; ok {
				return v
			}
			idx, ok := colIdx[col]
			if !ok {
				return ""
			}
			return cellAt(row, idx)
		}

		rank, rankOK := coerceInt(cell("Rank"))
		profit, profitOK := coerceFloat(cell("Profit"))
		tips, tipsOK := coerceFloat(cell("Tips"))
		buyIn, buyInOK := coerceFloat(cell("BuyIn"))
		bigBlind, bigBlindOK := coerceFloat(cell("BigBlind"))
		totalTips, totalTipsOK := coerceFloat(cell("TotalTips"))
		if !rankOK || !profitOK || !tipsOK || !buyInOK || !bigBlindOK || !totalTipsOK {
			return nil, InvalidNumericDataError{}
		}
		hands, _ := coerceInt(cell("Hands"))

		records = append(records, Record{
			Rank:        rank,
			GameCode:    cell("GameCode"),
			ClubCode:    cell("ClubCode"),
			PlayerID:    cell("ID"),
			PlayerName:  cell("Player"),
			DateStarted: coerceTimestamp(cell("DateStarted")),
			DateEnded:   coerceTimestamp(cell("DateEnded")),
			GameType:    cell("GameType"),
			BigBlind:    bigBlind,
			Profit:      profit,
			Tips:        tips,
			BuyIn:       buyIn,
			TotalTips:   totalTips,
			Hands:       hands,
		})
	}
	return records, nil
}

// PrevalidateColumns is the cheap pre-upload check the email collector runs
// before handing an attachment to the uploader: the header must carry every
// row-level column and at least as many known columns overall.
func PrevalidateColumns(table [][]string) bool {
	if len(table) < 2 {
		return false
	}
	cols := make(map[string]bool, len(table[0]))
	for _, h := range table[0] {
		cols[strings.TrimSpace(h)] = true
	}
	for _, col := range requiredColumns {
		if !cols[col] {
			return false
		}
	}
	known := 0
	for col := range cols {
		if _, ok := gameDataMap[col]; ok {
			known++
		}
	}
	return known >= len(requiredColumns)
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func coerceFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	clean := strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func coerceInt(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	// Excel renders integers as "3.0" at times.
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
		return int(f), true
	}
	return 0, false
}

// coerceTimestamp infers the source format and re-renders to the canonical
// local ISO-8601 string. Unparseable values become empty and are stored NULL.
func coerceTimestamp(s string) string {
	if s == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(constants.DateFormatISO)
		}
	}
	return ""
}
