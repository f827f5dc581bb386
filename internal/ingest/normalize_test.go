package ingest

import (
	"strings"
	"testing"
)

func tableFromCSV(t *testing.T, raw string) [][]string {
	t.Helper()
	table, err := ParseTabular("test.csv", []byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return table
}

const validCSV = `Rank,Player,ID,Profit,Tips,BuyIn,ClubCode,GameCode,DateStarted,DateEnded,GameType,BigBlind,TotalTips,Hands
1,Alice,1001,250.50,12.00,100,CLB1,G42,2025-01-10 19:00:00,2025-01-11 01:30:00,NLH,2.0,60.00,140
2,Bob,1002,-80.25,8.50,100,,,,,,,,95
3,Carol,1003,0,3.25,100,,,,,,,,87
4,Dave,1004,-170.25,20.00,200,,,,,,,,120
5,Eve,1005,44.00,16.25,100,,,,,,,,60
`

func TestNormalizeSessionFieldPropagation(t *testing.T) {
	records, err := Normalize(tableFromCSV(t, validCSV))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("expected 5 records, got %d", len(records))
	}
	for i, rec := range records {
		if rec.ClubCode != "CLB1" {
			t.Fatalf("row %d: club_code = %q, want CLB1", i, rec.ClubCode)
		}
		if rec.GameCode != "G42" {
			t.Fatalf("row %d: game_code = %q, want G42", i, rec.GameCode)
		}
		if rec.BigBlind != 2.0 || rec.TotalTips != 60.0 {
			t.Fatalf("row %d: session numerics not propagated: %+v", i, rec)
		}
		if rec.DateStarted != "2025-01-10T19:00:00" {
			t.Fatalf("row %d: date_started = %q", i, rec.DateStarted)
		}
	}
	if records[1].PlayerName != "Bob" || records[1].Profit != -80.25 {
		t.Fatalf("row-level fields mangled: %+v", records[1])
	}
	if records[0].Hands != 140 {
		t.Fatalf("hands = %d, want 140", records[0].Hands)
	}
}

func TestNormalizeSessionValueOverwritesPerRow(t *testing.T) {
	// Later rows carry their own ClubCode; the first-row value still wins.
	raw := strings.ReplaceAll(validCSV, "2,Bob,1002,-80.25,8.50,100,,", "2,Bob,1002,-80.25,8.50,100,OTHER,")
	records, err := Normalize(tableFromCSV(t, raw))
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if records[1].ClubCode != "CLB1" {
		t.Fatalf("per-row club_code not overwritten: %q", records[1].ClubCode)
	}
}

func TestNormalizeEmptyFile(t *testing.T) {
	_, err := Normalize([][]string{{"Rank", "Player"}})
	if _, ok := err.(EmptyFileError); !ok {
		t.Fatalf("expected EmptyFileError, got %v", err)
	}
}

func TestNormalizeMissingSessionColumn(t *testing.T) {
	raw := `Rank,Player,ID,Profit,Tips,BuyIn,GameCode,DateStarted,DateEnded,GameType,BigBlind,TotalTips
1,Alice,1001,1,1,1,G1,2025-01-01,2025-01-02,NLH,2,10
`
	_, err := Normalize(tableFromCSV(t, raw))
	e, ok := err.(MissingSessionFieldError)
	if !ok {
		t.Fatalf("expected MissingSessionFieldError, got %v", err)
	}
	if e.Column != "ClubCode" {
		t.Fatalf("wrong column named: %q", e.Column)
	}
}

func TestNormalizeEmptySessionValueInFirstRow(t *testing.T) {
	raw := `Rank,Player,ID,Profit,Tips,BuyIn,ClubCode,GameCode,DateStarted,DateEnded,GameType,BigBlind,TotalTips
1,Alice,1001,1,1,1,,G1,2025-01-01,2025-01-02,NLH,2,10
`
	_, err := Normalize(tableFromCSV(t, raw))
	e, ok := err.(MissingSessionFieldError)
	if !ok || e.Column != "ClubCode" || !e.InHeader {
		t.Fatalf("expected first-row-empty error for ClubCode, got %v", err)
	}
}

func TestNormalizeMissingRequiredColumn(t *testing.T) {
	raw := `Rank,Player,ID,Tips,BuyIn,ClubCode,GameCode,DateStarted,DateEnded,GameType,BigBlind,TotalTips
1,Alice,1001,1,1,C,G1,2025-01-01,2025-01-02,NLH,2,10
`
	_, err := Normalize(tableFromCSV(t, raw))
	e, ok := err.(MissingColumnError)
	if !ok {
		t.Fatalf("expected MissingColumnError, got %v", err)
	}
	if len(e.Columns) != 1 || e.Columns[0] != "Profit" {
		t.Fatalf("wrong columns reported: %v", e.Columns)
	}
}

func TestNormalizeInvalidNumericRejectsWholeFile(t *testing.T) {
	// Row 2 of 5 has a non-numeric Tips value.
	raw := strings.Replace(validCSV, "2,Bob,1002,-80.25,8.50,", "2,Bob,1002,-80.25,abc,", 1)
	_, err := Normalize(tableFromCSV(t, raw))
	if _, ok := err.(InvalidNumericDataError); !ok {
		t.Fatalf("expected InvalidNumericDataError, got %v", err)
	}
}

func TestNormalizeErrorsAreValidationErrors(t *testing.T) {
	for _, err := range []error{
		EmptyFileError{},
		MissingSessionFieldError{Column: "ClubCode"},
		MissingColumnError{Columns: []string{"Profit"}},
		InvalidNumericDataError{},
	} {
		if !IsValidationError(err) {
			t.Fatalf("%T should be a validation error", err)
		}
	}
}

func TestCoerceTimestampFormats(t *testing.T) {
	cases := map[string]string{
		"2025-01-10 19:00:00":  "2025-01-10T19:00:00",
		"2025-01-10T19:00:00":  "2025-01-10T19:00:00",
		"01/10/2025 19:00":     "2025-01-10T19:00:00",
		"2025-01-10":           "2025-01-10T00:00:00",
		"not a date":           "",
	}
	for in, want := range cases {
		if got := coerceTimestamp(in); got != want {
			t.Fatalf("coerceTimestamp(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCoerceFloatThousandSeparators(t *testing.T) {
	f, ok := coerceFloat("1,250.75")
	if !ok || f != 1250.75 {
		t.Fatalf("got %v %v", f, ok)
	}
}

func TestPrevalidateColumns(t *testing.T) {
	ok := [][]string{
		{"Rank", "Player", "ID", "Profit", "Tips", "BuyIn"},
		{"1", "Alice", "1001", "250", "20", "100"},
	}
	if !PrevalidateColumns(ok) {
		t.Fatal("minimal required header should pass")
	}
	if PrevalidateColumns(ok[:1]) {
		t.Fatal("header with no data rows should fail")
	}
	missingID := [][]string{
		{"Rank", "Player", "Profit", "Tips", "BuyIn"},
		{"1", "Alice", "250", "20", "100"},
	}
	if PrevalidateColumns(missingID) {
		t.Fatal("missing required column should fail")
	}
	unknown := [][]string{
		{"Foo", "Bar"},
		{"1", "2"},
	}
	if PrevalidateColumns(unknown) {
		t.Fatal("unknown header should fail")
	}
}
