package reportcalc

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"PokerClubBooks/internal/dealpercent"

	"github.com/shopspring/decimal"
)

func d(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func TestAggregatePlayers(t *testing.T) {
	rows := []GameRow{
		{PlayerID: "1001", PlayerName: "Alice", Profit: 100, Tips: 10},
		{PlayerID: "1002", PlayerName: "Bob", Profit: -40, Tips: 5},
		{PlayerID: "1001", PlayerName: "Alice", Profit: -20, Tips: 7.5},
	}
	totals := AggregatePlayers(rows)
	if len(totals) != 2 {
		t.Fatalf("expected 2 players, got %d", len(totals))
	}
	alice := totals[0]
	if alice.PlayerID != "1001" || alice.GameCount != 2 {
		t.Fatalf("unexpected first total: %+v", alice)
	}
	if !alice.TotalProfit.Equal(d(80)) || !alice.TotalTips.Equal(d(17.5)) {
		t.Fatalf("alice sums wrong: %+v", alice)
	}
}

func TestApplyAgentSplits(t *testing.T) {
	totals := []PlayerTotals{
		{PlayerID: "1001", PlayerName: "Alice", TotalProfit: d(80), TotalTips: d(200), GameCount: 2},
		{PlayerID: "1002", PlayerName: "Bob", TotalProfit: d(-40), TotalTips: d(50), GameCount: 1},
	}
	cache := dealpercent.NewCache(nil, map[int64]decimal.Decimal{5: d(0.5)})
	split := ApplyAgentSplits(totals,
		map[string]int64{"1001": 5},
		map[string]int64{"1001": 1001},
		cache,
	)

	alice := split[0]
	if alice.AgentID == nil || *alice.AgentID != 5 {
		t.Fatalf("alice should map to agent 5: %+v", alice)
	}
	if !alice.AgentTips.Equal(d(100)) || !alice.TakehomeTips.Equal(d(100)) {
		t.Fatalf("split wrong: agent=%s takehome=%s", alice.AgentTips, alice.TakehomeTips)
	}
	if !alice.DealRateDisplay.Equal(d(50)) {
		t.Fatalf("display rate is 0-100 scaled: %s", alice.DealRateDisplay)
	}

	bob := split[1]
	if bob.AgentID != nil || !bob.AgentTips.IsZero() || !bob.TakehomeTips.Equal(d(50)) {
		t.Fatalf("agentless player keeps all tips: %+v", bob)
	}
}

func TestSummarizeAgents(t *testing.T) {
	five := int64(5)
	totals := []PlayerTotals{
		{PlayerID: "1001", AgentID: &five, TotalProfit: d(80), TotalTips: d(200), AgentTips: d(100), GameCount: 2},
		{PlayerID: "1003", AgentID: &five, TotalProfit: d(20), TotalTips: d(40), AgentTips: d(20), GameCount: 1},
		{PlayerID: "1002", TotalProfit: d(-40), TotalTips: d(50), GameCount: 1},
	}
	summaries := SummarizeAgents(totals, map[int64]string{5: "Tex"})
	if len(summaries) != 1 {
		t.Fatalf("agentless players must not appear, got %d summaries", len(summaries))
	}
	s := summaries[0]
	if s.AgentName != "Tex" || s.PlayerCount != 2 || s.GameCount != 3 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if !s.AgentTips.Equal(d(120)) || !s.TotalTips.Equal(d(240)) {
		t.Fatalf("rollup sums wrong: %+v", s)
	}
}

func TestCreditBreached(t *testing.T) {
	// Line is limit + weekly adjustment; breach only below its negative.
	if CreditBreached(d(-999), d(1000), d(0)) {
		t.Fatal("-999 against a 1000 line is not a breach")
	}
	if !CreditBreached(d(-1001), d(1000), d(0)) {
		t.Fatal("-1001 against a 1000 line is a breach")
	}
	if CreditBreached(d(-1100), d(1000), d(200)) {
		t.Fatal("weekly adjustment extends the line")
	}
	if !CreditBreached(d(-900), d(1000), d(-200)) {
		t.Fatal("negative adjustment tightens the line")
	}
}

func TestFormatAgentReportTable(t *testing.T) {
	five := int64(5)
	rows := make([]PlayerTotals, 0, 23)
	for i := 0; i < 23; i++ {
		rows = append(rows, PlayerTotals{
			PlayerID:        fmt.Sprintf("10%02d", i),
			PlayerName:      "Player",
			AgentID:         &five,
			TotalProfit:     d(10),
			TotalTips:       d(20),
			AgentTips:       d(10),
			DealRateDisplay: d(50),
		})
	}
	msg := FormatAgentReport("Tex", "Current Week", rows)

	if !strings.Contains(msg, "<b>Tex - Current Week Report</b>") {
		t.Fatalf("missing header: %q", msg)
	}
	if !strings.Contains(msg, "Total Tips: $460.00") {
		t.Fatalf("totals must cover all rows, not just shown ones: %q", msg)
	}
	if !strings.Contains(msg, "... and 3 more players") {
		t.Fatalf("missing overflow note: %q", msg)
	}
	if got := strings.Count(msg, "\n10"); got != chatReportMaxRows {
		t.Fatalf("table must truncate to %d rows, found %d", chatReportMaxRows, got)
	}
	if !strings.Contains(msg, "<pre>") || !strings.Contains(msg, "TOTAL") {
		t.Fatal("expected monospace table with totals row")
	}
}

func TestFormatAgentReportEmpty(t *testing.T) {
	msg := FormatAgentReport("Tex", "Current Week", nil)
	if msg != "No data available for Current Week." {
		t.Fatalf("got %q", msg)
	}
}

func TestClipKeepsUTF8Intact(t *testing.T) {
	long := strings.Repeat("é", 20)
	got := clip(long, 12)
	if !utf8.ValidString(got) {
		t.Fatalf("clip produced invalid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 12 {
		t.Fatalf("rune count = %d, want 12", n)
	}
	if !strings.HasSuffix(got, "…") {
		t.Fatalf("truncated name should end with ellipsis: %q", got)
	}
	if short := "José"; clip(short, 12) != short {
		t.Fatalf("short names pass through unchanged, got %q", clip(short, 12))
	}
}
