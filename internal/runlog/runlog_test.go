package runlog

import (
	"testing"

	"PokerClubBooks/internal/mailbox"
)

func TestRecentNewestFirst(t *testing.T) {
	var l Log
	l.Record(mailbox.RunSummary{EmailsProcessed: 1})
	l.Record(mailbox.RunSummary{EmailsProcessed: 2})
	l.Record(mailbox.RunSummary{EmailsProcessed: 3})

	got := l.Recent(2)
	if len(got) != 2 || got[0].EmailsProcessed != 3 || got[1].EmailsProcessed != 2 {
		t.Fatalf("got %+v", got)
	}
	if all := l.Recent(0); len(all) != 3 {
		t.Fatalf("zero limit should return everything, got %d", len(all))
	}
}

func TestRetentionWindow(t *testing.T) {
	var l Log
	for i := 0; i < keepRuns+10; i++ {
		l.Record(mailbox.RunSummary{EmailsProcessed: i})
	}
	got := l.Recent(0)
	if len(got) != keepRuns {
		t.Fatalf("expected %d retained runs, got %d", keepRuns, len(got))
	}
	if got[0].EmailsProcessed != keepRuns+9 {
		t.Fatalf("newest run should survive the trim, got %d", got[0].EmailsProcessed)
	}
}
