package runlog

import (
	"sync"

	"PokerClubBooks/internal/mailbox"
)

const keepRuns = 50

// Log keeps the most recent mailbox scan summaries in memory so operators
// can see what the ingestor has been doing without trawling log files.
type Log struct {
	mu   sync.Mutex
	runs []mailbox.RunSummary
}

var global = &Log{}

// Global returns the process-wide run log shared by the cron scheduler and
// the reports service.
func Global() *Log {
	return global
}

// Record appends one scan summary, trimming to the retention window.
func (l *Log) Record(s mailbox.RunSummary) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.runs = append(l.runs, s)
	if len(l.runs) > keepRuns {
		l.runs = l.runs[len(l.runs)-keepRuns:]
	}
}

// Recent returns up to n summaries, newest first.
func (l *Log) Recent(n int) []mailbox.RunSummary {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.runs) {
		n = len(l.runs)
	}
	out := make([]mailbox.RunSummary, n)
	for i := 0; i < n; i++ {
		out[i] = l.runs[len(l.runs)-1-i]
	}
	return out
}
