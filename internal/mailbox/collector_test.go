package mailbox

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-imap"

	"PokerClubBooks/internal/ingest"
)

const rawMessage = "From: reports@example.com\r\n" +
	"To: books@example.com\r\n" +
	"Subject: Nightly game results\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/mixed; boundary=\"frontier\"\r\n" +
	"\r\n" +
	"--frontier\r\n" +
	"Content-Type: text/plain\r\n" +
	"\r\n" +
	"Results attached.\r\n" +
	"--frontier\r\n" +
	"Content-Type: text/csv\r\n" +
	"Content-Disposition: attachment; filename=\"games_0412.CSV\"\r\n" +
	"\r\n" +
	"Rank,Player,ID\r\n1,Alice,1001\r\n" +
	"--frontier\r\n" +
	"Content-Type: application/pdf\r\n" +
	"Content-Disposition: attachment; filename=\"invoice.pdf\"\r\n" +
	"\r\n" +
	"%PDF-1.4\r\n" +
	"--frontier--\r\n"

func TestExtractCSVAttachments(t *testing.T) {
	subject, atts, err := extractCSVAttachments(strings.NewReader(rawMessage))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if subject != "Nightly game results" {
		t.Fatalf("subject %q", subject)
	}
	if len(atts) != 1 {
		t.Fatalf("expected just the csv attachment, got %d", len(atts))
	}
	if atts[0].Filename != "games_0412.CSV" {
		t.Fatalf("filename %q", atts[0].Filename)
	}
	if !strings.HasPrefix(string(atts[0].Data), "Rank,Player,ID") {
		t.Fatalf("attachment body %q", atts[0].Data)
	}
}

const attachmentCSV = "ClubCode,GameCode,DateStarted,DateEnded,GameType,BigBlind,TotalTips,Rank,Player,ID,Profit,Tips,BuyIn\n" +
	"CC1,G42,2025-01-02T20:00:00,2025-01-03T01:00:00,NLH,2,60,1,Alice,1001,250,20,100\n"

type fakeUploader struct {
	calls  []string
	result ingest.UploadResult
	err    error
}

func (f *fakeUploader) UploadFile(ctx context.Context, data []byte, filename string) (ingest.UploadResult, error) {
	f.calls = append(f.calls, filename)
	return f.result, f.err
}

func TestProcessAttachmentsUploads(t *testing.T) {
	up := &fakeUploader{result: ingest.UploadResult{Success: true, RowsProcessed: 1, RowsInserted: 1}}
	c := NewCollector(Config{}, up, nil)

	res := c.processAttachments(context.Background(), "7", "subj", []Attachment{
		{Filename: "games.csv", Data: []byte(attachmentCSV)},
	})
	if len(up.calls) != 1 || up.calls[0] != "games.csv" {
		t.Fatalf("uploader calls: %v", up.calls)
	}
	if res.AttachmentsUploaded != 1 || res.AttachmentsProcessed != 1 || res.AttachmentsSkipped != 0 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestProcessAttachmentsSkipsBadColumns(t *testing.T) {
	up := &fakeUploader{}
	c := NewCollector(Config{}, up, nil)

	res := c.processAttachments(context.Background(), "7", "subj", []Attachment{
		{Filename: "notes.csv", Data: []byte("Foo,Bar\n1,2\n")},
	})
	if len(up.calls) != 0 {
		t.Fatal("invalid columns must not reach the uploader")
	}
	if res.AttachmentsSkipped != 1 || len(res.Errors) != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if !strings.Contains(res.Errors[0], "Invalid CSV columns") {
		t.Fatalf("error %q", res.Errors[0])
	}
}

func TestProcessAttachmentsDuplicateCountsSkipped(t *testing.T) {
	up := &fakeUploader{result: ingest.UploadResult{Success: false, Message: "CSV 'games.csv' has already been uploaded"}}
	c := NewCollector(Config{}, up, nil)

	res := c.processAttachments(context.Background(), "8", "subj", []Attachment{
		{Filename: "games.csv", Data: []byte(attachmentCSV)},
	})
	if res.AttachmentsUploaded != 0 || res.AttachmentsSkipped != 1 {
		t.Fatalf("duplicate must count as skipped: %+v", res)
	}
	if !strings.Contains(res.Errors[0], "already been uploaded") {
		t.Fatalf("error %q", res.Errors[0])
	}
}

func TestProcessAttachmentsUploaderError(t *testing.T) {
	up := &fakeUploader{err: errors.New("connection reset")}
	c := NewCollector(Config{}, up, nil)

	res := c.processAttachments(context.Background(), "9", "subj", []Attachment{
		{Filename: "a.csv", Data: []byte(attachmentCSV)},
		{Filename: "b.csv", Data: []byte(attachmentCSV + "extra\n")},
	})
	if res.AttachmentsSkipped != 2 || len(res.Errors) != 2 {
		t.Fatalf("errors must be recorded per file, not aborted: %+v", res)
	}
}

func TestRunSummaryAbsorb(t *testing.T) {
	var s RunSummary
	s.absorb(MessageResult{AttachmentsFound: 2, AttachmentsUploaded: 1, AttachmentsSkipped: 1, Errors: []string{"x"}})
	s.absorb(MessageResult{AttachmentsFound: 0})
	if s.EmailsProcessed != 2 || s.EmailsWithAttachments != 1 {
		t.Fatalf("counts: %+v", s)
	}
	if s.AttachmentsUploaded != 1 || s.AttachmentsSkipped != 1 || len(s.Errors) != 1 {
		t.Fatalf("rollup: %+v", s)
	}
}

// fakeWatermark records cursor access without a store.
type fakeWatermark struct {
	last         *time.Time
	advanceCalls int
}

func (w *fakeWatermark) LastRun(ctx context.Context) *time.Time { return w.last }
func (w *fakeWatermark) Advance(ctx context.Context, t time.Time) {
	w.advanceCalls++
	w.last = &t
}

// fakeSession fails at a chosen step of the scan.
type fakeSession struct {
	loginErr  error
	searchErr error
	uids      []uint32
}

func (s *fakeSession) Login(username, password string) error { return s.loginErr }
func (s *fakeSession) Select(name string, readOnly bool) (*imap.MailboxStatus, error) {
	return &imap.MailboxStatus{Name: name}, nil
}
func (s *fakeSession) UidSearch(criteria *imap.SearchCriteria) ([]uint32, error) {
	return s.uids, s.searchErr
}
func (s *fakeSession) UidFetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error {
	close(ch)
	return nil
}
func (s *fakeSession) Logout() error { return nil }

func TestRunDialFailureKeepsWatermark(t *testing.T) {
	wm := &fakeWatermark{}
	c := NewCollector(Config{Server: "imap.test", Port: 993}, &fakeUploader{}, wm)
	c.dial = func(addr string) (imapSession, error) {
		return nil, errors.New("connection refused")
	}

	summary := c.Run(context.Background())
	if summary.Success {
		t.Fatal("a failed dial must not report success")
	}
	if wm.advanceCalls != 0 {
		t.Fatal("a failed dial must leave the watermark unchanged")
	}
}

func TestRunLoginFailureKeepsWatermark(t *testing.T) {
	wm := &fakeWatermark{}
	c := NewCollector(Config{}, &fakeUploader{}, wm)
	c.dial = func(addr string) (imapSession, error) {
		return &fakeSession{loginErr: errors.New("bad credentials")}, nil
	}

	summary := c.Run(context.Background())
	if summary.Success || summary.Error == "" {
		t.Fatalf("expected failed summary, got %+v", summary)
	}
	if wm.advanceCalls != 0 {
		t.Fatal("a failed login must leave the watermark unchanged")
	}
}

func TestRunSearchFailureKeepsWatermark(t *testing.T) {
	wm := &fakeWatermark{}
	c := NewCollector(Config{}, &fakeUploader{}, wm)
	c.dial = func(addr string) (imapSession, error) {
		return &fakeSession{searchErr: errors.New("server hiccup")}, nil
	}

	if summary := c.Run(context.Background()); summary.Success {
		t.Fatal("a failed search must not report success")
	}
	if wm.advanceCalls != 0 {
		t.Fatal("a failed search must leave the watermark unchanged")
	}
}

func TestRunCleanEmptyScanAdvancesWatermark(t *testing.T) {
	wm := &fakeWatermark{}
	c := NewCollector(Config{}, &fakeUploader{}, wm)
	c.dial = func(addr string) (imapSession, error) {
		return &fakeSession{}, nil
	}

	summary := c.Run(context.Background())
	if !summary.Success {
		t.Fatalf("empty mailbox scan must succeed: %+v", summary)
	}
	if wm.advanceCalls != 1 {
		t.Fatalf("advanceCalls = %d, want 1", wm.advanceCalls)
	}
}
