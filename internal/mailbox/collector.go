package mailbox

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	"github.com/emersion/go-message/mail"

	"PokerClubBooks/api/constants"
	"PokerClubBooks/internal/ingest"
)

// FileUploader is the slice of the upload pipeline the collector needs.
type FileUploader interface {
	UploadFile(ctx context.Context, data []byte, filename string) (ingest.UploadResult, error)
}

// Config holds the IMAP connection settings for one mailbox.
type Config struct {
	Server   string
	Port     int
	Username string
	Password string
	Mailbox  string
}

// ScanWatermark is the persisted scan cursor; Watermark is the pgx-backed
// implementation.
type ScanWatermark interface {
	LastRun(ctx context.Context) *time.Time
	Advance(ctx context.Context, t time.Time)
}

// imapSession is the slice of the IMAP client a scan uses.
type imapSession interface {
	Login(username, password string) error
	Select(name string, readOnly bool) (*imap.MailboxStatus, error)
	UidSearch(criteria *imap.SearchCriteria) ([]uint32, error)
	UidFetch(seqset *imap.SeqSet, items []imap.FetchItem, ch chan *imap.Message) error
	Logout() error
}

func dialTLS(addr string) (imapSession, error) {
	return client.DialTLS(addr, nil)
}

// Collector scans a mailbox for messages carrying .csv attachments and
// feeds each attachment through the upload pipeline.
type Collector struct {
	cfg       Config
	uploader  FileUploader
	watermark ScanWatermark
	dial      func(addr string) (imapSession, error)
}

func NewCollector(cfg Config, uploader FileUploader, watermark ScanWatermark) *Collector {
	return &Collector{cfg: cfg, uploader: uploader, watermark: watermark, dial: dialTLS}
}

// Run performs one scan. The watermark only advances on a clean run so a
// connection failure never drops mail from the next search window.
func (c *Collector) Run(ctx context.Context) RunSummary {
	start := time.Now().UTC()
	summary := RunSummary{Success: true, StartTime: start, Errors: []string{}}

	finish := func() RunSummary {
		summary.EndTime = time.Now().UTC()
		summary.DurationSeconds = summary.EndTime.Sub(summary.StartTime).Seconds()
		return summary
	}
	fail := func(err error) RunSummary {
		summary.Success = false
		summary.Error = err.Error()
		return finish()
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Server, c.cfg.Port)
	cl, err := c.dial(addr)
	if err != nil {
		return fail(fmt.Errorf("dial %s: %w", addr, err))
	}
	defer cl.Logout()

	if err := cl.Login(c.cfg.Username, c.cfg.Password); err != nil {
		return fail(fmt.Errorf("login %s: %w", c.cfg.Username, err))
	}
	if _, err := cl.Select(c.cfg.Mailbox, false); err != nil {
		return fail(fmt.Errorf("select %s: %w", c.cfg.Mailbox, err))
	}

	criteria := imap.NewSearchCriteria()
	if last := c.watermark.LastRun(ctx); last != nil {
		// SINCE is day-granular; the dedup guard absorbs the overlap.
		criteria.Since = *last
		log.Printf("[INFO] mailbox: searching since %s", last.Format(constants.IMAPDateFormat))
	}
	uids, err := cl.UidSearch(criteria)
	if err != nil {
		return fail(fmt.Errorf("search: %w", err))
	}
	if len(uids) == 0 {
		c.watermark.Advance(ctx, time.Now().UTC())
		return finish()
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(uids...)

	section := &imap.BodySectionName{}
	items := []imap.FetchItem{section.FetchItem(), imap.FetchUid}

	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- cl.UidFetch(seqset, items, messages)
	}()

	for msg := range messages {
		body := msg.GetBody(section)
		if body == nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Error processing email %d: empty body section", msg.Uid))
			continue
		}
		uid := fmt.Sprintf("%d", msg.Uid)
		subject, atts, err := extractCSVAttachments(body)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("Error processing email %s: %v", uid, err))
			continue
		}
		summary.absorb(c.processAttachments(ctx, uid, subject, atts))
	}
	if err := <-done; err != nil {
		return fail(fmt.Errorf("fetch: %w", err))
	}

	end := time.Now().UTC()
	c.watermark.Advance(ctx, end)
	return finish()
}

// processAttachments runs every attachment of one message through the
// prevalidation check and the upload pipeline, swallowing per-file errors.
func (c *Collector) processAttachments(ctx context.Context, uid, subject string, atts []Attachment) MessageResult {
	result := MessageResult{EmailID: uid, Subject: subject, AttachmentsFound: len(atts), Errors: []string{}}

	for _, att := range atts {
		table, err := ingest.ParseTabular(att.Filename, att.Data)
		if err != nil || !ingest.PrevalidateColumns(table) {
			result.AttachmentsSkipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Invalid CSV columns", att.Filename))
			continue
		}

		upload, err := c.uploader.UploadFile(ctx, att.Data, att.Filename)
		if err != nil {
			result.AttachmentsSkipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", att.Filename, err))
			continue
		}
		if upload.Success {
			result.AttachmentsUploaded++
			log.Printf("[INFO] mailbox: uploaded %s from email %s (%d rows)", att.Filename, uid, upload.RowsInserted)
		} else {
			result.AttachmentsSkipped++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", att.Filename, upload.Message))
		}
		result.AttachmentsProcessed++
	}
	return result
}

// extractCSVAttachments walks one raw RFC 822 message and returns its
// subject plus every attachment named *.csv.
func extractCSVAttachments(r io.Reader) (string, []Attachment, error) {
	mr, err := mail.CreateReader(r)
	if err != nil {
		return "", nil, err
	}
	subject, _ := mr.Header.Subject()

	var atts []Attachment
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return subject, atts, err
		}
		header, ok := part.Header.(*mail.AttachmentHeader)
		if !ok {
			continue
		}
		filename, err := header.Filename()
		if err != nil || !strings.HasSuffix(strings.ToLower(filename), ".csv") {
			continue
		}
		data, err := io.ReadAll(part.Body)
		if err != nil {
			return subject, atts, err
		}
		atts = append(atts, Attachment{Filename: filename, Data: data})
	}
	return subject, atts, nil
}
