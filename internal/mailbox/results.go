package mailbox

import "time"

// Attachment is one file pulled out of a message.
type Attachment struct {
	Filename string
	Data     []byte
}

// MessageResult is the outcome of processing one message's attachments.
type MessageResult struct {
	EmailID              string   `json:"email_id"`
	Subject              string   `json:"email_subject"`
	AttachmentsFound     int      `json:"attachments_found"`
	AttachmentsProcessed int      `json:"attachments_processed"`
	AttachmentsUploaded  int      `json:"attachments_uploaded"`
	AttachmentsSkipped   int      `json:"attachments_skipped"`
	Errors               []string `json:"errors"`
}

// RunSummary is the outcome of one mailbox scan. A failed attachment does
// not fail the run; only connection-level errors flip Success off.
type RunSummary struct {
	Success               bool      `json:"success"`
	StartTime             time.Time `json:"start_time"`
	EndTime               time.Time `json:"end_time"`
	DurationSeconds       float64   `json:"duration_seconds"`
	EmailsProcessed       int       `json:"emails_processed"`
	EmailsWithAttachments int       `json:"emails_with_attachments"`
	AttachmentsUploaded   int       `json:"attachments_uploaded"`
	AttachmentsSkipped    int       `json:"attachments_skipped"`
	Errors                []string  `json:"errors"`
	Error                 string    `json:"error,omitempty"`
}

func (s *RunSummary) absorb(r MessageResult) {
	s.EmailsProcessed++
	if r.AttachmentsFound > 0 {
		s.EmailsWithAttachments++
	}
	s.AttachmentsUploaded += r.AttachmentsUploaded
	s.AttachmentsSkipped += r.AttachmentsSkipped
	s.Errors = append(s.Errors, r.Errors...)
}
