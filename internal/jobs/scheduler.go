package jobs

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"

	"PokerClubBooks/internal/config"
	"PokerClubBooks/internal/ingest"
	"PokerClubBooks/internal/logger"
	"PokerClubBooks/internal/mailbox"
	"PokerClubBooks/internal/runlog"
	"PokerClubBooks/internal/serviceiface"
	"PokerClubBooks/internal/timeutil"
)

// CronService runs the mailbox scan on a schedule. Credentials come from the
// environment; when they are absent the service starts as a no-op so local
// setups without a mailbox still boot.
type CronService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
	cron   *cron.Cron
}

func NewCronService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &CronService{config: cfg, db: db}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	username := os.Getenv("GMAIL_USER_EMAIL")
	password := os.Getenv("GMAIL_APP_PASSWORD")
	if username == "" || password == "" {
		log.Println("[INFO] cron: mailbox credentials not set, email ingestion disabled")
		return nil
	}

	schedule := config.DefaultScanSchedule
	if s.config != nil {
		if v, ok := s.config["scan_schedule"].(string); ok && v != "" {
			schedule = v
		}
	}

	mbCfg := mailbox.Config{
		Server:   envOr("IMAP_SERVER", config.DefaultIMAPServer),
		Port:     envIntOr("IMAP_PORT", config.DefaultIMAPPort),
		Username: username,
		Password: password,
		Mailbox:  envOr("IMAP_MAILBOX", config.DefaultMailbox),
	}
	collector := mailbox.NewCollector(mbCfg, ingest.NewUploader(s.db), mailbox.NewWatermark(s.db))

	s.cron = cron.New(cron.WithLocation(timeutil.ClubLocation()))
	_, err := s.cron.AddFunc(schedule, func() {
		runScan(collector)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule mailbox scan: %v", err)
	}

	s.cron.Start()
	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit(fmt.Sprintf("Mailbox scan scheduled: %s", schedule))
	}
	log.Printf("[INFO] cron: mailbox scan scheduled (%s)", schedule)
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	log.Println("Cron service stopped.")
	return nil
}

func runScan(collector *mailbox.Collector) {
	var summary mailbox.RunSummary
	err := RetryWithBackoff(config.IngestorMaxRetries, time.Duration(config.IngestorRetryDelaySec)*time.Second, func() error {
		summary = collector.Run(context.Background())
		if !summary.Success {
			return fmt.Errorf("mailbox scan: %s", summary.Error)
		}
		return nil
	})
	runlog.Global().Record(summary)
	if err != nil {
		log.Printf("[ERROR] cron: %v", err)
		return
	}
	log.Printf("[INFO] cron: scan done, %d emails, %d uploaded, %d skipped",
		summary.EmailsProcessed, summary.AttachmentsUploaded, summary.AttachmentsSkipped)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
