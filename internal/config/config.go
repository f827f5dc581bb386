package config

const (
	// All week-boundary math runs in club time (Texas, Central Time).
	DefaultTimeZone = "America/Chicago"

	// Games are inserted in fixed batches; a duplicate-key failure inside a
	// batch falls back to row-at-a-time inserts.
	GameInsertBatchSize = 100

	// Email Ingestor Constants
	DefaultIMAPServer     = "imap.gmail.com"
	DefaultIMAPPort       = 993
	DefaultMailbox        = "INBOX"
	DefaultScanSchedule   = "*/30 * * * *" // poll the inbox every 30 minutes
	EmailStateTable       = "email_ingestor_state"
	IngestorMaxRetries    = 3
	IngestorRetryDelaySec = 2

	// Service Ports
	GatewayPort = "8081"
	GamesPort   = "6243"
	ReportsPort = "4243"
	MastersPort = "5243"
)
