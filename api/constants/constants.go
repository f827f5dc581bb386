package constants

// Table names
const (
	TableGames        = "games"
	TableUploadedCSVs = "uploaded_csvs"
	TableAgents       = "agents"
	TablePlayers      = "players"
	TableDealRules    = "agent_deal_percent_rules"
	TableAuditLogs    = "audit_logs"
)

// Common error messages
const (
	ErrMissingToken       = "Authorization token required"
	ErrInvalidToken       = "Invalid or expired token"
	ErrMethodNotAllowed   = "Method Not Allowed"
	ErrInvalidJSON        = "invalid json or missing fields"
	ErrFileRequired       = "file is required"
	ErrUnsupportedFile    = "unsupported file type: expected .csv, .xlsx or .xls"
	ErrDateRangeRequired  = "either start_date and end_date must be provided, or lookback_days must be provided"
	ErrPlayerIDsRequired  = "player_ids is required"
	ErrAgentNameRequired  = "agent_name is required"
	ErrPlayerNameRequired = "player_name is required"
)

// Content Types
const (
	ContentTypeHeader = "Content-Type"
	ContentTypeJSON   = "application/json"
	ContentTypeXLSX   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Date formats
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
	// Timestamps are stored as local ISO-8601 without an offset.
	DateFormatISO = "2006-01-02T15:04:05"
	// IMAP SINCE takes day granularity only.
	IMAPDateFormat = "02-Jan-2006"
)

// Audit operation types
const (
	OpCreate = "CREATE"
	OpUpdate = "UPDATE"
)
