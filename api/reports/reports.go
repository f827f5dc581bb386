package reports

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"PokerClubBooks/api"
	"PokerClubBooks/internal/config"
)

func StartReportsService(pool *pgxpool.Pool, db *sql.DB) {
	mux := http.NewServeMux()
	mux.Handle("/reports/aggregated", api.AuthMiddleware(AggregatedHandler(db)))
	mux.Handle("/reports/agent", api.AuthMiddleware(AgentReportHandler(pool, db)))
	mux.Handle("/reports/agent/detailed", api.AuthMiddleware(DetailedAgentReportHandler(pool, db)))
	mux.Handle("/reports/player-history", api.AuthMiddleware(PlayerHistoryHandler(pool, db)))
	mux.Handle("/reports/credit-check", api.AuthMiddleware(CreditCheckHandler(db)))
	mux.Handle("/reports/history", api.AuthMiddleware(HistoryHandler(pool)))
	mux.Handle("/reports/ingest-runs", api.AuthMiddleware(IngestRunsHandler()))

	log.Printf("Reports Service started on :%s", config.ReportsPort)
	if err := http.ListenAndServe(":"+config.ReportsPort, mux); err != nil {
		log.Fatalf("Reports Service failed: %v", err)
	}
}
