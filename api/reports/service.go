package reports

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	"PokerClubBooks/internal/serviceiface"
)

type ReportsService struct {
	config map[string]interface{}
	pool   *pgxpool.Pool
	db     *sql.DB
}

func NewReportsService(cfg map[string]interface{}, pool *pgxpool.Pool, db *sql.DB) serviceiface.Service {
	return &ReportsService{config: cfg, pool: pool, db: db}
}

func (s *ReportsService) Name() string {
	return "reports"
}

func (s *ReportsService) Start() error {
	go StartReportsService(s.pool, s.db)
	return nil
}

func (s *ReportsService) Stop() error {
	return nil
}
