package masters

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"PokerClubBooks/internal/serviceiface"
)

type MastersService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
}

func NewMastersService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &MastersService{config: cfg, db: db}
}

func (s *MastersService) Name() string {
	return "masters"
}

func (s *MastersService) Start() error {
	go StartMastersService(s.db)
	return nil
}

func (s *MastersService) Stop() error {
	return nil
}
