package games

import (
	"PokerClubBooks/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type GamesService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
}

func NewGamesService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &GamesService{config: cfg, db: db}
}

func (s *GamesService) Name() string {
	return "games"
}

func (s *GamesService) Start() error {
	go StartGamesService(s.db)
	return nil
}

func (s *GamesService) Stop() error {
	return nil
}
