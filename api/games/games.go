package games

import (
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"PokerClubBooks/api"
	"PokerClubBooks/internal/config"
)

func StartGamesService(db *pgxpool.Pool) {
	mux := http.NewServeMux()
	mux.Handle("/games/upload", api.AuthMiddleware(UploadHandler(db)))
	mux.Handle("/games/data", api.AuthMiddleware(DataHandler(db)))
	mux.Handle("/games/export", api.AuthMiddleware(ExportHandler(db)))

	log.Printf("Games Service started on :%s", config.GamesPort)
	if err := http.ListenAndServe(":"+config.GamesPort, mux); err != nil {
		log.Fatalf("Games Service failed: %v", err)
	}
}
