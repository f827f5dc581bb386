package masters

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"PokerClubBooks/api"
	"PokerClubBooks/internal/config"
)

func StartMastersService(db *pgxpool.Pool) {
	router := mux.NewRouter()
	router.Handle("/masters/agents", ListAgentsHandler(db)).Methods(http.MethodGet)
	router.Handle("/masters/agents/upsert", UpsertAgentHandler(db)).Methods(http.MethodPost)
	router.Handle("/masters/players", ListPlayersHandler(db)).Methods(http.MethodGet)
	router.Handle("/masters/players/upsert", UpsertPlayerHandler(db)).Methods(http.MethodPost)
	router.Handle("/masters/deal-rules", ListDealRulesHandler(db)).Methods(http.MethodGet)
	router.Handle("/masters/deal-rules/upsert", UpsertDealRuleHandler(db)).Methods(http.MethodPost)
	router.Use(api.AuthMiddleware)

	log.Printf("Masters Service started on :%s", config.MastersPort)
	if err := http.ListenAndServe(":"+config.MastersPort, router); err != nil {
		log.Fatalf("Masters Service failed: %v", err)
	}
}
