package games

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/xuri/excelize/v2"

	"PokerClubBooks/api"
	"PokerClubBooks/api/constants"
)

var exportHeader = []interface{}{
	"Rank", "GameCode", "ClubCode", "ID", "Player", "DateStarted", "DateEnded",
	"GameType", "BigBlind", "Profit", "Tips", "BuyIn", "TotalTips", "Hands",
}

// ExportHandler serves the same window as DataHandler as an .xlsx download.
func ExportHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}

		start, end, err := api.ParseDateRange(r.URL.Query())
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		rows, err := FetchGames(r.Context(), db, start, end, r.URL.Query().Get("club_code"))
		if err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		f := excelize.NewFile()
		defer f.Close()
		sheet := f.GetSheetName(0)

		if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		for i, g := range rows {
			cell := fmt.Sprintf("A%d", i+2)
			row := []interface{}{
				g.Rank, g.GameCode, g.ClubCode, g.PlayerID, g.PlayerName,
				formatExportTime(g.DateStarted), formatExportTime(g.DateEnded),
				g.GameType, g.BigBlind, g.Profit, g.Tips, g.BuyIn, g.TotalTips, g.Hands,
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				api.RespondWithError(w, http.StatusInternalServerError, err.Error())
				return
			}
		}

		filename := fmt.Sprintf("games_%s_%s.xlsx",
			start.Format(constants.DateFormat), end.Format(constants.DateFormat))
		w.Header().Set(constants.ContentTypeHeader, constants.ContentTypeXLSX)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		if err := f.Write(w); err != nil {
			api.LogError("export write: %v", err)
		}
	}
}

func formatExportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(constants.DateFormatISO)
}
