package games

import (
	"io"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"PokerClubBooks/api"
	"PokerClubBooks/api/constants"
	"PokerClubBooks/internal/audit"
	"PokerClubBooks/internal/ingest"
)

const maxUploadBytes = 32 << 20

// UploadHandler ingests one game results file. Re-uploading identical bytes
// is a success=false no-op, not an error; malformed files get a 400 with the
// validation message.
func UploadHandler(db *pgxpool.Pool) http.HandlerFunc {
	uploader := ingest.NewUploader(db)
	recorder := audit.NewRecorder(db)

	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
			return
		}
		ctx := r.Context()

		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, constants.ErrFileRequired)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
		if err != nil {
			api.RespondWithError(w, http.StatusBadRequest, "could not read file: "+err.Error())
			return
		}

		result, err := uploader.UploadFile(ctx, data, header.Filename)
		if err != nil {
			if ingest.IsValidationError(err) {
				api.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			api.RespondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if result.Success {
			if user := api.GetUserFromCtx(ctx); user != nil {
				recorder.LogOperation(ctx, user.Email, constants.OpCreate, constants.TableGames, header.Filename, map[string]interface{}{
					"filename":      header.Filename,
					"rows_inserted": result.RowsInserted,
					"rows_skipped":  result.RowsSkipped,
				})
			}
		}
		api.RespondWithJSON(w, http.StatusOK, result)
	}
}
