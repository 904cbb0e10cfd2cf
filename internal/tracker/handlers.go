package tracker

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/slimreset/slimcoach/internal/userctx"
)

// HandleGetSummary handles GET /v1/tracker/summary?date=
func HandleGetSummary(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := userctx.UserIDOrDefault(r.Context())
		date := r.URL.Query().Get("date")

		summary, err := service.GetDaySummary(r.Context(), userID, date)
		if err != nil {
			if errors.Is(err, ErrInvalidDate) {
				writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(summary)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}
