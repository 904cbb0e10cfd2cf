package moods

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/slimreset/slimcoach/internal/userctx"
)

// HandleList handles GET /v1/moods?from=&to=
func HandleList(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")

		if from == "" || to == "" {
			writeError(w, http.StatusBadRequest, "missing_params", "from and to are required")
			return
		}

		userID := userctx.UserIDOrDefault(r.Context())
		entries, err := service.List(r.Context(), userID, from, to)
		if err != nil {
			if errors.Is(err, ErrInvalidDate) || errors.Is(err, ErrInvalidRange) {
				writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(MoodsResponse{Moods: entries})
	}
}

// HandleLog handles POST /v1/moods
func HandleLog(service *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LogMoodRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "invalid request body")
			return
		}

		userID := userctx.UserIDOrDefault(r.Context())
		entry, err := service.Log(r.Context(), userID, req)
		if err != nil {
			if errors.Is(err, ErrMissingNote) {
				writeError(w, http.StatusBadRequest, "missing_note", err.Error())
				return
			}
			if errors.Is(err, ErrInvalidDate) {
				writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(entry)
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
