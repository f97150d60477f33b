package http

import (
	"encoding/json"
	"net/http"

	"symptom-quiz-service/internal/app"
)

// PreviewHandler serves the canned results scenarios, selected by the
// ?scenario= query parameter (minimal, mild, moderate, severe).
func PreviewHandler(service *app.IntakeService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, ok := service.Preview(r.Context(), r.URL.Query().Get("scenario"))
		if !ok {
			http.Error(w, "unknown scenario", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	}
}
