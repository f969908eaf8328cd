// Package dashboard serves the dashboard snapshot.
package dashboard

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/students-dashboard/internal/dashboard"
	"github.com/aanand-mishra/students-dashboard/internal/utils/response"
)

// Get handles GET /api/dashboard
//
// The five dashboard queries run against the server's own store. A query
// that fails leaves its field at the default, so this endpoint always
// answers 200:
//
//	{ "total_students": 42, "new_admissions_today": 3, "gender_data": [...],
//	  "age_data": [...], "recent_admissions": [...], "loading": false,
//	  "charts": { "gender": {...}, "age": {...} } }
func Get(loader *dashboard.Loader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("building dashboard snapshot")

		st := dashboard.NewState()
		loader.Load(r.Context(), &st)
		st.Loading = false

		response.WriteJSON(w, http.StatusOK, dashboard.NewSnapshot(st))
	}
}
