// Package website renders the public student pages.
//
//	GET /student_test     plain-text liveness page
//	GET /students         list of all students
//	GET /students/{id}    one student; 404 page when it does not exist
package website

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/students-dashboard/internal/dashboard"
	"github.com/aanand-mishra/students-dashboard/internal/nav"
	"github.com/aanand-mishra/students-dashboard/internal/storage"
	"github.com/aanand-mishra/students-dashboard/internal/types"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.New("website").Funcs(template.FuncMap{
	"gender": func(g string) string {
		if g == "" {
			return dashboard.FormatLabel(false)
		}
		return dashboard.FormatLabel(g)
	},
	"recordURL": func(id int64) (string, error) {
		return nav.RecordURL(nav.OpenRecord(types.Model, id))
	},
}).ParseFS(templateFS, "templates/*.html"))

// render executes a page into a buffer first, so a template error becomes
// a clean 500 instead of half a page.
func render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("error rendering page",
			slog.String("page", name),
			slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// Test handles GET /student_test
func Test() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Controller is successfully loaded!"))
	}
}

// List handles GET /students
func List(storage storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := storage.GetStudents(r.Context())
		if err != nil {
			slog.Error("error listing students", slog.String("error", err.Error()))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		render(w, http.StatusOK, "list", students)
	}
}

// Detail handles GET /students/{id}
func Detail(store storage.Storage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			render(w, http.StatusNotFound, "404", nil)
			return
		}

		student, err := store.GetStudentByID(r.Context(), id)
		if errors.Is(err, storage.ErrNotFound) {
			render(w, http.StatusNotFound, "404", nil)
			return
		}
		if err != nil {
			slog.Error("error loading student page",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		render(w, http.StatusOK, "detail", student)
	}
}
