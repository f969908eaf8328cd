// Package router wires every HTTP route to its handler.
package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aanand-mishra/students-dashboard/internal/dashboard"
	"github.com/aanand-mishra/students-dashboard/internal/form"
	"github.com/aanand-mishra/students-dashboard/internal/http/handlers/button"
	dashboardhandler "github.com/aanand-mishra/students-dashboard/internal/http/handlers/dashboard"
	"github.com/aanand-mishra/students-dashboard/internal/http/handlers/orm"
	"github.com/aanand-mishra/students-dashboard/internal/http/handlers/student"
	"github.com/aanand-mishra/students-dashboard/internal/http/handlers/website"
	"github.com/aanand-mishra/students-dashboard/internal/storage"
)

// New returns the application's handler.
//
// Route table:
//
//	POST   /api/students                       create a student
//	GET    /api/students                       list all students
//	GET    /api/students/{id}                  get one student
//	PUT    /api/students/{id}                  update a student
//	DELETE /api/students/{id}                  delete a student
//	POST   /api/students/{id}/buttons/{name}   click a form button
//	POST   /api/students/{id}/actions/{name}   run a server action
//	POST   /api/orm/{model}/{method}           record query service
//	GET    /api/dashboard                      dashboard snapshot
//	GET    /student_test                       liveness page
//	GET    /students                           student list page
//	GET    /students/{id}                      student detail page
func New(store storage.Store, loader *dashboard.Loader, actions form.Executor) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("POST /api/students", student.New(store))
	router.HandleFunc("GET /api/students", student.GetList(store))
	router.HandleFunc("GET /api/students/{id}", student.GetByID(store))
	router.HandleFunc("PUT /api/students/{id}", student.Update(store))
	router.HandleFunc("DELETE /api/students/{id}", student.Delete(store))

	router.HandleFunc("POST /api/students/{id}/buttons/{name}", button.Click(store, actions))
	router.HandleFunc("POST /api/students/{id}/actions/{name}", button.Execute(store, actions))

	router.HandleFunc("POST /api/orm/{model}/{method}", orm.Call(store))
	router.HandleFunc("GET /api/dashboard", dashboardhandler.Get(loader))

	router.HandleFunc("GET /student_test", website.Test())
	router.HandleFunc("GET /students", website.List(store))
	router.HandleFunc("GET /students/{id}", website.Detail(store))

	return logRequests(router)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequests writes one line per request.
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		slog.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)))
	})
}
