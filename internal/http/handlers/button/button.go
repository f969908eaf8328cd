// Package button serves the student form's buttons.
//
//	POST /api/students/{id}/buttons/{name}   full click: form hook, then the server action
//	POST /api/students/{id}/actions/{name}   server action only (clients that ran the hook themselves)
package button

import (
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/students-dashboard/internal/form"
	"github.com/aanand-mishra/students-dashboard/internal/http/handlers/student"
	"github.com/aanand-mishra/students-dashboard/internal/notify"
	"github.com/aanand-mishra/students-dashboard/internal/storage"
	"github.com/aanand-mishra/students-dashboard/internal/utils/response"
)

// ClickResponse is the body returned for a full click.
type ClickResponse struct {
	form.Result
	Notifications []notify.Notification `json:"notifications"`
}

// Click handles POST /api/students/{id}/buttons/{name}
//
// The greet button answers with a notification and "executed": false;
// other buttons run their server action:
//
//	{ "executed": true, "action": {...}, "notifications": [...] }
func Click(storage storage.Storage, server form.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := student.ParseID(w, r)
		if !ok {
			return
		}
		name := r.PathValue("name")
		slog.Info("form button clicked", slog.Int64("id", id), slog.String("button", name))

		record, err := storage.GetStudentByID(r.Context(), id)
		if err != nil {
			response.Error(w, "error loading student for button", err)
			return
		}

		recorder := &notify.Recorder{}
		f := &form.Form{
			Controller: &form.Controller{Notifier: recorder},
			Server:     server,
		}

		result, err := f.Click(r.Context(), record, form.ClickParams{Name: name, Type: "object"})
		if err != nil {
			response.Error(w, "error running button", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, ClickResponse{
			Result:        result,
			Notifications: recorder.Notifications(),
		})
	}
}

// Execute handles POST /api/students/{id}/actions/{name}
//
//	{ "executed": true, "action": {...} }
func Execute(storage storage.Storage, server form.Executor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := student.ParseID(w, r)
		if !ok {
			return
		}
		name := r.PathValue("name")
		slog.Info("executing server action", slog.Int64("id", id), slog.String("action", name))

		record, err := storage.GetStudentByID(r.Context(), id)
		if err != nil {
			response.Error(w, "error loading student for action", err)
			return
		}

		action, err := server.Execute(r.Context(), name, record)
		if err != nil {
			response.Error(w, "error executing action", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, form.Result{Executed: true, Action: action})
	}
}
