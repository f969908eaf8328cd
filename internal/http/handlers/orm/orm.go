// Package orm exposes the record query service over HTTP:
//
//	POST /api/orm/{model}/search_count   → { "count": 3 }
//	POST /api/orm/{model}/read_group     → [ { "gender": "female", "gender_count": 2 }, ... ]
//	POST /api/orm/{model}/search_read    → [ { "id": 7, "name": "Asha" }, ... ]
//
// The body is a storage.QueryRequest; an empty body is an empty request.
package orm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/students-dashboard/internal/storage"
	"github.com/aanand-mishra/students-dashboard/internal/types"
	"github.com/aanand-mishra/students-dashboard/internal/utils/response"
)

// Call handles POST /api/orm/{model}/{method}.
func Call(q storage.Querier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		model, method := r.PathValue("model"), r.PathValue("method")
		slog.Debug("query service call",
			slog.String("model", model),
			slog.String("method", method))

		if model != types.Model {
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError(fmt.Errorf("unknown model %q", model)))
			return
		}

		var req storage.QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}

		ctx := r.Context()
		switch method {
		case storage.MethodSearchCount:
			n, err := q.SearchCount(ctx, req.Domain)
			if err != nil {
				response.Error(w, "search_count failed", err)
				return
			}
			response.WriteJSON(w, http.StatusOK, storage.CountResponse{Count: n})

		case storage.MethodReadGroup:
			groups, err := q.ReadGroup(ctx, req.Domain, req.Fields, req.GroupBy)
			if err != nil {
				response.Error(w, "read_group failed", err)
				return
			}
			response.WriteJSON(w, http.StatusOK, groups)

		case storage.MethodSearchRead:
			records, err := q.SearchRead(ctx, req.Domain, req.Fields, storage.SearchOptions{
				Limit:  req.Limit,
				Offset: req.Offset,
				Order:  req.Order,
			})
			if err != nil {
				response.Error(w, "search_read failed", err)
				return
			}
			response.WriteJSON(w, http.StatusOK, records)

		default:
			response.WriteJSON(w, http.StatusNotFound,
				response.GeneralError(fmt.Errorf("unknown method %q", method)))
		}
	}
}
