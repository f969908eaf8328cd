// Package nav describes navigation requests: "open this record in its
// detail/edit view". The UI host decides what opening means.
package nav

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/students-dashboard/internal/types"
)

// ErrUnknownModel is returned when no view exists for a model.
var ErrUnknownModel = errors.New("nav: unknown model")

// Action is a window action targeting one record.
type Action struct {
	Type   string `json:"type"`
	Model  string `json:"res_model"`
	ResID  int64  `json:"res_id"`
	View   string `json:"view"`
	Target string `json:"target"`
}

// OpenRecord builds the action that opens record id of model in its form
// view, replacing the current view.
func OpenRecord(model string, id int64) Action {
	return Action{
		Type:   "ir.actions.act_window",
		Model:  model,
		ResID:  id,
		View:   "form",
		Target: "current",
	}
}

// Service performs navigation actions.
type Service interface {
	DoAction(ctx context.Context, action Action) error
}

// Func adapts a function to Service.
type Func func(ctx context.Context, action Action) error

// DoAction calls f.
func (f Func) DoAction(ctx context.Context, action Action) error {
	return f(ctx, action)
}

// RecordURL is the website page for the record an action targets.
func RecordURL(action Action) (string, error) {
	if action.Model != types.Model {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, action.Model)
	}
	return fmt.Sprintf("/students/%d", action.ResID), nil
}
