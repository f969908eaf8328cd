// Package form implements the student form's button behaviour: a
// client-side hook that can intercept a button before the server sees it,
// and the server-side actions the buttons are bound to.
package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aanand-mishra/students-dashboard/internal/notify"
	"github.com/aanand-mishra/students-dashboard/internal/types"
)

// Button names bound on the student form.
const (
	ActionGreetJS     = "action_greet_js"
	ActionGreetPython = "action_greet_python"
)

// ErrUnknownAction is returned for a button with no server-side action.
var ErrUnknownAction = errors.New("unknown action")

// ClickParams identifies the clicked button.
type ClickParams struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// ClientAction is what a server-side action asks the client to do.
type ClientAction struct {
	Type   string              `json:"type"`
	Tag    string              `json:"tag"`
	Params NotificationRequest `json:"params"`
}

// NotificationRequest is the payload of a display_notification action.
type NotificationRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Sticky  bool   `json:"sticky"`
}

// Show displays the notification a display_notification action carries.
// Other actions are ignored.
func (a *ClientAction) Show(n notify.Service) {
	if a == nil || a.Tag != "display_notification" {
		return
	}
	n.Add(a.Params.Message, notify.Options{
		Title:  a.Params.Title,
		Type:   a.Params.Type,
		Sticky: a.Params.Sticky,
	})
}

// Executor runs a button's server-side action for record.
type Executor interface {
	Execute(ctx context.Context, name string, record types.Student) (*ClientAction, error)
}

// displayName is the name shown in greetings.
func displayName(record types.Student) string {
	if name := strings.TrimSpace(record.Name); name != "" {
		return record.Name
	}
	return "Student"
}

// Controller intercepts form buttons before their server-side handling.
type Controller struct {
	Notifier notify.Service

	// Default is the handling for buttons the controller does not
	// intercept. Nil means "proceed".
	Default func(ctx context.Context, record types.Student, params ClickParams) (bool, error)
}

// BeforeExecuteActionButton runs before a button's server-side action.
// It returns false when the server-side action must not run.
//
// The greet button is answered on the client with a success notification
// and never reaches the server; every other button goes to Default.
func (c *Controller) BeforeExecuteActionButton(ctx context.Context, record types.Student, params ClickParams) (bool, error) {
	slog.Debug("form button clicked", slog.String("name", params.Name))

	if params.Name == ActionGreetJS {
		c.Notifier.Add(fmt.Sprintf("Hello %s! This is from the JS Controller.", displayName(record)), notify.Options{
			Title:  "JS Success",
			Type:   notify.TypeSuccess,
			Sticky: false,
		})
		return false, nil
	}

	if c.Default == nil {
		return true, nil
	}
	return c.Default(ctx, record, params)
}

// ServerActions holds the server-side button actions.
type ServerActions struct{}

// Execute runs the named action. The JS greeting has a server-side
// counterpart that does nothing; it only runs when the client does not
// intercept it.
func (ServerActions) Execute(_ context.Context, name string, record types.Student) (*ClientAction, error) {
	switch name {
	case ActionGreetJS:
		return nil, nil
	case ActionGreetPython:
		return &ClientAction{
			Type: "ir.actions.client",
			Tag:  "display_notification",
			Params: NotificationRequest{
				Title:   "Python Greeting",
				Message: fmt.Sprintf("Hello %s! (From Python)", displayName(record)),
				Type:    notify.TypeSuccess,
				Sticky:  false,
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
}

// Result is the outcome of a button click.
type Result struct {
	// Executed is false when the controller suppressed the server action.
	Executed bool          `json:"executed"`
	Action   *ClientAction `json:"action,omitempty"`
}

// Form wires the client hook to the server actions.
type Form struct {
	Controller *Controller
	Server     Executor
}

// Click runs the full button flow for record: the client hook, then the
// server action if the hook let it through, then the action's own
// notification if it carries one.
func (f *Form) Click(ctx context.Context, record types.Student, params ClickParams) (Result, error) {
	proceed, err := f.Controller.BeforeExecuteActionButton(ctx, record, params)
	if err != nil {
		return Result{}, err
	}
	if !proceed {
		return Result{Executed: false}, nil
	}

	action, err := f.Server.Execute(ctx, params.Name, record)
	if err != nil {
		return Result{}, err
	}
	action.Show(f.Controller.Notifier)
	return Result{Executed: true, Action: action}, nil
}
