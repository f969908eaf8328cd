package form

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-dashboard/internal/notify"
	"github.com/aanand-mishra/students-dashboard/internal/types"
)

type spyExecutor struct {
	calls []string
}

func (s *spyExecutor) Execute(ctx context.Context, name string, record types.Student) (*ClientAction, error) {
	s.calls = append(s.calls, name)
	return ServerActions{}.Execute(ctx, name, record)
}

func newForm() (*Form, *notify.Recorder, *spyExecutor) {
	rec := &notify.Recorder{}
	spy := &spyExecutor{}
	return &Form{Controller: &Controller{Notifier: rec}, Server: spy}, rec, spy
}

func TestGreetButtonNotifiesAndSuppressesServer(t *testing.T) {
	f, rec, spy := newForm()

	res, err := f.Click(context.Background(), types.Student{ID: 1, Name: "Priya"}, ClickParams{Name: ActionGreetJS})
	require.NoError(t, err)

	assert.False(t, res.Executed)
	assert.Empty(t, spy.calls, "server action must not run")

	got := rec.Notifications()
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Message, "Hello Priya!")
	assert.Equal(t, "JS Success", got[0].Title)
	assert.Equal(t, notify.TypeSuccess, got[0].Type)
	assert.False(t, got[0].Sticky)
}

func TestGreetButtonBlankNameFallsBack(t *testing.T) {
	f, rec, _ := newForm()

	_, err := f.Click(context.Background(), types.Student{ID: 2, Name: "  "}, ClickParams{Name: ActionGreetJS})
	require.NoError(t, err)

	require.Len(t, rec.Notifications(), 1)
	assert.Contains(t, rec.Notifications()[0].Message, "Hello Student!")
}

func TestOtherButtonsUseDefaultHandling(t *testing.T) {
	f, rec, spy := newForm()

	res, err := f.Click(context.Background(), types.Student{ID: 3, Name: "Kiran"}, ClickParams{Name: ActionGreetPython, Type: "object"})
	require.NoError(t, err)

	assert.True(t, res.Executed)
	assert.Equal(t, []string{ActionGreetPython}, spy.calls)
	require.NotNil(t, res.Action)
	assert.Equal(t, "display_notification", res.Action.Tag)

	got := rec.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, "Hello Kiran! (From Python)", got[0].Message)
	assert.NotContains(t, got[0].Message, "JS Controller")
}

func TestDefaultHandlerCanVeto(t *testing.T) {
	rec := &notify.Recorder{}
	spy := &spyExecutor{}
	veto := errors.New("record is read-only")
	f := &Form{
		Controller: &Controller{
			Notifier: rec,
			Default: func(context.Context, types.Student, ClickParams) (bool, error) {
				return false, veto
			},
		},
		Server: spy,
	}

	_, err := f.Click(context.Background(), types.Student{Name: "X"}, ClickParams{Name: ActionGreetPython})
	assert.ErrorIs(t, err, veto)
	assert.Empty(t, spy.calls)
	assert.Empty(t, rec.Notifications())
}

func TestUnknownServerAction(t *testing.T) {
	f, _, _ := newForm()

	_, err := f.Click(context.Background(), types.Student{Name: "X"}, ClickParams{Name: "action_archive"})
	assert.ErrorIs(t, err, ErrUnknownAction)
}

func TestServerSideGreetJSIsNoop(t *testing.T) {
	action, err := ServerActions{}.Execute(context.Background(), ActionGreetJS, types.Student{Name: "X"})
	require.NoError(t, err)
	assert.Nil(t, action)
}
