package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-dashboard/internal/chart"
	"github.com/aanand-mishra/students-dashboard/internal/dashboard"
	"github.com/aanand-mishra/students-dashboard/internal/form"
	"github.com/aanand-mishra/students-dashboard/internal/notify"
	"github.com/aanand-mishra/students-dashboard/internal/storage"
	"github.com/aanand-mishra/students-dashboard/internal/types"
)

type fakeQuerier struct{}

func (fakeQuerier) SearchCount(_ context.Context, domain storage.Domain) (int, error) {
	if len(domain) > 0 {
		return 1, nil
	}
	return 2, nil
}

func (fakeQuerier) ReadGroup(_ context.Context, _ storage.Domain, _ []string, groupBy []string) ([]storage.Group, error) {
	if groupBy[0] == "gender" {
		return []storage.Group{
			{"gender": "female", "gender_count": 1},
			{"gender": false, "gender_count": 1},
		}, nil
	}
	return []storage.Group{{"age": 16, "age_count": 2}}, nil
}

func (fakeQuerier) SearchRead(context.Context, storage.Domain, []string, storage.SearchOptions) ([]storage.Record, error) {
	return []storage.Record{
		{"id": int64(7), "name": "Asha", "admission_date": "2026-10-18", "gender": "female"},
		{"id": int64(3), "name": "Ravi", "admission_date": "2026-09-01", "gender": false},
	}, nil
}

type fakeRecords map[int64]types.Student

func (f fakeRecords) GetStudentByID(_ context.Context, id int64) (types.Student, error) {
	s, ok := f[id]
	if !ok {
		return types.Student{}, storage.ErrNotFound
	}
	return s, nil
}

func newTestModel(t *testing.T) (*Model, *notify.Center) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	center := notify.NewCenter(time.Minute)
	m := New(ctx, Deps{
		Loader:        dashboard.NewLoader(fakeQuerier{}, 5),
		Charts:        chart.Load,
		Records:       fakeRecords{7: {ID: 7, Name: "Asha", Gender: "female", AdmissionDate: "2026-10-18"}},
		Actions:       form.ServerActions{},
		Notifications: center,
	})
	return m, center
}

func nextEvent(t *testing.T, m *Model) tea.Msg {
	t.Helper()
	select {
	case msg := <-m.events:
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no event")
		return nil
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func loaded(t *testing.T) (*Model, *notify.Center) {
	t.Helper()
	m, center := newTestModel(t)
	m.comp.Start(m.ctx)

	msg := nextEvent(t, m)
	require.IsType(t, stateMsg{}, msg)
	m.Update(msg)
	require.False(t, m.state.Loading)
	return m, center
}

func TestDashboardScreen(t *testing.T) {
	m, _ := loaded(t)

	view := m.View()
	assert.Contains(t, view, "Total Students")
	assert.Contains(t, view, "New Admissions Today")
	assert.Contains(t, view, "Asha")
	assert.Contains(t, view, "Ravi")
	assert.Contains(t, view, "Unknown")
	assert.NotContains(t, view, "loading...")
	assert.Equal(t, 2, m.comp.LiveCharts())
	assert.NotEmpty(t, m.gender.Content())
	assert.NotEmpty(t, m.age.Content())
}

func TestCursorStaysInRange(t *testing.T) {
	m, _ := loaded(t)

	m.Update(key("k"))
	assert.Equal(t, 0, m.cursor)
	m.Update(key("j"))
	m.Update(key("j"))
	assert.Equal(t, 1, m.cursor)
}

func TestOpenStudentAndGreet(t *testing.T) {
	m, center := loaded(t)

	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	assert.Nil(t, cmd())

	msg := nextEvent(t, m)
	open, ok := msg.(openMsg)
	require.True(t, ok)
	assert.Equal(t, types.Model, open.Model)
	assert.EqualValues(t, 7, open.ResID)

	m.Update(m.loadStudent(open.ResID)())
	require.Equal(t, screenStudent, m.screen)
	assert.Contains(t, m.View(), "Asha")

	_, cmd = m.Update(key("g"))
	require.NotNil(t, cmd)
	click := cmd().(clickMsg)
	require.NoError(t, click.err)
	assert.False(t, click.result.Executed)
	m.Update(click)

	_, cmd = m.Update(key("p"))
	click = cmd().(clickMsg)
	require.NoError(t, click.err)
	assert.True(t, click.result.Executed)
	m.Update(click)

	active := center.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "Hello Asha! This is from the JS Controller.", active[0].Message)
	assert.Equal(t, "JS Success", active[0].Title)
	assert.Equal(t, "Hello Asha! (From Python)", active[1].Message)
	assert.Equal(t, "Python Greeting", active[1].Title)

	view := m.View()
	assert.Contains(t, view, "JS Success: Hello Asha! This is from the JS Controller.")

	m.Update(key("esc"))
	assert.Equal(t, screenDashboard, m.screen)
}

func TestOpenMissingStudentShowsError(t *testing.T) {
	m, _ := loaded(t)

	m.Update(key("j"))
	_, cmd := m.Update(key("enter"))
	cmd()
	open := nextEvent(t, m).(openMsg)

	m.Update(m.loadStudent(open.ResID)())
	assert.Equal(t, screenDashboard, m.screen)
	assert.Contains(t, m.View(), "error: "+storage.ErrNotFound.Error())
}

func TestQuitDisposes(t *testing.T) {
	m, _ := loaded(t)
	require.Equal(t, 2, m.comp.LiveCharts())

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 0, m.comp.LiveCharts())
	assert.Empty(t, m.gender.Content())
}
