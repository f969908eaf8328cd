package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-dashboard/internal/client"
	"github.com/aanand-mishra/students-dashboard/internal/config"
	"github.com/aanand-mishra/students-dashboard/internal/dashboard"
	"github.com/aanand-mishra/students-dashboard/internal/form"
	"github.com/aanand-mishra/students-dashboard/internal/http/router"
	"github.com/aanand-mishra/students-dashboard/internal/storage"
	"github.com/aanand-mishra/students-dashboard/internal/storage/sqlite"
	"github.com/aanand-mishra/students-dashboard/internal/types"
)

var fixedNow = time.Date(2026, time.October, 18, 9, 30, 0, 0, time.Local)

func setup(t *testing.T) (*client.Client, *sqlite.SQLite) {
	t.Helper()

	cfg := &config.Config{StoragePath: filepath.Join(t.TempDir(), "students.db")}
	store, err := sqlite.New(cfg)
	require.NoError(t, err)
	store.Now = func() time.Time { return fixedNow }
	t.Cleanup(func() { store.Close() })

	ctx := context.Background()
	for _, s := range []types.Student{
		{Name: "Asha", Gender: types.GenderFemale, DOB: "2010-01-05"},
		{Name: "Ravi", DOB: "2009-03-01", AdmissionDate: "2026-09-01"},
		{Name: "Mira", Gender: types.GenderFemale, DOB: "2010-02-11"},
	} {
		_, err := store.CreateStudent(ctx, s)
		require.NoError(t, err)
	}

	srv := httptest.NewServer(router.New(store, dashboard.NewLoader(store, 5), form.ServerActions{}))
	t.Cleanup(srv.Close)

	c, err := client.New(srv.URL + "/")
	require.NoError(t, err)
	return c, store
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := client.New("localhost:8082")
	assert.Error(t, err)

	_, err = client.New("ftp://students")
	assert.Error(t, err)
}

func TestQueries(t *testing.T) {
	c, _ := setup(t)
	ctx := context.Background()

	n, err := c.SearchCount(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = c.SearchCount(ctx, storage.Domain{storage.Eq("admission_date", "2026-10-18")})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	groups, err := c.ReadGroup(ctx, nil, []string{"gender"}, []string{"gender"})
	require.NoError(t, err)
	assert.Equal(t, []storage.Group{
		{"gender": "female", "gender_count": float64(2)},
		{"gender": "male", "gender_count": float64(1)},
	}, groups)

	records, err := c.SearchRead(ctx, nil, []string{"name"}, storage.SearchOptions{Limit: 1, Order: "id desc"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Mira", records[0]["name"])
	assert.EqualValues(t, 3, dashboard.RecordID(records[0]))
}

func TestQueryErrors(t *testing.T) {
	c, _ := setup(t)
	ctx := context.Background()

	_, err := c.SearchCount(ctx, storage.Domain{storage.Eq("secret", 1)})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrInvalidQuery)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "invalid field")
	assert.Equal(t, "invalid_query", apiErr.Code)

	_, err = c.GetStudentByID(ctx, 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCancelledContext(t *testing.T) {
	c, _ := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.SearchCount(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStudentAndActions(t *testing.T) {
	c, _ := setup(t)
	ctx := context.Background()

	s, err := c.GetStudentByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Asha", s.Name)

	action, err := c.Execute(ctx, form.ActionGreetPython, s)
	require.NoError(t, err)
	require.NotNil(t, action)
	assert.Equal(t, "Python Greeting", action.Params.Title)
	assert.Equal(t, "Hello Asha! (From Python)", action.Params.Message)

	action, err = c.Execute(ctx, form.ActionGreetJS, s)
	require.NoError(t, err)
	assert.Nil(t, action)

	_, err = c.Execute(ctx, "action_archive", s)
	assert.ErrorIs(t, err, form.ErrUnknownAction)
	assert.NotErrorIs(t, err, storage.ErrNotFound)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	_, err = c.Execute(ctx, form.ActionGreetPython, types.Student{ID: 99, Name: "Gone"})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NotErrorIs(t, err, form.ErrUnknownAction)

	_, err = c.Execute(ctx, form.ActionGreetPython, types.Student{Name: "No ID"})
	assert.Error(t, err)
}

// The dashboard reads the same through the client as from the store.
func TestDashboardThroughClient(t *testing.T) {
	c, store := setup(t)
	ctx := context.Background()

	remote := dashboard.NewLoader(c, 5)
	remote.Now = store.Now
	local := dashboard.NewLoader(store, 5)
	local.Now = store.Now

	var got, want dashboard.State
	remote.Load(ctx, &got)
	local.Load(ctx, &want)

	assert.Equal(t, want.TotalStudents, got.TotalStudents)
	assert.Equal(t, want.NewAdmissionsToday, got.NewAdmissionsToday)
	assert.Equal(t, want.GenderData, got.GenderData)
	require.Len(t, got.AgeData, len(want.AgeData))
	for i := range want.AgeData {
		assert.Equal(t, want.AgeData[i].Count, got.AgeData[i].Count)
		assert.EqualValues(t, want.AgeData[i].Age, got.AgeData[i].Age)
	}
	require.Len(t, got.RecentAdmissions, 3)
	for i := range want.RecentAdmissions {
		assert.Equal(t, dashboard.RecordID(want.RecentAdmissions[i]), dashboard.RecordID(got.RecentAdmissions[i]))
		assert.Equal(t, dashboard.FieldText(want.RecentAdmissions[i], "name"), dashboard.FieldText(got.RecentAdmissions[i], "name"))
	}
}
