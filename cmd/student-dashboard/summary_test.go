package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-dashboard/internal/chart"
	"github.com/aanand-mishra/students-dashboard/internal/config"
	"github.com/aanand-mishra/students-dashboard/internal/dashboard"
	"github.com/aanand-mishra/students-dashboard/internal/storage"
)

func TestPrintSummary(t *testing.T) {
	st := dashboard.NewState()
	st.Loading = false
	st.TotalStudents = 3
	st.NewAdmissionsToday = 1
	st.GenderData = []dashboard.GenderCount{{Label: "Female", Count: 2}, {Label: "Unknown", Count: 1}}
	st.RecentAdmissions = []storage.Record{
		{"id": int64(3), "name": "Asha", "admission_date": "2026-10-18", "gender": "female"},
	}

	lib := chart.NewTerminal()
	var out bytes.Buffer
	require.NoError(t, printSummary(&out, lib, st, 40))

	text := out.String()
	assert.Contains(t, text, "Total Students: 3")
	assert.Contains(t, text, "New Admissions Today: 1")
	assert.Contains(t, text, "Unknown")
	assert.Contains(t, text, "Asha")
	assert.Contains(t, text, "Female")

	// No age groups: the chart is skipped, never drawn empty.
	assert.Contains(t, text, "Age Distribution\nNo data")
	assert.Equal(t, 0, lib.Live())
}

func TestOpenBackendNeedsServerURL(t *testing.T) {
	local, serverURL = false, ""
	cfg, err := loadConfigFrom(t, `
env: "dev"
storage_path: "unused.db"
http_server:
  address: "localhost:0"
`)
	require.NoError(t, err)

	_, err = openBackend(cfg)
	assert.ErrorContains(t, err, "no server url")

	serverURL = "http://localhost:8082"
	t.Cleanup(func() { serverURL = "" })
	b, err := openBackend(cfg)
	require.NoError(t, err)
	assert.NoError(t, b.Close())
}

func loadConfigFrom(t *testing.T, yaml string) (*config.Config, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	old := configPath
	configPath = path
	t.Cleanup(func() { configPath = old })
	return loadConfig()
}
