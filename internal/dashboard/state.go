// Package dashboard loads and draws the admissions dashboard: headline
// counts, gender and age breakdowns, the latest admissions, and two charts.
package dashboard

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/aanand-mishra/students-dashboard/internal/chart"
	"github.com/aanand-mishra/students-dashboard/internal/storage"
)

// GenderCount is one slice of the gender breakdown.
type GenderCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// AgeCount is one bar of the age breakdown. Age holds whatever the query
// service reported, or "N/A" when the row had no age.
type AgeCount struct {
	Age   any `json:"age"`
	Count int `json:"count"`
}

// State is everything the dashboard displays. The zero value (plus
// Loading) is the safe default every field falls back to.
type State struct {
	TotalStudents      int              `json:"total_students"`
	NewAdmissionsToday int              `json:"new_admissions_today"`
	GenderData         []GenderCount    `json:"gender_data"`
	AgeData            []AgeCount       `json:"age_data"`
	RecentAdmissions   []storage.Record `json:"recent_admissions"`
	Loading            bool             `json:"loading"`
}

// NewState is the state before anything is loaded.
func NewState() State {
	return State{
		GenderData:       []GenderCount{},
		AgeData:          []AgeCount{},
		RecentAdmissions: []storage.Record{},
		Loading:          true,
	}
}

// FormatLabel turns a categorical value into a display label: unset values
// (nil, false) read "Unknown", strings get their first letter capitalised.
func FormatLabel(v any) string {
	switch x := v.(type) {
	case nil:
		return "Unknown"
	case bool:
		if !x {
			return "Unknown"
		}
		return "true"
	case string:
		r, size := utf8.DecodeRuneInString(x)
		if r == utf8.RuneError {
			return x
		}
		return string(unicode.ToUpper(r)) + x[size:]
	default:
		return fmt.Sprint(x)
	}
}

// groupCount reads the record count of a group row. Hosts disagree on the
// key, so "<field>_count" is tried first, then "__count"; 0 otherwise.
func groupCount(g storage.Group, field string) int {
	for _, key := range []string{storage.CountKey(field), storage.LegacyCountKey} {
		if n, ok := storage.Int(g[key]); ok && n != 0 {
			return n
		}
	}
	return 0
}

// FieldText renders a record field for display; unset values are blank.
func FieldText(r storage.Record, field string) string {
	switch v := r[field].(type) {
	case nil:
		return ""
	case bool:
		if !v {
			return ""
		}
		return "true"
	case float64:
		return fmt.Sprint(int64(v))
	default:
		return fmt.Sprint(v)
	}
}

// RecordID extracts the id of a record, 0 if it has none.
func RecordID(r storage.Record) int64 {
	n, _ := storage.Int(r["id"])
	return int64(n)
}

// GenderChart is the proportion chart of the gender breakdown.
func GenderChart(st State) chart.Config {
	labels := make([]string, 0, len(st.GenderData))
	data := make([]float64, 0, len(st.GenderData))
	for _, d := range st.GenderData {
		labels = append(labels, d.Label)
		data = append(data, float64(d.Count))
	}
	return chart.Config{
		Type: chart.KindDoughnut,
		Data: chart.Data{
			Labels:   labels,
			Datasets: []chart.Dataset{{Data: data, BackgroundColor: chart.Palette}},
		},
		Options: chart.Options{LegendPosition: "bottom"},
	}
}

// AgeChart is the magnitude chart of the age breakdown: the value axis
// starts at zero and ticks are whole students.
func AgeChart(st State) chart.Config {
	labels := make([]string, 0, len(st.AgeData))
	data := make([]float64, 0, len(st.AgeData))
	for _, d := range st.AgeData {
		labels = append(labels, "Age "+ageText(d.Age))
		data = append(data, float64(d.Count))
	}
	return chart.Config{
		Type: chart.KindBar,
		Data: chart.Data{
			Labels: labels,
			Datasets: []chart.Dataset{{
				Label:           "Students",
				Data:            data,
				BackgroundColor: []string{chart.Palette[0]},
			}},
		},
		Options: chart.Options{BeginAtZero: true, TickPrecision: 0},
	}
}

func ageText(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprint(int64(f))
	}
	return fmt.Sprint(v)
}

// Snapshot is the dashboard as served over HTTP: the state plus the chart
// configurations a client can draw directly.
type Snapshot struct {
	State
	Charts SnapshotCharts `json:"charts"`
}

// SnapshotCharts holds the charts that have data.
type SnapshotCharts struct {
	Gender *chart.Config `json:"gender,omitempty"`
	Age    *chart.Config `json:"age,omitempty"`
}

// NewSnapshot builds the snapshot of st.
func NewSnapshot(st State) Snapshot {
	snap := Snapshot{State: st}
	if len(st.GenderData) > 0 {
		cfg := GenderChart(st)
		snap.Charts.Gender = &cfg
	}
	if len(st.AgeData) > 0 {
		cfg := AgeChart(st)
		snap.Charts.Age = &cfg
	}
	return snap
}
