package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aanand-mishra/students-dashboard/internal/storage"
	"github.com/aanand-mishra/students-dashboard/internal/types"
)

// DefaultRecentLimit is how many recent admissions are listed.
const DefaultRecentLimit = 5

// Loader fills a State from the record query service.
type Loader struct {
	Records     storage.Querier
	RecentLimit int

	// Now is the local clock "today" is taken from.
	Now func() time.Time
}

// NewLoader returns a Loader over records with the default limit and the
// system clock.
func NewLoader(records storage.Querier, recentLimit int) *Loader {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &Loader{Records: records, RecentLimit: recentLimit, Now: time.Now}
}

// Today is the client's local calendar date as an ISO date string.
func (l *Loader) Today() string {
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	return now().Format(types.DateLayout)
}

// Load runs the five dashboard queries one after another: total count,
// today's admissions, gender groups, age groups, recent admissions.
//
// Each query fails on its own, panics included. A failed query is logged and its field is
// left at the default (0 or empty) while the others still load. Once ctx
// is done the queries not yet started are skipped. Load never panics and
// never returns an error; it does not touch st.Loading.
func (l *Loader) Load(ctx context.Context, st *State) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("dashboard: unexpected error while loading data",
				slog.String("error", fmt.Sprint(r)))
		}
	}()

	slog.Debug("dashboard: loading data")

	steps := []struct {
		name string
		run  func(context.Context, *State) error
	}{
		{"total students", l.loadTotal},
		{"admissions today", l.loadToday},
		{"gender distribution", l.loadGender},
		{"age distribution", l.loadAge},
		{"recent admissions", l.loadRecent},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			slog.Info("dashboard: load cancelled",
				slog.String("skipped_from", step.name),
				slog.String("error", err.Error()))
			return
		}
		if err := runStep(ctx, st, step.run); err != nil {
			slog.Warn("dashboard: failed to load "+step.name,
				slog.String("error", err.Error()))
		}
	}

	slog.Debug("dashboard: data loaded",
		slog.Int("total_students", st.TotalStudents),
		slog.Int("new_admissions_today", st.NewAdmissionsToday),
		slog.Int("gender_groups", len(st.GenderData)),
		slog.Int("age_groups", len(st.AgeData)),
		slog.Int("recent", len(st.RecentAdmissions)))
}

// runStep runs one query step, turning a panic into the step's error.
func runStep(ctx context.Context, st *State, run func(context.Context, *State) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return run(ctx, st)
}

func (l *Loader) loadTotal(ctx context.Context, st *State) error {
	n, err := l.Records.SearchCount(ctx, nil)
	if err != nil {
		return err
	}
	st.TotalStudents = n
	return nil
}

func (l *Loader) loadToday(ctx context.Context, st *State) error {
	n, err := l.Records.SearchCount(ctx, storage.Domain{storage.Eq("admission_date", l.Today())})
	if err != nil {
		return err
	}
	st.NewAdmissionsToday = n
	return nil
}

func (l *Loader) loadGender(ctx context.Context, st *State) error {
	groups, err := l.Records.ReadGroup(ctx, nil, []string{"gender"}, []string{"gender"})
	if err != nil {
		return err
	}

	data := make([]GenderCount, 0, len(groups))
	for _, g := range groups {
		data = append(data, GenderCount{
			Label: FormatLabel(g["gender"]),
			Count: groupCount(g, "gender"),
		})
	}
	st.GenderData = data
	return nil
}

func (l *Loader) loadAge(ctx context.Context, st *State) error {
	groups, err := l.Records.ReadGroup(ctx, nil, []string{"age"}, []string{"age"})
	if err != nil {
		return err
	}

	data := make([]AgeCount, 0, len(groups))
	for _, g := range groups {
		age, ok := g["age"]
		if !ok {
			age = "N/A"
		}
		data = append(data, AgeCount{Age: age, Count: groupCount(g, "age")})
	}
	st.AgeData = data
	return nil
}

func (l *Loader) loadRecent(ctx context.Context, st *State) error {
	limit := l.RecentLimit
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	recent, err := l.Records.SearchRead(ctx, nil, []string{"name", "admission_date", "gender"}, storage.SearchOptions{
		Limit: limit,
		Order: "id desc",
	})
	if err != nil {
		return err
	}
	if recent == nil {
		recent = []storage.Record{}
	}
	st.RecentAdmissions = recent
	return nil
}
