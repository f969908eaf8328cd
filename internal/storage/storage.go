// Package storage defines the contracts any database backend must satisfy
// to work with this application.
//
// There are two of them:
//
//   - Storage: typed CRUD over student records, used by the REST handlers
//     and the website pages.
//
//   - Querier: the record query service: count, group-by-count and
//     search-read over loosely typed rows. The dashboard depends only on
//     this contract, so it runs unchanged against the local SQLite store or
//     against a remote server through the HTTP client.
//
// Handlers (HTTP layer) should not know or care which database they are
// talking to. Writing tests = pass a fake that satisfies the interface.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/students-dashboard/internal/types"
)

var (
	// ErrNotFound is returned when a record lookup by id matches nothing.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidField is returned when a domain, field list, group-by or
	// order clause names a field the student model does not have.
	ErrInvalidField = errors.New("invalid field")

	// ErrInvalidOperator is returned for a domain operator outside the
	// supported set.
	ErrInvalidOperator = errors.New("invalid operator")

	// ErrInvalidQuery covers every other malformed query (bad order
	// direction, wrong number of group-by fields, unknown model...).
	ErrInvalidQuery = errors.New("invalid query")
)

// Storage is the typed CRUD contract.
type Storage interface {
	// CreateStudent inserts a new student record and returns the auto-
	// generated primary-key ID.
	CreateStudent(ctx context.Context, student types.Student) (int64, error)

	// GetStudentByID fetches a single student by primary key.
	// Returns ErrNotFound (wrapped) if nothing matches.
	GetStudentByID(ctx context.Context, id int64) (types.Student, error)

	// GetStudents returns every student, ordered by id.
	// Returns an empty slice (not nil) if there are no students.
	GetStudents(ctx context.Context) ([]types.Student, error)

	// UpdateStudentByID replaces the fields of an existing student and
	// returns the stored record.
	UpdateStudentByID(ctx context.Context, id int64, student types.Student) (types.Student, error)

	// DeleteStudentByID removes a student record permanently.
	DeleteStudentByID(ctx context.Context, id int64) error
}

// Querier is the record query service contract.
type Querier interface {
	// SearchCount returns the number of records matching domain. An empty
	// domain counts everything.
	SearchCount(ctx context.Context, domain Domain) (int, error)

	// ReadGroup groups the records matching domain by the single field in
	// groupBy and returns one row per distinct value with its count.
	ReadGroup(ctx context.Context, domain Domain, fields []string, groupBy []string) ([]Group, error)

	// SearchRead returns the requested fields of the records matching
	// domain. An empty field list returns every field.
	SearchRead(ctx context.Context, domain Domain, fields []string, opts SearchOptions) ([]Record, error)
}

// Store is what the SQLite backend provides: both contracts.
type Store interface {
	Storage
	Querier
}

// SearchOptions limits and orders a SearchRead.
type SearchOptions struct {
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
	Order  string `json:"order,omitempty"`
}

// Record is one row of a SearchRead, keyed by field name. Unset optional
// values are reported as false, the way the host platform reports them.
type Record map[string]any

// Group is one row of a ReadGroup: the grouped value under the field name
// and the number of records under CountKey(field) or LegacyCountKey.
type Group map[string]any

// LegacyCountKey is the count key older hosts put on every group row.
const LegacyCountKey = "__count"

// CountKey returns the count key current hosts use for a group-by over
// field, e.g. "gender_count".
func CountKey(field string) string {
	return field + "_count"
}

// Int reads v as an integer. JSON numbers decode as float64, SQLite
// integers scan as int64; both are accepted. ok is false for anything
// that is not a number.
func Int(v any) (n int, ok bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case float64:
		return int(x), true
	case float32:
		return int(x), true
	case interface{ Int64() (int64, error) }: // json.Number
		i, err := x.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	default:
		return 0, false
	}
}
