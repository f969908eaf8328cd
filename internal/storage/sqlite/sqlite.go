// Package sqlite is the SQLite record store. It implements both
// storage.Storage (typed CRUD) and storage.Querier (the record query
// service) on one database file whose schema comes from the embedded
// migrations in migrate.go.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aanand-mishra/students-dashboard/internal/config"
	"github.com/aanand-mishra/students-dashboard/internal/storage"
	"github.com/aanand-mishra/students-dashboard/internal/types"

	// registers the "sqlite3" database/sql driver
	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the storage.Store backed by one database file.
type SQLite struct {
	Db *sql.DB

	// Now is the clock used for computed age and the default admission
	// date. Tests replace it.
	Now func() time.Time

	// countKey is the key ReadGroup puts the per-group count under; empty
	// means storage.CountKey(field).
	countKey string
}

// New opens the SQLite database at cfg.StoragePath, applies pending
// migrations, and returns a ready-to-use *SQLite.
func New(cfg *config.Config) (*SQLite, error) {
	db, err := Open(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: %w", err)
	}

	s := &SQLite{Db: db, Now: time.Now}
	if cfg.QueryService.LegacyCountKey {
		s.countKey = storage.LegacyCountKey
	}
	return s, nil
}

// Open opens the database file with foreign keys and a busy timeout.
// sql.Open does NOT open a real connection yet; the ping does.
func Open(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite allows one writer
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}

// Close releases the connection pool.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

func (s *SQLite) today() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// nullable stores blank optional text as NULL so group-by reports it as
// "not set" rather than as an empty label.
func nullable(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

// ─────────────────────────────────────────────────────────────────────────────
// CreateStudent inserts a new row into the students table.
//
// Defaults are applied first (gender, admission date, active) and the age
// is computed from the date of birth. Placeholders (?) keep user input
// out of the SQL text.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) CreateStudent(ctx context.Context, student types.Student) (int64, error) {
	today := s.today()
	student.ApplyDefaults(today)
	student.Age = types.ComputeAge(student.DOB, today)

	stmt, err := s.Db.PrepareContext(ctx, `
		INSERT INTO students (name, dob, age, gender, email, phone, address, admission_date, active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		student.Name,
		nullable(student.DOB),
		student.Age,
		nullable(student.Gender),
		nullable(student.Email),
		nullable(student.Phone),
		nullable(student.Address),
		nullable(student.AdmissionDate),
		student.IsActive(),
	)
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: exec: %w", err)
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("CreateStudent: last insert id: %w", err)
	}

	return lastID, nil
}

const selectStudent = `SELECT id, name, dob, age, gender, email, phone, address, admission_date, active FROM students`

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanStudent(row scanner) (types.Student, error) {
	var (
		student                                          types.Student
		dob, gender, email, phone, address, admission sql.NullString
		active                                           bool
	)
	if err := row.Scan(
		&student.ID,
		&student.Name,
		&dob,
		&student.Age,
		&gender,
		&email,
		&phone,
		&address,
		&admission,
		&active,
	); err != nil {
		return types.Student{}, err
	}

	student.DOB = dob.String
	student.Gender = gender.String
	student.Email = email.String
	student.Phone = phone.String
	student.Address = address.String
	student.AdmissionDate = admission.String
	student.Active = &active
	return student, nil
}

// GetStudentByID fetches exactly one student row matched by primary key.
func (s *SQLite) GetStudentByID(ctx context.Context, id int64) (types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx, selectStudent+" WHERE id = ? LIMIT 1")
	if err != nil {
		return types.Student{}, fmt.Errorf("GetStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	student, err := scanStudent(stmt.QueryRowContext(ctx, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Student{}, fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
		}
		return types.Student{}, fmt.Errorf("GetStudentByID: scan: %w", err)
	}

	return student, nil
}

// GetStudents returns all student rows as a slice ordered by id.
func (s *SQLite) GetStudents(ctx context.Context) ([]types.Student, error) {
	stmt, err := s.Db.PrepareContext(ctx, selectStudent+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("GetStudents: prepare: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("GetStudents: query: %w", err)
	}
	defer rows.Close()

	students := make([]types.Student, 0)

	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, fmt.Errorf("GetStudents: scan row: %w", err)
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("GetStudents: rows iteration: %w", err)
	}

	return students, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// UpdateStudentByID replaces a student's data with the provided values.
// A blank gender, admission date or active flag keeps the stored value;
// the age is recomputed. Returns the updated student so the caller can
// echo it back.
// ─────────────────────────────────────────────────────────────────────────────
func (s *SQLite) UpdateStudentByID(ctx context.Context, id int64, student types.Student) (types.Student, error) {
	student.Age = types.ComputeAge(student.DOB, s.today())

	var active any
	if student.Active != nil {
		active = *student.Active
	}

	stmt, err := s.Db.PrepareContext(ctx, `
		UPDATE students
		SET name = ?, dob = ?, age = ?, gender = COALESCE(?, gender), email = ?, phone = ?, address = ?,
			admission_date = COALESCE(?, admission_date), active = COALESCE(?, active)
		WHERE id = ?`,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx,
		student.Name,
		nullable(student.DOB),
		student.Age,
		nullable(student.Gender),
		nullable(student.Email),
		nullable(student.Phone),
		nullable(student.Address),
		nullable(student.AdmissionDate),
		active,
		id,
	)
	if err != nil {
		return types.Student{}, fmt.Errorf("UpdateStudentByID: exec: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return types.Student{}, fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
	}

	return s.GetStudentByID(ctx, id)
}

// DeleteStudentByID removes a student row by primary key.
func (s *SQLite) DeleteStudentByID(ctx context.Context, id int64) error {
	stmt, err := s.Db.PrepareContext(ctx, "DELETE FROM students WHERE id = ?")
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: prepare: %w", err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("DeleteStudentByID: exec: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no student found with id %d: %w", id, storage.ErrNotFound)
	}

	return nil
}
