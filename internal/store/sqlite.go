// Package store provides the SQLite-backed source of truth for timetables.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/javiermolinar/timetable/internal/grid"
)

var (
	ErrFacultyNotFound = errors.New("faculty not found")
	ErrGroupNotFound   = errors.New("group not found")
	ErrHourNotFound    = errors.New("hour not found")
	ErrLessonNotFound  = errors.New("lesson not found")
)

// SQLite implements grid.Source using SQLite.
type SQLite struct {
	db *sql.DB
}

var _ grid.Source = (*SQLite)(nil)

// New creates a new SQLite store and runs migrations.
func New(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return newSQLite(db)
}

// newSQLite takes ownership of db and closes it when setup fails.
func newSQLite(db *sql.DB) (*SQLite, error) {
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// FetchGrid loads the faculty grid. Groups and hours outside non-empty
// filters are left out; a group without lessons is returned with no days.
func (s *SQLite) FetchGrid(ctx context.Context, facultyID int64, filters grid.Filters) (*grid.Faculty, error) {
	f := &grid.Faculty{ID: facultyID}
	err := s.db.QueryRowContext(ctx, `SELECT name FROM faculties WHERE id = ?`, facultyID).Scan(&f.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrFacultyNotFound, facultyID)
	}
	if err != nil {
		return nil, fmt.Errorf("querying faculty: %w", err)
	}

	groupQuery := `SELECT id, name FROM student_groups WHERE faculty_id = ?`
	groupArgs := []any{facultyID}
	if len(filters.GroupIDs) > 0 {
		groupQuery += ` AND id IN (` + placeholders(len(filters.GroupIDs)) + `)`
		groupArgs = appendArgs(groupArgs, filters.GroupIDs)
	}
	groupQuery += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, groupQuery, groupArgs...)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	byID := make(map[int64]*grid.Group)
	for rows.Next() {
		g := &grid.Group{Days: make(map[int]*grid.Day)}
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		f.Groups = append(f.Groups, g)
		byID[g.ID] = g
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}

	if err := s.loadLessons(ctx, f.ID, filters, byID); err != nil {
		return nil, err
	}

	return f, nil
}

func (s *SQLite) loadLessons(ctx context.Context, facultyID int64, filters grid.Filters, groups map[int64]*grid.Group) error {
	query := `
		SELECT p.group_id, sg.day, sg.hour_id, sg.schedule_id, sg.id,
		       sg.subject, sg.lesson_type, sg.teacher, sg.room, sg.week_type,
		       sg.locked, p.parent_group
		FROM placements p
		JOIN schedule_groups sg ON sg.id = p.schedule_group_id
		JOIN student_groups g ON g.id = p.group_id
		WHERE g.faculty_id = ?
	`
	args := []any{facultyID}
	if len(filters.GroupIDs) > 0 {
		query += ` AND p.group_id IN (` + placeholders(len(filters.GroupIDs)) + `)`
		args = appendArgs(args, filters.GroupIDs)
	}
	if len(filters.HourIDs) > 0 {
		query += ` AND sg.hour_id IN (` + placeholders(len(filters.HourIDs)) + `)`
		args = appendArgs(args, filters.HourIDs)
	}
	query += ` ORDER BY p.group_id, sg.day, sg.hour_id, p.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("querying lessons: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			groupID     int64
			day, hourID int
			e           grid.LessonEntry
			parent      sql.NullInt64
		)
		err := rows.Scan(
			&groupID,
			&day,
			&hourID,
			&e.ScheduleID,
			&e.ScheduleGroupID,
			&e.Subject,
			&e.LessonType,
			&e.Teacher,
			&e.Room,
			&e.Week,
			&e.Locked,
			&parent,
		)
		if err != nil {
			return fmt.Errorf("scanning lesson: %w", err)
		}
		if parent.Valid {
			e.ParentGroup = &parent.Int64
		}

		g, ok := groups[groupID]
		if !ok {
			continue
		}
		d, ok := g.Days[day]
		if !ok {
			d = &grid.Day{ID: day}
			g.Days[day] = d
		}
		// rows arrive ordered by hour within a day
		if n := len(d.Hours); n > 0 && d.Hours[n-1].HourID == hourID {
			d.Hours[n-1].Lessons = append(d.Hours[n-1].Lessons, &e)
		} else {
			d.Hours = append(d.Hours, &grid.HourSlot{HourID: hourID, Lessons: []*grid.LessonEntry{&e}})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating lessons: %w", err)
	}

	return nil
}

// CreateLesson persists a lesson for every group of the draft in one
// transaction. Placements after the first carry the primary group as parent.
func (s *SQLite) CreateLesson(ctx context.Context, draft grid.LessonDraft) ([]grid.Placement, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	primary := draft.GroupIDs[0]
	var facultyID int64
	err = tx.QueryRowContext(ctx, `SELECT faculty_id FROM student_groups WHERE id = ?`, primary).Scan(&facultyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrGroupNotFound, primary)
	}
	if err != nil {
		return nil, fmt.Errorf("querying group: %w", err)
	}

	for _, id := range draft.GroupIDs[1:] {
		var other int64
		err := tx.QueryRowContext(ctx, `SELECT faculty_id FROM student_groups WHERE id = ?`, id).Scan(&other)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && other != facultyID) {
			return nil, fmt.Errorf("%w: %d", ErrGroupNotFound, id)
		}
		if err != nil {
			return nil, fmt.Errorf("querying group: %w", err)
		}
	}

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM hours WHERE id = ?`, draft.HourID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("querying hour: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %d", ErrHourNotFound, draft.HourID)
	}

	result, err := tx.ExecContext(ctx, `INSERT INTO schedules (faculty_id) VALUES (?)`, facultyID)
	if err != nil {
		return nil, fmt.Errorf("inserting schedule: %w", err)
	}
	scheduleID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}

	result, err = tx.ExecContext(ctx, `
		INSERT INTO schedule_groups (
			schedule_id, day, hour_id, subject, lesson_type, teacher, room, week_type, locked
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		scheduleID,
		draft.Day,
		draft.HourID,
		draft.Subject,
		draft.LessonType,
		draft.Teacher,
		draft.Room,
		draft.Week,
		draft.Locked,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting schedule group: %w", err)
	}
	scheduleGroupID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO placements (schedule_group_id, group_id, parent_group) VALUES (?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	placements := make([]grid.Placement, 0, len(draft.GroupIDs))
	for i, groupID := range draft.GroupIDs {
		e := &grid.LessonEntry{
			ScheduleID:      scheduleID,
			ScheduleGroupID: scheduleGroupID,
			Subject:         draft.Subject,
			LessonType:      draft.LessonType,
			Teacher:         draft.Teacher,
			Room:            draft.Room,
			Week:            draft.Week,
			Locked:          draft.Locked,
		}
		var parent any
		if i > 0 {
			p := primary
			e.ParentGroup = &p
			parent = primary
		}
		if _, err := stmt.ExecContext(ctx, scheduleGroupID, groupID, parent); err != nil {
			return nil, fmt.Errorf("inserting placement for group %d: %w", groupID, err)
		}
		placements = append(placements, grid.Placement{Path: draft.Path(i), Entry: e})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return placements, nil
}

// UpdateLesson rewrites the lesson fields of id. Every placement sees the
// change since they share the schedule group. The slot is not moved.
func (s *SQLite) UpdateLesson(ctx context.Context, id grid.Identity, draft grid.LessonDraft) error {
	if err := draft.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE schedule_groups
		SET subject = ?, lesson_type = ?, teacher = ?, room = ?, week_type = ?
		WHERE id = ? AND schedule_id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		draft.Subject,
		draft.LessonType,
		draft.Teacher,
		draft.Room,
		draft.Week,
		id.ScheduleGroupID,
		id.ScheduleID,
	)
	if err != nil {
		return fmt.Errorf("updating lesson: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrLessonNotFound, id)
	}

	return nil
}

// DeleteLesson removes a schedule group with all its placements. The
// schedule is removed too once no group refers to it.
func (s *SQLite) DeleteLesson(ctx context.Context, scheduleGroupID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var scheduleID int64
	err = tx.QueryRowContext(ctx, `SELECT schedule_id FROM schedule_groups WHERE id = ?`, scheduleGroupID).Scan(&scheduleID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: schedule group %d", ErrLessonNotFound, scheduleGroupID)
	}
	if err != nil {
		return fmt.Errorf("querying schedule group: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM placements WHERE schedule_group_id = ?`, scheduleGroupID); err != nil {
		return fmt.Errorf("deleting placements: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_groups WHERE id = ?`, scheduleGroupID); err != nil {
		return fmt.Errorf("deleting schedule group: %w", err)
	}
	_, err = tx.ExecContext(ctx, `
		DELETE FROM schedules
		WHERE id = ? AND NOT EXISTS (SELECT 1 FROM schedule_groups WHERE schedule_id = ?)
	`, scheduleID, scheduleID)
	if err != nil {
		return fmt.Errorf("deleting schedule: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// SetLock locks or unlocks id.
func (s *SQLite) SetLock(ctx context.Context, id grid.Identity, locked bool) error {
	query := `UPDATE schedule_groups SET locked = ? WHERE id = ? AND schedule_id = ?`

	result, err := s.db.ExecContext(ctx, query, locked, id.ScheduleGroupID, id.ScheduleID)
	if err != nil {
		return fmt.Errorf("setting lock: %w", err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", ErrLessonNotFound, id)
	}

	return nil
}

// ListHours returns the hour periods ordered by id.
func (s *SQLite) ListHours(ctx context.Context) ([]grid.Hour, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, start_time, end_time FROM hours ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying hours: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var hours []grid.Hour
	for rows.Next() {
		var h grid.Hour
		if err := rows.Scan(&h.ID, &h.Start, &h.End); err != nil {
			return nil, fmt.Errorf("scanning hour: %w", err)
		}
		hours = append(hours, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hours: %w", err)
	}

	return hours, nil
}

// SaveHours inserts or updates hour periods.
func (s *SQLite) SaveHours(ctx context.Context, hours []grid.Hour) error {
	if len(hours) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO hours (id, start_time, end_time) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET start_time = excluded.start_time, end_time = excluded.end_time
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, h := range hours {
		if _, err := stmt.ExecContext(ctx, h.ID, h.Start, h.End); err != nil {
			return fmt.Errorf("saving hour %d: %w", h.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// EnsureFaculty creates the faculty if it does not exist and renames it otherwise.
func (s *SQLite) EnsureFaculty(ctx context.Context, id int64, name string) error {
	query := `
		INSERT INTO faculties (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`
	if _, err := s.db.ExecContext(ctx, query, id, name); err != nil {
		return fmt.Errorf("saving faculty: %w", err)
	}
	return nil
}

// CreateGroup adds a student group to a faculty and returns its id.
func (s *SQLite) CreateGroup(ctx context.Context, facultyID int64, name string) (int64, error) {
	result, err := s.db.ExecContext(ctx, `INSERT INTO student_groups (faculty_id, name) VALUES (?, ?)`, facultyID, name)
	if err != nil {
		return 0, fmt.Errorf("inserting group %q: %w", name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

// GroupInfo summarizes a student group.
type GroupInfo struct {
	ID      int64
	Name    string
	Lessons int
}

// ListGroups returns the groups of a faculty with their lesson counts.
func (s *SQLite) ListGroups(ctx context.Context, facultyID int64) ([]GroupInfo, error) {
	query := `
		SELECT g.id, g.name, COUNT(p.id)
		FROM student_groups g
		LEFT JOIN placements p ON p.group_id = g.id
		WHERE g.faculty_id = ?
		GROUP BY g.id, g.name
		ORDER BY g.id
	`

	rows, err := s.db.QueryContext(ctx, query, facultyID)
	if err != nil {
		return nil, fmt.Errorf("querying groups: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var groups []GroupInfo
	for rows.Next() {
		var g GroupInfo
		if err := rows.Scan(&g.ID, &g.Name, &g.Lessons); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating groups: %w", err)
	}

	return groups, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func appendArgs[T int | int64](args []any, values []T) []any {
	for _, v := range values {
		args = append(args, v)
	}
	return args
}
