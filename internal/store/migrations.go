package store

import "fmt"

// migrate runs database migrations.
//
// A logical lesson is a schedule group: it carries the lesson fields and the
// lock flag. Each placement puts a schedule group into one student group's
// slot. A merged lesson is one schedule group placed for several groups, the
// non-primary placements pointing at the primary group through parent_group.
func (s *SQLite) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS faculties (
			id   INTEGER PRIMARY KEY,
			name TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS student_groups (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			faculty_id INTEGER NOT NULL REFERENCES faculties(id),
			name       TEXT NOT NULL,
			UNIQUE(faculty_id, name)
		);

		CREATE TABLE IF NOT EXISTS hours (
			id         INTEGER PRIMARY KEY,
			start_time TEXT NOT NULL,
			end_time   TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS schedules (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			faculty_id INTEGER NOT NULL REFERENCES faculties(id),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS schedule_groups (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			schedule_id INTEGER NOT NULL REFERENCES schedules(id),
			day         INTEGER NOT NULL CHECK(day BETWEEN 1 AND 5),
			hour_id     INTEGER NOT NULL REFERENCES hours(id),
			subject     TEXT NOT NULL,
			lesson_type TEXT NOT NULL,
			teacher     TEXT NOT NULL DEFAULT '',
			room        TEXT NOT NULL DEFAULT '',
			week_type   TEXT NOT NULL DEFAULT 'permanent' CHECK(week_type IN ('permanent', 'upper', 'lower')),
			locked      INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS placements (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			schedule_group_id INTEGER NOT NULL REFERENCES schedule_groups(id),
			group_id          INTEGER NOT NULL REFERENCES student_groups(id),
			parent_group      INTEGER REFERENCES student_groups(id),
			UNIQUE(schedule_group_id, group_id)
		);

		CREATE INDEX IF NOT EXISTS idx_placements_group ON placements(group_id);
		CREATE INDEX IF NOT EXISTS idx_schedule_groups_slot ON schedule_groups(day, hour_id);
	`

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("creating timetable tables: %w", err)
	}

	return nil
}
