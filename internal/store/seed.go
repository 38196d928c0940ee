package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/javiermolinar/timetable/internal/grid"
)

// ErrAlreadySeeded is returned by Seed when the faculty already has groups.
var ErrAlreadySeeded = errors.New("faculty already has groups")

// Admin is the part of a store used to set up a faculty.
type Admin interface {
	EnsureFaculty(ctx context.Context, id int64, name string) error
	ListGroups(ctx context.Context, facultyID int64) ([]GroupInfo, error)
	CreateGroup(ctx context.Context, facultyID int64, name string) (int64, error)
	SaveHours(ctx context.Context, hours []grid.Hour) error
	CreateLesson(ctx context.Context, draft grid.LessonDraft) ([]grid.Placement, error)
}

var _ Admin = (*SQLite)(nil)

// Seed creates a demo faculty: the hour periods, three groups and a week of
// lessons covering every layout, including a merged lecture and a locked one.
func Seed(ctx context.Context, s Admin, facultyID int64, name string, hours []grid.Hour) error {
	if err := s.EnsureFaculty(ctx, facultyID, name); err != nil {
		return err
	}
	existing, err := s.ListGroups(ctx, facultyID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return ErrAlreadySeeded
	}
	if err := s.SaveHours(ctx, hours); err != nil {
		return err
	}
	if len(hours) == 0 {
		return fmt.Errorf("seeding lessons: %w", ErrHourNotFound)
	}

	var groups []int64
	for _, g := range []string{"CS-101", "CS-102", "MATH-201"} {
		id, err := s.CreateGroup(ctx, facultyID, g)
		if err != nil {
			return err
		}
		groups = append(groups, id)
	}

	hour := func(i int) int { return hours[i%len(hours)].ID }
	drafts := []grid.LessonDraft{
		{GroupIDs: groups[:2], Day: 1, HourID: hour(0), Subject: "Calculus", LessonType: "lecture", Teacher: "Petrova", Room: "A-100", Week: grid.WeekPermanent, Locked: true},
		{GroupIDs: groups[:1], Day: 1, HourID: hour(1), Subject: "Programming", LessonType: "lab", Teacher: "Sokolov", Room: "L-3", Week: grid.WeekUpper},
		{GroupIDs: groups[:1], Day: 1, HourID: hour(1), Subject: "Discrete Math", LessonType: "practice", Teacher: "Orlova", Room: "B-12", Week: grid.WeekLower},
		{GroupIDs: groups[1:2], Day: 2, HourID: hour(0), Subject: "Physics", LessonType: "lecture", Teacher: "Volkov", Room: "A-210", Week: grid.WeekPermanent},
		{GroupIDs: groups[1:2], Day: 2, HourID: hour(1), Subject: "Physics", LessonType: "lab", Teacher: "Volkov", Room: "L-1", Week: grid.WeekUpper},
		{GroupIDs: groups[2:], Day: 3, HourID: hour(0), Subject: "Algebra", LessonType: "lecture", Teacher: "Kuznetsova", Room: "B-301", Week: grid.WeekPermanent},
		{GroupIDs: groups, Day: 4, HourID: hour(2), Subject: "History", LessonType: "lecture", Teacher: "Ivanov", Room: "Hall 1", Week: grid.WeekPermanent},
		{GroupIDs: groups[2:], Day: 5, HourID: hour(1), Subject: "English", LessonType: "practice", Teacher: "Smith", Room: "C-5", Week: grid.WeekLower},
	}
	for _, d := range drafts {
		if _, err := s.CreateLesson(ctx, d); err != nil {
			return fmt.Errorf("seeding %q: %w", d.Subject, err)
		}
	}

	return nil
}
