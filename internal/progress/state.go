// Package progress is the lesson progress state machine of one user in one course.
//
// Transitions are pure: they inspect a Snapshot and return the effects (follow-on writes)
// the caller must apply in a single transaction. Nothing here touches storage.
package progress

import (
	"errors"
	"sort"

	"course_api_backend/internal/model"
)

type State string

const (
	Locked         State = "locked"
	ContentPending State = "content-pending"
	TestPending    State = "test-pending"
	Done           State = "done"
)

var (
	ErrCourseEmpty             = errors.New("course has no lessons")
	ErrLessonNotInCourse       = errors.New("lesson does not belong to course")
	ErrLessonNotAvailable      = errors.New("lesson is not available")
	ErrContentAlreadyCompleted = errors.New("lesson content already completed")
	ErrTestNotAvailable        = errors.New("test is not available")
	ErrTestIncomplete          = errors.New("not all questions are answered")
	ErrLessonNotCompleted      = errors.New("lesson progress is not completed")
)

// Snapshot is one user's progress in one course together with the course's lesson order.
type Snapshot struct {
	Course  model.CoursePersonalProgress
	Lessons []model.Lesson
	Rows    []model.LessonPersonalProgress
}

// NewSnapshot orders lessons by position; rows keep whatever order they came in.
func NewSnapshot(course model.CoursePersonalProgress, lessons []model.Lesson, rows []model.LessonPersonalProgress) *Snapshot {
	ordered := make([]model.Lesson, len(lessons))
	copy(ordered, lessons)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })
	return &Snapshot{Course: course, Lessons: ordered, Rows: rows}
}

// Cursor points at the current lesson. Finished means there is no incomplete row left.
type Cursor struct {
	LessonID uint
	Finished bool
}

// Current is the first lesson, in lesson order, whose row exists and is not completed.
func (s *Snapshot) Current() Cursor {
	for _, l := range s.Lessons {
		row := s.Row(l.ID)
		if row != nil && !row.Completed {
			return Cursor{LessonID: l.ID}
		}
	}
	return Cursor{Finished: true}
}

func (s *Snapshot) Row(lessonID uint) *model.LessonPersonalProgress {
	for i := range s.Rows {
		if s.Rows[i].LessonID == lessonID {
			return &s.Rows[i]
		}
	}
	return nil
}

func (s *Snapshot) index(lessonID uint) int {
	for i, l := range s.Lessons {
		if l.ID == lessonID {
			return i
		}
	}
	return -1
}

func (s *Snapshot) Contains(lessonID uint) bool {
	return s.index(lessonID) >= 0
}

// First is the lowest-order lesson of the course.
func (s *Snapshot) First() (model.Lesson, bool) {
	if len(s.Lessons) == 0 {
		return model.Lesson{}, false
	}
	return s.Lessons[0], true
}

// Next is the lesson with the next-higher order after lessonID.
func (s *Snapshot) Next(lessonID uint) (model.Lesson, bool) {
	i := s.index(lessonID)
	if i < 0 || i+1 >= len(s.Lessons) {
		return model.Lesson{}, false
	}
	return s.Lessons[i+1], true
}

func (s *Snapshot) IsLast(lessonID uint) bool {
	i := s.index(lessonID)
	return i >= 0 && i == len(s.Lessons)-1
}

// Available reports whether the user may work on the lesson right now.
func (s *Snapshot) Available(lessonID uint) bool {
	if s.Course.Completed {
		return false
	}
	row := s.Row(lessonID)
	if row == nil || row.Completed {
		return false
	}
	cur := s.Current()
	return !cur.Finished && cur.LessonID == lessonID
}

func (s *Snapshot) StateOf(lessonID uint) State {
	row := s.Row(lessonID)
	switch {
	case row == nil:
		return Locked
	case row.Completed:
		return Done
	case !s.Available(lessonID):
		return Locked
	case !row.LessonPartCompleted:
		return ContentPending
	default:
		return TestPending
	}
}
