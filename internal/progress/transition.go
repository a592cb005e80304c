package progress

import "course_api_backend/internal/model"

// Effect is one write the caller performs to apply a transition.
type Effect interface {
	effect()
}

// CreateLessonProgress is a get-or-create keyed on (course progress, lesson).
type CreateLessonProgress struct {
	CourseProgressID uint
	LessonID         uint
}

// DeleteLessonProgress retracts access to the given lessons.
type DeleteLessonProgress struct {
	CourseProgressID uint
	LessonIDs        []uint
}

type SetCourseCompleted struct {
	CourseProgressID uint
	Completed        bool
}

// UpdateLessonProgress overwrites the flags of a row. With OnlyIfIncomplete the write
// applies only while the row is still not completed, so of two racing completions one loses.
type UpdateLessonProgress struct {
	RowID               uint
	LessonPartCompleted bool
	TestPartCompleted   bool
	Completed           bool
	OnlyIfIncomplete    bool
}

func (CreateLessonProgress) effect() {}
func (DeleteLessonProgress) effect() {}
func (SetCourseCompleted) effect()   {}
func (UpdateLessonProgress) effect() {}

// Start provisions the first lesson row of a freshly created course progress.
func Start(courseProgressID uint, lessons []model.Lesson) ([]Effect, error) {
	s := NewSnapshot(model.CoursePersonalProgress{}, lessons, nil)
	first, ok := s.First()
	if !ok {
		return nil, ErrCourseEmpty
	}
	return []Effect{CreateLessonProgress{CourseProgressID: courseProgressID, LessonID: first.ID}}, nil
}

// CompleteContent marks the text part of an available lesson as read.
func (s *Snapshot) CompleteContent(lessonID uint) ([]Effect, error) {
	if !s.Contains(lessonID) {
		return nil, ErrLessonNotInCourse
	}
	if !s.Available(lessonID) {
		return nil, ErrLessonNotAvailable
	}
	row := s.Row(lessonID)
	if row.LessonPartCompleted {
		return nil, ErrContentAlreadyCompleted
	}
	return []Effect{UpdateLessonProgress{
		RowID:               row.ID,
		LessonPartCompleted: true,
		TestPartCompleted:   row.TestPartCompleted,
		Completed:           false,
		OnlyIfIncomplete:    true,
	}}, nil
}

// TestOpen reports whether the lesson's quiz can be viewed, saved or submitted.
func (s *Snapshot) TestOpen(lessonID uint) error {
	if !s.Contains(lessonID) {
		return ErrLessonNotInCourse
	}
	if s.StateOf(lessonID) != TestPending {
		return ErrTestNotAvailable
	}
	return nil
}

// Outcome of a complete-test request. A failed grading is not an error.
type Outcome struct {
	Passed       bool
	CourseFinish bool
	NextLessonID uint
	Effects      []Effect
}

// CompleteTest advances the lesson to done when every question is answered and passed.
func (s *Snapshot) CompleteTest(lessonID uint, answered, testLen int, passed bool) (Outcome, error) {
	if err := s.TestOpen(lessonID); err != nil {
		return Outcome{}, err
	}
	if answered != testLen {
		return Outcome{}, ErrTestIncomplete
	}
	if !passed {
		return Outcome{Passed: false}, nil
	}

	row := s.Row(lessonID)
	out := Outcome{Passed: true}
	out.Effects = append(out.Effects, UpdateLessonProgress{
		RowID:               row.ID,
		LessonPartCompleted: true,
		TestPartCompleted:   true,
		Completed:           true,
		OnlyIfIncomplete:    true,
	})

	if next, ok := s.Next(lessonID); ok {
		out.NextLessonID = next.ID
		out.Effects = append(out.Effects, CreateLessonProgress{CourseProgressID: s.Course.ID, LessonID: next.ID})
	} else {
		out.CourseFinish = true
		out.Effects = append(out.Effects, SetCourseCompleted{CourseProgressID: s.Course.ID, Completed: true})
	}
	return out, nil
}

// Uncomplete rolls a completed lesson back so that it becomes the current lesson again.
// Rows of every later lesson are retracted; the course row is reopened.
func (s *Snapshot) Uncomplete(lessonID uint) ([]Effect, error) {
	if !s.Contains(lessonID) {
		return nil, ErrLessonNotInCourse
	}
	row := s.Row(lessonID)
	if row == nil || !row.Completed {
		return nil, ErrLessonNotCompleted
	}

	effects := []Effect{UpdateLessonProgress{RowID: row.ID}}

	if !s.IsLast(lessonID) {
		var later []uint
		for i := s.index(lessonID) + 1; i < len(s.Lessons); i++ {
			if s.Row(s.Lessons[i].ID) != nil {
				later = append(later, s.Lessons[i].ID)
			}
		}
		if len(later) > 0 {
			effects = append(effects, DeleteLessonProgress{CourseProgressID: s.Course.ID, LessonIDs: later})
		}
	}
	if s.IsLast(lessonID) || s.Course.Completed {
		effects = append(effects, SetCourseCompleted{CourseProgressID: s.Course.ID, Completed: false})
	}
	return effects, nil
}
