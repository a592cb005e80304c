package service

import (
	"course_api_backend/internal/model"
	"course_api_backend/internal/progress"
)

// 以下视图只暴露题目结构，不包含任何正确答案

type OptionView struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

type QuestionView struct {
	ID      uint               `json:"id"`
	Title   string             `json:"title"`
	Order   int                `json:"order"`
	Type    model.QuestionType `json:"type"`
	Graded  bool               `json:"graded"`
	Options []OptionView       `json:"options,omitempty"`
	Values  []OptionView       `json:"values,omitempty"`
	Groups  []OptionView       `json:"groups,omitempty"`
}

type LessonSchemeView struct {
	ID        uint           `json:"id"`
	Title     string         `json:"title"`
	Order     int            `json:"order"`
	Questions []QuestionView `json:"questions"`
}

type CourseSchemeView struct {
	ID      uint               `json:"id"`
	Title   string             `json:"title"`
	Premium bool               `json:"premium"`
	Lessons []LessonSchemeView `json:"lessons"`
}

type CourseListItem struct {
	ID        uint   `json:"id"`
	Title     string `json:"title"`
	Premium   bool   `json:"premium"`
	Started   bool   `json:"started"`
	Completed bool   `json:"completed"`
}

type LessonStateView struct {
	LessonID            uint           `json:"lessonId"`
	Title               string         `json:"title"`
	Order               int            `json:"order"`
	State               progress.State `json:"state"`
	LessonPartCompleted bool           `json:"lessonPartCompleted"`
	TestPartCompleted   bool           `json:"testPartCompleted"`
}

type CourseProgressView struct {
	CourseProgressID uint              `json:"courseProgressId"`
	CourseID         uint              `json:"courseId"`
	Completed        bool              `json:"completed"`
	CurrentLessonID  *uint             `json:"currentLessonId"`
	Lessons          []LessonStateView `json:"lessons"`
}

type LessonContentView struct {
	ID       uint           `json:"id"`
	CourseID uint           `json:"courseId"`
	Title    string         `json:"title"`
	Order    int            `json:"order"`
	Content  string         `json:"content"`
	HTML     string         `json:"html"`
	State    progress.State `json:"state"`
}

type QuizView struct {
	LessonID  uint           `json:"lessonId"`
	TestLen   int            `json:"testLen"`
	Questions []QuestionView `json:"questions"`
}

type TestResult struct {
	Passed          bool                    `json:"passed"`
	Message         string                  `json:"message"`
	Answered        int                     `json:"answered"`
	Required        int                     `json:"required"`
	CourseCompleted bool                    `json:"courseCompleted"`
	NextLessonID    *uint                   `json:"nextLessonId,omitempty"`
	AttemptID       string                  `json:"attemptId"`
	Verdicts        []model.QuestionVerdict `json:"verdicts"`
}

func questionView(q *model.Question) QuestionView {
	v := QuestionView{
		ID:     q.ID,
		Title:  q.Title,
		Order:  q.Order,
		Type:   q.Type,
		Graded: q.PresetAnswer != nil,
	}
	switch q.Type {
	case model.QuestionSingle, model.QuestionMulti:
		for _, o := range q.Options {
			v.Options = append(v.Options, OptionView{ID: o.ID, Title: o.Title})
		}
	case model.QuestionMapped:
		for _, o := range q.MappedOptions {
			v.Values = append(v.Values, OptionView{ID: o.ID, Title: o.Title})
		}
		for _, g := range q.MappedGroups {
			v.Groups = append(v.Groups, OptionView{ID: g.ID, Title: g.Title})
		}
	}
	return v
}

func courseSchemeView(c *model.Course) *CourseSchemeView {
	v := &CourseSchemeView{ID: c.ID, Title: c.Title, Premium: c.Premium, Lessons: make([]LessonSchemeView, 0, len(c.Lessons))}
	for i := range c.Lessons {
		l := &c.Lessons[i]
		lv := LessonSchemeView{ID: l.ID, Title: l.Title, Order: l.Order, Questions: make([]QuestionView, 0, len(l.Questions))}
		for j := range l.Questions {
			lv.Questions = append(lv.Questions, questionView(&l.Questions[j]))
		}
		v.Lessons = append(v.Lessons, lv)
	}
	return v
}

func progressView(s *progress.Snapshot) *CourseProgressView {
	v := &CourseProgressView{
		CourseProgressID: s.Course.ID,
		CourseID:         s.Course.CourseID,
		Completed:        s.Course.Completed,
		Lessons:          make([]LessonStateView, 0, len(s.Lessons)),
	}
	if cur := s.Current(); !cur.Finished {
		id := cur.LessonID
		v.CurrentLessonID = &id
	}
	for _, l := range s.Lessons {
		lv := LessonStateView{LessonID: l.ID, Title: l.Title, Order: l.Order, State: s.StateOf(l.ID)}
		if row := s.Row(l.ID); row != nil {
			lv.LessonPartCompleted = row.LessonPartCompleted
			lv.TestPartCompleted = row.TestPartCompleted
		}
		v.Lessons = append(v.Lessons, lv)
	}
	return v
}
