package model

// swagger:model CoursePersonalProgress
type CoursePersonalProgress struct {
	RecordModel
	UserID    uint                     `gorm:"not null;uniqueIndex:uq_course_progress_user_course,priority:1" json:"userId"`
	CourseID  uint                     `gorm:"not null;uniqueIndex:uq_course_progress_user_course,priority:2" json:"courseId"`
	Course    *Course                  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	Completed bool                     `gorm:"default:false" json:"completed"`
	Lessons   []LessonPersonalProgress `gorm:"foreignKey:CourseProgressID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

func (CoursePersonalProgress) TableName() string {
	return "course_personal_progress"
}

// swagger:model LessonPersonalProgress
type LessonPersonalProgress struct {
	RecordModel
	CourseProgressID    uint          `gorm:"not null;uniqueIndex:uq_lesson_progress_course_lesson,priority:1" json:"courseProgressId"`
	LessonID            uint          `gorm:"not null;uniqueIndex:uq_lesson_progress_course_lesson,priority:2" json:"lessonId"`
	Lesson              *Lesson       `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"-"`
	LessonPartCompleted bool          `gorm:"default:false" json:"lessonPartCompleted"`
	TestPartCompleted   bool          `gorm:"default:false" json:"testPartCompleted"`
	Completed           bool          `gorm:"default:false" json:"completed"`
	Answers             []Answer      `gorm:"foreignKey:LessonProgressID;constraint:OnDelete:CASCADE" json:"-"`
	Attempts            []TestAttempt `gorm:"foreignKey:LessonProgressID;constraint:OnDelete:CASCADE" json:"-"`
}

func (LessonPersonalProgress) TableName() string {
	return "lesson_personal_progress"
}
