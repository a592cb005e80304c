package model

// swagger:model Course
type Course struct {
	RecordModel
	Title   string   `gorm:"size:255;not null" json:"title"`
	Premium bool     `gorm:"default:false" json:"premium"`
	Lessons []Lesson `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Lesson
type Lesson struct {
	RecordModel
	CourseID  uint       `gorm:"not null;uniqueIndex:uq_lesson_course_order,priority:1" json:"courseId"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Order     int        `gorm:"column:position;not null;uniqueIndex:uq_lesson_course_order,priority:2" json:"order"`
	Content   string     `gorm:"type:text" json:"content,omitempty"`
	Questions []Question `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// TestLen 有预设答案的题目数量，只有这些题目参与判分
func (l *Lesson) TestLen() int {
	n := 0
	for i := range l.Questions {
		if l.Questions[i].PresetAnswer != nil {
			n++
		}
	}
	return n
}
