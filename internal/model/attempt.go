package model

import "gorm.io/datatypes"

// TestAttempt 每次“完成测试”请求的判分记录，不影响进度状态
// swagger:model TestAttempt
type TestAttempt struct {
	UUIDBase
	UserID           uint           `gorm:"not null;index" json:"userId"`
	LessonProgressID uint           `gorm:"not null;index" json:"lessonProgressId"`
	LessonID         uint           `gorm:"not null;index" json:"lessonId"`
	Passed           bool           `gorm:"default:false" json:"passed"`
	Answered         int            `json:"answered"`
	Required         int            `json:"required"`
	Verdicts         datatypes.JSON `json:"verdicts"`
}

func (TestAttempt) TableName() string {
	return "test_attempts"
}

// QuestionVerdict TestAttempt.Verdicts 中的单题结果
type QuestionVerdict struct {
	QuestionID uint `json:"questionId"`
	Correct    bool `json:"correct"`
}
