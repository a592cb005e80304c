package model

// Answer 用户对某道题的答案，每个 (user, question) 只有一行，重复提交覆盖原值
// swagger:model Answer
type Answer struct {
	RecordModel
	UserID           uint                    `gorm:"not null;uniqueIndex:uq_answer_user_question,priority:1" json:"userId"`
	QuestionID       uint                    `gorm:"not null;uniqueIndex:uq_answer_user_question,priority:2" json:"questionId"`
	Question         *Question               `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	LessonProgressID uint                    `gorm:"not null;index" json:"lessonProgressId"`
	Text             string                  `gorm:"type:text" json:"text,omitempty"`
	Boolean          *bool                   `json:"boolean,omitempty"`
	SingleOptionID   *uint                   `json:"singleOptionId,omitempty"`
	SingleOption     *PresetChoosableOption  `gorm:"foreignKey:SingleOptionID;constraint:OnDelete:SET NULL" json:"-"`
	MultiOptions     []PresetChoosableOption `gorm:"many2many:answer_multi_options;constraint:OnDelete:CASCADE" json:"-"`
	MappedAnswers    []MappedAnswer          `gorm:"many2many:answer_mapped_answers;constraint:OnDelete:CASCADE" json:"-"`
}

func (Answer) TableName() string {
	return "answers"
}

// MappedAnswer 用户给出的 (选项, 分组) 配对，按 (user, value, group) 去重
type MappedAnswer struct {
	RecordModel
	UserID  uint                     `gorm:"not null;uniqueIndex:uq_mapped_answer_user_value_group,priority:1" json:"userId"`
	ValueID uint                     `gorm:"not null;uniqueIndex:uq_mapped_answer_user_value_group,priority:2" json:"value"`
	Value   *PresetMappedOption      `gorm:"foreignKey:ValueID;constraint:OnDelete:CASCADE" json:"-"`
	GroupID uint                     `gorm:"not null;uniqueIndex:uq_mapped_answer_user_value_group,priority:3" json:"group"`
	Group   *PresetMappedOptionGroup `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
}

func (MappedAnswer) TableName() string {
	return "mapped_answers"
}
