package model

type QuestionType string

const (
	QuestionText    QuestionType = "text"
	QuestionBoolean QuestionType = "boolean"
	QuestionSingle  QuestionType = "single"
	QuestionMulti   QuestionType = "multi"
	QuestionMapped  QuestionType = "mapped"
)

func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionBoolean, QuestionSingle, QuestionMulti, QuestionMapped:
		return true
	}
	return false
}

// Choosable 单选/多选题
func (t QuestionType) Choosable() bool {
	return t == QuestionSingle || t == QuestionMulti
}

// swagger:model Question
type Question struct {
	RecordModel
	LessonID      uint                      `gorm:"not null;index" json:"lessonId"`
	Title         string                    `gorm:"size:500;not null" json:"title"`
	Order         int                       `gorm:"column:position;default:0" json:"order"`
	Type          QuestionType              `gorm:"column:question_type;size:20;not null" json:"type"`
	PresetAnswer  *PresetAnswer             `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	Options       []PresetChoosableOption   `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"options,omitempty"`
	MappedGroups  []PresetMappedOptionGroup `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"groups,omitempty"`
	MappedOptions []PresetMappedOption      `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"mappedOptions,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// PresetAnswer 判分依据。text/boolean 的标准答案直接存储在这里，
// 选择题和匹配题的标准答案由选项上的正确标记和选项所属分组决定。
type PresetAnswer struct {
	RecordModel
	QuestionID uint   `gorm:"not null;uniqueIndex" json:"questionId"`
	Text       string `gorm:"type:text" json:"text"`
	Boolean    bool   `gorm:"default:false" json:"boolean"`
}

func (PresetAnswer) TableName() string {
	return "preset_answers"
}

type PresetChoosableOption struct {
	RecordModel
	QuestionID uint   `gorm:"not null;index" json:"questionId"`
	Title      string `gorm:"size:255;not null" json:"title"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
}

func (PresetChoosableOption) TableName() string {
	return "preset_choosable_options"
}

type PresetMappedOptionGroup struct {
	RecordModel
	QuestionID uint   `gorm:"not null;index" json:"questionId"`
	Title      string `gorm:"size:255;not null" json:"title"`
}

func (PresetMappedOptionGroup) TableName() string {
	return "preset_mapped_option_groups"
}

type PresetMappedOption struct {
	RecordModel
	QuestionID uint                     `gorm:"not null;index" json:"questionId"`
	GroupID    uint                     `gorm:"not null;index" json:"-"`
	Group      *PresetMappedOptionGroup `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	Title      string                   `gorm:"size:255;not null" json:"title"`
}

func (PresetMappedOption) TableName() string {
	return "preset_mapped_options"
}
