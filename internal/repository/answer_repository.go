package repository

import (
	"context"
	"course_api_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// WithTx 返回绑定到事务的仓储
func (r *AnswerRepository) WithTx(tx *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: tx}
}

// GetOrCreate 每个 (user, question) 只有一行答案
func (r *AnswerRepository) GetOrCreate(ctx context.Context, userID, questionID, lessonProgressID uint) (*model.Answer, error) {
	row := model.Answer{UserID: userID, QuestionID: questionID, LessonProgressID: lessonProgressID}
	res := r.DB.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 1 {
		return &row, nil
	}

	var existing model.Answer
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&existing).Error
	return &existing, err
}

// SaveScalars 覆盖 text/boolean/single 字段，集合类答案通过 Replace* 处理
func (r *AnswerRepository) SaveScalars(ctx context.Context, a *model.Answer) error {
	return r.DB.WithContext(ctx).Model(a).
		Select("lesson_progress_id", "text", "boolean", "single_option_id").
		Updates(map[string]interface{}{
			"lesson_progress_id": a.LessonProgressID,
			"text":               a.Text,
			"boolean":            a.Boolean,
			"single_option_id":   a.SingleOptionID,
		}).Error
}

// ReplaceMultiOptions 先清空再写入，不做合并
func (r *AnswerRepository) ReplaceMultiOptions(ctx context.Context, a *model.Answer, options []model.PresetChoosableOption) error {
	assoc := r.DB.WithContext(ctx).Model(a).Association("MultiOptions")
	if err := assoc.Clear(); err != nil {
		return err
	}
	if len(options) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(a).Omit("MultiOptions.*").Association("MultiOptions").Append(options)
}

// GetOrCreateMappedAnswer 按 (user, value, group) 去重
func (r *AnswerRepository) GetOrCreateMappedAnswer(ctx context.Context, userID, valueID, groupID uint) (*model.MappedAnswer, error) {
	row := model.MappedAnswer{UserID: userID, ValueID: valueID, GroupID: groupID}
	res := r.DB.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 1 {
		return &row, nil
	}

	var existing model.MappedAnswer
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND value_id = ? AND group_id = ?", userID, valueID, groupID).
		First(&existing).Error
	return &existing, err
}

// ReplaceMappedAnswers 先清空再写入，不做合并
func (r *AnswerRepository) ReplaceMappedAnswers(ctx context.Context, a *model.Answer, mapped []model.MappedAnswer) error {
	assoc := r.DB.WithContext(ctx).Model(a).Association("MappedAnswers")
	if err := assoc.Clear(); err != nil {
		return err
	}
	if len(mapped) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Model(a).Omit("MappedAnswers.*").Association("MappedAnswers").Append(mapped)
}

// ListForLesson 用户在某课下的全部答案，带判分所需的关联
func (r *AnswerRepository) ListForLesson(ctx context.Context, userID, lessonID uint) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.WithContext(ctx).
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("answers.user_id = ? AND questions.lesson_id = ?", userID, lessonID).
		Preload("MultiOptions").
		Preload("MappedAnswers").
		Order("answers.id ASC").
		Find(&answers).Error
	return answers, err
}
