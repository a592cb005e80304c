package repository

import (
	"context"
	"course_api_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// WithTx 返回绑定到事务的仓储
func (r *AttemptRepository) WithTx(tx *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: tx}
}

func (r *AttemptRepository) Create(ctx context.Context, a *model.TestAttempt) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

// ListByLessonProgress 最近的尝试排在前面
func (r *AttemptRepository) ListByLessonProgress(ctx context.Context, userID, lessonProgressID uint) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND lesson_progress_id = ?", userID, lessonProgressID).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}
