package repository

import (
	"context"
	"course_api_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

// WithTx 返回绑定到事务的仓储
func (r *ProgressRepository) WithTx(tx *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: tx}
}

func (r *ProgressRepository) FindCourseProgress(ctx context.Context, userID, courseID uint) (*model.CoursePersonalProgress, error) {
	var p model.CoursePersonalProgress
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&p).Error
	return &p, err
}

func (r *ProgressRepository) FindCourseProgressByID(ctx context.Context, id uint) (*model.CoursePersonalProgress, error) {
	var p model.CoursePersonalProgress
	err := r.DB.WithContext(ctx).First(&p, id).Error
	return &p, err
}

func (r *ProgressRepository) ListCourseProgressByUser(ctx context.Context, userID uint) ([]model.CoursePersonalProgress, error) {
	var list []model.CoursePersonalProgress
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&list).Error
	return list, err
}

// GetOrCreateCourseProgress 依赖 (user, course) 唯一约束，并发调用只有一个返回 created=true
func (r *ProgressRepository) GetOrCreateCourseProgress(ctx context.Context, userID, courseID uint) (*model.CoursePersonalProgress, bool, error) {
	row := model.CoursePersonalProgress{UserID: userID, CourseID: courseID}
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return &row, true, nil
	}
	existing, err := r.FindCourseProgress(ctx, userID, courseID)
	return existing, false, err
}

// GetOrCreateLessonProgress 依赖 (course_progress, lesson) 唯一约束
func (r *ProgressRepository) GetOrCreateLessonProgress(ctx context.Context, courseProgressID, lessonID uint) (*model.LessonPersonalProgress, bool, error) {
	row := model.LessonPersonalProgress{CourseProgressID: courseProgressID, LessonID: lessonID}
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 1 {
		return &row, true, nil
	}

	var existing model.LessonPersonalProgress
	err := r.DB.WithContext(ctx).
		Where("course_progress_id = ? AND lesson_id = ?", courseProgressID, lessonID).
		First(&existing).Error
	return &existing, false, err
}

func (r *ProgressRepository) ListLessonProgress(ctx context.Context, courseProgressID uint) ([]model.LessonPersonalProgress, error) {
	var rows []model.LessonPersonalProgress
	err := r.DB.WithContext(ctx).
		Where("course_progress_id = ?", courseProgressID).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) FindLessonProgress(ctx context.Context, id uint) (*model.LessonPersonalProgress, error) {
	var row model.LessonPersonalProgress
	err := r.DB.WithContext(ctx).First(&row, id).Error
	return &row, err
}

// UpdateLessonFlags 覆盖三个完成标记。onlyIfIncomplete 时附加 completed=false 条件，
// 返回受影响行数，调用方据此判断是否抢到了这次完成。
func (r *ProgressRepository) UpdateLessonFlags(ctx context.Context, rowID uint, lessonPart, testPart, completed, onlyIfIncomplete bool) (int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.LessonPersonalProgress{}).Where("id = ?", rowID)
	if onlyIfIncomplete {
		q = q.Where("completed = ?", false)
	}
	res := q.Updates(map[string]interface{}{
		"lesson_part_completed": lessonPart,
		"test_part_completed":   testPart,
		"completed":             completed,
	})
	return res.RowsAffected, res.Error
}

func (r *ProgressRepository) DeleteLessonProgress(ctx context.Context, courseProgressID uint, lessonIDs []uint) error {
	if len(lessonIDs) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).
		Where("course_progress_id = ? AND lesson_id IN ?", courseProgressID, lessonIDs).
		Delete(&model.LessonPersonalProgress{}).Error
}

func (r *ProgressRepository) SetCourseCompleted(ctx context.Context, courseProgressID uint, completed bool) error {
	return r.DB.WithContext(ctx).Model(&model.CoursePersonalProgress{}).
		Where("id = ?", courseProgressID).
		Update("completed", completed).Error
}
