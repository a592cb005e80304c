package service

import (
	"errors"
	"fmt"

	"course_api_backend/internal/progress"
	"course_api_backend/internal/util"

	"gorm.io/gorm"
)

// classify 为状态机和存储层的错误加上 util 中的分类，控制器据此决定状态码
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, progress.ErrLessonNotInCourse):
		return fmt.Errorf("%w: %w", util.ErrNotFound, err)
	case errors.Is(err, progress.ErrCourseEmpty),
		errors.Is(err, progress.ErrLessonNotAvailable),
		errors.Is(err, progress.ErrTestNotAvailable):
		return fmt.Errorf("%w: %w", util.ErrForbidden, err)
	case errors.Is(err, progress.ErrContentAlreadyCompleted),
		errors.Is(err, progress.ErrLessonNotCompleted):
		return fmt.Errorf("%w: %w", util.ErrConflict, err)
	case errors.Is(err, progress.ErrTestIncomplete):
		return fmt.Errorf("%w: %w", util.ErrValidation, err)
	}
	return err
}

// notFound 把 gorm 的记录不存在转换为业务错误
func notFound(err error, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %w", util.ErrNotFound, sentinel)
	}
	return err
}
