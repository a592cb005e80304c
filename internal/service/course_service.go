package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"course_api_backend/internal/repository"
	"course_api_backend/internal/util"
	"course_api_backend/pkg/logger"
	"course_api_backend/pkg/tracing"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
	Redis        *redis.Client
	CacheTTL     time.Duration
}

// NewCourseService rdb 为 nil 时不使用缓存
func NewCourseService(courseRepo *repository.CourseRepository, progressRepo *repository.ProgressRepository, rdb *redis.Client, cacheTTL time.Duration) *CourseService {
	return &CourseService{
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
		Redis:        rdb,
		CacheTTL:     cacheTTL,
	}
}

func schemeCacheKey(courseID uint) string {
	return fmt.Sprintf("course:scheme:%d", courseID)
}

// List 全部课程以及当前用户的开课/完成状态
func (s *CourseService) List(ctx context.Context, userID uint) ([]CourseListItem, error) {
	ctx, span := tracing.Start(ctx, "CourseService.List")
	defer span.End()

	courses, err := s.CourseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	progresses, err := s.ProgressRepo.ListCourseProgressByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed := make(map[uint]bool, len(progresses))
	for _, p := range progresses {
		completed[p.CourseID] = p.Completed
	}

	items := make([]CourseListItem, 0, len(courses))
	for _, c := range courses {
		done, started := completed[c.ID]
		items = append(items, CourseListItem{
			ID:        c.ID,
			Title:     c.Title,
			Premium:   c.Premium,
			Started:   started,
			Completed: done,
		})
	}
	return items, nil
}

// Scheme 课程结构（课和题目，不含答案），仅对已开课且未完成的用户开放
func (s *CourseService) Scheme(ctx context.Context, userID, courseID uint) (*CourseSchemeView, error) {
	ctx, span := tracing.Start(ctx, "CourseService.Scheme")
	defer span.End()

	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}
	cp, err := s.ProgressRepo.FindCourseProgress(ctx, userID, courseID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err != nil || cp.Completed {
		return nil, fmt.Errorf("%w: %w", util.ErrForbidden, util.ErrCourseUnavailable)
	}

	if view := s.cachedScheme(ctx, courseID); view != nil {
		return view, nil
	}

	course, err := s.CourseRepo.FindScheme(ctx, courseID)
	if err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}
	view := courseSchemeView(course)
	s.storeScheme(ctx, courseID, view)
	return view, nil
}

// InvalidateScheme 目录变更后清除缓存
func (s *CourseService) InvalidateScheme(ctx context.Context, courseID uint) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, schemeCacheKey(courseID)).Err(); err != nil {
		logger.Log.Warn("Failed to invalidate course scheme cache", zap.Uint("courseId", courseID), zap.Error(err))
	}
}

func (s *CourseService) cachedScheme(ctx context.Context, courseID uint) *CourseSchemeView {
	if s.Redis == nil {
		return nil
	}
	data, err := s.Redis.Get(ctx, schemeCacheKey(courseID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.Warn("Course scheme cache read failed", zap.Uint("courseId", courseID), zap.Error(err))
		}
		return nil
	}
	var view CourseSchemeView
	if err := json.Unmarshal(data, &view); err != nil {
		return nil
	}
	return &view
}

func (s *CourseService) storeScheme(ctx context.Context, courseID uint, view *CourseSchemeView) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, schemeCacheKey(courseID), data, s.CacheTTL).Err(); err != nil {
		logger.Log.Warn("Course scheme cache write failed", zap.Uint("courseId", courseID), zap.Error(err))
	}
}
