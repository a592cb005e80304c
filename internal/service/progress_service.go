package service

import (
	"context"
	"errors"
	"fmt"

	"course_api_backend/internal/progress"
	"course_api_backend/internal/repository"
	"course_api_backend/internal/util"
	"course_api_backend/pkg/logger"
	"course_api_backend/pkg/monitoring"
	"course_api_backend/pkg/tracing"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressService 负责开课、进度汇总和撤销完成，并统一执行状态机给出的写操作
type ProgressService struct {
	DB           *gorm.DB
	CourseRepo   *repository.CourseRepository
	ProgressRepo *repository.ProgressRepository
}

func NewProgressService(db *gorm.DB, courseRepo *repository.CourseRepository, progressRepo *repository.ProgressRepository) *ProgressService {
	return &ProgressService{
		DB:           db,
		CourseRepo:   courseRepo,
		ProgressRepo: progressRepo,
	}
}

// StartCourse 创建课程进度和第一课的进度行；重复开课返回 Conflict
func (s *ProgressService) StartCourse(ctx context.Context, userID, courseID uint) (*CourseProgressView, error) {
	ctx, span := tracing.Start(ctx, "ProgressService.StartCourse")
	defer span.End()

	var view *CourseProgressView
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courses := s.CourseRepo.WithTx(tx)
		progressRepo := s.ProgressRepo.WithTx(tx)

		if _, err := courses.FindByID(ctx, courseID); err != nil {
			return notFound(err, util.ErrCourseNotFound)
		}
		lessons, err := courses.ListLessons(ctx, courseID)
		if err != nil {
			return err
		}
		if len(lessons) == 0 {
			return progress.ErrCourseEmpty
		}

		cp, created, err := progressRepo.GetOrCreateCourseProgress(ctx, userID, courseID)
		if err != nil {
			return err
		}
		if !created {
			return fmt.Errorf("%w: %w", util.ErrConflict, util.ErrCourseStarted)
		}

		effects, err := progress.Start(cp.ID, lessons)
		if err != nil {
			return err
		}
		if err := s.apply(ctx, progressRepo, effects); err != nil {
			return err
		}

		snap, err := s.snapshot(ctx, tx, userID, courseID)
		if err != nil {
			return err
		}
		view = progressView(snap)
		return nil
	})
	if err != nil {
		result := "error"
		if errors.Is(err, util.ErrCourseStarted) {
			result = "conflict"
		}
		monitoring.CourseStarts.WithLabelValues(result).Inc()
		return nil, classify(err)
	}

	monitoring.CourseStarts.WithLabelValues("created").Inc()
	logger.Log.Info("Course started",
		zap.Uint("userId", userID),
		zap.Uint("courseId", courseID),
	)
	return view, nil
}

// Summary 每节课的状态、当前课和课程是否完成
func (s *ProgressService) Summary(ctx context.Context, userID, courseID uint) (*CourseProgressView, error) {
	ctx, span := tracing.Start(ctx, "ProgressService.Summary")
	defer span.End()

	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}
	snap, err := s.snapshot(ctx, s.DB, userID, courseID)
	if err != nil {
		return nil, err
	}
	return progressView(snap), nil
}

// Reopen 将已完成的课程进度行退回未完成，后续课的进度行被收回
func (s *ProgressService) Reopen(ctx context.Context, lessonProgressID uint) (*CourseProgressView, error) {
	ctx, span := tracing.Start(ctx, "ProgressService.Reopen")
	defer span.End()

	var view *CourseProgressView
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		progressRepo := s.ProgressRepo.WithTx(tx)

		row, err := progressRepo.FindLessonProgress(ctx, lessonProgressID)
		if err != nil {
			return notFound(err, util.ErrProgressNotFound)
		}
		cp, err := progressRepo.FindCourseProgressByID(ctx, row.CourseProgressID)
		if err != nil {
			return notFound(err, util.ErrProgressNotFound)
		}

		snap, err := s.snapshot(ctx, tx, cp.UserID, cp.CourseID)
		if err != nil {
			return err
		}
		effects, err := snap.Uncomplete(row.LessonID)
		if err != nil {
			return err
		}
		if err := s.apply(ctx, progressRepo, effects); err != nil {
			return err
		}

		snap, err = s.snapshot(ctx, tx, cp.UserID, cp.CourseID)
		if err != nil {
			return err
		}
		view = progressView(snap)
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	logger.Log.Info("Lesson progress reopened",
		zap.Uint("lessonProgressId", lessonProgressID),
		zap.Uint("courseId", view.CourseID),
	)
	return view, nil
}

// snapshot 读取用户在课程中的全部进度；未开课返回 Forbidden
func (s *ProgressService) snapshot(ctx context.Context, db *gorm.DB, userID, courseID uint) (*progress.Snapshot, error) {
	progressRepo := s.ProgressRepo.WithTx(db)
	cp, err := progressRepo.FindCourseProgress(ctx, userID, courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %w", util.ErrForbidden, util.ErrCourseUnavailable)
	}
	if err != nil {
		return nil, err
	}
	lessons, err := s.CourseRepo.WithTx(db).ListLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}
	rows, err := progressRepo.ListLessonProgress(ctx, cp.ID)
	if err != nil {
		return nil, err
	}
	return progress.NewSnapshot(*cp, lessons, rows), nil
}

// apply 在调用方的事务中执行状态机给出的写操作
func (s *ProgressService) apply(ctx context.Context, repo *repository.ProgressRepository, effects []progress.Effect) error {
	for _, e := range effects {
		switch e := e.(type) {
		case progress.CreateLessonProgress:
			if _, _, err := repo.GetOrCreateLessonProgress(ctx, e.CourseProgressID, e.LessonID); err != nil {
				return err
			}
		case progress.DeleteLessonProgress:
			if err := repo.DeleteLessonProgress(ctx, e.CourseProgressID, e.LessonIDs); err != nil {
				return err
			}
		case progress.SetCourseCompleted:
			if err := repo.SetCourseCompleted(ctx, e.CourseProgressID, e.Completed); err != nil {
				return err
			}
		case progress.UpdateLessonProgress:
			n, err := repo.UpdateLessonFlags(ctx, e.RowID, e.LessonPartCompleted, e.TestPartCompleted, e.Completed, e.OnlyIfIncomplete)
			if err != nil {
				return err
			}
			if e.OnlyIfIncomplete && n == 0 {
				return fmt.Errorf("%w: %w", util.ErrConflict, util.ErrProgressChanged)
			}
		default:
			return fmt.Errorf("unknown progress effect %T", e)
		}
	}
	return nil
}
