package service

import (
	"bytes"
	"context"

	"course_api_backend/internal/progress"
	"course_api_backend/internal/repository"
	"course_api_backend/internal/util"
	"course_api_backend/pkg/logger"
	"course_api_backend/pkg/tracing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LessonService struct {
	DB         *gorm.DB
	CourseRepo *repository.CourseRepository
	Progress   *ProgressService
	Markdown   goldmark.Markdown
}

func NewLessonService(db *gorm.DB, courseRepo *repository.CourseRepository, progressService *ProgressService) *LessonService {
	return &LessonService{
		DB:         db,
		CourseRepo: courseRepo,
		Progress:   progressService,
		// 课文中的原始 HTML 不会被输出
		Markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Content 课文内容，只有当前可学的课才能读取
func (s *LessonService) Content(ctx context.Context, userID, lessonID uint) (*LessonContentView, error) {
	ctx, span := tracing.Start(ctx, "LessonService.Content")
	defer span.End()

	lesson, err := s.CourseRepo.FindLesson(ctx, lessonID)
	if err != nil {
		return nil, notFound(err, util.ErrLessonNotFound)
	}
	snap, err := s.Progress.snapshot(ctx, s.DB, userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}
	if !snap.Available(lesson.ID) {
		return nil, classify(progress.ErrLessonNotAvailable)
	}

	var buf bytes.Buffer
	if err := s.Markdown.Convert([]byte(lesson.Content), &buf); err != nil {
		return nil, err
	}

	return &LessonContentView{
		ID:       lesson.ID,
		CourseID: lesson.CourseID,
		Title:    lesson.Title,
		Order:    lesson.Order,
		Content:  lesson.Content,
		HTML:     buf.String(),
		State:    snap.StateOf(lesson.ID),
	}, nil
}

// CompleteContent 标记课文已读，测验随之开放
func (s *LessonService) CompleteContent(ctx context.Context, userID, lessonID uint) (*LessonStateView, error) {
	ctx, span := tracing.Start(ctx, "LessonService.CompleteContent")
	defer span.End()

	lesson, err := s.CourseRepo.FindLesson(ctx, lessonID)
	if err != nil {
		return nil, notFound(err, util.ErrLessonNotFound)
	}

	var view *LessonStateView
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		snap, err := s.Progress.snapshot(ctx, tx, userID, lesson.CourseID)
		if err != nil {
			return err
		}
		effects, err := snap.CompleteContent(lesson.ID)
		if err != nil {
			return err
		}
		if err := s.Progress.apply(ctx, s.Progress.ProgressRepo.WithTx(tx), effects); err != nil {
			return err
		}

		row := snap.Row(lesson.ID)
		view = &LessonStateView{
			LessonID:            lesson.ID,
			Title:               lesson.Title,
			Order:               lesson.Order,
			State:               progress.TestPending,
			LessonPartCompleted: true,
			TestPartCompleted:   row.TestPartCompleted,
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	logger.Log.Info("Lesson content completed",
		zap.Uint("userId", userID),
		zap.Uint("lessonId", lessonID),
	)
	return view, nil
}
