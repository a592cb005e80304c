package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"course_api_backend/internal/model"
	"course_api_backend/internal/repository"
	"course_api_backend/internal/util"
	"course_api_backend/pkg/logger"
	"course_api_backend/pkg/tracing"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CatalogService 管理员维护课程目录
type CatalogService struct {
	DB         *gorm.DB
	CourseRepo *repository.CourseRepository
	Courses    *CourseService
}

func NewCatalogService(db *gorm.DB, courseRepo *repository.CourseRepository, courses *CourseService) *CatalogService {
	return &CatalogService{
		DB:         db,
		CourseRepo: courseRepo,
		Courses:    courses,
	}
}

type CreateCourseRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Premium bool   `json:"premium"`
}

type CreateLessonRequest struct {
	Title   string `json:"title" binding:"required,max=255"`
	Order   *int   `json:"order" binding:"omitempty,min=0"`
	Content string `json:"content"`
}

type OptionInput struct {
	Title   string `json:"title" binding:"required"`
	Correct bool   `json:"correct"`
}

type GroupInput struct {
	Title  string   `json:"title" binding:"required"`
	Values []string `json:"values"`
}

// CreateQuestionRequest text/boolean 的标准答案写在 text/boolean；
// single/multi 通过 options[].correct 标记；mapped 通过 groups[].values 给出每组的选项。
// ungraded 为 true 时不创建预设答案，该题不参与判分。
type CreateQuestionRequest struct {
	Title    string             `json:"title" binding:"required,max=500"`
	Order    int                `json:"order"`
	Type     model.QuestionType `json:"type" binding:"required"`
	Ungraded bool               `json:"ungraded"`
	Text     string             `json:"text"`
	Boolean  bool               `json:"boolean"`
	Options  []OptionInput      `json:"options" binding:"dive"`
	Groups   []GroupInput       `json:"groups" binding:"dive"`
}

func (s *CatalogService) CreateCourse(ctx context.Context, req *CreateCourseRequest) (*model.Course, error) {
	ctx, span := tracing.Start(ctx, "CatalogService.CreateCourse")
	defer span.End()

	course := &model.Course{Title: strings.TrimSpace(req.Title), Premium: req.Premium}
	if err := s.CourseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	logger.Log.Info("Course created", zap.Uint("courseId", course.ID))
	return course, nil
}

// DeleteCourse 级联删除课、题目、进度和答案
func (s *CatalogService) DeleteCourse(ctx context.Context, courseID uint) error {
	ctx, span := tracing.Start(ctx, "CatalogService.DeleteCourse")
	defer span.End()

	n, err := s.CourseRepo.Delete(ctx, courseID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %w", util.ErrNotFound, util.ErrCourseNotFound)
	}
	s.Courses.InvalidateScheme(ctx, courseID)
	logger.Log.Info("Course deleted", zap.Uint("courseId", courseID))
	return nil
}

// CreateLesson 未指定 order 时追加到课程末尾
func (s *CatalogService) CreateLesson(ctx context.Context, courseID uint, req *CreateLessonRequest) (*model.Lesson, error) {
	ctx, span := tracing.Start(ctx, "CatalogService.CreateLesson")
	defer span.End()

	if _, err := s.CourseRepo.FindByID(ctx, courseID); err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}

	lesson := &model.Lesson{CourseID: courseID, Title: strings.TrimSpace(req.Title), Content: req.Content}
	if req.Order != nil {
		lesson.Order = *req.Order
	} else {
		next, err := s.CourseRepo.NextLessonOrder(ctx, courseID)
		if err != nil {
			return nil, err
		}
		lesson.Order = next
	}

	if err := s.CourseRepo.CreateLesson(ctx, lesson); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %w", util.ErrConflict, util.ErrLessonOrderTaken)
		}
		return nil, err
	}
	s.Courses.InvalidateScheme(ctx, courseID)
	logger.Log.Info("Lesson created", zap.Uint("courseId", courseID), zap.Uint("lessonId", lesson.ID))
	return lesson, nil
}

// CreateQuestion 创建题目、预设答案、选项和分组
func (s *CatalogService) CreateQuestion(ctx context.Context, lessonID uint, req *CreateQuestionRequest) (*model.Question, error) {
	ctx, span := tracing.Start(ctx, "CatalogService.CreateQuestion")
	defer span.End()

	if err := validateQuestion(req); err != nil {
		return nil, err
	}
	lesson, err := s.CourseRepo.FindLesson(ctx, lessonID)
	if err != nil {
		return nil, notFound(err, util.ErrLessonNotFound)
	}

	q := &model.Question{LessonID: lessonID, Title: strings.TrimSpace(req.Title), Order: req.Order, Type: req.Type}
	if !req.Ungraded {
		q.PresetAnswer = &model.PresetAnswer{Text: req.Text, Boolean: req.Boolean}
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.CourseRepo.WithTx(tx)
		if err := repo.CreateQuestion(ctx, q); err != nil {
			return err
		}

		switch q.Type {
		case model.QuestionSingle, model.QuestionMulti:
			options := make([]model.PresetChoosableOption, 0, len(req.Options))
			for _, o := range req.Options {
				options = append(options, model.PresetChoosableOption{QuestionID: q.ID, Title: o.Title, IsCorrect: o.Correct})
			}
			if err := repo.CreateOptions(ctx, options); err != nil {
				return err
			}
			q.Options = options

		case model.QuestionMapped:
			for _, g := range req.Groups {
				group := model.PresetMappedOptionGroup{QuestionID: q.ID, Title: g.Title}
				if err := repo.CreateGroup(ctx, &group); err != nil {
					return err
				}
				values := make([]model.PresetMappedOption, 0, len(g.Values))
				for _, title := range g.Values {
					values = append(values, model.PresetMappedOption{QuestionID: q.ID, GroupID: group.ID, Title: title})
				}
				if err := repo.CreateMappedOptions(ctx, values); err != nil {
					return err
				}
				q.MappedGroups = append(q.MappedGroups, group)
				q.MappedOptions = append(q.MappedOptions, values...)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Courses.InvalidateScheme(ctx, lesson.CourseID)
	logger.Log.Info("Question created",
		zap.Uint("lessonId", lessonID),
		zap.Uint("questionId", q.ID),
		zap.String("type", string(q.Type)),
	)
	return q, nil
}

func validateQuestion(req *CreateQuestionRequest) error {
	if !req.Type.Valid() {
		return fmt.Errorf("%w: unknown question type %q", util.ErrValidation, req.Type)
	}
	if !req.Type.Choosable() && len(req.Options) > 0 {
		return fmt.Errorf("%w: %s question takes no options", util.ErrValidation, req.Type)
	}

	switch req.Type {
	case model.QuestionSingle, model.QuestionMulti:
		if len(req.Options) < 2 {
			return fmt.Errorf("%w: %s question needs at least two options", util.ErrValidation, req.Type)
		}
		correct := 0
		for _, o := range req.Options {
			if o.Correct {
				correct++
			}
		}
		if req.Ungraded {
			return nil
		}
		if req.Type == model.QuestionSingle && correct != 1 {
			return fmt.Errorf("%w: single question needs exactly one correct option", util.ErrValidation)
		}
		if req.Type == model.QuestionMulti && correct == 0 {
			return fmt.Errorf("%w: multi question needs at least one correct option", util.ErrValidation)
		}
	case model.QuestionMapped:
		if len(req.Groups) == 0 {
			return fmt.Errorf("%w: mapped question needs groups", util.ErrValidation)
		}
		for _, g := range req.Groups {
			if len(g.Values) == 0 {
				return fmt.Errorf("%w: group %q has no values", util.ErrValidation, g.Title)
			}
		}
	}
	return nil
}
