package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"course_api_backend/internal/grading"
	"course_api_backend/internal/model"
	"course_api_backend/internal/progress"
	"course_api_backend/internal/repository"
	"course_api_backend/internal/util"
	"course_api_backend/pkg/logger"
	"course_api_backend/pkg/monitoring"
	"course_api_backend/pkg/tracing"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	msgTestPassed = "test passed, the next lesson is open if there is one"
	msgTestFailed = "test not passed, change your answers and try again"
)

// TestService 课后测验：查看题目、暂存答案、提交判分
type TestService struct {
	DB          *gorm.DB
	CourseRepo  *repository.CourseRepository
	AnswerRepo  *repository.AnswerRepository
	AttemptRepo *repository.AttemptRepository
	Progress    *ProgressService
}

func NewTestService(db *gorm.DB, courseRepo *repository.CourseRepository, answerRepo *repository.AnswerRepository,
	attemptRepo *repository.AttemptRepository, progressService *ProgressService) *TestService {
	return &TestService{
		DB:          db,
		CourseRepo:  courseRepo,
		AnswerRepo:  answerRepo,
		AttemptRepo: attemptRepo,
		Progress:    progressService,
	}
}

// Quiz 测验题目及选项，不含正确答案；仅在课文已读、测验未通过时开放
func (s *TestService) Quiz(ctx context.Context, userID, lessonID uint) (*QuizView, error) {
	ctx, span := tracing.Start(ctx, "TestService.Quiz")
	defer span.End()

	lesson, err := s.CourseRepo.FindLessonWithQuiz(ctx, lessonID)
	if err != nil {
		return nil, notFound(err, util.ErrLessonNotFound)
	}
	snap, err := s.Progress.snapshot(ctx, s.DB, userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}
	if err := snap.TestOpen(lesson.ID); err != nil {
		return nil, classify(err)
	}

	view := &QuizView{LessonID: lesson.ID, TestLen: lesson.TestLen(), Questions: make([]QuestionView, 0, len(lesson.Questions))}
	for i := range lesson.Questions {
		view.Questions = append(view.Questions, questionView(&lesson.Questions[i]))
	}
	return view, nil
}

// openTest 在事务中加载课、进度快照和本课进度行，并确认测验处于可提交状态
func (s *TestService) openTest(ctx context.Context, tx *gorm.DB, userID, lessonID uint) (*model.Lesson, *progress.Snapshot, *model.LessonPersonalProgress, error) {
	lesson, err := s.CourseRepo.WithTx(tx).FindLessonWithQuiz(ctx, lessonID)
	if err != nil {
		return nil, nil, nil, notFound(err, util.ErrLessonNotFound)
	}
	snap, err := s.Progress.snapshot(ctx, tx, userID, lesson.CourseID)
	if err != nil {
		return nil, nil, nil, err
	}
	row := snap.Row(lesson.ID)
	if row != nil && row.Completed {
		return nil, nil, nil, fmt.Errorf("%w: %w", util.ErrConflict, util.ErrTestAlreadyPassed)
	}
	if err := snap.TestOpen(lesson.ID); err != nil {
		return nil, nil, nil, err
	}
	return lesson, snap, row, nil
}

// SaveStage 暂存答案，不判分
func (s *TestService) SaveStage(ctx context.Context, userID, lessonID uint, req *SubmitRequest) (int, error) {
	ctx, span := tracing.Start(ctx, "TestService.SaveStage")
	defer span.End()

	saved := 0
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lesson, _, row, err := s.openTest(ctx, tx, userID, lessonID)
		if err != nil {
			return err
		}
		items, err := parseBatch(lesson, req.Answers)
		if err != nil {
			return err
		}
		if err := persistAnswers(ctx, s.AnswerRepo.WithTx(tx), userID, row.ID, items); err != nil {
			return err
		}
		saved = len(items)
		return nil
	})
	if err != nil {
		return 0, classify(err)
	}

	logger.Log.Info("Test answers saved",
		zap.Uint("userId", userID),
		zap.Uint("lessonId", lessonID),
		zap.Int("count", saved),
	)
	return saved, nil
}

// CompleteTest 保存本次提交（可为空），再按已保存的答案判分。
// 未答完时答案照常保存，但返回校验错误；判分未通过不是错误。
func (s *TestService) CompleteTest(ctx context.Context, userID, lessonID uint, req *SubmitRequest) (*TestResult, error) {
	ctx, span := tracing.Start(ctx, "TestService.CompleteTest")
	defer span.End()

	var (
		result     *TestResult
		incomplete error
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lesson, snap, row, err := s.openTest(ctx, tx, userID, lessonID)
		if err != nil {
			return err
		}

		answers := s.AnswerRepo.WithTx(tx)
		if req != nil && len(req.Answers) > 0 {
			items, err := parseBatch(lesson, req.Answers)
			if err != nil {
				return err
			}
			if err := persistAnswers(ctx, answers, userID, row.ID, items); err != nil {
				return err
			}
		}

		// 以数据库中的答案为准判分
		stored, err := answers.ListForLesson(ctx, userID, lesson.ID)
		if err != nil {
			return err
		}
		verdicts, answered, allCorrect := gradeLesson(lesson, stored)
		required := lesson.TestLen()

		out, err := snap.CompleteTest(lesson.ID, answered, required, allCorrect)
		if errors.Is(err, progress.ErrTestIncomplete) {
			incomplete = fmt.Errorf("%w (%d of %d answered)", err, answered, required)
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.Progress.apply(ctx, s.Progress.ProgressRepo.WithTx(tx), out.Effects); err != nil {
			return err
		}

		encoded, err := json.Marshal(verdicts)
		if err != nil {
			return err
		}
		attempt := &model.TestAttempt{
			UserID:           userID,
			LessonProgressID: row.ID,
			LessonID:         lesson.ID,
			Passed:           out.Passed,
			Answered:         answered,
			Required:         required,
			Verdicts:         datatypes.JSON(encoded),
		}
		if err := s.AttemptRepo.WithTx(tx).Create(ctx, attempt); err != nil {
			return err
		}

		result = &TestResult{
			Passed:          out.Passed,
			Message:         msgTestFailed,
			Answered:        answered,
			Required:        required,
			CourseCompleted: out.CourseFinish,
			AttemptID:       attempt.ID,
			Verdicts:        verdicts,
		}
		if out.Passed {
			result.Message = msgTestPassed
		}
		if out.NextLessonID != 0 {
			next := out.NextLessonID
			result.NextLessonID = &next
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if incomplete != nil {
		return nil, classify(incomplete)
	}

	s.record(userID, lessonID, result)
	return result, nil
}

func (s *TestService) record(userID, lessonID uint, result *TestResult) {
	if !result.Passed {
		monitoring.TestAttempts.WithLabelValues("failed").Inc()
		logger.Log.Info("Test attempt failed",
			zap.Uint("userId", userID),
			zap.Uint("lessonId", lessonID),
		)
		return
	}

	monitoring.TestAttempts.WithLabelValues("passed").Inc()
	monitoring.LessonsCompleted.Inc()
	if result.CourseCompleted {
		monitoring.CoursesCompleted.Inc()
	}
	logger.Log.Info("Lesson completed",
		zap.Uint("userId", userID),
		zap.Uint("lessonId", lessonID),
		zap.Bool("courseCompleted", result.CourseCompleted),
	)
}

// Attempts 本课的历史提交，最近的在前
func (s *TestService) Attempts(ctx context.Context, userID, lessonID uint) ([]model.TestAttempt, error) {
	ctx, span := tracing.Start(ctx, "TestService.Attempts")
	defer span.End()

	lesson, err := s.CourseRepo.FindLesson(ctx, lessonID)
	if err != nil {
		return nil, notFound(err, util.ErrLessonNotFound)
	}
	snap, err := s.Progress.snapshot(ctx, s.DB, userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}
	row := snap.Row(lesson.ID)
	if row == nil {
		return []model.TestAttempt{}, nil
	}
	return s.AttemptRepo.ListByLessonProgress(ctx, userID, row.ID)
}

// gradeLesson 只对有预设答案的题目判分；未作答的题目计为错误
func gradeLesson(lesson *model.Lesson, stored []model.Answer) ([]model.QuestionVerdict, int, bool) {
	byQuestion := make(map[uint]*model.Answer, len(stored))
	for i := range stored {
		byQuestion[stored[i].QuestionID] = &stored[i]
	}

	verdicts := make([]model.QuestionVerdict, 0, len(lesson.Questions))
	answered := 0
	allCorrect := true
	for i := range lesson.Questions {
		q := &lesson.Questions[i]
		if q.PresetAnswer == nil {
			continue
		}
		a, ok := byQuestion[q.ID]
		correct := false
		if ok {
			answered++
			correct = grading.JudgeAnswer(q, a)
		}
		if !correct {
			allCorrect = false
		}
		verdicts = append(verdicts, model.QuestionVerdict{QuestionID: q.ID, Correct: correct})
	}
	return verdicts, answered, allCorrect
}
