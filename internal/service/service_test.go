package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"course_api_backend/internal/config"
	"course_api_backend/internal/model"
	"course_api_backend/internal/progress"
	"course_api_backend/internal/repository"
	"course_api_backend/internal/repository/testutil"
	"course_api_backend/internal/util"

	"gorm.io/gorm"
)

type services struct {
	db       *gorm.DB
	progress *ProgressService
	courses  *CourseService
	lessons  *LessonService
	tests    *TestService
	catalog  *CatalogService
	auth     *AuthService
}

func newServices(t *testing.T) *services {
	t.Helper()
	db := testutil.DB(t)

	courseRepo := repository.NewCourseRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	answerRepo := repository.NewAnswerRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = time.Hour
	cfg.Admin.Emails = []string{"root@example.com"}

	ps := NewProgressService(db, courseRepo, progressRepo)
	cs := NewCourseService(courseRepo, progressRepo, nil, time.Minute)
	return &services{
		db:       db,
		progress: ps,
		courses:  cs,
		lessons:  NewLessonService(db, courseRepo, ps),
		tests:    NewTestService(db, courseRepo, answerRepo, attemptRepo, ps),
		catalog:  NewCatalogService(db, courseRepo, cs),
		auth:     NewAuthService(repository.NewUserRepository(db), cfg),
	}
}

func raw(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func mapped(value, group uint) map[string]uint {
	return map[string]uint{"value": value, "group": group}
}

func l1Correct(t *testing.T, in *testutil.Intro) *SubmitRequest {
	return &SubmitRequest{Answers: []SubmittedAnswer{
		{Question: in.Text.ID, Answer: raw(t, "Paris")},
		{Question: in.Boolean.ID, Answer: raw(t, true)},
		{Question: in.Single.ID, Answer: raw(t, in.SingleRight.ID)},
	}}
}

func l2Correct(t *testing.T, in *testutil.Intro) *SubmitRequest {
	return &SubmitRequest{Answers: []SubmittedAnswer{
		{Question: in.Multi.ID, Answer: raw(t, []uint{in.MultiB.ID, in.MultiA.ID})},
		{Question: in.Mapped.ID, Answer: raw(t, []map[string]uint{
			mapped(in.Carrot.ID, in.GroupVeg.ID),
			mapped(in.Pear.ID, in.GroupFruit.ID),
			{"title": in.Apple.ID, "group": in.GroupFruit.ID},
		})},
	}}
}

func stateOf(v *CourseProgressView, lessonID uint) progress.State {
	for _, l := range v.Lessons {
		if l.LessonID == lessonID {
			return l.State
		}
	}
	return ""
}

func countRows(t *testing.T, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(m)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count %T: %v", m, err)
	}
	return n
}

func TestIntroCourseLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	in := testutil.SeedIntro(t, ctx, s.db)
	user := testutil.SeedUser(t, ctx, s.db, "u@example.com", model.Student)

	view, err := s.progress.StartCourse(ctx, user.ID, in.Course.ID)
	if err != nil {
		t.Fatalf("StartCourse: %v", err)
	}
	if view.CurrentLessonID == nil || *view.CurrentLessonID != in.L1.ID {
		t.Fatalf("current lesson = %v, want %d", view.CurrentLessonID, in.L1.ID)
	}
	if got := stateOf(view, in.L1.ID); got != progress.ContentPending {
		t.Fatalf("L1 state = %q, want %q", got, progress.ContentPending)
	}
	if got := stateOf(view, in.L2.ID); got != progress.Locked {
		t.Fatalf("L2 state = %q, want %q", got, progress.Locked)
	}
	if n := countRows(t, s.db, &model.LessonPersonalProgress{}, ""); n != 1 {
		t.Fatalf("lesson progress rows = %d, want 1", n)
	}

	if _, err := s.lessons.Content(ctx, user.ID, in.L2.ID); !errors.Is(err, util.ErrForbidden) {
		t.Fatalf("L2 content err = %v, want forbidden", err)
	}
	content, err := s.lessons.Content(ctx, user.ID, in.L1.ID)
	if err != nil {
		t.Fatalf("L1 content: %v", err)
	}
	if content.HTML == "" || content.Content != in.L1.Content {
		t.Fatalf("content = %+v", content)
	}

	if _, err := s.lessons.CompleteContent(ctx, user.ID, in.L1.ID); err != nil {
		t.Fatalf("CompleteContent L1: %v", err)
	}
	res, err := s.tests.CompleteTest(ctx, user.ID, in.L1.ID, l1Correct(t, in))
	if err != nil {
		t.Fatalf("CompleteTest L1: %v", err)
	}
	if !res.Passed || res.CourseCompleted || res.NextLessonID == nil || *res.NextLessonID != in.L2.ID {
		t.Fatalf("L1 result = %+v, want passed with next lesson %d", res, in.L2.ID)
	}

	view, err = s.progress.Summary(ctx, user.ID, in.Course.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if stateOf(view, in.L1.ID) != progress.Done || stateOf(view, in.L2.ID) != progress.ContentPending || view.Completed {
		t.Fatalf("after L1 = %+v", view)
	}

	if _, err := s.lessons.CompleteContent(ctx, user.ID, in.L2.ID); err != nil {
		t.Fatalf("CompleteContent L2: %v", err)
	}
	res, err = s.tests.CompleteTest(ctx, user.ID, in.L2.ID, l2Correct(t, in))
	if err != nil {
		t.Fatalf("CompleteTest L2: %v", err)
	}
	if !res.Passed || !res.CourseCompleted || res.NextLessonID != nil {
		t.Fatalf("L2 result = %+v, want course completed", res)
	}

	view, err = s.progress.Summary(ctx, user.ID, in.Course.ID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if !view.Completed || view.CurrentLessonID != nil {
		t.Fatalf("final progress = %+v, want completed with no current lesson", view)
	}
	if n := countRows(t, s.db, &model.LessonPersonalProgress{}, ""); n != 2 {
		t.Fatalf("lesson progress rows = %d, want 2", n)
	}
	if _, err := s.courses.Scheme(ctx, user.ID, in.Course.ID); !errors.Is(err, util.ErrForbidden) {
		t.Fatalf("scheme of completed course err = %v, want forbidden", err)
	}
}

func TestStartCourseTwiceConflicts(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	in := testutil.SeedIntro(t, ctx, s.db)
	user := testutil.SeedUser(t, ctx, s.db, "u@example.com", model.Student)

	if _, err := s.progress.StartCourse(ctx, user.ID, in.Course.ID); err != nil {
		t.Fatalf("first start: %v", err)
	}
	_, err := s.progress.StartCourse(ctx, user.ID, in.Course.ID)
	if !errors.Is(err, util.ErrConflict) || !errors.Is(err, util.ErrCourseStarted) {
		t.Fatalf("second start err = %v, want conflict", err)
	}
	if n := countRows(t, s.db, &model.CoursePersonalProgress{}, ""); n != 1 {
		t.Fatalf("course progress rows = %d, want 1", n)
	}
	if n := countRows(t, s.db, &model.LessonPersonalProgress{}, ""); n != 1 {
		t.Fatalf("lesson progress rows = %d, want 1", n)
	}
}

func TestStartCourseErrors(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	user := testutil.SeedUser(t, ctx, s.db, "u@example.com", model.Student)
	empty := testutil.SeedCourse(t, ctx, s.db, "Empty")

	if _, err := s.progress.StartCourse(ctx, user.ID, empty.ID); !errors.Is(err, util.ErrForbidden) {
		t.Fatalf("empty course err = %v, want forbidden", err)
	}
	if n := countRows(t, s.db, &model.CoursePersonalProgress{}, ""); n != 0 {
		t.Fatalf("course progress rows = %d, want 0", n)
	}
	if _, err := s.progress.StartCourse(ctx, user.ID, 9999); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("missing course err = %v, want not found", err)
	}
}

func TestFailedAttemptIsRetryable(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	in := testutil.SeedIntro(t, ctx, s.db)
	user := testutil.SeedUser(t, ctx, s.db, "u@example.com", model.Student)
	mustStartAndRead(t, s, user.ID, in)

	wrong := &SubmitRequest{Answers: []SubmittedAnswer{
		{Question: in.Text.ID, Answer: raw(t, "paris")},
		{Question: in.Boolean.ID, Answer: raw(t, true)},
		{Question: in.Single.ID, Answer: raw(t, in.SingleRight.ID)},
	}}
	res, err := s.tests.CompleteTest(ctx, user.ID, in.L1.ID, wrong)
	if err != nil {
		t.Fatalf("CompleteTest: %v", err)
	}
	if res.Passed {
		t.Fatalf("case-different text answer passed")
	}
	if len(res.Verdicts) != 3 || res.Verdicts[0].Correct || !res.Verdicts[1].Correct {
		t.Fatalf("verdicts = %+v", res.Verdicts)
	}

	view, _ := s.progress.Summary(ctx, user.ID, in.Course.ID)
	if stateOf(view, in.L1.ID) != progress.TestPending {
		t.Fatalf("L1 state after failure = %q, want %q", stateOf(view, in.L1.ID), progress.TestPending)
	}

	fix := &SubmitRequest{Answers: []SubmittedAnswer{{Question: in.Text.ID, Answer: raw(t, "Paris")}}}
	res, err = s.tests.CompleteTest(ctx, user.ID, in.L1.ID, fix)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !res.Passed {
		t.Fatalf("retry result = %+v, want passed", res)
	}

	attempts, err := s.tests.Attempts(ctx, user.ID, in.L1.ID)
	if err != nil {
		t.Fatalf("Attempts: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("attempts = %d, want 2", len(attempts))
	}

	if _, err := s.tests.CompleteTest(ctx, user.ID, in.L1.ID, nil); !errors.Is(err, util.ErrConflict) {
		t.Fatalf("completing a passed test err = %v, want conflict", err)
	}
}

func mustStartAndRead(t *testing.T, s *services, userID uint, in *testutil.Intro) {
	t.Helper()
	ctx := context.Background()
	if _, err := s.progress.StartCourse(ctx, userID, in.Course.ID); err != nil {
		t.Fatalf("StartCourse: %v", err)
	}
	if _, err := s.lessons.CompleteContent(ctx, userID, in.L1.ID); err != nil {
		t.Fatalf("CompleteContent: %v", err)
	}
}

func TestResubmissionOverwritesAnswer(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	in := testutil.SeedIntro(t, ctx, s.db)
	user := testutil.SeedUser(t, ctx, s.db, "u@example.com", model.Student)
	mustStartAndRead(t, s, user.ID, in)

	for _, v := range []string{"Rome", "Berlin", "Paris"} {
		req := &SubmitRequest{Answers: []SubmittedAnswer{{Question: in.Text.ID, Answer: raw(t, v)}}}
		if _, err := s.tests.SaveStage(ctx, user.ID, in.L1.ID, req); err != nil {
			t.Fatalf("SaveStage(%s): %v", v, err)
		}
	}

	var answers []model.Answer
	s.db.Where("user_id = ? AND question_id = ?", user.ID, in.Text.ID).Find(&answers)
	if len(answers) != 1 || answers[0].Text != "Paris" {
		t.Fatalf("answers = %+v, want one row with Paris", answers)
	}
}

func TestSaveStageRejectsWholeBatch(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	in := testutil.SeedIntro(t, ctx, s.db)
	user := testutil.SeedUser(t, ctx, s.db, "u@example.com", model.Student)
	mustStartAndRead(t, s, user.ID, in)

	cases := []struct {
		name string
		item SubmittedAnswer
	}{
		{"question of another lesson", SubmittedAnswer{Question: in.Multi.ID, Answer: raw(t, []uint{in.MultiA.ID})}},
		{"unknown question", SubmittedAnswer{Question: 424242, Answer: raw(t, "x")}},
		{"shape mismatch", SubmittedAnswer{Question: in.Boolean.ID, Answer: raw(t, "yes")}},
		{"foreign option", SubmittedAnswer{Question: in.Single.ID, Answer: raw(t, in.MultiA.ID)}},
		{"missing answer", SubmittedAnswer{Question: in.Single.ID}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &SubmitRequest{Answers: []SubmittedAnswer{
				{Question: in.Text.ID, Answer: raw(t, "Paris")},
				tc.item,
			}}
			if _, err := s.tests.SaveStage(ctx, user.ID, in.L1.ID, req); !errors.Is(err, util.ErrValidation) {
				t.Fatalf("err = %v, want validation error", err)
			}
			if n := countRows(t, s.db, &model.Answer{}, ""); n != 0 {
				t.Fatalf("answers persisted = %d, want 0", n)
			}
		})
	}
}

func TestTestRequiresReadContent(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	in := testutil.SeedIntro(t, ctx, s.db)
	user := testutil.SeedUser(t, ctx, s.db, "u@example.com", model.Student)

	req := &SubmitRequest{Answers: []SubmittedAnswer{{Question: in.Text.ID, Answer: raw(t, "Paris")}}}
	if _, err := s.tests.SaveStage(ctx, user.ID, in.L1.ID, req); !errors.Is(err, util.ErrForbidden) {
		t.Fatalf("save before start err = %v, want forbidden", err)
	}
	if _, err := s.progress.StartCourse(ctx, user.ID, in.Course.ID); err != nil {
		t.Fatalf("StartCourse: %v", err)
	}
	if _, err := s.tests.Quiz(ctx, user.ID, in.L1.ID); !errors.Is(err, util.ErrForbidden) {
		t.Fatalf("quiz before reading err = %v, want forbidden", err)
	}
	if _, err := s.tests.SaveStage(ctx, user.ID, in.L1.ID, req); !errors.Is(err, util.ErrForbidden) {
		t.Fatalf("save before reading err = %v, want forbidden", err)
	}

	if _, err := s.lessons.CompleteContent(ctx, user.ID, in.L1.ID); err != nil {
		t.Fatalf("CompleteContent: %v", err)
	}
	if _, err := s.lessons.CompleteContent(ctx, user.ID, in.L1.ID); !errors.Is(err, util.ErrConflict) {
		t.Fatalf("second CompleteContent err = %v, want conflict", err)
	}

	quiz, err := s.tests.Quiz(ctx, user.ID, in.L1.ID)
	if err != nil {
		t.Fatalf("Quiz: %v", err)
	}
	if quiz.TestLen != 3 || len(quiz.Questions) != 4 {
		t.Fatalf("quiz = %d graded of %d questions, want 3 of 4", quiz.TestLen, len(quiz.Questions))
	}
	if len(quiz.Questions[2].Options) != 2 {
		t.Fatalf("single question options = %+v", quiz.Questions[2].Options)
	}
}

func TestCompleteTestIncompleteKeepsAnswers(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	in := testutil.SeedIntro(t, ctx, s.db)
	user := testutil.SeedUser(t, ctx, s.db, "u@example.com", model.Student)
	mustStartAndRead(t, s, user.ID, in)

	req := &SubmitRequest{Answers: []SubmittedAnswer{{Question: in.Text.ID, Answer: raw(t, "Paris")}}}
	_, err := s.tests.CompleteTest(ctx, user.ID, in.L1.ID, req)
	if !errors.Is(err, util.ErrValidation) || !errors.Is(err, progress.ErrTestIncomplete) {
		t.Fatalf("err = %v, want incomplete validation error", err)
	}
	if n := countRows(t, s.db, &model.Answer{}, "user_id = ?", user.ID); n != 1 {
		t.Fatalf("answers = %d, want 1 kept", n)
	}
	if n := countRows(t, s.db, &model.TestAttempt{}, ""); n != 0 {
		t.Fatalf("attempts = %d, want 0", n)
	}
}

func passL1(t *testing.T, s *services, userID uint, in *testutil.Intro) {
	t.Helper()
	ctx := context.Background()
	mustStartAndRead(t, s, userID, in)
	res, err := s.tests.CompleteTest(ctx, userID, in.L1.ID, l1Correct(t, in))
	if err != nil || !res.Passed {
		t.Fatalf("pass L1 = (%+v, %v)", res, err)
	}
	if _, err := s.lessons.CompleteContent(ctx, userID, in.L2.ID); err != nil {
		t.Fatalf("CompleteContent L2: %v", err)
	}
}

func TestMultiAndMappedGradingThroughStorage(t *testing.T) {
	cases := []struct {
		name   string
		req    func(t *testing.T, in *testutil.Intro) *SubmitRequest
		passed bool
	}{
		{"exact sets in any order", l2Correct, true},
		{"multi subset", func(t *testing.T, in *testutil.Intro) *SubmitRequest {
			r := l2Correct(t, in)
			r.Answers[0].Answer = raw(t, []uint{in.MultiA.ID})
			return r
		}, false},
		{"multi superset", func(t *testing.T, in *testutil.Intro) *SubmitRequest {
			r := l2Correct(t, in)
			r.Answers[0].Answer = raw(t, []uint{in.MultiA.ID, in.MultiB.ID, in.MultiWrong.ID})
			return r
		}, false},
		{"mapped swapped group", func(t *testing.T, in *testutil.Intro) *SubmitRequest {
			r := l2Correct(t, in)
			r.Answers[1].Answer = raw(t, []map[string]uint{
				mapped(in.Carrot.ID, in.GroupFruit.ID),
				mapped(in.Pear.ID, in.GroupFruit.ID),
				mapped(in.Apple.ID, in.GroupVeg.ID),
			})
			return r
		}, false},
		{"mapped partial", func(t *testing.T, in *testutil.Intro) *SubmitRequest {
			r := l2Correct(t, in)
			r.Answers[1].Answer = raw(t, []map[string]uint{mapped(in.Carrot.ID, in.GroupVeg.ID)})
			return r
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := context.Background()
			s := newServices(t)
			in := testutil.SeedIntro(t, ctx, s.db)
			user := testutil.SeedUser(t, ctx, s.db, "u@example.com", model.Student)
			passL1(t, s, user.ID, in)

			res, err := s.tests.CompleteTest(ctx, user.ID, in.L2.ID, tc.req(t, in))
			if err != nil {
				t.Fatalf("CompleteTest: %v", err)
			}
			if res.Passed != tc.passed {
				t.Fatalf("Passed = %v, want %v (verdicts %+v)", res.Passed, tc.passed, res.Verdicts)
			}
		})
	}
}

func TestMappedResubmissionReplacesPairs(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	in := testutil.SeedIntro(t, ctx, s.db)
	user := testutil.SeedUser(t, ctx, s.db, "u@example.com", model.Student)
	passL1(t, s, user.ID, in)

	first := &SubmitRequest{Answers: []SubmittedAnswer{{Question: in.Mapped.ID, Answer: raw(t, []map[string]uint{
		mapped(in.Apple.ID, in.GroupVeg.ID),
		mapped(in.Pear.ID, in.GroupFruit.ID),
		mapped(in.Carrot.ID, in.GroupFruit.ID),
	})}}}
	if _, err := s.tests.SaveStage(ctx, user.ID, in.L2.ID, first); err != nil {
		t.Fatalf("SaveStage: %v", err)
	}

	res, err := s.tests.CompleteTest(ctx, user.ID, in.L2.ID, l2Correct(t, in))
	if err != nil {
		t.Fatalf("CompleteTest: %v", err)
	}
	if !res.Passed {
		t.Fatalf("old pairs leaked into the answer: %+v", res.Verdicts)
	}
}

func TestReopenRetractsLaterLessons(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	in := testutil.SeedIntro(t, ctx, s.db)
	user := testutil.SeedUser(t, ctx, s.db, "u@example.com", model.Student)
	passL1(t, s, user.ID, in)

	var row model.LessonPersonalProgress
	if err := s.db.Where("lesson_id = ?", in.L1.ID).First(&row).Error; err != nil {
		t.Fatalf("find L1 row: %v", err)
	}

	view, err := s.progress.Reopen(ctx, row.ID)
	if err != nil {
		t.Fatalf("Reopen: %v", err)
	}
	if view.CurrentLessonID == nil || *view.CurrentLessonID != in.L1.ID {
		t.Fatalf("current lesson = %v, want %d", view.CurrentLessonID, in.L1.ID)
	}
	if stateOf(view, in.L1.ID) != progress.ContentPending || stateOf(view, in.L2.ID) != progress.Locked {
		t.Fatalf("after reopen = %+v", view.Lessons)
	}
	if n := countRows(t, s.db, &model.LessonPersonalProgress{}, "lesson_id = ?", in.L2.ID); n != 0 {
		t.Fatalf("L2 rows = %d, want 0", n)
	}

	if _, err := s.progress.Reopen(ctx, row.ID); !errors.Is(err, util.ErrConflict) {
		t.Fatalf("reopening an open row err = %v, want conflict", err)
	}
	if _, err := s.progress.Reopen(ctx, 9999); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("missing row err = %v, want not found", err)
	}
}

func TestCatalogQuestionIsGradable(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	user := testutil.SeedUser(t, ctx, s.db, "u@example.com", model.Student)

	course, err := s.catalog.CreateCourse(ctx, &CreateCourseRequest{Title: "Sorting"})
	if err != nil {
		t.Fatalf("CreateCourse: %v", err)
	}
	lesson, err := s.catalog.CreateLesson(ctx, course.ID, &CreateLessonRequest{Title: "Groups", Content: "text"})
	if err != nil {
		t.Fatalf("CreateLesson: %v", err)
	}
	if lesson.Order != 1 {
		t.Fatalf("Order = %d, want 1", lesson.Order)
	}
	one := 1
	if _, err := s.catalog.CreateLesson(ctx, course.ID, &CreateLessonRequest{Title: "Dup", Order: &one}); !errors.Is(err, util.ErrConflict) {
		t.Fatalf("duplicate order err = %v, want conflict", err)
	}

	q, err := s.catalog.CreateQuestion(ctx, lesson.ID, &CreateQuestionRequest{
		Title: "Sort",
		Type:  model.QuestionMapped,
		Groups: []GroupInput{
			{Title: "odd", Values: []string{"1", "3"}},
			{Title: "even", Values: []string{"2"}},
		},
	})
	if err != nil {
		t.Fatalf("CreateQuestion: %v", err)
	}
	if len(q.MappedGroups) != 2 || len(q.MappedOptions) != 3 {
		t.Fatalf("question = %+v", q)
	}

	if _, err := s.progress.StartCourse(ctx, user.ID, course.ID); err != nil {
		t.Fatalf("StartCourse: %v", err)
	}
	if _, err := s.lessons.CompleteContent(ctx, user.ID, lesson.ID); err != nil {
		t.Fatalf("CompleteContent: %v", err)
	}
	pairs := make([]map[string]uint, 0, len(q.MappedOptions))
	for _, o := range q.MappedOptions {
		pairs = append(pairs, mapped(o.ID, o.GroupID))
	}
	res, err := s.tests.CompleteTest(ctx, user.ID, lesson.ID, &SubmitRequest{Answers: []SubmittedAnswer{
		{Question: q.ID, Answer: raw(t, pairs)},
	}})
	if err != nil {
		t.Fatalf("CompleteTest: %v", err)
	}
	if !res.Passed || !res.CourseCompleted {
		t.Fatalf("result = %+v, want passed and course completed", res)
	}

	if err := s.catalog.DeleteCourse(ctx, course.ID); err != nil {
		t.Fatalf("DeleteCourse: %v", err)
	}
	if n := countRows(t, s.db, &model.Answer{}, ""); n != 0 {
		t.Fatalf("answers after delete = %d, want 0", n)
	}
	if err := s.catalog.DeleteCourse(ctx, course.ID); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("second delete err = %v, want not found", err)
	}
}

func TestCatalogValidatesPresets(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)
	course := testutil.SeedCourse(t, ctx, s.db, "Go", 1)
	lessonID := course.Lessons[0].ID

	cases := []CreateQuestionRequest{
		{Title: "t", Type: "essay"},
		{Title: "t", Type: model.QuestionSingle, Options: []OptionInput{{Title: "a", Correct: true}, {Title: "b", Correct: true}}},
		{Title: "t", Type: model.QuestionMulti, Options: []OptionInput{{Title: "a"}, {Title: "b"}}},
		{Title: "t", Type: model.QuestionMapped},
		{Title: "t", Type: model.QuestionText, Text: "x", Options: []OptionInput{{Title: "a"}}},
	}
	for _, req := range cases {
		req := req
		if _, err := s.catalog.CreateQuestion(ctx, lessonID, &req); !errors.Is(err, util.ErrValidation) {
			t.Fatalf("CreateQuestion(%+v) err = %v, want validation error", req, err)
		}
	}
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	user, err := s.auth.Register(ctx, "Ann", "Ann@Example.com", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != model.Student || user.Email != "ann@example.com" {
		t.Fatalf("user = %+v", user)
	}
	if _, err := s.auth.Register(ctx, "Ann", "ann@example.com", "password123"); !errors.Is(err, util.ErrConflict) {
		t.Fatalf("duplicate register err = %v, want conflict", err)
	}

	admin, err := s.auth.Register(ctx, "Root", "root@example.com", "password123")
	if err != nil {
		t.Fatalf("Register admin: %v", err)
	}
	if admin.Role != model.Admin {
		t.Fatalf("Role = %q, want admin", admin.Role)
	}

	token, _, err := s.auth.Login(ctx, "ann@example.com", "password123")
	if err != nil || token == "" {
		t.Fatalf("Login = (%q, %v)", token, err)
	}
	claims, err := util.ParseJWT(token, "test-secret")
	if err != nil || claims.UserID != user.ID {
		t.Fatalf("claims = (%+v, %v)", claims, err)
	}
	if _, _, err := s.auth.Login(ctx, "ann@example.com", "wrong"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
}
