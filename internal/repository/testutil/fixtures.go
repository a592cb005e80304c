package testutil

import (
	"context"
	"testing"

	"course_api_backend/internal/model"

	"gorm.io/gorm"
)

// Intro 是两节课的示例课程：
// L1 含 text/boolean/single 三题，L2 含 multi/mapped 两题，外加一道无预设答案的题。
type Intro struct {
	Course model.Course
	L1, L2 model.Lesson

	Text, Boolean, Single   model.Question
	Multi, Mapped, Ungraded model.Question

	SingleRight, SingleWrong   model.PresetChoosableOption
	MultiA, MultiB, MultiWrong model.PresetChoosableOption
	GroupFruit, GroupVeg       model.PresetMappedOptionGroup
	Apple, Pear, Carrot        model.PresetMappedOption
}

func SeedUser(tb testing.TB, ctx context.Context, db *gorm.DB, email string, role model.UserRole) *model.User {
	tb.Helper()
	u := &model.User{Name: "tester", Email: email, Password: "x", Role: role}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCourse(tb testing.TB, ctx context.Context, db *gorm.DB, title string, orders ...int) *model.Course {
	tb.Helper()
	c := &model.Course{Title: title}
	for _, o := range orders {
		c.Lessons = append(c.Lessons, model.Lesson{Title: title, Order: o, Content: "# " + title})
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedIntro(tb testing.TB, ctx context.Context, db *gorm.DB) *Intro {
	tb.Helper()
	in := &Intro{}
	must := func(err error, what string) {
		tb.Helper()
		if err != nil {
			tb.Fatalf("seed %s: %v", what, err)
		}
	}
	db = db.WithContext(ctx)

	in.Course = model.Course{Title: "Intro"}
	must(db.Create(&in.Course).Error, "course")

	// 故意先插入 order 较大的课，验证排序不依赖主键
	in.L2 = model.Lesson{CourseID: in.Course.ID, Title: "Collections", Order: 2, Content: "## Sets"}
	must(db.Create(&in.L2).Error, "lesson 2")
	in.L1 = model.Lesson{CourseID: in.Course.ID, Title: "Basics", Order: 1, Content: "# Hello\n\n*world*"}
	must(db.Create(&in.L1).Error, "lesson 1")

	in.Text = model.Question{LessonID: in.L1.ID, Title: "Capital of France?", Order: 1, Type: model.QuestionText,
		PresetAnswer: &model.PresetAnswer{Text: "Paris"}}
	must(db.Create(&in.Text).Error, "text question")

	in.Boolean = model.Question{LessonID: in.L1.ID, Title: "Go has generics", Order: 2, Type: model.QuestionBoolean,
		PresetAnswer: &model.PresetAnswer{Boolean: true}}
	must(db.Create(&in.Boolean).Error, "boolean question")

	in.Single = model.Question{LessonID: in.L1.ID, Title: "2+2", Order: 3, Type: model.QuestionSingle,
		PresetAnswer: &model.PresetAnswer{}}
	must(db.Create(&in.Single).Error, "single question")
	in.SingleRight = model.PresetChoosableOption{QuestionID: in.Single.ID, Title: "4", IsCorrect: true}
	in.SingleWrong = model.PresetChoosableOption{QuestionID: in.Single.ID, Title: "5"}
	must(db.Create(&in.SingleRight).Error, "single option")
	must(db.Create(&in.SingleWrong).Error, "single option")

	in.Ungraded = model.Question{LessonID: in.L1.ID, Title: "Any feedback?", Order: 4, Type: model.QuestionText}
	must(db.Create(&in.Ungraded).Error, "ungraded question")

	in.Multi = model.Question{LessonID: in.L2.ID, Title: "Even numbers", Order: 1, Type: model.QuestionMulti,
		PresetAnswer: &model.PresetAnswer{}}
	must(db.Create(&in.Multi).Error, "multi question")
	in.MultiA = model.PresetChoosableOption{QuestionID: in.Multi.ID, Title: "2", IsCorrect: true}
	in.MultiB = model.PresetChoosableOption{QuestionID: in.Multi.ID, Title: "4", IsCorrect: true}
	in.MultiWrong = model.PresetChoosableOption{QuestionID: in.Multi.ID, Title: "3"}
	must(db.Create(&in.MultiA).Error, "multi option")
	must(db.Create(&in.MultiB).Error, "multi option")
	must(db.Create(&in.MultiWrong).Error, "multi option")

	in.Mapped = model.Question{LessonID: in.L2.ID, Title: "Sort the food", Order: 2, Type: model.QuestionMapped,
		PresetAnswer: &model.PresetAnswer{}}
	must(db.Create(&in.Mapped).Error, "mapped question")
	in.GroupFruit = model.PresetMappedOptionGroup{QuestionID: in.Mapped.ID, Title: "fruit"}
	in.GroupVeg = model.PresetMappedOptionGroup{QuestionID: in.Mapped.ID, Title: "vegetable"}
	must(db.Create(&in.GroupFruit).Error, "group")
	must(db.Create(&in.GroupVeg).Error, "group")
	in.Apple = model.PresetMappedOption{QuestionID: in.Mapped.ID, GroupID: in.GroupFruit.ID, Title: "apple"}
	in.Pear = model.PresetMappedOption{QuestionID: in.Mapped.ID, GroupID: in.GroupFruit.ID, Title: "pear"}
	in.Carrot = model.PresetMappedOption{QuestionID: in.Mapped.ID, GroupID: in.GroupVeg.ID, Title: "carrot"}
	must(db.Create(&in.Apple).Error, "mapped option")
	must(db.Create(&in.Pear).Error, "mapped option")
	must(db.Create(&in.Carrot).Error, "mapped option")

	return in
}
