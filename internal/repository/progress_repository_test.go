package repository

import (
	"context"
	"testing"

	"course_api_backend/internal/model"
	"course_api_backend/internal/repository/testutil"
)

func TestGetOrCreateCourseProgressIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, ctx, db, "a@example.com", model.Student)
	course := testutil.SeedCourse(t, ctx, db, "Go", 1, 2)
	repo := NewProgressRepository(db)

	first, created, err := repo.GetOrCreateCourseProgress(ctx, user.ID, course.ID)
	if err != nil || !created {
		t.Fatalf("first GetOrCreate = (%v, %v), want created", created, err)
	}
	second, created, err := repo.GetOrCreateCourseProgress(ctx, user.ID, course.ID)
	if err != nil {
		t.Fatalf("second GetOrCreate: %v", err)
	}
	if created {
		t.Fatalf("second GetOrCreate reported created")
	}
	if second.ID != first.ID {
		t.Fatalf("ID = %d, want %d", second.ID, first.ID)
	}

	var n int64
	db.Model(&model.CoursePersonalProgress{}).Count(&n)
	if n != 1 {
		t.Fatalf("course progress rows = %d, want 1", n)
	}
}

func TestUpdateLessonFlagsOnlyIfIncomplete(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, ctx, db, "a@example.com", model.Student)
	course := testutil.SeedCourse(t, ctx, db, "Go", 1)
	repo := NewProgressRepository(db)

	cp, _, err := repo.GetOrCreateCourseProgress(ctx, user.ID, course.ID)
	if err != nil {
		t.Fatalf("course progress: %v", err)
	}
	row, created, err := repo.GetOrCreateLessonProgress(ctx, cp.ID, course.Lessons[0].ID)
	if err != nil || !created {
		t.Fatalf("lesson progress = (%v, %v)", created, err)
	}

	n, err := repo.UpdateLessonFlags(ctx, row.ID, true, true, true, true)
	if err != nil || n != 1 {
		t.Fatalf("first completion affected %d rows (err %v), want 1", n, err)
	}
	n, err = repo.UpdateLessonFlags(ctx, row.ID, true, true, true, true)
	if err != nil || n != 0 {
		t.Fatalf("second completion affected %d rows (err %v), want 0", n, err)
	}

	got, err := repo.FindLessonProgress(ctx, row.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !got.Completed || !got.TestPartCompleted || !got.LessonPartCompleted {
		t.Fatalf("row = %+v, want all flags set", got)
	}
}

func TestDeleteCourseCascadesToProgress(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, ctx, db, "a@example.com", model.Student)
	course := testutil.SeedCourse(t, ctx, db, "Go", 1, 2)
	progressRepo := NewProgressRepository(db)
	courseRepo := NewCourseRepository(db)

	cp, _, err := progressRepo.GetOrCreateCourseProgress(ctx, user.ID, course.ID)
	if err != nil {
		t.Fatalf("course progress: %v", err)
	}
	if _, _, err := progressRepo.GetOrCreateLessonProgress(ctx, cp.ID, course.Lessons[0].ID); err != nil {
		t.Fatalf("lesson progress: %v", err)
	}

	if n, err := courseRepo.Delete(ctx, course.ID); err != nil || n != 1 {
		t.Fatalf("Delete = (%d, %v)", n, err)
	}

	for _, m := range []interface{}{&model.Lesson{}, &model.CoursePersonalProgress{}, &model.LessonPersonalProgress{}} {
		var n int64
		db.Model(m).Count(&n)
		if n != 0 {
			t.Fatalf("%T rows = %d after course delete, want 0", m, n)
		}
	}
}

func TestDeleteLessonProgress(t *testing.T) {
	ctx := context.Background()
	db := testutil.DB(t)
	user := testutil.SeedUser(t, ctx, db, "a@example.com", model.Student)
	course := testutil.SeedCourse(t, ctx, db, "Go", 1, 2, 3)
	repo := NewProgressRepository(db)

	cp, _, _ := repo.GetOrCreateCourseProgress(ctx, user.ID, course.ID)
	for _, l := range course.Lessons {
		if _, _, err := repo.GetOrCreateLessonProgress(ctx, cp.ID, l.ID); err != nil {
			t.Fatalf("lesson progress: %v", err)
		}
	}

	if err := repo.DeleteLessonProgress(ctx, cp.ID, []uint{course.Lessons[1].ID, course.Lessons[2].ID}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	rows, err := repo.ListLessonProgress(ctx, cp.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].LessonID != course.Lessons[0].ID {
		t.Fatalf("rows = %+v, want only the first lesson", rows)
	}
}
