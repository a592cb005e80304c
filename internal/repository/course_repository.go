package repository

import (
	"context"
	"course_api_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// WithTx 返回绑定到事务的仓储
func (r *CourseRepository) WithTx(tx *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: tx}
}

func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC").Order("id ASC")
}

func (r *CourseRepository) List(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindByID(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).First(&course, id).Error
	return &course, err
}

// FindScheme 课程结构：课程 → 课 → 题目 → 选项/分组，均按位置排序，不含正确答案
func (r *CourseRepository) FindScheme(ctx context.Context, id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.WithContext(ctx).
		Preload("Lessons", orderByPosition).
		Preload("Lessons.Questions", orderByPosition).
		Preload("Lessons.Questions.Options").
		Preload("Lessons.Questions.MappedGroups").
		Preload("Lessons.Questions.MappedOptions").
		First(&course, id).Error
	return &course, err
}

// ListLessons 只取排序需要的字段
func (r *CourseRepository) ListLessons(ctx context.Context, courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.WithContext(ctx).
		Select("id", "course_id", "title", "position").
		Where("course_id = ?", courseID).
		Scopes(orderByPosition).
		Find(&lessons).Error
	return lessons, err
}

func (r *CourseRepository) FindLesson(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).First(&lesson, id).Error
	return &lesson, err
}

// FindLessonWithQuiz 加载课及其全部题目和判分所需的预设数据
func (r *CourseRepository) FindLessonWithQuiz(ctx context.Context, id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.WithContext(ctx).
		Preload("Questions", orderByPosition).
		Preload("Questions.PresetAnswer").
		Preload("Questions.Options").
		Preload("Questions.MappedGroups").
		Preload("Questions.MappedOptions").
		First(&lesson, id).Error
	return &lesson, err
}

func (r *CourseRepository) Create(ctx context.Context, course *model.Course) error {
	return r.DB.WithContext(ctx).Create(course).Error
}

// Delete 物理删除，课、题目、进度等通过外键级联删除
func (r *CourseRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.DB.WithContext(ctx).Delete(&model.Course{}, id)
	return res.RowsAffected, res.Error
}

func (r *CourseRepository) CreateLesson(ctx context.Context, lesson *model.Lesson) error {
	return r.DB.WithContext(ctx).Create(lesson).Error
}

// NextLessonOrder 课程中下一个可用的位置
func (r *CourseRepository) NextLessonOrder(ctx context.Context, courseID uint) (int, error) {
	var max int
	err := r.DB.WithContext(ctx).Model(&model.Lesson{}).
		Where("course_id = ?", courseID).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error
	return max + 1, err
}

func (r *CourseRepository) CreateQuestion(ctx context.Context, q *model.Question) error {
	return r.DB.WithContext(ctx).Omit("Options", "MappedGroups", "MappedOptions").Create(q).Error
}

func (r *CourseRepository) CreateOptions(ctx context.Context, opts []model.PresetChoosableOption) error {
	if len(opts) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&opts).Error
}

func (r *CourseRepository) CreateGroup(ctx context.Context, g *model.PresetMappedOptionGroup) error {
	return r.DB.WithContext(ctx).Create(g).Error
}

func (r *CourseRepository) CreateMappedOptions(ctx context.Context, opts []model.PresetMappedOption) error {
	if len(opts) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Omit("Group").Create(&opts).Error
}
