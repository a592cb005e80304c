package controller

import (
	"course_api_backend/internal/service"
	"course_api_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AdminController struct {
	CatalogService  *service.CatalogService
	ProgressService *service.ProgressService
}

func NewAdminController(catalogService *service.CatalogService, progressService *service.ProgressService) *AdminController {
	return &AdminController{
		CatalogService:  catalogService,
		ProgressService: progressService,
	}
}

// @Summary 创建课程
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateCourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/admin/courses [post]
func (c *AdminController) CreateCourse(ctx *gin.Context) {
	var req service.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CatalogService.CreateCourse(ctx.Request.Context(), &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// @Summary 删除课程
// @Description 同时删除课、题目以及所有用户在该课程中的进度和答案
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/admin/courses/{id} [delete]
func (c *AdminController) DeleteCourse(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	if err := c.CatalogService.DeleteCourse(ctx.Request.Context(), courseID); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// @Summary 添加课
// @Description order 省略时追加到课程末尾
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Param body body service.CreateLessonRequest true "课信息"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 409 {object} util.Response "order 已被占用"
// @Router /api/admin/courses/{id}/lessons [post]
func (c *AdminController) CreateLesson(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.CreateLessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.CatalogService.CreateLesson(ctx.Request.Context(), courseID, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// @Summary 添加题目
// @Description 创建题目及其预设答案、选项和分组
// @Tags 管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课ID"
// @Param body body service.CreateQuestionRequest true "题目信息"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response "题目定义不合法"
// @Failure 404 {object} util.Response "课不存在"
// @Router /api/admin/lessons/{id}/questions [post]
func (c *AdminController) CreateQuestion(ctx *gin.Context) {
	lessonID, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.CatalogService.CreateQuestion(ctx.Request.Context(), lessonID, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// @Summary 重新打开课进度
// @Description 将已完成的课退回未完成：清除两个完成标记，收回后续课的进度，课程恢复为未完成
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param id path int true "课进度ID"
// @Success 200 {object} util.Response{data=service.CourseProgressView}
// @Failure 404 {object} util.Response "进度不存在"
// @Failure 409 {object} util.Response "该课尚未完成"
// @Router /api/admin/lesson-progress/{id}/reopen [post]
func (c *AdminController) ReopenLessonProgress(ctx *gin.Context) {
	rowID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	view, err := c.ProgressService.Reopen(ctx.Request.Context(), rowID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
