package controller

import (
	"course_api_backend/internal/service"
	"course_api_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService   *service.CourseService
	ProgressService *service.ProgressService
}

func NewCourseController(courseService *service.CourseService, progressService *service.ProgressService) *CourseController {
	return &CourseController{
		CourseService:   courseService,
		ProgressService: progressService,
	}
}

// @Summary 课程列表
// @Description 全部课程，附带当前用户是否已开课、是否已完成
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.CourseListItem}
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}

	items, err := c.CourseService.List(ctx.Request.Context(), user.UserID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, items)
}

// @Summary 课程结构
// @Description 课程的课和题目（不含答案），仅对已开课且未完成的用户开放
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseSchemeView}
// @Failure 403 {object} util.Response "未开课或已完成"
// @Failure 404 {object} util.Response "课程不存在"
// @Router /api/courses/{id} [get]
func (c *CourseController) Scheme(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	scheme, err := c.CourseService.Scheme(ctx.Request.Context(), user.UserID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"course": scheme})
}

// @Summary 开始学习课程
// @Description 创建课程进度并开放第一课；重复开课返回 409
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 201 {object} util.Response{data=service.CourseProgressView}
// @Failure 403 {object} util.Response "课程没有任何课"
// @Failure 404 {object} util.Response "课程不存在"
// @Failure 409 {object} util.Response "课程已开始"
// @Router /api/courses/{id}/start [post]
func (c *CourseController) Start(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	view, err := c.ProgressService.StartCourse(ctx.Request.Context(), user.UserID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, view)
}

// @Summary 课程进度
// @Description 每节课的状态（locked/content-pending/test-pending/done）、当前课和课程是否完成
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseProgressView}
// @Failure 403 {object} util.Response "未开课"
// @Router /api/courses/{id}/progress [get]
func (c *CourseController) Progress(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	view, err := c.ProgressService.Summary(ctx.Request.Context(), user.UserID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}
