package controller

import (
	"course_api_backend/internal/service"
	"course_api_backend/internal/util"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	LessonService *service.LessonService
}

func NewLessonController(lessonService *service.LessonService) *LessonController {
	return &LessonController{LessonService: lessonService}
}

// @Summary 课文内容
// @Description 返回 Markdown 原文和渲染后的 HTML，仅当前可学的课可以读取
// @Tags 课
// @Produce json
// @Security BearerAuth
// @Param id path int true "课ID"
// @Success 200 {object} util.Response{data=service.LessonContentView}
// @Failure 403 {object} util.Response "当前无法访问该课"
// @Failure 404 {object} util.Response "课不存在"
// @Router /api/lessons/{id} [get]
func (c *LessonController) Content(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	lessonID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	view, err := c.LessonService.Content(ctx.Request.Context(), user.UserID, lessonID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// @Summary 完成课文学习
// @Description 标记课文已读，之后可以进行课后测验
// @Tags 课
// @Produce json
// @Security BearerAuth
// @Param id path int true "课ID"
// @Success 200 {object} util.Response{data=service.LessonStateView}
// @Failure 403 {object} util.Response "当前无法访问该课"
// @Failure 409 {object} util.Response "课文已标记为已读"
// @Router /api/lessons/{id}/complete [post]
func (c *LessonController) Complete(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	lessonID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	view, err := c.LessonService.CompleteContent(ctx.Request.Context(), user.UserID, lessonID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, util.Response{
		Code:    http.StatusOK,
		Message: fmt.Sprintf("lesson %q completed", view.Title),
		Data:    view,
	})
}
