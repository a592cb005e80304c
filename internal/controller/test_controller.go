package controller

import (
	"course_api_backend/internal/service"
	"course_api_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	TestService *service.TestService
}

func NewTestController(testService *service.TestService) *TestController {
	return &TestController{TestService: testService}
}

// @Summary 课后测验题目
// @Description 题目、选项和分组，不含正确答案；课文已读且测验未通过时可用
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "课ID"
// @Success 200 {object} util.Response{data=service.QuizView}
// @Failure 403 {object} util.Response "测验不可用"
// @Failure 404 {object} util.Response "课不存在"
// @Router /api/lessons/{id}/test [get]
func (c *TestController) Quiz(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	lessonID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	quiz, err := c.TestService.Quiz(ctx.Request.Context(), user.UserID, lessonID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// @Summary 暂存答案
// @Description 保存部分或全部答案，不判分；同一题重复提交会覆盖之前的答案
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课ID"
// @Param body body service.SubmitRequest true "答案"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response "答案格式错误"
// @Failure 403 {object} util.Response "测验不可用"
// @Failure 409 {object} util.Response "测验已通过"
// @Router /api/lessons/{id}/test/save [post]
func (c *TestController) Save(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	lessonID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	saved, err := c.TestService.SaveStage(ctx.Request.Context(), user.UserID, lessonID, &req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"saved": saved})
}

// @Summary 提交测验
// @Description 保存本次提交的答案（可省略请求体），然后按已保存的答案判分。
// @Description 未通过时返回 200 且 passed=false，可以修改答案后重新提交。
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课ID"
// @Param body body service.SubmitRequest false "答案"
// @Success 200 {object} util.Response{data=service.TestResult}
// @Failure 400 {object} util.Response "答案格式错误或未答完"
// @Failure 403 {object} util.Response "测验不可用"
// @Failure 409 {object} util.Response "测验已通过"
// @Router /api/lessons/{id}/test/complete [post]
func (c *TestController) Complete(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	lessonID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req *service.SubmitRequest
	if ctx.Request.ContentLength != 0 {
		req = &service.SubmitRequest{}
		if err := ctx.ShouldBindJSON(req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	result, err := c.TestService.CompleteTest(ctx.Request.Context(), user.UserID, lessonID, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, util.Response{
		Code:    http.StatusOK,
		Message: result.Message,
		Data:    result,
	})
}

// @Summary 测验提交记录
// @Description 本课的历史判分记录，最近的在前
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "课ID"
// @Success 200 {object} util.Response{data=[]model.TestAttempt}
// @Failure 403 {object} util.Response "未开课"
// @Router /api/lessons/{id}/test/attempts [get]
func (c *TestController) Attempts(ctx *gin.Context) {
	user, ok := requireUser(ctx)
	if !ok {
		return
	}
	lessonID, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	attempts, err := c.TestService.Attempts(ctx.Request.Context(), user.UserID, lessonID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}
