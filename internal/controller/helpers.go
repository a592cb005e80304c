package controller

import (
	"course_api_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// requireUser 读取认证中间件放入的用户，缺失时直接返回 401
func requireUser(ctx *gin.Context) (*util.Claims, bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return nil, false
	}
	return user, true
}

// pathID 读取路径中的 ID，不合法时直接返回 400
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := util.ParamID(ctx, name)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return 0, false
	}
	return id, true
}
