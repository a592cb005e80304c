package util

import "errors"

// 错误分类，控制器按这些类别决定 HTTP 状态码
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation error")
)

var (
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCourseNotFound     = errors.New("course not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrProgressNotFound   = errors.New("progress not found")
	ErrCourseStarted      = errors.New("course already started")
	ErrCourseUnavailable  = errors.New("course not started or already completed")
	ErrTestAlreadyPassed  = errors.New("test already completed")
	ErrProgressChanged    = errors.New("progress was changed by another request")
	ErrLessonOrderTaken   = errors.New("lesson order already used in this course")
	ErrUserDisabled       = errors.New("user is disabled")
)
