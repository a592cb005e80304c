package util

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// gin.Context 中保存的键
const (
	ContextUserKey = "user"
)
