package database

import (
	"course_api_backend/internal/config"
	"course_api_backend/internal/model"
	"course_api_backend/internal/util"
	"course_api_backend/pkg/logger"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Models 需要自动迁移的全部模型，顺序即建表顺序
var Models = []interface{}{
	&model.User{},
	&model.Course{},
	&model.Lesson{},
	&model.Question{},
	&model.PresetAnswer{},
	&model.PresetChoosableOption{},
	&model.PresetMappedOptionGroup{},
	&model.PresetMappedOption{},
	&model.CoursePersonalProgress{},
	&model.LessonPersonalProgress{},
	&model.MappedAnswer{},
	&model.Answer{},
	&model.TestAttempt{},
}

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := dialectorFor(&cfg.Database)
	if err != nil {
		return nil, err
	}

	logLevel := gormlogger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	logger.Log.Info("Database connection established", zap.String("driver", cfg.Database.Driver))

	// release 模式下默认不迁移，除非显式指定 -migrate
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		logger.Log.Info("Database migration completed")
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case util.DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	case util.DriverSQLite:
		// 外键默认关闭，级联删除依赖它
		return sqlite.Open(fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", cfg.Path)), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}
