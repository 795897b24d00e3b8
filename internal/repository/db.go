package repository

import (
	"fmt"
	"log"
	"os"
	"strings"

	"GISourceSync/internal/config"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDialector 按 catalog.driver 选择 GORM 方言
func NewDialector(cfg *config.CatalogConfig) (gorm.Dialector, error) {
	switch strings.ToLower(cfg.Driver) {
	case config.DriverMySQL:
		return mysql.Open(cfg.DSN), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("catalog.driver=%s 不是数据库驱动", cfg.Driver)
	}
}

// OpenCatalogDB 连接 GISource 库并配置连接池（库表由外部系统维护，这里不做迁移）
func OpenCatalogDB(cfg *config.Config, logrusLogger *logrus.Logger) (*gorm.DB, error) {
	dialector, err := NewDialector(&cfg.Catalog)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             cfg.Catalog.SlowThreshold,
			LogLevel:                  cfg.Log.GetGORMLogLevel(),
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("连接GISource库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Catalog.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Catalog.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Catalog.ConnMaxLifetime)

	logrusLogger.WithField("driver", cfg.Catalog.Driver).Info("GISource库连接成功")
	return db, nil
}
