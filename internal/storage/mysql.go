package storage

import (
	"fmt"
	"time"

	"resume-builder-go/internal/config"
	"resume-builder-go/internal/storage/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// MySQL 封装GORM连接
type MySQL struct {
	db  *gorm.DB
	cfg *config.MySQLConfig
}

// NewMySQL 创建MySQL连接并完成表结构迁移
func NewMySQL(cfg *config.MySQLConfig) (*MySQL, error) {
	if cfg == nil {
		return nil, fmt.Errorf("MySQL配置不能为空")
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds",
		cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database, connectTimeout(cfg))

	logLevel := gormlogger.Warn
	if cfg.LogLevel >= 1 && cfg.LogLevel <= 4 {
		logLevel = gormlogger.LogLevel(cfg.LogLevel)
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接MySQL失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层sql.DB失败: %w", err)
	}

	// 连接池设置
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetimeMinutes > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	// 迁移表结构
	if err := db.AutoMigrate(
		&models.User{},
		&models.PersonalDetail{},
		&models.ExperienceRow{},
		&models.SectionDocument{},
		&models.SkillSet{},
		&models.GeneratedDocument{},
	); err != nil {
		return nil, fmt.Errorf("迁移表结构失败: %w", err)
	}

	return &MySQL{db: db, cfg: cfg}, nil
}

func connectTimeout(cfg *config.MySQLConfig) int {
	if cfg.ConnectTimeoutSeconds > 0 {
		return cfg.ConnectTimeoutSeconds
	}
	return 5
}

// DB 返回GORM实例
func (m *MySQL) DB() *gorm.DB {
	return m.db
}

// Close 关闭连接池
func (m *MySQL) Close() error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
