package db

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pincode-distance/model"
)

// 连接重试 (容器启动时数据库可能还没准备好)
const (
	maxRetries    = 30
	retryInterval = 2 * time.Second
)

// InitDB 连接 PostgreSQL 并自动迁移表结构
func InitDB(dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true, // 唯一约束冲突转换为 gorm.ErrDuplicatedKey
	}

	var (
		conn *gorm.DB
		err  error
	)
	for i := 0; i < maxRetries; i++ {
		conn, err = gorm.Open(postgres.Open(dsn), cfg)
		if err == nil {
			break
		}
		log.Warn().Err(err).Msgf("等待数据库就绪... (%d/%d)", i+1, maxRetries)
		time.Sleep(retryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	// 自动迁移模式 (自动创建表结构)
	if err := conn.AutoMigrate(&model.User{}, &model.PostalRegion{}); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	log.Info().Msg("数据库连接并初始化成功")
	return conn, nil
}
