package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pincode-distance/model"
)

// regionColumns 加载时只读取需要的列
var regionColumns = []string{"name", "geometry_fixed", "district", "state", "pincode_category", "area"}

// PostgresSource 以 postal_regions 表作为邮编区域数据源
type PostgresSource struct {
	db *gorm.DB
}

func NewPostgresSource(db *gorm.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// ListRegions 读取全部记录
func (s *PostgresSource) ListRegions(ctx context.Context) ([]model.PostalRegionRecord, error) {
	var rows []model.PostalRegion
	if err := s.db.WithContext(ctx).Select(regionColumns).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("查询 postal_regions 失败: %w", err)
	}

	records := make([]model.PostalRegionRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.ToRecord())
	}
	return records, nil
}

// UpsertRegions 按邮编插入或覆盖
// 同一条 INSERT ... ON CONFLICT 不能两次命中同一主键，重复的邮编只保留最后一条
func (s *PostgresSource) UpsertRegions(ctx context.Context, records []model.PostalRegionRecord) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	rows := make([]model.PostalRegion, 0, len(records))
	index := make(map[string]int, len(records))
	for _, r := range records {
		row := model.PostalRegionFromRecord(r)
		if i, ok := index[row.Name]; ok {
			rows[i] = row
			continue
		}
		index[row.Name] = len(rows)
		rows = append(rows, row)
	}

	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			UpdateAll: true,
		}).
		CreateInBatches(rows, 100).Error
	if err != nil {
		return 0, fmt.Errorf("写入 postal_regions 失败: %w", err)
	}
	return len(rows), nil
}

// Count 表中记录数
func (s *PostgresSource) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&model.PostalRegion{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("统计 postal_regions 失败: %w", err)
	}
	return n, nil
}
