package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"pincode-distance/algo"
	"pincode-distance/model"
)

// ImportResult 导入统计
type ImportResult struct {
	Received int `json:"received"`
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// Import 把可解析的记录写入数据源；无法解析的记录不写入，只计数
func (s *DistanceService) Import(ctx context.Context, records []model.PostalRegionRecord) (*ImportResult, error) {
	w, ok := s.source.(algo.RegionWriter)
	if !ok {
		return nil, ErrImportUnsupported
	}

	usable := dedupeRecords(records)

	n, err := w.UpsertRegions(ctx, usable)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	res := &ImportResult{Received: len(records), Imported: n, Skipped: len(records) - n}
	log.Info().
		Int("received", res.Received).
		Int("imported", res.Imported).
		Int("skipped", res.Skipped).
		Msg("邮编区域导入完成")
	return res, nil
}

// dedupeRecords 过滤无法解析的记录，并按邮编去重 (后出现的覆盖先出现的，位置保留首次出现处)
// 同一批 upsert 中不能出现重复主键，邮编统一写成规范的十进制文本
func dedupeRecords(records []model.PostalRegionRecord) []model.PostalRegionRecord {
	usable := make([]model.PostalRegionRecord, 0, len(records))
	index := make(map[int]int, len(records))
	for _, rec := range records {
		p, ok := algo.TryResolve(rec)
		if !ok {
			continue
		}
		rec.Name = strconv.Itoa(p.Pincode)
		if i, seen := index[p.Pincode]; seen {
			usable[i] = rec
			continue
		}
		index[p.Pincode] = len(usable)
		usable = append(usable, rec)
	}
	return usable
}
