package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"pincode-distance/algo"
	"pincode-distance/metrics"
	"pincode-distance/model"
	"pincode-distance/utils"
)

// MaxRadiusKm 半径查询允许的最大半径
const MaxRadiusKm = 500.0

// DetailRow 明细表中的一行
type DetailRow struct {
	Pincode int `json:"pincode"`
	model.RegionDetails
}

// DistanceResult 两个邮编之间的距离与明细
type DistanceResult struct {
	From       int         `json:"from"`
	To         int         `json:"to"`
	DistanceKm float64     `json:"distance_km"` // 已舍入到 2 位小数
	Details    []DetailRow `json:"details"`
}

// Message 展示给用户的结果文字
func (r *DistanceResult) Message() string {
	return fmt.Sprintf("Distance between %d and %d: %s km", r.From, r.To, formatKm(r.DistanceKm))
}

// formatKm 最短表示，至少保留一位小数 (0 -> "0.0", 1150 -> "1150.0")
func formatKm(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// NearbyResult 半径查询结果
type NearbyResult struct {
	Origin   model.ResolvedPoint `json:"origin"`
	RadiusKm float64             `json:"radius_km"`
	Nearby   []algo.Neighbor     `json:"nearby"`
}

// DistanceService 每次请求都从数据源全量加载，映射只在本次请求内使用
type DistanceService struct {
	source algo.RegionSource
}

func New(source algo.RegionSource) *DistanceService {
	return &DistanceService{source: source}
}

// load 全量加载并记录指标
func (s *DistanceService) load(ctx context.Context) (model.RegionMap, error) {
	start := time.Now()
	regions, stats, err := algo.LoadRegions(ctx, s.source)
	metrics.LoadDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RegionLoadsTotal.WithLabelValues("error").Inc()
		log.Error().Err(err).Msg("加载邮编区域失败")
		return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	metrics.RegionLoadsTotal.WithLabelValues("ok").Inc()
	for reason, n := range stats.Skipped {
		metrics.RecordsSkippedTotal.WithLabelValues(reason).Add(float64(n))
	}

	if len(regions) == 0 {
		return nil, ErrNoRegions
	}
	return regions, nil
}

// Calculate 计算两个邮编代表点之间的大圆距离
// 任一输入无法解析时不访问数据源
func (s *DistanceService) Calculate(ctx context.Context, fromText, toText string) (*DistanceResult, error) {
	result, err := s.calculate(ctx, fromText, toText)
	metrics.DistanceRequestsTotal.WithLabelValues(outcome(err)).Inc()
	return result, err
}

func (s *DistanceService) calculate(ctx context.Context, fromText, toText string) (*DistanceResult, error) {
	from, errFrom := algo.ParsePincode(fromText)
	to, errTo := algo.ParsePincode(toText)
	if errFrom != nil || errTo != nil {
		return nil, ErrInvalidPincode
	}

	regions, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	p1, ok1 := regions[from]
	p2, ok2 := regions[to]
	if !ok1 || !ok2 {
		return nil, ErrPincodeNotFound
	}

	km := utils.GreatCircleKm(p1.Lat, p1.Lon, p2.Lat, p2.Lon)
	return &DistanceResult{
		From:       from,
		To:         to,
		DistanceKm: utils.RoundTo(km, 2),
		Details: []DetailRow{
			{Pincode: from, RegionDetails: p1.RegionDetails},
			{Pincode: to, RegionDetails: p2.RegionDetails},
		},
	}, nil
}

// Lookup 单个邮编的代表点与描述信息
func (s *DistanceService) Lookup(ctx context.Context, codeText string) (*model.ResolvedPoint, error) {
	code, err := algo.ParsePincode(codeText)
	if err != nil {
		return nil, ErrInvalidPincode
	}

	regions, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	p, ok := regions[code]
	if !ok {
		return nil, ErrPincodeNotFound
	}
	return &p, nil
}

// Nearby 代表点与给定邮编距离不超过 radiusKm 的其他邮编
func (s *DistanceService) Nearby(ctx context.Context, codeText string, radiusKm float64) (*NearbyResult, error) {
	code, err := algo.ParsePincode(codeText)
	if err != nil {
		return nil, ErrInvalidPincode
	}
	if !(radiusKm > 0 && radiusKm <= MaxRadiusKm) {
		return nil, ErrInvalidRadius
	}

	regions, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	origin, ok := regions[code]
	if !ok {
		return nil, ErrPincodeNotFound
	}

	idx := algo.NewRadiusIndex(regions)
	nearby := make([]algo.Neighbor, 0)
	for _, n := range idx.Within(origin.Lat, origin.Lon, radiusKm) {
		if n.Pincode == code {
			continue
		}
		n.DistanceKm = utils.RoundTo(n.DistanceKm, 2)
		nearby = append(nearby, n)
	}

	return &NearbyResult{Origin: origin, RadiusKm: radiusKm, Nearby: nearby}, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidPincode):
		return "invalid_input"
	case errors.Is(err, ErrNoRegions):
		return "no_regions"
	case errors.Is(err, ErrPincodeNotFound):
		return "not_found"
	default:
		return "source_error"
	}
}
