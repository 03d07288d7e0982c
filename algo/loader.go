package algo

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	"github.com/rs/zerolog/log"

	"pincode-distance/model"
	"pincode-distance/utils"
)

// RegionSource 外部数据源：能够枚举全部邮编区域记录即可
type RegionSource interface {
	ListRegions(ctx context.Context) ([]model.PostalRegionRecord, error)
}

// RegionWriter 支持写入的数据源 (导入数据时使用)
type RegionWriter interface {
	UpsertRegions(ctx context.Context, records []model.PostalRegionRecord) (int, error)
}

// 记录被过滤的原因
const (
	SkipBadPincode          = "bad_pincode"
	SkipMissingGeometry     = "missing_geometry"
	SkipUnsupportedGeometry = "unsupported_geometry"
	SkipInvalidGeometry     = "invalid_geometry"
)

// LoadStats 一次加载的统计
type LoadStats struct {
	Total   int
	Kept    int
	Skipped map[string]int // 原因 -> 数量
}

// ParsePincode 解析邮编 (允许首尾空白)
func ParsePincode(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

// TryResolve 把一条记录化简为代表点；记录不可用时返回 false
func TryResolve(rec model.PostalRegionRecord) (model.ResolvedPoint, bool) {
	p, reason := resolve(rec)
	return p, reason == ""
}

// resolve 返回代表点，或记录被过滤的原因
func resolve(rec model.PostalRegionRecord) (model.ResolvedPoint, string) {
	pincode, err := ParsePincode(rec.Name)
	if err != nil {
		return model.ResolvedPoint{}, SkipBadPincode
	}
	if len(rec.Geometry) == 0 {
		return model.ResolvedPoint{}, SkipMissingGeometry
	}

	g, err := geojson.UnmarshalGeometry(rec.Geometry)
	if err != nil {
		// 未知类型 (如 GeometryCollection) 与 JSON 本身损坏都算作不支持
		return model.ResolvedPoint{}, SkipUnsupportedGeometry
	}
	if g == nil || g.Geometry() == nil {
		return model.ResolvedPoint{}, SkipMissingGeometry
	}

	switch geom := g.Geometry().(type) {
	case orb.Polygon:
		if !usablePolygon(geom) {
			return model.ResolvedPoint{}, SkipInvalidGeometry
		}
	case orb.MultiPolygon:
		if len(geom) == 0 {
			return model.ResolvedPoint{}, SkipInvalidGeometry
		}
		for _, poly := range geom {
			if !usablePolygon(poly) {
				return model.ResolvedPoint{}, SkipInvalidGeometry
			}
		}
	default:
		return model.ResolvedPoint{}, SkipUnsupportedGeometry
	}

	centroid, _ := planar.CentroidArea(g.Geometry())
	lat, lon := centroid.Y(), centroid.X()
	if !utils.ValidLatLon(lat, lon) {
		return model.ResolvedPoint{}, SkipInvalidGeometry
	}

	return model.ResolvedPoint{
		Pincode:       pincode,
		Lat:           lat,
		Lon:           lon,
		RegionDetails: rec.Details(),
	}, ""
}

// usablePolygon 多边形非空且每个环闭合后至少 4 个坐标
func usablePolygon(p orb.Polygon) bool {
	if len(p) == 0 {
		return false
	}
	for _, r := range p {
		if !usableRing(r) {
			return false
		}
	}
	return true
}

// usableRing 未闭合的环按补上首点计算坐标数
func usableRing(r orb.Ring) bool {
	n := len(r)
	if n > 0 && !r.Closed() {
		n++
	}
	return n >= 4
}

// ResolveAll 对每条记录独立执行 TryResolve，坏记录只影响自己
// 同一邮编出现多次时以最后一条为准
func ResolveAll(records []model.PostalRegionRecord) (model.RegionMap, LoadStats) {
	regions := make(model.RegionMap, len(records))
	stats := LoadStats{Total: len(records), Skipped: make(map[string]int)}

	for _, rec := range records {
		p, reason := resolve(rec)
		if reason != "" {
			stats.Skipped[reason]++
			log.Debug().Str("name", rec.Name).Str("reason", reason).Msg("跳过邮编记录")
			continue
		}
		regions[p.Pincode] = p
	}
	stats.Kept = len(regions)

	return regions, stats
}

// LoadRegions 从数据源全量读取并构建 邮编 -> 代表点 映射
// 每次调用都重新读取，不做缓存
func LoadRegions(ctx context.Context, src RegionSource) (model.RegionMap, LoadStats, error) {
	records, err := src.ListRegions(ctx)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("读取邮编区域失败: %w", err)
	}

	regions, stats := ResolveAll(records)
	log.Info().
		Int("total", stats.Total).
		Int("kept", stats.Kept).
		Interface("skipped", stats.Skipped).
		Msg("邮编区域加载完成")

	return regions, stats, nil
}
