package algo

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"pincode-distance/model"
	"pincode-distance/utils"
)

// kmPerDegree 球面模型下 1 度纬度对应的距离 (千米)
const kmPerDegree = utils.EarthRadiusKm * math.Pi / 180.0

// regionItem R 树中的一个代表点
type regionItem struct {
	rect  rtreego.Rect
	point model.ResolvedPoint
}

func (i *regionItem) Bounds() rtreego.Rect {
	return i.rect
}

// Neighbor 半径查询结果
type Neighbor struct {
	model.ResolvedPoint
	DistanceKm float64 `json:"distance_km"`
}

// RadiusIndex 基于 R 树的半径查询：先用经纬度包围盒粗筛，再用大圆距离精确过滤
type RadiusIndex struct {
	tree *rtreego.Rtree
	size int
}

// NewRadiusIndex 用一次加载得到的映射构建索引 (随请求丢弃)
func NewRadiusIndex(regions model.RegionMap) *RadiusIndex {
	// dim = 2 (经度, 纬度)
	tree := rtreego.NewTree(2, 25, 50)
	for _, p := range regions {
		// 点存成极小的矩形
		rect, err := rtreego.NewRect(rtreego.Point{p.Lon, p.Lat}, []float64{1e-9, 1e-9})
		if err != nil {
			continue
		}
		tree.Insert(&regionItem{rect: rect, point: p})
	}
	return &RadiusIndex{tree: tree, size: len(regions)}
}

// Size 索引中的点数
func (idx *RadiusIndex) Size() int {
	return idx.size
}

// Within 返回与 (lat, lon) 的大圆距离不超过 radiusKm 的所有点，按距离升序
func (idx *RadiusIndex) Within(lat, lon, radiusKm float64) []Neighbor {
	if radiusKm < 0 || idx.size == 0 {
		return nil
	}

	dLat := radiusKm / kmPerDegree
	minLat := math.Max(-90, lat-dLat)
	maxLat := math.Min(90, lat+dLat)

	// 高纬度或跨越 ±180 经线时直接搜索整个经度范围
	minLon, maxLon := -180.0, 180.0
	if cosLat := math.Cos(utils.DegreesToRadians(math.Max(math.Abs(minLat), math.Abs(maxLat)))); cosLat > 1e-6 {
		dLon := dLat / cosLat
		if lon-dLon >= -180 && lon+dLon <= 180 {
			minLon, maxLon = lon-dLon, lon+dLon
		}
	}

	searchRect, err := rtreego.NewRect(
		rtreego.Point{minLon, minLat},
		[]float64{math.Max(maxLon-minLon, 1e-9), math.Max(maxLat-minLat, 1e-9)},
	)
	if err != nil {
		return nil
	}

	var out []Neighbor
	for _, s := range idx.tree.SearchIntersect(searchRect) {
		item := s.(*regionItem)
		d := utils.GreatCircleKm(lat, lon, item.point.Lat, item.point.Lon)
		if d <= radiusKm {
			out = append(out, Neighbor{ResolvedPoint: item.point, DistanceKm: d})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DistanceKm != out[j].DistanceKm {
			return out[i].DistanceKm < out[j].DistanceKm
		}
		return out[i].Pincode < out[j].Pincode
	})
	return out
}
