package model

import "time"

// PostalRegionRecord 外部数据源中的一条邮编区域记录 (原样读取，尚未校验)
type PostalRegionRecord struct {
	Name            string // 邮编，可能是数字字符串，也可能是脏数据
	Geometry        []byte // GeoJSON 几何体 (Polygon / MultiPolygon)，缺失时为 nil
	District        string
	State           string
	PincodeCategory string
	Area            string
}

// RegionDetails 邮编的描述信息 (从记录中原样复制)
type RegionDetails struct {
	District        string `json:"district"`
	State           string `json:"state"`
	PincodeCategory string `json:"pincode_category"`
	Area            string `json:"area"`
}

// ResolvedPoint 由一条记录的几何中心推导出的代表点
type ResolvedPoint struct {
	Pincode int     `json:"pincode"`
	Lat     float64 `json:"lat"` // 质心 Y
	Lon     float64 `json:"lon"` // 质心 X
	RegionDetails
}

// RegionMap 邮编 -> 代表点，每次请求重新构建，不跨请求共享
type RegionMap map[int]ResolvedPoint

// Details 返回记录的描述信息
func (r PostalRegionRecord) Details() RegionDetails {
	return RegionDetails{
		District:        r.District,
		State:           r.State,
		PincodeCategory: r.PincodeCategory,
		Area:            r.Area,
	}
}

// PostalRegion postal_regions 表的行结构 (PostgreSQL 数据源)
type PostalRegion struct {
	Name            string    `json:"name" gorm:"primaryKey"`
	Geometry        *string   `json:"geometry_fixed" gorm:"column:geometry_fixed;type:jsonb"` // 可为 NULL
	District        string    `json:"district" gorm:"index"`
	State           string    `json:"state" gorm:"index"`
	PincodeCategory string    `json:"pincode_category"`
	Area            string    `json:"area"`
	UpdatedAt       time.Time `json:"-"`
}

// ToRecord 转换为数据源无关的记录
func (p PostalRegion) ToRecord() PostalRegionRecord {
	rec := PostalRegionRecord{
		Name:            p.Name,
		District:        p.District,
		State:           p.State,
		PincodeCategory: p.PincodeCategory,
		Area:            p.Area,
	}
	if p.Geometry != nil && *p.Geometry != "" {
		rec.Geometry = []byte(*p.Geometry)
	}
	return rec
}

// PostalRegionFromRecord 由记录构造表行，用于导入
func PostalRegionFromRecord(r PostalRegionRecord) PostalRegion {
	var geometry *string
	if len(r.Geometry) > 0 {
		g := string(r.Geometry)
		geometry = &g
	}
	return PostalRegion{
		Name:            r.Name,
		Geometry:        geometry,
		District:        r.District,
		State:           r.State,
		PincodeCategory: r.PincodeCategory,
		Area:            r.Area,
	}
}
