package db

import (
	"fmt"
	"os"
	"strconv"

	"github.com/paulmach/orb/geojson"

	"pincode-distance/model"
)

// ParseFeatureCollection 把 GeoJSON FeatureCollection 转换为邮编区域记录
// properties 中的 name / district / state / pincode_category / area 对应记录字段
func ParseFeatureCollection(data []byte) ([]model.PostalRegionRecord, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("解析 GeoJSON 失败: %w", err)
	}

	records := make([]model.PostalRegionRecord, 0, len(fc.Features))
	for _, f := range fc.Features {
		rec := model.PostalRegionRecord{
			Name:            propText(f.Properties, "name"),
			District:        propText(f.Properties, "district"),
			State:           propText(f.Properties, "state"),
			PincodeCategory: propText(f.Properties, "pincode_category"),
			Area:            propText(f.Properties, "area"),
		}
		if f.Geometry != nil {
			js, err := geojson.NewGeometry(f.Geometry).MarshalJSON()
			if err != nil {
				return nil, fmt.Errorf("序列化邮编 %s 的几何体失败: %w", rec.Name, err)
			}
			rec.Geometry = js
		}
		records = append(records, rec)
	}
	return records, nil
}

// ReadFeatureCollectionFile 从文件读取 FeatureCollection
func ReadFeatureCollectionFile(path string) ([]model.PostalRegionRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取文件失败: %w", err)
	}
	return ParseFeatureCollection(data)
}

func propText(props geojson.Properties, key string) string {
	switch v := props[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
